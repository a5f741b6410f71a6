package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/auth"
	httpadapter "github.com/jsamuelsen/supplier-catalog/internal/adapters/http"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/persistence/memory"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/ratelimit"
	"github.com/jsamuelsen/supplier-catalog/internal/app"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

const (
	adminEmail    = "ops@supplier.example"
	adminPassword = "correct horse battery"
	defaultIP     = "192.0.2.10"
)

// fakeClock is shared by the service and the rate-limit store so scenarios
// can move time forward.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.now = c.now.Add(d)
}

// switchNotifier fails while failing is set.
type switchNotifier struct {
	failing atomic.Bool
	sent    atomic.Int32
}

func (n *switchNotifier) Notify(context.Context, *domain.QuoteRequest, []domain.Recipient) error {
	if n.failing.Load() {
		return domain.NewUnavailableError("smtp", "relay refused connection")
	}

	n.sent.Add(1)

	return nil
}

// testContext holds one scenario's service and last response.
type testContext struct {
	clock    *fakeClock
	repo     *memory.QuoteRepository
	notifier *switchNotifier
	intake   *app.IntakeService
	server   *httptest.Server
	client   *http.Client

	token        string
	lastQuoteID  string
	response     *http.Response
	responseBody []byte
}

func (tc *testContext) start() {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tc.clock = &fakeClock{now: time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)}
	tc.repo = memory.NewQuoteRepository()
	tc.notifier = &switchNotifier{}
	tc.client = &http.Client{Timeout: 10 * time.Second}

	dispatcher := app.NewNotificationDispatcher(app.NotificationConfig{
		Notifier:        tc.notifier,
		Repository:      tc.repo,
		StaffRecipients: []string{"sales@supplier.example"},
		Clock:           tc.clock.Now,
		Logger:          logger,
	})

	tc.intake = app.NewIntakeService(app.IntakeServiceConfig{
		Repository:    tc.repo,
		RateLimiter:   ratelimit.NewMemoryStore(ratelimit.WithClock(tc.clock.Now)),
		Notifications: dispatcher,
		Gate:          app.DefaultGateConfig(),
		Clock:         tc.clock.Now,
		Logger:        logger,
	})

	authService := app.NewAuthService(app.AuthServiceConfig{
		Admins: memory.NewAdminRepository(),
		Hasher: auth.NewBcryptHasher(4),
		Tokens: auth.NewTokenManager(auth.TokenConfig{Secret: "godog-secret", Issuer: "supplier-catalog"}),
		Logger: logger,
	})
	_ = authService.SeedAdmin(context.Background(), adminEmail, adminPassword)

	adminService := app.NewAdminService(app.AdminServiceConfig{
		Repository:    tc.repo,
		Notifications: dispatcher,
		Clock:         tc.clock.Now,
		Logger:        logger,
	})

	gin.SetMode(gin.TestMode)
	engine := gin.New()
	httpadapter.SetupRouter(engine, httpadapter.RouterConfig{
		Logger:        logger,
		ServiceName:   "supplier-catalog",
		Health:        handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.NewBuildInfo("test", "", ""), nil),
		Intake:        handlers.NewIntakeHandler(tc.intake, true, time.Hour),
		Admin:         handlers.NewAdminHandler(adminService, authService),
		Authenticator: authService,
	})

	tc.server = httptest.NewServer(engine)
}

func (tc *testContext) stop() {
	if tc.response != nil && tc.response.Body != nil {
		_ = tc.response.Body.Close()
	}

	if tc.intake != nil {
		tc.intake.Wait()
	}

	if tc.server != nil {
		tc.server.Close()
	}
}

// InitializeScenario registers step definitions for each scenario.
func InitializeScenario(ctx *godog.ScenarioContext) {
	tc := &testContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		tc.start()
		return ctx, nil
	})

	ctx.After(func(ctx context.Context, _ *godog.Scenario, _ error) (context.Context, error) {
		tc.stop()
		return ctx, nil
	})

	ctx.Step(`^the service is running$`, tc.theServiceIsRunning)
	ctx.Step(`^(\d+) minutes pass$`, tc.minutesPass)

	ctx.Step(`^"([^"]*)" with phone "([^"]*)" submits a quote request$`, tc.submits)
	ctx.Step(`^"([^"]*)" with phone "([^"]*)" submits a quote request from "([^"]*)"$`, tc.submitsFrom)
	ctx.Step(`^"([^"]*)" with phone "([^"]*)" submits a quote request (\S+) after the form was shown$`, tc.submitsAfter)
	ctx.Step(`^a bot submits a quote request with "([^"]*)" set to "([^"]*)"$`, tc.botSubmits)
	ctx.Step(`^"([^"]*)" has already submitted (\d+) quote requests today from different networks$`, tc.alreadySubmitted)
	ctx.Step(`^(\d+) different buyers have submitted from "([^"]*)"$`, tc.buyersSubmittedFrom)
	ctx.Step(`^(\d+) quote requests? should be stored$`, tc.quoteRequestsStored)

	ctx.Step(`^I am logged in as the admin$`, tc.loggedInAsAdmin)
	ctx.Step(`^I am logged out$`, tc.loggedOut)
	ctx.Step(`^I request GET "([^"]*)"$`, tc.iRequestGET)
	ctx.Step(`^I set the status of the last request to "([^"]*)"$`, tc.setStatus)
	ctx.Step(`^I add the note "([^"]*)" to the last request$`, tc.addNote)
	ctx.Step(`^I resend the alert for the last request$`, tc.resend)
	ctx.Step(`^the summary should count (\d+) "([^"]*)" requests?$`, tc.summaryCounts)
	ctx.Step(`^the notifier fails$`, func() { tc.notifier.failing.Store(true) })
	ctx.Step(`^the notifier recovers$`, func() { tc.notifier.failing.Store(false) })

	ctx.Step(`^the response status should be (\d+)$`, tc.theResponseStatusShouldBe)
	ctx.Step(`^the response should contain "([^"]*)"$`, tc.theResponseShouldContain)
	ctx.Step(`^the response should not contain "([^"]*)"$`, tc.theResponseShouldNotContain)
}

func (tc *testContext) theServiceIsRunning() error {
	if err := tc.do(http.MethodGet, "/-/live", nil, ""); err != nil {
		return err
	}

	return tc.theResponseStatusShouldBe(http.StatusOK)
}

func (tc *testContext) minutesPass(n int) error {
	tc.clock.Advance(time.Duration(n) * time.Minute)
	return nil
}

func (tc *testContext) form(email, phone string, elapsed time.Duration) map[string]any {
	return map[string]any{
		"name":           "Dana Reyes",
		"company":        "Reyes Electric",
		"email":          email,
		"phone":          phone,
		"productName":    "THHN 12 AWG",
		"quantity":       "20 spools",
		"projectDetails": "Warehouse retrofit",
		"renderedAt":     tc.clock.Now().Add(-elapsed).UnixMilli(),
	}
}

func (tc *testContext) submitForm(form map[string]any, ip string) error {
	if err := tc.do(http.MethodPost, "/api/v1/quote-requests", form, ip); err != nil {
		return err
	}

	if tc.response.StatusCode == http.StatusCreated {
		var resp dto.SubmitQuoteResponse
		if err := json.Unmarshal(tc.responseBody, &resp); err != nil {
			return fmt.Errorf("decoding submit response: %w", err)
		}

		tc.lastQuoteID = resp.ID
	}

	return nil
}

func (tc *testContext) submits(email, phone string) error {
	return tc.submitForm(tc.form(email, phone, 30*time.Second), defaultIP)
}

func (tc *testContext) submitsFrom(email, phone, ip string) error {
	return tc.submitForm(tc.form(email, phone, 30*time.Second), ip)
}

func (tc *testContext) submitsAfter(email, phone, elapsed string) error {
	d, err := time.ParseDuration(elapsed)
	if err != nil {
		return err
	}

	return tc.submitForm(tc.form(email, phone, d), defaultIP)
}

func (tc *testContext) botSubmits(field, value string) error {
	form := tc.form("bot@spam.example", "555-0000", 30*time.Second)
	form[field] = value

	return tc.submitForm(form, defaultIP)
}

func (tc *testContext) alreadySubmitted(email string, n int) error {
	for i := range n {
		phone := fmt.Sprintf("555-10%02d", i)
		if err := tc.submitForm(tc.form(email, phone, 30*time.Second), fmt.Sprintf("198.51.100.%d", i+1)); err != nil {
			return err
		}

		if err := tc.theResponseStatusShouldBe(http.StatusCreated); err != nil {
			return err
		}
	}

	return nil
}

func (tc *testContext) buyersSubmittedFrom(n int, ip string) error {
	for i := range n {
		email := fmt.Sprintf("buyer%d@b.com", i)
		if err := tc.submitForm(tc.form(email, "555-7777", 30*time.Second), ip); err != nil {
			return err
		}

		if err := tc.theResponseStatusShouldBe(http.StatusCreated); err != nil {
			return err
		}
	}

	return nil
}

func (tc *testContext) quoteRequestsStored(n int) error {
	page, err := tc.repo.List(context.Background(), ports.QuoteFilter{})
	if err != nil {
		return err
	}

	if len(page.Items) != n {
		return fmt.Errorf("expected %d stored quote requests, got %d", n, len(page.Items))
	}

	return nil
}

func (tc *testContext) loggedInAsAdmin() error {
	body := map[string]string{"email": adminEmail, "password": adminPassword}
	if err := tc.do(http.MethodPost, "/api/v1/admin/login", body, ""); err != nil {
		return err
	}

	if err := tc.theResponseStatusShouldBe(http.StatusOK); err != nil {
		return err
	}

	var resp dto.LoginResponse
	if err := json.Unmarshal(tc.responseBody, &resp); err != nil {
		return err
	}

	tc.token = resp.Token

	return nil
}

func (tc *testContext) loggedOut() error {
	tc.token = ""
	return nil
}

func (tc *testContext) iRequestGET(path string) error {
	return tc.do(http.MethodGet, path, nil, "")
}

func (tc *testContext) lastRequestPath(suffix string) (string, error) {
	if tc.lastQuoteID == "" {
		return "", errors.New("no quote request was accepted in this scenario")
	}

	return "/api/v1/admin/quote-requests/" + tc.lastQuoteID + suffix, nil
}

func (tc *testContext) setStatus(status string) error {
	path, err := tc.lastRequestPath("/status")
	if err != nil {
		return err
	}

	return tc.do(http.MethodPatch, path, map[string]string{"status": status}, "")
}

func (tc *testContext) addNote(content string) error {
	path, err := tc.lastRequestPath("/notes")
	if err != nil {
		return err
	}

	return tc.do(http.MethodPost, path, map[string]string{"content": content}, "")
}

func (tc *testContext) resend() error {
	// Let the alert dispatched on submission settle first.
	tc.intake.Wait()

	path, err := tc.lastRequestPath("/notifications")
	if err != nil {
		return err
	}

	return tc.do(http.MethodPost, path, nil, "")
}

func (tc *testContext) summaryCounts(n int, status string) error {
	if err := tc.iRequestGET("/api/v1/admin/quote-requests/summary"); err != nil {
		return err
	}

	if err := tc.theResponseStatusShouldBe(http.StatusOK); err != nil {
		return err
	}

	var resp dto.SummaryResponse
	if err := json.Unmarshal(tc.responseBody, &resp); err != nil {
		return err
	}

	if got := resp.Counts[status]; got != n {
		return fmt.Errorf("expected %d %q requests, got %d", n, status, got)
	}

	return nil
}

// do sends a request to the in-process server and buffers the response.
func (tc *testContext) do(method, path string, body any, ip string) error {
	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}

		reader = bytes.NewReader(raw)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, method, tc.server.URL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}

	if tc.token != "" {
		req.Header.Set("Authorization", "Bearer "+tc.token)
	}

	if tc.response != nil {
		_ = tc.response.Body.Close()
	}

	tc.response, err = tc.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}

	tc.responseBody, err = io.ReadAll(tc.response.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	return nil
}

func (tc *testContext) theResponseStatusShouldBe(expectedCode int) error {
	if tc.response == nil {
		return errors.New("no response received")
	}

	if tc.response.StatusCode != expectedCode {
		return fmt.Errorf("expected status %d, got %d. Body: %s",
			expectedCode, tc.response.StatusCode, string(tc.responseBody))
	}

	return nil
}

func (tc *testContext) theResponseShouldContain(text string) error {
	if !strings.Contains(string(tc.responseBody), text) {
		return fmt.Errorf("response body does not contain %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

func (tc *testContext) theResponseShouldNotContain(text string) error {
	if strings.Contains(strings.ToLower(string(tc.responseBody)), strings.ToLower(text)) {
		return fmt.Errorf("response body unexpectedly contains %q.\nBody: %s", text, tc.responseBody)
	}

	return nil
}

// TestFeatures runs the GoDog BDD test suite in process.
func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: InitializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"../features"},
			TestingT: t,
			Tags:     os.Getenv("GODOG_TAGS"),
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
