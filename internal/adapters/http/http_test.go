package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/auth"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/handlers"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/persistence/memory"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/ratelimit"
	"github.com/jsamuelsen/supplier-catalog/internal/app"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/config"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testServerConfig() *config.ServerConfig {
	return &config.ServerConfig{
		Host:            "127.0.0.1",
		Port:            8080,
		ReadTimeout:     5 * time.Second,
		WriteTimeout:    5 * time.Second,
		IdleTimeout:     30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
		RequestTimeout:  5 * time.Second,
		MaxRequestSize:  1 << 10,
	}
}

// routerConfig wires in-memory services the way cmd/service does.
func routerConfig(t *testing.T) RouterConfig {
	t.Helper()

	logger := discardLogger()
	repo := memory.NewQuoteRepository()

	intake := app.NewIntakeService(app.IntakeServiceConfig{
		Repository:  repo,
		RateLimiter: ratelimit.NewMemoryStore(),
		Gate:        app.DefaultGateConfig(),
		Logger:      logger,
	})

	authSvc := app.NewAuthService(app.AuthServiceConfig{
		Admins: memory.NewAdminRepository(),
		Hasher: auth.NewBcryptHasher(4),
		Tokens: auth.NewTokenManager(auth.TokenConfig{Secret: "router-test", Issuer: "supplier-catalog"}),
		Logger: logger,
	})

	admin := app.NewAdminService(app.AdminServiceConfig{Repository: repo, Logger: logger})

	return RouterConfig{
		Logger:        logger,
		ServiceName:   "supplier-catalog",
		Health:        handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.NewBuildInfo("test", "abc123", ""), prometheus.NewRegistry()),
		Intake:        handlers.NewIntakeHandler(intake, false, time.Hour),
		Admin:         handlers.NewAdminHandler(admin, authSvc),
		Authenticator: authSvc,
		CORSOrigins:   []string{"https://shop.example"},
	}
}

func quoteBody(renderedAt time.Time) string {
	return fmt.Sprintf(`{"name":"Dana","phone":"555-1111","email":"a@b.com","renderedAt":%d}`, renderedAt.UnixMilli())
}

func serve(engine *gin.Engine, method, path, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	return w
}

func TestSetupRouter_Routes(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, routerConfig(t))

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		want   int
	}{
		{name: "liveness", method: http.MethodGet, path: "/-/live", want: http.StatusOK},
		{name: "readiness", method: http.MethodGet, path: "/-/ready", want: http.StatusOK},
		{name: "build info", method: http.MethodGet, path: "/-/build", want: http.StatusOK},
		{name: "metrics", method: http.MethodGet, path: "/-/metrics", want: http.StatusOK},
		{
			name:   "public submission",
			method: http.MethodPost,
			path:   "/api/v1/quote-requests",
			body:   quoteBody(time.Now().Add(-10 * time.Second)),
			want:   http.StatusCreated,
		},
		{name: "admin list needs token", method: http.MethodGet, path: "/api/v1/admin/quote-requests", want: http.StatusUnauthorized},
		{
			name:   "admin login is public",
			method: http.MethodPost,
			path:   "/api/v1/admin/login",
			body:   `{"email":"nobody@supplier.example","password":"x"}`,
			want:   http.StatusUnauthorized,
		},
		{name: "unknown route", method: http.MethodGet, path: "/api/v1/quotes", want: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(engine, tt.method, tt.path, tt.body, nil)
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}
}

func TestSetupRouter_EchoesRequestID(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, routerConfig(t))

	w := serve(engine, http.MethodGet, "/-/live", "", map[string]string{middleware.HeaderRequestID: "req-42"})

	assert.Equal(t, "req-42", w.Header().Get(middleware.HeaderRequestID))
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderCorrelationID))
}

func TestSetupRouter_CORSPreflight(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, routerConfig(t))

	w := serve(engine, http.MethodOptions, "/api/v1/quote-requests", "", map[string]string{
		"Origin":                        "https://shop.example",
		"Access-Control-Request-Method": http.MethodPost,
	})

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://shop.example", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestSetupRouter_ThrottleOnlyOnPublicRoutes(t *testing.T) {
	cfg := routerConfig(t)
	cfg.Throttler = middleware.NewThrottler(middleware.ThrottleConfig{RPS: 0.001, Burst: 1})

	engine := gin.New()
	SetupRouter(engine, cfg)

	first := serve(engine, http.MethodPost, "/api/v1/quote-requests", quoteBody(time.Now().Add(-10*time.Second)), nil)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())

	second := serve(engine, http.MethodPost, "/api/v1/quote-requests", quoteBody(time.Now().Add(-10*time.Second)), nil)
	require.Equal(t, http.StatusTooManyRequests, second.Code)

	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &resp))
	assert.Equal(t, dto.ErrorCodeRateLimited, resp.Error.Code)

	for range 3 {
		w := serve(engine, http.MethodGet, "/api/v1/admin/quote-requests", "", nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	}
}

func TestSetupRouter_AdminNeedsAuthenticator(t *testing.T) {
	cfg := routerConfig(t)
	cfg.Authenticator = nil

	engine := gin.New()
	SetupRouter(engine, cfg)

	w := serve(engine, http.MethodPost, "/api/v1/admin/login", `{"email":"a@b.com","password":"x"}`, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSetupRouter_HealthOnly(t *testing.T) {
	engine := gin.New()
	SetupRouter(engine, RouterConfig{
		Logger: discardLogger(),
		Health: handlers.NewHealthHandler(ports.NewHealthRegistry(), handlers.BuildInfo{}, prometheus.NewRegistry()),
	})

	assert.Equal(t, http.StatusOK, serve(engine, http.MethodGet, "/-/live", "", nil).Code)
	assert.Equal(t, http.StatusNotFound, serve(engine, http.MethodPost, "/api/v1/quote-requests", "{}", nil).Code)
}

func TestServer_MaxBodySize(t *testing.T) {
	srv := New(testServerConfig(), discardLogger())

	var bindErr error
	srv.Engine().POST("/echo", func(c *gin.Context) {
		var v map[string]any
		bindErr = c.ShouldBindJSON(&v)
		c.Status(http.StatusOK)
	})

	t.Run("declared length over the cap", func(t *testing.T) {
		big := `{"x":"` + strings.Repeat("a", 2<<10) + `"}`
		w := serve(srv.Engine(), http.MethodPost, "/echo", big, nil)
		assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	})

	t.Run("streamed body over the cap", func(t *testing.T) {
		big := `{"x":"` + strings.Repeat("a", 2<<10) + `"}`
		req := httptest.NewRequest(http.MethodPost, "/echo", io.NopCloser(strings.NewReader(big)))
		req.ContentLength = -1

		srv.Engine().ServeHTTP(httptest.NewRecorder(), req)

		require.Error(t, bindErr)
	})

	t.Run("small body", func(t *testing.T) {
		w := serve(srv.Engine(), http.MethodPost, "/echo", `{"x":"y"}`, nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.NoError(t, bindErr)
	})
}

func TestServer_Addr(t *testing.T) {
	srv := New(testServerConfig(), discardLogger())
	assert.Equal(t, "127.0.0.1:8080", srv.Addr())

	cfg := testServerConfig()
	cfg.Host = "::1"
	assert.Equal(t, "[::1]:8080", New(cfg, discardLogger()).Addr())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	srv := New(testServerConfig(), discardLogger())
	srv.Engine().GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	errCh := srv.Serve(ln)

	resp, err := http.Get("http://" + ln.Addr().String() + "/ping")
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	assert.Equal(t, "pong", string(body))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	require.NoError(t, srv.Shutdown(ctx))

	_, open := <-errCh
	assert.False(t, open, "serve channel closes on clean shutdown")
}
