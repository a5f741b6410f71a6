package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/auth"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/persistence/memory"
	"github.com/jsamuelsen/supplier-catalog/internal/app"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/mocks"
)

const (
	adminEmail    = "ops@supplier.example"
	adminPassword = "correct horse battery"
)

type adminFixture struct {
	engine   *gin.Engine
	repo     *memory.QuoteRepository
	notifier *mocks.MockNotifier
	token    string
}

func newAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := memory.NewQuoteRepository()
	notifier := mocks.NewMockNotifier(t)

	dispatcher := app.NewNotificationDispatcher(app.NotificationConfig{
		Notifier:        notifier,
		Repository:      repo,
		StaffRecipients: []string{"sales@supplier.example"},
		Logger:          logger,
	})

	authSvc := app.NewAuthService(app.AuthServiceConfig{
		Admins: memory.NewAdminRepository(),
		Hasher: auth.NewBcryptHasher(4),
		Tokens: auth.NewTokenManager(auth.TokenConfig{Secret: "test-secret", Issuer: "supplier-catalog"}),
		Logger: logger,
	})
	require.NoError(t, authSvc.SeedAdmin(context.Background(), adminEmail, adminPassword))

	adminSvc := app.NewAdminService(app.AdminServiceConfig{
		Repository:    repo,
		Notifications: dispatcher,
		Logger:        logger,
	})

	engine := gin.New()
	NewAdminHandler(adminSvc, authSvc).RegisterRoutes(engine.Group("/api/v1"),
		middleware.RequireAuth(authSvc),
		middleware.RequireRole(domain.RoleAdmin),
	)

	f := &adminFixture{engine: engine, repo: repo, notifier: notifier}
	f.token = f.login(t, adminEmail, adminPassword).Token

	return f
}

func (f *adminFixture) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)

	return w
}

func (f *adminFixture) login(t *testing.T, email, password string) dto.LoginResponse {
	t.Helper()

	body, err := json.Marshal(dto.LoginRequest{Email: email, Password: password})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login", strings.NewReader(string(body)))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	f.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp dto.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	return resp
}

func (f *adminFixture) seed(t *testing.T, id, email string, createdAt time.Time) {
	t.Helper()

	res, err := f.repo.Insert(context.Background(), &domain.QuoteRequest{
		ID:            id,
		Name:          "Dana Reyes",
		Email:         email,
		Phone:         "5551111",
		Status:        domain.StatusNew,
		CreatedAt:     createdAt,
		UpdatedAt:     createdAt,
		SubmissionDay: domain.SubmissionDayOf(createdAt),
	})
	require.NoError(t, err)
	require.False(t, res.Conflict)
}

func TestAdminHandler_Login(t *testing.T) {
	f := newAdminFixture(t)

	resp := f.login(t, "OPS@supplier.example", adminPassword)

	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, adminEmail, resp.Email)
	assert.Equal(t, domain.RoleAdmin, resp.Role)
	assert.True(t, resp.ExpiresAt.After(time.Now()))
}

func TestAdminHandler_LoginRejectsBadCredentials(t *testing.T) {
	f := newAdminFixture(t)
	f.token = ""

	w := f.do(t, http.MethodPost, "/api/v1/admin/login", `{"email":"ops@supplier.example","password":"nope"}`)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = f.do(t, http.MethodPost, "/api/v1/admin/login", `{"email":"not-an-email"}`)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, dto.ErrorCodeValidation, decodeError(t, w).Code)
}

func TestAdminHandler_RequiresToken(t *testing.T) {
	f := newAdminFixture(t)
	f.token = ""

	w := f.do(t, http.MethodGet, "/api/v1/admin/quote-requests", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.NotEmpty(t, w.Header().Get("WWW-Authenticate"))
}

func TestAdminHandler_ListPaginates(t *testing.T) {
	f := newAdminFixture(t)

	base := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	f.seed(t, "q-1", "a@b.com", base)
	f.seed(t, "q-2", "c@d.com", base.Add(time.Minute))
	f.seed(t, "q-3", "e@f.com", base.Add(2*time.Minute))

	w := f.do(t, http.MethodGet, "/api/v1/admin/quote-requests?limit=2", "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var first dto.PaginatedResponse[dto.QuoteResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &first))
	require.Len(t, first.Items, 2)
	assert.Equal(t, "q-3", first.Items[0].ID)
	assert.Equal(t, "q-2", first.Items[1].ID)
	require.True(t, first.HasMore)
	require.NotEmpty(t, first.NextCursor)

	w = f.do(t, http.MethodGet, "/api/v1/admin/quote-requests?limit=2&cursor="+first.NextCursor, "")
	require.Equal(t, http.StatusOK, w.Code)

	var second dto.PaginatedResponse[dto.QuoteResponse]
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &second))
	require.Len(t, second.Items, 1)
	assert.Equal(t, "q-1", second.Items[0].ID)
	assert.False(t, second.HasMore)
}

func TestAdminHandler_ListRejectsBadQuery(t *testing.T) {
	f := newAdminFixture(t)

	tests := []struct {
		name  string
		query string
	}{
		{name: "unknown status", query: "?status=archived"},
		{name: "limit too large", query: "?limit=500"},
		{name: "garbage cursor", query: "?cursor=!!not-a-cursor"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := f.do(t, http.MethodGet, "/api/v1/admin/quote-requests"+tt.query, "")
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestAdminHandler_GetAndNotFound(t *testing.T) {
	f := newAdminFixture(t)
	f.seed(t, "q-1", "a@b.com", time.Now().UTC())

	w := f.do(t, http.MethodGet, "/api/v1/admin/quote-requests/q-1", "")
	require.Equal(t, http.StatusOK, w.Code)

	var q dto.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, "a@b.com", q.Email)
	assert.Equal(t, "new", q.Status)

	w = f.do(t, http.MethodGet, "/api/v1/admin/quote-requests/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminHandler_UpdateStatus(t *testing.T) {
	f := newAdminFixture(t)
	f.seed(t, "q-1", "a@b.com", time.Now().UTC())

	w := f.do(t, http.MethodPatch, "/api/v1/admin/quote-requests/q-1/status", `{"status":"contacted"}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var q dto.QuoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &q))
	assert.Equal(t, "contacted", q.Status)

	w = f.do(t, http.MethodPatch, "/api/v1/admin/quote-requests/q-1/status", `{"status":"new"}`)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = f.do(t, http.MethodPatch, "/api/v1/admin/quote-requests/q-1/status", `{"status":"lost"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_AddNoteRecordsAuthor(t *testing.T) {
	f := newAdminFixture(t)
	f.seed(t, "q-1", "a@b.com", time.Now().UTC())

	w := f.do(t, http.MethodPost, "/api/v1/admin/quote-requests/q-1/notes", `{"content":"Called back, wants pricing on 500ft"}`)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var note dto.NoteResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &note))
	assert.Equal(t, adminEmail, note.AuthorEmail)

	w = f.do(t, http.MethodPost, "/api/v1/admin/quote-requests/q-1/notes", `{"content":"   "}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAdminHandler_Summary(t *testing.T) {
	f := newAdminFixture(t)

	now := time.Now().UTC()
	f.seed(t, "q-1", "a@b.com", now)
	f.seed(t, "q-2", "c@d.com", now)

	w := f.do(t, http.MethodGet, "/api/v1/admin/quote-requests/summary", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.SummaryResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 2, resp.Total)
	assert.Equal(t, 2, resp.Counts["new"])
	assert.Equal(t, 0, resp.Counts["closed"])
}

func TestAdminHandler_ResendNotification(t *testing.T) {
	t.Run("delivered", func(t *testing.T) {
		f := newAdminFixture(t)
		f.seed(t, "q-1", "a@b.com", time.Now().UTC())

		f.notifier.EXPECT().Notify(mock.Anything, mock.Anything, mock.Anything).Return(nil).Once()

		w := f.do(t, http.MethodPost, "/api/v1/admin/quote-requests/q-1/notifications", "")
		assert.Equal(t, http.StatusNoContent, w.Code)
	})

	t.Run("delivery failure is reported", func(t *testing.T) {
		f := newAdminFixture(t)
		f.seed(t, "q-1", "a@b.com", time.Now().UTC())

		f.notifier.EXPECT().Notify(mock.Anything, mock.Anything, mock.Anything).
			Return(domain.NewUnavailableError("smtp", "relay refused")).Once()

		w := f.do(t, http.MethodPost, "/api/v1/admin/quote-requests/q-1/notifications", "")

		require.Equal(t, http.StatusBadGateway, w.Code)
		assert.Contains(t, decodeError(t, w).Message, "relay refused")
	})

	t.Run("unknown quote", func(t *testing.T) {
		f := newAdminFixture(t)

		w := f.do(t, http.MethodPost, "/api/v1/admin/quote-requests/missing/notifications", "")
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

type failingLogin struct{}

func (failingLogin) Login(context.Context, string, string) (*app.LoginResult, error) {
	return nil, errors.New("admin store down")
}

func TestAdminHandler_LoginStoreFailure(t *testing.T) {
	engine := gin.New()
	NewAdminHandler(nil, failingLogin{}).RegisterRoutes(engine.Group("/api/v1"))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/login",
		strings.NewReader(`{"email":"ops@supplier.example","password":"x"}`))
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)

	require.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "admin store down")
}
