package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/supplier-catalog/internal/app"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// QuoteManager is the staff workflow. app.AdminService implements it.
type QuoteManager interface {
	Get(ctx context.Context, id string) (*domain.QuoteRequest, error)
	List(ctx context.Context, filter ports.QuoteFilter) (*ports.QuotePage, error)
	UpdateStatus(ctx context.Context, id string, next domain.QuoteStatus, actor *domain.Principal) (*domain.QuoteRequest, error)
	AddNote(ctx context.Context, id, content string, actor *domain.Principal) (*domain.Note, error)
	ResendNotification(ctx context.Context, id string) error
	Summary(ctx context.Context) (map[domain.QuoteStatus]int, error)
}

// LoginService authenticates staff. app.AuthService implements it.
type LoginService interface {
	Login(ctx context.Context, email, password string) (*app.LoginResult, error)
}

// AdminHandler serves /api/v1/admin.
type AdminHandler struct {
	quotes QuoteManager
	auth   LoginService
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(quotes QuoteManager, auth LoginService) *AdminHandler {
	return &AdminHandler{quotes: quotes, auth: auth}
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresAt: res.ExpiresAt,
		Email:     res.User.Email,
		Role:      res.User.Role,
	})
}

// List handles GET /admin/quote-requests.
func (h *AdminHandler) List(c *gin.Context) {
	var req dto.ListQuotesRequest
	if err := dto.BindQueryAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	after, err := dto.DecodeCursor(req.Cursor)
	if err != nil {
		dto.Abort(c, dto.ErrorCodeBadRequest, "invalid cursor")
		return
	}

	page, err := h.quotes.List(c.Request.Context(), ports.QuoteFilter{
		Status: domain.QuoteStatus(req.Status),
		Limit:  req.Limit,
		After:  after,
	})
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewPage(page, dto.NewQuoteResponse))
}

// Get handles GET /admin/quote-requests/:id.
func (h *AdminHandler) Get(c *gin.Context) {
	q, err := h.quotes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(q))
}

// Summary handles GET /admin/quote-requests/summary.
func (h *AdminHandler) Summary(c *gin.Context) {
	counts, err := h.quotes.Summary(c.Request.Context())
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewSummaryResponse(counts))
}

// UpdateStatus handles PATCH /admin/quote-requests/:id/status.
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateStatusRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	q, err := h.quotes.UpdateStatus(c.Request.Context(), c.Param("id"), domain.QuoteStatus(req.Status), middleware.GetPrincipal(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.NewQuoteResponse(q))
}

// AddNote handles POST /admin/quote-requests/:id/notes.
func (h *AdminHandler) AddNote(c *gin.Context) {
	var req dto.AddNoteRequest
	if err := dto.BindAndValidate(c, &req); err != nil {
		dto.HandleBindError(c, err)
		return
	}

	note, err := h.quotes.AddNote(c.Request.Context(), c.Param("id"), req.Content, middleware.GetPrincipal(c))
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.NewNoteResponse(note))
}

// ResendNotification handles POST /admin/quote-requests/:id/notifications.
// Unlike the intake path, the delivery error is returned to the caller.
func (h *AdminHandler) ResendNotification(c *gin.Context) {
	err := h.quotes.ResendNotification(c.Request.Context(), c.Param("id"))

	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case domain.IsNotFound(err):
		dto.HandleError(c, err)
	case domain.IsUnavailable(err):
		// Say which channel failed; staff need it to act.
		c.AbortWithStatusJSON(http.StatusBadGateway,
			dto.NewErrorResponse(dto.ErrorCodeUnavailable, err.Error()).WithTraceID(dto.GetTraceID(c)))
	default:
		dto.HandleError(c, err)
	}
}

// RegisterRoutes mounts the admin API on rg. Every route except login runs
// behind the given guards.
func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	admin := rg.Group("/admin")
	admin.POST("/login", h.Login)

	quotes := admin.Group("/quote-requests", guards...)
	quotes.GET("", h.List)
	quotes.GET("/summary", h.Summary)
	quotes.GET("/:id", h.Get)
	quotes.PATCH("/:id/status", h.UpdateStatus)
	quotes.POST("/:id/notes", h.AddNote)
	quotes.POST("/:id/notifications", h.ResendNotification)
}
