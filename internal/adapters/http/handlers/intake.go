package handlers

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/dto"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/middleware"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
)

// QuoteSubmitter runs the intake pipeline. app.IntakeService implements it.
type QuoteSubmitter interface {
	SubmitQuote(ctx context.Context, sub domain.Submission, meta domain.RequestMeta) (domain.Result, error)
	ChargeAttempt(ctx context.Context, meta domain.RequestMeta) (domain.Result, error)
}

// User-facing messages. The bot message is deliberately vague.
const (
	msgAccepted      = "Thank you. Our sales team will contact you shortly."
	msgRateLimited   = "Too many requests from your network. Please try again later."
	msgQuotaExceeded = "You have reached the daily limit of quote requests for this email address."
	msgDuplicate     = "We already received this request. Our team will be in touch."
	msgRejected      = "Your request could not be submitted. Please try again."
)

// IntakeHandler serves the public quote form.
type IntakeHandler struct {
	submitter  QuoteSubmitter
	trustProxy bool
	retryAfter time.Duration
}

// NewIntakeHandler creates an IntakeHandler. retryAfter is advertised on
// rate-limited responses, normally the rate-limit window.
func NewIntakeHandler(submitter QuoteSubmitter, trustProxy bool, retryAfter time.Duration) *IntakeHandler {
	return &IntakeHandler{
		submitter:  submitter,
		trustProxy: trustProxy,
		retryAfter: retryAfter,
	}
}

// Submit handles POST /api/v1/quote-requests.
func (h *IntakeHandler) Submit(c *gin.Context) {
	// ReceivedAt is left to the service clock.
	meta := domain.RequestMeta{
		IP:        middleware.ClientIP(c, h.trustProxy),
		UserAgent: c.Request.UserAgent(),
	}

	var req dto.SubmitQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		// Garbage still counts against the client's rate limit.
		res, err := h.submitter.ChargeAttempt(c.Request.Context(), meta)
		switch {
		case err != nil:
			dto.HandleError(c, err)
		case res.Outcome == domain.OutcomeRateLimited:
			h.respond(c, res)
		default:
			dto.Abort(c, dto.ErrorCodeBadRequest, "malformed request body")
		}

		return
	}

	res, err := h.submitter.SubmitQuote(c.Request.Context(), req.ToSubmission(), meta)
	if err != nil {
		dto.HandleError(c, err)
		return
	}

	h.respond(c, res)
}

func (h *IntakeHandler) respond(c *gin.Context, res domain.Result) {
	switch res.Outcome {
	case domain.OutcomeAccepted:
		c.JSON(http.StatusCreated, dto.SubmitQuoteResponse{ID: res.QuoteID, Message: msgAccepted})
	case domain.OutcomeRateLimited:
		if h.retryAfter > 0 {
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(h.retryAfter.Seconds()))))
		}

		dto.Abort(c, dto.ErrorCodeRateLimited, msgRateLimited)
	case domain.OutcomeQuotaExceeded:
		dto.Abort(c, dto.ErrorCodeQuotaExceeded, msgQuotaExceeded)
	case domain.OutcomeDuplicate:
		dto.Abort(c, dto.ErrorCodeDuplicate, msgDuplicate)
	default:
		dto.Abort(c, dto.ErrorCodeRejected, msgRejected)
	}
}

// RegisterRoutes mounts the public endpoints on rg.
func (h *IntakeHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quote-requests", h.Submit)
}
