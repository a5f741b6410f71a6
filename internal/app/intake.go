// Package app contains the use cases of the catalog backend: quote intake,
// admin quote management, admin authentication and the staff digest.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/logging"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// Gate layers, used in rejection logs.
const (
	layerRateLimit = "rate_limit"
	layerHoneypot  = "honeypot"
	layerTiming    = "timing"
	layerQuota     = "quota"
	layerDuplicate = "duplicate"
	layerInsert    = "insert"
)

// HoneypotFields are the decoy form fields. Browsers render them hidden.
var HoneypotFields = []string{"website", "fax_number"}

// GateConfig holds the anti-abuse thresholds. It is passed in explicitly;
// the intake service never reads configuration on its own.
type GateConfig struct {
	// RateLimitWindow and RateLimitMax bound submissions per client IP.
	RateLimitWindow time.Duration
	RateLimitMax    int

	// QuotaPerDayMax bounds submissions per email per UTC day.
	QuotaPerDayMax int

	// MinElapsed and MaxElapsed bound the render-to-submit time, inclusive.
	MinElapsed time.Duration
	MaxElapsed time.Duration

	// DuplicateWindow is how far back the (email, phone) pre-check looks,
	// clipped to the start of the current UTC day.
	DuplicateWindow time.Duration
}

// DefaultGateConfig returns the production thresholds.
func DefaultGateConfig() GateConfig {
	return GateConfig{
		RateLimitWindow: time.Hour,
		RateLimitMax:    5,
		QuotaPerDayMax:  5,
		MinElapsed:      1500 * time.Millisecond,
		MaxElapsed:      time.Hour,
		DuplicateWindow: 10 * time.Minute,
	}
}

// IntakeServiceConfig holds the dependencies of IntakeService.
type IntakeServiceConfig struct {
	Repository  ports.QuoteRepository
	RateLimiter ports.RateLimitStore

	// Notifications is optional; without it accepted quotes are not announced.
	Notifications *NotificationDispatcher

	Gate    GateConfig
	Metrics MetricsRecorder

	// Clock is used when RequestMeta.ReceivedAt is zero.
	Clock       func() time.Time
	IDGenerator func() string
	Logger      *slog.Logger
}

// IntakeService runs the public quote submission pipeline.
type IntakeService struct {
	repo          ports.QuoteRepository
	limiter       ports.RateLimitStore
	notifications *NotificationDispatcher
	gate          GateConfig
	metrics       MetricsRecorder
	now           func() time.Time
	newID         func() string
	logger        *slog.Logger
}

// NewIntakeService creates the intake service. It panics if Repository or
// RateLimiter is nil.
func NewIntakeService(cfg IntakeServiceConfig) *IntakeService {
	if cfg.Repository == nil {
		panic("app: IntakeServiceConfig.Repository is required")
	}

	if cfg.RateLimiter == nil {
		panic("app: IntakeServiceConfig.RateLimiter is required")
	}

	s := &IntakeService{
		repo:          cfg.Repository,
		limiter:       cfg.RateLimiter,
		notifications: cfg.Notifications,
		gate:          cfg.Gate,
		metrics:       cfg.Metrics,
		now:           cfg.Clock,
		newID:         cfg.IDGenerator,
		logger:        cfg.Logger,
	}

	if s.metrics == nil {
		s.metrics = noopMetrics{}
	}

	if s.now == nil {
		s.now = time.Now
	}

	if s.newID == nil {
		s.newID = uuid.NewString
	}

	if s.logger == nil {
		s.logger = slog.Default()
	}

	s.logger = s.logger.With(slog.String("component", "app.IntakeService"))

	return s
}

// SubmitQuote runs the gate in order (rate limit, honeypot, timing, quota,
// duplicate), inserts the request and schedules its notification.
//
// Rejections are returned as a Result with a nil error. The error is non-nil
// for malformed input (domain.ErrValidation) and for infrastructure failures
// (domain.ErrUnavailable); in the latter case nothing was persisted.
func (s *IntakeService) SubmitQuote(ctx context.Context, sub domain.Submission, meta domain.RequestMeta) (domain.Result, error) {
	now := meta.ReceivedAt
	if now.IsZero() {
		now = s.now()
	}

	now = now.UTC()
	email := domain.NormalizeEmail(sub.Email)
	phone := domain.NormalizePhone(sub.Phone)
	ip := clientKey(meta.IP)

	logger := s.loggerFor(ctx).With(
		slog.String("ip", ip),
		slog.String("email", email),
	)

	if res, err := s.throttle(ctx, logger, ip, now); err != nil || res.Outcome != "" {
		return res, err
	}

	if field, hit := honeypotHit(sub.Honeypot); hit {
		return s.reject(ctx, logger.With(slog.String("field", field)), slog.LevelWarn, layerHoneypot, now,
			domain.Rejected(domain.OutcomeBot, domain.ReasonHoneypot)), nil
	}

	if reason, ok := s.checkTiming(sub.RenderedAt, now); !ok {
		return s.reject(ctx, logger, slog.LevelWarn, layerTiming, now,
			domain.Rejected(domain.OutcomeBot, reason)), nil
	}

	if err := validateSubmission(sub, email, phone); err != nil {
		return domain.Result{}, err
	}

	dayStart := domain.StartOfDay(now)

	count, err := s.repo.CountByEmailSince(ctx, email, dayStart)
	if err != nil {
		return s.fail(ctx, logger, layerQuota, err)
	}

	if count >= s.gate.QuotaPerDayMax {
		return s.reject(ctx, logger.With(slog.Int("count", count)), slog.LevelInfo, layerQuota, now,
			domain.Rejected(domain.OutcomeQuotaExceeded, domain.ReasonEmailQuota)), nil
	}

	// The count is a plain read. Each (email, phone, day) holds at most one
	// row, so the atomic set of distinct phones caps concurrent bursts. A
	// repeated phone passes here and is left to the duplicate layers.
	admitted, err := s.limiter.AdmitMember(ctx, quotaKey(email, now), phone, 24*time.Hour, s.gate.QuotaPerDayMax)
	if err != nil {
		return s.fail(ctx, logger, layerQuota, err)
	}

	if !admitted {
		return s.reject(ctx, logger, slog.LevelInfo, layerQuota, now,
			domain.Rejected(domain.OutcomeQuotaExceeded, domain.ReasonEmailQuota)), nil
	}

	since := now.Add(-s.gate.DuplicateWindow)
	if dayStart.After(since) {
		since = dayStart
	}

	existing, err := s.repo.FindRecentByEmailPhone(ctx, email, phone, since)
	if err != nil {
		return s.fail(ctx, logger, layerDuplicate, err)
	}

	if existing != nil {
		return s.reject(ctx, logger.With(slog.String("existing_id", existing.ID)), slog.LevelInfo, layerDuplicate, now,
			domain.Rejected(domain.OutcomeDuplicate, domain.ReasonRecentDuplicate)), nil
	}

	q := s.buildQuote(sub, meta, email, phone, now)

	res, err := s.repo.Insert(ctx, q)
	if err != nil {
		return s.fail(ctx, logger, layerInsert, err)
	}

	if res.Conflict {
		return s.reject(ctx, logger, slog.LevelInfo, layerInsert, now,
			domain.Rejected(domain.OutcomeDuplicate, domain.ReasonUniqueConflict)), nil
	}

	q.ID = res.ID

	logger.InfoContext(ctx, "quote request accepted",
		slog.String("quote_id", q.ID),
		slog.String("submission_day", q.SubmissionDay),
	)
	s.metrics.RecordOutcome(string(domain.OutcomeAccepted), "")

	if s.notifications != nil {
		s.notifications.Dispatch(ctx, q)
	}

	return domain.Accepted(q.ID), nil
}

// ChargeAttempt counts a request that never became a submission, such as an
// unparseable body, against the client's rate limit. The returned Result is
// zero unless the client is over the limit.
func (s *IntakeService) ChargeAttempt(ctx context.Context, meta domain.RequestMeta) (domain.Result, error) {
	now := meta.ReceivedAt
	if now.IsZero() {
		now = s.now()
	}

	ip := clientKey(meta.IP)

	return s.throttle(ctx, s.loggerFor(ctx).With(slog.String("ip", ip)), ip, now.UTC())
}

// throttle is the first gate layer. A zero Result means the hit was allowed.
func (s *IntakeService) throttle(ctx context.Context, logger *slog.Logger, ip string, now time.Time) (domain.Result, error) {
	allowed, err := s.limiter.IncrementAndCheck(ctx, "quote:ip:"+ip, s.gate.RateLimitWindow, s.gate.RateLimitMax)
	if err != nil {
		return s.fail(ctx, logger, layerRateLimit, err)
	}

	if !allowed {
		return s.reject(ctx, logger, slog.LevelWarn, layerRateLimit, now,
			domain.Rejected(domain.OutcomeRateLimited, domain.ReasonIPLimit)), nil
	}

	return domain.Result{}, nil
}

// Wait blocks until in-flight notifications finish.
func (s *IntakeService) Wait() {
	if s.notifications != nil {
		s.notifications.Wait()
	}
}

func (s *IntakeService) checkTiming(renderedAt, now time.Time) (string, bool) {
	if renderedAt.IsZero() {
		return domain.ReasonMissingTimestamp, false
	}

	elapsed := now.Sub(renderedAt)

	switch {
	case elapsed < s.gate.MinElapsed:
		return domain.ReasonTooFast, false
	case elapsed > s.gate.MaxElapsed:
		return domain.ReasonStale, false
	default:
		return "", true
	}
}

func (s *IntakeService) buildQuote(sub domain.Submission, meta domain.RequestMeta, email, phone string, now time.Time) *domain.QuoteRequest {
	return &domain.QuoteRequest{
		ID:             s.newID(),
		Name:           strings.TrimSpace(sub.Name),
		Company:        strings.TrimSpace(sub.Company),
		Phone:          phone,
		Messenger:      strings.TrimSpace(sub.Messenger),
		Email:          email,
		ProductName:    strings.TrimSpace(sub.ProductName),
		Quantity:       strings.TrimSpace(sub.Quantity),
		ProjectDetails: strings.TrimSpace(sub.ProjectDetails),
		IPAddress:      meta.IP,
		UserAgent:      meta.UserAgent,
		Status:         domain.StatusNew,
		CreatedAt:      now,
		UpdatedAt:      now,
		SubmissionDay:  domain.SubmissionDayOf(now),
	}
}

func (s *IntakeService) reject(
	ctx context.Context,
	logger *slog.Logger,
	level slog.Level,
	layer string,
	at time.Time,
	result domain.Result,
) domain.Result {
	logger.Log(ctx, level, "quote request rejected",
		slog.String("layer", layer),
		slog.String("outcome", string(result.Outcome)),
		slog.String("reason", result.Reason),
		slog.Time("at", at),
	)
	s.metrics.RecordOutcome(string(result.Outcome), result.Reason)

	return result
}

// fail closes the gate on an infrastructure error.
func (s *IntakeService) fail(ctx context.Context, logger *slog.Logger, layer string, err error) (domain.Result, error) {
	logger.ErrorContext(ctx, "quote intake dependency failed",
		slog.String("layer", layer),
		slog.String("error", err.Error()),
	)
	s.metrics.RecordOutcome("error", layer)

	return domain.Result{}, unavailable(layer, err)
}

// loggerFor prefers the request-scoped logger (request and trace ids).
func (s *IntakeService) loggerFor(ctx context.Context) *slog.Logger {
	return logging.FromContextOr(ctx, s.logger)
}

func clientKey(ip string) string {
	if ip = strings.TrimSpace(ip); ip == "" {
		return "unknown"
	}

	return ip
}

// quotaKey names the set of phones seen for email on now's UTC day.
func quotaKey(email string, now time.Time) string {
	return "quote:email:" + email + ":" + domain.SubmissionDayOf(now)
}

// unavailable makes sure err carries domain.ErrUnavailable.
func unavailable(op string, err error) error {
	if domain.IsUnavailable(err) {
		return fmt.Errorf("%s: %w", op, err)
	}

	return fmt.Errorf("%s: %w: %w", op, domain.ErrUnavailable, err)
}

func honeypotHit(fields map[string]string) (string, bool) {
	for name, value := range fields {
		if strings.TrimSpace(value) != "" {
			return name, true
		}
	}

	return "", false
}

// Field limits for the public form.
var fieldLimits = []struct {
	field string
	max   int
	value func(domain.Submission) string
}{
	{"name", 120, func(s domain.Submission) string { return s.Name }},
	{"company", 160, func(s domain.Submission) string { return s.Company }},
	{"messenger", 120, func(s domain.Submission) string { return s.Messenger }},
	{"email", 254, func(s domain.Submission) string { return s.Email }},
	{"phone", 32, func(s domain.Submission) string { return s.Phone }},
	{"productName", 200, func(s domain.Submission) string { return s.ProductName }},
	{"quantity", 60, func(s domain.Submission) string { return s.Quantity }},
	{"projectDetails", 5000, func(s domain.Submission) string { return s.ProjectDetails }},
}

const minPhoneDigits = 6

// validateSubmission runs after the abuse checks so that bots probing the
// form still consume rate-limit slots and hit the honeypot first.
func validateSubmission(sub domain.Submission, email, phone string) error {
	if strings.TrimSpace(sub.Name) == "" {
		return domain.NewValidationError("name", "name is required")
	}

	if _, err := mail.ParseAddress(email); err != nil || !strings.Contains(email, "@") {
		return domain.NewValidationError("email", "a valid email is required")
	}

	digits := strings.TrimPrefix(phone, "+")
	if len(digits) < minPhoneDigits || strings.IndexFunc(digits, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return domain.NewValidationError("phone", "a valid phone number is required")
	}

	for _, l := range fieldLimits {
		if utf8.RuneCountInString(strings.TrimSpace(l.value(sub))) > l.max {
			return domain.NewValidationError(l.field, fmt.Sprintf("must be at most %d characters", l.max))
		}
	}

	return nil
}
