package app

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/platform/logging"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// Listing bounds.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
	MaxNoteLength   = 2000
)

// AdminServiceConfig holds the dependencies of AdminService.
type AdminServiceConfig struct {
	Repository    ports.QuoteRepository
	Notifications *NotificationDispatcher
	Clock         func() time.Time
	IDGenerator   func() string
	Logger        *slog.Logger
}

// AdminService implements the staff workflow around quote requests.
type AdminService struct {
	repo          ports.QuoteRepository
	notifications *NotificationDispatcher
	now           func() time.Time
	newID         func() string
	logger        *slog.Logger
}

// NewAdminService creates an AdminService. It panics if Repository is nil.
func NewAdminService(cfg AdminServiceConfig) *AdminService {
	if cfg.Repository == nil {
		panic("app: AdminServiceConfig.Repository is required")
	}

	s := &AdminService{
		repo:          cfg.Repository,
		notifications: cfg.Notifications,
		now:           cfg.Clock,
		newID:         cfg.IDGenerator,
		logger:        cfg.Logger,
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

	s.logger = s.logger.With(slog.String("component", "app.AdminService"))

	return s
}

// Get returns one quote request.
func (s *AdminService) Get(ctx context.Context, id string) (*domain.QuoteRequest, error) {
	return s.repo.Get(ctx, id)
}

// List returns a page of quote requests, newest first. The limit is clamped
// to [1, MaxPageSize].
func (s *AdminService) List(ctx context.Context, filter ports.QuoteFilter) (*ports.QuotePage, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, domain.NewValidationErrorWithValue("status", "unknown status", string(filter.Status))
	}

	switch {
	case filter.Limit <= 0:
		filter.Limit = DefaultPageSize
	case filter.Limit > MaxPageSize:
		filter.Limit = MaxPageSize
	}

	return s.repo.List(ctx, filter)
}

// UpdateStatus moves a request through the workflow on behalf of actor.
func (s *AdminService) UpdateStatus(
	ctx context.Context,
	id string,
	next domain.QuoteStatus,
	actor *domain.Principal,
) (*domain.QuoteRequest, error) {
	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	prev := q.Status
	if err := q.TransitionTo(next, s.now().UTC()); err != nil {
		return nil, err
	}

	if err := s.repo.UpdateStatus(ctx, q, prev); err != nil {
		return nil, fmt.Errorf("updating status: %w", err)
	}

	logging.FromContextOr(ctx, s.logger).InfoContext(ctx, "quote status changed",
		slog.String("quote_id", id),
		slog.String("from", string(prev)),
		slog.String("to", string(next)),
		slog.String("actor", actorEmail(actor)),
	)

	return q, nil
}

// AddNote attaches an internal note authored by actor.
func (s *AdminService) AddNote(ctx context.Context, id, content string, actor *domain.Principal) (*domain.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, domain.NewValidationError("content", "note must not be empty")
	}

	if utf8.RuneCountInString(content) > MaxNoteLength {
		return nil, domain.NewValidationError("content", fmt.Sprintf("note must be at most %d characters", MaxNoteLength))
	}

	note := domain.Note{
		ID:        s.newID(),
		Content:   content,
		CreatedAt: s.now().UTC(),
	}

	if actor != nil {
		note.AuthorID = actor.UserID
		note.AuthorEmail = actor.Email
	}

	if err := s.repo.AddNote(ctx, id, note); err != nil {
		return nil, err
	}

	return &note, nil
}

// ResendNotification re-sends the alert for a quote request and reports the
// delivery error to the caller. This is the manual path for failed deliveries.
func (s *AdminService) ResendNotification(ctx context.Context, id string) error {
	if s.notifications == nil {
		return domain.NewUnavailableError("notifier", "no notification channel configured")
	}

	q, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}

	if err := s.notifications.Deliver(ctx, q); err != nil {
		return unavailable("resend notification", err)
	}

	return nil
}

// Summary counts quote requests per status.
func (s *AdminService) Summary(ctx context.Context) (map[domain.QuoteStatus]int, error) {
	fns := make([]func(context.Context) (int, error), len(domain.AllStatuses))
	for i, status := range domain.AllStatuses {
		fns[i] = func(ctx context.Context) (int, error) {
			return s.repo.CountByStatus(ctx, status)
		}
	}

	counts, err := parallel(ctx, fns...)
	if err != nil {
		return nil, err
	}

	out := make(map[domain.QuoteStatus]int, len(counts))
	for i, status := range domain.AllStatuses {
		out[status] = counts[i]
	}

	return out, nil
}

func actorEmail(p *domain.Principal) string {
	if p == nil {
		return ""
	}

	return p.Email
}
