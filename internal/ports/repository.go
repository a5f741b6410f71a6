// Package ports defines the contracts between the intake/admin use cases and
// the adapters that store quote requests, count submissions and deliver
// notifications. Every method takes a context first and speaks domain types.
package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
)

// QuoteRepository persists quote requests.
//
// Implementations enforce uniqueness of (Email, Phone, SubmissionDay) and report
// a violation as domain.InsertConflicted(), never as an error. Errors are
// reserved for infrastructure failures and wrap domain.ErrUnavailable.
type QuoteRepository interface {
	// Insert stores q. q.ID, q.CreatedAt and q.SubmissionDay are set by the caller.
	Insert(ctx context.Context, q *domain.QuoteRequest) (domain.InsertResult, error)

	// CountByEmailSince counts requests from email created at or after since.
	CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error)

	// FindRecentByEmailPhone returns the newest request for the pair created at
	// or after since, or nil when there is none.
	FindRecentByEmailPhone(ctx context.Context, email, phone string, since time.Time) (*domain.QuoteRequest, error)

	// Get returns domain.ErrNotFound when id is unknown.
	Get(ctx context.Context, id string) (*domain.QuoteRequest, error)

	List(ctx context.Context, filter QuoteFilter) (*QuotePage, error)

	// UpdateStatus persists q.Status and q.UpdatedAt if the stored status is
	// still from. Otherwise it returns a domain.ErrConflict and writes nothing.
	UpdateStatus(ctx context.Context, q *domain.QuoteRequest, from domain.QuoteStatus) error

	AddNote(ctx context.Context, quoteID string, note domain.Note) error

	// RecordNotification stores the outcome of a delivery attempt. A nil
	// deliveryErr marks the request notified at `at`.
	RecordNotification(ctx context.Context, quoteID string, at time.Time, deliveryErr error) error

	CountByStatus(ctx context.Context, status domain.QuoteStatus) (int, error)

	// ListStale returns requests in status created before `before`, oldest first.
	ListStale(ctx context.Context, status domain.QuoteStatus, before time.Time, limit int) ([]*domain.QuoteRequest, error)
}

// QuoteFilter selects a page of quote requests, newest first.
type QuoteFilter struct {
	Status domain.QuoteStatus
	Limit  int
	After  *Cursor
}

// Cursor is the keyset position of the last item of the previous page.
type Cursor struct {
	CreatedAt time.Time
	ID        string
}

// QuotePage is one page of a listing.
type QuotePage struct {
	Items   []*domain.QuoteRequest
	HasMore bool
}

// AdminRepository stores staff accounts.
type AdminRepository interface {
	// FindByEmail returns domain.ErrNotFound when no account matches.
	FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error)

	// CreateIfAbsent inserts u unless an account with u.Email exists and
	// reports whether it inserted.
	CreateIfAbsent(ctx context.Context, u *domain.AdminUser) (bool, error)
}
