// Package memory provides in-process stores for local runs and tests.
// They enforce the same uniqueness rules as the database stores.
package memory

import (
	"context"
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// QuoteRepository keeps quote requests in a map guarded by a mutex.
type QuoteRepository struct {
	mu     sync.RWMutex
	byID   map[string]*domain.QuoteRequest
	unique map[string]string // email|phone|day -> id
}

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

// NewQuoteRepository creates an empty repository.
func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{
		byID:   make(map[string]*domain.QuoteRequest),
		unique: make(map[string]string),
	}
}

func uniqueKey(email, phone, day string) string {
	return email + "|" + phone + "|" + day
}

// Insert stores a copy of q unless (email, phone, day) is already taken.
func (r *QuoteRepository) Insert(ctx context.Context, q *domain.QuoteRequest) (domain.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.InsertResult{}, err
	}

	key := uniqueKey(q.Email, q.Phone, q.SubmissionDay)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, taken := r.unique[key]; taken {
		return domain.InsertConflicted(), nil
	}

	if _, exists := r.byID[q.ID]; exists {
		return domain.InsertResult{}, errors.New("memory: duplicate quote id")
	}

	r.byID[q.ID] = clone(q)
	r.unique[key] = q.ID

	return domain.InsertSucceeded(q.ID), nil
}

func (r *QuoteRepository) CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, q := range r.byID {
		if q.Email == email && !q.CreatedAt.Before(since) {
			n++
		}
	}

	return n, nil
}

func (r *QuoteRepository) FindRecentByEmailPhone(ctx context.Context, email, phone string, since time.Time) (*domain.QuoteRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	var newest *domain.QuoteRequest
	for _, q := range r.byID {
		if q.Email != email || q.Phone != phone || q.CreatedAt.Before(since) {
			continue
		}

		if newest == nil || q.CreatedAt.After(newest.CreatedAt) {
			newest = q
		}
	}

	if newest == nil {
		return nil, nil
	}

	return clone(newest), nil
}

func (r *QuoteRepository) Get(ctx context.Context, id string) (*domain.QuoteRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	q, ok := r.byID[id]
	if !ok {
		return nil, domain.NewNotFoundError("quote_request", id)
	}

	return clone(q), nil
}

// List returns requests ordered by (CreatedAt, ID) descending.
func (r *QuoteRepository) List(ctx context.Context, filter ports.QuoteFilter) (*ports.QuotePage, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	items := make([]*domain.QuoteRequest, 0, len(r.byID))
	for _, q := range r.byID {
		if filter.Status != "" && q.Status != filter.Status {
			continue
		}

		if filter.After != nil && !before(q, filter.After) {
			continue
		}

		items = append(items, clone(q))
	}
	r.mu.RUnlock()

	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].ID > items[j].ID
		}

		return items[i].CreatedAt.After(items[j].CreatedAt)
	})

	page := &ports.QuotePage{Items: items}
	if filter.Limit > 0 && len(items) > filter.Limit {
		page.Items = items[:filter.Limit]
		page.HasMore = true
	}

	return page, nil
}

// before reports whether q sorts after the cursor in descending order.
func before(q *domain.QuoteRequest, c *ports.Cursor) bool {
	if q.CreatedAt.Equal(c.CreatedAt) {
		return q.ID < c.ID
	}

	return q.CreatedAt.Before(c.CreatedAt)
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, q *domain.QuoteRequest, from domain.QuoteStatus) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[q.ID]
	if !ok {
		return domain.NewNotFoundError("quote_request", q.ID)
	}

	if stored.Status != from {
		return domain.NewStaleStatusError(q.ID, from)
	}

	stored.Status = q.Status
	stored.UpdatedAt = q.UpdatedAt

	return nil
}

func (r *QuoteRepository) AddNote(ctx context.Context, quoteID string, note domain.Note) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[quoteID]
	if !ok {
		return domain.NewNotFoundError("quote_request", quoteID)
	}

	stored.Notes = append(stored.Notes, note)
	stored.UpdatedAt = note.CreatedAt

	return nil
}

func (r *QuoteRepository) RecordNotification(ctx context.Context, quoteID string, at time.Time, deliveryErr error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.byID[quoteID]
	if !ok {
		return domain.NewNotFoundError("quote_request", quoteID)
	}

	stored.NotifyAttempts++

	if deliveryErr != nil {
		stored.NotifyError = deliveryErr.Error()
		return nil
	}

	notifiedAt := at
	stored.NotifiedAt = &notifiedAt
	stored.NotifyError = ""

	return nil
}

func (r *QuoteRepository) CountByStatus(ctx context.Context, status domain.QuoteStatus) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, q := range r.byID {
		if q.Status == status {
			n++
		}
	}

	return n, nil
}

// ListStale returns requests in status created before `before`, oldest first.
func (r *QuoteRepository) ListStale(ctx context.Context, status domain.QuoteStatus, before time.Time, limit int) ([]*domain.QuoteRequest, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	var out []*domain.QuoteRequest
	for _, q := range r.byID {
		if q.Status == status && q.CreatedAt.Before(before) {
			out = append(out, clone(q))
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// Ping implements a health check; the memory store is always available.
func (r *QuoteRepository) Ping(context.Context) error { return nil }

func clone(q *domain.QuoteRequest) *domain.QuoteRequest {
	c := *q
	c.Notes = append([]domain.Note(nil), q.Notes...)

	if q.NotifiedAt != nil {
		t := *q.NotifiedAt
		c.NotifiedAt = &t
	}

	return &c
}
