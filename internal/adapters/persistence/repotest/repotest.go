// Package repotest holds the behavior every QuoteRepository must share. Each
// store runs it against its own backend.
package repotest

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// Factory returns an empty repository for one subtest.
type Factory func(t *testing.T) ports.QuoteRepository

// base is truncated to milliseconds so stores with coarser timestamps compare equal.
var base = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

// NewQuote builds a request created at base+offset.
func NewQuote(email, phone string, offset time.Duration) *domain.QuoteRequest {
	created := base.Add(offset).Truncate(time.Millisecond)

	return &domain.QuoteRequest{
		ID:             uuid.NewString(),
		Name:           "Dana Reyes",
		Company:        "Reyes Electric",
		Phone:          phone,
		Email:          email,
		ProductName:    "THHN 12 AWG",
		Quantity:       "20 spools",
		ProjectDetails: "Warehouse retrofit",
		IPAddress:      "192.0.2.10",
		Status:         domain.StatusNew,
		CreatedAt:      created,
		UpdatedAt:      created,
		SubmissionDay:  domain.SubmissionDayOf(created),
	}
}

// RunQuoteRepository runs the shared contract.
func RunQuoteRepository(t *testing.T, newRepo Factory) {
	t.Helper()

	t.Run("InsertAndGet", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()
		q := NewQuote("a@b.com", "555-1111", 0)

		res, err := repo.Insert(ctx, q)
		require.NoError(t, err)
		assert.False(t, res.Conflict)
		assert.Equal(t, q.ID, res.ID)

		got, err := repo.Get(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, q.Email, got.Email)
		assert.Equal(t, q.Phone, got.Phone)
		assert.Equal(t, domain.StatusNew, got.Status)
		assert.True(t, q.CreatedAt.Equal(got.CreatedAt))
		assert.Equal(t, q.SubmissionDay, got.SubmissionDay)
	})

	t.Run("GetUnknownIsNotFound", func(t *testing.T) {
		_, err := newRepo(t).Get(context.Background(), uuid.NewString())
		assert.True(t, domain.IsNotFound(err))
	})

	t.Run("SameDayPairConflicts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		_, err := repo.Insert(ctx, NewQuote("a@b.com", "555-1111", 0))
		require.NoError(t, err)

		res, err := repo.Insert(ctx, NewQuote("a@b.com", "555-1111", 3*time.Hour))
		require.NoError(t, err)
		assert.True(t, res.Conflict)

		res, err = repo.Insert(ctx, NewQuote("a@b.com", "555-2222", 3*time.Hour))
		require.NoError(t, err)
		assert.False(t, res.Conflict)

		res, err = repo.Insert(ctx, NewQuote("a@b.com", "555-1111", 24*time.Hour))
		require.NoError(t, err)
		assert.False(t, res.Conflict, "a new UTC day frees the pair")
	})

	t.Run("ConcurrentInsertsOneWins", func(t *testing.T) {
		repo := newRepo(t)

		const workers = 16

		var (
			wg        sync.WaitGroup
			accepted  atomic.Int32
			conflicts atomic.Int32
			failures  = make(chan error, workers)
		)

		for i := range workers {
			wg.Add(1)

			go func() {
				defer wg.Done()

				res, err := repo.Insert(context.Background(), NewQuote("race@b.com", "555-0000", time.Duration(i)*time.Millisecond))
				if err != nil {
					failures <- err
					return
				}

				if res.Conflict {
					conflicts.Add(1)
				} else {
					accepted.Add(1)
				}
			}()
		}

		wg.Wait()
		close(failures)

		for err := range failures {
			t.Errorf("insert failed: %v", err)
		}

		assert.Equal(t, int32(1), accepted.Load())
		assert.Equal(t, int32(workers-1), conflicts.Load())
	})

	t.Run("CountByEmailSince", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		for i, offset := range []time.Duration{-2 * time.Hour, 0, time.Hour} {
			_, err := repo.Insert(ctx, NewQuote("count@b.com", fmt.Sprintf("555-00%d", i), offset))
			require.NoError(t, err)
		}

		_, err := repo.Insert(ctx, NewQuote("other@b.com", "555-9999", 0))
		require.NoError(t, err)

		n, err := repo.CountByEmailSince(ctx, "count@b.com", base)
		require.NoError(t, err)
		assert.Equal(t, 2, n, "since is inclusive")
	})

	t.Run("FindRecentByEmailPhone", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		older := NewQuote("recent@b.com", "555-1111", -24*time.Hour)
		newer := NewQuote("recent@b.com", "555-1111", 0)

		for _, q := range []*domain.QuoteRequest{older, newer} {
			_, err := repo.Insert(ctx, q)
			require.NoError(t, err)
		}

		got, err := repo.FindRecentByEmailPhone(ctx, "recent@b.com", "555-1111", base.Add(-10*time.Minute))
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, newer.ID, got.ID)

		got, err = repo.FindRecentByEmailPhone(ctx, "recent@b.com", "555-1111", base.Add(time.Second))
		require.NoError(t, err)
		assert.Nil(t, got)

		got, err = repo.FindRecentByEmailPhone(ctx, "recent@b.com", "555-2222", base.Add(-48*time.Hour))
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("ListPagesNewestFirst", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		var ids []string
		for i := range 5 {
			q := NewQuote(fmt.Sprintf("list%d@b.com", i), "555-1111", time.Duration(i)*time.Minute)
			_, err := repo.Insert(ctx, q)
			require.NoError(t, err)

			ids = append([]string{q.ID}, ids...)
		}

		page, err := repo.List(ctx, ports.QuoteFilter{Limit: 2})
		require.NoError(t, err)
		require.Len(t, page.Items, 2)
		assert.True(t, page.HasMore)
		assert.Equal(t, ids[:2], []string{page.Items[0].ID, page.Items[1].ID})

		last := page.Items[1]
		page, err = repo.List(ctx, ports.QuoteFilter{Limit: 10, After: &ports.Cursor{CreatedAt: last.CreatedAt, ID: last.ID}})
		require.NoError(t, err)
		require.Len(t, page.Items, 3)
		assert.False(t, page.HasMore)
		assert.Equal(t, ids[2], page.Items[0].ID)
	})

	t.Run("StatusNotesAndCounts", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		q := NewQuote("flow@b.com", "555-1111", 0)
		_, err := repo.Insert(ctx, q)
		require.NoError(t, err)

		_, err = repo.Insert(ctx, NewQuote("idle@b.com", "555-1111", 0))
		require.NoError(t, err)

		require.NoError(t, q.TransitionTo(domain.StatusContacted, base.Add(time.Hour)))
		require.NoError(t, repo.UpdateStatus(ctx, q, domain.StatusNew))

		note := domain.Note{
			ID:          uuid.NewString(),
			AuthorID:    "admin-1",
			AuthorEmail: "ops@supplier.example",
			Content:     "Called back, wants reels",
			CreatedAt:   base.Add(2 * time.Hour),
		}
		require.NoError(t, repo.AddNote(ctx, q.ID, note))

		got, err := repo.Get(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.StatusContacted, got.Status)
		require.Len(t, got.Notes, 1)
		assert.Equal(t, note.Content, got.Notes[0].Content)

		page, err := repo.List(ctx, ports.QuoteFilter{Status: domain.StatusContacted})
		require.NoError(t, err)
		require.Len(t, page.Items, 1)
		assert.Equal(t, q.ID, page.Items[0].ID)

		n, err := repo.CountByStatus(ctx, domain.StatusNew)
		require.NoError(t, err)
		assert.Equal(t, 1, n)

		missing := NewQuote("ghost@b.com", "555-1111", 0)
		assert.True(t, domain.IsNotFound(repo.UpdateStatus(ctx, missing, domain.StatusNew)))
		assert.True(t, domain.IsNotFound(repo.AddNote(ctx, missing.ID, note)))
	})

	t.Run("StatusUpdateIsConditional", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		q := NewQuote("admins@b.com", "555-1111", 0)
		_, err := repo.Insert(ctx, q)
		require.NoError(t, err)

		// Both admins read "new" before either writes.
		targets := []domain.QuoteStatus{domain.StatusClosed, domain.StatusContacted}
		copies := make([]*domain.QuoteRequest, len(targets))

		for i, next := range targets {
			copies[i], err = repo.Get(ctx, q.ID)
			require.NoError(t, err)
			require.NoError(t, copies[i].TransitionTo(next, base.Add(time.Hour)))
		}

		errs := make([]error, len(targets))

		var wg sync.WaitGroup
		for i := range targets {
			wg.Go(func() {
				errs[i] = repo.UpdateStatus(ctx, copies[i], domain.StatusNew)
			})
		}

		wg.Wait()

		won := -1

		for i, err := range errs {
			if err == nil {
				require.Equal(t, -1, won, "both transitions succeeded")
				won = i

				continue
			}

			assert.True(t, domain.IsConflict(err), "got %v", err)
		}

		require.NotEqual(t, -1, won, "no transition succeeded")

		got, err := repo.Get(ctx, q.ID)
		require.NoError(t, err)
		assert.Equal(t, targets[won], got.Status)
	})

	t.Run("RecordNotification", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		q := NewQuote("notify@b.com", "555-1111", 0)
		_, err := repo.Insert(ctx, q)
		require.NoError(t, err)

		require.NoError(t, repo.RecordNotification(ctx, q.ID, base.Add(time.Second), errors.New("smtp: 421 try later")))

		got, err := repo.Get(ctx, q.ID)
		require.NoError(t, err)
		assert.Nil(t, got.NotifiedAt)
		assert.Equal(t, "smtp: 421 try later", got.NotifyError)
		assert.Equal(t, 1, got.NotifyAttempts)

		at := base.Add(time.Minute)
		require.NoError(t, repo.RecordNotification(ctx, q.ID, at, nil))

		got, err = repo.Get(ctx, q.ID)
		require.NoError(t, err)
		require.NotNil(t, got.NotifiedAt)
		assert.True(t, at.Equal(*got.NotifiedAt))
		assert.Empty(t, got.NotifyError)
		assert.Equal(t, 2, got.NotifyAttempts)
	})

	t.Run("ListStaleOldestFirst", func(t *testing.T) {
		repo := newRepo(t)
		ctx := context.Background()

		oldest := NewQuote("s1@b.com", "555-1111", -72*time.Hour)
		older := NewQuote("s2@b.com", "555-1111", -48*time.Hour)
		fresh := NewQuote("s3@b.com", "555-1111", 0)

		for _, q := range []*domain.QuoteRequest{fresh, older, oldest} {
			_, err := repo.Insert(ctx, q)
			require.NoError(t, err)
		}

		stale, err := repo.ListStale(ctx, domain.StatusNew, base.Add(-24*time.Hour), 10)
		require.NoError(t, err)
		require.Len(t, stale, 2)
		assert.Equal(t, oldest.ID, stale[0].ID)
		assert.Equal(t, older.ID, stale[1].ID)

		stale, err = repo.ListStale(ctx, domain.StatusNew, base.Add(-24*time.Hour), 1)
		require.NoError(t, err)
		assert.Len(t, stale, 1)
	})
}

// RunAdminRepository runs the admin account contract.
func RunAdminRepository(t *testing.T, repo ports.AdminRepository) {
	t.Helper()

	ctx := context.Background()
	email := "ops-" + uuid.NewString()[:8] + "@supplier.example"

	_, err := repo.FindByEmail(ctx, email)
	assert.True(t, domain.IsNotFound(err))

	user := &domain.AdminUser{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: "$2a$04$hash",
		Role:         domain.RoleAdmin,
		Active:       true,
		CreatedAt:    base,
	}

	created, err := repo.CreateIfAbsent(ctx, user)
	require.NoError(t, err)
	assert.True(t, created)

	dup := *user
	dup.ID = uuid.NewString()

	created, err = repo.CreateIfAbsent(ctx, &dup)
	require.NoError(t, err)
	assert.False(t, created)

	got, err := repo.FindByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, domain.RoleAdmin, got.Role)
	assert.True(t, got.Active)
}
