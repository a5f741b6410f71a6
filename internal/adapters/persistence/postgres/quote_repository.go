package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// QuoteRepository implements ports.QuoteRepository with GORM.
type QuoteRepository struct {
	db *gorm.DB
}

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

// Insert relies on ux_quote_email_phone_day to reject duplicates.
func (r *QuoteRepository) Insert(ctx context.Context, q *domain.QuoteRequest) (domain.InsertResult, error) {
	if err := r.db.WithContext(ctx).Omit("Notes").Create(toQuoteRow(q)).Error; err != nil {
		if isUniqueViolation(err) {
			return domain.InsertConflicted(), nil
		}

		return domain.InsertResult{}, fmt.Errorf("inserting quote request: %w", err)
	}

	return domain.InsertSucceeded(q.ID), nil
}

func (r *QuoteRepository) CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	var n int64

	err := r.db.WithContext(ctx).Model(&quoteRow{}).
		Where("email = ? AND created_at >= ?", email, since.UTC()).
		Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting quote requests: %w", err)
	}

	return int(n), nil
}

func (r *QuoteRepository) FindRecentByEmailPhone(ctx context.Context, email, phone string, since time.Time) (*domain.QuoteRequest, error) {
	var rows []quoteRow

	err := r.db.WithContext(ctx).
		Where("email = ? AND phone = ? AND created_at >= ?", email, phone, since.UTC()).
		Order("created_at DESC").
		Limit(1).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("finding recent quote request: %w", err)
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0].toDomain(), nil
}

func (r *QuoteRepository) Get(ctx context.Context, id string) (*domain.QuoteRequest, error) {
	var row quoteRow

	err := r.withNotes(ctx).First(&row, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("quote_request", id)
	}

	if err != nil {
		return nil, fmt.Errorf("getting quote request: %w", err)
	}

	return row.toDomain(), nil
}

// List pages by (created_at, id) descending using keyset pagination.
func (r *QuoteRepository) List(ctx context.Context, filter ports.QuoteFilter) (*ports.QuotePage, error) {
	tx := r.withNotes(ctx).Order("created_at DESC, id DESC")

	if filter.Status != "" {
		tx = tx.Where("status = ?", string(filter.Status))
	}

	if c := filter.After; c != nil {
		tx = tx.Where("(created_at < ?) OR (created_at = ? AND id < ?)", c.CreatedAt.UTC(), c.CreatedAt.UTC(), c.ID)
	}

	if filter.Limit > 0 {
		tx = tx.Limit(filter.Limit + 1)
	}

	var rows []quoteRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing quote requests: %w", err)
	}

	items := toDomainList(rows)

	page := &ports.QuotePage{Items: items}
	if filter.Limit > 0 && len(items) > filter.Limit {
		page.Items = items[:filter.Limit]
		page.HasMore = true
	}

	return page, nil
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, q *domain.QuoteRequest, from domain.QuoteStatus) error {
	db := r.db.WithContext(ctx)

	res := db.Model(&quoteRow{}).
		Where("id = ? AND status = ?", q.ID, string(from)).
		Updates(map[string]any{
			"status":     string(q.Status),
			"updated_at": q.UpdatedAt.UTC(),
		})
	if res.Error != nil {
		return fmt.Errorf("updating quote status: %w", res.Error)
	}

	if res.RowsAffected > 0 {
		return nil
	}

	var n int64
	if err := db.Model(&quoteRow{}).Where("id = ?", q.ID).Count(&n).Error; err != nil {
		return fmt.Errorf("checking quote request: %w", err)
	}

	if n == 0 {
		return domain.NewNotFoundError("quote_request", q.ID)
	}

	return domain.NewStaleStatusError(q.ID, from)
}

func (r *QuoteRepository) AddNote(ctx context.Context, quoteID string, note domain.Note) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := r.update(tx, quoteID, map[string]any{"updated_at": note.CreatedAt.UTC()}); err != nil {
			return err
		}

		row := noteRow{
			ID:          note.ID,
			QuoteID:     quoteID,
			AuthorID:    note.AuthorID,
			AuthorEmail: note.AuthorEmail,
			Content:     note.Content,
			CreatedAt:   note.CreatedAt.UTC(),
		}

		if err := tx.Create(&row).Error; err != nil {
			return fmt.Errorf("adding note: %w", err)
		}

		return nil
	})
}

func (r *QuoteRepository) RecordNotification(ctx context.Context, quoteID string, at time.Time, deliveryErr error) error {
	updates := map[string]any{
		"notify_attempts": gorm.Expr("notify_attempts + 1"),
		"notified_at":     at.UTC(),
		"notify_error":    "",
	}

	if deliveryErr != nil {
		delete(updates, "notified_at")
		updates["notify_error"] = deliveryErr.Error()
	}

	return r.update(r.db.WithContext(ctx), quoteID, updates)
}

func (r *QuoteRepository) CountByStatus(ctx context.Context, status domain.QuoteStatus) (int, error) {
	var n int64

	err := r.db.WithContext(ctx).Model(&quoteRow{}).Where("status = ?", string(status)).Count(&n).Error
	if err != nil {
		return 0, fmt.Errorf("counting quote requests by status: %w", err)
	}

	return int(n), nil
}

func (r *QuoteRepository) ListStale(ctx context.Context, status domain.QuoteStatus, before time.Time, limit int) ([]*domain.QuoteRequest, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(status), before.UTC()).
		Order("created_at ASC")

	if limit > 0 {
		tx = tx.Limit(limit)
	}

	var rows []quoteRow
	if err := tx.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("listing stale quote requests: %w", err)
	}

	return toDomainList(rows), nil
}

func (r *QuoteRepository) withNotes(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Notes", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("created_at ASC")
	})
}

func (r *QuoteRepository) update(tx *gorm.DB, id string, updates map[string]any) error {
	res := tx.Model(&quoteRow{}).Where("id = ?", id).Updates(updates)
	if res.Error != nil {
		return fmt.Errorf("updating quote request: %w", res.Error)
	}

	if res.RowsAffected == 0 {
		return domain.NewNotFoundError("quote_request", id)
	}

	return nil
}

func toDomainList(rows []quoteRow) []*domain.QuoteRequest {
	out := make([]*domain.QuoteRequest, len(rows))
	for i := range rows {
		out[i] = rows[i].toDomain()
	}

	return out
}
