package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// QuoteRepository implements ports.QuoteRepository on a MongoDB collection.
type QuoteRepository struct {
	coll *mongo.Collection
}

var _ ports.QuoteRepository = (*QuoteRepository)(nil)

// Insert relies on the ux_quote_email_phone_day index to reject duplicates.
func (r *QuoteRepository) Insert(ctx context.Context, q *domain.QuoteRequest) (domain.InsertResult, error) {
	if _, err := r.coll.InsertOne(ctx, toQuoteDocument(q)); err != nil {
		if isDuplicateKey(err) {
			return domain.InsertConflicted(), nil
		}

		return domain.InsertResult{}, fmt.Errorf("inserting quote request: %w", err)
	}

	return domain.InsertSucceeded(q.ID), nil
}

func (r *QuoteRepository) CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{
		{Key: "email", Value: email},
		{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since.UTC()}}},
	})
	if err != nil {
		return 0, fmt.Errorf("counting quote requests: %w", err)
	}

	return int(n), nil
}

func (r *QuoteRepository) FindRecentByEmailPhone(ctx context.Context, email, phone string, since time.Time) (*domain.QuoteRequest, error) {
	filter := bson.D{
		{Key: "email", Value: email},
		{Key: "phone", Value: phone},
		{Key: "createdAt", Value: bson.D{{Key: "$gte", Value: since.UTC()}}},
	}

	var doc quoteDocument

	err := r.coll.FindOne(ctx, filter, options.FindOne().SetSort(bson.D{{Key: "createdAt", Value: -1}})).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("finding recent quote request: %w", err)
	}

	return doc.toDomain(), nil
}

func (r *QuoteRepository) Get(ctx context.Context, id string) (*domain.QuoteRequest, error) {
	var doc quoteDocument

	err := r.coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError("quote_request", id)
	}

	if err != nil {
		return nil, fmt.Errorf("getting quote request: %w", err)
	}

	return doc.toDomain(), nil
}

// List pages by (createdAt, _id) descending. One extra document is fetched to
// compute HasMore.
func (r *QuoteRepository) List(ctx context.Context, filter ports.QuoteFilter) (*ports.QuotePage, error) {
	query := bson.D{}

	if filter.Status != "" {
		query = append(query, bson.E{Key: "status", Value: string(filter.Status)})
	}

	if c := filter.After; c != nil {
		query = append(query, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "createdAt", Value: bson.D{{Key: "$lt", Value: c.CreatedAt.UTC()}}}},
			bson.D{
				{Key: "createdAt", Value: c.CreatedAt.UTC()},
				{Key: "_id", Value: bson.D{{Key: "$lt", Value: c.ID}}},
			},
		}})
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}})
	if filter.Limit > 0 {
		opts.SetLimit(int64(filter.Limit) + 1)
	}

	docs, err := r.find(ctx, query, opts)
	if err != nil {
		return nil, fmt.Errorf("listing quote requests: %w", err)
	}

	page := &ports.QuotePage{Items: docs}
	if filter.Limit > 0 && len(docs) > filter.Limit {
		page.Items = docs[:filter.Limit]
		page.HasMore = true
	}

	return page, nil
}

func (r *QuoteRepository) UpdateStatus(ctx context.Context, q *domain.QuoteRequest, from domain.QuoteStatus) error {
	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "_id", Value: q.ID}, {Key: "status", Value: string(from)}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "status", Value: string(q.Status)},
			{Key: "updatedAt", Value: q.UpdatedAt.UTC()},
		}}},
	)
	if err != nil {
		return fmt.Errorf("updating quote status: %w", err)
	}

	if res.MatchedCount > 0 {
		return nil
	}

	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "_id", Value: q.ID}})
	if err != nil {
		return fmt.Errorf("checking quote request: %w", err)
	}

	if n == 0 {
		return domain.NewNotFoundError("quote_request", q.ID)
	}

	return domain.NewStaleStatusError(q.ID, from)
}

func (r *QuoteRepository) AddNote(ctx context.Context, quoteID string, note domain.Note) error {
	return r.update(ctx, quoteID, bson.D{
		{Key: "$push", Value: bson.D{{Key: "notes", Value: toNoteDocument(note)}}},
		{Key: "$set", Value: bson.D{{Key: "updatedAt", Value: note.CreatedAt.UTC()}}},
	})
}

func (r *QuoteRepository) RecordNotification(ctx context.Context, quoteID string, at time.Time, deliveryErr error) error {
	set := bson.D{{Key: "notifiedAt", Value: at.UTC()}, {Key: "notifyError", Value: ""}}
	if deliveryErr != nil {
		set = bson.D{{Key: "notifyError", Value: deliveryErr.Error()}}
	}

	return r.update(ctx, quoteID, bson.D{
		{Key: "$set", Value: set},
		{Key: "$inc", Value: bson.D{{Key: "notifyAttempts", Value: 1}}},
	})
}

func (r *QuoteRepository) CountByStatus(ctx context.Context, status domain.QuoteStatus) (int, error) {
	n, err := r.coll.CountDocuments(ctx, bson.D{{Key: "status", Value: string(status)}})
	if err != nil {
		return 0, fmt.Errorf("counting quote requests by status: %w", err)
	}

	return int(n), nil
}

func (r *QuoteRepository) ListStale(ctx context.Context, status domain.QuoteStatus, before time.Time, limit int) ([]*domain.QuoteRequest, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	docs, err := r.find(ctx, bson.D{
		{Key: "status", Value: string(status)},
		{Key: "createdAt", Value: bson.D{{Key: "$lt", Value: before.UTC()}}},
	}, opts)
	if err != nil {
		return nil, fmt.Errorf("listing stale quote requests: %w", err)
	}

	return docs, nil
}

func (r *QuoteRepository) find(ctx context.Context, filter bson.D, opts *options.FindOptionsBuilder) ([]*domain.QuoteRequest, error) {
	cur, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []quoteDocument
	if err := cur.All(ctx, &docs); err != nil {
		return nil, err
	}

	out := make([]*domain.QuoteRequest, len(docs))
	for i, d := range docs {
		out[i] = d.toDomain()
	}

	return out, nil
}

func (r *QuoteRepository) update(ctx context.Context, id string, update bson.D) error {
	res, err := r.coll.UpdateOne(ctx, bson.D{{Key: "_id", Value: id}}, update)
	if err != nil {
		return fmt.Errorf("updating quote request: %w", err)
	}

	if res.MatchedCount == 0 {
		return domain.NewNotFoundError("quote_request", id)
	}

	return nil
}
