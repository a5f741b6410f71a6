// Package mongodb stores quote requests and admin accounts in MongoDB.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// Collection names.
const (
	QuotesCollection = "quote_requests"
	AdminsCollection = "admin_users"
)

// DefaultConnectTimeout bounds Connect when Config.ConnectTimeout is zero.
const DefaultConnectTimeout = 10 * time.Second

// Config configures the MongoDB connection.
type Config struct {
	URI            string
	Database       string
	ConnectTimeout time.Duration
}

// Store owns the client and hands out repositories.
type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

// Connect dials MongoDB, pings the primary and ensures indexes exist.
func Connect(ctx context.Context, cfg Config) (*Store, error) {
	if cfg.URI == "" || cfg.Database == "" {
		return nil, errors.New("mongodb: uri and database are required")
	}

	timeout := cfg.ConnectTimeout
	if timeout <= 0 {
		timeout = DefaultConnectTimeout
	}

	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetServerAPIOptions(serverAPI).
		SetConnectTimeout(timeout)

	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongodb: connecting: %w", err)
	}

	s := &Store{client: client, db: client.Database(cfg.Database)}

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(pingCtx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("mongodb: ping: %w", err)
	}

	if err := s.EnsureIndexes(pingCtx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, err
	}

	return s, nil
}

// EnsureIndexes creates the indexes the repositories rely on. The unique
// (email, phone, submissionDay) index is what makes concurrent duplicate
// inserts fail.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	quotes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "phone", Value: 1}, {Key: "submissionDay", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("ux_quote_email_phone_day"),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}, {Key: "createdAt", Value: -1}},
			Options: options.Index().SetName("ix_quote_email_created"),
		},
		{
			Keys:    bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}},
			Options: options.Index().SetName("ix_quote_created_id"),
		},
		{
			Keys:    bson.D{{Key: "status", Value: 1}, {Key: "createdAt", Value: 1}},
			Options: options.Index().SetName("ix_quote_status_created"),
		},
	}

	if _, err := s.db.Collection(QuotesCollection).Indexes().CreateMany(ctx, quotes); err != nil {
		return fmt.Errorf("mongodb: creating quote indexes: %w", err)
	}

	admins := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("ux_admin_email"),
	}

	if _, err := s.db.Collection(AdminsCollection).Indexes().CreateOne(ctx, admins); err != nil {
		return fmt.Errorf("mongodb: creating admin indexes: %w", err)
	}

	return nil
}

// Quotes returns the quote repository.
func (s *Store) Quotes() *QuoteRepository {
	return &QuoteRepository{coll: s.db.Collection(QuotesCollection)}
}

// Admins returns the admin repository.
func (s *Store) Admins() *AdminRepository {
	return &AdminRepository{coll: s.db.Collection(AdminsCollection)}
}

// Ping checks the primary is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the client.
func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// isDuplicateKey reports a unique index violation (E11000).
func isDuplicateKey(err error) bool {
	return mongo.IsDuplicateKeyError(err)
}
