package mongodb

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// AdminRepository implements ports.AdminRepository on a MongoDB collection.
type AdminRepository struct {
	coll *mongo.Collection
}

var _ ports.AdminRepository = (*AdminRepository)(nil)

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	email = domain.NormalizeEmail(email)

	var doc adminDocument

	err := r.coll.FindOne(ctx, bson.D{{Key: "email", Value: email}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, domain.NewNotFoundError("admin_user", email)
	}

	if err != nil {
		return nil, fmt.Errorf("finding admin: %w", err)
	}

	return doc.toDomain(), nil
}

// CreateIfAbsent upserts with $setOnInsert so an existing account is never touched.
func (r *AdminRepository) CreateIfAbsent(ctx context.Context, u *domain.AdminUser) (bool, error) {
	email := domain.NormalizeEmail(u.Email)

	doc := adminDocument{
		ID:           u.ID,
		Email:        email,
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt.UTC(),
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.D{{Key: "email", Value: email}},
		bson.D{{Key: "$setOnInsert", Value: doc}},
		options.UpdateOne().SetUpsert(true),
	)
	if err != nil {
		if isDuplicateKey(err) {
			return false, nil
		}

		return false, fmt.Errorf("creating admin: %w", err)
	}

	return res.UpsertedCount > 0, nil
}
