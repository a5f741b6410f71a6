package postgres

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// AdminRepository implements ports.AdminRepository with GORM.
type AdminRepository struct {
	db *gorm.DB
}

var _ ports.AdminRepository = (*AdminRepository)(nil)

func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*domain.AdminUser, error) {
	email = domain.NormalizeEmail(email)

	var row adminRow

	err := r.db.WithContext(ctx).First(&row, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NewNotFoundError("admin_user", email)
	}

	if err != nil {
		return nil, fmt.Errorf("finding admin: %w", err)
	}

	return row.toDomain(), nil
}

// CreateIfAbsent inserts u with ON CONFLICT (email) DO NOTHING.
func (r *AdminRepository) CreateIfAbsent(ctx context.Context, u *domain.AdminUser) (bool, error) {
	row := adminRow{
		ID:           u.ID,
		Email:        domain.NormalizeEmail(u.Email),
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
		Active:       u.Active,
		CreatedAt:    u.CreatedAt.UTC(),
	}

	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&row)
	if res.Error != nil {
		return false, fmt.Errorf("creating admin: %w", res.Error)
	}

	return res.RowsAffected == 1, nil
}
