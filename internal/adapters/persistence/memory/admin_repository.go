package memory

import (
	"context"
	"sync"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// AdminRepository keeps staff accounts keyed by normalized email.
type AdminRepository struct {
	mu      sync.RWMutex
	byEmail map[string]domain.AdminUser
}

var _ ports.AdminRepository = (*AdminRepository)(nil)

// NewAdminRepository creates an empty repository.
func NewAdminRepository() *AdminRepository {
	return &AdminRepository{byEmail: make(map[string]domain.AdminUser)}
}

func (r *AdminRepository) FindByEmail(_ context.Context, email string) (*domain.AdminUser, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[domain.NormalizeEmail(email)]
	if !ok {
		return nil, domain.NewNotFoundError("admin_user", email)
	}

	return &u, nil
}

func (r *AdminRepository) CreateIfAbsent(_ context.Context, u *domain.AdminUser) (bool, error) {
	email := domain.NormalizeEmail(u.Email)

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[email]; exists {
		return false, nil
	}

	stored := *u
	stored.Email = email
	r.byEmail[email] = stored

	return true, nil
}
