package app

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// AuthServiceConfig holds the dependencies of AuthService.
type AuthServiceConfig struct {
	Admins      ports.AdminRepository
	Hasher      ports.PasswordHasher
	Tokens      ports.TokenIssuer
	Clock       func() time.Time
	IDGenerator func() string
	Logger      *slog.Logger
}

// AuthService logs staff in and seeds the initial admin account.
type AuthService struct {
	admins ports.AdminRepository
	hasher ports.PasswordHasher
	tokens ports.TokenIssuer
	now    func() time.Time
	newID  func() string
	logger *slog.Logger

	dummyOnce sync.Once
	dummyHash string
}

// LoginResult is a successful login.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
	User      *domain.AdminUser
}

// NewAuthService creates an AuthService. It panics on missing dependencies.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	if cfg.Admins == nil || cfg.Hasher == nil || cfg.Tokens == nil {
		panic("app: AuthServiceConfig requires Admins, Hasher and Tokens")
	}

	s := &AuthService{
		admins: cfg.Admins,
		hasher: cfg.Hasher,
		tokens: cfg.Tokens,
		now:    cfg.Clock,
		newID:  cfg.IDGenerator,
		logger: cfg.Logger,
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

	s.logger = s.logger.With(slog.String("component", "app.AuthService"))

	return s
}

// Login verifies credentials and issues an access token. Unknown accounts,
// wrong passwords and inactive accounts all yield domain.ErrUnauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = domain.NormalizeEmail(email)

	user, err := s.admins.FindByEmail(ctx, email)
	if err != nil {
		if !domain.IsNotFound(err) {
			return nil, fmt.Errorf("finding admin: %w", err)
		}

		// Spend the same bcrypt work as a real comparison.
		_ = s.hasher.Compare(s.fallbackHash(), password)
		s.logger.WarnContext(ctx, "admin login failed", slog.String("email", email), slog.String("reason", "unknown account"))

		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	if err := s.hasher.Compare(user.PasswordHash, password); err != nil {
		s.logger.WarnContext(ctx, "admin login failed", slog.String("email", email), slog.String("reason", "wrong password"))
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	if !user.Active {
		s.logger.WarnContext(ctx, "admin login failed", slog.String("email", email), slog.String("reason", "inactive"))
		return nil, domain.NewUnauthorizedError("invalid credentials")
	}

	token, expiresAt, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issuing token: %w", err)
	}

	s.logger.InfoContext(ctx, "admin logged in", slog.String("admin_id", user.ID))

	return &LoginResult{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves an access token to a principal.
func (s *AuthService) Authenticate(token string) (*domain.Principal, error) {
	p, err := s.tokens.Parse(token)
	if err != nil {
		return nil, domain.NewUnauthorizedError("invalid token")
	}

	return p, nil
}

// SeedAdmin creates the admin account unless one with the same email exists.
func (s *AuthService) SeedAdmin(ctx context.Context, email, password string) error {
	email = domain.NormalizeEmail(email)
	if email == "" {
		return nil
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("hashing admin password: %w", err)
	}

	created, err := s.admins.CreateIfAbsent(ctx, &domain.AdminUser{
		ID:           s.newID(),
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleAdmin,
		Active:       true,
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("seeding admin: %w", err)
	}

	if created {
		s.logger.InfoContext(ctx, "seeded admin account", slog.String("email", email))
	}

	return nil
}

func (s *AuthService) fallbackHash() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash(uuid.NewString())
	})

	return s.dummyHash
}
