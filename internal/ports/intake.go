package ports

import (
	"context"
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
)

// RateLimitStore holds atomic fixed-window counters.
type RateLimitStore interface {
	// IncrementAndCheck counts one hit for key in the current window and
	// reports whether the hit is within limit. The increment and the check
	// happen atomically so concurrent callers never both take the last slot.
	IncrementAndCheck(ctx context.Context, key string, window time.Duration, limit int) (bool, error)

	// AdmitMember adds member to the set at key for the current window and
	// reports whether it fits within limit distinct members. A member that is
	// already present is always admitted. Membership test, size check and add
	// happen atomically.
	AdmitMember(ctx context.Context, key, member string, window time.Duration, limit int) (bool, error)
}

// Notifier delivers the new-request alert. It is called off the request path.
type Notifier interface {
	Notify(ctx context.Context, q *domain.QuoteRequest, recipients []domain.Recipient) error
}

// DigestSender sends a summary of requests still waiting for a reply.
type DigestSender interface {
	SendDigest(ctx context.Context, pending []*domain.QuoteRequest, recipients []domain.Recipient) error
}

// PasswordHasher hashes and verifies admin passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenIssuer signs and verifies admin access tokens.
type TokenIssuer interface {
	Issue(user *domain.AdminUser) (token string, expiresAt time.Time, err error)
	Parse(token string) (*domain.Principal, error)
}
