package ratelimit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// incrementScript increments the counter and starts the window on the first
// hit, in one round trip executed atomically by Redis.
var incrementScript = redis.NewScript(`
local n = redis.call("INCR", KEYS[1])
if n == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return n
`)

// admitScript admits a known member, or adds a new one while the set is below
// the limit. The set expires `window` after its first member.
var admitScript = redis.NewScript(`
if redis.call("SISMEMBER", KEYS[1], ARGV[1]) == 1 then
  return 1
end
if redis.call("SCARD", KEYS[1]) >= tonumber(ARGV[3]) then
  return 0
end
redis.call("SADD", KEYS[1], ARGV[1])
if redis.call("PTTL", KEYS[1]) < 0 then
  redis.call("PEXPIRE", KEYS[1], ARGV[2])
end
return 1
`)

// RedisStore is a fixed-window counter shared by every service instance.
type RedisStore struct {
	rdb    redis.Cmdable
	prefix string
}

var _ ports.RateLimitStore = (*RedisStore)(nil)

// RedisOption configures a RedisStore.
type RedisOption func(*RedisStore)

// WithPrefix namespaces counter keys, e.g. "catalog" -> "catalog:ratelimit:<key>".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisStore) {
		s.prefix = strings.Trim(prefix, ":")
	}
}

// NewRedisStore creates a store on rdb.
func NewRedisStore(rdb redis.Cmdable, opts ...RedisOption) *RedisStore {
	s := &RedisStore{rdb: rdb}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func (s *RedisStore) key(k string) string {
	if s.prefix == "" {
		return "ratelimit:" + k
	}

	return s.prefix + ":ratelimit:" + k
}

// IncrementAndCheck implements ports.RateLimitStore.
func (s *RedisStore) IncrementAndCheck(ctx context.Context, key string, win time.Duration, limit int) (bool, error) {
	n, err := incrementScript.Run(ctx, s.rdb, []string{s.key(key)}, win.Milliseconds()).Int64()
	if err != nil {
		return false, domain.NewUnavailableError("redis", fmt.Sprintf("rate limit increment: %v", err))
	}

	return n <= int64(limit), nil
}

// AdmitMember implements ports.RateLimitStore.
func (s *RedisStore) AdmitMember(ctx context.Context, key, member string, win time.Duration, limit int) (bool, error) {
	n, err := admitScript.Run(ctx, s.rdb, []string{s.key(key)}, member, win.Milliseconds(), limit).Int64()
	if err != nil {
		return false, domain.NewUnavailableError("redis", fmt.Sprintf("quota admit: %v", err))
	}

	return n == 1, nil
}

// Ping checks connectivity for the readiness probe.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
