//go:build integration

package ratelimit

import (
	"context"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// redisStore connects to APP_REDIS_ADDR under a random prefix.
func redisStore(t *testing.T) *RedisStore {
	t.Helper()

	addr := os.Getenv("APP_REDIS_ADDR")
	if addr == "" {
		t.Skip("APP_REDIS_ADDR not set")
	}

	rdb := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	store := NewRedisStore(rdb, WithPrefix("test-"+uuid.NewString()[:8]))
	require.NoError(t, store.Ping(context.Background()))

	return store
}

func TestRedisStore_LimitAndWindowExpiry(t *testing.T) {
	store := redisStore(t)
	ctx := context.Background()

	for i := 1; i <= 3; i++ {
		ok, err := store.IncrementAndCheck(ctx, "quote:ip:10.0.0.1", 300*time.Millisecond, 3)
		require.NoError(t, err)
		assert.True(t, ok, "hit %d should pass", i)
	}

	ok, err := store.IncrementAndCheck(ctx, "quote:ip:10.0.0.1", 300*time.Millisecond, 3)
	require.NoError(t, err)
	assert.False(t, ok)

	time.Sleep(400 * time.Millisecond)

	ok, err = store.IncrementAndCheck(ctx, "quote:ip:10.0.0.1", 300*time.Millisecond, 3)
	require.NoError(t, err)
	assert.True(t, ok, "window should have expired")
}

func TestRedisStore_ConcurrentIncrementsAreAtomic(t *testing.T) {
	store := redisStore(t)

	const (
		workers = 50
		limit   = 5
	)

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ok, err := store.IncrementAndCheck(context.Background(), "quote:email:race@b.com", time.Minute, limit)
			if assert.NoError(t, err) && ok {
				allowed.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(limit), allowed.Load())
}

func TestRedisStore_AdmitMemberCapsDistinctMembers(t *testing.T) {
	store := redisStore(t)

	const (
		workers = 30
		limit   = 5
	)

	var (
		wg      sync.WaitGroup
		allowed atomic.Int32
	)

	for i := range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			ok, err := store.AdmitMember(context.Background(), "quote:email:burst@b.com:2026-03-10",
				fmt.Sprintf("555-%04d", i), time.Minute, limit)
			if assert.NoError(t, err) && ok {
				allowed.Add(1)
			}
		}()
	}

	wg.Wait()

	assert.Equal(t, int32(limit), allowed.Load())

	ok, err := store.AdmitMember(context.Background(), "quote:email:burst@b.com:2026-03-10", "555-0000", time.Minute, limit)
	require.NoError(t, err)
	assert.Equal(t, allowedContains(t, store, "555-0000"), ok)
}

// allowedContains reports whether member made it into the burst set.
func allowedContains(t *testing.T, store *RedisStore, member string) bool {
	t.Helper()

	rdb, ok := store.rdb.(*redis.Client)
	require.True(t, ok)

	in, err := rdb.SIsMember(context.Background(), store.key("quote:email:burst@b.com:2026-03-10"), member).Result()
	require.NoError(t, err)

	return in
}
