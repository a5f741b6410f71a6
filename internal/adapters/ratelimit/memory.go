// Package ratelimit implements fixed-window counters and member sets behind
// ports.RateLimitStore.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/jsamuelsen/supplier-catalog/internal/ports"
)

// MemoryStore is a mutex-guarded fixed-window counter for single-instance
// deployments. Expired windows are dropped by Sweep.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	sets    map[string]*memberSet
	now     func() time.Time
}

type window struct {
	count   int
	expires time.Time
}

type memberSet struct {
	members map[string]struct{}
	expires time.Time
}

var _ ports.RateLimitStore = (*MemoryStore)(nil)

// MemoryOption configures a MemoryStore.
type MemoryOption func(*MemoryStore)

// WithClock overrides time.Now.
func WithClock(now func() time.Time) MemoryOption {
	return func(s *MemoryStore) { s.now = now }
}

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	s := &MemoryStore{
		windows: make(map[string]*window),
		sets:    make(map[string]*memberSet),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// IncrementAndCheck counts a hit for key. A window starts at the first hit and
// lasts for `win`; hits beyond limit are counted and rejected.
func (s *MemoryStore) IncrementAndCheck(ctx context.Context, key string, win time.Duration, limit int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	w, ok := s.windows[key]
	if !ok || !now.Before(w.expires) {
		w = &window{expires: now.Add(win)}
		s.windows[key] = w
	}

	w.count++

	return w.count <= limit, nil
}

// AdmitMember implements ports.RateLimitStore. Like the counters, a set
// lives for `win` from its first member.
func (s *MemoryStore) AdmitMember(ctx context.Context, key, member string, win time.Duration, limit int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	set, ok := s.sets[key]
	if !ok || !now.Before(set.expires) {
		set = &memberSet{members: make(map[string]struct{}), expires: now.Add(win)}
		s.sets[key] = set
	}

	if _, seen := set.members[member]; seen {
		return true, nil
	}

	if len(set.members) >= limit {
		return false, nil
	}

	set.members[member] = struct{}{}

	return true, nil
}

// Sweep removes expired windows and sets and returns how many were removed.
func (s *MemoryStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for key, w := range s.windows {
		if !now.Before(w.expires) {
			delete(s.windows, key)
			removed++
		}
	}

	for key, set := range s.sets {
		if !now.Before(set.expires) {
			delete(s.sets, key)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked keys.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.windows) + len(s.sets)
}
