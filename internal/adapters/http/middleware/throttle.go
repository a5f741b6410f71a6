package middleware

import (
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/http/dto"
)

const defaultThrottleIdleTTL = 15 * time.Minute

// ThrottleConfig configures Throttle.
type ThrottleConfig struct {
	RPS        float64
	Burst      int
	IdleTTL    time.Duration
	TrustProxy bool
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Throttler keeps one token bucket per client IP. It protects the API from
// request floods and is independent of the quote intake window, which
// counts accepted-or-not submissions per hour.
type Throttler struct {
	mu      sync.Mutex
	entries map[string]*throttleEntry
	cfg     ThrottleConfig
	now     func() time.Time
}

// NewThrottler creates a Throttler.
func NewThrottler(cfg ThrottleConfig) *Throttler {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = defaultThrottleIdleTTL
	}

	if cfg.Burst < 1 {
		cfg.Burst = 1
	}

	return &Throttler{
		entries: make(map[string]*throttleEntry),
		cfg:     cfg,
		now:     time.Now,
	}
}

func (t *Throttler) limiter(key string) *rate.Limiter {
	now := t.now()

	t.mu.Lock()
	defer t.mu.Unlock()

	if e, ok := t.entries[key]; ok {
		e.lastSeen = now
		return e.limiter
	}

	l := rate.NewLimiter(rate.Limit(t.cfg.RPS), t.cfg.Burst)
	t.entries[key] = &throttleEntry{limiter: l, lastSeen: now}

	return l
}

// Sweep drops buckets idle for longer than IdleTTL and returns how many
// were removed. The scheduler calls it periodically.
func (t *Throttler) Sweep() int {
	cutoff := t.now().Add(-t.cfg.IdleTTL)

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0

	for k, e := range t.entries {
		if e.lastSeen.Before(cutoff) {
			delete(t.entries, k)
			removed++
		}
	}

	return removed
}

// Len returns the number of tracked clients.
func (t *Throttler) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()

	return len(t.entries)
}

// Middleware answers 429 with Retry-After once a client exhausts its bucket.
func (t *Throttler) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		l := t.limiter(ClientIP(c, t.cfg.TrustProxy))

		r := l.ReserveN(t.now(), 1)
		if !r.OK() {
			abortThrottled(c, time.Second)
			return
		}

		if delay := r.DelayFrom(t.now()); delay > 0 {
			r.CancelAt(t.now())
			abortThrottled(c, delay)

			return
		}

		c.Next()
	}
}

func abortThrottled(c *gin.Context, retryAfter time.Duration) {
	c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
	c.AbortWithStatusJSON(http.StatusTooManyRequests,
		dto.NewErrorResponse(dto.ErrorCodeRateLimited, "too many requests, please slow down").WithTraceID(dto.GetTraceID(c)))
}
