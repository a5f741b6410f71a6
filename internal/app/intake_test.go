package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/jsamuelsen/supplier-catalog/internal/adapters/persistence/memory"
	"github.com/jsamuelsen/supplier-catalog/internal/adapters/ratelimit"
	"github.com/jsamuelsen/supplier-catalog/internal/domain"
	"github.com/jsamuelsen/supplier-catalog/internal/mocks"
)

var baseTime = time.Date(2026, 3, 10, 14, 0, 0, 0, time.UTC)

type intakeFixture struct {
	svc   *IntakeService
	repo  *memory.QuoteRepository
	clock *testClock
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

func newIntakeFixture(t *testing.T, notifications func(*memory.QuoteRepository) *NotificationDispatcher) *intakeFixture {
	t.Helper()

	clock := &testClock{now: baseTime}
	repo := memory.NewQuoteRepository()

	cfg := IntakeServiceConfig{
		Repository:  repo,
		RateLimiter: ratelimit.NewMemoryStore(ratelimit.WithClock(clock.Now)),
		Gate:        DefaultGateConfig(),
		Clock:       clock.Now,
	}

	if notifications != nil {
		cfg.Notifications = notifications(repo)
	}

	return &intakeFixture{svc: NewIntakeService(cfg), repo: repo, clock: clock}
}

// submission builds a form submitted `elapsed` after it was rendered.
func submission(email, phone string, now time.Time, elapsed time.Duration) domain.Submission {
	return domain.Submission{
		Name:        "Dana Ortiz",
		Company:     "Ortiz Electric",
		Email:       email,
		Phone:       phone,
		ProductName: "THHN 12 AWG copper wire",
		Quantity:    "40 spools",
		RenderedAt:  now.Add(-elapsed),
	}
}

func (f *intakeFixture) submit(t *testing.T, sub domain.Submission, ip string) domain.Result {
	t.Helper()

	res, err := f.svc.SubmitQuote(context.Background(), sub, domain.RequestMeta{
		IP:         ip,
		UserAgent:  "test",
		ReceivedAt: f.clock.Now(),
	})
	require.NoError(t, err)

	return res
}

func TestSubmitQuote_DuplicateScenario(t *testing.T) {
	f := newIntakeFixture(t, nil)

	first := f.submit(t, submission("a@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.0.0.1")
	require.Equal(t, domain.OutcomeAccepted, first.Outcome)
	assert.NotEmpty(t, first.QuoteID)

	f.clock.Advance(2 * time.Minute)

	second := f.submit(t, submission("a@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.0.0.1")
	assert.Equal(t, domain.OutcomeDuplicate, second.Outcome)
	assert.Equal(t, domain.ReasonRecentDuplicate, second.Reason)
	assert.Empty(t, second.QuoteID)

	third := f.submit(t, submission("a@b.com", "555-2222", f.clock.Now(), 3*time.Second), "10.0.0.1")
	assert.Equal(t, domain.OutcomeAccepted, third.Outcome)

	stored, err := f.repo.Get(context.Background(), first.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusNew, stored.Status)
	assert.Equal(t, "2026-03-10", stored.SubmissionDay)
}

func TestSubmitQuote_NormalizedInputsCollide(t *testing.T) {
	f := newIntakeFixture(t, nil)

	first := f.submit(t, submission("Buyer@Example.com ", "555-1111", f.clock.Now(), 3*time.Second), "10.0.0.1")
	require.True(t, first.Accepted())

	second := f.submit(t, submission("buyer@example.com", " 555-1111", f.clock.Now(), 3*time.Second), "10.0.0.2")
	assert.Equal(t, domain.OutcomeDuplicate, second.Outcome)
}

func TestSubmitQuote_DuplicateOutsideWindowHitsUniqueConstraint(t *testing.T) {
	f := newIntakeFixture(t, nil)

	first := f.submit(t, submission("a@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.0.0.1")
	require.True(t, first.Accepted())

	// Past the pre-check window but still the same UTC day.
	f.clock.Advance(30 * time.Minute)

	second := f.submit(t, submission("a@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.0.0.1")
	assert.Equal(t, domain.OutcomeDuplicate, second.Outcome)
	assert.Equal(t, domain.ReasonUniqueConflict, second.Reason)
}

func TestSubmitQuote_ConcurrentIdenticalSubmissions(t *testing.T) {
	f := newIntakeFixture(t, nil)

	const n = 25

	now := f.clock.Now()
	results := make([]domain.Result, n)
	errs := make([]error, n)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)

	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start

			results[i], errs[i] = f.svc.SubmitQuote(context.Background(),
				submission("race@b.com", "555-9999", now, 3*time.Second),
				domain.RequestMeta{IP: fmt.Sprintf("10.1.0.%d", i), ReceivedAt: now},
			)
		}()
	}

	close(start)
	wg.Wait()

	accepted, duplicates := 0, 0

	for i := range n {
		require.NoError(t, errs[i])

		switch results[i].Outcome {
		case domain.OutcomeAccepted:
			accepted++
		case domain.OutcomeDuplicate:
			duplicates++
		default:
			t.Fatalf("unexpected outcome %q", results[i].Outcome)
		}
	}

	assert.Equal(t, 1, accepted)
	assert.Equal(t, n-1, duplicates)

	count, err := f.repo.CountByEmailSince(context.Background(), "race@b.com", domain.StartOfDay(now))
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSubmitQuote_EmailQuotaBoundary(t *testing.T) {
	f := newIntakeFixture(t, nil)

	for i := 1; i <= 5; i++ {
		res := f.submit(t, submission("quota@b.com", fmt.Sprintf("555-000%d", i), f.clock.Now(), 3*time.Second),
			fmt.Sprintf("10.2.0.%d", i))
		require.Equal(t, domain.OutcomeAccepted, res.Outcome, "submission %d", i)
	}

	sixth := f.submit(t, submission("quota@b.com", "555-0006", f.clock.Now(), 3*time.Second), "10.2.0.6")
	assert.Equal(t, domain.OutcomeQuotaExceeded, sixth.Outcome)
	assert.Equal(t, domain.ReasonEmailQuota, sixth.Reason)

	// The quota follows the UTC calendar day.
	f.clock.Advance(10 * time.Hour)

	nextDay := f.submit(t, submission("quota@b.com", "555-0006", f.clock.Now(), 3*time.Second), "10.2.0.7")
	assert.Equal(t, domain.OutcomeAccepted, nextDay.Outcome)
}

// slowCountRepository delays the quota count like a networked store would,
// so concurrent submissions all read the count before any of them inserts.
type slowCountRepository struct {
	*memory.QuoteRepository
	delay time.Duration
}

func (r slowCountRepository) CountByEmailSince(ctx context.Context, email string, since time.Time) (int, error) {
	n, err := r.QuoteRepository.CountByEmailSince(ctx, email, since)
	time.Sleep(r.delay)

	return n, err
}

func TestSubmitQuote_EmailQuotaHoldsUnderConcurrentBurst(t *testing.T) {
	repo := memory.NewQuoteRepository()
	svc := NewIntakeService(IntakeServiceConfig{
		Repository:  slowCountRepository{QuoteRepository: repo, delay: 5 * time.Millisecond},
		RateLimiter: ratelimit.NewMemoryStore(),
		Gate:        DefaultGateConfig(),
		Clock:       func() time.Time { return baseTime },
	})

	const n = 30

	results := make([]domain.Result, n)
	errs := make([]error, n)

	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
	)

	for i := range n {
		wg.Add(1)

		go func() {
			defer wg.Done()
			<-start

			results[i], errs[i] = svc.SubmitQuote(context.Background(),
				submission("burst@b.com", fmt.Sprintf("555-%04d", i), baseTime, 3*time.Second),
				domain.RequestMeta{IP: fmt.Sprintf("10.8.0.%d", i), ReceivedAt: baseTime},
			)
		}()
	}

	close(start)
	wg.Wait()

	accepted := 0

	for i := range n {
		require.NoError(t, errs[i])

		switch results[i].Outcome {
		case domain.OutcomeAccepted:
			accepted++
		case domain.OutcomeQuotaExceeded:
		default:
			t.Fatalf("unexpected outcome %q", results[i].Outcome)
		}
	}

	limit := DefaultGateConfig().QuotaPerDayMax
	assert.Equal(t, limit, accepted)

	stored, err := repo.CountByEmailSince(context.Background(), "burst@b.com", domain.StartOfDay(baseTime))
	require.NoError(t, err)
	assert.Equal(t, limit, stored)
}

func TestSubmitQuote_StoredCountRejectsKnownPhoneAtQuota(t *testing.T) {
	f := newIntakeFixture(t, nil)

	for i := 1; i <= 5; i++ {
		res := f.submit(t, submission("full@b.com", fmt.Sprintf("555-010%d", i), f.clock.Now(), 3*time.Second),
			fmt.Sprintf("10.9.0.%d", i))
		require.True(t, res.Accepted(), "submission %d", i)
	}

	// The stored count already turns the sixth away, whatever its phone.
	again := f.submit(t, submission("full@b.com", "555-0101", f.clock.Now(), 3*time.Second), "10.9.0.6")
	assert.Equal(t, domain.OutcomeQuotaExceeded, again.Outcome)
}

func TestSubmitQuote_QuotaStoreDownFailsClosed(t *testing.T) {
	limiter := mocks.NewMockRateLimitStore(t)
	repo := mocks.NewMockQuoteRepository(t)

	limiter.EXPECT().IncrementAndCheck(mock.Anything, "quote:ip:10.7.0.1", time.Hour, 5).Return(true, nil)
	limiter.EXPECT().AdmitMember(mock.Anything, "quote:email:a@b.com:2026-03-10", "555-1111", 24*time.Hour, 5).
		Return(false, errors.New("i/o timeout"))
	repo.EXPECT().CountByEmailSince(mock.Anything, "a@b.com", domain.StartOfDay(baseTime)).Return(2, nil)

	svc := NewIntakeService(IntakeServiceConfig{
		Repository:  repo,
		RateLimiter: limiter,
		Gate:        DefaultGateConfig(),
	})

	_, err := svc.SubmitQuote(context.Background(),
		submission("a@b.com", "555-1111", baseTime, 3*time.Second),
		domain.RequestMeta{IP: "10.7.0.1", ReceivedAt: baseTime})

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestChargeAttempt_CountsAgainstRateLimit(t *testing.T) {
	f := newIntakeFixture(t, nil)
	meta := domain.RequestMeta{IP: "10.10.0.1", ReceivedAt: f.clock.Now()}

	for i := 1; i <= 5; i++ {
		res, err := f.svc.ChargeAttempt(context.Background(), meta)
		require.NoError(t, err)
		assert.Empty(t, res.Outcome, "attempt %d", i)
	}

	res, err := f.svc.ChargeAttempt(context.Background(), meta)
	require.NoError(t, err)
	assert.Equal(t, domain.OutcomeRateLimited, res.Outcome)

	sub := f.submit(t, submission("after@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.10.0.1")
	assert.Equal(t, domain.OutcomeRateLimited, sub.Outcome)
}

func TestSubmitQuote_RateLimitPerIP(t *testing.T) {
	f := newIntakeFixture(t, nil)

	for i := 1; i <= 5; i++ {
		res := f.submit(t, submission(fmt.Sprintf("ip%d@b.com", i), "555-1111", f.clock.Now(), 3*time.Second), "10.3.0.1")
		require.Equal(t, domain.OutcomeAccepted, res.Outcome, "submission %d", i)
	}

	sixth := f.submit(t, submission("ip6@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.3.0.1")
	assert.Equal(t, domain.OutcomeRateLimited, sixth.Outcome)

	other := f.submit(t, submission("ip6@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.3.0.2")
	assert.Equal(t, domain.OutcomeAccepted, other.Outcome)

	f.clock.Advance(time.Hour)

	later := f.submit(t, submission("ip7@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.3.0.1")
	assert.Equal(t, domain.OutcomeAccepted, later.Outcome)
}

func TestSubmitQuote_TimingBoundaries(t *testing.T) {
	tests := []struct {
		name    string
		elapsed time.Duration
		want    domain.Outcome
		reason  string
	}{
		{name: "exactly minimum", elapsed: 1500 * time.Millisecond, want: domain.OutcomeAccepted},
		{name: "just under minimum", elapsed: 1499 * time.Millisecond, want: domain.OutcomeBot, reason: domain.ReasonTooFast},
		{name: "instant", elapsed: 0, want: domain.OutcomeBot, reason: domain.ReasonTooFast},
		{name: "exactly maximum", elapsed: time.Hour, want: domain.OutcomeAccepted},
		{name: "just over maximum", elapsed: time.Hour + time.Millisecond, want: domain.OutcomeBot, reason: domain.ReasonStale},
		{name: "rendered in the future", elapsed: -time.Minute, want: domain.OutcomeBot, reason: domain.ReasonTooFast},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newIntakeFixture(t, nil)

			res := f.submit(t, submission("timing@b.com", "555-1111", f.clock.Now(), tt.elapsed), "10.4.0.1")
			assert.Equal(t, tt.want, res.Outcome)
			assert.Equal(t, tt.reason, res.Reason)
		})
	}
}

func TestSubmitQuote_MissingRenderTimestamp(t *testing.T) {
	f := newIntakeFixture(t, nil)

	sub := submission("timing@b.com", "555-1111", f.clock.Now(), 3*time.Second)
	sub.RenderedAt = time.Time{}

	res := f.submit(t, sub, "10.4.0.1")
	assert.Equal(t, domain.OutcomeBot, res.Outcome)
	assert.Equal(t, domain.ReasonMissingTimestamp, res.Reason)
}

func TestSubmitQuote_Honeypot(t *testing.T) {
	f := newIntakeFixture(t, nil)

	sub := submission("bot@b.com", "555-1111", f.clock.Now(), 3*time.Second)
	sub.Honeypot = map[string]string{"website": "http://spam.example", "fax_number": ""}

	res := f.submit(t, sub, "10.5.0.1")
	assert.Equal(t, domain.OutcomeBot, res.Outcome)
	assert.Equal(t, domain.ReasonHoneypot, res.Reason)

	count, err := f.repo.CountByEmailSince(context.Background(), "bot@b.com", time.Time{})
	require.NoError(t, err)
	assert.Zero(t, count, "nothing is stored for bot submissions")

	sub.Honeypot = map[string]string{"website": "   "}
	assert.True(t, f.submit(t, sub, "10.5.0.1").Accepted(), "blank decoys are ignored")
}

func TestSubmitQuote_HoneypotCheckedBeforeTiming(t *testing.T) {
	f := newIntakeFixture(t, nil)

	sub := submission("bot@b.com", "555-1111", f.clock.Now(), 0)
	sub.Honeypot = map[string]string{"fax_number": "1"}

	res := f.submit(t, sub, "10.5.0.1")
	assert.Equal(t, domain.ReasonHoneypot, res.Reason)
}

func TestSubmitQuote_Validation(t *testing.T) {
	f := newIntakeFixture(t, nil)

	_, err := f.svc.SubmitQuote(context.Background(),
		submission("not-an-email", "555-1111", f.clock.Now(), 3*time.Second),
		domain.RequestMeta{IP: "10.6.0.1", ReceivedAt: f.clock.Now()})
	assert.True(t, domain.IsValidation(err))

	_, err = f.svc.SubmitQuote(context.Background(),
		submission("ok@b.com", "  ", f.clock.Now(), 3*time.Second),
		domain.RequestMeta{IP: "10.6.0.1", ReceivedAt: f.clock.Now()})
	assert.True(t, domain.IsValidation(err))
}

func TestSubmitQuote_FailsClosedWhenRateLimiterDown(t *testing.T) {
	limiter := mocks.NewMockRateLimitStore(t)
	repo := mocks.NewMockQuoteRepository(t)

	limiter.EXPECT().
		IncrementAndCheck(mock.Anything, "quote:ip:10.7.0.1", time.Hour, 5).
		Return(false, errors.New("dial tcp: connection refused"))

	svc := NewIntakeService(IntakeServiceConfig{
		Repository:  repo,
		RateLimiter: limiter,
		Gate:        DefaultGateConfig(),
	})

	res, err := svc.SubmitQuote(context.Background(),
		submission("a@b.com", "555-1111", baseTime, 3*time.Second),
		domain.RequestMeta{IP: "10.7.0.1", ReceivedAt: baseTime})

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.False(t, res.Accepted())
	repo.AssertNotCalled(t, "Insert", mock.Anything, mock.Anything)
}

func TestSubmitQuote_FailsClosedWhenRepositoryDown(t *testing.T) {
	limiter := mocks.NewMockRateLimitStore(t)
	repo := mocks.NewMockQuoteRepository(t)

	limiter.EXPECT().IncrementAndCheck(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	repo.EXPECT().CountByEmailSince(mock.Anything, "a@b.com", domain.StartOfDay(baseTime)).
		Return(0, errors.New("connection reset"))

	svc := NewIntakeService(IntakeServiceConfig{
		Repository:  repo,
		RateLimiter: limiter,
		Gate:        DefaultGateConfig(),
	})

	_, err := svc.SubmitQuote(context.Background(),
		submission("a@b.com", "555-1111", baseTime, 3*time.Second),
		domain.RequestMeta{IP: "10.7.0.1", ReceivedAt: baseTime})

	require.Error(t, err)
	assert.True(t, domain.IsUnavailable(err))
	assert.ErrorContains(t, err, "connection reset")
}

func TestSubmitQuote_InsertErrorIsUnavailable(t *testing.T) {
	limiter := mocks.NewMockRateLimitStore(t)
	repo := mocks.NewMockQuoteRepository(t)

	limiter.EXPECT().IncrementAndCheck(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	limiter.EXPECT().AdmitMember(mock.Anything, mock.Anything, "555-1111", mock.Anything, mock.Anything).Return(true, nil)
	repo.EXPECT().CountByEmailSince(mock.Anything, mock.Anything, mock.Anything).Return(0, nil)
	repo.EXPECT().FindRecentByEmailPhone(mock.Anything, "a@b.com", "555-1111", mock.Anything).Return(nil, nil)
	repo.EXPECT().Insert(mock.Anything, mock.Anything).Return(domain.InsertResult{}, errors.New("disk full"))

	svc := NewIntakeService(IntakeServiceConfig{
		Repository:  repo,
		RateLimiter: limiter,
		Gate:        DefaultGateConfig(),
	})

	_, err := svc.SubmitQuote(context.Background(),
		submission("a@b.com", "555-1111", baseTime, 3*time.Second),
		domain.RequestMeta{IP: "10.7.0.1", ReceivedAt: baseTime})

	assert.True(t, domain.IsUnavailable(err))
}

func TestSubmitQuote_DuplicateWindowClippedToDayStart(t *testing.T) {
	limiter := mocks.NewMockRateLimitStore(t)
	repo := mocks.NewMockQuoteRepository(t)

	// Five minutes after midnight the pre-check must not look into yesterday.
	now := time.Date(2026, 3, 11, 0, 5, 0, 0, time.UTC)
	dayStart := time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)

	limiter.EXPECT().IncrementAndCheck(mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(true, nil)
	limiter.EXPECT().AdmitMember(mock.Anything, "quote:email:a@b.com:2026-03-11", "555-1111", 24*time.Hour, 5).Return(true, nil)
	repo.EXPECT().CountByEmailSince(mock.Anything, "a@b.com", dayStart).Return(0, nil)
	repo.EXPECT().FindRecentByEmailPhone(mock.Anything, "a@b.com", "555-1111", dayStart).Return(nil, nil)
	repo.EXPECT().Insert(mock.Anything, mock.Anything).RunAndReturn(
		func(_ context.Context, q *domain.QuoteRequest) (domain.InsertResult, error) {
			assert.Equal(t, "2026-03-11", q.SubmissionDay)
			return domain.InsertSucceeded(q.ID), nil
		})

	svc := NewIntakeService(IntakeServiceConfig{
		Repository:  repo,
		RateLimiter: limiter,
		Gate:        DefaultGateConfig(),
	})

	res, err := svc.SubmitQuote(context.Background(),
		submission("a@b.com", "555-1111", now, 3*time.Second),
		domain.RequestMeta{IP: "10.7.0.1", ReceivedAt: now})

	require.NoError(t, err)
	assert.True(t, res.Accepted())
}

func TestSubmitQuote_NotifierDoesNotBlockOrFailIntake(t *testing.T) {
	notifier := mocks.NewMockNotifier(t)
	release := make(chan struct{})

	notifier.EXPECT().Notify(mock.Anything, mock.Anything, mock.Anything).
		RunAndReturn(func(ctx context.Context, _ *domain.QuoteRequest, _ []domain.Recipient) error {
			select {
			case <-release:
			case <-ctx.Done():
			}

			return errors.New("smtp: 421 service not available")
		})

	f := newIntakeFixture(t, func(repo *memory.QuoteRepository) *NotificationDispatcher {
		return NewNotificationDispatcher(NotificationConfig{
			Notifier:        notifier,
			Repository:      repo,
			StaffRecipients: []string{"sales@supplier.example"},
			Timeout:         time.Second,
		})
	})

	done := make(chan domain.Result, 1)

	go func() {
		done <- f.submit(t, submission("a@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.8.0.1")
	}()

	var res domain.Result
	select {
	case res = <-done:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("SubmitQuote waited for the notifier")
	}

	require.True(t, res.Accepted())

	close(release)
	f.svc.Wait()

	stored, err := f.repo.Get(context.Background(), res.QuoteID)
	require.NoError(t, err)
	assert.Equal(t, 1, stored.NotifyAttempts)
	assert.Contains(t, stored.NotifyError, "421")
	assert.Nil(t, stored.NotifiedAt)
}

func TestSubmitQuote_NotifierPanicIsContained(t *testing.T) {
	notifier := mocks.NewMockNotifier(t)
	notifier.EXPECT().Notify(mock.Anything, mock.Anything, mock.Anything).
		Run(func(context.Context, *domain.QuoteRequest, []domain.Recipient) { panic("template exploded") }).
		Return(nil)

	f := newIntakeFixture(t, func(repo *memory.QuoteRepository) *NotificationDispatcher {
		return NewNotificationDispatcher(NotificationConfig{
			Notifier:        notifier,
			Repository:      repo,
			StaffRecipients: []string{"sales@supplier.example"},
		})
	})

	res := f.submit(t, submission("a@b.com", "555-1111", f.clock.Now(), 3*time.Second), "10.8.0.1")
	f.svc.Wait()

	assert.True(t, res.Accepted())
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
	notified []error
}

func (m *recordingMetrics) RecordOutcome(outcome, reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome+"/"+reason)
}

func (m *recordingMetrics) RecordNotification(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notified = append(m.notified, err)
}

func TestSubmitQuote_RecordsOutcomeMetrics(t *testing.T) {
	metrics := &recordingMetrics{}
	clock := &testClock{now: baseTime}

	svc := NewIntakeService(IntakeServiceConfig{
		Repository:  memory.NewQuoteRepository(),
		RateLimiter: ratelimit.NewMemoryStore(ratelimit.WithClock(clock.Now)),
		Gate:        DefaultGateConfig(),
		Metrics:     metrics,
		Clock:       clock.Now,
	})

	meta := domain.RequestMeta{IP: "10.9.0.1"}
	_, _ = svc.SubmitQuote(context.Background(), submission("m@b.com", "555-1111", baseTime, 3*time.Second), meta)
	_, _ = svc.SubmitQuote(context.Background(), submission("m@b.com", "555-1111", baseTime, time.Second), meta)

	assert.Equal(t, []string{"accepted/", "bot/too_fast"}, metrics.outcomes)
}
