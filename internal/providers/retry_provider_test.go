package providers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"testing"
	"time"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/metrics"
)

type flakeyCareer struct {
	failures int
	calls    int
}

func (f *flakeyCareer) FetchCareer(ctx context.Context, playerID int64) (players.Career, error) {
	_ = ctx
	f.calls++
	if f.calls <= f.failures {
		return players.Career{}, errors.New("boom")
	}
	return players.Career{PlayerID: playerID}, nil
}

type flakeyRoster struct {
	failures int
	calls    int
}

func (f *flakeyRoster) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	_ = ctx
	f.calls++
	if f.calls <= f.failures {
		return nil, errors.New("db locked")
	}
	return []players.Player{{ID: 1, Name: "Kareem Abdul-Jabbar", AllStarCount: 19}}, nil
}

func TestRetryingProviderRetriesAndSucceeds(t *testing.T) {
	fc := &flakeyCareer{failures: 2}
	rp := NewRetryingProvider(fc, slog.Default(), metrics.NewRecorder(), "flakey", 3, time.Millisecond)

	career, err := rp.FetchCareer(context.Background(), 201939)
	if err != nil {
		t.Fatalf("expected success, got error %v", err)
	}
	if career.PlayerID != 201939 {
		t.Fatalf("unexpected career %+v", career)
	}
	if fc.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", fc.calls)
	}
}

func TestRetryingProviderStopsAfterMaxAttempts(t *testing.T) {
	fc := &flakeyCareer{failures: 5}
	rp := NewRetryingProvider(fc, nil, metrics.NewRecorder(), "flakey", 2, time.Millisecond)

	if _, err := rp.FetchCareer(context.Background(), 1); err == nil {
		t.Fatal("expected error after retries")
	}
	if fc.calls != 2 {
		t.Fatalf("expected 2 attempts, got %d", fc.calls)
	}
}

func TestRetryingProviderDoesNotRetryNotFound(t *testing.T) {
	calls := 0
	inner := careerFunc(func(ctx context.Context, id int64) (players.Career, error) {
		calls++
		return players.Career{}, players.ErrPlayerNotFound
	})
	rp := NewRetryingProvider(inner, nil, metrics.NewRecorder(), "nf", 3, time.Millisecond)

	if _, err := rp.FetchCareer(context.Background(), 1); !errors.Is(err, players.ErrPlayerNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected a single attempt, got %d", calls)
	}
}

func TestRetryingProviderRetriesOnlyTemporaryUpstreamErrors(t *testing.T) {
	for _, tc := range []struct {
		status int
		want   int
	}{{status: 403, want: 1}, {status: 503, want: 3}} {
		calls := 0
		inner := careerFunc(func(ctx context.Context, id int64) (players.Career, error) {
			calls++
			return players.Career{}, &UpstreamError{Provider: "nbastats", StatusCode: tc.status}
		})
		rp := NewRetryingProvider(inner, nil, metrics.NewRecorder(), "up", 3, time.Millisecond)
		if _, err := rp.FetchCareer(context.Background(), 1); err == nil {
			t.Fatalf("status %d: expected error", tc.status)
		}
		if calls != tc.want {
			t.Fatalf("status %d: expected %d attempts, got %d", tc.status, tc.want, calls)
		}
	}
}

func TestRetryingProviderRespectsContextCancel(t *testing.T) {
	fc := &flakeyCareer{failures: 5}
	rp := NewRetryingProvider(fc, nil, metrics.NewRecorder(), "flakey", 3, time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := rp.FetchCareer(ctx, 1); err == nil {
		t.Fatal("expected context error")
	}
}

func TestRetryingProviderUsesCustomBackoff(t *testing.T) {
	fc := &flakeyCareer{failures: 1}
	rp := NewRetryingProvider(fc, nil, metrics.NewRecorder(), "flakey", 2, time.Hour).(*retryingCareer)

	calls := 0
	rp.backoffFn = func(attempt int) time.Duration {
		calls++
		return 0
	}

	_, _ = rp.FetchCareer(context.Background(), 1)

	if calls == 0 {
		t.Fatalf("expected custom backoff to be invoked")
	}
}

func TestRetryingProviderRecordsRateLimitMetrics(t *testing.T) {
	rec := metrics.NewRecorder()
	rp := NewRetryingProvider(&rateLimitThenSuccess{}, nil, rec, "rl", 2, time.Millisecond).(*retryingCareer)
	rp.backoffFn = func(attempt int) time.Duration {
		_ = attempt
		return 0
	}

	if _, err := rp.FetchCareer(context.Background(), 1); err != nil {
		t.Fatalf("expected success after retry, got %v", err)
	}

	if got := rec.RateLimitHits(rp.providerName); got != 1 {
		t.Fatalf("expected 1 rate limit hit, got %d", got)
	}
	if got := rec.UpstreamCalls(rp.providerName); got != 2 {
		t.Fatalf("expected 2 upstream calls, got %d", got)
	}
	if got := rec.UpstreamErrors(rp.providerName); got != 1 {
		t.Fatalf("expected 1 error, got %d", got)
	}
}

func TestRetryingProviderDelaySelection(t *testing.T) {
	rp := NewRetryingProvider(&rateLimitThenSuccess{}, nil, metrics.NewRecorder(), "rl", 2, time.Millisecond).(*retryingCareer)
	rp.rng = rand.New(rand.NewSource(1))
	rp.backoffFn = func(attempt int) time.Duration {
		_ = attempt
		return 50 * time.Millisecond
	}

	t.Run("rate_limit_uses_retry_after", func(t *testing.T) {
		delay := rp.computeDelay(&RateLimitError{RetryAfter: 3 * time.Second}, 1)
		if delay != 3*time.Second {
			t.Fatalf("expected retry-after delay 3s, got %s", delay)
		}
	})

	t.Run("retry_after_is_capped", func(t *testing.T) {
		delay := rp.computeDelay(&RateLimitError{RetryAfter: 10 * time.Minute}, 1)
		if delay != maxRetryAfter {
			t.Fatalf("expected capped delay %s, got %s", maxRetryAfter, delay)
		}
	})

	t.Run("generic_error_uses_backoff_with_jitter", func(t *testing.T) {
		delay := rp.computeDelay(errors.New("boom"), 1)
		if delay < 25*time.Millisecond || delay > 50*time.Millisecond {
			t.Fatalf("expected jittered delay between 25ms and 50ms, got %s", delay)
		}
	})
}

func TestNewRetryingProviderWithDefaults(t *testing.T) {
	rp := NewRetryingProviderWithRNG(nil, nil, metrics.NewRecorder(), "", nil, 0, 0).(*retryingCareer)
	if rp.providerName != "provider" {
		t.Fatalf("expected fallback provider name, got %s", rp.providerName)
	}
	if rp.maxAttempts != defaultRetryAttempts {
		t.Fatalf("expected default attempts, got %d", rp.maxAttempts)
	}
	if rp.backoffFn(1) != defaultBackoff {
		t.Fatalf("expected default backoff")
	}
	if _, err := rp.FetchCareer(context.Background(), 1); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable for nil inner, got %v", err)
	}
}

func TestRetryingRosterRetriesAndSucceeds(t *testing.T) {
	fr := &flakeyRoster{failures: 1}
	rec := metrics.NewRecorder()
	rr := NewRetryingRoster(fr, nil, rec, "sqlite", 3, time.Millisecond)

	got, err := rr.FetchPlayers(context.Background())
	if err != nil {
		t.Fatalf("expected success, got %v", err)
	}
	if len(got) != 1 || fr.calls != 2 {
		t.Fatalf("expected 1 player after 2 calls, got %d players %d calls", len(got), fr.calls)
	}
	if rec.UpstreamErrors("sqlite") != 1 {
		t.Fatalf("expected 1 upstream error recorded")
	}

	var nilInner RosterProvider
	if _, err := NewRetryingRoster(nilInner, nil, nil, "x", 1, 0).FetchPlayers(context.Background()); !errors.Is(err, ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestRetryingCloseReachesInner(t *testing.T) {
	inner := &closableCareer{}
	rp := NewRetryingProvider(inner, nil, nil, "c", 1, 0).(*retryingCareer)
	rp.Close()
	if !inner.closed {
		t.Fatalf("expected inner Close to be called")
	}
}

type careerFunc func(ctx context.Context, id int64) (players.Career, error)

func (f careerFunc) FetchCareer(ctx context.Context, id int64) (players.Career, error) {
	return f(ctx, id)
}

type closableCareer struct {
	closed bool
}

func (c *closableCareer) FetchCareer(ctx context.Context, id int64) (players.Career, error) {
	return players.Career{PlayerID: id}, nil
}

func (c *closableCareer) Close() { c.closed = true }

type rateLimitThenSuccess struct {
	calls int
}

func (f *rateLimitThenSuccess) FetchCareer(ctx context.Context, playerID int64) (players.Career, error) {
	_ = ctx
	f.calls++
	if f.calls == 1 {
		return players.Career{}, &RateLimitError{
			Provider:   "test",
			StatusCode: 429,
		}
	}
	return players.Career{PlayerID: playerID}, nil
}
