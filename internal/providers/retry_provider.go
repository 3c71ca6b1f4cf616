package providers

import (
	"context"
	"errors"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
	maxRetryAfter        = 30 * time.Second
)

type backoffFunc func(attempt int) time.Duration

// retrier runs an upstream call with retry, jittered backoff and Retry-After support.
type retrier struct {
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	backoffFn    backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

func newRetrier(logger *slog.Logger, recorder *metrics.Recorder, name string, rng *rand.Rand, maxAttempts int, backoff time.Duration) *retrier {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if name == "" {
		name = "provider"
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &retrier{
		logger:       logger,
		metrics:      recorder,
		providerName: name,
		maxAttempts:  maxAttempts,
		rng:          rng,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
	}
}

func do[T any](ctx context.Context, r *retrier, call func(context.Context) (T, error)) (T, error) {
	var zero T
	var lastErr error

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		out, err := call(ctx)
		r.metrics.RecordUpstreamAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return out, nil
		}
		lastErr = err
		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}
		if !retryable(err) || attempt == r.maxAttempts {
			break
		}

		delay := r.computeDelay(err, attempt)
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch retry",
			"attempt", attempt,
			"max_attempts", r.maxAttempts,
			"delay_ms", delay.Milliseconds(),
			"err", err,
		)

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-time.After(delay):
		}
	}

	logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch failed", "attempts", r.maxAttempts, "err", lastErr)
	return zero, lastErr
}

// computeDelay honours Retry-After for rate limits, otherwise applies
// backoff with jitter in [base/2, base].
func (r *retrier) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		if rlErr.RetryAfter > maxRetryAfter {
			return maxRetryAfter
		}
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 1 {
		return base
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}

func retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.Is(err, players.ErrPlayerNotFound):
		return false
	}
	var up *UpstreamError
	if errors.As(err, &up) {
		return up.Temporary()
	}
	return true
}

// retryingCareer wraps a CareerProvider with retry/backoff behavior.
type retryingCareer struct {
	inner CareerProvider
	*retrier
}

// NewRetryingProvider wraps the given career provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner CareerProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, backoff time.Duration) CareerProvider {
	return NewRetryingProviderWithRNG(inner, logger, recorder, providerName, nil, maxAttempts, backoff)
}

// NewRetryingProviderWithRNG is NewRetryingProvider with a caller-supplied jitter source.
func NewRetryingProviderWithRNG(inner CareerProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, rng *rand.Rand, maxAttempts int, backoff time.Duration) CareerProvider {
	return &retryingCareer{
		inner:   inner,
		retrier: newRetrier(logger, recorder, providerName, rng, maxAttempts, backoff),
	}
}

func (r *retryingCareer) FetchCareer(ctx context.Context, playerID int64) (players.Career, error) {
	if r.inner == nil {
		return players.Career{}, ErrProviderUnavailable
	}
	return do(ctx, r.retrier, func(ctx context.Context) (players.Career, error) {
		return r.inner.FetchCareer(ctx, playerID)
	})
}

// Close releases resources held by the wrapped provider, if any.
func (r *retryingCareer) Close() {
	if c, ok := r.inner.(interface{ Close() }); ok {
		c.Close()
	}
}

// retryingRoster wraps a RosterProvider with retry/backoff behavior.
type retryingRoster struct {
	inner RosterProvider
	*retrier
}

// NewRetryingRoster wraps a roster source with retries and upstream metrics.
func NewRetryingRoster(inner RosterProvider, logger *slog.Logger, recorder *metrics.Recorder, providerName string, maxAttempts int, backoff time.Duration) RosterProvider {
	return &retryingRoster{
		inner:   inner,
		retrier: newRetrier(logger, recorder, providerName, nil, maxAttempts, backoff),
	}
}

func (r *retryingRoster) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	if r.inner == nil {
		return nil, ErrProviderUnavailable
	}
	return do(ctx, r.retrier, r.inner.FetchPlayers)
}

// Close releases resources held by the wrapped source, if any.
func (r *retryingRoster) Close() {
	if c, ok := r.inner.(interface{ Close() }); ok {
		c.Close()
	}
}
