package providers

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// rateLimitedProvider wraps a CareerProvider and enforces a minimum interval between calls.
type rateLimitedProvider struct {
	next      CareerProvider
	interval  time.Duration
	ticker    *time.Ticker
	logger    *slog.Logger
	closeOnce sync.Once
}

// NewRateLimitedProvider returns a CareerProvider that limits calls to the given interval.
// Calls block until the interval elapses to avoid exceeding upstream quotas.
func NewRateLimitedProvider(next CareerProvider, interval time.Duration, logger *slog.Logger) CareerProvider {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

func (p *rateLimitedProvider) FetchCareer(ctx context.Context, playerID int64) (players.Career, error) {
	if p == nil || p.next == nil {
		if p != nil {
			logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		}
		return players.Career{}, ErrProviderUnavailable
	}
	select {
	case <-ctx.Done():
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "rate-limited fetch canceled")
		return players.Career{}, ctx.Err()
	case <-p.ticker.C:
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, "rate-limited", "rate-limited provider fetch", slog.Int64("player_id", playerID))
	return p.next.FetchCareer(ctx, playerID)
}

// Close stops the internal ticker.
func (p *rateLimitedProvider) Close() {
	if p == nil {
		return
	}
	p.closeOnce.Do(func() {
		if p.ticker != nil {
			p.ticker.Stop()
		}
	})
}
