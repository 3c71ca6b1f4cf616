package server

import (
	"context"
	"log/slog"

	"github.com/preston-bernstein/swish-service/internal/config"
	"github.com/preston-bernstein/swish-service/internal/metrics"
	"github.com/preston-bernstein/swish-service/internal/providers"
)

// providerFactory assembles roster and career providers with shared wrappers.
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// roster opens the configured roster source wrapped with retries.
func (f providerFactory) roster(ctx context.Context, cfg config.Config) (rosterSource, error) {
	src, err := selectRoster(ctx, cfg, f.logger)
	if err != nil {
		return rosterSource{}, err
	}
	src.provider = providers.NewRetryingRoster(src.provider, f.logger, f.metrics, src.name, 0, 0)
	return src, nil
}

// career builds the stats provider. Upstream calls share one rate limiter
// so bursts of stats lookups do not trip stats.nba.com throttling.
func (f providerFactory) career(cfg config.Config) providers.CareerProvider {
	base, name := selectCareer(cfg, f.logger)
	if name == sourceNBAStats {
		base = providers.NewRateLimitedProvider(base, cfg.Stats.MinInterval.Std(), f.logger)
	}
	return providers.NewRetryingProvider(base, f.logger, f.metrics, name, 0, 0)
}
