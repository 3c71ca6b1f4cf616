package server

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/preston-bernstein/swish-service/internal/config"
	"github.com/preston-bernstein/swish-service/internal/logging"
	"github.com/preston-bernstein/swish-service/internal/providers"
	"github.com/preston-bernstein/swish-service/internal/providers/fixture"
	"github.com/preston-bernstein/swish-service/internal/providers/nbastats"
	"github.com/preston-bernstein/swish-service/internal/storage/postgres"
	"github.com/preston-bernstein/swish-service/internal/storage/sqlite"
)

const (
	sourceFixture  = "fixture"
	sourceSQLite   = "sqlite"
	sourcePostgres = "postgres"
	sourceNBAStats = "nbastats"
)

// openPostgres is swapped in tests.
var openPostgres = postgres.Open

// rosterSource is an opened roster provider plus whatever must be closed on shutdown.
type rosterSource struct {
	provider providers.RosterProvider
	name     string
	close    func() error
}

func selectRoster(ctx context.Context, cfg config.Config, logger *slog.Logger) (rosterSource, error) {
	switch normalizeProviderName(cfg.Roster.Source, nil) {
	case sourceFixture, "provider":
		return rosterSource{provider: fixture.New(), name: sourceFixture}, nil
	case sourceSQLite:
		store, err := sqlite.OpenRoster(cfg.Roster.DBPath, cfg.Roster.FilteredDBPath)
		if err != nil {
			return rosterSource{}, err
		}
		logging.Info(logger, "roster database opened",
			slog.String(logging.FieldSource, sourceSQLite),
			slog.String("path", store.Source()),
		)
		return rosterSource{provider: store, name: sourceSQLite, close: store.Close}, nil
	case sourcePostgres:
		if cfg.Roster.PostgresDSN == "" {
			return rosterSource{}, fmt.Errorf("roster source postgres requires ROSTER_POSTGRES_DSN")
		}
		store, err := openPostgres(ctx, cfg.Roster.PostgresDSN)
		if err != nil {
			return rosterSource{}, err
		}
		return rosterSource{provider: store, name: sourcePostgres, close: store.Close}, nil
	default:
		logging.Warn(logger, "unknown roster source, falling back to fixture", slog.String(logging.FieldSource, cfg.Roster.Source))
		return rosterSource{provider: fixture.New(), name: sourceFixture}, nil
	}
}

func selectCareer(cfg config.Config, logger *slog.Logger) (providers.CareerProvider, string) {
	switch normalizeProviderName(cfg.Stats.Provider, nil) {
	case sourceFixture, "provider":
		return fixture.New(), sourceFixture
	case sourceNBAStats:
		return nbastats.NewClient(nbastats.Config{
			BaseURL: cfg.Stats.BaseURL,
			Timeout: cfg.Stats.Timeout.Std(),
		}), sourceNBAStats
	default:
		logging.Warn(logger, "unknown stats provider, falling back to fixture", slog.String(logging.FieldProvider, cfg.Stats.Provider))
		return fixture.New(), sourceFixture
	}
}
