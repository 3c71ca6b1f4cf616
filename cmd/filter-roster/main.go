// Command filter-roster backfills retirement years into the full roster
// database and writes the modern-era subset to a separate database.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/preston-bernstein/swish-service/internal/config"
	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/logging"
	"github.com/preston-bernstein/swish-service/internal/providers"
	"github.com/preston-bernstein/swish-service/internal/providers/nbastats"
	"github.com/preston-bernstein/swish-service/internal/storage/sqlite"
)

type options struct {
	confirm  bool
	minYear  int
	dbPath   string
	outPath  string
	skipFill bool
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "filter-roster:", err)
		os.Exit(1)
	}

	var opts options
	flag.BoolVar(&opts.confirm, "yes", false, "confirm rewriting the filtered database")
	flag.IntVar(&opts.minYear, "min-year", cfg.Roster.MinRetirementYear, "keep players retired in or after this year")
	flag.StringVar(&opts.dbPath, "db", cfg.Roster.DBPath, "full roster database")
	flag.StringVar(&opts.outPath, "out", cfg.Roster.FilteredDBPath, "filtered roster database to write")
	flag.BoolVar(&opts.skipFill, "skip-backfill", false, "do not look up missing retirement years")
	flag.Parse()

	logger := logging.NewLogger(logging.Config{
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
		Service: "filter-roster",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	limited := providers.NewRateLimitedProvider(nbastats.NewClient(nbastats.Config{
		BaseURL: cfg.Stats.BaseURL,
		Timeout: cfg.Stats.Timeout.Std(),
	}), cfg.Stats.MinInterval.Std(), logger)
	career := providers.NewRetryingProvider(limited, logger, nil, "nbastats", 0, 0)
	defer career.(interface{ Close() }).Close()

	if err := run(ctx, opts, career, logger, os.Stdout); err != nil {
		logging.Error(logger, "filter roster failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, career providers.CareerProvider, logger *slog.Logger, out io.Writer) error {
	if !opts.confirm {
		return errors.New("refusing to rewrite the filtered database without -yes")
	}
	if opts.dbPath == "" || opts.outPath == "" {
		return errors.New("-db and -out are required")
	}
	if opts.dbPath == opts.outPath {
		return errors.New("-out must differ from -db")
	}

	full, err := sqlite.OpenExisting(opts.dbPath)
	if err != nil {
		return err
	}
	defer full.Close()

	added, err := full.EnsureRetirementColumn(ctx)
	if err != nil {
		return err
	}
	if added {
		logging.Info(logger, "added retirement_year column", slog.String("path", opts.dbPath))
	}

	if !opts.skipFill {
		if err := backfill(ctx, full, career, logger, time.Now().Year()); err != nil {
			return err
		}
	}

	kept, err := full.FilterByRetirementYear(ctx, opts.minYear)
	if err != nil {
		return err
	}

	filtered, err := sqlite.Open(opts.outPath)
	if err != nil {
		return err
	}
	defer filtered.Close()
	if err := filtered.CreateSchema(ctx); err != nil {
		return err
	}
	if err := filtered.ReplacePlayers(ctx, kept); err != nil {
		return err
	}

	fmt.Fprintf(out, "wrote %d players retired in or after %d to %s\n", len(kept), opts.minYear, opts.outPath)
	return nil
}

type retirementStore interface {
	FetchPlayers(ctx context.Context) ([]players.Player, error)
	UpdateRetirementYear(ctx context.Context, playerID int64, year int) error
}

// backfill looks up the final season for every player without a
// retirement year. Lookup failures are logged and skipped; the player then
// stays in the filtered roster.
func backfill(ctx context.Context, store retirementStore, career providers.CareerProvider, logger *slog.Logger, currentYear int) error {
	roster, err := store.FetchPlayers(ctx)
	if err != nil {
		return err
	}
	var updated, skipped int
	for _, p := range roster {
		if p.RetirementYear != nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		c, err := career.FetchCareer(ctx, p.ID)
		if err != nil {
			skipped++
			logging.Warn(logger, "career lookup failed", slog.Int64(logging.FieldPlayerID, p.ID), slog.String(logging.FieldPlayerName, p.Name), "error", err)
			continue
		}
		year, err := players.LastSeasonYear(c, currentYear)
		if err != nil {
			skipped++
			logging.Warn(logger, "no retirement year", slog.Int64(logging.FieldPlayerID, p.ID), "error", err)
			continue
		}
		if err := store.UpdateRetirementYear(ctx, p.ID, year); err != nil {
			return err
		}
		updated++
	}
	logging.Info(logger, "retirement years backfilled", slog.Int("updated", updated), slog.Int("skipped", skipped))
	return nil
}
