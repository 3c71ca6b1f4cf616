package poller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/logging"
	"github.com/preston-bernstein/swish-service/internal/metrics"
	"github.com/preston-bernstein/swish-service/internal/providers"
	"github.com/preston-bernstein/swish-service/internal/snapshots"
	"github.com/preston-bernstein/swish-service/internal/timeutil"
)

const (
	defaultInterval = 10 * time.Minute
	maxFailures     = 3
)

// RosterSink receives each freshly loaded roster.
type RosterSink interface {
	ReplacePlayers([]players.Player)
	Len() int
}

// Poller reloads the roster on an interval, swaps it into the sink and
// writes a dated snapshot. When the source fails with an empty sink it
// warms the sink from the latest snapshot instead.
type Poller struct {
	roster    providers.RosterProvider
	sink      RosterSink
	snapshots snapshots.ReadWriter
	source    string
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	now       func() time.Time

	refreshMu sync.Mutex

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the refresh loop.
type Status struct {
	ConsecutiveFailures int
	LastError           string
	LastAttempt         time.Time
	LastSuccess         time.Time
	Players             int
	// WarmedFrom is the snapshot date used when the source was unavailable.
	WarmedFrom string
}

// IsReady reports whether the roster has loaded recently, or was warmed from
// a snapshot, and the source is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() && s.WarmedFrom == "" {
		return false
	}
	if s.Players == 0 {
		return false
	}
	if !s.LastSuccess.IsZero() {
		return s.ConsecutiveFailures < maxFailures
	}
	return true
}

// New constructs a Poller. snaps may be nil to disable snapshots.
func New(roster providers.RosterProvider, sink RosterSink, snaps snapshots.ReadWriter, source string, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if source == "" {
		source = "roster"
	}
	return &Poller{
		roster:    roster,
		sink:      sink,
		snapshots: snaps,
		source:    source,
		logger:    logger,
		metrics:   recorder,
		interval:  interval,
		now:       time.Now,
		done:      make(chan struct{}),
	}
}

// Start begins refreshing until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.startMu.Unlock()

	p.ticker = time.NewTicker(p.interval)

	go func() {
		p.logInfo("roster refresher started", slog.Int64(logging.FieldDurationMS, p.interval.Milliseconds()), slog.String(logging.FieldSource, p.source))
		if err := p.Refresh(ctx); err != nil && p.sink.Len() == 0 {
			p.warmFromSnapshot(ctx)
		}

		for {
			select {
			case <-ctx.Done():
				p.stopTicker()
				p.logInfo("roster refresher stopped")
				return
			case <-p.done:
				p.stopTicker()
				p.logInfo("roster refresher stopped")
				return
			case <-p.ticker.C:
				_ = p.Refresh(ctx)
			}
		}
	}()
}

// Stop halts the refresh loop.
func (p *Poller) Stop(ctx context.Context) error {
	_ = ctx
	p.stopOnce.Do(func() {
		close(p.done)
		p.stopTicker()
	})
	return nil
}

// Refresh loads the roster once. A failed or empty load leaves the sink untouched.
func (p *Poller) Refresh(ctx context.Context) error {
	p.refreshMu.Lock()
	defer p.refreshMu.Unlock()

	start := time.Now()
	p.recordAttempt(start)

	roster, err := p.load(ctx)
	p.metrics.RecordRosterRefresh(p.source, time.Since(start), err)
	if err != nil {
		p.logError("roster refresh failed", err, slog.Int64(logging.FieldDurationMS, time.Since(start).Milliseconds()))
		p.recordFailure(err, start)
		return err
	}

	p.sink.ReplacePlayers(roster)
	p.writeSnapshot(ctx, roster)
	p.recordSuccess(start, len(roster))
	p.logInfo("roster refreshed",
		logging.FieldSource, p.source,
		logging.FieldCount, len(roster),
		logging.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return nil
}

func (p *Poller) load(ctx context.Context) ([]players.Player, error) {
	if p.roster == nil {
		return nil, providers.ErrProviderUnavailable
	}
	raw, err := p.roster.FetchPlayers(ctx)
	if err != nil {
		return nil, err
	}
	valid := make([]players.Player, 0, len(raw))
	for _, pl := range raw {
		if err := pl.Validate(); err != nil {
			p.logWarn("skipping invalid roster entry", slog.Int64(logging.FieldPlayerID, pl.ID), "error", err)
			continue
		}
		valid = append(valid, pl)
	}
	if len(valid) == 0 {
		return nil, fmt.Errorf("%s: %w", p.source, players.ErrNoPlayers)
	}
	return valid, nil
}

func (p *Poller) writeSnapshot(ctx context.Context, roster []players.Player) {
	if p.snapshots == nil {
		return
	}
	snap := snapshots.RosterSnapshot{
		Date:    timeutil.DateKey(p.now()),
		Source:  p.source,
		Players: roster,
	}
	if err := p.snapshots.WriteRoster(ctx, snap); err != nil {
		p.logError("roster snapshot write failed", err)
	}
}

func (p *Poller) warmFromSnapshot(ctx context.Context) {
	if p.snapshots == nil {
		return
	}
	snap, err := p.snapshots.LatestRoster(ctx)
	if err != nil {
		if !errors.Is(err, snapshots.ErrNotFound) {
			p.logError("roster snapshot load failed", err)
		}
		return
	}
	if len(snap.Players) == 0 {
		return
	}
	p.sink.ReplacePlayers(snap.Players)

	p.statusMu.Lock()
	p.status.WarmedFrom = snap.Date
	p.status.Players = len(snap.Players)
	p.statusMu.Unlock()

	p.logWarn("roster warmed from snapshot", "snapshot_date", snap.Date, logging.FieldCount, len(snap.Players))
}

func (p *Poller) stopTicker() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) logInfo(msg string, args ...any) {
	logging.Info(p.logger, msg, args...)
}

func (p *Poller) logWarn(msg string, args ...any) {
	logging.Warn(p.logger, msg, args...)
}

func (p *Poller) logError(msg string, err error, attrs ...any) {
	logging.Error(p.logger, msg, err, attrs...)
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time, count int) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
	p.status.Players = count
	p.status.WarmedFrom = ""
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the refresher's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}

// Provider exposes the roster source (primarily for cleanup in callers).
func (p *Poller) Provider() providers.RosterProvider {
	return p.roster
}
