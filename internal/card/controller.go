package card

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/logging"
	"github.com/preston-bernstein/swish-service/internal/metrics"
)

const (
	defaultFetchTimeout = 10 * time.Second
	defaultProbeTimeout = 5 * time.Second

	// FetchFailedNotice is shown alongside the retained record after a failed fetch.
	FetchFailedNotice = "Could not load a new player. Showing the last one."
)

// ErrSuperseded is returned by Fetch when a newer fetch started before this one finished.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// Fetcher produces a player record; Client is the HTTP implementation.
type Fetcher interface {
	Generate(ctx context.Context) (players.Record, error)
}

// Prober checks whether an image URL would render for a browser.
type Prober interface {
	Probe(ctx context.Context, imageURL string) error
}

// Options configures a Controller. Zero values are usable.
type Options struct {
	Prober       Prober
	Logger       *slog.Logger
	Metrics      *metrics.Recorder
	FetchTimeout time.Duration
	ProbeTimeout time.Duration
}

// Controller owns one card's state. Fetches are tokened: starting a fetch
// cancels the one in flight, and only the latest token may settle the state.
type Controller struct {
	fetcher      Fetcher
	prober       Prober
	logger       *slog.Logger
	metrics      *metrics.Recorder
	fetchTimeout time.Duration
	probeTimeout time.Duration

	mu        sync.Mutex
	state     State
	lastToken uint64
	cancel    context.CancelFunc
	version   uint64

	probes sync.WaitGroup
}

// NewController constructs a Controller in the Idle state.
func NewController(fetcher Fetcher, opts Options) *Controller {
	fetchTimeout := opts.FetchTimeout
	if fetchTimeout <= 0 {
		fetchTimeout = defaultFetchTimeout
	}
	probeTimeout := opts.ProbeTimeout
	if probeTimeout <= 0 {
		probeTimeout = defaultProbeTimeout
	}
	return &Controller{
		fetcher:      fetcher,
		prober:       opts.Prober,
		logger:       opts.Logger,
		metrics:      opts.Metrics,
		fetchTimeout: fetchTimeout,
		probeTimeout: probeTimeout,
		state:        Idle(),
	}
}

// State returns a copy of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Version increments on every state change.
func (c *Controller) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// Fetch enters Loading, requests a record and settles the state.
// On failure the previously displayed state is restored with a notice.
// A fetch overtaken by a newer one returns ErrSuperseded and changes nothing.
func (c *Controller) Fetch(ctx context.Context) (State, error) {
	c.mu.Lock()
	c.lastToken++
	token := c.lastToken
	if c.cancel != nil {
		c.cancel()
	}
	fetchCtx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	c.cancel = cancel
	c.setLocked(loading(c.state, token))
	c.mu.Unlock()

	start := time.Now()
	rec, err := c.fetch(fetchCtx)
	cancel()

	c.mu.Lock()
	if token != c.lastToken {
		state := c.state
		c.mu.Unlock()
		c.metrics.RecordCardFetch(metrics.OutcomeDiscarded, time.Since(start))
		logging.Debug(c.log(ctx), "card fetch discarded", slog.Uint64(logging.FieldToken, token))
		return state, ErrSuperseded
	}
	c.cancel = nil

	if err != nil {
		restored := c.state.settled().withNotice(FetchFailedNotice)
		c.setLocked(restored)
		c.mu.Unlock()
		c.metrics.RecordCardFetch(metrics.OutcomeFailure, time.Since(start))
		logging.Error(c.log(ctx), "card fetch failed", err, slog.Uint64(logging.FieldToken, token))
		return restored, err
	}

	next := loaded(rec, token)
	c.setLocked(next)
	c.mu.Unlock()

	c.metrics.RecordCardFetch(metrics.OutcomeSuccess, time.Since(start))
	logging.Debug(c.log(ctx), "card fetch loaded",
		slog.Uint64(logging.FieldToken, token),
		slog.Int64(logging.FieldPlayerID, rec.ID),
		slog.String(logging.FieldPlayerName, rec.Name),
	)

	if c.prober != nil && rec.HasImage() {
		c.probes.Add(1)
		go c.probe(context.WithoutCancel(ctx), token, rec.Image())
	}
	return next, nil
}

func (c *Controller) fetch(ctx context.Context) (players.Record, error) {
	if c.fetcher == nil {
		return players.Record{}, errors.New("card: no fetcher configured")
	}
	rec, err := c.fetcher.Generate(ctx)
	if err != nil {
		return players.Record{}, err
	}
	rec = rec.Normalized()
	if err := rec.Validate(); err != nil {
		return players.Record{}, err
	}
	return rec, nil
}

func (c *Controller) probe(ctx context.Context, token uint64, imageURL string) {
	defer c.probes.Done()
	ctx, cancel := context.WithTimeout(ctx, c.probeTimeout)
	defer cancel()

	if err := c.prober.Probe(ctx, imageURL); err != nil {
		logging.Debug(c.log(ctx), "card image probe failed", slog.Uint64(logging.FieldToken, token), "error", err)
		c.ImageFailed(token)
		return
	}
	c.ImageLoaded(token)
}

// ImageLoaded records a successful image load for the record fetched under token.
func (c *Controller) ImageLoaded(token uint64) bool {
	return c.imageEvent(token, ImageLoaded)
}

// ImageFailed records a failed image load for the record fetched under token.
func (c *Controller) ImageFailed(token uint64) bool {
	return c.imageEvent(token, ImageErrored)
}

// imageEvent applies the event only if token names the displayed record and it has an image.
func (c *Controller) imageEvent(token uint64, status ImageStatus) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state.phase != PhaseLoaded || c.state.token != token || !c.state.record.HasImage() {
		return false
	}
	if c.state.image == status {
		return true
	}
	next := c.state
	next.image = status
	c.setLocked(next)
	return true
}

// Wait blocks until in-flight image probes finish.
func (c *Controller) Wait() {
	c.probes.Wait()
}

// Close cancels any in-flight fetch and waits for probes.
func (c *Controller) Close() {
	c.mu.Lock()
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	c.mu.Unlock()
	c.probes.Wait()
}

func (c *Controller) setLocked(s State) {
	c.state = s
	c.version++
}

func (c *Controller) log(ctx context.Context) *slog.Logger {
	return logging.FromContext(ctx, c.logger)
}
