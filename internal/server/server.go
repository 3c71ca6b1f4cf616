package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	appplayers "github.com/preston-bernstein/swish-service/internal/app/players"
	"github.com/preston-bernstein/swish-service/internal/card"
	"github.com/preston-bernstein/swish-service/internal/config"
	httpserver "github.com/preston-bernstein/swish-service/internal/http"
	"github.com/preston-bernstein/swish-service/internal/http/handlers"
	"github.com/preston-bernstein/swish-service/internal/logging"
	"github.com/preston-bernstein/swish-service/internal/metrics"
	"github.com/preston-bernstein/swish-service/internal/poller"
	"github.com/preston-bernstein/swish-service/internal/providers"
	"github.com/preston-bernstein/swish-service/internal/store"
)

var metricsSetup = metrics.Setup

type Server struct {
	cfg            config.Config
	logger         *slog.Logger
	metrics        *metrics.Recorder
	store          *store.MemoryStore
	playersService *appplayers.Service
	sessions       *card.Sessions
	career         providers.CareerProvider
	httpServer     httpServer
	metricsServer  httpServer
	poller         Poller
	metricsStop    func(context.Context) error
	closers        []func() error
}

// New constructs a server wired to the configured roster source, stats
// provider and snapshot store.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger) (*Server, error) {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, nil)

	factory := newProviderFactory(logger, recorder)
	src, err := factory.roster(ctx, cfg)
	if err != nil {
		if metricsShutdown != nil {
			_ = metricsShutdown(ctx)
		}
		return nil, err
	}

	srv := assemble(cfg, logger, recorder, src, factory.career(cfg))
	srv.metricsServer = metricsSrv
	srv.metricsStop = metricsShutdown
	return srv, nil
}

func newServerWithRoster(cfg config.Config, logger *slog.Logger, roster providers.RosterProvider) *Server {
	return newServerWithMetrics(cfg, logger, roster, nil)
}

func newServerWithMetrics(cfg config.Config, logger *slog.Logger, roster providers.RosterProvider, recorder *metrics.Recorder) *Server {
	recorder, metricsSrv, metricsShutdown := buildMetrics(cfg, logger, recorder)

	name := normalizeProviderName(cfg.Roster.Source, roster)
	src := rosterSource{
		provider: providers.NewRetryingRoster(roster, logger, recorder, name, 0, 0),
		name:     name,
	}
	srv := assemble(cfg, logger, recorder, src, newProviderFactory(logger, recorder).career(cfg))
	srv.metricsServer = metricsSrv
	srv.metricsStop = metricsShutdown
	return srv
}

// newServerWithDeps is used for testing to inject custom components.
func newServerWithDeps(cfg config.Config, logger *slog.Logger, svc *appplayers.Service, httpSrv httpServer, plr Poller) *Server {
	return &Server{
		cfg:            cfg,
		logger:         logger,
		playersService: svc,
		httpServer:     httpSrv,
		poller:         plr,
	}
}

func assemble(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder, src rosterSource, career providers.CareerProvider) *Server {
	if logger == nil {
		logger = logging.NewLogger(logging.Config{})
	}
	memoryStore := store.NewMemoryStore()
	svc := appplayers.NewService(memoryStore, appplayers.Options{
		Career:  career,
		Metrics: recorder,
		Source:  src.name,
	})

	snaps := buildSnapshots(cfg, logger)
	plr := poller.New(src.provider, svc, snaps.store, src.name, logger, recorder, cfg.Roster.RefreshInterval.Std())
	sessions := buildCardSessions(cfg, logger, recorder)

	routerCfg := httpserver.RouterConfig{
		API:            handlers.NewHandler(svc, logger, plr.Status),
		Card:           handlers.NewCardHandler(sessions, logger),
		AllowedOrigins: cfg.Card.AllowedOrigins,
		Logger:         logger,
		Metrics:        recorder,
	}
	if cfg.Snapshots.AdminToken != "" {
		routerCfg.Admin = handlers.NewAdminHandler(plr, cfg.Snapshots.AdminToken, logger)
	}

	var closers []func() error
	for _, c := range []func() error{src.close, snaps.close} {
		if c != nil {
			closers = append(closers, c)
		}
	}

	return &Server{
		cfg:            cfg,
		logger:         logger,
		metrics:        recorder,
		store:          memoryStore,
		playersService: svc,
		sessions:       sessions,
		career:         career,
		httpServer:     newNetHTTPServer(":"+cfg.Port, httpserver.NewRouter(routerCfg)),
		poller:         plr,
		closers:        closers,
	}
}

// Run starts the roster refresher and HTTP server, then waits for context cancellation to shut down gracefully.
func (s *Server) Run(ctx context.Context, stop context.CancelFunc) {
	s.startMetrics()
	s.startServer(stop)
	s.poller.Start(ctx)

	<-ctx.Done()
	logging.Info(s.logger, "shutdown signal received")

	s.gracefulShutdown()
}

func (s *Server) startServer(stop context.CancelFunc) {
	logging.Info(s.logger, "http server starting", slog.String("addr", s.httpServer.Addr()))
	launchServer("http", s.httpServer, s.logger, func(err error) {
		if stop != nil {
			stop()
		}
	})
}

func (s *Server) startMetrics() {
	if s.metricsServer == nil {
		return
	}
	logging.Info(s.logger, "metrics server starting", slog.String("addr", s.metricsServer.Addr()))
	launchServer("metrics", s.metricsServer, s.logger, nil)
}

func (s *Server) gracefulShutdown() {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if s.metricsStop != nil {
		if err := s.metricsStop(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics shutdown failed", "error", err)
		}
	}

	if s.metricsServer != nil {
		if err := s.metricsServer.Shutdown(shutdownCtx); err != nil {
			logging.Warn(s.logger, "metrics server shutdown failed", "error", err)
		}
	}

	if err := s.poller.Stop(shutdownCtx); err != nil {
		logging.Error(s.logger, "failed to stop roster refresher", err)
	}

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		logging.Error(s.logger, "graceful shutdown failed", err)
	}

	if s.sessions != nil {
		s.sessions.Close()
	}

	// Stop the stats rate limiter ticker.
	if c, ok := s.career.(interface{ Close() }); ok {
		c.Close()
	}

	var errs []error
	for _, c := range s.closers {
		errs = append(errs, c())
	}
	if err := errors.Join(errs...); err != nil {
		logging.Warn(s.logger, "closing backing stores failed", "error", err)
	}

	logging.Info(s.logger, "shutdown complete")
}

func buildMetrics(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (*metrics.Recorder, httpServer, func(context.Context) error) {
	if recorder != nil {
		return recorder, nil, nil
	}

	recCfg := metrics.TelemetryConfig{
		Enabled:      cfg.Metrics.Enabled,
		Port:         cfg.Metrics.Port,
		ServiceName:  cfg.Metrics.ServiceName,
		OtlpEndpoint: cfg.Metrics.OtlpEndpoint,
		OtlpInsecure: cfg.Metrics.OtlpInsecure,
	}

	rec, handler, shutdown, err := metricsSetup(context.Background(), recCfg)
	if err != nil {
		logging.Warn(logger, "metrics setup failed, continuing without telemetry", "error", err)
		return metrics.NewRecorder(), nil, nil
	}

	var metricsSrv httpServer
	if handler != nil && recCfg.Enabled {
		metricsSrv = netHTTPServer{
			srv: &http.Server{
				Addr:              ":" + recCfg.Port,
				Handler:           handler,
				ReadHeaderTimeout: readTimeout,
			},
		}
	}

	return rec, metricsSrv, shutdown
}

func launchServer(name string, srv httpServer, logger *slog.Logger, onError func(error)) {
	go func() {
		logging.Info(logger, "starting "+name+" server", slog.String("addr", srv.Addr()))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Warn(logger, name+" server failed", "error", err)
			if onError != nil {
				onError(err)
			}
		}
	}()
}

// Handler exposes the HTTP handler (useful for tests).
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler()
}

// Status reports the roster refresher status.
func (s *Server) Status() poller.Status {
	return s.poller.Status()
}
