package server

import (
	"log/slog"

	"github.com/preston-bernstein/swish-service/internal/card"
	"github.com/preston-bernstein/swish-service/internal/config"
	"github.com/preston-bernstein/swish-service/internal/metrics"
)

// buildCardSessions wires each card session to the generate endpoint at
// Card.APIBaseURL, probing images when enabled.
func buildCardSessions(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) *card.Sessions {
	client := card.NewClient(cfg.Card.APIBaseURL, nil, cfg.Card.FetchTimeout.Std())
	var prober card.Prober
	if cfg.Card.ProbeImages {
		prober = card.NewImageProber(nil, cfg.Card.ProbeOrigin, cfg.Card.ProbeTimeout.Std())
	}
	opts := card.Options{
		Prober:       prober,
		Logger:       logger,
		Metrics:      recorder,
		FetchTimeout: cfg.Card.FetchTimeout.Std(),
		ProbeTimeout: cfg.Card.ProbeTimeout.Std(),
	}
	return card.NewSessions(func() *card.Controller {
		return card.NewController(client, opts)
	}, cfg.Card.SessionTTL.Std())
}
