package http

import (
	"log/slog"
	nethttp "net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/preston-bernstein/swish-service/internal/http/handlers"
	"github.com/preston-bernstein/swish-service/internal/http/middleware"
	"github.com/preston-bernstein/swish-service/internal/metrics"
)

// RouterConfig collects everything the router mounts. Card and Admin are optional.
type RouterConfig struct {
	API            *handlers.Handler
	Card           *handlers.CardHandler
	Admin          *handlers.AdminHandler
	AllowedOrigins []string
	Logger         *slog.Logger
	Metrics        *metrics.Recorder
}

// NewRouter registers HTTP routes on a chi router.
func NewRouter(cfg RouterConfig) nethttp.Handler {
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.Logging(cfg.Logger, cfg.Metrics))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,

		// Preflights continue to the /api OPTIONS route for its JSON body.
		OptionsPassthrough: true,
	}))

	api := cfg.API
	r.Get("/health", api.Health)
	r.Get("/ready", api.Ready)

	r.Route("/api", func(r chi.Router) {
		r.Get("/hello", api.Hello)
		r.Get("/generate", api.Generate)
		r.Get("/player_image", api.PlayerImage)
		r.Get("/player/{id}/image", api.PlayerHeadshot)
		r.Get("/get_stats", api.Stats)
		r.Get("/player/{id}/stats", api.PlayerStats)
		r.Options("/*", api.Preflight)
	})

	if cfg.Card != nil {
		r.Get("/", cfg.Card.Page)
		r.Get("/card/state", cfg.Card.State)
		r.Post("/card/generate", cfg.Card.Generate)
		r.Post("/card/image", cfg.Card.Image)
	}
	if cfg.Admin != nil {
		r.Post("/admin/roster/refresh", cfg.Admin.RefreshRoster)
	}

	r.NotFound(func(w nethttp.ResponseWriter, req *nethttp.Request) {
		handlers.NotFound(w, req, cfg.Logger)
	})
	r.MethodNotAllowed(func(w nethttp.ResponseWriter, req *nethttp.Request) {
		handlers.MethodNotAllowed(w, req, cfg.Logger)
	})
	return r
}
