package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	appplayers "github.com/preston-bernstein/swish-service/internal/app/players"
	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/logging"
	"github.com/preston-bernstein/swish-service/internal/poller"
	"github.com/preston-bernstein/swish-service/internal/providers"
)

const (
	msgNoPlayers     = "No players available"
	msgNameRequired  = "Name parameter required"
	msgNoImage       = "Could not generate image URL"
	msgInvalidID     = "invalid player id"
	msgNotFound      = "Player not found"
	msgStatsDown     = "stats provider unavailable"
	msgStatsUpstream = "failed to fetch player stats"
)

// Handler wires the JSON API to the player service.
type Handler struct {
	svc      *appplayers.Service
	logger   *slog.Logger
	statusFn func() poller.Status
}

// NewHandler constructs a Handler. statusFn may be nil, in which case the
// service always reports ready.
func NewHandler(svc *appplayers.Service, logger *slog.Logger, statusFn func() poller.Status) *Handler {
	return &Handler{
		svc:      svc,
		logger:   logger,
		statusFn: statusFn,
	}
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Ready reports whether a roster is loaded and fresh enough to serve.
func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.statusFn == nil {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"}, h.logger)
		return
	}
	status := h.statusFn()
	if status.IsReady() {
		body := map[string]any{"status": "ready", "players": status.Players}
		if status.WarmedFrom != "" {
			body["snapshot"] = status.WarmedFrom
		}
		writeJSON(w, http.StatusOK, body, h.logger)
		return
	}
	msg := status.LastError
	if msg == "" {
		msg = "not ready"
	}
	writeError(w, r, http.StatusServiceUnavailable, msg, h.logger)
}

// Hello is the frontend connectivity check.
func (h *Handler) Hello(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "Hello from backend"}, h.logger)
}

// Preflight answers CORS preflight requests under /api.
func (h *Handler) Preflight(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// Generate returns a random All-Star with a derived headshot URL.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	rec, err := h.svc.Generate(r.Context())
	if err != nil {
		if errors.Is(err, players.ErrNoPlayers) {
			logging.Warn(logger, "generate with empty roster")
		} else {
			logging.Error(logger, "generate failed", err)
		}
		writeError(w, r, http.StatusInternalServerError, msgNoPlayers, logger)
		return
	}
	logging.Debug(logger, "generated player",
		slog.Int64(logging.FieldPlayerID, rec.ID),
		slog.String(logging.FieldPlayerName, rec.Name),
	)
	writeJSON(w, http.StatusOK, rec, logger)
}

// PlayerImage derives the Basketball-Reference headshot URL for ?name=.
func (h *Handler) PlayerImage(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(r.URL.Query().Get("name"))
	if name == "" {
		writeError(w, r, http.StatusBadRequest, msgNameRequired, h.logger)
		return
	}
	url, err := h.svc.ImageURL(name)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, msgNoImage, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_url": url}, h.logger)
}

// PlayerHeadshot returns the NBA CDN headshot for /api/player/{id}/image.
func (h *Handler) PlayerHeadshot(w http.ResponseWriter, r *http.Request) {
	id, ok := playerIDParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, msgInvalidID, h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"image_url": h.svc.HeadshotURL(id)}, h.logger)
}

// Stats returns the stat history for ?name=, defaulting to Stephen Curry.
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	history, err := h.svc.StatsByName(r.Context(), name)
	if err != nil {
		h.writeStatsError(w, r, err, slog.String(logging.FieldPlayerName, name))
		return
	}
	writeJSON(w, http.StatusOK, history, h.logger)
}

// PlayerStats returns the stat history for /api/player/{id}/stats.
func (h *Handler) PlayerStats(w http.ResponseWriter, r *http.Request) {
	id, ok := playerIDParam(r)
	if !ok {
		writeError(w, r, http.StatusBadRequest, msgInvalidID, h.logger)
		return
	}
	history, err := h.svc.StatsByID(r.Context(), id)
	if err != nil {
		h.writeStatsError(w, r, err, slog.Int64(logging.FieldPlayerID, id))
		return
	}
	writeJSON(w, http.StatusOK, history, h.logger)
}

func (h *Handler) writeStatsError(w http.ResponseWriter, r *http.Request, err error, attrs ...any) {
	logger := loggerFromContext(r, h.logger)
	switch {
	case errors.Is(err, players.ErrPlayerNotFound):
		writeError(w, r, http.StatusNotFound, msgNotFound, logger)
	case errors.Is(err, providers.ErrProviderUnavailable):
		writeError(w, r, http.StatusServiceUnavailable, msgStatsDown, logger)
	default:
		if rl, ok := providers.AsRateLimitError(err); ok {
			if rl.RetryAfter > 0 {
				w.Header().Set("Retry-After", strconv.Itoa(int(rl.RetryAfter.Seconds())))
			}
			logging.Warn(logger, "stats rate limited", attrs...)
			writeError(w, r, http.StatusServiceUnavailable, msgStatsDown, logger)
			return
		}
		logging.Error(logger, "stats fetch failed", err, attrs...)
		writeError(w, r, http.StatusBadGateway, msgStatsUpstream, logger)
	}
}

func playerIDParam(r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
