package handlers

import (
	"context"
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/swish-service/internal/http/requestutil"
	"github.com/preston-bernstein/swish-service/internal/logging"
	"github.com/preston-bernstein/swish-service/internal/poller"
)

// RosterRefresher reloads the roster on demand.
type RosterRefresher interface {
	Refresh(ctx context.Context) error
	Status() poller.Status
}

// AdminHandler exposes admin-only endpoints.
type AdminHandler struct {
	refresher RosterRefresher
	token     string
	logger    *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token disables the endpoints.
func NewAdminHandler(refresher RosterRefresher, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		refresher: refresher,
		token:     token,
		logger:    logger,
	}
}

// RefreshRoster forces a roster reload and snapshot write.
// Guarded by ADMIN_TOKEN; returns 401 if missing or invalid.
func (h *AdminHandler) RefreshRoster(w http.ResponseWriter, r *http.Request) {
	if !requireMethod(w, r, http.MethodPost, h.logger) {
		return
	}
	if !h.authorize(r) {
		logging.Warn(h.logger, "admin unauthorized",
			slog.String(logging.FieldPath, r.URL.Path),
			slog.String("client_ip", requestutil.ClientIP(r)),
		)
		writeError(w, r, http.StatusUnauthorized, "unauthorized", h.logger)
		return
	}
	logger := loggerFromContext(r, h.logger)
	if h.refresher == nil {
		writeError(w, r, http.StatusServiceUnavailable, "roster refresher not configured", logger)
		return
	}

	if err := h.refresher.Refresh(r.Context()); err != nil {
		logging.Error(logger, "admin roster refresh failed", err)
		writeError(w, r, http.StatusBadGateway, "failed to refresh roster", logger)
		return
	}

	status := h.refresher.Status()
	logging.Info(logger, "admin roster refreshed", slog.Int(logging.FieldCount, status.Players))
	writeJSON(w, http.StatusOK, map[string]any{
		"players": status.Players,
		"status":  "ok",
	}, logger)
}

func (h *AdminHandler) authorize(r *http.Request) bool {
	if h.token == "" {
		return false
	}
	got := []byte(r.Header.Get("Authorization"))
	want := []byte("Bearer " + h.token)
	return subtle.ConstantTimeCompare(got, want) == 1
}
