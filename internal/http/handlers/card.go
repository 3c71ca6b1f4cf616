package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/swish-service/internal/card"
	"github.com/preston-bernstein/swish-service/internal/logging"
)

const (
	// CardCookie carries the card session id.
	CardCookie = "swish_card"

	maxImageEventBytes = 1 << 10
)

// CardHandler serves the PlayerCard page and its browser callbacks.
type CardHandler struct {
	sessions *card.Sessions
	logger   *slog.Logger
}

// NewCardHandler constructs a CardHandler over sessions.
func NewCardHandler(sessions *card.Sessions, logger *slog.Logger) *CardHandler {
	return &CardHandler{sessions: sessions, logger: logger}
}

type imageEvent struct {
	Token  uint64 `json:"token"`
	Status string `json:"status"`
}

// Page renders the card for the caller's session.
func (h *CardHandler) Page(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	if err := card.WritePage(w, card.NewPageData(card.Render(ctrl.State()))); err != nil {
		logging.Error(loggerFromContext(r, h.logger), "render card page", err)
	}
}

// Generate runs one fetch cycle. Browsers are redirected back to the page;
// JSON clients receive the resulting view.
func (h *CardHandler) Generate(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	logger := loggerFromContext(r, h.logger)

	state, err := ctrl.Fetch(r.Context())
	if err != nil && !errors.Is(err, card.ErrSuperseded) {
		logging.Warn(logger, "card generate failed", "error", err)
	}

	if !wantsJSON(r) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if errors.Is(err, card.ErrSuperseded) {
		state = ctrl.State()
	}
	writeJSON(w, http.StatusOK, card.Render(state), logger)
}

// Image accepts {token, status} from the page's <img> load/error hooks.
func (h *CardHandler) Image(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	ctrl, ok := h.existing(r)
	if !ok {
		writeError(w, r, http.StatusNotFound, "unknown card session", logger)
		return
	}

	var ev imageEvent
	if err := json.NewDecoder(io.LimitReader(r.Body, maxImageEventBytes)).Decode(&ev); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid image event", logger)
		return
	}
	status, ok := card.ParseImageStatus(ev.Status)
	if !ok {
		writeError(w, r, http.StatusBadRequest, "invalid image status", logger)
		return
	}

	var applied bool
	if status == card.ImageLoaded {
		applied = ctrl.ImageLoaded(ev.Token)
	} else {
		applied = ctrl.ImageFailed(ev.Token)
	}
	logging.Debug(logger, "card image event",
		slog.Uint64(logging.FieldToken, ev.Token),
		slog.String("status", status.String()),
		slog.Bool("applied", applied),
	)
	writeJSON(w, http.StatusOK, map[string]any{"applied": applied}, logger)
}

// State returns the current view for the caller's session.
func (h *CardHandler) State(w http.ResponseWriter, r *http.Request) {
	ctrl := h.session(w, r)
	writeJSON(w, http.StatusOK, card.Render(ctrl.State()), loggerFromContext(r, h.logger))
}

func (h *CardHandler) session(w http.ResponseWriter, r *http.Request) *card.Controller {
	var id string
	if c, err := r.Cookie(CardCookie); err == nil {
		id = c.Value
	}
	ctrl, sid := h.sessions.Get(id)
	if sid != id {
		http.SetCookie(w, &http.Cookie{
			Name:     CardCookie,
			Value:    sid,
			Path:     "/",
			HttpOnly: true,
			SameSite: http.SameSiteLaxMode,
		})
	}
	return ctrl
}

func (h *CardHandler) existing(r *http.Request) (*card.Controller, bool) {
	c, err := r.Cookie(CardCookie)
	if err != nil {
		return nil, false
	}
	return h.sessions.Peek(c.Value)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}
