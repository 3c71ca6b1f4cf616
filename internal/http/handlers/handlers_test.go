package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/poller"
	"github.com/preston-bernstein/swish-service/internal/providers"
	"github.com/preston-bernstein/swish-service/internal/teststubs"
	"github.com/preston-bernstein/swish-service/internal/testutil"
)

func apiRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/health", h.Health)
	r.Get("/ready", h.Ready)
	r.Get("/api/hello", h.Hello)
	r.Get("/api/generate", h.Generate)
	r.Get("/api/player_image", h.PlayerImage)
	r.Get("/api/player/{id}/image", h.PlayerHeadshot)
	r.Get("/api/get_stats", h.Stats)
	r.Get("/api/player/{id}/stats", h.PlayerStats)
	return r
}

func newHandler(roster []players.Player, career providers.CareerProvider) *Handler {
	return NewHandler(testutil.NewServiceWithPlayers(roster, career), nil, nil)
}

func TestHealth(t *testing.T) {
	rr := testutil.Serve(apiRouter(newHandler(nil, nil)), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h := newHandler(nil, nil)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertError(t, rr, http.StatusServiceUnavailable, "shutting down")
}

func TestReady(t *testing.T) {
	cases := []struct {
		name   string
		status *poller.Status
		want   int
		errMsg string
	}{
		{name: "no status fn", want: http.StatusOK},
		{name: "loaded", status: &poller.Status{LastSuccess: time.Now(), Players: 3}, want: http.StatusOK},
		{name: "warmed", status: &poller.Status{WarmedFrom: "2024-01-01", Players: 3}, want: http.StatusOK},
		{name: "never loaded", status: &poller.Status{}, want: http.StatusServiceUnavailable, errMsg: "not ready"},
		{name: "failing", status: &poller.Status{LastSuccess: time.Now(), Players: 3, ConsecutiveFailures: 3, LastError: "db down"}, want: http.StatusServiceUnavailable, errMsg: "db down"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var fn func() poller.Status
			if tc.status != nil {
				st := *tc.status
				fn = func() poller.Status { return st }
			}
			h := NewHandler(testutil.NewServiceWithPlayers(nil, nil), nil, fn)
			rr := testutil.Serve(apiRouter(h), http.MethodGet, "/ready", nil)
			testutil.AssertStatus(t, rr, tc.want)
			if tc.errMsg != "" {
				var body map[string]string
				testutil.DecodeJSON(t, rr, &body)
				if body["error"] != tc.errMsg {
					t.Fatalf("expected error %q, got %q", tc.errMsg, body["error"])
				}
			}
		})
	}
}

func TestHello(t *testing.T) {
	rr := testutil.Serve(apiRouter(newHandler(nil, nil)), http.MethodGet, "/api/hello", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["message"] != "Hello from backend" {
		t.Fatalf("unexpected hello body %v", body)
	}
}

func TestPreflight(t *testing.T) {
	h := newHandler(nil, nil)
	rr := testutil.Serve(http.HandlerFunc(h.Preflight), http.MethodOptions, "/api/generate", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	if !strings.Contains(rr.Body.String(), `"status":"ok"`) {
		t.Fatalf("unexpected preflight body %s", rr.Body.String())
	}
}

func TestGenerateReturnsRosterRecord(t *testing.T) {
	roster := testutil.SampleRoster()
	rr := testutil.Serve(apiRouter(newHandler(roster, nil)), http.MethodGet, "/api/generate", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var rec players.Record
	testutil.DecodeJSON(t, rr, &rec)
	found := false
	for _, p := range roster {
		if p.ID == rec.ID && p.Name == rec.Name && p.AllStarCount == rec.AllStarCount {
			found = true
		}
	}
	if !found {
		t.Fatalf("generated record %+v not in roster", rec)
	}
	if !rec.HasImage() || !strings.Contains(rec.Image(), "basketball-reference.com") {
		t.Fatalf("expected bbref image url, got %+v", rec.ImageURL)
	}
}

func TestGenerateEmptyRoster(t *testing.T) {
	rr := testutil.Serve(apiRouter(newHandler(nil, nil)), http.MethodGet, "/api/generate", nil)
	testutil.AssertError(t, rr, http.StatusInternalServerError, "No players available")
}

func TestPlayerImage(t *testing.T) {
	router := apiRouter(newHandler(nil, nil))
	cases := []struct {
		query  string
		status int
		key    string
		want   string
	}{
		{query: "?name=Michael+Jordan", status: http.StatusOK, key: "image_url", want: "/players/jordami01.jpg"},
		{query: "", status: http.StatusBadRequest, key: "error", want: "Name parameter required"},
		{query: "?name=Nene", status: http.StatusBadRequest, key: "error", want: "Could not generate image URL"},
	}
	for _, tc := range cases {
		rr := testutil.Serve(router, http.MethodGet, "/api/player_image"+tc.query, nil)
		testutil.AssertStatus(t, rr, tc.status)
		var body map[string]string
		testutil.DecodeJSON(t, rr, &body)
		if !strings.Contains(body[tc.key], tc.want) {
			t.Fatalf("query %q: expected %s containing %q, got %v", tc.query, tc.key, tc.want, body)
		}
	}
}

func TestPlayerHeadshot(t *testing.T) {
	router := apiRouter(newHandler(nil, nil))
	rr := testutil.Serve(router, http.MethodGet, "/api/player/201939/image", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var body map[string]string
	testutil.DecodeJSON(t, rr, &body)
	if body["image_url"] != "https://cdn.nba.com/headshots/nba/latest/1040x760/201939.png" {
		t.Fatalf("unexpected headshot %q", body["image_url"])
	}

	rr = testutil.Serve(router, http.MethodGet, "/api/player/abc/image", nil)
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestStatsDefaultsToCurry(t *testing.T) {
	career := &teststubs.StubCareer{Careers: map[int64]players.Career{201939: testutil.SampleCareer(201939)}}
	rr := testutil.Serve(apiRouter(newHandler(testutil.SampleRoster(), career)), http.MethodGet, "/api/get_stats", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var history players.StatHistory
	testutil.DecodeJSON(t, rr, &history)
	if len(history) != 6 || history[0].Stat != "PPG" {
		t.Fatalf("unexpected history %+v", history)
	}
	if len(history[0].Seasons) != 2 || history[0].Seasons[0] != "2021-22" {
		t.Fatalf("expected ordered seasons, got %v", history[0].Seasons)
	}
}

func TestStatsErrors(t *testing.T) {
	roster := testutil.SampleRoster()
	cases := []struct {
		name   string
		career providers.CareerProvider
		path   string
		want   int
	}{
		{name: "unknown name", career: &teststubs.StubCareer{}, path: "/api/get_stats?name=Nobody", want: http.StatusNotFound},
		{name: "no provider", career: nil, path: "/api/get_stats?name=LeBron+James", want: http.StatusServiceUnavailable},
		{name: "upstream error", career: &teststubs.StubCareer{Err: errors.New("boom")}, path: "/api/player/2544/stats", want: http.StatusBadGateway},
		{name: "unknown id", career: &teststubs.StubCareer{}, path: "/api/player/42/stats", want: http.StatusNotFound},
		{name: "bad id", career: &teststubs.StubCareer{}, path: "/api/player/-1/stats", want: http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rr := testutil.Serve(apiRouter(newHandler(roster, tc.career)), http.MethodGet, tc.path, nil)
			testutil.AssertStatus(t, rr, tc.want)
		})
	}
}

func TestStatsRateLimitedSetsRetryAfter(t *testing.T) {
	career := &teststubs.StubCareer{Err: &providers.RateLimitError{Provider: "nbastats", StatusCode: 429, RetryAfter: 30 * time.Second}}
	rr := testutil.Serve(apiRouter(newHandler(nil, career)), http.MethodGet, "/api/player/2544/stats", nil)
	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	if got := rr.Header().Get("Retry-After"); got != "30" {
		t.Fatalf("expected Retry-After 30, got %q", got)
	}
}
