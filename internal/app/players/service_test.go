package players

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/metrics"
	"github.com/preston-bernstein/swish-service/internal/providers"
	"github.com/preston-bernstein/swish-service/internal/store"
	"github.com/preston-bernstein/swish-service/internal/teststubs"
)

func seededService(t *testing.T, roster []players.Player, career providers.CareerProvider) (*Service, *metrics.Recorder) {
	t.Helper()
	st := store.NewMemoryStore()
	st.SetPlayers(roster)
	rec := metrics.NewRecorder()
	return NewService(st, Options{Career: career, Metrics: rec, Source: "fixture", RNG: rand.New(rand.NewSource(1))}), rec
}

var roster = []players.Player{
	{ID: 2544, Name: "LeBron James", AllStarCount: 20},
	{ID: 201939, Name: "Stephen Curry", AllStarCount: 10},
	{ID: 1, Name: "Cher", AllStarCount: 1},
}

func TestGenerateReturnsRosterRecord(t *testing.T) {
	svc, rec := seededService(t, roster, nil)

	for i := 0; i < 20; i++ {
		got, err := svc.Generate(context.Background())
		if err != nil {
			t.Fatalf("generate: %v", err)
		}
		p, ok := svc.PlayerByID(got.ID)
		if !ok || p.Name != got.Name || p.AllStarCount != got.AllStarCount {
			t.Fatalf("generated record %+v does not match roster", got)
		}
		if got.Name == "Cher" && got.HasImage() {
			t.Fatalf("single-word name must have no image")
		}
		if got.Name != "Cher" && !got.HasImage() {
			t.Fatalf("expected image for %s", got.Name)
		}
	}
	if rec.PlayersGenerated() != 20 {
		t.Fatalf("expected 20 generated, got %d", rec.PlayersGenerated())
	}
}

func TestGenerateCoversWholeRoster(t *testing.T) {
	svc, _ := seededService(t, roster, nil)
	seen := map[int64]bool{}
	for i := 0; i < 200; i++ {
		got, _ := svc.Generate(context.Background())
		seen[got.ID] = true
	}
	if len(seen) != len(roster) {
		t.Fatalf("expected every roster entry picked, saw %d", len(seen))
	}
}

func TestGenerateEmptyRoster(t *testing.T) {
	svc, _ := seededService(t, nil, nil)
	if _, err := svc.Generate(context.Background()); !errors.Is(err, players.ErrNoPlayers) {
		t.Fatalf("expected ErrNoPlayers, got %v", err)
	}
}

func TestImageURLs(t *testing.T) {
	svc, _ := seededService(t, roster, nil)
	url, err := svc.ImageURL("Stephen Curry")
	if err != nil || url != "https://www.basketball-reference.com/req/202106291/images/players/curryst01.jpg" {
		t.Fatalf("unexpected image url %q (%v)", url, err)
	}
	if _, err := svc.ImageURL("Nene"); !errors.Is(err, ErrNoImage) {
		t.Fatalf("expected ErrNoImage, got %v", err)
	}
	if got := svc.HeadshotURL(2544); got != "https://cdn.nba.com/headshots/nba/latest/1040x760/2544.png" {
		t.Fatalf("unexpected headshot %q", got)
	}
}

func TestStatsByNameDefaultsAndResolves(t *testing.T) {
	fg3m := 166.0
	career := &teststubs.StubCareer{Careers: map[int64]players.Career{
		201939: {PlayerID: 201939, Seasons: []players.Season{{SeasonID: "2009-10", GP: 80, PTS: 1399, AST: 472, REB: 357, STL: 152, BLK: 17, FG3M: &fg3m}}},
	}}
	svc, _ := seededService(t, roster, career)

	history, err := svc.StatsByName(context.Background(), "")
	if err != nil {
		t.Fatalf("stats: %v", err)
	}
	if len(history) != 6 || history[0].Stat != "PPG" || history[0].Values[0] != 17.5 {
		t.Fatalf("unexpected history %+v", history)
	}
	if history[5].Stat != "3PM" || history[5].Values[0] != 166 {
		t.Fatalf("unexpected 3PM series %+v", history[5])
	}

	if _, err := svc.StatsByName(context.Background(), "Nobody Here"); !errors.Is(err, players.ErrPlayerNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := svc.StatsByID(context.Background(), 2544); !errors.Is(err, players.ErrPlayerNotFound) {
		t.Fatalf("expected upstream not found, got %v", err)
	}
}

func TestStatsWithoutCareerProvider(t *testing.T) {
	svc, _ := seededService(t, roster, nil)
	if _, err := svc.StatsByID(context.Background(), 2544); !errors.Is(err, providers.ErrProviderUnavailable) {
		t.Fatalf("expected ErrProviderUnavailable, got %v", err)
	}
}

func TestReplacePlayers(t *testing.T) {
	svc, _ := seededService(t, roster, nil)
	svc.ReplacePlayers([]players.Player{{ID: 9, Name: "Nikola Jokic", AllStarCount: 6}})
	if svc.Len() != 1 {
		t.Fatalf("expected replaced roster")
	}
	if _, ok := svc.PlayerByName("nikola  JOKIC"); !ok {
		t.Fatalf("expected name lookup to ignore case and spacing")
	}
	if len(svc.Players()) != 1 {
		t.Fatalf("expected one player listed")
	}
}
