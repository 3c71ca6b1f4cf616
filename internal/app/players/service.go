package players

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/metrics"
	"github.com/preston-bernstein/swish-service/internal/providers"
)

// DefaultStatsPlayer is used when a stats lookup names nobody.
const DefaultStatsPlayer = "Stephen Curry"

// ErrNoImage is returned when no headshot URL can be derived from a name.
var ErrNoImage = errors.New("could not generate image url")

// Store defines the contract for the in-memory roster.
type Store interface {
	ListPlayers() []players.Player
	GetPlayer(id int64) (players.Player, bool)
	FindByName(name string) (players.Player, bool)
	PlayerAt(i int) (players.Player, bool)
	Len() int
	SetPlayers([]players.Player)
}

// Options configures a Service. Zero values are usable.
type Options struct {
	Career  providers.CareerProvider
	Metrics *metrics.Recorder
	Source  string
	RNG     *rand.Rand
}

// Service serves random picks, headshots and career stats over the roster.
type Service struct {
	store   Store
	career  providers.CareerProvider
	metrics *metrics.Recorder
	source  string

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewService constructs a Service over store.
func NewService(store Store, opts Options) *Service {
	rng := opts.RNG
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	source := opts.Source
	if source == "" {
		source = "roster"
	}
	return &Service{
		store:   store,
		career:  opts.Career,
		metrics: opts.Metrics,
		source:  source,
		rng:     rng,
	}
}

// Players returns the current roster.
func (s *Service) Players() []players.Player {
	return s.store.ListPlayers()
}

// PlayerByID returns a single player if present.
func (s *Service) PlayerByID(id int64) (players.Player, bool) {
	return s.store.GetPlayer(id)
}

// PlayerByName looks a player up by full name, ignoring case and spacing.
func (s *Service) PlayerByName(name string) (players.Player, bool) {
	return s.store.FindByName(name)
}

// Len reports the roster size.
func (s *Service) Len() int {
	return s.store.Len()
}

// ReplacePlayers swaps the in-memory roster.
func (s *Service) ReplacePlayers(items []players.Player) {
	s.store.SetPlayers(items)
}

// Generate picks a roster entry uniformly at random and attaches its headshot.
func (s *Service) Generate(ctx context.Context) (players.Record, error) {
	if err := ctx.Err(); err != nil {
		return players.Record{}, err
	}
	// The roster can be swapped between Len and PlayerAt; retry once on a shrink.
	for attempt := 0; attempt < 2; attempt++ {
		n := s.store.Len()
		if n == 0 {
			return players.Record{}, players.ErrNoPlayers
		}
		p, ok := s.store.PlayerAt(s.intn(n))
		if !ok {
			continue
		}
		image, _ := players.BBRefImageURL(p.Name)
		s.metrics.RecordPlayerGenerated(s.source)
		return players.NewRecord(p, image), nil
	}
	return players.Record{}, players.ErrNoPlayers
}

func (s *Service) intn(n int) int {
	s.rngMu.Lock()
	defer s.rngMu.Unlock()
	return s.rng.Intn(n)
}

// ImageURL derives the Basketball-Reference headshot for a full name.
func (s *Service) ImageURL(name string) (string, error) {
	url, ok := players.BBRefImageURL(name)
	if !ok {
		return "", ErrNoImage
	}
	return url, nil
}

// HeadshotURL returns the NBA CDN headshot for an NBA player id.
func (s *Service) HeadshotURL(playerID int64) string {
	return players.NBACDNImageURL(playerID)
}

// StatsByName resolves name against the roster and returns the career stat history.
// An empty name falls back to DefaultStatsPlayer.
func (s *Service) StatsByName(ctx context.Context, name string) (players.StatHistory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultStatsPlayer
	}
	p, ok := s.store.FindByName(name)
	if !ok {
		return nil, fmt.Errorf("%q: %w", name, players.ErrPlayerNotFound)
	}
	return s.StatsByID(ctx, p.ID)
}

// StatsByID fetches the career for an NBA player id and derives the stat history.
func (s *Service) StatsByID(ctx context.Context, playerID int64) (players.StatHistory, error) {
	if s.career == nil {
		return nil, providers.ErrProviderUnavailable
	}
	career, err := s.career.FetchCareer(ctx, playerID)
	if err != nil {
		return nil, err
	}
	return players.BuildStatHistory(career), nil
}
