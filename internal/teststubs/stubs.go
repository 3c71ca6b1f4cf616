package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/snapshots"
)

// StubRoster is a test double for providers.RosterProvider.
type StubRoster struct {
	Players []players.Player
	Err     error
	Calls   atomic.Int32
	Notify  chan struct{}
}

// FetchPlayers returns configured players and error while tracking calls.
func (s *StubRoster) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	_ = ctx
	notify(s.Notify)
	s.Calls.Add(1)
	if s.Err != nil {
		return nil, s.Err
	}
	out := make([]players.Player, len(s.Players))
	copy(out, s.Players)
	return out, nil
}

// StubCareer is a test double for providers.CareerProvider.
type StubCareer struct {
	Careers map[int64]players.Career
	Err     error
	Calls   atomic.Int32
	Notify  chan struct{}
}

// FetchCareer returns the configured career for the player, or ErrPlayerNotFound.
func (s *StubCareer) FetchCareer(ctx context.Context, playerID int64) (players.Career, error) {
	_ = ctx
	notify(s.Notify)
	s.Calls.Add(1)
	if s.Err != nil {
		return players.Career{}, s.Err
	}
	career, ok := s.Careers[playerID]
	if !ok {
		return players.Career{}, players.ErrPlayerNotFound
	}
	return career, nil
}

func notify(ch chan struct{}) {
	if ch == nil {
		return
	}
	select {
	case <-ch:
	default:
		close(ch)
	}
}

// StubSnapshots is an in-memory snapshots.ReadWriter.
type StubSnapshots struct {
	mu       sync.Mutex
	Rosters  map[string]snapshots.RosterSnapshot // keyed by date
	LoadErr  error
	WriteErr error
	Writes   int
}

// LoadRoster returns the snapshot for the date, or snapshots.ErrNotFound.
func (s *StubSnapshots) LoadRoster(ctx context.Context, date string) (snapshots.RosterSnapshot, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return snapshots.RosterSnapshot{}, s.LoadErr
	}
	snap, ok := s.Rosters[date]
	if !ok {
		return snapshots.RosterSnapshot{}, snapshots.ErrNotFound
	}
	return snap, nil
}

// LatestRoster returns the snapshot with the greatest date.
func (s *StubSnapshots) LatestRoster(ctx context.Context) (snapshots.RosterSnapshot, error) {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.LoadErr != nil {
		return snapshots.RosterSnapshot{}, s.LoadErr
	}
	latest := ""
	for date := range s.Rosters {
		if date > latest {
			latest = date
		}
	}
	if latest == "" {
		return snapshots.RosterSnapshot{}, snapshots.ErrNotFound
	}
	return s.Rosters[latest], nil
}

// WriteRoster records the snapshot for verification in tests.
func (s *StubSnapshots) WriteRoster(ctx context.Context, snap snapshots.RosterSnapshot) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.WriteErr != nil {
		return s.WriteErr
	}
	if s.Rosters == nil {
		s.Rosters = make(map[string]snapshots.RosterSnapshot)
	}
	s.Rosters[snap.Date] = snap
	s.Writes++
	return nil
}

// WriteCount reports how many snapshots were written.
func (s *StubSnapshots) WriteCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.Writes
}
