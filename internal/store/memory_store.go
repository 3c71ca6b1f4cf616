package store

import (
	"strings"
	"sync"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// MemoryStore keeps a thread-safe snapshot of the roster in memory.
// Order is preserved as supplied by the roster source.
type MemoryStore struct {
	mu     sync.RWMutex
	order  []players.Player
	byID   map[int64]int
	byName map[string]int
}

// NewMemoryStore constructs an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:   make(map[int64]int),
		byName: make(map[string]int),
	}
}

// ListPlayers returns a copy of the current roster.
func (s *MemoryStore) ListPlayers() []players.Player {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]players.Player, len(s.order))
	copy(result, s.order)
	return result
}

// GetPlayer retrieves a player by ID.
func (s *MemoryStore) GetPlayer(id int64) (players.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byID[id]
	if !ok {
		return players.Player{}, false
	}
	return s.order[idx], true
}

// FindByName retrieves a player by full name, case-insensitively.
func (s *MemoryStore) FindByName(name string) (players.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	idx, ok := s.byName[nameKey(name)]
	if !ok {
		return players.Player{}, false
	}
	return s.order[idx], true
}

// PlayerAt returns the i-th roster entry; used for uniform random picks.
func (s *MemoryStore) PlayerAt(i int) (players.Player, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i < 0 || i >= len(s.order) {
		return players.Player{}, false
	}
	return s.order[i], true
}

// Len returns the roster size.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// SetPlayers replaces the existing roster with a new snapshot.
// Duplicate IDs keep the first occurrence.
func (s *MemoryStore) SetPlayers(items []players.Player) {
	order := make([]players.Player, 0, len(items))
	byID := make(map[int64]int, len(items))
	byName := make(map[string]int, len(items))
	for _, p := range items {
		if _, dup := byID[p.ID]; dup {
			continue
		}
		byID[p.ID] = len(order)
		if key := nameKey(p.Name); key != "" {
			if _, seen := byName[key]; !seen {
				byName[key] = len(order)
			}
		}
		order = append(order, p)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.order = order
	s.byID = byID
	s.byName = byName
}

func nameKey(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
