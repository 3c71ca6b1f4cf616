package testutil

import (
	"math/rand"

	appplayers "github.com/preston-bernstein/swish-service/internal/app/players"
	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/providers"
	"github.com/preston-bernstein/swish-service/internal/store"
)

// NewServiceWithPlayers builds a player service backed by an in-memory store
// preloaded with roster and a seeded RNG. career may be nil.
func NewServiceWithPlayers(roster []players.Player, career providers.CareerProvider) *appplayers.Service {
	ms := store.NewMemoryStore()
	if len(roster) > 0 {
		ms.SetPlayers(roster)
	}
	return appplayers.NewService(ms, appplayers.Options{
		Career: career,
		Source: "test",
		RNG:    rand.New(rand.NewSource(1)),
	})
}
