package providers

import (
	"context"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// RosterProvider loads the All-Star pool from a roster source.
// Implementations return players ordered by all-star count, highest first.
type RosterProvider interface {
	FetchPlayers(ctx context.Context) ([]players.Player, error)
}

// CareerProvider fetches a player's regular-season career totals.
// A player the upstream does not know yields players.ErrPlayerNotFound.
type CareerProvider interface {
	FetchCareer(ctx context.Context, playerID int64) (players.Career, error)
}
