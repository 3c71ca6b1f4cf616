package snapshots

import (
	"context"
	"errors"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

// ErrNotFound is returned when no snapshot exists for the requested date.
var ErrNotFound = errors.New("snapshot not found")

// RosterSnapshot is a dated copy of the roster used to warm the store when
// the roster source is unavailable.
type RosterSnapshot struct {
	Date    string           `json:"date"`
	Source  string           `json:"source"`
	Players []players.Player `json:"players"`
}

// Store loads roster snapshots.
type Store interface {
	LoadRoster(ctx context.Context, date string) (RosterSnapshot, error)
	LatestRoster(ctx context.Context) (RosterSnapshot, error)
}

// Writer persists roster snapshots.
type Writer interface {
	WriteRoster(ctx context.Context, snap RosterSnapshot) error
}

// ReadWriter is a Store that can also persist snapshots.
type ReadWriter interface {
	Store
	Writer
}
