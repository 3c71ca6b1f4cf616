package server

import (
	"context"

	"github.com/preston-bernstein/swish-service/internal/poller"
)

// Poller defines the roster refresher behavior the server drives.
type Poller interface {
	Start(ctx context.Context)
	Stop(ctx context.Context) error
	Refresh(ctx context.Context) error
	Status() poller.Status
}
