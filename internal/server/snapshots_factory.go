package server

import (
	"log/slog"

	"github.com/preston-bernstein/swish-service/internal/config"
	"github.com/preston-bernstein/swish-service/internal/logging"
	"github.com/preston-bernstein/swish-service/internal/snapshots"
)

type snapshotComponents struct {
	store snapshots.ReadWriter
	close func() error
}

// buildSnapshots returns the configured snapshot store. A redis store that
// cannot be configured degrades to no snapshots rather than failing boot.
func buildSnapshots(cfg config.Config, logger *slog.Logger) snapshotComponents {
	switch normalizeProviderName(cfg.Snapshots.Store, nil) {
	case "none", "off", "disabled":
		return snapshotComponents{}
	case "redis":
		store, client, err := snapshots.NewRedisStoreFromURL(cfg.Snapshots.RedisURL, cfg.Snapshots.RetentionDays)
		if err != nil {
			logging.Error(logger, "redis snapshot store unavailable, snapshots disabled", err)
			return snapshotComponents{}
		}
		return snapshotComponents{store: store, close: client.Close}
	default:
		return snapshotComponents{store: snapshots.NewFSStore(cfg.Snapshots.Folder, cfg.Snapshots.RetentionDays)}
	}
}
