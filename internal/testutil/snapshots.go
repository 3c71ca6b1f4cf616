package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
	"github.com/preston-bernstein/swish-service/internal/snapshots"
)

// NewTempStore returns a filesystem snapshot store rooted in a temp dir.
func NewTempStore(t *testing.T, retention int) *snapshots.FSStore {
	t.Helper()
	return snapshots.NewFSStore(t.TempDir(), retention)
}

// WriteSnapshot writes a roster snapshot for date.
func WriteSnapshot(t *testing.T, w snapshots.Writer, date string, roster []players.Player) {
	t.Helper()
	if err := writeSnapshotPayload(w, date, roster); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", date, err)
	}
}

func writeSnapshotPayload(w snapshots.Writer, date string, roster []players.Player) error {
	if w == nil {
		return snapshots.ErrNotFound
	}
	return w.WriteRoster(context.Background(), snapshots.RosterSnapshot{
		Date:    date,
		Source:  "test",
		Players: roster,
	})
}

// SnapshotPath returns the expected file path for a snapshot date.
func SnapshotPath(s *snapshots.FSStore, date string) string {
	return snapshots.RosterSnapshotPath(s.BasePath(), date)
}
