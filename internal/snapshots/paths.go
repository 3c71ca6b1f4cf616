package snapshots

import (
	"fmt"
	"path/filepath"
)

const rosterDir = "roster"

// RosterSnapshotPath builds the path to a roster snapshot for a given date.
func RosterSnapshotPath(basePath, date string) string {
	return filepath.Join(basePath, rosterDir, fmt.Sprintf("%s.json", date))
}
