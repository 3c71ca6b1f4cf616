package snapshots

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/preston-bernstein/swish-service/internal/timeutil"
)

// FSStore reads and writes roster snapshots under {basePath}/roster/{date}.json
// and prunes files older than the retention window on every write.
type FSStore struct {
	basePath      string
	retentionDays int
	now           func() time.Time
}

// NewFSStore constructs an FS-backed snapshot store rooted at basePath.
func NewFSStore(basePath string, retentionDays int) *FSStore {
	if retentionDays <= 0 {
		retentionDays = 7
	}
	return &FSStore{basePath: basePath, retentionDays: retentionDays, now: time.Now}
}

// BasePath exposes the store root path.
func (s *FSStore) BasePath() string {
	if s == nil {
		return ""
	}
	return s.basePath
}

// LoadRoster reads the snapshot for the given date (YYYY-MM-DD).
func (s *FSStore) LoadRoster(ctx context.Context, date string) (RosterSnapshot, error) {
	if s == nil {
		return RosterSnapshot{}, errors.New("snapshot store not configured")
	}
	if date == "" {
		return RosterSnapshot{}, errors.New("snapshot date required")
	}
	if err := ctx.Err(); err != nil {
		return RosterSnapshot{}, err
	}

	var snap RosterSnapshot
	if err := decodeFile(RosterSnapshotPath(s.basePath, date), &snap); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RosterSnapshot{}, ErrNotFound
		}
		return RosterSnapshot{}, err
	}
	if snap.Date == "" {
		snap.Date = date
	}
	return snap, nil
}

// LatestRoster returns the most recent snapshot on disk.
func (s *FSStore) LatestRoster(ctx context.Context) (RosterSnapshot, error) {
	if s == nil {
		return RosterSnapshot{}, errors.New("snapshot store not configured")
	}
	dates, err := s.listDates()
	if err != nil {
		return RosterSnapshot{}, err
	}
	if len(dates) == 0 {
		return RosterSnapshot{}, ErrNotFound
	}
	return s.LoadRoster(ctx, dates[len(dates)-1])
}

// WriteRoster writes the snapshot atomically and prunes old snapshots.
func (s *FSStore) WriteRoster(ctx context.Context, snap RosterSnapshot) error {
	if s == nil {
		return fmt.Errorf("snapshot writer not configured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.Date == "" {
		snap.Date = timeutil.DateKey(s.now())
	}

	target := RosterSnapshotPath(s.basePath, snap.Date)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return err
	}

	if existing, err := os.ReadFile(target); err != nil || !bytes.Equal(existing, data) {
		tmp := target + ".tmp"
		if err := os.WriteFile(tmp, data, 0o644); err != nil {
			return err
		}
		if err := os.Rename(tmp, target); err != nil {
			return err
		}
	}

	return s.prune()
}

func (s *FSStore) listDates() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(s.basePath, rosterDir))
	if err != nil {
		if os.IsNotExist(err) {
			return []string{}, nil
		}
		return nil, err
	}
	var dates []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		base := strings.TrimSuffix(e.Name(), ".json")
		if _, err := timeutil.ParseDateKey(base); err != nil {
			continue
		}
		dates = append(dates, base)
	}
	sort.Strings(dates)
	return dates, nil
}

func (s *FSStore) prune() error {
	dates, err := s.listDates()
	if err != nil {
		return err
	}
	cutoff := timeutil.RetentionCutoff(s.now(), s.retentionDays)
	// Never prune the newest snapshot, even when it is stale.
	for i, d := range dates {
		if i == len(dates)-1 {
			break
		}
		parsed, err := timeutil.ParseDateKey(d)
		if err != nil || !parsed.Before(cutoff) {
			continue
		}
		if err := os.Remove(RosterSnapshotPath(s.basePath, d)); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func decodeFile(path string, payload any) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return json.NewDecoder(f).Decode(payload)
}
