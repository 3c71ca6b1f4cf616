package sqlite

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/preston-bernstein/swish-service/internal/storage/sqlroster"
)

// Open opens (creating if needed) the SQLite database at path.
func Open(path string) (*sqlroster.Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open %s: %w", path, err)
	}
	// SQLite serialises writers; one connection avoids "database is locked".
	db.SetMaxOpenConns(1)
	return sqlroster.New(db, sqlroster.SQLite, path), nil
}

// OpenExisting opens path only if the file is already there.
func OpenExisting(path string) (*sqlroster.Store, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("sqlite: roster database %s: %w", path, err)
	}
	return Open(path)
}

// OpenRoster prefers the filtered roster database when it exists and falls
// back to the full one.
func OpenRoster(fullPath, filteredPath string) (*sqlroster.Store, error) {
	if filteredPath != "" {
		if _, err := os.Stat(filteredPath); err == nil {
			return Open(filteredPath)
		}
	}
	return OpenExisting(fullPath)
}
