package sqlroster

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/preston-bernstein/swish-service/internal/domain/players"
)

const retirementColumn = "retirement_year"

const createPlayersTable = `CREATE TABLE IF NOT EXISTS players (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	all_star_count INTEGER,
	retirement_year INTEGER,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
)`

// Store reads and maintains the All-Star players table.
type Store struct {
	db      *sql.DB
	dialect Dialect
	source  string
}

// New wraps an open database handle. source names the roster for logs and metrics.
func New(db *sql.DB, dialect Dialect, source string) *Store {
	if source == "" {
		source = dialect.Name
	}
	return &Store{db: db, dialect: dialect, source: source}
}

// Source names the backing database.
func (s *Store) Source() string {
	return s.source
}

// DB exposes the underlying handle.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping checks the connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// CreateSchema creates the players table if it is missing.
func (s *Store) CreateSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createPlayersTable); err != nil {
		return fmt.Errorf("%s: create players table: %w", s.dialect.Name, err)
	}
	return nil
}

// HasRetirementColumn reports whether the players table carries retirement_year.
func (s *Store) HasRetirementColumn(ctx context.Context) (bool, error) {
	rows, err := s.db.QueryContext(ctx, s.dialect.ColumnsQuery)
	if err != nil {
		return false, fmt.Errorf("%s: list columns: %w", s.dialect.Name, err)
	}
	defer rows.Close()

	found := 0
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return false, err
		}
		found++
		if strings.EqualFold(name, retirementColumn) {
			return true, nil
		}
	}
	if err := rows.Err(); err != nil {
		return false, err
	}
	if found == 0 {
		return false, fmt.Errorf("%s: players table not found", s.dialect.Name)
	}
	return false, nil
}

// FetchPlayers returns the roster ordered by all-star count, highest first.
func (s *Store) FetchPlayers(ctx context.Context) ([]players.Player, error) {
	hasRetirement, err := s.HasRetirementColumn(ctx)
	if err != nil {
		return nil, err
	}
	if hasRetirement {
		return s.query(ctx, "SELECT id, name, all_star_count, retirement_year FROM players ORDER BY all_star_count DESC", true)
	}
	return s.query(ctx, "SELECT id, name, all_star_count FROM players ORDER BY all_star_count DESC", false)
}

// EnsureRetirementColumn adds retirement_year when the table predates it.
func (s *Store) EnsureRetirementColumn(ctx context.Context) (added bool, err error) {
	has, err := s.HasRetirementColumn(ctx)
	if err != nil {
		return false, err
	}
	if has {
		return false, nil
	}
	if _, err := s.db.ExecContext(ctx, "ALTER TABLE players ADD COLUMN retirement_year INTEGER"); err != nil {
		return false, fmt.Errorf("%s: add retirement column: %w", s.dialect.Name, err)
	}
	return true, nil
}

// UpdateRetirementYear sets the player's final season year.
func (s *Store) UpdateRetirementYear(ctx context.Context, playerID int64, year int) error {
	res, err := s.db.ExecContext(ctx, s.dialect.Rebind("UPDATE players SET retirement_year = ? WHERE id = ?"), year, playerID)
	if err != nil {
		return fmt.Errorf("%s: update retirement year for %d: %w", s.dialect.Name, playerID, err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%s: player %d: %w", s.dialect.Name, playerID, players.ErrPlayerNotFound)
	}
	return nil
}

// FilterByRetirementYear returns players retired in or after minYear, plus
// anyone without a retirement year, ordered by all-star count.
func (s *Store) FilterByRetirementYear(ctx context.Context, minYear int) ([]players.Player, error) {
	q := s.dialect.Rebind(`SELECT id, name, all_star_count, retirement_year FROM players
		WHERE retirement_year >= ? OR retirement_year IS NULL
		ORDER BY all_star_count DESC`)
	return s.query(ctx, q, true, minYear)
}

// ReplacePlayers creates the table if needed and swaps its contents for roster in one transaction.
func (s *Store) ReplacePlayers(ctx context.Context, roster []players.Player) (err error) {
	if err := s.CreateSchema(ctx); err != nil {
		return err
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM players"); err != nil {
		return fmt.Errorf("%s: clear players: %w", s.dialect.Name, err)
	}
	stmt, err := tx.PrepareContext(ctx, s.dialect.Rebind("INSERT INTO players (id, name, all_star_count, retirement_year) VALUES (?, ?, ?, ?)"))
	if err != nil {
		return fmt.Errorf("%s: prepare insert: %w", s.dialect.Name, err)
	}
	defer stmt.Close()

	for _, p := range roster {
		var retirement sql.NullInt64
		if p.RetirementYear != nil {
			retirement = sql.NullInt64{Int64: int64(*p.RetirementYear), Valid: true}
		}
		if _, err = stmt.ExecContext(ctx, p.ID, p.Name, p.AllStarCount, retirement); err != nil {
			return fmt.Errorf("%s: insert player %d: %w", s.dialect.Name, p.ID, err)
		}
	}
	return tx.Commit()
}

func (s *Store) query(ctx context.Context, q string, withRetirement bool, args ...any) ([]players.Player, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: query players: %w", s.dialect.Name, err)
	}
	defer rows.Close()

	var out []players.Player
	for rows.Next() {
		var (
			p          players.Player
			allStars   sql.NullInt64
			retirement sql.NullInt64
		)
		dest := []any{&p.ID, &p.Name, &allStars}
		if withRetirement {
			dest = append(dest, &retirement)
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("%s: scan player: %w", s.dialect.Name, err)
		}
		p.AllStarCount = int(allStars.Int64)
		if retirement.Valid {
			year := int(retirement.Int64)
			p.RetirementYear = &year
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if out == nil {
		out = []players.Player{}
	}
	return out, nil
}
