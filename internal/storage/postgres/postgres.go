package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/preston-bernstein/swish-service/internal/storage/sqlroster"
)

// Open connects to Postgres, configures the pool and verifies the connection.
func Open(ctx context.Context, dsn string) (*sqlroster.Store, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres: dsn required")
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return sqlroster.New(db, sqlroster.Postgres, "postgres"), nil
}
