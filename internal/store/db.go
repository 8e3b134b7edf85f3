// Package store provides the station's local sqlite persistence: the
// session pointer that makes an interrupted count resumable across process
// restarts, and a mirror of the count historial for offline consultation.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/mattn/go-sqlite3"
)

// OpenDB initializes the sqlite handle for the station's local state.
// A single write connection is enough: the store is only touched from the
// controller's serialized transition handlers.
func OpenDB(path string) (*bun.DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
	sqldb, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	sqldb.SetMaxOpenConns(1)
	sqldb.SetConnMaxLifetime(15 * time.Minute)

	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

// Migrate creates the station's tables when they do not exist yet.
func Migrate(ctx context.Context, db *bun.DB) error {
	models := []interface{}{
		(*punteroRow)(nil),
		(*conteoRow)(nil),
	}
	for _, m := range models {
		if _, err := db.NewCreateTable().Model(m).IfNotExists().Exec(ctx); err != nil {
			return fmt.Errorf("create table: %w", err)
		}
	}
	return nil
}
