package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// InitSchema creates all necessary tables and indexes.
// Note: WAL mode is configured in db.go's New function.
func InitSchema(db *sql.DB) error {
	return createPlansTable(db)
}

func createPlansTable(db *sql.DB) error {
	query := `
	CREATE TABLE IF NOT EXISTS plans (
		date TEXT PRIMARY KEY,
		last_update TEXT NOT NULL,
		document TEXT NOT NULL,
		fetched_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_plans_fetched_at ON plans(fetched_at);
	`

	if _, err := db.ExecContext(context.Background(), query); err != nil {
		return fmt.Errorf("failed to create plans table: %w", err)
	}

	return nil
}
