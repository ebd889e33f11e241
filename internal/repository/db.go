package repository

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens (or creates) a SQLite database at the given path and ensures
// all required tables exist. Pass ":memory:" for an in-memory database.
func InitDB(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set wal mode: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	if err := createTables(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}

	return db, nil
}

func createTables(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS transactions (
			id TEXT PRIMARY KEY,
			merchant_id TEXT NOT NULL,
			client_reference TEXT NOT NULL,
			channel TEXT NOT NULL,
			risk_level TEXT NOT NULL,
			amount REAL NOT NULL,
			currency TEXT NOT NULL,
			processor_id TEXT,
			state TEXT NOT NULL,
			failure_reason TEXT,
			created_at DATETIME NOT NULL,
			settled_at DATETIME
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_state ON transactions(state)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_merchant ON transactions(merchant_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_created_at ON transactions(created_at)`,

		`CREATE TABLE IF NOT EXISTS conflicts (
			id TEXT PRIMARY KEY,
			transaction_id TEXT NOT NULL,
			merchant_id TEXT NOT NULL,
			currency TEXT NOT NULL,
			amount REAL NOT NULL,
			reason TEXT NOT NULL,
			suggested_ids TEXT NOT NULL,
			state TEXT NOT NULL,
			resolution_note TEXT,
			created_at DATETIME NOT NULL,
			resolved_at DATETIME,
			FOREIGN KEY (transaction_id) REFERENCES transactions(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_conflicts_state ON conflicts(state)`,
		`CREATE INDEX IF NOT EXISTS idx_conflicts_created_at ON conflicts(created_at)`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec %q: %w", stmt[:40], err)
		}
	}

	return nil
}
