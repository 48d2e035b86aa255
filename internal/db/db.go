package db

import (
	"fmt"
	"log/slog"

	_ "github.com/glebarez/go-sqlite"
	"github.com/jmoiron/sqlx"
)

// Connect opens the SQLite database at path. ":memory:" gives a private in-memory database.
func Connect(path string) (*sqlx.DB, error) {
	pool, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	if path == ":memory:" {
		// Every new connection would get its own empty in-memory database.
		pool.SetMaxOpenConns(1)
	}
	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	slog.Info("Connected to sqlite database", "path", path)
	return pool, nil
}

// InitializeDB creates the schema if it doesn't exist.
func InitializeDB(DB *sqlx.DB) error {
	if _, err := DB.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	userSchema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT NOT NULL UNIQUE,
		player_id TEXT NOT NULL UNIQUE,
		password_hash TEXT NOT NULL
	);`
	if _, err := DB.Exec(userSchema); err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	kvSchema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);`
	if _, err := DB.Exec(kvSchema); err != nil {
		return fmt.Errorf("failed to create kv table: %w", err)
	}

	slog.Info("DB schema verified.")

	return nil
}
