package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite connection pool
type DB struct {
	*sql.DB
	logger *slog.Logger
	closed bool
}

// Open opens (creating if necessary) the SQLite database at path
func Open(path string, logger *slog.Logger) (*DB, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite handles one writer at a time; a second connection would only
	// contend for the file lock
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := sqlDB.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}

	logger.Debug("Database opened", "path", path)

	return &DB{DB: sqlDB, logger: logger}, nil
}

// Close releases the underlying connection. Safe to call multiple times.
func (db *DB) Close() error {
	if db.closed {
		return nil
	}
	db.closed = true

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.logger.Debug("Database connection closed")
	return nil
}
