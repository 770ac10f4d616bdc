// Package sqlite stores appointments and the notifier register in a local SQLite file.
// It backs self-hosted deployments where no external record store is available.
//
// The notifier only reads appointments and flips reminder_sent. Bookings are written by the
// booking application sharing the file, through AppointmentRepository.SaveAppointment or the
// appointments table directly.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

var ErrNotFound = errors.New("record not found")

const schema = `
CREATE TABLE IF NOT EXISTS appointments (
	id            TEXT PRIMARY KEY,
	when_raw      TEXT NOT NULL,
	confirmed     INTEGER NULL,
	reminder_sent INTEGER NOT NULL DEFAULT 0,
	client_name   TEXT NOT NULL DEFAULT '',
	service       TEXT NOT NULL DEFAULT '',
	category      TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS register (
	id    TEXT PRIMARY KEY,
	name  TEXT NOT NULL UNIQUE,
	value TEXT NOT NULL DEFAULT ''
);
`

type DB struct {
	db *sql.DB
}

// Open opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	// a single connection keeps ":memory:" databases alive and serializes writers
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, "PRAGMA busy_timeout = 5000"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{db: db}, nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Close() error {
	return d.db.Close()
}
