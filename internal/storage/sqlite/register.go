package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/Roma7-7-7/salon-notifier/internal/register"
)

type RegisterRepository struct {
	db *DB
}

func NewRegisterRepository(db *DB) *RegisterRepository {
	return &RegisterRepository{db: db}
}

func (r *RegisterRepository) Entries(ctx context.Context) ([]register.Entry, error) {
	rows, err := r.db.db.QueryContext(ctx, `SELECT id, name, value FROM register ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("query register: %w", err)
	}
	defer rows.Close() //nolint:errcheck // ignore

	var res []register.Entry
	for rows.Next() {
		var e register.Entry
		if err := rows.Scan(&e.ID, &e.Name, &e.Value); err != nil {
			return nil, fmt.Errorf("scan register entry: %w", err)
		}
		res = append(res, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate register: %w", err)
	}

	return res, nil
}

// Upsert creates the entry on first write and updates its value in place afterwards.
func (r *RegisterRepository) Upsert(ctx context.Context, name, value string) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO register (id, name, value) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`, uuid.NewString(), name, value)
	if err != nil {
		return fmt.Errorf("upsert register entry %q: %w", name, err)
	}
	return nil
}
