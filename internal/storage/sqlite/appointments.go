package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
)

type AppointmentRepository struct {
	db *DB
}

func NewAppointmentRepository(db *DB) *AppointmentRepository {
	return &AppointmentRepository{db: db}
}

func (r *AppointmentRepository) ListAppointments(ctx context.Context) ([]appointments.Appointment, error) {
	rows, err := r.db.db.QueryContext(ctx, `
		SELECT id, when_raw, confirmed, reminder_sent, client_name, service, category
		FROM appointments
	`)
	if err != nil {
		return nil, fmt.Errorf("query appointments: %w", err)
	}
	defer rows.Close() //nolint:errcheck // ignore

	var res []appointments.Appointment
	for rows.Next() {
		var (
			a         appointments.Appointment
			confirmed sql.NullBool
		)
		if err := rows.Scan(&a.ID, &a.When, &confirmed, &a.ReminderSent, &a.ClientName, &a.Service, &a.Category); err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		if confirmed.Valid {
			v := confirmed.Bool
			a.Confirmed = &v
		}
		res = append(res, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate appointments: %w", err)
	}

	return res, nil
}

func (r *AppointmentRepository) MarkReminderSent(ctx context.Context, id string) error {
	res, err := r.db.db.ExecContext(ctx, `UPDATE appointments SET reminder_sent = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("update appointment %q: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("appointment %q: %w", id, ErrNotFound)
	}

	return nil
}

// SaveAppointment inserts or replaces the stored appointment with the same id.
// It is the write path for the booking application; the notifier never calls it.
func (r *AppointmentRepository) SaveAppointment(ctx context.Context, a appointments.Appointment) error {
	_, err := r.db.db.ExecContext(ctx, `
		INSERT INTO appointments (id, when_raw, confirmed, reminder_sent, client_name, service, category)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			when_raw = excluded.when_raw,
			confirmed = excluded.confirmed,
			reminder_sent = excluded.reminder_sent,
			client_name = excluded.client_name,
			service = excluded.service,
			category = excluded.category
	`, a.ID, a.When, a.Confirmed, a.ReminderSent, a.ClientName, a.Service, a.Category)
	if err != nil {
		return fmt.Errorf("save appointment %q: %w", a.ID, err)
	}
	return nil
}
