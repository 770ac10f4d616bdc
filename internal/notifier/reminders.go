package notifier

import (
	"context"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
	"github.com/Roma7-7-7/salon-notifier/internal/telegram"
)

// reminders notifies about appointments entering the look-ahead window.
// Each appointment is marked right after its first successful delivery; undelivered ones stay
// eligible for the next run for as long as they remain inside the window.
func (r *run) reminders(ctx context.Context, list []appointments.Appointment) {
	due := appointments.DueReminders(list, r.now, r.settings.Lead, r.settings.Tolerance)
	r.report.RemindersMatched = len(due)

	for _, s := range due {
		msg, err := telegram.RenderReminder(s)
		if err != nil {
			r.log.ErrorContext(ctx, "failed to render reminder", "appointment_id", s.ID, "error", err)
			continue
		}

		if r.broadcast(ctx, msg, failureReminder, "appointment_id", s.ID) == 0 {
			r.log.WarnContext(ctx, "reminder not delivered", "appointment_id", s.ID)
			continue
		}

		if err := r.appointments.MarkReminderSent(ctx, s.ID); err != nil {
			r.metrics.failure(failurePersist)
			r.log.ErrorContext(ctx, "failed to mark reminder sent", "appointment_id", s.ID, "error", err)
			continue
		}

		r.report.RemindersSent++
		r.metrics.reminderSent()
		r.log.InfoContext(ctx, "reminder sent", "appointment_id", s.ID, "at", s.At.Format("2006-01-02 15:04"))
	}
}
