package notifier

import (
	"context"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
	"github.com/Roma7-7-7/salon-notifier/internal/register"
	"github.com/Roma7-7-7/salon-notifier/internal/telegram"
)

// summary sends today's digest once per business day during the configured hour.
// The marker written last is what keeps later runs on the same day idle.
func (r *run) summary(ctx context.Context, list []appointments.Appointment) {
	if r.now.Hour() != r.settings.SummaryHour {
		return
	}

	today := r.now.Format(MarkerLayout)
	if r.state.SummaryMarker == today {
		r.log.DebugContext(ctx, "summary already sent", "date", today)
		return
	}

	items := appointments.OnDay(list, r.now)
	msg, err := telegram.RenderDigest(r.now, items)
	if err != nil {
		r.log.ErrorContext(ctx, "failed to render summary", "error", err)
		return
	}

	r.report.SummaryAppointments = len(items)
	r.report.SummaryDeliveries = r.broadcast(ctx, msg, failureSummary, "date", today)

	if r.report.SummaryDeliveries == 0 && r.settings.SummaryRequiresDelivery {
		r.log.WarnContext(ctx, "summary not delivered, keeping it pending", "date", today)
		return
	}

	if err := register.SetSummaryMarker(ctx, r.register, today); err != nil {
		r.metrics.failure(failurePersist)
		r.log.ErrorContext(ctx, "failed to persist summary marker, digest will be sent again on the next run this hour",
			"date", today, "deliveries", r.report.SummaryDeliveries, "error", err)
		return
	}

	r.report.SummarySent = true
	r.metrics.summarySent()
	r.log.InfoContext(ctx, "summary sent", "date", today, "appointments", len(items), "deliveries", r.report.SummaryDeliveries)
}
