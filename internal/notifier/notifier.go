package notifier

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
	"github.com/Roma7-7-7/salon-notifier/internal/register"
	"github.com/Roma7-7-7/salon-notifier/internal/telegram"
	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

// MarkerLayout is the format of the daily summary marker.
const MarkerLayout = "2006-01-02"

type (
	AppointmentService interface {
		All(ctx context.Context) ([]appointments.Appointment, error)
		MarkReminderSent(ctx context.Context, id string) error
	}

	Settings struct {
		// SummaryHour is the business-local hour during which the daily summary goes out.
		SummaryHour int
		Lead        time.Duration
		Tolerance   time.Duration
		// SummaryRequiresDelivery keeps the summary pending until at least one recipient got it.
		SummaryRequiresDelivery bool
	}

	// Report is the outcome of a single run returned to the trigger caller.
	Report struct {
		RunID               string `json:"run_id"`
		Skipped             string `json:"skipped,omitempty"`
		SummarySent         bool   `json:"summary_sent"`
		SummaryAppointments int    `json:"summary_appointments"`
		SummaryDeliveries   int    `json:"summary_deliveries"`
		RemindersMatched    int    `json:"reminders_matched"`
		RemindersSent       int    `json:"reminders_sent"`
		DeliveryFailures    int    `json:"delivery_failures"`
	}

	Notifier struct {
		appointments AppointmentService
		register     register.Store
		connect      telegram.Connect
		clock        clock.Interface
		settings     Settings
		metrics      *Metrics

		log *slog.Logger
	}
)

func DefaultSettings() Settings {
	return Settings{
		SummaryHour: 7,                //nolint:mnd // 7am
		Lead:        2 * time.Hour,    //nolint:mnd // remind two hours ahead
		Tolerance:   10 * time.Minute, //nolint:mnd // trigger runs every few minutes
	}
}

// New creates a Notifier. clock must report time in the business zone.
func New(svc AppointmentService, reg register.Store, connect telegram.Connect, clock clock.Interface, settings Settings, metrics *Metrics, log *slog.Logger) *Notifier {
	return &Notifier{
		appointments: svc,
		register:     reg,
		connect:      connect,
		clock:        clock,
		settings:     settings,
		metrics:      metrics,
		log:          log,
	}
}

// Run performs one scheduler pass: the daily summary when due, then reminders.
// Missing configuration ends the run early without side effects and without an error.
func (n *Notifier) Run(ctx context.Context) (Report, error) {
	report := Report{RunID: uuid.NewString()}
	now := n.clock.Now()
	log := n.log.With("run_id", report.RunID)

	log.InfoContext(ctx, "run notifier", "now", now.Format(time.RFC3339))

	state, err := register.Load(ctx, n.register)
	if err != nil {
		n.metrics.run("error")
		return report, fmt.Errorf("load register: %w", err)
	}
	if err := state.Validate(); err != nil {
		log.WarnContext(ctx, "skip run", "error", err)
		report.Skipped = err.Error()
		n.metrics.run("skipped")
		return report, nil
	}

	messenger, err := n.connect(state.Credential)
	if err != nil {
		n.metrics.run("error")
		return report, fmt.Errorf("connect messenger: %w", err)
	}

	list, err := n.appointments.All(ctx)
	if err != nil {
		n.metrics.run("error")
		return report, err
	}

	r := &run{
		Notifier:  n,
		now:       now,
		state:     state,
		messenger: messenger,
		report:    &report,
		log:       log,
	}
	r.summary(ctx, list)
	r.reminders(ctx, list)

	n.metrics.run("ok")
	log.InfoContext(ctx, "run finished",
		"summary_sent", report.SummarySent,
		"reminders_matched", report.RemindersMatched,
		"reminders_sent", report.RemindersSent,
		"delivery_failures", report.DeliveryFailures)

	return report, nil
}

type run struct {
	*Notifier

	now       time.Time
	state     register.Snapshot
	messenger telegram.Messenger
	report    *Report
	log       *slog.Logger
}

// broadcast sends text to every recipient and returns how many deliveries succeeded.
func (r *run) broadcast(ctx context.Context, text, kind string, attrs ...any) int {
	delivered := 0
	for _, rcpt := range r.state.Recipients {
		if err := r.messenger.Send(ctx, rcpt.ChatID, text); err != nil {
			r.report.DeliveryFailures++
			r.metrics.failure(kind)
			args := append([]any{"recipient", rcpt.Name, "chat_id", rcpt.ChatID, "error", err}, attrs...)
			r.log.WarnContext(ctx, "failed to deliver "+kind, args...)
			continue
		}
		delivered++
	}
	return delivered
}
