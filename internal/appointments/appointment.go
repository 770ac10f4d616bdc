package appointments

import (
	"time"
)

type (
	// Appointment is a booking as kept by the record store.
	// When holds either an ISO date-time or a "dd/MM/yyyy HH:mm" string; use ParseWhen to read it.
	Appointment struct {
		ID           string `json:"id"`
		When         string `json:"when"`
		Confirmed    *bool  `json:"confirmed,omitempty"`
		ReminderSent bool   `json:"reminderSent"`
		ClientName   string `json:"clientName"`
		Service      string `json:"service"`
		Category     string `json:"category"`
	}

	// Scheduled is an appointment together with its normalized instant.
	Scheduled struct {
		Appointment
		At time.Time
	}
)

// ReminderEligible reports whether the appointment may still be notified about.
// A missing confirmation counts as confirmed.
func ReminderEligible(a Appointment) bool {
	if a.Confirmed != nil && !*a.Confirmed {
		return false
	}
	return !a.ReminderSent
}

// Schedule normalizes the appointment instant in ref's location.
func (a Appointment) Schedule(ref time.Time) (Scheduled, bool) {
	at, ok := ParseWhen(a.When, ref)
	if !ok {
		return Scheduled{}, false
	}
	return Scheduled{Appointment: a, At: at}, true
}
