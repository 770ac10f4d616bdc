package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

const (
	lead      = 2 * time.Hour
	tolerance = 10 * time.Minute
)

func confirmed(v bool) *bool {
	return &v
}

func ids(list []Scheduled) []string {
	res := make([]string, 0, len(list))
	for _, s := range list {
		res = append(res, s.ID)
	}
	return res
}

func TestReminderEligible(t *testing.T) {
	tests := []struct {
		name     string
		a        Appointment
		expected bool
	}{
		{name: "confirmed", a: Appointment{Confirmed: confirmed(true)}, expected: true},
		{name: "confirmation absent", a: Appointment{}, expected: true},
		{name: "not confirmed", a: Appointment{Confirmed: confirmed(false)}, expected: false},
		{name: "already reminded", a: Appointment{Confirmed: confirmed(true), ReminderSent: true}, expected: false},
		{name: "absent and reminded", a: Appointment{ReminderSent: true}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ReminderEligible(tt.a))
		})
	}
}

func TestDueReminders_WindowBoundaries(t *testing.T) {
	loc := clock.FixedZone(-3)
	now := time.Date(2024, 6, 10, 6, 0, 0, 0, loc)

	tests := []struct {
		name     string
		when     string
		expected bool
	}{
		{name: "exactly now+2h", when: "2024-06-10T08:00", expected: true},
		{name: "lower bound inclusive", when: "2024-06-10T07:50", expected: true},
		{name: "upper bound inclusive", when: "2024-06-10T08:10", expected: true},
		{name: "just past upper bound", when: "2024-06-10T08:10:01", expected: false},
		{name: "just before lower bound", when: "2024-06-10T07:49:59", expected: false},
		{name: "locale format inside", when: "10/06/2024 08:05", expected: true},
		{name: "far future", when: "2024-06-11T08:00", expected: false},
		{name: "past", when: "2024-06-10T05:00", expected: false},
		{name: "unparsable", when: "soon", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			due := DueReminders([]Appointment{{ID: "1", When: tt.when}}, now, lead, tolerance)
			if tt.expected {
				assert.Equal(t, []string{"1"}, ids(due))
			} else {
				assert.Empty(t, due)
			}
		})
	}
}

func TestDueReminders_Eligibility(t *testing.T) {
	now := time.Date(2024, 6, 10, 6, 0, 0, 0, clock.FixedZone(-3))
	list := []Appointment{
		{ID: "confirmed", When: "2024-06-10T08:00", Confirmed: confirmed(true)},
		{ID: "absent", When: "2024-06-10T08:00"},
		{ID: "declined", When: "2024-06-10T08:00", Confirmed: confirmed(false)},
		{ID: "reminded", When: "2024-06-10T08:00", ReminderSent: true},
	}

	due := DueReminders(list, now, lead, tolerance)
	assert.ElementsMatch(t, []string{"confirmed", "absent"}, ids(due))

	// later runs inside the same window never pick the reminded one again
	for _, later := range []time.Duration{time.Minute, 5 * time.Minute, 10 * time.Minute} {
		due = DueReminders(list, now.Add(later), lead, tolerance)
		assert.NotContains(t, ids(due), "reminded")
	}
}

func TestDueReminders_ScenarioFromUTCTrigger(t *testing.T) {
	// the trigger fires at 09:00 UTC, i.e. 06:00 business time
	trigger := time.Date(2024, 6, 10, 9, 0, 0, 0, time.UTC)
	now := trigger.In(clock.FixedZone(-3))

	window := ReminderWindow(now, lead, tolerance)
	assert.Equal(t, "07:50", window.From.Format("15:04"))
	assert.Equal(t, "08:10", window.To.Format("15:04"))

	due := DueReminders([]Appointment{{ID: "1", When: "2024-06-10T08:00", Confirmed: confirmed(true)}}, now, lead, tolerance)
	assert.Equal(t, []string{"1"}, ids(due))
}

func TestOnDay(t *testing.T) {
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, clock.FixedZone(-3))
	list := []Appointment{
		{ID: "late", When: "10/06/2024 18:30"},
		{ID: "early", When: "2024-06-10T08:00"},
		{ID: "midnight", When: "2024-06-10T00:00"},
		{ID: "tomorrow", When: "2024-06-11T00:00"},
		{ID: "yesterday", When: "09/06/2024 23:59"},
		{ID: "declined", When: "2024-06-10T09:00", Confirmed: confirmed(false)},
		{ID: "broken", When: "10/06/2024"},
		// 02:30 UTC on the 11th is still the 10th in business time
		{ID: "utc", When: "2024-06-11T02:30:00Z"},
	}

	assert.Equal(t, []string{"midnight", "early", "late", "utc"}, ids(OnDay(list, now)))
	assert.Empty(t, OnDay(nil, now))
}

func TestInMonth(t *testing.T) {
	now := time.Date(2024, 6, 10, 7, 0, 0, 0, clock.FixedZone(-3))
	list := []Appointment{
		{ID: "end", When: "30/06/2024 17:00"},
		{ID: "start", When: "2024-06-01T09:00"},
		{ID: "mid", When: "2024-06-15T10:00"},
		{ID: "next month", When: "2024-07-01T09:00"},
		{ID: "last year", When: "2023-06-15T10:00"},
		{ID: "declined", When: "2024-06-20T10:00", Confirmed: confirmed(false)},
	}

	assert.Equal(t, []string{"start", "mid", "end"}, ids(InMonth(list, now)))
}
