package telegram

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		text     string
		expected Command
	}{
		{text: "today", expected: CommandToday},
		{text: "/today", expected: CommandToday},
		{text: "TODAY please", expected: CommandToday},
		{text: "/start", expected: CommandToday},
		{text: "Start", expected: CommandToday},
		{text: "this month", expected: CommandThisMonth},
		{text: "/This Month", expected: CommandThisMonth},
		{text: "  this month?", expected: CommandThisMonth},
		{text: "hello", expected: CommandNone},
		{text: "month", expected: CommandNone},
		{text: "what about today", expected: CommandNone},
		{text: "", expected: CommandNone},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseCommand(tt.text))
		})
	}
}

type fakeMessenger struct {
	sent []string
	err  error
}

func (f *fakeMessenger) Send(_ context.Context, chatID, text string) error {
	f.sent = append(f.sent, chatID+": "+text)
	return f.err
}

func newResponder(list []appointments.Appointment) *Responder {
	c := clock.NewFixedClock(time.Date(2024, 6, 10, 7, 0, 0, 0, clock.FixedZone(-3)))
	store := &listStore{list: list}
	return NewResponder(appointments.NewService(store, c), c)
}

type listStore struct {
	list []appointments.Appointment
	err  error
}

func (s *listStore) ListAppointments(context.Context) ([]appointments.Appointment, error) {
	return s.list, s.err
}

func (s *listStore) MarkReminderSent(context.Context, string) error {
	return errors.New("responder must not mutate appointments")
}

func TestResponder_EmptyMonthSendsOnce(t *testing.T) {
	r := newResponder([]appointments.Appointment{
		{ID: "july", When: "2024-07-01T09:00"},
		{ID: "declined", When: "2024-06-12T09:00", Confirmed: new(bool)},
	})
	m := &fakeMessenger{}

	ok, err := r.Respond(context.Background(), m, "1001", "this month")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []string{"1001: " + noAppointmentsThisMonth}, m.sent)
}

func TestResponder_Today(t *testing.T) {
	r := newResponder([]appointments.Appointment{
		{ID: "2", When: "10/06/2024 15:00", ClientName: "Bia", Service: "Manicure"},
		{ID: "1", When: "2024-06-10T09:00", ClientName: "Ana", Service: "Haircut"},
		{ID: "3", When: "2024-06-11T09:00", ClientName: "Carla", Service: "Color"},
	})

	msg, ok, err := r.Reply(context.Background(), "/start")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Today's appointments:\n- 09:00 Ana - Haircut\n- 15:00 Bia - Manicure\n", msg)
}

func TestResponder_IgnoresUnknownText(t *testing.T) {
	r := newResponder(nil)
	m := &fakeMessenger{}

	ok, err := r.Respond(context.Background(), m, "1001", "thanks!")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, m.sent)
}

func TestResponder_Errors(t *testing.T) {
	c := clock.NewFixedClock(time.Date(2024, 6, 10, 7, 0, 0, 0, clock.FixedZone(-3)))
	r := NewResponder(appointments.NewService(&listStore{err: errors.New("down")}, c), c)

	_, err := r.Respond(context.Background(), &fakeMessenger{}, "1001", "today")
	require.Error(t, err)

	r = newResponder(nil)
	ok, err := r.Respond(context.Background(), &fakeMessenger{err: errors.New("blocked")}, "1001", "today")
	assert.True(t, ok)
	require.ErrorContains(t, err, "send reply")
}
