package appointments

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

type memoryStore struct {
	list    []Appointment
	listErr error
	marked  []string
}

func (m *memoryStore) ListAppointments(context.Context) ([]Appointment, error) {
	return m.list, m.listErr
}

func (m *memoryStore) MarkReminderSent(_ context.Context, id string) error {
	m.marked = append(m.marked, id)
	return nil
}

func TestService(t *testing.T) {
	store := &memoryStore{list: []Appointment{
		{ID: "today", When: "2024-06-10T15:00"},
		{ID: "month", When: "2024-06-20T15:00"},
	}}
	c := clock.NewFixedClock(time.Date(2024, 6, 10, 7, 0, 0, 0, clock.FixedZone(-3)))
	svc := NewService(store, c)

	today, err := svc.Today(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"today"}, ids(today))

	month, err := svc.ThisMonth(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"today", "month"}, ids(month))

	require.NoError(t, svc.MarkReminderSent(context.Background(), "today"))
	assert.Equal(t, []string{"today"}, store.marked)
}

func TestService_StoreError(t *testing.T) {
	store := &memoryStore{listErr: errors.New("unavailable")}
	svc := NewService(store, clock.NewClock())

	_, err := svc.Today(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "list appointments")
}
