package appointments

import (
	"context"
	"fmt"

	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

// Store is the record store holding appointments.
type Store interface {
	ListAppointments(ctx context.Context) ([]Appointment, error)
	MarkReminderSent(ctx context.Context, id string) error
}

type Service struct {
	store Store
	clock clock.Interface
}

func NewService(store Store, clock clock.Interface) *Service {
	return &Service{
		store: store,
		clock: clock,
	}
}

func (s *Service) All(ctx context.Context) ([]Appointment, error) {
	res, err := s.store.ListAppointments(ctx)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return res, nil
}

func (s *Service) Today(ctx context.Context) ([]Scheduled, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return OnDay(all, s.clock.Now()), nil
}

func (s *Service) ThisMonth(ctx context.Context) ([]Scheduled, error) {
	all, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	return InMonth(all, s.clock.Now()), nil
}

func (s *Service) MarkReminderSent(ctx context.Context, id string) error {
	if err := s.store.MarkReminderSent(ctx, id); err != nil {
		return fmt.Errorf("mark reminder sent %q: %w", id, err)
	}
	return nil
}
