package telegram

import (
	"context"
	"fmt"
	"strings"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
	"github.com/Roma7-7-7/salon-notifier/pkg/clock"
)

type Command int

const (
	CommandNone Command = iota
	CommandToday
	CommandThisMonth
)

var commandPrefixes = []struct {
	prefix  string
	command Command
}{
	{prefix: "this month", command: CommandThisMonth},
	{prefix: "today", command: CommandToday},
	{prefix: "start", command: CommandToday},
}

// ParseCommand recognizes a command token at the start of text, ignoring case and a leading slash.
func ParseCommand(text string) Command {
	text = strings.ToLower(strings.TrimSpace(text))
	text = strings.TrimPrefix(text, "/")
	for _, p := range commandPrefixes {
		if strings.HasPrefix(text, p.prefix) {
			return p.command
		}
	}
	return CommandNone
}

type (
	AgendaService interface {
		Today(ctx context.Context) ([]appointments.Scheduled, error)
		ThisMonth(ctx context.Context) ([]appointments.Scheduled, error)
	}

	Messenger interface {
		Send(ctx context.Context, chatID, text string) error
	}

	// Responder answers agenda commands. It never changes appointment state.
	Responder struct {
		agenda AgendaService
		clock  clock.Interface
	}
)

func NewResponder(agenda AgendaService, clock clock.Interface) *Responder {
	return &Responder{
		agenda: agenda,
		clock:  clock,
	}
}

// Reply renders the answer to text. ok is false when text is not a command.
func (r *Responder) Reply(ctx context.Context, text string) (string, bool, error) {
	switch ParseCommand(text) {
	case CommandToday:
		items, err := r.agenda.Today(ctx)
		if err != nil {
			return "", true, fmt.Errorf("get today appointments: %w", err)
		}
		msg, err := RenderToday(items)
		return msg, true, err
	case CommandThisMonth:
		items, err := r.agenda.ThisMonth(ctx)
		if err != nil {
			return "", true, fmt.Errorf("get month appointments: %w", err)
		}
		msg, err := RenderMonth(r.clock.Now(), items)
		return msg, true, err
	default:
		return "", false, nil
	}
}

// Respond replies to chatID through messenger. Non-command text is ignored.
func (r *Responder) Respond(ctx context.Context, messenger Messenger, chatID, text string) (bool, error) {
	msg, ok, err := r.Reply(ctx, text)
	if !ok || err != nil {
		return ok, err
	}
	if err := messenger.Send(ctx, chatID, msg); err != nil {
		return true, fmt.Errorf("send reply: %w", err)
	}
	return true, nil
}
