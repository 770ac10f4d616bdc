package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	tele "gopkg.in/telebot.v3"
)

const defaultAPIURL = "https://api.telegram.org"

type SenderOption func(*tele.Settings)

// WithAPIURL points the sender to a different Bot API host.
func WithAPIURL(url string) SenderOption {
	return func(s *tele.Settings) {
		s.URL = url
	}
}

func WithHTTPClient(client *http.Client) SenderOption {
	return func(s *tele.Settings) {
		s.Client = client
	}
}

// Connect builds a Messenger for a bot token.
type Connect func(token string) (Messenger, error)

// Connector returns a Connect producing Senders with the given options.
func Connector(log *slog.Logger, opts ...SenderOption) Connect {
	return func(token string) (Messenger, error) {
		return NewSender(token, log, opts...)
	}
}

// Sender delivers plain text messages through the Bot API using a single bot token.
type Sender struct {
	bot *tele.Bot
	log *slog.Logger
}

func NewSender(token string, log *slog.Logger, opts ...SenderOption) (*Sender, error) {
	settings := tele.Settings{
		URL:     defaultAPIURL,
		Token:   token,
		Offline: true,
		Client:  &http.Client{Timeout: 10 * time.Second}, //nolint:mnd // reasonable timeout
	}
	for _, o := range opts {
		o(&settings)
	}

	b, err := tele.NewBot(settings)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	return &Sender{bot: b, log: log}, nil
}

func (s *Sender) Send(ctx context.Context, chatID, text string) error {
	id, err := strconv.ParseInt(chatID, 10, 64)
	if err != nil {
		return fmt.Errorf("parse chat id %q: %w", chatID, err)
	}

	s.log.DebugContext(ctx, "send message", "chat_id", id)
	if _, err := s.bot.Send(&tele.Chat{ID: id}, text); err != nil {
		return fmt.Errorf("send message to %d: %w", id, err)
	}
	return nil
}
