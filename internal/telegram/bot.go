package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/Roma7-7-7/salon-notifier/internal/register"
)

const (
	defaultTimeout  = 10 * time.Second
	defaultErrorMsg = "Something went wrong. Please try again later."
)

// Bot long-polls the Bot API and answers agenda commands in the chat they came from.
// Only chats listed as recipients in the register are answered.
type Bot struct {
	bot       *tele.Bot
	responder *Responder
	register  register.Store
	log       *slog.Logger
}

func NewBot(token string, responder *Responder, reg register.Store, log *slog.Logger) (*Bot, error) {
	pref := tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: defaultTimeout},
	}

	b, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("create bot: %w", err)
	}

	bot := &Bot{
		bot:       b,
		responder: responder,
		register:  reg,
		log:       log,
	}

	bot.registerHandlers()

	return bot, nil
}

func (b *Bot) Start(ctx context.Context) error {
	go func() {
		<-ctx.Done()
		b.log.InfoContext(ctx, "stopping bot")
		b.bot.Stop()
	}()

	b.log.InfoContext(ctx, "bot started")
	b.bot.Start()

	return nil
}

func (b *Bot) registerHandlers() {
	b.bot.Use(b.recover, b.handleError, b.chatIDMiddleware)
	b.bot.Handle(tele.OnText, b.handleText)
}

func (b *Bot) handleText(c tele.Context) error {
	ctx, cancel := b.context()
	defer cancel()

	msg, ok, err := b.responder.Reply(ctx, c.Text())
	if err != nil {
		return err
	}
	if !ok {
		b.log.DebugContext(ctx, "ignored message", "chat_id", c.Chat().ID)
		return nil
	}

	return c.Send(msg)
}

func (b *Bot) context() (context.Context, func()) {
	return context.WithTimeout(context.Background(), defaultTimeout)
}

func (b *Bot) recover(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		defer func() {
			if r := recover(); r != nil {
				b.log.Error("panic recovered", "error", r)
			}
		}()

		return next(c)
	}
}

func (b *Bot) chatIDMiddleware(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		if c.Chat() == nil {
			return nil
		}

		ctx, cancel := b.context()
		defer cancel()

		chatID := strconv.FormatInt(c.Chat().ID, 10)
		allowed, err := register.AllowsChat(ctx, b.register, chatID)
		if err != nil {
			b.log.ErrorContext(ctx, "failed to check chat", "chat_id", chatID, "error", err)
			return nil
		}
		if !allowed {
			b.log.WarnContext(ctx, "unauthorized chat access blocked", "chat_id", chatID)
			return nil
		}
		return next(c)
	}
}

func (b *Bot) handleError(next tele.HandlerFunc) tele.HandlerFunc {
	return func(c tele.Context) error {
		err := next(c)
		if err != nil {
			args := []any{
				"chat_id", c.Chat().ID,
				"error", err.Error(),
			}
			if strings.HasPrefix(c.Text(), "/") {
				args = append(args, "command", strings.Split(c.Text(), " ")[0])
			}
			b.log.Error("error occurred", args...)
			return c.Send(defaultErrorMsg)
		}
		return err
	}
}
