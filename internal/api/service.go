package api

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	tele "gopkg.in/telebot.v3"

	"github.com/Roma7-7-7/salon-notifier/internal/notifier"
	"github.com/Roma7-7-7/salon-notifier/internal/register"
	"github.com/Roma7-7-7/salon-notifier/internal/telegram"
	"github.com/Roma7-7-7/salon-notifier/pkg/cache"
)

const (
	messengerTTL = 5 * time.Minute

	// WebhookSecretHeader carries the secret_token registered with setWebhook.
	WebhookSecretHeader = "X-Telegram-Bot-Api-Secret-Token"
)

var ErrUnauthorized = errors.New("unauthorized")

type (
	Runner interface {
		Run(ctx context.Context) (notifier.Report, error)
	}

	TriggerResponse struct {
		Status string           `json:"status"`
		Report *notifier.Report `json:"report,omitempty"`
		Error  string           `json:"error,omitempty"`
	}

	// Service implements the trigger and inbound message entry points independently of transport.
	Service struct {
		triggerSecret string
		webhookSecret string

		runner     Runner
		responder  *telegram.Responder
		register   register.Store
		messengers *cache.TTL[telegram.Messenger]

		log *slog.Logger
	}
)

func NewService(triggerSecret, webhookSecret string, runner Runner, responder *telegram.Responder, reg register.Store, connect telegram.Connect, log *slog.Logger) *Service {
	messengers := cache.NewTTL(func(ctx context.Context) (telegram.Messenger, error) {
		snapshot, err := register.Load(ctx, reg)
		if err != nil {
			return nil, err
		}
		if snapshot.Credential == "" {
			return nil, fmt.Errorf("%w: %s", register.ErrConfigurationMissing, register.KeyCredential)
		}
		return connect(snapshot.Credential)
	}, messengerTTL)

	return &Service{
		triggerSecret: triggerSecret,
		webhookSecret: webhookSecret,
		runner:        runner,
		responder:     responder,
		register:      reg,
		messengers:    messengers,
		log:           log,
	}
}

// Authorize checks an Authorization header against the trigger secret.
func (s *Service) Authorize(authorization string) error {
	scheme, token, found := strings.Cut(strings.TrimSpace(authorization), " ")
	if s.triggerSecret == "" || !found || !strings.EqualFold(scheme, "Bearer") {
		return ErrUnauthorized
	}
	if subtle.ConstantTimeCompare([]byte(strings.TrimSpace(token)), []byte(s.triggerSecret)) != 1 {
		return ErrUnauthorized
	}
	return nil
}

// Trigger authorizes and runs the notifier, returning an HTTP status and the response body.
func (s *Service) Trigger(ctx context.Context, authorization string) (int, TriggerResponse) {
	if err := s.Authorize(authorization); err != nil {
		s.log.WarnContext(ctx, "trigger rejected", "error", err)
		return http.StatusUnauthorized, TriggerResponse{Status: "unauthorized"}
	}

	report, err := s.run(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "notifier run failed", "error", err, "run_id", report.RunID)
		return http.StatusInternalServerError, TriggerResponse{Status: "error", Error: "internal error"}
	}

	return http.StatusOK, TriggerResponse{Status: "ok", Report: &report}
}

func (s *Service) run(ctx context.Context) (report notifier.Report, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return s.runner.Run(ctx)
}

// Inbound handles a Telegram update. Failures are logged and never reported to the caller.
func (s *Service) Inbound(ctx context.Context, secret string, update tele.Update) {
	if s.webhookSecret != "" && subtle.ConstantTimeCompare([]byte(secret), []byte(s.webhookSecret)) != 1 {
		s.log.WarnContext(ctx, "webhook secret mismatch", "update_id", update.ID)
		return
	}

	msg := update.Message
	if msg == nil || msg.Chat == nil || msg.Text == "" {
		s.log.DebugContext(ctx, "ignored update", "update_id", update.ID)
		return
	}

	s.Message(ctx, strconv.FormatInt(msg.Chat.ID, 10), msg.Text)
}

// Message answers text sent from chatID. Only registered recipients get an answer.
func (s *Service) Message(ctx context.Context, chatID, text string) {
	defer func() {
		if r := recover(); r != nil {
			s.log.ErrorContext(ctx, "panic recovered", "error", r, "chat_id", chatID)
		}
	}()

	if telegram.ParseCommand(text) == telegram.CommandNone {
		s.log.DebugContext(ctx, "ignored message", "chat_id", chatID)
		return
	}

	allowed, err := register.AllowsChat(ctx, s.register, chatID)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to check chat", "chat_id", chatID, "error", err)
		return
	}
	if !allowed {
		s.log.WarnContext(ctx, "message from unknown chat ignored", "chat_id", chatID)
		return
	}

	messenger, err := s.messengers.Get(ctx)
	if err != nil {
		s.log.ErrorContext(ctx, "failed to get messenger", "error", err)
		return
	}

	if _, err := s.responder.Respond(ctx, messenger, chatID, text); err != nil {
		s.log.ErrorContext(ctx, "failed to respond", "chat_id", chatID, "error", err)
		// the credential may have been rotated
		s.messengers.Invalidate()
		return
	}
	s.log.InfoContext(ctx, "command answered", "chat_id", chatID)
}
