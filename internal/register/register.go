// Package register is the notifier's persistent key/value state: the bot credential,
// the daily summary marker and the chat recipients all live as {id, name, value} entries.
package register

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// Key names an entry with a reserved meaning. Entries under any other name are recipients.
type Key string

const (
	KeyCredential    Key = "telegram_token"
	KeySummaryMarker Key = "last_summary_date"
)

var reserved = map[Key]bool{
	KeyCredential:    true,
	KeySummaryMarker: true,
}

var ErrConfigurationMissing = errors.New("configuration missing")

type (
	Entry struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Value string `json:"value"`
	}

	Store interface {
		Entries(ctx context.Context) ([]Entry, error)
		Upsert(ctx context.Context, name, value string) error
	}

	Recipient struct {
		Name   string
		ChatID string
	}

	Snapshot struct {
		Credential    string
		SummaryMarker string
		Recipients    []Recipient
	}
)

func IsReserved(name string) bool {
	return reserved[Key(strings.TrimSpace(name))]
}

// FromEntries classifies raw entries. The first non-empty value of a reserved key wins.
func FromEntries(entries []Entry) Snapshot {
	var s Snapshot
	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		value := strings.TrimSpace(e.Value)
		switch Key(name) {
		case KeyCredential:
			if s.Credential == "" {
				s.Credential = value
			}
		case KeySummaryMarker:
			if s.SummaryMarker == "" {
				s.SummaryMarker = value
			}
		default:
			if value == "" {
				continue
			}
			s.Recipients = append(s.Recipients, Recipient{Name: name, ChatID: value})
		}
	}
	return s
}

// Validate reports ErrConfigurationMissing when a run would have nobody to talk to or no way to talk.
func (s Snapshot) Validate() error {
	var missing []string
	if s.Credential == "" {
		missing = append(missing, string(KeyCredential))
	}
	if len(s.Recipients) == 0 {
		missing = append(missing, "recipients")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrConfigurationMissing, strings.Join(missing, ", "))
	}
	return nil
}

// IsRecipient reports whether chatID belongs to a registered recipient.
func (s Snapshot) IsRecipient(chatID string) bool {
	chatID = strings.TrimSpace(chatID)
	if chatID == "" {
		return false
	}
	for _, r := range s.Recipients {
		if r.ChatID == chatID {
			return true
		}
	}
	return false
}

// AllowsChat loads the register and reports whether chatID may use agenda commands.
func AllowsChat(ctx context.Context, store Store, chatID string) (bool, error) {
	snapshot, err := Load(ctx, store)
	if err != nil {
		return false, err
	}
	return snapshot.IsRecipient(chatID), nil
}

func Load(ctx context.Context, store Store) (Snapshot, error) {
	entries, err := store.Entries(ctx)
	if err != nil {
		return Snapshot{}, fmt.Errorf("list register entries: %w", err)
	}
	return FromEntries(entries), nil
}

func SetSummaryMarker(ctx context.Context, store Store, date string) error {
	if err := store.Upsert(ctx, string(KeySummaryMarker), date); err != nil {
		return fmt.Errorf("upsert %s: %w", KeySummaryMarker, err)
	}
	return nil
}
