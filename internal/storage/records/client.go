// Package records is a client for the hosted record store that the booking app writes to.
package records

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
	"github.com/Roma7-7-7/salon-notifier/internal/register"
)

var ErrUnexpectedStatus = errors.New("unexpected status code")

type (
	HTTPClient interface {
		Do(req *http.Request) (*http.Response, error)
	}

	Client struct {
		baseURL      string
		token        string
		httpClient   HTTPClient
		retriesCount int
		retriesDelay time.Duration
		log          *slog.Logger
	}

	patchAppointmentRequest struct {
		ReminderSent bool `json:"reminderSent"`
	}

	configEntryRequest struct {
		Name  string `json:"name,omitempty"`
		Value string `json:"value"`
	}
)

func NewClient(baseURL, token string, httpClient HTTPClient, retriesCount int, retriesDelay time.Duration, log *slog.Logger) *Client {
	return &Client{
		baseURL:      strings.TrimSuffix(baseURL, "/"),
		token:        token,
		httpClient:   httpClient,
		retriesCount: max(retriesCount, 1),
		retriesDelay: retriesDelay,
		log:          log,
	}
}

func (c *Client) ListAppointments(ctx context.Context) ([]appointments.Appointment, error) {
	res := make([]appointments.Appointment, 0, 100) //nolint:mnd // typical month of bookings
	if err := c.do(ctx, http.MethodGet, "/appointments", nil, &res); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return res, nil
}

func (c *Client) MarkReminderSent(ctx context.Context, id string) error {
	if err := c.do(ctx, http.MethodPatch, "/appointments/"+url.PathEscape(id), patchAppointmentRequest{ReminderSent: true}, nil); err != nil {
		return fmt.Errorf("patch appointment %q: %w", id, err)
	}
	return nil
}

func (c *Client) Entries(ctx context.Context) ([]register.Entry, error) {
	var res []register.Entry
	if err := c.do(ctx, http.MethodGet, "/config", nil, &res); err != nil {
		return nil, fmt.Errorf("list config entries: %w", err)
	}
	return res, nil
}

// Upsert updates the entry named name in place, or creates it when there is none.
func (c *Client) Upsert(ctx context.Context, name, value string) error {
	entries, err := c.Entries(ctx)
	if err != nil {
		return err
	}

	for _, e := range entries {
		if e.Name != name {
			continue
		}
		if err := c.do(ctx, http.MethodPatch, "/config/"+url.PathEscape(e.ID), configEntryRequest{Value: value}, nil); err != nil {
			return fmt.Errorf("patch config entry %q: %w", name, err)
		}
		return nil
	}

	if err := c.do(ctx, http.MethodPost, "/config", configEntryRequest{Name: name, Value: value}, nil); err != nil {
		return fmt.Errorf("create config entry %q: %w", name, err)
	}
	return nil
}

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var payload []byte
	if body != nil {
		var err error
		if payload, err = json.Marshal(body); err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
	}

	c.log.DebugContext(ctx, "sending request", "method", method, "path", path)

	resp, err := c.doWithRetry(ctx, func() (*http.Request, error) {
		var reader io.Reader
		if payload != nil {
			reader = bytes.NewReader(payload)
		}
		req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
		if err != nil {
			return nil, fmt.Errorf("create request: %w", err)
		}
		req.Header.Set("Authorization", "Bearer "+c.token)
		req.Header.Set("Accept", "application/json")
		if payload != nil {
			req.Header.Set("Content-Type", "application/json")
		}
		return req, nil
	})
	if err != nil {
		return err
	}
	defer resp.Body.Close() //nolint:errcheck // ignore

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.WarnContext(ctx, "unexpected status code", "status_code", resp.StatusCode, "method", method, "path", path)

		buf := make([]byte, 1024) //nolint:mnd // enough to see the error
		n, _ := resp.Body.Read(buf)
		c.log.DebugContext(ctx, "response payload", "payload", string(buf[:n]))

		return fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func (c *Client) doWithRetry(ctx context.Context, newRequest func() (*http.Request, error)) (*http.Response, error) {
	var err error

	for i := 0; i < c.retriesCount; i++ {
		var req *http.Request
		if req, err = newRequest(); err != nil {
			return nil, err
		}

		var resp *http.Response
		resp, err = c.httpClient.Do(req)
		if err == nil {
			return resp, nil
		}

		c.log.WarnContext(ctx, "request failed", "retry", i+1, "error", err)
		if i == c.retriesCount-1 {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(c.retriesDelay):
		}
	}

	return nil, fmt.Errorf("do request with %d retries: %w", c.retriesCount, err)
}
