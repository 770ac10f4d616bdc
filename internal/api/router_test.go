package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Roma7-7-7/salon-notifier/internal/appointments"
	"github.com/Roma7-7-7/salon-notifier/internal/notifier"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(f *fixture) (*gin.Engine, *notifier.Metrics) {
	reg := prometheus.NewRegistry()
	metrics := notifier.MustNewMetrics(reg)
	return NewRouter(f.svc, reg, slog.New(slog.DiscardHandler)), metrics
}

func TestRouter_Trigger(t *testing.T) {
	f := newFixture("")
	r, _ := newTestRouter(f)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(method, "/trigger", nil)
		req.Header.Set("Authorization", "Bearer s3cr3t")
		r.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code)
		var resp TriggerResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "ok", resp.Status)
		require.NotNil(t, resp.Report)
		assert.Equal(t, "run-1", resp.Report.RunID)
	}

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/trigger", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, 2, f.runner.calls)
}

func TestRouter_Webhook(t *testing.T) {
	f := newFixture("", appointments.Appointment{ID: "1", When: "2024-06-10T09:00", ClientName: "Ana", Service: "Haircut"})
	r, _ := newTestRouter(f)

	bodies := []string{
		`{"update_id":1,"message":{"message_id":5,"date":1718000000,"chat":{"id":1001,"type":"private"},"text":"/today"}}`,
		`{"update_id":2,"edited_message":{"message_id":5,"chat":{"id":1001}}}`,
		`not json`,
	}
	for _, body := range bodies {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(body)))
		assert.Equal(t, http.StatusOK, w.Code, body)
		assert.JSONEq(t, `{"ok":true}`, w.Body.String())
	}

	assert.Len(t, f.messenger.sent["1001"], 1)
}

func TestRouter_HealthAndMetrics(t *testing.T) {
	r, _ := newTestRouter(newFixture(""))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "salon_notifier_reminders_sent_total")
}
