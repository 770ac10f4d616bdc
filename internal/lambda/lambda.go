package lambda

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/aws/aws-lambda-go/events"
	tele "gopkg.in/telebot.v3"

	"github.com/Roma7-7-7/salon-notifier/internal/api"
)

// Handler serves the trigger and webhook routes behind an API Gateway HTTP API.
type Handler struct {
	svc *api.Service
	log *slog.Logger
}

func NewHandler(svc *api.Service, log *slog.Logger) *Handler {
	return &Handler{
		svc: svc,
		log: log,
	}
}

func (h *Handler) HandleRequest(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	path := strings.TrimSuffix(req.RawPath, "/")
	h.log.DebugContext(ctx, "lambda request", "method", req.RequestContext.HTTP.Method, "path", path)

	switch {
	case strings.HasSuffix(path, "/trigger"):
		status, resp := h.svc.Trigger(ctx, header(req.Headers, "Authorization"))
		return jsonResponse(status, resp), nil
	case strings.HasSuffix(path, "/webhook"):
		h.webhook(ctx, req)
		return jsonResponse(http.StatusOK, map[string]bool{"ok": true}), nil
	default:
		return jsonResponse(http.StatusNotFound, map[string]string{"status": "not found"}), nil
	}
}

func (h *Handler) webhook(ctx context.Context, req events.APIGatewayV2HTTPRequest) {
	body := []byte(req.Body)
	if req.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(req.Body)
		if err != nil {
			h.log.WarnContext(ctx, "invalid webhook body encoding", "error", err)
			return
		}
		body = decoded
	}

	var update tele.Update
	if err := json.Unmarshal(body, &update); err != nil {
		h.log.WarnContext(ctx, "invalid webhook payload", "error", err)
		return
	}

	h.svc.Inbound(ctx, header(req.Headers, api.WebhookSecretHeader), update)
}

// header looks a header up ignoring case; API Gateway lowercases names for HTTP APIs.
func header(headers map[string]string, name string) string {
	if v, ok := headers[strings.ToLower(name)]; ok {
		return v
	}
	for k, v := range headers {
		if strings.EqualFold(k, name) {
			return v
		}
	}
	return ""
}

func jsonResponse(status int, body any) events.APIGatewayV2HTTPResponse {
	payload, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		payload = []byte(`{"status":"error"}`)
	}
	return events.APIGatewayV2HTTPResponse{
		StatusCode: status,
		Headers:    map[string]string{"Content-Type": "application/json"},
		Body:       string(payload),
	}
}
