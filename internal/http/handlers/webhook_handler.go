package handlers

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/events"
	"github.com/precise-ai/backend/internal/http/dto"
)

const webhookLogPreview = 512

var webhookSource = regexp.MustCompile(`^[a-z0-9_-]{1,32}$`)

type WebhookHandler struct {
	publisher events.Publisher
	log       *zap.Logger
}

func NewWebhookHandler(publisher events.Publisher, log *zap.Logger) *WebhookHandler {
	return &WebhookHandler{publisher: publisher, log: log}
}

// payloadPreview cuts the body to webhookLogPreview bytes and replaces invalid UTF-8.
func payloadPreview(body []byte) string {
	cut := len(body) > webhookLogPreview
	if cut {
		body = body[:webhookLogPreview]
	}
	preview := strings.ToValidUTF8(string(body), "\uFFFD")
	if cut {
		preview += "..."
	}
	return preview
}

// Receive acknowledges any payload. Nothing is persisted; the call is logged and announced.
func (h *WebhookHandler) Receive(c *fiber.Ctx) error {
	source := strings.ToLower(c.Params("source"))
	if !webhookSource.MatchString(source) {
		return badRequest(c, "invalid webhook source")
	}

	body := c.Body()
	contentType := string(c.Request().Header.ContentType())

	eventType := ""
	if strings.HasPrefix(contentType, fiber.MIMEApplicationJSON) {
		var env dto.WebhookEnvelope
		if err := json.Unmarshal(body, &env); err == nil {
			eventType = env.Type
			if eventType == "" {
				eventType = env.Event
			}
		}
	}

	preview := payloadPreview(body)

	h.log.Info("webhook received",
		zap.String("source", source),
		zap.String("content_type", contentType),
		zap.String("event_type", eventType),
		zap.Int("size", len(body)),
		zap.String("payload", preview),
	)

	if h.publisher != nil {
		_ = h.publisher.Publish(c.Context(), events.Stream, events.Event{
			Type: events.EventWebhookReceived,
			Payload: map[string]any{
				"source":     source,
				"event_type": eventType,
				"size":       len(body),
			},
		})
	}

	return c.JSON(dto.SuccessResponse{OK: true})
}
