package handlers

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/cms"
	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/events"
	"github.com/precise-ai/backend/internal/models"
	"github.com/precise-ai/backend/internal/repositories"
	"github.com/precise-ai/backend/internal/services"
)

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

func TestFailMapsErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
		body   string
	}{
		{models.ErrNotFound, fiber.StatusNotFound, `"error":"not found"`},
		{fmt.Errorf("wrapped: %w", models.ErrNotFound), fiber.StatusNotFound, `"error":"not found"`},
		{models.ErrForbidden, fiber.StatusForbidden, `"error":"forbidden"`},
		{fmt.Errorf("%w: name is required", models.ErrInvalidInput), fiber.StatusBadRequest, "name is required"},
		{fmt.Errorf("%w: applied -> new", models.ErrInvalidTransition), fiber.StatusBadRequest, "applied -\\u003e new"},
		{services.ErrLLMUnavailable, fiber.StatusBadGateway, "assistant is unavailable"},
		{errors.New("pq: connection refused"), fiber.StatusInternalServerError, `"error":"internal error"`},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			app := fiber.New()
			app.Get("/", func(c *fiber.Ctx) error { return fail(c, zap.NewNop(), tt.err) })

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil))
			require.NoError(t, err)
			assert.Equal(t, tt.status, resp.StatusCode)
			body := readBody(t, resp)
			assert.Contains(t, body, tt.body)
			assert.NotContains(t, body, "pq:")
		})
	}
}

func TestContentHandler(t *testing.T) {
	app := fiber.New()
	h := NewContentHandler(cms.NewClient(cms.Options{}, nil, zap.NewNop()), zap.NewNop())
	app.Get("/content", h.Pages)
	app.Get("/content/:slug", h.Page)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/content/media-buyers", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	body := readBody(t, resp)
	assert.Contains(t, body, `"source":"fallback"`)
	assert.Contains(t, body, `"slug":"media-buyers"`)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/content/careers", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(http.MethodGet, "/content", nil))
	require.NoError(t, err)
	assert.Contains(t, readBody(t, resp), `"slug":"pricing"`)
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func TestWebhookHandler(t *testing.T) {
	pub := &recordingPublisher{}
	app := fiber.New()
	app.Post("/webhooks/:source", NewWebhookHandler(pub, zap.NewNop()).Receive)

	req := httptest.NewRequest(http.MethodPost, "/webhooks/Stripe", strings.NewReader(`{"type":"invoice.paid","data":{"id":"in_1"}}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"ok":true}`, readBody(t, resp))

	require.Len(t, pub.events, 1)
	assert.Equal(t, events.EventWebhookReceived, pub.events[0].Type)
	assert.Equal(t, "stripe", pub.events[0].Payload["source"])
	assert.Equal(t, "invoice.paid", pub.events[0].Payload["event_type"])
	assert.Empty(t, pub.events[0].UserID())

	req = httptest.NewRequest(http.MethodPost, "/webhooks/bad%20source", strings.NewReader("x"))
	resp, err = app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Len(t, pub.events, 1)
}

type memChat struct {
	mu   sync.Mutex
	rows []models.ChatMessage
}

func (m *memChat) Create(_ context.Context, msg *models.ChatMessage) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	msg.ID = uuid.New()
	m.rows = append(m.rows, *msg)
	return nil
}

func (m *memChat) ListBySession(context.Context, uuid.UUID, uuid.UUID, int) ([]models.ChatMessage, error) {
	return []models.ChatMessage{}, nil
}

func (m *memChat) Sessions(context.Context, uuid.UUID) ([]models.ChatSession, error) {
	return []models.ChatSession{}, nil
}

type noCampaigns struct{}

func (noCampaigns) Create(context.Context, *models.Campaign) error { return nil }
func (noCampaigns) GetByID(context.Context, uuid.UUID) (*models.Campaign, error) {
	return nil, models.ErrNotFound
}
func (noCampaigns) UpdateMetrics(context.Context, *models.Campaign) error     { return nil }
func (noCampaigns) UpdateStatus(context.Context, uuid.UUID, string) error     { return nil }
func (noCampaigns) Delete(context.Context, uuid.UUID) error                   { return nil }
func (noCampaigns) List(context.Context, repositories.CampaignFilter) ([]models.Campaign, error) {
	return []models.Campaign{}, nil
}
func (noCampaigns) ListAll(context.Context, *uuid.UUID, *string) ([]models.Campaign, error) {
	return []models.Campaign{}, nil
}

type scriptedLLM struct {
	chunks []string
	err    error
}

func (s scriptedLLM) Stream(context.Context, services.LLMRequest) (<-chan string, <-chan error, error) {
	text := make(chan string, len(s.chunks))
	errs := make(chan error, 1)
	for _, c := range s.chunks {
		text <- c
	}
	close(text)
	if s.err != nil {
		errs <- s.err
	}
	close(errs)
	return text, errs, nil
}

func chatApp(cfg *config.Config, llm services.LLMStreamer, store *memChat) *fiber.App {
	svc := services.NewChatService(store, noCampaigns{}, llm, 20, zap.NewNop())
	app := fiber.New()
	app.Post("/chat", NewChatHandler(svc, cfg, zap.NewNop()).Chat)
	return app
}

func chatRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/chat", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestChatHandlerStreamsSSE(t *testing.T) {
	store := &memChat{}
	app := chatApp(&config.Config{AnthropicAPIKey: "sk"}, scriptedLLM{chunks: []string{"Hel", "lo"}}, store)

	resp, err := app.Test(chatRequest(`{"message":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	body := readBody(t, resp)
	assert.Contains(t, body, "event: session\n")
	first := strings.Index(body, `data: {"text":"Hel"}`)
	second := strings.Index(body, `data: {"text":"lo"}`)
	require.True(t, first >= 0 && second > first, body)
	assert.Contains(t, body, "event: done\n")

	store.mu.Lock()
	defer store.mu.Unlock()
	require.Len(t, store.rows, 2)
	assert.Equal(t, "Hello", store.rows[1].Content)
}

func TestChatHandlerStreamError(t *testing.T) {
	app := chatApp(&config.Config{AnthropicAPIKey: "sk"}, scriptedLLM{chunks: []string{"par"}, err: errors.New("reset")}, &memChat{})

	resp, err := app.Test(chatRequest(`{"message":"hi"}`))
	require.NoError(t, err)
	body := readBody(t, resp)
	assert.Contains(t, body, "event: error\n")
	assert.NotContains(t, body, "event: done")
}

func TestChatHandlerRejects(t *testing.T) {
	disabled := chatApp(&config.Config{}, scriptedLLM{}, &memChat{})
	resp, err := disabled.Test(chatRequest(`{"message":"hi"}`))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	app := chatApp(&config.Config{AnthropicAPIKey: "sk"}, scriptedLLM{}, &memChat{})
	tests := []struct {
		name string
		body string
	}{
		{"empty message", `{"message":"  "}`},
		{"bad session", `{"message":"hi","session_id":"nope"}`},
		{"too long", `{"message":"` + strings.Repeat("a", models.MaxChatMessageLength+1) + `"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := app.Test(chatRequest(tt.body))
			require.NoError(t, err)
			assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
			assert.Contains(t, resp.Header.Get("Content-Type"), "application/json")
		})
	}
}

func TestPayloadPreview(t *testing.T) {
	invalidStart := append([]byte{0xff}, []byte(strings.Repeat("a", 700))...)
	got := payloadPreview(invalidStart)
	assert.True(t, strings.HasPrefix(got, "�aaa"), got)
	assert.True(t, strings.HasSuffix(got, "..."))
	assert.Len(t, got, len("�")+webhookLogPreview-1+len("..."))

	// a rune split by the cut is replaced, not dropped with everything before it
	split := []byte(strings.Repeat("b", webhookLogPreview-1) + "é")
	got = payloadPreview(split)
	assert.True(t, strings.HasPrefix(got, strings.Repeat("b", webhookLogPreview-1)))
	assert.True(t, strings.HasSuffix(got, "�..."), got)

	assert.Equal(t, `{"ok":1}`, payloadPreview([]byte(`{"ok":1}`)))
}

func TestPaginationEchoesServedLimit(t *testing.T) {
	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		limit, offset := pagination(c)
		return c.JSON(fiber.Map{"limit": limit, "offset": offset})
	})

	tests := []struct {
		query string
		body  string
	}{
		{"", `{"limit":20,"offset":0}`},
		{"?limit=0", `{"limit":20,"offset":0}`},
		{"?limit=100&offset=40", `{"limit":100,"offset":40}`},
		{"?limit=101", `{"limit":100,"offset":0}`},
		{"?limit=500&offset=-3", `{"limit":100,"offset":0}`},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/"+tt.query, nil))
			require.NoError(t, err)
			assert.JSONEq(t, tt.body, readBody(t, resp))
		})
	}
}
