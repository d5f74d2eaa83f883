package handlers

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/precise-ai/backend/internal/config"
	"github.com/precise-ai/backend/internal/events"
)

func newTestHub() *WSHub {
	return NewWSHub(&config.Config{}, nil, zap.NewNop())
}

func received(cl *wsClient) []events.Event {
	var out []events.Event
	for {
		select {
		case data, ok := <-cl.send:
			if !ok {
				return out
			}
			var e events.Event
			_ = json.Unmarshal(data, &e)
			out = append(out, e)
		default:
			return out
		}
	}
}

func TestWSHubRoutesByUser(t *testing.T) {
	hub := newTestHub()
	alice, bob := uuid.New(), uuid.New()
	a1 := newWSClient(alice, "")
	a2 := newWSClient(alice, "")
	b := newWSClient(bob, "")
	hub.register(a1)
	hub.register(a2)
	hub.register(b)
	assert.Equal(t, 2, hub.ConnectedUsers())

	hub.dispatch(events.Event{Type: events.EventRecommendationCreated, Payload: map[string]any{"user_id": alice.String()}})
	hub.dispatch(events.Event{Type: events.EventWebhookReceived, Payload: map[string]any{"source": "stripe"}})

	assert.Len(t, received(a1), 2)
	assert.Len(t, received(a2), 2)
	got := received(b)
	require.Len(t, got, 1)
	assert.Equal(t, events.EventWebhookReceived, got[0].Type)
}

func TestWSHubTypeFilter(t *testing.T) {
	hub := newTestHub()
	user := uuid.New()
	cl := newWSClient(user, " dsp_snapshot_recorded, ")
	hub.register(cl)

	hub.dispatch(events.Event{Type: events.EventWebhookReceived})
	hub.dispatch(events.Event{Type: events.EventDSPSnapshot, Payload: map[string]any{"user_id": user.String()}})

	got := received(cl)
	require.Len(t, got, 1)
	assert.Equal(t, events.EventDSPSnapshot, got[0].Type)
}

func TestWSHubDropsSlowClient(t *testing.T) {
	hub := newTestHub()
	cl := newWSClient(uuid.New(), "")
	hub.register(cl)

	for i := 0; i < wsSendBuffer+1; i++ {
		hub.dispatch(events.Event{Type: events.EventWebhookReceived})
	}

	assert.Equal(t, 0, hub.ConnectedUsers())
	assert.Len(t, received(cl), wsSendBuffer)

	// unregistering twice must not panic on the closed channel
	hub.unregister(cl)
}

func TestWSHubIgnoresMalformedTarget(t *testing.T) {
	hub := newTestHub()
	cl := newWSClient(uuid.New(), "")
	hub.register(cl)

	hub.dispatch(events.Event{Type: events.EventEarningDistributed, Payload: map[string]any{"user_id": "not-a-uuid"}})
	assert.Empty(t, received(cl))
}
