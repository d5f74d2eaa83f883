package events

import (
	"context"
	"encoding/json"
	"errors"
	"time"
)

// Stream is the single pub/sub channel carrying app events.
const Stream = "events:app"

// Event types
const (
	EventEarningDistributed    = "earning_distributed"
	EventRecommendationCreated = "recommendation_created"
	EventDSPSnapshot           = "dsp_snapshot_recorded"
	EventWebhookReceived       = "webhook_received"
)

var ErrMalformedEvent = errors.New("malformed event")

type Event struct {
	Type    string         `json:"type"`
	Payload map[string]any `json:"payload"`
	At      time.Time      `json:"at"`
}

// UserID returns the payload's user_id, empty for broadcast events.
func (e Event) UserID() string {
	id, _ := e.Payload["user_id"].(string)
	return id
}

// Encode stamps At when unset and returns the wire form.
func Encode(e Event, now time.Time) ([]byte, error) {
	if e.Type == "" {
		return nil, ErrMalformedEvent
	}
	if e.At.IsZero() {
		e.At = now.UTC()
	}
	return json.Marshal(e)
}

func Decode(data []byte) (Event, error) {
	var e Event
	if err := json.Unmarshal(data, &e); err != nil {
		return Event{}, err
	}
	if e.Type == "" {
		return Event{}, ErrMalformedEvent
	}
	return e, nil
}

type Publisher interface {
	Publish(ctx context.Context, stream string, event Event) error
}

type Subscriber interface {
	Subscribe(ctx context.Context, stream string, handler func(Event)) error
}
