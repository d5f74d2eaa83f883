package events

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

type RedisPublisher struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisPublisher(client *redis.Client, log *zap.Logger) *RedisPublisher {
	return &RedisPublisher{client: client, log: log}
}

// Publish is fire-and-forget; a failure is logged and returned, never retried.
func (p *RedisPublisher) Publish(ctx context.Context, stream string, event Event) error {
	data, err := Encode(event, time.Now())
	if err != nil {
		return err
	}
	receivers, err := p.client.Publish(ctx, stream, data).Result()
	if err != nil {
		p.log.Warn("publish failed", zap.String("stream", stream), zap.String("type", event.Type), zap.Error(err))
		return err
	}
	p.log.Debug("event published",
		zap.String("type", event.Type),
		zap.String("user_id", event.UserID()),
		zap.Int64("receivers", receivers),
	)
	return nil
}

type RedisSubscriber struct {
	client *redis.Client
	log    *zap.Logger
}

func NewRedisSubscriber(client *redis.Client, log *zap.Logger) *RedisSubscriber {
	return &RedisSubscriber{client: client, log: log}
}

// Subscribe confirms the subscription, then delivers events on a background goroutine until ctx is done.
// go-redis reconnects the underlying connection on its own.
func (s *RedisSubscriber) Subscribe(ctx context.Context, stream string, handler func(Event)) error {
	pubsub := s.client.Subscribe(ctx, stream)
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return err
	}
	ch := pubsub.Channel()
	s.log.Info("subscribed", zap.String("stream", stream))

	go func() {
		defer pubsub.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-ch:
				if !ok {
					return
				}
				event, err := Decode([]byte(msg.Payload))
				if err != nil {
					s.log.Error("failed to decode event", zap.String("stream", stream), zap.Error(err))
					continue
				}
				s.deliver(handler, event)
			}
		}
	}()

	return nil
}

// deliver keeps one bad handler call from ending the subscription.
func (s *RedisSubscriber) deliver(handler func(Event), event Event) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("event handler panicked", zap.String("type", event.Type), zap.Any("panic", r))
		}
	}()
	handler(event)
}
