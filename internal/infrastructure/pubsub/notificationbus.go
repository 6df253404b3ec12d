package pubsub

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/goroutine"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// DefaultNotificationChannel carries every relayed notification event.
const DefaultNotificationChannel = "ticktrack:notifications"

// NotificationHandler is called for each event received from the bus.
type NotificationHandler func(ctx context.Context, evt notification.Event)

// RedisNotificationBus publishes outbox events for in-app consumers and lets
// other processes subscribe to them. It is also a notification.Dispatcher.
type RedisNotificationBus struct {
	client  redis.UniversalClient
	channel string
	logger  logger.Interface
}

var _ notification.Dispatcher = (*RedisNotificationBus)(nil)

func NewRedisNotificationBus(client redis.UniversalClient, channel string, logger logger.Interface) *RedisNotificationBus {
	if channel == "" {
		channel = DefaultNotificationChannel
	}
	return &RedisNotificationBus{
		client:  client,
		channel: channel,
		logger:  logger,
	}
}

func (b *RedisNotificationBus) Name() string { return "redis" }

// Dispatch publishes evt. Having no subscribers is not an error.
func (b *RedisNotificationBus) Dispatch(ctx context.Context, evt notification.Event) error {
	data, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	receivers, err := b.client.Publish(ctx, b.channel, data).Result()
	if err != nil {
		b.logger.Errorw("failed to publish notification event",
			"event_id", evt.EventID,
			"event_type", evt.Type,
			"error", err,
		)
		return fmt.Errorf("failed to publish event: %w", err)
	}

	b.logger.Debugw("notification event published",
		"event_id", evt.EventID,
		"event_type", evt.Type,
		"receivers", receivers,
	)
	return nil
}

// Subscribe blocks until ctx is done, calling handler for every event.
func (b *RedisNotificationBus) Subscribe(ctx context.Context, handler NotificationHandler) error {
	sub := b.client.Subscribe(ctx, b.channel)
	defer sub.Close()

	// Wait for subscription confirmation
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to channel: %w", err)
	}

	b.logger.Infow("subscribed to notification events", "channel", b.channel)

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			b.logger.Infow("notification subscriber stopped", "reason", ctx.Err())
			return ctx.Err()

		case msg, ok := <-ch:
			if !ok {
				b.logger.Warnw("notification channel closed")
				return nil
			}

			var evt notification.Event
			if err := json.Unmarshal([]byte(msg.Payload), &evt); err != nil {
				b.logger.Warnw("failed to unmarshal notification event",
					"payload", msg.Payload,
					"error", err,
				)
				continue
			}

			goroutine.SafeGo(b.logger, "notification-handler", func() {
				handler(context.Background(), evt)
			})
		}
	}
}
