package pubsub

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

func TestRedisNotificationBus_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	bus := NewRedisNotificationBus(client, "", logger.NewNop())
	assert.Equal(t, "redis", bus.Name())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	received := make(chan notification.Event, 1)
	done := make(chan error, 1)
	go func() {
		done <- bus.Subscribe(ctx, func(_ context.Context, evt notification.Event) {
			received <- evt
		})
	}()

	require.Eventually(t, func() bool {
		return mr.PubSubNumSub(DefaultNotificationChannel)[DefaultNotificationChannel] == 1
	}, 2*time.Second, 10*time.Millisecond)

	sent := notification.Event{
		EventID:     "evt-1",
		Type:        "ticket.assigned",
		TenantID:    3,
		AggregateID: "tk_abc",
		Recipients:  []uint{7},
		Data:        map[string]any{"number": "TT-0001"},
		OccurredAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	require.NoError(t, bus.Dispatch(context.Background(), sent))

	select {
	case got := <-received:
		assert.Equal(t, sent.EventID, got.EventID)
		assert.Equal(t, sent.Type, got.Type)
		assert.Equal(t, []uint{7}, got.Recipients)
		assert.Equal(t, "TT-0001", got.Data["number"])
		assert.True(t, sent.OccurredAt.Equal(got.OccurredAt))
	case <-time.After(2 * time.Second):
		t.Fatal("event not delivered")
	}

	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(2 * time.Second):
		t.Fatal("subscriber did not stop")
	}
}

func TestRedisNotificationBus_DispatchWithoutSubscribers(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	bus := NewRedisNotificationBus(client, "custom", logger.NewNop())
	assert.NoError(t, bus.Dispatch(context.Background(), notification.Event{EventID: "e", Type: "x"}))

	mr.Close()
	assert.Error(t, bus.Dispatch(context.Background(), notification.Event{EventID: "e", Type: "x"}))
}
