package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
)

type appendRecorder struct {
	notification.OutboxRepository
	entries []*notification.OutboxEntry
}

func (r *appendRecorder) Append(_ context.Context, entries ...*notification.OutboxEntry) error {
	r.entries = append(r.entries, entries...)
	return nil
}

type writerEvent struct {
	events.BaseEvent
	Number string `json:"number"`
}

func TestOutboxWriter_Publish(t *testing.T) {
	repo := &appendRecorder{}
	w := NewOutboxWriter(repo)

	require.NoError(t, w.Publish(context.Background()))
	assert.Empty(t, repo.entries)

	evt := writerEvent{
		BaseEvent: events.NewBaseEvent("ticket", "tk_1", "ticket.created", 7, time.Now().UTC(), 10, 10, 20),
		Number:    "TT-1",
	}
	require.NoError(t, w.Publish(context.Background(), evt))
	require.Len(t, repo.entries, 1)

	e := repo.entries[0]
	assert.Equal(t, "ticket.created", e.EventType())
	assert.Equal(t, uint(7), e.TenantID())
	assert.Equal(t, []uint{10, 20}, e.Recipients())
	assert.Equal(t, "TT-1", e.Payload()["number"])
	assert.Equal(t, notification.OutboxPending, e.Status())
}
