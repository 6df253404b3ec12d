// Package notification holds the outbox side of notifications: writing events
// next to the state change that raised them and relaying them to dispatchers.
package notification

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
)

// OutboxWriter implements events.Publisher on top of the outbox table. It
// never delivers anything itself.
type OutboxWriter struct {
	repo notification.OutboxRepository
}

func NewOutboxWriter(repo notification.OutboxRepository) *OutboxWriter {
	return &OutboxWriter{repo: repo}
}

var _ events.Publisher = (*OutboxWriter)(nil)

func (w *OutboxWriter) Publish(ctx context.Context, evts ...events.DomainEvent) error {
	if len(evts) == 0 {
		return nil
	}
	now := biztime.NowUTC()
	entries := make([]*notification.OutboxEntry, 0, len(evts))
	for _, evt := range evts {
		entry, err := notification.NewOutboxEntry(evt, now)
		if err != nil {
			return err
		}
		entries = append(entries, entry)
	}
	if err := w.repo.Append(ctx, entries...); err != nil {
		return fmt.Errorf("failed to append outbox entries: %w", err)
	}
	return nil
}
