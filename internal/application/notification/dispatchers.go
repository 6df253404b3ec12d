package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// MultiDispatcher fans an event out to every channel. The event counts as
// delivered only when every channel accepted it.
type MultiDispatcher struct {
	dispatchers []notification.Dispatcher
}

func NewMultiDispatcher(dispatchers ...notification.Dispatcher) *MultiDispatcher {
	return &MultiDispatcher{dispatchers: dispatchers}
}

func (m *MultiDispatcher) Name() string { return "multi" }

func (m *MultiDispatcher) Dispatch(ctx context.Context, evt notification.Event) error {
	var errs []error
	for _, d := range m.dispatchers {
		if err := d.Dispatch(ctx, evt); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", d.Name(), err))
		}
	}
	return errors.Join(errs...)
}

// LogDispatcher only logs the event. It stands in when no channel is configured.
type LogDispatcher struct {
	logger logger.Interface
}

func NewLogDispatcher(logger logger.Interface) *LogDispatcher {
	return &LogDispatcher{logger: logger}
}

func (d *LogDispatcher) Name() string { return "log" }

func (d *LogDispatcher) Dispatch(_ context.Context, evt notification.Event) error {
	d.logger.Infow("notification",
		"event_id", evt.EventID,
		"event_type", evt.Type,
		"tenant_id", evt.TenantID,
		"aggregate_id", evt.AggregateID,
		"recipients", evt.Recipients)
	return nil
}
