package usecases

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

const (
	OutcomeSent    = "sent"
	OutcomeRetried = "retried"
	OutcomeFailed  = "failed"
)

// RelayMetrics counts dispatch outcomes.
type RelayMetrics interface {
	OutboxDispatched(outcome string)
}

type RelayConfig struct {
	BatchSize      int
	MaxAttempts    int
	Lease          time.Duration
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
}

type RelayOutboxResult struct {
	Claimed int `json:"claimed"`
	Sent    int `json:"sent"`
	Retried int `json:"retried"`
	Failed  int `json:"failed"`
}

type RelayOutboxExecutor interface {
	Execute(ctx context.Context) (*RelayOutboxResult, error)
}

// RelayOutboxUseCase delivers due outbox entries. A failed delivery only
// reschedules its entry; core state is never touched from here.
type RelayOutboxUseCase struct {
	repo       notification.OutboxRepository
	dispatcher notification.Dispatcher
	cfg        RelayConfig
	metrics    RelayMetrics
	logger     logger.Interface
	now        func() time.Time
}

func NewRelayOutboxUseCase(
	repo notification.OutboxRepository,
	dispatcher notification.Dispatcher,
	cfg RelayConfig,
	metrics RelayMetrics,
	logger logger.Interface,
) *RelayOutboxUseCase {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.Lease <= 0 {
		cfg.Lease = 2 * time.Minute
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = 5 * time.Second
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = 30 * time.Minute
	}
	return &RelayOutboxUseCase{
		repo:       repo,
		dispatcher: dispatcher,
		cfg:        cfg,
		metrics:    metrics,
		logger:     logger,
		now:        biztime.NowUTC,
	}
}

func (uc *RelayOutboxUseCase) Execute(ctx context.Context) (*RelayOutboxResult, error) {
	now := uc.now()
	entries, err := uc.repo.ClaimDue(ctx, now, uc.cfg.Lease, uc.cfg.BatchSize)
	if err != nil {
		uc.logger.Errorw("failed to claim outbox entries", "error", err)
		return nil, err
	}

	result := &RelayOutboxResult{Claimed: len(entries)}
	for _, entry := range entries {
		if ctx.Err() != nil {
			break
		}
		outcome := uc.deliver(ctx, entry, now)
		switch outcome {
		case OutcomeSent:
			result.Sent++
		case OutcomeRetried:
			result.Retried++
		case OutcomeFailed:
			result.Failed++
		}
		if uc.metrics != nil {
			uc.metrics.OutboxDispatched(outcome)
		}
		if err := uc.repo.Update(ctx, entry); err != nil {
			uc.logger.Errorw("failed to update outbox entry", "error", err, "event_id", entry.EventID())
		}
	}

	if result.Claimed > 0 {
		uc.logger.Infow("outbox relay finished",
			"claimed", result.Claimed,
			"sent", result.Sent,
			"retried", result.Retried,
			"failed", result.Failed)
	}
	return result, nil
}

func (uc *RelayOutboxUseCase) deliver(ctx context.Context, entry *notification.OutboxEntry, now time.Time) string {
	err := uc.dispatcher.Dispatch(ctx, entry.Event())
	if err == nil {
		entry.MarkSent(uc.now())
		return OutcomeSent
	}

	next := now.Add(uc.backoffFor(entry.Attempts() + 1))
	entry.MarkAttemptFailed(err, next, uc.cfg.MaxAttempts)
	if entry.Status() == notification.OutboxFailed {
		uc.logger.Errorw("outbox entry gave up",
			"event_id", entry.EventID(),
			"event_type", entry.EventType(),
			"attempts", entry.Attempts(),
			"error", err)
		return OutcomeFailed
	}
	uc.logger.Warnw("outbox delivery failed, will retry",
		"event_id", entry.EventID(),
		"event_type", entry.EventType(),
		"attempt", entry.Attempts(),
		"next_attempt_at", next,
		"error", err)
	return OutcomeRetried
}

// backoffFor returns the delay before the given attempt number.
func (uc *RelayOutboxUseCase) backoffFor(attempt int) time.Duration {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = uc.cfg.InitialBackoff
	b.MaxInterval = uc.cfg.MaxBackoff
	b.RandomizationFactor = 0.2
	b.Reset()
	d := b.InitialInterval
	for i := 0; i < attempt; i++ {
		d = b.NextBackOff()
	}
	return d
}
