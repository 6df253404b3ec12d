// Package scheduler runs the periodic jobs of the service using gocron v2.
package scheduler

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/notification/usecases"
	subUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// SchedulerManager owns the single gocron scheduler of a process.
type SchedulerManager struct {
	scheduler gocron.Scheduler
	logger    logger.Interface

	started   bool
	startedMu sync.RWMutex
}

// NewSchedulerManager creates a scheduler whose cron expressions are read in
// the business timezone.
func NewSchedulerManager(log logger.Interface) (*SchedulerManager, error) {
	scheduler, err := gocron.NewScheduler(
		gocron.WithLocation(biztime.Location()),
	)
	if err != nil {
		return nil, err
	}

	return &SchedulerManager{
		scheduler: scheduler,
		logger:    log,
	}, nil
}

// ========================================
// Subscription daily check (cron-based)
// ========================================

// RegisterDailyCheck runs the subscription degradation pass once a day at
// "HH:MM" business time. The pass is idempotent, so a missed or doubled run
// is harmless.
func (m *SchedulerManager) RegisterDailyCheck(job subUsecases.RunDailyCheckExecutor, at string) error {
	expr, err := dailyCron(at)
	if err != nil {
		return err
	}

	_, err = m.scheduler.NewJob(
		gocron.CronJob(expr, false),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			m.runDailyCheck(ctx, job)
		}),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("subscription", "daily-check"),
		gocron.WithName("subscription-daily-check"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered subscription daily check", "at", at, "cron", expr)
	return nil
}

func (m *SchedulerManager) runDailyCheck(ctx context.Context, job subUsecases.RunDailyCheckExecutor) {
	startTime := biztime.NowUTC()

	result, err := job.Execute(ctx, subUsecases.RunDailyCheckCommand{})
	if err != nil {
		m.logger.Errorw("subscription daily check failed",
			"error", err,
			"duration", time.Since(startTime),
		)
		return
	}

	m.logger.Infow("subscription daily check completed",
		"scanned", result.Scanned,
		"to_grace", result.ToGrace,
		"to_read_only", result.ToReadOnly,
		"duration", time.Since(startTime),
	)
}

// dailyCron turns "HH:MM" into a five-field cron expression.
func dailyCron(at string) (string, error) {
	parts := strings.Split(strings.TrimSpace(at), ":")
	if len(parts) != 2 {
		return "", fmt.Errorf("invalid daily check time %q: expected HH:MM", at)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", fmt.Errorf("invalid daily check hour in %q", at)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", fmt.Errorf("invalid daily check minute in %q", at)
	}
	return fmt.Sprintf("%d %d * * *", minute, hour), nil
}

// ========================================
// Outbox relay (interval, start immediately)
// ========================================

// RegisterOutboxRelay drains due notification outbox rows every interval.
func (m *SchedulerManager) RegisterOutboxRelay(job usecases.RelayOutboxExecutor, interval time.Duration) error {
	if interval <= 0 {
		interval = 10 * time.Second
	}

	_, err := m.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			m.relayOutbox(ctx, job)
		}),
		gocron.WithStartAt(gocron.WithStartImmediately()),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithTags("notification", "outbox"),
		gocron.WithName("notification-outbox-relay"),
	)
	if err != nil {
		return err
	}

	m.logger.Infow("registered outbox relay", "interval", interval)
	return nil
}

func (m *SchedulerManager) relayOutbox(ctx context.Context, job usecases.RelayOutboxExecutor) {
	result, err := job.Execute(ctx)
	if err != nil {
		// Don't log error if context was cancelled (graceful shutdown)
		if ctx.Err() != nil {
			return
		}
		m.logger.Errorw("outbox relay failed", "error", err)
		return
	}

	if result.Claimed > 0 {
		m.logger.Infow("outbox relay pass",
			"claimed", result.Claimed,
			"sent", result.Sent,
			"retried", result.Retried,
			"failed", result.Failed,
		)
	}
}

// ========================================
// Scheduler Lifecycle Methods
// ========================================

// Start starts the scheduler and all registered jobs.
func (m *SchedulerManager) Start() {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if m.started {
		return
	}

	m.scheduler.Start()
	m.started = true
	m.logger.Infow("scheduler manager started", "job_count", len(m.scheduler.Jobs()))
}

// Stop waits for running jobs to complete before returning.
func (m *SchedulerManager) Stop() error {
	m.startedMu.Lock()
	defer m.startedMu.Unlock()

	if !m.started {
		return nil
	}

	m.logger.Infow("stopping scheduler manager")

	err := m.scheduler.Shutdown()
	m.started = false

	if err != nil {
		m.logger.Errorw("scheduler manager shutdown with error", "error", err)
		return err
	}

	m.logger.Infow("scheduler manager stopped")
	return nil
}

func (m *SchedulerManager) IsStarted() bool {
	m.startedMu.RLock()
	defer m.startedMu.RUnlock()
	return m.started
}

// Jobs returns all registered jobs for inspection.
func (m *SchedulerManager) Jobs() []gocron.Job {
	return m.scheduler.Jobs()
}
