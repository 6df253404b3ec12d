package worker

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	subscriptionUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/config"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/database"
	httpRouter "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

var env string

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "worker",
		Short: "Run background jobs without the HTTP server",
		Long:  `Run the daily subscription check and the notification outbox relay on their schedules until interrupted.`,
		RunE:  runWorker,
	}

	cmd.PersistentFlags().StringVarP(&env, "env", "e", "development", "Environment (development, test, production)")

	cmd.AddCommand(&cobra.Command{
		Use:   "daily-check",
		Short: "Run the subscription daily check once and exit",
		RunE:  runDailyCheck,
	})

	return cmd
}

func bootstrap() (*httpRouter.Container, logger.Interface, func(), error) {
	if envVar := os.Getenv("ENV"); envVar != "" {
		env = envVar
	}

	cfg, err := config.Load(env)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := logger.Init(&cfg.Logger, cfg.Server.IsDebug()); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	log := logger.NewLogger().Named("worker")

	if err := biztime.Init(cfg.Server.Timezone); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize business timezone: %w", err)
	}
	if err := database.Init(&cfg.Database, log); err != nil {
		return nil, nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	container, err := httpRouter.NewContainer(database.Get(), cfg, log)
	if err != nil {
		_ = database.Close()
		return nil, nil, nil, fmt.Errorf("failed to wire application: %w", err)
	}

	cleanup := func() {
		container.Shutdown()
		if err := database.Close(); err != nil {
			log.Errorw("failed to close database", "error", err)
		}
	}
	return container, log, cleanup, nil
}

func runWorker(cmd *cobra.Command, args []string) error {
	container, log, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := container.StartScheduler(); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	container.StartNotificationListener(ctx)
	log.Infow("worker started", "environment", env)

	<-ctx.Done()
	log.Infow("received signal, shutting down")
	return nil
}

func runDailyCheck(cmd *cobra.Command, args []string) error {
	container, log, cleanup, err := bootstrap()
	if err != nil {
		return err
	}
	defer cleanup()

	ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
	defer cancel()

	result, err := container.DailyCheck().Execute(ctx, subscriptionUsecases.RunDailyCheckCommand{Now: time.Now()})
	if err != nil {
		return fmt.Errorf("daily check failed: %w", err)
	}
	log.Infow("daily check completed",
		"scanned", result.Scanned,
		"to_grace", result.ToGrace,
		"to_read_only", result.ToReadOnly)

	// Deliver the notifications the check produced before exiting.
	if _, err := container.OutboxRelay().Execute(ctx); err != nil {
		log.Warnw("outbox relay after daily check failed", "error", err)
	}
	return nil
}
