package http

import (
	"context"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	notificationUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/notification/usecases"
	subscriptionUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/auth"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/config"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/metrics"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/pubsub"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/scheduler"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/storage"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/middleware"
	shareddb "github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// Container holds all infrastructure components, repositories, use cases, handlers,
// and background services. It is responsible for wiring everything together and
// providing a Shutdown() method for graceful termination.
type Container struct {
	// Core infrastructure
	engine   *gin.Engine
	db       *gorm.DB
	cfg      *config.Config
	log      logger.Interface
	redis    redis.UniversalClient
	tx       shareddb.Transactor
	registry *prometheus.Registry
	metrics  *metrics.Metrics

	// Domain event sink; every event lands in the outbox with its aggregate.
	publisher events.Publisher
	fileStore *storage.LocalFileStore

	repos *repositories
	ucs   *allUseCases
	hdlrs *allHandlers

	// Middlewares
	authMiddleware       *middleware.AuthMiddleware
	permissionMiddleware *middleware.PermissionMiddleware
	accessMiddleware     *middleware.SubscriptionAccessMiddleware
	apiRateLimiter       *middleware.RateLimiter
	webhookRateLimiter   *middleware.RateLimiter
	cronVerifier         *auth.CronSecretVerifier

	// Background services
	schedulerManager *scheduler.SchedulerManager
	notificationBus  *pubsub.RedisNotificationBus
	busCancel        context.CancelFunc
	busCancelMu      sync.Mutex
}

// Option customizes a Container before it is wired.
type Option func(*Container)

// WithRedis reuses an existing client instead of dialing the configured one.
func WithRedis(client redis.UniversalClient) Option {
	return func(c *Container) { c.redis = client }
}

// NewContainer creates a new Container with all dependencies wired together.
func NewContainer(db *gorm.DB, cfg *config.Config, log logger.Interface, opts ...Option) (*Container, error) {
	c := &Container{
		engine: gin.New(),
		db:     db,
		cfg:    cfg,
		log:    log,
		ucs:    &allUseCases{},
	}
	for _, opt := range opts {
		opt(c)
	}

	// Section 1: Infrastructure - Redis, Repositories, Metrics, Storage
	if err := c.initInfrastructure(); err != nil {
		return nil, err
	}

	// Section 2: Notifications - Templates, Dispatchers, Outbox Relay
	if err := c.initNotifications(); err != nil {
		return nil, err
	}

	// Section 3: Subscription - Access Gate, Lifecycle, Daily Check
	c.initSubscription()

	// Section 4: Payment - Gateway, Settlement, Webhook
	if err := c.initPayment(); err != nil {
		return nil, err
	}

	// Section 5: Tickets - Workflow, Assignment, Quotes, Comments
	c.initTickets()

	// Section 6: Invoices - Ledger, Revisions, Payment Batches
	c.initInvoices()

	// Section 7: HTTP - Middlewares and Handlers
	if err := c.initHTTP(); err != nil {
		return nil, err
	}

	return c, nil
}

// GetEngine returns the Gin engine
func (c *Container) GetEngine() *gin.Engine {
	return c.engine
}

// DailyCheck returns the subscription degradation job.
func (c *Container) DailyCheck() *subscriptionUsecases.RunDailyCheckUseCase {
	return c.ucs.runDailyCheckUC
}

// OutboxRelay returns the notification delivery job.
func (c *Container) OutboxRelay() *notificationUsecases.RelayOutboxUseCase {
	return c.ucs.relayOutboxUC
}

// StartScheduler registers the daily check and the outbox relay and starts
// running them.
func (c *Container) StartScheduler() error {
	sm, err := scheduler.NewSchedulerManager(c.log.Named("scheduler"))
	if err != nil {
		return err
	}
	if err := sm.RegisterDailyCheck(c.ucs.runDailyCheckUC, c.cfg.Subscription.DailyCheckAt); err != nil {
		return err
	}
	if err := sm.RegisterOutboxRelay(c.ucs.relayOutboxUC, c.cfg.Notification.PollInterval); err != nil {
		return err
	}
	sm.Start()
	c.schedulerManager = sm
	return nil
}

// StartNotificationListener follows notifications published by every
// instance. Deliveries are only logged here; push transports subscribe the
// same way.
func (c *Container) StartNotificationListener(ctx context.Context) {
	c.busCancelMu.Lock()
	defer c.busCancelMu.Unlock()
	if c.busCancel != nil {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	c.busCancel = cancel
	log := c.log.Named("bus")

	go func() {
		err := c.notificationBus.Subscribe(ctx, func(_ context.Context, evt notification.Event) {
			log.Debugw("notification received", "event_id", evt.EventID, "event_type", evt.Type, "tenant_id", evt.TenantID)
		})
		if err != nil && ctx.Err() == nil {
			log.Errorw("notification listener stopped", "error", err)
		}
	}()
}

// Shutdown stops background work. The database and redis handles belong to
// the caller.
func (c *Container) Shutdown() {
	if c.schedulerManager != nil {
		if err := c.schedulerManager.Stop(); err != nil {
			c.log.Errorw("failed to stop scheduler", "error", err)
		}
	}

	c.busCancelMu.Lock()
	if c.busCancel != nil {
		c.busCancel()
		c.busCancel = nil
	}
	c.busCancelMu.Unlock()
}
