package http

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	invoiceUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/usecases"
	notificationApp "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/notification"
	notificationUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/notification/usecases"
	paymentUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/usecases"
	subscriptionUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	ticketUsecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/auth"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/cache"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/config"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/email"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/export"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/metrics"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/payment/paynow"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/permission"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/pubsub"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/ratelimit"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/storage"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/template"
	billingHandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/billing"
	invoiceHandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/invoice"
	systemHandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/system"
	ticketHandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/ticket"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/middleware"
	shareddb "github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/services/markdown"
)

// outboxLease is how long a relay worker owns a claimed batch.
const outboxLease = 2 * time.Minute

// ============================================================
// Section 1: Infrastructure - Redis, Repositories, Metrics, Storage
// ============================================================

func (c *Container) initInfrastructure() error {
	cfg := c.cfg
	log := c.log

	if c.redis == nil {
		client, err := initRedis(cfg, log)
		if err != nil {
			return err
		}
		c.redis = client
	}

	c.repos = newRepositories(c.db, log)
	c.tx = shareddb.NewTransactionManager(c.db)

	c.registry = prometheus.NewRegistry()
	c.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.metrics = metrics.New(c.registry)

	c.fileStore = storage.NewLocalFileStore(cfg.Storage, log.Named("storage"))
	c.publisher = notificationApp.NewOutboxWriter(c.repos.outboxRepo)
	return nil
}

// initRedis creates and tests the Redis client connection.
func initRedis(cfg *config.Config, log logger.Interface) (*redis.Client, error) {
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.GetAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	log.Infow("redis connection established", "addr", cfg.Redis.GetAddr())

	return redisClient, nil
}

// ============================================================
// Section 2: Notifications - Templates, Dispatchers, Outbox Relay
// ============================================================

func (c *Container) initNotifications() error {
	cfg := c.cfg
	log := c.log.Named("notification")

	dispatchers := []notification.Dispatcher{notificationApp.NewLogDispatcher(log)}

	if cfg.Email.Enabled {
		templates, err := template.NewNotificationTemplateLoader(cfg.Notification.TemplatesFile, log).Load()
		if err != nil {
			return fmt.Errorf("failed to load notification templates: %w", err)
		}
		sender := email.NewSMTPEmailService(email.SMTPConfig{
			Host:        cfg.Email.SMTPHost,
			Port:        cfg.Email.SMTPPort,
			Username:    cfg.Email.SMTPUser,
			Password:    cfg.Email.SMTPPassword,
			FromAddress: cfg.Email.FromAddress,
			FromName:    cfg.Email.FromName,
		})
		dispatchers = append(dispatchers,
			email.NewDispatcher(sender, templates, markdown.NewRenderer(), c.repos.recipientDir, log.Named("email")))
	}

	c.notificationBus = pubsub.NewRedisNotificationBus(c.redis, cfg.Notification.RedisChannel, log.Named("bus"))
	dispatchers = append(dispatchers, c.notificationBus)

	c.ucs.relayOutboxUC = notificationUsecases.NewRelayOutboxUseCase(
		c.repos.outboxRepo,
		notificationApp.NewMultiDispatcher(dispatchers...),
		notificationUsecases.RelayConfig{
			BatchSize:      cfg.Notification.BatchSize,
			MaxAttempts:    cfg.Notification.MaxAttempts,
			Lease:          outboxLease,
			InitialBackoff: cfg.Notification.InitialBackoff,
			MaxBackoff:     cfg.Notification.MaxBackoff,
		},
		c.metrics,
		log,
	)
	return nil
}

// ============================================================
// Section 3: Subscription - Access Gate, Lifecycle, Daily Check
// ============================================================

func (c *Container) initSubscription() {
	cfg := c.cfg
	log := c.log.Named("subscription")
	repo := c.repos.subscriptionRepo

	policy := subscription.Policy{
		TrialDays:  cfg.Subscription.TrialDays,
		PeriodDays: cfg.Subscription.PeriodDays,
		GraceDays:  cfg.Subscription.GraceDays,
	}

	c.ucs.accessResolver = subscriptionUsecases.NewAccessResolver(
		repo, cache.NewAccessCache(c.redis, cfg.Subscription.AccessCacheTTL), log)
	access := c.ucs.accessResolver

	c.ucs.getSubscriptionUC = subscriptionUsecases.NewGetSubscriptionUseCase(repo, log)
	c.ucs.startTrialUC = subscriptionUsecases.NewStartTrialUseCase(c.tx, repo, policy, c.publisher, access, log)
	c.ucs.activateFromPaymentUC = subscriptionUsecases.NewActivateFromPaymentUseCase(repo, policy, c.publisher, access, c.metrics, log)
	c.ucs.runDailyCheckUC = subscriptionUsecases.NewRunDailyCheckUseCase(c.tx, repo, policy, c.publisher, access, c.metrics, log)

	adminDeps := subscriptionUsecases.AdminActionDeps{
		Tx:        c.tx,
		Repo:      repo,
		Publisher: c.publisher,
		Access:    access,
		Metrics:   c.metrics,
		Logger:    log,
	}
	c.ucs.suspendSubscriptionUC = subscriptionUsecases.NewSuspendSubscriptionUseCase(adminDeps)
	c.ucs.reinstateSubscriptionUC = subscriptionUsecases.NewReinstateSubscriptionUseCase(adminDeps)
	c.ucs.cancelSubscriptionUC = subscriptionUsecases.NewCancelSubscriptionUseCase(adminDeps)
}

// ============================================================
// Section 4: Payment - Gateway, Settlement, Webhook
// ============================================================

func (c *Container) initPayment() error {
	cfg := c.cfg
	log := c.log.Named("payment")
	currency := cfg.Payment.Currency

	gateway, err := paynow.NewGateway(cfg.Payment.Paynow, log.Named("paynow"))
	if err != nil {
		return err
	}

	c.ucs.settler = paymentUsecases.NewSettler(paymentUsecases.SettlerDeps{
		Tx:            c.tx,
		Payments:      c.repos.paymentRepo,
		Ledger:        c.repos.webhookLedger,
		Subscriptions: c.repos.subscriptionRepo,
		Activator:     c.ucs.activateFromPaymentUC,
		Publisher:     c.publisher,
		Dedupe:        cache.NewDeliveryDedupe(c.redis),
		DedupeTTL:     cfg.Payment.WebhookDedupeTTL,
		Metrics:       c.metrics,
		Logger:        log,
	})

	price := money.New(cfg.Subscription.PlanPriceCents, currency)
	c.ucs.initiatePaymentUC = paymentUsecases.NewInitiatePaymentUseCase(
		c.repos.paymentRepo, c.repos.subscriptionRepo, gateway, price, log)
	c.ucs.pollPaymentUC = paymentUsecases.NewPollPaymentUseCase(c.repos.paymentRepo, gateway, c.ucs.settler, log)
	c.ucs.listPaymentsUC = paymentUsecases.NewListPaymentsUseCase(c.repos.paymentRepo, c.repos.subscriptionRepo, log)
	c.ucs.ingestWebhookUC = paymentUsecases.NewIngestWebhookUseCase(gateway, c.ucs.settler, currency, log)
	c.ucs.confirmBankTransfer = paymentUsecases.NewConfirmBankTransferUseCase(c.ucs.settler, currency, log)
	return nil
}

// ============================================================
// Section 5: Tickets - Workflow, Assignment, Quotes, Comments
// ============================================================

func (c *Container) initTickets() {
	log := c.log.Named("ticket")
	r := c.repos

	c.ucs.createTicketUC = ticketUsecases.NewCreateTicketUseCase(c.tx, r.ticketRepo, ticket.NewRandomNumberGenerator(), c.publisher, log)
	c.ucs.getTicketUC = ticketUsecases.NewGetTicketUseCase(r.ticketRepo, r.quoteRequestRepo, log)
	c.ucs.listTicketsUC = ticketUsecases.NewListTicketsUseCase(r.ticketRepo, log)
	c.ucs.getTicketHistoryUC = ticketUsecases.NewGetTicketHistoryUseCase(r.ticketRepo, r.quoteRequestRepo, r.ticketHistoryRepo, log)
	c.ucs.transitionTicketUC = ticketUsecases.NewTransitionTicketUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, c.publisher, c.metrics, log)
	c.ucs.cancelTicketUC = ticketUsecases.NewCancelTicketUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, r.quoteRequestRepo, c.publisher, c.metrics, log)

	c.ucs.assignTicketUC = ticketUsecases.NewAssignTicketUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, c.publisher, c.metrics, log)
	c.ucs.unassignTicketUC = ticketUsecases.NewUnassignTicketUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, c.publisher, c.metrics, log)
	c.ucs.rejectJobUC = ticketUsecases.NewRejectJobUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, c.publisher, c.metrics, log)
	c.ucs.requestQuoteUC = ticketUsecases.NewRequestQuoteUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, r.quoteRequestRepo, c.publisher, c.metrics, log)
	c.ucs.submitQuoteUC = ticketUsecases.NewSubmitQuoteUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, r.quoteRequestRepo, c.publisher, c.metrics, log)
	c.ucs.approveQuoteUC = ticketUsecases.NewApproveQuoteUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, r.quoteRequestRepo, c.publisher, c.metrics, log)
	c.ucs.rejectQuoteUC = ticketUsecases.NewRejectQuoteUseCase(c.tx, r.ticketRepo, r.ticketHistoryRepo, r.quoteRequestRepo, c.publisher, c.metrics, log)
	c.ucs.listQuotesUC = ticketUsecases.NewListQuotesUseCase(r.ticketRepo, r.quoteRequestRepo, log)

	c.ucs.applyTransitionUC = ticketUsecases.NewApplyTransitionUseCase(ticketUsecases.ApplyTransitionDeps{
		Tickets:      r.ticketRepo,
		Transition:   c.ucs.transitionTicketUC,
		Cancel:       c.ucs.cancelTicketUC,
		Assign:       c.ucs.assignTicketUC,
		Unassign:     c.ucs.unassignTicketUC,
		RejectJob:    c.ucs.rejectJobUC,
		RequestQuote: c.ucs.requestQuoteUC,
		SubmitQuote:  c.ucs.submitQuoteUC,
		ApproveQuote: c.ucs.approveQuoteUC,
		RejectQuote:  c.ucs.rejectQuoteUC,
		Logger:       log,
	})

	c.ucs.addCommentUC = ticketUsecases.NewAddCommentUseCase(c.tx, r.ticketRepo, r.quoteRequestRepo, r.commentRepo, c.publisher, log)
	c.ucs.listCommentsUC = ticketUsecases.NewListCommentsUseCase(r.ticketRepo, r.quoteRequestRepo, r.commentRepo, log)
}

// ============================================================
// Section 6: Invoices - Ledger, Revisions, Payment Batches
// ============================================================

func (c *Container) initInvoices() {
	log := c.log.Named("invoice")
	r := c.repos

	c.ucs.submitInvoiceUC = invoiceUsecases.NewSubmitInvoiceUseCase(
		c.tx, r.invoiceRepo, r.ticketRepo, c.fileStore, c.publisher, c.cfg.Payment.Currency, log)
	c.ucs.getInvoiceUC = invoiceUsecases.NewGetInvoiceUseCase(r.invoiceRepo, log)
	c.ucs.listInvoicesUC = invoiceUsecases.NewListInvoicesUseCase(r.invoiceRepo, log)
	c.ucs.getRevisionChainUC = invoiceUsecases.NewGetRevisionChainUseCase(r.invoiceRepo, log)

	actionDeps := invoiceUsecases.InvoiceActionDeps{
		Tx:        c.tx,
		Invoices:  r.invoiceRepo,
		Publisher: c.publisher,
		Logger:    log,
	}
	c.ucs.approveInvoiceUC = invoiceUsecases.NewApproveInvoiceUseCase(actionDeps)
	c.ucs.rejectInvoiceUC = invoiceUsecases.NewRejectInvoiceUseCase(actionDeps)
	c.ucs.recordPaymentUC = invoiceUsecases.NewRecordPaymentUseCase(actionDeps)
	c.ucs.requestClarificationUC = invoiceUsecases.NewRequestClarificationUseCase(actionDeps)
	c.ucs.respondClarificationUC = invoiceUsecases.NewRespondClarificationUseCase(actionDeps)

	c.ucs.createPaymentBatchUC = invoiceUsecases.NewCreatePaymentBatchUseCase(
		c.tx, r.invoiceRepo, r.paymentBatchRepo, r.batchSequences, c.fileStore, c.publisher, c.metrics, log)
	c.ucs.getPaymentBatchUC = invoiceUsecases.NewGetPaymentBatchUseCase(r.paymentBatchRepo, r.invoiceRepo, log)
	c.ucs.listPaymentBatchesUC = invoiceUsecases.NewListPaymentBatchesUseCase(r.paymentBatchRepo, log)
	c.ucs.exportPaymentBatchUC = invoiceUsecases.NewExportPaymentBatchUseCase(
		r.paymentBatchRepo, r.invoiceRepo, export.NewRemittanceSheet(), log)
}

// ============================================================
// Section 7: HTTP - Middlewares and Handlers
// ============================================================

func (c *Container) initHTTP() error {
	cfg := c.cfg
	log := c.log.Named("http")

	enforcer, err := permission.NewEnforcer(c.db, log.Named("permission"))
	if err != nil {
		return fmt.Errorf("failed to create permission enforcer: %w", err)
	}
	policies, err := permission.LoadPolicySet(cfg.Permission.PolicyFile)
	if err != nil {
		return fmt.Errorf("failed to load permission policies: %w", err)
	}
	if err := permission.InitPolicies(enforcer, policies, log.Named("permission")); err != nil {
		return fmt.Errorf("failed to seed permission policies: %w", err)
	}

	limiter := ratelimit.NewRedisRateLimiter(c.redis)
	apiLimit := ratelimit.RateLimitConfig{}
	if cfg.RateLimit.Enabled {
		apiLimit.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
		apiLimit.RequestsPerHour = cfg.RateLimit.RequestsPerHour
	}

	c.authMiddleware = middleware.NewAuthMiddleware(auth.NewJWTService(cfg.Auth.JWT.Secret, cfg.Auth.JWT.Issuer), log)
	c.permissionMiddleware = middleware.NewPermissionMiddleware(enforcer, log)
	c.accessMiddleware = middleware.NewSubscriptionAccessMiddleware(c.ucs.accessResolver, log)
	c.apiRateLimiter = middleware.NewRateLimiter(limiter, "api", apiLimit, log)
	c.webhookRateLimiter = middleware.NewRateLimiter(limiter, "webhook",
		ratelimit.RateLimitConfig{RequestsPerMinute: cfg.Payment.WebhookRateLimit}, log)
	c.cronVerifier = auth.NewCronSecretVerifier(cfg.Subscription.CronSecret)

	c.hdlrs = &allHandlers{
		ticketHandler: ticketHandlers.NewTicketHandler(ticketHandlers.Deps{
			Create:       c.ucs.createTicketUC,
			Get:          c.ucs.getTicketUC,
			List:         c.ucs.listTicketsUC,
			History:      c.ucs.getTicketHistoryUC,
			Transition:   c.ucs.applyTransitionUC,
			Cancel:       c.ucs.cancelTicketUC,
			Assign:       c.ucs.assignTicketUC,
			Unassign:     c.ucs.unassignTicketUC,
			RejectJob:    c.ucs.rejectJobUC,
			RequestQuote: c.ucs.requestQuoteUC,
			SubmitQuote:  c.ucs.submitQuoteUC,
			ApproveQuote: c.ucs.approveQuoteUC,
			RejectQuote:  c.ucs.rejectQuoteUC,
			ListQuotes:   c.ucs.listQuotesUC,
			AddComment:   c.ucs.addCommentUC,
			ListComments: c.ucs.listCommentsUC,
		}, log),
		invoiceHandler: invoiceHandlers.NewHandler(invoiceHandlers.Deps{
			Submit:               c.ucs.submitInvoiceUC,
			Get:                  c.ucs.getInvoiceUC,
			List:                 c.ucs.listInvoicesUC,
			Revisions:            c.ucs.getRevisionChainUC,
			Approve:              c.ucs.approveInvoiceUC,
			Reject:               c.ucs.rejectInvoiceUC,
			RecordPayment:        c.ucs.recordPaymentUC,
			RequestClarification: c.ucs.requestClarificationUC,
			RespondClarification: c.ucs.respondClarificationUC,
			CreateBatch:          c.ucs.createPaymentBatchUC,
			GetBatch:             c.ucs.getPaymentBatchUC,
			ListBatches:          c.ucs.listPaymentBatchesUC,
			ExportBatch:          c.ucs.exportPaymentBatchUC,
		}, cfg.Storage.MaxFileSize, log),
		billingHandler: billingHandlers.NewHandler(billingHandlers.Deps{
			GetSubscription: c.ucs.getSubscriptionUC,
			Initiate:        c.ucs.initiatePaymentUC,
			Poll:            c.ucs.pollPaymentUC,
			ListPayments:    c.ucs.listPaymentsUC,
			BankTransfer:    c.ucs.confirmBankTransfer,
			StartTrial:      c.ucs.startTrialUC,
			Suspend:         c.ucs.suspendSubscriptionUC,
			Reinstate:       c.ucs.reinstateSubscriptionUC,
			Cancel:          c.ucs.cancelSubscriptionUC,
		}, log),
		webhookHandler: billingHandlers.NewWebhookHandler(c.ucs.ingestWebhookUC, log),
		cronHandler:    billingHandlers.NewCronHandler(c.ucs.runDailyCheckUC, log),
		healthHandler: systemHandlers.NewHealthHandler(map[string]systemHandlers.Pinger{
			"database": systemHandlers.PingFunc(c.pingDatabase),
			"redis": systemHandlers.PingFunc(func(ctx context.Context) error {
				return c.redis.Ping(ctx).Err()
			}),
		}, log),
		fileHandler: systemHandlers.NewFileHandler(cfg.Storage.BaseDir, log),
	}
	return nil
}

func (c *Container) pingDatabase(ctx context.Context) error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}
