package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/karumbidza/TickTrack-Pro-sub003/docs"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/middleware"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/routes"
)

// SetupRoutes configures all HTTP routes
func (c *Container) SetupRoutes() {
	cfg := c.cfg
	log := c.log.Named("http")

	c.engine.Use(middleware.RequestID())
	c.engine.Use(middleware.Logger(log))
	c.engine.Use(middleware.Recovery(log))
	c.engine.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	c.engine.Use(middleware.SecurityHeaders())
	c.engine.Use(middleware.Metrics(c.metrics))

	if cfg.Server.IsDebug() {
		c.engine.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	if cfg.Metrics.Enabled {
		path := cfg.Metrics.Path
		if path == "" {
			path = "/metrics"
		}
		c.engine.GET(path, gin.WrapH(promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})))
	}

	routes.SetupSystemRoutes(c.engine, &routes.SystemRouteConfig{
		HealthHandler:  c.hdlrs.healthHandler,
		FileHandler:    c.hdlrs.fileHandler,
		WebhookHandler: c.hdlrs.webhookHandler,
		CronHandler:    c.hdlrs.cronHandler,
		FilesPath:      cfg.Storage.PublicURL,
		FileAuth:       c.authMiddleware.RequireAuth(),
		WebhookLimiter: c.webhookRateLimiter.Limit(),
		CronSecret:     middleware.RequireCronSecret(c.cronVerifier, log),
	})

	api := c.engine.Group("/api/v1")
	api.Use(c.authMiddleware.RequireAuth(), c.apiRateLimiter.Limit())

	// Billing stays reachable while a tenant is blocked so that it can pay.
	billing := api.Group("")
	billing.Use(c.accessMiddleware.BillingAccess(), c.permissionMiddleware.RequireRoutePermission())
	routes.SetupBillingRoutes(billing, &routes.BillingRouteConfig{BillingHandler: c.hdlrs.billingHandler})

	gated := api.Group("")
	gated.Use(c.accessMiddleware.RequireAccess(), c.permissionMiddleware.RequireRoutePermission())
	routes.SetupTicketRoutes(gated, &routes.TicketRouteConfig{TicketHandler: c.hdlrs.ticketHandler})
	routes.SetupInvoiceRoutes(gated, &routes.InvoiceRouteConfig{InvoiceHandler: c.hdlrs.invoiceHandler})
	routes.SetupAdminRoutes(gated, &routes.BillingRouteConfig{BillingHandler: c.hdlrs.billingHandler})
}
