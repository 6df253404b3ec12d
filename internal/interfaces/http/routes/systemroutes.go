package routes

import (
	"github.com/gin-gonic/gin"

	billinghandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/billing"
	systemhandlers "github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/system"
)

type SystemRouteConfig struct {
	HealthHandler  *systemhandlers.HealthHandler
	FileHandler    *systemhandlers.FileHandler
	WebhookHandler *billinghandlers.WebhookHandler
	CronHandler    *billinghandlers.CronHandler

	FilesPath      string
	FileAuth       gin.HandlerFunc
	WebhookLimiter gin.HandlerFunc
	CronSecret     gin.HandlerFunc
}

// SetupSystemRoutes mounts the endpoints that live outside /api/v1.
func SetupSystemRoutes(engine *gin.Engine, config *SystemRouteConfig) {
	engine.GET("/health", config.HealthHandler.HealthCheck)

	webhooks := engine.Group("/webhooks")
	webhooks.Use(config.WebhookLimiter)
	{
		webhooks.POST("/paynow", config.WebhookHandler.PaynowResult)
	}

	cron := engine.Group("/internal/cron")
	cron.Use(config.CronSecret)
	{
		cron.POST("/subscription-check", config.CronHandler.SubscriptionCheck)
	}

	if config.FileHandler != nil && config.FilesPath != "" {
		engine.GET(config.FilesPath+"/:tenant/:name", config.FileAuth, config.FileHandler.Serve)
	}
}
