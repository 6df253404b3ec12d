package billing

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	payusecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/usecases"
	subusecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

// WebhookHandler receives provider callbacks. It is mounted outside the
// authenticated group; provenance is the callback hash.
type WebhookHandler struct {
	ingest payusecases.IngestWebhookExecutor
	logger logger.Interface
}

func NewWebhookHandler(ingest payusecases.IngestWebhookExecutor, logger logger.Interface) *WebhookHandler {
	return &WebhookHandler{ingest: ingest, logger: logger}
}

// PaynowResult handles POST /webhooks/paynow
// @Summary Paynow status update
// @Description Form encoded result callback. Redelivery of a processed callback answers 200.
// @Tags webhooks
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} utils.APIResponse
// @Failure 400 {object} utils.APIResponse
// @Router /webhooks/paynow [post]
func (h *WebhookHandler) PaynowResult(c *gin.Context) {
	if err := c.Request.ParseForm(); err != nil {
		h.logger.Warnw("unreadable payment webhook body", "error", err, "client_ip", c.ClientIP())
		utils.ErrorResponseWithError(c, errors.NewValidationError("invalid form body"))
		return
	}

	result, err := h.ingest.Execute(c.Request.Context(), payusecases.IngestWebhookCommand{Fields: c.Request.PostForm})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// CronHandler exposes scheduled jobs to an external trigger guarded by the
// cron secret.
type CronHandler struct {
	dailyCheck subusecases.RunDailyCheckExecutor
	logger     logger.Interface
}

func NewCronHandler(dailyCheck subusecases.RunDailyCheckExecutor, logger logger.Interface) *CronHandler {
	return &CronHandler{dailyCheck: dailyCheck, logger: logger}
}

// SubscriptionCheck handles POST /internal/cron/subscription-check
func (h *CronHandler) SubscriptionCheck(c *gin.Context) {
	started := time.Now()
	result, err := h.dailyCheck.Execute(c.Request.Context(), subusecases.RunDailyCheckCommand{Now: started})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}
	h.logger.Infow("subscription check triggered",
		"scanned", result.Scanned,
		"to_grace", result.ToGrace,
		"to_read_only", result.ToReadOnly,
		"elapsed", time.Since(started))
	utils.SuccessResponse(c, http.StatusOK, "Subscription check completed", result)
}
