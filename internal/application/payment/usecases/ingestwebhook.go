package usecases

import (
	"context"
	"net/url"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/paymentgateway"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type IngestWebhookCommand struct {
	Fields url.Values
}

// IngestWebhookUseCase handles provider pushes. Provenance is checked before
// anything is looked up.
type IngestWebhookUseCase struct {
	gateway  paymentgateway.PaymentGateway
	settler  *Settler
	currency string
	logger   logger.Interface
}

func NewIngestWebhookUseCase(gateway paymentgateway.PaymentGateway, settler *Settler, currency string, logger logger.Interface) *IngestWebhookUseCase {
	return &IngestWebhookUseCase{gateway: gateway, settler: settler, currency: currency, logger: logger}
}

func (uc *IngestWebhookUseCase) Execute(ctx context.Context, cmd IngestWebhookCommand) (*IngestResult, error) {
	cb, err := uc.gateway.ParseCallback(cmd.Fields)
	if err != nil {
		uc.settler.count(uc.gateway.Provider(), OutcomeInvalidSignature)
		uc.logger.Warnw("rejected payment webhook", "provider", uc.gateway.Provider(), "error", err)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewInvalidSignatureError("invalid payment callback")
	}

	uc.logger.Infow("payment webhook received",
		"provider", cb.Provider,
		"reference", cb.Reference,
		"provider_reference", cb.ProviderReference,
		"status", cb.RawStatus)
	return uc.settler.settle(ctx, cb, uc.settler.byMerchantReference(cb, uc.currency))
}
