package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/paymentgateway"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type PollPaymentQuery struct {
	Actor authorization.Actor
	SID   string
}

// PollPaymentUseCase asks the provider for the status of a pending payment
// and feeds the answer through the same settlement as the webhook. Pending is
// a normal answer.
type PollPaymentUseCase struct {
	payments payment.PaymentRepository
	gateway  paymentgateway.PaymentGateway
	settler  *Settler
	logger   logger.Interface
}

func NewPollPaymentUseCase(payments payment.PaymentRepository, gateway paymentgateway.PaymentGateway, settler *Settler, logger logger.Interface) *PollPaymentUseCase {
	return &PollPaymentUseCase{payments: payments, gateway: gateway, settler: settler, logger: logger}
}

func (uc *PollPaymentUseCase) Execute(ctx context.Context, query PollPaymentQuery) (*dto.PaymentDTO, error) {
	p, err := uc.load(ctx, query)
	if err != nil {
		return nil, err
	}
	if !p.Status().IsPending() || p.PollURL() == "" || p.Provider() != uc.gateway.Provider() {
		return dto.ToPaymentDTO(p), nil
	}

	cb, err := uc.gateway.Poll(ctx, p.PollURL())
	if err != nil {
		uc.logger.Warnw("payment poll failed", "payment_sid", p.SID(), "error", err)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewProviderError("payment provider unavailable")
	}
	if _, err := uc.settler.settle(ctx, cb, uc.settler.byMerchantReference(cb, p.Currency())); err != nil {
		return nil, err
	}
	return uc.reload(ctx, query)
}

func (uc *PollPaymentUseCase) load(ctx context.Context, query PollPaymentQuery) (*payment.Payment, error) {
	if !query.Actor.Role.IsBillingAdmin() {
		return nil, errors.NewForbiddenError("only tenant admins can view payments")
	}
	p, err := uc.payments.GetBySID(ctx, query.SID)
	if err != nil {
		uc.logger.Errorw("failed to load payment", "payment_sid", query.SID, "error", err)
		return nil, errors.NewInternalError("failed to load payment")
	}
	if p == nil || p.TenantID() != query.Actor.TenantID {
		return nil, errors.NewNotFoundError("payment not found")
	}
	return p, nil
}

func (uc *PollPaymentUseCase) reload(ctx context.Context, query PollPaymentQuery) (*dto.PaymentDTO, error) {
	p, err := uc.load(ctx, query)
	if err != nil {
		return nil, err
	}
	return dto.ToPaymentDTO(p), nil
}
