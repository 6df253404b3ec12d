package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type ListPaymentsQuery struct {
	Actor authorization.Actor
}

type ListPaymentsUseCase struct {
	payments      payment.PaymentRepository
	subscriptions subscription.SubscriptionRepository
	logger        logger.Interface
}

func NewListPaymentsUseCase(payments payment.PaymentRepository, subscriptions subscription.SubscriptionRepository, logger logger.Interface) *ListPaymentsUseCase {
	return &ListPaymentsUseCase{payments: payments, subscriptions: subscriptions, logger: logger}
}

func (uc *ListPaymentsUseCase) Execute(ctx context.Context, query ListPaymentsQuery) ([]*dto.PaymentDTO, error) {
	if !query.Actor.Role.IsBillingAdmin() {
		return nil, errors.NewForbiddenError("only tenant admins can view payments")
	}
	sub, err := uc.subscriptions.GetByTenant(ctx, query.Actor.TenantID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription", "tenant_id", query.Actor.TenantID, "error", err)
		return nil, errors.NewInternalError("failed to list payments")
	}
	if sub == nil {
		return []*dto.PaymentDTO{}, nil
	}
	payments, err := uc.payments.ListBySubscription(ctx, sub.ID())
	if err != nil {
		uc.logger.Errorw("failed to list payments", "subscription_id", sub.ID(), "error", err)
		return nil, errors.NewInternalError("failed to list payments")
	}
	return dto.ToPaymentDTOList(payments), nil
}
