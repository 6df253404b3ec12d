package usecases

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/paymentgateway"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	subvo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type InitiatePaymentCommand struct {
	Actor      authorization.Actor
	PayerEmail string
}

type InitiatePaymentResult struct {
	Payment     *dto.PaymentDTO `json:"payment"`
	RedirectURL string          `json:"redirect_url"`
}

// InitiatePaymentUseCase starts a subscription payment with the gateway. The
// pending payment is committed before the provider is called so that a lost
// response can still be reconciled by the webhook or a poll.
type InitiatePaymentUseCase struct {
	payments      payment.PaymentRepository
	subscriptions subscription.SubscriptionRepository
	gateway       paymentgateway.PaymentGateway
	price         money.Money
	logger        logger.Interface
}

func NewInitiatePaymentUseCase(
	payments payment.PaymentRepository,
	subscriptions subscription.SubscriptionRepository,
	gateway paymentgateway.PaymentGateway,
	price money.Money,
	logger logger.Interface,
) *InitiatePaymentUseCase {
	return &InitiatePaymentUseCase{
		payments:      payments,
		subscriptions: subscriptions,
		gateway:       gateway,
		price:         price,
		logger:        logger,
	}
}

func (uc *InitiatePaymentUseCase) Execute(ctx context.Context, cmd InitiatePaymentCommand) (*InitiatePaymentResult, error) {
	uc.logger.Infow("executing initiate payment use case", "tenant_id", cmd.Actor.TenantID, "user_id", cmd.Actor.UserID)

	if !cmd.Actor.Role.IsBillingAdmin() {
		return nil, errors.NewForbiddenError("only tenant admins can pay for the subscription")
	}
	sub, err := uc.subscriptions.GetByTenant(ctx, cmd.Actor.TenantID)
	if err != nil {
		uc.logger.Errorw("failed to load subscription", "tenant_id", cmd.Actor.TenantID, "error", err)
		return nil, errors.NewInternalError("failed to initiate payment")
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}
	if sub.Status() == subvo.StatusCancelled {
		return nil, subscription.ErrNotRenewable
	}

	now := biztime.NowUTC()
	p, err := payment.NewPayment(sub.TenantID(), sub.ID(), uc.price, uc.gateway.Provider(), now)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	sid, err := newPaymentSID()
	if err != nil {
		return nil, errors.NewInternalError("failed to initiate payment")
	}
	if err := p.AssignSID(sid); err != nil {
		return nil, errors.NewInternalError("failed to initiate payment")
	}
	if err := uc.payments.Create(ctx, p); err != nil {
		uc.logger.Errorw("failed to create payment", "error", err)
		return nil, errors.NewInternalError("failed to initiate payment")
	}

	resp, err := uc.gateway.CreatePayment(ctx, paymentgateway.CreatePaymentRequest{
		Reference:   p.Reference(),
		AmountCents: p.AmountCents(),
		Currency:    p.Currency(),
		Description: fmt.Sprintf("TickTrack %s subscription", sub.Plan()),
		PayerEmail:  cmd.PayerEmail,
	})
	if err != nil {
		uc.logger.Errorw("payment gateway call failed, payment left pending",
			"payment_sid", p.SID(), "error", err)
		if errors.IsAppError(err) {
			return nil, err
		}
		return nil, errors.NewProviderError("payment provider unavailable")
	}

	p.AttachGateway(resp.PollURL, resp.RedirectURL, biztime.NowUTC())
	if err := uc.payments.Update(ctx, p); err != nil {
		uc.logger.Errorw("failed to store gateway details", "payment_sid", p.SID(), "error", err)
		return nil, errors.NewInternalError("failed to initiate payment")
	}

	uc.logger.Infow("payment initiated", "payment_sid", p.SID(), "reference", p.Reference())
	return &InitiatePaymentResult{Payment: dto.ToPaymentDTO(p), RedirectURL: resp.RedirectURL}, nil
}
