package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils/logutil"
)

type ConfirmBankTransferCommand struct {
	Actor       authorization.Actor
	AmountCents int64
	Currency    string
	Reference   string
}

// ConfirmBankTransferUseCase records a manually verified transfer. The bank
// reference is the idempotency key, so confirming twice credits once.
type ConfirmBankTransferUseCase struct {
	settler  *Settler
	currency string
	logger   logger.Interface
}

func NewConfirmBankTransferUseCase(settler *Settler, currency string, logger logger.Interface) *ConfirmBankTransferUseCase {
	return &ConfirmBankTransferUseCase{settler: settler, currency: currency, logger: logger}
}

func (uc *ConfirmBankTransferUseCase) Execute(ctx context.Context, cmd ConfirmBankTransferCommand) (*IngestResult, error) {
	uc.logger.Infow("executing confirm bank transfer use case",
		"tenant_id", cmd.Actor.TenantID,
		"user_id", cmd.Actor.UserID,
		"reference", logutil.MaskReference(cmd.Reference))

	if !cmd.Actor.Role.IsBillingAdmin() {
		return nil, errors.NewForbiddenError("only tenant admins can confirm bank transfers")
	}
	ref := strings.TrimSpace(cmd.Reference)
	if ref == "" {
		return nil, errors.NewValidationError("bank reference is required")
	}
	if cmd.AmountCents <= 0 {
		return nil, errors.NewValidationError("amount must be positive")
	}
	currency := cmd.Currency
	if currency == "" {
		currency = uc.currency
	}

	cb := &payment.Callback{
		Provider:          vo.ProviderBankTransfer,
		Reference:         ref,
		ProviderReference: ref,
		AmountCents:       cmd.AmountCents,
		RawStatus:         "Confirmed",
		Outcome:           vo.OutcomeSuccess,
		Fields:            map[string]string{"reference": ref, "confirmed_by": fmt.Sprint(cmd.Actor.UserID)},
	}
	amount := money.New(cmd.AmountCents, currency)

	resolve := func(ctx context.Context) (*payment.Payment, error) {
		s := uc.settler
		existing, err := s.payments.GetByProviderReference(ctx, vo.ProviderBankTransfer, ref)
		if err != nil {
			return nil, fmt.Errorf("failed to load payment: %w", err)
		}
		if existing != nil {
			if existing.TenantID() != cmd.Actor.TenantID {
				return nil, errors.NewConflictError("bank reference already used")
			}
			return existing, nil
		}
		sub, err := s.subscriptions.GetByTenant(ctx, cmd.Actor.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to load subscription: %w", err)
		}
		if sub == nil {
			return nil, errors.NewNotFoundError("subscription not found")
		}
		return s.createPending(ctx, sub.ID(), cb, amount, func(p *payment.Payment) error {
			p.UseReference(ref)
			sid, err := newPaymentSID()
			if err != nil {
				return err
			}
			return p.AssignSID(sid)
		})
	}
	return uc.settler.settle(ctx, cb, resolve)
}
