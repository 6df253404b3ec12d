package billing

import (
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/usecases"
	subusecases "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/subscription/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
)

type InitiatePaymentRequest struct {
	PayerEmail string `json:"payer_email" binding:"omitempty,email"`
}

type BankTransferRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Currency    string `json:"currency" binding:"omitempty,len=3"`
	Reference   string `json:"reference" binding:"required,max=100"`
}

func (r *BankTransferRequest) ToCommand(actor authorization.Actor) usecases.ConfirmBankTransferCommand {
	return usecases.ConfirmBankTransferCommand{
		Actor:       actor,
		AmountCents: r.AmountCents,
		Currency:    r.Currency,
		Reference:   r.Reference,
	}
}

type StartTrialRequest struct {
	Plan string `json:"plan" binding:"omitempty,max=50"`
}

func (r *StartTrialRequest) ToCommand(actor authorization.Actor) subusecases.StartTrialCommand {
	return subusecases.StartTrialCommand{Actor: actor, Plan: r.Plan}
}

type SuspendRequest struct {
	Reason string `json:"reason" binding:"required,max=2000"`
}
