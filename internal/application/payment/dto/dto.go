package dto

import (
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/mapper"
)

type PaymentDTO struct {
	ID                string     `json:"id"`
	SubscriptionID    uint       `json:"subscription_id"`
	AmountCents       int64      `json:"amount_cents"`
	Amount            string     `json:"amount"`
	Currency          string     `json:"currency"`
	Status            string     `json:"status"`
	Provider          string     `json:"provider"`
	Reference         string     `json:"reference"`
	ProviderReference string     `json:"provider_reference,omitempty"`
	RedirectURL       string     `json:"redirect_url,omitempty"`
	FailureReason     string     `json:"failure_reason,omitempty"`
	PaidAt            *time.Time `json:"paid_at,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
}

func ToPaymentDTO(p *payment.Payment) *PaymentDTO {
	if p == nil {
		return nil
	}
	out := &PaymentDTO{
		ID:             p.SID(),
		SubscriptionID: p.SubscriptionID(),
		AmountCents:    p.AmountCents(),
		Amount:         p.Amount().String(),
		Currency:       p.Currency(),
		Status:         p.Status().String(),
		Provider:       p.Provider().String(),
		Reference:      p.Reference(),
		RedirectURL:    p.RedirectURL(),
		FailureReason:  p.FailureReason(),
		PaidAt:         p.PaidAt(),
		CreatedAt:      p.CreatedAt(),
	}
	if ref := p.ProviderPaymentID(); ref != nil {
		out.ProviderReference = *ref
	}
	return out
}

func ToPaymentDTOList(payments []*payment.Payment) []*PaymentDTO {
	return mapper.MapSlice(payments, ToPaymentDTO)
}
