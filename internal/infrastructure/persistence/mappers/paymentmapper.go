package mappers

import (
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
)

func PaymentToModel(p *payment.Payment) (*models.PaymentModel, error) {
	response, err := marshalJSON(p.ProviderResponse())
	if err != nil {
		return nil, fmt.Errorf("failed to encode provider response: %w", err)
	}
	return &models.PaymentModel{
		ID:                p.ID(),
		SID:               p.SID(),
		TenantID:          p.TenantID(),
		SubscriptionID:    p.SubscriptionID(),
		AmountCents:       p.AmountCents(),
		Currency:          p.Currency(),
		Status:            p.Status().String(),
		Provider:          p.Provider().String(),
		Reference:         p.Reference(),
		ProviderPaymentID: p.ProviderPaymentID(),
		PollURL:           p.PollURL(),
		RedirectURL:       p.RedirectURL(),
		FailureReason:     p.FailureReason(),
		ProviderResponse:  response,
		PaidAt:            toMilliPtr(p.PaidAt()),
		Version:           p.Version(),
		CreatedAt:         toMilli(p.CreatedAt()),
		UpdatedAt:         toMilli(p.UpdatedAt()),
	}, nil
}

func PaymentToDomain(model *models.PaymentModel) (*payment.Payment, error) {
	if model == nil {
		return nil, nil
	}
	var response map[string]any
	if len(model.ProviderResponse) > 0 {
		if err := json.Unmarshal(model.ProviderResponse, &response); err != nil {
			return nil, fmt.Errorf("failed to decode provider response of payment %d: %w", model.ID, err)
		}
	}
	return payment.ReconstructPayment(payment.ReconstructParams{
		ID:                model.ID,
		SID:               model.SID,
		TenantID:          model.TenantID,
		SubscriptionID:    model.SubscriptionID,
		AmountCents:       model.AmountCents,
		Currency:          model.Currency,
		Status:            vo.PaymentStatus(model.Status),
		Provider:          vo.Provider(model.Provider),
		Reference:         model.Reference,
		ProviderPaymentID: model.ProviderPaymentID,
		PollURL:           model.PollURL,
		RedirectURL:       model.RedirectURL,
		FailureReason:     model.FailureReason,
		ProviderResponse:  response,
		PaidAt:            fromMilliPtr(model.PaidAt),
		Version:           model.Version,
		CreatedAt:         fromMilli(model.CreatedAt),
		UpdatedAt:         fromMilli(model.UpdatedAt),
	})
}

func marshalJSON(v any) (datatypes.JSON, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}
