package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/mappers"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

type PaymentRepository struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Create(ctx context.Context, p *payment.Payment) error {
	model, err := mappers.PaymentToModel(p)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create payment: %w", err)
	}

	// Write back the auto-generated ID to the domain object
	return p.SetID(model.ID)
}

func (r *PaymentRepository) updates(model *models.PaymentModel) map[string]any {
	return map[string]any{
		"status":              model.Status,
		"reference":           model.Reference,
		"provider_payment_id": model.ProviderPaymentID,
		"poll_url":            model.PollURL,
		"redirect_url":        model.RedirectURL,
		"failure_reason":      model.FailureReason,
		"provider_response":   model.ProviderResponse,
		"paid_at":             model.PaidAt,
		"version":             model.Version,
		"updated_at":          model.UpdatedAt,
	}
}

func (r *PaymentRepository) Update(ctx context.Context, p *payment.Payment) error {
	model, err := mappers.PaymentToModel(p)
	if err != nil {
		return err
	}
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ? AND version < ?", model.ID, model.Version).
		Updates(r.updates(model))
	if result.Error != nil {
		return fmt.Errorf("failed to update payment: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("payment was modified concurrently")
	}
	return nil
}

// MarkSucceeded is the conditional success write. It reports false when the
// stored row was already successful, in which case nothing is written.
func (r *PaymentRepository) MarkSucceeded(ctx context.Context, p *payment.Payment) (bool, error) {
	model, err := mappers.PaymentToModel(p)
	if err != nil {
		return false, err
	}
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.PaymentModel{}).
		Where("id = ? AND status <> ?", model.ID, vo.PaymentStatusSuccess.String()).
		Updates(r.updates(model))
	if result.Error != nil {
		return false, fmt.Errorf("failed to mark payment succeeded: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *PaymentRepository) GetBySID(ctx context.Context, sid string) (*payment.Payment, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid))
}

func (r *PaymentRepository) GetBySIDForUpdate(ctx context.Context, sid string) (*payment.Payment, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()).Where("sid = ?", sid))
}

func (r *PaymentRepository) GetByProviderReference(ctx context.Context, provider vo.Provider, ref string) (*payment.Payment, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).
		Where("provider = ? AND provider_payment_id = ?", provider.String(), ref))
}

func (r *PaymentRepository) ListBySubscription(ctx context.Context, subscriptionID uint) ([]*payment.Payment, error) {
	var rows []*models.PaymentModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("subscription_id = ?", subscriptionID).
		Order("created_at DESC").Order("id DESC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	out := make([]*payment.Payment, 0, len(rows))
	for _, row := range rows {
		p, err := mappers.PaymentToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *PaymentRepository) first(query *gorm.DB) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := query.First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find payment: %w", err)
	}
	return mappers.PaymentToDomain(&model)
}

// WebhookLedger is the processed_webhooks table. The unique key on
// (provider, provider_reference, status) makes a redelivery a no-op insert.
type WebhookLedger struct {
	db *gorm.DB
}

func NewWebhookLedger(db *gorm.DB) *WebhookLedger {
	return &WebhookLedger{db: db}
}

func (l *WebhookLedger) Record(ctx context.Context, provider vo.Provider, providerRef string, outcome vo.Outcome) (bool, error) {
	result := db.GetTxFromContext(ctx, l.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&models.ProcessedWebhookModel{
			Provider:          provider.String(),
			ProviderReference: providerRef,
			Status:            string(outcome),
			CreatedAt:         biztime.NowUTC().UnixMilli(),
		})
	if result.Error != nil {
		if errors.IsDuplicateError(result.Error) {
			return false, nil
		}
		return false, fmt.Errorf("failed to record webhook delivery: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}
