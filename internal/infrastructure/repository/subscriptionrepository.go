package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/mappers"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type SubscriptionRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionRepository(db *gorm.DB, logger logger.Interface) *SubscriptionRepositoryImpl {
	return &SubscriptionRepositoryImpl{db: db, logger: logger}
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, s *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(s)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		r.logger.Errorw("failed to create subscription", "tenant_id", s.TenantID(), "error", err)
		return fmt.Errorf("failed to create subscription: %w", err)
	}
	return s.SetID(model.ID)
}

func (r *SubscriptionRepositoryImpl) columns(model *models.SubscriptionModel) map[string]any {
	return map[string]any{
		"plan":                 model.Plan,
		"status":               model.Status,
		"current_period_start": model.CurrentPeriodStart,
		"current_period_end":   model.CurrentPeriodEnd,
		"grace_period_end":     model.GracePeriodEnd,
		"trial_ends_at":        model.TrialEndsAt,
		"cancelled_at":         model.CancelledAt,
		"suspended_reason":     model.SuspendedReason,
		"version":              model.Version,
		"updated_at":           model.UpdatedAt,
	}
}

func (r *SubscriptionRepositoryImpl) Update(ctx context.Context, s *subscription.Subscription) error {
	model := mappers.SubscriptionToModel(s)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND version < ?", model.ID, model.Version).
		Updates(r.columns(model))
	if result.Error != nil {
		r.logger.Errorw("failed to update subscription", "id", model.ID, "error", result.Error)
		return fmt.Errorf("failed to update subscription: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("subscription was modified concurrently")
	}
	return nil
}

func (r *SubscriptionRepositoryImpl) UpdateIfUnchanged(ctx context.Context, s *subscription.Subscription, readStatus vo.SubscriptionStatus, readVersion int) (bool, error) {
	model := mappers.SubscriptionToModel(s)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.SubscriptionModel{}).
		Where("id = ? AND status = ? AND version = ?", model.ID, readStatus.String(), readVersion).
		Updates(r.columns(model))
	if result.Error != nil {
		return false, fmt.Errorf("failed to update subscription status: %w", result.Error)
	}
	return result.RowsAffected == 1, nil
}

func (r *SubscriptionRepositoryImpl) GetByID(ctx context.Context, id uint) (*subscription.Subscription, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *SubscriptionRepositoryImpl) GetByIDForUpdate(ctx context.Context, id uint) (*subscription.Subscription, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Scopes(db.ForUpdate()).Where("id = ?", id))
}

func (r *SubscriptionRepositoryImpl) GetBySID(ctx context.Context, sid string) (*subscription.Subscription, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("sid = ?", sid))
}

func (r *SubscriptionRepositoryImpl) GetByTenant(ctx context.Context, tenantID uint) (*subscription.Subscription, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Scopes(db.TenantScoped(tenantID)))
}

// ListDue selects subscriptions whose next degradation deadline has passed:
// the trial end for trials, the period end for active ones and the grace
// end for subscriptions in grace.
func (r *SubscriptionRepositoryImpl) ListDue(ctx context.Context, now time.Time, afterID uint, limit int) ([]*subscription.Subscription, error) {
	ms := now.UnixMilli()
	var rows []*models.SubscriptionModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("id > ?", afterID).
		Where(
			r.db.Where("status = ? AND COALESCE(trial_ends_at, current_period_end) < ?", vo.StatusTrial.String(), ms).
				Or("status = ? AND current_period_end < ?", vo.StatusActive.String(), ms).
				Or("status = ? AND grace_period_end < ?", vo.StatusGrace.String(), ms),
		).
		Order("id ASC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list due subscriptions: %w", err)
	}

	out := make([]*subscription.Subscription, 0, len(rows))
	for _, row := range rows {
		s, err := mappers.SubscriptionToDomain(row)
		if err != nil {
			r.logger.Warnw("skipping unreadable subscription", "id", row.ID, "error", err)
			continue
		}
		out = append(out, s)
	}
	return out, nil
}

func (r *SubscriptionRepositoryImpl) first(query *gorm.DB) (*subscription.Subscription, error) {
	var model models.SubscriptionModel
	if err := query.First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find subscription: %w", err)
	}
	return mappers.SubscriptionToDomain(&model)
}
