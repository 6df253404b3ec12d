package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/mappers"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
)

type OutboxRepository struct {
	db *gorm.DB
}

func NewOutboxRepository(db *gorm.DB) *OutboxRepository {
	return &OutboxRepository{db: db}
}

func (r *OutboxRepository) Append(ctx context.Context, entries ...*notification.OutboxEntry) error {
	if len(entries) == 0 {
		return nil
	}
	rows := make([]*models.OutboxModel, len(entries))
	for i, e := range entries {
		model, err := mappers.OutboxToModel(e)
		if err != nil {
			return err
		}
		rows[i] = model
	}
	if err := db.GetTxFromContext(ctx, r.db).Create(&rows).Error; err != nil {
		return fmt.Errorf("failed to append outbox entries: %w", err)
	}
	for i, e := range entries {
		e.SetID(rows[i].ID)
	}
	return nil
}

// ClaimDue leases due entries by pushing next_attempt_at past the lease. The
// conditional lease write means a row is claimed by exactly one relay even
// when several poll at once.
func (r *OutboxRepository) ClaimDue(ctx context.Context, now time.Time, lease time.Duration, limit int) ([]*notification.OutboxEntry, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	nowMs := now.UnixMilli()
	leaseUntil := now.Add(lease).UnixMilli()

	var candidates []*models.OutboxModel
	if err := tx.Where("status = ? AND next_attempt_at <= ?", string(notification.OutboxPending), nowMs).
		Order("next_attempt_at ASC").Order("id ASC").
		Limit(limit).
		Find(&candidates).Error; err != nil {
		return nil, fmt.Errorf("failed to select due outbox entries: %w", err)
	}

	claimed := make([]*notification.OutboxEntry, 0, len(candidates))
	for _, row := range candidates {
		result := tx.Model(&models.OutboxModel{}).
			Where("id = ? AND status = ? AND next_attempt_at = ?", row.ID, string(notification.OutboxPending), row.NextAttemptAt).
			Update("next_attempt_at", leaseUntil)
		if result.Error != nil {
			return nil, fmt.Errorf("failed to lease outbox entry: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			continue
		}
		row.NextAttemptAt = leaseUntil
		e, err := mappers.OutboxToDomain(row)
		if err != nil {
			return nil, err
		}
		claimed = append(claimed, e)
	}
	return claimed, nil
}

func (r *OutboxRepository) Update(ctx context.Context, e *notification.OutboxEntry) error {
	model, err := mappers.OutboxToModel(e)
	if err != nil {
		return err
	}
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.OutboxModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":          model.Status,
			"attempts":        model.Attempts,
			"next_attempt_at": model.NextAttemptAt,
			"last_error":      model.LastError,
			"sent_at":         model.SentAt,
		}).Error; err != nil {
		return fmt.Errorf("failed to update outbox entry: %w", err)
	}
	return nil
}

func (r *OutboxRepository) CountByStatus(ctx context.Context, status notification.OutboxStatus) (int64, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.OutboxModel{}).
		Where("status = ?", string(status)).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count outbox entries: %w", err)
	}
	return n, nil
}
