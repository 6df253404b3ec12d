package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/mappers"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
)

// TicketHistoryRepository stores the append-only status trail of tickets.
type TicketHistoryRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketHistoryRepository(db *gorm.DB) *TicketHistoryRepository {
	return &TicketHistoryRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *TicketHistoryRepository) Append(ctx context.Context, h *ticket.StatusHistory) error {
	model := r.mapper.HistoryToModel(h)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to append status history: %w", err)
	}
	h.SetID(model.ID)
	return nil
}

func (r *TicketHistoryRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.StatusHistory, error) {
	var rows []*models.TicketStatusHistoryModel
	if err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ?", ticketID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	out := make([]*ticket.StatusHistory, len(rows))
	for i, row := range rows {
		out[i] = r.mapper.HistoryToDomain(row)
	}
	return out, nil
}

func (r *TicketHistoryRepository) CountByTicket(ctx context.Context, ticketID uint) (int64, error) {
	var n int64
	if err := db.GetTxFromContext(ctx, r.db).
		Model(&models.TicketStatusHistoryModel{}).
		Where("ticket_id = ?", ticketID).
		Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count status history: %w", err)
	}
	return n, nil
}
