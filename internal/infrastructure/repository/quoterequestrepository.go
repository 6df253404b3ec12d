package repository

import (
	"context"
	stderrors "errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/mappers"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
)

type QuoteRequestRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewQuoteRequestRepository(db *gorm.DB) *QuoteRequestRepository {
	return &QuoteRequestRepository{db: db, mapper: mappers.NewTicketMapper()}
}

func (r *QuoteRequestRepository) Create(ctx context.Context, q *ticket.QuoteRequest) error {
	model := r.mapper.QuoteToModel(q)
	if err := db.GetTxFromContext(ctx, r.db).Create(model).Error; err != nil {
		return fmt.Errorf("failed to create quote request: %w", err)
	}
	q.SetID(model.ID)
	return nil
}

func (r *QuoteRequestRepository) Update(ctx context.Context, q *ticket.QuoteRequest) error {
	model := r.mapper.QuoteToModel(q)
	result := db.GetTxFromContext(ctx, r.db).
		Model(&models.QuoteRequestModel{}).
		Where("id = ?", model.ID).
		Updates(map[string]any{
			"status":       model.Status,
			"amount":       model.Amount,
			"description":  model.Description,
			"file_url":     model.FileURL,
			"submitted_at": model.SubmittedAt,
			"updated_at":   model.UpdatedAt,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update quote request: %w", result.Error)
	}
	return nil
}

func (r *QuoteRequestRepository) GetByTicketAndContractor(ctx context.Context, ticketID, contractorID uint) (*ticket.QuoteRequest, error) {
	var model models.QuoteRequestModel
	err := db.GetTxFromContext(ctx, r.db).
		Where("ticket_id = ? AND contractor_id = ?", ticketID, contractorID).
		First(&model).Error
	if err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find quote request: %w", err)
	}
	return r.mapper.QuoteToDomain(&model)
}

func (r *QuoteRequestRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*ticket.QuoteRequest, error) {
	return r.list(db.GetTxFromContext(ctx, r.db).Where("ticket_id = ?", ticketID))
}

func (r *QuoteRequestRepository) ListByContractor(ctx context.Context, contractorID uint) ([]*ticket.QuoteRequest, error) {
	return r.list(db.GetTxFromContext(ctx, r.db).Where("contractor_id = ?", contractorID))
}

func (r *QuoteRequestRepository) list(query *gorm.DB) ([]*ticket.QuoteRequest, error) {
	var rows []*models.QuoteRequestModel
	if err := query.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list quote requests: %w", err)
	}
	out := make([]*ticket.QuoteRequest, 0, len(rows))
	for _, row := range rows {
		q, err := r.mapper.QuoteToDomain(row)
		if err != nil {
			return nil, err
		}
		out = append(out, q)
	}
	return out, nil
}
