package repository

import (
	"context"
	stderrors "errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/mappers"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

// allowedTicketOrderByFields defines the whitelist of allowed ORDER BY fields
// to prevent SQL injection attacks.
var allowedTicketOrderByFields = map[string]bool{
	"id":         true,
	"number":     true,
	"title":      true,
	"status":     true,
	"priority":   true,
	"department": true,
	"created_at": true,
	"updated_at": true,
}

// ticketImmutableColumns are never rewritten by an update.
var ticketImmutableColumns = []string{"id", "sid", "number", "tenant_id", "user_id", "created_at"}

type TicketRepository struct {
	db     *gorm.DB
	mapper mappers.TicketMapper
}

func NewTicketRepository(db *gorm.DB) *TicketRepository {
	return &TicketRepository{
		db:     db,
		mapper: mappers.NewTicketMapper(),
	}
}

func (r *TicketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	if err := tx.Create(model).Error; err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return t.SetID(model.ID)
}

// Update writes every mutable column while the stored version is still below
// the new one. Domain methods bump the version once per change, so a row
// written by a concurrent request fails the condition.
func (r *TicketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).
		Where("id = ? AND version < ?", model.ID, model.Version).
		Select("*").
		Omit(ticketImmutableColumns...).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to update ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("ticket was modified concurrently, reload and retry")
	}
	return nil
}

// UpdateAssignment lets exactly one of several concurrent assigners win: the
// write only matches while the row is unassigned and in the expected status.
func (r *TicketRepository) UpdateAssignment(ctx context.Context, t *ticket.Ticket, expectedStatus vo.TicketStatus) error {
	model := r.mapper.ToModel(t)
	tx := db.GetTxFromContext(ctx, r.db)

	result := tx.Model(&models.TicketModel{}).
		Where("id = ? AND status = ? AND assigned_to_id IS NULL", model.ID, expectedStatus.String()).
		Select("*").
		Omit(ticketImmutableColumns...).
		Updates(model)
	if result.Error != nil {
		return fmt.Errorf("failed to assign ticket: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.NewConflictError("ticket has already been assigned")
	}
	return nil
}

func (r *TicketRepository) GetByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).Where("id = ?", id))
}

func (r *TicketRepository) GetBySID(ctx context.Context, tenantID uint, sid string) (*ticket.Ticket, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).
		Scopes(db.TenantScoped(tenantID)).
		Where("sid = ?", sid))
}

func (r *TicketRepository) GetBySIDForUpdate(ctx context.Context, tenantID uint, sid string) (*ticket.Ticket, error) {
	return r.first(db.GetTxFromContext(ctx, r.db).
		Scopes(db.TenantScoped(tenantID), db.ForUpdate()).
		Where("sid = ?", sid))
}

func (r *TicketRepository) first(query *gorm.DB) (*ticket.Ticket, error) {
	var model models.TicketModel
	if err := query.First(&model).Error; err != nil {
		if stderrors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to find ticket: %w", err)
	}
	return r.mapper.ToDomain(&model)
}

func (r *TicketRepository) List(ctx context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	tx := db.GetTxFromContext(ctx, r.db)
	query := tx.Model(&models.TicketModel{}).Scopes(db.TenantScoped(filter.TenantID))

	if filter.Status != nil {
		query = query.Where("status = ?", filter.Status.String())
	}
	if filter.Priority != nil {
		query = query.Where("priority = ?", filter.Priority.String())
	}
	if filter.Department != nil {
		query = query.Where("department = ?", string(*filter.Department))
	}
	if filter.Departments != nil {
		names := make([]string, len(filter.Departments))
		for i, d := range filter.Departments {
			names[i] = string(d)
		}
		query = query.Where("department IN ?", names)
	}
	if filter.CreatorID != nil {
		query = query.Where("user_id = ?", *filter.CreatorID)
	}
	if filter.AssigneeID != nil {
		query = query.Where("assigned_to_id = ?", *filter.AssigneeID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count tickets: %w", err)
	}

	// Apply sorting with whitelist validation to prevent SQL injection
	sortBy := strings.ToLower(filter.SortBy)
	if sortBy != "" && allowedTicketOrderByFields[sortBy] {
		order := strings.ToUpper(filter.SortOrder)
		if order != "ASC" && order != "DESC" {
			order = "DESC"
		}
		query = query.Order(sortBy + " " + order).Order("id DESC")
	} else {
		query = query.Order("created_at DESC").Order("id DESC")
	}

	if filter.PageSize > 0 {
		query = query.Scopes(db.Paginate(filter.Page, filter.PageSize))
	}

	var ticketModels []*models.TicketModel
	if err := query.Find(&ticketModels).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets, err := r.mapper.ToDomainList(ticketModels)
	if err != nil {
		return nil, 0, err
	}
	return tickets, total, nil
}
