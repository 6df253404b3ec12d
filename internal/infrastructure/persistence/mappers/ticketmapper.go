package mappers

import (
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/mapper"
)

// TicketMapper handles the conversion between ticket domain entities and persistence models.
type TicketMapper interface {
	// ToModel converts a ticket domain entity to a persistence model.
	ToModel(t *ticket.Ticket) *models.TicketModel

	// ToDomain converts a ticket persistence model to a domain entity.
	ToDomain(model *models.TicketModel) (*ticket.Ticket, error)

	// ToDomainList converts ticket models, failing on the first bad row.
	ToDomainList(models []*models.TicketModel) ([]*ticket.Ticket, error)

	HistoryToModel(h *ticket.StatusHistory) *models.TicketStatusHistoryModel
	HistoryToDomain(model *models.TicketStatusHistoryModel) *ticket.StatusHistory

	CommentToModel(c *ticket.Comment) *models.CommentModel
	CommentToDomain(model *models.CommentModel) *ticket.Comment

	QuoteToModel(q *ticket.QuoteRequest) *models.QuoteRequestModel
	QuoteToDomain(model *models.QuoteRequestModel) (*ticket.QuoteRequest, error)
}

// TicketMapperImpl is the concrete implementation of TicketMapper.
type TicketMapperImpl struct{}

// NewTicketMapper creates a new TicketMapper.
func NewTicketMapper() TicketMapper {
	return &TicketMapperImpl{}
}

func (m *TicketMapperImpl) ToModel(t *ticket.Ticket) *models.TicketModel {
	return &models.TicketModel{
		ID:                  t.ID(),
		SID:                 t.SID(),
		Number:              t.Number(),
		TenantID:            t.TenantID(),
		Title:               t.Title(),
		Description:         t.Description(),
		Priority:            t.Priority().String(),
		Department:          string(t.Department()),
		Status:              t.Status().String(),
		UserID:              t.UserID(),
		AssignedToID:        t.AssignedToID(),
		QuoteAmount:         t.QuoteAmount(),
		QuoteDescription:    t.QuoteDescription(),
		QuoteFileURL:        t.QuoteFileURL(),
		CancellationReason:  t.CancellationReason(),
		CancelledByID:       t.CancelledByID(),
		EstimatedArrival:    toMilliPtr(t.EstimatedArrival()),
		EstimatedDays:       t.EstimatedDays(),
		JobPlan:             t.JobPlan(),
		WorkDescription:     t.WorkDescription(),
		WorkRejectionReason: t.WorkRejectionReason(),
		Rating:              t.Rating(),
		RatingComment:       t.RatingComment(),
		CompletedAt:         toMilliPtr(t.CompletedAt()),
		ClosedAt:            toMilliPtr(t.ClosedAt()),
		Version:             t.Version(),
		CreatedAt:           toMilli(t.CreatedAt()),
		UpdatedAt:           toMilli(t.UpdatedAt()),
	}
}

func (m *TicketMapperImpl) ToDomain(model *models.TicketModel) (*ticket.Ticket, error) {
	if model == nil {
		return nil, nil
	}
	department, ok := authorization.ParseDepartment(model.Department)
	if !ok {
		return nil, fmt.Errorf("invalid department %q on ticket %d", model.Department, model.ID)
	}
	return ticket.ReconstructTicket(ticket.ReconstructParams{
		ID:                  model.ID,
		SID:                 model.SID,
		Number:              model.Number,
		TenantID:            model.TenantID,
		Title:               model.Title,
		Description:         model.Description,
		Priority:            vo.Priority(model.Priority),
		Department:          department,
		Status:              vo.TicketStatus(model.Status),
		UserID:              model.UserID,
		AssignedToID:        model.AssignedToID,
		QuoteAmount:         model.QuoteAmount,
		QuoteDescription:    model.QuoteDescription,
		QuoteFileURL:        model.QuoteFileURL,
		CancellationReason:  model.CancellationReason,
		CancelledByID:       model.CancelledByID,
		EstimatedArrival:    fromMilliPtr(model.EstimatedArrival),
		EstimatedDays:       model.EstimatedDays,
		JobPlan:             model.JobPlan,
		WorkDescription:     model.WorkDescription,
		WorkRejectionReason: model.WorkRejectionReason,
		Rating:              model.Rating,
		RatingComment:       model.RatingComment,
		CompletedAt:         fromMilliPtr(model.CompletedAt),
		ClosedAt:            fromMilliPtr(model.ClosedAt),
		Version:             model.Version,
		CreatedAt:           fromMilli(model.CreatedAt),
		UpdatedAt:           fromMilli(model.UpdatedAt),
	})
}

func (m *TicketMapperImpl) ToDomainList(list []*models.TicketModel) ([]*ticket.Ticket, error) {
	return mapper.MapSliceWithError(list, m.ToDomain)
}

func (m *TicketMapperImpl) HistoryToModel(h *ticket.StatusHistory) *models.TicketStatusHistoryModel {
	return &models.TicketStatusHistoryModel{
		ID:          h.ID(),
		TicketID:    h.TicketID(),
		FromStatus:  h.FromStatus().String(),
		ToStatus:    h.ToStatus().String(),
		ChangedByID: h.ChangedByID(),
		Reason:      h.Reason(),
		CreatedAt:   toMilli(h.CreatedAt()),
	}
}

func (m *TicketMapperImpl) HistoryToDomain(model *models.TicketStatusHistoryModel) *ticket.StatusHistory {
	return ticket.ReconstructStatusHistory(
		model.ID,
		model.TicketID,
		vo.TicketStatus(model.FromStatus),
		vo.TicketStatus(model.ToStatus),
		model.ChangedByID,
		model.Reason,
		fromMilli(model.CreatedAt),
	)
}

func (m *TicketMapperImpl) CommentToModel(c *ticket.Comment) *models.CommentModel {
	return &models.CommentModel{
		ID:         c.ID(),
		SID:        c.SID(),
		TicketID:   c.TicketID(),
		AuthorID:   c.AuthorID(),
		Body:       c.Body(),
		IsInternal: c.IsInternal(),
		CreatedAt:  toMilli(c.CreatedAt()),
	}
}

func (m *TicketMapperImpl) CommentToDomain(model *models.CommentModel) *ticket.Comment {
	return ticket.ReconstructComment(
		model.ID,
		model.SID,
		model.TicketID,
		model.AuthorID,
		model.Body,
		model.IsInternal,
		fromMilli(model.CreatedAt),
	)
}

func (m *TicketMapperImpl) QuoteToModel(q *ticket.QuoteRequest) *models.QuoteRequestModel {
	return &models.QuoteRequestModel{
		ID:           q.ID(),
		TicketID:     q.TicketID(),
		ContractorID: q.ContractorID(),
		Status:       q.Status().String(),
		Amount:       q.Amount(),
		Description:  q.Description(),
		FileURL:      q.FileURL(),
		SubmittedAt:  toMilliPtr(q.SubmittedAt()),
		CreatedAt:    toMilli(q.CreatedAt()),
		UpdatedAt:    toMilli(q.UpdatedAt()),
	}
}

func (m *TicketMapperImpl) QuoteToDomain(model *models.QuoteRequestModel) (*ticket.QuoteRequest, error) {
	return ticket.ReconstructQuoteRequest(ticket.QuoteRequestParams{
		ID:           model.ID,
		TicketID:     model.TicketID,
		ContractorID: model.ContractorID,
		Status:       vo.QuoteStatus(model.Status),
		Amount:       model.Amount,
		Description:  model.Description,
		FileURL:      model.FileURL,
		SubmittedAt:  fromMilliPtr(model.SubmittedAt),
		CreatedAt:    fromMilli(model.CreatedAt),
		UpdatedAt:    fromMilli(model.UpdatedAt),
	})
}
