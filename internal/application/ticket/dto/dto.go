package dto

import (
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/mapper"
)

type TicketDTO struct {
	ID                  string     `json:"id"`
	Number              string     `json:"number"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Priority            string     `json:"priority"`
	Department          string     `json:"department"`
	Status              string     `json:"status"`
	CreatorID           uint       `json:"creator_id"`
	AssignedToID        *uint      `json:"assigned_to_id"`
	QuoteAmountCents    *int64     `json:"quote_amount_cents,omitempty"`
	QuoteDescription    string     `json:"quote_description,omitempty"`
	QuoteFileURL        string     `json:"quote_file_url,omitempty"`
	CancellationReason  string     `json:"cancellation_reason,omitempty"`
	CancelledByID       *uint      `json:"cancelled_by_id,omitempty"`
	EstimatedArrival    *time.Time `json:"estimated_arrival,omitempty"`
	EstimatedDays       *int       `json:"estimated_days,omitempty"`
	JobPlan             string     `json:"job_plan,omitempty"`
	WorkDescription     string     `json:"work_description,omitempty"`
	WorkRejectionReason string     `json:"work_rejection_reason,omitempty"`
	Rating              *int       `json:"rating,omitempty"`
	RatingComment       string     `json:"rating_comment,omitempty"`
	CompletedAt         *time.Time `json:"completed_at,omitempty"`
	ClosedAt            *time.Time `json:"closed_at,omitempty"`
	Version             int        `json:"version"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type HistoryDTO struct {
	FromStatus  string    `json:"from_status"`
	ToStatus    string    `json:"to_status"`
	ChangedByID uint      `json:"changed_by_id"`
	Reason      string    `json:"reason,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

type QuoteDTO struct {
	ContractorID uint       `json:"contractor_id"`
	Status       string     `json:"status"`
	AmountCents  int64      `json:"amount_cents"`
	Description  string     `json:"description,omitempty"`
	FileURL      string     `json:"file_url,omitempty"`
	SubmittedAt  *time.Time `json:"submitted_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

type CommentDTO struct {
	ID         string    `json:"id"`
	AuthorID   uint      `json:"author_id"`
	Body       string    `json:"body"`
	IsInternal bool      `json:"is_internal"`
	CreatedAt  time.Time `json:"created_at"`
}

func ToTicketDTO(t *ticket.Ticket) *TicketDTO {
	if t == nil {
		return nil
	}
	return &TicketDTO{
		ID:                  t.SID(),
		Number:              t.Number(),
		Title:               t.Title(),
		Description:         t.Description(),
		Priority:            t.Priority().String(),
		Department:          string(t.Department()),
		Status:              t.Status().String(),
		CreatorID:           t.UserID(),
		AssignedToID:        t.AssignedToID(),
		QuoteAmountCents:    t.QuoteAmount(),
		QuoteDescription:    t.QuoteDescription(),
		QuoteFileURL:        t.QuoteFileURL(),
		CancellationReason:  t.CancellationReason(),
		CancelledByID:       t.CancelledByID(),
		EstimatedArrival:    t.EstimatedArrival(),
		EstimatedDays:       t.EstimatedDays(),
		JobPlan:             t.JobPlan(),
		WorkDescription:     t.WorkDescription(),
		WorkRejectionReason: t.WorkRejectionReason(),
		Rating:              t.Rating(),
		RatingComment:       t.RatingComment(),
		CompletedAt:         t.CompletedAt(),
		ClosedAt:            t.ClosedAt(),
		Version:             t.Version(),
		CreatedAt:           t.CreatedAt(),
		UpdatedAt:           t.UpdatedAt(),
	}
}

func ToTicketDTOList(tickets []*ticket.Ticket) []*TicketDTO {
	return mapper.MapSlice(tickets, ToTicketDTO)
}

func ToHistoryDTO(h *ticket.StatusHistory) *HistoryDTO {
	return &HistoryDTO{
		FromStatus:  h.FromStatus().String(),
		ToStatus:    h.ToStatus().String(),
		ChangedByID: h.ChangedByID(),
		Reason:      h.Reason(),
		CreatedAt:   h.CreatedAt(),
	}
}

func ToQuoteDTO(q *ticket.QuoteRequest) *QuoteDTO {
	return &QuoteDTO{
		ContractorID: q.ContractorID(),
		Status:       q.Status().String(),
		AmountCents:  q.Amount(),
		Description:  q.Description(),
		FileURL:      q.FileURL(),
		SubmittedAt:  q.SubmittedAt(),
		CreatedAt:    q.CreatedAt(),
	}
}

func ToCommentDTO(c *ticket.Comment) *CommentDTO {
	return &CommentDTO{
		ID:         c.SID(),
		AuthorID:   c.AuthorID(),
		Body:       c.Body(),
		IsInternal: c.IsInternal(),
		CreatedAt:  c.CreatedAt(),
	}
}
