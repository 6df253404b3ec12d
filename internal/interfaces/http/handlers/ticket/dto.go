package ticket

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

type CreateTicketRequest struct {
	Title       string `json:"title" binding:"required,max=200"`
	Description string `json:"description" binding:"required,max=5000"`
	Priority    string `json:"priority" binding:"required"`
	Department  string `json:"department" binding:"required"`
}

func (r *CreateTicketRequest) ToCommand(actor authorization.Actor) usecases.CreateTicketCommand {
	return usecases.CreateTicketCommand{
		Actor:       actor,
		Title:       r.Title,
		Description: r.Description,
		Priority:    r.Priority,
		Department:  r.Department,
	}
}

// TransitionRequest accepts either an action name or a target status, plus
// the payload fields the target edge needs.
type TransitionRequest struct {
	Action           string     `json:"action"`
	Status           string     `json:"status"`
	Reason           string     `json:"reason" binding:"max=2000"`
	JobPlan          string     `json:"job_plan" binding:"max=5000"`
	EstimatedArrival *time.Time `json:"estimated_arrival"`
	EstimatedDays    *int       `json:"estimated_days" binding:"omitempty,gte=0"`
	WorkDescription  string     `json:"work_description" binding:"max=5000"`
	RejectionReason  string     `json:"rejection_reason" binding:"max=2000"`
	Rating           *int       `json:"rating" binding:"omitempty,gte=1,lte=5"`
	RatingComment    string     `json:"rating_comment" binding:"max=2000"`
	AssigneeID       uint       `json:"assignee_id"`
	ContractorID     uint       `json:"contractor_id"`
	ContractorIDs    []uint     `json:"contractor_ids"`
	QuoteAmountCents int64      `json:"quote_amount_cents" binding:"gte=0"`
	QuoteDescription string     `json:"quote_description" binding:"max=5000"`
	QuoteFileURL     string     `json:"quote_file_url" binding:"max=500"`
}

func (r *TransitionRequest) Validate() error {
	if r.Action == "" && r.Status == "" {
		return errors.NewValidationError("action or status is required")
	}
	return nil
}

func (r *TransitionRequest) ToRequest(actor authorization.Actor, sid string) usecases.TransitionRequest {
	return usecases.TransitionRequest{
		Actor:            actor,
		SID:              sid,
		Action:           r.Action,
		Status:           r.Status,
		Reason:           r.Reason,
		JobPlan:          r.JobPlan,
		EstimatedArrival: r.EstimatedArrival,
		EstimatedDays:    r.EstimatedDays,
		WorkDescription:  r.WorkDescription,
		RejectionReason:  r.RejectionReason,
		Rating:           r.Rating,
		RatingComment:    r.RatingComment,
		AssigneeID:       r.AssigneeID,
		ContractorID:     r.ContractorID,
		ContractorIDs:    r.ContractorIDs,
		QuoteAmountCents: r.QuoteAmountCents,
		QuoteDescription: r.QuoteDescription,
		QuoteFileURL:     r.QuoteFileURL,
	}
}

type ReasonRequest struct {
	Reason string `json:"reason" binding:"max=2000"`
}

type AssignTicketRequest struct {
	AssigneeID uint `json:"assignee_id" binding:"required"`
}

type RequestQuoteRequest struct {
	ContractorIDs []uint `json:"contractor_ids" binding:"required,min=1,dive,gt=0"`
}

type SubmitQuoteRequest struct {
	AmountCents int64  `json:"amount_cents" binding:"required,gt=0"`
	Description string `json:"description" binding:"required,max=5000"`
	FileURL     string `json:"file_url" binding:"omitempty,max=500"`
}

type ApproveQuoteRequest struct {
	ContractorID uint `json:"contractor_id" binding:"required"`
}

type AddCommentRequest struct {
	Body       string `json:"body" binding:"required,max=10000"`
	IsInternal bool   `json:"is_internal"`
}

func parseListTicketsQuery(c *gin.Context, actor authorization.Actor) (usecases.ListTicketsQuery, error) {
	p := utils.ParsePagination(c)
	query := usecases.ListTicketsQuery{
		Actor:      actor,
		Status:     c.Query("status"),
		Priority:   c.Query("priority"),
		Department: c.Query("department"),
		Page:       p.Page,
		PageSize:   p.PageSize,
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}

	assigneeID, err := utils.ParseOptionalUintQuery(c, "assignee_id")
	if err != nil {
		return query, err
	}
	if assigneeID != 0 {
		query.AssigneeID = &assigneeID
	}
	return query, nil
}
