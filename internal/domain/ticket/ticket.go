package ticket

import (
	"fmt"
	"strings"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
)

const (
	maxTitleLength       = 200
	maxDescriptionLength = 5000
)

// Ticket is the service-ticket aggregate root. Its status only changes through
// the methods in transition.go and assignment.go, each of which yields exactly
// one StatusHistory entry. Tickets are never deleted.
type Ticket struct {
	events.Recorder

	id           uint
	sid          string
	number       string
	tenantID     uint
	title        string
	description  string
	priority     vo.Priority
	department   authorization.Department
	status       vo.TicketStatus
	userID       uint
	assignedToID *uint

	quoteAmount      *int64
	quoteDescription string
	quoteFileURL     string

	cancellationReason string
	cancelledByID      *uint

	estimatedArrival *time.Time
	estimatedDays    *int
	jobPlan          string

	workDescription     string
	workRejectionReason string

	rating        *int
	ratingComment string

	completedAt *time.Time
	closedAt    *time.Time
	version     int
	createdAt   time.Time
	updatedAt   time.Time
}

func NewTicket(
	tenantID uint,
	userID uint,
	title string,
	description string,
	priority vo.Priority,
	department authorization.Department,
	now time.Time,
) (*Ticket, error) {
	title = strings.TrimSpace(title)
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if userID == 0 {
		return nil, fmt.Errorf("creator ID is required")
	}
	if len(title) == 0 {
		return nil, fmt.Errorf("title is required")
	}
	if len(title) > maxTitleLength {
		return nil, fmt.Errorf("title exceeds maximum length of %d characters", maxTitleLength)
	}
	if len(description) > maxDescriptionLength {
		return nil, fmt.Errorf("description exceeds maximum length of %d characters", maxDescriptionLength)
	}
	if !priority.IsValid() {
		return nil, fmt.Errorf("invalid priority")
	}
	if !department.IsValid() {
		return nil, fmt.Errorf("invalid department")
	}

	return &Ticket{
		tenantID:    tenantID,
		userID:      userID,
		title:       title,
		description: description,
		priority:    priority,
		department:  department,
		status:      vo.StatusOpen,
		version:     1,
		createdAt:   now,
		updatedAt:   now,
	}, nil
}

// ReconstructParams carries every persisted field of a ticket.
type ReconstructParams struct {
	ID                  uint
	SID                 string
	Number              string
	TenantID            uint
	Title               string
	Description         string
	Priority            vo.Priority
	Department          authorization.Department
	Status              vo.TicketStatus
	UserID              uint
	AssignedToID        *uint
	QuoteAmount         *int64
	QuoteDescription    string
	QuoteFileURL        string
	CancellationReason  string
	CancelledByID       *uint
	EstimatedArrival    *time.Time
	EstimatedDays       *int
	JobPlan             string
	WorkDescription     string
	WorkRejectionReason string
	Rating              *int
	RatingComment       string
	CompletedAt         *time.Time
	ClosedAt            *time.Time
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

func ReconstructTicket(p ReconstructParams) (*Ticket, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("ticket ID cannot be zero")
	}
	if p.TenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid status: %s", p.Status)
	}
	if !p.Priority.IsValid() {
		return nil, fmt.Errorf("invalid priority: %s", p.Priority)
	}

	return &Ticket{
		id:                  p.ID,
		sid:                 p.SID,
		number:              p.Number,
		tenantID:            p.TenantID,
		title:               p.Title,
		description:         p.Description,
		priority:            p.Priority,
		department:          p.Department,
		status:              p.Status,
		userID:              p.UserID,
		assignedToID:        p.AssignedToID,
		quoteAmount:         p.QuoteAmount,
		quoteDescription:    p.QuoteDescription,
		quoteFileURL:        p.QuoteFileURL,
		cancellationReason:  p.CancellationReason,
		cancelledByID:       p.CancelledByID,
		estimatedArrival:    p.EstimatedArrival,
		estimatedDays:       p.EstimatedDays,
		jobPlan:             p.JobPlan,
		workDescription:     p.WorkDescription,
		workRejectionReason: p.WorkRejectionReason,
		rating:              p.Rating,
		ratingComment:       p.RatingComment,
		completedAt:         p.CompletedAt,
		closedAt:            p.ClosedAt,
		version:             p.Version,
		createdAt:           p.CreatedAt,
		updatedAt:           p.UpdatedAt,
	}, nil
}

func (t *Ticket) ID() uint                             { return t.id }
func (t *Ticket) SID() string                          { return t.sid }
func (t *Ticket) Number() string                       { return t.number }
func (t *Ticket) TenantID() uint                       { return t.tenantID }
func (t *Ticket) Title() string                        { return t.title }
func (t *Ticket) Description() string                  { return t.description }
func (t *Ticket) Priority() vo.Priority                { return t.priority }
func (t *Ticket) Department() authorization.Department { return t.department }
func (t *Ticket) Status() vo.TicketStatus              { return t.status }
func (t *Ticket) UserID() uint                         { return t.userID }
func (t *Ticket) AssignedToID() *uint                  { return t.assignedToID }
func (t *Ticket) QuoteAmount() *int64                  { return t.quoteAmount }
func (t *Ticket) QuoteDescription() string             { return t.quoteDescription }
func (t *Ticket) QuoteFileURL() string                 { return t.quoteFileURL }
func (t *Ticket) CancellationReason() string           { return t.cancellationReason }
func (t *Ticket) CancelledByID() *uint                 { return t.cancelledByID }
func (t *Ticket) EstimatedArrival() *time.Time         { return t.estimatedArrival }
func (t *Ticket) EstimatedDays() *int                  { return t.estimatedDays }
func (t *Ticket) JobPlan() string                      { return t.jobPlan }
func (t *Ticket) WorkDescription() string              { return t.workDescription }
func (t *Ticket) WorkRejectionReason() string          { return t.workRejectionReason }
func (t *Ticket) Rating() *int                         { return t.rating }
func (t *Ticket) RatingComment() string                { return t.ratingComment }
func (t *Ticket) CompletedAt() *time.Time              { return t.completedAt }
func (t *Ticket) ClosedAt() *time.Time                 { return t.closedAt }
func (t *Ticket) Version() int                         { return t.version }
func (t *Ticket) CreatedAt() time.Time                 { return t.createdAt }
func (t *Ticket) UpdatedAt() time.Time                 { return t.updatedAt }

// IsAssignedTo reports whether userID is the current assignee.
func (t *Ticket) IsAssignedTo(userID uint) bool {
	return t.assignedToID != nil && *t.assignedToID == userID
}

func (t *Ticket) IsUnassigned() bool {
	return t.assignedToID == nil
}

func (t *Ticket) SetID(id uint) error {
	if t.id != 0 {
		return fmt.Errorf("ticket ID is already set")
	}
	if id == 0 {
		return fmt.Errorf("ticket ID cannot be zero")
	}
	t.id = id
	return nil
}

func (t *Ticket) SetSID(sid string) error {
	if t.sid != "" {
		return fmt.Errorf("ticket SID is already set")
	}
	t.sid = sid
	return nil
}

func (t *Ticket) SetNumber(number string) error {
	if len(t.number) > 0 {
		return fmt.Errorf("ticket number is already set")
	}
	if len(number) == 0 {
		return fmt.Errorf("ticket number cannot be empty")
	}
	t.number = number
	return nil
}

// CanBeViewedBy reports read access: admins covering the department, the
// creator and the assignee.
func (t *Ticket) CanBeViewedBy(actor authorization.Actor) bool {
	if actor.TenantID != t.tenantID {
		return false
	}
	class := actor.Class()
	switch {
	case class.IsAdmin():
		return class.Administers(t.department)
	case class.IsContractor():
		return t.IsAssignedTo(actor.UserID)
	default:
		return t.userID == actor.UserID
	}
}

func (t *Ticket) touch(now time.Time) {
	t.updatedAt = now
	t.version++
}
