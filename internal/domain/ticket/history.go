package ticket

import (
	"time"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
)

// StatusHistory is one applied transition. Rows are append-only.
type StatusHistory struct {
	id          uint
	ticketID    uint
	fromStatus  vo.TicketStatus
	toStatus    vo.TicketStatus
	changedByID uint
	reason      string
	createdAt   time.Time
}

func newStatusHistory(ticketID uint, from, to vo.TicketStatus, changedByID uint, reason string, at time.Time) *StatusHistory {
	return &StatusHistory{
		ticketID:    ticketID,
		fromStatus:  from,
		toStatus:    to,
		changedByID: changedByID,
		reason:      reason,
		createdAt:   at,
	}
}

func ReconstructStatusHistory(id, ticketID uint, from, to vo.TicketStatus, changedByID uint, reason string, createdAt time.Time) *StatusHistory {
	return &StatusHistory{
		id:          id,
		ticketID:    ticketID,
		fromStatus:  from,
		toStatus:    to,
		changedByID: changedByID,
		reason:      reason,
		createdAt:   createdAt,
	}
}

func (h *StatusHistory) ID() uint                    { return h.id }
func (h *StatusHistory) TicketID() uint              { return h.ticketID }
func (h *StatusHistory) FromStatus() vo.TicketStatus { return h.fromStatus }
func (h *StatusHistory) ToStatus() vo.TicketStatus   { return h.toStatus }
func (h *StatusHistory) ChangedByID() uint           { return h.changedByID }
func (h *StatusHistory) Reason() string              { return h.reason }
func (h *StatusHistory) CreatedAt() time.Time        { return h.createdAt }

func (h *StatusHistory) SetID(id uint) {
	if h.id == 0 {
		h.id = id
	}
}
