package usecases

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memTickets is an in-memory ticket repository that keeps the version check
// and the conditional assignment write of the real one.
type memTickets struct {
	mu      sync.Mutex
	byID    map[uint]ticket.ReconstructParams
	nextID  uint
	updates int

	UpdateAssignmentFunc func(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error
}

func newMemTickets() *memTickets {
	return &memTickets{byID: map[uint]ticket.ReconstructParams{}, nextID: 1}
}

func snapshot(t *ticket.Ticket) ticket.ReconstructParams {
	return ticket.ReconstructParams{
		ID: t.ID(), SID: t.SID(), Number: t.Number(), TenantID: t.TenantID(),
		Title: t.Title(), Description: t.Description(), Priority: t.Priority(),
		Department: t.Department(), Status: t.Status(), UserID: t.UserID(),
		AssignedToID: t.AssignedToID(), QuoteAmount: t.QuoteAmount(),
		QuoteDescription: t.QuoteDescription(), QuoteFileURL: t.QuoteFileURL(),
		CancellationReason: t.CancellationReason(), CancelledByID: t.CancelledByID(),
		EstimatedArrival: t.EstimatedArrival(), EstimatedDays: t.EstimatedDays(),
		JobPlan: t.JobPlan(), WorkDescription: t.WorkDescription(),
		WorkRejectionReason: t.WorkRejectionReason(), Rating: t.Rating(),
		RatingComment: t.RatingComment(), CompletedAt: t.CompletedAt(),
		ClosedAt: t.ClosedAt(), Version: t.Version(),
		CreatedAt: t.CreatedAt(), UpdatedAt: t.UpdatedAt(),
	}
}

func (m *memTickets) put(t *ticket.Ticket) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t.ID() == 0 {
		_ = t.SetID(m.nextID)
		m.nextID++
	}
	m.byID[t.ID()] = snapshot(t)
}

func (m *memTickets) load(tenantID uint, sid string) *ticket.Ticket {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.byID {
		if p.SID == sid && p.TenantID == tenantID {
			t, _ := ticket.ReconstructTicket(p)
			return t
		}
	}
	return nil
}

func (m *memTickets) Create(_ context.Context, t *ticket.Ticket) error {
	m.put(t)
	return nil
}

func (m *memTickets) Update(_ context.Context, t *ticket.Ticket) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[t.ID()]
	if !ok || stored.Version != t.Version()-1 {
		return errors.NewConflictError("ticket was modified concurrently")
	}
	m.byID[t.ID()] = snapshot(t)
	m.updates++
	return nil
}

func (m *memTickets) UpdateAssignment(ctx context.Context, t *ticket.Ticket, expected vo.TicketStatus) error {
	if m.UpdateAssignmentFunc != nil {
		return m.UpdateAssignmentFunc(ctx, t, expected)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	stored, ok := m.byID[t.ID()]
	if !ok || stored.AssignedToID != nil || stored.Status != expected {
		return errors.NewConflictError("ticket was assigned concurrently")
	}
	m.byID[t.ID()] = snapshot(t)
	m.updates++
	return nil
}

func (m *memTickets) GetByID(_ context.Context, id uint) (*ticket.Ticket, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.byID[id]
	if !ok {
		return nil, nil
	}
	return ticket.ReconstructTicket(p)
}

func (m *memTickets) GetBySID(_ context.Context, tenantID uint, sid string) (*ticket.Ticket, error) {
	return m.load(tenantID, sid), nil
}

func (m *memTickets) GetBySIDForUpdate(_ context.Context, tenantID uint, sid string) (*ticket.Ticket, error) {
	return m.load(tenantID, sid), nil
}

func (m *memTickets) List(_ context.Context, filter ticket.TicketFilter) ([]*ticket.Ticket, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ticket.Ticket
	for _, p := range m.byID {
		if p.TenantID != filter.TenantID {
			continue
		}
		if filter.CreatorID != nil && p.UserID != *filter.CreatorID {
			continue
		}
		if filter.AssigneeID != nil && (p.AssignedToID == nil || *p.AssignedToID != *filter.AssigneeID) {
			continue
		}
		t, _ := ticket.ReconstructTicket(p)
		out = append(out, t)
	}
	return out, int64(len(out)), nil
}

type memHistory struct {
	mu      sync.Mutex
	entries []*ticket.StatusHistory
}

func (m *memHistory) Append(_ context.Context, h *ticket.StatusHistory) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	h.SetID(uint(len(m.entries) + 1))
	m.entries = append(m.entries, h)
	return nil
}

func (m *memHistory) ListByTicket(_ context.Context, ticketID uint) ([]*ticket.StatusHistory, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ticket.StatusHistory
	for _, h := range m.entries {
		if h.TicketID() == ticketID {
			out = append(out, h)
		}
	}
	return out, nil
}

func (m *memHistory) CountByTicket(ctx context.Context, ticketID uint) (int64, error) {
	list, _ := m.ListByTicket(ctx, ticketID)
	return int64(len(list)), nil
}

type memQuotes struct {
	mu   sync.Mutex
	rows []*ticket.QuoteRequest
}

func (m *memQuotes) Create(_ context.Context, q *ticket.QuoteRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	q.SetID(uint(len(m.rows) + 1))
	m.rows = append(m.rows, q)
	return nil
}

func (m *memQuotes) Update(context.Context, *ticket.QuoteRequest) error { return nil }

func (m *memQuotes) GetByTicketAndContractor(_ context.Context, ticketID, contractorID uint) (*ticket.QuoteRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.rows {
		if q.TicketID() == ticketID && q.ContractorID() == contractorID {
			return q, nil
		}
	}
	return nil, nil
}

func (m *memQuotes) ListByTicket(_ context.Context, ticketID uint) ([]*ticket.QuoteRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*ticket.QuoteRequest
	for _, q := range m.rows {
		if q.TicketID() == ticketID {
			out = append(out, q)
		}
	}
	return out, nil
}

func (m *memQuotes) ListByContractor(_ context.Context, contractorID uint) ([]*ticket.QuoteRequest, error) {
	return nil, nil
}

type memComments struct {
	rows []*ticket.Comment
}

func (m *memComments) Create(_ context.Context, c *ticket.Comment) error {
	c.SetID(uint(len(m.rows) + 1))
	m.rows = append(m.rows, c)
	return nil
}

func (m *memComments) ListByTicket(_ context.Context, ticketID uint, includeInternal bool) ([]*ticket.Comment, error) {
	var out []*ticket.Comment
	for _, c := range m.rows {
		if c.TicketID() == ticketID && (includeInternal || !c.IsInternal()) {
			out = append(out, c)
		}
	}
	return out, nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type countingMetrics struct {
	mu          sync.Mutex
	transitions int
	conflicts   int
}

func (m *countingMetrics) TransitionApplied(vo.TicketStatus, vo.TicketStatus, authorization.RoleClass) {
	m.mu.Lock()
	m.transitions++
	m.mu.Unlock()
}

func (m *countingMetrics) AssignmentConflict() {
	m.mu.Lock()
	m.conflicts++
	m.mu.Unlock()
}

// fixture wires every ticket use case against the in-memory repositories.
type fixture struct {
	tickets   *memTickets
	history   *memHistory
	quotes    *memQuotes
	comments  *memComments
	publisher *recordingPublisher
	metrics   *countingMetrics

	create       *CreateTicketUseCase
	transition   *TransitionTicketUseCase
	assign       *AssignTicketUseCase
	unassign     *UnassignTicketUseCase
	rejectJob    *RejectJobUseCase
	cancel       *CancelTicketUseCase
	request      *RequestQuoteUseCase
	submit       *SubmitQuoteUseCase
	approve      *ApproveQuoteUseCase
	reject       *RejectQuoteUseCase
	listQuotes   *ListQuotesUseCase
	get          *GetTicketUseCase
	list         *ListTicketsUseCase
	historyRead  *GetTicketHistoryUseCase
	addComment   *AddCommentUseCase
	listComments *ListCommentsUseCase
	apply        *ApplyTransitionUseCase
}

type fixedNumbers struct{ n int }

func (g *fixedNumbers) Generate(context.Context, time.Time) (string, error) {
	g.n++
	return fmt.Sprintf("TT-20260101-%06d", g.n), nil
}

func newFixture() *fixture {
	f := &fixture{
		tickets:   newMemTickets(),
		history:   &memHistory{},
		quotes:    &memQuotes{},
		comments:  &memComments{},
		publisher: &recordingPublisher{},
		metrics:   &countingMetrics{},
	}
	log := logger.NewNop()
	tx := passthroughTx{}

	f.create = NewCreateTicketUseCase(tx, f.tickets, &fixedNumbers{}, f.publisher, log)
	f.transition = NewTransitionTicketUseCase(tx, f.tickets, f.history, f.publisher, f.metrics, log)
	f.assign = NewAssignTicketUseCase(tx, f.tickets, f.history, f.publisher, f.metrics, log)
	f.unassign = NewUnassignTicketUseCase(tx, f.tickets, f.history, f.publisher, f.metrics, log)
	f.rejectJob = NewRejectJobUseCase(tx, f.tickets, f.history, f.publisher, f.metrics, log)
	f.cancel = NewCancelTicketUseCase(tx, f.tickets, f.history, f.quotes, f.publisher, f.metrics, log)
	f.request = NewRequestQuoteUseCase(tx, f.tickets, f.history, f.quotes, f.publisher, f.metrics, log)
	f.submit = NewSubmitQuoteUseCase(tx, f.tickets, f.history, f.quotes, f.publisher, f.metrics, log)
	f.approve = NewApproveQuoteUseCase(tx, f.tickets, f.history, f.quotes, f.publisher, f.metrics, log)
	f.reject = NewRejectQuoteUseCase(tx, f.tickets, f.history, f.quotes, f.publisher, f.metrics, log)
	f.listQuotes = NewListQuotesUseCase(f.tickets, f.quotes, log)
	f.get = NewGetTicketUseCase(f.tickets, f.quotes, log)
	f.list = NewListTicketsUseCase(f.tickets, log)
	f.historyRead = NewGetTicketHistoryUseCase(f.tickets, f.quotes, f.history, log)
	f.addComment = NewAddCommentUseCase(tx, f.tickets, f.quotes, f.comments, f.publisher, log)
	f.listComments = NewListCommentsUseCase(f.tickets, f.quotes, f.comments, log)
	f.apply = NewApplyTransitionUseCase(ApplyTransitionDeps{
		Tickets:      f.tickets,
		Transition:   f.transition,
		Cancel:       f.cancel,
		Assign:       f.assign,
		Unassign:     f.unassign,
		RejectJob:    f.rejectJob,
		RequestQuote: f.request,
		SubmitQuote:  f.submit,
		ApproveQuote: f.approve,
		RejectQuote:  f.reject,
		Logger:       log,
	})
	return f
}
