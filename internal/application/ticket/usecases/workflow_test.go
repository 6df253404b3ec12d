package usecases

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

var (
	admin       = authorization.Actor{UserID: 1, Role: authorization.RoleTenantAdmin, TenantID: 1}
	itAdmin     = authorization.Actor{UserID: 2, Role: authorization.RoleITAdmin, TenantID: 1}
	requester   = authorization.Actor{UserID: 10, Role: authorization.RoleEndUser, TenantID: 1}
	contractor  = authorization.Actor{UserID: 20, Role: authorization.RoleContractor, TenantID: 1}
	contractor2 = authorization.Actor{UserID: 21, Role: authorization.RoleContractor, TenantID: 1}
	foreigner   = authorization.Actor{UserID: 10, Role: authorization.RoleEndUser, TenantID: 2}
)

func ptr[T any](v T) *T { return &v }

func createTicket(t *testing.T, f *fixture) string {
	t.Helper()
	created, err := f.create.Execute(context.Background(), CreateTicketCommand{
		Actor:      requester,
		Title:      "Leaking pipe",
		Priority:   "high",
		Department: "maintenance",
	})
	require.NoError(t, err)
	return created.ID
}

func TestCreateTicket(t *testing.T) {
	f := newFixture()
	created, err := f.create.Execute(context.Background(), CreateTicketCommand{
		Actor: requester,
		Title: "Printer jammed",
	})
	require.NoError(t, err)

	assert.Equal(t, "OPEN", created.Status)
	assert.Equal(t, "MEDIUM", created.Priority)
	assert.Equal(t, "GENERAL", created.Department)
	assert.Equal(t, "TT-20260101-000001", created.Number)
	assert.Equal(t, []string{ticket.EventTicketCreated}, f.publisher.types())

	_, err = f.create.Execute(context.Background(), CreateTicketCommand{Actor: contractor, Title: "x"})
	assert.True(t, errors.IsForbiddenError(err))

	_, err = f.create.Execute(context.Background(), CreateTicketCommand{Actor: requester, Title: "x", Department: "FINANCE"})
	assert.True(t, errors.IsValidationError(err))
}

func TestApplyTransition_FullWorkflow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sid := createTicket(t, f)
	eta := time.Now().Add(2 * time.Hour)

	steps := []TransitionRequest{
		{Actor: admin, Status: "PROCESSING", AssigneeID: contractor.UserID},
		{Actor: contractor, Action: "accept", JobPlan: "replace valve", EstimatedArrival: &eta},
		{Actor: requester, Action: "confirm_arrival"},
		{Actor: requester, Action: "mark_done"},
		{Actor: contractor, Action: "submit_description", WorkDescription: "valve replaced"},
		{Actor: requester, Action: "approve_work"},
		{Actor: requester, Action: "close", Rating: ptr(4)},
	}
	for _, step := range steps {
		step.SID = sid
		_, err := f.apply.Execute(ctx, step)
		require.NoError(t, err, "step %s%s", step.Action, step.Status)
	}

	got, err := f.get.Execute(ctx, GetTicketQuery{Actor: requester, SID: sid})
	require.NoError(t, err)
	assert.Equal(t, "CLOSED", got.Status)
	assert.Equal(t, 4, *got.Rating)
	assert.NotNil(t, got.CompletedAt)

	history, err := f.historyRead.Execute(ctx, GetTicketHistoryQuery{Actor: requester, SID: sid})
	require.NoError(t, err)
	require.Len(t, history, len(steps))
	assert.Equal(t, "OPEN", history[0].FromStatus)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].ToStatus, history[i].FromStatus)
	}
	assert.Equal(t, len(steps), f.metrics.transitions)
}

func TestApplyTransition_FailureWritesNothing(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sid := createTicket(t, f)
	_, err := f.assign.Execute(ctx, AssignTicketCommand{Actor: admin, SID: sid, AssigneeID: contractor.UserID})
	require.NoError(t, err)

	before := f.tickets.updates
	eventsBefore := len(f.publisher.events)

	// Missing job plan.
	_, err = f.apply.Execute(ctx, TransitionRequest{Actor: contractor, SID: sid, Action: "accept"})
	assert.True(t, errors.IsValidationError(err))
	// Wrong role for the edge.
	_, err = f.apply.Execute(ctx, TransitionRequest{Actor: requester, SID: sid, Action: "accept"})
	assert.True(t, errors.IsInvalidTransitionError(err))
	// Another contractor.
	_, err = f.apply.Execute(ctx, TransitionRequest{Actor: contractor2, SID: sid, Action: "accept"})
	assert.True(t, errors.IsForbiddenError(err))
	// Another tenant.
	_, err = f.apply.Execute(ctx, TransitionRequest{Actor: foreigner, SID: sid, Action: "cancel", Reason: "x"})
	assert.True(t, errors.IsNotFoundError(err))
	// Unknown action.
	_, err = f.apply.Execute(ctx, TransitionRequest{Actor: contractor, SID: sid, Action: "teleport"})
	assert.True(t, errors.IsValidationError(err))

	assert.Equal(t, before, f.tickets.updates)
	assert.Len(t, f.publisher.events, eventsBefore)
	count, _ := f.history.CountByTicket(ctx, 1)
	assert.Equal(t, int64(1), count)
}

func TestAssign_ConcurrentAdminsOneWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sid := createTicket(t, f)

	const racers = 8
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		winners   int
		conflicts int
	)
	start := make(chan struct{})
	for i := 0; i < racers; i++ {
		wg.Add(1)
		go func(assignee uint) {
			defer wg.Done()
			<-start
			_, err := f.assign.Execute(ctx, AssignTicketCommand{Actor: admin, SID: sid, AssigneeID: assignee})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				winners++
			case errors.IsConflictError(err):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(uint(100 + i))
	}
	close(start)
	wg.Wait()

	assert.Equal(t, 1, winners)
	assert.Equal(t, racers-1, conflicts)
	assert.Equal(t, racers-1, f.metrics.conflicts)
	count, _ := f.history.CountByTicket(ctx, 1)
	assert.Equal(t, int64(1), count)
}

func TestAssign_ScopedAdminOutsideDepartment(t *testing.T) {
	f := newFixture()
	sid := createTicket(t, f)

	_, err := f.assign.Execute(context.Background(), AssignTicketCommand{Actor: itAdmin, SID: sid, AssigneeID: 20})
	assert.True(t, errors.IsForbiddenError(err))
}

func TestUnassign_ReturnsPreviousAssignee(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sid := createTicket(t, f)
	_, err := f.assign.Execute(ctx, AssignTicketCommand{Actor: admin, SID: sid, AssigneeID: contractor.UserID})
	require.NoError(t, err)

	res, err := f.unassign.Execute(ctx, UnassignTicketCommand{Actor: admin, SID: sid, Reason: "reassigning"})
	require.NoError(t, err)
	assert.Equal(t, contractor.UserID, res.PreviousAssigneeID)
	assert.Nil(t, res.Ticket.AssignedToID)
	assert.Equal(t, "OPEN", res.Ticket.Status)

	_, err = f.assign.Execute(ctx, AssignTicketCommand{Actor: admin, SID: sid, AssigneeID: contractor2.UserID})
	require.NoError(t, err)
}

func TestCancel_ByRoleClass(t *testing.T) {
	ctx := context.Background()

	t.Run("requester before acceptance", func(t *testing.T) {
		f := newFixture()
		sid := createTicket(t, f)
		got, err := f.cancel.Execute(ctx, CancelTicketCommand{Actor: requester, SID: sid, Reason: "fixed itself"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", got.Status)
		assert.Equal(t, requester.UserID, *got.CancelledByID)
	})

	t.Run("reason is required", func(t *testing.T) {
		f := newFixture()
		sid := createTicket(t, f)
		_, err := f.cancel.Execute(ctx, CancelTicketCommand{Actor: requester, SID: sid})
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("contractor gives the job back", func(t *testing.T) {
		f := newFixture()
		sid := createTicket(t, f)
		_, err := f.assign.Execute(ctx, AssignTicketCommand{Actor: admin, SID: sid, AssigneeID: contractor.UserID})
		require.NoError(t, err)

		got, err := f.cancel.Execute(ctx, CancelTicketCommand{Actor: contractor, SID: sid, Reason: "too far"})
		require.NoError(t, err)
		assert.Equal(t, "OPEN", got.Status)
		assert.Nil(t, got.AssignedToID)
	})

	t.Run("admin cancels an accepted job", func(t *testing.T) {
		f := newFixture()
		sid := createTicket(t, f)
		eta := time.Now().Add(time.Hour)
		_, err := f.assign.Execute(ctx, AssignTicketCommand{Actor: admin, SID: sid, AssigneeID: contractor.UserID})
		require.NoError(t, err)
		_, err = f.apply.Execute(ctx, TransitionRequest{Actor: contractor, SID: sid, Action: "accept", JobPlan: "p", EstimatedArrival: &eta})
		require.NoError(t, err)

		_, err = f.cancel.Execute(ctx, CancelTicketCommand{Actor: requester, SID: sid, Reason: "late"})
		assert.True(t, errors.IsInvalidTransitionError(err))

		got, err := f.cancel.Execute(ctx, CancelTicketCommand{Actor: admin, SID: sid, Reason: "duplicate"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", got.Status)
		assert.Nil(t, got.AssignedToID)
	})
}

func TestCancel_DeclinesOpenQuotes(t *testing.T) {
	ctx := context.Background()

	declined := func(t *testing.T, f *fixture, sid string) {
		t.Helper()
		quotes, err := f.listQuotes.Execute(ctx, ListQuotesQuery{Actor: admin, SID: sid})
		require.NoError(t, err)
		require.Len(t, quotes, 2)
		for _, q := range quotes {
			assert.Equal(t, "DECLINED", q.Status, "contractor %d", q.ContractorID)
		}
	}

	t.Run("awaiting quote", func(t *testing.T) {
		f := newFixture()
		sid := createTicket(t, f)
		_, err := f.request.Execute(ctx, RequestQuoteCommand{Actor: admin, SID: sid, ContractorIDs: []uint{20, 21}})
		require.NoError(t, err)

		got, err := f.cancel.Execute(ctx, CancelTicketCommand{Actor: admin, SID: sid, Reason: "budget cut"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", got.Status)
		declined(t, f, sid)
	})

	t.Run("quote submitted via the transition endpoint", func(t *testing.T) {
		f := newFixture()
		sid := createTicket(t, f)
		_, err := f.request.Execute(ctx, RequestQuoteCommand{Actor: admin, SID: sid, ContractorIDs: []uint{20, 21}})
		require.NoError(t, err)
		_, err = f.submit.Execute(ctx, SubmitQuoteCommand{Actor: contractor, SID: sid, AmountCents: 50000})
		require.NoError(t, err)

		got, err := f.apply.Execute(ctx, TransitionRequest{Actor: admin, SID: sid, Status: "CANCELLED", Reason: "duplicate"})
		require.NoError(t, err)
		assert.Equal(t, "CANCELLED", got.Status)
		declined(t, f, sid)
	})
}

func TestQuoteFlow(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sid := createTicket(t, f)

	res, err := f.request.Execute(ctx, RequestQuoteCommand{Actor: admin, SID: sid, ContractorIDs: []uint{20, 21, 20}})
	require.NoError(t, err)
	assert.Equal(t, []uint{20, 21}, res.Invited)
	assert.Equal(t, "AWAITING_QUOTE", res.Ticket.Status)

	// Repeating the request invites nobody new and leaves the status alone.
	res, err = f.request.Execute(ctx, RequestQuoteCommand{Actor: admin, SID: sid, ContractorIDs: []uint{20}})
	require.NoError(t, err)
	assert.Empty(t, res.Invited)

	// Invited contractors may read the ticket before it is assigned.
	_, err = f.get.Execute(ctx, GetTicketQuery{Actor: contractor2, SID: sid})
	require.NoError(t, err)

	outsider := authorization.Actor{UserID: 99, Role: authorization.RoleContractor, TenantID: 1}
	_, err = f.submit.Execute(ctx, SubmitQuoteCommand{Actor: outsider, SID: sid, AmountCents: 100})
	assert.True(t, errors.IsForbiddenError(err))

	_, err = f.submit.Execute(ctx, SubmitQuoteCommand{Actor: contractor, SID: sid, AmountCents: 50000}) // first quote
	require.NoError(t, err)
	_, err = f.submit.Execute(ctx, SubmitQuoteCommand{Actor: contractor2, SID: sid, AmountCents: 42000})
	require.NoError(t, err)

	got, err := f.get.Execute(ctx, GetTicketQuery{Actor: admin, SID: sid})
	require.NoError(t, err)
	assert.Equal(t, "QUOTE_SUBMITTED", got.Status)
	assert.Equal(t, int64(42000), *got.QuoteAmountCents)

	// Reject sends both quotes back for revision.
	_, err = f.reject.Execute(ctx, RejectQuoteCommand{Actor: admin, SID: sid, Reason: "too expensive"})
	require.NoError(t, err)
	quotes, err := f.listQuotes.Execute(ctx, ListQuotesQuery{Actor: admin, SID: sid})
	require.NoError(t, err)
	for _, q := range quotes {
		assert.Equal(t, "PENDING", q.Status)
	}

	_, err = f.submit.Execute(ctx, SubmitQuoteCommand{Actor: contractor2, SID: sid, AmountCents: 39000})
	require.NoError(t, err)

	// Routed through the transition endpoint.
	approved, err := f.apply.Execute(ctx, TransitionRequest{Actor: admin, SID: sid, Status: "PROCESSING", ContractorID: 21})
	require.NoError(t, err)
	assert.Equal(t, "PROCESSING", approved.Status)
	assert.Equal(t, uint(21), *approved.AssignedToID)

	quotes, err = f.listQuotes.Execute(ctx, ListQuotesQuery{Actor: admin, SID: sid})
	require.NoError(t, err)
	byContractor := map[uint]string{}
	for _, q := range quotes {
		byContractor[q.ContractorID] = q.Status
	}
	assert.Equal(t, "AWARDED", byContractor[21])
	assert.Equal(t, "DECLINED", byContractor[20])

	own, err := f.listQuotes.Execute(ctx, ListQuotesQuery{Actor: contractor2, SID: sid})
	require.NoError(t, err)
	assert.Len(t, own, 1)

	// OPEN -> AWAITING_QUOTE -> QUOTE_SUBMITTED -> AWAITING_QUOTE -> QUOTE_SUBMITTED -> PROCESSING
	history, err := f.historyRead.Execute(ctx, GetTicketHistoryQuery{Actor: admin, SID: sid})
	require.NoError(t, err)
	require.Len(t, history, 5)
	assert.Equal(t, "PROCESSING", history[4].ToStatus)

	assert.Contains(t, f.publisher.types(), ticket.EventQuoteApproved)
	assert.Contains(t, f.publisher.types(), ticket.EventQuoteRejected)
}

func TestApproveQuote_WithoutSubmission(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sid := createTicket(t, f)
	_, err := f.request.Execute(ctx, RequestQuoteCommand{Actor: admin, SID: sid, ContractorIDs: []uint{20}})
	require.NoError(t, err)

	_, err = f.approve.Execute(ctx, ApproveQuoteCommand{Actor: admin, SID: sid, ContractorID: 20})
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestListTickets_ScopedByRole(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	first := createTicket(t, f)
	createTicket(t, f)
	_, err := f.assign.Execute(ctx, AssignTicketCommand{Actor: admin, SID: first, AssigneeID: contractor.UserID})
	require.NoError(t, err)

	all, err := f.list.Execute(ctx, ListTicketsQuery{Actor: admin})
	require.NoError(t, err)
	assert.Equal(t, int64(2), all.Total)

	mine, err := f.list.Execute(ctx, ListTicketsQuery{Actor: contractor})
	require.NoError(t, err)
	assert.Equal(t, int64(1), mine.Total)

	none, err := f.list.Execute(ctx, ListTicketsQuery{Actor: foreigner})
	require.NoError(t, err)
	assert.Zero(t, none.Total)

	_, err = f.list.Execute(ctx, ListTicketsQuery{Actor: admin, Status: "DONE"})
	assert.True(t, errors.IsValidationError(err))
}

func TestComments(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sid := createTicket(t, f)
	_, err := f.assign.Execute(ctx, AssignTicketCommand{Actor: admin, SID: sid, AssigneeID: contractor.UserID})
	require.NoError(t, err)

	c, err := f.addComment.Execute(ctx, AddCommentCommand{Actor: requester, SID: sid, Body: "<script>x</script>Water everywhere"})
	require.NoError(t, err)
	assert.Equal(t, "Water everywhere", c.Body)

	_, err = f.addComment.Execute(ctx, AddCommentCommand{Actor: admin, SID: sid, Body: "check warranty", IsInternal: true})
	require.NoError(t, err)

	_, err = f.addComment.Execute(ctx, AddCommentCommand{Actor: requester, SID: sid, Body: "secret", IsInternal: true})
	assert.True(t, errors.IsForbiddenError(err))

	visible, err := f.listComments.Execute(ctx, ListCommentsQuery{Actor: requester, SID: sid})
	require.NoError(t, err)
	assert.Len(t, visible, 1)

	all, err := f.listComments.Execute(ctx, ListCommentsQuery{Actor: contractor, SID: sid})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	_, err = f.cancel.Execute(ctx, CancelTicketCommand{Actor: admin, SID: sid, Reason: "dupe"})
	require.NoError(t, err)
	_, err = f.addComment.Execute(ctx, AddCommentCommand{Actor: requester, SID: sid, Body: "hello?"})
	assert.True(t, errors.IsInvalidTransitionError(err))
}

func TestApplyTransition_ContractorRejectsJob(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	sid := createTicket(t, f)
	_, err := f.apply.Execute(ctx, TransitionRequest{Actor: admin, SID: sid, Status: string(vo.StatusProcessing), AssigneeID: 20})
	require.NoError(t, err)

	_, err = f.apply.Execute(ctx, TransitionRequest{Actor: contractor, SID: sid, Action: "reject_job"})
	assert.True(t, errors.IsValidationError(err))

	got, err := f.apply.Execute(ctx, TransitionRequest{Actor: contractor, SID: sid, Action: "reject_job", Reason: "no parts"})
	require.NoError(t, err)
	assert.Equal(t, "OPEN", got.Status)
	assert.Contains(t, f.publisher.types(), ticket.EventUnassigned)
}
