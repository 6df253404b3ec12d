package ticket

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

var (
	testNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

	adminActor      = authorization.Actor{UserID: 1, Role: authorization.RoleTenantAdmin, TenantID: 1}
	salesAdmin      = authorization.Actor{UserID: 2, Role: authorization.RoleSalesAdmin, TenantID: 1}
	requesterActor  = authorization.Actor{UserID: 10, Role: authorization.RoleEndUser, TenantID: 1}
	otherRequester  = authorization.Actor{UserID: 11, Role: authorization.RoleEndUser, TenantID: 1}
	contractorActor = authorization.Actor{UserID: 20, Role: authorization.RoleContractor, TenantID: 1}
	otherContractor = authorization.Actor{UserID: 21, Role: authorization.RoleContractor, TenantID: 1}
	foreignAdmin    = authorization.Actor{UserID: 30, Role: authorization.RoleTenantAdmin, TenantID: 2}
)

func ptr[T any](v T) *T { return &v }

// ticketIn builds a persisted maintenance ticket in the given status.
func ticketIn(t *testing.T, status vo.TicketStatus, assignee *uint) *Ticket {
	t.Helper()
	tk, err := ReconstructTicket(ReconstructParams{
		ID:           1,
		SID:          "tk_test",
		Number:       "TT-20260302-ABC123",
		TenantID:     1,
		Title:        "Leaking pipe",
		Priority:     vo.PriorityHigh,
		Department:   authorization.DepartmentMaintenance,
		Status:       status,
		UserID:       10,
		AssignedToID: assignee,
		Version:      3,
		CreatedAt:    testNow.Add(-time.Hour),
		UpdatedAt:    testNow.Add(-time.Hour),
	})
	require.NoError(t, err)
	return tk
}

func TestNewTicket(t *testing.T) {
	tk, err := NewTicket(1, 10, "  Broken AC  ", "unit 4", vo.PriorityMedium, authorization.DepartmentMaintenance, testNow)
	require.NoError(t, err)
	assert.Equal(t, "Broken AC", tk.Title())
	assert.Equal(t, vo.StatusOpen, tk.Status())
	assert.True(t, tk.IsUnassigned())
	assert.Equal(t, 1, tk.Version())

	_, err = NewTicket(1, 10, "", "", vo.PriorityMedium, authorization.DepartmentMaintenance, testNow)
	assert.Error(t, err)
	_, err = NewTicket(0, 10, "x", "", vo.PriorityMedium, authorization.DepartmentMaintenance, testNow)
	assert.Error(t, err)
	_, err = NewTicket(1, 10, "x", "", vo.Priority("URGENT"), authorization.DepartmentMaintenance, testNow)
	assert.Error(t, err)
}

func TestTransition_ErrorOrder(t *testing.T) {
	tests := []struct {
		name   string
		status vo.TicketStatus
		actor  authorization.Actor
		to     vo.TicketStatus
		check  func(error) bool
	}{
		{"other tenant is not found", vo.StatusAccepted, foreignAdmin, vo.StatusCancelled, errors.IsNotFoundError},
		{"other requester is forbidden", vo.StatusAccepted, otherRequester, vo.StatusOnSite, errors.IsForbiddenError},
		{"unassigned contractor is forbidden", vo.StatusOnSite, otherContractor, vo.StatusInProgress, errors.IsForbiddenError},
		{"admin out of department is forbidden", vo.StatusAccepted, salesAdmin, vo.StatusCancelled, errors.IsForbiddenError},
		{"edge missing for role", vo.StatusAccepted, contractorActor, vo.StatusOnSite, errors.IsInvalidTransitionError},
		{"skipping phases", vo.StatusAccepted, requesterActor, vo.StatusCompleted, errors.IsInvalidTransitionError},
		{"terminal ticket", vo.StatusClosed, adminActor, vo.StatusCancelled, errors.IsInvalidTransitionError},
		{"coordinator-owned target", vo.StatusAccepted, adminActor, vo.StatusOpen, errors.IsInvalidTransitionError},
		{"cancel without reason", vo.StatusAccepted, adminActor, vo.StatusCancelled, errors.IsValidationError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := ticketIn(t, tt.status, ptr(uint(20)))
			before := *tk

			h, err := tk.Transition(tt.actor, tt.to, TransitionPayload{}, testNow)
			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
			assert.Nil(t, h)
			assert.Equal(t, before, *tk, "failed transition must not mutate the ticket")
			assert.Empty(t, tk.PullEvents())
		})
	}
}

func TestTransition_Preconditions(t *testing.T) {
	eta := testNow.Add(24 * time.Hour)

	tests := []struct {
		name    string
		status  vo.TicketStatus
		actor   authorization.Actor
		to      vo.TicketStatus
		payload TransitionPayload
		wantErr bool
	}{
		{"accept needs job plan", vo.StatusProcessing, contractorActor, vo.StatusAccepted, TransitionPayload{EstimatedArrival: &eta}, true},
		{"accept needs arrival", vo.StatusProcessing, contractorActor, vo.StatusAccepted, TransitionPayload{JobPlan: "replace valve"}, true},
		{"accept ok", vo.StatusProcessing, contractorActor, vo.StatusAccepted, TransitionPayload{JobPlan: "replace valve", EstimatedArrival: &eta}, false},
		{"description required", vo.StatusAwaitingDescription, contractorActor, vo.StatusAwaitingWorkApproval, TransitionPayload{}, true},
		{"work rejection needs reason", vo.StatusAwaitingWorkApproval, requesterActor, vo.StatusAwaitingDescription, TransitionPayload{}, true},
		{"work rejection with reason", vo.StatusAwaitingWorkApproval, requesterActor, vo.StatusAwaitingDescription, TransitionPayload{RejectionReason: "still leaking"}, false},
		{"requester close needs rating", vo.StatusCompleted, requesterActor, vo.StatusClosed, TransitionPayload{}, true},
		{"rating out of range", vo.StatusCompleted, requesterActor, vo.StatusClosed, TransitionPayload{Rating: ptr(6)}, true},
		{"admin close without rating", vo.StatusCompleted, adminActor, vo.StatusClosed, TransitionPayload{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tk := ticketIn(t, tt.status, ptr(uint(20)))
			_, err := tk.Transition(tt.actor, tt.to, tt.payload, testNow)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidationError(err))
				assert.Equal(t, tt.status, tk.Status())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.to, tk.Status())
		})
	}
}

func TestTransition_Cancel(t *testing.T) {
	tk := ticketIn(t, vo.StatusProcessing, ptr(uint(20)))

	h, err := tk.Transition(requesterActor, vo.StatusCancelled, TransitionPayload{Reason: " no longer needed "}, testNow)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusCancelled, tk.Status())
	assert.Nil(t, tk.AssignedToID())
	assert.Equal(t, "no longer needed", tk.CancellationReason())
	require.NotNil(t, tk.CancelledByID())
	assert.Equal(t, uint(10), *tk.CancelledByID())
	assert.Equal(t, 4, tk.Version())

	assert.Equal(t, vo.StatusProcessing, h.FromStatus())
	assert.Equal(t, vo.StatusCancelled, h.ToStatus())
	assert.Equal(t, "no longer needed", h.Reason())

	evts := tk.PullEvents()
	require.Len(t, evts, 1)
	assert.Equal(t, EventStatusChanged, evts[0].GetEventType())
	assert.ElementsMatch(t, []uint{10, 20}, evts[0].GetRecipients())
}

func TestTransition_RequesterCannotCancelAfterAcceptance(t *testing.T) {
	tk := ticketIn(t, vo.StatusAccepted, ptr(uint(20)))
	_, err := tk.Transition(requesterActor, vo.StatusCancelled, TransitionPayload{Reason: "changed my mind"}, testNow)
	require.Error(t, err)
	assert.True(t, errors.IsInvalidTransitionError(err))
}

func TestFullWorkflowScenario(t *testing.T) {
	tk := ticketIn(t, vo.StatusOpen, nil)
	eta := testNow.Add(2 * time.Hour)
	var history []*StatusHistory

	step := func(h *StatusHistory, err error) {
		t.Helper()
		require.NoError(t, err)
		require.NotNil(t, h)
		history = append(history, h)
	}

	step(tk.Assign(adminActor, 20, testNow))
	assert.True(t, tk.IsAssignedTo(20))
	step(tk.Transition(contractorActor, vo.StatusAccepted, TransitionPayload{JobPlan: "swap valve", EstimatedArrival: &eta}, testNow))
	step(tk.Transition(requesterActor, vo.StatusOnSite, TransitionPayload{}, testNow))
	step(tk.Transition(requesterActor, vo.StatusAwaitingDescription, TransitionPayload{}, testNow))
	step(tk.Transition(contractorActor, vo.StatusAwaitingWorkApproval, TransitionPayload{WorkDescription: "valve replaced"}, testNow))
	step(tk.Transition(requesterActor, vo.StatusCompleted, TransitionPayload{}, testNow))
	require.NotNil(t, tk.CompletedAt())
	step(tk.Transition(requesterActor, vo.StatusClosed, TransitionPayload{Rating: ptr(5), RatingComment: "quick"}, testNow))

	assert.Equal(t, vo.StatusClosed, tk.Status())
	assert.NotNil(t, tk.ClosedAt())
	assert.Equal(t, 5, *tk.Rating())
	// One entry for the assignment plus six workflow transitions.
	assert.Len(t, history, 7)
	for i := 1; i < len(history); i++ {
		assert.Equal(t, history[i-1].ToStatus(), history[i].FromStatus())
	}
	assert.Equal(t, 3+len(history), tk.Version())
}

func TestAssign(t *testing.T) {
	t.Run("assigns an open ticket", func(t *testing.T) {
		tk := ticketIn(t, vo.StatusOpen, nil)
		h, err := tk.Assign(adminActor, 20, testNow)
		require.NoError(t, err)
		assert.Equal(t, vo.StatusProcessing, tk.Status())
		assert.Equal(t, uint(1), h.ChangedByID())
		evts := tk.PullEvents()
		require.Len(t, evts, 1)
		assert.Equal(t, EventAssigned, evts[0].GetEventType())
	})

	t.Run("already assigned is a conflict", func(t *testing.T) {
		tk := ticketIn(t, vo.StatusProcessing, ptr(uint(20)))
		_, err := tk.Assign(adminActor, 21, testNow)
		assert.True(t, errors.IsConflictError(err))
	})

	t.Run("requester cannot assign", func(t *testing.T) {
		tk := ticketIn(t, vo.StatusOpen, nil)
		_, err := tk.Assign(requesterActor, 20, testNow)
		assert.True(t, errors.IsForbiddenError(err))
	})

	t.Run("unassigned ticket from another tenant", func(t *testing.T) {
		tk := ticketIn(t, vo.StatusOpen, nil)
		_, err := tk.Assign(foreignAdmin, 20, testNow)
		assert.True(t, errors.IsNotFoundError(err))
	})

	t.Run("terminal ticket", func(t *testing.T) {
		tk := ticketIn(t, vo.StatusCancelled, nil)
		_, err := tk.Assign(adminActor, 20, testNow)
		assert.True(t, errors.IsInvalidTransitionError(err))
	})
}

func TestUnassignAndRejectJob(t *testing.T) {
	tk := ticketIn(t, vo.StatusAccepted, ptr(uint(20)))
	h, previous, err := tk.Unassign(adminActor, "", testNow)
	require.NoError(t, err)
	assert.Equal(t, uint(20), previous)
	assert.Equal(t, vo.StatusOpen, tk.Status())
	assert.Nil(t, tk.AssignedToID())
	assert.Equal(t, vo.StatusAccepted, h.FromStatus())

	_, _, err = tk.Unassign(adminActor, "", testNow)
	assert.Error(t, err)

	job := ticketIn(t, vo.StatusProcessing, ptr(uint(20)))
	_, err = job.RejectJob(contractorActor, "", testNow)
	assert.True(t, errors.IsValidationError(err))
	_, err = job.RejectJob(otherContractor, "busy", testNow)
	assert.True(t, errors.IsForbiddenError(err))
	_, err = job.RejectJob(contractorActor, "busy", testNow)
	require.NoError(t, err)
	assert.True(t, job.IsUnassigned())
	assert.Equal(t, vo.StatusOpen, job.Status())

	accepted := ticketIn(t, vo.StatusAccepted, ptr(uint(20)))
	_, err = accepted.RejectJob(contractorActor, "busy", testNow)
	assert.True(t, errors.IsInvalidTransitionError(err))
}

func TestQuoteFlow(t *testing.T) {
	tk := ticketIn(t, vo.StatusOpen, nil)

	h, err := tk.OpenForQuotes(adminActor, testNow)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, vo.StatusAwaitingQuote, tk.Status())

	h, err = tk.OpenForQuotes(adminActor, testNow)
	require.NoError(t, err)
	assert.Nil(t, h, "inviting more contractors does not transition")

	q, err := NewQuoteRequest(tk.ID(), 20, testNow)
	require.NoError(t, err)
	require.NoError(t, q.Submit(15000, "parts and labour", "", testNow))

	h, err = tk.RecordQuote(contractorActor, 15000, "parts and labour", "", testNow)
	require.NoError(t, err)
	require.NotNil(t, h)
	assert.Equal(t, vo.StatusQuoteSubmitted, tk.Status())
	assert.Equal(t, int64(15000), *tk.QuoteAmount())

	h, err = tk.RecordQuote(otherContractor, 14000, "cheaper", "", testNow)
	require.NoError(t, err)
	assert.Nil(t, h, "second quote refreshes fields only")

	_, err = tk.RejectQuote(adminActor, "", testNow)
	assert.True(t, errors.IsValidationError(err))

	h, err = tk.RejectQuote(adminActor, "too expensive", testNow)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusAwaitingQuote, tk.Status())
	assert.Nil(t, tk.QuoteAmount())
	assert.True(t, q.Reopen(testNow))

	require.NoError(t, q.Submit(12000, "revised", "", testNow))
	_, err = tk.RecordQuote(contractorActor, 12000, "revised", "", testNow)
	require.NoError(t, err)

	h, err = tk.ApproveQuote(adminActor, q, testNow)
	require.NoError(t, err)
	assert.Equal(t, vo.StatusProcessing, h.ToStatus())
	assert.True(t, tk.IsAssignedTo(20))
	assert.Equal(t, int64(12000), *tk.QuoteAmount())
	require.NoError(t, q.Award(testNow))
	assert.Equal(t, vo.QuoteAwarded, q.Status())
}

func TestApproveQuote_RequiresSubmittedQuote(t *testing.T) {
	tk := ticketIn(t, vo.StatusQuoteSubmitted, nil)
	q, err := NewQuoteRequest(tk.ID(), 20, testNow)
	require.NoError(t, err)

	_, err = tk.ApproveQuote(adminActor, q, testNow)
	assert.True(t, errors.IsValidationError(err))
	assert.Equal(t, vo.StatusQuoteSubmitted, tk.Status())
}

func TestCanBeViewedBy(t *testing.T) {
	tk := ticketIn(t, vo.StatusProcessing, ptr(uint(20)))

	assert.True(t, tk.CanBeViewedBy(adminActor))
	assert.True(t, tk.CanBeViewedBy(requesterActor))
	assert.True(t, tk.CanBeViewedBy(contractorActor))
	assert.False(t, tk.CanBeViewedBy(salesAdmin))
	assert.False(t, tk.CanBeViewedBy(otherRequester))
	assert.False(t, tk.CanBeViewedBy(otherContractor))
	assert.False(t, tk.CanBeViewedBy(foreignAdmin))
}

func TestNewComment(t *testing.T) {
	c, err := NewComment(1, 10, "  on my way  ", false, testNow)
	require.NoError(t, err)
	assert.Equal(t, "on my way", c.Body())

	_, err = NewComment(1, 10, "   ", false, testNow)
	assert.Error(t, err)

	tk := ticketIn(t, vo.StatusProcessing, ptr(uint(20)))
	internal, err := NewComment(1, 1, "check the invoice", true, testNow)
	require.NoError(t, err)
	evt := NewCommentAddedEvent(tk, internal)
	assert.Equal(t, []uint{20}, evt.GetRecipients())
}
