package ticket

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ticketdto "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/testutil"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

// =====================================================================
// Mock use cases
// =====================================================================

type mockCreateTicketUC struct {
	got    usecases.CreateTicketCommand
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockCreateTicketUC) Execute(_ context.Context, cmd usecases.CreateTicketCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockGetTicketUC struct {
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockGetTicketUC) Execute(_ context.Context, _ usecases.GetTicketQuery) (*ticketdto.TicketDTO, error) {
	return m.result, m.err
}

type mockListTicketsUC struct {
	got    usecases.ListTicketsQuery
	result *usecases.ListTicketsResult
	err    error
}

func (m *mockListTicketsUC) Execute(_ context.Context, query usecases.ListTicketsQuery) (*usecases.ListTicketsResult, error) {
	m.got = query
	return m.result, m.err
}

type mockApplyTransitionUC struct {
	got    usecases.TransitionRequest
	called bool
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockApplyTransitionUC) Execute(_ context.Context, req usecases.TransitionRequest) (*ticketdto.TicketDTO, error) {
	m.called = true
	m.got = req
	return m.result, m.err
}

type mockCancelTicketUC struct {
	got    usecases.CancelTicketCommand
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockCancelTicketUC) Execute(_ context.Context, cmd usecases.CancelTicketCommand) (*ticketdto.TicketDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockAssignTicketUC struct {
	result *ticketdto.TicketDTO
	err    error
}

func (m *mockAssignTicketUC) Execute(_ context.Context, _ usecases.AssignTicketCommand) (*ticketdto.TicketDTO, error) {
	return m.result, m.err
}

type mockRequestQuoteUC struct {
	got    usecases.RequestQuoteCommand
	result *usecases.RequestQuoteResult
	err    error
}

func (m *mockRequestQuoteUC) Execute(_ context.Context, cmd usecases.RequestQuoteCommand) (*usecases.RequestQuoteResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockAddCommentUC struct {
	result *ticketdto.CommentDTO
	err    error
}

func (m *mockAddCommentUC) Execute(_ context.Context, _ usecases.AddCommentCommand) (*ticketdto.CommentDTO, error) {
	return m.result, m.err
}

// =====================================================================
// Test helper
// =====================================================================

const testTicketSID = "tk_abc123XYZ"

func newTestTicketHandler(deps Deps) *TicketHandler {
	return NewTicketHandler(deps, testutil.NewMockLogger())
}

// =====================================================================
// CreateTicket
// =====================================================================

func TestTicketHandler_CreateTicket(t *testing.T) {
	t.Run("created", func(t *testing.T) {
		uc := &mockCreateTicketUC{result: &ticketdto.TicketDTO{ID: testTicketSID, Status: "OPEN"}}
		h := newTestTicketHandler(Deps{Create: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets", map[string]any{
			"title":       "Broken till",
			"description": "Till 3 does not power on",
			"priority":    "HIGH",
			"department":  "RETAIL",
		})
		testutil.SetActor(c, 7, 1, authorization.RoleEndUser)

		h.CreateTicket(c)

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, uint(7), uc.got.Actor.UserID)
		assert.Equal(t, uint(1), uc.got.Actor.TenantID)
		assert.Equal(t, "RETAIL", uc.got.Department)
	})

	t.Run("missing title is a validation error", func(t *testing.T) {
		h := newTestTicketHandler(Deps{Create: &mockCreateTicketUC{}})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets", map[string]any{
			"description": "no title",
			"priority":    "LOW",
			"department":  "IT",
		})
		testutil.SetActor(c, 7, 1, authorization.RoleEndUser)

		h.CreateTicket(c)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		assert.False(t, resp.Success)
		require.NotNil(t, resp.Error)
		assert.Equal(t, string(errors.ErrorTypeValidation), resp.Error.Type)
		assert.Contains(t, resp.Error.Details, "title")
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := newTestTicketHandler(Deps{Create: &mockCreateTicketUC{}})
		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets", map[string]any{"title": "x"})

		h.CreateTicket(c)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("forbidden from use case", func(t *testing.T) {
		uc := &mockCreateTicketUC{err: errors.NewForbiddenError("contractors cannot raise tickets")}
		h := newTestTicketHandler(Deps{Create: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets", map[string]any{
			"title":       "x",
			"description": "y",
			"priority":    "LOW",
			"department":  "IT",
		})
		testutil.SetActor(c, 9, 1, authorization.RoleContractor)

		h.CreateTicket(c)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

// =====================================================================
// GetTicket / ListTickets
// =====================================================================

func TestTicketHandler_GetTicket(t *testing.T) {
	tests := []struct {
		name       string
		sid        string
		uc         *mockGetTicketUC
		wantStatus int
	}{
		{"found", testTicketSID, &mockGetTicketUC{result: &ticketdto.TicketDTO{ID: testTicketSID}}, http.StatusOK},
		{"wrong prefix", "inv_abc123", &mockGetTicketUC{}, http.StatusBadRequest},
		{"not found", testTicketSID, &mockGetTicketUC{err: errors.NewNotFoundError("ticket not found")}, http.StatusNotFound},
		{"unclassified error", testTicketSID, &mockGetTicketUC{err: assert.AnError}, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestTicketHandler(Deps{Get: tt.uc})
			c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/tickets/"+tt.sid, nil)
			testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)
			testutil.SetURLParam(c, "sid", tt.sid)

			h.GetTicket(c)

			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestTicketHandler_ListTickets(t *testing.T) {
	uc := &mockListTicketsUC{result: &usecases.ListTicketsResult{
		Tickets:  []*ticketdto.TicketDTO{{ID: testTicketSID}},
		Total:    1,
		Page:     2,
		PageSize: 10,
	}}
	h := newTestTicketHandler(Deps{List: uc})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/tickets", nil)
	testutil.SetActor(c, 1, 1, authorization.RoleITAdmin)
	testutil.SetQueryParams(c, map[string]string{
		"page":        "2",
		"page_size":   "10",
		"status":      "OPEN",
		"assignee_id": "42",
	})

	h.ListTickets(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, uc.got.Page)
	assert.Equal(t, 10, uc.got.PageSize)
	assert.Equal(t, "OPEN", uc.got.Status)
	require.NotNil(t, uc.got.AssigneeID)
	assert.Equal(t, uint(42), *uc.got.AssigneeID)
}

func TestTicketHandler_ListTickets_BadAssignee(t *testing.T) {
	h := newTestTicketHandler(Deps{List: &mockListTicketsUC{}})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/tickets", nil)
	testutil.SetActor(c, 1, 1, authorization.RoleITAdmin)
	testutil.SetQueryParams(c, map[string]string{"assignee_id": "abc"})

	h.ListTickets(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// =====================================================================
// ApplyTransition
// =====================================================================

func TestTicketHandler_ApplyTransition(t *testing.T) {
	t.Run("action forwarded with payload", func(t *testing.T) {
		uc := &mockApplyTransitionUC{result: &ticketdto.TicketDTO{ID: testTicketSID, Status: "ACCEPTED"}}
		h := newTestTicketHandler(Deps{Transition: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/transitions", map[string]any{
			"action":            "accept",
			"job_plan":          "replace power supply",
			"estimated_arrival": "2026-03-02T09:00:00Z",
			"estimated_days":    1,
		})
		testutil.SetActor(c, 9, 1, authorization.RoleContractor)
		testutil.SetURLParam(c, "sid", testTicketSID)

		h.ApplyTransition(c)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "accept", uc.got.Action)
		assert.Equal(t, testTicketSID, uc.got.SID)
		assert.Equal(t, "replace power supply", uc.got.JobPlan)
		require.NotNil(t, uc.got.EstimatedArrival)
		require.NotNil(t, uc.got.EstimatedDays)
		assert.Equal(t, 1, *uc.got.EstimatedDays)
	})

	t.Run("neither action nor status", func(t *testing.T) {
		uc := &mockApplyTransitionUC{}
		h := newTestTicketHandler(Deps{Transition: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/transitions", map[string]any{
			"reason": "x",
		})
		testutil.SetActor(c, 9, 1, authorization.RoleContractor)
		testutil.SetURLParam(c, "sid", testTicketSID)

		h.ApplyTransition(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, uc.called)
	})

	t.Run("rating out of range", func(t *testing.T) {
		uc := &mockApplyTransitionUC{}
		h := newTestTicketHandler(Deps{Transition: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/transitions", map[string]any{
			"action": "rate",
			"rating": 9,
		})
		testutil.SetActor(c, 7, 1, authorization.RoleEndUser)
		testutil.SetURLParam(c, "sid", testTicketSID)

		h.ApplyTransition(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.False(t, uc.called)
	})

	t.Run("invalid transition maps to 400", func(t *testing.T) {
		uc := &mockApplyTransitionUC{err: errors.NewInvalidTransitionError("transition not allowed")}
		h := newTestTicketHandler(Deps{Transition: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/transitions", map[string]any{
			"status": "CLOSED",
		})
		testutil.SetActor(c, 7, 1, authorization.RoleEndUser)
		testutil.SetURLParam(c, "sid", testTicketSID)

		h.ApplyTransition(c)

		require.Equal(t, http.StatusBadRequest, w.Code)
		var resp testutil.APIResponse
		require.NoError(t, testutil.ParseResponse(w, &resp))
		require.NotNil(t, resp.Error)
		assert.Equal(t, string(errors.ErrorTypeInvalidTransition), resp.Error.Type)
	})
}

// =====================================================================
// Cancel / Assign / Quotes / Comments
// =====================================================================

func TestTicketHandler_CancelTicket(t *testing.T) {
	uc := &mockCancelTicketUC{result: &ticketdto.TicketDTO{ID: testTicketSID, Status: "CANCELLED"}}
	h := newTestTicketHandler(Deps{Cancel: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/cancel", map[string]any{
		"reason": "duplicate",
	})
	testutil.SetActor(c, 7, 1, authorization.RoleEndUser)
	testutil.SetURLParam(c, "sid", testTicketSID)

	h.CancelTicket(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "duplicate", uc.got.Reason)
}

func TestTicketHandler_AssignTicket_Conflict(t *testing.T) {
	h := newTestTicketHandler(Deps{Assign: &mockAssignTicketUC{err: errors.NewConflictError("ticket has already been assigned")}})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/assign", map[string]any{
		"assignee_id": 9,
	})
	testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)
	testutil.SetURLParam(c, "sid", testTicketSID)

	h.AssignTicket(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestTicketHandler_AssignTicket_MissingAssignee(t *testing.T) {
	h := newTestTicketHandler(Deps{Assign: &mockAssignTicketUC{}})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/assign", map[string]any{})
	testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)
	testutil.SetURLParam(c, "sid", testTicketSID)

	h.AssignTicket(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketHandler_RequestQuotes(t *testing.T) {
	uc := &mockRequestQuoteUC{result: &usecases.RequestQuoteResult{Invited: []uint{9, 10}}}
	h := newTestTicketHandler(Deps{RequestQuote: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/quote-requests", map[string]any{
		"contractor_ids": []uint{9, 10},
	})
	testutil.SetActor(c, 1, 1, authorization.RoleMaintenanceAdmin)
	testutil.SetURLParam(c, "sid", testTicketSID)

	h.RequestQuotes(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []uint{9, 10}, uc.got.ContractorIDs)
}

func TestTicketHandler_RequestQuotes_Empty(t *testing.T) {
	h := newTestTicketHandler(Deps{RequestQuote: &mockRequestQuoteUC{}})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/quote-requests", map[string]any{
		"contractor_ids": []uint{},
	})
	testutil.SetActor(c, 1, 1, authorization.RoleMaintenanceAdmin)
	testutil.SetURLParam(c, "sid", testTicketSID)

	h.RequestQuotes(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTicketHandler_AddComment(t *testing.T) {
	h := newTestTicketHandler(Deps{AddComment: &mockAddCommentUC{result: &ticketdto.CommentDTO{}}})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/tickets/"+testTicketSID+"/comments", map[string]any{
		"body": "On my way",
	})
	testutil.SetActor(c, 9, 1, authorization.RoleContractor)
	testutil.SetURLParam(c, "sid", testTicketSID)

	h.AddComment(c)

	assert.Equal(t, http.StatusCreated, w.Code)
}
