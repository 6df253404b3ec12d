package invoice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

var testNow = time.Date(2026, 5, 4, 8, 30, 0, 0, time.UTC)

func submitParams(amount int64) SubmitParams {
	return SubmitParams{
		TenantID:        1,
		TicketID:        7,
		ContractorID:    20,
		InvoiceNumber:   "INV-1",
		AmountCents:     amount,
		WorkDescription: "replaced valve",
	}
}

func persisted(t *testing.T, inv *Invoice, id uint) *Invoice {
	t.Helper()
	require.NoError(t, inv.SetID(id))
	require.NoError(t, inv.SetSID("inv_test"))
	return inv
}

func TestNewInvoice(t *testing.T) {
	inv, err := NewInvoice(submitParams(10000), testNow)
	require.NoError(t, err)

	assert.Equal(t, vo.StatusPending, inv.Status())
	assert.True(t, inv.IsActive())
	assert.Equal(t, 1, inv.RevisionNumber())
	assert.Equal(t, int64(10000), inv.BalanceCents())
	assert.Equal(t, "USD", inv.Currency())
	assert.NoError(t, inv.CheckInvariants())

	for name, p := range map[string]SubmitParams{
		"zero amount":    submitParams(0),
		"missing number": func() SubmitParams { p := submitParams(100); p.InvoiceNumber = " "; return p }(),
		"missing ticket": func() SubmitParams { p := submitParams(100); p.TicketID = 0; return p }(),
	} {
		_, err := NewInvoice(p, testNow)
		assert.True(t, errors.IsValidationError(err), name)
	}
}

func TestRejectAndResubmit(t *testing.T) {
	first, err := NewInvoice(submitParams(10000), testNow)
	require.NoError(t, err)
	persisted(t, first, 1)

	require.NoError(t, first.Reject("wrong rate", testNow))
	assert.Equal(t, vo.StatusRejected, first.Status())
	assert.True(t, first.IsActive(), "rejected invoice stays active until resubmission")

	p := submitParams(12000)
	p.InvoiceNumber = "INV-2"
	second, err := first.Revise(p, testNow)
	require.NoError(t, err)

	assert.False(t, first.IsActive())
	assert.Equal(t, 2, second.RevisionNumber())
	require.NotNil(t, second.PreviousInvoiceID())
	assert.Equal(t, uint(1), *second.PreviousInvoiceID())
	assert.Equal(t, vo.StatusPending, second.Status())
	assert.True(t, second.IsActive())

	_, err = first.Revise(p, testNow)
	assert.True(t, errors.IsConflictError(err), "superseded invoice cannot be revised again")
}

func TestRevise_ConflictWhenNotRejected(t *testing.T) {
	for _, status := range []vo.InvoiceStatus{vo.StatusPending, vo.StatusApproved, vo.StatusPaid} {
		p := ReconstructParams{
			ID: 1, TenantID: 1, TicketID: 7, ContractorID: 20, InvoiceNumber: "INV-1",
			AmountCents: 100, BalanceCents: 100, Status: status, IsActive: true, RevisionNumber: 1,
		}
		if status == vo.StatusPaid {
			p.PaidAmountCents, p.BalanceCents = 100, 0
		}
		inv, err := ReconstructInvoice(p)
		require.NoError(t, err)

		_, err = inv.Revise(submitParams(200), testNow)
		assert.True(t, errors.IsConflictError(err), string(status))
		assert.True(t, inv.IsActive())
	}
}

func TestReject_RequiresReason(t *testing.T) {
	inv, err := NewInvoice(submitParams(100), testNow)
	require.NoError(t, err)
	assert.True(t, errors.IsValidationError(inv.Reject("  ", testNow)))
	assert.Equal(t, vo.StatusPending, inv.Status())
}

func TestRecordPayment(t *testing.T) {
	inv, err := NewInvoice(submitParams(10000), testNow)
	require.NoError(t, err)
	persisted(t, inv, 1)

	assert.Error(t, inv.RecordPayment(100, testNow), "pending invoices cannot be paid")
	require.NoError(t, inv.Approve(99, testNow))

	require.NoError(t, inv.RecordPayment(4000, testNow))
	assert.Equal(t, vo.StatusApproved, inv.Status())
	assert.Equal(t, int64(4000), inv.PaidAmountCents())
	assert.Equal(t, int64(6000), inv.BalanceCents())
	assert.NoError(t, inv.CheckInvariants())

	assert.True(t, errors.IsValidationError(inv.RecordPayment(6001, testNow)))
	assert.True(t, errors.IsValidationError(inv.RecordPayment(0, testNow)))

	require.NoError(t, inv.RecordPayment(6000, testNow))
	assert.Equal(t, vo.StatusPaid, inv.Status())
	assert.Equal(t, int64(0), inv.BalanceCents())
	assert.NotNil(t, inv.PaidAt())
	assert.NoError(t, inv.CheckInvariants())
}

func TestClarification(t *testing.T) {
	inv, err := NewInvoice(submitParams(500), testNow)
	require.NoError(t, err)
	require.NoError(t, inv.Approve(99, testNow))

	assert.True(t, errors.IsValidationError(inv.RespondClarification(20, "here", testNow)))

	require.NoError(t, inv.RequestClarification("attach receipts", testNow))
	assert.Equal(t, vo.StatusApproved, inv.Status(), "a request does not change status")

	assert.True(t, errors.IsForbiddenError(inv.RespondClarification(21, "here", testNow)))
	require.NoError(t, inv.RespondClarification(20, "receipts attached", testNow))
	assert.Equal(t, vo.StatusPending, inv.Status())
	assert.Nil(t, inv.ApprovedByID())
}

func TestReconstructInvoice_RejectsBrokenBalance(t *testing.T) {
	_, err := ReconstructInvoice(ReconstructParams{
		ID: 1, AmountCents: 100, PaidAmountCents: 10, BalanceCents: 80, Status: vo.StatusApproved,
	})
	assert.Error(t, err)
}
