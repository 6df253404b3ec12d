package invoice

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

func approvedInvoice(t *testing.T, id uint, amount, paid int64) *Invoice {
	t.Helper()
	inv, err := ReconstructInvoice(ReconstructParams{
		ID: id, SID: "inv_" + string(rune('a'+id)), TenantID: 1, TicketID: id, ContractorID: 20 + id,
		InvoiceNumber: "INV", AmountCents: amount, PaidAmountCents: paid, BalanceCents: amount - paid,
		Currency: "USD", Status: vo.StatusApproved, IsActive: true, RevisionNumber: 1, Version: 1,
	})
	require.NoError(t, err)
	return inv
}

func TestFormatBatchNumber(t *testing.T) {
	assert.Equal(t, "PB202605040001", FormatBatchNumber(testNow, 1))
	assert.Equal(t, "PB202605040123", FormatBatchNumber(testNow, 123))
}

func TestNewPaymentBatch(t *testing.T) {
	a := approvedInvoice(t, 1, 10000, 0)
	b := approvedInvoice(t, 2, 5000, 2000)

	batch, err := NewPaymentBatch(1, 99, []*Invoice{a, b}, "/uploads/pop.pdf", "", testNow)
	require.NoError(t, err)
	assert.Equal(t, int64(13000), batch.TotalCents())
	assert.Equal(t, "20260504", batch.BatchDate())

	require.NoError(t, batch.AssignSequence(3))
	assert.Equal(t, "PB202605040003", batch.BatchNumber())
	assert.Error(t, batch.AssignSequence(4))

	batch.SetID(5)
	require.NoError(t, batch.Settle([]*Invoice{a, b}, testNow))
	for _, inv := range []*Invoice{a, b} {
		assert.Equal(t, vo.StatusPaid, inv.Status())
		assert.Equal(t, inv.AmountCents(), inv.PaidAmountCents())
		assert.Equal(t, int64(0), inv.BalanceCents())
		assert.Equal(t, uint(5), *inv.PaymentBatchID())
		assert.NoError(t, inv.CheckInvariants())
	}
	assert.Len(t, batch.PullEvents(), 1)
}

func TestNewPaymentBatch_Rejections(t *testing.T) {
	_, err := NewPaymentBatch(1, 99, nil, "", "", testNow)
	assert.True(t, errors.IsValidationError(err))

	pending, err := NewInvoice(submitParams(100), testNow)
	require.NoError(t, err)
	_, err = NewPaymentBatch(1, 99, []*Invoice{pending}, "", "", testNow)
	assert.True(t, errors.IsConflictError(err))

	a := approvedInvoice(t, 1, 100, 0)
	_, err = NewPaymentBatch(2, 99, []*Invoice{a}, "", "", testNow)
	assert.True(t, errors.IsNotFoundError(err), "other tenant's invoices are invisible")

	_, err = NewPaymentBatch(1, 99, []*Invoice{a, a}, "", "", testNow)
	assert.True(t, errors.IsValidationError(err))
}
