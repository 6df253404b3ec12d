package payment

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
)

var testNow = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

func newPendingPayment(t *testing.T) *Payment {
	t.Helper()
	p, err := NewPayment(1, 42, money.New(4900, "USD"), vo.ProviderPaynow, testNow)
	require.NoError(t, err)
	require.NoError(t, p.AssignSID("pay_abc123"))
	require.NoError(t, p.SetID(9))
	return p
}

func TestReference_RoundTrip(t *testing.T) {
	ref := BuildReference(42, "pay_abc123")
	assert.Equal(t, "TT-SUB-42-pay_abc123", ref)

	subID, sid, ok := ParseReference(ref)
	require.True(t, ok)
	assert.Equal(t, uint(42), subID)
	assert.Equal(t, "pay_abc123", sid)
}

func TestParseReference_Invalid(t *testing.T) {
	for _, ref := range []string{"", "INV-42-pay_x", "TT-SUB-", "TT-SUB-abc-pay_x", "TT-SUB-0-pay_x", "TT-SUB-42-", "TT-SUB-42"} {
		_, _, ok := ParseReference(ref)
		assert.False(t, ok, ref)
	}
}

func TestNewPayment(t *testing.T) {
	p := newPendingPayment(t)
	assert.Equal(t, vo.PaymentStatusPending, p.Status())
	assert.Equal(t, "TT-SUB-42-pay_abc123", p.Reference())

	_, err := NewPayment(1, 42, money.New(0, "USD"), vo.ProviderPaynow, testNow)
	assert.Error(t, err)
	_, err = NewPayment(1, 0, money.New(100, "USD"), vo.ProviderPaynow, testNow)
	assert.Error(t, err)
}

func TestMarkSucceeded_AppliesOnce(t *testing.T) {
	p := newPendingPayment(t)

	assert.True(t, p.MarkSucceeded("PN-1", map[string]any{"status": "Paid"}, testNow))
	assert.Equal(t, vo.PaymentStatusSuccess, p.Status())
	require.NotNil(t, p.ProviderPaymentID())
	assert.Equal(t, "PN-1", *p.ProviderPaymentID())
	assert.NotNil(t, p.PaidAt())
	version := p.Version()

	assert.False(t, p.MarkSucceeded("PN-1", nil, testNow.Add(time.Minute)))
	assert.Equal(t, version, p.Version())
	assert.Len(t, p.PullEvents(), 1)
}

func TestMarkFailed(t *testing.T) {
	p := newPendingPayment(t)
	assert.True(t, p.MarkFailed("Cancelled", "PN-2", nil, testNow))
	assert.Equal(t, vo.PaymentStatusFailed, p.Status())
	assert.Equal(t, "Cancelled", p.FailureReason())

	settled := newPendingPayment(t)
	settled.MarkSucceeded("PN-3", nil, testNow)
	assert.False(t, settled.MarkFailed("Refunded", "PN-3", nil, testNow))
	assert.Equal(t, vo.PaymentStatusSuccess, settled.Status())
}

func TestNotePending_KeepsStatus(t *testing.T) {
	p := newPendingPayment(t)
	p.NotePending("PN-4", "https://paynow.example/poll/4", map[string]any{"status": "Sent"}, testNow)
	assert.Equal(t, vo.PaymentStatusPending, p.Status())
	assert.Equal(t, "https://paynow.example/poll/4", p.PollURL())
	assert.Equal(t, "Sent", p.ProviderResponse()["status"])
}

func TestCallbackDedupeKey(t *testing.T) {
	c := &Callback{Provider: vo.ProviderPaynow, ProviderReference: "PN-1", Outcome: vo.OutcomeSuccess}
	assert.Equal(t, "paynow:PN-1:success", c.DedupeKey())

	c.ProviderReference = ""
	c.Reference = "TT-SUB-1-pay_x"
	assert.Equal(t, "paynow:TT-SUB-1-pay_x:success", c.DedupeKey())
}
