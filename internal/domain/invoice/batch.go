package invoice

import (
	"fmt"
	"strings"
	"time"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

// FormatBatchNumber renders "PB" + business date + 4-digit sequence.
func FormatBatchNumber(at time.Time, seq int) string {
	return fmt.Sprintf("PB%s%04d", biztime.DateKey(at), seq)
}

// PaymentBatch settles many approved invoices of one tenant at once.
type PaymentBatch struct {
	events.Recorder

	id          uint
	sid         string
	tenantID    uint
	batchNumber string
	batchDate   string
	sequence    int
	totalAmount int64
	currency    string
	popFileURL  string
	notes       string
	createdByID uint
	invoiceIDs  []uint
	createdAt   time.Time
}

// NewPaymentBatch checks the selection and totals the balances to be paid.
// The batch number is assigned once a sequence has been allocated.
func NewPaymentBatch(tenantID, createdByID uint, invoices []*Invoice, popFileURL, notes string, now time.Time) (*PaymentBatch, error) {
	if len(invoices) == 0 {
		return nil, errors.NewValidationError("a payment batch needs at least one invoice")
	}

	seen := make(map[uint]bool, len(invoices))
	ids := make([]uint, 0, len(invoices))
	currency := invoices[0].currency
	var total int64
	for _, inv := range invoices {
		if inv.tenantID != tenantID {
			return nil, errors.NewNotFoundError("invoice not found", inv.sid)
		}
		if seen[inv.id] {
			return nil, errors.NewValidationError("invoice listed twice", inv.sid)
		}
		if inv.status != vo.StatusApproved {
			return nil, errors.NewConflictError("only approved invoices can be batched", inv.sid+" is "+string(inv.status))
		}
		if inv.paymentBatchID != nil {
			return nil, errors.NewConflictError("invoice is already in a payment batch", inv.sid)
		}
		if inv.currency != currency {
			return nil, errors.NewValidationError("all invoices in a batch must share a currency")
		}
		seen[inv.id] = true
		ids = append(ids, inv.id)
		total += inv.balance
	}

	return &PaymentBatch{
		tenantID:    tenantID,
		batchDate:   biztime.DateKey(now),
		totalAmount: total,
		currency:    currency,
		popFileURL:  popFileURL,
		notes:       strings.TrimSpace(notes),
		createdByID: createdByID,
		invoiceIDs:  ids,
		createdAt:   now,
	}, nil
}

// AssignSequence sets the allocated sequence and derives the batch number.
func (b *PaymentBatch) AssignSequence(seq int) error {
	if b.batchNumber != "" {
		return fmt.Errorf("batch number is already set")
	}
	if seq <= 0 {
		return fmt.Errorf("sequence must be positive")
	}
	b.sequence = seq
	b.batchNumber = FormatBatchNumber(b.createdAt, seq)
	return nil
}

// Settle marks every invoice paid by this batch. The invoices must be the
// ones the batch was created from.
func (b *PaymentBatch) Settle(invoices []*Invoice, now time.Time) error {
	if b.id == 0 {
		return fmt.Errorf("batch must be persisted before settling")
	}
	if len(invoices) != len(b.invoiceIDs) {
		return errors.NewConflictError("invoice selection changed while building the batch")
	}
	contractors := make([]uint, 0, len(invoices))
	for _, inv := range invoices {
		if err := inv.SettleInBatch(b.id, now); err != nil {
			return err
		}
		contractors = append(contractors, inv.contractorID)
	}
	b.Record(newBatchCreatedEvent(b, contractors, now))
	return nil
}

type BatchReconstructParams struct {
	ID          uint
	SID         string
	TenantID    uint
	BatchNumber string
	BatchDate   string
	Sequence    int
	TotalCents  int64
	Currency    string
	PopFileURL  string
	Notes       string
	CreatedByID uint
	InvoiceIDs  []uint
	CreatedAt   time.Time
}

func ReconstructPaymentBatch(p BatchReconstructParams) *PaymentBatch {
	return &PaymentBatch{
		id:          p.ID,
		sid:         p.SID,
		tenantID:    p.TenantID,
		batchNumber: p.BatchNumber,
		batchDate:   p.BatchDate,
		sequence:    p.Sequence,
		totalAmount: p.TotalCents,
		currency:    p.Currency,
		popFileURL:  p.PopFileURL,
		notes:       p.Notes,
		createdByID: p.CreatedByID,
		invoiceIDs:  p.InvoiceIDs,
		createdAt:   p.CreatedAt,
	}
}

func (b *PaymentBatch) ID() uint             { return b.id }
func (b *PaymentBatch) SID() string          { return b.sid }
func (b *PaymentBatch) TenantID() uint       { return b.tenantID }
func (b *PaymentBatch) BatchNumber() string  { return b.batchNumber }
func (b *PaymentBatch) BatchDate() string    { return b.batchDate }
func (b *PaymentBatch) Sequence() int        { return b.sequence }
func (b *PaymentBatch) TotalCents() int64    { return b.totalAmount }
func (b *PaymentBatch) Currency() string     { return b.currency }
func (b *PaymentBatch) PopFileURL() string   { return b.popFileURL }
func (b *PaymentBatch) Notes() string        { return b.notes }
func (b *PaymentBatch) CreatedByID() uint    { return b.createdByID }
func (b *PaymentBatch) InvoiceIDs() []uint   { return b.invoiceIDs }
func (b *PaymentBatch) CreatedAt() time.Time { return b.createdAt }

func (b *PaymentBatch) Total() money.Money { return money.New(b.totalAmount, b.currency) }

func (b *PaymentBatch) SetID(id uint) {
	if b.id == 0 {
		b.id = id
	}
}

func (b *PaymentBatch) SetSID(sid string) {
	if b.sid == "" {
		b.sid = sid
	}
}
