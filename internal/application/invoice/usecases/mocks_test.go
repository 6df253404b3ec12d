package usecases

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	ticketvo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memInvoices struct {
	mu         sync.Mutex
	rows       map[uint]*invoice.Invoice
	nextID     uint
	settleFail bool
}

func newMemInvoices() *memInvoices {
	return &memInvoices{rows: map[uint]*invoice.Invoice{}}
}

func (m *memInvoices) Create(_ context.Context, inv *invoice.Invoice) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.IsActive() && r.TicketID() == inv.TicketID() {
			return fmt.Errorf("UNIQUE constraint failed: invoices.active_ticket_key")
		}
	}
	m.nextID++
	if err := inv.SetID(m.nextID); err != nil {
		return err
	}
	m.rows[inv.ID()] = inv
	return nil
}

func (m *memInvoices) Update(context.Context, *invoice.Invoice) error { return nil }

func (m *memInvoices) Deactivate(_ context.Context, inv *invoice.Invoice) error {
	if inv.Status() != vo.StatusRejected {
		return errors.NewConflictError("invoice moved")
	}
	return nil
}

func (m *memInvoices) MarkSettled(context.Context, []*invoice.Invoice) error {
	if m.settleFail {
		return errors.NewConflictError("invoice selection changed")
	}
	return nil
}

func (m *memInvoices) GetBySID(_ context.Context, tenantID uint, sid string) (*invoice.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.SID() == sid && r.TenantID() == tenantID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memInvoices) GetBySIDForUpdate(ctx context.Context, tenantID uint, sid string) (*invoice.Invoice, error) {
	return m.GetBySID(ctx, tenantID, sid)
}

func (m *memInvoices) GetBySIDsForUpdate(ctx context.Context, tenantID uint, sids []string) ([]*invoice.Invoice, error) {
	var out []*invoice.Invoice
	for _, sid := range sids {
		inv, _ := m.GetBySID(ctx, tenantID, sid)
		if inv != nil {
			out = append(out, inv)
		}
	}
	return out, nil
}

func (m *memInvoices) GetActiveByTicketForUpdate(_ context.Context, ticketID uint) (*invoice.Invoice, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, r := range m.rows {
		if r.IsActive() && r.TicketID() == ticketID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memInvoices) ListByTicket(_ context.Context, ticketID uint) ([]*invoice.Invoice, error) {
	var out []*invoice.Invoice
	for _, r := range m.rows {
		if r.TicketID() == ticketID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memInvoices) ListByBatch(_ context.Context, batchID uint) ([]*invoice.Invoice, error) {
	var out []*invoice.Invoice
	for _, r := range m.rows {
		if r.PaymentBatchID() != nil && *r.PaymentBatchID() == batchID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memInvoices) List(_ context.Context, f invoice.InvoiceFilter) ([]*invoice.Invoice, int64, error) {
	var out []*invoice.Invoice
	for i := uint(1); i <= m.nextID; i++ {
		r := m.rows[i]
		if r == nil || r.TenantID() != f.TenantID {
			continue
		}
		if f.ContractorID != nil && r.ContractorID() != *f.ContractorID {
			continue
		}
		if f.Status != nil && r.Status() != *f.Status {
			continue
		}
		if f.ActiveOnly && !r.IsActive() {
			continue
		}
		out = append(out, r)
	}
	return out, int64(len(out)), nil
}

type memBatches struct {
	rows   []*invoice.PaymentBatch
	nextID uint
}

func (m *memBatches) Create(_ context.Context, b *invoice.PaymentBatch) error {
	for _, r := range m.rows {
		if r.BatchNumber() == b.BatchNumber() {
			return fmt.Errorf("Duplicate entry '%s' for key 'batch_number'", b.BatchNumber())
		}
	}
	m.nextID++
	b.SetID(m.nextID)
	m.rows = append(m.rows, b)
	return nil
}

func (m *memBatches) GetBySID(_ context.Context, tenantID uint, sid string) (*invoice.PaymentBatch, error) {
	for _, r := range m.rows {
		if r.SID() == sid && r.TenantID() == tenantID {
			return r, nil
		}
	}
	return nil, nil
}

func (m *memBatches) List(_ context.Context, tenantID uint, _, _ int) ([]*invoice.PaymentBatch, int64, error) {
	var out []*invoice.PaymentBatch
	for _, r := range m.rows {
		if r.TenantID() == tenantID {
			out = append(out, r)
		}
	}
	return out, int64(len(out)), nil
}

type counterSequences map[string]int

func (c counterSequences) Next(_ context.Context, tenantID uint, date string) (int, error) {
	key := fmt.Sprintf("%d:%s", tenantID, date)
	c[key]++
	return c[key], nil
}

type ticketLookup struct {
	ticket.TicketRepository
	rows map[string]*ticket.Ticket
}

func (l ticketLookup) GetBySID(_ context.Context, tenantID uint, sid string) (*ticket.Ticket, error) {
	t := l.rows[sid]
	if t == nil || t.TenantID() != tenantID {
		return nil, nil
	}
	return t, nil
}

type recordingPublisher struct {
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	p.events = append(p.events, evts...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type memFiles struct {
	saved map[string][]byte
}

func (f *memFiles) Save(_ context.Context, tenantID uint, filename string, r io.Reader) (string, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, r); err != nil {
		return "", err
	}
	url := fmt.Sprintf("/files/%d/%s", tenantID, filename)
	f.saved[url] = buf.Bytes()
	return url, nil
}

type csvRenderer struct{}

func (csvRenderer) Render(b *dto.PaymentBatchDTO, invoices []*dto.InvoiceDTO) ([]byte, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "%s,%d\n", b.BatchNumber, len(invoices))
	return buf.Bytes(), nil
}
func (csvRenderer) ContentType() string { return "text/csv" }
func (csvRenderer) Extension() string   { return ".csv" }

type batchCounter int

func (c *batchCounter) PaymentBatchCreated() { *c++ }

var (
	admin      = authorization.Actor{UserID: 1, Role: authorization.RoleTenantAdmin, TenantID: 1}
	requester  = authorization.Actor{UserID: 10, Role: authorization.RoleEndUser, TenantID: 1}
	contractor = authorization.Actor{UserID: 20, Role: authorization.RoleContractor, TenantID: 1}
	other      = authorization.Actor{UserID: 21, Role: authorization.RoleContractor, TenantID: 1}
	foreigner  = authorization.Actor{UserID: 30, Role: authorization.RoleTenantAdmin, TenantID: 2}
)

type fixture struct {
	invoices  *memInvoices
	batches   *memBatches
	tickets   ticketLookup
	files     *memFiles
	publisher *recordingPublisher
	created   batchCounter

	submit      *SubmitInvoiceUseCase
	approve     *ApproveInvoiceUseCase
	reject      *RejectInvoiceUseCase
	pay         *RecordPaymentUseCase
	clarify     *RequestClarificationUseCase
	respond     *RespondClarificationUseCase
	batch       *CreatePaymentBatchUseCase
	get         *GetInvoiceUseCase
	list        *ListInvoicesUseCase
	revisions   *GetRevisionChainUseCase
	getBatch    *GetPaymentBatchUseCase
	listBatches *ListPaymentBatchesUseCase
	export      *ExportPaymentBatchUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		invoices:  newMemInvoices(),
		batches:   &memBatches{},
		tickets:   ticketLookup{rows: map[string]*ticket.Ticket{}},
		files:     &memFiles{saved: map[string][]byte{}},
		publisher: &recordingPublisher{},
	}
	log := logger.NewNop()
	deps := InvoiceActionDeps{Tx: passthroughTx{}, Invoices: f.invoices, Publisher: f.publisher, Logger: log}

	f.submit = NewSubmitInvoiceUseCase(passthroughTx{}, f.invoices, f.tickets, f.files, f.publisher, "USD", log)
	f.approve = NewApproveInvoiceUseCase(deps)
	f.reject = NewRejectInvoiceUseCase(deps)
	f.pay = NewRecordPaymentUseCase(deps)
	f.clarify = NewRequestClarificationUseCase(deps)
	f.respond = NewRespondClarificationUseCase(deps)
	f.batch = NewCreatePaymentBatchUseCase(passthroughTx{}, f.invoices, f.batches, counterSequences{}, f.files, f.publisher, &f.created, log)
	f.get = NewGetInvoiceUseCase(f.invoices, log)
	f.list = NewListInvoicesUseCase(f.invoices, log)
	f.revisions = NewGetRevisionChainUseCase(f.invoices, log)
	f.getBatch = NewGetPaymentBatchUseCase(f.batches, f.invoices, log)
	f.listBatches = NewListPaymentBatchesUseCase(f.batches, log)
	f.export = NewExportPaymentBatchUseCase(f.batches, f.invoices, csvRenderer{}, log)
	return f
}

// addTicket stores a ticket assigned to the given contractor.
func (f *fixture) addTicket(t *testing.T, id uint, status ticketvo.TicketStatus, assignee uint) string {
	t.Helper()
	now := time.Now().UTC()
	sid := fmt.Sprintf("tk_%012d", id)
	tk, err := ticket.ReconstructTicket(ticket.ReconstructParams{
		ID:           id,
		SID:          sid,
		Number:       fmt.Sprintf("TT-20260101-%06d", id),
		TenantID:     1,
		Title:        "Broken till",
		Priority:     ticketvo.PriorityMedium,
		Department:   authorization.DepartmentGeneral,
		Status:       status,
		UserID:       requester.UserID,
		AssignedToID: &assignee,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	require.NoError(t, err)
	f.tickets.rows[sid] = tk
	return sid
}

func (f *fixture) submitted(t *testing.T, ticketSID string, number string, cents int64) *dto.InvoiceDTO {
	t.Helper()
	inv, err := f.submit.Execute(context.Background(), SubmitInvoiceCommand{
		Actor:         contractor,
		TicketSID:     ticketSID,
		InvoiceNumber: number,
		AmountCents:   cents,
	})
	require.NoError(t, err)
	return inv
}

func (f *fixture) approved(t *testing.T, ticketSID string, number string, cents int64) *dto.InvoiceDTO {
	t.Helper()
	inv := f.submitted(t, ticketSID, number, cents)
	out, err := f.approve.Execute(context.Background(), ApproveInvoiceCommand{Actor: admin, SID: inv.ID})
	require.NoError(t, err)
	return out
}
