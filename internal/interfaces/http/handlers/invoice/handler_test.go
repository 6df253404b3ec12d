package invoice

import (
	"context"
	"io"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	invoicedto "github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/usecases"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/interfaces/http/handlers/testutil"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
)

type mockSubmitInvoiceUC struct {
	got      usecases.SubmitInvoiceCommand
	fileBody string
	result   *invoicedto.InvoiceDTO
	err      error
}

func (m *mockSubmitInvoiceUC) Execute(_ context.Context, cmd usecases.SubmitInvoiceCommand) (*invoicedto.InvoiceDTO, error) {
	m.got = cmd
	if cmd.File != nil {
		b, _ := io.ReadAll(cmd.File.Reader)
		m.fileBody = string(b)
	}
	return m.result, m.err
}

type mockRejectInvoiceUC struct {
	called bool
	result *invoicedto.InvoiceDTO
	err    error
}

func (m *mockRejectInvoiceUC) Execute(_ context.Context, _ usecases.RejectInvoiceCommand) (*invoicedto.InvoiceDTO, error) {
	m.called = true
	return m.result, m.err
}

type mockRecordPaymentUC struct {
	got    usecases.RecordPaymentCommand
	result *invoicedto.InvoiceDTO
	err    error
}

func (m *mockRecordPaymentUC) Execute(_ context.Context, cmd usecases.RecordPaymentCommand) (*invoicedto.InvoiceDTO, error) {
	m.got = cmd
	return m.result, m.err
}

type mockCreateBatchUC struct {
	got    usecases.CreatePaymentBatchCommand
	result *usecases.CreatePaymentBatchResult
	err    error
}

func (m *mockCreateBatchUC) Execute(_ context.Context, cmd usecases.CreatePaymentBatchCommand) (*usecases.CreatePaymentBatchResult, error) {
	m.got = cmd
	return m.result, m.err
}

type mockExportBatchUC struct {
	result *usecases.ExportPaymentBatchResult
	err    error
}

func (m *mockExportBatchUC) Execute(_ context.Context, _ usecases.ExportPaymentBatchQuery) (*usecases.ExportPaymentBatchResult, error) {
	return m.result, m.err
}

type mockListInvoicesUC struct {
	got    usecases.ListInvoicesQuery
	result *usecases.ListInvoicesResult
}

func (m *mockListInvoicesUC) Execute(_ context.Context, query usecases.ListInvoicesQuery) (*usecases.ListInvoicesResult, error) {
	m.got = query
	return m.result, nil
}

const (
	testInvoiceSID = "inv_aaa111"
	testBatchSID   = "pb_bbb222"
)

func newTestHandler(deps Deps) *Handler {
	return NewHandler(deps, 1<<20, testutil.NewMockLogger())
}

func TestHandler_SubmitInvoice_JSON(t *testing.T) {
	uc := &mockSubmitInvoiceUC{result: &invoicedto.InvoiceDTO{ID: testInvoiceSID}}
	h := newTestHandler(Deps{Submit: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/invoices", map[string]any{
		"ticket_id":        "tk_ccc333",
		"invoice_number":   "INV-001",
		"amount_cents":     125000,
		"work_description": "replaced compressor",
	})
	testutil.SetActor(c, 9, 1, authorization.RoleContractor)

	h.SubmitInvoice(c)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "tk_ccc333", uc.got.TicketSID)
	assert.Equal(t, int64(125000), uc.got.AmountCents)
	assert.Nil(t, uc.got.File)
}

func TestHandler_SubmitInvoice_Multipart(t *testing.T) {
	uc := &mockSubmitInvoiceUC{result: &invoicedto.InvoiceDTO{ID: testInvoiceSID}}
	h := newTestHandler(Deps{Submit: uc})

	c, w := testutil.NewMultipartContext("/api/v1/invoices", map[string]string{
		"ticket_id":      "tk_ccc333",
		"invoice_number": "INV-002",
		"amount_cents":   "5000",
	}, "file", "invoice.pdf", []byte("%PDF-1.4 test"))
	testutil.SetActor(c, 9, 1, authorization.RoleContractor)

	h.SubmitInvoice(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, uc.got.File)
	assert.Equal(t, "invoice.pdf", uc.got.File.Filename)
	assert.Equal(t, "%PDF-1.4 test", uc.fileBody)
	assert.Equal(t, int64(5000), uc.got.AmountCents)
}

func TestHandler_SubmitInvoice_FileTooLarge(t *testing.T) {
	uc := &mockSubmitInvoiceUC{}
	h := NewHandler(Deps{Submit: uc}, 4, testutil.NewMockLogger())

	c, w := testutil.NewMultipartContext("/api/v1/invoices", map[string]string{
		"ticket_id":      "tk_ccc333",
		"invoice_number": "INV-003",
		"amount_cents":   "5000",
	}, "file", "invoice.pdf", []byte("%PDF-1.4 too big"))
	testutil.SetActor(c, 9, 1, authorization.RoleContractor)

	h.SubmitInvoice(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_SubmitInvoice_DuplicateActive(t *testing.T) {
	uc := &mockSubmitInvoiceUC{err: errors.NewConflictError("ticket already has an active invoice")}
	h := newTestHandler(Deps{Submit: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/invoices", map[string]any{
		"ticket_id":      "tk_ccc333",
		"invoice_number": "INV-001",
		"amount_cents":   100,
	})
	testutil.SetActor(c, 9, 1, authorization.RoleContractor)

	h.SubmitInvoice(c)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestHandler_RejectInvoice_RequiresReason(t *testing.T) {
	uc := &mockRejectInvoiceUC{}
	h := newTestHandler(Deps{Reject: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/invoices/"+testInvoiceSID+"/reject", map[string]any{})
	testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)
	testutil.SetURLParam(c, "sid", testInvoiceSID)

	h.RejectInvoice(c)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.False(t, uc.called)
}

func TestHandler_RecordPayment(t *testing.T) {
	uc := &mockRecordPaymentUC{result: &invoicedto.InvoiceDTO{ID: testInvoiceSID, Status: "PARTIALLY_PAID"}}
	h := newTestHandler(Deps{RecordPayment: uc})

	c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/invoices/"+testInvoiceSID+"/payments", map[string]any{
		"amount_cents": 2500,
	})
	testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)
	testutil.SetURLParam(c, "sid", testInvoiceSID)

	h.RecordPayment(c)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, int64(2500), uc.got.AmountCents)
	assert.Equal(t, testInvoiceSID, uc.got.SID)
}

func TestHandler_ListInvoices_Filters(t *testing.T) {
	uc := &mockListInvoicesUC{result: &usecases.ListInvoicesResult{Page: 1, PageSize: 20}}
	h := newTestHandler(Deps{List: uc})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/invoices", nil)
	testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)
	testutil.SetQueryParams(c, map[string]string{"contractor_id": "9", "active": "true", "status": "APPROVED"})

	h.ListInvoices(c)

	require.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, uc.got.ContractorID)
	assert.Equal(t, uint(9), *uc.got.ContractorID)
	assert.Nil(t, uc.got.TicketID)
	assert.True(t, uc.got.ActiveOnly)
	assert.Equal(t, "APPROVED", uc.got.Status)
}

func TestHandler_CreateBatch(t *testing.T) {
	t.Run("json", func(t *testing.T) {
		uc := &mockCreateBatchUC{result: &usecases.CreatePaymentBatchResult{Batch: &invoicedto.PaymentBatchDTO{ID: testBatchSID}}}
		h := newTestHandler(Deps{CreateBatch: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/payment-batches", map[string]any{
			"invoice_ids": []string{"inv_a1", "inv_b2"},
			"notes":       "March run",
		})
		testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)

		h.CreateBatch(c)

		require.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, []string{"inv_a1", "inv_b2"}, uc.got.InvoiceSIDs)
		assert.Nil(t, uc.got.ProofOfPay)
	})

	t.Run("empty selection", func(t *testing.T) {
		h := newTestHandler(Deps{CreateBatch: &mockCreateBatchUC{}})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/payment-batches", map[string]any{
			"invoice_ids": []string{},
		})
		testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)

		h.CreateBatch(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("not all invoices payable", func(t *testing.T) {
		uc := &mockCreateBatchUC{err: errors.NewValidationError("invoice is not approved")}
		h := newTestHandler(Deps{CreateBatch: uc})

		c, w := testutil.NewTestContext(http.MethodPost, "/api/v1/payment-batches", map[string]any{
			"invoice_ids": []string{"inv_a1"},
		})
		testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)

		h.CreateBatch(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHandler_ExportBatch(t *testing.T) {
	uc := &mockExportBatchUC{result: &usecases.ExportPaymentBatchResult{
		Filename:    "PB-20260301-001.xlsx",
		ContentType: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
		Content:     []byte("xlsx-bytes"),
	}}
	h := newTestHandler(Deps{ExportBatch: uc})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/payment-batches/"+testBatchSID+"/export", nil)
	testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)
	testutil.SetURLParam(c, "sid", testBatchSID)

	h.ExportBatch(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `attachment; filename="PB-20260301-001.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "xlsx-bytes", w.Body.String())
}

func TestHandler_ExportBatch_NotFound(t *testing.T) {
	h := newTestHandler(Deps{ExportBatch: &mockExportBatchUC{err: errors.NewNotFoundError("payment batch not found")}})

	c, w := testutil.NewTestContext(http.MethodGet, "/api/v1/payment-batches/"+testBatchSID+"/export", nil)
	testutil.SetActor(c, 1, 1, authorization.RoleTenantAdmin)
	testutil.SetURLParam(c, "sid", testBatchSID)

	h.ExportBatch(c)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
