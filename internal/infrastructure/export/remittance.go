package export

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
)

const (
	summarySheet  = "Batch"
	invoicesSheet = "Invoices"
	dateLayout    = "2006-01-02 15:04"
)

var invoiceHeader = []any{
	"invoice_id", "invoice_number", "ticket_id", "contractor_id", "currency", "amount", "paid", "balance", "status", "paid_at",
}

// RemittanceSheet renders a payment batch as an xlsx workbook: a summary
// sheet and one row per settled invoice.
type RemittanceSheet struct{}

func NewRemittanceSheet() *RemittanceSheet {
	return &RemittanceSheet{}
}

func (RemittanceSheet) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (RemittanceSheet) Extension() string {
	return ".xlsx"
}

func (RemittanceSheet) Render(batch *dto.PaymentBatchDTO, invoices []*dto.InvoiceDTO) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(f.GetActiveSheetIndex()), summarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}
	summary := [][]any{
		{"batch_number", batch.BatchNumber},
		{"batch_date", batch.BatchDate},
		{"currency", batch.Currency},
		{"total", batch.Total},
		{"invoice_count", len(invoices)},
		{"created_by", batch.CreatedByID},
		{"created_at", batch.CreatedAt.Format(dateLayout)},
		{"proof_of_payment", batch.PopFileURL},
		{"notes", batch.Notes},
	}
	for i, row := range summary {
		if err := setRow(f, summarySheet, i+1, row); err != nil {
			return nil, err
		}
	}

	if _, err := f.NewSheet(invoicesSheet); err != nil {
		return nil, fmt.Errorf("create invoices sheet: %w", err)
	}
	if err := setRow(f, invoicesSheet, 1, invoiceHeader); err != nil {
		return nil, err
	}
	for i, inv := range invoices {
		paidAt := ""
		if inv.PaidAt != nil {
			paidAt = inv.PaidAt.Format(dateLayout)
		}
		row := []any{
			inv.ID,
			inv.InvoiceNumber,
			inv.TicketID,
			inv.ContractorID,
			inv.Currency,
			float64(inv.AmountCents) / 100,
			float64(inv.PaidAmountCents) / 100,
			float64(inv.BalanceCents) / 100,
			inv.Status,
			paidAt,
		}
		if err := setRow(f, invoicesSheet, i+2, row); err != nil {
			return nil, err
		}
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
