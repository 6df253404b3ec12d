package dto

import (
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/mapper"
)

type InvoiceDTO struct {
	ID                    string     `json:"id"`
	InvoiceNumber         string     `json:"invoice_number"`
	TicketID              uint       `json:"ticket_id"`
	ContractorID          uint       `json:"contractor_id"`
	AmountCents           int64      `json:"amount_cents"`
	PaidAmountCents       int64      `json:"paid_amount_cents"`
	BalanceCents          int64      `json:"balance_cents"`
	Amount                string     `json:"amount"`
	Balance               string     `json:"balance"`
	Currency              string     `json:"currency"`
	Status                string     `json:"status"`
	IsActive              bool       `json:"is_active"`
	RevisionNumber        int        `json:"revision_number"`
	PreviousInvoiceID     *uint      `json:"previous_invoice_id,omitempty"`
	WorkDescription       string     `json:"work_description,omitempty"`
	FileURL               string     `json:"file_url,omitempty"`
	RejectionReason       string     `json:"rejection_reason,omitempty"`
	ClarificationRequest  string     `json:"clarification_request,omitempty"`
	ClarificationResponse string     `json:"clarification_response,omitempty"`
	PaymentBatchID        *uint      `json:"payment_batch_id,omitempty"`
	ApprovedByID          *uint      `json:"approved_by_id,omitempty"`
	ApprovedAt            *time.Time `json:"approved_at,omitempty"`
	PaidAt                *time.Time `json:"paid_at,omitempty"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

type PaymentBatchDTO struct {
	ID           string    `json:"id"`
	BatchNumber  string    `json:"batch_number"`
	BatchDate    string    `json:"batch_date"`
	TotalCents   int64     `json:"total_cents"`
	Total        string    `json:"total"`
	Currency     string    `json:"currency"`
	PopFileURL   string    `json:"pop_file_url,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedByID  uint      `json:"created_by_id"`
	InvoiceCount int       `json:"invoice_count"`
	CreatedAt    time.Time `json:"created_at"`
}

func ToInvoiceDTO(inv *invoice.Invoice) *InvoiceDTO {
	if inv == nil {
		return nil
	}
	return &InvoiceDTO{
		ID:                    inv.SID(),
		InvoiceNumber:         inv.InvoiceNumber(),
		TicketID:              inv.TicketID(),
		ContractorID:          inv.ContractorID(),
		AmountCents:           inv.AmountCents(),
		PaidAmountCents:       inv.PaidAmountCents(),
		BalanceCents:          inv.BalanceCents(),
		Amount:                inv.Amount().String(),
		Balance:               inv.Balance().String(),
		Currency:              inv.Currency(),
		Status:                inv.Status().String(),
		IsActive:              inv.IsActive(),
		RevisionNumber:        inv.RevisionNumber(),
		PreviousInvoiceID:     inv.PreviousInvoiceID(),
		WorkDescription:       inv.WorkDescription(),
		FileURL:               inv.FileURL(),
		RejectionReason:       inv.RejectionReason(),
		ClarificationRequest:  inv.ClarificationRequest(),
		ClarificationResponse: inv.ClarificationResponse(),
		PaymentBatchID:        inv.PaymentBatchID(),
		ApprovedByID:          inv.ApprovedByID(),
		ApprovedAt:            inv.ApprovedAt(),
		PaidAt:                inv.PaidAt(),
		CreatedAt:             inv.CreatedAt(),
		UpdatedAt:             inv.UpdatedAt(),
	}
}

func ToInvoiceDTOList(invoices []*invoice.Invoice) []*InvoiceDTO {
	return mapper.MapSlice(invoices, ToInvoiceDTO)
}

func ToPaymentBatchDTO(b *invoice.PaymentBatch) *PaymentBatchDTO {
	if b == nil {
		return nil
	}
	return &PaymentBatchDTO{
		ID:           b.SID(),
		BatchNumber:  b.BatchNumber(),
		BatchDate:    b.BatchDate(),
		TotalCents:   b.TotalCents(),
		Total:        b.Total().String(),
		Currency:     b.Currency(),
		PopFileURL:   b.PopFileURL(),
		Notes:        b.Notes(),
		CreatedByID:  b.CreatedByID(),
		InvoiceCount: len(b.InvoiceIDs()),
		CreatedAt:    b.CreatedAt(),
	}
}

func ToPaymentBatchDTOList(batches []*invoice.PaymentBatch) []*PaymentBatchDTO {
	return mapper.MapSlice(batches, ToPaymentBatchDTO)
}
