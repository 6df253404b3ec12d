package mappers

import (
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/mapper"
)

type InvoiceMapper interface {
	ToModel(inv *invoice.Invoice) *models.InvoiceModel
	ToDomain(model *models.InvoiceModel) (*invoice.Invoice, error)
	ToDomainList(list []*models.InvoiceModel) ([]*invoice.Invoice, error)
	BatchToModel(b *invoice.PaymentBatch) *models.PaymentBatchModel
	BatchToDomain(model *models.PaymentBatchModel, invoiceIDs []uint) *invoice.PaymentBatch
}

type InvoiceMapperImpl struct{}

func NewInvoiceMapper() InvoiceMapper {
	return &InvoiceMapperImpl{}
}

func (m *InvoiceMapperImpl) ToModel(inv *invoice.Invoice) *models.InvoiceModel {
	model := &models.InvoiceModel{
		ID:                    inv.ID(),
		SID:                   inv.SID(),
		InvoiceNumber:         inv.InvoiceNumber(),
		TenantID:              inv.TenantID(),
		TicketID:              inv.TicketID(),
		ContractorID:          inv.ContractorID(),
		AmountCents:           inv.AmountCents(),
		PaidAmountCents:       inv.PaidAmountCents(),
		BalanceCents:          inv.BalanceCents(),
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
		ApprovedAt:            toMilliPtr(inv.ApprovedAt()),
		PaidAt:                toMilliPtr(inv.PaidAt()),
		Version:               inv.Version(),
		CreatedAt:             toMilli(inv.CreatedAt()),
		UpdatedAt:             toMilli(inv.UpdatedAt()),
	}
	model.ActiveTicketKey = ActiveTicketKey(inv)
	return model
}

// ActiveTicketKey is the value of the active_ticket_key column for inv.
func ActiveTicketKey(inv *invoice.Invoice) *uint {
	if !inv.IsActive() {
		return nil
	}
	key := inv.TicketID()
	return &key
}

func (m *InvoiceMapperImpl) ToDomain(model *models.InvoiceModel) (*invoice.Invoice, error) {
	if model == nil {
		return nil, nil
	}
	return invoice.ReconstructInvoice(invoice.ReconstructParams{
		ID:                    model.ID,
		SID:                   model.SID,
		InvoiceNumber:         model.InvoiceNumber,
		TenantID:              model.TenantID,
		TicketID:              model.TicketID,
		ContractorID:          model.ContractorID,
		AmountCents:           model.AmountCents,
		PaidAmountCents:       model.PaidAmountCents,
		BalanceCents:          model.BalanceCents,
		Currency:              model.Currency,
		Status:                vo.InvoiceStatus(model.Status),
		IsActive:              model.IsActive,
		RevisionNumber:        model.RevisionNumber,
		PreviousInvoiceID:     model.PreviousInvoiceID,
		WorkDescription:       model.WorkDescription,
		FileURL:               model.FileURL,
		RejectionReason:       model.RejectionReason,
		ClarificationRequest:  model.ClarificationRequest,
		ClarificationResponse: model.ClarificationResponse,
		PaymentBatchID:        model.PaymentBatchID,
		ApprovedByID:          model.ApprovedByID,
		ApprovedAt:            fromMilliPtr(model.ApprovedAt),
		PaidAt:                fromMilliPtr(model.PaidAt),
		Version:               model.Version,
		CreatedAt:             fromMilli(model.CreatedAt),
		UpdatedAt:             fromMilli(model.UpdatedAt),
	})
}

func (m *InvoiceMapperImpl) ToDomainList(list []*models.InvoiceModel) ([]*invoice.Invoice, error) {
	return mapper.MapSliceWithError(list, m.ToDomain)
}

func (m *InvoiceMapperImpl) BatchToModel(b *invoice.PaymentBatch) *models.PaymentBatchModel {
	return &models.PaymentBatchModel{
		ID:          b.ID(),
		SID:         b.SID(),
		TenantID:    b.TenantID(),
		BatchNumber: b.BatchNumber(),
		BatchDate:   b.BatchDate(),
		Sequence:    b.Sequence(),
		TotalCents:  b.TotalCents(),
		Currency:    b.Currency(),
		PopFileURL:  b.PopFileURL(),
		Notes:       b.Notes(),
		CreatedByID: b.CreatedByID(),
		CreatedAt:   toMilli(b.CreatedAt()),
	}
}

func (m *InvoiceMapperImpl) BatchToDomain(model *models.PaymentBatchModel, invoiceIDs []uint) *invoice.PaymentBatch {
	return invoice.ReconstructPaymentBatch(invoice.BatchReconstructParams{
		ID:          model.ID,
		SID:         model.SID,
		TenantID:    model.TenantID,
		BatchNumber: model.BatchNumber,
		BatchDate:   model.BatchDate,
		Sequence:    model.Sequence,
		TotalCents:  model.TotalCents,
		Currency:    model.Currency,
		PopFileURL:  model.PopFileURL,
		Notes:       model.Notes,
		CreatedByID: model.CreatedByID,
		InvoiceIDs:  invoiceIDs,
		CreatedAt:   fromMilli(model.CreatedAt),
	})
}
