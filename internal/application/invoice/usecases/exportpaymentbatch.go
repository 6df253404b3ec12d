package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// RemittanceRenderer turns a settled batch into a downloadable sheet.
type RemittanceRenderer interface {
	Render(batch *dto.PaymentBatchDTO, invoices []*dto.InvoiceDTO) ([]byte, error)
	ContentType() string
	Extension() string
}

type ExportPaymentBatchQuery struct {
	Actor authorization.Actor
	SID   string
}

type ExportPaymentBatchResult struct {
	Filename    string
	ContentType string
	Content     []byte
}

type ExportPaymentBatchUseCase struct {
	reader   *GetPaymentBatchUseCase
	renderer RemittanceRenderer
	logger   logger.Interface
}

func NewExportPaymentBatchUseCase(
	batches invoice.PaymentBatchRepository,
	invoices invoice.InvoiceRepository,
	renderer RemittanceRenderer,
	logger logger.Interface,
) *ExportPaymentBatchUseCase {
	return &ExportPaymentBatchUseCase{
		reader:   NewGetPaymentBatchUseCase(batches, invoices, logger),
		renderer: renderer,
		logger:   logger,
	}
}

func (uc *ExportPaymentBatchUseCase) Execute(ctx context.Context, query ExportPaymentBatchQuery) (*ExportPaymentBatchResult, error) {
	b, invoices, err := uc.reader.load(ctx, query.Actor, query.SID)
	if err != nil {
		return nil, err
	}
	content, err := uc.renderer.Render(dto.ToPaymentBatchDTO(b), dto.ToInvoiceDTOList(invoices))
	if err != nil {
		uc.logger.Errorw("failed to render remittance sheet", "batch_sid", query.SID, "error", err)
		return nil, errors.NewInternalError("failed to export payment batch")
	}
	uc.logger.Infow("payment batch exported", "batch_sid", query.SID, "bytes", len(content))
	return &ExportPaymentBatchResult{
		Filename:    b.BatchNumber() + uc.renderer.Extension(),
		ContentType: uc.renderer.ContentType(),
		Content:     content,
	}, nil
}
