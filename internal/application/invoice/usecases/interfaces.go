package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
)

type SubmitInvoiceExecutor interface {
	Execute(ctx context.Context, cmd SubmitInvoiceCommand) (*dto.InvoiceDTO, error)
}

type ApproveInvoiceExecutor interface {
	Execute(ctx context.Context, cmd ApproveInvoiceCommand) (*dto.InvoiceDTO, error)
}

type RejectInvoiceExecutor interface {
	Execute(ctx context.Context, cmd RejectInvoiceCommand) (*dto.InvoiceDTO, error)
}

type RecordPaymentExecutor interface {
	Execute(ctx context.Context, cmd RecordPaymentCommand) (*dto.InvoiceDTO, error)
}

type RequestClarificationExecutor interface {
	Execute(ctx context.Context, cmd RequestClarificationCommand) (*dto.InvoiceDTO, error)
}

type RespondClarificationExecutor interface {
	Execute(ctx context.Context, cmd RespondClarificationCommand) (*dto.InvoiceDTO, error)
}

type CreatePaymentBatchExecutor interface {
	Execute(ctx context.Context, cmd CreatePaymentBatchCommand) (*CreatePaymentBatchResult, error)
}

type GetInvoiceExecutor interface {
	Execute(ctx context.Context, query GetInvoiceQuery) (*dto.InvoiceDTO, error)
}

type ListInvoicesExecutor interface {
	Execute(ctx context.Context, query ListInvoicesQuery) (*ListInvoicesResult, error)
}

type GetRevisionChainExecutor interface {
	Execute(ctx context.Context, query GetRevisionChainQuery) ([]*dto.InvoiceDTO, error)
}

type GetPaymentBatchExecutor interface {
	Execute(ctx context.Context, query GetPaymentBatchQuery) (*PaymentBatchDetail, error)
}

type ListPaymentBatchesExecutor interface {
	Execute(ctx context.Context, query ListPaymentBatchesQuery) (*ListPaymentBatchesResult, error)
}

type ExportPaymentBatchExecutor interface {
	Execute(ctx context.Context, query ExportPaymentBatchQuery) (*ExportPaymentBatchResult, error)
}
