package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/dto"
)

type IngestWebhookExecutor interface {
	Execute(ctx context.Context, cmd IngestWebhookCommand) (*IngestResult, error)
}

type InitiatePaymentExecutor interface {
	Execute(ctx context.Context, cmd InitiatePaymentCommand) (*InitiatePaymentResult, error)
}

type PollPaymentExecutor interface {
	Execute(ctx context.Context, query PollPaymentQuery) (*dto.PaymentDTO, error)
}

type ConfirmBankTransferExecutor interface {
	Execute(ctx context.Context, cmd ConfirmBankTransferCommand) (*IngestResult, error)
}

type ListPaymentsExecutor interface {
	Execute(ctx context.Context, query ListPaymentsQuery) ([]*dto.PaymentDTO, error)
}
