package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
)

type CreateTicketExecutor interface {
	Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error)
}

type GetTicketExecutor interface {
	Execute(ctx context.Context, query GetTicketQuery) (*dto.TicketDTO, error)
}

type ListTicketsExecutor interface {
	Execute(ctx context.Context, query ListTicketsQuery) (*ListTicketsResult, error)
}

type GetTicketHistoryExecutor interface {
	Execute(ctx context.Context, query GetTicketHistoryQuery) ([]*dto.HistoryDTO, error)
}

type TransitionTicketExecutor interface {
	Execute(ctx context.Context, cmd TransitionTicketCommand) (*dto.TicketDTO, error)
}

type ApplyTransitionExecutor interface {
	Execute(ctx context.Context, req TransitionRequest) (*dto.TicketDTO, error)
}

type CancelTicketExecutor interface {
	Execute(ctx context.Context, cmd CancelTicketCommand) (*dto.TicketDTO, error)
}

type AssignTicketExecutor interface {
	Execute(ctx context.Context, cmd AssignTicketCommand) (*dto.TicketDTO, error)
}

type UnassignTicketExecutor interface {
	Execute(ctx context.Context, cmd UnassignTicketCommand) (*UnassignTicketResult, error)
}

type RejectJobExecutor interface {
	Execute(ctx context.Context, cmd RejectJobCommand) (*dto.TicketDTO, error)
}

type RequestQuoteExecutor interface {
	Execute(ctx context.Context, cmd RequestQuoteCommand) (*RequestQuoteResult, error)
}

type SubmitQuoteExecutor interface {
	Execute(ctx context.Context, cmd SubmitQuoteCommand) (*dto.QuoteDTO, error)
}

type ApproveQuoteExecutor interface {
	Execute(ctx context.Context, cmd ApproveQuoteCommand) (*dto.TicketDTO, error)
}

type RejectQuoteExecutor interface {
	Execute(ctx context.Context, cmd RejectQuoteCommand) (*dto.TicketDTO, error)
}

type ListQuotesExecutor interface {
	Execute(ctx context.Context, query ListQuotesQuery) ([]*dto.QuoteDTO, error)
}

type AddCommentExecutor interface {
	Execute(ctx context.Context, cmd AddCommentCommand) (*dto.CommentDTO, error)
}

type ListCommentsExecutor interface {
	Execute(ctx context.Context, query ListCommentsQuery) ([]*dto.CommentDTO, error)
}
