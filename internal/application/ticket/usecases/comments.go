package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/mapper"
)

type AddCommentCommand struct {
	Actor      authorization.Actor
	SID        string
	Body       string
	IsInternal bool
}

type AddCommentUseCase struct {
	tx        db.Transactor
	reader    ticketReader
	comments  ticket.CommentRepository
	publisher events.Publisher
	policy    *bluemonday.Policy
	logger    logger.Interface
}

func NewAddCommentUseCase(
	tx db.Transactor,
	tickets ticket.TicketRepository,
	quotes ticket.QuoteRequestRepository,
	comments ticket.CommentRepository,
	publisher events.Publisher,
	logger logger.Interface,
) *AddCommentUseCase {
	return &AddCommentUseCase{
		tx:        tx,
		reader:    ticketReader{tickets: tickets, quotes: quotes},
		comments:  comments,
		publisher: publisher,
		policy:    bluemonday.StrictPolicy(),
		logger:    logger,
	}
}

func (uc *AddCommentUseCase) Execute(ctx context.Context, cmd AddCommentCommand) (*dto.CommentDTO, error) {
	uc.logger.Infow("executing add comment use case", "ticket_sid", cmd.SID, "user_id", cmd.Actor.UserID)

	t, err := uc.reader.load(ctx, cmd.Actor, cmd.SID)
	if err != nil {
		return nil, err
	}
	if t.Status().IsTerminal() {
		return nil, errors.NewInvalidTransitionError("ticket is closed for comments", t.Status().String())
	}
	if cmd.IsInternal && cmd.Actor.Class().IsRequester() {
		return nil, errors.NewForbiddenError("requesters cannot post internal comments")
	}

	body := strings.TrimSpace(uc.policy.Sanitize(cmd.Body))
	c, err := ticket.NewComment(t.ID(), cmd.Actor.UserID, body, cmd.IsInternal, biztime.NowUTC())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	sid, err := id.New(id.PrefixComment)
	if err != nil {
		return nil, errors.NewInternalError("failed to add comment")
	}
	c.SetSID(sid)

	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.comments.Create(ctx, c); err != nil {
			return fmt.Errorf("failed to create comment: %w", err)
		}
		return uc.publisher.Publish(ctx, ticket.NewCommentAddedEvent(t, c))
	})
	if err != nil {
		uc.logger.Errorw("failed to add comment", "error", err, "ticket_sid", cmd.SID)
		return nil, asAppError(err, "failed to add comment")
	}
	return dto.ToCommentDTO(c), nil
}

type ListCommentsQuery struct {
	Actor authorization.Actor
	SID   string
}

type ListCommentsUseCase struct {
	reader   ticketReader
	comments ticket.CommentRepository
	logger   logger.Interface
}

func NewListCommentsUseCase(
	tickets ticket.TicketRepository,
	quotes ticket.QuoteRequestRepository,
	comments ticket.CommentRepository,
	logger logger.Interface,
) *ListCommentsUseCase {
	return &ListCommentsUseCase{
		reader:   ticketReader{tickets: tickets, quotes: quotes},
		comments: comments,
		logger:   logger,
	}
}

// Execute returns the conversation oldest first. Internal notes are hidden
// from requesters.
func (uc *ListCommentsUseCase) Execute(ctx context.Context, query ListCommentsQuery) ([]*dto.CommentDTO, error) {
	t, err := uc.reader.load(ctx, query.Actor, query.SID)
	if err != nil {
		return nil, err
	}
	includeInternal := !query.Actor.Class().IsRequester()
	list, err := uc.comments.ListByTicket(ctx, t.ID(), includeInternal)
	if err != nil {
		uc.logger.Errorw("failed to list comments", "error", err, "ticket_sid", t.SID())
		return nil, errors.NewInternalError("failed to list comments")
	}
	return mapper.MapSlice(list, dto.ToCommentDTO), nil
}
