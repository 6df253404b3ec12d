package usecases

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/ticket/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type CreateTicketCommand struct {
	Actor       authorization.Actor
	Title       string
	Description string
	Priority    string
	Department  string
}

type CreateTicketUseCase struct {
	tx        db.Transactor
	repo      ticket.TicketRepository
	numbers   ticket.NumberGenerator
	publisher events.Publisher
	logger    logger.Interface
}

func NewCreateTicketUseCase(
	tx db.Transactor,
	repo ticket.TicketRepository,
	numbers ticket.NumberGenerator,
	publisher events.Publisher,
	logger logger.Interface,
) *CreateTicketUseCase {
	return &CreateTicketUseCase{
		tx:        tx,
		repo:      repo,
		numbers:   numbers,
		publisher: publisher,
		logger:    logger,
	}
}

func (uc *CreateTicketUseCase) Execute(ctx context.Context, cmd CreateTicketCommand) (*dto.TicketDTO, error) {
	uc.logger.Infow("executing create ticket use case", "tenant_id", cmd.Actor.TenantID, "user_id", cmd.Actor.UserID)

	if cmd.Actor.UserID == 0 || cmd.Actor.TenantID == 0 {
		return nil, errors.NewUnauthorizedError("authentication required")
	}
	if cmd.Actor.Class().IsContractor() {
		return nil, errors.NewForbiddenError("contractors cannot raise tickets")
	}

	priority, err := vo.NewPriority(cmd.Priority)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	department, ok := authorization.ParseDepartment(cmd.Department)
	if !ok {
		return nil, errors.NewValidationError("invalid department", cmd.Department)
	}

	now := biztime.NowUTC()
	t, err := ticket.NewTicket(cmd.Actor.TenantID, cmd.Actor.UserID, cmd.Title, cmd.Description, priority, department, now)
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}

	number, err := uc.numbers.Generate(ctx, now)
	if err != nil {
		uc.logger.Errorw("failed to generate ticket number", "error", err)
		return nil, errors.NewInternalError("failed to create ticket")
	}
	sid, err := id.New(id.PrefixTicket)
	if err != nil {
		return nil, errors.NewInternalError("failed to create ticket")
	}
	if err := t.SetNumber(number); err != nil {
		return nil, errors.NewInternalError("failed to create ticket")
	}
	if err := t.SetSID(sid); err != nil {
		return nil, errors.NewInternalError("failed to create ticket")
	}

	err = uc.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		if err := uc.repo.Create(ctx, t); err != nil {
			return fmt.Errorf("failed to create ticket: %w", err)
		}
		return uc.publisher.Publish(ctx, ticket.NewTicketCreatedEvent(t))
	})
	if err != nil {
		uc.logger.Errorw("failed to create ticket", "error", err)
		return nil, asAppError(err, "failed to create ticket")
	}

	uc.logger.Infow("ticket created", "ticket_sid", t.SID(), "number", t.Number())
	return dto.ToTicketDTO(t), nil
}
