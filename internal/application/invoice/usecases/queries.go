package usecases

import (
	"context"
	"sort"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/invoice/dto"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/invoice/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// canView limits contractors to their own invoices. Requesters see none.
func canView(actor authorization.Actor, inv *invoice.Invoice) bool {
	class := actor.Class()
	if class.IsAdmin() {
		return true
	}
	return class.IsContractor() && inv.ContractorID() == actor.UserID
}

func loadVisible(ctx context.Context, repo invoice.InvoiceRepository, actor authorization.Actor, sid string) (*invoice.Invoice, error) {
	if err := requireAuth(actor); err != nil {
		return nil, err
	}
	inv, err := repo.GetBySID(ctx, actor.TenantID, sid)
	if err != nil {
		return nil, errors.NewInternalError("failed to load invoice")
	}
	if inv == nil || !canView(actor, inv) {
		return nil, errors.NewNotFoundError("invoice not found")
	}
	return inv, nil
}

type GetInvoiceQuery struct {
	Actor authorization.Actor
	SID   string
}

type GetInvoiceUseCase struct {
	repo   invoice.InvoiceRepository
	logger logger.Interface
}

func NewGetInvoiceUseCase(repo invoice.InvoiceRepository, logger logger.Interface) *GetInvoiceUseCase {
	return &GetInvoiceUseCase{repo: repo, logger: logger}
}

func (uc *GetInvoiceUseCase) Execute(ctx context.Context, query GetInvoiceQuery) (*dto.InvoiceDTO, error) {
	inv, err := loadVisible(ctx, uc.repo, query.Actor, query.SID)
	if err != nil {
		return nil, err
	}
	return dto.ToInvoiceDTO(inv), nil
}

type ListInvoicesQuery struct {
	Actor        authorization.Actor
	Status       string
	ContractorID *uint
	TicketID     *uint
	ActiveOnly   bool
	Page         int
	PageSize     int
}

type ListInvoicesResult struct {
	Invoices []*dto.InvoiceDTO `json:"invoices"`
	Total    int64             `json:"total"`
	Page     int               `json:"page"`
	PageSize int               `json:"page_size"`
}

type ListInvoicesUseCase struct {
	repo   invoice.InvoiceRepository
	logger logger.Interface
}

func NewListInvoicesUseCase(repo invoice.InvoiceRepository, logger logger.Interface) *ListInvoicesUseCase {
	return &ListInvoicesUseCase{repo: repo, logger: logger}
}

func (uc *ListInvoicesUseCase) Execute(ctx context.Context, query ListInvoicesQuery) (*ListInvoicesResult, error) {
	if err := requireAuth(query.Actor); err != nil {
		return nil, err
	}
	class := query.Actor.Class()
	if class.IsRequester() {
		return nil, errors.NewForbiddenError("invoices are not visible to requesters")
	}

	page, pageSize := normalizePage(query.Page, query.PageSize)
	filter := invoice.InvoiceFilter{
		TenantID:     query.Actor.TenantID,
		ContractorID: query.ContractorID,
		TicketID:     query.TicketID,
		ActiveOnly:   query.ActiveOnly,
		Page:         page,
		PageSize:     pageSize,
	}
	if class.IsContractor() {
		self := query.Actor.UserID
		filter.ContractorID = &self
	}
	if query.Status != "" {
		status := vo.InvoiceStatus(query.Status)
		if !status.IsValid() {
			return nil, errors.NewValidationError("invalid invoice status", query.Status)
		}
		filter.Status = &status
	}

	invoices, total, err := uc.repo.List(ctx, filter)
	if err != nil {
		uc.logger.Errorw("failed to list invoices", "error", err)
		return nil, errors.NewInternalError("failed to list invoices")
	}
	return &ListInvoicesResult{
		Invoices: dto.ToInvoiceDTOList(invoices),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

type GetRevisionChainQuery struct {
	Actor authorization.Actor
	SID   string
}

// GetRevisionChainUseCase returns every revision for the invoice's ticket,
// oldest first.
type GetRevisionChainUseCase struct {
	repo   invoice.InvoiceRepository
	logger logger.Interface
}

func NewGetRevisionChainUseCase(repo invoice.InvoiceRepository, logger logger.Interface) *GetRevisionChainUseCase {
	return &GetRevisionChainUseCase{repo: repo, logger: logger}
}

func (uc *GetRevisionChainUseCase) Execute(ctx context.Context, query GetRevisionChainQuery) ([]*dto.InvoiceDTO, error) {
	inv, err := loadVisible(ctx, uc.repo, query.Actor, query.SID)
	if err != nil {
		return nil, err
	}
	revisions, err := uc.repo.ListByTicket(ctx, inv.TicketID())
	if err != nil {
		uc.logger.Errorw("failed to list invoice revisions", "ticket_id", inv.TicketID(), "error", err)
		return nil, errors.NewInternalError("failed to load revisions")
	}
	chain := make([]*invoice.Invoice, 0, len(revisions))
	for _, r := range revisions {
		if r.ContractorID() == inv.ContractorID() {
			chain = append(chain, r)
		}
	}
	sort.Slice(chain, func(i, j int) bool { return chain[i].RevisionNumber() < chain[j].RevisionNumber() })
	return dto.ToInvoiceDTOList(chain), nil
}

type GetPaymentBatchQuery struct {
	Actor authorization.Actor
	SID   string
}

type PaymentBatchDetail struct {
	Batch    *dto.PaymentBatchDTO `json:"batch"`
	Invoices []*dto.InvoiceDTO    `json:"invoices"`
}

type GetPaymentBatchUseCase struct {
	batches  invoice.PaymentBatchRepository
	invoices invoice.InvoiceRepository
	logger   logger.Interface
}

func NewGetPaymentBatchUseCase(batches invoice.PaymentBatchRepository, invoices invoice.InvoiceRepository, logger logger.Interface) *GetPaymentBatchUseCase {
	return &GetPaymentBatchUseCase{batches: batches, invoices: invoices, logger: logger}
}

func (uc *GetPaymentBatchUseCase) Execute(ctx context.Context, query GetPaymentBatchQuery) (*PaymentBatchDetail, error) {
	b, invoices, err := uc.load(ctx, query.Actor, query.SID)
	if err != nil {
		return nil, err
	}
	return &PaymentBatchDetail{
		Batch:    dto.ToPaymentBatchDTO(b),
		Invoices: dto.ToInvoiceDTOList(invoices),
	}, nil
}

func (uc *GetPaymentBatchUseCase) load(ctx context.Context, actor authorization.Actor, sid string) (*invoice.PaymentBatch, []*invoice.Invoice, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, nil, err
	}
	b, err := uc.batches.GetBySID(ctx, actor.TenantID, sid)
	if err != nil {
		uc.logger.Errorw("failed to load payment batch", "batch_sid", sid, "error", err)
		return nil, nil, errors.NewInternalError("failed to load payment batch")
	}
	if b == nil {
		return nil, nil, errors.NewNotFoundError("payment batch not found")
	}
	invoices, err := uc.invoices.ListByBatch(ctx, b.ID())
	if err != nil {
		uc.logger.Errorw("failed to list batch invoices", "batch_sid", sid, "error", err)
		return nil, nil, errors.NewInternalError("failed to load payment batch")
	}
	return b, invoices, nil
}

type ListPaymentBatchesQuery struct {
	Actor    authorization.Actor
	Page     int
	PageSize int
}

type ListPaymentBatchesResult struct {
	Batches  []*dto.PaymentBatchDTO `json:"batches"`
	Total    int64                  `json:"total"`
	Page     int                    `json:"page"`
	PageSize int                    `json:"page_size"`
}

type ListPaymentBatchesUseCase struct {
	batches invoice.PaymentBatchRepository
	logger  logger.Interface
}

func NewListPaymentBatchesUseCase(batches invoice.PaymentBatchRepository, logger logger.Interface) *ListPaymentBatchesUseCase {
	return &ListPaymentBatchesUseCase{batches: batches, logger: logger}
}

func (uc *ListPaymentBatchesUseCase) Execute(ctx context.Context, query ListPaymentBatchesQuery) (*ListPaymentBatchesResult, error) {
	if err := requireAdmin(query.Actor); err != nil {
		return nil, err
	}
	page, pageSize := normalizePage(query.Page, query.PageSize)
	batches, total, err := uc.batches.List(ctx, query.Actor.TenantID, page, pageSize)
	if err != nil {
		uc.logger.Errorw("failed to list payment batches", "error", err)
		return nil, errors.NewInternalError("failed to list payment batches")
	}
	return &ListPaymentBatchesResult{
		Batches:  dto.ToPaymentBatchDTOList(batches),
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func normalizePage(page, pageSize int) (int, int) {
	if page < 1 {
		page = constants.DefaultPage
	}
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}
	return page, pageSize
}
