package models

import "github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"

type TicketModel struct {
	ID                  uint   `gorm:"primaryKey"`
	SID                 string `gorm:"uniqueIndex;size:32;not null"`
	Number              string `gorm:"uniqueIndex:idx_ticket_tenant_number;size:50;not null"`
	TenantID            uint   `gorm:"uniqueIndex:idx_ticket_tenant_number;not null;index:idx_ticket_tenant_status"`
	Title               string `gorm:"size:200;not null"`
	Description         string `gorm:"type:text;not null"`
	Priority            string `gorm:"size:20;not null;index"`
	Department          string `gorm:"size:20;not null;index"`
	Status              string `gorm:"size:30;not null;index:idx_ticket_tenant_status"`
	UserID              uint   `gorm:"not null;index"`
	AssignedToID        *uint  `gorm:"index"`
	QuoteAmount         *int64
	QuoteDescription    string `gorm:"type:text"`
	QuoteFileURL        string `gorm:"size:500"`
	CancellationReason  string `gorm:"type:text"`
	CancelledByID       *uint
	EstimatedArrival    *int64
	EstimatedDays       *int
	JobPlan             string `gorm:"type:text"`
	WorkDescription     string `gorm:"type:text"`
	WorkRejectionReason string `gorm:"type:text"`
	Rating              *int
	RatingComment       string `gorm:"type:text"`
	CompletedAt         *int64
	ClosedAt            *int64
	Version             int   `gorm:"not null;default:1"`
	CreatedAt           int64 `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt           int64 `gorm:"autoUpdateTime:milli;not null"`

	// Note: No foreign key constraints or associations.
	// All relationships are managed by application business logic.
}

func (TicketModel) TableName() string {
	return constants.TableTickets
}

type TicketStatusHistoryModel struct {
	ID          uint   `gorm:"primaryKey"`
	TicketID    uint   `gorm:"not null;index"`
	FromStatus  string `gorm:"size:30;not null"`
	ToStatus    string `gorm:"size:30;not null"`
	ChangedByID uint   `gorm:"not null"`
	Reason      string `gorm:"type:text"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (TicketStatusHistoryModel) TableName() string {
	return constants.TableTicketStatusHistory
}

type CommentModel struct {
	ID         uint   `gorm:"primaryKey"`
	SID        string `gorm:"uniqueIndex;size:32;not null"`
	TicketID   uint   `gorm:"not null;index"`
	AuthorID   uint   `gorm:"not null;index"`
	Body       string `gorm:"type:text;not null"`
	IsInternal bool   `gorm:"not null;default:false"`
	CreatedAt  int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (CommentModel) TableName() string {
	return constants.TableTicketComments
}

type QuoteRequestModel struct {
	ID           uint   `gorm:"primaryKey"`
	TicketID     uint   `gorm:"not null;uniqueIndex:idx_quote_ticket_contractor"`
	ContractorID uint   `gorm:"not null;uniqueIndex:idx_quote_ticket_contractor;index"`
	Status       string `gorm:"size:20;not null"`
	Amount       int64  `gorm:"not null;default:0"`
	Description  string `gorm:"type:text"`
	FileURL      string `gorm:"size:500"`
	SubmittedAt  *int64
	CreatedAt    int64 `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt    int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (QuoteRequestModel) TableName() string {
	return constants.TableQuoteRequests
}
