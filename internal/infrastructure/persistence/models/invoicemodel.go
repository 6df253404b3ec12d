package models

import "github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"

type InvoiceModel struct {
	ID              uint   `gorm:"primaryKey"`
	SID             string `gorm:"uniqueIndex;size:32;not null"`
	InvoiceNumber   string `gorm:"size:100;not null"`
	TenantID        uint   `gorm:"not null;index:idx_invoice_tenant_status"`
	TicketID        uint   `gorm:"not null;index"`
	ContractorID    uint   `gorm:"not null;index"`
	AmountCents     int64  `gorm:"not null"`
	PaidAmountCents int64  `gorm:"not null;default:0"`
	BalanceCents    int64  `gorm:"not null"`
	Currency        string `gorm:"size:3;not null"`
	Status          string `gorm:"size:20;not null;index:idx_invoice_tenant_status"`
	IsActive        bool   `gorm:"not null"`
	// ActiveTicketKey equals TicketID while the revision is active and is NULL
	// otherwise, so the unique index admits one active invoice per ticket.
	ActiveTicketKey       *uint  `gorm:"uniqueIndex"`
	RevisionNumber        int    `gorm:"not null;default:1"`
	PreviousInvoiceID     *uint  `gorm:"index"`
	WorkDescription       string `gorm:"type:text"`
	FileURL               string `gorm:"size:500"`
	RejectionReason       string `gorm:"type:text"`
	ClarificationRequest  string `gorm:"type:text"`
	ClarificationResponse string `gorm:"type:text"`
	PaymentBatchID        *uint  `gorm:"index"`
	ApprovedByID          *uint
	ApprovedAt            *int64
	PaidAt                *int64
	Version               int   `gorm:"not null;default:1"`
	CreatedAt             int64 `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt             int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (InvoiceModel) TableName() string {
	return constants.TableInvoices
}

type PaymentBatchModel struct {
	ID          uint   `gorm:"primaryKey"`
	SID         string `gorm:"uniqueIndex;size:32;not null"`
	TenantID    uint   `gorm:"not null;index;uniqueIndex:idx_payment_batches_tenant_number,priority:1"`
	BatchNumber string `gorm:"uniqueIndex:idx_payment_batches_tenant_number,priority:2;size:20;not null"`
	BatchDate   string `gorm:"size:8;not null"`
	Sequence    int    `gorm:"not null"`
	TotalCents  int64  `gorm:"not null"`
	Currency    string `gorm:"size:3;not null"`
	PopFileURL  string `gorm:"size:500"`
	Notes       string `gorm:"type:text"`
	CreatedByID uint   `gorm:"not null"`
	CreatedAt   int64  `gorm:"autoCreateTime:milli;not null;index"`
}

func (PaymentBatchModel) TableName() string {
	return constants.TablePaymentBatches
}

type PaymentBatchSequenceModel struct {
	TenantID  uint   `gorm:"primaryKey;autoIncrement:false"`
	BatchDate string `gorm:"primaryKey;size:8"`
	LastValue int    `gorm:"not null"`
}

func (PaymentBatchSequenceModel) TableName() string {
	return constants.TablePaymentBatchSequences
}
