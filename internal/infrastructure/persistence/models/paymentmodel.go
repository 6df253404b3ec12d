package models

import (
	"gorm.io/datatypes"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"
)

type PaymentModel struct {
	ID                uint           `gorm:"primaryKey"`
	SID               string         `gorm:"uniqueIndex;size:32;not null"`
	TenantID          uint           `gorm:"not null;index"`
	SubscriptionID    uint           `gorm:"not null;index"`
	AmountCents       int64          `gorm:"not null"`
	Currency          string         `gorm:"size:3;not null"`
	Status            string         `gorm:"size:20;not null;index"`
	Provider          string         `gorm:"size:20;not null;uniqueIndex:idx_payment_provider_ref"`
	Reference         string         `gorm:"size:100;not null;index"`
	ProviderPaymentID *string        `gorm:"size:128;uniqueIndex:idx_payment_provider_ref"`
	PollURL           string         `gorm:"size:500"`
	RedirectURL       string         `gorm:"size:500"`
	FailureReason     string         `gorm:"type:text"`
	ProviderResponse  datatypes.JSON `gorm:"type:json"`
	PaidAt            *int64
	Version           int   `gorm:"not null;default:1"`
	CreatedAt         int64 `gorm:"autoCreateTime:milli;not null;index"`
	UpdatedAt         int64 `gorm:"autoUpdateTime:milli;not null"`
}

func (PaymentModel) TableName() string {
	return constants.TablePayments
}

// ProcessedWebhookModel is one row per provider delivery that took effect.
type ProcessedWebhookModel struct {
	ID                uint   `gorm:"primaryKey"`
	Provider          string `gorm:"size:20;not null;uniqueIndex:idx_processed_webhook_key"`
	ProviderReference string `gorm:"size:128;not null;uniqueIndex:idx_processed_webhook_key"`
	Status            string `gorm:"size:20;not null;uniqueIndex:idx_processed_webhook_key"`
	CreatedAt         int64  `gorm:"autoCreateTime:milli;not null"`
}

func (ProcessedWebhookModel) TableName() string {
	return constants.TableProcessedWebhooks
}
