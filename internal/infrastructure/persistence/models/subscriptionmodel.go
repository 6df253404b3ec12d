package models

import "github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"

type SubscriptionModel struct {
	ID                 uint   `gorm:"primaryKey"`
	SID                string `gorm:"uniqueIndex;size:32;not null"`
	TenantID           uint   `gorm:"uniqueIndex;not null"`
	Plan               string `gorm:"size:50;not null"`
	Status             string `gorm:"size:20;not null;index"`
	CurrentPeriodStart int64  `gorm:"not null"`
	CurrentPeriodEnd   int64  `gorm:"not null;index"`
	GracePeriodEnd     *int64 `gorm:"index"`
	TrialEndsAt        *int64
	CancelledAt        *int64
	SuspendedReason    string `gorm:"type:text"`
	Version            int    `gorm:"not null;default:1"`
	CreatedAt          int64  `gorm:"autoCreateTime:milli;not null"`
	UpdatedAt          int64  `gorm:"autoUpdateTime:milli;not null"`
}

func (SubscriptionModel) TableName() string {
	return constants.TableSubscriptions
}
