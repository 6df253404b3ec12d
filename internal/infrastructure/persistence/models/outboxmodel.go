package models

import (
	"gorm.io/datatypes"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"
)

type OutboxModel struct {
	ID            uint           `gorm:"primaryKey"`
	EventID       string         `gorm:"uniqueIndex;size:36;not null"`
	EventType     string         `gorm:"size:64;not null;index"`
	AggregateType string         `gorm:"size:32;not null"`
	AggregateID   string         `gorm:"size:32;not null"`
	TenantID      uint           `gorm:"not null;index"`
	Recipients    datatypes.JSON `gorm:"type:json"`
	Payload       datatypes.JSON `gorm:"type:json;not null"`
	Status        string         `gorm:"size:20;not null;index:idx_outbox_due"`
	Attempts      int            `gorm:"not null;default:0"`
	NextAttemptAt int64          `gorm:"not null;index:idx_outbox_due"`
	LastError     string         `gorm:"type:text"`
	CreatedAt     int64          `gorm:"autoCreateTime:milli;not null"`
	SentAt        *int64
}

func (OutboxModel) TableName() string {
	return constants.TableNotificationOutbox
}
