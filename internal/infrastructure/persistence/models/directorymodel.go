package models

import "github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/constants"

// UserDirectoryModel is a read-only projection of the identity service's
// users. It only carries what notifications need.
type UserDirectoryModel struct {
	ID       uint   `gorm:"primaryKey"`
	TenantID uint   `gorm:"not null;index"`
	Email    string `gorm:"size:255;not null"`
	Name     string `gorm:"size:100"`
	Role     string `gorm:"size:30;not null;index"`
	Active   bool   `gorm:"not null"`
}

func (UserDirectoryModel) TableName() string {
	return constants.TableUserDirectory
}
