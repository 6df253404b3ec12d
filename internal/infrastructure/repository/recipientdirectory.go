package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/infrastructure/persistence/models"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
)

// RecipientDirectory reads contact addresses from the user_directory
// projection maintained by the identity service.
type RecipientDirectory struct {
	db *gorm.DB
}

func NewRecipientDirectory(db *gorm.DB) *RecipientDirectory {
	return &RecipientDirectory{db: db}
}

func (d *RecipientDirectory) ResolveEmails(ctx context.Context, tenantID uint, userIDs []uint) ([]string, error) {
	if len(userIDs) == 0 {
		return nil, nil
	}
	var emails []string
	if err := db.GetTxFromContext(ctx, d.db).
		Model(&models.UserDirectoryModel{}).
		Scopes(db.TenantScoped(tenantID)).
		Where("id IN ? AND active = ?", userIDs, true).
		Order("id ASC").
		Pluck("email", &emails).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve recipient emails: %w", err)
	}
	return emails, nil
}

func (d *RecipientDirectory) TenantAdminEmails(ctx context.Context, tenantID uint) ([]string, error) {
	var emails []string
	if err := db.GetTxFromContext(ctx, d.db).
		Model(&models.UserDirectoryModel{}).
		Scopes(db.TenantScoped(tenantID)).
		Where("role = ? AND active = ?", string(authorization.RoleTenantAdmin), true).
		Order("id ASC").
		Pluck("email", &emails).Error; err != nil {
		return nil, fmt.Errorf("failed to resolve tenant admin emails: %w", err)
	}
	return emails, nil
}
