package subscription

import (
	"context"
	"time"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
)

// Lookups return (nil, nil) when no row matches.
type SubscriptionRepository interface {
	Create(ctx context.Context, s *Subscription) error
	// Update is conditional on the stored version.
	Update(ctx context.Context, s *Subscription) error
	// UpdateIfUnchanged persists s only while the stored row still has the
	// status and version it was read with. It reports false when another
	// writer got there first.
	UpdateIfUnchanged(ctx context.Context, s *Subscription, readStatus vo.SubscriptionStatus, readVersion int) (bool, error)
	GetByID(ctx context.Context, id uint) (*Subscription, error)
	GetByIDForUpdate(ctx context.Context, id uint) (*Subscription, error)
	GetBySID(ctx context.Context, sid string) (*Subscription, error)
	GetByTenant(ctx context.Context, tenantID uint) (*Subscription, error)
	// ListDue returns subscriptions whose deadline for the next degradation
	// step lies before now, ordered by ID, starting after afterID.
	ListDue(ctx context.Context, now time.Time, afterID uint, limit int) ([]*Subscription, error)
}

// AccessCache caches the derived access level per tenant.
type AccessCache interface {
	Get(ctx context.Context, tenantID uint) (vo.AccessLevel, bool, error)
	Set(ctx context.Context, tenantID uint, level vo.AccessLevel) error
	Invalidate(ctx context.Context, tenantID uint) error
}
