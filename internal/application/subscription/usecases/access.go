package usecases

import (
	"context"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// AccessResolver derives a tenant's access level, reading through the cache.
// A tenant without a subscription is blocked.
type AccessResolver struct {
	repo   subscription.SubscriptionRepository
	cache  subscription.AccessCache
	logger logger.Interface
}

func NewAccessResolver(repo subscription.SubscriptionRepository, cache subscription.AccessCache, logger logger.Interface) *AccessResolver {
	return &AccessResolver{repo: repo, cache: cache, logger: logger}
}

func (r *AccessResolver) Resolve(ctx context.Context, tenantID uint) (vo.AccessLevel, error) {
	if r.cache != nil {
		level, ok, err := r.cache.Get(ctx, tenantID)
		if err != nil {
			r.logger.Warnw("access cache read failed", "tenant_id", tenantID, "error", err)
		} else if ok {
			return level, nil
		}
	}

	sub, err := r.repo.GetByTenant(ctx, tenantID)
	if err != nil {
		return vo.AccessBlocked, err
	}
	level := vo.AccessBlocked
	if sub != nil {
		level = sub.AccessLevel()
	}

	if r.cache != nil {
		if err := r.cache.Set(ctx, tenantID, level); err != nil {
			r.logger.Warnw("access cache write failed", "tenant_id", tenantID, "error", err)
		}
	}
	return level, nil
}

// Invalidate drops the cached level. Failures only delay the change until
// the entry expires.
func (r *AccessResolver) Invalidate(ctx context.Context, tenantID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.Invalidate(ctx, tenantID); err != nil {
		r.logger.Warnw("access cache invalidation failed", "tenant_id", tenantID, "error", err)
	}
}
