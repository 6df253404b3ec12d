package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

var testPolicy = subscription.Policy{TrialDays: 14, PeriodDays: 30, GraceDays: 7}

func createTestSubscription(t *testing.T, repo *SubscriptionRepositoryImpl, tenantID uint, startedAt time.Time) *subscription.Subscription {
	t.Helper()
	s, err := subscription.NewTrial(tenantID, "standard", testPolicy, startedAt)
	require.NoError(t, err)
	require.NoError(t, s.SetSID(fmt.Sprintf("sub_%d", tenantID)))
	require.NoError(t, repo.Create(t.Context(), s))
	return s
}

func TestSubscriptionRepository_OnePerTenant(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), logger.NewNop())
	ctx := t.Context()
	s := createTestSubscription(t, repo, 1, testNow)

	dup, err := subscription.NewTrial(1, "standard", testPolicy, testNow)
	require.NoError(t, err)
	require.NoError(t, dup.SetSID("sub_dup"))
	assert.True(t, errors.IsDuplicateError(repo.Create(ctx, dup)))

	found, err := repo.GetByTenant(ctx, 1)
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, s.ID(), found.ID())
	assert.Equal(t, vo.StatusTrial, found.Status())
	require.NotNil(t, found.TrialEndsAt())
	assert.True(t, found.TrialEndsAt().Equal(testNow.AddDate(0, 0, 14)))

	none, err := repo.GetByTenant(ctx, 99)
	require.NoError(t, err)
	assert.Nil(t, none)
}

func TestSubscriptionRepository_UpdateIfUnchanged(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), logger.NewNop())
	ctx := t.Context()
	createTestSubscription(t, repo, 1, testNow.AddDate(0, 0, -20))

	a, err := repo.GetByTenant(ctx, 1)
	require.NoError(t, err)
	b, err := repo.GetByTenant(ctx, 1)
	require.NoError(t, err)

	readVersion := a.Version()
	require.True(t, a.Degrade(testPolicy, testNow))
	ok, err := repo.UpdateIfUnchanged(ctx, a, vo.StatusTrial, readVersion)
	require.NoError(t, err)
	assert.True(t, ok)

	require.True(t, b.Degrade(testPolicy, testNow))
	ok, err = repo.UpdateIfUnchanged(ctx, b, vo.StatusTrial, readVersion)
	require.NoError(t, err)
	assert.False(t, ok, "a second daily run must not reapply the step")

	stored, err := repo.GetByID(ctx, a.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusGrace, stored.Status())
	require.NotNil(t, stored.GracePeriodEnd())
	assert.True(t, stored.GracePeriodEnd().Equal(testNow.AddDate(0, 0, 7)))
}

func TestSubscriptionRepository_DailyCheckKeepsConcurrentRenewal(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), logger.NewNop())
	ctx := t.Context()

	s := createTestSubscription(t, repo, 1, testNow.AddDate(0, 0, -60))
	require.NoError(t, s.ActivateFromPayment(testPolicy, testNow.AddDate(0, 0, -40)))
	require.NoError(t, repo.Update(ctx, s))

	cron, err := repo.GetByTenant(ctx, 1)
	require.NoError(t, err)
	webhook, err := repo.GetByTenant(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, vo.StatusActive, cron.Status())

	require.NoError(t, webhook.ActivateFromPayment(testPolicy, testNow))
	require.NoError(t, repo.Update(ctx, webhook))

	readVersion := cron.Version()
	require.True(t, cron.Degrade(testPolicy, testNow), "the stale copy still looks lapsed")
	ok, err := repo.UpdateIfUnchanged(ctx, cron, vo.StatusActive, readVersion)
	require.NoError(t, err)
	assert.False(t, ok, "a renewal committed after the read must win")

	stored, err := repo.GetByID(ctx, s.ID())
	require.NoError(t, err)
	assert.Equal(t, vo.StatusActive, stored.Status())
	assert.True(t, stored.CurrentPeriodEnd().Equal(testNow.AddDate(0, 0, 30)))
	assert.Nil(t, stored.GracePeriodEnd())
}

func TestSubscriptionRepository_UpdateIsVersionChecked(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), logger.NewNop())
	ctx := t.Context()
	createTestSubscription(t, repo, 1, testNow)

	a, err := repo.GetByTenant(ctx, 1)
	require.NoError(t, err)
	b, err := repo.GetByIDForUpdate(ctx, a.ID())
	require.NoError(t, err)

	require.NoError(t, a.ActivateFromPayment(testPolicy, testNow))
	require.NoError(t, repo.Update(ctx, a))
	require.NoError(t, b.Suspend("chargeback", testNow))
	assert.True(t, errors.IsConflictError(repo.Update(ctx, b)))
}

func TestSubscriptionRepository_ListDue(t *testing.T) {
	repo := NewSubscriptionRepository(setupTestDB(t), logger.NewNop())
	ctx := t.Context()

	expiredTrial := createTestSubscription(t, repo, 1, testNow.AddDate(0, 0, -15))
	createTestSubscription(t, repo, 2, testNow.AddDate(0, 0, -2))

	lapsed := createTestSubscription(t, repo, 3, testNow.AddDate(0, 0, -60))
	require.NoError(t, lapsed.ActivateFromPayment(testPolicy, testNow.AddDate(0, 0, -40)))
	require.NoError(t, repo.Update(ctx, lapsed))

	graceOver := createTestSubscription(t, repo, 4, testNow.AddDate(0, 0, -60))
	require.True(t, graceOver.Degrade(testPolicy, testNow.AddDate(0, 0, -10)))
	require.NoError(t, repo.Update(ctx, graceOver))

	inGrace := createTestSubscription(t, repo, 5, testNow.AddDate(0, 0, -60))
	require.True(t, inGrace.Degrade(testPolicy, testNow.AddDate(0, 0, -1)))
	require.NoError(t, repo.Update(ctx, inGrace))

	suspended := createTestSubscription(t, repo, 6, testNow.AddDate(0, 0, -60))
	require.NoError(t, suspended.Suspend("fraud", testNow.AddDate(0, 0, -50)))
	require.NoError(t, repo.Update(ctx, suspended))

	due, err := repo.ListDue(ctx, testNow, 0, 10)
	require.NoError(t, err)
	ids := make([]uint, len(due))
	for i, s := range due {
		ids[i] = s.ID()
	}
	assert.Equal(t, []uint{expiredTrial.ID(), lapsed.ID(), graceOver.ID()}, ids)

	page, err := repo.ListDue(ctx, testNow, lapsed.ID(), 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, graceOver.ID(), page[0].ID())
}
