package usecases

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// memSubscriptions keeps the persisted status apart from the aggregate so
// conditional writes can be checked against what was "stored".
type memSubscriptions struct {
	mu       sync.Mutex
	rows     map[uint]*subscription.Subscription
	stored   map[uint]vo.SubscriptionStatus
	versions map[uint]int
	nextID   uint
}

func newMemSubscriptions() *memSubscriptions {
	return &memSubscriptions{
		rows:     map[uint]*subscription.Subscription{},
		stored:   map[uint]vo.SubscriptionStatus{},
		versions: map[uint]int{},
	}
}

func (m *memSubscriptions) put(s *subscription.Subscription) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[s.ID()] = s
	m.stored[s.ID()] = s.Status()
	m.versions[s.ID()] = s.Version()
	if s.ID() > m.nextID {
		m.nextID = s.ID()
	}
}

func (m *memSubscriptions) Create(_ context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if err := s.SetID(m.nextID); err != nil {
		return err
	}
	m.rows[s.ID()] = s
	m.stored[s.ID()] = s.Status()
	m.versions[s.ID()] = s.Version()
	return nil
}

func (m *memSubscriptions) Update(_ context.Context, s *subscription.Subscription) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stored[s.ID()] = s.Status()
	m.versions[s.ID()] = s.Version()
	return nil
}

func (m *memSubscriptions) UpdateIfUnchanged(_ context.Context, s *subscription.Subscription, readStatus vo.SubscriptionStatus, readVersion int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stored[s.ID()] != readStatus || m.versions[s.ID()] != readVersion {
		return false, nil
	}
	m.stored[s.ID()] = s.Status()
	m.versions[s.ID()] = s.Version()
	return true, nil
}

func (m *memSubscriptions) GetByID(_ context.Context, id uint) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rows[id], nil
}

func (m *memSubscriptions) GetByIDForUpdate(ctx context.Context, id uint) (*subscription.Subscription, error) {
	return m.GetByID(ctx, id)
}

func (m *memSubscriptions) GetBySID(_ context.Context, sid string) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.SID() == sid {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSubscriptions) GetByTenant(_ context.Context, tenantID uint) (*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, s := range m.rows {
		if s.TenantID() == tenantID {
			return s, nil
		}
	}
	return nil, nil
}

func (m *memSubscriptions) ListDue(_ context.Context, _ time.Time, afterID uint, limit int) ([]*subscription.Subscription, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*subscription.Subscription
	for id, s := range m.rows {
		if id <= afterID {
			continue
		}
		switch s.Status() {
		case vo.StatusTrial, vo.StatusActive, vo.StatusGrace:
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type memCache struct {
	mu          sync.Mutex
	levels      map[uint]vo.AccessLevel
	invalidated []uint
	err         error
}

func newMemCache() *memCache {
	return &memCache{levels: map[uint]vo.AccessLevel{}}
}

func (c *memCache) Get(_ context.Context, tenantID uint) (vo.AccessLevel, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return "", false, c.err
	}
	level, ok := c.levels[tenantID]
	return level, ok, nil
}

func (c *memCache) Set(_ context.Context, tenantID uint, level vo.AccessLevel) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.levels[tenantID] = level
	return nil
}

func (c *memCache) Invalidate(_ context.Context, tenantID uint) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.levels, tenantID)
	c.invalidated = append(c.invalidated, tenantID)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evts...)
	return nil
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type transitionCounter map[string]int

func (c transitionCounter) SubscriptionTransitioned(to string) { c[to]++ }

var (
	superAdmin  = authorization.Actor{UserID: 1, Role: authorization.RoleSuperAdmin, TenantID: 99}
	tenantAdmin = authorization.Actor{UserID: 2, Role: authorization.RoleTenantAdmin, TenantID: 1}
	endUser     = authorization.Actor{UserID: 3, Role: authorization.RoleEndUser, TenantID: 1}
)

var testPolicy = subscription.Policy{TrialDays: 14, PeriodDays: 30, GraceDays: 7}

type fixture struct {
	subs      *memSubscriptions
	cache     *memCache
	publisher *recordingPublisher
	metrics   transitionCounter
	access    *AccessResolver
	deps      AdminActionDeps
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		subs:      newMemSubscriptions(),
		cache:     newMemCache(),
		publisher: &recordingPublisher{},
		metrics:   transitionCounter{},
	}
	log := logger.NewNop()
	f.access = NewAccessResolver(f.subs, f.cache, log)
	f.deps = AdminActionDeps{
		Tx:        passthroughTx{},
		Repo:      f.subs,
		Publisher: f.publisher,
		Access:    f.access,
		Metrics:   f.metrics,
		Logger:    log,
	}
	return f
}

func (f *fixture) add(t *testing.T, id, tenantID uint, status vo.SubscriptionStatus, periodEnd time.Time, graceEnd *time.Time) *subscription.Subscription {
	t.Helper()
	p := subscription.ReconstructParams{
		ID:               id,
		SID:              fmt.Sprintf("sub_%012d", id),
		TenantID:         tenantID,
		Plan:             "standard",
		Status:           status,
		CurrentPeriodEnd: periodEnd,
		GracePeriodEnd:   graceEnd,
		Version:          1,
	}
	if status == vo.StatusTrial {
		p.TrialEndsAt = &periodEnd
	}
	s, err := subscription.ReconstructSubscription(p)
	require.NoError(t, err)
	f.subs.put(s)
	return s
}
