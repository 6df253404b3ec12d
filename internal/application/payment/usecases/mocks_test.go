package usecases

import (
	"context"
	"fmt"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/application/payment/paymentgateway"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	subvo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

type passthroughTx struct{}

func (passthroughTx) RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type memPayments struct {
	mu        sync.Mutex
	rows      map[uint]*payment.Payment
	succeeded map[uint]bool
	nextID    uint
}

func newMemPayments() *memPayments {
	return &memPayments{rows: map[uint]*payment.Payment{}, succeeded: map[uint]bool{}}
}

func (m *memPayments) Create(_ context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	if err := p.SetID(m.nextID); err != nil {
		return err
	}
	m.rows[p.ID()] = p
	if p.Status().IsSuccess() {
		m.succeeded[p.ID()] = true
	}
	return nil
}

func (m *memPayments) Update(context.Context, *payment.Payment) error { return nil }

func (m *memPayments) MarkSucceeded(_ context.Context, p *payment.Payment) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.succeeded[p.ID()] {
		return false, nil
	}
	m.succeeded[p.ID()] = true
	return true, nil
}

func (m *memPayments) GetBySID(_ context.Context, sid string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.SID() == sid {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memPayments) GetBySIDForUpdate(ctx context.Context, sid string) (*payment.Payment, error) {
	return m.GetBySID(ctx, sid)
}

func (m *memPayments) GetByProviderReference(_ context.Context, provider vo.Provider, ref string) (*payment.Payment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, p := range m.rows {
		if p.Provider() == provider && p.ProviderPaymentID() != nil && *p.ProviderPaymentID() == ref {
			return p, nil
		}
	}
	return nil, nil
}

func (m *memPayments) ListBySubscription(_ context.Context, subscriptionID uint) ([]*payment.Payment, error) {
	var out []*payment.Payment
	for i := uint(1); i <= m.nextID; i++ {
		if p := m.rows[i]; p != nil && p.SubscriptionID() == subscriptionID {
			out = append(out, p)
		}
	}
	return out, nil
}

type memLedger struct {
	mu   sync.Mutex
	keys map[string]bool
}

func (l *memLedger) Record(_ context.Context, provider vo.Provider, ref string, outcome vo.Outcome) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	key := fmt.Sprintf("%s:%s:%s", provider, ref, outcome)
	if l.keys[key] {
		return false, nil
	}
	l.keys[key] = true
	return true, nil
}

type memDedupe struct {
	keys map[string]bool
	err  error
}

func (d *memDedupe) Claim(_ context.Context, key string, _ time.Duration) (bool, error) {
	if d.err != nil {
		return false, d.err
	}
	if d.keys[key] {
		return false, nil
	}
	d.keys[key] = true
	return true, nil
}

func (d *memDedupe) Release(_ context.Context, key string) error {
	delete(d.keys, key)
	return nil
}

type subscriptionStore struct {
	subscription.SubscriptionRepository
	byID map[uint]*subscription.Subscription
}

func (s subscriptionStore) GetByID(_ context.Context, id uint) (*subscription.Subscription, error) {
	return s.byID[id], nil
}

func (s subscriptionStore) GetByTenant(_ context.Context, tenantID uint) (*subscription.Subscription, error) {
	for _, sub := range s.byID {
		if sub.TenantID() == tenantID {
			return sub, nil
		}
	}
	return nil, nil
}

type recordingActivator struct {
	activations []uint
	invalidated []uint
	err         error
}

func (a *recordingActivator) ActivateFromPayment(_ context.Context, subscriptionID uint, _ time.Time) error {
	if a.err != nil {
		return a.err
	}
	a.activations = append(a.activations, subscriptionID)
	return nil
}

func (a *recordingActivator) InvalidateAccess(_ context.Context, tenantID uint) {
	a.invalidated = append(a.invalidated, tenantID)
}

type recordingPublisher struct {
	events []events.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, evts ...events.DomainEvent) error {
	p.events = append(p.events, evts...)
	return nil
}

func (p *recordingPublisher) types() []string {
	out := make([]string, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.GetEventType())
	}
	return out
}

type outcomeCounter map[string]int

func (c outcomeCounter) WebhookProcessed(_, outcome string) { c[outcome]++ }

// fakeGateway accepts any message whose hash field is "ok".
type fakeGateway struct {
	createErr error
	poll      url.Values
	created   []paymentgateway.CreatePaymentRequest
}

func (g *fakeGateway) Provider() vo.Provider { return vo.ProviderPaynow }

func (g *fakeGateway) CreatePayment(_ context.Context, req paymentgateway.CreatePaymentRequest) (*paymentgateway.CreatePaymentResponse, error) {
	g.created = append(g.created, req)
	if g.createErr != nil {
		return nil, g.createErr
	}
	return &paymentgateway.CreatePaymentResponse{
		RedirectURL: "https://pay.example/redirect/" + req.Reference,
		PollURL:     "https://pay.example/poll/" + req.Reference,
	}, nil
}

func (g *fakeGateway) ParseCallback(fields url.Values) (*payment.Callback, error) {
	if fields.Get("hash") != "ok" {
		return nil, errors.NewInvalidSignatureError("hash mismatch")
	}
	cents, err := money.ParseDecimal(fields.Get("amount"))
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	outcome := vo.OutcomePending
	switch fields.Get("status") {
	case "Paid":
		outcome = vo.OutcomeSuccess
	case "Cancelled", "Failed":
		outcome = vo.OutcomeFailed
	}
	flat := map[string]string{}
	for k := range fields {
		flat[k] = fields.Get(k)
	}
	return &payment.Callback{
		Provider:          vo.ProviderPaynow,
		Reference:         fields.Get("reference"),
		ProviderReference: fields.Get("paynowreference"),
		AmountCents:       cents,
		RawStatus:         fields.Get("status"),
		Outcome:           outcome,
		PollURL:           fields.Get("pollurl"),
		Fields:            flat,
	}, nil
}

func (g *fakeGateway) Poll(context.Context, string) (*payment.Callback, error) {
	return g.ParseCallback(g.poll)
}

var (
	billingAdmin = authorization.Actor{UserID: 1, Role: authorization.RoleTenantAdmin, TenantID: 1}
	itAdmin      = authorization.Actor{UserID: 2, Role: authorization.RoleITAdmin, TenantID: 1}
)

type fixture struct {
	payments  *memPayments
	ledger    *memLedger
	dedupe    *memDedupe
	subs      subscriptionStore
	activator *recordingActivator
	publisher *recordingPublisher
	metrics   outcomeCounter
	gateway   *fakeGateway

	ingest   *IngestWebhookUseCase
	initiate *InitiatePaymentUseCase
	poll     *PollPaymentUseCase
	bank     *ConfirmBankTransferUseCase
	list     *ListPaymentsUseCase
}

func newFixture(t *testing.T, withDedupe bool) *fixture {
	t.Helper()
	sub, err := subscription.ReconstructSubscription(subscription.ReconstructParams{
		ID:               7,
		SID:              "sub_000000000007",
		TenantID:         1,
		Plan:             "standard",
		Status:           subvo.StatusGrace,
		CurrentPeriodEnd: time.Now().UTC().Add(-24 * time.Hour),
		Version:          1,
	})
	require.NoError(t, err)

	f := &fixture{
		payments:  newMemPayments(),
		ledger:    &memLedger{keys: map[string]bool{}},
		subs:      subscriptionStore{byID: map[uint]*subscription.Subscription{7: sub}},
		activator: &recordingActivator{},
		publisher: &recordingPublisher{},
		metrics:   outcomeCounter{},
		gateway:   &fakeGateway{},
	}
	log := logger.NewNop()
	deps := SettlerDeps{
		Tx:            passthroughTx{},
		Payments:      f.payments,
		Ledger:        f.ledger,
		Subscriptions: f.subs,
		Activator:     f.activator,
		Publisher:     f.publisher,
		Metrics:       f.metrics,
		Logger:        log,
	}
	if withDedupe {
		f.dedupe = &memDedupe{keys: map[string]bool{}}
		deps.Dedupe = f.dedupe
	}
	settler := NewSettler(deps)

	f.ingest = NewIngestWebhookUseCase(f.gateway, settler, "USD", log)
	f.initiate = NewInitiatePaymentUseCase(f.payments, f.subs, f.gateway, money.New(2500, "USD"), log)
	f.poll = NewPollPaymentUseCase(f.payments, f.gateway, settler, log)
	f.bank = NewConfirmBankTransferUseCase(settler, "USD", log)
	f.list = NewListPaymentsUseCase(f.payments, f.subs, log)
	return f
}

// pending creates an initiated payment and returns it.
func (f *fixture) pending(t *testing.T) *payment.Payment {
	t.Helper()
	res, err := f.initiate.Execute(context.Background(), InitiatePaymentCommand{Actor: billingAdmin})
	require.NoError(t, err)
	p, err := f.payments.GetBySID(context.Background(), res.Payment.ID)
	require.NoError(t, err)
	return p
}

func callback(p *payment.Payment, status, amount string) url.Values {
	return url.Values{
		"reference":       {p.Reference()},
		"paynowreference": {"PN-" + p.SID()},
		"amount":          {amount},
		"status":          {status},
		"pollurl":         {"https://pay.example/poll/" + p.Reference()},
		"hash":            {"ok"},
	}
}
