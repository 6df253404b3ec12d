package payment

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
)

const referencePrefix = "TT-SUB-"

// BuildReference renders the merchant reference sent to the provider. It is
// echoed back on every callback and is the correlation key for webhooks.
func BuildReference(subscriptionID uint, paymentSID string) string {
	return fmt.Sprintf("%s%d-%s", referencePrefix, subscriptionID, paymentSID)
}

// ParseReference splits a merchant reference into subscription ID and payment SID.
func ParseReference(ref string) (subscriptionID uint, paymentSID string, ok bool) {
	rest, found := strings.CutPrefix(strings.TrimSpace(ref), referencePrefix)
	if !found {
		return 0, "", false
	}
	idPart, sid, found := strings.Cut(rest, "-")
	if !found || sid == "" {
		return 0, "", false
	}
	id, err := strconv.ParseUint(idPart, 10, 64)
	if err != nil || id == 0 {
		return 0, "", false
	}
	return uint(id), sid, true
}

type Payment struct {
	events.Recorder

	id                uint
	sid               string
	tenantID          uint
	subscriptionID    uint
	amount            int64
	currency          string
	status            vo.PaymentStatus
	provider          vo.Provider
	reference         string
	providerPaymentID *string
	pollURL           string
	redirectURL       string
	failureReason     string
	providerResponse  map[string]any

	paidAt    *time.Time
	version   int
	createdAt time.Time
	updatedAt time.Time
}

func NewPayment(tenantID, subscriptionID uint, amount money.Money, provider vo.Provider, now time.Time) (*Payment, error) {
	if tenantID == 0 {
		return nil, fmt.Errorf("tenant ID is required")
	}
	if subscriptionID == 0 {
		return nil, fmt.Errorf("subscription ID is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount must be positive")
	}
	if !provider.IsValid() {
		return nil, fmt.Errorf("invalid payment provider: %s", provider)
	}
	return &Payment{
		tenantID:         tenantID,
		subscriptionID:   subscriptionID,
		amount:           amount.Cents(),
		currency:         amount.Currency(),
		status:           vo.PaymentStatusPending,
		provider:         provider,
		providerResponse: map[string]any{},
		version:          1,
		createdAt:        now,
		updatedAt:        now,
	}, nil
}

// AssignSID sets the SID and derives the merchant reference from it.
func (p *Payment) AssignSID(sid string) error {
	if p.sid != "" {
		return fmt.Errorf("payment SID is already set")
	}
	p.sid = sid
	if p.reference == "" {
		p.reference = BuildReference(p.subscriptionID, sid)
	}
	return nil
}

// UseReference overrides the merchant reference, e.g. with a bank transfer
// reference typed in by an admin.
func (p *Payment) UseReference(ref string) {
	p.reference = strings.TrimSpace(ref)
}

// AttachGateway stores the provider's poll and redirect URLs after initiation.
func (p *Payment) AttachGateway(pollURL, redirectURL string, now time.Time) {
	p.pollURL = pollURL
	p.redirectURL = redirectURL
	p.touch(now)
}

// MarkSucceeded applies a confirmed payment. It reports false, and changes
// nothing, when the payment was already successful.
func (p *Payment) MarkSucceeded(providerRef string, response map[string]any, now time.Time) bool {
	if !p.status.CanSettle() {
		return false
	}
	p.status = vo.PaymentStatusSuccess
	p.failureReason = ""
	p.setProviderRef(providerRef)
	p.mergeResponse(response)
	paid := now
	p.paidAt = &paid
	p.touch(now)
	p.Record(newPaymentEvent(p, EventSucceeded, now))
	return true
}

// MarkFailed records a failure. Only pending payments can fail; a late
// failure notice for a settled payment is ignored.
func (p *Payment) MarkFailed(reason, providerRef string, response map[string]any, now time.Time) bool {
	if !p.status.IsPending() {
		return false
	}
	p.status = vo.PaymentStatusFailed
	p.failureReason = reason
	p.setProviderRef(providerRef)
	p.mergeResponse(response)
	p.touch(now)
	p.Record(newPaymentEvent(p, EventFailed, now))
	return true
}

// NotePending keeps the payment pending while remembering what the provider said.
func (p *Payment) NotePending(providerRef, pollURL string, response map[string]any, now time.Time) {
	p.setProviderRef(providerRef)
	if pollURL != "" {
		p.pollURL = pollURL
	}
	p.mergeResponse(response)
	p.touch(now)
}

func (p *Payment) setProviderRef(ref string) {
	if ref == "" || p.providerPaymentID != nil {
		return
	}
	p.providerPaymentID = &ref
}

func (p *Payment) mergeResponse(response map[string]any) {
	if p.providerResponse == nil {
		p.providerResponse = map[string]any{}
	}
	for k, v := range response {
		p.providerResponse[k] = v
	}
}

func (p *Payment) touch(now time.Time) {
	p.updatedAt = now
	p.version++
}

type ReconstructParams struct {
	ID                uint
	SID               string
	TenantID          uint
	SubscriptionID    uint
	AmountCents       int64
	Currency          string
	Status            vo.PaymentStatus
	Provider          vo.Provider
	Reference         string
	ProviderPaymentID *string
	PollURL           string
	RedirectURL       string
	FailureReason     string
	ProviderResponse  map[string]any
	PaidAt            *time.Time
	Version           int
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func ReconstructPayment(p ReconstructParams) (*Payment, error) {
	if p.ID == 0 {
		return nil, fmt.Errorf("payment ID cannot be zero")
	}
	if !p.Status.IsValid() {
		return nil, fmt.Errorf("invalid payment status: %s", p.Status)
	}
	return &Payment{
		id:                p.ID,
		sid:               p.SID,
		tenantID:          p.TenantID,
		subscriptionID:    p.SubscriptionID,
		amount:            p.AmountCents,
		currency:          p.Currency,
		status:            p.Status,
		provider:          p.Provider,
		reference:         p.Reference,
		providerPaymentID: p.ProviderPaymentID,
		pollURL:           p.PollURL,
		redirectURL:       p.RedirectURL,
		failureReason:     p.FailureReason,
		providerResponse:  p.ProviderResponse,
		paidAt:            p.PaidAt,
		version:           p.Version,
		createdAt:         p.CreatedAt,
		updatedAt:         p.UpdatedAt,
	}, nil
}

func (p *Payment) ID() uint                         { return p.id }
func (p *Payment) SID() string                      { return p.sid }
func (p *Payment) TenantID() uint                   { return p.tenantID }
func (p *Payment) SubscriptionID() uint             { return p.subscriptionID }
func (p *Payment) AmountCents() int64               { return p.amount }
func (p *Payment) Currency() string                 { return p.currency }
func (p *Payment) Amount() money.Money              { return money.New(p.amount, p.currency) }
func (p *Payment) Status() vo.PaymentStatus         { return p.status }
func (p *Payment) Provider() vo.Provider            { return p.provider }
func (p *Payment) Reference() string                { return p.reference }
func (p *Payment) ProviderPaymentID() *string       { return p.providerPaymentID }
func (p *Payment) PollURL() string                  { return p.pollURL }
func (p *Payment) RedirectURL() string              { return p.redirectURL }
func (p *Payment) FailureReason() string            { return p.failureReason }
func (p *Payment) ProviderResponse() map[string]any { return p.providerResponse }
func (p *Payment) PaidAt() *time.Time               { return p.paidAt }
func (p *Payment) Version() int                     { return p.version }
func (p *Payment) CreatedAt() time.Time             { return p.createdAt }
func (p *Payment) UpdatedAt() time.Time             { return p.updatedAt }

func (p *Payment) SetID(id uint) error {
	if p.id != 0 {
		return fmt.Errorf("payment ID is already set")
	}
	p.id = id
	return nil
}
