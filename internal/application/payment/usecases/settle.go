package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment"
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/events"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/shared/money"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/subscription"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/biztime"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/db"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/errors"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/id"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
)

// resolver finds or creates the payment a callback is about. It runs inside
// the settlement transaction.
type resolver func(ctx context.Context) (*payment.Payment, error)

// Settler applies verified callbacks exactly once. The webhook, client polls
// and bank transfer confirmations all go through it.
type Settler struct {
	tx            db.Transactor
	payments      payment.PaymentRepository
	ledger        payment.WebhookLedger
	subscriptions subscription.SubscriptionRepository
	activator     SubscriptionActivator
	publisher     events.Publisher
	dedupe        DeliveryDedupe
	dedupeTTL     time.Duration
	metrics       WebhookMetrics
	logger        logger.Interface
}

type SettlerDeps struct {
	Tx            db.Transactor
	Payments      payment.PaymentRepository
	Ledger        payment.WebhookLedger
	Subscriptions subscription.SubscriptionRepository
	Activator     SubscriptionActivator
	Publisher     events.Publisher
	Dedupe        DeliveryDedupe
	DedupeTTL     time.Duration
	Metrics       WebhookMetrics
	Logger        logger.Interface
}

func NewSettler(d SettlerDeps) *Settler {
	ttl := d.DedupeTTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &Settler{
		tx:            d.Tx,
		payments:      d.Payments,
		ledger:        d.Ledger,
		subscriptions: d.Subscriptions,
		activator:     d.Activator,
		publisher:     d.Publisher,
		dedupe:        d.Dedupe,
		dedupeTTL:     ttl,
		metrics:       d.Metrics,
		logger:        d.Logger,
	}
}

func (s *Settler) settle(ctx context.Context, cb *payment.Callback, resolve resolver) (*IngestResult, error) {
	key := "webhook:" + cb.DedupeKey()
	if s.dedupe != nil {
		fresh, err := s.dedupe.Claim(ctx, key, s.dedupeTTL)
		switch {
		case err != nil:
			s.logger.Warnw("webhook dedupe unavailable, using durable gate", "error", err)
		case !fresh:
			s.logger.Infow("duplicate delivery short-circuited", "key", key)
			s.count(cb.Provider, OutcomeDuplicate)
			return &IngestResult{Status: string(cb.Outcome), AlreadyProcessed: true}, nil
		}
	}

	var (
		result    *IngestResult
		tenantID  uint
		activated bool
	)
	err := s.tx.RunInTransaction(ctx, func(ctx context.Context) error {
		now := biztime.NowUTC()
		p, err := resolve(ctx)
		if err != nil {
			return err
		}
		tenantID = p.TenantID()

		ref := cb.ProviderReference
		if ref == "" {
			ref = cb.Reference
		}
		fresh, err := s.ledger.Record(ctx, cb.Provider, ref, cb.Outcome)
		if err != nil {
			return fmt.Errorf("failed to record webhook delivery: %w", err)
		}
		if !fresh || p.Status().IsSuccess() {
			result = &IngestResult{PaymentSID: p.SID(), Status: p.Status().String(), AlreadyProcessed: true}
			return nil
		}

		switch cb.Outcome {
		case vo.OutcomeSuccess:
			if cb.AmountCents > 0 && cb.AmountCents != p.AmountCents() {
				reason := fmt.Sprintf("amount mismatch: expected %s, provider reported %s",
					p.Amount(), money.New(cb.AmountCents, p.Currency()))
				if p.MarkFailed(reason, cb.ProviderReference, cb.ResponseBlob(), now) {
					if err := s.payments.Update(ctx, p); err != nil {
						return err
					}
				}
				s.logger.Errorw("payment amount mismatch", "payment_sid", p.SID(), "reason", reason)
				break
			}
			p.MarkSucceeded(cb.ProviderReference, cb.ResponseBlob(), now)
			changed, err := s.payments.MarkSucceeded(ctx, p)
			if err != nil {
				return fmt.Errorf("failed to mark payment successful: %w", err)
			}
			if !changed {
				p.PullEvents()
				result = &IngestResult{PaymentSID: p.SID(), Status: vo.PaymentStatusSuccess.String(), AlreadyProcessed: true}
				return nil
			}
			err = s.activator.ActivateFromPayment(ctx, p.SubscriptionID(), now)
			switch {
			case stderrors.Is(err, subscription.ErrNotRenewable):
				s.logger.Warnw("payment received for cancelled subscription",
					"payment_sid", p.SID(), "subscription_id", p.SubscriptionID())
			case err != nil:
				return err
			default:
				activated = true
			}
		case vo.OutcomeFailed:
			if p.MarkFailed("provider reported "+cb.RawStatus, cb.ProviderReference, cb.ResponseBlob(), now) {
				if err := s.payments.Update(ctx, p); err != nil {
					return err
				}
			}
		default:
			p.NotePending(cb.ProviderReference, cb.PollURL, cb.ResponseBlob(), now)
			if err := s.payments.Update(ctx, p); err != nil {
				return err
			}
		}

		if evts := p.PullEvents(); len(evts) > 0 {
			if err := s.publisher.Publish(ctx, evts...); err != nil {
				return fmt.Errorf("failed to write outbox: %w", err)
			}
		}
		result = &IngestResult{PaymentSID: p.SID(), Status: p.Status().String()}
		return nil
	})
	if err != nil {
		if s.dedupe != nil {
			if relErr := s.dedupe.Release(ctx, key); relErr != nil {
				s.logger.Warnw("failed to release webhook dedupe key", "key", key, "error", relErr)
			}
		}
		s.logger.Errorw("failed to settle payment callback",
			"provider", cb.Provider, "reference", cb.Reference, "error", err)
		return nil, asAppError(err, "failed to process payment")
	}

	if activated {
		s.activator.InvalidateAccess(ctx, tenantID)
	}
	switch {
	case result.AlreadyProcessed:
		s.count(cb.Provider, OutcomeDuplicate)
	case result.Status == vo.PaymentStatusFailed.String():
		s.count(cb.Provider, OutcomeFailed)
	case result.Status == vo.PaymentStatusPending.String():
		s.count(cb.Provider, OutcomePending)
	default:
		s.count(cb.Provider, OutcomeProcessed)
	}
	s.logger.Infow("payment callback settled",
		"payment_sid", result.PaymentSID,
		"status", result.Status,
		"already_processed", result.AlreadyProcessed)
	return result, nil
}

// byMerchantReference resolves a provider callback through our reference,
// then the provider's, and finally records a pending payment so that a
// delivery for an unknown payment is not lost.
func (s *Settler) byMerchantReference(cb *payment.Callback, currency string) resolver {
	return func(ctx context.Context) (*payment.Payment, error) {
		subID, paySID, ok := payment.ParseReference(cb.Reference)
		if !ok {
			return nil, errors.NewValidationError("unrecognised payment reference", cb.Reference)
		}
		p, err := s.payments.GetBySIDForUpdate(ctx, paySID)
		if err != nil {
			return nil, fmt.Errorf("failed to load payment: %w", err)
		}
		if p == nil && cb.ProviderReference != "" {
			if p, err = s.payments.GetByProviderReference(ctx, cb.Provider, cb.ProviderReference); err != nil {
				return nil, fmt.Errorf("failed to load payment: %w", err)
			}
		}
		if p != nil {
			if p.SubscriptionID() != subID {
				return nil, errors.NewValidationError("payment reference does not match its subscription")
			}
			return p, nil
		}
		return s.createPending(ctx, subID, cb, money.New(cb.AmountCents, currency), func(p *payment.Payment) error {
			return p.AssignSID(paySID)
		})
	}
}

func (s *Settler) createPending(ctx context.Context, subscriptionID uint, cb *payment.Callback, amount money.Money, identify func(*payment.Payment) error) (*payment.Payment, error) {
	sub, err := s.subscriptions.GetByID(ctx, subscriptionID)
	if err != nil {
		return nil, fmt.Errorf("failed to load subscription: %w", err)
	}
	if sub == nil {
		return nil, errors.NewNotFoundError("subscription not found")
	}
	p, err := payment.NewPayment(sub.TenantID(), sub.ID(), amount, cb.Provider, biztime.NowUTC())
	if err != nil {
		return nil, errors.NewValidationError(err.Error())
	}
	if err := identify(p); err != nil {
		return nil, err
	}
	if err := s.payments.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}
	s.logger.Warnw("created payment for unknown callback",
		"payment_sid", p.SID(), "subscription_id", subscriptionID, "reference", cb.Reference)
	return p, nil
}

func newPaymentSID() (string, error) {
	return id.New(id.PrefixPayment)
}

func (s *Settler) count(provider vo.Provider, outcome string) {
	if s.metrics != nil {
		s.metrics.WebhookProcessed(provider.String(), outcome)
	}
}

func asAppError(err error, msg string) error {
	if errors.IsAppError(err) {
		return err
	}
	return errors.NewInternalError(msg)
}
