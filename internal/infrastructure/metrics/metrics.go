// Package metrics holds the service's prometheus collectors. One Metrics
// value satisfies every metrics port of the application layer.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
)

const namespace = "ticktrack"

type Metrics struct {
	ticketTransitions       *prometheus.CounterVec
	assignmentConflicts     prometheus.Counter
	webhookEvents           *prometheus.CounterVec
	paymentBatches          prometheus.Counter
	subscriptionTransitions *prometheus.CounterVec
	outboxDispatch          *prometheus.CounterVec
	httpDuration            *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		ticketTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticket_transitions_total",
			Help:      "Ticket status transitions applied.",
		}, []string{"from", "to", "role_class"}),
		assignmentConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "assignment_conflicts_total",
			Help:      "Assignments lost to a concurrent assigner.",
		}),
		webhookEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Payment provider deliveries by outcome.",
		}, []string{"provider", "outcome"}),
		paymentBatches: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_batches_total",
			Help:      "Payment batches created.",
		}),
		subscriptionTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "subscription_transitions_total",
			Help:      "Subscription status changes by target status.",
		}, []string{"to"}),
		outboxDispatch: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_dispatch_total",
			Help:      "Outbox delivery attempts by outcome.",
		}, []string{"outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(
		m.ticketTransitions,
		m.assignmentConflicts,
		m.webhookEvents,
		m.paymentBatches,
		m.subscriptionTransitions,
		m.outboxDispatch,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) TransitionApplied(from, to vo.TicketStatus, class authorization.RoleClass) {
	m.ticketTransitions.WithLabelValues(from.String(), to.String(), string(class.Kind)).Inc()
}

func (m *Metrics) AssignmentConflict() {
	m.assignmentConflicts.Inc()
}

func (m *Metrics) WebhookProcessed(provider, outcome string) {
	m.webhookEvents.WithLabelValues(provider, outcome).Inc()
}

func (m *Metrics) PaymentBatchCreated() {
	m.paymentBatches.Inc()
}

func (m *Metrics) SubscriptionTransitioned(to string) {
	m.subscriptionTransitions.WithLabelValues(to).Inc()
}

func (m *Metrics) OutboxDispatched(outcome string) {
	m.outboxDispatch.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one HTTP request. route is the matched route
// pattern, never the raw path.
func (m *Metrics) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	m.httpDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(elapsed.Seconds())
}
