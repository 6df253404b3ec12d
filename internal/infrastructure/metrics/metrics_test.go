package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/ticket/valueobjects"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/authorization"
)

func TestMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	class := authorization.RoleITAdmin.Class()
	m.TransitionApplied(vo.StatusOpen, vo.StatusProcessing, class)
	m.TransitionApplied(vo.StatusOpen, vo.StatusProcessing, class)
	m.AssignmentConflict()
	m.WebhookProcessed("paynow", "duplicate")
	m.PaymentBatchCreated()
	m.SubscriptionTransitioned("GRACE")
	m.OutboxDispatched("sent")
	m.ObserveRequest("GET", "/api/v1/tickets", 200, 15*time.Millisecond)
	m.ObserveRequest("GET", "", 404, time.Millisecond)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.ticketTransitions.WithLabelValues("OPEN", "PROCESSING", string(class.Kind))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.assignmentConflicts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.webhookEvents.WithLabelValues("paynow", "duplicate")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.paymentBatches))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.subscriptionTransitions.WithLabelValues("GRACE")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.outboxDispatch.WithLabelValues("sent")))

	families, err := reg.Gather()
	require.NoError(t, err)
	names := make([]string, 0, len(families))
	for _, f := range families {
		names = append(names, f.GetName())
	}
	assert.Contains(t, names, "ticktrack_http_request_duration_seconds")
	assert.Equal(t, 2, testutil.CollectAndCount(m.httpDuration))
}
