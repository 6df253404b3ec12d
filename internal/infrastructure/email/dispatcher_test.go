package email

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/services/markdown"
)

type captureSender struct {
	sent []Message
	err  error
}

func (s *captureSender) Send(msg Message) error {
	if s.err != nil {
		return s.err
	}
	s.sent = append(s.sent, msg)
	return nil
}

type staticDirectory struct {
	users  map[uint]string
	admins []string
}

func (d staticDirectory) ResolveEmails(_ context.Context, _ uint, ids []uint) ([]string, error) {
	var out []string
	for _, id := range ids {
		if e, ok := d.users[id]; ok {
			out = append(out, e)
		}
	}
	return out, nil
}

func (d staticDirectory) TenantAdminEmails(context.Context, uint) ([]string, error) {
	return d.admins, nil
}

func newTestDispatcher(t *testing.T, sender Sender) *Dispatcher {
	t.Helper()
	templates, err := notification.DefaultTemplateSet()
	require.NoError(t, err)
	dir := staticDirectory{
		users:  map[uint]string{7: "contractor@example.com"},
		admins: []string{"admin@example.com"},
	}
	return NewDispatcher(sender, templates, markdown.NewRenderer(), dir, logger.NewNop())
}

func TestDispatcher_RendersAndSends(t *testing.T) {
	sender := &captureSender{}
	d := newTestDispatcher(t, sender)

	err := d.Dispatch(context.Background(), notification.Event{
		EventID:    "e1",
		Type:       "ticket.assigned",
		TenantID:   1,
		Recipients: []uint{7, 8},
		Data:       map[string]any{"number": "TT-0042"},
	})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)

	msg := sender.sent[0]
	assert.Equal(t, []string{"contractor@example.com"}, msg.To)
	assert.Equal(t, "Ticket TT-0042 assigned", msg.Subject)
	assert.Contains(t, msg.HTMLBody, "<strong>TT-0042</strong>")
	assert.Contains(t, msg.PlainBody, "TT-0042")
	assert.NotContains(t, msg.PlainBody, "<strong>")
}

func TestDispatcher_DefaultsToTenantAdmins(t *testing.T) {
	sender := &captureSender{}
	d := newTestDispatcher(t, sender)

	require.NoError(t, d.Dispatch(context.Background(), notification.Event{
		EventID:     "e2",
		Type:        "something.unknown",
		TenantID:    1,
		AggregateID: "tk_1",
	}))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, []string{"admin@example.com"}, sender.sent[0].To)
	assert.Equal(t, "TickTrack update", sender.sent[0].Subject)
}

func TestDispatcher_SanitisesUserText(t *testing.T) {
	sender := &captureSender{}
	d := newTestDispatcher(t, sender)

	require.NoError(t, d.Dispatch(context.Background(), notification.Event{
		Type:       "ticket.unassigned",
		TenantID:   1,
		Recipients: []uint{7},
		Data:       map[string]any{"number": "TT-1", "reason": `<script>alert(1)</script>`},
	}))
	require.Len(t, sender.sent, 1)
	assert.NotContains(t, sender.sent[0].HTMLBody, "<script>")
}

func TestDispatcher_NoRecipientsIsNotAnError(t *testing.T) {
	sender := &captureSender{}
	d := newTestDispatcher(t, sender)

	require.NoError(t, d.Dispatch(context.Background(), notification.Event{
		Type:       "ticket.assigned",
		TenantID:   1,
		Recipients: []uint{99},
	}))
	assert.Empty(t, sender.sent)
}

func TestDispatcher_SendFailureIsReturned(t *testing.T) {
	d := newTestDispatcher(t, &captureSender{err: fmt.Errorf("smtp down")})
	err := d.Dispatch(context.Background(), notification.Event{Type: "ticket.assigned", TenantID: 1, Recipients: []uint{7}})
	assert.Error(t, err)
}
