package email

import (
	"context"
	"fmt"

	"github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/notification"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/logger"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/services/markdown"
	"github.com/karumbidza/TickTrack-Pro-sub003/internal/shared/utils"
)

const htmlLayout = `<html><body style="font-family:sans-serif">%s<hr><p style="color:#888;font-size:12px">TickTrack Pro</p></body></html>`

// Dispatcher renders an event with its markdown template and mails it to the
// event's recipients, or to the tenant admins when none are named.
type Dispatcher struct {
	sender    Sender
	templates *notification.TemplateSet
	renderer  markdown.Renderer
	directory notification.RecipientDirectory
	logger    logger.Interface
}

var _ notification.Dispatcher = (*Dispatcher)(nil)

func NewDispatcher(
	sender Sender,
	templates *notification.TemplateSet,
	renderer markdown.Renderer,
	directory notification.RecipientDirectory,
	logger logger.Interface,
) *Dispatcher {
	return &Dispatcher{
		sender:    sender,
		templates: templates,
		renderer:  renderer,
		directory: directory,
		logger:    logger,
	}
}

func (d *Dispatcher) Name() string { return "email" }

func (d *Dispatcher) Dispatch(ctx context.Context, evt notification.Event) error {
	to, err := d.recipients(ctx, evt)
	if err != nil {
		return err
	}
	if len(to) == 0 {
		d.logger.Debugw("no email recipients for event", "event_id", evt.EventID, "event_type", evt.Type)
		return nil
	}

	data := make(map[string]any, len(evt.Data)+2)
	for k, v := range evt.Data {
		data[k] = v
	}
	data["aggregate_type"] = evt.AggregateType
	data["aggregate_id"] = evt.AggregateID

	subject, body, err := d.templates.For(evt.Type).Render(data)
	if err != nil {
		return fmt.Errorf("failed to render %s: %w", evt.Type, err)
	}
	html, err := d.renderer.ToHTML(body)
	if err != nil {
		return err
	}
	plain, err := d.renderer.ToText(body)
	if err != nil {
		return err
	}

	if err := d.sender.Send(Message{
		To:        to,
		Subject:   subject,
		HTMLBody:  fmt.Sprintf(htmlLayout, html),
		PlainBody: plain,
	}); err != nil {
		return err
	}

	d.logger.Infow("notification email sent",
		"event_id", evt.EventID,
		"event_type", evt.Type,
		"recipients", len(to),
		"first_recipient", utils.MaskEmail(to[0]))
	return nil
}

func (d *Dispatcher) recipients(ctx context.Context, evt notification.Event) ([]string, error) {
	if len(evt.Recipients) == 0 {
		emails, err := d.directory.TenantAdminEmails(ctx, evt.TenantID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve tenant admins: %w", err)
		}
		return emails, nil
	}
	emails, err := d.directory.ResolveEmails(ctx, evt.TenantID, evt.Recipients)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve recipients: %w", err)
	}
	return emails, nil
}
