package notification

import (
	"bytes"
	"fmt"
	"text/template"
)

// Template renders the title and markdown body for one event type.
type Template struct {
	eventType string
	title     *template.Template
	body      *template.Template
}

func NewTemplate(eventType, title, body string) (*Template, error) {
	if eventType == "" {
		return nil, fmt.Errorf("event type is required")
	}
	titleTmpl, err := template.New(eventType + ".title").Option("missingkey=zero").Parse(title)
	if err != nil {
		return nil, fmt.Errorf("failed to parse title template: %w", err)
	}
	bodyTmpl, err := template.New(eventType + ".body").Option("missingkey=zero").Parse(body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse body template: %w", err)
	}
	return &Template{eventType: eventType, title: titleTmpl, body: bodyTmpl}, nil
}

func (t *Template) EventType() string { return t.eventType }

// Render executes both templates against the event data.
func (t *Template) Render(data map[string]any) (string, string, error) {
	var titleBuf, bodyBuf bytes.Buffer
	if err := t.title.Execute(&titleBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute title template: %w", err)
	}
	if err := t.body.Execute(&bodyBuf, data); err != nil {
		return "", "", fmt.Errorf("failed to execute body template: %w", err)
	}
	return titleBuf.String(), bodyBuf.String(), nil
}

// TemplateSet looks templates up by event type and falls back to a generic one.
type TemplateSet struct {
	byType   map[string]*Template
	fallback *Template
}

var defaultTemplates = map[string][2]string{
	"ticket.created":                  {"New ticket {{.number}}", "A new ticket **{{.title}}** was raised in {{.department}} with priority {{.priority}}."},
	"ticket.status_changed":           {"Ticket {{.number}} is now {{.to}}", "Ticket **{{.number}}** moved from {{.from}} to **{{.to}}**.{{if .reason}}\n\n> {{.reason}}{{end}}"},
	"ticket.assigned":                 {"Ticket {{.number}} assigned", "Ticket **{{.number}}** has been assigned to you."},
	"ticket.unassigned":               {"Ticket {{.number}} unassigned", "Ticket **{{.number}}** is no longer assigned.{{if .reason}}\n\n> {{.reason}}{{end}}"},
	"ticket.quote_requested":          {"Quote requested for {{.number}}", "You have been invited to quote on ticket **{{.number}}**."},
	"ticket.quote_submitted":          {"Quote received for {{.number}}", "A contractor submitted a quote on ticket **{{.number}}**."},
	"ticket.quote_approved":           {"Quote approved for {{.number}}", "Your quote on ticket **{{.number}}** was approved and the job is yours."},
	"ticket.quote_rejected":           {"Quote rejected for {{.number}}", "The quotes on ticket **{{.number}}** were rejected; you may resubmit.{{if .reason}}\n\n> {{.reason}}{{end}}"},
	"ticket.comment_added":            {"New comment on {{.number}}", "There is a new comment on ticket **{{.number}}**."},
	"invoice.submitted":               {"Invoice {{.invoice_number}} submitted", "Invoice **{{.invoice_number}}** (revision {{.revision_number}}) awaits review."},
	"invoice.approved":                {"Invoice {{.invoice_number}} approved", "Your invoice **{{.invoice_number}}** was approved."},
	"invoice.rejected":                {"Invoice {{.invoice_number}} rejected", "Your invoice **{{.invoice_number}}** was rejected.\n\n> {{.note}}"},
	"invoice.paid":                    {"Invoice {{.invoice_number}} paid", "Invoice **{{.invoice_number}}** has been paid in full."},
	"invoice.clarification_requested": {"Clarification needed on {{.invoice_number}}", "Please clarify invoice **{{.invoice_number}}**:\n\n> {{.note}}"},
	"invoice.clarification_answered":  {"Clarification received on {{.invoice_number}}", "The contractor answered the clarification on **{{.invoice_number}}**."},
	"payment_batch.created":           {"Payment batch {{.batch_number}}", "Payment batch **{{.batch_number}}** settled {{.invoice_count}} invoice(s)."},
	"payment.succeeded":               {"Payment received", "We received your payment (reference `{{.reference}}`). Thank you."},
	"payment.failed":                  {"Payment failed", "Your payment (reference `{{.reference}}`) did not go through: {{.failure_reason}}."},
	"subscription.trial_started":      {"Your trial has started", "Your trial is active until {{.current_period_end}}."},
	"subscription.grace_started":      {"Your subscription has expired", "Your subscription has lapsed. Full access continues until {{.grace_period_end}}; please renew."},
	"subscription.read_only":          {"Your account is read-only", "Your grace period has ended. The account is read-only until payment is received."},
	"subscription.activated":          {"Subscription active", "Your subscription is active until {{.current_period_end}}."},
	"subscription.suspended":          {"Subscription suspended", "Your subscription has been suspended. Please contact support."},
	"subscription.reinstated":         {"Subscription reinstated", "Your subscription has been reinstated."},
	"subscription.cancelled":          {"Subscription cancelled", "Your subscription has been cancelled."},
}

// DefaultTemplateSet returns the built-in templates.
func DefaultTemplateSet() (*TemplateSet, error) {
	set := &TemplateSet{byType: make(map[string]*Template, len(defaultTemplates))}
	for eventType, tmpl := range defaultTemplates {
		t, err := NewTemplate(eventType, tmpl[0], tmpl[1])
		if err != nil {
			return nil, err
		}
		set.byType[eventType] = t
	}
	fallback, err := NewTemplate("default", "TickTrack update", "There is an update on {{.aggregate_type}} `{{.aggregate_id}}`.")
	if err != nil {
		return nil, err
	}
	set.fallback = fallback
	return set, nil
}

func (s *TemplateSet) For(eventType string) *Template {
	if t, ok := s.byType[eventType]; ok {
		return t
	}
	return s.fallback
}

// Override replaces the template registered for t's event type.
func (s *TemplateSet) Override(t *Template) {
	if s.byType == nil {
		s.byType = map[string]*Template{}
	}
	s.byType[t.eventType] = t
}
