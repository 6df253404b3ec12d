package payment

import (
	vo "github.com/karumbidza/TickTrack-Pro-sub003/internal/domain/payment/valueobjects"
)

// Callback is a verified provider notification, either pushed to the webhook
// or fetched by polling.
type Callback struct {
	Provider          vo.Provider
	Reference         string
	ProviderReference string
	AmountCents       int64
	RawStatus         string
	Outcome           vo.Outcome
	PollURL           string
	Fields            map[string]string
}

// DedupeKey identifies one logical delivery: the same provider payment in the
// same status.
func (c *Callback) DedupeKey() string {
	ref := c.ProviderReference
	if ref == "" {
		ref = c.Reference
	}
	return string(c.Provider) + ":" + ref + ":" + string(c.Outcome)
}

// ResponseBlob returns the fields as an audit blob for the payment row.
func (c *Callback) ResponseBlob() map[string]any {
	out := make(map[string]any, len(c.Fields)+1)
	for k, v := range c.Fields {
		out[k] = v
	}
	out["outcome"] = string(c.Outcome)
	return out
}
