package valueobjects

import (
	"fmt"
	"strings"
)

// Provider identifies who confirmed the payment.
type Provider string

const (
	ProviderPaynow       Provider = "paynow"
	ProviderBankTransfer Provider = "bank_transfer"
)

func NewProvider(s string) (Provider, error) {
	p := Provider(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid payment provider: %s", s)
	}
	return p, nil
}

func (p Provider) IsValid() bool {
	switch p {
	case ProviderPaynow, ProviderBankTransfer:
		return true
	default:
		return false
	}
}

func (p Provider) String() string {
	return string(p)
}

// Outcome is a provider status collapsed to what it means for us.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeFailed  Outcome = "failed"
	OutcomePending Outcome = "pending"
)
