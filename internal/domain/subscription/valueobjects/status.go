package valueobjects

import (
	"fmt"
	"strings"
)

type SubscriptionStatus string

const (
	StatusTrial     SubscriptionStatus = "TRIAL"
	StatusActive    SubscriptionStatus = "ACTIVE"
	StatusGrace     SubscriptionStatus = "GRACE"
	StatusReadOnly  SubscriptionStatus = "READ_ONLY"
	StatusSuspended SubscriptionStatus = "SUSPENDED"
	StatusCancelled SubscriptionStatus = "CANCELLED"
)

var ValidStatuses = map[SubscriptionStatus]bool{
	StatusTrial:     true,
	StatusActive:    true,
	StatusGrace:     true,
	StatusReadOnly:  true,
	StatusSuspended: true,
	StatusCancelled: true,
}

func NewSubscriptionStatus(s string) (SubscriptionStatus, error) {
	status := SubscriptionStatus(strings.ToUpper(strings.TrimSpace(s)))
	if !status.IsValid() {
		return "", fmt.Errorf("invalid subscription status: %s", s)
	}
	return status, nil
}

func (s SubscriptionStatus) String() string {
	return string(s)
}

func (s SubscriptionStatus) IsValid() bool {
	return ValidStatuses[s]
}

// Renewable reports statuses a payment moves back to ACTIVE.
func (s SubscriptionStatus) Renewable() bool {
	switch s {
	case StatusTrial, StatusActive, StatusGrace, StatusReadOnly:
		return true
	}
	return false
}

// AccessLevel is what the rest of the platform may do for a tenant.
type AccessLevel string

const (
	AccessFull     AccessLevel = "full"
	AccessReadOnly AccessLevel = "read_only"
	AccessBlocked  AccessLevel = "blocked"
)

func (s SubscriptionStatus) AccessLevel() AccessLevel {
	switch s {
	case StatusTrial, StatusActive, StatusGrace:
		return AccessFull
	case StatusReadOnly:
		return AccessReadOnly
	default:
		return AccessBlocked
	}
}

func (a AccessLevel) IsValid() bool {
	return a == AccessFull || a == AccessReadOnly || a == AccessBlocked
}

// AllowsWrite reports whether mutating requests are allowed.
func (a AccessLevel) AllowsWrite() bool {
	return a == AccessFull
}

// AllowsRead reports whether non-billing reads are allowed.
func (a AccessLevel) AllowsRead() bool {
	return a == AccessFull || a == AccessReadOnly
}
