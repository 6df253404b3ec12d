// Package id generates the Stripe-style external identifiers exposed by the API.
// Numeric primary keys never leave the service; every aggregate that is
// addressed over HTTP carries a "<prefix>_<base62>" SID instead.
package id

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
)

const (
	// Base62 alphabet: 0-9, A-Z, a-z
	alphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz"

	// DefaultLength is the default length for generated short IDs
	DefaultLength = 12
)

const (
	PrefixTicket       = "tk"
	PrefixInvoice      = "inv"
	PrefixPaymentBatch = "pb"
	PrefixPayment      = "pay"
	PrefixSubscription = "sub"
	PrefixComment      = "cm"
)

// Generate creates a random short ID with the specified length using Base62 encoding.
func Generate(length int) (string, error) {
	if length <= 0 {
		length = DefaultLength
	}

	result := make([]byte, length)
	alphabetLen := big.NewInt(int64(len(alphabet)))

	for i := 0; i < length; i++ {
		num, err := rand.Int(rand.Reader, alphabetLen)
		if err != nil {
			return "", fmt.Errorf("failed to generate random number: %w", err)
		}
		result[i] = alphabet[num.Int64()]
	}

	return string(result), nil
}

// New returns a prefixed SID such as "tk_4fPq9Lx2nZab".
func New(prefix string) (string, error) {
	s, err := Generate(DefaultLength)
	if err != nil {
		return "", err
	}
	return prefix + "_" + s, nil
}

// ValidatePrefix checks that sid is well formed and carries the expected prefix.
func ValidatePrefix(sid, expectedPrefix string) error {
	prefix, rest, ok := strings.Cut(sid, "_")
	if !ok || rest == "" {
		return fmt.Errorf("invalid id format: %q", sid)
	}
	if prefix != expectedPrefix {
		return fmt.Errorf("invalid id prefix: expected %s, got %s", expectedPrefix, prefix)
	}
	for _, r := range rest {
		if !strings.ContainsRune(alphabet, r) {
			return fmt.Errorf("invalid id characters: %q", sid)
		}
	}
	return nil
}
