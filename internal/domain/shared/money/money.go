// Package money holds amounts in integer minor units so that ledger
// arithmetic stays exact.
package money

import (
	"fmt"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const DefaultCurrency = "USD"

type Money struct {
	cents    int64
	currency string
}

func New(cents int64, code string) Money {
	return Money{cents: cents, currency: NormalizeCurrency(code)}
}

// NormalizeCurrency upper-cases an ISO 4217 code and falls back to USD for
// anything unparseable.
func NormalizeCurrency(code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return DefaultCurrency
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return DefaultCurrency
	}
	return unit.String()
}

func (m Money) Cents() int64     { return m.cents }
func (m Money) Currency() string { return m.currency }
func (m Money) IsPositive() bool { return m.cents > 0 }
func (m Money) IsZero() bool     { return m.cents == 0 }
func (m Money) Equals(o Money) bool {
	return m.cents == o.cents && m.currency == o.currency
}

// Decimal renders the amount as "123.45", the format payment providers expect.
func (m Money) Decimal() string {
	sign := ""
	cents := m.cents
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s%d.%02d", sign, cents/100, cents%100)
}

var printer = message.NewPrinter(language.English)

// String renders a human amount with digit grouping, e.g. "USD 1,250.00".
func (m Money) String() string {
	return printer.Sprintf("%s %.2f", m.currency, float64(m.cents)/100)
}

// ParseDecimal reads a provider amount such as "49.00" into cents.
func ParseDecimal(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	whole, frac, _ := strings.Cut(s, ".")
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two decimals", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	var w, f int64
	if _, err := fmt.Sscanf(whole+" "+frac, "%d %d", &w, &f); err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents := w*100 + f
	if neg {
		cents = -cents
	}
	return cents, nil
}
