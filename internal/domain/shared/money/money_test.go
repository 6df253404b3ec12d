package money

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeCurrency(t *testing.T) {
	assert.Equal(t, "USD", NormalizeCurrency(""))
	assert.Equal(t, "EUR", NormalizeCurrency(" eur "))
	assert.Equal(t, "USD", NormalizeCurrency("not-a-code"))
}

func TestDecimal(t *testing.T) {
	assert.Equal(t, "49.00", New(4900, "USD").Decimal())
	assert.Equal(t, "0.05", New(5, "USD").Decimal())
	assert.Equal(t, "-1.50", New(-150, "USD").Decimal())
}

func TestParseDecimal(t *testing.T) {
	tests := []struct {
		in   string
		want int64
	}{
		{"49.00", 4900},
		{"49", 4900},
		{"49.5", 4950},
		{"0.07", 7},
		{"-2.10", -210},
	}
	for _, tt := range tests {
		got, err := ParseDecimal(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	for _, bad := range []string{"", "1.234", "abc", "1.x"} {
		_, err := ParseDecimal(bad)
		assert.Error(t, err, bad)
	}
}
