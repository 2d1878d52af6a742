package currencyutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1234", "1234"},
		{"-65,90", "-65.9"},
		{"1.234,56", "1234.56"},
		{"-1.234,56", "-1234.56"},
		{"1,234.56", "1234.56"},
		{"R$ 65,90", "65.9"},
		{"R$ -1.000,00", "-1000"},
		{"$1,000", "1000"},
		{"(42,00)", "-42"},
		{"42,00-", "-42"},
		{"1.234.567", "1234567"},
		{"1,234,567", "1234567"},
		{"0.5", "0.5"},
		{" 10,5 ", "10.5"},
		{"BRL 3,99", "3.99"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseAmount(tt.input)
			require.NoError(t, err)
			assert.True(t, decimal.RequireFromString(tt.expected).Equal(got), "got %s", got)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	_, err := ParseAmount("")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseAmount("   ")
	assert.ErrorIs(t, err, ErrEmptyAmount)

	_, err = ParseAmount("abc")
	assert.Error(t, err)
}

func TestFormatAmount(t *testing.T) {
	amount := decimal.RequireFromString("-65.9")
	assert.Equal(t, "-65.90", FormatAmount(amount, ""))
	assert.Equal(t, "R$ -65.90", FormatAmount(amount, "brl"))
	assert.Equal(t, "$-65.90", FormatAmount(amount, "USD"))
	assert.Equal(t, "€-65.90", FormatAmount(amount, "EUR"))
	assert.Equal(t, "CHF -65.90", FormatAmount(amount, "chf"))
}
