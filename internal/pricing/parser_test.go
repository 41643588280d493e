package pricing_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hotel_catalog/internal/pricing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		currency   string // "" means nil
		amountText string // "" means nil
		value      float64
		hasValue   bool
	}{
		{"us format", "$1,234.56", "$", "1,234.56", 1234.56, true},
		{"eu format", "€1.234,56", "€", "1.234,56", 1234.56, true},
		{"plain integer", "1234", "", "1234", 1234, true},
		{"code with space", "USD 120", "USD", "120", 120, true},
		{"nbsp between", "GEL\u00a0245", "GEL", "245", 245, true},
		{"comma decimal", "€12,5", "€", "12,5", 12.5, true},
		{"comma thousands", "₾1,250", "₾", "1,250", 1250, true},
		{"dot thousands", "€1.250", "€", "1.250", 1250, true},
		{"several thousands groups", "$1,234,567", "$", "1,234,567", 1234567, true},
		{"eu with groups", "€1.234.567,89", "€", "1.234.567,89", 1234567.89, true},
		{"no digits", "Sold out", "", "Sold out", 0, false},
		{"separator only", "abc.", "abc", ".", 0, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := pricing.Parse(tc.input)

			if tc.currency == "" {
				assert.Nil(t, got.Currency)
			} else {
				require.NotNil(t, got.Currency)
				assert.Equal(t, tc.currency, *got.Currency)
			}
			if tc.amountText != "" {
				require.NotNil(t, got.AmountText)
				assert.Equal(t, tc.amountText, *got.AmountText)
			}
			if tc.hasValue {
				require.NotNil(t, got.AmountValue)
				assert.InDelta(t, tc.value, *got.AmountValue, 1e-9)
			} else {
				assert.Nil(t, got.AmountValue)
			}
		})
	}
}

func TestParse_LeadingLabelFindsFirstAmount(t *testing.T) {
	got := pricing.Parse("Price: $99")
	require.NotNil(t, got.Currency)
	assert.Equal(t, "$", *got.Currency)
	require.NotNil(t, got.AmountValue)
	assert.Equal(t, 99.0, *got.AmountValue)
}

func TestParse_Empty(t *testing.T) {
	for _, in := range []string{"", "   ", "\u00a0"} {
		got := pricing.Parse(in)
		assert.Nil(t, got.Currency)
		assert.Nil(t, got.AmountText)
		assert.Nil(t, got.AmountValue)
	}

	got := pricing.ParseOptional(nil)
	assert.Nil(t, got.Currency)
	assert.Nil(t, got.AmountText)
	assert.Nil(t, got.AmountValue)
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want float64
		ok   bool
	}{
		{"1,234.56", 1234.56, true},
		{"1.234,56", 1234.56, true},
		{"1 234,5", 1234.5, true},
		{"12,345", 12345, true},
		{"12.345", 12345, true},
		{"12.3", 12.3, true},
		{"1234", 1234, true},
		{"", 0, false},
		{"..", 0, false},
		{"inf", 0, false},
	}
	for _, tc := range tests {
		got, ok := pricing.ParseAmount(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		if tc.ok {
			assert.InDelta(t, tc.want, got, 1e-9, tc.in)
		}
	}
}
