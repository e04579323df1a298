package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/commercekit/commerce-core-go/money"
)

func Test_MinorUnits(t *testing.T) {
	testCases := []struct {
		currency string
		expected int32
	}{
		{currency: "USD", expected: 2},
		{currency: "EUR", expected: 2},
		{currency: "JPY", expected: 0},
		{currency: "KWD", expected: 3},
		{currency: "XYZ", expected: 2}, // unknown codes fall back to 2
	}

	for _, tc := range testCases {
		t.Run(tc.currency, func(t *testing.T) {
			assert.Equal(t, tc.expected, money.MinorUnits(tc.currency))
		})
	}
}

func Test_DecimalPlaces_IgnoresTrailingZeros(t *testing.T) {
	assert.Equal(t, int32(0), money.DecimalPlaces(decimal.RequireFromString("10")))
	assert.Equal(t, int32(0), money.DecimalPlaces(decimal.RequireFromString("10.00")))
	assert.Equal(t, int32(1), money.DecimalPlaces(decimal.RequireFromString("10.10")))
	assert.Equal(t, int32(2), money.DecimalPlaces(decimal.RequireFromString("10.12")))
	assert.Equal(t, int32(5), money.DecimalPlaces(decimal.RequireFromString("10.12345")))
}

func Test_ValidatePrecision(t *testing.T) {
	// two decimal places are fine for USD
	err := money.ValidatePrecision(decimal.RequireFromString("10.12"), "USD")
	assert.NoError(t, err, "Two decimal places should be valid for USD")

	// five decimal places are not
	err = money.ValidatePrecision(decimal.RequireFromString("10.12345"), "USD")
	assert.ErrorIs(t, err, money.ErrTooManyDecimalPlaces, "Five decimal places should be invalid for USD")

	// zero-decimal currency rejects any fraction
	err = money.ValidatePrecision(decimal.RequireFromString("100.5"), "JPY")
	assert.ErrorIs(t, err, money.ErrTooManyDecimalPlaces, "Fractions should be invalid for JPY")

	// three decimal places are fine for BHD
	err = money.ValidatePrecision(decimal.RequireFromString("1.234"), "BHD")
	assert.NoError(t, err, "Three decimal places should be valid for BHD")
}
