package money

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownCurrency is returned when a currency code has no configured minor unit.
	ErrUnknownCurrency = errors.New("unknown currency code")

	// ErrTooManyDecimalPlaces is returned when an amount is finer than the currency's minor unit allows.
	ErrTooManyDecimalPlaces = errors.New("amount has more decimal places than the currency allows")
)

// CurrencyCodeString represents an ISO 4217 currency code.
type CurrencyCodeString = string

// minorUnits maps currency codes to the number of decimal places of their minor unit.
// Codes not listed here fall back to defaultMinorUnits.
var minorUnits = map[CurrencyCodeString]int32{
	"BHD": 3,
	"CLP": 0,
	"EUR": 2,
	"GBP": 2,
	"ISK": 0,
	"JPY": 0,
	"KRW": 0,
	"KWD": 3,
	"OMR": 3,
	"PLN": 2,
	"TND": 3,
	"USD": 2,
	"VND": 0,
}

const defaultMinorUnits = int32(2)

// MinorUnits returns the number of decimal places of the minor unit for the given currency code.
func MinorUnits(currency CurrencyCodeString) int32 {
	if places, ok := minorUnits[currency]; ok {
		return places
	}

	return defaultMinorUnits
}

// DecimalPlaces returns the number of fractional digits the amount actually carries.
// Trailing zeros are not counted: 10.10 has one decimal place, 10.00 has none.
func DecimalPlaces(amount decimal.Decimal) int32 {
	exponent := amount.Exponent()
	if exponent >= 0 {
		return 0
	}

	// Strip trailing zeros so that "10.100" counts as one decimal place.
	trimmed := amount
	for trimmed.Exponent() < 0 && trimmed.Equal(trimmed.Truncate(-trimmed.Exponent()-1)) {
		trimmed = trimmed.Truncate(-trimmed.Exponent() - 1)
	}

	if trimmed.Exponent() >= 0 {
		return 0
	}

	return -trimmed.Exponent()
}

// ValidatePrecision checks that the amount is not finer than the currency's minor unit.
func ValidatePrecision(amount decimal.Decimal, currency CurrencyCodeString) error {
	if DecimalPlaces(amount) > MinorUnits(currency) {
		return ErrTooManyDecimalPlaces
	}

	return nil
}
