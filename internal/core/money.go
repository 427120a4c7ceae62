// Package core provides money parsing and handling utilities.
//
// This file contains the functions that turn user-typed amounts into
// decimals and render decimals for storage and display.
package core

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPlaces is the number of fractional digits kept for new amounts.
const AmountPlaces = 2

// ParseAmount converts a user-typed amount to a decimal.
//
// It accepts both dot (12.34) and comma (12,34) decimal separators and an
// optional leading plus sign. Negative values, empty input and anything
// that is not a finite number are rejected with ErrInvalidAmount.
// The result is rounded half-up to two decimal places.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12,34")  -> 12.34
//	ParseAmount("12.345") -> 12.35
//	ParseAmount("0")      -> 0
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	s = strings.ReplaceAll(s, ",", ".")
	s = strings.TrimPrefix(s, "+")
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return RoundAmount(d), nil
}

// RoundAmount rounds half-up to AmountPlaces.
func RoundAmount(d decimal.Decimal) decimal.Decimal {
	return d.Round(AmountPlaces)
}

// ParseStoredAmount parses the amount field of a persisted record.
// Unlike ParseAmount it keeps the stored precision and sign untouched.
func ParseStoredAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

// FormatAmount renders the canonical persisted form of an amount:
// two decimal places, unless the value carries more precision, in which
// case it is written exactly so that a reload yields the same value.
func FormatAmount(d decimal.Decimal) string {
	if d.Exponent() >= -AmountPlaces {
		return d.StringFixed(AmountPlaces)
	}
	return d.String()
}

// FormatDollars formats an amount for display (e.g., "$12.34").
func FormatDollars(d decimal.Decimal) string {
	if d.IsNegative() {
		return "-$" + d.Neg().StringFixed(AmountPlaces)
	}
	return "$" + d.StringFixed(AmountPlaces)
}
