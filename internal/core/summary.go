package core

import "github.com/shopspring/decimal"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount decimal.Decimal
}

// Summary is the grand total of a ledger plus per-category sums,
// categories in first-encounter order.
type Summary struct {
	Total      decimal.Decimal
	ByCategory []CategoryAmount
}

// Category returns the sum recorded for name.
func (s Summary) Category(name string) (decimal.Decimal, bool) {
	for _, c := range s.ByCategory {
		if c.Name == name {
			return c.Amount, true
		}
	}
	return decimal.Zero, false
}
