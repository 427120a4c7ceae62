// Package ledger implements the expense store: an ordered list of expense
// records that is loaded from a backend, mutated in memory and written
// back before control returns to the caller.
package ledger

import (
	"github.com/shopspring/decimal"

	"spese/internal/core"
)

// Ledger is an ordered sequence of expenses. Position is meaningful: it is
// the display order and the 0-based index used for deletion.
type Ledger []core.Expense

// Total returns the sum of all amounts; zero for an empty ledger.
func (l Ledger) Total() decimal.Decimal {
	total := decimal.Zero
	for _, e := range l {
		total = total.Add(e.Amount)
	}
	return total
}

// Summarize returns the grand total and per-category sums. Categories
// appear in the order they are first encountered.
func (l Ledger) Summarize() core.Summary {
	sum := core.Summary{Total: decimal.Zero}
	pos := make(map[string]int)
	for _, e := range l {
		sum.Total = sum.Total.Add(e.Amount)
		i, ok := pos[e.Category]
		if !ok {
			pos[e.Category] = len(sum.ByCategory)
			sum.ByCategory = append(sum.ByCategory, core.CategoryAmount{Name: e.Category, Amount: e.Amount})
			continue
		}
		sum.ByCategory[i].Amount = sum.ByCategory[i].Amount.Add(e.Amount)
	}
	return sum
}

// Search returns, in ledger order, the records whose category contains
// keyword case-insensitively or whose date contains keyword verbatim.
// An empty keyword matches everything.
func (l Ledger) Search(keyword string) Ledger {
	out := make(Ledger, 0, len(l))
	for _, e := range l {
		if e.Matches(keyword) {
			out = append(out, e)
		}
	}
	return out
}

// Clone returns an independent copy.
func (l Ledger) Clone() Ledger {
	if l == nil {
		return nil
	}
	out := make(Ledger, len(l))
	copy(out, l)
	return out
}
