// Package sheets defines the outbound port for mirroring the ledger to a
// spreadsheet. The Google implementation lives in the google subpackage.
package sheets

import (
	"context"

	"spese/internal/core"
)

// LedgerMirror replaces the remote copy of the ledger with expenses, in
// ledger order.
type LedgerMirror interface {
	Mirror(ctx context.Context, expenses []core.Expense) error
}
