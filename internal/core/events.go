package core

import "time"

// LedgerEventType names a ledger mutation.
type LedgerEventType string

const (
	EventExpenseAdded   LedgerEventType = "expense.added"
	EventExpenseDeleted LedgerEventType = "expense.deleted"
)

// LedgerEvent describes a mutation that has already been persisted.
type LedgerEvent struct {
	Type       LedgerEventType
	Index      int // 0-based position of the record before deletion / after append
	Expense    Expense
	LedgerSize int // number of records after the mutation
	At         time.Time
}
