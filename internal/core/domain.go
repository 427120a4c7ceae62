package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical textual form of an expense date.
const DateLayout = "2006-01-02"

// Expense is a single ledger record.
type Expense struct {
	Amount   decimal.Decimal
	Category string
	Date     string // YYYY-MM-DD
}

var (
	// ErrInvalidInput is returned for any caller-supplied value the ledger rejects.
	ErrInvalidInput = errors.New("invalid input")
	// ErrIndexOutOfRange is returned when a delete position is outside the ledger.
	ErrIndexOutOfRange = errors.New("index out of range")
	// ErrStorageUnavailable wraps I/O failures of a ledger backend.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrInvalidAmount   = fmt.Errorf("%w: invalid amount", ErrInvalidInput)
	ErrEmptyCategory   = fmt.Errorf("%w: empty category", ErrInvalidInput)
	ErrInvalidCategory = fmt.Errorf("%w: category contains a reserved character", ErrInvalidInput)
	ErrInvalidDate     = fmt.Errorf("%w: invalid date", ErrInvalidInput)
	ErrInvalidPosition = fmt.Errorf("%w: invalid position", ErrInvalidInput)
)

// FieldSeparator delimits the fields of a persisted ledger line.
const FieldSeparator = "|"

// Today returns the local calendar date of t in DateLayout form.
func Today(t time.Time) string {
	return t.Local().Format(DateLayout)
}

// ValidateCategory trims the category and checks it can be persisted.
func ValidateCategory(category string) (string, error) {
	c := strings.TrimSpace(category)
	if c == "" {
		return "", ErrEmptyCategory
	}
	if strings.ContainsAny(c, FieldSeparator+"\r\n") {
		return "", ErrInvalidCategory
	}
	return c, nil
}

// Validate reports whether the expense can be stored as a new record.
// Records loaded from storage are not validated.
func (e Expense) Validate() error {
	if e.Amount.IsNegative() {
		return ErrInvalidAmount
	}
	if _, err := ValidateCategory(e.Category); err != nil {
		return err
	}
	if _, err := time.Parse(DateLayout, e.Date); err != nil {
		return ErrInvalidDate
	}
	return nil
}

// Matches reports whether the expense is selected by a search keyword:
// the category contains it case-insensitively, or the date contains it verbatim.
func (e Expense) Matches(keyword string) bool {
	if keyword == "" {
		return true
	}
	if strings.Contains(strings.ToLower(e.Category), strings.ToLower(keyword)) {
		return true
	}
	return strings.Contains(e.Date, keyword)
}

// Equal compares two expenses by value.
func (e Expense) Equal(o Expense) bool {
	return e.Amount.Equal(o.Amount) && e.Category == o.Category && e.Date == o.Date
}
