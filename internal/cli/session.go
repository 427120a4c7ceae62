package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"spese/internal/core"
	"spese/internal/ledger"
)

// Session holds one ledger for the life of a CLI invocation and writes
// user-facing messages to out. Every mutation is saved before it returns.
// Methods print their own error message; the returned error is for exit
// codes only.
type Session struct {
	store      *ledger.Store
	ledger     ledger.Ledger
	out        io.Writer
	exportPath string
}

// NewSession loads the ledger from store.
func NewSession(ctx context.Context, store *ledger.Store, out io.Writer, exportPath string) (*Session, error) {
	l, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	if exportPath == "" {
		exportPath = ledger.DefaultExportPath
	}
	return &Session{store: store, ledger: l, out: out, exportPath: exportPath}, nil
}

// Ledger returns the session's current ledger.
func (s *Session) Ledger() ledger.Ledger { return s.ledger }

func (s *Session) printf(format string, args ...any) {
	fmt.Fprintf(s.out, format, args...)
}

// ParseAmount validates typed amount text before a category is asked for.
func (s *Session) ParseAmount(text string) (core.Expense, error) {
	amount, err := core.ParseAmount(text)
	if err != nil {
		s.printf("Invalid amount.\n")
		return core.Expense{}, err
	}
	return core.Expense{Amount: amount}, nil
}

// Add records an expense dated today.
func (s *Session) Add(ctx context.Context, amountText, category string) error {
	partial, err := s.ParseAmount(amountText)
	if err != nil {
		return err
	}
	return s.addParsed(ctx, partial, category)
}

func (s *Session) addParsed(ctx context.Context, partial core.Expense, category string) error {
	e, err := s.store.Add(ctx, &s.ledger, partial.Amount, category)
	switch {
	case errors.Is(err, core.ErrEmptyCategory), errors.Is(err, core.ErrInvalidCategory):
		s.printf("Invalid category.\n")
		return err
	case errors.Is(err, core.ErrInvalidInput):
		s.printf("Invalid amount.\n")
		return err
	case err != nil:
		s.printf("Error: %v\n", err)
		return err
	}
	s.printf("Added: %s | %s | %s\n", core.FormatDollars(e.Amount), e.Category, e.Date)
	return nil
}

// List prints every record with its 1-based position.
func (s *Session) List() {
	if len(s.ledger) == 0 {
		s.printf("No expenses yet.\n")
		return
	}
	s.printf("\n--- All Expenses ---\n")
	writeRows(s.out, s.ledger)
}

// Summary prints the grand total and per-category totals.
func (s *Session) Summary() {
	if len(s.ledger) == 0 {
		s.printf("No expenses to summarize.\n")
		return
	}
	sum := s.ledger.Summarize()
	s.printf("\nTotal Spent: %s\n", core.FormatDollars(sum.Total))
	s.printf("By Category:\n")
	for _, c := range sum.ByCategory {
		s.printf("  %s: %s\n", c.Name, core.FormatDollars(c.Amount))
	}
}

// Search prints the records matching keyword, numbered from 1.
func (s *Session) Search(keyword string) {
	found := s.ledger.Search(keyword)
	if len(found) == 0 {
		s.printf("No matches.\n")
		return
	}
	writeRows(s.out, found)
}

// Export writes the ledger as CSV to path, or to the session default.
func (s *Session) Export(path string) error {
	if path == "" {
		path = s.exportPath
	}
	if err := ledger.ExportCSV(s.ledger, path); err != nil {
		s.printf("Error: %v\n", err)
		return err
	}
	s.printf("Exported to %s\n", path)
	return nil
}

// Delete removes the record at the 1-based position typed by the user.
func (s *Session) Delete(ctx context.Context, positionText string) error {
	pos, err := strconv.Atoi(strings.TrimSpace(positionText))
	if err != nil {
		s.printf("Invalid number.\n")
		return core.ErrInvalidPosition
	}
	removed, err := s.store.Delete(ctx, &s.ledger, pos-1)
	switch {
	case errors.Is(err, core.ErrIndexOutOfRange):
		s.printf("Invalid index.\n")
		return err
	case err != nil:
		s.printf("Error: %v\n", err)
		return err
	}
	s.printf("Deleted: %s | %s\n", core.FormatDollars(removed.Amount), removed.Category)
	return nil
}

func writeRows(w io.Writer, l ledger.Ledger) {
	for i, e := range l {
		fmt.Fprintf(w, "%d. %s - %s (%s)\n", i+1, core.FormatDollars(e.Amount), e.Category, e.Date)
	}
}
