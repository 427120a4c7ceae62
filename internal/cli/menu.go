package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
)

const menuText = `
=== Expense Tracker ===
1. Add Expense
2. View Expenses
3. Summary
4. Search
5. Export CSV
6. Delete
7. Exit
`

// Menu is the interactive loop over a Session. Errors from an action are
// printed by the session and the loop carries on.
type Menu struct {
	session *Session
	in      *bufio.Scanner
	out     io.Writer
}

func NewMenu(session *Session, in io.Reader, out io.Writer) *Menu {
	return &Menu{session: session, in: bufio.NewScanner(in), out: out}
}

// prompt writes p and reads one line. ok is false at end of input.
func (m *Menu) prompt(p string) (line string, ok bool) {
	fmt.Fprint(m.out, p)
	if !m.in.Scan() {
		return "", false
	}
	return strings.TrimRight(m.in.Text(), "\r"), true
}

// Run shows the menu until the user exits, input ends, or ctx is done.
func (m *Menu) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(m.out, menuText)
		choice, ok := m.prompt("Choose: ")
		if !ok {
			fmt.Fprintln(m.out)
			return m.in.Err()
		}

		switch strings.TrimSpace(choice) {
		case "1":
			amount, ok := m.prompt("Amount: ")
			if !ok {
				return m.in.Err()
			}
			partial, err := m.session.ParseAmount(amount)
			if err != nil {
				continue
			}
			category, ok := m.prompt("Category: ")
			if !ok {
				return m.in.Err()
			}
			_ = m.session.addParsed(ctx, partial, category)
		case "2":
			m.session.List()
		case "3":
			m.session.Summary()
		case "4":
			keyword, ok := m.prompt("Search by category or date (YYYY-MM-DD): ")
			if !ok {
				return m.in.Err()
			}
			m.session.Search(keyword)
		case "5":
			_ = m.session.Export("")
		case "6":
			m.session.List()
			pos, ok := m.prompt("Delete which number? ")
			if !ok {
				return m.in.Err()
			}
			_ = m.session.Delete(ctx, pos)
		case "7":
			return nil
		default:
			fmt.Fprintln(m.out, "Invalid choice.")
		}
	}
}
