package cli

import (
	"context"
	"strings"
	"testing"

	"spese/internal/storage"
)

func TestMenu_Session(t *testing.T) {
	repo := sampleRepo()
	s, out := newSession(t, repo)

	input := strings.Join([]string{
		"1", "7.25", "Books", // add
		"1", "oops", // bad amount, no category prompt
		"6", "1", // delete first
		"6", "x", // bad number
		"6", "99", // out of range
		"3", // summary
		"9", // bad choice
		"7", // exit
		"2", // never reached
	}, "\n") + "\n"

	if err := NewMenu(s, strings.NewReader(input), out).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	got := out.String()
	for _, want := range []string{
		"=== Expense Tracker ===\n1. Add Expense\n",
		"7. Exit\nChoose: ",
		"Amount: Category: Added: $7.25 | Books | 2024-01-04\n",
		"Amount: Invalid amount.\n",
		"Delete which number? Deleted: $50.00 | Food\n",
		"Delete which number? Invalid number.\n",
		"Delete which number? Invalid index.\n",
		"Total Spent: $42.25\n",
		"  Books: $7.25\n",
		"Invalid choice.\n",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q\n--- output ---\n%s", want, got)
		}
	}
	if strings.Count(got, "=== Expense Tracker ===") != 8 {
		t.Errorf("menu shown %d times, want 8", strings.Count(got, "=== Expense Tracker ==="))
	}

	persisted, _ := repo.Load(context.Background())
	if len(persisted) != 3 || persisted[2].Category != "Books" {
		t.Errorf("persisted = %+v", persisted)
	}
}

func TestMenu_EndOfInputExits(t *testing.T) {
	s, out := newSession(t, storage.NewMemoryRepository())
	if err := NewMenu(s, strings.NewReader("2\n"), out).Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !strings.Contains(out.String(), "No expenses yet.") {
		t.Errorf("output = %q", out.String())
	}
}

func TestMenu_CancelledContext(t *testing.T) {
	s, out := newSession(t, storage.NewMemoryRepository())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := NewMenu(s, strings.NewReader("2\n"), out).Run(ctx); err == nil {
		t.Fatal("expected context error")
	}
}
