package storage

import (
	"context"
	"path/filepath"
	"testing"

	"spese/internal/core"
)

func TestSQLiteRepositoryRoundTrip(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "data", "spese.db")
	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	defer repo.Close()
	ctx := context.Background()

	if v := repo.SchemaVersion(); v != 1 {
		t.Fatalf("schema version = %d, want 1", v)
	}

	empty, err := repo.Load(ctx)
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty ledger, got %v err=%v", empty, err)
	}

	want := []core.Expense{
		exp("50", "Food", "2024-01-01"),
		exp("20", "Food", "2024-01-02"),
		exp("15", "Transport", "2024-01-03"),
	}
	if err := repo.Save(ctx, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	equalExpenses(t, got, want)

	// Shrinking replaces every row
	if err := repo.Save(ctx, []core.Expense{want[0], want[2]}); err != nil {
		t.Fatalf("save shorter: %v", err)
	}
	got, err = repo.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	equalExpenses(t, got, []core.Expense{want[0], want[2]})
}

func TestSQLiteRepositoryReopenKeepsData(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "spese.db")
	ctx := context.Background()

	repo, err := NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := repo.Save(ctx, []core.Expense{exp("9.99", "Books", "2024-02-02")}); err != nil {
		t.Fatalf("save: %v", err)
	}
	repo.Close()

	// Migrations must be idempotent on reopen
	repo, err = NewSQLiteRepository(dbPath)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer repo.Close()
	got, err := repo.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	equalExpenses(t, got, []core.Expense{exp("9.99", "Books", "2024-02-02")})
}

func TestMemoryRepositoryCopies(t *testing.T) {
	repo := NewMemoryRepository(exp("1", "a", "2024-01-01"))
	ctx := context.Background()
	items, _ := repo.Load(ctx)
	items[0].Category = "mutated"
	again, _ := repo.Load(ctx)
	if again[0].Category != "a" {
		t.Fatalf("Load must return a copy")
	}
	if err := repo.Save(ctx, items); err != nil || repo.Saves() != 1 {
		t.Fatalf("save err=%v saves=%d", err, repo.Saves())
	}
}
