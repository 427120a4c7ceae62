package storage

import (
	"context"
	"sync"

	"spese/internal/core"
)

// MemoryRepository keeps the ledger in process memory.
type MemoryRepository struct {
	mu    sync.Mutex
	items []core.Expense
	saves int
}

func NewMemoryRepository(seed ...core.Expense) *MemoryRepository {
	return &MemoryRepository{items: append([]core.Expense(nil), seed...)}
}

func (r *MemoryRepository) Load(_ context.Context) ([]core.Expense, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.Expense{}, r.items...), nil
}

func (r *MemoryRepository) Save(_ context.Context, expenses []core.Expense) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.items = append([]core.Expense{}, expenses...)
	r.saves++
	return nil
}

// Saves reports how many times Save has been called.
func (r *MemoryRepository) Saves() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saves
}
