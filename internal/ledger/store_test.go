package ledger

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"spese/internal/core"
	"spese/internal/storage"
)

var fixedNow = func() time.Time { return time.Date(2024, 1, 4, 10, 30, 0, 0, time.Local) }

func exp(amount, category, date string) core.Expense {
	return core.Expense{Amount: decimal.RequireFromString(amount), Category: category, Date: date}
}

func sample() Ledger {
	return Ledger{
		exp("50", "Food", "2024-01-01"),
		exp("20", "Food", "2024-01-02"),
		exp("15", "Transport", "2024-01-03"),
	}
}

func assertLedger(t *testing.T, got, want Ledger) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d: %+v", len(got), len(want), got)
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("record %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

type failingBackend struct {
	items []core.Expense
}

func (f *failingBackend) Load(context.Context) ([]core.Expense, error) { return f.items, nil }
func (f *failingBackend) Save(context.Context, []core.Expense) error {
	return core.ErrStorageUnavailable
}

type recordingPublisher struct {
	events []core.LedgerEvent
	err    error
}

func (p *recordingPublisher) PublishLedgerEvent(_ context.Context, ev core.LedgerEvent) error {
	p.events = append(p.events, ev)
	return p.err
}

func TestAddAppendsTodayAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	store := NewStore(storage.NewFileRepository(path), WithClock(fixedNow))
	ctx := context.Background()

	l, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if _, err := store.Add(ctx, &l, decimal.RequireFromString("50"), "Food"); err != nil {
		t.Fatalf("add: %v", err)
	}
	e, err := store.Add(ctx, &l, decimal.RequireFromString("12.345"), "  Coffee  ")
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	if e.Date != "2024-01-04" || e.Category != "Coffee" || e.Amount.String() != "12.35" {
		t.Fatalf("unexpected record %+v", e)
	}

	reloaded, err := store.Load(ctx)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	assertLedger(t, reloaded, Ledger{exp("50", "Food", "2024-01-04"), exp("12.35", "Coffee", "2024-01-04")})
	assertLedger(t, l, reloaded)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	repo := storage.NewMemoryRepository()
	store := NewStore(repo, WithClock(fixedNow))
	ctx := context.Background()
	l := sample()

	cases := []struct {
		amount   string
		category string
	}{
		{"-1", "Food"},
		{"-0.004", "Food"},
		{"5", ""},
		{"5", "   "},
		{"5", "a|b"},
	}
	for _, tc := range cases {
		_, err := store.Add(ctx, &l, decimal.RequireFromString(tc.amount), tc.category)
		if !errors.Is(err, core.ErrInvalidInput) {
			t.Fatalf("Add(%s, %q) err = %v, want ErrInvalidInput", tc.amount, tc.category, err)
		}
	}
	assertLedger(t, l, sample())
	if repo.Saves() != 0 {
		t.Fatalf("invalid input must not write, saves=%d", repo.Saves())
	}
}

func TestAddZeroAmountAllowed(t *testing.T) {
	store := NewStore(storage.NewMemoryRepository(), WithClock(fixedNow))
	var l Ledger
	if _, err := store.Add(context.Background(), &l, decimal.Zero, "Free sample"); err != nil {
		t.Fatalf("zero amount should be accepted: %v", err)
	}
	if len(l) != 1 {
		t.Fatalf("ledger len = %d", len(l))
	}
}

func TestDeleteRemovesAndPersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "expenses.txt")
	repo := storage.NewFileRepository(path)
	store := NewStore(repo)
	ctx := context.Background()
	l := sample()
	if err := store.Save(ctx, l); err != nil {
		t.Fatalf("save: %v", err)
	}

	removed, err := store.Delete(ctx, &l, 1)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !removed.Equal(exp("20", "Food", "2024-01-02")) {
		t.Fatalf("removed %+v", removed)
	}
	want := Ledger{exp("50", "Food", "2024-01-01"), exp("15", "Transport", "2024-01-03")}
	assertLedger(t, l, want)

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if string(raw) != "50.00|Food|2024-01-01\n15.00|Transport|2024-01-03\n" {
		t.Fatalf("persisted %q", raw)
	}
}

func TestDeleteOutOfRange(t *testing.T) {
	repo := storage.NewMemoryRepository()
	store := NewStore(repo)
	ctx := context.Background()
	l := sample()

	for _, idx := range []int{-1, 3, 100} {
		_, err := store.Delete(ctx, &l, idx)
		if !errors.Is(err, core.ErrIndexOutOfRange) {
			t.Fatalf("Delete(%d) err = %v, want ErrIndexOutOfRange", idx, err)
		}
	}
	assertLedger(t, l, sample())
	if repo.Saves() != 0 {
		t.Fatalf("out of range delete must not write")
	}

	var empty Ledger
	if _, err := store.Delete(ctx, &empty, 0); !errors.Is(err, core.ErrIndexOutOfRange) {
		t.Fatalf("delete on empty ledger: %v", err)
	}
}

func TestStorageFailureLeavesLedgerUntouched(t *testing.T) {
	store := NewStore(&failingBackend{}, WithClock(fixedNow))
	ctx := context.Background()
	l := sample()

	if _, err := store.Add(ctx, &l, decimal.NewFromInt(1), "Food"); !errors.Is(err, core.ErrStorageUnavailable) {
		t.Fatalf("add err = %v", err)
	}
	if _, err := store.Delete(ctx, &l, 0); !errors.Is(err, core.ErrStorageUnavailable) {
		t.Fatalf("delete err = %v", err)
	}
	assertLedger(t, l, sample())
}

func TestMutationsPublishEvents(t *testing.T) {
	pub := &recordingPublisher{err: errors.New("broker down")}
	store := NewStore(storage.NewMemoryRepository(), WithClock(fixedNow), WithPublisher(pub))
	ctx := context.Background()
	l := sample()

	// Publish errors are not surfaced
	if _, err := store.Add(ctx, &l, decimal.NewFromInt(7), "Books"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := store.Delete(ctx, &l, 0); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	if len(pub.events) != 2 {
		t.Fatalf("events = %+v", pub.events)
	}
	added, deleted := pub.events[0], pub.events[1]
	if added.Type != core.EventExpenseAdded || added.Index != 3 || added.LedgerSize != 4 {
		t.Fatalf("added event %+v", added)
	}
	if deleted.Type != core.EventExpenseDeleted || deleted.Index != 0 || deleted.LedgerSize != 3 {
		t.Fatalf("deleted event %+v", deleted)
	}
	if !deleted.Expense.Equal(exp("50", "Food", "2024-01-01")) {
		t.Fatalf("deleted expense %+v", deleted.Expense)
	}
}

type blockingPublisher struct {
	started chan core.LedgerEvent
	release chan struct{}
	ctxErr  error
}

func (p *blockingPublisher) PublishLedgerEvent(ctx context.Context, ev core.LedgerEvent) error {
	p.started <- ev
	<-p.release
	p.ctxErr = ctx.Err()
	return nil
}

func TestSlowPublisherDoesNotDelayMutations(t *testing.T) {
	pub := &blockingPublisher{started: make(chan core.LedgerEvent, 4), release: make(chan struct{})}
	repo := storage.NewMemoryRepository()
	store := NewStore(repo, WithClock(fixedNow), WithPublisher(pub))
	ctx, cancel := context.WithCancel(context.Background())
	var l Ledger

	if _, err := store.Add(ctx, &l, decimal.NewFromInt(1), "Food"); err != nil {
		t.Fatalf("add: %v", err)
	}
	// the publisher is now stuck on the first event
	<-pub.started
	if _, err := store.Add(ctx, &l, decimal.NewFromInt(2), "Books"); err != nil {
		t.Fatalf("add while publisher blocked: %v", err)
	}
	if repo.Saves() != 2 || len(l) != 2 {
		t.Fatalf("saves=%d len=%d", repo.Saves(), len(l))
	}

	// a finished request must not cancel its queued event
	cancel()
	close(pub.release)
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	second := <-pub.started
	if second.Type != core.EventExpenseAdded || second.Index != 1 || second.Expense.Category != "Books" {
		t.Fatalf("second event %+v", second)
	}
	if pub.ctxErr != nil {
		t.Fatalf("queued event saw cancelled context: %v", pub.ctxErr)
	}
}

func TestCloseStopsPublishing(t *testing.T) {
	pub := &recordingPublisher{}
	store := NewStore(storage.NewMemoryRepository(), WithClock(fixedNow), WithPublisher(pub))
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	var l Ledger
	if _, err := store.Add(context.Background(), &l, decimal.NewFromInt(3), "Food"); err != nil {
		t.Fatalf("add after close: %v", err)
	}
	if len(l) != 1 || len(pub.events) != 0 {
		t.Fatalf("len=%d events=%+v", len(l), pub.events)
	}

	if err := NewStore(storage.NewMemoryRepository()).Close(); err != nil {
		t.Fatalf("close without publisher: %v", err)
	}
}
