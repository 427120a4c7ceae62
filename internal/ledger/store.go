package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"spese/internal/core"
	"spese/internal/log"
)

// Backend persists a whole ledger. Load on a backend that holds nothing
// yet returns an empty slice and no error.
type Backend interface {
	Load(ctx context.Context) ([]core.Expense, error)
	Save(ctx context.Context, expenses []core.Expense) error
}

// Publisher receives an event after every persisted mutation.
type Publisher interface {
	PublishLedgerEvent(ctx context.Context, ev core.LedgerEvent) error
}

// eventQueueSize bounds the events waiting for the publisher. When the
// queue is full further events are dropped and logged.
const eventQueueSize = 64

// Store runs the ledger operations against a backend. It holds no ledger
// of its own and does no locking of the ledger: callers that share a
// backend between goroutines serialize whole load-mutate-save cycles
// themselves.
//
// Events are handed to the publisher in order by a background goroutine,
// so a slow broker never delays a mutation. Close flushes the queue.
type Store struct {
	backend   Backend
	publisher Publisher
	now       func() time.Time
	logger    *log.Logger

	mu        sync.Mutex
	closed    bool
	events    chan queuedEvent
	done      chan struct{}
	closeOnce sync.Once
}

type queuedEvent struct {
	ctx context.Context
	ev  core.LedgerEvent
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used to date new records.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithPublisher attaches a ledger event publisher.
func WithPublisher(p Publisher) Option {
	return func(s *Store) { s.publisher = p }
}

// WithLogger sets the logger used for publish failures and mutations.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) { s.logger = l.WithComponent(log.ComponentLedger) }
}

func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		now:     time.Now,
		logger:  log.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.publisher != nil {
		s.events = make(chan queuedEvent, eventQueueSize)
		s.done = make(chan struct{})
		go s.dispatch()
	}
	return s
}

// Close waits for queued events to reach the publisher. Mutations after
// Close still persist but publish nothing.
func (s *Store) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		if s.events != nil {
			close(s.events)
		}
		s.mu.Unlock()
		if s.done != nil {
			<-s.done
		}
	})
	return nil
}

// Load reads the persisted ledger.
func (s *Store) Load(ctx context.Context) (Ledger, error) {
	items, err := s.backend.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}
	return Ledger(items), nil
}

// Save replaces the persisted ledger with l.
func (s *Store) Save(ctx context.Context, l Ledger) error {
	if err := s.backend.Save(ctx, []core.Expense(l)); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}
	return nil
}

// Add appends a record dated today, persists the ledger and returns the
// new record. The amount is rounded to cents and the category trimmed.
// On any error *l is left as it was.
func (s *Store) Add(ctx context.Context, l *Ledger, amount decimal.Decimal, category string) (core.Expense, error) {
	if amount.IsNegative() {
		return core.Expense{}, core.ErrInvalidAmount
	}
	cat, err := core.ValidateCategory(category)
	if err != nil {
		return core.Expense{}, err
	}
	e := core.Expense{
		Amount:   core.RoundAmount(amount),
		Category: cat,
		Date:     core.Today(s.now()),
	}
	if err := e.Validate(); err != nil {
		return core.Expense{}, err
	}

	next := append(l.Clone(), e)
	if err := s.Save(ctx, next); err != nil {
		return core.Expense{}, err
	}
	*l = next

	s.logger.InfoContext(ctx, "Expense added",
		log.NewFields().
			WithExpense(core.FormatAmount(e.Amount), e.Category, e.Date).
			WithIndex(len(next)-1).
			WithOperation(log.OpAdd).
			ToSlice()...)
	s.publish(ctx, core.EventExpenseAdded, len(next)-1, e, len(next))
	return e, nil
}

// Delete removes the record at the 0-based index, persists the ledger and
// returns the removed record. An index outside [0, len) yields
// core.ErrIndexOutOfRange. On any error *l is left as it was.
func (s *Store) Delete(ctx context.Context, l *Ledger, index int) (core.Expense, error) {
	cur := *l
	if index < 0 || index >= len(cur) {
		return core.Expense{}, fmt.Errorf("%w: %d not in [0, %d)", core.ErrIndexOutOfRange, index, len(cur))
	}
	removed := cur[index]

	next := make(Ledger, 0, len(cur)-1)
	next = append(next, cur[:index]...)
	next = append(next, cur[index+1:]...)
	if err := s.Save(ctx, next); err != nil {
		return core.Expense{}, err
	}
	*l = next

	s.logger.InfoContext(ctx, "Expense deleted",
		log.NewFields().
			WithExpense(core.FormatAmount(removed.Amount), removed.Category, removed.Date).
			WithIndex(index).
			WithOperation(log.OpDelete).
			ToSlice()...)
	s.publish(ctx, core.EventExpenseDeleted, index, removed, len(next))
	return removed, nil
}

// publish queues an event for the publisher. The mutation is already
// durable, so a full queue or a failed publish is only logged.
func (s *Store) publish(ctx context.Context, typ core.LedgerEventType, index int, e core.Expense, size int) {
	if s.publisher == nil {
		return
	}
	ev := core.LedgerEvent{
		Type:       typ,
		Index:      index,
		Expense:    e,
		LedgerSize: size,
		At:         s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		s.logger.WarnContext(ctx, "Store closed, ledger event not published", "event", string(typ))
		return
	}
	// the event outlives the request that caused it
	select {
	case s.events <- queuedEvent{ctx: context.WithoutCancel(ctx), ev: ev}:
	default:
		s.logger.WarnContext(ctx, "Event queue full, dropping ledger event",
			"event", string(typ),
			log.FieldIndex, index)
	}
}

func (s *Store) dispatch() {
	defer close(s.done)
	for q := range s.events {
		if err := s.publisher.PublishLedgerEvent(q.ctx, q.ev); err != nil {
			fields := log.NewFields().WithIndex(q.ev.Index)
			fields["event"] = string(q.ev.Type)
			log.NewStructuredLogger(s.logger).LogError(q.ctx, "Failed to publish ledger event", err, log.OpPublish, fields)
		}
	}
}
