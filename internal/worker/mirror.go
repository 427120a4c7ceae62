// Package worker keeps external copies of the ledger up to date. It reacts
// to ledger events from AMQP and also resyncs on a fixed interval in case
// an event was lost.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"spese/internal/amqp"
	"spese/internal/ledger"
	"spese/internal/log"
	"spese/internal/sheets"
)

// MirrorWorker copies the persisted ledger to a spreadsheet and a CSV file.
// Either target may be disabled.
type MirrorWorker struct {
	store      *ledger.Store
	mirror     sheets.LedgerMirror
	exportPath string
	logger     *log.Logger

	mu       sync.Mutex
	lastSize int
	syncs    int
}

func NewMirrorWorker(store *ledger.Store, mirror sheets.LedgerMirror, exportPath string, logger *log.Logger) *MirrorWorker {
	if logger == nil {
		logger = log.Discard()
	}
	return &MirrorWorker{
		store:      store,
		mirror:     mirror,
		exportPath: exportPath,
		logger:     logger.WithComponent(log.ComponentWorker),
		lastSize:   -1,
	}
}

// Sync reloads the ledger and pushes it to every enabled target. Calls are
// serialized so a tick and an event never write the targets concurrently.
func (w *MirrorWorker) Sync(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	l, err := w.store.Load(ctx)
	if err != nil {
		return err
	}

	if w.mirror != nil {
		if err := w.mirror.Mirror(ctx, l); err != nil {
			return fmt.Errorf("mirror ledger: %w", err)
		}
	}
	if w.exportPath != "" {
		if err := ledger.ExportCSV(l, w.exportPath); err != nil {
			return err
		}
	}

	w.lastSize = len(l)
	w.syncs++
	w.logger.DebugContext(ctx, "Ledger synced",
		log.FieldOperation, log.OpMirror,
		log.FieldLedgerSize, len(l))
	return nil
}

// HandleLedgerEvent is the AMQP handler. The message only signals that the
// ledger changed; the ledger itself is always reloaded from storage.
func (w *MirrorWorker) HandleLedgerEvent(ctx context.Context, msg *amqp.LedgerEventMessage) error {
	w.logger.InfoContext(ctx, "Processing ledger event",
		"event", msg.Type,
		log.FieldIndex, msg.Index,
		log.FieldLedgerSize, msg.LedgerSize)
	return w.Sync(ctx)
}

// Run syncs once, then every interval until ctx is done. Sync failures are
// logged and retried on the next tick.
func (w *MirrorWorker) Run(ctx context.Context, interval time.Duration) error {
	if err := w.Sync(ctx); err != nil {
		w.logger.ErrorContext(ctx, "Startup sync failed", log.FieldError, err)
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if err := w.Sync(ctx); err != nil {
				w.logger.ErrorContext(ctx, "Periodic sync failed", log.FieldError, err)
			}
		}
	}
}

// Stats returns the ledger size at the last successful sync (-1 before the
// first one) and the number of successful syncs.
func (w *MirrorWorker) Stats() (lastSize, syncs int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.lastSize, w.syncs
}
