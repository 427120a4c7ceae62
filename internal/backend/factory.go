package backend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"spese/internal/amqp"
	"spese/internal/ledger"
	"spese/internal/log"
	"spese/internal/storage"
)

var _ Factory = (*DefaultFactory)(nil)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *log.Logger
	now    func() time.Time
}

func NewFactory(logger *log.Logger) *DefaultFactory {
	if logger == nil {
		logger = log.Discard()
	}
	return &DefaultFactory{
		logger: logger.WithComponent(log.ComponentBackend),
		now:    time.Now,
	}
}

// CreateBackend opens the configured storage and wraps it in a ledger.Store.
// An unreachable broker is logged and publishing is skipped; storage
// failures are returned.
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		be      ledger.Backend
		closers []func() error
	)
	switch config.Type {
	case FileBackend:
		be = storage.NewFileRepository(config.LedgerPath)
		f.logger.InfoContext(ctx, "Initialized file backend", log.FieldLocation, config.LedgerPath)
	case SQLiteBackend:
		repo, err := storage.NewSQLiteRepository(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
		be = repo
		closers = append(closers, repo.Close)
		f.logger.InfoContext(ctx, "Initialized SQLite backend",
			log.FieldLocation, config.SQLiteDBPath,
			"schema_version", repo.SchemaVersion())
	case MemoryBackend:
		be = storage.NewMemoryRepository()
		f.logger.InfoContext(ctx, "Initialized memory backend; data is lost on exit")
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}

	opts := []ledger.Option{ledger.WithLogger(f.logger), ledger.WithClock(f.now)}
	publishing := false
	if config.AMQPURL != "" {
		client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue, f.logger)
		if err != nil {
			f.logger.WarnContext(ctx, "Failed to initialize AMQP client, continuing without events", log.FieldError, err)
		} else {
			opts = append(opts, ledger.WithPublisher(client))
			closers = append(closers, client.Close)
			publishing = true
			f.logger.InfoContext(ctx, "Initialized AMQP publisher",
				"exchange", config.AMQPExchange,
				"queue", config.AMQPQueue)
		}
	}

	store := ledger.NewStore(be, opts...)
	// closers run in reverse: flush queued events before the AMQP client goes
	closers = append(closers, store.Close)

	return &BackendResult{
		Store:      store,
		Backend:    be,
		Publishing: publishing,
		Cleanup:    cleanupAll(closers),
	}, nil
}

func cleanupAll(closers []func() error) CleanupFunc {
	return func() error {
		var errs []error
		for i := len(closers) - 1; i >= 0; i-- {
			if err := closers[i](); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	}
}
