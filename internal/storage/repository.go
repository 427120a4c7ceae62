package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"spese/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteRepository stores the ledger in a SQLite table, one row per
// record, ordered by position.
type SQLiteRepository struct {
	db      *sql.DB
	version uint
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("%w: create db directory: %w", core.ErrStorageUnavailable, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database: %w", core.ErrStorageUnavailable, err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping database: %w", core.ErrStorageUnavailable, err)
	}

	version, err := migrateSchema(dbPath)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}

	return &SQLiteRepository{db: db, version: version}, nil
}

// SchemaVersion reports the migration version applied when the repository
// was opened.
func (r *SQLiteRepository) SchemaVersion() uint {
	return r.version
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

// Load implements ledger.Backend. Rows whose amount no longer parses are
// skipped, as malformed lines are in the flat file.
func (r *SQLiteRepository) Load(ctx context.Context) ([]core.Expense, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT amount, category, date FROM expenses ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: query expenses: %w", core.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	items := []core.Expense{}
	for rows.Next() {
		var amount, category, date string
		if err := rows.Scan(&amount, &category, &date); err != nil {
			return nil, fmt.Errorf("%w: scan expense: %w", core.ErrStorageUnavailable, err)
		}
		d, err := core.ParseStoredAmount(amount)
		if err != nil {
			slog.WarnContext(ctx, "Skipping expense row with invalid amount", "amount", amount, "category", category)
			continue
		}
		items = append(items, core.Expense{Amount: d, Category: category, Date: date})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate expenses: %w", core.ErrStorageUnavailable, err)
	}
	return items, nil
}

// Save implements ledger.Backend by replacing every row in one transaction.
func (r *SQLiteRepository) Save(ctx context.Context, expenses []core.Expense) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %w", core.ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM expenses`); err != nil {
		return fmt.Errorf("%w: clear expenses: %w", core.ErrStorageUnavailable, err)
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO expenses (position, amount, category, date) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("%w: prepare insert: %w", core.ErrStorageUnavailable, err)
	}
	defer stmt.Close()

	for i, e := range expenses {
		if _, err := stmt.ExecContext(ctx, i, core.FormatAmount(e.Amount), e.Category, e.Date); err != nil {
			return fmt.Errorf("%w: insert expense %d: %w", core.ErrStorageUnavailable, i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: commit: %w", core.ErrStorageUnavailable, err)
	}

	slog.DebugContext(ctx, "Ledger saved to SQLite", "count", len(expenses))
	return nil
}
