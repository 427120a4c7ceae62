package storage

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"spese/internal/core"
	"spese/internal/fsutil"
)

// DefaultLedgerPath is the flat file used when no location is configured.
const DefaultLedgerPath = "expenses.txt"

// FileRepository stores the ledger as plain text, one record per line in
// the form amount|category|date.
type FileRepository struct {
	path string
}

func NewFileRepository(path string) *FileRepository {
	if path == "" {
		path = DefaultLedgerPath
	}
	return &FileRepository{path: path}
}

// Path returns the storage location.
func (r *FileRepository) Path() string {
	return r.path
}

// Load reads the ledger file. A missing file is an empty ledger; lines
// that are not well-formed records are skipped.
func (r *FileRepository) Load(_ context.Context) ([]core.Expense, error) {
	f, err := os.Open(r.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []core.Expense{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %w", core.ErrStorageUnavailable, r.path, err)
	}
	defer f.Close()

	items, err := DecodeLines(f)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", core.ErrStorageUnavailable, r.path, err)
	}
	return items, nil
}

// Save atomically replaces the ledger file.
func (r *FileRepository) Save(_ context.Context, expenses []core.Expense) error {
	if err := fsutil.WriteFileAtomic(r.path, EncodeLines(expenses), 0o644); err != nil {
		return fmt.Errorf("%w: %w", core.ErrStorageUnavailable, err)
	}
	return nil
}

// DecodeLines parses the flat-file format. Only read errors are returned;
// malformed lines of any length are skipped.
func DecodeLines(rd io.Reader) ([]core.Expense, error) {
	items := []core.Expense{}
	br := bufio.NewReader(rd)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			if e, ok := ParseLine(line); ok {
				items = append(items, e)
			}
		}
		if errors.Is(err, io.EOF) {
			return items, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// ParseLine decodes one persisted record. It reports false for a line
// that does not have exactly three fields or whose amount is not a number.
func ParseLine(line string) (core.Expense, bool) {
	fields := strings.Split(strings.TrimSpace(line), core.FieldSeparator)
	if len(fields) != 3 {
		return core.Expense{}, false
	}
	amount, err := core.ParseStoredAmount(fields[0])
	if err != nil {
		return core.Expense{}, false
	}
	return core.Expense{
		Amount:   amount,
		Category: fields[1],
		Date:     fields[2],
	}, true
}

// FormatLine encodes one record without the trailing newline.
func FormatLine(e core.Expense) string {
	return core.FormatAmount(e.Amount) + core.FieldSeparator + e.Category + core.FieldSeparator + e.Date
}

// EncodeLines renders the flat-file format, newline after every record.
func EncodeLines(expenses []core.Expense) []byte {
	var buf bytes.Buffer
	for _, e := range expenses {
		buf.WriteString(FormatLine(e))
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
