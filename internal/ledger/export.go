package ledger

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"

	"spese/internal/core"
	"spese/internal/fsutil"
)

// DefaultExportPath is where ExportCSV writes when the caller has no preference.
const DefaultExportPath = "expenses.csv"

// CSVHeader is the header row of an exported ledger.
var CSVHeader = []string{"amount", "category", "date"}

// WriteCSV encodes l as CSV with a header row. Fields containing commas,
// quotes or newlines are quoted by encoding/csv.
func WriteCSV(w io.Writer, l Ledger) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for i, e := range l {
		if err := cw.Write([]string{core.FormatAmount(e.Amount), e.Category, e.Date}); err != nil {
			return fmt.Errorf("write csv row %d: %w", i, err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ExportCSV writes l to path, replacing any existing file atomically.
func ExportCSV(l Ledger, path string) error {
	if path == "" {
		path = DefaultExportPath
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, l); err != nil {
		return err
	}
	if err := fsutil.WriteFileAtomic(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("%w: export %s: %w", core.ErrStorageUnavailable, path, err)
	}
	return nil
}
