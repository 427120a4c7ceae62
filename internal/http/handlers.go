package http

import (
	"bytes"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"spese/internal/core"
	"spese/internal/ledger"
	"spese/internal/log"
)

// row is one ledger record as shown on the index page. Index is the
// record's position in the full ledger, also when the table is filtered.
type row struct {
	Index    int
	Amount   decimal.Decimal
	Category string
	Date     string
}

type indexPage struct {
	Rows     []row
	Count    int
	Total    decimal.Decimal
	Summary  core.Summary
	Query    string
	Filtered bool
	Shown    int
	ShownSum decimal.Decimal
}

func buildIndexPage(l ledger.Ledger, query string) indexPage {
	page := indexPage{
		Count:    len(l),
		Total:    l.Total(),
		Summary:  l.Summarize(),
		Query:    query,
		Filtered: query != "",
		ShownSum: decimal.Zero,
	}
	for i, e := range l {
		if !e.Matches(query) {
			continue
		}
		page.Rows = append(page.Rows, row{Index: i, Amount: e.Amount, Category: e.Category, Date: e.Date})
		page.ShownSum = page.ShownSum.Add(e.Amount)
	}
	page.Shown = len(page.Rows)
	return page
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	if s.templates == nil {
		logger.ErrorContext(ctx, "Templates not loaded", log.FieldPath, r.URL.Path)
		http.Error(w, "templates not loaded", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	l, err := s.store.Load(ctx)
	s.mu.Unlock()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load ledger", log.FieldError, err, log.FieldOperation, log.OpLoad)
		http.Error(w, "ledger unavailable", http.StatusServiceUnavailable)
		return
	}

	query := sanitizeInput(r.URL.Query().Get("q"))
	var buf bytes.Buffer
	if err := s.templates.ExecuteTemplate(&buf, "index.html", buildIndexPage(l, query)); err != nil {
		logger.ErrorContext(ctx, "Index template execution failed", log.FieldError, err, log.FieldOperation, log.OpRender)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// handleAdd records an expense from the amount and category form fields.
// Invalid input is logged and otherwise ignored; the client is always
// sent back to the index.
func (s *Server) handleAdd(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	defer http.Redirect(w, r, "/", http.StatusSeeOther)

	if err := r.ParseForm(); err != nil {
		logger.WarnContext(ctx, "Parse form error", log.FieldError, err)
		return
	}
	amountText := strings.TrimSpace(r.PostForm.Get("amount"))
	category := sanitizeInput(r.PostForm.Get("category"))
	if amountText == "" || category == "" {
		logger.InfoContext(ctx, "Ignoring add with missing fields")
		return
	}
	amount, err := core.ParseAmount(amountText)
	if err != nil {
		logger.InfoContext(ctx, "Ignoring add with invalid amount", log.FieldError, err, log.FieldAmount, amountText)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load ledger", log.FieldError, err, log.FieldOperation, log.OpLoad)
		return
	}
	if _, err := s.store.Add(ctx, &l, amount, category); err != nil {
		level := logger.WarnContext
		if !errors.Is(err, core.ErrInvalidInput) {
			level = logger.ErrorContext
		}
		level(ctx, "Add failed", log.FieldError, err, log.FieldOperation, log.OpAdd)
	}
}

// handleDelete removes the record at the 0-based path index. A malformed
// or out-of-range index is a no-op.
func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)
	defer http.Redirect(w, r, "/", http.StatusSeeOther)

	index, err := strconv.Atoi(r.PathValue("index"))
	if err != nil {
		logger.InfoContext(ctx, "Ignoring delete with invalid index", log.FieldError, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	l, err := s.store.Load(ctx)
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load ledger", log.FieldError, err, log.FieldOperation, log.OpLoad)
		return
	}
	if _, err := s.store.Delete(ctx, &l, index); err != nil {
		level := logger.WarnContext
		if !errors.Is(err, core.ErrIndexOutOfRange) {
			level = logger.ErrorContext
		}
		level(ctx, "Delete failed", log.FieldError, err, log.FieldOperation, log.OpDelete, log.FieldIndex, index)
	}
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := log.FromContext(ctx)

	s.mu.Lock()
	l, err := s.store.Load(ctx)
	s.mu.Unlock()
	if err != nil {
		logger.ErrorContext(ctx, "Failed to load ledger", log.FieldError, err, log.FieldOperation, log.OpExport)
		http.Error(w, "ledger unavailable", http.StatusServiceUnavailable)
		return
	}

	var buf bytes.Buffer
	if err := ledger.WriteCSV(&buf, l); err != nil {
		logger.ErrorContext(ctx, "CSV encoding failed", log.FieldError, err, log.FieldOperation, log.OpExport)
		http.Error(w, "export failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+ledger.DefaultExportPath+`"`)
	_, _ = buf.WriteTo(w)
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// handleReady reports ready once the ledger can be loaded.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	_, err := s.store.Load(r.Context())
	s.mu.Unlock()
	if err != nil {
		log.FromContext(r.Context()).WarnContext(r.Context(), "Readiness check failed", log.FieldError, err)
		http.Error(w, "ledger unavailable", http.StatusServiceUnavailable)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
