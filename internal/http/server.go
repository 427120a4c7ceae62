// Package http serves the expense ledger web UI.
package http

import (
	"context"
	"html/template"
	"io/fs"
	"net/http"
	"sync"
	"time"

	"spese/internal/ledger"
	"spese/internal/log"
	appweb "spese/web"
)

// Server embeds http.Server and owns the routes of the web UI. Every
// handler that touches the ledger holds mu for its whole load-mutate-save
// cycle, so concurrent requests cannot lose each other's updates.
type Server struct {
	http.Server
	templates   *template.Template
	store       *ledger.Store
	logger      *log.Logger
	rateLimiter *rateLimiter
	metrics     *securityMetrics

	mu           sync.Mutex
	shutdownOnce sync.Once
}

// NewServer configures routes and templates, returning a ready-to-run server.
func NewServer(addr string, store *ledger.Store, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Discard()
	}
	logger = logger.WithComponent(log.ComponentHTTP)

	mux := http.NewServeMux()
	s := &Server{
		Server: http.Server{
			Addr:              addr,
			ReadHeaderTimeout: 10 * time.Second,
		},
		store:       store,
		logger:      logger,
		rateLimiter: newRateLimiter(postLimitPerMinute),
		metrics:     &securityMetrics{},
	}

	t, err := template.New("").Funcs(templateFuncs).ParseFS(appweb.TemplatesFS, "templates/*.html")
	if err != nil {
		logger.Warn("Failed parsing templates", log.FieldError, err)
		t = nil
	}
	s.templates = t

	if sub, err := fs.Sub(appweb.StaticFS, "static"); err == nil {
		static := http.StripPrefix("/static/", http.FileServer(http.FS(sub)))
		mux.Handle("GET /static/", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cache-Control", "public, max-age=3600")
			static.ServeHTTP(w, r)
		}))
	} else {
		logger.Warn("Failed to mount embedded static FS", log.FieldError, err)
	}

	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /add", s.handleAdd)
	mux.HandleFunc("POST /delete/{index}", s.handleDelete)
	mux.HandleFunc("GET /export.csv", s.handleExportCSV)
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	s.Handler = log.Middleware(logger)(
		withRequestID(
			log.RequestIDMiddleware(requestIDFromHeader)(
				s.withSecurityHeaders(mux))))
	return s
}

// Shutdown stops background routines and the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.rateLimiter.stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}
