package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/kjannette/trahn-portfolio/internal/external"
	"github.com/kjannette/trahn-portfolio/internal/logger"
	"github.com/kjannette/trahn-portfolio/internal/view"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-ID"

type Options struct {
	Port      int
	Stopwatch *view.Stopwatch
	Alerts    AlertStatus // optional, reported by /health
	Logger    *zap.SugaredLogger
}

// AlertStatus reports whether operator alerts leave the process.
type AlertStatus interface {
	Enabled() bool
}

type Server struct {
	coins      external.Fetcher
	stopwatch  *view.Stopwatch
	alerts     AlertStatus
	log        *zap.SugaredLogger
	handler    http.Handler
	httpServer *http.Server
}

func NewServer(coins external.Fetcher, opts Options) *Server {
	log := opts.Logger
	if log == nil {
		log = logger.Nop()
	}
	sw := opts.Stopwatch
	if sw == nil {
		sw = view.NewStopwatch(nil)
	}

	s := &Server{
		coins:     coins,
		stopwatch: sw,
		alerts:    opts.Alerts,
		log:       log,
	}

	mux := http.NewServeMux()

	// Portfolio summary
	mux.HandleFunc("GET /{$}", s.handleSummary)

	// Health check
	mux.HandleFunc("GET /health", s.handleHealth)

	// Everything else falls back to the stopwatch
	mux.HandleFunc("/", s.handleStopwatch)

	s.handler = s.requestLogger(mux)

	// No WriteTimeout: a summary response stays open until the coins API answers.
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       10 * time.Second,
	}

	return s
}

func (s *Server) Handler() http.Handler { return s.handler }

func (s *Server) Start() error {
	s.log.Infow("page server started",
		"summary", fmt.Sprintf("http://localhost%s/", s.httpServer.Addr),
		"health", fmt.Sprintf("http://localhost%s/health", s.httpServer.Addr))
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// --- middleware ---

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Unwrap lets http.ResponseController reach the underlying Flusher.
func (r *statusRecorder) Unwrap() http.ResponseWriter { return r.ResponseWriter }

// requestLogger tags every request with an ID, reusing the caller's when it
// sends one, and logs the outcome.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)

		log := s.log.With("requestId", id)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r.WithContext(logger.WithContext(r.Context(), log)))

		log.Infow("request",
			"method", r.Method, "path", r.URL.Path,
			"status", rec.status, "took", time.Since(start).String())
	})
}

// --- response helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
