// Package server exposes ticker lookups over HTTP.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"stockgood/internal/coordinator"
	"stockgood/internal/report"
)

// InvalidTickerMessage is reported when the requested ticker is malformed
const InvalidTickerMessage = "Invalid ticker"

var tickerPattern = regexp.MustCompile(`^[A-Za-z,.\-]{1,6}$`)

// ValidTicker reports whether ticker is 1 to 6 letters, commas, periods or hyphens
func ValidTicker(ticker string) bool {
	return tickerPattern.MatchString(ticker)
}

// Aggregator produces the merged result for a ticker and the status to serve
// it with. *coordinator.Coordinator implements it.
type Aggregator interface {
	Aggregate(ctx context.Context, symbol string) (*report.Result, int)
}

// Config holds server configuration
type Config struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

// DefaultConfig returns the server configuration for addr. The write timeout
// has to outlast a full lookup, so it is derived from the fetch timeout.
func DefaultConfig(addr string, fetchTimeout time.Duration) Config {
	return Config{
		Addr:         addr,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: fetchTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

// Server serves ticker lookups, health checks and metrics
type Server struct {
	router     *mux.Router
	server     *http.Server
	aggregator Aggregator
	gatherer   prometheus.Gatherer
}

// New creates a Server. gatherer backs the /metrics endpoint; when nil the
// endpoint is not registered.
func New(agg Aggregator, gatherer prometheus.Gatherer, cfg Config) *Server {
	s := &Server{
		router:     mux.NewRouter(),
		aggregator: agg,
		gatherer:   gatherer,
	}
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.requestIDMiddleware)
	s.router.Use(s.requestLoggingMiddleware)

	s.router.HandleFunc("/search/{ticker}", s.search).Methods(http.MethodGet)
	s.router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	if s.gatherer != nil {
		s.router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}

	s.router.NotFoundHandler = http.HandlerFunc(s.notFound)
}

// Handler returns the routed handler, mostly for tests
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks until the server stops. It returns http.ErrServerClosed
// after Shutdown.
func (s *Server) ListenAndServe() error {
	log.Info().Str("addr", s.server.Addr).Msg("starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) search(w http.ResponseWriter, r *http.Request) {
	ticker := mux.Vars(r)["ticker"]
	if !ValidTicker(ticker) {
		writeJSON(w, http.StatusBadRequest, report.Failed(InvalidTickerMessage))
		return
	}

	result, status := s.aggregator.Aggregate(r.Context(), ticker)
	writeJSON(w, status, result)
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) notFound(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusNotFound, report.Failed("Not found"))
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}

// requestIDMiddleware tags each request with an id, echoed in X-Request-ID
// and carried to the coordinator's logs.
func (s *Server) requestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(coordinator.WithRequestID(r.Context(), requestID)))
	})
}

func (s *Server) requestLoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWrapper{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(wrapper, r)

		log.Info().
			Str("request_id", coordinator.RequestID(r.Context())).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Str("remote", r.RemoteAddr).
			Msg("request")
	})
}

// responseWrapper captures the status code for logging
type responseWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWrapper) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
