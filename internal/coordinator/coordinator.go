package coordinator

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
	"github.com/sourcegraph/conc/panics"

	"stockgood/internal/fetcher"
	"stockgood/internal/metrics"
	"stockgood/internal/report"
)

const (
	// DefaultFetchTimeout bounds each provider fetch within a lookup
	DefaultFetchTimeout = 10 * time.Second

	// NotFoundMessage is the error reported when no provider knows the ticker
	NotFoundMessage = "Ticker not found"
)

type requestIDKey struct{}

// WithRequestID attaches id to ctx so the lookup logs share the caller's id
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the id attached by WithRequestID, or a fresh one
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey{}).(string); ok && id != "" {
		return id
	}
	return uuid.NewString()
}

// Options configures a Coordinator
type Options struct {
	// FetchTimeout bounds every provider fetch. Zero means DefaultFetchTimeout.
	FetchTimeout time.Duration

	// Metrics receives fetch and lookup observations. It may be nil.
	Metrics *metrics.Registry
}

// Coordinator fans a ticker lookup out to every provider and merges the answers
type Coordinator struct {
	providers    []fetcher.Provider
	fetchTimeout time.Duration
	metrics      *metrics.Registry
}

// New creates a new Coordinator with the given providers
func New(providers []fetcher.Provider, opts Options) *Coordinator {
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	return &Coordinator{
		providers:    providers,
		fetchTimeout: timeout,
		metrics:      opts.Metrics,
	}
}

// Aggregate looks symbol up with every provider concurrently and returns the
// merged, colored result with the HTTP status it should be served with.
//
// Provider failures only surface when every provider reports the ticker as not
// found; in that case the result carries just the error and the status is 404.
// Any other mix of failures yields 200 and a result with the failed providers'
// fields missing.
func (c *Coordinator) Aggregate(ctx context.Context, symbol string) (*report.Result, int) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	logger := log.With().
		Str("request_id", RequestID(ctx)).
		Str("symbol", symbol).
		Logger()

	if len(c.providers) == 0 {
		logger.Error().Msg("no providers configured")
		c.metrics.ObserveLookup(http.StatusServiceUnavailable)
		return report.Failed("No providers configured"), http.StatusServiceUnavailable
	}

	results := c.fetchAll(ctx, symbol, logger)

	if notFound(results) {
		logger.Info().Msg("ticker not found by any provider")
		c.metrics.ObserveLookup(http.StatusNotFound)
		return report.Failed(NotFoundMessage), http.StatusNotFound
	}

	result := merge(symbol, results)
	result.Colour()

	c.metrics.ObserveLookup(http.StatusOK)
	return result, http.StatusOK
}

// fetchAll runs every provider in its own goroutine and waits for all of them.
// Results keep the order of c.providers.
func (c *Coordinator) fetchAll(ctx context.Context, symbol string, logger zerolog.Logger) []fetcher.Result {
	mapper := iter.Mapper[fetcher.Provider, fetcher.Result]{
		MaxGoroutines: len(c.providers),
	}

	return mapper.Map(c.providers, func(p *fetcher.Provider) fetcher.Result {
		provider := *p
		start := time.Now()

		res := c.fetch(ctx, provider, symbol)
		took := time.Since(start)
		c.metrics.ObserveFetch(provider.Name(), res.Failed(), took)

		if res.Failed() {
			logger.Warn().
				Str("provider", provider.Name()).
				Int("status", res.Err.StatusCode).
				Str("reason", res.Err.Message).
				Str("type", string(res.Err.Type)).
				Err(res.Err.Cause).
				Dur("duration", took).
				Msg("provider fetch failed")
		} else {
			logger.Debug().
				Str("provider", provider.Name()).
				Dur("duration", took).
				Msg("provider fetch succeeded")
		}
		return res
	})
}

// fetch calls p under the per-fetch timeout. A provider that ignores its
// context is abandoned once the timeout passes, and a panicking provider is
// reported as a processing failure.
func (c *Coordinator) fetch(ctx context.Context, p fetcher.Provider, symbol string) fetcher.Result {
	fctx, cancel := context.WithTimeout(ctx, c.fetchTimeout)
	defer cancel()

	done := make(chan fetcher.Result, 1)
	go func() {
		var (
			pc  panics.Catcher
			res fetcher.Result
		)
		pc.Try(func() { res = p.Fetch(fctx, symbol) })
		if r := pc.Recovered(); r != nil {
			res = fetcher.Failure(p.Name(), fetcher.NewProcessingError(r.AsError()))
		}
		done <- res
	}()

	select {
	case res := <-done:
		if res.Provider == "" {
			res.Provider = p.Name()
		}
		return res
	case <-fctx.Done():
		return fetcher.Failure(p.Name(), fetcher.NewTimeoutError(fctx.Err()))
	}
}

// notFound reports whether every provider failed with a 404
func notFound(results []fetcher.Result) bool {
	for _, res := range results {
		if !res.Failed() || res.Err.StatusCode != http.StatusNotFound {
			return false
		}
	}
	return len(results) > 0
}
