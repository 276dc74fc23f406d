package fetcher

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/sony/gobreaker"
)

// BreakerSettings configures the circuit breaker placed in front of a provider
type BreakerSettings struct {
	// ConsecutiveFailures trips the breaker after this many transient failures in a row
	ConsecutiveFailures uint32
	// Cooldown is how long the breaker stays open before letting a probe through
	Cooldown time.Duration
}

// breakerProvider short-circuits a provider that keeps failing at the transport level
type breakerProvider struct {
	next    Provider
	breaker *gobreaker.CircuitBreaker
}

// WithBreaker wraps p so that repeated network, timeout or 5xx failures open a
// circuit. While open, Fetch answers immediately with an unavailable error.
// Not-found and other 4xx answers count as successes for the breaker.
func WithBreaker(p Provider, s BreakerSettings) Provider {
	threshold := s.ConsecutiveFailures
	if threshold == 0 {
		threshold = 5
	}

	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        p.Name(),
		MaxRequests: 1,
		Timeout:     s.Cooldown,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= threshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().
				Str("provider", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("provider breaker changed state")
		},
	})

	return &breakerProvider{next: p, breaker: cb}
}

// Name implements Provider
func (b *breakerProvider) Name() string {
	return b.next.Name()
}

// Fetch implements Provider
func (b *breakerProvider) Fetch(ctx context.Context, symbol string) Result {
	out, err := b.breaker.Execute(func() (interface{}, error) {
		res := b.next.Fetch(ctx, symbol)
		if res.Err != nil && res.Err.Transient() {
			return res, res.Err
		}
		return res, nil
	})

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return Failure(b.Name(), NewUnavailableError(err))
	}

	return out.(Result)
}
