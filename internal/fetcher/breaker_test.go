package fetcher

import (
	"context"
	"testing"
	"time"
)

type countingProvider struct {
	calls  int
	result Result
}

func (p *countingProvider) Name() string { return "counting" }

func (p *countingProvider) Fetch(ctx context.Context, symbol string) Result {
	p.calls++
	return p.result
}

func TestWithBreaker_OpensAfterTransientFailures(t *testing.T) {
	inner := &countingProvider{result: Failure("counting", NewServerError(500, "Internal Server Error"))}
	p := WithBreaker(inner, BreakerSettings{ConsecutiveFailures: 2, Cooldown: time.Minute})

	for i := 0; i < 2; i++ {
		res := p.Fetch(context.Background(), "AAPL")
		if res.Err == nil || res.Err.Type != ErrorTypeServer {
			t.Fatalf("call %d: Err = %v, want server error", i, res.Err)
		}
	}

	res := p.Fetch(context.Background(), "AAPL")
	if res.Err == nil || res.Err.Type != ErrorTypeUnavailable {
		t.Fatalf("Err = %v, want unavailable", res.Err)
	}
	if res.Err.StatusCode != 503 {
		t.Errorf("StatusCode = %d, want 503", res.Err.StatusCode)
	}
	if res.Provider != "counting" {
		t.Errorf("Provider = %q, want counting", res.Provider)
	}
	if inner.calls != 2 {
		t.Errorf("inner provider called %d times, want 2", inner.calls)
	}
}

func TestWithBreaker_NotFoundDoesNotTrip(t *testing.T) {
	inner := &countingProvider{result: Failure("counting", NewNotFoundError("Ticker not found"))}
	p := WithBreaker(inner, BreakerSettings{ConsecutiveFailures: 1, Cooldown: time.Minute})

	for i := 0; i < 3; i++ {
		res := p.Fetch(context.Background(), "ZZZZZZ")
		if res.Err == nil || res.Err.Type != ErrorTypeNotFound {
			t.Fatalf("call %d: Err = %v, want not found", i, res.Err)
		}
	}
	if inner.calls != 3 {
		t.Errorf("inner provider called %d times, want 3", inner.calls)
	}
}

func TestWithBreaker_PassesData(t *testing.T) {
	inner := &countingProvider{result: Success("counting", 42)}
	p := WithBreaker(inner, BreakerSettings{})

	res := p.Fetch(context.Background(), "AAPL")
	if res.Failed() {
		t.Fatalf("unexpected failure: %v", res.Err)
	}
	if res.Data.(int) != 42 {
		t.Errorf("Data = %v, want 42", res.Data)
	}
}
