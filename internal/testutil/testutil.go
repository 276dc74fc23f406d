package testutil

import (
	"context"

	"stockgood/internal/fetcher"
)

// MockProvider is a mock implementation of the fetcher.Provider interface for testing
type MockProvider struct {
	NameValue string
	FetchFunc func(ctx context.Context, symbol string) fetcher.Result
}

// Name implements the Provider interface
func (m *MockProvider) Name() string {
	if m.NameValue != "" {
		return m.NameValue
	}
	return "mock"
}

// Fetch implements the Provider interface
func (m *MockProvider) Fetch(ctx context.Context, symbol string) fetcher.Result {
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, symbol)
	}
	return fetcher.Success(m.Name(), nil)
}

// NewMockProvider creates a mock provider that always succeeds with data
func NewMockProvider(name string, data any) fetcher.Provider {
	return &MockProvider{
		NameValue: name,
		FetchFunc: func(ctx context.Context, symbol string) fetcher.Result {
			return fetcher.Success(name, data)
		},
	}
}

// NewFailingProvider creates a mock provider that always fails with err
func NewFailingProvider(name string, err *fetcher.FetchError) fetcher.Provider {
	return &MockProvider{
		NameValue: name,
		FetchFunc: func(ctx context.Context, symbol string) fetcher.Result {
			return fetcher.Failure(name, err)
		},
	}
}

// NewBlockingProvider creates a mock provider that waits for ctx to end and then
// fails the way a timed out request does
func NewBlockingProvider(name string) fetcher.Provider {
	return &MockProvider{
		NameValue: name,
		FetchFunc: func(ctx context.Context, symbol string) fetcher.Result {
			<-ctx.Done()
			return fetcher.Failure(name, fetcher.NewTimeoutError(ctx.Err()))
		},
	}
}
