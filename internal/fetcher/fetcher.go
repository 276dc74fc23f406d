package fetcher

import "context"

// Provider is the core interface that every finance data source implements.
// A provider performs one lookup against one external service and always
// answers with a Result; failures are carried inside it, never returned.
type Provider interface {
	// Name returns the stable identifier of the provider, e.g. "stockrow".
	// It is used in logs, metrics and as the Result's Provider field.
	Name() string

	// Fetch retrieves and normalizes the provider's data for symbol.
	Fetch(ctx context.Context, symbol string) Result
}
