package fetcher

// Result represents the outcome of a single provider fetch.
// It is produced by a worker goroutine and consumed once by the coordinator.
type Result struct {
	// Provider is the name of the provider that produced this result
	Provider string

	// Data is the provider's normalized record (e.g. *stockrow.Data).
	// It is nil whenever Err is set.
	Data any

	// Err describes why the fetch failed.
	Err *FetchError
}

// Success builds a Result carrying data.
func Success(provider string, data any) Result {
	return Result{Provider: provider, Data: data}
}

// Failure builds a Result carrying err.
func Failure(provider string, err *FetchError) Result {
	return Result{Provider: provider, Err: err}
}

// Failed reports whether the fetch failed.
func (r Result) Failed() bool {
	return r.Err != nil
}
