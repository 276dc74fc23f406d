package fetcher

import (
	"context"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"resty.dev/v3"
)

const (
	// DefaultHTTPTimeout bounds a single HTTP exchange with a provider
	DefaultHTTPTimeout = 15 * time.Second
)

// UserAgents is the default pool of client identifiers. One is picked at random
// for every request so providers see ordinary browser traffic.
var UserAgents = []string{
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_5) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/13.1.1 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:77.0) Gecko/20100101 Firefox/77.0",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_5) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/83.0.4103.97 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10.15; rv:77.0) Gecko/20100101 Firefox/77.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/83.0.4103.97 Safari/537.36",
}

// ClientOptions configures the HTTP client shared by a provider's requests
type ClientOptions struct {
	Timeout    time.Duration
	UserAgents []string
}

// NewHTTPClient creates a resty client for one provider endpoint. Requests are
// never retried; a failed call is reported to the coordinator as is.
func NewHTTPClient(baseURL string, opts ClientOptions) *resty.Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = DefaultHTTPTimeout
	}
	agents := opts.UserAgents
	if len(agents) == 0 {
		agents = UserAgents
	}
	// copy so later edits to the caller's slice cannot race with requests
	agents = append([]string(nil), agents...)

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout).
		SetRetryCount(0).
		AddRequestMiddleware(userAgentMiddleware(agents)).
		AddResponseMiddleware(logResponse)

	return client
}

// PickUserAgent returns a random identifier from agents
func PickUserAgent(agents []string) string {
	return agents[rand.Intn(len(agents))]
}

func userAgentMiddleware(agents []string) resty.RequestMiddleware {
	return func(_ *resty.Client, r *resty.Request) error {
		r.SetHeader("User-Agent", PickUserAgent(agents))
		return nil
	}
}

// logResponse logs every provider response for observability
func logResponse(_ *resty.Client, r *resty.Response) error {
	log.Debug().
		Str("url", r.Request.URL).
		Int("status_code", r.StatusCode()).
		Dur("duration", r.Duration()).
		Msg("provider responded")
	return nil
}

// Get performs a GET with ctx against path and returns the response body, or the
// FetchError describing why no usable body was received.
func Get(ctx context.Context, req *resty.Request, path string) ([]byte, *FetchError) {
	resp, err := req.SetContext(ctx).Get(path)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, NewTimeoutError(ctxErr)
		}
		return nil, NewNetworkError(err)
	}

	if !resp.IsSuccess() {
		return nil, ClassifyHTTPError(resp.StatusCode(), reason(resp.Status(), resp.StatusCode()))
	}

	return resp.Bytes(), nil
}

// reason strips the numeric prefix from a status line such as "404 Not Found"
func reason(status string, code int) string {
	return strings.TrimSpace(strings.TrimPrefix(status, strconv.Itoa(code)))
}
