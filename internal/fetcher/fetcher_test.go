package fetcher

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestClassifyHTTPError(t *testing.T) {
	tests := []struct {
		status   int
		reason   string
		wantType ErrorType
		wantMsg  string
	}{
		{404, "Not Found", ErrorTypeNotFound, "Not Found"},
		{500, "", ErrorTypeServer, "Internal Server Error"},
		{503, "Service Unavailable", ErrorTypeServer, "Service Unavailable"},
		{403, "Forbidden", ErrorTypeClient, "Forbidden"},
		{429, "", ErrorTypeClient, "Too Many Requests"},
		{302, "Found", ErrorTypeUnknown, "unexpected status code: 302"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			err := ClassifyHTTPError(tt.status, tt.reason)
			if err.Type != tt.wantType {
				t.Errorf("Type = %q, want %q", err.Type, tt.wantType)
			}
			if err.StatusCode != tt.status {
				t.Errorf("StatusCode = %d, want %d", err.StatusCode, tt.status)
			}
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
		})
	}
}

func TestFetchError_Transient(t *testing.T) {
	if !NewServerError(500, "boom").Transient() {
		t.Error("server errors should be transient")
	}
	if !NewTimeoutError(context.DeadlineExceeded).Transient() {
		t.Error("timeouts should be transient")
	}
	if NewNotFoundError("Ticker not found").Transient() {
		t.Error("not found should not be transient")
	}
	if NewProcessingError(nil).Transient() {
		t.Error("processing errors should not be transient")
	}
}

func TestNewNetworkError_DeadlineIsTimeout(t *testing.T) {
	err := NewNetworkError(context.DeadlineExceeded)
	if err.Type != ErrorTypeTimeout {
		t.Errorf("Type = %q, want %q", err.Type, ErrorTypeTimeout)
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Error("errors.Is should see the wrapped deadline")
	}
}

func TestNewProcessingError(t *testing.T) {
	err := NewProcessingError(errors.New("bad json"))
	if err.StatusCode != 424 {
		t.Errorf("StatusCode = %d, want 424", err.StatusCode)
	}
	want := "processing error (status 424): Data could not be processed"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestGet_Success(t *testing.T) {
	var gotAgent string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAgent = r.Header.Get("User-Agent")
		w.Write([]byte(`{"ok":true}`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, ClientOptions{UserAgents: []string{"agent-a"}})
	body, ferr := Get(context.Background(), client.R(), "/anything")
	if ferr != nil {
		t.Fatalf("Get() returned unexpected error: %v", ferr)
	}
	if string(body) != `{"ok":true}` {
		t.Errorf("body = %q", body)
	}
	if gotAgent != "agent-a" {
		t.Errorf("User-Agent = %q, want agent-a", gotAgent)
	}
}

func TestGet_StatusCarriesReason(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, ClientOptions{})
	_, ferr := Get(context.Background(), client.R(), "/missing")
	if ferr == nil {
		t.Fatal("Get() expected error, got nil")
	}
	if ferr.StatusCode != 404 || ferr.Message != "Not Found" {
		t.Errorf("Get() error = (%d, %q), want (404, Not Found)", ferr.StatusCode, ferr.Message)
	}
}

func TestGet_NoRetries(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, ClientOptions{})
	_, ferr := Get(context.Background(), client.R(), "")
	if ferr == nil || ferr.Type != ErrorTypeServer {
		t.Fatalf("Get() error = %v, want server error", ferr)
	}
	if calls.Load() != 1 {
		t.Errorf("server called %d times, want 1", calls.Load())
	}
}

func TestGet_ContextDeadline(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	client := NewHTTPClient(server.URL, ClientOptions{})
	_, ferr := Get(ctx, client.R(), "")
	if ferr == nil {
		t.Fatal("Get() expected error, got nil")
	}
	if ferr.Type != ErrorTypeTimeout {
		t.Errorf("Type = %q, want %q", ferr.Type, ErrorTypeTimeout)
	}
}

func TestPickUserAgent_StaysInPool(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		seen[PickUserAgent(UserAgents)] = true
	}
	for agent := range seen {
		found := false
		for _, a := range UserAgents {
			if a == agent {
				found = true
			}
		}
		if !found {
			t.Errorf("PickUserAgent() returned %q outside the pool", agent)
		}
	}
	if len(UserAgents) != 5 {
		t.Errorf("len(UserAgents) = %d, want 5", len(UserAgents))
	}
}
