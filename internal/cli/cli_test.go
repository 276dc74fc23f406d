package cli

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"stockgood/internal/config"
	"stockgood/internal/coordinator"
)

func pointProvidersAt(t *testing.T, url string) {
	t.Helper()
	for _, key := range []string{
		"STOCKGOOD_MSNMONEY_LOOKUP_URL",
		"STOCKGOOD_MSNMONEY_RATIOS_URL",
		"STOCKGOOD_STOCKROW_BASE_URL",
		"STOCKGOOD_YAHOO_ANALYSIS_BASE_URL",
		"STOCKGOOD_YAHOO_QUOTE_BASE_URL",
	} {
		t.Setenv(key, url)
	}
	t.Setenv("STOCKGOOD_LOG_LEVEL", "disabled")
}

func TestLookup_NotFoundExitsWithError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	pointProvidersAt(t, srv.URL)

	var stdout, stderr bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs([]string{"lookup", "zzzz"})

	err := root.Execute()
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrLookupFailed), "error = %v", err)
	assert.Contains(t, err.Error(), "ZZZZ (404)")

	var body map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &body))
	assert.Equal(t, coordinator.NotFoundMessage, body["error"])
}

func TestLookup_PrettyOutput(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	pointProvidersAt(t, srv.URL)

	var stdout bytes.Buffer
	root := NewRootCommand()
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"lookup", "zzzz", "--pretty"})

	_ = root.Execute()
	assert.Contains(t, stdout.String(), "\n  \"error\": \"Ticker not found\"")
}

func TestLookup_RejectsInvalidTicker(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()
	pointProvidersAt(t, srv.URL)

	for _, ticker := range []string{"ABCDEFG", "AB12", "A_B", "../x"} {
		var stdout bytes.Buffer
		root := NewRootCommand()
		root.SetOut(&stdout)
		root.SetErr(&bytes.Buffer{})
		root.SetArgs([]string{"lookup", ticker})

		err := root.Execute()
		if !errors.Is(err, ErrInvalidTicker) {
			t.Errorf("lookup %q error = %v, want %v", ticker, err, ErrInvalidTicker)
		}
		assert.Empty(t, stdout.String(), "lookup %q should print nothing", ticker)
	}
	assert.Zero(t, calls, "no provider should be called for invalid tickers")
}

func TestLookup_RequiresTicker(t *testing.T) {
	t.Setenv("STOCKGOOD_LOG_LEVEL", "disabled")

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"lookup"})

	assert.Error(t, root.Execute())
}

func TestRoot_InvalidConfiguration(t *testing.T) {
	t.Setenv("STOCKGOOD_LOG_FORMAT", "xml")

	root := NewRootCommand()
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	root.SetArgs([]string{"lookup", "AAPL"})

	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load configuration")
}

func TestSetupLogging(t *testing.T) {
	defer zerolog.SetGlobalLevel(zerolog.TraceLevel)

	tests := []struct {
		name   string
		level  string
		format string
		want   zerolog.Level
	}{
		{"json info", "info", "json", zerolog.InfoLevel},
		{"console debug", "debug", "console", zerolog.DebugLevel},
		{"disabled", "disabled", "json", zerolog.Disabled},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			err := SetupLogging(&config.Config{LogLevel: tt.level, LogFormat: tt.format}, &buf)
			require.NoError(t, err)
			assert.Equal(t, tt.want, zerolog.GlobalLevel())
		})
	}

	err := SetupLogging(&config.Config{LogLevel: "loud", LogFormat: "json"}, &bytes.Buffer{})
	assert.Error(t, err)
}

func TestProviders(t *testing.T) {
	cfg := &config.Config{
		MSNMoneyLookupURL:    "http://localhost/lookup",
		MSNMoneyRatiosURL:    "http://localhost/ratios",
		StockRowBaseURL:      "http://localhost/stockrow",
		YahooAnalysisBaseURL: "http://localhost/analysis",
		YahooQuoteBaseURL:    "http://localhost/quote",
		BreakerFailures:      3,
	}

	names := func(cfg *config.Config) []string {
		var out []string
		for _, p := range Providers(cfg) {
			out = append(out, p.Name())
		}
		return out
	}

	want := []string{"msnmoney", "stockrow", "yahooanalysis", "yahooquote"}
	assert.Equal(t, want, names(cfg))

	cfg.BreakerEnabled = true
	assert.Equal(t, want, names(cfg), "breaker keeps provider names")
}
