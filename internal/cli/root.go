// Package cli wires configuration, providers and the coordinator into the
// stockgood commands.
package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"stockgood/internal/config"
	"stockgood/internal/fetcher"
	"stockgood/internal/providers/msnmoney"
	"stockgood/internal/providers/stockrow"
	"stockgood/internal/providers/yahooanalysis"
	"stockgood/internal/providers/yahooquote"
)

// NewRootCommand builds the stockgood command tree
func NewRootCommand() *cobra.Command {
	var cfg *config.Config

	root := &cobra.Command{
		Use:   "stockgood",
		Short: "Rule #1 valuation from several public finance sources",
		Long: `stockgood looks a ticker up on MSN Money, StockRow and Yahoo Finance at the
same time, merges what they return and derives growth rates, sticker and
margin of safety prices and payback time, each with a traffic-light color.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			loaded, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			if err := SetupLogging(loaded, cmd.ErrOrStderr()); err != nil {
				return err
			}
			cfg = loaded
			return nil
		},
	}

	current := func() *config.Config { return cfg }
	root.AddCommand(newServeCommand(current))
	root.AddCommand(newLookupCommand(current))

	return root
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// SetupLogging points the global zerolog logger at w with the configured
// level and format.
func SetupLogging(cfg *config.Config, w io.Writer) error {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.LogFormat == "console" {
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().Timestamp().Logger()
		return nil
	}
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
	return nil
}

// Providers creates every provider from configuration, each behind its own
// circuit breaker when enabled.
func Providers(cfg *config.Config) []fetcher.Provider {
	opts := cfg.ClientOptions()

	providers := []fetcher.Provider{
		msnmoney.New(cfg.MSNMoneyLookupURL, cfg.MSNMoneyRatiosURL, opts),
		stockrow.New(cfg.StockRowBaseURL, opts),
		yahooanalysis.New(cfg.YahooAnalysisBaseURL, opts),
		yahooquote.New(cfg.YahooQuoteBaseURL, opts),
	}

	if cfg.BreakerEnabled {
		for i, p := range providers {
			providers[i] = fetcher.WithBreaker(p, cfg.Breaker())
		}
	}
	return providers
}
