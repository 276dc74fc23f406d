package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"

	"stockgood/internal/config"
	"stockgood/internal/coordinator"
	"stockgood/internal/server"
)

var (
	// ErrLookupFailed is returned when a lookup does not produce a result
	ErrLookupFailed = errors.New("lookup failed")

	// ErrInvalidTicker is returned for tickers the HTTP surface would reject too
	ErrInvalidTicker = errors.New("invalid ticker")
)

func newLookupCommand(cfg func() *config.Config) *cobra.Command {
	var pretty bool

	cmd := &cobra.Command{
		Use:   "lookup TICKER",
		Short: "Look a single ticker up and print the result as JSON",
		Example: `  stockgood lookup AAPL
  stockgood lookup msft --pretty`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if !server.ValidTicker(args[0]) {
				return fmt.Errorf("%w: %q", ErrInvalidTicker, args[0])
			}

			c := cfg()
			coord := coordinator.New(Providers(c), coordinator.Options{
				FetchTimeout: c.FetchTimeout,
			})

			result, status := coord.Aggregate(cmd.Context(), args[0])

			enc := json.NewEncoder(cmd.OutOrStdout())
			if pretty {
				enc.SetIndent("", "  ")
			}
			if err := enc.Encode(result); err != nil {
				return fmt.Errorf("failed to encode result: %w", err)
			}

			if status != http.StatusOK {
				return fmt.Errorf("%w: %s (%d)", ErrLookupFailed, strings.ToUpper(args[0]), status)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&pretty, "pretty", false, "Indent the JSON output")
	return cmd
}
