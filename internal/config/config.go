package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"stockgood/internal/fetcher"
	"stockgood/internal/providers/msnmoney"
	"stockgood/internal/providers/stockrow"
	"stockgood/internal/providers/yahooanalysis"
	"stockgood/internal/providers/yahooquote"
)

// EnvPrefix is prepended to every environment variable, e.g. STOCKGOOD_LISTEN_ADDR
const EnvPrefix = "STOCKGOOD"

// Config holds all configuration for the stockgood service.
type Config struct {
	// HTTP surface
	ListenAddr string `mapstructure:"listen_addr" validate:"required"`

	// Timeouts for a single provider fetch and a single HTTP exchange
	FetchTimeout time.Duration `mapstructure:"fetch_timeout" validate:"gt=0"`
	HTTPTimeout  time.Duration `mapstructure:"http_timeout" validate:"gt=0"`

	// Logging
	LogLevel  string `mapstructure:"log_level" validate:"oneof=trace debug info warn error disabled"`
	LogFormat string `mapstructure:"log_format" validate:"oneof=json console"`

	// Client identifiers rotated across provider requests
	UserAgents []string `mapstructure:"user_agents" validate:"min=1,dive,required"`

	// Per-provider circuit breaker, off unless enabled
	BreakerEnabled  bool          `mapstructure:"breaker_enabled"`
	BreakerFailures uint32        `mapstructure:"breaker_failures" validate:"gte=1"`
	BreakerCooldown time.Duration `mapstructure:"breaker_cooldown" validate:"gt=0"`

	// Base URLs for provider endpoints (configurable for testing)
	MSNMoneyLookupURL    string `mapstructure:"msnmoney_lookup_url" validate:"required,url"`
	MSNMoneyRatiosURL    string `mapstructure:"msnmoney_ratios_url" validate:"required,url"`
	StockRowBaseURL      string `mapstructure:"stockrow_base_url" validate:"required,url"`
	YahooAnalysisBaseURL string `mapstructure:"yahoo_analysis_base_url" validate:"required,url"`
	YahooQuoteBaseURL    string `mapstructure:"yahoo_quote_base_url" validate:"required,url"`
}

// Load reads configuration from environment variables, an optional .env file
// and an optional config.yaml. Environment variables take precedence over the
// config file, which takes precedence over the defaults.
//
// Environment variables are the upper-cased keys with the STOCKGOOD_ prefix:
//   - STOCKGOOD_LISTEN_ADDR (default ":8080")
//   - STOCKGOOD_FETCH_TIMEOUT, STOCKGOOD_HTTP_TIMEOUT (durations such as "10s")
//   - STOCKGOOD_LOG_LEVEL, STOCKGOOD_LOG_FORMAT
//   - STOCKGOOD_USER_AGENTS (comma separated)
//   - STOCKGOOD_BREAKER_ENABLED, STOCKGOOD_BREAKER_FAILURES, STOCKGOOD_BREAKER_COOLDOWN
//   - STOCKGOOD_MSNMONEY_LOOKUP_URL, STOCKGOOD_MSNMONEY_RATIOS_URL,
//     STOCKGOOD_STOCKROW_BASE_URL, STOCKGOOD_YAHOO_ANALYSIS_BASE_URL,
//     STOCKGOOD_YAHOO_QUOTE_BASE_URL (optional, default to production)
func Load() (*Config, error) {
	// a missing .env file is fine
	_ = godotenv.Load()

	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("$HOME/.stockgood")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("listen_addr", ":8080")
	v.SetDefault("fetch_timeout", "10s")
	v.SetDefault("http_timeout", fetcher.DefaultHTTPTimeout.String())
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "json")
	v.SetDefault("user_agents", fetcher.UserAgents)
	v.SetDefault("breaker_enabled", false)
	v.SetDefault("breaker_failures", 5)
	v.SetDefault("breaker_cooldown", "30s")

	v.SetDefault("msnmoney_lookup_url", msnmoney.DefaultLookupURL)
	v.SetDefault("msnmoney_ratios_url", msnmoney.DefaultRatiosURL)
	v.SetDefault("stockrow_base_url", stockrow.DefaultBaseURL)
	v.SetDefault("yahoo_analysis_base_url", yahooanalysis.DefaultBaseURL)
	v.SetDefault("yahoo_quote_base_url", yahooquote.DefaultBaseURL)
}

// Validate checks every field against its constraints and reports all
// offending keys at once.
func (c *Config) Validate() error {
	err := validator.New().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("failed to validate config: %w", err)
	}

	invalid := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		invalid = append(invalid, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(invalid, ", "))
}

// ClientOptions returns the HTTP client settings shared by every provider
func (c *Config) ClientOptions() fetcher.ClientOptions {
	return fetcher.ClientOptions{
		Timeout:    c.HTTPTimeout,
		UserAgents: c.UserAgents,
	}
}

// Breaker returns the circuit breaker settings for providers
func (c *Config) Breaker() fetcher.BreakerSettings {
	return fetcher.BreakerSettings{
		ConsecutiveFailures: c.BreakerFailures,
		Cooldown:            c.BreakerCooldown,
	}
}
