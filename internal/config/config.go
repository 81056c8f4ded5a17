// Package config loads CLI configuration from the environment, with an
// optional .env file for local runs.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds everything the sync and cleanup commands need.
type Config struct {
	// DatabaseURL is the postgres DSN the currency table lives in
	DatabaseURL string

	// DefaultCurrency is the base currency every stored value is relative to
	DefaultCurrency string

	// OXRAppID is the openexchangerates.org credential; required only for
	// that provider
	OXRAppID string

	// NeededCodes is the cbr.ru allow-list; must include DefaultCurrency
	NeededCodes []string

	// UseSpace inserts a space between symbol and number when formatting
	UseSpace bool

	// RequestTimeout bounds each provider fetch end to end
	RequestTimeout time.Duration
}

// Load reads configuration from environment variables, after loading a .env
// file when one is present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("CURRENCY_DEFAULT", "USD")
	viper.SetDefault("OXR_APP_ID", "")
	viper.SetDefault("CURRENCY_NEEDED", "USD,EUR")
	viper.SetDefault("CURRENCY_USE_SPACE", true)
	viper.SetDefault("REQUEST_TIMEOUT", "20s")

	viper.AutomaticEnv()

	timeout, err := time.ParseDuration(viper.GetString("REQUEST_TIMEOUT"))
	if err != nil {
		timeout = 20 * time.Second
	}

	cfg := &Config{
		DatabaseURL:     viper.GetString("PGSQL_URL"),
		DefaultCurrency: viper.GetString("CURRENCY_DEFAULT"),
		OXRAppID:        viper.GetString("OXR_APP_ID"),
		NeededCodes:     splitCodes(viper.GetString("CURRENCY_NEEDED")),
		UseSpace:        viper.GetBool("CURRENCY_USE_SPACE"),
		RequestTimeout:  timeout,
	}

	return cfg, nil
}

func splitCodes(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, strings.ToUpper(p))
		}
	}

	return out
}
