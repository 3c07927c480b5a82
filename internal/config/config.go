package config

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"
)

type Config struct {
	ListenPort      string
	RemoteAPIURL    string
	RemoteSignalURL string
	CacheDir        string
	TimeZone        string
	RDAnnualRate    string
	BudgetAutoRatio string
}

func ProcessEnvironmentVariables() (*Config, error) {
	// Defaults target a locally running remote API.
	env := Config{
		ListenPort:      "9447",
		RemoteAPIURL:    "http://localhost:4000/api",
		RemoteSignalURL: "ws://localhost:4000/signals",
		CacheDir:        "./cache",
		TimeZone:        "UTC",
		RDAnnualRate:    "0.05",
		BudgetAutoRatio: "0.25",
	}

	envListenPort := os.Getenv("LISTEN_PORT")
	envRemoteAPIURL := os.Getenv("REMOTE_API_URL")
	envRemoteSignalURL := os.Getenv("REMOTE_SIGNAL_URL")
	envCacheDir := os.Getenv("CACHE_DIR")
	envTimeZone := os.Getenv("TIME_ZONE")
	envRDAnnualRate := os.Getenv("RD_ANNUAL_RATE")
	envBudgetAutoRatio := os.Getenv("BUDGET_AUTO_RATIO")

	if len(envListenPort) != 0 {
		env.ListenPort = envListenPort
	}

	if len(envRemoteAPIURL) != 0 {
		env.RemoteAPIURL = envRemoteAPIURL
	}

	if len(envRemoteSignalURL) != 0 {
		env.RemoteSignalURL = envRemoteSignalURL
	}

	if len(envCacheDir) != 0 {
		env.CacheDir = envCacheDir
	}

	if len(envTimeZone) != 0 {
		env.TimeZone = envTimeZone
	}

	if len(envRDAnnualRate) != 0 {
		env.RDAnnualRate = envRDAnnualRate
	}

	if len(envBudgetAutoRatio) != 0 {
		env.BudgetAutoRatio = envBudgetAutoRatio
	}

	if _, err := env.Location(); err != nil {
		return nil, err
	}
	if _, err := env.AnnualRate(); err != nil {
		return nil, err
	}
	if _, err := env.AutoRatio(); err != nil {
		return nil, err
	}

	return &env, nil
}

// Location resolves the time zone used for every calendar derivation
// (bucket keys, "today", month starts). Sharing one location keeps the
// calendar views consistent with each other.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("TIME_ZONE %q: %w", c.TimeZone, err)
	}
	return loc, nil
}

// AnnualRate is the recurring-deposit interest rate used for maturity
// estimates. A placeholder, not a real bank rate.
func (c *Config) AnnualRate() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.RDAnnualRate)
	if err != nil {
		return decimal.Zero, fmt.Errorf("RD_ANNUAL_RATE %q: %w", c.RDAnnualRate, err)
	}
	return d, nil
}

// AutoRatio is the share of current-month income used as the automatic
// monthly budget limit.
func (c *Config) AutoRatio() (decimal.Decimal, error) {
	d, err := decimal.NewFromString(c.BudgetAutoRatio)
	if err != nil {
		return decimal.Zero, fmt.Errorf("BUDGET_AUTO_RATIO %q: %w", c.BudgetAutoRatio, err)
	}
	return d, nil
}
