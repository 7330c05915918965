// Package config loads the terminal configuration: a YAML file overlaid
// with environment variables, with a .env file honored for local setups.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the terminal's static configuration. Everything operational
// (exchange rate, receipt text) still comes from the backend's settings;
// these are only the values needed before the first request, plus local
// fallbacks for when the backend is unreachable.
type Config struct {
	// APIBaseURL is the backend root, including any /api prefix.
	APIBaseURL string `yaml:"api_base_url"`

	// SnapshotPath is the SQLite file for the local invoice snapshot.
	SnapshotPath string `yaml:"snapshot_path"`

	// FallbackRate is the USD to KHR rate used until settings load.
	FallbackRate float64 `yaml:"fallback_rate"`

	// Role is reported on destructive requests.
	Role string `yaml:"role"`

	// Cashier is the name printed on receipts when the invoice carries none.
	Cashier string `yaml:"cashier"`

	// ReceiptHeader and ReceiptFooter back the receipt when the backend
	// settings omit them.
	ReceiptHeader string `yaml:"receipt_header"`
	ReceiptFooter string `yaml:"receipt_footer"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		APIBaseURL:   "http://localhost:3000/api",
		SnapshotPath: "posterm.db",
		FallbackRate: 4000,
		Role:         "cashier",
	}
}

// Load builds the configuration: defaults, then the YAML file at path if
// it exists, then a .env file if present, then process environment
// variables. Later layers win. An empty path skips the YAML layer.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		raw, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
			// absent config file is fine, defaults apply
		case err != nil:
			return Config{}, fmt.Errorf("reading config %s: %w", path, err)
		default:
			if err := yaml.Unmarshal(raw, &cfg); err != nil {
				return Config{}, fmt.Errorf("parsing config %s: %w", path, err)
			}
		}
	}

	// .env sets process env vars without overriding existing ones, so the
	// real environment still wins below.
	_ = godotenv.Load()

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv("POSTERM_API_BASE_URL"); v != "" {
		c.APIBaseURL = v
	}
	if v := os.Getenv("POSTERM_SNAPSHOT_PATH"); v != "" {
		c.SnapshotPath = v
	}
	if v := os.Getenv("POSTERM_FALLBACK_RATE"); v != "" {
		rate, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("parsing POSTERM_FALLBACK_RATE %q: %w", v, err)
		}
		c.FallbackRate = rate
	}
	if v := os.Getenv("POSTERM_ROLE"); v != "" {
		c.Role = v
	}
	if v := os.Getenv("POSTERM_CASHIER"); v != "" {
		c.Cashier = v
	}
	return nil
}
