// Package config loads environment configuration for the pipeline.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

const (
	AppName     = "flipstack"
	EnvFileName = "config.env"
)

// LoadEnvFile loads environment variables from the config file in the
// user's config directory. Errors are ignored since the file may not
// exist.
func LoadEnvFile() {
	configBase, err := os.UserConfigDir()
	if err != nil {
		return
	}
	configPath := filepath.Join(configBase, AppName, EnvFileName)
	_ = godotenv.Load(configPath)
}

// Config is the resolved environment configuration.
type Config struct {
	DBPath        string
	CredentialKey string

	CompsAPIKey    string
	CompsBaseURL   string
	BarcodeAPIKey  string
	BarcodeBaseURL string

	BatchDelay time.Duration
}

// Load reads configuration from the environment, applying defaults for
// optional values. Provider API keys may be absent; the pipeline reports
// them as configuration failures at first use so one misconfigured
// provider does not prevent startup.
func Load() Config {
	cfg := Config{
		DBPath:         os.Getenv("FLIPSTACK_DB_PATH"),
		CredentialKey:  os.Getenv("FLIPSTACK_CREDENTIAL_KEY"),
		CompsAPIKey:    os.Getenv("COMPS_API_KEY"),
		CompsBaseURL:   os.Getenv("COMPS_BASE_URL"),
		BarcodeAPIKey:  os.Getenv("BARCODE_API_KEY"),
		BarcodeBaseURL: os.Getenv("BARCODE_BASE_URL"),
		BatchDelay:     2 * time.Second,
	}
	if cfg.DBPath == "" {
		cfg.DBPath = "flipstack.db"
	}
	if v := os.Getenv("FLIPSTACK_BATCH_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d >= 0 {
			cfg.BatchDelay = d
		}
	}
	return cfg
}

// MissingRequired names required settings that are not set.
func (c Config) MissingRequired() []string {
	var missing []string
	if c.CredentialKey == "" {
		missing = append(missing, "FLIPSTACK_CREDENTIAL_KEY")
	}
	return missing
}
