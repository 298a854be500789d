package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"github.com/cloo-solutions/ordlens/internal/backend"
	"github.com/cloo-solutions/ordlens/internal/telemetry"
)

type Config struct {
	Port     string `envconfig:"PORT" default:"8080"`
	Debug    bool   `envconfig:"DEBUG" default:"false"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	APIURL           string        `envconfig:"API_URL" default:"http://localhost:8001"`
	RequestTimeout   time.Duration `envconfig:"REQUEST_TIMEOUT" default:"30s"`
	TransportRetries int           `envconfig:"TRANSPORT_RETRIES" default:"0"`

	MaxUploadBytes int64  `envconfig:"MAX_UPLOAD_BYTES" default:"10485760"`
	MintURL        string `envconfig:"MINT_URL" default:"https://ordinalswallet.com/inscribe"`

	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("ORDLENS", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if cfg.TransportRetries < 0 {
		return nil, fmt.Errorf("failed to process config: TRANSPORT_RETRIES must not be negative")
	}
	if cfg.MaxUploadBytes <= 0 {
		return nil, fmt.Errorf("failed to process config: MAX_UPLOAD_BYTES must be positive")
	}

	return &cfg, nil
}

// Backend returns the search backend client configuration.
func (c *Config) Backend() backend.Config {
	return backend.Config{
		BaseURL:   c.APIURL,
		Timeout:   c.RequestTimeout,
		Retries:   c.TransportRetries,
		UserAgent: "ordlensd",
	}
}

// Telemetry returns the Sentry configuration.
func (c *Config) Telemetry() telemetry.Config {
	return telemetry.Config{
		DSN:         c.SentryDSN,
		Environment: c.Environment,
		Debug:       c.Debug,
	}
}

func (c *Config) HasSentry() bool {
	return c.SentryDSN != ""
}
