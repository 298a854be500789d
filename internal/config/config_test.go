package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_WithEnvVars(t *testing.T) {
	os.Setenv("ORDLENS_PORT", "9090")
	os.Setenv("ORDLENS_DEBUG", "true")
	os.Setenv("ORDLENS_API_URL", "http://search:8001")
	os.Setenv("ORDLENS_REQUEST_TIMEOUT", "5s")
	os.Setenv("ORDLENS_TRANSPORT_RETRIES", "2")
	os.Setenv("ORDLENS_SENTRY_DSN", "https://key@sentry.example/1")
	defer func() {
		os.Unsetenv("ORDLENS_PORT")
		os.Unsetenv("ORDLENS_DEBUG")
		os.Unsetenv("ORDLENS_API_URL")
		os.Unsetenv("ORDLENS_REQUEST_TIMEOUT")
		os.Unsetenv("ORDLENS_TRANSPORT_RETRIES")
		os.Unsetenv("ORDLENS_SENTRY_DSN")
	}()

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "http://search:8001", cfg.APIURL)
	assert.Equal(t, 5*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 2, cfg.TransportRetries)
	assert.True(t, cfg.HasSentry())
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.Debug)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "http://localhost:8001", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 0, cfg.TransportRetries)
	assert.Equal(t, int64(10<<20), cfg.MaxUploadBytes)
	assert.Equal(t, "development", cfg.Environment)
	assert.False(t, cfg.HasSentry())
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Run("bad duration", func(t *testing.T) {
		os.Setenv("ORDLENS_REQUEST_TIMEOUT", "soon")
		defer os.Unsetenv("ORDLENS_REQUEST_TIMEOUT")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "REQUEST_TIMEOUT")
	})

	t.Run("negative retries", func(t *testing.T) {
		os.Setenv("ORDLENS_TRANSPORT_RETRIES", "-1")
		defer os.Unsetenv("ORDLENS_TRANSPORT_RETRIES")

		_, err := Load()
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "TRANSPORT_RETRIES")
	})
}

func TestBackend(t *testing.T) {
	cfg := &Config{APIURL: "http://search:8001", RequestTimeout: time.Second, TransportRetries: 1}

	bc := cfg.Backend()
	assert.Equal(t, "http://search:8001", bc.BaseURL)
	assert.Equal(t, time.Second, bc.Timeout)
	assert.Equal(t, 1, bc.Retries)
}

func TestTelemetry(t *testing.T) {
	cfg := &Config{SentryDSN: "dsn", Environment: "production", Debug: true}

	tc := cfg.Telemetry()
	assert.Equal(t, "dsn", tc.DSN)
	assert.Equal(t, "production", tc.Environment)
	assert.True(t, tc.Debug)
}
