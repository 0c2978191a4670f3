package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestLoad_DefaultValues tests that hardcoded defaults are applied correctly.
func TestLoad_DefaultValues(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "quote-screen", cfg.App.Name)
	assert.Equal(t, "dev", cfg.App.Version)
	assert.Equal(t, "local", cfg.App.Environment)
	assert.Equal(t, DefaultServerPort, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.False(t, cfg.Log.File.Enabled)
	assert.False(t, cfg.Telemetry.Enabled)
	assert.Equal(t, DefaultQuoteBaseURL, cfg.Services.Quote.BaseURL)
	assert.Equal(t, DefaultQuoteServiceName, cfg.Services.Quote.Name)
	assert.Equal(t, DefaultTransportMaxIdleConns, cfg.Client.Transport.MaxIdleConns)
}

// TestLoad_DurationParsing tests that duration strings are parsed correctly.
func TestLoad_DurationParsing(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 120*time.Second, cfg.Server.IdleTimeout)
	assert.Equal(t, 10*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 30*time.Second, cfg.Client.Timeout)
	assert.Equal(t, 90*time.Second, cfg.Client.Transport.IdleConnTimeout)
}

// TestLoad_EnvVarOverrides tests that environment variables override defaults.
func TestLoad_EnvVarOverrides(t *testing.T) {
	t.Setenv("APP_SERVER_PORT", "9090")
	t.Setenv("APP_LOG_LEVEL", "debug")
	t.Setenv("APP_TELEMETRY_ENABLED", "true")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Telemetry.Enabled)
}

// TestLoad_EnvVarKeysWithUnderscores tests that keys such as base_url can be set from env.
func TestLoad_EnvVarKeysWithUnderscores(t *testing.T) {
	t.Setenv("APP_SERVICES_QUOTE_BASE_URL", "http://localhost:4000")
	t.Setenv("APP_CLIENT_TRANSPORT_MAX_IDLE_CONNS", "7")

	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:4000", cfg.Services.Quote.BaseURL)
	assert.Equal(t, 7, cfg.Client.Transport.MaxIdleConns)
}

// TestLoad_ProfileOverridesBase tests file precedence.
func TestLoad_ProfileOverridesBase(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "log:\n  level: warn\n  format: text\nclient:\n  timeout: 5s\n")
	writeFile(t, filepath.Join(dir, "dev.yaml"), "log:\n  level: debug\n")

	cfg, err := LoadFrom(dir, "dev")
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "text", cfg.Log.Format)
	assert.Equal(t, 5*time.Second, cfg.Client.Timeout)
}

// TestLoad_NonExistentProfile tests that a missing profile file doesn't cause errors.
func TestLoad_NonExistentProfile(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "nonexistent")
	require.NoError(t, err)

	assert.Equal(t, "quote-screen", cfg.App.Name)
}

// TestLoad_InvalidYAML tests that parse failures are reported.
func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "base.yaml"), "log: [unterminated\n")

	_, err := LoadFrom(dir, "")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading base config")
}

// TestLoad_DefaultsValidate tests that the defaults form a valid configuration.
func TestLoad_DefaultsValidate(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir(), "")
	require.NoError(t, err)

	assert.NoError(t, cfg.Validate())
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
