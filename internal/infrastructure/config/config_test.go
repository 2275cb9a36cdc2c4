package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "3000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)

	// Browser config
	assert.Equal(t, "localhost", cfg.Browser.DebugHost)
	assert.Equal(t, 9222, cfg.Browser.DebugPort)
	assert.True(t, cfg.Browser.Probe)
	assert.Empty(t, cfg.Browser.SitesFile)
	assert.True(t, cfg.Browser.InstallDriver)

	// Driver delays
	assert.Equal(t, 3*time.Second, cfg.Driver.SettleDelay)
	assert.Equal(t, 1*time.Second, cfg.Driver.InputDelay)
	assert.Equal(t, 10*time.Second, cfg.Driver.ResponseDelay)
	assert.Equal(t, 2*time.Second, cfg.Driver.SwitchDelay)
	assert.Equal(t, WaitFixed, cfg.Driver.WaitStrategy)

	// Logging config
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.False(t, cfg.Logging.Development)

	// Rate limit config
	assert.Equal(t, 10, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 20, cfg.RateLimit.Burst)
	assert.True(t, cfg.RateLimit.Enabled)

	assert.NoError(t, cfg.Validate())
}

var managedEnv = []string{
	"PORT", "HOST", "SHUTDOWN_TIMEOUT",
	"BROWSER_DEBUG_HOST", "BROWSER_DEBUG_PORT", "BROWSER_CONNECT_TIMEOUT", "BROWSER_PROBE", "BROWSER_SITES_FILE", "BROWSER_INSTALL_DRIVER",
	"DRIVER_SETTLE_DELAY", "DRIVER_INPUT_DELAY", "DRIVER_RESPONSE_DELAY", "DRIVER_SWITCH_DELAY",
	"DRIVER_WAIT_STRATEGY", "DRIVER_POLL_INTERVAL", "DRIVER_NAVIGATION_TIMEOUT",
	"LOG_LEVEL", "LOG_DEV", "RATE_LIMIT_RPS", "RATE_LIMIT_BURST", "RATE_LIMIT_ENABLED",
}

// clearEnv unsets every variable Load reads and restores them after the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedEnv {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadMatchesDefault(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                  "9000",
		"HOST":                  "127.0.0.1",
		"BROWSER_DEBUG_HOST":    "host.containers.internal",
		"BROWSER_DEBUG_PORT":    "9333",
		"BROWSER_PROBE":         "false",
		"BROWSER_SITES_FILE":    "/etc/bridge/sites.yaml",
		"DRIVER_SETTLE_DELAY":   "500ms",
		"DRIVER_RESPONSE_DELAY": "20s",
		"DRIVER_WAIT_STRATEGY":  "poll",
		"DRIVER_POLL_INTERVAL":  "250ms",
		"LOG_LEVEL":             "debug",
		"LOG_DEV":               "true",
		"RATE_LIMIT_RPS":        "50",
		"RATE_LIMIT_BURST":      "100",
		"RATE_LIMIT_ENABLED":    "false",
	}
	clearEnv(t)
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, "host.containers.internal", cfg.Browser.DebugHost)
	assert.Equal(t, 9333, cfg.Browser.DebugPort)
	assert.False(t, cfg.Browser.Probe)
	assert.Equal(t, "/etc/bridge/sites.yaml", cfg.Browser.SitesFile)
	assert.Equal(t, 500*time.Millisecond, cfg.Driver.SettleDelay)
	assert.Equal(t, 20*time.Second, cfg.Driver.ResponseDelay)
	assert.Equal(t, WaitPoll, cfg.Driver.WaitStrategy)
	assert.Equal(t, 250*time.Millisecond, cfg.Driver.PollInterval)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.True(t, cfg.Logging.Development)
	assert.Equal(t, 50, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, 100, cfg.RateLimit.Burst)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"port not a number", "PORT", "http"},
		{"port out of range", "PORT", "70000"},
		{"debug port zero", "BROWSER_DEBUG_PORT", "0"},
		{"negative delay", "DRIVER_INPUT_DELAY", "-1s"},
		{"unknown strategy", "DRIVER_WAIT_STRATEGY", "event"},
		{"bad duration", "DRIVER_SETTLE_DELAY", "soon"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestPollStrategyNeedsInterval(t *testing.T) {
	cfg := Default()
	cfg.Driver.WaitStrategy = WaitPoll
	cfg.Driver.PollInterval = 0
	assert.Error(t, cfg.Validate())
}

func TestDebugEndpoint(t *testing.T) {
	b := Default().Browser

	assert.Equal(t, "http://localhost:9222", b.DebugEndpoint(0))
	assert.Equal(t, "http://localhost:9333", b.DebugEndpoint(9333))

	b.DebugHost = "127.0.0.1"
	assert.Equal(t, "http://127.0.0.1:9222", b.DebugEndpoint(0))
}

func TestValidateDebugPort(t *testing.T) {
	assert.NoError(t, ValidateDebugPort(9222))
	assert.Error(t, ValidateDebugPort(0))
	assert.Error(t, ValidateDebugPort(-1))
	assert.Error(t, ValidateDebugPort(65536))
}
