package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Wait strategies for the response wait of an ask.
const (
	WaitFixed = "fixed"
	WaitPoll  = "poll"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Browser   BrowserConfig
	Driver    DriverConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"3000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"15s"`
}

// BrowserConfig holds remote browser connection settings.
type BrowserConfig struct {
	DebugHost      string        `envconfig:"BROWSER_DEBUG_HOST" default:"localhost"`
	DebugPort      int           `envconfig:"BROWSER_DEBUG_PORT" default:"9222"`
	ConnectTimeout time.Duration `envconfig:"BROWSER_CONNECT_TIMEOUT" default:"30s"`
	Probe          bool          `envconfig:"BROWSER_PROBE" default:"true"`
	SitesFile      string        `envconfig:"BROWSER_SITES_FILE"`
	InstallDriver  bool          `envconfig:"BROWSER_INSTALL_DRIVER" default:"true"`
}

// DriverConfig holds the page interaction timings.
type DriverConfig struct {
	SettleDelay       time.Duration `envconfig:"DRIVER_SETTLE_DELAY" default:"3s"`
	InputDelay        time.Duration `envconfig:"DRIVER_INPUT_DELAY" default:"1s"`
	ResponseDelay     time.Duration `envconfig:"DRIVER_RESPONSE_DELAY" default:"10s"`
	SwitchDelay       time.Duration `envconfig:"DRIVER_SWITCH_DELAY" default:"2s"`
	WaitStrategy      string        `envconfig:"DRIVER_WAIT_STRATEGY" default:"fixed"`
	PollInterval      time.Duration `envconfig:"DRIVER_POLL_INTERVAL" default:"500ms"`
	NavigationTimeout time.Duration `envconfig:"DRIVER_NAVIGATION_TIMEOUT" default:"30s"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"10"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"20"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "3000",
			Host:            "0.0.0.0",
			ShutdownTimeout: 15 * time.Second,
		},
		Browser: BrowserConfig{
			DebugHost:      "localhost",
			DebugPort:      9222,
			ConnectTimeout: 30 * time.Second,
			Probe:          true,
			InstallDriver:  true,
		},
		Driver: DriverConfig{
			SettleDelay:       3 * time.Second,
			InputDelay:        1 * time.Second,
			ResponseDelay:     10 * time.Second,
			SwitchDelay:       2 * time.Second,
			WaitStrategy:      WaitFixed,
			PollInterval:      500 * time.Millisecond,
			NavigationTimeout: 30 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 10,
			Burst:             20,
			Enabled:           true,
		},
	}
}

// Validate checks values envconfig cannot express.
func (c *Config) Validate() error {
	port, err := strconv.Atoi(c.Server.Port)
	if err != nil || port < 1 || port > 65535 {
		return fmt.Errorf("invalid server port %q", c.Server.Port)
	}
	if err := ValidateDebugPort(c.Browser.DebugPort); err != nil {
		return err
	}

	d := c.Driver
	for name, v := range map[string]time.Duration{
		"settle delay":   d.SettleDelay,
		"input delay":    d.InputDelay,
		"response delay": d.ResponseDelay,
		"switch delay":   d.SwitchDelay,
	} {
		if v < 0 {
			return fmt.Errorf("driver %s must not be negative", name)
		}
	}
	switch d.WaitStrategy {
	case WaitFixed:
	case WaitPoll:
		if d.PollInterval <= 0 {
			return fmt.Errorf("driver poll interval must be positive")
		}
	default:
		return fmt.Errorf("unknown driver wait strategy %q", d.WaitStrategy)
	}

	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate limit rps and burst must be positive")
	}
	return nil
}

// ValidateDebugPort checks a DevTools port number.
func ValidateDebugPort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("invalid debug port %d", port)
	}
	return nil
}

// DebugEndpoint returns the DevTools HTTP endpoint for port.
func (b BrowserConfig) DebugEndpoint(port int) string {
	if port == 0 {
		port = b.DebugPort
	}
	return fmt.Sprintf("http://%s:%d", b.DebugHost, port)
}
