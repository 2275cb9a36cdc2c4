// Package config provides 12-factor configuration management for the bridge.
//
// Configuration is loaded from environment variables with sensible defaults.
// CLI flags can override environment variables for development flexibility.
//
// Configuration Sections:
//   - Server: HTTP server settings (port, host, shutdown timeout)
//   - Browser: DevTools endpoint of the remote browser and the sites file
//   - Driver: settle, input, response and switch delays; wait strategy
//   - Logging: Log level and output format
//   - RateLimit: Per-IP rate limiting configuration
//
// Example Usage:
//
//	cfg, err := config.Load()
//	if err != nil {
//		cfg = config.Default()
//	}
//	fmt.Printf("Server running on %s:%s\n", cfg.Server.Host, cfg.Server.Port)
//
// Environment Variables:
//   - PORT, HOST, SHUTDOWN_TIMEOUT
//   - BROWSER_DEBUG_HOST, BROWSER_DEBUG_PORT, BROWSER_CONNECT_TIMEOUT, BROWSER_PROBE, BROWSER_SITES_FILE
//   - DRIVER_SETTLE_DELAY, DRIVER_INPUT_DELAY, DRIVER_RESPONSE_DELAY, DRIVER_SWITCH_DELAY
//   - DRIVER_WAIT_STRATEGY, DRIVER_POLL_INTERVAL, DRIVER_NAVIGATION_TIMEOUT
//   - LOG_LEVEL, LOG_DEV
//   - RATE_LIMIT_RPS, RATE_LIMIT_BURST, RATE_LIMIT_ENABLED
package config
