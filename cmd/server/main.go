package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/GriffinCanCode/TerminAI/bridge/internal/infrastructure/config"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/infrastructure/logging"
	"github.com/GriffinCanCode/TerminAI/bridge/internal/infrastructure/server"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration, using defaults: %v\n", err)
		cfg = config.Default()
	}

	// Parse flags (override env vars)
	port := flag.String("port", cfg.Server.Port, "Server port")
	host := flag.String("host", cfg.Server.Host, "Server host")
	debugPort := flag.Int("debug-port", cfg.Browser.DebugPort, "Chromium remote debugging port")
	debugHost := flag.String("debug-host", cfg.Browser.DebugHost, "Chromium remote debugging host")
	sitesFile := flag.String("sites", cfg.Browser.SitesFile, "Sites file (.yaml, .toml or .json)")
	strategy := flag.String("wait", cfg.Driver.WaitStrategy, "Response wait strategy (fixed or poll)")
	connect := flag.Bool("connect", false, "Connect to the browser at startup")
	dev := flag.Bool("dev", cfg.Logging.Development, "Development mode")
	flag.Parse()

	cfg.Server.Port = *port
	cfg.Server.Host = *host
	cfg.Browser.DebugPort = *debugPort
	cfg.Browser.DebugHost = *debugHost
	cfg.Browser.SitesFile = *sitesFile
	cfg.Driver.WaitStrategy = *strategy
	cfg.Logging.Development = *dev
	if *dev {
		cfg.Logging.Level = "debug"
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(2)
	}

	logger := logging.NewFromLevel(cfg.Logging.Level, cfg.Logging.Development)
	defer logger.Sync()

	logger.Info("TerminAI bridge starting",
		zap.String("host", cfg.Server.Host),
		zap.String("port", cfg.Server.Port),
		zap.String("devtools", cfg.Browser.DebugEndpoint(0)),
		zap.Bool("dev_mode", cfg.Logging.Development),
	)

	// Create server
	srv, err := server.NewServer(cfg, server.WithLogger(logger))
	if err != nil {
		logger.Fatal("Failed to create server", zap.Error(err))
	}

	if *connect {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Browser.ConnectTimeout)
		if _, err := srv.Session().Connect(ctx, cfg.Browser.DebugPort); err != nil {
			logger.Warn("Startup connect failed, waiting for POST /init", zap.Error(err))
		}
		cancel()
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Start server in goroutine
	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Run()
	}()

	// Wait for shutdown signal or error
	select {
	case sig := <-sigChan:
		logger.Info("Shutting down gracefully", zap.String("signal", sig.String()))
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("Error during shutdown", zap.Error(err))
		}
	case err := <-errChan:
		if err != nil {
			logger.Fatal("Server error", zap.Error(err))
		}
	}
}
