// Package main is the entry point for the TerminAI browser bridge.
//
// The bridge attaches to a Chromium started with --remote-debugging-port
// and lets editor extensions ask chat sites questions over HTTP:
//
//	Extension → bridge (HTTP :3000) → Chromium (CDP :9222) → chat site
//
// Configuration:
//   - Environment variables (12-factor)
//   - CLI flags (override env vars)
//   - Defaults matching the editor extension
//
// Usage:
//
//	# Production mode
//	./server -port 3000 -debug-port 9222
//
//	# Development mode (colored logs, debug level)
//	./server -dev
//
//	# Attach at startup instead of waiting for POST /init
//	./server -connect
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
