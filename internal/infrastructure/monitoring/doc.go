/*
Package monitoring provides Prometheus metrics for the bridge.

# Overview

Each Metrics value owns a private prometheus.Registry, so building a second
server in the same process (tests do this constantly) never panics on
duplicate registration.

# Metrics

- HTTP request count, latency and sizes by route template
- Browser session gauge and connect attempts by result
- Asks by site and outcome (answered, not_found or an error kind) with latency
- Site switches by site and result
- Which candidate selector matched at each interaction stage

# Usage

	metrics := monitoring.NewMetrics()
	router.Use(monitoring.Middleware(metrics))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))
*/
package monitoring
