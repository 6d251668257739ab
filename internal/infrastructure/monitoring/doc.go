/*
Package monitoring provides performance monitoring and metrics collection.

# Overview

This package implements Prometheus-based metrics collection for the
resolution service, tracking HTTP requests, resolution attempts, fallback
stage outcomes and cache effectiveness.

# Features

- HTTP request metrics (latency, throughput)
- Resolution metrics (status, duration)
- Fallback stage counters (stage, outcome)
- Cache hit/miss counters
- System metrics (uptime)

# Usage

	// Create metrics collector
	metrics := monitoring.NewMetrics()

	// Add middleware to Gin router
	router.Use(monitoring.Middleware(metrics))

	// Record resolution outcomes
	metrics.Resolutions.WithLabelValues("ok").Inc()
	metrics.CacheHits.Inc()

# Metrics Endpoint

Expose metrics via the standard Prometheus endpoint:

	import "github.com/prometheus/client_golang/prometheus/promhttp"
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
*/
package monitoring
