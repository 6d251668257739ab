// Package server provides HTTP server setup and initialization for webnav.
//
// This package orchestrates all components:
//   - HTTP routing with Gin framework
//   - Middleware stack (CORS, rate limiting, recovery, metrics)
//   - Browser driver construction (Chrome or static HTTP)
//   - Resolver, cache, fallback chain and launcher wiring
//
// Server Lifecycle:
//  1. Load configuration from environment
//  2. Initialize logger (production or development)
//  3. Load the known-domain registry and optional overlay
//  4. Build the browser driver and resolver
//  5. Setup HTTP routes and middleware
//  6. Start HTTP server
//  7. Graceful shutdown on signal: drain HTTP, then close the browser
//
// Example Usage:
//
//	cfg := config.LoadOrDefault()
//	srv, err := server.New(cfg)
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
