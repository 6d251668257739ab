// Package main is the entry point for the webnav resolution server.
//
// The server turns short natural-language queries ("youtube cats") into
// concrete, validated URLs by driving an automated browser session and
// ranking the hyperlinks found on candidate pages.
//
// Pipeline:
//
//	Query → Cache → Resolver (browser session) → Fallback chain → Safety validator
//
// The server provides:
//   - REST API for target resolution
//   - Result cache with TTL and LRU eviction
//   - Fallback to web search and homepage guesses
//   - SSRF-guarded URL validation before any URL leaves the process
//   - Optional launch of the final URL in the system browser
//
// Configuration:
//   - Environment variables (12-factor)
//   - Defaults for development
//
// Usage:
//
//	# Default port 8600, headless Chrome driver
//	./server
//
//	# Plain HTTP fetching, no browser binary required
//	RESOLVER_DRIVER=static ./server
//
// Signals:
//   - SIGINT, SIGTERM: Graceful shutdown
package main
