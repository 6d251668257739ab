/*
Package resilience provides circuit breaker implementation for graceful degradation.

# Overview

This package implements the circuit breaker pattern to keep outbound page
fetches from hammering a dependency that is down or badly degraded.

# Features

- Three-state circuit breaker (Closed, Open, Half-Open)
- Consecutive-failure threshold with cool-off probing
- State change callbacks for monitoring
- Thread-safe operations

# Usage

	// Create a circuit breaker
	breaker := resilience.New("static-fetch", resilience.Settings{
		FailureThreshold: 5,
		CoolOff:          30 * time.Second,
		OnStateChange: func(name string, from, to resilience.State) {
			log.Printf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	// Execute request through breaker
	err := breaker.Execute(func() error {
		return client.Fetch()
	})

# States

- Closed: Normal operation, requests pass through
- Open: Dependency unavailable, requests fail immediately with ErrCircuitOpen
- Half-Open: Cool-off elapsed, the next request probes the dependency

# Pattern

	Closed --[failures]-> Open --[cool-off]-> Half-Open --[success]-> Closed
	                                            |
	                                        [failure]
	                                            |
	                                            v
	                                          Open
*/
package resilience
