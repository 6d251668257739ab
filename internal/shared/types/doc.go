// Package types provides shared data structures for the resolution pipeline.
//
// This package defines the results that cross component boundaries, keeping
// the resolver, cache, fallback chain and HTTP surface free of import cycles.
//
// Core Types:
//   - ResolutionResult: Outcome of one browser resolution attempt
//   - FallbackResult: Final outcome after the fallback chain ran
//   - LinkCandidate: A scanned hyperlink with its ranking inputs
//
// Enumerations:
//   - ResolutionStatus: ok, failed, timeout
//   - SelectionReason: text_match, aria_label, position
//   - FallbackStage: resolution, search, homepage, none
//   - FallbackStatus: ok, all_failed
package types
