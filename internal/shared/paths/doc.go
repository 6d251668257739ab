// Package paths provides standardized filesystem paths.
//
// This package defines where webnav keeps its on-disk state: the dedicated
// browsing profile for the automated session and the optional known-domain
// overlay file. All filesystem placement goes through these helpers so the
// layout stays consistent and profile directories stay owner-only.
//
// # Directory Structure
//
//	<user cache dir>/webnav/
//	  ├── resolver-profile/        (dedicated browser profile, 0700)
//	  └── domains/
//	      └── known_domains.yaml   (keyword to homepage overlay)
//
// # Usage
//
//	profile, err := paths.ResolverProfile()
//	overlay, err := paths.DomainOverlay()
package paths
