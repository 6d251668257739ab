// Package driver is the browser automation boundary for target resolution.
//
// Two implementations are provided: Chrome drives a real headless browser
// over the DevTools protocol against a persistent, owner-only profile, and
// Static fetches pages over plain HTTP for environments without a browser
// binary. Neither is safe for concurrent use; the resolver serializes all
// page-touching calls behind its own lock.
package driver

import "context"

// Anchor is one hyperlink as it appears in the rendered page. Href is the
// raw attribute value; resolving it against the page address happens in the
// calling process, never inside the page.
type Anchor struct {
	Href      string
	Text      string
	AriaLabel string
}

// Driver abstracts an automated browser session.
type Driver interface {
	// Start brings up the underlying session. Calling Start on a started
	// driver is a no-op.
	Start(ctx context.Context) error
	// Navigate loads a URL and waits until the page is interactive.
	Navigate(ctx context.Context, url string) error
	// Location returns the page's current address.
	Location(ctx context.Context) (string, error)
	// Anchors returns up to limit hyperlinks from the rendered page, in
	// document order.
	Anchors(ctx context.Context, limit int) ([]Anchor, error)
	// Close tears the session down.
	Close() error
}
