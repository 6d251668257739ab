// Package safety gates every URL this subsystem hands to the launch adapter.
// Fallback-generated URLs are validated exactly like resolved links: a
// homepage built from query text can point at an internal address just as
// easily as a scanned anchor.
package safety

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// MaxURLLength bounds accepted URLs.
const MaxURLLength = 2048

// metadataAddr is the cloud instance metadata endpoint. It is link-local and
// would be caught by the range check, but it is the single most valuable SSRF
// target and deserves an explicit rejection.
var metadataAddr = netip.MustParseAddr("169.254.169.254")

// Validator validates URLs before they leave the subsystem.
type Validator struct{}

// NewValidator creates a URL validator.
func NewValidator() *Validator {
	return &Validator{}
}

// IsSafe reports whether url may be opened.
func (v *Validator) IsSafe(rawURL string) bool {
	return v.Check(rawURL) == nil
}

// Check validates url and returns the reason it is rejected.
func (v *Validator) Check(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("empty url")
	}
	if len(rawURL) > MaxURLLength {
		return fmt.Errorf("url exceeds maximum length of %d", MaxURLLength)
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("unparsable url: %w", err)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if scheme != "http" && scheme != "https" {
		return fmt.Errorf("scheme %q not allowed", parsed.Scheme)
	}

	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return fmt.Errorf("url has no host")
	}
	if host == "localhost" || strings.HasSuffix(host, ".localhost") {
		return fmt.Errorf("localhost is not a valid target")
	}

	// Bracketed IPv6 literals come back from Hostname() unbracketed.
	if addr, err := netip.ParseAddr(host); err == nil {
		return checkAddr(addr.Unmap())
	}

	return nil
}

// checkAddr rejects addresses that point inside the local network.
func checkAddr(addr netip.Addr) error {
	switch {
	case addr == metadataAddr:
		return fmt.Errorf("cloud metadata address is not a valid target")
	case addr.IsLoopback():
		return fmt.Errorf("loopback address is not a valid target")
	case addr.IsPrivate():
		return fmt.Errorf("private address %s is not a valid target", addr)
	case addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast():
		return fmt.Errorf("link-local address %s is not a valid target", addr)
	case addr.IsUnspecified():
		return fmt.Errorf("unspecified address is not a valid target")
	}
	return nil
}
