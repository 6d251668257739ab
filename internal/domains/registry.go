// Package domains maps well-known site keywords to their homepages so
// queries like "youtube cats" start navigation on the right site instead of
// a generic page.
package domains

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/goccy/go-yaml"
)

// seeded is the built-in keyword to homepage map. Overlay files extend or
// override it; they never remove the seeds.
var seeded = map[string]string{
	"youtube":       "https://www.youtube.com",
	"google":        "https://www.google.com",
	"gmail":         "https://mail.google.com",
	"maps":          "https://maps.google.com",
	"github":        "https://github.com",
	"wikipedia":     "https://www.wikipedia.org",
	"reddit":        "https://www.reddit.com",
	"amazon":        "https://www.amazon.com",
	"twitter":       "https://twitter.com",
	"facebook":      "https://www.facebook.com",
	"instagram":     "https://www.instagram.com",
	"netflix":       "https://www.netflix.com",
	"spotify":       "https://open.spotify.com",
	"stackoverflow": "https://stackoverflow.com",
	"linkedin":      "https://www.linkedin.com",
	"twitch":        "https://www.twitch.tv",
	"ebay":          "https://www.ebay.com",
	"weather":       "https://weather.com",
	"news":          "https://news.google.com",
}

// Registry resolves query keywords to known homepages.
type Registry struct {
	mu        sync.RWMutex
	homepages map[string]string
}

// NewRegistry creates a registry seeded with the built-in domains.
func NewRegistry() *Registry {
	pages := make(map[string]string, len(seeded))
	for k, v := range seeded {
		pages[k] = v
	}
	return &Registry{homepages: pages}
}

// Homepage returns the homepage for an exact keyword.
func (r *Registry) Homepage(keyword string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	page, ok := r.homepages[strings.ToLower(strings.TrimSpace(keyword))]
	return page, ok
}

// Match scans query tokens in order and returns the homepage of the first
// known keyword.
func (r *Registry) Match(query string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, token := range strings.Fields(strings.ToLower(query)) {
		if page, ok := r.homepages[token]; ok {
			return page, true
		}
	}
	return "", false
}

// DomainToken returns the best-guess bare domain token for a query: the
// first known keyword, else the first token.
func (r *Registry) DomainToken(query string) string {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return ""
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, token := range tokens {
		if _, ok := r.homepages[token]; ok {
			return token
		}
	}
	return sanitizeToken(tokens[0])
}

// Len reports the number of known keywords.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.homepages)
}

// LoadOverlay merges a keyword: homepage YAML file over the seeds. A missing
// file is not an error; users without an overlay get the defaults.
func (r *Registry) LoadOverlay(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read domain overlay: %w", err)
	}

	overlay := make(map[string]string)
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return fmt.Errorf("failed to parse domain overlay: %w", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	for keyword, page := range overlay {
		keyword = strings.ToLower(strings.TrimSpace(keyword))
		if keyword == "" || page == "" {
			continue
		}
		r.homepages[keyword] = page
	}
	return nil
}

// sanitizeToken strips characters that cannot appear in a hostname. Dots
// survive so queries naming a full domain keep it intact.
func sanitizeToken(token string) string {
	var b strings.Builder
	for _, r := range token {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '.' {
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-.")
}
