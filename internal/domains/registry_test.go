package domains

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHomepage(t *testing.T) {
	r := NewRegistry()

	page, ok := r.Homepage("youtube")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com", page)

	page, ok = r.Homepage("  GitHub  ")
	require.True(t, ok)
	assert.Equal(t, "https://github.com", page)

	_, ok = r.Homepage("unknown-site")
	assert.False(t, ok)
}

func TestMatch(t *testing.T) {
	r := NewRegistry()

	page, ok := r.Match("youtube cats")
	require.True(t, ok)
	assert.Equal(t, "https://www.youtube.com", page)

	// First known token wins.
	page, ok = r.Match("watch reddit on youtube")
	require.True(t, ok)
	assert.Equal(t, "https://www.reddit.com", page)

	_, ok = r.Match("completely unknown words")
	assert.False(t, ok)

	_, ok = r.Match("")
	assert.False(t, ok)
}

func TestDomainToken(t *testing.T) {
	r := NewRegistry()

	assert.Equal(t, "github", r.DomainToken("browse GitHub issues"))
	assert.Equal(t, "zombo", r.DomainToken("Zombo time!"))
	assert.Equal(t, "news.ycombinator.com", r.DomainToken("news.ycombinator.com front page"))
	assert.Equal(t, "", r.DomainToken("   "))
}

func TestLoadOverlay(t *testing.T) {
	r := NewRegistry()
	before := r.Len()

	path := filepath.Join(t.TempDir(), "known_domains.yaml")
	overlay := "hn: https://news.ycombinator.com\nyoutube: https://youtube.example\n"
	require.NoError(t, os.WriteFile(path, []byte(overlay), 0o600))

	require.NoError(t, r.LoadOverlay(path))
	assert.Equal(t, before+1, r.Len())

	page, ok := r.Homepage("hn")
	require.True(t, ok)
	assert.Equal(t, "https://news.ycombinator.com", page)

	// Overlay entries override seeds.
	page, ok = r.Homepage("youtube")
	require.True(t, ok)
	assert.Equal(t, "https://youtube.example", page)
}

func TestLoadOverlayMissingFile(t *testing.T) {
	r := NewRegistry()
	assert.NoError(t, r.LoadOverlay(filepath.Join(t.TempDir(), "absent.yaml")))
}

func TestLoadOverlayBadYAML(t *testing.T) {
	r := NewRegistry()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("not: [valid: yaml"), 0o600))
	assert.Error(t, r.LoadOverlay(path))
}
