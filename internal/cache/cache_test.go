package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsfree/webnav/internal/shared/types"
)

func okResult(url string) types.ResolutionResult {
	return types.ResolutionResult{
		Status:      types.StatusOK,
		ResolvedURL: url,
	}
}

func TestRoundTrip(t *testing.T) {
	c := New(time.Minute, 10)

	want := okResult("https://example.com")
	c.Put("youtube cats", want)

	got, ok := c.Get("youtube cats")
	require.True(t, ok)
	assert.Equal(t, want, got)
}

func TestKeyNormalization(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("  YouTube Cats  ", okResult("https://example.com"))

	_, ok := c.Get("youtube cats")
	assert.True(t, ok, "normalized lookup should hit")

	_, ok = c.Get("YOUTUBE CATS")
	assert.True(t, ok, "casefolded lookup should hit")
}

func TestNormalizeKeyBounded(t *testing.T) {
	long := ""
	for i := 0; i < 100; i++ {
		long += "0123456789"
	}
	assert.Len(t, NormalizeKey(long), MaxKeyLength)
}

func TestExpiry(t *testing.T) {
	c := New(time.Minute, 10)

	now := time.Now()
	c.clock = func() time.Time { return now }
	c.Put("q", okResult("https://example.com"))

	_, ok := c.Get("q")
	require.True(t, ok)

	// Advance past the TTL; the entry must be gone and removed on the way.
	now = now.Add(2 * time.Minute)
	_, ok = c.Get("q")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Len())
}

func TestLRUEviction(t *testing.T) {
	c := New(time.Minute, 3)

	for i := 0; i < 3; i++ {
		c.Put(fmt.Sprintf("query %d", i), okResult("https://example.com"))
	}

	// Touch query 0 so query 1 becomes least recently used.
	_, ok := c.Get("query 0")
	require.True(t, ok)

	c.Put("query 3", okResult("https://example.com"))
	assert.Equal(t, 3, c.Len(), "capacity is a hard bound")

	_, ok = c.Get("query 1")
	assert.False(t, ok, "least-recently-used entry evicted")

	for _, q := range []string{"query 0", "query 2", "query 3"} {
		_, ok := c.Get(q)
		assert.True(t, ok, "%s should survive", q)
	}
}

func TestPutSweepsExpiredBeforeEvicting(t *testing.T) {
	c := New(time.Minute, 2)

	now := time.Now()
	c.clock = func() time.Time { return now }

	c.Put("old", okResult("https://old.example"))
	now = now.Add(2 * time.Minute)
	c.Put("fresh", okResult("https://fresh.example"))

	// The expired entry was swept, so "fresh" did not evict anything live.
	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("fresh")
	assert.True(t, ok)
}

func TestRePutRefreshes(t *testing.T) {
	c := New(time.Minute, 2)

	now := time.Now()
	c.clock = func() time.Time { return now }

	c.Put("a", okResult("https://a.example"))
	c.Put("b", okResult("https://b.example"))

	// Re-putting "a" makes it most recently used and resets its clock.
	now = now.Add(30 * time.Second)
	c.Put("a", okResult("https://a2.example"))

	c.Put("c", okResult("https://c.example"))
	_, ok := c.Get("b")
	assert.False(t, ok, "b was least recently used")

	got, ok := c.Get("a")
	require.True(t, ok)
	assert.Equal(t, "https://a2.example", got.ResolvedURL)
}

func TestLenIncludesUnsweptExpired(t *testing.T) {
	c := New(time.Minute, 10)

	now := time.Now()
	c.clock = func() time.Time { return now }
	c.Put("q", okResult("https://example.com"))

	now = now.Add(2 * time.Minute)
	assert.Equal(t, 1, c.Len(), "expired entries count until swept")
}

func TestClear(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("a", okResult("https://a.example"))
	c.Put("b", okResult("https://b.example"))

	c.Clear()
	assert.Equal(t, 0, c.Len())
	_, ok := c.Get("a")
	assert.False(t, ok)
}

func TestFailuresAreCached(t *testing.T) {
	c := New(time.Minute, 10)

	failed := types.ResolutionResult{
		Status:       types.StatusFailed,
		ErrorMessage: "no hyperlink matched the query",
	}
	c.Put("nope", failed)

	got, ok := c.Get("nope")
	require.True(t, ok)
	assert.Equal(t, types.StatusFailed, got.Status)
}

func TestEmptyKeyIgnored(t *testing.T) {
	c := New(time.Minute, 10)
	c.Put("   ", okResult("https://example.com"))
	assert.Equal(t, 0, c.Len())
}
