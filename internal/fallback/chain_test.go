package fallback

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsfree/webnav/internal/domains"
	"github.com/handsfree/webnav/internal/infrastructure/config"
	"github.com/handsfree/webnav/internal/safety"
	"github.com/handsfree/webnav/internal/shared/types"
)

// stubResolver returns a canned result and records which entry point ran.
type stubResolver struct {
	result     types.ResolutionResult
	freshCalls int
	calls      int
}

func (s *stubResolver) Resolve(_ context.Context, _ string) types.ResolutionResult {
	s.calls++
	return s.result
}

func (s *stubResolver) ResolveFresh(_ context.Context, _ string) types.ResolutionResult {
	s.freshCalls++
	return s.result
}

func newChain(t *testing.T, cfg config.FallbackConfig, res *stubResolver) *Chain {
	t.Helper()
	return New(cfg, res, safety.NewValidator(), domains.NewRegistry(), nil)
}

func fallbackConfig() config.FallbackConfig {
	return config.FallbackConfig{
		SearchEnabled:   true,
		HomepageEnabled: true,
		SearchTemplate:  "https://duckduckgo.com/html/?q=%s",
	}
}

func TestResolutionSuccessShortCircuits(t *testing.T) {
	res := &stubResolver{result: types.ResolutionResult{
		Status:      types.StatusOK,
		ResolvedURL: "https://www.youtube.com/results?search_query=cats",
	}}
	chain := newChain(t, fallbackConfig(), res)

	got := chain.Execute(context.Background(), "youtube cats")

	require.Equal(t, types.FallbackOK, got.Status)
	assert.Equal(t, "https://www.youtube.com/results?search_query=cats", got.FinalURL)
	assert.Equal(t, types.StageResolution, got.FallbackUsed)
	assert.Equal(t, []string{"resolution"}, got.AttemptsMade)
	require.NotNil(t, got.ResolutionDetails)
	assert.Equal(t, types.StatusOK, got.ResolutionDetails.Status)
}

func TestFailedResolutionFallsToSearch(t *testing.T) {
	res := &stubResolver{result: types.ResolutionResult{
		Status:       types.StatusFailed,
		ErrorMessage: "no hyperlink matched the query",
	}}
	chain := newChain(t, fallbackConfig(), res)

	got := chain.Execute(context.Background(), "obscure query here")

	require.Equal(t, types.FallbackOK, got.Status)
	assert.Equal(t, types.StageSearch, got.FallbackUsed)
	assert.Equal(t, "https://duckduckgo.com/html/?q=obscure+query+here", got.FinalURL)
	assert.Equal(t, []string{"resolution", "search"}, got.AttemptsMade)
}

func TestSearchURLEscapesQuery(t *testing.T) {
	res := &stubResolver{result: types.ResolutionResult{Status: types.StatusFailed}}
	chain := newChain(t, fallbackConfig(), res)

	got := chain.Execute(context.Background(), "c++ & go?")

	require.Equal(t, types.FallbackOK, got.Status)
	assert.Equal(t, "https://duckduckgo.com/html/?q=c%2B%2B+%26+go%3F", got.FinalURL)
}

func TestSearchDisabledFallsToHomepage(t *testing.T) {
	cfg := fallbackConfig()
	cfg.SearchEnabled = false
	res := &stubResolver{result: types.ResolutionResult{Status: types.StatusFailed}}
	chain := newChain(t, cfg, res)

	got := chain.Execute(context.Background(), "github pull requests")

	require.Equal(t, types.FallbackOK, got.Status)
	assert.Equal(t, types.StageHomepage, got.FallbackUsed)
	assert.Equal(t, "https://github.com", got.FinalURL)
	assert.Equal(t, []string{"resolution", "homepage"}, got.AttemptsMade)
}

func TestHomepageFromUnknownToken(t *testing.T) {
	cfg := fallbackConfig()
	cfg.SearchEnabled = false
	res := &stubResolver{result: types.ResolutionResult{Status: types.StatusFailed}}
	chain := newChain(t, cfg, res)

	got := chain.Execute(context.Background(), "zombo zombo time")

	require.Equal(t, types.FallbackOK, got.Status)
	assert.Equal(t, "https://zombo.com", got.FinalURL)
}

func TestHomepageFromDottedToken(t *testing.T) {
	cfg := fallbackConfig()
	cfg.SearchEnabled = false
	res := &stubResolver{result: types.ResolutionResult{Status: types.StatusFailed}}
	chain := newChain(t, cfg, res)

	got := chain.Execute(context.Background(), "news.ycombinator.com front page")

	require.Equal(t, types.FallbackOK, got.Status)
	assert.Equal(t, "https://news.ycombinator.com", got.FinalURL)
}

func TestAllStagesDisabled(t *testing.T) {
	cfg := fallbackConfig()
	cfg.SearchEnabled = false
	cfg.HomepageEnabled = false
	res := &stubResolver{result: types.ResolutionResult{
		Status:       types.StatusTimeout,
		ErrorMessage: "navigation deadline exceeded",
	}}
	chain := newChain(t, cfg, res)

	got := chain.Execute(context.Background(), "youtube cats")

	require.Equal(t, types.FallbackAllFailed, got.Status)
	assert.Equal(t, types.StageNone, got.FallbackUsed)
	assert.Empty(t, got.FinalURL)
	assert.Equal(t, []string{"resolution"}, got.AttemptsMade)
	assert.Equal(t, "navigation deadline exceeded", got.ErrorMessage)
	require.NotNil(t, got.ResolutionDetails)
	assert.Equal(t, types.StatusTimeout, got.ResolutionDetails.Status)
}

func TestUnsafeResolvedURLFallsThrough(t *testing.T) {
	res := &stubResolver{result: types.ResolutionResult{
		Status:      types.StatusOK,
		ResolvedURL: "http://169.254.169.254/latest/meta-data/",
	}}
	chain := newChain(t, fallbackConfig(), res)

	got := chain.Execute(context.Background(), "metadata please")

	require.Equal(t, types.FallbackOK, got.Status)
	assert.Equal(t, types.StageSearch, got.FallbackUsed,
		"unsafe resolution result must not become the final url")
	assert.NotContains(t, got.FinalURL, "169.254.169.254")
}

func TestExecuteFreshBypassesCachePath(t *testing.T) {
	res := &stubResolver{result: types.ResolutionResult{
		Status:      types.StatusOK,
		ResolvedURL: "https://example.com",
	}}
	chain := newChain(t, fallbackConfig(), res)

	chain.ExecuteFresh(context.Background(), "example")
	assert.Equal(t, 1, res.freshCalls)
	assert.Equal(t, 0, res.calls)

	chain.Execute(context.Background(), "example")
	assert.Equal(t, 1, res.calls)
}

func TestElapsedRecorded(t *testing.T) {
	res := &stubResolver{result: types.ResolutionResult{Status: types.StatusFailed}}
	chain := newChain(t, fallbackConfig(), res)

	got := chain.Execute(context.Background(), "anything")
	assert.GreaterOrEqual(t, got.ElapsedMS, int64(0))
}
