package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/handsfree/webnav/internal/cache"
	"github.com/handsfree/webnav/internal/shared/types"
)

type stubExecutor struct {
	result     types.FallbackResult
	freshCalls int
	calls      int
}

func (s *stubExecutor) Execute(context.Context, string) types.FallbackResult {
	s.calls++
	return s.result
}

func (s *stubExecutor) ExecuteFresh(context.Context, string) types.FallbackResult {
	s.freshCalls++
	return s.result
}

type stubLauncher struct {
	launched []string
	err      error
}

func (s *stubLauncher) Launch(_ context.Context, url string) error {
	if s.err != nil {
		return s.err
	}
	s.launched = append(s.launched, url)
	return nil
}

func newRouter(exec *stubExecutor, l *stubLauncher) (*gin.Engine, *cache.Cache) {
	gin.SetMode(gin.TestMode)
	store := cache.New(time.Minute, 10)
	h := NewHandlers(exec, store, l, nil)

	router := gin.New()
	router.POST("/resolve", h.Resolve)
	router.DELETE("/cache", h.ClearCache)
	router.GET("/health", h.Health)
	return router, store
}

func postResolve(t *testing.T, router *gin.Engine, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/resolve", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func okChainResult() types.FallbackResult {
	return types.FallbackResult{
		Status:       types.FallbackOK,
		FinalURL:     "https://example.com",
		FallbackUsed: types.StageResolution,
		AttemptsMade: []string{"resolution"},
	}
}

func TestResolve(t *testing.T) {
	exec := &stubExecutor{result: okChainResult()}
	router, _ := newRouter(exec, &stubLauncher{})

	w := postResolve(t, router, `{"query": "youtube cats"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.FallbackOK, resp.Status)
	assert.Equal(t, "https://example.com", resp.FinalURL)
	assert.False(t, resp.Launched)
	assert.Equal(t, 1, exec.calls)
	assert.Equal(t, 0, exec.freshCalls)
}

func TestResolveMissingQuery(t *testing.T) {
	exec := &stubExecutor{result: okChainResult()}
	router, _ := newRouter(exec, &stubLauncher{})

	w := postResolve(t, router, `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
	assert.Equal(t, 0, exec.calls)

	w = postResolve(t, router, `not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "invalid request body")
}

func TestResolveBypassCache(t *testing.T) {
	exec := &stubExecutor{result: okChainResult()}
	router, _ := newRouter(exec, &stubLauncher{})

	w := postResolve(t, router, `{"query": "youtube cats", "bypass_cache": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, exec.calls)
	assert.Equal(t, 1, exec.freshCalls)
}

func TestResolveWithLaunch(t *testing.T) {
	exec := &stubExecutor{result: okChainResult()}
	l := &stubLauncher{}
	router, _ := newRouter(exec, l)

	w := postResolve(t, router, `{"query": "youtube cats", "launch": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Launched)
	assert.Equal(t, []string{"https://example.com"}, l.launched)
}

func TestResolveLaunchFailureIsAWarning(t *testing.T) {
	exec := &stubExecutor{result: okChainResult()}
	l := &stubLauncher{err: assert.AnError}
	router, _ := newRouter(exec, l)

	w := postResolve(t, router, `{"query": "youtube cats", "launch": true}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Launched)
	assert.NotEmpty(t, resp.Warning)
	assert.Equal(t, "https://example.com", resp.FinalURL,
		"launch failure does not void the resolution")
}

func TestResolveNoLaunchOnFailure(t *testing.T) {
	exec := &stubExecutor{result: types.FallbackResult{
		Status:       types.FallbackAllFailed,
		FallbackUsed: types.StageNone,
		ErrorMessage: "all fallback strategies exhausted",
	}}
	l := &stubLauncher{}
	router, _ := newRouter(exec, l)

	w := postResolve(t, router, `{"query": "youtube cats", "launch": true}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, l.launched)

	var resp ResolveResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, types.FallbackAllFailed, resp.Status)
}

func TestClearCache(t *testing.T) {
	router, store := newRouter(&stubExecutor{result: okChainResult()}, &stubLauncher{})
	store.Put("q", types.ResolutionResult{Status: types.StatusOK, ResolvedURL: "https://example.com"})
	require.Equal(t, 1, store.Len())

	req := httptest.NewRequest(http.MethodDelete, "/cache", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, store.Len())
}

func TestHealth(t *testing.T) {
	router, store := newRouter(&stubExecutor{result: okChainResult()}, &stubLauncher{})
	store.Put("q", types.ResolutionResult{Status: types.StatusOK, ResolvedURL: "https://example.com"})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
	assert.EqualValues(t, 1, body["cache_entries"])
}
