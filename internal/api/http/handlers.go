// Package http exposes the resolution service over a small REST surface.
package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/handsfree/webnav/internal/cache"
	"github.com/handsfree/webnav/internal/launcher"
	"github.com/handsfree/webnav/internal/shared/types"
)

// Executor is the single operation the subsystem exposes.
type Executor interface {
	Execute(ctx context.Context, query string) types.FallbackResult
	ExecuteFresh(ctx context.Context, query string) types.FallbackResult
}

// Handlers carries the dependencies of the REST surface.
type Handlers struct {
	chain    Executor
	store    *cache.Cache
	launcher launcher.Launcher
	logger   *zap.Logger
}

// NewHandlers creates the handler set.
func NewHandlers(chain Executor, store *cache.Cache, l launcher.Launcher, logger *zap.Logger) *Handlers {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handlers{
		chain:    chain,
		store:    store,
		launcher: l,
		logger:   logger,
	}
}

// ResolveRequest is the POST /resolve payload.
type ResolveRequest struct {
	Query string `json:"query" binding:"required"`
	// BypassCache forces a fresh attempt, for callers stuck behind a
	// cached failure.
	BypassCache bool `json:"bypass_cache"`
	// Launch opens the final URL in the system browser on success.
	Launch bool `json:"launch"`
}

// ResolveResponse wraps the chain result with launch status.
type ResolveResponse struct {
	types.FallbackResult
	Launched bool   `json:"launched,omitempty"`
	Warning  string `json:"warning,omitempty"`
}

// Resolve handles POST /resolve.
func (h *Handlers) Resolve(c *gin.Context) {
	var req ResolveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	var result types.FallbackResult
	if req.BypassCache {
		result = h.chain.ExecuteFresh(c.Request.Context(), req.Query)
	} else {
		result = h.chain.Execute(c.Request.Context(), req.Query)
	}

	resp := ResolveResponse{FallbackResult: result}
	if req.Launch && result.Status == types.FallbackOK && h.launcher != nil {
		if err := h.launcher.Launch(c.Request.Context(), result.FinalURL); err != nil {
			if errors.Is(err, launcher.ErrUnsafeURL) {
				// Should not happen: the chain validates before returning.
				h.logger.Error("validated url rejected at launch",
					zap.String("url", result.FinalURL))
			}
			resp.Warning = err.Error()
		} else {
			resp.Launched = true
		}
	}

	c.JSON(http.StatusOK, resp)
}

// ClearCache handles DELETE /cache.
func (h *Handlers) ClearCache(c *gin.Context) {
	h.store.Clear()
	c.JSON(http.StatusOK, gin.H{"cleared": true})
}

// Health handles GET /health.
func (h *Handlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"cache_entries": h.store.Len(),
	})
}
