// Package fallback wraps direct resolution with increasingly generic
// strategies: a web search for the raw query, then a bare-domain homepage
// guess. Each stage is independently toggleable and every attempt is
// recorded for observability.
package fallback

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/handsfree/webnav/internal/domains"
	"github.com/handsfree/webnav/internal/infrastructure/config"
	"github.com/handsfree/webnav/internal/infrastructure/monitoring"
	"github.com/handsfree/webnav/internal/shared/types"
)

// TargetResolver is the direct-resolution stage.
type TargetResolver interface {
	Resolve(ctx context.Context, query string) types.ResolutionResult
	ResolveFresh(ctx context.Context, query string) types.ResolutionResult
}

// URLValidator gates every URL the chain produces.
type URLValidator interface {
	IsSafe(url string) bool
	Check(url string) error
}

// Chain executes the fallback strategies in fixed order.
type Chain struct {
	cfg      config.FallbackConfig
	resolver TargetResolver
	safety   URLValidator
	registry *domains.Registry
	logger   *zap.Logger
	metrics  *monitoring.Metrics
}

// New creates a fallback chain.
func New(cfg config.FallbackConfig, resolver TargetResolver, safety URLValidator, registry *domains.Registry, logger *zap.Logger) *Chain {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Chain{
		cfg:      cfg,
		resolver: resolver,
		safety:   safety,
		registry: registry,
		logger:   logger.With(zap.String("component", "fallback")),
	}
}

// WithMetrics attaches a metrics collector.
func (c *Chain) WithMetrics(m *monitoring.Metrics) *Chain {
	c.metrics = m
	return c
}

// Execute is the single operation this subsystem exposes: query in, final
// URL or structured failure out.
func (c *Chain) Execute(ctx context.Context, query string) types.FallbackResult {
	return c.run(ctx, query, false)
}

// ExecuteFresh bypasses the resolution cache, for callers that got a cached
// failure and want a real retry.
func (c *Chain) ExecuteFresh(ctx context.Context, query string) types.FallbackResult {
	return c.run(ctx, query, true)
}

func (c *Chain) run(ctx context.Context, query string, fresh bool) types.FallbackResult {
	began := time.Now()
	attempts := make([]string, 0, 3)
	var lastErr string

	// Stage 1: direct resolution.
	attempts = append(attempts, string(types.StageResolution))
	var resolution types.ResolutionResult
	if fresh {
		resolution = c.resolver.ResolveFresh(ctx, query)
	} else {
		resolution = c.resolver.Resolve(ctx, query)
	}

	if resolution.OK() {
		if err := c.safety.Check(resolution.ResolvedURL); err != nil {
			lastErr = fmt.Sprintf("resolved url rejected: %v", err)
			c.observe(types.StageResolution, "unsafe")
			c.logger.Warn("resolved url failed validation",
				zap.String("query", query),
				zap.String("url", resolution.ResolvedURL),
				zap.Error(err))
		} else {
			c.observe(types.StageResolution, "ok")
			return c.success(types.StageResolution, resolution.ResolvedURL, attempts, &resolution, began)
		}
	} else {
		lastErr = resolution.ErrorMessage
		c.observe(types.StageResolution, string(resolution.Status))
	}

	// Stage 2: generic web search. Once attempted this is a last-resort
	// success, not a probe.
	if c.cfg.SearchEnabled {
		attempts = append(attempts, string(types.StageSearch))
		searchURL := c.searchURL(query)
		if err := c.safety.Check(searchURL); err != nil {
			lastErr = fmt.Sprintf("search url rejected: %v", err)
			c.observe(types.StageSearch, "unsafe")
		} else {
			c.observe(types.StageSearch, "ok")
			return c.success(types.StageSearch, searchURL, attempts, &resolution, began)
		}
	}

	// Stage 3: bare-domain homepage guess.
	if c.cfg.HomepageEnabled {
		attempts = append(attempts, string(types.StageHomepage))
		homeURL := c.homepageURL(query)
		if homeURL == "" {
			lastErr = "no domain token in query"
			c.observe(types.StageHomepage, "failed")
		} else if err := c.safety.Check(homeURL); err != nil {
			lastErr = fmt.Sprintf("homepage url rejected: %v", err)
			c.observe(types.StageHomepage, "unsafe")
		} else {
			c.observe(types.StageHomepage, "ok")
			return c.success(types.StageHomepage, homeURL, attempts, &resolution, began)
		}
	}

	if lastErr == "" {
		lastErr = "all fallback strategies exhausted"
	}
	c.logger.Warn("all fallback strategies exhausted",
		zap.String("query", query),
		zap.Strings("attempts", attempts))

	return types.FallbackResult{
		Status:            types.FallbackAllFailed,
		FallbackUsed:      types.StageNone,
		AttemptsMade:      attempts,
		ResolutionDetails: &resolution,
		ElapsedMS:         time.Since(began).Milliseconds(),
		ErrorMessage:      lastErr,
	}
}

// searchURL percent-encodes the query into the configured template.
func (c *Chain) searchURL(query string) string {
	return fmt.Sprintf(c.cfg.SearchTemplate, url.QueryEscape(strings.TrimSpace(query)))
}

// homepageURL builds https://{domain} from the best-guess domain token.
func (c *Chain) homepageURL(query string) string {
	if c.registry != nil {
		if page, ok := c.registry.Match(query); ok {
			return page
		}
	}

	token := ""
	if c.registry != nil {
		token = c.registry.DomainToken(query)
	} else if fields := strings.Fields(strings.ToLower(query)); len(fields) > 0 {
		token = fields[0]
	}
	if token == "" {
		return ""
	}
	if strings.Contains(token, ".") {
		return "https://" + token
	}
	return fmt.Sprintf("https://%s.com", token)
}

func (c *Chain) success(stage types.FallbackStage, finalURL string, attempts []string, resolution *types.ResolutionResult, began time.Time) types.FallbackResult {
	c.logger.Info("target resolved",
		zap.String("stage", string(stage)),
		zap.String("final_url", finalURL))

	return types.FallbackResult{
		Status:            types.FallbackOK,
		FinalURL:          finalURL,
		FallbackUsed:      stage,
		AttemptsMade:      attempts,
		ResolutionDetails: resolution,
		ElapsedMS:         time.Since(began).Milliseconds(),
	}
}

func (c *Chain) observe(stage types.FallbackStage, outcome string) {
	if c.metrics != nil {
		c.metrics.FallbackStages.WithLabelValues(string(stage), outcome).Inc()
		if outcome == "unsafe" {
			c.metrics.UnsafeURLs.Inc()
		}
	}
}
