// Package resolver turns a short natural-language web target into a concrete
// URL by driving an automated browser session over candidate pages and
// ranking the hyperlinks it finds there.
package resolver

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/handsfree/webnav/internal/cache"
	"github.com/handsfree/webnav/internal/domains"
	"github.com/handsfree/webnav/internal/infrastructure/config"
	"github.com/handsfree/webnav/internal/infrastructure/monitoring"
	"github.com/handsfree/webnav/internal/resolver/driver"
	"github.com/handsfree/webnav/internal/shared/types"
)

// Resolver drives one long-lived browser session. The session owns a single
// page, so every page-touching operation is serialized behind mu; concurrent
// callers block rather than interleave navigations.
type Resolver struct {
	cfg      config.ResolverConfig
	weights  ScoringWeights
	driver   driver.Driver
	cache    *cache.Cache
	registry *domains.Registry
	logger   *zap.Logger
	metrics  *monitoring.Metrics

	mu      sync.Mutex
	started bool
	closed  bool
}

// New creates a resolver. The configuration is captured at construction;
// nothing is re-read from the environment per call.
func New(cfg config.ResolverConfig, drv driver.Driver, store *cache.Cache, registry *domains.Registry, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{
		cfg:      cfg,
		weights:  DefaultScoringWeights(),
		driver:   drv,
		cache:    store,
		registry: registry,
		logger:   logger.With(zap.String("component", "resolver")),
	}
}

// WithMetrics attaches a metrics collector.
func (r *Resolver) WithMetrics(m *monitoring.Metrics) *Resolver {
	r.metrics = m
	return r
}

// WithWeights overrides the scoring weights.
func (r *Resolver) WithWeights(w ScoringWeights) *Resolver {
	r.weights = w
	return r
}

// Warm starts the browser session eagerly so the cold-start cost is not
// attributed to the first user request.
func (r *Resolver) Warm(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureStartedLocked(ctx)
}

// Resolve turns query into a ResolutionResult, consulting the cache first.
// Cached failures replay with FromCache set so callers can distinguish them
// and force a fresh attempt.
func (r *Resolver) Resolve(ctx context.Context, query string) types.ResolutionResult {
	if r.cache != nil {
		if cached, ok := r.cache.Get(query); ok {
			cached.FromCache = true
			if r.metrics != nil {
				r.metrics.CacheHits.Inc()
			}
			r.logger.Debug("cache hit",
				zap.String("query", query),
				zap.String("status", string(cached.Status)))
			return cached
		}
		if r.metrics != nil {
			r.metrics.CacheMisses.Inc()
		}
	}
	return r.resolveLive(ctx, query)
}

// ResolveFresh bypasses the cache for caller-forced retries. The fresh
// terminal result still replaces whatever was cached.
func (r *Resolver) ResolveFresh(ctx context.Context, query string) types.ResolutionResult {
	return r.resolveLive(ctx, query)
}

// Close shuts the browser session down. In-flight work finishes or times
// out first; the page lock guarantees nothing is mid-navigation when the
// driver goes away.
func (r *Resolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return nil
	}
	r.closed = true
	if !r.started {
		return nil
	}
	r.started = false
	return r.driver.Close()
}

// resolveLive performs one full navigate-scan-select pass and caches the
// terminal result, success or failure.
func (r *Resolver) resolveLive(ctx context.Context, query string) types.ResolutionResult {
	began := time.Now()
	attemptID := uuid.NewString()
	log := r.logger.With(
		zap.String("attempt_id", attemptID),
		zap.String("query", query))

	result := r.attempt(ctx, query, log)
	result.Query = query
	result.ElapsedMS = time.Since(began).Milliseconds()

	if r.cache != nil {
		r.cache.Put(query, result)
	}
	if r.metrics != nil {
		r.metrics.Resolutions.WithLabelValues(string(result.Status)).Inc()
		r.metrics.ResolutionDuration.Observe(time.Since(began).Seconds())
		if r.cache != nil {
			r.metrics.CacheEntries.Set(float64(r.cache.Len()))
		}
	}

	log.Info("resolution finished",
		zap.String("status", string(result.Status)),
		zap.String("resolved_url", result.ResolvedURL),
		zap.Int("candidates", result.CandidatesFound),
		zap.Int64("elapsed_ms", result.ElapsedMS))
	return result
}

// attempt holds the page lock for the whole navigate-scan pass.
func (r *Resolver) attempt(ctx context.Context, query string, log *zap.Logger) types.ResolutionResult {
	terms := queryTerms(query)
	if len(terms) == 0 {
		return types.ResolutionResult{
			Status:       types.StatusFailed,
			ErrorMessage: "empty query",
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return types.ResolutionResult{
			Status:       types.StatusFailed,
			ErrorMessage: "resolver is closed",
		}
	}
	if err := r.ensureStartedLocked(ctx); err != nil {
		return classify(err, "browser start failed: "+err.Error())
	}

	// One deadline spans navigation and the DOM scan.
	opCtx, cancel := context.WithTimeout(ctx, r.cfg.NavTimeout)
	defer cancel()

	startURL := r.startURL(query)
	log.Debug("navigating", zap.String("start_url", startURL))

	if err := r.driver.Navigate(opCtx, startURL); err != nil {
		return classify(err, "navigation failed: "+err.Error())
	}

	pageURL, err := r.driver.Location(opCtx)
	if err != nil || pageURL == "" {
		pageURL = startURL
	}

	anchors, err := r.driver.Anchors(opCtx, r.cfg.ScanLimit)
	if err != nil {
		return classify(err, "link scan failed: "+err.Error())
	}

	candidates := r.collect(query, terms, pageURL, anchors)
	winner, reason, ok := selectCandidate(candidates)
	if !ok {
		return types.ResolutionResult{
			Status:       types.StatusFailed,
			ErrorMessage: "no hyperlink matched the query",
		}
	}

	return types.ResolutionResult{
		Status:          types.StatusOK,
		ResolvedURL:     winner.URL,
		CandidatesFound: len(candidates),
		SelectedReason:  reason,
	}
}

// collect builds scored candidates from scanned anchors. The href join uses
// the page address as base and runs here, in the calling process.
func (r *Resolver) collect(query string, terms []string, pageURL string, anchors []driver.Anchor) []scored {
	query = cache.NormalizeKey(query)

	candidates := make([]scored, 0, r.cfg.CandidateCap)
	for i, anchor := range anchors {
		absolute := driver.ResolveHref(pageURL, anchor.Href)
		if absolute == "" {
			continue
		}

		score, reason, ok := r.weights.scoreAnchor(query, terms, anchor.Text, anchor.AriaLabel)
		if !ok {
			continue
		}

		candidates = append(candidates, scored{
			candidate: types.LinkCandidate{
				URL:           absolute,
				Text:          anchor.Text,
				AriaLabel:     anchor.AriaLabel,
				PositionScore: positionScore(i, r.cfg.ScanLimit),
			},
			score:  score,
			reason: reason,
		})
		if len(candidates) >= r.cfg.CandidateCap {
			break
		}
	}
	return candidates
}

// startURL infers where navigation begins: a known-domain homepage when a
// query token names one, else the configured neutral start page.
func (r *Resolver) startURL(query string) string {
	if r.registry != nil {
		if page, ok := r.registry.Match(query); ok {
			return page
		}
	}
	return r.cfg.StartPage
}

// ensureStartedLocked lazily starts the browser session. Caller holds mu.
func (r *Resolver) ensureStartedLocked(ctx context.Context) error {
	if r.started {
		return nil
	}
	if err := r.driver.Start(ctx); err != nil {
		return err
	}
	r.started = true
	return nil
}

// positionScore ranks earlier anchors higher, in [0,1].
func positionScore(index, scanLimit int) float64 {
	if scanLimit <= 0 {
		return 0
	}
	if index >= scanLimit {
		return 0
	}
	return 1 - float64(index)/float64(scanLimit)
}

// classify maps driver errors onto the resolution taxonomy. Raw driver
// errors never cross the resolver boundary.
func classify(err error, message string) types.ResolutionResult {
	status := types.StatusFailed
	if errors.Is(err, context.DeadlineExceeded) {
		status = types.StatusTimeout
	}
	return types.ResolutionResult{
		Status:       status,
		ErrorMessage: message,
	}
}
