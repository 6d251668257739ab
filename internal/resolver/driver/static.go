package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-retryablehttp"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/handsfree/webnav/internal/infrastructure/resilience"
)

const staticUserAgent = "Mozilla/5.0 (X11; Linux x86_64) webnav/1.0"

// StaticOptions configures the HTTP-fetch driver.
type StaticOptions struct {
	NavTimeout        time.Duration
	UserAgent         string
	RequestsPerSecond float64
}

// DefaultStaticOptions returns production defaults.
func DefaultStaticOptions() StaticOptions {
	return StaticOptions{
		NavTimeout:        30 * time.Second,
		UserAgent:         staticUserAgent,
		RequestsPerSecond: 4,
	}
}

// Static resolves pages by fetching their HTML over HTTP. It sees the page
// as served, without script execution, which is enough for the anchor scan
// on most sites and requires no browser binary. It backs tests and
// constrained deployments; Chrome is the production driver.
type Static struct {
	client  *resty.Client
	limiter *rate.Limiter
	breaker *resilience.Breaker
	logger  *zap.Logger

	mu      sync.Mutex
	pageURL string
	page    *goquery.Document
}

// NewStatic creates a static driver with retrying transport, rate limiting
// and a circuit breaker in front of outbound fetches.
func NewStatic(opts StaticOptions, logger *zap.Logger) *Static {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	if opts.UserAgent == "" {
		opts.UserAgent = staticUserAgent
	}

	retryClient := retryablehttp.NewClient()
	retryClient.RetryMax = 2
	retryClient.RetryWaitMin = 500 * time.Millisecond
	retryClient.RetryWaitMax = 5 * time.Second
	retryClient.Logger = nil

	client := resty.NewWithClient(retryClient.StandardClient()).
		SetTimeout(opts.NavTimeout).
		SetHeader("User-Agent", opts.UserAgent).
		SetHeader("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8").
		SetHeader("Accept-Language", "en-US,en;q=0.9")

	limiter := rate.NewLimiter(rate.Inf, 0)
	if opts.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RequestsPerSecond), 1)
	}

	breaker := resilience.New("static-fetch", resilience.Settings{
		FailureThreshold: 5,
		CoolOff:          30 * time.Second,
	})

	return &Static{
		client:  client,
		limiter: limiter,
		breaker: breaker,
		logger:  logger.With(zap.String("component", "static_driver")),
	}
}

// Start is a no-op; the HTTP client needs no session.
func (d *Static) Start(ctx context.Context) error {
	return nil
}

// Navigate fetches url and parses the served HTML. The recorded location is
// the final URL after redirects.
func (d *Static) Navigate(ctx context.Context, url string) error {
	if err := d.limiter.Wait(ctx); err != nil {
		return err
	}

	d.logger.Debug("fetching", zap.String("url", url))

	var resp *resty.Response
	err := d.breaker.Execute(func() error {
		var err error
		resp, err = d.client.R().SetContext(ctx).Get(url)
		if err != nil {
			return err
		}
		if code := resp.StatusCode(); code < 200 || code >= 400 {
			return fmt.Errorf("HTTP %d fetching %s", code, url)
		}
		return nil
	})
	if err != nil {
		return err
	}

	finalURL := url
	if raw := resp.RawResponse; raw != nil && raw.Request != nil && raw.Request.URL != nil {
		finalURL = raw.Request.URL.String()
	}

	doc, err := parseDocument(resp.Body())
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", finalURL, err)
	}

	d.mu.Lock()
	d.pageURL = finalURL
	d.page = doc
	d.mu.Unlock()
	return nil
}

// Location returns the address of the last fetched page.
func (d *Static) Location(ctx context.Context) (string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.pageURL == "" {
		return "", fmt.Errorf("no page loaded")
	}
	return d.pageURL, nil
}

// Anchors scans the last fetched page for hyperlinks.
func (d *Static) Anchors(ctx context.Context, limit int) ([]Anchor, error) {
	d.mu.Lock()
	page := d.page
	d.mu.Unlock()

	if page == nil {
		return nil, fmt.Errorf("no page loaded")
	}
	return anchorsFromDocument(page, limit), nil
}

// Close releases idle connections.
func (d *Static) Close() error {
	d.client.GetClient().CloseIdleConnections()
	return nil
}
