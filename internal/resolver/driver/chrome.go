package driver

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/chromedp/cdproto/dom"
	"github.com/chromedp/chromedp"
	"go.uber.org/zap"
)

// ChromeOptions configures the headless Chrome session.
type ChromeOptions struct {
	// ProfileDir is the persistent user data directory. It must be
	// dedicated to this driver; sharing a profile with another automation
	// tool trips Chrome's session lock.
	ProfileDir string
	Headless   bool
	UserAgent  string
	// NavTimeout bounds every DevTools round trip when the caller context
	// carries no deadline of its own.
	NavTimeout time.Duration
}

// DefaultChromeOptions returns production defaults.
func DefaultChromeOptions(profileDir string) ChromeOptions {
	return ChromeOptions{
		ProfileDir: profileDir,
		Headless:   true,
		NavTimeout: 30 * time.Second,
	}
}

// Chrome drives a single headless browser tab over the DevTools protocol.
type Chrome struct {
	opts   ChromeOptions
	logger *zap.Logger

	mu          sync.Mutex
	allocCtx    context.Context
	allocCancel context.CancelFunc
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	started     bool
}

// NewChrome creates an unstarted Chrome driver.
func NewChrome(opts ChromeOptions, logger *zap.Logger) *Chrome {
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.NavTimeout <= 0 {
		opts.NavTimeout = 30 * time.Second
	}
	return &Chrome{
		opts:   opts,
		logger: logger.With(zap.String("component", "chrome_driver")),
	}
}

// Start launches the browser process and opens the tab reused by every
// resolution. Idempotent.
func (d *Chrome) Start(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.started {
		return nil
	}

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", d.opts.Headless),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("mute-audio", true),
	)
	if d.opts.ProfileDir != "" {
		opts = append(opts, chromedp.UserDataDir(d.opts.ProfileDir))
	}
	if d.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(d.opts.UserAgent))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(context.Background(), opts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			d.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)

	startCtx := tabCtx
	if deadline, ok := ctx.Deadline(); ok {
		var cancel context.CancelFunc
		startCtx, cancel = context.WithDeadline(tabCtx, deadline)
		defer cancel()
	}

	if err := chromedp.Run(startCtx); err != nil {
		tabCancel()
		allocCancel()
		return fmt.Errorf("failed to start browser: %w", err)
	}

	d.allocCtx = allocCtx
	d.allocCancel = allocCancel
	d.tabCtx = tabCtx
	d.tabCancel = tabCancel
	d.started = true

	d.logger.Info("browser session started",
		zap.Bool("headless", d.opts.Headless),
		zap.String("profile_dir", d.opts.ProfileDir))
	return nil
}

// Navigate loads url and waits for the document to become interactive.
func (d *Chrome) Navigate(ctx context.Context, url string) error {
	d.logger.Debug("navigating", zap.String("url", url))
	return d.run(ctx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
	)
}

// Location returns the tab's current address.
func (d *Chrome) Location(ctx context.Context) (string, error) {
	var location string
	if err := d.run(ctx, chromedp.Location(&location)); err != nil {
		return "", fmt.Errorf("failed to read location: %w", err)
	}
	return location, nil
}

// Anchors serializes the rendered DOM and extracts hyperlinks host-side.
// Nothing is evaluated inside the page.
func (d *Chrome) Anchors(ctx context.Context, limit int) ([]Anchor, error) {
	var rendered string
	err := d.run(ctx, chromedp.ActionFunc(func(ctx context.Context) error {
		root, err := dom.GetDocument().Do(ctx)
		if err != nil {
			return err
		}
		rendered, err = dom.GetOuterHTML().WithNodeID(root.NodeID).Do(ctx)
		return err
	}))
	if err != nil {
		return nil, fmt.Errorf("failed to read rendered page: %w", err)
	}
	return anchorsFromHTML([]byte(rendered), limit)
}

// Close shuts the tab and the browser process down.
func (d *Chrome) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.started {
		return nil
	}
	d.logger.Info("closing browser session")
	d.tabCancel()
	d.allocCancel()
	d.started = false
	return nil
}

// run executes DevTools actions against the tab, bounded by the caller's
// deadline or the configured navigation timeout.
func (d *Chrome) run(ctx context.Context, actions ...chromedp.Action) error {
	d.mu.Lock()
	tabCtx := d.tabCtx
	started := d.started
	d.mu.Unlock()

	if !started {
		return fmt.Errorf("browser session not started")
	}

	deadline, ok := ctx.Deadline()
	if !ok {
		deadline = time.Now().Add(d.opts.NavTimeout)
	}
	runCtx, cancel := context.WithDeadline(tabCtx, deadline)
	defer cancel()

	return chromedp.Run(runCtx, actions...)
}
