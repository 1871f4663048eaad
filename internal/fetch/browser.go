package fetch

import (
	"context"
	"log/slog"
	"time"

	"github.com/chromedp/chromedp"
)

const (
	// DefaultPageTimeout bounds one page render, including the optional click.
	DefaultPageTimeout = 60 * time.Second
	// DefaultClickWait is how long a button may take to become visible.
	DefaultClickWait = 10 * time.Second
	// DefaultSettle is the pause after navigation or a click so client-side rendering can finish.
	DefaultSettle = 2 * time.Second
)

// Renderer returns the HTML of a page after optionally clicking an element.
type Renderer interface {
	Render(ctx context.Context, url, clickXPath string) (string, error)
}

// BrowserOptions configures the headless browser.
type BrowserOptions struct {
	PageTimeout time.Duration
	ClickWait   time.Duration
	Settle      time.Duration
	Headless    bool
}

// DefaultBrowserOptions returns the options used by the scraper.
func DefaultBrowserOptions() BrowserOptions {
	return BrowserOptions{
		PageTimeout: DefaultPageTimeout,
		ClickWait:   DefaultClickWait,
		Settle:      DefaultSettle,
		Headless:    true,
	}
}

// Browser is one headless Chrome instance reused for every page of a scrape.
// Requires Chrome/Chromium to be installed on the system.
type Browser struct {
	ctx     context.Context
	cancels []context.CancelFunc
	opts    BrowserOptions
	logger  *slog.Logger
}

// NewBrowser starts a headless browser bound to ctx. Call Close when done.
func NewBrowser(ctx context.Context, opts BrowserOptions, logger *slog.Logger) (*Browser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PageTimeout == 0 {
		opts.PageTimeout = DefaultPageTimeout
	}
	if opts.ClickWait == 0 {
		opts.ClickWait = DefaultClickWait
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", opts.Headless),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)

	// Start the browser on the long-lived context so per-page timeouts only close tabs.
	if err := chromedp.Run(browserCtx); err != nil {
		cancelBrowser()
		cancelAlloc()
		return nil, &Error{URL: "about:blank", Message: "failed to start browser", Cause: err}
	}

	return &Browser{
		ctx:     browserCtx,
		cancels: []context.CancelFunc{cancelBrowser, cancelAlloc},
		opts:    opts,
		logger:  logger,
	}, nil
}

// Render navigates to url, clicks clickXPath when it is not empty, and returns the page HTML.
func (b *Browser) Render(ctx context.Context, url, clickXPath string) (string, error) {
	b.logger.Debug("rendering page", "url", url, "click", clickXPath != "")

	pageCtx, cancel := context.WithTimeout(b.ctx, b.opts.PageTimeout)
	defer cancel()
	stop := context.AfterFunc(ctx, cancel)
	defer stop()

	actions := []chromedp.Action{
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		chromedp.Sleep(b.opts.Settle),
	}
	if clickXPath != "" {
		actions = append(actions, chromedp.ActionFunc(func(ctx context.Context) error {
			clickCtx, cancel := context.WithTimeout(ctx, b.opts.ClickWait)
			defer cancel()
			if err := chromedp.WaitVisible(clickXPath, chromedp.BySearch).Do(clickCtx); err != nil {
				return &Error{URL: url, Message: "button did not become clickable", Cause: err}
			}
			return chromedp.Click(clickXPath, chromedp.BySearch).Do(clickCtx)
		}), chromedp.Sleep(b.opts.Settle))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html))

	if err := chromedp.Run(pageCtx, actions...); err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	b.logger.Debug("rendered page", "url", url, "bytes", len(html))
	return html, nil
}

// Close shuts the browser down.
func (b *Browser) Close() {
	for _, cancel := range b.cancels {
		cancel()
	}
}
