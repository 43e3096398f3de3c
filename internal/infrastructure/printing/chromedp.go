package printing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
	"github.com/prodsheet/backend/internal/domain/printing"
	"go.uber.org/zap"
)

const (
	defaultChromeTimeout = 30 * time.Second
	defaultImageWait     = 10 * time.Second
	imagePollInterval    = 100 * time.Millisecond
	defaultScale         = 1.0
	mmPerInch            = 25.4
)

// ChromedpConfig contains configuration for the chromedp renderer
type ChromedpConfig struct {
	// DefaultTimeout bounds one render when the request sets none
	DefaultTimeout time.Duration
	// RemoteURL points at a running Chrome DevTools endpoint. When empty a
	// local headless Chrome is launched.
	RemoteURL string
	// NoSandbox is required when Chrome runs as root inside a container
	NoSandbox bool
	// ExecPath overrides the Chrome binary lookup
	ExecPath string
	// BaseURL becomes the document's <base href> so relative image paths
	// resolve against it
	BaseURL string
	// ImageWait bounds the wait for images before printing
	ImageWait time.Duration
	Scale     float64
	Logger    *zap.Logger
}

// ChromedpRenderer prints HTML to PDF through the Chrome DevTools Protocol.
// One browser is shared by all renders; each render gets its own tab.
type ChromedpRenderer struct {
	config      ChromedpConfig
	logger      *zap.Logger
	allocCtx    context.Context
	allocCancel context.CancelFunc

	mu            sync.Mutex
	browserCtx    context.Context
	browserCancel context.CancelFunc
}

// NewChromedpRenderer prepares the browser allocator. Chrome itself is
// started lazily by the first render.
func NewChromedpRenderer(config ChromedpConfig) *ChromedpRenderer {
	if config.DefaultTimeout <= 0 {
		config.DefaultTimeout = defaultChromeTimeout
	}
	if config.Scale <= 0 {
		config.Scale = defaultScale
	}
	if config.ImageWait <= 0 {
		config.ImageWait = defaultImageWait
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := &ChromedpRenderer{config: config, logger: logger.Named("chromedp")}
	if config.RemoteURL != "" {
		r.allocCtx, r.allocCancel = chromedp.NewRemoteAllocator(context.Background(), config.RemoteURL)
	} else {
		r.allocCtx, r.allocCancel = chromedp.NewExecAllocator(context.Background(), r.allocatorOptions()...)
	}
	return r
}

func (r *ChromedpRenderer) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-extensions", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-background-networking", true),
		chromedp.Flag("disable-sync", true),
		chromedp.Flag("font-render-hinting", "none"),
	)
	if r.config.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if r.config.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(r.config.ExecPath))
	}
	return opts
}

// Render converts HTML content to PDF
func (r *ChromedpRenderer) Render(ctx context.Context, req *RenderRequest) (*RenderResult, error) {
	if req == nil || strings.TrimSpace(req.HTML) == "" {
		return nil, NewRenderError(ErrCodeInvalidHTML, "HTML content is empty", nil)
	}
	if !req.Page.Paper.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+req.Page.Paper.String(), nil)
	}

	start := time.Now()
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = r.config.DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	browserCtx, err := r.browser()
	if err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to start browser", err)
	}

	// The tab must be derived from the browser, not from the request
	// context, so cancellation is forwarded by hand.
	tabCtx, tabCancel := chromedp.NewContext(browserCtx)
	defer tabCancel()
	stop := context.AfterFunc(ctx, tabCancel)
	defer stop()

	doc := wrapDocument(req, r.config.BaseURL)
	params := r.printParams(req.Page)

	var pdf []byte
	imagesPending := false
	err = chromedp.Run(tabCtx,
		chromedp.Navigate("about:blank"),
		chromedp.ActionFunc(func(ctx context.Context) error {
			tree, err := page.GetFrameTree().Do(ctx)
			if err != nil {
				return err
			}
			return page.SetDocumentContent(tree.Frame.ID, doc).Do(ctx)
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var loaded bool
			err := chromedp.Poll(imagesLoadedJS, &loaded,
				chromedp.WithPollingInterval(imagePollInterval),
				chromedp.WithPollingTimeout(r.config.ImageWait),
			).Do(ctx)
			if errors.Is(err, chromedp.ErrPollingTimeout) {
				imagesPending = true
				r.logger.Warn("printing before all images loaded", zap.Duration("waited", r.config.ImageWait))
				return nil
			}
			return err
		}),
		chromedp.ActionFunc(func(ctx context.Context) error {
			data, _, err := params.Do(ctx)
			if err != nil {
				return err
			}
			pdf = data
			return nil
		}),
	)
	if err != nil {
		switch {
		case errors.Is(ctx.Err(), context.DeadlineExceeded):
			return nil, NewRenderError(ErrCodeRenderTimeout,
				fmt.Sprintf("PDF rendering timed out after %v", timeout), err)
		case errors.Is(ctx.Err(), context.Canceled):
			return nil, NewRenderError(ErrCodeRenderTimeout, "PDF rendering was cancelled", err)
		}
		r.logger.Error("chromedp rendering failed", zap.Error(err))
		return nil, NewRenderError(ErrCodeRenderFailed, "chromedp execution failed", err)
	}
	if len(pdf) == 0 {
		return nil, NewRenderError(ErrCodeRenderFailed, "generated PDF is empty", nil)
	}

	result := &RenderResult{
		PDFData:        pdf,
		PageCount:      countPDFPages(pdf),
		RenderDuration: time.Since(start),
		ImagesPending:  imagesPending,
	}
	r.logger.Info("PDF rendered",
		zap.Int("bytes", len(pdf)),
		zap.Int("pages", result.PageCount),
		zap.Duration("duration", result.RenderDuration))
	return result, nil
}

// browser returns the shared browser context, starting Chrome when it is
// not running.
func (r *ChromedpRenderer) browser() (context.Context, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.browserCtx != nil && r.browserCtx.Err() == nil {
		return r.browserCtx, nil
	}
	ctx, cancel := chromedp.NewContext(r.allocCtx,
		chromedp.WithLogf(func(format string, args ...any) {
			r.logger.Debug(fmt.Sprintf(format, args...))
		}),
	)
	if err := chromedp.Run(ctx); err != nil {
		cancel()
		return nil, err
	}
	r.browserCtx, r.browserCancel = ctx, cancel
	r.logger.Info("browser started", zap.Bool("remote", r.config.RemoteURL != ""))
	return ctx, nil
}

// printParams maps a page setup onto Page.printToPDF. Chrome takes inches.
// CSS @page rules in the document take precedence over the paper size.
func (r *ChromedpRenderer) printParams(setup printing.PageSetup) *page.PrintToPDFParams {
	w, h := setup.Paper.Dimensions()
	return page.PrintToPDF().
		WithPrintBackground(true).
		WithPreferCSSPageSize(true).
		WithPaperWidth(mmToInches(w)).
		WithPaperHeight(mmToInches(h)).
		WithLandscape(setup.Orientation == printing.OrientationLandscape).
		WithMarginTop(mmToInches(setup.Margins.Top)).
		WithMarginRight(mmToInches(setup.Margins.Right)).
		WithMarginBottom(mmToInches(setup.Margins.Bottom)).
		WithMarginLeft(mmToInches(setup.Margins.Left)).
		WithScale(r.config.Scale)
}

// Close shuts the browser down
func (r *ChromedpRenderer) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.browserCancel != nil {
		r.browserCancel()
		r.browserCtx, r.browserCancel = nil, nil
	}
	if r.allocCancel != nil {
		r.allocCancel()
	}
	return nil
}

// imagesLoadedJS is truthy once every <img> has finished loading or failed.
const imagesLoadedJS = `Array.from(document.images).every(img => img.complete)`

// wrapDocument returns req.HTML as a full document, wrapping fragments in a
// minimal one. A non-empty baseURL is injected as <base href> unless the
// document already declares one.
func wrapDocument(req *RenderRequest, baseURL string) string {
	base := baseTag(baseURL)
	lower := strings.ToLower(req.HTML)
	if strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html") {
		if base == "" || strings.Contains(lower, "<base") {
			return req.HTML
		}
		if i := strings.Index(lower, "<head"); i >= 0 {
			if end := strings.IndexByte(lower[i:], '>'); end >= 0 {
				at := i + end + 1
				return req.HTML[:at] + base + req.HTML[at:]
			}
		}
		if i := strings.Index(lower, "<html"); i >= 0 {
			if end := strings.IndexByte(lower[i:], '>'); end >= 0 {
				at := i + end + 1
				return req.HTML[:at] + "<head>" + base + "</head>" + req.HTML[at:]
			}
		}
		return req.HTML
	}

	var buf bytes.Buffer
	buf.WriteString(`<!DOCTYPE html><html><head><meta charset="UTF-8">`)
	buf.WriteString(base)
	if req.Title != "" {
		buf.WriteString("<title>" + html.EscapeString(req.Title) + "</title>")
	}
	buf.WriteString("</head><body>")
	buf.WriteString(req.HTML)
	buf.WriteString("</body></html>")
	return buf.String()
}

// baseTag renders <base href> for an absolute http(s) URL. The path is
// given a trailing slash so relative paths resolve beneath it.
func baseTag(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return ""
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	u.RawQuery, u.Fragment = "", ""
	return `<base href="` + html.EscapeString(u.String()) + `">`
}

func mmToInches(mm float64) float64 {
	return mm / mmPerInch
}

// countPDFPages counts page objects. "/Type /Pages" tree nodes also match
// the page prefix and are subtracted.
func countPDFPages(pdf []byte) int {
	n := bytes.Count(pdf, []byte("/Type /Page")) - bytes.Count(pdf, []byte("/Type /Pages"))
	return max(n, 1)
}

var _ PDFRenderer = (*ChromedpRenderer)(nil)
