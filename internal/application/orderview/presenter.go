// Package orderview loads orders for display and turns them into the
// summary view, the printable production sheet and the share link.
package orderview

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/prodsheet/backend/internal/domain/order"
	"github.com/prodsheet/backend/internal/domain/shared"
	"github.com/prodsheet/backend/internal/infrastructure/cache"
	"github.com/prodsheet/backend/internal/infrastructure/logger"
	"github.com/prodsheet/backend/internal/infrastructure/printing"
	"github.com/prodsheet/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Config holds presenter settings
type Config struct {
	// OrderListURL is where failed loads redirect to
	OrderListURL  string
	OrderBasePath string
	ShareTitle    string
	// WhatsAppBaseURL is the click-to-chat endpoint, e.g. https://wa.me/
	WhatsAppBaseURL string
	PDFCacheTTL     time.Duration
}

// DefaultConfig returns the presenter defaults
func DefaultConfig() Config {
	return Config{
		OrderListURL:    "/orders",
		OrderBasePath:   "/orders",
		ShareTitle:      "JAIPUR Production Sheet",
		WhatsAppBaseURL: "https://wa.me/",
		PDFCacheTTL:     10 * time.Minute,
	}
}

// Presenter serves the read-only order pages. It holds no per-order state;
// every call loads the order and the catalog afresh.
type Presenter struct {
	source    order.Source
	generator *printing.SheetGenerator
	renderer  printing.PDFRenderer
	cache     cache.PDFCache
	archive   printing.Archive
	metrics   *telemetry.Metrics
	config    Config
	logger    *zap.Logger
	now       func() time.Time
}

// Option configures a Presenter
type Option func(*Presenter)

// WithRenderer sets the PDF renderer
func WithRenderer(r printing.PDFRenderer) Option {
	return func(p *Presenter) { p.renderer = r }
}

// WithCache sets the rendered PDF cache
func WithCache(c cache.PDFCache) Option {
	return func(p *Presenter) { p.cache = c }
}

// WithArchive keeps a copy of every rendered PDF
func WithArchive(a printing.Archive) Option {
	return func(p *Presenter) { p.archive = a }
}

// WithMetrics sets the metrics recorder
func WithMetrics(m *telemetry.Metrics) Option {
	return func(p *Presenter) { p.metrics = m }
}

// WithLogger sets the logger
func WithLogger(l *zap.Logger) Option {
	return func(p *Presenter) { p.logger = l }
}

// WithConfig replaces the default configuration
func WithConfig(c Config) Option {
	return func(p *Presenter) { p.config = c }
}

// NewPresenter creates a Presenter over source.
func NewPresenter(source order.Source, generator *printing.SheetGenerator, opts ...Option) *Presenter {
	p := &Presenter{
		source:    source,
		generator: generator,
		renderer:  printing.DisabledRenderer{},
		cache:     cache.NopCache{},
		config:    DefaultConfig(),
		logger:    zap.NewNop(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.renderer == nil {
		p.renderer = printing.DisabledRenderer{}
	}
	if p.cache == nil {
		p.cache = cache.NopCache{}
	}
	if p.config.OrderListURL == "" {
		p.config.OrderListURL = DefaultConfig().OrderListURL
	}
	return p
}

// Load fetches the order and the product catalog concurrently and fills
// in missing product images. Any failure is returned as a *LoadError.
func (p *Presenter) Load(ctx context.Context, rawID string) (*order.Order, error) {
	ctx, span := telemetry.StartSpan(ctx, "orderview.load", attribute.String("order_id", rawID))
	o, err := p.load(ctx, rawID)
	telemetry.EndSpan(span, err)
	return o, err
}

func (p *Presenter) load(ctx context.Context, rawID string) (*order.Order, error) {
	id, err := order.ParseID(rawID)
	if err != nil {
		return nil, p.loadError("", err)
	}
	ctx = logger.WithOrderID(ctx, id.String())
	start := p.now()

	var (
		o       *order.Order
		catalog []order.CatalogProduct
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		o, err = p.source.GetOrder(gctx, id)
		if err != nil {
			return fmt.Errorf("fetch order: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		catalog, err = p.source.ListProducts(gctx)
		if err != nil {
			return fmt.Errorf("fetch products: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		p.metrics.ObserveOrderLoad(loadResult(err), time.Since(start))
		logger.L(ctx).Warn("failed to load order", zap.Error(err))
		return nil, p.loadError(id, err)
	}
	if o == nil {
		err := shared.ErrNotFound.WithMessage("order not found")
		p.metrics.ObserveOrderLoad(telemetry.LoadNotFound, time.Since(start))
		return nil, p.loadError(id, err)
	}

	enriched := order.Enrich(o, catalog)
	if enriched.ID == "" {
		enriched.ID = id
	}
	p.metrics.ObserveOrderLoad(telemetry.LoadOK, time.Since(start))
	logger.L(ctx).Debug("order loaded",
		zap.Int("items", len(enriched.Items)),
		zap.Int("catalog_size", len(catalog)))
	return enriched, nil
}

func (p *Presenter) loadError(id order.ID, cause error) *LoadError {
	return &LoadError{
		OrderID:    id,
		Notice:     LoadFailedNotice,
		RedirectTo: p.config.OrderListURL,
		Cause:      cause,
	}
}

func loadResult(err error) string {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return telemetry.LoadNotFound
	case errors.Is(err, shared.ErrUpstreamUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return telemetry.LoadUnavailable
	default:
		return telemetry.LoadFailed
	}
}

// View returns the summary page of an order.
func (p *Presenter) View(ctx context.Context, rawID string) (*OrderView, error) {
	o, err := p.Load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	return NewOrderView(o, LinkConfig{
		OrderListURL:  p.config.OrderListURL,
		OrderBasePath: p.config.OrderBasePath,
		ExportPDFURL:  p.source.ExportPDFURL(o.ID),
	}), nil
}

// SheetHTML returns the production sheet as an HTML document that opens
// the print dialog once loaded.
func (p *Presenter) SheetHTML(ctx context.Context, rawID string) (*printing.Document, error) {
	o, err := p.Load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	start := p.now()
	doc, err := p.generator.Generate(ctx, o, printing.ModeBrowser)
	if err != nil {
		p.metrics.RenderFailed(printing.RenderErrorCode(err))
		return nil, err
	}
	p.metrics.ObserveSheet(printing.ModeBrowser.String(), time.Since(start))
	return doc, nil
}

// PDFDocument is a rendered production sheet PDF.
type PDFDocument struct {
	OrderID  order.ID
	Filename string
	Data     []byte
	Pages    int
	Cached   bool
	// ArchiveURL links to the archived copy, when archiving is enabled
	ArchiveURL string
}

// ExportPDF renders the production sheet to PDF. Identical sheets are
// served from the cache; the order itself is always loaded fresh.
func (p *Presenter) ExportPDF(ctx context.Context, rawID string) (*PDFDocument, error) {
	ctx, span := telemetry.StartSpan(ctx, "orderview.export_pdf", attribute.String("order_id", rawID))
	doc, err := p.exportPDF(ctx, rawID)
	if doc != nil {
		span.SetAttributes(attribute.Bool("cached", doc.Cached), attribute.Int("pages", doc.Pages))
	}
	telemetry.EndSpan(span, err)
	return doc, err
}

func (p *Presenter) exportPDF(ctx context.Context, rawID string) (*PDFDocument, error) {
	o, err := p.Load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	ctx = logger.WithOrderID(ctx, o.ID.String())
	start := p.now()

	doc, err := p.generator.Generate(ctx, o, printing.ModePDF)
	if err != nil {
		p.metrics.RenderFailed(printing.RenderErrorCode(err))
		return nil, err
	}

	out := &PDFDocument{OrderID: o.ID, Filename: PDFFilename(o), Pages: doc.Pages}
	key := cache.Key(doc.HTML)

	data, hit, err := p.cache.Get(ctx, key)
	if err != nil {
		logger.L(ctx).Warn("pdf cache read failed", zap.Error(err))
	}
	p.metrics.CacheLookup(hit)
	if hit {
		out.Data, out.Cached = data, true
		return out, nil
	}

	result, err := p.renderer.Render(ctx, p.generator.RenderRequest(doc.HTML, doc.Title))
	if err != nil {
		p.metrics.RenderFailed(printing.RenderErrorCode(err))
		logger.L(ctx).Error("pdf render failed", zap.Error(err))
		return nil, err
	}
	out.Data = result.PDFData
	if result.PageCount > 0 {
		out.Pages = result.PageCount
	}
	p.metrics.ObserveSheet(printing.ModePDF.String(), time.Since(start))

	if result.ImagesPending {
		logger.L(ctx).Warn("pdf not cached, images still loading when printed")
	} else if err := p.cache.Set(ctx, key, result.PDFData, p.config.PDFCacheTTL); err != nil {
		logger.L(ctx).Warn("pdf cache write failed", zap.Error(err))
	}

	if p.archive != nil {
		stored, err := p.archive.Store(ctx, &printing.ArchivedSheet{
			OrderID:       o.ID,
			SalesOrderRef: o.SalesOrderRef,
			PDF:           result.PDFData,
			Digest:        key,
			GeneratedAt:   p.now(),
		})
		if err != nil {
			logger.L(ctx).Warn("sheet archive failed", zap.Error(err))
		} else {
			out.ArchiveURL = stored.URL
			p.metrics.SheetArchived()
		}
	}

	logger.L(ctx).Info("production sheet rendered",
		zap.Int("pages", out.Pages),
		zap.Int("bytes", len(out.Data)),
		zap.Duration("render_time", result.RenderDuration))
	return out, nil
}

var unsafeFilename = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// PDFFilename names the downloaded sheet after the sales order reference.
func PDFFilename(o *order.Order) string {
	name := o.SalesOrderRef
	if name == "" {
		name = o.ID.String()
	}
	name = unsafeFilename.ReplaceAllString(name, "_")
	if name == "" || name == "_" {
		name = "order"
	}
	return "production-sheet-" + name + ".pdf"
}

// Share builds the WhatsApp link announcing the order's production sheet.
func (p *Presenter) Share(ctx context.Context, rawID string) (*ShareLink, error) {
	o, err := p.Load(ctx, rawID)
	if err != nil {
		return nil, err
	}
	pdfURL := p.source.ExportPDFURL(o.ID)
	msg := ShareMessage(o, p.config.ShareTitle, pdfURL)
	p.metrics.ShareLinkBuilt()
	return &ShareLink{
		OrderID: o.ID.String(),
		Message: msg,
		PDFURL:  pdfURL,
		URL:     WhatsAppURL(p.config.WhatsAppBaseURL, msg),
	}, nil
}
