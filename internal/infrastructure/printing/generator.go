package printing

import (
	"context"
	"html/template"

	"github.com/prodsheet/backend/internal/domain/order"
	"go.uber.org/zap"
)

// OutputMode selects what the generated sheet is for.
type OutputMode int

const (
	// ModeBrowser embeds the auto-print script; the browser is the print facility.
	ModeBrowser OutputMode = iota
	// ModePDF leaves the script out for headless PDF conversion.
	ModePDF
)

func (m OutputMode) String() string {
	if m == ModePDF {
		return "pdf"
	}
	return "html"
}

// SheetGenerator turns orders into production sheet HTML.
type SheetGenerator struct {
	engine *TemplateEngine
	tmpl   *template.Template
	opts   SheetOptions
	logger *zap.Logger
}

// NewSheetGenerator compiles the sheet template. opts.AutoPrint is ignored;
// it is decided per call by the output mode unless opts.DisableAutoPrint.
func NewSheetGenerator(engine *TemplateEngine, opts SheetOptions, logger *zap.Logger) (*SheetGenerator, error) {
	if engine == nil {
		engine = NewTemplateEngine()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := opts.Policy.Validate(); err != nil {
		return nil, NewRenderError(ErrCodeInvalidTemplate, "invalid sizing policy", err)
	}
	if !opts.Page.Paper.IsValid() {
		return nil, NewRenderError(ErrCodeInvalidPaperSize, "invalid paper size: "+opts.Page.Paper.String(), nil)
	}
	opts.Policy = opts.Policy.Normalize()

	return &SheetGenerator{
		engine: engine,
		tmpl:   engine.mustParse("production_sheet", productionSheetTemplate),
		opts:   opts,
		logger: logger,
	}, nil
}

// Build lays out the order without rendering it.
func (g *SheetGenerator) Build(o *order.Order, mode OutputMode) *Sheet {
	opts := g.opts
	opts.AutoPrint = mode == ModeBrowser && !opts.DisableAutoPrint
	return BuildSheet(o, opts)
}

// Document is a rendered production sheet.
type Document struct {
	HTML  string
	Title string
	Pages int
}

// Generate renders the production sheet document for o.
func (g *SheetGenerator) Generate(ctx context.Context, o *order.Order, mode OutputMode) (*Document, error) {
	sheet := g.Build(o, mode)
	html, err := g.engine.Execute(ctx, g.tmpl, sheet)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("production sheet generated",
		zap.String("order_id", o.ID.String()),
		zap.Int("pages", len(sheet.Pages)),
		zap.Stringer("mode", mode))
	return &Document{HTML: html, Title: sheet.Title, Pages: len(sheet.Pages)}, nil
}

// RenderRequest builds the PDF render request for a generated sheet.
func (g *SheetGenerator) RenderRequest(sheetHTML, title string) *RenderRequest {
	return &RenderRequest{HTML: sheetHTML, Page: g.opts.Page, Title: title}
}
