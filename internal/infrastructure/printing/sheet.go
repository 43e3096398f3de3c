package printing

import (
	"html/template"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
	"github.com/prodsheet/backend/internal/domain/order"
	"github.com/prodsheet/backend/internal/domain/printing"
)

// Placeholder text shown when an order field is empty.
const (
	placeholder       = "-"
	defaultTitleRef   = "Order"
	defaultPrintDelay = 500
)

// Swatch placeholder gradients drawn when no swatch photo exists.
const (
	leatherGradient template.CSS = "linear-gradient(135deg, #8B4513, #A0522D)"
	finishGradient  template.CSS = "linear-gradient(135deg, #D4A574, #C4956A)"
)

// Branding is the company identity printed in the sheet header.
type Branding struct {
	Name    string
	LogoURL string
}

// Sheet is a production sheet document: one fixed-size page per order line.
type Sheet struct {
	Title     string
	Brand     Branding
	Page      PageStyle
	Pages     []SheetPage
	AutoPrint bool
	// PrintDelayMS is how long the browser waits after load before opening
	// the print dialog.
	PrintDelayMS int
}

// PageStyle is the CSS geometry of a sheet page.
type PageStyle struct {
	CSSSize     string
	BoxHeightMM float64
	PaddingMM   float64
}

// SheetPage is the production sheet for one order line.
type SheetPage struct {
	Number int
	Total  int
	Header SheetHeader
	Layout LayoutSizes

	PrimaryImage string
	Thumbnails   []string
	// Overflow is the number of secondary images not drawn as thumbnails.
	Overflow int

	Swatches []Swatch
	Notes    SheetNotes
	Details  SheetDetails
	Footer   SheetFooter
}

// SheetHeader is the order summary table at the top of each page.
type SheetHeader struct {
	EntryDate     string
	InformedDate  string
	Factory       string
	SalesOrderRef string
	BuyerPO       string
}

// Swatch is a material sample tile. Gradient is used when ImageURL is empty.
type Swatch struct {
	Label    string
	Code     string
	ImageURL string
	Gradient template.CSS
	Height   int
}

// SheetNotes holds either sanitised free-text notes, or bullets built from
// the structured fields, or neither, in which case Empty is set.
type SheetNotes struct {
	HTML    template.HTML
	Bullets []NoteBullet
	Empty   bool
}

// NoteBullet is one "• Label: Value" line.
type NoteBullet struct {
	Label string
	Value string
}

// SheetDetails is the item table row.
type SheetDetails struct {
	ProductCode string
	Description string
	ColorNotes  string
	Height      string
	Depth       string
	Width       string
	CBM         string
	Quantity    int
}

// SheetFooter is printed at the bottom of each page.
type SheetFooter struct {
	Buyer string
	PO    string
}

// SheetOptions controls how an order is laid out.
type SheetOptions struct {
	Brand  Branding
	Policy SizingPolicy
	Page   printing.PageSetup
	// AutoPrint embeds a script that opens the print dialog on load
	AutoPrint    bool
	PrintDelayMS int
	// DisableAutoPrint keeps the print script out of browser sheets too
	DisableAutoPrint bool
}

// notesPolicy strips scripts, event handlers and styles from notes while
// keeping the basic formatting the order editor produces.
var notesPolicy = bluemonday.UGCPolicy()

// SanitizeNotes returns notes markup that is safe to embed in the sheet.
func SanitizeNotes(notes string) template.HTML {
	return template.HTML(notesPolicy.Sanitize(notes))
}

// BuildSheet lays out o as a production sheet. It does not modify o.
func BuildSheet(o *order.Order, opts SheetOptions) *Sheet {
	policy := opts.Policy.Normalize()
	delay := opts.PrintDelayMS
	if delay <= 0 {
		delay = defaultPrintDelay
	}

	ref := o.SalesOrderRef
	if ref == "" {
		ref = defaultTitleRef
	}
	sheet := &Sheet{
		Title: "Production Sheet - " + ref,
		Brand: opts.Brand,
		Page: PageStyle{
			CSSSize:     opts.Page.Paper.CSSName(),
			BoxHeightMM: opts.Page.BoxHeightMM(),
			PaddingMM:   opts.Page.PaddingMM,
		},
		AutoPrint:    opts.AutoPrint,
		PrintDelayMS: delay,
	}

	header := SheetHeader{
		EntryDate:     order.FormatDate(o.EntryDate),
		InformedDate:  order.FormatDate(o.InformedDate()),
		Factory:       orPlaceholder(o.Factory),
		SalesOrderRef: orPlaceholder(o.SalesOrderRef),
		BuyerPO:       orPlaceholder(o.BuyerPORef),
	}
	footer := SheetFooter{
		Buyer: orPlaceholder(o.BuyerName),
		PO:    orPlaceholder(o.BuyerPORef),
	}

	sheet.Pages = make([]SheetPage, 0, len(o.Items))
	for i, it := range o.Items {
		p := buildPage(it, policy)
		p.Number, p.Total = i+1, len(o.Items)
		p.Header, p.Footer = header, footer
		sheet.Pages = append(sheet.Pages, p)
	}
	return sheet
}

func buildPage(it order.OrderItem, policy SizingPolicy) SheetPage {
	secondary := it.SecondaryImages()
	sizes := policy.Decide(LayoutInput{
		SecondaryImages: len(secondary),
		NotesLength:     utf8.RuneCountInString(it.Notes),
		HasLeather:      it.HasLeather(),
		HasFinish:       it.HasFinish(),
	})

	p := SheetPage{
		Layout:       sizes,
		PrimaryImage: it.DisplayImage(),
		Notes:        buildNotes(it),
		Details: SheetDetails{
			ProductCode: orPlaceholder(it.ProductCode),
			Description: orPlaceholder(it.Description),
			ColorNotes:  it.ColorNotes,
			Height:      order.FormatDimension(it.HeightCM),
			Depth:       order.FormatDimension(it.DepthCM),
			Width:       order.FormatDimension(it.WidthCM),
			CBM:         order.FormatCBM(it, order.SheetCBMPlaces),
			Quantity:    it.EffectiveQuantity(),
		},
	}

	shown := min(len(secondary), policy.MaxThumbnails)
	if shown > 0 {
		p.Thumbnails = append([]string(nil), secondary[:shown]...)
	}
	p.Overflow = len(secondary) - shown

	if it.HasLeather() {
		p.Swatches = append(p.Swatches, Swatch{
			Label: "Leather", Code: orPlaceholder(it.LeatherCode),
			ImageURL: it.LeatherImage, Gradient: leatherGradient, Height: sizes.SwatchHeight,
		})
	}
	if it.HasFinish() {
		p.Swatches = append(p.Swatches, Swatch{
			Label: "Finish", Code: orPlaceholder(it.FinishCode),
			ImageURL: it.FinishImage, Gradient: finishGradient, Height: sizes.SwatchHeight,
		})
	}
	return p
}

func buildNotes(it order.OrderItem) SheetNotes {
	if it.HasNotes() {
		if html := SanitizeNotes(it.Notes); strings.TrimSpace(string(html)) != "" {
			return SheetNotes{HTML: html}
		}
	}

	var bullets []NoteBullet
	add := func(label, value string) {
		if value != "" {
			bullets = append(bullets, NoteBullet{Label: label, Value: value})
		}
	}
	add("Category", it.Category)
	add("Leather", it.LeatherCode)
	add("Finish", it.FinishCode)
	add("Color Notes", it.ColorNotes)
	add("Wood Finish", it.WoodFinish)

	return SheetNotes{Bullets: bullets, Empty: len(bullets) == 0}
}

func orPlaceholder(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}
