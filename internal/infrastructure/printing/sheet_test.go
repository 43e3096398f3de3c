package printing

import (
	"testing"

	"github.com/prodsheet/backend/internal/domain/order"
	"github.com/prodsheet/backend/internal/domain/printing"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSheetOptions() SheetOptions {
	return SheetOptions{
		Brand:  Branding{Name: "JAIPUR", LogoURL: "https://cdn.example.com/logo.jpeg"},
		Policy: DefaultSizingPolicy(),
		Page:   printing.SheetPageSetup(),
	}
}

func sampleOrder() *order.Order {
	return &order.Order{
		ID:            "ord-1",
		SalesOrderRef: "SO-1001",
		BuyerName:     "Casa Nova",
		BuyerPORef:    "PO-77",
		Factory:       "Jodhpur",
		EntryDate:     "2025-03-07",
		Items: []order.OrderItem{
			{
				ProductCode:  "CH-01",
				Description:  "Lounge chair",
				HeightCM:     decimal.NewFromInt(80),
				DepthCM:      decimal.NewFromInt(90),
				WidthCM:      decimal.NewFromInt(200),
				CBMAuto:      true,
				ProductImage: "https://cdn.example.com/ch01.jpg",
				Images:       []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg", "e.jpg"},
				LeatherCode:  "LTH-9",
				FinishCode:   "WAL",
				ColorNotes:   "dark tan",
			},
			{ProductCode: "TB-02", CBM: order.NewStoredCBM(decimal.RequireFromString("0.35"))},
		},
	}
}

func TestBuildSheet_Pages(t *testing.T) {
	sheet := BuildSheet(sampleOrder(), testSheetOptions())

	assert.Equal(t, "Production Sheet - SO-1001", sheet.Title)
	assert.Equal(t, "A4", sheet.Page.CSSSize)
	assert.Equal(t, 277.0, sheet.Page.BoxHeightMM)
	assert.Equal(t, defaultPrintDelay, sheet.PrintDelayMS)
	require.Len(t, sheet.Pages, 2)

	first := sheet.Pages[0]
	assert.Equal(t, 1, first.Number)
	assert.Equal(t, 2, first.Total)
	assert.Equal(t, SheetHeader{
		EntryDate:     "07-03-2025",
		InformedDate:  "07-03-2025",
		Factory:       "Jodhpur",
		SalesOrderRef: "SO-1001",
		BuyerPO:       "PO-77",
	}, first.Header)
	assert.Equal(t, SheetFooter{Buyer: "Casa Nova", PO: "PO-77"}, first.Footer)

	assert.Equal(t, "https://cdn.example.com/ch01.jpg", first.PrimaryImage)
	assert.Equal(t, []string{"a.jpg", "b.jpg", "c.jpg", "d.jpg"}, first.Thumbnails)
	assert.Equal(t, 1, first.Overflow)
	assert.Equal(t, LayoutSizes{PrimaryHeight: 280, ThumbnailSize: 160, SwatchHeight: 80}, first.Layout)

	require.Len(t, first.Swatches, 2)
	assert.Equal(t, "Leather", first.Swatches[0].Label)
	assert.Equal(t, leatherGradient, first.Swatches[0].Gradient)
	assert.Equal(t, "WAL", first.Swatches[1].Code)
	assert.Equal(t, 80, first.Swatches[1].Height)

	assert.Equal(t, "1.44", first.Details.CBM)
	assert.Equal(t, "80", first.Details.Height)
	assert.Equal(t, 1, first.Details.Quantity)

	second := sheet.Pages[1]
	assert.Empty(t, second.PrimaryImage)
	assert.Empty(t, second.Thumbnails)
	assert.Empty(t, second.Swatches)
	assert.Equal(t, "0.35", second.Details.CBM)
	assert.Equal(t, "0", second.Details.Width)
	assert.Equal(t, "-", second.Details.Description)
	assert.True(t, second.Notes.Empty)
}

func TestBuildSheet_HeaderPlaceholders(t *testing.T) {
	o := &order.Order{Items: []order.OrderItem{{}}}
	sheet := BuildSheet(o, testSheetOptions())

	assert.Equal(t, "Production Sheet - Order", sheet.Title)
	assert.Equal(t, SheetHeader{
		EntryDate: "-", InformedDate: "-", Factory: "-", SalesOrderRef: "-", BuyerPO: "-",
	}, sheet.Pages[0].Header)
	assert.Equal(t, SheetFooter{Buyer: "-", PO: "-"}, sheet.Pages[0].Footer)
}

func TestBuildSheet_InformedDateOverridesEntryDate(t *testing.T) {
	o := &order.Order{EntryDate: "2025-03-07", FactoryInformDate: "2025-03-10", Items: []order.OrderItem{{}}}
	assert.Equal(t, "10-03-2025", BuildSheet(o, testSheetOptions()).Pages[0].Header.InformedDate)
}

func TestBuildSheet_Notes(t *testing.T) {
	tests := []struct {
		name    string
		item    order.OrderItem
		html    string
		bullets []NoteBullet
		empty   bool
	}{
		{
			name: "free text wins",
			item: order.OrderItem{Notes: "<p>Use <strong>brass</strong> legs</p>", Category: "Chairs"},
			html: "<p>Use <strong>brass</strong> legs</p>",
		},
		{
			name: "scripts are stripped",
			item: order.OrderItem{Notes: `<p onclick="x()">ok</p><script>alert(1)</script>`},
			html: "<p>ok</p>",
		},
		{
			name: "structured fallback",
			item: order.OrderItem{Category: "Chairs", FinishCode: "WAL", WoodFinish: "Matte"},
			bullets: []NoteBullet{
				{Label: "Category", Value: "Chairs"},
				{Label: "Finish", Value: "WAL"},
				{Label: "Wood Finish", Value: "Matte"},
			},
		},
		{
			name:    "notes stripped to nothing fall back to fields",
			item:    order.OrderItem{Notes: "<script>alert(1)</script>  ", LeatherCode: "L-7"},
			bullets: []NoteBullet{{Label: "Leather", Value: "L-7"}},
		},
		{
			name:  "notes stripped to nothing with no fields",
			item:  order.OrderItem{Notes: "<script>alert(1)</script>"},
			empty: true,
		},
		{
			name:  "nothing to say",
			item:  order.OrderItem{LeatherImage: "swatch.jpg"},
			empty: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notes := buildNotes(tt.item)
			assert.Equal(t, tt.html, string(notes.HTML))
			assert.Equal(t, tt.bullets, notes.Bullets)
			assert.Equal(t, tt.empty, notes.Empty)
		})
	}
}

func TestBuildSheet_NotesLengthDrivesLayout(t *testing.T) {
	long := make([]rune, 320)
	for i := range long {
		long[i] = 'é'
	}
	o := &order.Order{Items: []order.OrderItem{{Notes: string(long)}}}

	page := BuildSheet(o, testSheetOptions()).Pages[0]
	assert.Equal(t, 300, page.Layout.PrimaryHeight)
}

func TestBuildSheet_DoesNotMutateOrder(t *testing.T) {
	o := sampleOrder()
	sheet := BuildSheet(o, testSheetOptions())
	sheet.Pages[0].Thumbnails[0] = "changed"

	assert.Equal(t, "a.jpg", o.Items[0].Images[0])
}
