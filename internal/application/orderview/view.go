package orderview

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/prodsheet/backend/internal/domain/order"
)

const (
	untitledOrder = "Untitled Order"
	notAvailable  = "N/A"
	placeholder   = "-"
	noItemsText   = "No items in this order"
)

// OrderView is the summary page of one order.
type OrderView struct {
	State      ViewState `json:"state"`
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Subtitle   string    `json:"subtitle"`
	Status     string    `json:"status"`
	StatusTone string    `json:"status_tone"`
	EntryDate  string    `json:"entry_date"`
	Factory    string    `json:"factory"`
	TotalItems int       `json:"total_items"`
	Created    string    `json:"created"`
	TotalCBM   string    `json:"total_cbm"`
	Items      []ItemRow `json:"items"`
	Empty      string    `json:"empty_message,omitempty"`
	Links      ViewLinks `json:"links"`
}

// ItemRow is one line of the items table.
type ItemRow struct {
	Index        int    `json:"index"`
	ProductCode  string `json:"product_code"`
	Description  string `json:"description"`
	Category     string `json:"category"`
	Height       string `json:"height_cm"`
	Depth        string `json:"depth_cm"`
	Width        string `json:"width_cm"`
	CBM          string `json:"cbm"`
	Quantity     int    `json:"quantity"`
	ImageCount   int    `json:"image_count"`
	Images       string `json:"images"`
	DisplayImage string `json:"display_image,omitempty"`
}

// ViewLinks are the navigation targets of the summary page.
type ViewLinks struct {
	Back    string `json:"back"`
	Edit    string `json:"edit"`
	Preview string `json:"preview"`
	PDF     string `json:"pdf,omitempty"`
}

// LinkConfig holds the paths navigation links are built from.
type LinkConfig struct {
	OrderListURL  string
	OrderBasePath string
	ExportPDFURL  string
}

// NewOrderView builds the summary of an enriched order.
func NewOrderView(o *order.Order, links LinkConfig) *OrderView {
	base := strings.TrimRight(links.OrderBasePath, "/")
	id := url.PathEscape(o.ID.String())

	v := &OrderView{
		State:      StateReady,
		ID:         o.ID.String(),
		Title:      orDefault(o.SalesOrderRef, untitledOrder),
		Subtitle:   fmt.Sprintf("Buyer: %s | PO: %s", orDefault(o.BuyerName, notAvailable), orDefault(o.BuyerPORef, notAvailable)),
		Status:     string(o.Status),
		StatusTone: string(o.Status.Tone()),
		EntryDate:  order.FormatDate(o.EntryDate),
		Factory:    orDefault(o.Factory, notAvailable),
		TotalItems: len(o.Items),
		Created:    order.FormatDate(o.CreatedAt),
		TotalCBM:   order.TotalVolume(o).StringFixed(order.ListCBMPlaces),
		Items:      make([]ItemRow, 0, len(o.Items)),
		Links: ViewLinks{
			Back:    links.OrderListURL,
			Edit:    base + "/" + id + "/edit",
			Preview: base + "/" + id + "/preview",
			PDF:     links.ExportPDFURL,
		},
	}

	for i, it := range o.Items {
		v.Items = append(v.Items, ItemRow{
			Index:        i + 1,
			ProductCode:  orDefault(it.ProductCode, placeholder),
			Description:  orDefault(it.Description, placeholder),
			Category:     orDefault(it.Category, placeholder),
			Height:       order.FormatDimension(it.HeightCM),
			Depth:        order.FormatDimension(it.DepthCM),
			Width:        order.FormatDimension(it.WidthCM),
			CBM:          order.FormatCBM(it, order.ListCBMPlaces),
			Quantity:     it.EffectiveQuantity(),
			ImageCount:   len(it.Images),
			Images:       imageCount(len(it.Images)),
			DisplayImage: it.DisplayImage(),
		})
	}
	if len(v.Items) == 0 {
		v.Empty = noItemsText
	}
	return v
}

func imageCount(n int) string {
	if n == 0 {
		return placeholder
	}
	return fmt.Sprintf("%d image(s)", n)
}

func orDefault(s, def string) string {
	if s == "" {
		return def
	}
	return s
}
