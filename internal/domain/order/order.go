// Package order holds the furniture order read model presented on the
// order page and the production sheet.
package order

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// ID identifies an order or an order line. The backend emits either JSON
// strings or numbers for identifiers, both decode into ID.
type ID string

// UnmarshalJSON accepts a JSON string, number or null.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// Order is a customer sales order as served by the order backend.
// Date fields are kept exactly as received; see FormatDate.
type Order struct {
	ID                ID          `json:"id"`
	SalesOrderRef     string      `json:"sales_order_ref"`
	BuyerName         string      `json:"buyer_name"`
	BuyerPORef        string      `json:"buyer_po_ref"`
	Factory           string      `json:"factory"`
	FactoryInformDate string      `json:"factory_inform_date"`
	EntryDate         string      `json:"entry_date"`
	Status            Status      `json:"status"`
	CreatedAt         string      `json:"created_at"`
	Items             []OrderItem `json:"items"`
}

// InformedDate is the date the factory was informed, falling back to the
// entry date when it was never recorded.
func (o *Order) InformedDate() string {
	if o.FactoryInformDate != "" {
		return o.FactoryInformDate
	}
	return o.EntryDate
}

// Clone returns a deep copy of the order.
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}
	c := *o
	if o.Items != nil {
		c.Items = make([]OrderItem, len(o.Items))
		for i, it := range o.Items {
			c.Items[i] = it.clone()
		}
	}
	return &c
}

// OrderItem is one product line of an order.
type OrderItem struct {
	ID           ID              `json:"id,omitempty"`
	ProductCode  string          `json:"product_code"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	HeightCM     decimal.Decimal `json:"height_cm"`
	DepthCM      decimal.Decimal `json:"depth_cm"`
	WidthCM      decimal.Decimal `json:"width_cm"`
	Quantity     int             `json:"quantity"`
	CBM          StoredCBM       `json:"cbm"`
	CBMAuto      bool            `json:"cbm_auto"`
	Notes        string          `json:"notes"`
	ProductImage string          `json:"product_image"`
	Images       []string        `json:"images"`
	LeatherCode  string          `json:"leather_code"`
	LeatherImage string          `json:"leather_image"`
	FinishCode   string          `json:"finish_code"`
	FinishImage  string          `json:"finish_image"`
	ColorNotes   string          `json:"color_notes"`
	WoodFinish   string          `json:"wood_finish"`
}

// UnmarshalJSON decodes a line leniently: dimensions and quantity may be
// numbers, numeric strings, empty strings or null. Values that are not
// numeric decode as zero.
func (it *OrderItem) UnmarshalJSON(b []byte) error {
	type plain OrderItem
	*it = OrderItem{}
	raw := struct {
		*plain
		HeightCM json.RawMessage `json:"height_cm"`
		DepthCM  json.RawMessage `json:"depth_cm"`
		WidthCM  json.RawMessage `json:"width_cm"`
		Quantity json.RawMessage `json:"quantity"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	it.HeightCM = looseDecimal(raw.HeightCM)
	it.DepthCM = looseDecimal(raw.DepthCM)
	it.WidthCM = looseDecimal(raw.WidthCM)
	it.Quantity = int(looseDecimal(raw.Quantity).IntPart())
	return nil
}

func looseDecimal(b json.RawMessage) decimal.Decimal {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		return decimal.Zero
	}
	text := string(b)
	if b[0] == '"' {
		if err := json.Unmarshal(b, &text); err != nil {
			return decimal.Zero
		}
	}
	d, err := decimal.NewFromString(strings.TrimSpace(text))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func (it OrderItem) clone() OrderItem {
	if it.Images != nil {
		it.Images = append([]string(nil), it.Images...)
	}
	return it
}

// DisplayImage is the primary picture of the line: the product image when
// set, otherwise the first uploaded image, otherwise empty.
func (it OrderItem) DisplayImage() string {
	if it.ProductImage != "" {
		return it.ProductImage
	}
	if len(it.Images) > 0 {
		return it.Images[0]
	}
	return ""
}

// SecondaryImages are the uploaded images not used as the display image.
func (it OrderItem) SecondaryImages() []string {
	if it.ProductImage != "" {
		return it.Images
	}
	if len(it.Images) <= 1 {
		return nil
	}
	return it.Images[1:]
}

// EffectiveQuantity treats a missing or zero quantity as one piece.
func (it OrderItem) EffectiveQuantity() int {
	if it.Quantity <= 0 {
		return 1
	}
	return it.Quantity
}

// HasLeather reports whether a leather swatch should be shown.
func (it OrderItem) HasLeather() bool {
	return it.LeatherCode != "" || it.LeatherImage != ""
}

// HasFinish reports whether a finish swatch should be shown.
func (it OrderItem) HasFinish() bool {
	return it.FinishCode != "" || it.FinishImage != ""
}

// HasStructuredNotes reports whether any field feeding the fallback note
// bullets is set.
func (it OrderItem) HasStructuredNotes() bool {
	return it.Category != "" || it.LeatherCode != "" || it.FinishCode != "" ||
		it.ColorNotes != "" || it.WoodFinish != ""
}

// HasNotes reports whether free-text notes were entered.
func (it OrderItem) HasNotes() bool {
	return it.Notes != ""
}

// CatalogProduct is the subset of a catalog entry used to fill in images.
type CatalogProduct struct {
	ID          ID     `json:"id,omitempty"`
	ProductCode string `json:"product_code"`
	Description string `json:"description,omitempty"`
	Image       string `json:"image"`
}
