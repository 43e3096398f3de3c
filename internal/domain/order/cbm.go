package order

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

// Display precision of computed volumes.
const (
	ListCBMPlaces  int32 = 4
	SheetCBMPlaces int32 = 2
)

var cmPerCubicMetre = decimal.NewFromInt(1_000_000)

// StoredCBM is a manually entered volume. Text keeps the value exactly as
// the backend sent it so it can be displayed verbatim.
type StoredCBM struct {
	Text  string
	Value decimal.NullDecimal
}

// UnmarshalJSON accepts a JSON number, a numeric or free-form string, or null.
func (c *StoredCBM) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	*c = StoredCBM{}
	if len(b) == 0 || string(b) == "null" {
		return nil
	}
	if b[0] == '"' {
		if err := json.Unmarshal(b, &c.Text); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(b, &n); err != nil {
			return err
		}
		c.Text = n.String()
	}
	if d, err := decimal.NewFromString(strings.TrimSpace(c.Text)); err == nil {
		c.Value = decimal.NewNullDecimal(d)
	}
	return nil
}

// MarshalJSON writes numeric values as JSON numbers and anything else as a string.
func (c StoredCBM) MarshalJSON() ([]byte, error) {
	if c.Text == "" {
		return []byte("null"), nil
	}
	if raw := []byte(strings.TrimSpace(c.Text)); c.Value.Valid && json.Valid(raw) {
		return raw, nil
	}
	return json.Marshal(c.Text)
}

// NewStoredCBM builds a stored volume from a decimal.
func NewStoredCBM(d decimal.Decimal) StoredCBM {
	return StoredCBM{Text: d.String(), Value: decimal.NewNullDecimal(d)}
}

// IsSet reports whether a volume was stored.
func (c StoredCBM) IsSet() bool { return c.Text != "" }

// Volume returns the line volume in cubic metres. With cbm_auto set it is
// height × depth × width / 1,000,000 with missing dimensions counting as
// zero; otherwise it is the stored value. ok is false when a manual line
// carries no numeric volume.
func Volume(it OrderItem) (v decimal.Decimal, ok bool) {
	if it.CBMAuto {
		return it.HeightCM.Mul(it.DepthCM).Mul(it.WidthCM).Div(cmPerCubicMetre), true
	}
	if it.CBM.Value.Valid {
		return it.CBM.Value.Decimal, true
	}
	return decimal.Zero, false
}

// FormatCBM renders the line volume for display. Computed volumes are
// rounded to places decimals and always show exactly that many digits.
// Manual volumes are shown as stored; a missing one is "-".
func FormatCBM(it OrderItem, places int32) string {
	if it.CBMAuto {
		v, _ := Volume(it)
		return v.StringFixed(places)
	}
	if !it.CBM.IsSet() {
		return "-"
	}
	return it.CBM.Text
}

// FormatDimension renders a dimension in centimetres, "0" when absent.
func FormatDimension(d decimal.Decimal) string {
	return d.String()
}

// TotalVolume sums the volume of every line multiplied by its quantity.
// Lines without a numeric volume are skipped.
func TotalVolume(o *Order) decimal.Decimal {
	total := decimal.Zero
	for _, it := range o.Items {
		v, ok := Volume(it)
		if !ok {
			continue
		}
		total = total.Add(v.Mul(decimal.NewFromInt(int64(it.EffectiveQuantity()))))
	}
	return total
}
