package order

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dims(h, d, w string) OrderItem {
	return OrderItem{
		HeightCM: decimal.RequireFromString(h),
		DepthCM:  decimal.RequireFromString(d),
		WidthCM:  decimal.RequireFromString(w),
		CBMAuto:  true,
	}
}

func TestFormatCBM(t *testing.T) {
	tests := []struct {
		name   string
		item   OrderItem
		places int32
		want   string
	}{
		{"list precision", dims("80", "90", "200"), ListCBMPlaces, "1.4400"},
		{"sheet precision", dims("80", "90", "200"), SheetCBMPlaces, "1.44"},
		{"rounds half up", dims("45", "45", "45"), ListCBMPlaces, "0.0911"},
		{"sheet rounding", dims("45", "45", "45"), SheetCBMPlaces, "0.09"},
		{"missing dimensions", OrderItem{CBMAuto: true}, SheetCBMPlaces, "0.00"},
		{"manual verbatim", OrderItem{CBM: StoredCBM{Text: "0.500"}}, ListCBMPlaces, "0.500"},
		{"manual ignores dimensions", OrderItem{HeightCM: decimal.NewFromInt(100), CBM: StoredCBM{Text: "2"}}, SheetCBMPlaces, "2"},
		{"manual missing", OrderItem{}, SheetCBMPlaces, "-"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatCBM(tt.item, tt.places))
		})
	}
}

func TestVolume(t *testing.T) {
	v, ok := Volume(dims("100", "50", "20"))
	assert.True(t, ok)
	assert.True(t, v.Equal(decimal.RequireFromString("0.1")), v.String())

	_, ok = Volume(OrderItem{CBM: StoredCBM{Text: "n/a"}})
	assert.False(t, ok)

	v, ok = Volume(OrderItem{CBM: NewStoredCBM(decimal.RequireFromString("0.75"))})
	assert.True(t, ok)
	assert.Equal(t, "0.75", v.String())
}

func TestTotalVolume(t *testing.T) {
	auto := dims("100", "50", "20")
	auto.Quantity = 3
	o := &Order{Items: []OrderItem{
		auto,
		{CBM: NewStoredCBM(decimal.RequireFromString("0.2"))},
		{CBM: StoredCBM{Text: "unknown"}},
	}}

	assert.Equal(t, "0.5", TotalVolume(o).String())
}
