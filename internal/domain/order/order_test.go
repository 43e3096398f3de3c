package order

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrder_UnmarshalBackendPayload(t *testing.T) {
	payload := `{
		"id": 42,
		"sales_order_ref": "SO-1001",
		"buyer_name": "Casa Nova",
		"buyer_po_ref": "PO-77",
		"factory": "Jodhpur",
		"entry_date": "2025-03-07",
		"status": "In Production",
		"items": [
			{"id": "a1", "product_code": "CH-01", "height_cm": 80, "depth_cm": "55.5", "width_cm": null,
			 "quantity": 2, "cbm": 0.50, "cbm_auto": false, "images": ["x.jpg"]},
			{"product_code": "TB-02", "cbm": null, "cbm_auto": true}
		]
	}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(payload), &o))

	assert.Equal(t, ID("42"), o.ID)
	assert.Equal(t, StatusInProduction, o.Status)
	require.Len(t, o.Items, 2)

	first := o.Items[0]
	assert.Equal(t, ID("a1"), first.ID)
	assert.True(t, first.HeightCM.Equal(decimal.NewFromInt(80)))
	assert.True(t, first.DepthCM.Equal(decimal.RequireFromString("55.5")))
	assert.True(t, first.WidthCM.IsZero())
	assert.Equal(t, "0.50", first.CBM.Text)
	assert.True(t, first.CBM.Value.Valid)

	assert.False(t, o.Items[1].CBM.IsSet())
}

func TestStoredCBM_MarshalJSON(t *testing.T) {
	tests := []struct {
		name string
		in   StoredCBM
		want string
	}{
		{"unset", StoredCBM{}, "null"},
		{"numeric keeps digits", StoredCBM{Text: "0.50", Value: decimal.NewNullDecimal(decimal.RequireFromString("0.5"))}, "0.50"},
		{"free text", StoredCBM{Text: "approx 1"}, `"approx 1"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := json.Marshal(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, string(b))
		})
	}
}

func TestOrderItem_Images(t *testing.T) {
	tests := []struct {
		name      string
		item      OrderItem
		display   string
		secondary []string
	}{
		{"nothing", OrderItem{}, "", nil},
		{"product image only", OrderItem{ProductImage: "p.jpg"}, "p.jpg", nil},
		{"uploads only", OrderItem{Images: []string{"a", "b", "c"}}, "a", []string{"b", "c"}},
		{"single upload", OrderItem{Images: []string{"a"}}, "a", nil},
		{"product image and uploads", OrderItem{ProductImage: "p", Images: []string{"a", "b"}}, "p", []string{"a", "b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.display, tt.item.DisplayImage())
			assert.Equal(t, tt.secondary, tt.item.SecondaryImages())
		})
	}
}

func TestOrderItem_EffectiveQuantity(t *testing.T) {
	assert.Equal(t, 1, OrderItem{}.EffectiveQuantity())
	assert.Equal(t, 1, OrderItem{Quantity: -3}.EffectiveQuantity())
	assert.Equal(t, 6, OrderItem{Quantity: 6}.EffectiveQuantity())
}

func TestOrder_InformedDate(t *testing.T) {
	o := &Order{EntryDate: "2025-01-02"}
	assert.Equal(t, "2025-01-02", o.InformedDate())
	o.FactoryInformDate = "2025-01-09"
	assert.Equal(t, "2025-01-09", o.InformedDate())
}

func TestOrder_CloneIsDeep(t *testing.T) {
	o := &Order{Items: []OrderItem{{Images: []string{"a"}}}}
	c := o.Clone()
	c.Items[0].Images[0] = "changed"
	c.Items[0].ProductImage = "p"

	assert.Equal(t, "a", o.Items[0].Images[0])
	assert.Empty(t, o.Items[0].ProductImage)
	assert.Nil(t, (*Order)(nil).Clone())
}

func TestStatus_Tone(t *testing.T) {
	assert.Equal(t, ToneYellow, StatusDraft.Tone())
	assert.Equal(t, ToneBlue, StatusSubmitted.Tone())
	assert.Equal(t, TonePurple, StatusInProduction.Tone())
	assert.Equal(t, ToneGreen, StatusDone.Tone())
	assert.Equal(t, ToneGray, Status("Cancelled").Tone())
	assert.False(t, Status("").IsKnown())
}

func TestParseID(t *testing.T) {
	id, err := ParseID("  ord-1 ")
	require.NoError(t, err)
	assert.Equal(t, ID("ord-1"), id)

	for _, bad := range []string{"", "   ", "a/b", "a b", "x?y", ".."} {
		_, err := ParseID(bad)
		assert.Error(t, err, bad)
	}
}

func TestOrderItem_UnmarshalLenientNumbers(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		height   string
		quantity int
	}{
		{"empty string dimension", `{"height_cm": "", "quantity": 3}`, "0", 3},
		{"null values", `{"height_cm": null, "quantity": null}`, "0", 0},
		{"integral float quantity", `{"height_cm": 80, "quantity": 2.0}`, "80", 2},
		{"numeric strings", `{"height_cm": " 75.5 ", "quantity": "2"}`, "75.5", 2},
		{"non numeric text", `{"height_cm": "tall", "quantity": "many"}`, "0", 0},
		{"absent fields", `{"product_code": "CH-01"}`, "0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var it OrderItem
			require.NoError(t, json.Unmarshal([]byte(tt.payload), &it))
			assert.True(t, it.HeightCM.Equal(decimal.RequireFromString(tt.height)), it.HeightCM.String())
			assert.Equal(t, tt.quantity, it.Quantity)
		})
	}
}

func TestOrder_UnmarshalKeepsLoadingWithLooseItems(t *testing.T) {
	payload := `{"sales_order_ref": "SO-9", "items": [
		{"product_code": "CH-01", "height_cm": "", "depth_cm": "50", "width_cm": 60,
		 "quantity": "2", "cbm_auto": true, "notes": "soft", "images": ["a.jpg"]},
		{"product_code": "TB-02", "quantity": 1.0, "cbm": "0.25"}
	]}`

	var o Order
	require.NoError(t, json.Unmarshal([]byte(payload), &o))
	require.Len(t, o.Items, 2)

	first := o.Items[0]
	assert.Equal(t, "CH-01", first.ProductCode)
	assert.True(t, first.HeightCM.IsZero())
	assert.True(t, first.DepthCM.Equal(decimal.NewFromInt(50)))
	assert.True(t, first.WidthCM.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 2, first.Quantity)
	assert.True(t, first.CBMAuto)
	assert.Equal(t, "soft", first.Notes)
	assert.Equal(t, []string{"a.jpg"}, first.Images)

	assert.Equal(t, 1, o.Items[1].EffectiveQuantity())
	assert.Equal(t, "0.25", o.Items[1].CBM.Text)
}
