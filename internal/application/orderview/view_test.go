package orderview

import (
	"testing"

	"github.com/prodsheet/backend/internal/domain/order"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderView(t *testing.T) {
	o := order.Enrich(sampleOrder(), sampleCatalog())
	v := NewOrderView(o, LinkConfig{OrderListURL: "/orders", OrderBasePath: "/orders/"})

	assert.Equal(t, "42", v.ID)
	assert.Equal(t, "Buyer: Casa Nova | PO: PO-9", v.Subtitle)
	assert.Equal(t, "In Production", v.Status)
	assert.Equal(t, "07-03-2025", v.EntryDate)
	assert.Equal(t, "01-03-2025", v.Created)
	assert.Equal(t, "Jodhpur", v.Factory)
	assert.Equal(t, 2, v.TotalItems)
	assert.Equal(t, "2.1000", v.TotalCBM)
	assert.Empty(t, v.Empty)

	assert.Equal(t, "/orders", v.Links.Back)
	assert.Equal(t, "/orders/42/edit", v.Links.Edit)
	assert.Equal(t, "/orders/42/preview", v.Links.Preview)

	require.Len(t, v.Items, 2)
	row := v.Items[0]
	assert.Equal(t, 1, row.Index)
	assert.Equal(t, "CH-01", row.ProductCode)
	assert.Equal(t, "-", row.Category)
	assert.Equal(t, "100", row.Height)
	assert.Equal(t, "0.3000", row.CBM)
	assert.Equal(t, 2, row.Quantity)
	assert.Equal(t, "-", row.Images)
	assert.Equal(t, 0, row.ImageCount)

	assert.Equal(t, "-", v.Items[1].Description)
	assert.Equal(t, "0", v.Items[1].Height)
	assert.Equal(t, 1, v.Items[1].Quantity)
}

func TestNewOrderView_Placeholders(t *testing.T) {
	v := NewOrderView(&order.Order{ID: "a b", Status: "Archived"}, LinkConfig{OrderBasePath: "/orders"})

	assert.Equal(t, "Untitled Order", v.Title)
	assert.Equal(t, "Buyer: N/A | PO: N/A", v.Subtitle)
	assert.Equal(t, "N/A", v.Factory)
	assert.Equal(t, "-", v.EntryDate)
	assert.Equal(t, "gray", v.StatusTone)
	assert.Equal(t, "No items in this order", v.Empty)
	assert.NotNil(t, v.Items)
	assert.Equal(t, "/orders/a%20b/edit", v.Links.Edit)
}
