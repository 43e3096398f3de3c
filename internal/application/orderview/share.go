package orderview

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/prodsheet/backend/internal/domain/order"
)

// ShareLink is a prepared WhatsApp share of an order.
type ShareLink struct {
	OrderID string `json:"order_id"`
	Message string `json:"message"`
	PDFURL  string `json:"pdf_url"`
	URL     string `json:"url"`
}

// ShareMessage writes the WhatsApp text for o. Entry dates are sent as
// stored; the recipient sees the same value the order service holds.
func ShareMessage(o *order.Order, title, pdfURL string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "*%s*\n\n", title)
	fmt.Fprintf(&b, "📋 *Order:* %s\n", orDefault(o.SalesOrderRef, notAvailable))
	fmt.Fprintf(&b, "👤 *Buyer:* %s\n", orDefault(o.BuyerName, notAvailable))
	fmt.Fprintf(&b, "📅 *Date:* %s\n", orDefault(o.EntryDate, notAvailable))
	fmt.Fprintf(&b, "📦 *Items:* %d\n\n", len(o.Items))

	if len(o.Items) > 0 {
		b.WriteString("*Items:*\n")
		for i, it := range o.Items {
			fmt.Fprintf(&b, "%d. %s - %s (Qty: %d)\n",
				i+1, it.ProductCode, orDefault(it.Description, "No desc"), it.EffectiveQuantity())
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "📥 *Download PDF:*\n%s", pdfURL)
	return b.String()
}

// WhatsAppURL returns the click-to-chat link carrying message.
func WhatsAppURL(base, message string) string {
	return base + "?text=" + encodeURIComponent(message)
}

var componentUnescapes = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// encodeURIComponent escapes s leaving only A-Z a-z 0-9 and -_.!~*'() as is,
// which is what wa.me expects from browser-built links.
func encodeURIComponent(s string) string {
	return componentUnescapes.Replace(url.QueryEscape(s))
}
