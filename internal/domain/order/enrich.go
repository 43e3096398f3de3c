package order

// Enrich fills in missing product images from the catalog.
//
// An item without a product image but with a product code takes the image of
// the first catalog product sharing that code, provided that image is
// non-empty. Every other item is left as is. The input order is not
// modified; the result is a copy.
func Enrich(o *Order, catalog []CatalogProduct) *Order {
	out := o.Clone()
	if out == nil || len(out.Items) == 0 {
		return out
	}

	images := make(map[string]string, len(catalog))
	for _, p := range catalog {
		if p.ProductCode == "" {
			continue
		}
		if _, seen := images[p.ProductCode]; !seen {
			images[p.ProductCode] = p.Image
		}
	}

	for i := range out.Items {
		it := &out.Items[i]
		if it.ProductImage != "" || it.ProductCode == "" {
			continue
		}
		if img := images[it.ProductCode]; img != "" {
			it.ProductImage = img
		}
	}
	return out
}
