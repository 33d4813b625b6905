package cart

import (
	"encoding/json"
	"errors"
)

var (
	// ErrLineNotFound is returned when a quantity update or removal targets a
	// line that is not in the cart.
	ErrLineNotFound = errors.New("cart line not found")
	// ErrMalformedMeta signals a stored metadata payload that cannot be decoded.
	ErrMalformedMeta = errors.New("malformed cart line metadata")
	// ErrCartNotFound is returned when the caller has no usable cart to modify.
	ErrCartNotFound = errors.New("cart not found")
)

// SKU is the product descriptor attached to a line. Attrs is carried as-is
// and never interpreted by the cart layer.
type SKU struct {
	ID    string          `json:"id"`
	Attrs json.RawMessage `json:"attrs,omitempty"`
}

// Meta is everything about a line except its quantity.
type Meta struct {
	SKU    SKU    `json:"sku"`
	Size   string `json:"size,omitempty"`
	Rental bool   `json:"rental,omitempty"`
}

type Line struct {
	SKU    SKU    `json:"sku"`
	Size   string `json:"size,omitempty"`
	Rental bool   `json:"rental,omitempty"`
	Qty    int64  `json:"qty"`
}

// Meta returns the line without its quantity.
func (l Line) Meta() Meta {
	return Meta{SKU: l.SKU, Size: l.Size, Rental: l.Rental}
}

// ID returns the line id derived from the SKU and size.
func (l Line) ID() string {
	return LineID(l.SKU.ID, l.Size)
}

// Cart maps line ids to lines.
type Cart map[string]Line

// LineID derives the key of a line within a cart, e.g. "sku123:M".
func LineID(skuID, size string) string {
	if size == "" {
		return skuID
	}
	return skuID + ":" + size
}

// SkuKey names the metadata hash of a cart.
func SkuKey(cartID string) string {
	return cartID + ":sku"
}

// Normalize returns a copy without zero or negative quantity lines.
func (c Cart) Normalize() Cart {
	out := make(Cart, len(c))
	for id, l := range c {
		if l.Qty > 0 {
			out[id] = l
		}
	}
	return out
}

// Split produces the quantity and metadata hash contents for the cart. Lines
// with no quantity are left out.
func (c Cart) Split() (map[string]int64, map[string]string, error) {
	qty := make(map[string]int64, len(c))
	meta := make(map[string]string, len(c))
	for id, l := range c {
		if l.Qty <= 0 {
			continue
		}
		m := l.Meta()
		raw, err := EncodeMeta(&m)
		if err != nil {
			return nil, nil, err
		}
		qty[id] = l.Qty
		meta[id] = *raw
	}
	return qty, meta, nil
}

// Clone returns a shallow copy of the cart map.
func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for id, l := range c {
		out[id] = l
	}
	return out
}
