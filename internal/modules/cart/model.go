package cart

import (
	"math"

	"github.com/georgemunganga/shophub/internal/modules/catalog"
)

const (
	// FreeShippingThreshold must be exceeded, not just met, to ship for free.
	FreeShippingThreshold = 100.0
	ShippingFee           = 9.99
)

// Line is one product in the cart. Quantity is always at least 1.
type Line struct {
	Product  catalog.Product `json:"product"`
	Quantity int             `json:"quantity"`
}

func (l Line) Subtotal() float64 { return round2(l.Product.Price * float64(l.Quantity)) }

// Snapshot is the persisted form of a ledger.
type Snapshot struct {
	Items []Line `json:"items"`
}

// Summary is what the cart and checkout pages show below the lines.
type Summary struct {
	Subtotal   float64 `json:"subtotal"`
	Shipping   float64 `json:"shipping"`
	GrandTotal float64 `json:"grand_total"`
	ItemCount  int     `json:"item_count"`
}

// Shipping is free above FreeShippingThreshold and a flat fee otherwise.
func Shipping(subtotal float64) float64 {
	if subtotal > FreeShippingThreshold {
		return 0
	}
	return ShippingFee
}

func Summarize(l *Ledger) Summary {
	subtotal := l.Total()
	shipping := Shipping(subtotal)
	return Summary{
		Subtotal:   subtotal,
		Shipping:   shipping,
		GrandTotal: round2(subtotal + shipping),
		ItemCount:  l.ItemCount(),
	}
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
