package checkout

import (
	"time"

	"github.com/georgemunganga/shophub/internal/modules/cart"
)

// OrderPlacedTopic carries one event per placed order.
const OrderPlacedTopic = "order.placed"

// Quote is what the checkout page shows before the shopper buys.
type Quote struct {
	cart.View
	Empty bool `json:"empty"`
}

// Order is the receipt of a completed demo checkout.
type Order struct {
	Number      string      `json:"number"`
	SessionID   string      `json:"-"`
	Items       []cart.Line `json:"items"`
	Subtotal    float64     `json:"subtotal"`
	Shipping    float64     `json:"shipping"`
	Total       float64     `json:"total"`
	Currency    string      `json:"currency"`
	ProviderRef string      `json:"provider_ref"`
	PlacedAt    time.Time   `json:"placed_at"`
}
