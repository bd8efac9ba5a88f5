package models

import "time"

// CartItem is a single line in a customer's cart. Prices are integer minor
// currency units (pence) to avoid floating-point rounding.
type CartItem struct {
	ID        string `bson:"id,omitempty" json:"id,omitempty"`               // backend product id when known
	SKU       string `bson:"sku,omitempty" json:"sku,omitempty"`             // stock keeping unit
	Name      string `bson:"name" json:"name"`                               // display name
	Variation string `bson:"variation,omitempty" json:"variation,omitempty"` // strength/dosage label, e.g. "500mg"
	Quantity  int    `bson:"quantity" json:"quantity"`                       // always >= 1
	UnitPrice int64  `bson:"unit_price" json:"unit_price"`                   // minor units
	MaxStock  int    `bson:"max_stock,omitempty" json:"max_stock,omitempty"` // 0 = no bound
}

// Key returns the identity used to deduplicate cart lines: id, else sku,
// else name+variation composite.
func (i CartItem) Key() string {
	if i.ID != "" {
		return i.ID
	}
	if i.SKU != "" {
		return i.SKU
	}
	return i.Name + "|" + i.Variation
}

// LineTotal returns quantity x unit price in minor units.
func (i CartItem) LineTotal() int64 {
	return int64(i.Quantity) * i.UnitPrice
}

// Cart is the per-user transient cart document stored in Redis.
type Cart struct {
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []CartItem `bson:"items" json:"items"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// Subtotal sums all line totals in minor units.
func (c Cart) Subtotal() int64 {
	var total int64
	for _, it := range c.Items {
		total += it.LineTotal()
	}
	return total
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool {
	return len(c.Items) == 0
}
