// internal/domain/cart/entity.go
package cart

import "time"

// Item represents one line of the not-yet-submitted selection. Lines are
// unique by menu item ID; adding the same ID again increments Quantity.
type Item struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"` // Price per unit in cents
	Image    string `json:"image,omitempty"`
	Category string `json:"category,omitempty"`
	Quantity int    `json:"quantity"`
}

// Cart is the persisted cart document
type Cart struct {
	Items     []Item    `json:"items"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Totals represents derived cart totals, recomputed on demand and never stored
type Totals struct {
	TotalItems int   `json:"total_items"` // Sum of all quantities
	TotalPrice int64 `json:"total_price"` // Sum of price * quantity, in cents
}

// Totals computes the derived totals for the cart
func (c *Cart) Totals() Totals {
	var totals Totals
	for _, item := range c.Items {
		totals.TotalItems += item.Quantity
		totals.TotalPrice += item.Price * int64(item.Quantity)
	}
	return totals
}

// Find returns the line with the given ID, or nil
func (c *Cart) Find(id string) *Item {
	for i := range c.Items {
		if c.Items[i].ID == id {
			return &c.Items[i]
		}
	}
	return nil
}
