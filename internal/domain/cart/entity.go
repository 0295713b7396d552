// internal/domain/cart/entity.go
package cart

import (
	"time"
)

// Cart is the single open cart of a user. Uniqueness of user_id is enforced
// by the database so concurrent first-writes converge on one row.
type Cart struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []CartItem `gorm:"foreignKey:CartID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"items,omitempty"`
}

// CartItem is one line in a cart. The configuration column stores the
// canonical serialized form, and (cart_id, product_id, configuration) is
// unique: adding a structurally identical configuration merges quantities
// instead of creating a second line. Items are hard-deleted so removed rows
// never collide with the unique index.
type CartItem struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	CartID        uint   `gorm:"not null;uniqueIndex:idx_cart_line_identity" json:"cart_id"`
	ProductID     uint   `gorm:"not null;uniqueIndex:idx_cart_line_identity" json:"product_id"`
	Configuration string `gorm:"not null;size:500;uniqueIndex:idx_cart_line_identity" json:"configuration"`
	Quantity      int    `gorm:"not null" json:"quantity"`
	UnitPrice     int64  `gorm:"not null" json:"unit_price"` // cents, refreshed on every write

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName overrides
func (Cart) TableName() string     { return "carts" }
func (CartItem) TableName() string { return "cart_items" }

// LineTotal returns quantity times unit price in cents.
func (ci *CartItem) LineTotal() int64 {
	return int64(ci.Quantity) * ci.UnitPrice
}

// Subtotal sums the line totals of all items in cents.
func (c *Cart) Subtotal() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].LineTotal()
	}
	return total
}

// ItemCount returns the total number of units across all lines.
func (c *Cart) ItemCount() int {
	count := 0
	for i := range c.Items {
		count += c.Items[i].Quantity
	}
	return count
}
