package model

import "time"

// CartItem is one line of an authenticated user's cart. A user holds at most
// one row per (product, size); adding again accumulates quantity. Rows are
// deleted outright when removed, never archived, so the unique index stays
// enforceable.
type CartItem struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	UserID    uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_size" json:"user_id"`
	ProductID uint      `gorm:"not null;uniqueIndex:idx_cart_user_product_size" json:"product_id"`
	Size      string    `gorm:"not null;default:'';uniqueIndex:idx_cart_user_product_size" json:"size,omitempty"`
	Quantity  int       `gorm:"not null;check:quantity > 0" json:"quantity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	User    User    `gorm:"foreignKey:UserID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// Subtotal is the live line total at the product's current price.
func (c *CartItem) Subtotal() float64 {
	return c.Product.Price * float64(c.Quantity)
}
