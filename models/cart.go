package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is one row per (user, product) pair. A second add for the same
// product merges into the existing row instead of creating a duplicate.
type Cart struct {
	ID        uint    `gorm:"primaryKey"`
	UserID    uint    `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	User      User    `gorm:"foreignKey:UserID"`
	ProductID uint    `gorm:"not null;uniqueIndex:idx_cart_user_product"`
	Product   Product `gorm:"foreignKey:ProductID"`
	Quantity  int     `gorm:"not null;default:1"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c *Cart) TableName() string {
	return "carts"
}

// Total is the line total at the product's current effective price. It is
// computed at read time, so price changes show up in the cart view until
// checkout freezes them into an order item.
func (c *Cart) Total() decimal.Decimal {
	return c.Product.EffectivePrice().Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// CartSubtotal sums the line totals of the given cart items.
func CartSubtotal(items []Cart) decimal.Decimal {
	subtotal := decimal.Zero
	for i := range items {
		subtotal = subtotal.Add(items[i].Total())
	}
	return subtotal
}
