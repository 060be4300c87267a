package models

import (
	"crypto/sha256"
	"database/sql/driver"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// PaymentStatus is the payment state of an order.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentFailed   PaymentStatus = "failed"
	PaymentRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentPending, PaymentPaid, PaymentFailed, PaymentRefunded:
		return true
	}
	return false
}

// Order is an immutable snapshot of cart contents at checkout time. Only the
// status, payment and shipping-tracking fields change after creation.
type Order struct {
	ID              uint            `gorm:"primaryKey"`
	OrderNumber     string          `gorm:"uniqueIndex;not null"`
	UserID          uint            `gorm:"not null;index"`
	User            User            `gorm:"foreignKey:UserID"`
	Status          OrderStatus     `gorm:"type:varchar(16);not null;default:'pending';index"`
	PaymentStatus   PaymentStatus   `gorm:"type:varchar(16);not null;default:'pending';index"`
	PaymentMethod   string
	Subtotal        decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingCost    decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ShippingAddress Address         `gorm:"type:jsonb;not null"`
	BillingAddress  NullableAddress `gorm:"type:jsonb"`
	ShippingCourier string
	ShippingService string
	TrackingNumber  string
	Notes           string
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time

	Items []OrderItem `gorm:"foreignKey:OrderID"`
}

func (o *Order) TableName() string {
	return "orders"
}

// ProductSnapshot is the copy of product fields embedded in an order item at
// order-creation time, immune to later product edits or deletion.
type ProductSnapshot struct {
	Name         string           `json:"name"`
	Description  string           `json:"description"`
	Price        decimal.Decimal  `json:"price"`
	SalePrice    *decimal.Decimal `json:"sale_price,omitempty"`
	Images       []string         `json:"images"`
	SKU          string           `json:"sku"`
	CategoryName string           `json:"category_name"`
	SellerName   string           `json:"seller_name"`
}

func (s ProductSnapshot) Value() (driver.Value, error) {
	return jsonValue(s)
}

func (s *ProductSnapshot) Scan(src any) error {
	return jsonScan(src, s)
}

// OrderItem is one line of an order. Price is the unit price captured at
// order time, not a live reference to the product; once created, price,
// total and snapshot never change.
type OrderItem struct {
	ID              uint            `gorm:"primaryKey"`
	OrderID         uint            `gorm:"not null;index"`
	ProductID       uint            `gorm:"not null;index"`
	Product         Product         `gorm:"foreignKey:ProductID"`
	Quantity        int             `gorm:"not null"`
	Price           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	Total           decimal.Decimal `gorm:"type:decimal(12,2);not null"`
	ProductSnapshot ProductSnapshot `gorm:"type:jsonb;not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (i *OrderItem) TableName() string {
	return "order_items"
}

const orderNumberPrefix = "ORD"

// GenerateOrderNumber produces an external order identifier of the form
// ORD<yyyymmdd><6 uppercase hex chars>. Uniqueness is enforced by the
// database constraint; callers retry with a fresh number on collision.
func GenerateOrderNumber() string {
	sum := sha256.Sum256([]byte(uuid.NewString()))
	return orderNumberPrefix + time.Now().Format("20060102") + strings.ToUpper(hex.EncodeToString(sum[:3]))
}

// SnapshotOf captures the product fields an order item keeps for historical
// display. Category and Seller must be loaded.
func SnapshotOf(p *Product) ProductSnapshot {
	return ProductSnapshot{
		Name:         p.Name,
		Description:  p.Description,
		Price:        p.Price,
		SalePrice:    p.SalePrice,
		Images:       append([]string(nil), p.Images...),
		SKU:          p.SKU,
		CategoryName: p.Category.Name,
		SellerName:   p.Seller.Name,
	}
}

// BuildOrderItems freezes the given cart items into order items at their
// current effective prices and returns them with the order subtotal.
func BuildOrderItems(items []Cart) ([]OrderItem, decimal.Decimal) {
	orderItems := make([]OrderItem, len(items))
	subtotal := decimal.Zero
	for i := range items {
		product := &items[i].Product
		unit := product.EffectivePrice()
		total := unit.Mul(decimal.NewFromInt(int64(items[i].Quantity)))
		orderItems[i] = OrderItem{
			ProductID:       product.ID,
			Quantity:        items[i].Quantity,
			Price:           unit,
			Total:           total,
			ProductSnapshot: SnapshotOf(product),
		}
		subtotal = subtotal.Add(total)
	}
	return orderItems, subtotal
}
