package models

import (
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type OrdersRepository struct {
	db *gorm.DB
}

func NewOrdersRepository(db *gorm.DB) *OrdersRepository {
	return &OrdersRepository{db: db}
}

// CheckoutInput carries the buyer-supplied fields of a new order.
type CheckoutInput struct {
	ShippingAddress Address
	BillingAddress  *Address
	PaymentMethod   string
	ShippingCost    decimal.Decimal
	ShippingCourier string
	ShippingService string
	Notes           string
}

// orderNumberAttempts bounds the retries on an order-number collision.
const orderNumberAttempts = 3

// CreateFromCart turns the user's cart into an order. The whole of it runs in
// one transaction: stock is decremented with a conditional update for every
// stock-managed product, the order and all its items are inserted, and the
// cart is cleared. Any failure rolls the transaction back entirely.
func (r *OrdersRepository) CreateFromCart(userID uint, input CheckoutInput) (*Order, error) {
	var order Order
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var items []Cart
		if err := tx.
			Preload("Product").
			Preload("Product.Category").
			Preload("Product.Seller").
			Where("user_id = ?", userID).
			Order("created_at ASC").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return ErrEmptyCart
		}

		// Reserve stock atomically: the quantity guard in the WHERE clause
		// makes the check and the decrement a single statement.
		for i := range items {
			if !items[i].Product.ManageStock {
				continue
			}
			res := tx.Model(&Product{}).
				Where("id = ? AND stock_quantity >= ?", items[i].ProductID, items[i].Quantity).
				UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", items[i].Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrOutOfStock
			}
		}

		orderItems, subtotal := BuildOrderItems(items)
		order = Order{
			UserID:          userID,
			Status:          OrderPending,
			PaymentStatus:   PaymentPending,
			PaymentMethod:   input.PaymentMethod,
			Subtotal:        subtotal,
			ShippingCost:    input.ShippingCost,
			Total:           subtotal.Add(input.ShippingCost),
			ShippingAddress: input.ShippingAddress,
			BillingAddress:  NullableAddress{Address: input.BillingAddress},
			ShippingCourier: input.ShippingCourier,
			ShippingService: input.ShippingService,
			Notes:           input.Notes,
			Items:           orderItems,
		}

		var insertErr error
		for attempt := 0; attempt < orderNumberAttempts; attempt++ {
			order.OrderNumber = GenerateOrderNumber()
			tx.SavePoint("order_insert")
			insertErr = tx.Create(&order).Error
			if insertErr == nil {
				break
			}
			if !isUniqueViolation(insertErr) {
				return insertErr
			}
			tx.RollbackTo("order_insert")
			order.ID = 0
			for i := range order.Items {
				order.Items[i].ID = 0
				order.Items[i].OrderID = 0
			}
		}
		if insertErr != nil {
			return ErrOrderCreationFailed
		}

		return tx.Where("user_id = ?", userID).Delete(&Cart{}).Error
	})
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// ForUser returns the user's orders with items, newest first.
func (r *OrdersRepository) ForUser(userID uint) ([]Order, error) {
	var orders []Order
	err := r.db.
		Preload("Items").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, err
}

// All returns every order with its buyer, newest first, for the admin order
// table.
func (r *OrdersRepository) All(offset, limit int) ([]Order, int64, error) {
	var total int64
	if err := r.db.Model(&Order{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var orders []Order
	err := r.db.
		Preload("User").
		Preload("Items").
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error
	return orders, total, err
}

func (r *OrdersRepository) GetByNumber(orderNumber string) (*Order, error) {
	var order Order
	if err := r.db.
		Preload("Items").
		Preload("User").
		Where("order_number = ?", orderNumber).
		First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus moves an order through fulfilment. Shipped and delivered
// transitions stamp their timestamps.
func (r *OrdersRepository) UpdateStatus(order *Order, status OrderStatus) error {
	order.Status = status
	now := time.Now()
	switch status {
	case OrderShipped:
		if order.ShippedAt == nil {
			order.ShippedAt = &now
		}
	case OrderDelivered:
		if order.DeliveredAt == nil {
			order.DeliveredAt = &now
		}
	}
	return r.db.Model(order).
		Select("status", "shipped_at", "delivered_at", "tracking_number").
		Updates(order).Error
}

func (r *OrdersRepository) UpdatePaymentStatus(order *Order, status PaymentStatus) error {
	order.PaymentStatus = status
	return r.db.Model(order).Update("payment_status", status).Error
}

// isUniqueViolation reports whether err is a Postgres unique-constraint
// violation. The connection is opened through lib/pq, so the driver error is
// a *pq.Error.
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
