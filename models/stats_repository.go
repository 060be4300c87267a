package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// StatsRepository computes the dashboard aggregates. Every call is a fresh
// point-in-time snapshot; nothing is cached.
type StatsRepository struct {
	db *gorm.DB
}

func NewStatsRepository(db *gorm.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

// lowStockThreshold marks stock-managed products needing restock.
const lowStockThreshold = 5

const recentTake = 5

type UserStats struct {
	Total   int64
	Buyers  int64
	Sellers int64
	Admins  int64
}

type ProductStats struct {
	Total     int64
	Published int64
	Draft     int64
	Archived  int64
}

type OrderStats struct {
	Total      int64
	Pending    int64
	Processing int64
	Revenue    decimal.Decimal
}

type CategoryStats struct {
	Total  int64
	Active int64
}

// AdminStats is the admin dashboard snapshot.
type AdminStats struct {
	Users      UserStats
	Products   ProductStats
	Orders     OrderStats
	Categories CategoryStats
}

// SellerStats is the seller dashboard snapshot, scoped to one seller's
// products and the order items sold from them.
type SellerStats struct {
	TotalProducts     int64
	PublishedProducts int64
	DraftProducts     int64
	TotalOrderItems   int64
	Revenue           decimal.Decimal
}

func (r *StatsRepository) AdminStats() (*AdminStats, error) {
	var stats AdminStats

	userCounts := []struct {
		role Role
		dst  *int64
	}{
		{RoleBuyer, &stats.Users.Buyers},
		{RoleSeller, &stats.Users.Sellers},
		{RoleAdmin, &stats.Users.Admins},
	}
	if err := r.db.Model(&User{}).Count(&stats.Users.Total).Error; err != nil {
		return nil, err
	}
	for _, c := range userCounts {
		if err := r.db.Model(&User{}).Where("role = ?", c.role).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	productCounts := []struct {
		status ProductStatus
		dst    *int64
	}{
		{StatusPublished, &stats.Products.Published},
		{StatusDraft, &stats.Products.Draft},
		{StatusArchived, &stats.Products.Archived},
	}
	if err := r.db.Model(&Product{}).Count(&stats.Products.Total).Error; err != nil {
		return nil, err
	}
	for _, c := range productCounts {
		if err := r.db.Model(&Product{}).Where("status = ?", c.status).Count(c.dst).Error; err != nil {
			return nil, err
		}
	}

	if err := r.db.Model(&Order{}).Count(&stats.Orders.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&Order{}).Where("status = ?", OrderPending).Count(&stats.Orders.Pending).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&Order{}).Where("status = ?", OrderProcessing).Count(&stats.Orders.Processing).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&Order{}).
		Where("payment_status = ?", PaymentPaid).
		Select("COALESCE(SUM(total), 0)").
		Scan(&stats.Orders.Revenue).Error; err != nil {
		return nil, err
	}

	if err := r.db.Model(&Category{}).Count(&stats.Categories.Total).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&Category{}).Where("is_active = ?", true).Count(&stats.Categories.Active).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// RecentOrders returns the newest orders with their users, for the admin
// dashboard.
func (r *StatsRepository) RecentOrders() ([]Order, error) {
	var orders []Order
	err := r.db.Preload("User").Order("created_at DESC").Limit(recentTake).Find(&orders).Error
	return orders, err
}

// RecentUsers returns the newest accounts.
func (r *StatsRepository) RecentUsers() ([]User, error) {
	var users []User
	err := r.db.Order("created_at DESC").Limit(recentTake).Find(&users).Error
	return users, err
}

func (r *StatsRepository) SellerStats(sellerID uint) (*SellerStats, error) {
	var stats SellerStats

	if err := r.db.Model(&Product{}).Where("seller_id = ?", sellerID).Count(&stats.TotalProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&Product{}).
		Where("seller_id = ? AND status = ?", sellerID, StatusPublished).
		Count(&stats.PublishedProducts).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&Product{}).
		Where("seller_id = ? AND status = ?", sellerID, StatusDraft).
		Count(&stats.DraftProducts).Error; err != nil {
		return nil, err
	}

	soldItems := func() *gorm.DB {
		return r.db.Model(&OrderItem{}).
			Joins("JOIN products ON products.id = order_items.product_id").
			Where("products.seller_id = ?", sellerID)
	}
	if err := soldItems().Count(&stats.TotalOrderItems).Error; err != nil {
		return nil, err
	}
	if err := soldItems().Select("COALESCE(SUM(order_items.total), 0)").Scan(&stats.Revenue).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// RecentSales returns the newest order items sold from the seller's products.
func (r *StatsRepository) RecentSales(sellerID uint) ([]OrderItem, error) {
	var items []OrderItem
	err := r.db.Model(&OrderItem{}).
		Joins("JOIN products ON products.id = order_items.product_id").
		Where("products.seller_id = ?", sellerID).
		Preload("Product").
		Order("order_items.created_at DESC").
		Limit(recentTake).
		Find(&items).Error
	return items, err
}

// LowStock returns the seller's stock-managed products at or below the
// restock threshold.
func (r *StatsRepository) LowStock(sellerID uint) ([]Product, error) {
	var products []Product
	err := r.db.
		Where("seller_id = ? AND manage_stock = ? AND stock_quantity <= ?", sellerID, true, lowStockThreshold).
		Order("stock_quantity ASC").
		Limit(recentTake).
		Find(&products).Error
	return products, err
}
