package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductStatus is the publication state of a product. Only published
// products are visible through the public catalog; draft and archived ones
// remain visible to their owning seller, to admins, and inside historical
// order snapshots.
type ProductStatus string

const (
	StatusDraft     ProductStatus = "draft"
	StatusPublished ProductStatus = "published"
	StatusArchived  ProductStatus = "archived"
)

// Valid reports whether s is one of the known statuses.
func (s ProductStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusArchived:
		return true
	}
	return false
}

// Product represents a product in the catalog.
// It includes a unique slug, pricing, stock accounting, and the owning seller.
type Product struct {
	ID               uint             `gorm:"primaryKey"`
	SellerID         uint             `gorm:"not null;index"`
	Seller           User             `gorm:"foreignKey:SellerID"`
	CategoryID       uint             `gorm:"not null;index"`
	Category         Category         `gorm:"foreignKey:CategoryID"`
	Name             string           `gorm:"not null"`
	Slug             string           `gorm:"uniqueIndex;not null"`
	Description      string           `gorm:"type:text"`
	ShortDescription string           `gorm:"type:text"`
	Price            decimal.Decimal  `gorm:"type:decimal(12,2);not null"`
	SalePrice        *decimal.Decimal `gorm:"type:decimal(12,2)"`
	SKU              string           `gorm:"column:sku;uniqueIndex;not null"`
	StockQuantity    int              `gorm:"not null;default:0"`
	ManageStock      bool             `gorm:"not null;default:true"`
	Weight           decimal.Decimal  `gorm:"type:decimal(8,2);default:0"`
	Images           StringSlice      `gorm:"type:jsonb"`
	Status           ProductStatus    `gorm:"type:varchar(16);not null;default:'draft';index"`
	Featured         bool             `gorm:"not null;default:false;index"`
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (p *Product) TableName() string {
	return "products"
}

// EffectivePrice is the price a buyer actually pays: the sale price when one
// is set and lower than the regular price, the regular price otherwise.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.SalePrice != nil && p.SalePrice.LessThan(p.Price) {
		return *p.SalePrice
	}
	return p.Price
}

// InStock reports whether the product can currently be bought. Products that
// do not manage stock are always in stock.
func (p *Product) InStock() bool {
	if !p.ManageStock {
		return true
	}
	return p.StockQuantity > 0
}
