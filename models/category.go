package models

import "time"

// Category represents a product category.
// It includes a unique slug and a human-readable name.
type Category struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"not null"`
	Slug        string `gorm:"uniqueIndex;not null"`
	Description string
	IsActive    bool `gorm:"not null;default:true"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (c *Category) TableName() string {
	return "categories"
}

// CategoryWithCount pairs a category with the number of published products in
// it, for the storefront category tiles.
type CategoryWithCount struct {
	Category
	ProductsCount int64
}
