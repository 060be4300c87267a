package models

import (
	"errors"

	"github.com/gosimple/slug"
	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) GetAllCategories() ([]Category, error) {
	var categories []Category
	if err := r.db.Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetActiveCategories returns the categories shown in storefront filters.
func (r *CategoriesRepository) GetActiveCategories() ([]Category, error) {
	var categories []Category
	if err := r.db.Where("is_active = ?", true).Order("name ASC").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

// GetActiveWithCounts returns up to limit active categories together with
// their published-product counts, for the home page tiles.
func (r *CategoriesRepository) GetActiveWithCounts(limit int) ([]CategoryWithCount, error) {
	var results []CategoryWithCount
	err := r.db.Model(&Category{}).
		Select("categories.*, COUNT(products.id) AS products_count").
		Joins("LEFT JOIN products ON products.category_id = categories.id AND products.status = ?", StatusPublished).
		Where("categories.is_active = ?", true).
		Group("categories.id").
		Order("categories.name ASC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (r *CategoriesRepository) GetByID(id uint) (*Category, error) {
	var category Category
	if err := r.db.First(&category, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoriesRepository) CreateCategory(category *Category) error {
	if category.Slug == "" {
		category.Slug = slug.Make(category.Name)
	}
	return r.db.Create(category).Error
}
