package models

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ProductsRepository struct {
	db *gorm.DB
}

// ErrProductNotFound is returned when a product is not found.
var ErrProductNotFound = errors.New("product not found")

// ProductSort is the catalog sort key. SortLatest is the default.
type ProductSort string

const (
	SortLatest    ProductSort = "latest"
	SortPriceLow  ProductSort = "price_low"
	SortPriceHigh ProductSort = "price_high"
	SortName      ProductSort = "name"
)

type ProductFilters struct {
	PublishedOnly bool
	CategorySlug  string
	Search        string
	MinPrice      *decimal.Decimal
	MaxPrice      *decimal.Decimal
	SellerID      uint
	Status        ProductStatus
	Sort          ProductSort
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{
		db: db,
	}
}

func (r *ProductsRepository) GetFilteredProducts(offset, limit int, filters ProductFilters) ([]Product, int64, error) {
	var products []Product
	var total int64

	query := r.db.Model(&Product{}).
		Joins("LEFT JOIN categories ON categories.id = products.category_id").
		Preload("Category").
		Preload("Seller")

	// Filter
	if filters.PublishedOnly {
		query = query.Where("products.status = ?", StatusPublished)
	}
	if filters.CategorySlug != "" {
		query = query.Where("categories.slug = ?", filters.CategorySlug)
	}
	if filters.Search != "" {
		pattern := "%" + filters.Search + "%"
		query = query.Where(
			r.db.Where("products.name ILIKE ?", pattern).
				Or("products.description ILIKE ?", pattern),
		)
	}
	if filters.MinPrice != nil {
		query = query.Where("products.price >= ?", *filters.MinPrice)
	}
	if filters.MaxPrice != nil {
		query = query.Where("products.price <= ?", *filters.MaxPrice)
	}
	if filters.SellerID != 0 {
		query = query.Where("products.seller_id = ?", filters.SellerID)
	}
	if filters.Status != "" {
		query = query.Where("products.status = ?", filters.Status)
	}

	// Count total after filtering
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Sort
	switch filters.Sort {
	case SortPriceLow:
		query = query.Order("products.price ASC")
	case SortPriceHigh:
		query = query.Order("products.price DESC")
	case SortName:
		query = query.Order("products.name ASC")
	default:
		query = query.Order("products.created_at DESC")
	}

	// Apply pagination
	if err := query.Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// GetBySlug returns a product regardless of status. Callers on the public
// path must check Status themselves.
func (r *ProductsRepository) GetBySlug(productSlug string) (*Product, error) {
	var product Product
	if err := r.db.
		Preload("Category").
		Preload("Seller").
		Where("slug = ?", productSlug).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductsRepository) GetByID(id uint) (*Product, error) {
	var product Product
	if err := r.db.
		Preload("Category").
		Preload("Seller").
		First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

// GetFeatured returns up to limit published featured products, newest first.
func (r *ProductsRepository) GetFeatured(limit int) ([]Product, error) {
	var products []Product
	err := r.db.
		Preload("Category").
		Preload("Seller").
		Where("status = ? AND featured = ?", StatusPublished, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// GetLatest returns up to limit published products, newest first.
func (r *ProductsRepository) GetLatest(limit int) ([]Product, error) {
	var products []Product
	err := r.db.
		Preload("Category").
		Preload("Seller").
		Where("status = ?", StatusPublished).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error
	return products, err
}

// GetRelated returns up to limit published products sharing the given
// product's category, excluding the product itself.
func (r *ProductsRepository) GetRelated(product *Product, limit int) ([]Product, error) {
	var products []Product
	err := r.db.
		Preload("Category").
		Preload("Seller").
		Where("status = ? AND category_id = ? AND id != ?", StatusPublished, product.CategoryID, product.ID).
		Limit(limit).
		Find(&products).Error
	return products, err
}

// CreateProduct persists a new product, deriving its slug from the name and
// generating a SKU.
func (r *ProductsRepository) CreateProduct(product *Product) error {
	product.Slug = newProductSlug(product.Name)
	product.SKU = newSKU()
	return r.db.Create(product).Error
}

// UpdateProduct persists changes to an existing product. A renamed product
// gets a fresh slug.
func (r *ProductsRepository) UpdateProduct(product *Product, renamed bool) error {
	if renamed {
		product.Slug = newProductSlug(product.Name)
	}
	return r.db.Save(product).Error
}

func (r *ProductsRepository) DeleteProduct(product *Product) error {
	return r.db.Delete(product).Error
}

// newProductSlug derives a unique slug from a product name. The uuid fragment
// keeps same-named products from colliding.
func newProductSlug(name string) string {
	return slug.Make(name) + "-" + uuid.NewString()[:8]
}

func newSKU() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
