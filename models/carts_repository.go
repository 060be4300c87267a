package models

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartsRepository struct {
	db *gorm.DB
}

func NewCartsRepository(db *gorm.DB) *CartsRepository {
	return &CartsRepository{db: db}
}

// ItemsForUser returns the user's cart with products, categories and sellers
// loaded, oldest items first.
func (r *CartsRepository) ItemsForUser(userID uint) ([]Cart, error) {
	var items []Cart
	err := r.db.
		Preload("Product").
		Preload("Product.Category").
		Preload("Product.Seller").
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *CartsRepository) GetByID(id uint) (*Cart, error) {
	var item Cart
	if err := r.db.
		Preload("Product").
		First(&item, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartItemNotFound
		}
		return nil, err
	}
	return &item, nil
}

// AddToCart adds quantity of a product to the user's cart, merging into the
// existing row for the same product if there is one. The stock check and the
// write happen in one transaction with the product row locked, so two
// concurrent adds cannot both pass the check on the same stock level.
func (r *CartsRepository) AddToCart(userID, productID uint, quantity int) (*Cart, error) {
	var item Cart
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var product Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		var existing Cart
		err := tx.Where("user_id = ? AND product_id = ?", userID, productID).
			First(&existing).Error
		switch {
		case err == nil:
			merged := existing.Quantity + quantity
			if product.ManageStock && product.StockQuantity < merged {
				return ErrOutOfStock
			}
			existing.Quantity = merged
			if err := tx.Save(&existing).Error; err != nil {
				return err
			}
			item = existing
		case errors.Is(err, gorm.ErrRecordNotFound):
			if product.ManageStock && product.StockQuantity < quantity {
				return ErrOutOfStock
			}
			item = Cart{UserID: userID, ProductID: productID, Quantity: quantity}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		default:
			return err
		}
		item.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateQuantity sets a cart item to an absolute quantity, re-checking stock
// against the new quantity under the same product lock as AddToCart.
func (r *CartsRepository) UpdateQuantity(itemID uint, quantity int) (*Cart, error) {
	var item Cart
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrCartItemNotFound
			}
			return err
		}

		var product Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, item.ProductID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrProductNotFound
			}
			return err
		}

		if product.ManageStock && product.StockQuantity < quantity {
			return ErrOutOfStock
		}
		item.Quantity = quantity
		if err := tx.Save(&item).Error; err != nil {
			return err
		}
		item.Product = product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Remove deletes a cart item unconditionally.
func (r *CartsRepository) Remove(itemID uint) error {
	return r.db.Delete(&Cart{}, itemID).Error
}
