// Package auth holds the stateless authorization predicates. Every predicate
// maps (actor, resource) to allow/deny; unspecified combinations deny.
package auth

import (
	"marketgo/models"
)

// isAdmin is the only place role comparison for admin happens.
func isAdmin(user *models.User) bool {
	return user != nil && user.Role == models.RoleAdmin
}

// CanViewProduct allows admins and the owning seller to see a product in any
// status. Published products are publicly visible through the catalog path
// instead.
func CanViewProduct(user *models.User, product *models.Product) bool {
	if user == nil {
		return false
	}
	return isAdmin(user) || product.SellerID == user.ID
}

// CanUpdateProduct allows admins and the owning seller.
func CanUpdateProduct(user *models.User, product *models.Product) bool {
	if user == nil {
		return false
	}
	return isAdmin(user) || product.SellerID == user.ID
}

// CanDeleteProduct allows admins and the owning seller.
func CanDeleteProduct(user *models.User, product *models.Product) bool {
	if user == nil {
		return false
	}
	return isAdmin(user) || product.SellerID == user.ID
}

// CanUpdateCart allows only the cart item's owner.
func CanUpdateCart(user *models.User, item *models.Cart) bool {
	return user != nil && item.UserID == user.ID
}

// CanDeleteCart allows only the cart item's owner.
func CanDeleteCart(user *models.User, item *models.Cart) bool {
	return user != nil && item.UserID == user.ID
}

// CanViewOrder allows admins and the order's owning buyer.
func CanViewOrder(user *models.User, order *models.Order) bool {
	if user == nil {
		return false
	}
	return isAdmin(user) || order.UserID == user.ID
}

// CanAccessSeller gates the seller area.
func CanAccessSeller(user *models.User) bool {
	if user == nil {
		return false
	}
	switch user.Role {
	case models.RoleSeller, models.RoleAdmin:
		return true
	case models.RoleBuyer:
		return false
	}
	return false
}

// CanAccessAdmin gates the admin area.
func CanAccessAdmin(user *models.User) bool {
	return isAdmin(user)
}
