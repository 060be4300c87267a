package main

import (
	"net/http"

	"marketgo/auth"
	"marketgo/models"
)

func (app *application) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health-check", app.health.HandleGet)

	mux.HandleFunc("GET /{$}", app.home.HandleIndex)
	mux.HandleFunc("GET /products", app.catalog.HandleGet)
	mux.HandleFunc("GET /products/{slug}", app.catalog.HandleGetProduct)
	mux.HandleFunc("GET /categories", app.categories.HandleGetAll)

	mux.HandleFunc("POST /register", app.account.HandleRegister)
	mux.HandleFunc("POST /login", app.account.HandleLogin)
	mux.HandleFunc("POST /logout", app.account.HandleLogout)

	mux.HandleFunc("GET /dashboard", app.requireAuth(app.home.HandleDashboard))

	mux.HandleFunc("GET /cart", app.requireRole(isBuyer, app.cart.HandleIndex))
	mux.HandleFunc("POST /cart", app.requireRole(isBuyer, app.cart.HandleStore))
	mux.HandleFunc("PUT /cart/{id}", app.requireRole(isBuyer, app.cart.HandleUpdate))
	mux.HandleFunc("DELETE /cart/{id}", app.requireRole(isBuyer, app.cart.HandleDelete))

	mux.HandleFunc("GET /orders", app.requireRole(isBuyer, app.orders.HandleIndex))
	mux.HandleFunc("POST /orders", app.requireRole(isBuyer, app.orders.HandleCreate))
	mux.HandleFunc("GET /orders/{number}", app.requireAuth(app.orders.HandleShow))

	mux.HandleFunc("GET /seller/dashboard", app.requireRole(auth.CanAccessSeller, app.sellerDashboard.HandleGet))
	mux.HandleFunc("GET /seller/products", app.requireRole(auth.CanAccessSeller, app.sellerProducts.HandleList))
	mux.HandleFunc("POST /seller/products", app.requireRole(auth.CanAccessSeller, app.sellerProducts.HandleCreate))
	mux.HandleFunc("GET /seller/products/{id}", app.requireRole(auth.CanAccessSeller, app.sellerProducts.HandleShow))
	mux.HandleFunc("PUT /seller/products/{id}", app.requireRole(auth.CanAccessSeller, app.sellerProducts.HandleUpdate))
	mux.HandleFunc("DELETE /seller/products/{id}", app.requireRole(auth.CanAccessSeller, app.sellerProducts.HandleDelete))

	mux.HandleFunc("GET /admin/dashboard", app.requireRole(auth.CanAccessAdmin, app.adminDashboard.HandleGet))
	mux.HandleFunc("GET /admin/users", app.requireRole(auth.CanAccessAdmin, app.adminUsers.HandleList))
	mux.HandleFunc("POST /admin/users", app.requireRole(auth.CanAccessAdmin, app.adminUsers.HandleCreate))
	mux.HandleFunc("GET /admin/users/{id}", app.requireRole(auth.CanAccessAdmin, app.adminUsers.HandleShow))
	mux.HandleFunc("PUT /admin/users/{id}", app.requireRole(auth.CanAccessAdmin, app.adminUsers.HandleUpdate))
	mux.HandleFunc("DELETE /admin/users/{id}", app.requireRole(auth.CanAccessAdmin, app.adminUsers.HandleDelete))
	mux.HandleFunc("GET /admin/categories", app.requireRole(auth.CanAccessAdmin, app.categories.HandleListAll))
	mux.HandleFunc("POST /admin/categories", app.requireRole(auth.CanAccessAdmin, app.categories.HandleCreate))
	mux.HandleFunc("GET /admin/orders", app.requireRole(auth.CanAccessAdmin, app.adminOrders.HandleList))
	mux.HandleFunc("PUT /admin/orders/{number}/status", app.requireRole(auth.CanAccessAdmin, app.adminOrders.HandleUpdateStatus))
	mux.HandleFunc("PUT /admin/orders/{number}/payment", app.requireRole(auth.CanAccessAdmin, app.adminOrders.HandleUpdatePayment))

	return app.recoverPanic(app.logRequest(app.session.LoadAndSave(app.authenticate(mux))))
}

// isBuyer gates the cart and checkout routes. Admins manage the marketplace;
// they do not shop through it.
func isBuyer(user *models.User) bool {
	return user.Role == models.RoleBuyer
}
