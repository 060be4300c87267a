package home

import (
	"net/http"

	"marketgo/app/catalog"
	"marketgo/app/render"
	"marketgo/auth"
	"marketgo/models"
)

const (
	featuredTake   = 8
	categoriesTake = 6
	latestTake     = 12
)

type ProductProvider interface {
	GetFeatured(limit int) ([]models.Product, error)
	GetLatest(limit int) ([]models.Product, error)
}

type CategoryProvider interface {
	GetActiveWithCounts(limit int) ([]models.CategoryWithCount, error)
}

type CategoryTile struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	ProductsCount int64  `json:"products_count"`
}

type HomeHandler struct {
	products   ProductProvider
	categories CategoryProvider
}

func NewHomeHandler(products ProductProvider, categories CategoryProvider) *HomeHandler {
	return &HomeHandler{products: products, categories: categories}
}

// HandleIndex serves the landing page: a welcome prop bag for anonymous
// visitors, the storefront home for authenticated ones.
func (h *HomeHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.JSON(w, http.StatusOK, map[string]any{"page": "welcome"})
		return
	}

	featured, err := h.products.GetFeatured(featuredTake)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load home page")
		return
	}
	latest, err := h.products.GetLatest(latestTake)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load home page")
		return
	}
	cats, err := h.categories.GetActiveWithCounts(categoriesTake)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load home page")
		return
	}

	tiles := make([]CategoryTile, len(cats))
	for i, c := range cats {
		tiles[i] = CategoryTile{Name: c.Name, Slug: c.Slug, ProductsCount: c.ProductsCount}
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"page":              "home",
		"featured_products": toProducts(featured),
		"latest_products":   toProducts(latest),
		"categories":        tiles,
	})
}

// HandleDashboard redirects to the role-specific dashboard. Buyers get their
// own prop bag directly.
func (h *HomeHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	switch user.Role {
	case models.RoleAdmin:
		http.Redirect(w, r, "/admin/dashboard", http.StatusSeeOther)
	case models.RoleSeller:
		http.Redirect(w, r, "/seller/dashboard", http.StatusSeeOther)
	default:
		render.JSON(w, http.StatusOK, map[string]any{
			"page": "dashboard",
			"user": map[string]any{
				"name": user.Name,
				"role": string(user.Role),
			},
		})
	}
}

func toProducts(products []models.Product) []catalog.Product {
	resp := make([]catalog.Product, len(products))
	for i := range products {
		resp[i] = catalog.ToProductResponse(&products[i])
	}
	return resp
}
