package catalog

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"marketgo/app/render"
	"marketgo/auth"
	"marketgo/models"
)

const productsPerPage = 16

const relatedTake = 4

type Response struct {
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PerPage  int       `json:"per_page"`
	Products []Product `json:"products"`
	Filters  Filters   `json:"filters"`
}

type Filters struct {
	Category string  `json:"category,omitempty"`
	Search   string  `json:"search,omitempty"`
	MinPrice *float64 `json:"min_price,omitempty"`
	MaxPrice *float64 `json:"max_price,omitempty"`
	Sort     string  `json:"sort"`
}

type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type Product struct {
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	ShortDesc      string   `json:"short_description,omitempty"`
	Price          float64  `json:"price"`
	SalePrice      *float64 `json:"sale_price,omitempty"`
	EffectivePrice float64  `json:"effective_price"`
	Images         []string `json:"images"`
	Featured       bool     `json:"featured"`
	InStock        bool     `json:"in_stock"`
	Category       Category `json:"category"`
	SellerName     string   `json:"seller_name"`
}

type ProductProvider interface {
	GetFilteredProducts(offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetBySlug(slug string) (*models.Product, error)
	GetRelated(product *models.Product, limit int) ([]models.Product, error)
}

type CatalogHandler struct {
	repo ProductProvider
}

func NewCatalogHandler(r ProductProvider) *CatalogHandler {
	return &CatalogHandler{
		repo: r,
	}
}

// HandleGet serves the public product listing. Only published products are
// reachable through this path, whatever filters are applied.
func (h *CatalogHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pStr := r.URL.Query().Get("page"); pStr != "" {
		if p, err := strconv.Atoi(pStr); err == nil && p >= 1 {
			page = p
		}
	}

	sort := models.SortLatest
	switch models.ProductSort(r.URL.Query().Get("sort")) {
	case models.SortPriceLow:
		sort = models.SortPriceLow
	case models.SortPriceHigh:
		sort = models.SortPriceHigh
	case models.SortName:
		sort = models.SortName
	}

	filters := models.ProductFilters{
		PublishedOnly: true,
		CategorySlug:  r.URL.Query().Get("category"),
		Search:        r.URL.Query().Get("search"),
		Sort:          sort,
	}
	if v := r.URL.Query().Get("min_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filters.MinPrice = &d
		}
	}
	if v := r.URL.Query().Get("max_price"); v != "" {
		if d, err := decimal.NewFromString(v); err == nil {
			filters.MaxPrice = &d
		}
	}

	offset := (page - 1) * productsPerPage
	res, total, err := h.repo.GetFilteredProducts(offset, productsPerPage, filters)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to get products")
		return
	}

	products := make([]Product, len(res))
	for i := range res {
		products[i] = ToProductResponse(&res[i])
	}

	response := Response{
		Total:    total,
		Page:     page,
		PerPage:  productsPerPage,
		Products: products,
		Filters: Filters{
			Category: filters.CategorySlug,
			Search:   filters.Search,
			Sort:     string(sort),
		},
	}
	if filters.MinPrice != nil {
		v := filters.MinPrice.InexactFloat64()
		response.Filters.MinPrice = &v
	}
	if filters.MaxPrice != nil {
		v := filters.MaxPrice.InexactFloat64()
		response.Filters.MaxPrice = &v
	}
	render.JSON(w, http.StatusOK, response)
}

// HandleGetProduct serves a single product by slug, with related products
// from the same category. Draft and archived products resolve only for their
// owning seller or an admin; everyone else gets a 404.
func (h *CatalogHandler) HandleGetProduct(w http.ResponseWriter, r *http.Request) {
	productSlug := r.PathValue("slug")

	product, err := h.repo.GetBySlug(productSlug)
	if err != nil {
		if errors.Is(err, models.ErrProductNotFound) {
			render.Error(w, http.StatusNotFound, "product not found")
			return
		}
		render.Error(w, http.StatusInternalServerError, "failed to get product")
		return
	}

	if product.Status != models.StatusPublished {
		user := auth.UserFrom(r.Context())
		if !auth.CanViewProduct(user, product) {
			render.Error(w, http.StatusNotFound, "product not found")
			return
		}
	}

	related, err := h.repo.GetRelated(product, relatedTake)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to get related products")
		return
	}

	relatedResp := make([]Product, len(related))
	for i := range related {
		relatedResp[i] = ToProductResponse(&related[i])
	}

	response := struct {
		Product
		Description     string    `json:"description"`
		SKU             string    `json:"sku"`
		StockQuantity   int       `json:"stock_quantity"`
		ManageStock     bool      `json:"manage_stock"`
		Status          string    `json:"status"`
		RelatedProducts []Product `json:"related_products"`
	}{
		Product:         ToProductResponse(product),
		Description:     product.Description,
		SKU:             product.SKU,
		StockQuantity:   product.StockQuantity,
		ManageStock:     product.ManageStock,
		Status:          string(product.Status),
		RelatedProducts: relatedResp,
	}
	render.JSON(w, http.StatusOK, response)
}

// ToProductResponse maps a product to its listing DTO. Other storefront
// handlers reuse it for product cards.
func ToProductResponse(p *models.Product) Product {
	resp := Product{
		Name:           p.Name,
		Slug:           p.Slug,
		ShortDesc:      p.ShortDescription,
		Price:          p.Price.InexactFloat64(),
		EffectivePrice: p.EffectivePrice().InexactFloat64(),
		Images:         p.Images,
		Featured:       p.Featured,
		InStock:        p.InStock(),
		Category: Category{
			Name: p.Category.Name,
			Slug: p.Category.Slug,
		},
		SellerName: p.Seller.Name,
	}
	if p.SalePrice != nil {
		v := p.SalePrice.InexactFloat64()
		resp.SalePrice = &v
	}
	return resp
}
