package seller

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"

	"marketgo/app/render"
	"marketgo/auth"
	"marketgo/models"
)

const productsPerPage = 15

type ProductProvider interface {
	GetFilteredProducts(offset, limit int, filters models.ProductFilters) ([]models.Product, int64, error)
	GetByID(id uint) (*models.Product, error)
	CreateProduct(product *models.Product) error
	UpdateProduct(product *models.Product, renamed bool) error
	DeleteProduct(product *models.Product) error
}

type CategoryProvider interface {
	GetByID(id uint) (*models.Category, error)
}

type Product struct {
	ID            uint     `json:"id"`
	Name          string   `json:"name"`
	Slug          string   `json:"slug"`
	SKU           string   `json:"sku"`
	Price         float64  `json:"price"`
	SalePrice     *float64 `json:"sale_price,omitempty"`
	StockQuantity int      `json:"stock_quantity"`
	ManageStock   bool     `json:"manage_stock"`
	Status        string   `json:"status"`
	Featured      bool     `json:"featured"`
	CategoryName  string   `json:"category_name"`
}

// productInput is the shared create/update form payload.
type productInput struct {
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	ShortDescription string   `json:"short_description"`
	CategoryID       uint     `json:"category_id"`
	Price            float64  `json:"price"`
	SalePrice        *float64 `json:"sale_price"`
	StockQuantity    int      `json:"stock_quantity"`
	ManageStock      bool     `json:"manage_stock"`
	Weight           float64  `json:"weight"`
	Images           []string `json:"images"`
	Status           string   `json:"status"`
	Featured         bool     `json:"featured"`
}

type ProductsHandler struct {
	repo       ProductProvider
	categories CategoryProvider
}

func NewProductsHandler(repo ProductProvider, categories CategoryProvider) *ProductsHandler {
	return &ProductsHandler{repo: repo, categories: categories}
}

// HandleList serves the seller's own products, filterable by search text,
// status and category.
func (h *ProductsHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	page := 1
	if pStr := r.URL.Query().Get("page"); pStr != "" {
		if p, err := strconv.Atoi(pStr); err == nil && p >= 1 {
			page = p
		}
	}

	filters := models.ProductFilters{
		SellerID:     user.ID,
		Search:       r.URL.Query().Get("search"),
		CategorySlug: r.URL.Query().Get("category"),
	}
	if s := models.ProductStatus(r.URL.Query().Get("status")); s.Valid() {
		filters.Status = s
	}

	offset := (page - 1) * productsPerPage
	res, total, err := h.repo.GetFilteredProducts(offset, productsPerPage, filters)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to get products")
		return
	}

	products := make([]Product, len(res))
	for i := range res {
		products[i] = toSellerProduct(&res[i])
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"total":    total,
		"page":     page,
		"per_page": productsPerPage,
		"products": products,
	})
}

// HandleCreate stores a new product owned by the acting seller.
func (h *ProductsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Status == "" {
		input.Status = string(models.StatusDraft)
	}

	if ok := h.validateInput(w, &input); !ok {
		return
	}

	product := models.Product{
		SellerID:         user.ID,
		CategoryID:       input.CategoryID,
		Name:             input.Name,
		Description:      input.Description,
		ShortDescription: input.ShortDescription,
		Price:            decimal.NewFromFloat(input.Price),
		StockQuantity:    input.StockQuantity,
		ManageStock:      input.ManageStock,
		Weight:           decimal.NewFromFloat(input.Weight),
		Images:           input.Images,
		Status:           models.ProductStatus(input.Status),
		Featured:         input.Featured,
	}
	if input.SalePrice != nil {
		sp := decimal.NewFromFloat(*input.SalePrice)
		product.SalePrice = &sp
	}

	if err := h.repo.CreateProduct(&product); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to create product")
		return
	}

	render.JSON(w, http.StatusCreated, toSellerProduct(&product))
}

// HandleShow serves one of the actor's products; admins may view any.
func (h *ProductsHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	if !auth.CanViewProduct(user, product) {
		render.Forbidden(w)
		return
	}
	render.JSON(w, http.StatusOK, toSellerProduct(product))
}

// HandleUpdate edits a product. Renames get a fresh slug.
func (h *ProductsHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	if !auth.CanUpdateProduct(user, product) {
		render.Forbidden(w)
		return
	}

	var input productInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Status == "" {
		input.Status = string(product.Status)
	}
	if ok := h.validateInput(w, &input); !ok {
		return
	}

	renamed := input.Name != product.Name
	product.Name = input.Name
	product.Description = input.Description
	product.ShortDescription = input.ShortDescription
	product.CategoryID = input.CategoryID
	product.Price = decimal.NewFromFloat(input.Price)
	product.SalePrice = nil
	if input.SalePrice != nil {
		sp := decimal.NewFromFloat(*input.SalePrice)
		product.SalePrice = &sp
	}
	product.StockQuantity = input.StockQuantity
	product.ManageStock = input.ManageStock
	product.Weight = decimal.NewFromFloat(input.Weight)
	product.Images = input.Images
	product.Status = models.ProductStatus(input.Status)
	product.Featured = input.Featured

	if err := h.repo.UpdateProduct(product, renamed); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to update product")
		return
	}

	render.JSON(w, http.StatusOK, toSellerProduct(product))
}

func (h *ProductsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	product, ok := h.loadProduct(w, r)
	if !ok {
		return
	}
	if !auth.CanDeleteProduct(user, product) {
		render.Forbidden(w)
		return
	}

	if err := h.repo.DeleteProduct(product); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to delete product")
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"message": "product deleted"})
}

func (h *ProductsHandler) loadProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		render.Error(w, http.StatusNotFound, "product not found")
		return nil, false
	}
	product, err := h.repo.GetByID(uint(id))
	if err != nil {
		render.DomainError(w, err)
		return nil, false
	}
	return product, true
}

// validateInput enforces the product form rules and writes the validation
// response itself on failure.
func (h *ProductsHandler) validateInput(w http.ResponseWriter, input *productInput) bool {
	fields := map[string]string{}
	if input.Name == "" {
		fields["name"] = "name is required"
	}
	if input.Price < 0 {
		fields["price"] = "price cannot be negative"
	}
	if input.SalePrice != nil {
		if *input.SalePrice < 0 {
			fields["sale_price"] = "sale price cannot be negative"
		} else if *input.SalePrice >= input.Price {
			fields["sale_price"] = "sale price must be lower than price"
		}
	}
	if input.StockQuantity < 0 {
		fields["stock_quantity"] = "stock quantity cannot be negative"
	}
	if !models.ProductStatus(input.Status).Valid() {
		fields["status"] = "status must be draft, published or archived"
	}
	if input.CategoryID == 0 {
		fields["category_id"] = "category is required"
	} else if _, err := h.categories.GetByID(input.CategoryID); err != nil {
		fields["category_id"] = "category does not exist"
	}

	if len(fields) > 0 {
		render.DomainError(w, models.NewValidationError(fields))
		return false
	}
	return true
}

func toSellerProduct(p *models.Product) Product {
	resp := Product{
		ID:            p.ID,
		Name:          p.Name,
		Slug:          p.Slug,
		SKU:           p.SKU,
		Price:         p.Price.InexactFloat64(),
		StockQuantity: p.StockQuantity,
		ManageStock:   p.ManageStock,
		Status:        string(p.Status),
		Featured:      p.Featured,
		CategoryName:  p.Category.Name,
	}
	if p.SalePrice != nil {
		v := p.SalePrice.InexactFloat64()
		resp.SalePrice = &v
	}
	return resp
}
