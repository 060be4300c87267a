package cart

import (
	"encoding/json"
	"net/http"
	"strconv"

	"marketgo/app/render"
	"marketgo/auth"
	"marketgo/models"
)

type CartProvider interface {
	ItemsForUser(userID uint) ([]models.Cart, error)
	GetByID(id uint) (*models.Cart, error)
	AddToCart(userID, productID uint, quantity int) (*models.Cart, error)
	UpdateQuantity(itemID uint, quantity int) (*models.Cart, error)
	Remove(itemID uint) error
}

type Item struct {
	ID             uint    `json:"id"`
	ProductID      uint    `json:"product_id"`
	ProductName    string  `json:"product_name"`
	ProductSlug    string  `json:"product_slug"`
	EffectivePrice float64 `json:"effective_price"`
	Quantity       int     `json:"quantity"`
	Total          float64 `json:"total"`
}

type Response struct {
	Items    []Item  `json:"items"`
	Subtotal float64 `json:"subtotal"`
}

type CartHandler struct {
	repo CartProvider
}

func NewCartHandler(r CartProvider) *CartHandler {
	return &CartHandler{repo: r}
}

// HandleIndex serves the cart view. Line totals use the products' current
// effective prices, so price edits show up here until checkout.
func (h *CartHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	items, err := h.repo.ItemsForUser(user.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch cart")
		return
	}

	response := Response{
		Items:    make([]Item, len(items)),
		Subtotal: models.CartSubtotal(items).InexactFloat64(),
	}
	for i := range items {
		response.Items[i] = toItemResponse(&items[i])
	}
	render.JSON(w, http.StatusOK, response)
}

// HandleStore adds a product to the cart, merging with any existing row for
// the same product.
func (h *CartHandler) HandleStore(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	var input struct {
		ProductID uint `json:"product_id"`
		Quantity  int  `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fields := map[string]string{}
	if input.ProductID == 0 {
		fields["product_id"] = "product is required"
	}
	if input.Quantity < 1 {
		fields["quantity"] = "quantity must be at least 1"
	}
	if len(fields) > 0 {
		render.DomainError(w, models.NewValidationError(fields))
		return
	}

	item, err := h.repo.AddToCart(user.ID, input.ProductID, input.Quantity)
	if err != nil {
		render.DomainError(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toItemResponse(item))
}

// HandleUpdate sets a cart item to an absolute quantity. Only the owner may
// touch the item.
func (h *CartHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	item, ok := h.ownedItem(w, r, user)
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if input.Quantity < 1 {
		render.DomainError(w, models.NewValidationError(map[string]string{
			"quantity": "quantity must be at least 1",
		}))
		return
	}

	updated, err := h.repo.UpdateQuantity(item.ID, input.Quantity)
	if err != nil {
		render.DomainError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toItemResponse(updated))
}

// HandleDelete removes a cart item unconditionally, for its owner.
func (h *CartHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	item, ok := h.ownedItem(w, r, user)
	if !ok {
		return
	}

	if err := h.repo.Remove(item.ID); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to remove item")
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"message": "item removed from cart"})
}

// ownedItem resolves {id} and enforces ownership. It writes the error
// response itself when the item cannot be used.
func (h *CartHandler) ownedItem(w http.ResponseWriter, r *http.Request, user *models.User) (*models.Cart, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		render.Error(w, http.StatusNotFound, "cart item not found")
		return nil, false
	}

	item, err := h.repo.GetByID(uint(id))
	if err != nil {
		render.DomainError(w, err)
		return nil, false
	}

	if !auth.CanUpdateCart(user, item) {
		render.Forbidden(w)
		return nil, false
	}
	return item, true
}

func toItemResponse(c *models.Cart) Item {
	return Item{
		ID:             c.ID,
		ProductID:      c.ProductID,
		ProductName:    c.Product.Name,
		ProductSlug:    c.Product.Slug,
		EffectivePrice: c.Product.EffectivePrice().InexactFloat64(),
		Quantity:       c.Quantity,
		Total:          c.Total().InexactFloat64(),
	}
}
