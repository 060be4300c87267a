package orders

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/shopspring/decimal"

	"marketgo/app/render"
	"marketgo/auth"
	"marketgo/models"
)

type OrderProvider interface {
	CreateFromCart(userID uint, input models.CheckoutInput) (*models.Order, error)
	ForUser(userID uint) ([]models.Order, error)
	GetByNumber(orderNumber string) (*models.Order, error)
}

type Item struct {
	ProductID uint                   `json:"product_id"`
	Quantity  int                    `json:"quantity"`
	Price     float64                `json:"price"`
	Total     float64                `json:"total"`
	Snapshot  models.ProductSnapshot `json:"product_snapshot"`
}

type Order struct {
	OrderNumber    string     `json:"order_number"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	Subtotal       float64    `json:"subtotal"`
	ShippingCost   float64    `json:"shipping_cost"`
	Total          float64    `json:"total"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	Items          []Item     `json:"items"`
}

type OrdersHandler struct {
	repo OrderProvider
}

func NewOrdersHandler(r OrderProvider) *OrdersHandler {
	return &OrdersHandler{repo: r}
}

// HandleIndex serves the buyer's own order history.
func (h *OrdersHandler) HandleIndex(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	orders, err := h.repo.ForUser(user.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch orders")
		return
	}

	response := make([]Order, len(orders))
	for i := range orders {
		response[i] = toOrderResponse(&orders[i])
	}
	render.JSON(w, http.StatusOK, map[string]any{"orders": response})
}

// HandleShow serves one order by number. Admins may read any order; buyers
// only their own.
func (h *OrdersHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	order, err := h.repo.GetByNumber(r.PathValue("number"))
	if err != nil {
		render.DomainError(w, err)
		return
	}

	if !auth.CanViewOrder(user, order) {
		render.Forbidden(w)
		return
	}

	render.JSON(w, http.StatusOK, toOrderResponse(order))
}

// HandleCreate checks out the buyer's cart into an order.
func (h *OrdersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	var input struct {
		ShippingAddress models.Address  `json:"shipping_address"`
		BillingAddress  *models.Address `json:"billing_address"`
		PaymentMethod   string          `json:"payment_method"`
		ShippingCost    float64         `json:"shipping_cost"`
		ShippingCourier string          `json:"shipping_courier"`
		ShippingService string          `json:"shipping_service"`
		Notes           string          `json:"notes"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	fields := map[string]string{}
	if input.ShippingAddress.Name == "" {
		fields["shipping_address.name"] = "recipient name is required"
	}
	if input.ShippingAddress.Street == "" {
		fields["shipping_address.street"] = "street is required"
	}
	if input.ShippingAddress.City == "" {
		fields["shipping_address.city"] = "city is required"
	}
	if input.ShippingCost < 0 {
		fields["shipping_cost"] = "shipping cost cannot be negative"
	}
	if len(fields) > 0 {
		render.DomainError(w, models.NewValidationError(fields))
		return
	}

	order, err := h.repo.CreateFromCart(user.ID, models.CheckoutInput{
		ShippingAddress: input.ShippingAddress,
		BillingAddress:  input.BillingAddress,
		PaymentMethod:   input.PaymentMethod,
		ShippingCost:    decimal.NewFromFloat(input.ShippingCost),
		ShippingCourier: input.ShippingCourier,
		ShippingService: input.ShippingService,
		Notes:           input.Notes,
	})
	if err != nil {
		render.DomainError(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toOrderResponse(order))
}

func toOrderResponse(o *models.Order) Order {
	resp := Order{
		OrderNumber:    o.OrderNumber,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		Subtotal:       o.Subtotal.InexactFloat64(),
		ShippingCost:   o.ShippingCost.InexactFloat64(),
		Total:          o.Total.InexactFloat64(),
		TrackingNumber: o.TrackingNumber,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CreatedAt:      o.CreatedAt,
		Items:          make([]Item, len(o.Items)),
	}
	for i := range o.Items {
		item := &o.Items[i]
		resp.Items[i] = Item{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Price:     item.Price.InexactFloat64(),
			Total:     item.Total.InexactFloat64(),
			Snapshot:  item.ProductSnapshot,
		}
	}
	return resp
}
