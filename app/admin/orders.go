package admin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"marketgo/app/render"
	"marketgo/models"
)

const ordersPerPage = 15

type OrderProvider interface {
	All(offset, limit int) ([]models.Order, int64, error)
	GetByNumber(orderNumber string) (*models.Order, error)
	UpdateStatus(order *models.Order, status models.OrderStatus) error
	UpdatePaymentStatus(order *models.Order, status models.PaymentStatus) error
}

type Order struct {
	OrderNumber    string     `json:"order_number"`
	UserName       string     `json:"user_name"`
	Status         string     `json:"status"`
	PaymentStatus  string     `json:"payment_status"`
	Total          float64    `json:"total"`
	ItemCount      int        `json:"item_count"`
	TrackingNumber string     `json:"tracking_number,omitempty"`
	ShippedAt      *time.Time `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time `json:"delivered_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

type OrdersHandler struct {
	repo OrderProvider
}

func NewOrdersHandler(repo OrderProvider) *OrdersHandler {
	return &OrdersHandler{repo: repo}
}

// HandleList serves the marketplace-wide order table.
func (h *OrdersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pStr := r.URL.Query().Get("page"); pStr != "" {
		if p, err := strconv.Atoi(pStr); err == nil && p >= 1 {
			page = p
		}
	}

	offset := (page - 1) * ordersPerPage
	res, total, err := h.repo.All(offset, ordersPerPage)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to get orders")
		return
	}

	orders := make([]Order, len(res))
	for i := range res {
		orders[i] = toAdminOrder(&res[i])
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"total":    total,
		"page":     page,
		"per_page": ordersPerPage,
		"orders":   orders,
	})
}

// HandleUpdateStatus moves an order through fulfilment. Marking it shipped
// may carry a tracking number.
func (h *OrdersHandler) HandleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	var input struct {
		Status         string `json:"status"`
		TrackingNumber string `json:"tracking_number"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	status := models.OrderStatus(input.Status)
	if !status.Valid() {
		render.DomainError(w, models.NewValidationError(map[string]string{
			"status": "status must be pending, processing, shipped, delivered or cancelled",
		}))
		return
	}

	if input.TrackingNumber != "" {
		order.TrackingNumber = input.TrackingNumber
	}
	if err := h.repo.UpdateStatus(order, status); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	render.JSON(w, http.StatusOK, toAdminOrder(order))
}

// HandleUpdatePayment sets the payment state of an order.
func (h *OrdersHandler) HandleUpdatePayment(w http.ResponseWriter, r *http.Request) {
	order, ok := h.loadOrder(w, r)
	if !ok {
		return
	}

	var input struct {
		PaymentStatus string `json:"payment_status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	status := models.PaymentStatus(input.PaymentStatus)
	if !status.Valid() {
		render.DomainError(w, models.NewValidationError(map[string]string{
			"payment_status": "payment status must be pending, paid, failed or refunded",
		}))
		return
	}

	if err := h.repo.UpdatePaymentStatus(order, status); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to update order")
		return
	}

	render.JSON(w, http.StatusOK, toAdminOrder(order))
}

func (h *OrdersHandler) loadOrder(w http.ResponseWriter, r *http.Request) (*models.Order, bool) {
	order, err := h.repo.GetByNumber(r.PathValue("number"))
	if err != nil {
		render.DomainError(w, err)
		return nil, false
	}
	return order, true
}

func toAdminOrder(o *models.Order) Order {
	return Order{
		OrderNumber:    o.OrderNumber,
		UserName:       o.User.Name,
		Status:         string(o.Status),
		PaymentStatus:  string(o.PaymentStatus),
		Total:          o.Total.InexactFloat64(),
		ItemCount:      len(o.Items),
		TrackingNumber: o.TrackingNumber,
		ShippedAt:      o.ShippedAt,
		DeliveredAt:    o.DeliveredAt,
		CreatedAt:      o.CreatedAt,
	}
}
