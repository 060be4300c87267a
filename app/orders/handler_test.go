package orders

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"marketgo/auth"
	"marketgo/models"
)

// --- Mock Repository ---

// MockOrderRepo runs checkout against an in-memory cart, applying the same
// empty-cart, stock and snapshot rules as the real repository.
type MockOrderRepo struct {
	CartItems []models.Cart
	Orders    []models.Order
	Err       error

	lastCheckoutUserID uint
	lastCheckoutInput  models.CheckoutInput
}

func (m *MockOrderRepo) CreateFromCart(userID uint, input models.CheckoutInput) (*models.Order, error) {
	m.lastCheckoutUserID = userID
	m.lastCheckoutInput = input

	if m.Err != nil {
		return nil, m.Err
	}

	var cart []models.Cart
	for _, item := range m.CartItems {
		if item.UserID == userID {
			cart = append(cart, item)
		}
	}
	if len(cart) == 0 {
		return nil, models.ErrEmptyCart
	}

	for _, item := range cart {
		if item.Product.ManageStock && item.Quantity > item.Product.StockQuantity {
			return nil, models.ErrOutOfStock
		}
	}

	items, subtotal := models.BuildOrderItems(cart)
	order := models.Order{
		ID:              uint(len(m.Orders) + 1),
		OrderNumber:     models.GenerateOrderNumber(),
		UserID:          userID,
		Status:          models.OrderPending,
		PaymentStatus:   models.PaymentPending,
		PaymentMethod:   input.PaymentMethod,
		Subtotal:        subtotal,
		ShippingCost:    input.ShippingCost,
		Total:           subtotal.Add(input.ShippingCost),
		ShippingAddress: input.ShippingAddress,
		ShippingCourier: input.ShippingCourier,
		ShippingService: input.ShippingService,
		Notes:           input.Notes,
		CreatedAt:       time.Now(),
		Items:           items,
	}

	m.Orders = append(m.Orders, order)
	m.CartItems = nil
	return &order, nil
}

func (m *MockOrderRepo) ForUser(userID uint) ([]models.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	var out []models.Order
	for _, o := range m.Orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (m *MockOrderRepo) GetByNumber(orderNumber string) (*models.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	for i := range m.Orders {
		if m.Orders[i].OrderNumber == orderNumber {
			order := m.Orders[i]
			return &order, nil
		}
	}
	return nil, models.ErrOrderNotFound
}

// --- Helpers ---

func cartItem(userID, productID uint, name string, price float64, salePrice *float64, qty, stock int) models.Cart {
	product := models.Product{
		ID:            productID,
		Name:          name,
		Slug:          strings.ToLower(strings.ReplaceAll(name, " ", "-")),
		Price:         decimal.NewFromFloat(price),
		Status:        models.StatusPublished,
		StockQuantity: stock,
		ManageStock:   true,
	}
	if salePrice != nil {
		sp := decimal.NewFromFloat(*salePrice)
		product.SalePrice = &sp
	}
	return models.Cart{
		UserID:    userID,
		ProductID: productID,
		Product:   product,
		Quantity:  qty,
	}
}

func checkoutBody() string {
	return `{
		"shipping_address": {"name": "Budi", "phone": "0812", "street": "Jl. Merdeka 1", "city": "Jakarta", "province": "DKI", "postal_code": "10110"},
		"payment_method": "bank_transfer",
		"shipping_cost": 15000,
		"shipping_courier": "jne",
		"shipping_service": "REG"
	}`
}

func authedRequest(method, url, body string, user *models.User) *http.Request {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, url, nil)
	} else {
		req = httptest.NewRequest(method, url, strings.NewReader(body))
	}
	if user != nil {
		req = req.WithContext(auth.WithUser(req.Context(), user))
	}
	return req
}

// --- Tests ---

func TestHandleCreate(t *testing.T) {
	buyer := &models.User{ID: 7, Role: models.RoleBuyer}
	sale := 50000.0

	testCases := []struct {
		name               string
		user               *models.User
		body               string
		mockRepoSetup      func() *MockOrderRepo
		expectedStatusCode int
		checkResponse      func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockOrderRepo)
	}{
		{
			name: "Checkout freezes effective prices and totals",
			user: buyer,
			body: checkoutBody(),
			mockRepoSetup: func() *MockOrderRepo {
				return &MockOrderRepo{
					CartItems: []models.Cart{
						cartItem(buyer.ID, 1, "Mechanical Keyboard", 60000, &sale, 2, 10),
						cartItem(buyer.ID, 2, "Desk Mat", 30000, nil, 1, 5),
					},
				}
			},
			expectedStatusCode: http.StatusCreated,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockOrderRepo) {
				var resp Order
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

				assert.Regexp(t, `^ORD\d{8}[0-9A-F]{6}$`, resp.OrderNumber)
				assert.Equal(t, "pending", resp.Status)
				assert.Equal(t, "pending", resp.PaymentStatus)
				assert.Equal(t, float64(130000), resp.Subtotal)
				assert.Equal(t, float64(15000), resp.ShippingCost)
				assert.Equal(t, float64(145000), resp.Total)

				assert.Len(t, resp.Items, 2)
				assert.Equal(t, float64(50000), resp.Items[0].Price, "sale price is the frozen unit price")
				assert.Equal(t, float64(100000), resp.Items[0].Total)
				assert.Equal(t, "Mechanical Keyboard", resp.Items[0].Snapshot.Name)
				assert.Equal(t, float64(30000), resp.Items[1].Total)

				assert.Empty(t, repo.CartItems, "cart is cleared after checkout")
				assert.Equal(t, buyer.ID, repo.lastCheckoutUserID)
				assert.Equal(t, "jne", repo.lastCheckoutInput.ShippingCourier)
			},
		},
		{
			name: "Empty cart",
			user: buyer,
			body: checkoutBody(),
			mockRepoSetup: func() *MockOrderRepo {
				return &MockOrderRepo{}
			},
			expectedStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockOrderRepo) {
				var errResp map[string]string
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
				assert.Equal(t, "cart is empty", errResp["error"])
			},
		},
		{
			name: "Stock ran out between add and checkout",
			user: buyer,
			body: checkoutBody(),
			mockRepoSetup: func() *MockOrderRepo {
				return &MockOrderRepo{
					CartItems: []models.Cart{
						cartItem(buyer.ID, 1, "Mechanical Keyboard", 60000, nil, 5, 2),
					},
				}
			},
			expectedStatusCode: http.StatusConflict,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockOrderRepo) {
				assert.Empty(t, repo.Orders, "no order may exist when stock fails")
			},
		},
		{
			name: "Missing shipping address fields",
			user: buyer,
			body: `{"shipping_address": {"phone": "0812"}, "shipping_cost": 10}`,
			mockRepoSetup: func() *MockOrderRepo {
				return &MockOrderRepo{
					CartItems: []models.Cart{
						cartItem(buyer.ID, 1, "Mechanical Keyboard", 60000, nil, 1, 10),
					},
				}
			},
			expectedStatusCode: http.StatusUnprocessableEntity,
			checkResponse: func(t *testing.T, rec *httptest.ResponseRecorder, repo *MockOrderRepo) {
				var resp struct {
					Fields map[string]string `json:"fields"`
				}
				assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
				assert.Contains(t, resp.Fields, "shipping_address.name")
				assert.Contains(t, resp.Fields, "shipping_address.street")
				assert.Contains(t, resp.Fields, "shipping_address.city")
				assert.Empty(t, repo.Orders)
			},
		},
		{
			name: "Negative shipping cost",
			user: buyer,
			body: `{"shipping_address": {"name": "Budi", "street": "Jl. Merdeka 1", "city": "Jakarta"}, "shipping_cost": -5}`,
			mockRepoSetup: func() *MockOrderRepo {
				return &MockOrderRepo{}
			},
			expectedStatusCode: http.StatusUnprocessableEntity,
		},
		{
			name: "Invalid JSON",
			user: buyer,
			body: `{"shipping_address": `,
			mockRepoSetup: func() *MockOrderRepo {
				return &MockOrderRepo{}
			},
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name: "Anonymous is forbidden",
			user: nil,
			body: checkoutBody(),
			mockRepoSetup: func() *MockOrderRepo {
				return &MockOrderRepo{}
			},
			expectedStatusCode: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			mockRepo := tc.mockRepoSetup()
			handler := NewOrdersHandler(mockRepo)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleCreate(rec, authedRequest("POST", "/orders", tc.body, tc.user))

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
			if tc.checkResponse != nil {
				tc.checkResponse(t, rec, mockRepo)
			}
		})
	}
}

func TestHandleIndex(t *testing.T) {
	buyer := &models.User{ID: 7, Role: models.RoleBuyer}
	other := &models.User{ID: 8, Role: models.RoleBuyer}

	repo := &MockOrderRepo{
		Orders: []models.Order{
			{OrderNumber: "ORD20260101ABCDEF", UserID: buyer.ID, Status: models.OrderPending, PaymentStatus: models.PaymentPending},
			{OrderNumber: "ORD20260102FEDCBA", UserID: other.ID, Status: models.OrderShipped, PaymentStatus: models.PaymentPaid},
		},
	}
	handler := NewOrdersHandler(repo)
	rec := httptest.NewRecorder()

	handler.HandleIndex(rec, authedRequest("GET", "/orders", "", buyer))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Orders []Order `json:"orders"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Len(t, resp.Orders, 1, "only the requesting user's orders are listed")
	assert.Equal(t, "ORD20260101ABCDEF", resp.Orders[0].OrderNumber)
}

func TestHandleShow(t *testing.T) {
	owner := &models.User{ID: 7, Role: models.RoleBuyer}
	stranger := &models.User{ID: 8, Role: models.RoleBuyer}
	admin := &models.User{ID: 1, Role: models.RoleAdmin}

	order := models.Order{
		OrderNumber:   "ORD20260101ABCDEF",
		UserID:        owner.ID,
		Status:        models.OrderPending,
		PaymentStatus: models.PaymentPending,
	}

	testCases := []struct {
		name               string
		actor              *models.User
		number             string
		expectedStatusCode int
	}{
		{
			name:               "Owner reads own order",
			actor:              owner,
			number:             "ORD20260101ABCDEF",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Admin reads any order",
			actor:              admin,
			number:             "ORD20260101ABCDEF",
			expectedStatusCode: http.StatusOK,
		},
		{
			name:               "Other buyer is forbidden",
			actor:              stranger,
			number:             "ORD20260101ABCDEF",
			expectedStatusCode: http.StatusForbidden,
		},
		{
			name:               "Unknown order number",
			actor:              owner,
			number:             "ORD20260101000000",
			expectedStatusCode: http.StatusNotFound,
		},
		{
			name:               "Anonymous is forbidden",
			actor:              nil,
			number:             "ORD20260101ABCDEF",
			expectedStatusCode: http.StatusForbidden,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			repo := &MockOrderRepo{Orders: []models.Order{order}}
			handler := NewOrdersHandler(repo)
			req := authedRequest("GET", "/orders/"+tc.number, "", tc.actor)
			req.SetPathValue("number", tc.number)
			rec := httptest.NewRecorder()

			// Act
			handler.HandleShow(rec, req)

			// Assert
			assert.Equal(t, tc.expectedStatusCode, rec.Code)
		})
	}
}
