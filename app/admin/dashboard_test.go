package admin

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"marketgo/models"
)

// --- Mock Repository ---

type MockStatsRepo struct {
	Stats  *models.AdminStats
	Orders []models.Order
	Users  []models.User
	Err    error
}

func (m *MockStatsRepo) AdminStats() (*models.AdminStats, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Stats, nil
}

func (m *MockStatsRepo) RecentOrders() ([]models.Order, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Orders, nil
}

func (m *MockStatsRepo) RecentUsers() ([]models.User, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Users, nil
}

// --- Tests ---

func TestAdminDashboardHandleGet(t *testing.T) {
	now := time.Now()
	repo := &MockStatsRepo{
		Stats: &models.AdminStats{
			Users:      models.UserStats{Total: 10, Buyers: 7, Sellers: 2, Admins: 1},
			Products:   models.ProductStats{Total: 25, Published: 20, Draft: 4, Archived: 1},
			Orders:     models.OrderStats{Total: 50, Pending: 3, Processing: 2, Revenue: decimal.NewFromInt(5400000)},
			Categories: models.CategoryStats{Total: 6, Active: 5},
		},
		Orders: []models.Order{
			{
				OrderNumber: "ORD20260101ABCDEF",
				User:        models.User{Name: "Budi"},
				Status:      models.OrderPending,
				Total:       decimal.NewFromInt(145000),
				CreatedAt:   now,
			},
		},
		Users: []models.User{
			{Name: "Sari", Email: "sari@example.com", Role: models.RoleSeller, CreatedAt: now},
		},
	}
	handler := NewDashboardHandler(repo)

	rec := httptest.NewRecorder()
	handler.HandleGet(rec, adminRequest("GET", "/admin/dashboard", "", adminActor(1)))

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Stats struct {
			Users    map[string]int64 `json:"users"`
			Products map[string]int64 `json:"products"`
			Orders   struct {
				Total      int64   `json:"total"`
				Pending    int64   `json:"pending"`
				Processing int64   `json:"processing"`
				Revenue    float64 `json:"revenue"`
			} `json:"orders"`
			Categories map[string]int64 `json:"categories"`
		} `json:"stats"`
		RecentOrders []recentOrder `json:"recent_orders"`
		RecentUsers  []recentUser  `json:"recent_users"`
	}
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, int64(10), resp.Stats.Users["total"])
	assert.Equal(t, int64(7), resp.Stats.Users["buyers"])
	assert.Equal(t, int64(20), resp.Stats.Products["published"])
	assert.Equal(t, int64(50), resp.Stats.Orders.Total)
	assert.Equal(t, float64(5400000), resp.Stats.Orders.Revenue)
	assert.Equal(t, int64(5), resp.Stats.Categories["active"])

	assert.Len(t, resp.RecentOrders, 1)
	assert.Equal(t, "ORD20260101ABCDEF", resp.RecentOrders[0].OrderNumber)
	assert.Equal(t, "Budi", resp.RecentOrders[0].UserName)
	assert.Equal(t, float64(145000), resp.RecentOrders[0].Total)

	assert.Len(t, resp.RecentUsers, 1)
	assert.Equal(t, "seller", resp.RecentUsers[0].Role)
}

func TestAdminDashboardHandleGetError(t *testing.T) {
	handler := NewDashboardHandler(&MockStatsRepo{Err: errors.New("db down")})
	rec := httptest.NewRecorder()

	handler.HandleGet(rec, adminRequest("GET", "/admin/dashboard", "", adminActor(1)))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	var errResp map[string]string
	assert.NoError(t, json.NewDecoder(rec.Body).Decode(&errResp))
	assert.Equal(t, "failed to load dashboard", errResp["error"])
}
