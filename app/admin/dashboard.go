package admin

import (
	"net/http"
	"time"

	"marketgo/app/render"
	"marketgo/models"
)

type StatsProvider interface {
	AdminStats() (*models.AdminStats, error)
	RecentOrders() ([]models.Order, error)
	RecentUsers() ([]models.User, error)
}

type DashboardHandler struct {
	stats StatsProvider
}

func NewDashboardHandler(stats StatsProvider) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

type recentOrder struct {
	OrderNumber string    `json:"order_number"`
	UserName    string    `json:"user_name"`
	Status      string    `json:"status"`
	Total       float64   `json:"total"`
	CreatedAt   time.Time `json:"created_at"`
}

type recentUser struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"created_at"`
}

// HandleGet serves the admin dashboard: marketplace-wide counts by role and
// status, paid revenue, and the newest orders and accounts.
func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	stats, err := h.stats.AdminStats()
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	orders, err := h.stats.RecentOrders()
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	users, err := h.stats.RecentUsers()
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	recentOrders := make([]recentOrder, len(orders))
	for i := range orders {
		recentOrders[i] = recentOrder{
			OrderNumber: orders[i].OrderNumber,
			UserName:    orders[i].User.Name,
			Status:      string(orders[i].Status),
			Total:       orders[i].Total.InexactFloat64(),
			CreatedAt:   orders[i].CreatedAt,
		}
	}
	recentUsers := make([]recentUser, len(users))
	for i := range users {
		recentUsers[i] = recentUser{
			Name:      users[i].Name,
			Email:     users[i].Email,
			Role:      string(users[i].Role),
			CreatedAt: users[i].CreatedAt,
		}
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"users": map[string]int64{
				"total":   stats.Users.Total,
				"buyers":  stats.Users.Buyers,
				"sellers": stats.Users.Sellers,
				"admins":  stats.Users.Admins,
			},
			"products": map[string]int64{
				"total":     stats.Products.Total,
				"published": stats.Products.Published,
				"draft":     stats.Products.Draft,
				"archived":  stats.Products.Archived,
			},
			"orders": map[string]any{
				"total":      stats.Orders.Total,
				"pending":    stats.Orders.Pending,
				"processing": stats.Orders.Processing,
				"revenue":    stats.Orders.Revenue.InexactFloat64(),
			},
			"categories": map[string]int64{
				"total":  stats.Categories.Total,
				"active": stats.Categories.Active,
			},
		},
		"recent_orders": recentOrders,
		"recent_users":  recentUsers,
	})
}
