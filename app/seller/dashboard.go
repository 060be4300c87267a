package seller

import (
	"net/http"

	"marketgo/app/render"
	"marketgo/auth"
	"marketgo/models"
)

type StatsProvider interface {
	SellerStats(sellerID uint) (*models.SellerStats, error)
	RecentSales(sellerID uint) ([]models.OrderItem, error)
	LowStock(sellerID uint) ([]models.Product, error)
}

type DashboardHandler struct {
	stats StatsProvider
}

func NewDashboardHandler(stats StatsProvider) *DashboardHandler {
	return &DashboardHandler{stats: stats}
}

type recentSale struct {
	ProductName string  `json:"product_name"`
	Quantity    int     `json:"quantity"`
	Total       float64 `json:"total"`
}

type lowStockProduct struct {
	Name          string `json:"name"`
	Slug          string `json:"slug"`
	StockQuantity int    `json:"stock_quantity"`
}

// HandleGet serves the seller dashboard: product counts by status, sales
// count and revenue over the seller's order items, recent sales, and the
// low-stock list. Everything is computed fresh per request.
func (h *DashboardHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	user := auth.UserFrom(r.Context())
	if user == nil {
		render.Forbidden(w)
		return
	}

	stats, err := h.stats.SellerStats(user.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	sales, err := h.stats.RecentSales(user.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}
	lowStock, err := h.stats.LowStock(user.ID)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to load dashboard")
		return
	}

	recent := make([]recentSale, len(sales))
	for i := range sales {
		recent[i] = recentSale{
			ProductName: sales[i].ProductSnapshot.Name,
			Quantity:    sales[i].Quantity,
			Total:       sales[i].Total.InexactFloat64(),
		}
	}
	low := make([]lowStockProduct, len(lowStock))
	for i := range lowStock {
		low[i] = lowStockProduct{
			Name:          lowStock[i].Name,
			Slug:          lowStock[i].Slug,
			StockQuantity: lowStock[i].StockQuantity,
		}
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"stats": map[string]any{
			"total_products":     stats.TotalProducts,
			"published_products": stats.PublishedProducts,
			"draft_products":     stats.DraftProducts,
			"total_orders":       stats.TotalOrderItems,
			"total_revenue":      stats.Revenue.InexactFloat64(),
		},
		"recent_orders":      recent,
		"low_stock_products": low,
	})
}
