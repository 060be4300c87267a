package health

import (
	"net/http"
	"time"

	"marketgo/app/render"
)

type Response struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
}

type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, http.StatusOK, Response{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}
