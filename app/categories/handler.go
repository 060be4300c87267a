package categories

import (
	"encoding/json"
	"net/http"

	"marketgo/app/render"
	"marketgo/models"
)

type CategoryResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

type AdminCategoryResponse struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	IsActive    bool   `json:"is_active"`
}

type CategoryProvider interface {
	GetActiveCategories() ([]models.Category, error)
	GetAllCategories() ([]models.Category, error)
	CreateCategory(category *models.Category) error
}

type CategoryHandler struct {
	repo CategoryProvider
}

func NewCategoryHandler(r CategoryProvider) *CategoryHandler {
	return &CategoryHandler{repo: r}
}

// HandleGetAll serves the active categories used by storefront filters.
func (h *CategoryHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetActiveCategories()
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]CategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = CategoryResponse{
			Name: c.Name,
			Slug: c.Slug,
		}
	}

	render.JSON(w, http.StatusOK, response)
}

// HandleListAll serves every category, inactive ones included. The route is
// admin-gated.
func (h *CategoryHandler) HandleListAll(w http.ResponseWriter, r *http.Request) {
	categories, err := h.repo.GetAllCategories()
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to fetch categories")
		return
	}

	response := make([]AdminCategoryResponse, len(categories))
	for i, c := range categories {
		response[i] = AdminCategoryResponse{
			ID:          c.ID,
			Name:        c.Name,
			Slug:        c.Slug,
			Description: c.Description,
			IsActive:    c.IsActive,
		}
	}

	render.JSON(w, http.StatusOK, response)
}

// HandleCreate stores a new category. The route is admin-gated.
func (h *CategoryHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}

	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if input.Name == "" {
		render.DomainError(w, models.NewValidationError(map[string]string{
			"name": "name is required",
		}))
		return
	}

	category := &models.Category{
		Name:        input.Name,
		Description: input.Description,
		IsActive:    true,
	}

	if err := h.repo.CreateCategory(category); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to create category")
		return
	}

	render.JSON(w, http.StatusCreated, CategoryResponse{
		Name: category.Name,
		Slug: category.Slug,
	})
}
