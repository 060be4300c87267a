package admin

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"marketgo/app/render"
	"marketgo/auth"
	"marketgo/models"
)

const usersPerPage = 15

type UserProvider interface {
	GetFilteredUsers(offset, limit int, filters models.UserFilters) ([]models.User, int64, error)
	GetByID(id uint) (*models.User, error)
	Insert(name, email, password string, role models.Role) (*models.User, error)
	UpdateUser(user *models.User, password string) error
	DeleteUser(user *models.User) error
}

type User struct {
	ID        uint      `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type UsersHandler struct {
	repo UserProvider
}

func NewUsersHandler(repo UserProvider) *UsersHandler {
	return &UsersHandler{repo: repo}
}

// HandleList serves the user table, filterable by search text, role and
// active flag.
func (h *UsersHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	page := 1
	if pStr := r.URL.Query().Get("page"); pStr != "" {
		if p, err := strconv.Atoi(pStr); err == nil && p >= 1 {
			page = p
		}
	}

	filters := models.UserFilters{
		Search: r.URL.Query().Get("search"),
	}
	if role := models.Role(r.URL.Query().Get("role")); role.Valid() {
		filters.Role = role
	}
	if v := r.URL.Query().Get("status"); v != "" {
		active := v == "active" || v == "1" || v == "true"
		filters.IsActive = &active
	}

	offset := (page - 1) * usersPerPage
	res, total, err := h.repo.GetFilteredUsers(offset, usersPerPage, filters)
	if err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to get users")
		return
	}

	users := make([]User, len(res))
	for i := range res {
		users[i] = toUserResponse(&res[i])
	}

	render.JSON(w, http.StatusOK, map[string]any{
		"total":    total,
		"page":     page,
		"per_page": usersPerPage,
		"users":    users,
	})
}

// HandleCreate stores a new account with any role, including admin.
func (h *UsersHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	role := models.Role(input.Role)
	fields := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	}
	if !strings.Contains(input.Email, "@") {
		fields["email"] = "a valid email is required"
	}
	if len(input.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if !role.Valid() {
		fields["role"] = "role must be buyer, seller or admin"
	}
	if len(fields) > 0 {
		render.DomainError(w, models.NewValidationError(fields))
		return
	}

	user, err := h.repo.Insert(input.Name, input.Email, input.Password, role)
	if err != nil {
		render.DomainError(w, err)
		return
	}

	render.JSON(w, http.StatusCreated, toUserResponse(user))
}

func (h *UsersHandler) HandleShow(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}
	render.JSON(w, http.StatusOK, toUserResponse(user))
}

// HandleUpdate edits an account. Role changes happen only here; an empty
// password leaves the stored hash alone.
func (h *UsersHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	var input struct {
		Name     string `json:"name"`
		Email    string `json:"email"`
		Password string `json:"password"`
		Role     string `json:"role"`
		IsActive *bool  `json:"is_active"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	role := models.Role(input.Role)
	fields := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		fields["name"] = "name is required"
	}
	if !strings.Contains(input.Email, "@") {
		fields["email"] = "a valid email is required"
	}
	if !role.Valid() {
		fields["role"] = "role must be buyer, seller or admin"
	}
	if input.Password != "" && len(input.Password) < 8 {
		fields["password"] = "password must be at least 8 characters"
	}
	if len(fields) > 0 {
		render.DomainError(w, models.NewValidationError(fields))
		return
	}

	user.Name = input.Name
	user.Email = input.Email
	user.Role = role
	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := h.repo.UpdateUser(user, input.Password); err != nil {
		render.DomainError(w, err)
		return
	}

	render.JSON(w, http.StatusOK, toUserResponse(user))
}

// HandleDelete removes an account. Admins cannot delete themselves.
func (h *UsersHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	actor := auth.UserFrom(r.Context())
	user, ok := h.loadUser(w, r)
	if !ok {
		return
	}

	if actor != nil && actor.ID == user.ID {
		render.Error(w, http.StatusUnprocessableEntity, "you cannot delete your own account")
		return
	}

	if err := h.repo.DeleteUser(user); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to delete user")
		return
	}

	render.JSON(w, http.StatusOK, map[string]string{"message": "user deleted"})
}

func (h *UsersHandler) loadUser(w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil {
		render.Error(w, http.StatusNotFound, "user not found")
		return nil, false
	}
	user, err := h.repo.GetByID(uint(id))
	if err != nil {
		render.DomainError(w, err)
		return nil, false
	}
	return user, true
}

func toUserResponse(u *models.User) User {
	return User{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
