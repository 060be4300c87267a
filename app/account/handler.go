package account

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"

	"marketgo/app/render"
	"marketgo/models"
)

// SessionUserID is the session key holding the authenticated user's id.
const SessionUserID = "authenticatedUserID"

type UserProvider interface {
	Insert(name, email, password string, role models.Role) (*models.User, error)
	Authenticate(email, password string) (*models.User, error)
}

type AccountHandler struct {
	repo    UserProvider
	session *scs.SessionManager
}

func NewAccountHandler(r UserProvider, session *scs.SessionManager) *AccountHandler {
	return &AccountHandler{repo: r, session: session}
}

// HandleRegister creates a buyer or seller account. Admin accounts are only
// created through the admin user CRUD.
func (h *AccountHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
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

	if input.Role == "" {
		input.Role = string(models.RoleBuyer)
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
	if !role.Valid() || role == models.RoleAdmin {
		fields["role"] = "role must be buyer or seller"
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

	h.session.Put(r.Context(), SessionUserID, int(user.ID))
	render.JSON(w, http.StatusCreated, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
	})
}

func (h *AccountHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var input struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		render.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	user, err := h.repo.Authenticate(input.Email, input.Password)
	if err != nil {
		render.DomainError(w, err)
		return
	}

	// Fresh session token on privilege change.
	if err := h.session.RenewToken(r.Context()); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to start session")
		return
	}
	h.session.Put(r.Context(), SessionUserID, int(user.ID))

	render.JSON(w, http.StatusOK, map[string]any{
		"id":    user.ID,
		"name":  user.Name,
		"email": user.Email,
		"role":  string(user.Role),
	})
}

func (h *AccountHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.session.Remove(r.Context(), SessionUserID)
	if err := h.session.Destroy(r.Context()); err != nil {
		render.Error(w, http.StatusInternalServerError, "failed to end session")
		return
	}
	render.JSON(w, http.StatusOK, map[string]string{"message": "logged out"})
}
