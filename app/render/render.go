// Package render writes the JSON prop bags handlers hand to the client.
package render

import (
	"encoding/json"
	"errors"
	"net/http"

	"marketgo/models"
)

// JSON writes v with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// Error writes {"error": msg} with the given status code.
func Error(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, map[string]string{"error": msg})
}

// Forbidden writes the uniform access-denied response.
func Forbidden(w http.ResponseWriter) {
	Error(w, http.StatusForbidden, "access denied")
}

// DomainError translates a repository or validation error into a response.
// Unknown errors become a 500 without leaking their text.
func DomainError(w http.ResponseWriter, err error) {
	var ve *models.ValidationError
	if errors.As(err, &ve) {
		JSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":  "validation failed",
			"fields": ve.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrCartItemNotFound),
		errors.Is(err, models.ErrOrderNotFound),
		errors.Is(err, models.ErrCategoryNotFound),
		errors.Is(err, models.ErrUserNotFound):
		Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrOutOfStock):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrEmptyCart):
		Error(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, models.ErrEmailTaken):
		Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrInvalidCredentials):
		Error(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, models.ErrOrderCreationFailed):
		Error(w, http.StatusInternalServerError, err.Error())
	default:
		Error(w, http.StatusInternalServerError, "internal server error")
	}
}
