package main

import (
	"fmt"
	"net/http"

	"marketgo/app/account"
	"marketgo/app/render"
	"marketgo/auth"
	"marketgo/models"
)

// authenticate resolves the session's user id into a full user and puts it on
// the request context. Stale sessions (deleted or deactivated accounts) pass
// through as anonymous.
func (app *application) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := app.session.GetInt(r.Context(), account.SessionUserID)
		if id == 0 {
			next.ServeHTTP(w, r)
			return
		}

		user, err := app.users.GetByID(uint(id))
		if err != nil || !user.IsActive {
			app.session.Remove(r.Context(), account.SessionUserID)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithUser(r.Context(), user)))
	})
}

func (app *application) requireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if auth.UserFrom(r.Context()) == nil {
			render.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next(w, r)
	}
}

// requireRole gates a route with one of the auth package's access predicates.
func (app *application) requireRole(allowed func(*models.User) bool, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user := auth.UserFrom(r.Context())
		if user == nil {
			render.Error(w, http.StatusUnauthorized, "authentication required")
			return
		}
		if !allowed(user) {
			render.Forbidden(w)
			return
		}
		next(w, r)
	}
}

func (app *application) logRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		app.infoLog.Printf("%s - %s %s %s", r.RemoteAddr, r.Proto, r.Method, r.URL.RequestURI())
		next.ServeHTTP(w, r)
	})
}

func (app *application) recoverPanic(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				w.Header().Set("Connection", "close")
				app.errorLog.Output(2, fmt.Sprintf("panic: %v", err))
				render.Error(w, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
