// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/clubnexus/clubnexus/internal/app/system/authn"
)

// Routes returns the user routes. Typically: r.Mount("/users", users.Routes(h)).
// The bearer-token middleware runs on the parent router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(authn.RequireAdmin)
		ar.Post("/", h.HandleCreate)
		ar.Get("/", h.ServeList)
		ar.Delete("/{email}", h.HandleDelete)
	})

	// Admin-or-self is checked in the handlers.
	r.Get("/{email}", h.ServeGet)
	r.Put("/{email}/{field}", h.HandleUpdate)

	return r
}
