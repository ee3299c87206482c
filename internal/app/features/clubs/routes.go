// internal/app/features/clubs/routes.go
package clubs

import (
	"github.com/go-chi/chi/v5"

	"github.com/clubnexus/clubnexus/internal/app/system/authn"
)

// Routes returns the club routes. Typically: r.Mount("/clubs", clubs.Routes(h)).
// The bearer-token middleware runs on the parent router.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()

	r.Group(func(ar chi.Router) {
		ar.Use(authn.RequireAdmin)
		ar.Post("/", h.HandleCreate)
		ar.Put("/{name}/{field}", h.HandleUpdate)
		ar.Delete("/{name}", h.HandleDelete)
		ar.Post("/{name}/members", h.HandleAddMember)
		ar.Delete("/{name}/members/{email}", h.HandleRemoveMember)
	})

	r.Get("/{name}", h.ServeGet)

	return r
}
