// internal/app/features/notes/routes.go
package notes

import "github.com/go-chi/chi/v5"

// Routes returns the note routes. Typically: r.Mount("/notes", notes.Routes(h)).
// Any authenticated user may hit these; the note access policy decides.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.ServeGet)
	r.Put("/", h.HandleWrite)
	return r
}
