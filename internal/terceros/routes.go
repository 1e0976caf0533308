package terceros

import "github.com/go-chi/chi/v5"

// MountRoutes registers the record routes. Identifiers must be digits; any
// other path segment falls through to 404.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Get("/form", h.Form)
	r.Get("/form/{id:[0-9]+}", h.Form)
	r.Post("/save", h.Save)
	r.Post("/delete/{id:[0-9]+}", h.Delete)
}
