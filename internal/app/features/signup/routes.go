// internal/app/features/signup/routes.go
package signup

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted at /signup.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Serve)
	return r
}
