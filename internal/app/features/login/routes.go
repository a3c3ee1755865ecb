// internal/app/features/login/routes.go
package login

import "github.com/go-chi/chi/v5"

// Routes returns the subrouter mounted at /login.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Serve)
	return r
}

// GoogleRoutes returns the subrouter mounted at /auth/google.
func GoogleRoutes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.GoogleStart)
	r.Get("/callback", h.GoogleCallback)
	return r
}
