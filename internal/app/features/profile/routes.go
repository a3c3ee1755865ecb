// internal/app/features/profile/routes.go
package profile

import (
	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
)

// Routes returns the subrouter mounted at /profile.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.Get)
	r.Put("/", h.Update)
	return r
}
