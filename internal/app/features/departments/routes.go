// internal/app/features/departments/routes.go
package departments

import (
	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
)

// Routes returns the subrouter mounted at /api/departments.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{departmentID}", h.Get)
	return r
}
