// internal/app/features/complaints/routes.go
package complaints

import (
	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
)

// Routes returns the subrouter mounted at /api/complaints. Every
// endpoint requires a signed-in user; role checks happen per handler.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/by-department", h.ByDepartment)
	r.Get("/moderator-view", h.ModeratorView)
	r.Patch("/update-status/{complaintID}", h.UpdateStatus)

	r.Route("/{complaintID}", func(r chi.Router) {
		r.Get("/", h.Get)
		r.Post("/like", h.Like)
		r.Delete("/like", h.Like)
		r.Post("/dislike", h.Dislike)
		r.Delete("/dislike", h.Dislike)
		r.Post("/community-validate", h.Validate)
		r.Delete("/community-validate", h.RemoveValidation)
	})

	return r
}
