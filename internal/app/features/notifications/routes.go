// internal/app/features/notifications/routes.go
package notifications

import (
	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
)

// Routes returns the subrouter mounted at /api/notifications.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)
	r.Get("/", h.List)
	r.Get("/unread-count", h.UnreadCount)
	r.Put("/mark-all-read", h.MarkAllRead)
	r.Put("/{notificationID}/read", h.MarkRead)
	return r
}
