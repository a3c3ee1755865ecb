// internal/app/features/notifications/handler.go
package notifications

import (
	"context"
	"net/http"
	"strconv"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	notificationstore "github.com/yash2607-del/samaaj/internal/app/store/notifications"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

const defaultLimit = 50

// Handler serves each user's notification feed.
type Handler struct {
	Notifications *notificationstore.Store
	Log           *zap.Logger
}

func NewHandler(notifications *notificationstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Notifications: notifications, Log: logger}
}

// List handles GET /api/notifications?limit=N.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	limit := int64(defaultLimit)
	if raw := query.Get(r, "limit"); raw != "" {
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || n < 0 {
			httpjson.Error(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Notifications.ListByUser(ctx, userID, limit)
	if err != nil {
		h.Log.Error("notification list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.OK(w, map[string]any{"notifications": list, "count": len(list)})
}

// UnreadCount handles GET /api/notifications/unread-count.
func (h *Handler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifications.UnreadCount(ctx, userID)
	if err != nil {
		h.Log.Error("unread count failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.OK(w, map[string]any{"unread": n})
}

// MarkRead handles PUT /api/notifications/{notificationID}/read. A
// notification belonging to someone else reads as not found.
func (h *Handler) MarkRead(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "notificationID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid notification id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	matched, err := h.Notifications.MarkRead(ctx, id, userID)
	if err != nil {
		h.Log.Error("mark read failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if matched == 0 {
		httpjson.Error(w, http.StatusNotFound, "notification not found")
		return
	}
	httpjson.Message(w, http.StatusOK, "notification marked read")
}

// MarkAllRead handles PUT /api/notifications/mark-all-read.
func (h *Handler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	n, err := h.Notifications.MarkAllRead(ctx, userID)
	if err != nil {
		h.Log.Error("mark all read failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.OK(w, map[string]any{"updated": n})
}
