// internal/app/features/complaints/engagement.go
package complaints

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/sanitize"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Like handles POST and DELETE /api/complaints/{complaintID}/like. Both
// methods run the same toggle; DELETE on a complaint the user never
// liked flips the vote on, matching the toggle semantics throughout.
func (h *Handler) Like(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.Complaints.Like, true)
}

// Dislike handles POST and DELETE /api/complaints/{complaintID}/dislike.
func (h *Handler) Dislike(w http.ResponseWriter, r *http.Request) {
	h.vote(w, r, h.Complaints.Dislike, false)
}

func (h *Handler) vote(w http.ResponseWriter, r *http.Request, toggle func(context.Context, primitive.ObjectID, primitive.ObjectID) (models.Complaint, bool, error), notifyAdd bool) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "complaintID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid complaint id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, added, err := toggle(ctx, id, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "complaint not found")
			return
		}
		h.Log.Error("vote toggle failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if added && notifyAdd {
		h.Notify.Liked(ctx, c, userID)
	}

	out := h.populateDepartmentNames(ctx, []models.Complaint{c})
	httpjson.OK(w, map[string]any{
		"complaint": out[0],
		"likes":     len(c.Likes),
		"dislikes":  len(c.Dislikes),
		"active":    added,
	})
}

// Validate handles POST /api/complaints/{complaintID}/community-validate.
// A repeat validation by the same user replaces the stored note; the
// owner is notified only the first time.
func (h *Handler) Validate(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "complaintID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid complaint id")
		return
	}

	var body struct {
		Note string `json:"note"`
	}
	httpjson.Read(r, &body)

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, first, err := h.Complaints.Validate(ctx, id, userID, sanitize.Text(body.Note))
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "complaint not found")
			return
		}
		h.Log.Error("community validation failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if first {
		h.Notify.Validated(ctx, c, userID)
	}

	out := h.populateDepartmentNames(ctx, []models.Complaint{c})
	httpjson.OK(w, map[string]any{
		"complaint":   out[0],
		"validations": len(c.CommunityValidations),
		"validated":   true,
	})
}

// RemoveValidation handles DELETE /api/complaints/{complaintID}/community-validate.
func (h *Handler) RemoveValidation(w http.ResponseWriter, r *http.Request) {
	_, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "complaintID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid complaint id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	c, err := h.Complaints.RemoveValidation(ctx, id, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "complaint not found")
			return
		}
		h.Log.Error("remove validation failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := h.populateDepartmentNames(ctx, []models.Complaint{c})
	httpjson.OK(w, map[string]any{
		"complaint":   out[0],
		"validations": len(c.CommunityValidations),
		"validated":   false,
	})
}
