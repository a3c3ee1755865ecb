// internal/app/features/complaints/status.go
package complaints

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/deptresolve"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/sanitize"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/app/system/uploads"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// UpdateStatus handles PATCH /api/complaints/update-status/{complaintID}
// (multipart: status, moderatorEmail, actionDescription, optional
// actionPhoto).
//
// The precondition chain, in order: valid status value; an existing
// moderator record for the actor; a resolvable moderator department
// (this path always fails closed, unlike list views); an existing
// complaint; department authorization — the complaint's department must
// be the moderator's or share its category. A complaint with no
// department yet is backfilled with the moderator's before the check.
func (h *Handler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	role, sessionEmail, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if role != models.RoleModerator && role != models.RoleAdmin {
		httpjson.Error(w, http.StatusForbidden, "only moderators can update complaint status")
		return
	}

	complaintID, err := primitive.ObjectIDFromHex(chi.URLParam(r, "complaintID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid complaint id")
		return
	}

	if err := r.ParseMultipartForm(uploads.MaxPhotoBytes); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	newStatus := r.FormValue("status")
	if !models.ValidStatus(newStatus) {
		httpjson.Error(w, http.StatusBadRequest, "invalid status value")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	// An explicitly supplied email names the acting moderator and wins
	// over the session identity, so the history entry records whoever
	// the form says acted; the session user is the fallback.
	var mod models.Moderator
	if formEmail := r.FormValue("moderatorEmail"); formEmail != "" {
		mod, err = h.Resolver.FindModerator(ctx, deptresolve.Actor{Email: formEmail})
		if err == deptresolve.ErrNoModerator {
			mod, err = h.Resolver.FindModerator(ctx, deptresolve.Actor{UserID: userID, Email: sessionEmail})
		}
	} else {
		mod, err = h.Resolver.FindModerator(ctx, deptresolve.Actor{UserID: userID, Email: sessionEmail})
	}
	if err != nil {
		if err == deptresolve.ErrNoModerator {
			httpjson.Error(w, http.StatusNotFound, "moderator record not found")
			return
		}
		h.Log.Error("status update: moderator lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	modDept, resolved, err := h.Resolver.NormalizeRef(ctx, mod.Department)
	if err != nil {
		h.Log.Error("status update: department resolution failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !resolved {
		httpjson.Error(w, http.StatusBadRequest, "your moderator account has no resolvable department")
		return
	}

	c, err := h.Complaints.GetByID(ctx, complaintID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "complaint not found")
			return
		}
		h.Log.Error("status update: complaint fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if c.Department.IsZero() {
		// Lazy backfill: the first moderator to act claims the complaint
		// for their department.
		if err := h.Complaints.SetDepartment(ctx, c.ID, modDept); err != nil {
			h.Log.Error("status update: department backfill failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		c.Department = modDept
	}

	if c.Department != modDept {
		allowed, err := h.sameCategory(ctx, c.Department, modDept)
		if err != nil {
			h.Log.Error("status update: peer check failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
		if !allowed {
			httpjson.Error(w, http.StatusForbidden, "complaint belongs to another department")
			return
		}
	}

	change := models.StatusChange{
		Status:            newStatus,
		ChangedBy:         mod.UserID,
		ChangedByEmail:    mod.Email,
		ChangedAt:         time.Now().UTC(),
		ActionDescription: sanitize.Text(r.FormValue("actionDescription")),
	}
	if _, fh, err := r.FormFile("actionPhoto"); err == nil {
		path, err := h.Uploads.SavePhoto(fh)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		change.ActionPhoto = path
	}

	statusChanged := c.Status != newStatus
	updated, err := h.Complaints.AppendStatus(ctx, c.ID, change)
	if err != nil {
		h.Log.Error("status update: persist failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if statusChanged {
		h.Notify.StatusChanged(ctx, updated, newStatus)
	}

	out := h.populateDepartmentNames(ctx, []models.Complaint{updated})
	httpjson.OK(w, map[string]any{"complaint": out[0]})
}

// sameCategory reports whether two departments share a category
// (peer-department authorization).
func (h *Handler) sameCategory(ctx context.Context, a, b primitive.ObjectID) (bool, error) {
	da, err := h.Departments.GetByID(ctx, a)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	db, err := h.Departments.GetByID(ctx, b)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return da.Category != "" && da.Category == db.Category, nil
}
