// internal/app/features/complaints/create.go
package complaints

import (
	"context"
	"net/http"

	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/sanitize"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/app/system/uploads"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.uber.org/zap"
)

// Create handles POST /api/complaints (multipart, field "photo").
// Moderators cannot file complaints. When exactly one active department
// serves the category it is assigned up front; otherwise assignment
// waits for the first moderator status change. After the insert the
// notification fan-out runs best-effort.
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if role == models.RoleModerator {
		httpjson.Error(w, http.StatusForbidden, "moderators cannot file complaints")
		return
	}

	if err := r.ParseMultipartForm(uploads.MaxPhotoBytes); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	title := sanitize.Text(r.FormValue("title"))
	category := r.FormValue("category")
	if title == "" {
		httpjson.Error(w, http.StatusBadRequest, "title is required")
		return
	}
	if !models.ValidCategory(category) {
		httpjson.Error(w, http.StatusBadRequest, "invalid category")
		return
	}

	c := models.Complaint{
		Title:       title,
		Category:    category,
		Description: sanitize.Text(r.FormValue("description")),
		Location:    sanitize.Text(r.FormValue("location")),
		AddressLine: sanitize.Text(r.FormValue("addressLine")),
		Landmark:    sanitize.Text(r.FormValue("landmark")),
		City:        sanitize.Text(r.FormValue("city")),
		District:    sanitize.Text(r.FormValue("district")),
		State:       sanitize.Text(r.FormValue("state")),
		Pincode:     sanitize.Text(r.FormValue("pincode")),
		UserID:      &userID,
	}

	if _, fh, err := r.FormFile("photo"); err == nil {
		path, err := h.Uploads.SavePhoto(fh)
		if err != nil {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		c.Photo = path
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	deptName := ""
	if d, sole, err := h.Departments.SoleActiveByCategory(ctx, category); err != nil {
		h.Log.Warn("department auto-assign lookup failed", zap.Error(err))
	} else if sole {
		c.Department = d.ID
		deptName = d.Name
	}

	created, err := h.Complaints.Create(ctx, c)
	if err != nil {
		h.Log.Error("complaint insert failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	// Side effects never block or fail the creation.
	h.Notify.ComplaintCreated(ctx, created, deptName)

	created.DepartmentName = deptName
	httpjson.Write(w, http.StatusCreated, map[string]any{"complaint": created})
}
