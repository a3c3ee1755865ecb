// internal/app/features/complaints/list.go
package complaints

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/policy/complaintpolicy"
	complaintstore "github.com/yash2607-del/samaaj/internal/app/store/complaints"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// List handles GET /api/complaints. Citizens get their own complaints by
// default and their district's feed with ?scope=district (or nearby);
// moderators get their department's complaints narrowed by assigned
// area; admins get everything. Results are newest-first.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	role, email, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	scopeParam := query.Get(r, "scope")
	districtScope := scopeParam == "district" || scopeParam == "nearby" || query.Get(r, "nearby") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	scope, err := h.Policy.ScopeFor(ctx, role, userID, email, districtScope, true)
	if err != nil {
		h.writeScopeError(w, err)
		return
	}

	status := query.Get(r, "status")
	if status != "" && !models.ValidStatus(status) {
		httpjson.Error(w, http.StatusBadRequest, "invalid status filter")
		return
	}

	list, err := h.Complaints.List(ctx, filterFromScope(scope, status))
	if err != nil {
		h.Log.Error("complaint list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	list = h.populateDepartmentNames(ctx, list)

	httpjson.OK(w, map[string]any{
		"complaints": list,
		"count":      len(list),
	})
}

// Get handles GET /api/complaints/{complaintID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	if _, _, _, ok := authz.UserCtx(r); !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "complaintID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid complaint id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	c, err := h.Complaints.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "complaint not found")
			return
		}
		h.Log.Error("complaint fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	out := h.populateDepartmentNames(ctx, []models.Complaint{c})
	httpjson.OK(w, map[string]any{"complaint": out[0]})
}

func filterFromScope(s complaintpolicy.Scope, status string) complaintstore.ListFilter {
	f := complaintstore.ListFilter{Status: status}
	if s.All {
		return f
	}
	f.Owner = s.Owner
	f.Departments = s.Departments
	f.Place = s.Place
	f.Area = s.Area
	return f
}

func (h *Handler) writeScopeError(w http.ResponseWriter, err error) {
	switch err {
	case complaintpolicy.ErrNoLocation:
		httpjson.Error(w, http.StatusBadRequest, "set your location to see district complaints")
	case complaintpolicy.ErrNoDepartment:
		httpjson.Error(w, http.StatusForbidden, "your moderator account has no resolvable department")
	case complaintpolicy.ErrUnknownRole:
		httpjson.Error(w, http.StatusForbidden, "forbidden")
	default:
		h.Log.Error("visibility scope failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
	}
}
