// internal/app/features/complaints/moderatorview.go
package complaints

import (
	"context"
	"net/http"

	complaintstore "github.com/yash2607-del/samaaj/internal/app/store/complaints"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ModeratorView handles GET /api/complaints/moderator-view. The result
// set covers the moderator's own department plus every department
// sharing its category, so sibling departments (two water boards, say)
// see each other's queues.
func (h *Handler) ModeratorView(w http.ResponseWriter, r *http.Request) {
	role, email, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	if role != models.RoleModerator && role != models.RoleAdmin {
		httpjson.Error(w, http.StatusForbidden, "moderator access required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	scope, err := h.Policy.ScopeFor(ctx, role, userID, email, false, true)
	if err != nil {
		h.writeScopeError(w, err)
		return
	}

	depts := scope.Departments
	if !scope.All && len(depts) > 0 {
		if peers, err := h.peerDepartments(ctx, depts[0]); err != nil {
			h.Log.Warn("moderator view: peer expansion failed", zap.Error(err))
		} else if len(peers) > 0 {
			depts = peers
		}
	}

	f := complaintstore.ListFilter{Area: scope.Area}
	if !scope.All {
		f.Departments = depts
	}
	list, err := h.Complaints.List(ctx, f)
	if err != nil {
		h.Log.Error("moderator view: list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	list = h.populateDepartmentNames(ctx, list)
	httpjson.OK(w, map[string]any{
		"complaints": list,
		"count":      len(list),
		"degraded":   scope.Degraded,
	})
}

// peerDepartments expands one department id into all department ids of
// the same category. The moderator's own department is always in the
// result, even when its record has no category.
func (h *Handler) peerDepartments(ctx context.Context, deptID primitive.ObjectID) ([]primitive.ObjectID, error) {
	d, err := h.Departments.GetByID(ctx, deptID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return []primitive.ObjectID{deptID}, nil
		}
		return nil, err
	}
	if d.Category == "" {
		return []primitive.ObjectID{deptID}, nil
	}
	peers, err := h.Departments.ByCategory(ctx, d.Category)
	if err != nil {
		return nil, err
	}
	ids := []primitive.ObjectID{deptID}
	for _, p := range peers {
		if p.ID != deptID {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}
