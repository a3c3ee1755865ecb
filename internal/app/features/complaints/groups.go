// internal/app/features/complaints/groups.go
package complaints

import (
	"context"
	"net/http"

	"github.com/dalemusser/waffle/pantry/query"
	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// ByDepartment handles GET /api/complaints/by-department, the dashboard
// grouping. The same visibility rules as List apply; complaints without
// an assigned department do not appear in any group.
//
// The aggregation joins department names from the current collection
// first. An empty result while complaints exist usually means the data
// set predates the rename of the department collection, so the join is
// retried against the old singular name.
func (h *Handler) ByDepartment(w http.ResponseWriter, r *http.Request) {
	role, email, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	scopeParam := query.Get(r, "scope")
	districtScope := scopeParam == "district" || scopeParam == "nearby" || query.Get(r, "nearby") == "true"

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	scope, err := h.Policy.ScopeFor(ctx, role, userID, email, districtScope, false)
	if err != nil {
		h.writeScopeError(w, err)
		return
	}

	f := filterFromScope(scope, "")
	groups, err := h.Complaints.GroupByDepartment(ctx, f, departmentstore.Collection)
	if err != nil {
		h.Log.Error("department grouping failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if len(groups) == 0 {
		if n, err := h.Complaints.Count(ctx); err == nil && n > 0 {
			groups, err = h.Complaints.GroupByDepartment(ctx, f, departmentstore.LegacyCollection)
			if err != nil {
				h.Log.Error("legacy department grouping failed", zap.Error(err))
				httpjson.Error(w, http.StatusInternalServerError, "internal error")
				return
			}
		}
	}

	httpjson.OK(w, map[string]any{
		"groups": groups,
		"count":  len(groups),
	})
}
