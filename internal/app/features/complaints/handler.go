// internal/app/features/complaints/handler.go
package complaints

import (
	"context"

	"github.com/yash2607-del/samaaj/internal/app/policy/complaintpolicy"
	complaintstore "github.com/yash2607-del/samaaj/internal/app/store/complaints"
	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	"github.com/yash2607-del/samaaj/internal/app/system/deptresolve"
	"github.com/yash2607-del/samaaj/internal/app/system/notify"
	"github.com/yash2607-del/samaaj/internal/app/system/uploads"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// Handler serves the complaint API: visibility-filtered lists, creation
// with fan-out, status transitions, and community engagement.
type Handler struct {
	Complaints  *complaintstore.Store
	Departments *departmentstore.Store
	Policy      *complaintpolicy.Policy
	Resolver    *deptresolve.Resolver
	Notify      *notify.Service
	Uploads     *uploads.Saver
	Log         *zap.Logger
}

func NewHandler(
	complaints *complaintstore.Store,
	departments *departmentstore.Store,
	policy *complaintpolicy.Policy,
	resolver *deptresolve.Resolver,
	notifier *notify.Service,
	saver *uploads.Saver,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		Complaints:  complaints,
		Departments: departments,
		Policy:      policy,
		Resolver:    resolver,
		Notify:      notifier,
		Uploads:     saver,
		Log:         logger,
	}
}

// populateDepartmentNames fills DepartmentName on each complaint from
// one department fetch, so list responses carry the resolved name
// without a per-row lookup.
func (h *Handler) populateDepartmentNames(ctx context.Context, list []models.Complaint) []models.Complaint {
	if len(list) == 0 {
		return list
	}
	all, err := h.Departments.All(ctx)
	if err != nil {
		h.Log.Warn("department name join failed", zap.Error(err))
		return list
	}
	names := make(map[primitive.ObjectID]string, len(all))
	for _, d := range all {
		names[d.ID] = d.Name
	}
	for i := range list {
		if !list[i].Department.IsZero() {
			list[i].DepartmentName = names[list[i].Department]
		}
	}
	return list
}
