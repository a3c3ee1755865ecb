// internal/app/features/departments/handler.go
package departments

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/sanitize"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Handler serves the department reference data used by complaint forms
// and moderator signup.
type Handler struct {
	Departments *departmentstore.Store
	Log         *zap.Logger
}

func NewHandler(departments *departmentstore.Store, logger *zap.Logger) *Handler {
	return &Handler{Departments: departments, Log: logger}
}

// List handles GET /api/departments.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	list, err := h.Departments.All(ctx)
	if err != nil {
		h.Log.Error("department list failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.OK(w, map[string]any{"departments": list, "count": len(list)})
}

// Get handles GET /api/departments/{departmentID}.
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "departmentID"))
	if err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid department id")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()

	d, err := h.Departments.GetByID(ctx, id)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "department not found")
			return
		}
		h.Log.Error("department fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.OK(w, map[string]any{"department": d})
}

// Create handles POST /api/departments (admin only).
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	if !authz.IsAdmin(r) {
		httpjson.Error(w, http.StatusForbidden, "admin access required")
		return
	}

	var body struct {
		Name          string   `json:"name"`
		Category      string   `json:"category"`
		Subcategory   string   `json:"subcategory"`
		CoverageAreas []string `json:"coverage_areas"`
		ContactInfo   string   `json:"contact_info"`
	}
	httpjson.Read(r, &body)

	name := sanitize.Text(body.Name)
	if name == "" {
		httpjson.Error(w, http.StatusBadRequest, "department name is required")
		return
	}
	category := sanitize.Text(body.Category)
	if category != "" && !models.ValidCategory(category) {
		httpjson.Error(w, http.StatusBadRequest, "invalid category")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	areas := make([]string, 0, len(body.CoverageAreas))
	for _, a := range body.CoverageAreas {
		if a = sanitize.Text(a); a != "" {
			areas = append(areas, a)
		}
	}

	d, err := h.Departments.Create(ctx, models.Department{
		Name:          name,
		Category:      category,
		Subcategory:   sanitize.Text(body.Subcategory),
		CoverageAreas: areas,
		ContactInfo:   sanitize.Text(body.ContactInfo),
		IsActive:      true,
	})
	if err != nil {
		if err == departmentstore.ErrDuplicateName {
			httpjson.Error(w, http.StatusConflict, "a department with that name already exists")
			return
		}
		h.Log.Error("department create failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Write(w, http.StatusCreated, map[string]any{"department": d})
}
