// internal/app/features/profile/handler.go
package profile

import (
	"context"
	"encoding/json"
	"net/http"

	citizenstore "github.com/yash2607-del/samaaj/internal/app/store/citizens"
	userstore "github.com/yash2607-del/samaaj/internal/app/store/users"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/deptresolve"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/sanitize"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

type Handler struct {
	Users    *userstore.Store
	Citizens *citizenstore.Store
	Resolver *deptresolve.Resolver
	Log      *zap.Logger
}

func NewHandler(users *userstore.Store, citizens *citizenstore.Store, resolver *deptresolve.Resolver, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Citizens: citizens, Resolver: resolver, Log: logger}
}

// Get handles GET /profile: the user record plus the role-specific
// extension (citizen location, or moderator department and area).
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	role, email, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusNotFound, "user not found")
			return
		}
		h.Log.Error("profile: user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	resp := map[string]any{"user": u}

	switch role {
	case models.RoleCitizen:
		if c, err := h.Citizens.GetByUserID(ctx, userID); err == nil {
			resp["citizen"] = c
		}
	case models.RoleModerator:
		m, err := h.Resolver.FindModerator(ctx, deptresolve.Actor{UserID: userID, Email: email})
		if err == nil {
			resp["moderator"] = m
			if deptID, ok, err := h.Resolver.NormalizeRef(ctx, m.Department); err == nil && ok {
				resp["department_id"] = deptID.Hex()
			}
		}
	}

	httpjson.OK(w, resp)
}

type updateRequest struct {
	Name     string `json:"name,omitempty"`
	Email    string `json:"email,omitempty"`
	Location string `json:"location,omitempty"`
}

// Update handles PUT /profile: name/email edits for everyone, location
// for citizens.
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	role, _, userID, ok := authz.UserCtx(r)
	if !ok {
		httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	var req updateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	if req.Name != "" || req.Email != "" {
		if err := h.Users.UpdateProfile(ctx, userID, sanitize.Text(req.Name), req.Email); err != nil {
			if err == userstore.ErrDuplicateEmail {
				httpjson.Error(w, http.StatusBadRequest, err.Error())
				return
			}
			h.Log.Error("profile: update failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
	}
	if req.Location != "" && role == models.RoleCitizen {
		if err := h.Citizens.UpdateLocation(ctx, userID, sanitize.Text(req.Location)); err != nil {
			h.Log.Error("profile: location update failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	u, err := h.Users.GetByID(ctx, userID)
	if err != nil {
		h.Log.Error("profile: reload failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.OK(w, map[string]any{"user": u})
}
