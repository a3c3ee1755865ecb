// internal/app/features/signup/handler.go
package signup

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	citizenstore "github.com/yash2607-del/samaaj/internal/app/store/citizens"
	moderatorstore "github.com/yash2607-del/samaaj/internal/app/store/moderators"
	userstore "github.com/yash2607-del/samaaj/internal/app/store/users"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/sanitize"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type Handler struct {
	Users      *userstore.Store
	Citizens   *citizenstore.Store
	Moderators *moderatorstore.Store
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(users *userstore.Store, citizens *citizenstore.Store, moderators *moderatorstore.Store, sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{
		Users:      users,
		Citizens:   citizens,
		Moderators: moderators,
		SessionMgr: sessionMgr,
		Log:        logger,
	}
}

type signupRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	Role         string `json:"role,omitempty"`
	Location     string `json:"location,omitempty"`
	Department   string `json:"department,omitempty"`
	AssignedArea string `json:"assignedArea,omitempty"`
}

// Serve handles POST /signup. Citizens are the default role; a moderator
// signup carries a department (id or name) and an optional assigned
// area. The new user is signed in immediately and gets a bearer token.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	req.Name = sanitize.Text(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || len(req.Password) < 8 {
		httpjson.Error(w, http.StatusBadRequest, "name, email, and a password of 8+ characters are required")
		return
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = models.RoleCitizen
	}
	if role != models.RoleCitizen && role != models.RoleModerator {
		httpjson.Error(w, http.StatusBadRequest, "role must be citizen or moderator")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("signup: bcrypt failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	u, err := h.Users.Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
		AuthMethod:   "password",
	})
	if err != nil {
		if err == userstore.ErrDuplicateEmail {
			httpjson.Error(w, http.StatusBadRequest, err.Error())
			return
		}
		h.Log.Error("signup: user insert failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	switch role {
	case models.RoleCitizen:
		if _, err := h.Citizens.Create(ctx, models.Citizen{
			UserID:   u.ID,
			Location: sanitize.Text(req.Location),
		}); err != nil {
			h.Log.Error("signup: citizen insert failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
	case models.RoleModerator:
		if _, err := h.Moderators.Create(ctx, models.Moderator{
			UserID:       u.ID,
			Email:        u.Email,
			Department:   departmentRef(req.Department),
			AssignedArea: sanitize.Text(req.AssignedArea),
		}); err != nil {
			h.Log.Error("signup: moderator insert failed", zap.Error(err))
			httpjson.Error(w, http.StatusInternalServerError, "internal error")
			return
		}
	}

	su := &auth.SessionUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("signup: session save failed", zap.Error(err))
	}
	token, err := h.SessionMgr.IssueToken(su, auth.TokenLifetime)
	if err != nil {
		h.Log.Error("signup: token issue failed", zap.Error(err))
	}

	httpjson.Write(w, http.StatusCreated, map[string]any{
		"user":  u,
		"token": token,
	})
}

// departmentRef interprets the signup department field: a valid hex
// ObjectID becomes an id reference, anything else is kept as a name for
// the resolver to match later.
func departmentRef(s string) models.DepartmentRef {
	s = strings.TrimSpace(s)
	if s == "" {
		return models.DepartmentRef{}
	}
	if oid, err := primitive.ObjectIDFromHex(s); err == nil {
		return models.ByID(oid)
	}
	return models.ByName(s)
}
