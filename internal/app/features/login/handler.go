// internal/app/features/login/handler.go
package login

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	citizenstore "github.com/yash2607-del/samaaj/internal/app/store/citizens"
	oauthstate "github.com/yash2607-del/samaaj/internal/app/store/oauthstate"
	userstore "github.com/yash2607-del/samaaj/internal/app/store/users"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
	"github.com/yash2607-del/samaaj/internal/app/system/deptresolve"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type Handler struct {
	Users      *userstore.Store
	Citizens   *citizenstore.Store
	Resolver   *deptresolve.Resolver
	SessionMgr *auth.SessionManager
	States     *oauthstate.Store
	Log        *zap.Logger

	// Google OAuth configuration; sign-in with Google is disabled when
	// ClientID is empty.
	ClientID     string
	ClientSecret string
	RedirectURL  string
}

func NewHandler(users *userstore.Store, citizens *citizenstore.Store, resolver *deptresolve.Resolver, sessionMgr *auth.SessionManager, states *oauthstate.Store, clientID, clientSecret, baseURL string, logger *zap.Logger) *Handler {
	return &Handler{
		Users:        users,
		Citizens:     citizens,
		Resolver:     resolver,
		SessionMgr:   sessionMgr,
		States:       states,
		Log:          logger,
		ClientID:     clientID,
		ClientSecret: clientSecret,
		RedirectURL:  strings.TrimRight(baseURL, "/") + "/auth/google/callback",
	}
}

func (h *Handler) oauthConfig() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     h.ClientID,
		ClientSecret: h.ClientSecret,
		RedirectURL:  h.RedirectURL,
		Scopes:       []string{"openid", "email", "profile"},
		Endpoint:     google.Endpoint,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Serve handles POST /login: verify the password, establish the session
// cookie, and hand back a bearer token for cookie-less clients. A
// moderator's resolved department id rides along in the token when it
// resolves.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpjson.Error(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		httpjson.Error(w, http.StatusBadRequest, "email and password are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
			return
		}
		h.Log.Error("login: user lookup failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if u.PasswordHash == "" ||
		bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		httpjson.Error(w, http.StatusUnauthorized, "invalid email or password")
		return
	}

	su := &auth.SessionUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
	if u.Role == models.RoleModerator {
		if deptID, ok, err := h.Resolver.Resolve(ctx, deptresolve.Actor{UserID: u.ID, Email: u.Email}); err == nil && ok {
			su.Department = deptID.Hex()
		}
	}

	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("login: session save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	token, err := h.SessionMgr.IssueToken(su, auth.TokenLifetime)
	if err != nil {
		h.Log.Error("login: token issue failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	httpjson.OK(w, map[string]any{
		"user":  u,
		"token": token,
	})
}
