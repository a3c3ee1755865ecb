// internal/app/features/login/google.go
package login

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"github.com/yash2607-del/samaaj/internal/app/system/timeouts"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// stateLifetime bounds the Google OAuth round trip.
const stateLifetime = 10 * time.Minute

const userinfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// GoogleStart handles GET /auth/google: store a one-time state token and
// redirect to Google's consent screen. Only citizens sign in this way;
// moderator accounts are provisioned with passwords.
func (h *Handler) GoogleStart(w http.ResponseWriter, r *http.Request) {
	if h.ClientID == "" {
		httpjson.Error(w, http.StatusNotFound, "google sign-in is not configured")
		return
	}

	state := uuid.New().String()
	returnURL := r.URL.Query().Get("return")

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Short())
	defer cancel()
	if err := h.States.Save(ctx, state, returnURL, time.Now().UTC().Add(stateLifetime)); err != nil {
		h.Log.Error("google login: state save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	http.Redirect(w, r, h.oauthConfig().AuthCodeURL(state), http.StatusFound)
}

type googleUserinfo struct {
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
}

// GoogleCallback handles GET /auth/google/callback: validate the state,
// exchange the code, fetch the verified email, and sign the user in,
// creating a citizen account on first sight.
func (h *Handler) GoogleCallback(w http.ResponseWriter, r *http.Request) {
	if h.ClientID == "" {
		httpjson.Error(w, http.StatusNotFound, "google sign-in is not configured")
		return
	}

	state := r.URL.Query().Get("state")
	code := r.URL.Query().Get("code")
	if state == "" || code == "" {
		httpjson.Error(w, http.StatusBadRequest, "missing state or code")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Long())
	defer cancel()

	returnURL, valid, err := h.States.Validate(ctx, state)
	if err != nil {
		h.Log.Error("google login: state validation failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !valid {
		httpjson.Error(w, http.StatusBadRequest, "invalid or expired state")
		return
	}

	tok, err := h.oauthConfig().Exchange(ctx, code)
	if err != nil {
		h.Log.Warn("google login: code exchange failed", zap.Error(err))
		httpjson.Error(w, http.StatusUnauthorized, "google sign-in failed")
		return
	}

	info, err := h.fetchUserinfo(ctx, tok.AccessToken)
	if err != nil {
		h.Log.Warn("google login: userinfo fetch failed", zap.Error(err))
		httpjson.Error(w, http.StatusUnauthorized, "google sign-in failed")
		return
	}
	if info.Email == "" || !info.VerifiedEmail {
		httpjson.Error(w, http.StatusUnauthorized, "google account has no verified email")
		return
	}

	u, err := h.Users.GetByEmail(ctx, info.Email)
	if err == mongo.ErrNoDocuments {
		u, err = h.Users.Create(ctx, models.User{
			Name:       info.Name,
			Email:      info.Email,
			Role:       models.RoleCitizen,
			AuthMethod: "google",
		})
		if err == nil {
			_, err = h.Citizens.Create(ctx, models.Citizen{UserID: u.ID})
		}
	}
	if err != nil {
		h.Log.Error("google login: user upsert failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	su := &auth.SessionUser{ID: u.ID.Hex(), Name: u.Name, Email: u.Email, Role: u.Role}
	if err := h.SessionMgr.SignIn(w, r, su); err != nil {
		h.Log.Error("google login: session save failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}

	if returnURL == "" {
		returnURL = "/"
	}
	http.Redirect(w, r, returnURL, http.StatusSeeOther)
}

func (h *Handler) fetchUserinfo(ctx context.Context, accessToken string) (googleUserinfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userinfoURL, nil)
	if err != nil {
		return googleUserinfo{}, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return googleUserinfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return googleUserinfo{}, fmt.Errorf("userinfo returned %d", resp.StatusCode)
	}
	var info googleUserinfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return googleUserinfo{}, err
	}
	return info, nil
}
