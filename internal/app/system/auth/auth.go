// Package auth manages signed-in identity for the API: a gorilla cookie
// session is the primary mechanism, with a bearer JWT fallback for
// clients that cannot hold cookies. Either way the handler sees one
// thing: a SessionUser injected into the request context.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// TokenLifetime is how long issued bearer tokens stay valid.
const TokenLifetime = 7 * 24 * time.Hour

const (
	isAuthKey  = "is_authenticated"
	userIDKey  = "user_id"
	userNameK  = "user_name"
	userEmailK = "user_email"
	userRoleK  = "user_role"
)

// SessionUser is what we cache in the session & inject into r.Context().
// Department is the moderator's resolved department id in hex, when known.
type SessionUser struct {
	ID         string
	Name       string
	Email      string
	Role       string
	Department string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the user from context & a found flag.
func CurrentUser(r *http.Request) (*SessionUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*SessionUser)
	return u, ok
}

// WithUser returns a request whose context carries u. Exported for tests.
func WithUser(r *http.Request, u *SessionUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

// SessionManager owns the cookie store and the JWT signing secret.
type SessionManager struct {
	store     *sessions.CookieStore
	name      string
	jwtSecret []byte
	log       *zap.Logger
}

// NewSessionManager builds a SessionManager. sessionKey signs cookies;
// jwtSecret signs bearer tokens. secure controls the cookie Secure flag
// and SameSite mode (None in production over HTTPS, Lax in dev).
func NewSessionManager(sessionKey, name, domain string, secure bool, jwtSecret string, logger *zap.Logger) (*SessionManager, error) {
	if sessionKey == "" {
		return nil, fmt.Errorf("session key is empty; provide 32+ random chars")
	}
	if len(sessionKey) < 32 {
		logger.Warn("session key is short; 32+ chars recommended",
			zap.Int("length", len(sessionKey)))
	}
	if jwtSecret == "" {
		return nil, fmt.Errorf("jwt secret is empty")
	}

	store := sessions.NewCookieStore([]byte(sessionKey))
	opts := &sessions.Options{
		Domain:   domain,
		Path:     "/",
		Secure:   secure,
		HttpOnly: true,
	}
	if secure {
		opts.SameSite = http.SameSiteNoneMode
	} else {
		opts.SameSite = http.SameSiteLaxMode
	}
	store.Options = opts

	logger.Info("session store initialized",
		zap.Bool("secure", secure),
		zap.String("domain", domain))

	return &SessionManager{
		store:     store,
		name:      name,
		jwtSecret: []byte(jwtSecret),
		log:       logger,
	}, nil
}

// SignIn records u in the session cookie.
func (m *SessionManager) SignIn(w http.ResponseWriter, r *http.Request, u *SessionUser) error {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		// A decode failure means a stale or tampered cookie; start fresh.
		if scErr, ok := err.(securecookie.Error); !ok || !scErr.IsDecode() {
			return err
		}
		sess, _ = m.store.New(r, m.name)
	}
	sess.Values[isAuthKey] = true
	sess.Values[userIDKey] = u.ID
	sess.Values[userNameK] = u.Name
	sess.Values[userEmailK] = u.Email
	sess.Values[userRoleK] = u.Role
	return sess.Save(r, w)
}

// SignOut clears the session cookie.
func (m *SessionManager) SignOut(w http.ResponseWriter, r *http.Request) error {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			// Nothing decodable to clear; expire the cookie anyway.
			sess, _ = m.store.New(r, m.name)
		} else {
			return err
		}
	}
	sess.Values = map[any]any{}
	sess.Options.MaxAge = -1
	return sess.Save(r, w)
}

// LoadUser injects the current user into context, trying the session
// cookie first and then an Authorization: Bearer token. Requests with
// neither just continue anonymous; RequireSignedIn does the rejecting.
func (m *SessionManager) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if u := m.sessionUser(r); u != nil {
			next.ServeHTTP(w, WithUser(r, u))
			return
		}
		if u := m.bearerUser(r); u != nil {
			next.ServeHTTP(w, WithUser(r, u))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (m *SessionManager) sessionUser(r *http.Request) *SessionUser {
	sess, err := m.store.Get(r, m.name)
	if err != nil {
		if scErr, ok := err.(securecookie.Error); ok && scErr.IsDecode() {
			m.log.Debug("undecodable session cookie ignored")
		}
		return nil
	}
	if isAuth, _ := sess.Values[isAuthKey].(bool); !isAuth {
		return nil
	}
	return &SessionUser{
		ID:    getString(sess, userIDKey),
		Name:  getString(sess, userNameK),
		Email: getString(sess, userEmailK),
		Role:  getString(sess, userRoleK),
	}
}

// TokenClaims is the bearer token payload: {id, role, department?}.
type TokenClaims struct {
	UserID     string `json:"id"`
	Role       string `json:"role"`
	Department string `json:"department,omitempty"`
	jwt.RegisteredClaims
}

// IssueToken signs a bearer token for u valid for ttl.
func (m *SessionManager) IssueToken(u *SessionUser, ttl time.Duration) (string, error) {
	now := time.Now().UTC()
	claims := TokenClaims{
		UserID:     u.ID,
		Role:       u.Role,
		Department: u.Department,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(m.jwtSecret)
}

func (m *SessionManager) bearerUser(r *http.Request) *SessionUser {
	raw := r.Header.Get("Authorization")
	const prefix = "Bearer "
	if !strings.HasPrefix(raw, prefix) {
		return nil
	}
	claims := &TokenClaims{}
	tok, err := jwt.ParseWithClaims(strings.TrimPrefix(raw, prefix), claims,
		func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return m.jwtSecret, nil
		})
	if err != nil || !tok.Valid || claims.UserID == "" {
		return nil
	}
	return &SessionUser{
		ID:         claims.UserID,
		Role:       claims.Role,
		Department: claims.Department,
	}
}

// RequireSignedIn rejects anonymous requests with a JSON 401.
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); !ok {
			httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireRole rejects requests whose user lacks one of the allowed
// roles: 401 when anonymous, 403 when signed in with the wrong role.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.Error(w, http.StatusUnauthorized, "unauthorized")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				httpjson.Error(w, http.StatusForbidden, "forbidden")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func getString(s *sessions.Session, key string) string {
	if v, ok := s.Values[key].(string); ok {
		return v
	}
	return ""
}
