package login_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yash2607-del/samaaj/internal/app/features/login"
	citizenstore "github.com/yash2607-del/samaaj/internal/app/store/citizens"
	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	moderatorstore "github.com/yash2607-del/samaaj/internal/app/store/moderators"
	oauthstate "github.com/yash2607-del/samaaj/internal/app/store/oauthstate"
	userstore "github.com/yash2607-del/samaaj/internal/app/store/users"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
	"github.com/yash2607-del/samaaj/internal/app/system/deptresolve"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"github.com/yash2607-del/samaaj/internal/testutil"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	testSessionKey = "0123456789abcdef0123456789abcdef"
	testJWTSecret  = "fedcba9876543210fedcba9876543210"
)

type env struct {
	handler *login.Handler
	mgr     *auth.SessionManager
	users   *userstore.Store
	fx      *testutil.Fixtures
	db      *mongo.Database
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	logger := zap.NewNop()
	mgr, err := auth.NewSessionManager(testSessionKey, "samaaj-session", "", false, testJWTSecret, logger)
	if err != nil {
		t.Fatalf("NewSessionManager failed: %v", err)
	}
	users := userstore.New(db)
	resolver := deptresolve.New(moderatorstore.New(db), departmentstore.New(db), users, logger)
	h := login.NewHandler(users, citizenstore.New(db), resolver, mgr, oauthstate.New(db), "", "", "http://localhost:3000", logger)
	return &env{handler: h, mgr: mgr, users: users, fx: testutil.NewFixtures(t, db), db: db}
}

func (e *env) createAccount(t *testing.T, email, password, role string) models.User {
	t.Helper()
	ctx, cancel := testutil.TestContext()
	defer cancel()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt failed: %v", err)
	}
	u, err := e.users.Create(ctx, models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		Role:         role,
		AuthMethod:   "password",
	})
	if err != nil {
		t.Fatalf("user create failed: %v", err)
	}
	return u
}

func post(t *testing.T, h *login.Handler, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Serve(rec, req)
	var out map[string]any
	_ = json.NewDecoder(rec.Body).Decode(&out)
	return rec, out
}

func TestLogin(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, "asha@example.com", "hunter2hunter2", models.RoleCitizen)

	rec, out := post(t, e.handler, `{"email":"Asha@Example.com","password":"hunter2hunter2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(rec.Result().Cookies()) == 0 {
		t.Error("no session cookie set")
	}

	// The bearer token round-trips through the middleware.
	token, _ := out["token"].(string)
	if token == "" {
		t.Fatal("no bearer token issued")
	}
	req := httptest.NewRequest("GET", "/api/complaints", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	var got *auth.SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})
	e.mgr.LoadUser(next).ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Email != "asha@example.com" || got.Role != models.RoleCitizen {
		t.Errorf("token user = %+v", got)
	}
}

func TestLoginModeratorCarriesDepartment(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dept := e.fx.CreateDepartment(ctx, "Water Board", models.CategoryWater)
	u := e.createAccount(t, "mod@example.com", "hunter2hunter2", models.RoleModerator)
	e.fx.CreateModerator(ctx, u.ID, u.Email, dept.ID, "")

	rec, out := post(t, e.handler, `{"email":"mod@example.com","password":"hunter2hunter2"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	token, _ := out["token"].(string)
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	var got *auth.SessionUser
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, _ = auth.CurrentUser(r)
	})
	e.mgr.LoadUser(next).ServeHTTP(httptest.NewRecorder(), req)
	if got == nil || got.Department != dept.ID.Hex() {
		t.Errorf("token department = %+v, want %s", got, dept.ID.Hex())
	}
}

func TestLoginRejections(t *testing.T) {
	e := newEnv(t)
	e.createAccount(t, "asha@example.com", "hunter2hunter2", models.RoleCitizen)

	tests := []struct {
		name string
		body string
		want int
	}{
		{"wrong password", `{"email":"asha@example.com","password":"wrongwrong"}`, http.StatusUnauthorized},
		{"unknown email", `{"email":"ghost@example.com","password":"hunter2hunter2"}`, http.StatusUnauthorized},
		{"missing fields", `{"email":"asha@example.com"}`, http.StatusBadRequest},
		{"bad json", `{`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, _ := post(t, e.handler, tt.body)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
		})
	}
}

func TestLoginGoogleOnlyAccountRejected(t *testing.T) {
	e := newEnv(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// A Google account has no password hash; password login must not
	// accept an empty password against it.
	if _, err := e.users.Create(ctx, models.User{
		Name:       "OAuth Only",
		Email:      "oauth@example.com",
		Role:       models.RoleCitizen,
		AuthMethod: "google",
	}); err != nil {
		t.Fatalf("user create failed: %v", err)
	}

	rec, _ := post(t, e.handler, `{"email":"oauth@example.com","password":"anything"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
}
