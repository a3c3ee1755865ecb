package deptresolve_test

import (
	"testing"

	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	moderatorstore "github.com/yash2607-del/samaaj/internal/app/store/moderators"
	userstore "github.com/yash2607-del/samaaj/internal/app/store/users"
	"github.com/yash2607-del/samaaj/internal/app/system/deptresolve"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"github.com/yash2607-del/samaaj/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func newResolver(t *testing.T) (*deptresolve.Resolver, *testutil.Fixtures) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	r := deptresolve.New(
		moderatorstore.New(db),
		departmentstore.New(db),
		userstore.New(db),
		zap.NewNop(),
	)
	return r, testutil.NewFixtures(t, db)
}

func TestFindModeratorByUserID(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	userID := primitive.NewObjectID()
	fx.CreateModerator(ctx, userID, "mod@example.com", primitive.NewObjectID(), "")

	m, err := r.FindModerator(ctx, deptresolve.Actor{UserID: userID})
	if err != nil {
		t.Fatalf("FindModerator failed: %v", err)
	}
	if m.UserID != userID {
		t.Errorf("UserID = %s, want %s", m.UserID.Hex(), userID.Hex())
	}
}

func TestFindModeratorFallsBackToEmail(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// The moderator record's user_id does not match the session's, a
	// shape that occurs when accounts were re-created. Email still finds
	// it.
	fx.CreateModerator(ctx, primitive.NewObjectID(), "mod@example.com", primitive.NewObjectID(), "")

	m, err := r.FindModerator(ctx, deptresolve.Actor{
		UserID: primitive.NewObjectID(),
		Email:  "mod@example.com",
	})
	if err != nil {
		t.Fatalf("FindModerator failed: %v", err)
	}
	if m.Email != "mod@example.com" {
		t.Errorf("Email = %q", m.Email)
	}
}

func TestFindModeratorViaUserEmail(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	// Only a user id is supplied and no moderator record carries it, but
	// the users collection knows the email.
	u := fx.CreateUser(ctx, "Mod User", "mod@example.com", models.RoleModerator)
	fx.CreateModerator(ctx, primitive.NewObjectID(), "mod@example.com", primitive.NewObjectID(), "")

	m, err := r.FindModerator(ctx, deptresolve.Actor{UserID: u.ID})
	if err != nil {
		t.Fatalf("FindModerator failed: %v", err)
	}
	if m.Email != "mod@example.com" {
		t.Errorf("Email = %q", m.Email)
	}
}

func TestFindModeratorNotFound(t *testing.T) {
	r, _ := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := r.FindModerator(ctx, deptresolve.Actor{
		UserID: primitive.NewObjectID(),
		Email:  "nobody@example.com",
	})
	if err != deptresolve.ErrNoModerator {
		t.Errorf("err = %v, want ErrNoModerator", err)
	}
}

func TestNormalizeRefByID(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dept := fx.CreateDepartment(ctx, "Water Board", models.CategoryWater)

	id, ok, err := r.NormalizeRef(ctx, models.ByID(dept.ID))
	if err != nil || !ok {
		t.Fatalf("NormalizeRef: ok=%v err=%v", ok, err)
	}
	if id != dept.ID {
		t.Errorf("id = %s, want %s", id.Hex(), dept.ID.Hex())
	}

	// An id pointing at no department is unusable, not an error.
	_, ok, err = r.NormalizeRef(ctx, models.ByID(primitive.NewObjectID()))
	if err != nil {
		t.Fatalf("NormalizeRef failed: %v", err)
	}
	if ok {
		t.Error("dangling id reported as resolvable")
	}
}

func TestNormalizeRefByName(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dept := fx.CreateDepartment(ctx, "Water Supply Department", models.CategoryWater)

	tests := []struct {
		name  string
		ref   models.DepartmentRef
		want  primitive.ObjectID
		found bool
	}{
		{"exact name", models.ByName("Water Supply Department"), dept.ID, true},
		{"folded name", models.ByName("water supply department"), dept.ID, true},
		{"word in name", models.ByName("water"), dept.ID, true},
		{"unknown name", models.ByName("Parks Department"), primitive.NilObjectID, false},
		{"empty ref", models.DepartmentRef{}, primitive.NilObjectID, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, ok, err := r.NormalizeRef(ctx, tt.ref)
			if err != nil {
				t.Fatalf("NormalizeRef failed: %v", err)
			}
			if ok != tt.found {
				t.Fatalf("ok = %v, want %v", ok, tt.found)
			}
			if ok && id != tt.want {
				t.Errorf("id = %s, want %s", id.Hex(), tt.want.Hex())
			}
		})
	}
}

func TestResolveFullChain(t *testing.T) {
	r, fx := newResolver(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	dept := fx.CreateDepartment(ctx, "Roads and Transport", models.CategoryRoad)
	userID := primitive.NewObjectID()
	fx.CreateLegacyModerator(ctx, userID, "legacy@example.com", "roads")

	id, ok, err := r.Resolve(ctx, deptresolve.Actor{UserID: userID})
	if err != nil || !ok {
		t.Fatalf("Resolve: ok=%v err=%v", ok, err)
	}
	if id != dept.ID {
		t.Errorf("id = %s, want %s", id.Hex(), dept.ID.Hex())
	}

	// No moderator record at all: unusable, not an error.
	_, ok, err = r.Resolve(ctx, deptresolve.Actor{UserID: primitive.NewObjectID()})
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if ok {
		t.Error("missing moderator reported as resolvable")
	}
}
