package complaintstore_test

import (
	"testing"
	"time"

	complaintstore "github.com/yash2607-del/samaaj/internal/app/store/complaints"
	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"github.com/yash2607-del/samaaj/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestCreateDefaults(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	c, err := store.Create(ctx, models.Complaint{
		Title:    "Broken streetlight",
		Category: models.CategoryStreetlight,
		District: "North Zone",
		UserID:   &owner,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if c.Status != models.StatusPending {
		t.Errorf("Status = %q, want %q", c.Status, models.StatusPending)
	}
	if c.DistrictCI != "north zone" {
		t.Errorf("DistrictCI = %q, want %q", c.DistrictCI, "north zone")
	}
	if c.ID.IsZero() {
		t.Error("Create did not assign an ID")
	}
}

func TestListFilters(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	owner := primitive.NewObjectID()
	deptID := primitive.NewObjectID()
	fx.CreateComplaint(ctx, testutil.ComplaintOpts{Title: "Mine", Owner: &owner, District: "North Zone"})
	fx.CreateComplaint(ctx, testutil.ComplaintOpts{Title: "Dept", Department: deptID, District: "South Zone"})
	fx.CreateComplaint(ctx, testutil.ComplaintOpts{Title: "Neighbor", District: "North Zone", Status: models.StatusResolved})

	t.Run("by owner", func(t *testing.T) {
		got, err := store.List(ctx, complaintstore.ListFilter{Owner: &owner})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Mine" {
			t.Fatalf("got %+v, want only the owner's complaint", got)
		}
	})

	t.Run("by department", func(t *testing.T) {
		got, err := store.List(ctx, complaintstore.ListFilter{Departments: []primitive.ObjectID{deptID}})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Dept" {
			t.Fatalf("got %+v, want only the department complaint", got)
		}
	})

	t.Run("by place", func(t *testing.T) {
		got, err := store.List(ctx, complaintstore.ListFilter{Place: "North Zone"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("got %d complaints, want 2", len(got))
		}
	})

	t.Run("place and status", func(t *testing.T) {
		got, err := store.List(ctx, complaintstore.ListFilter{Place: "North Zone", Status: models.StatusResolved})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 1 || got[0].Title != "Neighbor" {
			t.Fatalf("got %+v, want only the resolved one", got)
		}
	})

	t.Run("unfiltered newest first", func(t *testing.T) {
		got, err := store.List(ctx, complaintstore.ListFilter{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("got %d complaints, want 3", len(got))
		}
		for i := 1; i < len(got); i++ {
			if got[i].CreatedAt.After(got[i-1].CreatedAt) {
				t.Error("results not sorted newest-first")
			}
		}
	})
}

func TestAppendStatus(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateComplaint(ctx, testutil.ComplaintOpts{})
	modID := primitive.NewObjectID()

	updated, err := store.AppendStatus(ctx, c.ID, models.StatusChange{
		Status:            models.StatusInProgress,
		ChangedBy:         modID,
		ChangedByEmail:    "mod@example.com",
		ChangedAt:         time.Now().UTC(),
		ActionDescription: "crew dispatched",
	})
	if err != nil {
		t.Fatalf("AppendStatus failed: %v", err)
	}
	if updated.Status != models.StatusInProgress {
		t.Errorf("Status = %q, want %q", updated.Status, models.StatusInProgress)
	}
	if len(updated.History) != 1 {
		t.Fatalf("History length = %d, want 1", len(updated.History))
	}
	if updated.History[0].ActionDescription != "crew dispatched" {
		t.Errorf("History entry = %+v", updated.History[0])
	}

	// Appending the same status still records the entry.
	updated, err = store.AppendStatus(ctx, c.ID, models.StatusChange{
		Status:    models.StatusInProgress,
		ChangedBy: modID,
		ChangedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("AppendStatus failed: %v", err)
	}
	if len(updated.History) != 2 {
		t.Errorf("History length = %d, want 2", len(updated.History))
	}

	if _, err := store.AppendStatus(ctx, primitive.NewObjectID(), models.StatusChange{Status: models.StatusResolved}); err != mongo.ErrNoDocuments {
		t.Errorf("expected ErrNoDocuments for unknown complaint, got %v", err)
	}
}

func TestLikeDislikeToggle(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateComplaint(ctx, testutil.ComplaintOpts{})
	user := primitive.NewObjectID()

	got, active, err := store.Like(ctx, c.ID, user)
	if err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if !active || len(got.Likes) != 1 {
		t.Fatalf("after first like: active=%v likes=%d", active, len(got.Likes))
	}

	// Liking again removes the like.
	got, active, err = store.Like(ctx, c.ID, user)
	if err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if active || len(got.Likes) != 0 {
		t.Fatalf("after second like: active=%v likes=%d", active, len(got.Likes))
	}

	// A dislike clears an existing like.
	if _, _, err := store.Like(ctx, c.ID, user); err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	got, active, err = store.Dislike(ctx, c.ID, user)
	if err != nil {
		t.Fatalf("Dislike failed: %v", err)
	}
	if !active || len(got.Dislikes) != 1 || len(got.Likes) != 0 {
		t.Fatalf("after dislike: active=%v likes=%d dislikes=%d", active, len(got.Likes), len(got.Dislikes))
	}

	// Votes from other users are untouched.
	other := primitive.NewObjectID()
	got, _, err = store.Like(ctx, c.ID, other)
	if err != nil {
		t.Fatalf("Like failed: %v", err)
	}
	if len(got.Likes) != 1 || len(got.Dislikes) != 1 {
		t.Fatalf("likes=%d dislikes=%d, want 1 and 1", len(got.Likes), len(got.Dislikes))
	}
}

func TestValidate(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateComplaint(ctx, testutil.ComplaintOpts{})
	user := primitive.NewObjectID()

	got, first, err := store.Validate(ctx, c.ID, user, "confirmed, water everywhere")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if !first || len(got.CommunityValidations) != 1 {
		t.Fatalf("first validation: first=%v count=%d", first, len(got.CommunityValidations))
	}

	// Re-validating replaces the note, does not append.
	got, first, err = store.Validate(ctx, c.ID, user, "still not fixed")
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if first {
		t.Error("repeat validation reported as first")
	}
	if len(got.CommunityValidations) != 1 {
		t.Fatalf("count = %d, want 1 after replace", len(got.CommunityValidations))
	}
	if got.CommunityValidations[0].Note != "still not fixed" {
		t.Errorf("Note = %q, want the replacement", got.CommunityValidations[0].Note)
	}

	got, err = store.RemoveValidation(ctx, c.ID, user)
	if err != nil {
		t.Fatalf("RemoveValidation failed: %v", err)
	}
	if len(got.CommunityValidations) != 0 {
		t.Errorf("count = %d after removal, want 0", len(got.CommunityValidations))
	}
}

func TestGroupByDepartment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	water := fx.CreateDepartment(ctx, "Water Board", models.CategoryWater)
	roads := fx.CreateDepartment(ctx, "Roads Dept", models.CategoryRoad)

	fx.CreateComplaint(ctx, testutil.ComplaintOpts{Title: "Leak", Department: water.ID})
	fx.CreateComplaint(ctx, testutil.ComplaintOpts{Title: "Burst pipe", Department: water.ID})
	fx.CreateComplaint(ctx, testutil.ComplaintOpts{Title: "Pothole", Department: roads.ID})
	fx.CreateComplaint(ctx, testutil.ComplaintOpts{Title: "Unassigned"})

	groups, err := store.GroupByDepartment(ctx, complaintstore.ListFilter{}, departmentstore.Collection)
	if err != nil {
		t.Fatalf("GroupByDepartment failed: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("got %d groups, want 2: %+v", len(groups), groups)
	}

	// Sorted by department name: Roads Dept before Water Board.
	if groups[0].DepartmentName != "Roads Dept" || groups[0].Count != 1 {
		t.Errorf("group[0] = %s count=%d", groups[0].DepartmentName, groups[0].Count)
	}
	if groups[1].DepartmentName != "Water Board" || groups[1].Count != 2 {
		t.Errorf("group[1] = %s count=%d", groups[1].DepartmentName, groups[1].Count)
	}
}

func TestGroupByDepartmentLegacyLookup(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	old := fx.CreateDepartmentInLegacyCollection(ctx, "Old Sanitation", models.CategorySanitation)
	fx.CreateComplaint(ctx, testutil.ComplaintOpts{Title: "Overflow", Department: old.ID})

	// The current collection has no matching department, so the join
	// produces nothing.
	groups, err := store.GroupByDepartment(ctx, complaintstore.ListFilter{}, departmentstore.Collection)
	if err != nil {
		t.Fatalf("GroupByDepartment failed: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("got %d groups against the current collection, want 0", len(groups))
	}

	groups, err = store.GroupByDepartment(ctx, complaintstore.ListFilter{}, departmentstore.LegacyCollection)
	if err != nil {
		t.Fatalf("GroupByDepartment failed: %v", err)
	}
	if len(groups) != 1 || groups[0].DepartmentName != "Old Sanitation" {
		t.Fatalf("got %+v, want the legacy-joined group", groups)
	}
}

func TestSetDepartment(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := complaintstore.New(db)
	fx := testutil.NewFixtures(t, db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	c := fx.CreateComplaint(ctx, testutil.ComplaintOpts{})
	if !c.Department.IsZero() {
		t.Fatal("fixture complaint should start without a department")
	}

	deptID := primitive.NewObjectID()
	if err := store.SetDepartment(ctx, c.ID, deptID); err != nil {
		t.Fatalf("SetDepartment failed: %v", err)
	}

	got, err := store.GetByID(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if got.Department != deptID {
		t.Errorf("Department = %s, want %s", got.Department.Hex(), deptID.Hex())
	}
}
