// internal/testutil/fixtures.go
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Fixtures provides helper methods for creating test data.
type Fixtures struct {
	db *mongo.Database
	t  *testing.T
}

// NewFixtures creates a new Fixtures instance for the given test database.
func NewFixtures(t *testing.T, db *mongo.Database) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB returns the underlying database for direct access in tests.
func (f *Fixtures) DB() *mongo.Database {
	return f.db
}

// CreateUser creates a test user with the given role.
func (f *Fixtures) CreateUser(ctx context.Context, name, email, role string) models.User {
	f.t.Helper()

	now := time.Now().UTC()
	user := models.User{
		ID:         primitive.NewObjectID(),
		Name:       name,
		NameCI:     text.Fold(name),
		Email:      email,
		EmailCI:    text.Fold(email),
		Role:       role,
		AuthMethod: "password",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("users").InsertOne(ctx, user); err != nil {
		f.t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateCitizen creates a citizen record for userID with the given
// district location (blank means location not set).
func (f *Fixtures) CreateCitizen(ctx context.Context, userID primitive.ObjectID, location string) models.Citizen {
	f.t.Helper()

	now := time.Now().UTC()
	c := models.Citizen{
		ID:         primitive.NewObjectID(),
		UserID:     userID,
		Location:   location,
		LocationCI: text.Fold(location),
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("citizens").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test citizen: %v", err)
	}
	return c
}

// CreateModerator creates a moderator record in the current collection
// with an ObjectID department reference.
func (f *Fixtures) CreateModerator(ctx context.Context, userID primitive.ObjectID, email string, deptID primitive.ObjectID, area string) models.Moderator {
	f.t.Helper()
	return f.insertModerator(ctx, "moderators", userID, email, models.ByID(deptID), area)
}

// CreateLegacyModerator creates a moderator whose department is a
// free-text name instead of an ObjectID, the shape older records have.
func (f *Fixtures) CreateLegacyModerator(ctx context.Context, userID primitive.ObjectID, email, deptName string) models.Moderator {
	f.t.Helper()
	return f.insertModerator(ctx, "moderators", userID, email, models.ByName(deptName), "")
}

// CreateModeratorInLegacyCollection writes the moderator into the old
// singular collection name to exercise the fallback read path.
func (f *Fixtures) CreateModeratorInLegacyCollection(ctx context.Context, userID primitive.ObjectID, email string, dept models.DepartmentRef) models.Moderator {
	f.t.Helper()
	return f.insertModerator(ctx, "moderator", userID, email, dept, "")
}

func (f *Fixtures) insertModerator(ctx context.Context, coll string, userID primitive.ObjectID, email string, dept models.DepartmentRef, area string) models.Moderator {
	f.t.Helper()

	now := time.Now().UTC()
	m := models.Moderator{
		ID:           primitive.NewObjectID(),
		UserID:       userID,
		Email:        email,
		EmailCI:      text.Fold(email),
		Department:   dept,
		AssignedArea: area,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if _, err := f.db.Collection(coll).InsertOne(ctx, m); err != nil {
		f.t.Fatalf("failed to create test moderator: %v", err)
	}
	return m
}

// CreateDepartment creates an active department with the given name and
// category.
func (f *Fixtures) CreateDepartment(ctx context.Context, name, category string) models.Department {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Department{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Category:  category,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("departments").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create test department: %v", err)
	}
	return d
}

// CreateDepartmentInLegacyCollection writes the department into the old
// singular collection name.
func (f *Fixtures) CreateDepartmentInLegacyCollection(ctx context.Context, name, category string) models.Department {
	f.t.Helper()

	now := time.Now().UTC()
	d := models.Department{
		ID:        primitive.NewObjectID(),
		Name:      name,
		NameCI:    text.Fold(name),
		Category:  category,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := f.db.Collection("department").InsertOne(ctx, d); err != nil {
		f.t.Fatalf("failed to create legacy test department: %v", err)
	}
	return d
}

// ComplaintOpts tweaks CreateComplaint. Zero values get sensible
// defaults.
type ComplaintOpts struct {
	Title      string
	Category   string
	Status     string
	District   string
	Location   string
	Owner      *primitive.ObjectID
	Department primitive.ObjectID
}

// CreateComplaint creates a complaint directly in the collection.
func (f *Fixtures) CreateComplaint(ctx context.Context, opts ComplaintOpts) models.Complaint {
	f.t.Helper()

	if opts.Title == "" {
		opts.Title = "Test complaint"
	}
	if opts.Category == "" {
		opts.Category = models.CategoryOther
	}
	if opts.Status == "" {
		opts.Status = models.StatusPending
	}

	now := time.Now().UTC()
	c := models.Complaint{
		ID:         primitive.NewObjectID(),
		Title:      opts.Title,
		Category:   opts.Category,
		Status:     opts.Status,
		District:   opts.District,
		DistrictCI: text.Fold(opts.District),
		Location:   opts.Location,
		UserID:     opts.Owner,
		Department: opts.Department,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if _, err := f.db.Collection("complaints").InsertOne(ctx, c); err != nil {
		f.t.Fatalf("failed to create test complaint: %v", err)
	}
	return c
}
