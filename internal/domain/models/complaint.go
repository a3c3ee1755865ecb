// internal/domain/models/complaint.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Complaint lifecycle statuses.
const (
	StatusPending    = "Pending"
	StatusInProgress = "In Progress"
	StatusResolved   = "Resolved"
	StatusRejected   = "Rejected"
)

// ValidStatus reports whether s is one of the four lifecycle statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

// Complaint categories. Closed set; each category is served by one or
// more peer departments.
const (
	CategoryWater       = "Water"
	CategoryElectricity = "Electricity"
	CategoryRoad        = "Road"
	CategorySanitation  = "Sanitation"
	CategoryGarbage     = "Garbage"
	CategoryStreetlight = "Streetlight"
	CategoryOther       = "Other"
)

// Categories lists every valid complaint category.
var Categories = []string{
	CategoryWater,
	CategoryElectricity,
	CategoryRoad,
	CategorySanitation,
	CategoryGarbage,
	CategoryStreetlight,
	CategoryOther,
}

// ValidCategory reports whether c is a known complaint category.
func ValidCategory(c string) bool {
	for _, v := range Categories {
		if v == c {
			return true
		}
	}
	return false
}

// StatusChange is one entry in a complaint's history trail.
type StatusChange struct {
	Status            string             `bson:"status" json:"status"`
	ChangedBy         primitive.ObjectID `bson:"changed_by" json:"changed_by"`
	ChangedByEmail    string             `bson:"changed_by_email,omitempty" json:"changed_by_email,omitempty"`
	ChangedAt         time.Time          `bson:"changed_at" json:"changed_at"`
	ActionDescription string             `bson:"action_description,omitempty" json:"action_description,omitempty"`
	ActionPhoto       string             `bson:"action_photo,omitempty" json:"action_photo,omitempty"`
}

// CommunityValidation is a citizen-submitted note corroborating a
// complaint. At most one entry per user; re-validating replaces the
// note and timestamp.
type CommunityValidation struct {
	UserID    primitive.ObjectID `bson:"user_id" json:"user_id"`
	Note      string             `bson:"note" json:"note"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`
}

// Complaint is the central record: a citizen-filed civic issue with
// location metadata, an optional photo, a lifecycle status with history,
// and community signals. Department may be unset until a moderator's
// first status change backfills it.
type Complaint struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Title       string              `bson:"title" json:"title"`
	Category    string              `bson:"category" json:"category"`
	Description string              `bson:"description,omitempty" json:"description,omitempty"`
	Location    string              `bson:"location,omitempty" json:"location,omitempty"`
	AddressLine string              `bson:"address_line,omitempty" json:"address_line,omitempty"`
	Landmark    string              `bson:"landmark,omitempty" json:"landmark,omitempty"`
	City        string              `bson:"city,omitempty" json:"city,omitempty"`
	District    string              `bson:"district,omitempty" json:"district,omitempty"`
	DistrictCI  string              `bson:"district_ci,omitempty" json:"-"`
	State       string              `bson:"state,omitempty" json:"state,omitempty"`
	Pincode     string              `bson:"pincode,omitempty" json:"pincode,omitempty"`
	Photo       string              `bson:"photo,omitempty" json:"photo,omitempty"`
	Department  primitive.ObjectID  `bson:"department,omitempty" json:"department,omitempty"`
	Status      string              `bson:"status" json:"status"`
	UserID      *primitive.ObjectID `bson:"user_id,omitempty" json:"user_id,omitempty"`

	History              []StatusChange        `bson:"history,omitempty" json:"history,omitempty"`
	Likes                []primitive.ObjectID  `bson:"likes,omitempty" json:"likes,omitempty"`
	Dislikes             []primitive.ObjectID  `bson:"dislikes,omitempty" json:"dislikes,omitempty"`
	CommunityValidations []CommunityValidation `bson:"community_validations,omitempty" json:"community_validations,omitempty"`

	// DepartmentName is joined in by list queries; never persisted.
	DepartmentName string `bson:"-" json:"department_name,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
