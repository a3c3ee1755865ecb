// internal/domain/models/citizen.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Citizen is the 1:1 extension of a User with the citizen role.
// Location is the district name used for district-scoped feeds and
// nearby-complaint notifications.
type Citizen struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID     primitive.ObjectID `bson:"user_id" json:"user_id"`
	Location   string             `bson:"location,omitempty" json:"location,omitempty"`
	LocationCI string             `bson:"location_ci,omitempty" json:"-"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
