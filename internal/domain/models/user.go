// internal/domain/models/user.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Roles recognized by the platform. Citizens file complaints, moderators
// triage and resolve them, admins see everything.
const (
	RoleCitizen   = "citizen"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

// User is the shared identity record. Citizen and Moderator carry the
// role-specific fields and reference back via user_id.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	NameCI       string             `bson:"name_ci" json:"-"` // lowercase, diacritics-stripped
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	PasswordHash string             `bson:"password_hash,omitempty" json:"-"`
	Role         string             `bson:"role" json:"role"` // citizen | moderator | admin
	AuthMethod   string             `bson:"auth_method,omitempty" json:"auth_method,omitempty"` // password | google

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
