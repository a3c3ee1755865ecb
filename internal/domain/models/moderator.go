// internal/domain/models/moderator.go
package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Moderator is the 1:1 extension of a User with the moderator role.
//
// The department field predates the department collection: older records
// store a free-text department name where newer ones store an ObjectID.
// DepartmentRef absorbs both shapes on decode so callers never see the
// raw document. AssignedArea optionally narrows the moderator's view to
// one district/zone.
type Moderator struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user_id" json:"user_id"`
	Email        string             `bson:"email" json:"email"`
	EmailCI      string             `bson:"email_ci" json:"-"`
	Department   DepartmentRef      `bson:"department,omitempty" json:"department,omitempty"`
	AssignedArea string             `bson:"assigned_area,omitempty" json:"assigned_area,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}

// DepartmentRef is the tagged union behind the dual-shape department
// field: exactly one of ID or Name is set, or neither. Resolution to a
// canonical department id happens in one place (the department
// resolver), never at call sites.
type DepartmentRef struct {
	ID   primitive.ObjectID `json:"id,omitempty"`
	Name string             `json:"name,omitempty"`
}

// IsZero reports whether the reference carries neither shape. It also
// lets the bson encoder honor omitempty.
func (r DepartmentRef) IsZero() bool {
	return r.ID.IsZero() && r.Name == ""
}

// ByID builds a reference in the current (ObjectID) shape.
func ByID(id primitive.ObjectID) DepartmentRef {
	return DepartmentRef{ID: id}
}

// ByName builds a reference in the legacy (free-text name) shape.
func ByName(name string) DepartmentRef {
	return DepartmentRef{Name: name}
}

// UnmarshalBSONValue accepts an ObjectID, a string, or null.
func (r *DepartmentRef) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	rv := bson.RawValue{Type: t, Value: data}
	switch t {
	case bsontype.ObjectID:
		oid, ok := rv.ObjectIDOK()
		if !ok {
			return fmt.Errorf("department ref: malformed ObjectID value")
		}
		*r = DepartmentRef{ID: oid}
		return nil
	case bsontype.String:
		s, ok := rv.StringValueOK()
		if !ok {
			return fmt.Errorf("department ref: malformed string value")
		}
		*r = DepartmentRef{Name: s}
		return nil
	case bsontype.Null, bsontype.Undefined:
		*r = DepartmentRef{}
		return nil
	default:
		// Tolerate unexpected shapes rather than failing the whole
		// document decode; the resolver treats it as unresolvable.
		*r = DepartmentRef{}
		return nil
	}
}

// MarshalBSONValue writes whichever shape is populated. New writes always
// go through ByID; ByName only round-trips legacy documents.
func (r DepartmentRef) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if !r.ID.IsZero() {
		return bson.MarshalValue(r.ID)
	}
	if r.Name != "" {
		return bson.MarshalValue(r.Name)
	}
	return bson.MarshalValue(nil)
}
