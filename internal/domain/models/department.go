// internal/domain/models/department.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Department is an administrative authority responsible for one
// complaint category in specific coverage areas. Seeded once; edits are
// administrative. Category is the join key that groups peer departments
// jointly serving one category (e.g., three electricity providers).
type Department struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name          string             `bson:"name" json:"name"`
	NameCI        string             `bson:"name_ci" json:"-"`
	Category      string             `bson:"category" json:"category"`
	Subcategory   string             `bson:"subcategory,omitempty" json:"subcategory,omitempty"`
	CoverageAreas []string           `bson:"coverage_areas,omitempty" json:"coverage_areas,omitempty"`
	ContactInfo   string             `bson:"contact_info,omitempty" json:"contact_info,omitempty"`
	IsActive      bool               `bson:"is_active" json:"is_active"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
