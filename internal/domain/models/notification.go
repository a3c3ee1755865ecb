// internal/domain/models/notification.go
package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notification types.
const (
	NotificationStatusChange        = "status_change"
	NotificationCommunityValidation = "community_validation"
	NotificationAssignment          = "assignment"
	NotificationNewComplaint        = "new_complaint"
)

// Notification is written as a side effect of complaint mutations and
// read by its recipient. Best-effort: a failed insert never fails the
// operation that triggered it.
type Notification struct {
	ID          primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	UserID      primitive.ObjectID  `bson:"user_id" json:"user_id"`
	Type        string              `bson:"type" json:"type"`
	Title       string              `bson:"title" json:"title"`
	Message     string              `bson:"message" json:"message"`
	ComplaintID *primitive.ObjectID `bson:"complaint_id,omitempty" json:"complaint_id,omitempty"`
	IsRead      bool                `bson:"is_read" json:"is_read"`
	ReadAt      *time.Time          `bson:"read_at,omitempty" json:"read_at,omitempty"`
	Metadata    map[string]string   `bson:"metadata,omitempty" json:"metadata,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
