// internal/app/store/moderators/moderatorstore.go
package moderatorstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// Store reads moderator records from the current collection and falls
// back to the legacy collection kept for pre-migration records. Callers
// never see which collection a record came from; writes always go to the
// current one.
type Store struct {
	c      *mongo.Collection
	legacy *mongo.Collection
}

const (
	collection       = "moderators"
	legacyCollection = "moderator"
)

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection(collection),
		legacy: db.Collection(legacyCollection),
	}
}

func (s *Store) Create(ctx context.Context, m models.Moderator) (models.Moderator, error) {
	now := time.Now().UTC()
	m.ID = primitive.NewObjectID()
	m.EmailCI = text.Fold(m.Email)
	m.CreatedAt = now
	m.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, m); err != nil {
		return models.Moderator{}, err
	}
	return m, nil
}

func (s *Store) findOne(ctx context.Context, filter bson.M) (models.Moderator, error) {
	var m models.Moderator
	err := s.c.FindOne(ctx, filter).Decode(&m)
	if err == mongo.ErrNoDocuments {
		err = s.legacy.FindOne(ctx, filter).Decode(&m)
	}
	if err != nil {
		return models.Moderator{}, err
	}
	return m, nil
}

func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (models.Moderator, error) {
	return s.findOne(ctx, bson.M{"user_id": userID})
}

func (s *Store) GetByEmail(ctx context.Context, email string) (models.Moderator, error) {
	folded := text.Fold(email)
	m, err := s.findOne(ctx, bson.M{"email_ci": folded})
	if err == mongo.ErrNoDocuments {
		// Legacy records may predate the folded shadow field.
		return s.findOne(ctx, bson.M{"email": email})
	}
	return m, err
}

// SetDepartment rewrites the department field in the current (ObjectID)
// shape. Only the current collection is written; a legacy record gets a
// normalized copy on its next department backfill.
func (s *Store) SetDepartment(ctx context.Context, id primitive.ObjectID, deptID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"department": models.ByID(deptID),
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// FindByDepartment returns all moderators whose department field holds
// the given id or, in the legacy shape, the department's exact name.
// Both collections are consulted. Used by the new-complaint fan-out.
func (s *Store) FindByDepartment(ctx context.Context, deptID primitive.ObjectID, deptName string) ([]models.Moderator, error) {
	values := bson.A{deptID}
	if deptName != "" {
		values = append(values, deptName)
	}
	filter := bson.M{"department": bson.M{"$in": values}}

	var out []models.Moderator
	for _, coll := range []*mongo.Collection{s.c, s.legacy} {
		cur, err := coll.Find(ctx, filter)
		if err != nil {
			return nil, err
		}
		var batch []models.Moderator
		if err := cur.All(ctx, &batch); err != nil {
			return nil, err
		}
		out = append(out, batch...)
	}
	return out, nil
}
