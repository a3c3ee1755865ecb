// internal/app/store/citizens/citizenstore.go
package citizenstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("citizens")}
}

func (s *Store) Create(ctx context.Context, c models.Citizen) (models.Citizen, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.LocationCI = text.Fold(c.Location)
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Citizen{}, err
	}
	return c, nil
}

func (s *Store) GetByUserID(ctx context.Context, userID primitive.ObjectID) (models.Citizen, error) {
	var c models.Citizen
	if err := s.c.FindOne(ctx, bson.M{"user_id": userID}).Decode(&c); err != nil {
		return models.Citizen{}, err
	}
	return c, nil
}

func (s *Store) UpdateLocation(ctx context.Context, userID primitive.ObjectID, location string) error {
	_, err := s.c.UpdateOne(ctx, bson.M{"user_id": userID}, bson.M{"$set": bson.M{
		"location":    location,
		"location_ci": text.Fold(location),
		"updated_at":  time.Now().UTC(),
	}})
	return err
}

// FindByLocation returns citizens whose location matches the district
// exactly (case-insensitive). Used by the new-complaint fan-out.
func (s *Store) FindByLocation(ctx context.Context, district string) ([]models.Citizen, error) {
	cur, err := s.c.Find(ctx, bson.M{"location_ci": text.Fold(district)})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Citizen
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
