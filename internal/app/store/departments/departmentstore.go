// internal/app/store/departments/departmentstore.go
package departmentstore

import (
	"context"
	"errors"
	"strings"
	"time"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"github.com/dalemusser/waffle/pantry/text"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names. The collection was renamed from "department" to
// "departments" at some point; reads fall back to the old name so
// pre-rename deployments keep working.
const (
	Collection       = "departments"
	LegacyCollection = "department"
)

type Store struct {
	c      *mongo.Collection
	legacy *mongo.Collection
}

var ErrDuplicateName = errors.New("a department with this name already exists")

func New(db *mongo.Database) *Store {
	return &Store{
		c:      db.Collection(Collection),
		legacy: db.Collection(LegacyCollection),
	}
}

func (s *Store) Create(ctx context.Context, d models.Department) (models.Department, error) {
	now := time.Now().UTC()
	d.ID = primitive.NewObjectID()
	d.NameCI = text.Fold(d.Name)
	d.CreatedAt = now
	d.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, d); err != nil {
		if wafflemongo.IsDup(err) {
			return models.Department{}, ErrDuplicateName
		}
		return models.Department{}, err
	}
	return d, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Department, error) {
	var d models.Department
	err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	if err == mongo.ErrNoDocuments {
		err = s.legacy.FindOne(ctx, bson.M{"_id": id}).Decode(&d)
	}
	if err != nil {
		return models.Department{}, err
	}
	return d, nil
}

// All returns every department sorted by name, reading the legacy
// collection only when the current one is empty.
func (s *Store) All(ctx context.Context) ([]models.Department, error) {
	opts := options.Find().SetSort(bson.D{{Key: "name_ci", Value: 1}})
	for _, coll := range []*mongo.Collection{s.c, s.legacy} {
		cur, err := coll.Find(ctx, bson.M{}, opts)
		if err != nil {
			return nil, err
		}
		var out []models.Department
		if err := cur.All(ctx, &out); err != nil {
			return nil, err
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, nil
}

// ByCategory returns all departments sharing a category. This is the
// peer set: several independent departments may jointly serve one
// complaint category.
func (s *Store) ByCategory(ctx context.Context, category string) ([]models.Department, error) {
	for _, coll := range []*mongo.Collection{s.c, s.legacy} {
		cur, err := coll.Find(ctx, bson.M{"category": category})
		if err != nil {
			return nil, err
		}
		var out []models.Department
		if err := cur.All(ctx, &out); err != nil {
			return nil, err
		}
		if len(out) > 0 {
			return out, nil
		}
	}
	return nil, nil
}

// SoleActiveByCategory returns the department for a category when
// exactly one active department serves it, for auto-assignment at
// complaint creation.
func (s *Store) SoleActiveByCategory(ctx context.Context, category string) (models.Department, bool, error) {
	cur, err := s.c.Find(ctx, bson.M{"category": category, "is_active": true})
	if err != nil {
		return models.Department{}, false, err
	}
	var out []models.Department
	if err := cur.All(ctx, &out); err != nil {
		return models.Department{}, false, err
	}
	if len(out) != 1 {
		return models.Department{}, false, nil
	}
	return out[0], true, nil
}

// MatchByName resolves a free-text department name to a department,
// trying in order: exact match, case-insensitive exact match,
// case-insensitive word-boundary match, case-insensitive substring
// match. The first rung that produces a hit wins.
func (s *Store) MatchByName(ctx context.Context, name string) (models.Department, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Department{}, false, nil
	}
	all, err := s.All(ctx)
	if err != nil {
		return models.Department{}, false, err
	}

	folded := text.Fold(name)

	for _, d := range all {
		if d.Name == name {
			return d, true, nil
		}
	}
	for _, d := range all {
		if d.NameCI == folded || text.Fold(d.Name) == folded {
			return d, true, nil
		}
	}
	for _, d := range all {
		if containsWord(text.Fold(d.Name), folded) {
			return d, true, nil
		}
	}
	for _, d := range all {
		if strings.Contains(text.Fold(d.Name), folded) {
			return d, true, nil
		}
	}
	return models.Department{}, false, nil
}

// containsWord reports whether needle appears in haystack with word
// boundaries on both sides (both strings already case-folded).
func containsWord(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	for idx := 0; ; {
		i := strings.Index(haystack[idx:], needle)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(needle)
		beforeOK := start == 0 || !isWordByte(haystack[start-1])
		afterOK := end == len(haystack) || !isWordByte(haystack[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}
