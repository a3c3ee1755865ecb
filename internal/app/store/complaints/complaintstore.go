// internal/app/store/complaints/complaintstore.go
package complaintstore

import (
	"context"
	"time"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/yash2607-del/samaaj/internal/app/system/placematch"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type Store struct {
	c *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{c: db.Collection("complaints")}
}

func (s *Store) Create(ctx context.Context, c models.Complaint) (models.Complaint, error) {
	now := time.Now().UTC()
	c.ID = primitive.NewObjectID()
	c.DistrictCI = text.Fold(c.District)
	if c.Status == "" {
		c.Status = models.StatusPending
	}
	c.CreatedAt = now
	c.UpdatedAt = now
	if _, err := s.c.InsertOne(ctx, c); err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

func (s *Store) GetByID(ctx context.Context, id primitive.ObjectID) (models.Complaint, error) {
	var c models.Complaint
	if err := s.c.FindOne(ctx, bson.M{"_id": id}).Decode(&c); err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// ListFilter narrows List. Zero fields are not applied. Departments and
// Place are ANDed when both are set (a moderator's department plus their
// assigned area).
type ListFilter struct {
	Status      string
	Owner       *primitive.ObjectID
	Departments []primitive.ObjectID
	Place       string // district/location predicate, see placematch
	Area        string // second place predicate, ANDed with Place
}

func (f ListFilter) query() bson.M {
	var conds []bson.M
	if f.Status != "" {
		conds = append(conds, bson.M{"status": f.Status})
	}
	if f.Owner != nil {
		conds = append(conds, bson.M{"user_id": *f.Owner})
	}
	if len(f.Departments) > 0 {
		conds = append(conds, bson.M{"department": bson.M{"$in": f.Departments}})
	}
	if f.Place != "" {
		conds = append(conds, placematch.Filter(f.Place))
	}
	if f.Area != "" {
		conds = append(conds, placematch.Filter(f.Area))
	}
	if len(conds) == 0 {
		return bson.M{}
	}
	return bson.M{"$and": conds}
}

// List returns matching complaints sorted newest-first.
func (s *Store) List(ctx context.Context, f ListFilter) ([]models.Complaint, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cur, err := s.c.Find(ctx, f.query(), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []models.Complaint
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the number of complaints matching the base filter.
func (s *Store) Count(ctx context.Context) (int64, error) {
	return s.c.CountDocuments(ctx, bson.M{})
}

// SetDepartment backfills the department reference on a complaint that
// was created without one.
func (s *Store) SetDepartment(ctx context.Context, id, deptID primitive.ObjectID) error {
	_, err := s.c.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"department": deptID,
		"updated_at": time.Now().UTC(),
	}})
	return err
}

// AppendStatus sets the new status and appends the history entry in one
// update, returning the updated complaint. The entry is appended even
// when the status value does not actually change; callers decide whether
// a notification is warranted.
func (s *Store) AppendStatus(ctx context.Context, id primitive.ObjectID, change models.StatusChange) (models.Complaint, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Complaint
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$set":  bson.M{"status": change.Status, "updated_at": change.ChangedAt},
		"$push": bson.M{"history": change},
	}, after).Decode(&c)
	if err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// voteToggle is the aggregation-pipeline update behind Like and Dislike:
// toggle userID's membership in the voted array and unconditionally
// remove it from the opposite array, all in one atomic update. A user is
// never in both arrays and acting twice undoes the vote.
func voteToggle(field, opposite string, userID primitive.ObjectID, now time.Time) mongo.Pipeline {
	cur := bson.M{"$ifNull": bson.A{"$" + field, bson.A{}}}
	opp := bson.M{"$ifNull": bson.A{"$" + opposite, bson.A{}}}
	return mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			field: bson.M{"$cond": bson.A{
				bson.M{"$in": bson.A{userID, cur}},
				bson.M{"$setDifference": bson.A{cur, bson.A{userID}}},
				bson.M{"$concatArrays": bson.A{cur, bson.A{userID}}},
			}},
			opposite:     bson.M{"$setDifference": bson.A{opp, bson.A{userID}}},
			"updated_at": now,
		}}},
	}
}

// Like toggles userID's like on the complaint, clearing any dislike.
// The returned bool reports whether the user likes the complaint after
// the toggle (i.e., this call added the like).
func (s *Store) Like(ctx context.Context, id, userID primitive.ObjectID) (models.Complaint, bool, error) {
	return s.vote(ctx, id, userID, "likes", "dislikes")
}

// Dislike toggles userID's dislike, clearing any like.
func (s *Store) Dislike(ctx context.Context, id, userID primitive.ObjectID) (models.Complaint, bool, error) {
	return s.vote(ctx, id, userID, "dislikes", "likes")
}

func (s *Store) vote(ctx context.Context, id, userID primitive.ObjectID, field, opposite string) (models.Complaint, bool, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Complaint
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id},
		voteToggle(field, opposite, userID, time.Now().UTC()), after).Decode(&c)
	if err != nil {
		return models.Complaint{}, false, err
	}
	list := c.Likes
	if field == "dislikes" {
		list = c.Dislikes
	}
	return c, containsID(list, userID), nil
}

// Validate records userID's community validation. A repeat validation
// replaces the user's existing entry (note and timestamp) instead of
// appending; the filter-then-append pipeline does both in one atomic
// update. The returned bool reports whether this was the user's first
// validation on the complaint.
func (s *Store) Validate(ctx context.Context, id, userID primitive.ObjectID, note string) (models.Complaint, bool, error) {
	now := time.Now().UTC()
	cur := bson.M{"$ifNull": bson.A{"$community_validations", bson.A{}}}
	entry := bson.M{"user_id": userID, "note": note, "created_at": now}
	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.M{
			"community_validations": bson.M{"$concatArrays": bson.A{
				bson.M{"$filter": bson.M{
					"input": cur,
					"as":    "v",
					"cond":  bson.M{"$ne": bson.A{"$$v.user_id", userID}},
				}},
				bson.A{entry},
			}},
			"updated_at": now,
		}}},
	}

	before := options.FindOneAndUpdate().SetReturnDocument(options.Before)
	var prev models.Complaint
	if err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, pipeline, before).Decode(&prev); err != nil {
		return models.Complaint{}, false, err
	}
	first := !containsValidation(prev.CommunityValidations, userID)

	updated, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Complaint{}, false, err
	}
	return updated, first, nil
}

// RemoveValidation deletes userID's validation entry, if any.
func (s *Store) RemoveValidation(ctx context.Context, id, userID primitive.ObjectID) (models.Complaint, error) {
	after := options.FindOneAndUpdate().SetReturnDocument(options.After)
	var c models.Complaint
	err := s.c.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{
		"$pull": bson.M{"community_validations": bson.M{"user_id": userID}},
		"$set":  bson.M{"updated_at": time.Now().UTC()},
	}, after).Decode(&c)
	if err != nil {
		return models.Complaint{}, err
	}
	return c, nil
}

// DepartmentGroup is one row of the dashboard grouping: a department id
// with its matching complaints.
type DepartmentGroup struct {
	DepartmentID   primitive.ObjectID `bson:"_id" json:"department_id"`
	DepartmentName string             `bson:"department_name" json:"department"`
	Complaints     []models.Complaint `bson:"complaints" json:"complaints"`
	Count          int                `bson:"count" json:"count"`
}

// GroupByDepartment groups complaints matching the filter by their
// department, joining the department name from lookupColl. Complaints
// with no department are skipped. Results sort by department name.
func (s *Store) GroupByDepartment(ctx context.Context, f ListFilter, lookupColl string) ([]DepartmentGroup, error) {
	match := bson.M{"department": bson.M{"$exists": true, "$ne": nil}}
	for k, v := range f.query() {
		match[k] = v
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$sort", Value: bson.D{{Key: "created_at", Value: -1}}}},
		{{Key: "$group", Value: bson.M{
			"_id":        "$department",
			"complaints": bson.M{"$push": "$$ROOT"},
			"count":      bson.M{"$sum": 1},
		}}},
		{{Key: "$lookup", Value: bson.M{
			"from":         lookupColl,
			"localField":   "_id",
			"foreignField": "_id",
			"as":           "dept",
		}}},
		{{Key: "$unwind", Value: "$dept"}},
		{{Key: "$set", Value: bson.M{"department_name": "$dept.name"}}},
		{{Key: "$unset", Value: "dept"}},
		{{Key: "$sort", Value: bson.D{{Key: "department_name", Value: 1}}}},
	}

	cur, err := s.c.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []DepartmentGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func containsID(list []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, v := range list {
		if v == id {
			return true
		}
	}
	return false
}

func containsValidation(list []models.CommunityValidation, userID primitive.ObjectID) bool {
	for _, v := range list {
		if v.UserID == userID {
			return true
		}
	}
	return false
}
