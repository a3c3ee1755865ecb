// internal/app/system/indexes/indexes.go
package indexes

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

/*
EnsureAll is called at startup. Each ensure* function is idempotent.
Errors are aggregated so every problem is visible and startup can fail
fast.
*/
func EnsureAll(ctx context.Context, db *mongo.Database) error {
	var problems []string

	if err := ensureUsers(ctx, db); err != nil {
		problems = append(problems, "users: "+err.Error())
	}
	if err := ensureCitizens(ctx, db); err != nil {
		problems = append(problems, "citizens: "+err.Error())
	}
	if err := ensureModerators(ctx, db); err != nil {
		problems = append(problems, "moderators: "+err.Error())
	}
	if err := ensureDepartments(ctx, db); err != nil {
		problems = append(problems, "departments: "+err.Error())
	}
	if err := ensureComplaints(ctx, db); err != nil {
		problems = append(problems, "complaints: "+err.Error())
	}
	if err := ensureNotifications(ctx, db); err != nil {
		problems = append(problems, "notifications: "+err.Error())
	}

	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}
	return nil
}

func ensureUsers(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("users").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_users_email_ci"),
		},
	})
	return err
}

func ensureCitizens(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("citizens").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_citizens_user"),
		},
		{
			Keys:    bson.D{{Key: "location_ci", Value: 1}},
			Options: options.Index().SetName("idx_citizens_location_ci"),
		},
	})
	return err
}

func ensureModerators(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("moderators").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_moderators_user"),
		},
		{
			Keys:    bson.D{{Key: "email_ci", Value: 1}},
			Options: options.Index().SetName("idx_moderators_email_ci"),
		},
		{
			Keys:    bson.D{{Key: "department", Value: 1}},
			Options: options.Index().SetName("idx_moderators_department"),
		},
	})
	return err
}

func ensureDepartments(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("departments").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "name_ci", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("idx_departments_name_ci"),
		},
		{
			Keys:    bson.D{{Key: "category", Value: 1}},
			Options: options.Index().SetName("idx_departments_category"),
		},
	})
	return err
}

func ensureComplaints(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("complaints").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_complaints_owner_created"),
		},
		{
			Keys:    bson.D{{Key: "department", Value: 1}, {Key: "status", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_complaints_dept_status_created"),
		},
		{
			Keys:    bson.D{{Key: "district_ci", Value: 1}},
			Options: options.Index().SetName("idx_complaints_district_ci"),
		},
		{
			Keys:    bson.D{{Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_complaints_created"),
		},
	})
	return err
}

func ensureNotifications(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection("notifications").Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: -1}},
			Options: options.Index().SetName("idx_notifications_user_created"),
		},
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "is_read", Value: 1}},
			Options: options.Index().SetName("idx_notifications_user_unread"),
		},
	})
	return err
}
