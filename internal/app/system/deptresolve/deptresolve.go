// Package deptresolve maps a moderator to a canonical department id.
//
// Department data was migrated from free-text names to references over
// time, and moderator records were migrated between collections. This
// resolver is the single compatibility shim over both migrations: every
// moderator-scoped request goes through here, never through ad-hoc
// lookups at call sites.
package deptresolve

import (
	"context"
	"errors"

	departmentstore "github.com/yash2607-del/samaaj/internal/app/store/departments"
	moderatorstore "github.com/yash2607-del/samaaj/internal/app/store/moderators"
	userstore "github.com/yash2607-del/samaaj/internal/app/store/users"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// ErrNoModerator reports that no moderator record exists for the actor
// in either the current or the legacy collection.
var ErrNoModerator = errors.New("no moderator record for actor")

// Actor identifies a moderator by user id, email, or both.
type Actor struct {
	UserID primitive.ObjectID
	Email  string
}

type Resolver struct {
	moderators  *moderatorstore.Store
	departments *departmentstore.Store
	users       *userstore.Store
	log         *zap.Logger
}

func New(moderators *moderatorstore.Store, departments *departmentstore.Store, users *userstore.Store, logger *zap.Logger) *Resolver {
	return &Resolver{
		moderators:  moderators,
		departments: departments,
		users:       users,
		log:         logger,
	}
}

// FindModerator locates the actor's moderator record. The store already
// falls back to the legacy collection; this adds the identity fallback
// chain: user id first, then email, then the user's stored email when
// only an id was supplied.
func (r *Resolver) FindModerator(ctx context.Context, actor Actor) (models.Moderator, error) {
	if !actor.UserID.IsZero() {
		m, err := r.moderators.GetByUserID(ctx, actor.UserID)
		if err == nil {
			return m, nil
		}
		if err != mongo.ErrNoDocuments {
			return models.Moderator{}, err
		}
	}
	if actor.Email != "" {
		m, err := r.moderators.GetByEmail(ctx, actor.Email)
		if err == nil {
			return m, nil
		}
		if err != mongo.ErrNoDocuments {
			return models.Moderator{}, err
		}
	}
	if actor.Email == "" && !actor.UserID.IsZero() {
		u, err := r.users.GetByID(ctx, actor.UserID)
		if err == nil && u.Email != "" {
			m, err := r.moderators.GetByEmail(ctx, u.Email)
			if err == nil {
				return m, nil
			}
			if err != mongo.ErrNoDocuments {
				return models.Moderator{}, err
			}
		} else if err != nil && err != mongo.ErrNoDocuments {
			return models.Moderator{}, err
		}
	}
	return models.Moderator{}, ErrNoModerator
}

// NormalizeRef resolves a department field of either shape to a
// canonical department id. An id is verified to reference an existing
// department; a name goes through the match ladder (exact, folded
// exact, word boundary, substring). ok=false means the reference is
// unusable; err is reserved for infrastructure failures.
func (r *Resolver) NormalizeRef(ctx context.Context, ref models.DepartmentRef) (primitive.ObjectID, bool, error) {
	if !ref.ID.IsZero() {
		if _, err := r.departments.GetByID(ctx, ref.ID); err != nil {
			if err == mongo.ErrNoDocuments {
				r.log.Warn("moderator department id references no department",
					zap.String("department_id", ref.ID.Hex()))
				return primitive.NilObjectID, false, nil
			}
			return primitive.NilObjectID, false, err
		}
		return ref.ID, true, nil
	}
	if ref.Name != "" {
		d, ok, err := r.departments.MatchByName(ctx, ref.Name)
		if err != nil {
			return primitive.NilObjectID, false, err
		}
		if !ok {
			r.log.Warn("moderator department name matches no department",
				zap.String("department_name", ref.Name))
			return primitive.NilObjectID, false, nil
		}
		return d.ID, true, nil
	}
	return primitive.NilObjectID, false, nil
}

// Resolve runs the full chain: locate the moderator record for the
// actor, then normalize its department field. ok=false means the
// moderator has no usable department; callers must either deny the
// action or degrade explicitly.
func (r *Resolver) Resolve(ctx context.Context, actor Actor) (primitive.ObjectID, bool, error) {
	m, err := r.FindModerator(ctx, actor)
	if err != nil {
		if err == ErrNoModerator {
			return primitive.NilObjectID, false, nil
		}
		return primitive.NilObjectID, false, err
	}
	return r.NormalizeRef(ctx, m.Department)
}
