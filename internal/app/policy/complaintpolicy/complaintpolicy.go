// Package complaintpolicy computes which complaints an actor may see.
//
// Visibility rules:
//   - Citizens see their own complaints, or their district's feed when
//     they ask for district scope.
//   - Moderators see their department's complaints, narrowed further by
//     their assigned area when one is set.
//   - Admins see everything.
//   - Anything else is forbidden.
package complaintpolicy

import (
	"context"
	"errors"

	citizenstore "github.com/yash2607-del/samaaj/internal/app/store/citizens"
	"github.com/yash2607-del/samaaj/internal/app/system/deptresolve"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var (
	// ErrNoLocation means a citizen asked for district scope without a
	// location on record. Maps to a 400.
	ErrNoLocation = errors.New("citizen has no location set")
	// ErrNoDepartment means a moderator's department cannot be resolved
	// and the environment does not permit the degraded fallback. Maps to
	// a 403.
	ErrNoDepartment = errors.New("moderator department cannot be resolved")
	// ErrUnknownRole means the actor's role has no visibility rule. 403.
	ErrUnknownRole = errors.New("role has no complaint visibility")
)

// Scope is the computed visibility constraint, consumed by the complaint
// store's list filter. Zero fields do not constrain.
type Scope struct {
	All         bool                 // admin: no constraint
	Owner       *primitive.ObjectID  // citizen default scope
	Place       string               // citizen district scope predicate
	Departments []primitive.ObjectID // moderator department constraint
	Area        string               // moderator assigned-area refinement
	Degraded    bool                 // dev-only unfiltered fallback in effect
}

// Policy resolves actor context into a Scope.
type Policy struct {
	resolver *deptresolve.Resolver
	citizens *citizenstore.Store
	// devFallback permits the unfiltered moderator view when the
	// department is unresolvable. Only set outside production; every use
	// is logged loudly.
	devFallback bool
	log         *zap.Logger
}

func New(resolver *deptresolve.Resolver, citizens *citizenstore.Store, devFallback bool, logger *zap.Logger) *Policy {
	return &Policy{
		resolver:    resolver,
		citizens:    citizens,
		devFallback: devFallback,
		log:         logger,
	}
}

// ScopeFor computes the scope for one request. districtScope applies
// only to citizens (scope=district|nearby). withArea controls whether a
// moderator's assigned-area refinement applies; the department grouping
// view passes false.
func (p *Policy) ScopeFor(ctx context.Context, role string, userID primitive.ObjectID, email string, districtScope, withArea bool) (Scope, error) {
	switch role {
	case models.RoleAdmin:
		return Scope{All: true}, nil

	case models.RoleCitizen:
		if !districtScope {
			owner := userID
			return Scope{Owner: &owner}, nil
		}
		c, err := p.citizens.GetByUserID(ctx, userID)
		if err != nil {
			if err == mongo.ErrNoDocuments {
				return Scope{}, ErrNoLocation
			}
			return Scope{}, err
		}
		if c.Location == "" {
			return Scope{}, ErrNoLocation
		}
		return Scope{Place: c.Location}, nil

	case models.RoleModerator:
		m, err := p.resolver.FindModerator(ctx, deptresolve.Actor{UserID: userID, Email: email})
		if err != nil && err != deptresolve.ErrNoModerator {
			return Scope{}, err
		}
		var deptID primitive.ObjectID
		ok := false
		if err == nil {
			deptID, ok, err = p.resolver.NormalizeRef(ctx, m.Department)
			if err != nil {
				return Scope{}, err
			}
		}
		if !ok {
			if !p.devFallback {
				return Scope{}, ErrNoDepartment
			}
			// Degraded mode: an unfiltered view so a misconfigured
			// moderator can still be debugged locally.
			p.log.Warn("moderator department unresolvable; serving unfiltered view (dev fallback)",
				zap.String("user_id", userID.Hex()),
				zap.String("email", email))
			return Scope{All: true, Degraded: true}, nil
		}
		s := Scope{Departments: []primitive.ObjectID{deptID}}
		if withArea && m.AssignedArea != "" {
			s.Area = m.AssignedArea
		}
		return s, nil

	default:
		return Scope{}, ErrUnknownRole
	}
}
