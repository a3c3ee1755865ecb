// internal/app/system/authz/authz.go
package authz

import (
	"net/http"
	"strings"

	"github.com/yash2607-del/samaaj/internal/app/system/auth"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserCtx returns the user's role (lowercased), email, Mongo ObjectID,
// and a found flag. If no user is present or the user ID is malformed it
// returns "visitor", "", NilObjectID, false, so ok=true always means an
// authenticated user with a valid ObjectID.
func UserCtx(r *http.Request) (role string, email string, userID primitive.ObjectID, ok bool) {
	user, ok := auth.CurrentUser(r)
	if !ok {
		return "visitor", "", primitive.NilObjectID, false
	}
	userID, err := primitive.ObjectIDFromHex(user.ID)
	if err != nil {
		// Malformed user ID in session; fail closed.
		return "visitor", "", primitive.NilObjectID, false
	}
	return strings.ToLower(user.Role), user.Email, userID, true
}

// IsAdmin reports whether the current request's user is an admin.
func IsAdmin(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "admin"
}

// IsModerator reports whether the current request's user is a moderator.
func IsModerator(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "moderator"
}

// IsCitizen reports whether the current request's user is a citizen.
func IsCitizen(r *http.Request) bool {
	role, _, _, ok := UserCtx(r)
	return ok && role == "citizen"
}

// HasAnyRole reports whether the current user has any of the given roles.
func HasAnyRole(r *http.Request, roles ...string) bool {
	role, _, _, ok := UserCtx(r)
	if !ok {
		return false
	}
	for _, want := range roles {
		if role == strings.ToLower(strings.TrimSpace(want)) {
			return true
		}
	}
	return false
}
