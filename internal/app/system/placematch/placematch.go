// Package placematch holds the one matching rule used everywhere a
// complaint is scoped to a place: a complaint belongs to an area when
// its district equals the area (case-insensitive, exact) or its
// free-text location contains the area (case-insensitive substring).
//
// Citizen district feeds, moderator assigned-area refinement, and the
// creation fan-out all share this predicate so the semantics cannot
// drift between call sites.
package placematch

import (
	"strings"

	"github.com/dalemusser/waffle/pantry/text"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Matches reports whether a complaint with the given district and
// free-text location falls inside area. Both sides fold with text.Fold,
// matching what Filter queries against the district_ci shadow field.
func Matches(district, location, area string) bool {
	folded := text.Fold(strings.TrimSpace(area))
	if folded == "" {
		return false
	}
	if text.Fold(strings.TrimSpace(district)) == folded {
		return true
	}
	loc := text.Fold(location)
	return loc != "" && strings.Contains(loc, folded)
}

// Filter returns the Mongo filter expressing Matches for list queries:
// district equals area (folded) OR location contains area. The district
// comparison folds with text.Fold, the same folding the stores write
// into district_ci, so accented names match.
func Filter(area string) bson.M {
	area = strings.TrimSpace(area)
	return bson.M{"$or": bson.A{
		bson.M{"district_ci": text.Fold(area)},
		bson.M{"location": primitive.Regex{Pattern: regexQuote(area), Options: "i"}},
	}}
}

// regexQuote escapes regex metacharacters so a district name is matched
// literally.
func regexQuote(s string) string {
	var b strings.Builder
	for _, r := range s {
		if strings.ContainsRune(`\.+*?()|[]{}^$`, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
