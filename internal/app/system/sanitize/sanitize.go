// Package sanitize strips markup from citizen-supplied free text before
// it is persisted. Complaint titles, descriptions, and community
// validation notes all pass through here.
package sanitize

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and trims surrounding whitespace.
func Text(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}
