// Package chatbot answers FAQs with a rule table: folded keyword
// matching over a fixed set of intents, with role-specific replies and
// optional client action hints. The table is built once at startup and
// read-only afterwards.
package chatbot

import (
	"strings"
	"sync"

	"github.com/dalemusser/waffle/pantry/text"
	"github.com/yash2607-del/samaaj/internal/domain/models"
)

// Reply is what the bot sends back: the answer text and an optional
// action hint the client may act on (e.g., open the complaint form).
type Reply struct {
	Text   string `json:"reply"`
	Action string `json:"action,omitempty"`
}

// Client action hints.
const (
	ActionNewComplaint  = "new_complaint"
	ActionMyComplaints  = "my_complaints"
	ActionNearby        = "nearby_complaints"
	ActionNotifications = "notifications"
)

// rule matches when any keyword appears in the folded input. Replies may
// differ per role; Default covers roles without a specific answer.
type rule struct {
	Keywords []string
	Default  Reply
	ByRole   map[string]Reply
}

// Engine is the rule table. Safe for concurrent use after Load.
type Engine struct {
	rules    []rule
	fallback Reply
}

var (
	once   sync.Once
	shared *Engine
)

// Shared returns the process-wide engine, building it on first use.
func Shared() *Engine {
	once.Do(func() {
		shared = NewEngine()
	})
	return shared
}

// NewEngine builds the default rule table.
func NewEngine() *Engine {
	return &Engine{
		fallback: Reply{Text: "I can help you file a complaint, check its status, or find complaints near you. What would you like to do?"},
		rules: []rule{
			{
				Keywords: []string{"file", "report", "new complaint", "register", "submit"},
				Default: Reply{
					Text:   "To file a complaint, choose a category, describe the issue, add a photo and your location, and submit. You will get a confirmation notification.",
					Action: ActionNewComplaint,
				},
				ByRole: map[string]Reply{
					models.RoleModerator: {Text: "Moderators cannot file complaints; only citizens can. You can triage complaints assigned to your department instead."},
				},
			},
			{
				Keywords: []string{"status", "progress", "update", "my complaint"},
				Default: Reply{
					Text:   "You can track every complaint you filed under My Complaints; each status change also sends you a notification.",
					Action: ActionMyComplaints,
				},
				ByRole: map[string]Reply{
					models.RoleModerator: {Text: "Open your department view to see complaints awaiting triage, then update their status with an action note."},
				},
			},
			{
				Keywords: []string{"near", "nearby", "district", "area", "around"},
				Default: Reply{
					Text:   "The nearby feed shows complaints from your district. Set your location in your profile if you have not yet.",
					Action: ActionNearby,
				},
			},
			{
				Keywords: []string{"category", "categories", "type", "types"},
				Default: Reply{
					Text: "Complaint categories are: " + strings.Join(models.Categories, ", ") + ".",
				},
			},
			{
				Keywords: []string{"notification", "notifications", "alert"},
				Default: Reply{
					Text:   "Notifications cover submission confirmations, status changes, community validations, and new complaints in your district.",
					Action: ActionNotifications,
				},
			},
			{
				Keywords: []string{"department", "who handles", "authority", "responsible"},
				Default: Reply{
					Text: "Each complaint category is handled by one or more departments covering your area; your complaint is routed to the matching department automatically.",
				},
			},
			{
				Keywords: []string{"like", "dislike", "validate", "support", "community"},
				Default: Reply{
					Text: "You can like or dislike any complaint, and add a community validation note to confirm an issue you have also seen. One vote and one note per complaint.",
				},
			},
			{
				Keywords: []string{"photo", "image", "upload", "picture"},
				Default: Reply{
					Text: "Attach one photo when filing a complaint (jpg, jpeg, png or webp). Moderators may attach an action photo when resolving it.",
				},
			},
			{
				Keywords: []string{"hello", "hi", "hey", "namaste"},
				Default: Reply{
					Text: "Hello! I can help you file a complaint, check its status, or find complaints near you.",
				},
			},
		},
	}
}

// Respond matches the input against the rule table and returns the
// first matching rule's reply for the role, or the fallback.
func (e *Engine) Respond(input, role string) Reply {
	folded := text.Fold(input)
	role = strings.ToLower(strings.TrimSpace(role))
	for _, r := range e.rules {
		for _, kw := range r.Keywords {
			if strings.Contains(folded, kw) {
				if reply, ok := r.ByRole[role]; ok {
					return reply
				}
				return r.Default
			}
		}
	}
	return e.fallback
}
