package chatbot_test

import (
	"testing"

	"github.com/yash2607-del/samaaj/internal/app/system/chatbot"
	"github.com/yash2607-del/samaaj/internal/domain/models"
)

func TestRespond(t *testing.T) {
	e := chatbot.NewEngine()

	tests := []struct {
		name       string
		input      string
		role       string
		wantAction string
	}{
		{"file intent", "How do I file a complaint?", models.RoleCitizen, chatbot.ActionNewComplaint},
		{"file intent mixed case", "I want to REPORT a pothole", models.RoleCitizen, chatbot.ActionNewComplaint},
		{"status intent", "what is the status of my complaint", models.RoleCitizen, chatbot.ActionMyComplaints},
		{"nearby intent", "show complaints near me", models.RoleCitizen, chatbot.ActionNearby},
		{"notification intent", "why did I get an alert", models.RoleCitizen, chatbot.ActionNotifications},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Respond(tt.input, tt.role)
			if got.Action != tt.wantAction {
				t.Errorf("Respond(%q).Action = %q, want %q", tt.input, got.Action, tt.wantAction)
			}
			if got.Text == "" {
				t.Error("empty reply text")
			}
		})
	}
}

func TestRespondRoleSpecific(t *testing.T) {
	e := chatbot.NewEngine()

	citizen := e.Respond("how do I file a complaint", models.RoleCitizen)
	mod := e.Respond("how do I file a complaint", models.RoleModerator)

	if citizen.Action != chatbot.ActionNewComplaint {
		t.Errorf("citizen action = %q", citizen.Action)
	}
	if mod.Action != "" {
		t.Errorf("moderator should get the triage reply, got action %q", mod.Action)
	}
	if citizen.Text == mod.Text {
		t.Error("citizen and moderator replies should differ for the file intent")
	}
}

func TestRespondFallback(t *testing.T) {
	e := chatbot.NewEngine()

	got := e.Respond("what is the weather today", models.RoleCitizen)
	if got.Action != "" {
		t.Errorf("fallback should carry no action, got %q", got.Action)
	}
	if got.Text == "" {
		t.Error("fallback reply is empty")
	}

	// An unknown role still gets the default reply.
	if r := e.Respond("how do I file a complaint", "visitor"); r.Action != chatbot.ActionNewComplaint {
		t.Errorf("visitor action = %q, want %q", r.Action, chatbot.ActionNewComplaint)
	}
}

func TestSharedReturnsSameEngine(t *testing.T) {
	if chatbot.Shared() != chatbot.Shared() {
		t.Error("Shared() should return the same engine")
	}
}
