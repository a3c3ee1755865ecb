package chatbot_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	chatbotfeature "github.com/yash2607-del/samaaj/internal/app/features/chatbot"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
	"github.com/yash2607-del/samaaj/internal/app/system/chatbot"
	"github.com/yash2607-del/samaaj/internal/domain/models"
	"github.com/yash2607-del/samaaj/internal/testutil"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

func respond(t *testing.T, h *chatbotfeature.Handler, body string, user *auth.SessionUser) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/chatbot/respond", strings.NewReader(body))
	if user != nil {
		req = testutil.WithSessionUser(req, user)
	}
	rec := httptest.NewRecorder()
	h.Respond(rec, req)
	var out map[string]any
	_ = json.NewDecoder(rec.Body).Decode(&out)
	return rec, out
}

func TestRespond(t *testing.T) {
	h := chatbotfeature.NewHandler(chatbot.Shared(), zap.NewNop())

	t.Run("anonymous intent", func(t *testing.T) {
		rec, out := respond(t, h, `{"text":"how do I file a complaint?"}`, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
		if out["action"] != chatbot.ActionNewComplaint {
			t.Errorf("action = %v, want %q", out["action"], chatbot.ActionNewComplaint)
		}
	})

	t.Run("empty text rejected", func(t *testing.T) {
		rec, _ := respond(t, h, `{}`, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("session role overrides claimed role", func(t *testing.T) {
		// The body claims citizen, but the signed-in moderator session wins:
		// a moderator asking about filing gets the triage answer, not the
		// file-a-complaint action.
		user := &auth.SessionUser{ID: primitive.NewObjectID().Hex(), Role: models.RoleModerator}
		_, out := respond(t, h, `{"text":"how do I file a complaint?","role":"citizen"}`, user)
		if out["action"] == chatbot.ActionNewComplaint {
			t.Errorf("moderator session got the citizen reply: %v", out)
		}
	})
}
