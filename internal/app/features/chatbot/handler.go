// internal/app/features/chatbot/handler.go
package chatbot

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/authz"
	"github.com/yash2607-del/samaaj/internal/app/system/chatbot"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"go.uber.org/zap"
)

// Handler serves the FAQ assistant. The engine is a fixed keyword table,
// so the endpoint does no persistence and works for anonymous visitors
// as well as signed-in users.
type Handler struct {
	Engine *chatbot.Engine
	Log    *zap.Logger
}

func NewHandler(engine *chatbot.Engine, logger *zap.Logger) *Handler {
	return &Handler{Engine: engine, Log: logger}
}

// Respond handles POST /api/chatbot/respond with {"text": ..., "role": ...}.
// A signed-in session overrides any role the client claims.
func (h *Handler) Respond(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
		Role string `json:"role"`
	}
	httpjson.Read(r, &body)

	if body.Text == "" {
		httpjson.Error(w, http.StatusBadRequest, "text is required")
		return
	}

	role := body.Role
	if sessionRole, _, _, ok := authz.UserCtx(r); ok {
		role = sessionRole
	}

	reply := h.Engine.Respond(body.Text, role)
	httpjson.OK(w, map[string]any{
		"reply":  reply.Text,
		"action": reply.Action,
	})
}

// Routes returns the subrouter mounted at /api/chatbot.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/respond", h.Respond)
	return r
}
