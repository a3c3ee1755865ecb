// internal/app/features/logout/handler.go
package logout

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
	"github.com/yash2607-del/samaaj/internal/app/system/httpjson"
	"go.uber.org/zap"
)

type Handler struct {
	SessionMgr *auth.SessionManager
	Log        *zap.Logger
}

func NewHandler(sessionMgr *auth.SessionManager, logger *zap.Logger) *Handler {
	return &Handler{SessionMgr: sessionMgr, Log: logger}
}

// Serve handles POST /logout: clear the session cookie. Bearer tokens
// simply expire; there is no server-side revocation list.
func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	if err := h.SessionMgr.SignOut(w, r); err != nil {
		h.Log.Error("logout: session clear failed", zap.Error(err))
		httpjson.Error(w, http.StatusInternalServerError, "internal error")
		return
	}
	httpjson.Message(w, http.StatusOK, "logged out")
}

// Routes returns the subrouter mounted at /logout.
func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Serve)
	return r
}
