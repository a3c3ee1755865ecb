// internal/testutil/http.go
package testutil

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/yash2607-del/samaaj/internal/app/system/auth"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// WithSessionUser injects a signed-in user into the request context,
// bypassing cookie and token decoding.
func WithSessionUser(r *http.Request, u *auth.SessionUser) *http.Request {
	return auth.WithUser(r, u)
}
