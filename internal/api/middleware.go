// Package api implements the Hearth REST API using chi.
package api

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey int

const callerKey ctxKey = iota

// CallerID returns the authenticated account id attached to the request,
// or empty when identity resolution is disabled and no header was sent.
func CallerID(r *http.Request) string {
	id, _ := r.Context().Value(callerKey).(string)
	return id
}

// IdentityMiddleware resolves the caller identity. Authentication itself
// is an external collaborator: in token mode the bearer token is mapped
// to an account id through the configured token table and the result is
// trusted; in disabled mode (local dev) the X-Hearth-User header is
// taken at face value.
func IdentityMiddleware(enabled bool, tokens map[string]string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !enabled {
				ctx := context.WithValue(r.Context(), callerKey, r.Header.Get("X-Hearth-User"))
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}
			auth := r.Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			userID, ok := tokens[strings.TrimPrefix(auth, "Bearer ")]
			if !ok {
				writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized"))
				return
			}
			ctx := context.WithValue(r.Context(), callerKey, userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
