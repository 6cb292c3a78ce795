package middleware

import (
	"context"
	"net/http"
)

// Caller is the verified identity of the requester, supplied by the
// upstream auth collaborator. This service never validates credentials
// itself; the gateway resolves the token and forwards the identity.
type Caller struct {
	ID   string
	Name string
}

type callerContextKey struct{}

// Identity lifts the gateway-supplied X-User-Id / X-User-Name headers
// into the request context. Requests without identity pass through;
// handlers that need a caller reject them individually.
func Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-Id")
		if userID != "" {
			caller := Caller{
				ID:   userID,
				Name: r.Header.Get("X-User-Name"),
			}
			r = r.WithContext(context.WithValue(r.Context(), callerContextKey{}, caller))
		}

		next.ServeHTTP(w, r)
	})
}

// CallerFrom extracts the caller identity from the request context.
func CallerFrom(ctx context.Context) (Caller, bool) {
	caller, ok := ctx.Value(callerContextKey{}).(Caller)
	return caller, ok
}
