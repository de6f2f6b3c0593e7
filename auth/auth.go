package auth

import (
	"context"
	"net/http"
)

// UserIdHeader carries the principal resolved by the authentication proxy in front of the API
const UserIdHeader = "X-User-Id"

type contextKey struct {
	name string
}

var userKey = &contextKey{"user"}

func WithContextUser(ctx context.Context, user string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, userKey, user)
}

// ContextUser returns the principal of the request or an empty string for anonymous requests
func ContextUser(ctx context.Context) string {
	if ctx != nil {
		if val, ok := ctx.Value(userKey).(string); ok {
			return val
		}
	}
	return ""
}

// Handler stores the principal found in the request headers into the request context
func Handler(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user := r.Header.Get(UserIdHeader); user != "" {
			r = r.WithContext(WithContextUser(r.Context(), user))
		}
		handler.ServeHTTP(w, r)
	})
}
