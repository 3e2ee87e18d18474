package auth

import "context"

type contextKey string

const userContextKey contextKey = "user_context"

// UserContext carries the authenticated actor through a request. The token is
// issued by the main application backend; this service only consumes it for
// createdBy stamps and per-user rate limiting.
type UserContext struct {
	UserID      string
	DisplayName string
	Role        string
}

// WithUserContext returns a context carrying the user
func WithUserContext(ctx context.Context, user *UserContext) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// FromContext extracts the user from a context, if present
func FromContext(ctx context.Context) (*UserContext, bool) {
	user, ok := ctx.Value(userContextKey).(*UserContext)
	return user, ok && user != nil
}
