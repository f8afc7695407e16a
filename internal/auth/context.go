package auth

import "context"

type userIDContextKey struct{}

// ContextWithUser attaches the authenticated user id to the context. The
// attachment lives exactly as long as the request context it derives from.
func ContextWithUser(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDContextKey{}, userID)
}

// UserIDFromContext extracts the authenticated user id from the context.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	v, ok := ctx.Value(userIDContextKey{}).(int64)
	if !ok || v <= 0 {
		return 0, false
	}
	return v, true
}
