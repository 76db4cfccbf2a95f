package httputil

import "context"

type contextKey string

const userIDKey contextKey = "userID"

// WithUserID stores the authenticated user's id on the context.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserIDFrom extracts the authenticated user's id from the context.
func UserIDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(userIDKey).(string)
	return id, ok && id != ""
}
