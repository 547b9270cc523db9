package auth

import "context"

type (
	key byte
)

var (
	userIDKey = key(1)
)

// WithUserID binds an authenticated user id to the request context.
// The binding lives only as long as the request, nothing caches it.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// UserID extracts the authenticated user id placed there by the gate,
// reporting false when the request never went through it.
func UserID(ctx context.Context) (int64, bool) {
	v := ctx.Value(userIDKey)
	if v == nil {
		return 0, false
	}
	return v.(int64), true
}
