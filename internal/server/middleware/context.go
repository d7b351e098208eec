// Package middleware holds the HTTP middleware shared by every route: client IP resolution,
// session identity and request logging.
package middleware

import "context"

type contextKey struct{ name string }

var (
	userIDKey   = contextKey{"user_id"}
	emailKey    = contextKey{"email"}
	clientIPKey = contextKey{"client_ip"}
)

// WithIdentity returns a context with user_id and email set.
// Handlers read these via GetUserID and GetEmail.
func WithIdentity(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, userID)
	ctx = context.WithValue(ctx, emailKey, email)
	return ctx
}

// GetUserID returns the user_id from context and true if set; otherwise "", false.
func GetUserID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(userIDKey).(string)
	return v, ok
}

// GetEmail returns the signed-in email from context and true if set; otherwise "", false.
func GetEmail(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(emailKey).(string)
	return v, ok
}

// WithClientIP returns a context carrying the resolved client IP.
func WithClientIP(ctx context.Context, ip string) context.Context {
	return context.WithValue(ctx, clientIPKey, ip)
}

// GetClientIP returns the client IP stored by the ClientIP middleware, or "unknown".
func GetClientIP(ctx context.Context) string {
	if v, ok := ctx.Value(clientIPKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
