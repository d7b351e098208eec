package middleware

import (
	"net/http"
	"strings"

	"clearn/backend/internal/platform/httpjson"
	"clearn/backend/internal/security"
)

// SessionCookieName is the cookie the login handler sets with the session token.
const SessionCookieName = "clearn_session"

const bearerPrefix = "bearer "

// TokenValidator validates a session token. security.SessionTokens implements it.
type TokenValidator interface {
	Validate(token string) (*security.SessionClaims, error)
}

// RequireSession returns middleware that validates the session token from the Authorization
// header or the session cookie and sets user_id and email in the context. Requests without a
// valid token get 401.
func RequireSession(tokens TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := extractToken(r)
			if token == "" {
				httpjson.Fail(w, http.StatusUnauthorized, "Please log in to continue.")
				return
			}
			claims, err := tokens.Validate(token)
			if err != nil {
				httpjson.Fail(w, http.StatusUnauthorized, "Please log in to continue.")
				return
			}
			ctx := WithIdentity(r.Context(), claims.Subject, claims.Email)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// extractToken returns the Bearer token, falling back to the session cookie. "" if neither is set.
func extractToken(r *http.Request) string {
	if v := strings.TrimSpace(r.Header.Get("Authorization")); len(v) > len(bearerPrefix) &&
		strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return strings.TrimSpace(v[len(bearerPrefix):])
	}
	if c, err := r.Cookie(SessionCookieName); err == nil {
		return strings.TrimSpace(c.Value)
	}
	return ""
}
