package middleware

import (
	"net"
	"net/http"
	"strings"
)

// ClientIP resolves the caller's address once per request and stores it in the context.
// X-Forwarded-For (first hop) wins over X-Real-IP, which wins over the connection address.
func ClientIP(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := WithClientIP(r.Context(), clientIPFromRequest(r))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func clientIPFromRequest(r *http.Request) string {
	if s := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); s != "" {
		if i := strings.Index(s, ","); i > 0 {
			s = strings.TrimSpace(s[:i])
		}
		return s
	}
	if s := strings.TrimSpace(r.Header.Get("X-Real-IP")); s != "" {
		return s
	}
	if r.RemoteAddr == "" {
		return "unknown"
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
