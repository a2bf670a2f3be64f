package middleware

import (
	"net/http"

	"signtrack/internal/platform/logger"
	pnet "signtrack/internal/platform/net"
)

// Logging seeds the request context so logger.C picks up request and user ids
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := logger.WithRequest(r.Context(), pnet.RequestID(r.Context()), pnet.UserID(r.Context()))
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
