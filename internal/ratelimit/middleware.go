package ratelimit

import (
	"net"
	"net/http"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

// Middleware rejects clients over their limit with 429. Clients are keyed by the
// connection's remote IP; headers such as X-Forwarded-For are ignored. When the
// limiter itself fails the request is let through.
func Middleware(limiter Limiter, log *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				ip = r.RemoteAddr
			}

			allowed, err := limiter.Allow(r.Context(), ip)
			if err != nil {
				log.Warn("rate limiter unavailable, allowing request", zap.String("client", ip), zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}
			if !allowed {
				render.Status(r, http.StatusTooManyRequests)
				render.JSON(w, r, map[string]string{"error": "rate limit exceeded"})
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
