package api

import (
	"net"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"

	"github.com/termalign/termalign-server/internal/http/response"
)

const rateLimitMessage = "Too many requests. Please try again later."

// rateLimit is a huma middleware that throttles analysis operations per client IP.
// Returns 429 Too Many Requests when limit is exceeded.
func (s *Server) rateLimit(ctx huma.Context, next func(huma.Context)) {
	r, w := humachi.Unwrap(ctx)
	key := getClientIP(r)

	if !s.analysisLimiter.Allow(key) {
		s.logger.Warn("Rate limit exceeded",
			"ip", key,
			"path", r.URL.Path,
		)
		response.TooManyRequests(w, rateLimitMessage, s.logger)
		return
	}

	next(ctx)
}

// getClientIP extracts the client IP from the request.
// middleware.RealIP has already folded X-Forwarded-For and X-Real-IP into
// RemoteAddr, so only the port needs stripping.
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
