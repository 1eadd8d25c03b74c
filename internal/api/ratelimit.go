package api

import (
	"encoding/json/v2"
	"net/http"
)

// loginRateLimit throttles the login endpoint by client IP.
// Everything else passes through untouched.
func (s *Server) loginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost && r.URL.Path == "/api/v1/auth/login" {
			key := clientIP(r)
			if !s.authRateLimiter.Allow(key) {
				s.logger.Warn("login rate limit exceeded", "ip", key)
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusTooManyRequests)
				//nolint:errcheck // Nothing useful to do if the write fails
				_ = json.MarshalWrite(w, &APIError{
					Code:    "RATE_LIMITED",
					Message: "Too many login attempts. Please try again later.",
				})
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
