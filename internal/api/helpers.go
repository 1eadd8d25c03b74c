package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// authenticateRequest validates the Authorization header and returns the user.
func (s *Server) authenticateRequest(ctx context.Context, authHeader string) (*domain.User, error) {
	if authHeader == "" {
		return nil, huma.Error401Unauthorized("Missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return nil, huma.Error401Unauthorized("Invalid authorization header format")
	}

	user, err := s.services.Auth.VerifyToken(ctx, parts[1])
	if err != nil {
		return nil, huma.Error401Unauthorized("Invalid or expired token")
	}
	return user, nil
}

// requireAdmin validates the token and requires the admin role.
func (s *Server) requireAdmin(ctx context.Context, authHeader string) (*domain.User, error) {
	user, err := s.authenticateRequest(ctx, authHeader)
	if err != nil {
		return nil, err
	}
	if !user.IsAdmin() {
		return nil, huma.Error403Forbidden("Admin access required")
	}
	return user, nil
}

// clientIP extracts the caller address for rate limit keying.
// chi's RealIP middleware has already folded proxy headers into RemoteAddr.
func clientIP(r *http.Request) string {
	ip := r.RemoteAddr
	if i := strings.LastIndex(ip, ":"); i >= 0 {
		return ip[:i]
	}
	return ip
}
