package auth

import "time"

// AccessClaims represents the claims stored in a PASETO access token.
// v4.local tokens are encrypted, so claims are unreadable without the key.
type AccessClaims struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`

	// Standard PASETO claims
	Issuer     string    `json:"iss"`
	Subject    string    `json:"sub"`
	Audience   string    `json:"aud"`
	Expiration time.Time `json:"exp"`
	NotBefore  time.Time `json:"nbf"`
	IssuedAt   time.Time `json:"iat"`
	TokenID    string    `json:"jti"`
}

// IsAdmin reports whether the token belongs to an admin user.
func (c *AccessClaims) IsAdmin() bool {
	return c.Role == "admin"
}
