package domain

import "strings"

// Role represents the user's permission level in the system.
type Role string

const (
	// RoleAdmin grants access to the admin dashboard and edit operations.
	RoleAdmin Role = "admin"
	// RoleMember grants standard borrowing access.
	RoleMember Role = "member"
)

// User represents a registered library member.
type User struct {
	Record
	FullName       string `json:"full_name"`
	Email          string `json:"email"`
	UniversityID   int64  `json:"university_id"`
	UniversityCard string `json:"university_card"`
	PasswordHash   string `json:"password_hash,omitempty"` // Stored hashed, filter from API responses
	Role           Role   `json:"role"`
}

// IsAdmin returns true if the user has administrative privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// EmailKey returns the canonical form of the email used for uniqueness checks.
func (u *User) EmailKey() string {
	return strings.ToLower(strings.TrimSpace(u.Email))
}

// Clone returns a deep copy suitable for use as an edit draft.
// Mutating the clone never affects the original.
func (u *User) Clone() *User {
	c := *u
	return &c
}
