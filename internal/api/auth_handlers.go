package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerAuthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "register",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/register",
		Summary:     "Register",
		Description: "Creates a new member account",
		Tags:        []string{"Auth"},
	}, s.handleRegister)

	huma.Register(s.api, huma.Operation{
		OperationID: "login",
		Method:      http.MethodPost,
		Path:        "/api/v1/auth/login",
		Summary:     "Login",
		Description: "Authenticates by email and password, returns an access token",
		Tags:        []string{"Auth"},
	}, s.handleLogin)

	huma.Register(s.api, huma.Operation{
		OperationID: "getCurrentUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/auth/me",
		Summary:     "Current user",
		Tags:        []string{"Auth"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetCurrentUser)
}

// UserResponse contains user data in API responses.
// The password hash never leaves the server.
type UserResponse struct {
	ID             string    `json:"id" doc:"User ID"`
	FullName       string    `json:"full_name" doc:"Full name"`
	Email          string    `json:"email" doc:"Email address"`
	UniversityID   int64     `json:"university_id" doc:"University ID number"`
	UniversityCard string    `json:"university_card" doc:"University card image path"`
	Role           string    `json:"role" doc:"User role"`
	CreatedAt      time.Time `json:"created_at" doc:"Signup time"`
}

func toUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:             u.ID,
		FullName:       u.FullName,
		Email:          u.Email,
		UniversityID:   u.UniversityID,
		UniversityCard: u.UniversityCard,
		Role:           string(u.Role),
		CreatedAt:      u.CreatedAt,
	}
}

// RegisterInput wraps the signup request for Huma.
type RegisterInput struct {
	Body service.RegisterInput
}

// UserOutput wraps a single user response for Huma.
type UserOutput struct {
	Body UserResponse
}

func (s *Server) handleRegister(ctx context.Context, input *RegisterInput) (*UserOutput, error) {
	user, err := s.services.Auth.Register(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

// LoginRequest is the request body for logging in.
type LoginRequest struct {
	Email    string `json:"email" doc:"Email address"`
	Password string `json:"password" doc:"Password"`
}

// LoginInput wraps the login request for Huma.
type LoginInput struct {
	Body LoginRequest
}

// LoginResponse contains the access token plus the authenticated user.
type LoginResponse struct {
	Token string       `json:"token" doc:"PASETO access token"`
	User  UserResponse `json:"user" doc:"Authenticated user"`
}

// LoginOutput wraps the login response for Huma.
type LoginOutput struct {
	Body LoginResponse
}

func (s *Server) handleLogin(ctx context.Context, input *LoginInput) (*LoginOutput, error) {
	res, err := s.services.Auth.Login(ctx, input.Body.Email, input.Body.Password)
	if err != nil {
		return nil, err
	}
	return &LoginOutput{Body: LoginResponse{
		Token: res.Token,
		User:  toUserResponse(res.User),
	}}, nil
}

// AuthorizedInput carries just the Authorization header.
type AuthorizedInput struct {
	Authorization string `header:"Authorization"`
}

func (s *Server) handleGetCurrentUser(ctx context.Context, input *AuthorizedInput) (*UserOutput, error) {
	user, err := s.authenticateRequest(ctx, input.Authorization)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}
