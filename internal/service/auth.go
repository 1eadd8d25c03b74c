package service

import (
	"context"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
)

// AuthService handles registration and login.
type AuthService struct {
	store     store.Store
	tokens    *auth.TokenService
	validator *validation.Validator
	logger    *slog.Logger
}

// NewAuthService creates a new auth service.
func NewAuthService(st store.Store, tokens *auth.TokenService, logger *slog.Logger) *AuthService {
	return &AuthService{
		store:     st,
		tokens:    tokens,
		validator: validation.New(),
		logger:    logger,
	}
}

// RegisterInput carries a signup request.
type RegisterInput struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	UniversityID   int64  `json:"university_id" validate:"gt=0"`
	UniversityCard string `json:"university_card" validate:"required"`
	Password       string `json:"password" validate:"required,min=8"`
}

// Register creates a new member account.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "hash password")
	}

	user := &domain.User{
		FullName:       input.FullName,
		Email:          input.Email,
		UniversityID:   input.UniversityID,
		UniversityCard: input.UniversityCard,
		PasswordHash:   hash,
		Role:           domain.RoleMember,
	}
	user.ID = id.MustGenerate("user")
	user.InitTimestamps()

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return nil, errors.Conflict("email already in use")
		}
		return nil, errors.StorageWrap(err, "create user")
	}

	s.logger.Info("user registered", "user_id", user.ID)
	return user, nil
}

// LoginResult is a successful authentication: the user plus an access token.
type LoginResult struct {
	User  *domain.User
	Token string
}

// Login authenticates by email and password.
// Unknown email and wrong password are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.InvalidCredentials("invalid email or password")
		}
		return nil, errors.StorageWrap(err, "get user")
	}

	ok, err := auth.VerifyPassword(user.PasswordHash, password)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "verify password")
	}
	if !ok {
		return nil, errors.InvalidCredentials("invalid email or password")
	}

	token, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "generate token")
	}

	return &LoginResult{User: user, Token: token}, nil
}

// VerifyToken parses an access token and loads its user.
func (s *AuthService) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	claims, err := s.tokens.VerifyAccessToken(token)
	if err != nil {
		return nil, errors.Unauthorized("invalid or expired token")
	}

	user, err := s.store.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.Unauthorized("user no longer exists")
		}
		return nil, errors.StorageWrap(err, "get user")
	}
	return user, nil
}
