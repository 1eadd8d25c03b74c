package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/browse"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerUserRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listUsers",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users",
		Summary:     "List users",
		Description: "One page of the admin user table, with search and sort",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListUsers)

	huma.Register(s.api, huma.Operation{
		OperationID: "getUser",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/users/{id}",
		Summary:     "Get user",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUser",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/users/{id}",
		Summary:     "Update user",
		Description: "Full update of a user's editable fields",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateUser)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateUserFields",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/users/{id}/fields",
		Summary:     "Update user fields",
		Description: "Form-style update: fields arrive as raw strings and are coerced per field, with per-field errors on failure",
		Tags:        []string{"Users"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateUserFields)
}

// ListUsersInput contains the admin user table controls.
type ListUsersInput struct {
	Authorization string `header:"Authorization"`
	TableQuery
}

// UserTableOutput wraps one page of the user table for Huma.
type UserTableOutput struct {
	Body TablePage[UserResponse]
}

func (s *Server) handleListUsers(ctx context.Context, input *ListUsersInput) (*UserTableOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	users, err := s.services.Admin.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	b := browse.New(userColumns(), browse.UsersPageSize, users)
	applyTableQuery(b, input.TableQuery)

	out := tablePage(b, toUserResponse)
	return &UserTableOutput{Body: out}, nil
}

// GetUserInput identifies one user.
type GetUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
}

func (s *Server) handleGetUser(ctx context.Context, input *GetUserInput) (*UserOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.Admin.GetUser(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

// UpdateUserInput wraps the user update request for Huma.
type UpdateUserInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"User ID"`
	Body          service.UserInput
}

func (s *Server) handleUpdateUser(ctx context.Context, input *UpdateUserInput) (*UserOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.Admin.EditUser(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}

func (s *Server) handleUpdateUserFields(ctx context.Context, input *FieldEditInput) (*UserOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	user, err := s.services.Admin.EditUserFields(ctx, input.ID, input.Body.Fields)
	if err != nil {
		return nil, err
	}
	return &UserOutput{Body: toUserResponse(user)}, nil
}
