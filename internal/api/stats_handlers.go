package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerStatsRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "getDashboard",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/dashboard",
		Summary:     "Dashboard stats",
		Tags:        []string{"Stats"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetDashboard)
}

// DashboardOutput wraps the dashboard stats for Huma.
type DashboardOutput struct {
	Body service.DashboardStats
}

func (s *Server) handleGetDashboard(ctx context.Context, input *AuthorizedInput) (*DashboardOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	stats, err := s.services.Stats.Dashboard(ctx)
	if err != nil {
		return nil, err
	}
	return &DashboardOutput{Body: *stats}, nil
}
