package service

import (
	"context"
	"log/slog"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// recentLimit caps the recent-activity lists on the dashboard.
const recentLimit = 5

// StatsService aggregates the dashboard counters.
type StatsService struct {
	store  store.Store
	logger *slog.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(st store.Store, logger *slog.Logger) *StatsService {
	return &StatsService{store: st, logger: logger}
}

// DashboardStats is the summary shown at the top of the admin dashboard.
type DashboardStats struct {
	TotalBooks      int            `json:"total_books"`
	TotalUsers      int            `json:"total_users"`
	TotalBorrows    int            `json:"total_borrows"`
	BooksByGenre    map[string]int `json:"books_by_genre"`
	BorrowsByStatus map[string]int `json:"borrows_by_status"`
	RecentBooks     []*domain.Book `json:"recent_books"`
	RecentUsers     []*domain.User `json:"recent_users"`
}

// Dashboard computes the stats in one pass over the counters.
func (s *StatsService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	books, err := s.store.CountBooks(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "count books")
	}
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "count users")
	}
	borrows, err := s.store.CountBorrowRecords(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "count borrow records")
	}
	byGenre, err := s.store.CountBooksByGenre(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "count books by genre")
	}
	byStatus, err := s.store.CountBorrowRecordsByStatus(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "count borrows by status")
	}

	// Listings come back newest first, so recent activity is a prefix.
	allBooks, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "list books")
	}
	allUsers, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "list users")
	}

	return &DashboardStats{
		TotalBooks:      books,
		TotalUsers:      users,
		TotalBorrows:    borrows,
		BooksByGenre:    byGenre,
		BorrowsByStatus: byStatus,
		RecentBooks:     allBooks[:min(recentLimit, len(allBooks))],
		RecentUsers:     scrubUsers(allUsers[:min(recentLimit, len(allUsers))]),
	}, nil
}

// scrubUsers clears password hashes before the users leave the service.
func scrubUsers(users []*domain.User) []*domain.User {
	out := make([]*domain.User, len(users))
	for i, u := range users {
		c := u.Clone()
		c.PasswordHash = ""
		out[i] = c
	}
	return out
}
