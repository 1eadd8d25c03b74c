package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/store/sqlite"
)

func newTestStore(t *testing.T) store.Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqlite.Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func createTestBook(t *testing.T, s store.Store, id string, total, available int) *domain.Book {
	t.Helper()
	book := &domain.Book{
		Record:          domain.Record{ID: id, CreatedAt: time.Now()},
		Title:           "Test Book " + id,
		Author:          "Test Author",
		Genre:           "Fiction",
		Rating:          4,
		TotalCopies:     total,
		AvailableCopies: available,
	}
	require.NoError(t, s.CreateBook(context.Background(), book))
	return book
}

func createTestUser(t *testing.T, s store.Store, id, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		Record:         domain.Record{ID: id, CreatedAt: time.Now()},
		FullName:       "Test User " + id,
		Email:          email,
		UniversityID:   1000,
		UniversityCard: "cards/" + id + ".png",
		Role:           domain.RoleMember,
	}
	require.NoError(t, s.CreateUser(context.Background(), user))
	return user
}

func createTestBorrowRecord(t *testing.T, s store.Store, id, bookID, userID string, status domain.BorrowStatus) *domain.BorrowRecord {
	t.Helper()
	rec := &domain.BorrowRecord{
		Record: domain.Record{ID: id, CreatedAt: time.Now()},
		BookID: bookID,
		UserID: userID,
		Status: status,
	}
	if status != domain.StatusPending {
		now := time.Now()
		due := domain.DateOnly(now.Add(domain.DefaultLoanPeriod))
		rec.BorrowDate = &now
		rec.DueDate = &due
	}
	if status == domain.StatusReturned {
		now := time.Now()
		rec.ReturnDate = &now
	}
	require.NoError(t, s.CreateBorrowRecord(context.Background(), rec))
	return rec
}
