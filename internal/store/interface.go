// Package store defines the persistence interface for the Shelfmark server.
package store

import (
	"context"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// Store defines the interface for all persistence operations.
// List operations return records newest-first by creation time, which is the
// default ordering for the admin tables' initial page loads.
type Store interface {
	// Lifecycle
	Close() error

	// Users
	CreateUser(ctx context.Context, user *domain.User) error
	GetUser(ctx context.Context, id string) (*domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateUser(ctx context.Context, user *domain.User) error
	ListUsers(ctx context.Context) ([]*domain.User, error)
	CountUsers(ctx context.Context) (int, error)

	// Books
	CreateBook(ctx context.Context, book *domain.Book) error
	GetBook(ctx context.Context, id string) (*domain.Book, error)
	UpdateBook(ctx context.Context, book *domain.Book) error
	DeleteBook(ctx context.Context, id string) error
	ListBooks(ctx context.Context) ([]*domain.Book, error)
	CountBooks(ctx context.Context) (int, error)
	CountBooksByGenre(ctx context.Context) (map[string]int, error)

	// Borrow records
	CreateBorrowRecord(ctx context.Context, rec *domain.BorrowRecord) error
	GetBorrowRecord(ctx context.Context, id string) (*domain.BorrowRecord, error)
	UpdateBorrowRecord(ctx context.Context, rec *domain.BorrowRecord) error
	ListBorrowRecords(ctx context.Context) ([]*domain.BorrowRecord, error)
	ListBorrowRecordsForUser(ctx context.Context, userID string) ([]*domain.BorrowRecord, error)
	CountBorrowRecords(ctx context.Context) (int, error)
	CountBorrowRecordsByStatus(ctx context.Context) (map[string]int, error)
}
