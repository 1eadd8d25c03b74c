// Package main provides a tool to seed the database with sample catalog data.
//
// It creates an admin user, a handful of members, a starter catalog, and a
// spread of borrow records across the lifecycle to exercise the admin tables.
//
// Usage:
//
//	DATA_PATH=~/Shelfmark/data go run ./cmd/seed
//	DATA_PATH=~/Shelfmark/data go run ./cmd/seed --admin-password=changeme
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/auth"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/store/sqlite"
)

var adminPassword = flag.String("admin-password", "admin12345", "Password for the seeded admin user")

type seedBook struct {
	title, author, genre    string
	rating                  float64
	total, available        int
	description, coverColor string
}

var seedBooks = []seedBook{
	{"The Pragmatic Programmer", "David Thomas", "Computer Science", 4.5, 5, 5, "A guide to pragmatic software craftsmanship.", "#1c1f40"},
	{"Clean Code", "Robert C. Martin", "Computer Science", 4.2, 4, 4, "A handbook of agile software craftsmanship.", "#3a5199"},
	{"Atomic Habits", "James Clear", "Self Help", 4.8, 6, 6, "Tiny changes, remarkable results.", "#fffefe"},
	{"Deep Work", "Cal Newport", "Self Help", 4.4, 3, 3, "Rules for focused success in a distracted world.", "#e8e8e8"},
	{"The Midnight Library", "Matt Haig", "Fantasy", 4.1, 4, 4, "Between life and death there is a library.", "#1e2a4a"},
	{"Project Hail Mary", "Andy Weir", "Science Fiction", 4.7, 3, 3, "A lone astronaut must save the earth.", "#d4a017"},
	{"Educated", "Tara Westover", "Memoir", 4.6, 2, 2, "A memoir of family, education, and self-invention.", "#b03a2e"},
	{"Thinking, Fast and Slow", "Daniel Kahneman", "Psychology", 4.0, 4, 4, "The two systems that drive the way we think.", "#f5f5dc"},
}

func main() {
	flag.Parse()

	dataPath := os.Getenv("DATA_PATH")
	if dataPath == "" {
		dataPath = os.ExpandEnv("$HOME/Shelfmark/data")
	}

	dbPath := filepath.Join(dataPath, "shelfmark.db")
	fmt.Printf("Opening database at: %s\n", dbPath)

	if err := os.MkdirAll(dataPath, 0o700); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := sqlite.Open(dbPath, logger)
	if err != nil {
		log.Fatalf("Failed to open store: %v", err)
	}
	defer s.Close()

	ctx := context.Background()

	admin := seedUser(ctx, s, "Ada Admin", "admin@shelfmark.dev", 100001, *adminPassword, domain.RoleAdmin)
	members := []*domain.User{
		seedUser(ctx, s, "Marcus Reid", "marcus@example.com", 200001, "member12345", domain.RoleMember),
		seedUser(ctx, s, "Priya Nair", "priya@example.com", 200002, "member12345", domain.RoleMember),
		seedUser(ctx, s, "Jonas Weber", "jonas@example.com", 200003, "member12345", domain.RoleMember),
	}
	fmt.Printf("Seeded admin %s and %d members\n", admin.Email, len(members))

	books := make([]*domain.Book, 0, len(seedBooks))
	for _, sb := range seedBooks {
		book := &domain.Book{
			Title:           sb.title,
			Author:          sb.author,
			Genre:           sb.genre,
			Rating:          sb.rating,
			TotalCopies:     sb.total,
			AvailableCopies: sb.available,
			Description:     sb.description,
			CoverColor:      sb.coverColor,
		}
		book.ID = id.MustGenerate("book")
		book.InitTimestamps()
		if err := s.CreateBook(ctx, book); err != nil {
			log.Fatalf("Failed to create book %q: %v", sb.title, err)
		}
		books = append(books, book)
	}
	fmt.Printf("Seeded %d books\n", len(books))

	now := time.Now()

	// One of each lifecycle state so the borrow-records table has variety.
	seedBorrow(ctx, s, books[0], members[0], domain.StatusPending, now)
	seedBorrow(ctx, s, books[2], members[1], domain.StatusBorrowed, now)
	seedBorrow(ctx, s, books[4], members[2], domain.StatusReturned, now)
	seedBorrow(ctx, s, books[5], members[0], domain.StatusBorrowed, now.Add(-20*24*time.Hour)) // overdue

	fmt.Println("Seeding complete")
}

func seedUser(ctx context.Context, s store.Store, name, email string, universityID int64, password string, role domain.Role) *domain.User {
	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("Failed to hash password for %s: %v", email, err)
	}

	user := &domain.User{
		FullName:       name,
		Email:          email,
		UniversityID:   universityID,
		UniversityCard: fmt.Sprintf("card-%d", universityID),
		PasswordHash:   hash,
		Role:           role,
	}
	user.ID = id.MustGenerate("user")
	user.InitTimestamps()

	if err := s.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user %s: %v", email, err)
	}
	return user
}

// seedBorrow creates a record in the given state, adjusting book inventory so
// the catalog stays consistent with outstanding loans.
func seedBorrow(ctx context.Context, s store.Store, book *domain.Book, user *domain.User, status domain.BorrowStatus, borrowedAt time.Time) {
	rec := &domain.BorrowRecord{
		BookID: book.ID,
		UserID: user.ID,
		Status: domain.StatusPending,
	}
	rec.ID = id.MustGenerate("borrow")
	rec.InitTimestamps()

	if status != domain.StatusPending {
		bd := borrowedAt
		due := domain.DateOnly(borrowedAt.Add(domain.DefaultLoanPeriod))
		rec.BorrowDate = &bd
		rec.DueDate = &due
		rec.SetStatus(status, time.Now())
	}

	if err := s.CreateBorrowRecord(ctx, rec); err != nil {
		log.Fatalf("Failed to create borrow record: %v", err)
	}

	if status == domain.StatusBorrowed {
		book.AvailableCopies--
		if err := s.UpdateBook(ctx, book); err != nil {
			log.Fatalf("Failed to update inventory for %q: %v", book.Title, err)
		}
	}
}
