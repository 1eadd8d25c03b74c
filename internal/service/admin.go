package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/validation"
	"github.com/shelfmark/shelfmark-server/internal/viewcache"
)

// AdminService implements the dashboard's edit operations on books, users,
// and borrow records. Every successful write invalidates the views it affects.
type AdminService struct {
	store     store.Store
	views     ViewCache
	indexer   BookIndexer
	validator *validation.Validator
	policy    domain.TransitionPolicy
	logger    *slog.Logger
}

// NewAdminService creates a new admin service.
// A nil policy defaults to domain.PolicyLenient.
func NewAdminService(st store.Store, views ViewCache, indexer BookIndexer, policy domain.TransitionPolicy, logger *slog.Logger) *AdminService {
	if policy == nil {
		policy = domain.PolicyLenient
	}
	return &AdminService{
		store:     st,
		views:     views,
		indexer:   indexer,
		validator: validation.New(),
		policy:    policy,
		logger:    logger,
	}
}

// BookInput carries the editable fields of a book.
type BookInput struct {
	Title           string  `json:"title" validate:"required,max=200"`
	Author          string  `json:"author" validate:"required,max=200"`
	Genre           string  `json:"genre" validate:"required,max=100"`
	Rating          float64 `json:"rating" validate:"gte=0,lte=5"`
	TotalCopies     int     `json:"total_copies" validate:"gte=0"`
	AvailableCopies int     `json:"available_copies" validate:"gte=0"`
	Description     string  `json:"description,omitempty"`
	CoverColor      string  `json:"cover_color,omitempty"`
	CoverURL        string  `json:"cover_url,omitempty"`
	VideoURL        string  `json:"video_url,omitempty"`
	Summary         string  `json:"summary,omitempty"`
}

// CreateBook adds a new book to the catalog.
func (s *AdminService) CreateBook(ctx context.Context, input BookInput) (*domain.Book, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}
	if input.AvailableCopies > input.TotalCopies {
		return nil, errors.Validation("available copies cannot exceed total copies")
	}

	book := &domain.Book{
		Title:           input.Title,
		Author:          input.Author,
		Genre:           input.Genre,
		Rating:          input.Rating,
		TotalCopies:     input.TotalCopies,
		AvailableCopies: input.AvailableCopies,
		Description:     input.Description,
		CoverColor:      input.CoverColor,
		CoverURL:        input.CoverURL,
		VideoURL:        input.VideoURL,
		Summary:         input.Summary,
	}
	book.ID = id.MustGenerate("book")
	book.InitTimestamps()

	if err := s.store.CreateBook(ctx, book); err != nil {
		return nil, errors.StorageWrap(err, "create book")
	}

	s.afterBookWrite(ctx, book)
	return book, nil
}

// EditBook applies a full update to an existing book.
// The update is all-or-nothing: any failed check leaves the stored row as it
// was. Checks run in a fixed order so clients see deterministic errors:
// inventory consistency first, then field validation.
func (s *AdminService) EditBook(ctx context.Context, bookID string, input BookInput) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("book not found")
		}
		return nil, errors.StorageWrap(err, "get book")
	}

	if input.AvailableCopies > input.TotalCopies {
		return nil, errors.Validation("available copies cannot exceed total copies")
	}
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	book.Title = input.Title
	book.Author = input.Author
	book.Genre = input.Genre
	book.Rating = input.Rating
	book.TotalCopies = input.TotalCopies
	book.AvailableCopies = input.AvailableCopies
	book.Description = input.Description
	book.CoverColor = input.CoverColor
	book.CoverURL = input.CoverURL
	book.VideoURL = input.VideoURL
	book.Summary = input.Summary

	if err := s.store.UpdateBook(ctx, book); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("book not found")
		}
		return nil, errors.StorageWrap(err, "update book")
	}

	s.afterBookWrite(ctx, book)
	return book, nil
}

// DeleteBook removes a book from the catalog and the search index.
func (s *AdminService) DeleteBook(ctx context.Context, bookID string) error {
	if err := s.store.DeleteBook(ctx, bookID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return errors.NotFound("book not found")
		}
		return errors.StorageWrap(err, "delete book")
	}

	if err := s.indexer.DeleteBook(ctx, bookID); err != nil {
		s.logger.Warn("failed to remove book from search index", "book_id", bookID, "error", err)
	}
	s.invalidate(viewcache.KeyBooks, viewcache.BookKey(bookID))
	return nil
}

// GetBook returns a single book.
func (s *AdminService) GetBook(ctx context.Context, bookID string) (*domain.Book, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("book not found")
		}
		return nil, errors.StorageWrap(err, "get book")
	}
	return book, nil
}

// ListBooks returns all books, newest first, reading through the view cache.
func (s *AdminService) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	var books []*domain.Book
	if s.cachedView(viewcache.KeyBooks, &books) {
		return books, nil
	}

	books, err := s.store.ListBooks(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "list books")
	}
	s.storeView(viewcache.KeyBooks, books)
	return books, nil
}

// UserInput carries the editable fields of a user.
type UserInput struct {
	FullName       string `json:"full_name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	UniversityID   int64  `json:"university_id" validate:"gt=0"`
	UniversityCard string `json:"university_card" validate:"required"`
	Role           string `json:"role,omitempty" validate:"omitempty,oneof=admin member"`
}

// EditUser applies a full update to an existing user.
// Field violations are accumulated into one VALIDATION error rather than
// failing on the first problem. Changing the email to another user's address
// is a CONFLICT; re-submitting the user's own email is not.
func (s *AdminService) EditUser(ctx context.Context, userID string, input UserInput) (*domain.User, error) {
	if err := s.validator.Validate(input); err != nil {
		return nil, err
	}

	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.StorageWrap(err, "get user")
	}
	oldEmailKey := user.EmailKey()

	if other, err := s.store.GetUserByEmail(ctx, input.Email); err == nil && other.ID != userID {
		return nil, errors.Conflict("email already in use")
	} else if err != nil && !errors.Is(err, store.ErrNotFound) {
		return nil, errors.StorageWrap(err, "check email")
	}

	user.FullName = input.FullName
	user.Email = input.Email
	user.UniversityID = input.UniversityID
	user.UniversityCard = input.UniversityCard
	if input.Role != "" {
		user.Role = domain.Role(input.Role)
	}

	if err := s.store.UpdateUser(ctx, user); err != nil {
		switch {
		case errors.Is(err, store.ErrNotFound):
			return nil, errors.NotFound("user not found")
		case errors.Is(err, store.ErrAlreadyExists):
			return nil, errors.Conflict("email already in use")
		}
		return nil, errors.StorageWrap(err, "update user")
	}

	// The profile view is keyed by email, so an email change must drop the
	// old key as well as the new one.
	s.invalidate(viewcache.KeyUsers,
		viewcache.ProfileKey(oldEmailKey),
		viewcache.ProfileKey(user.EmailKey()))
	return user, nil
}

// GetUser returns a single user.
func (s *AdminService) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.StorageWrap(err, "get user")
	}
	return user, nil
}

// ListUsers returns all users, newest first, reading through the view cache.
func (s *AdminService) ListUsers(ctx context.Context) ([]*domain.User, error) {
	var users []*domain.User
	if s.cachedView(viewcache.KeyUsers, &users) {
		return users, nil
	}

	users, err := s.store.ListUsers(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "list users")
	}
	s.storeView(viewcache.KeyUsers, users)
	return users, nil
}

// SetBorrowStatus moves a borrow record to the given status.
// The return date is derived, never supplied: it is stamped with the current
// instant when the new status is RETURNED and cleared otherwise. Setting the
// status a record already has is a no-op apart from re-stamping that date,
// so repeating a request converges on the same stored state.
func (s *AdminService) SetBorrowStatus(ctx context.Context, recordID string, rawStatus string) (*domain.BorrowRecord, error) {
	status, ok := domain.ParseBorrowStatus(rawStatus)
	if !ok {
		return nil, errors.Validationf("unknown borrow status %q", rawStatus)
	}

	rec, err := s.store.GetBorrowRecord(ctx, recordID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("borrow record not found")
		}
		return nil, errors.StorageWrap(err, "get borrow record")
	}

	if !s.policy(rec.Status, status) {
		return nil, errors.Conflictf("cannot move borrow record from %s to %s", rec.Status, status)
	}

	rec.SetStatus(status, time.Now())

	if err := s.store.UpdateBorrowRecord(ctx, rec); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("borrow record not found")
		}
		return nil, errors.StorageWrap(err, "update borrow record")
	}

	s.invalidate(viewcache.KeyBorrowRecords)
	return rec, nil
}

// ListBorrowRecords returns all borrow records, newest first, reading through
// the view cache.
func (s *AdminService) ListBorrowRecords(ctx context.Context) ([]*domain.BorrowRecord, error) {
	var recs []*domain.BorrowRecord
	if s.cachedView(viewcache.KeyBorrowRecords, &recs) {
		return recs, nil
	}

	recs, err := s.store.ListBorrowRecords(ctx)
	if err != nil {
		return nil, errors.StorageWrap(err, "list borrow records")
	}
	s.storeView(viewcache.KeyBorrowRecords, recs)
	return recs, nil
}

// afterBookWrite refreshes the search index and drops the book views.
// Both are best-effort: the write itself has already succeeded.
func (s *AdminService) afterBookWrite(ctx context.Context, book *domain.Book) {
	if err := s.indexer.IndexBook(ctx, book); err != nil {
		s.logger.Warn("failed to index book", "book_id", book.ID, "error", err)
	}
	s.invalidate(viewcache.KeyBooks, viewcache.BookKey(book.ID))
}

func (s *AdminService) invalidate(keys ...string) {
	if err := s.views.Invalidate(keys...); err != nil {
		s.logger.Warn("failed to invalidate views", "keys", keys, "error", err)
	}
}

// cachedView loads a rendered view into dest, reporting whether it was found.
// Cache errors other than a miss are logged and treated as misses.
func (s *AdminService) cachedView(key string, dest any) bool {
	err := s.views.Get(key, dest)
	if err == nil {
		return true
	}
	if !errors.Is(err, viewcache.ErrMiss) {
		s.logger.Warn("view cache read failed", "key", key, "error", err)
	}
	return false
}

// storeView caches a rendered view, best-effort.
func (s *AdminService) storeView(key string, value any) {
	if err := s.views.Set(key, value); err != nil {
		s.logger.Warn("view cache write failed", "key", key, "error", err)
	}
}
