package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/id"
	"github.com/shelfmark/shelfmark-server/internal/store"
	"github.com/shelfmark/shelfmark-server/internal/viewcache"
)

// BorrowService runs the borrow lifecycle: request, approve, return.
// Approval and return are the only operations that move copy counts, and they
// keep 0 <= available <= total at every step.
type BorrowService struct {
	store  store.Store
	views  ViewInvalidator
	logger *slog.Logger
}

// NewBorrowService creates a new borrow service.
func NewBorrowService(st store.Store, views ViewInvalidator, logger *slog.Logger) *BorrowService {
	return &BorrowService{store: st, views: views, logger: logger}
}

// RequestBorrow files a PENDING borrow request for a book.
// Requests do not reserve a copy; inventory moves on approval.
func (s *BorrowService) RequestBorrow(ctx context.Context, userID, bookID string) (*domain.BorrowRecord, error) {
	book, err := s.store.GetBook(ctx, bookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("book not found")
		}
		return nil, errors.StorageWrap(err, "get book")
	}
	if !book.HasAvailableCopy() {
		return nil, errors.Conflict("no copies available")
	}

	if _, err := s.store.GetUser(ctx, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("user not found")
		}
		return nil, errors.StorageWrap(err, "get user")
	}

	rec := &domain.BorrowRecord{
		BookID: bookID,
		UserID: userID,
		Status: domain.StatusPending,
	}
	rec.ID = id.MustGenerate("borrow")
	rec.InitTimestamps()

	if err := s.store.CreateBorrowRecord(ctx, rec); err != nil {
		return nil, errors.StorageWrap(err, "create borrow record")
	}

	s.invalidate(viewcache.KeyBorrowRecords)
	return rec, nil
}

// ApproveBorrow moves a PENDING request to BORROWED, takes one copy off the
// shelf, and sets the due date to the loan period from today.
func (s *BorrowService) ApproveBorrow(ctx context.Context, recordID string) (*domain.BorrowRecord, error) {
	rec, err := s.store.GetBorrowRecord(ctx, recordID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("borrow record not found")
		}
		return nil, errors.StorageWrap(err, "get borrow record")
	}
	if rec.Status != domain.StatusPending {
		return nil, errors.Conflictf("cannot approve a %s record", rec.Status)
	}

	book, err := s.store.GetBook(ctx, rec.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("book not found")
		}
		return nil, errors.StorageWrap(err, "get book")
	}
	if !book.HasAvailableCopy() {
		return nil, errors.Conflict("no copies available")
	}

	now := time.Now()
	due := domain.DateOnly(now.Add(domain.DefaultLoanPeriod))
	rec.BorrowDate = &now
	rec.DueDate = &due
	rec.SetStatus(domain.StatusBorrowed, now)

	book.AvailableCopies--
	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, errors.StorageWrap(err, "update book")
	}
	if err := s.store.UpdateBorrowRecord(ctx, rec); err != nil {
		// Put the copy back so the counts stay truthful.
		book.AvailableCopies++
		if rerr := s.store.UpdateBook(ctx, book); rerr != nil {
			s.logger.Error("failed to restore copy count after approve failure",
				"book_id", book.ID, "error", rerr)
		}
		return nil, errors.StorageWrap(err, "update borrow record")
	}

	s.invalidate(viewcache.KeyBorrowRecords, viewcache.KeyBooks, viewcache.BookKey(book.ID))
	return rec, nil
}

// ReturnBook moves a BORROWED record to RETURNED, stamps the return instant,
// and puts the copy back on the shelf. The copy count never exceeds the total.
func (s *BorrowService) ReturnBook(ctx context.Context, recordID string) (*domain.BorrowRecord, error) {
	rec, err := s.store.GetBorrowRecord(ctx, recordID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("borrow record not found")
		}
		return nil, errors.StorageWrap(err, "get borrow record")
	}
	if rec.Status != domain.StatusBorrowed {
		return nil, errors.Conflictf("cannot return a %s record", rec.Status)
	}

	book, err := s.store.GetBook(ctx, rec.BookID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, errors.NotFound("book not found")
		}
		return nil, errors.StorageWrap(err, "get book")
	}

	rec.SetStatus(domain.StatusReturned, time.Now())
	restocked := book.AvailableCopies < book.TotalCopies
	if restocked {
		book.AvailableCopies++
	}

	if err := s.store.UpdateBook(ctx, book); err != nil {
		return nil, errors.StorageWrap(err, "update book")
	}
	if err := s.store.UpdateBorrowRecord(ctx, rec); err != nil {
		// Take the copy back off the shelf so the counts stay truthful.
		if restocked {
			book.AvailableCopies--
			if rerr := s.store.UpdateBook(ctx, book); rerr != nil {
				s.logger.Error("failed to restore copy count after return failure",
					"book_id", book.ID, "error", rerr)
			}
		}
		return nil, errors.StorageWrap(err, "update borrow record")
	}

	s.invalidate(viewcache.KeyBorrowRecords, viewcache.KeyBooks, viewcache.BookKey(book.ID))
	return rec, nil
}

// ListForUser returns one user's borrow records, newest first.
func (s *BorrowService) ListForUser(ctx context.Context, userID string) ([]*domain.BorrowRecord, error) {
	recs, err := s.store.ListBorrowRecordsForUser(ctx, userID)
	if err != nil {
		return nil, errors.StorageWrap(err, "list borrow records")
	}
	return recs, nil
}

func (s *BorrowService) invalidate(keys ...string) {
	if err := s.views.Invalidate(keys...); err != nil {
		s.logger.Warn("failed to invalidate views", "keys", keys, "error", err)
	}
}
