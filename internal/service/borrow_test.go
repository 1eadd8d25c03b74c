package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/errors"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// recordWriteFailStore refuses borrow-record writes while letting everything
// else through, to exercise the compensation paths.
type recordWriteFailStore struct {
	store.Store
}

func (s recordWriteFailStore) UpdateBorrowRecord(ctx context.Context, rec *domain.BorrowRecord) error {
	return fmt.Errorf("disk full")
}

func TestRequestBorrow(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(st, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 3, 3)
	createTestUser(t, st, "user-1", "alice@example.com")

	rec, err := svc.RequestBorrow(context.Background(), "user-1", "book-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, rec.Status)
	assert.Nil(t, rec.DueDate)

	// Requests do not reserve copies.
	book, err := st.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 3, book.AvailableCopies)
}

func TestRequestBorrowNoCopies(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(st, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 3, 0)
	createTestUser(t, st, "user-1", "alice@example.com")

	_, err := svc.RequestBorrow(context.Background(), "user-1", "book-1")
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestApproveBorrow(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(st, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 3, 3)
	createTestUser(t, st, "user-1", "alice@example.com")
	createTestBorrowRecord(t, st, "rec-1", "book-1", "user-1", domain.StatusPending)

	rec, err := svc.ApproveBorrow(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBorrowed, rec.Status)
	require.NotNil(t, rec.BorrowDate)
	require.NotNil(t, rec.DueDate)
	assert.Nil(t, rec.ReturnDate)

	// Due date is the loan period out, at day granularity.
	wantDue := domain.DateOnly(rec.BorrowDate.Add(domain.DefaultLoanPeriod))
	assert.True(t, rec.DueDate.Equal(wantDue))

	book, err := st.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 2, book.AvailableCopies)
}

func TestApproveBorrowLastCopy(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(st, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 1, 1)
	createTestUser(t, st, "user-1", "alice@example.com")
	createTestUser(t, st, "user-2", "bob@example.com")
	createTestBorrowRecord(t, st, "rec-1", "book-1", "user-1", domain.StatusPending)
	createTestBorrowRecord(t, st, "rec-2", "book-1", "user-2", domain.StatusPending)

	_, err := svc.ApproveBorrow(context.Background(), "rec-1")
	require.NoError(t, err)

	// The shelf is empty now; the second approval is refused.
	_, err = svc.ApproveBorrow(context.Background(), "rec-2")
	assert.True(t, errors.Is(err, errors.ErrConflict))

	book, err := st.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 0, book.AvailableCopies)
}

func TestApproveBorrowWrongStatus(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(st, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 3, 3)
	createTestUser(t, st, "user-1", "alice@example.com")
	createTestBorrowRecord(t, st, "rec-1", "book-1", "user-1", domain.StatusBorrowed)

	_, err := svc.ApproveBorrow(context.Background(), "rec-1")
	assert.True(t, errors.Is(err, errors.ErrConflict))
}

func TestReturnBook(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(st, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 3, 2)
	createTestUser(t, st, "user-1", "alice@example.com")
	createTestBorrowRecord(t, st, "rec-1", "book-1", "user-1", domain.StatusBorrowed)

	rec, err := svc.ReturnBook(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusReturned, rec.Status)
	assert.NotNil(t, rec.ReturnDate)

	book, err := st.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 3, book.AvailableCopies)
}

func TestReturnBookCapsAtTotal(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(st, NoopInvalidator{}, testLogger())
	// Already full: a stray return must not push available past total.
	createTestBook(t, st, "book-1", 3, 3)
	createTestUser(t, st, "user-1", "alice@example.com")
	createTestBorrowRecord(t, st, "rec-1", "book-1", "user-1", domain.StatusBorrowed)

	_, err := svc.ReturnBook(context.Background(), "rec-1")
	require.NoError(t, err)

	book, err := st.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 3, book.AvailableCopies)
}

func TestReturnBookRestoresCountOnRecordWriteFailure(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(recordWriteFailStore{st}, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 3, 2)
	createTestUser(t, st, "user-1", "alice@example.com")
	createTestBorrowRecord(t, st, "rec-1", "book-1", "user-1", domain.StatusBorrowed)

	_, err := svc.ReturnBook(context.Background(), "rec-1")
	assert.True(t, errors.Is(err, errors.ErrStorage))

	// The record stayed BORROWED and the copy went back off the shelf.
	rec, err := st.GetBorrowRecord(context.Background(), "rec-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusBorrowed, rec.Status)

	book, err := st.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 2, book.AvailableCopies)
}

func TestApproveBorrowRestoresCountOnRecordWriteFailure(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(recordWriteFailStore{st}, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 3, 3)
	createTestUser(t, st, "user-1", "alice@example.com")
	createTestBorrowRecord(t, st, "rec-1", "book-1", "user-1", domain.StatusPending)

	_, err := svc.ApproveBorrow(context.Background(), "rec-1")
	assert.True(t, errors.Is(err, errors.ErrStorage))

	book, err := st.GetBook(context.Background(), "book-1")
	require.NoError(t, err)
	assert.Equal(t, 3, book.AvailableCopies)
}

func TestReturnBookWrongStatus(t *testing.T) {
	st := newTestStore(t)
	svc := NewBorrowService(st, NoopInvalidator{}, testLogger())
	createTestBook(t, st, "book-1", 3, 3)
	createTestUser(t, st, "user-1", "alice@example.com")
	createTestBorrowRecord(t, st, "rec-1", "book-1", "user-1", domain.StatusPending)

	_, err := svc.ReturnBook(context.Background(), "rec-1")
	assert.True(t, errors.Is(err, errors.ErrConflict))
}
