package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseBorrowStatus(t *testing.T) {
	tests := []struct {
		in   string
		want BorrowStatus
		ok   bool
	}{
		{"PENDING", StatusPending, true},
		{"BORROWED", StatusBorrowed, true},
		{"RETURNED", StatusReturned, true},
		{"returned", "", false},
		{"LOST", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseBorrowStatus(tt.in)
		assert.Equal(t, tt.ok, ok, "ParseBorrowStatus(%q)", tt.in)
		assert.Equal(t, tt.want, got, "ParseBorrowStatus(%q)", tt.in)
	}
}

func TestPolicyLenient_PermitsEverything(t *testing.T) {
	statuses := []BorrowStatus{StatusPending, StatusBorrowed, StatusReturned}
	for _, from := range statuses {
		for _, to := range statuses {
			assert.True(t, PolicyLenient(from, to), "%s -> %s", from, to)
		}
	}
}

func TestPolicyForwardOnly(t *testing.T) {
	tests := []struct {
		from, to BorrowStatus
		want     bool
	}{
		{StatusPending, StatusBorrowed, true},
		{StatusBorrowed, StatusReturned, true},
		{StatusPending, StatusReturned, true}, // skipping ahead is allowed
		{StatusPending, StatusPending, true},
		{StatusReturned, StatusBorrowed, false},
		{StatusReturned, StatusPending, false},
		{StatusBorrowed, StatusPending, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, PolicyForwardOnly(tt.from, tt.to), "%s -> %s", tt.from, tt.to)
	}
}

func TestSetStatus_ReturnDateInvariant(t *testing.T) {
	now := time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)
	rec := &BorrowRecord{Status: StatusBorrowed}

	rec.SetStatus(StatusReturned, now)
	require.NotNil(t, rec.ReturnDate)
	assert.Equal(t, now, *rec.ReturnDate)
	assert.True(t, rec.IsReturned())

	// Reopening clears the return date.
	rec.SetStatus(StatusPending, now)
	assert.Nil(t, rec.ReturnDate)
	assert.False(t, rec.IsReturned())
}

func TestIsOverdue(t *testing.T) {
	due := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	rec := &BorrowRecord{Status: StatusBorrowed, DueDate: &due}

	// Same calendar day is not overdue, even late in the day.
	assert.False(t, rec.IsOverdue(time.Date(2025, 3, 10, 23, 59, 0, 0, time.UTC)))
	assert.True(t, rec.IsOverdue(time.Date(2025, 3, 11, 0, 1, 0, 0, time.UTC)))

	returned := &BorrowRecord{Status: StatusReturned, DueDate: &due}
	assert.False(t, returned.IsOverdue(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC)))

	noDue := &BorrowRecord{Status: StatusBorrowed}
	assert.False(t, noDue.IsOverdue(time.Now()))
}

func TestBorrowRecordClone_IsDeep(t *testing.T) {
	borrow := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	rec := &BorrowRecord{
		Record:     Record{ID: "rec-1"},
		BookID:     "book-1",
		UserID:     "user-1",
		BorrowDate: &borrow,
		Status:     StatusBorrowed,
	}

	clone := rec.Clone()
	*clone.BorrowDate = borrow.AddDate(0, 0, 5)
	clone.Status = StatusReturned

	assert.Equal(t, borrow, *rec.BorrowDate, "mutating the clone must not touch the source")
	assert.Equal(t, StatusBorrowed, rec.Status)
}

func TestDateOnly(t *testing.T) {
	instant := time.Date(2025, 3, 10, 23, 15, 42, 999, time.FixedZone("X", -5*3600))
	day := DateOnly(instant)

	assert.Equal(t, time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC), day)
	assert.True(t, SameDay(instant, instant.Add(30*time.Minute)))
}
