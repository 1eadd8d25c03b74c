package domain

import "time"

// BorrowStatus represents the lifecycle state of a borrow record.
type BorrowStatus string

const (
	// StatusPending indicates a borrow request awaiting approval.
	StatusPending BorrowStatus = "PENDING"
	// StatusBorrowed indicates the copy has been handed out.
	StatusBorrowed BorrowStatus = "BORROWED"
	// StatusReturned indicates the copy is back on the shelf.
	StatusReturned BorrowStatus = "RETURNED"
)

// DefaultLoanPeriod is how long an approved borrow runs before it is due.
const DefaultLoanPeriod = 14 * 24 * time.Hour

// ParseBorrowStatus validates a raw status string.
func ParseBorrowStatus(s string) (BorrowStatus, bool) {
	switch BorrowStatus(s) {
	case StatusPending, StatusBorrowed, StatusReturned:
		return BorrowStatus(s), true
	}
	return "", false
}

// statusRank orders statuses along the forward lifecycle.
var statusRank = map[BorrowStatus]int{
	StatusPending:  0,
	StatusBorrowed: 1,
	StatusReturned: 2,
}

// TransitionPolicy decides whether a status change is permitted.
type TransitionPolicy func(from, to BorrowStatus) bool

// PolicyLenient permits any transition, including reopening a returned
// record. This matches the admin dashboard's observed behavior and is the
// default: setting a RETURNED record back to PENDING clears its return date.
func PolicyLenient(BorrowStatus, BorrowStatus) bool {
	return true
}

// PolicyForwardOnly permits only forward movement along
// PENDING -> BORROWED -> RETURNED (skipping ahead is allowed, going back is
// not). Opt-in for deployments that want the stricter lifecycle.
func PolicyForwardOnly(from, to BorrowStatus) bool {
	return statusRank[to] >= statusRank[from]
}

// BorrowRecord tracks one user's loan of one book.
// The record refers to its book and user by id; it does not own them.
type BorrowRecord struct {
	Record
	BookID     string       `json:"book_id"`
	UserID     string       `json:"user_id"`
	BorrowDate *time.Time   `json:"borrow_date,omitempty"`
	DueDate    *time.Time   `json:"due_date,omitempty"` // day granularity, see DateOnly
	ReturnDate *time.Time   `json:"return_date,omitempty"`
	Status     BorrowStatus `json:"status"`
}

// IsReturned returns true once the copy is back.
func (r *BorrowRecord) IsReturned() bool {
	return r.Status == StatusReturned
}

// IsOverdue reports whether an outstanding loan is past its due date.
// Returned and pending records are never overdue.
func (r *BorrowRecord) IsOverdue(now time.Time) bool {
	if r.Status != StatusBorrowed || r.DueDate == nil {
		return false
	}
	return DateOnly(now).After(DateOnly(*r.DueDate))
}

// SetStatus applies a status change, keeping the return-date invariant:
// ReturnDate is non-nil if and only if Status is RETURNED.
func (r *BorrowRecord) SetStatus(status BorrowStatus, now time.Time) {
	r.Status = status
	if status == StatusReturned {
		t := now
		r.ReturnDate = &t
	} else {
		r.ReturnDate = nil
	}
}

// Clone returns a deep copy suitable for use as an edit draft.
func (r *BorrowRecord) Clone() *BorrowRecord {
	c := *r
	c.BorrowDate = cloneTime(r.BorrowDate)
	c.DueDate = cloneTime(r.DueDate)
	c.ReturnDate = cloneTime(r.ReturnDate)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
