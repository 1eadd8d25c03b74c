package sqlite

import (
	"context"
	"database/sql"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// borrowColumns is the ordered list of columns selected in borrow record
// queries. Must match the scan order in scanBorrowRecord.
const borrowColumns = `id, created_at, book_id, user_id, borrow_date,
	due_date, return_date, status`

// scanBorrowRecord scans a sql.Row (or sql.Rows via its Scan method) into a
// domain.BorrowRecord.
func scanBorrowRecord(scanner interface{ Scan(dest ...any) error }) (*domain.BorrowRecord, error) {
	var r domain.BorrowRecord

	var (
		createdAt  string
		borrowDate sql.NullString
		dueDate    sql.NullString
		returnDate sql.NullString
		status     string
	)

	err := scanner.Scan(
		&r.ID,
		&createdAt,
		&r.BookID,
		&r.UserID,
		&borrowDate,
		&dueDate,
		&returnDate,
		&status,
	)
	if err != nil {
		return nil, err
	}

	r.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	r.BorrowDate, err = parseNullableTime(borrowDate)
	if err != nil {
		return nil, err
	}
	r.DueDate, err = parseNullableTime(dueDate)
	if err != nil {
		return nil, err
	}
	r.ReturnDate, err = parseNullableTime(returnDate)
	if err != nil {
		return nil, err
	}
	r.Status = domain.BorrowStatus(status)

	return &r, nil
}

// CreateBorrowRecord inserts a new borrow record into the database.
// Returns store.ErrAlreadyExists if the record ID already exists.
func (s *Store) CreateBorrowRecord(ctx context.Context, rec *domain.BorrowRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO borrow_records (
			id, created_at, book_id, user_id, borrow_date,
			due_date, return_date, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		formatTime(rec.CreatedAt),
		rec.BookID,
		rec.UserID,
		nullTime(rec.BorrowDate),
		nullTime(rec.DueDate),
		nullTime(rec.ReturnDate),
		string(rec.Status),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBorrowRecord retrieves a borrow record by ID.
// Returns store.ErrNotFound if the record does not exist.
func (s *Store) GetBorrowRecord(ctx context.Context, id string) (*domain.BorrowRecord, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+borrowColumns+` FROM borrow_records WHERE id = ?`, id)

	r, err := scanBorrowRecord(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return r, nil
}

// UpdateBorrowRecord performs a full row update on an existing borrow record.
// Returns store.ErrNotFound if the record does not exist.
func (s *Store) UpdateBorrowRecord(ctx context.Context, rec *domain.BorrowRecord) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE borrow_records SET
			book_id = ?,
			user_id = ?,
			borrow_date = ?,
			due_date = ?,
			return_date = ?,
			status = ?
		WHERE id = ?`,
		rec.BookID,
		rec.UserID,
		nullTime(rec.BorrowDate),
		nullTime(rec.DueDate),
		nullTime(rec.ReturnDate),
		string(rec.Status),
		rec.ID,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return store.ErrNotFound
	}
	return nil
}

// ListBorrowRecords returns all borrow records, newest first.
func (s *Store) ListBorrowRecords(ctx context.Context) ([]*domain.BorrowRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+borrowColumns+` FROM borrow_records ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBorrowRecords(rows)
}

// ListBorrowRecordsForUser returns one user's borrow records, newest first.
func (s *Store) ListBorrowRecordsForUser(ctx context.Context, userID string) ([]*domain.BorrowRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+borrowColumns+` FROM borrow_records WHERE user_id = ? ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectBorrowRecords(rows)
}

func collectBorrowRecords(rows *sql.Rows) ([]*domain.BorrowRecord, error) {
	var recs []*domain.BorrowRecord
	for rows.Next() {
		r, err := scanBorrowRecord(rows)
		if err != nil {
			return nil, err
		}
		recs = append(recs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return recs, nil
}

// CountBorrowRecords returns the total number of borrow records.
func (s *Store) CountBorrowRecords(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM borrow_records`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountBorrowRecordsByStatus returns borrow record counts grouped by status.
func (s *Store) CountBorrowRecordsByStatus(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM borrow_records GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
