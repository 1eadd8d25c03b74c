package sqlite

import (
	"context"
	"database/sql"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// bookColumns is the ordered list of columns selected in book queries.
// Must match the scan order in scanBook.
const bookColumns = `id, created_at, title, author, genre, rating,
	total_copies, available_copies, description, cover_color, cover_url,
	video_url, summary`

// scanBook scans a sql.Row (or sql.Rows via its Scan method) into a domain.Book.
func scanBook(scanner interface{ Scan(dest ...any) error }) (*domain.Book, error) {
	var b domain.Book

	var (
		createdAt   string
		description sql.NullString
		coverColor  sql.NullString
		coverURL    sql.NullString
		videoURL    sql.NullString
		summary     sql.NullString
	)

	err := scanner.Scan(
		&b.ID,
		&createdAt,
		&b.Title,
		&b.Author,
		&b.Genre,
		&b.Rating,
		&b.TotalCopies,
		&b.AvailableCopies,
		&description,
		&coverColor,
		&coverURL,
		&videoURL,
		&summary,
	)
	if err != nil {
		return nil, err
	}

	b.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	b.Description = description.String
	b.CoverColor = coverColor.String
	b.CoverURL = coverURL.String
	b.VideoURL = videoURL.String
	b.Summary = summary.String

	return &b, nil
}

// CreateBook inserts a new book into the database.
// Returns store.ErrAlreadyExists if the book ID already exists.
func (s *Store) CreateBook(ctx context.Context, book *domain.Book) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO books (
			id, created_at, title, author, genre, rating,
			total_copies, available_copies, description, cover_color,
			cover_url, video_url, summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		book.ID,
		formatTime(book.CreatedAt),
		book.Title,
		book.Author,
		book.Genre,
		book.Rating,
		book.TotalCopies,
		book.AvailableCopies,
		nullString(book.Description),
		nullString(book.CoverColor),
		nullString(book.CoverURL),
		nullString(book.VideoURL),
		nullString(book.Summary),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetBook retrieves a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) GetBook(ctx context.Context, id string) (*domain.Book, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+bookColumns+` FROM books WHERE id = ?`, id)

	b, err := scanBook(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return b, nil
}

// UpdateBook performs a full row update on an existing book.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) UpdateBook(ctx context.Context, book *domain.Book) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE books SET
			title = ?,
			author = ?,
			genre = ?,
			rating = ?,
			total_copies = ?,
			available_copies = ?,
			description = ?,
			cover_color = ?,
			cover_url = ?,
			video_url = ?,
			summary = ?
		WHERE id = ?`,
		book.Title,
		book.Author,
		book.Genre,
		book.Rating,
		book.TotalCopies,
		book.AvailableCopies,
		nullString(book.Description),
		nullString(book.CoverColor),
		nullString(book.CoverURL),
		nullString(book.VideoURL),
		nullString(book.Summary),
		book.ID,
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

// DeleteBook removes a book by ID.
// Returns store.ErrNotFound if the book does not exist.
func (s *Store) DeleteBook(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, `DELETE FROM books WHERE id = ?`, id)
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

// ListBooks returns all books, newest first.
func (s *Store) ListBooks(ctx context.Context) ([]*domain.Book, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+bookColumns+` FROM books ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var books []*domain.Book
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, err
		}
		books = append(books, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return books, nil
}

// CountBooks returns the total number of books.
func (s *Store) CountBooks(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM books`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountBooksByGenre returns book counts grouped by genre.
func (s *Store) CountBooksByGenre(ctx context.Context) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT genre, COUNT(*) FROM books GROUP BY genre`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var genre string
		var count int
		if err := rows.Scan(&genre, &count); err != nil {
			return nil, err
		}
		counts[genre] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}
