package sqlite

import (
	"context"
	"database/sql"

	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, created_at, full_name, email, university_id,
	university_card, password_hash, role`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		createdAt string
		passwordH sql.NullString
		role      string
	)

	err := scanner.Scan(
		&u.ID,
		&createdAt,
		&u.FullName,
		&u.Email,
		&u.UniversityID,
		&u.UniversityCard,
		&passwordH,
		&role,
	)
	if err != nil {
		return nil, err
	}

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	if passwordH.Valid {
		u.PasswordHash = passwordH.String
	}
	u.Role = domain.Role(role)

	return &u, nil
}

// CreateUser inserts a new user into the database.
// Returns store.ErrAlreadyExists if the user ID or email already exists.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (
			id, created_at, full_name, email, email_lower,
			university_id, university_card, password_hash, role
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		formatTime(user.CreatedAt),
		user.FullName,
		user.Email,
		user.EmailKey(),
		user.UniversityID,
		user.UniversityCard,
		nullString(user.PasswordHash),
		string(user.Role),
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return store.ErrAlreadyExists
		}
		return err
	}
	return nil
}

// GetUser retrieves a user by ID.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// GetUserByEmail retrieves a user by email, case-insensitively.
// Returns store.ErrNotFound if the user does not exist.
func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	lookup := domain.User{Email: email}
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email_lower = ?`, lookup.EmailKey())

	u, err := scanUser(row)
	if err == sql.ErrNoRows {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

// UpdateUser performs a full row update on an existing user.
// Returns store.ErrNotFound if the user does not exist, and
// store.ErrAlreadyExists if the new email collides with another user's.
func (s *Store) UpdateUser(ctx context.Context, user *domain.User) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE users SET
			full_name = ?,
			email = ?,
			email_lower = ?,
			university_id = ?,
			university_card = ?,
			password_hash = ?,
			role = ?
		WHERE id = ?`,
		user.FullName,
		user.Email,
		user.EmailKey(),
		user.UniversityID,
		user.UniversityCard,
		nullString(user.PasswordHash),
		string(user.Role),
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err, "email_lower") {
			return store.ErrAlreadyExists
		}
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

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return users, nil
}

// CountUsers returns the total number of users.
func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&count)
	if err != nil {
		return 0, err
	}
	return count, nil
}
