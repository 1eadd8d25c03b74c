package api

import (
	"github.com/shelfmark/shelfmark-server/internal/browse"
	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// TableQuery carries the shared table controls of the admin list endpoints.
type TableQuery struct {
	Search string `query:"search" doc:"Case-insensitive substring filter"`
	Sort   string `query:"sort" doc:"Column to sort by"`
	Dir    string `query:"dir" enum:"asc,desc" default:"asc" doc:"Sort direction"`
	Page   int    `query:"page" minimum:"0" doc:"1-based page number"`
}

// applyTableQuery drives a fresh browser with the request's controls.
// Order matters: search and sort reset the page, so the page lands last.
func applyTableQuery[T any](b *browse.Browser[T], q TableQuery) {
	if q.Search != "" {
		b.SetSearchTerm(q.Search)
	}
	if q.Sort != "" {
		b.SetSortDirection(q.Sort, browse.SortDirection(q.Dir))
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	b.SetPage(page)
}

// TablePage is one page of an admin table.
type TablePage[R any] struct {
	Rows       []R `json:"rows" doc:"Rows on this page"`
	Page       int `json:"page" doc:"Current page, clamped to range"`
	TotalPages int `json:"total_pages" doc:"Page count for the filtered rows"`
	Total      int `json:"total" doc:"Filtered row count"`
}

func tablePage[T, R any](b *browse.Browser[T], render func(T) R) TablePage[R] {
	visible := b.VisibleRows()
	rows := make([]R, 0, len(visible))
	for _, row := range visible {
		rows = append(rows, render(row))
	}
	return TablePage[R]{
		Rows:       rows,
		Page:       b.Page(),
		TotalPages: b.TotalPages(),
		Total:      b.TotalFiltered(),
	}
}

// bookColumns defines the admin book table: search covers title, author, and
// genre.
func bookColumns() []browse.Column[*domain.Book] {
	return []browse.Column[*domain.Book]{
		{Name: "title", Label: "Title", Searchable: true, Value: func(b *domain.Book) (any, bool) {
			return b.Title, true
		}},
		{Name: "author", Label: "Author", Searchable: true, Value: func(b *domain.Book) (any, bool) {
			return b.Author, true
		}},
		{Name: "genre", Label: "Genre", Searchable: true, Value: func(b *domain.Book) (any, bool) {
			return b.Genre, true
		}},
		{Name: "rating", Label: "Rating", Value: func(b *domain.Book) (any, bool) {
			return b.Rating, true
		}},
		{Name: "total_copies", Label: "Total Copies", Value: func(b *domain.Book) (any, bool) {
			return b.TotalCopies, true
		}},
		{Name: "available_copies", Label: "Available", Value: func(b *domain.Book) (any, bool) {
			return b.AvailableCopies, true
		}},
		{Name: "created_at", Label: "Added", Value: func(b *domain.Book) (any, bool) {
			return b.CreatedAt, true
		}},
	}
}

// userColumns defines the admin user table: every visible field is searchable.
func userColumns() []browse.Column[*domain.User] {
	return []browse.Column[*domain.User]{
		{Name: "full_name", Label: "Name", Searchable: true, Value: func(u *domain.User) (any, bool) {
			return u.FullName, true
		}},
		{Name: "email", Label: "Email", Searchable: true, Value: func(u *domain.User) (any, bool) {
			return u.Email, true
		}},
		{Name: "university_id", Label: "University ID", Searchable: true, Value: func(u *domain.User) (any, bool) {
			return u.UniversityID, true
		}},
		{Name: "role", Label: "Role", Value: func(u *domain.User) (any, bool) {
			return string(u.Role), true
		}},
		{Name: "created_at", Label: "Joined", Value: func(u *domain.User) (any, bool) {
			return u.CreatedAt, true
		}},
	}
}

// recordRow is a borrow record joined with the names the table displays.
type recordRow struct {
	Rec       *domain.BorrowRecord
	UserName  string
	BookTitle string
}

// recordColumns defines the admin borrow table. Every column is searchable,
// so one term can match a member name, a book title, a date, or a status.
func recordColumns() []browse.Column[recordRow] {
	return []browse.Column[recordRow]{
		{Name: "user", Label: "Member", Searchable: true, Value: func(r recordRow) (any, bool) {
			return r.UserName, true
		}},
		{Name: "book", Label: "Book", Searchable: true, Value: func(r recordRow) (any, bool) {
			return r.BookTitle, true
		}},
		{Name: "borrow_date", Label: "Borrowed", Searchable: true, Value: func(r recordRow) (any, bool) {
			if r.Rec.BorrowDate == nil {
				return nil, false
			}
			return *r.Rec.BorrowDate, true
		}},
		{Name: "due_date", Label: "Due", Searchable: true, Value: func(r recordRow) (any, bool) {
			if r.Rec.DueDate == nil {
				return nil, false
			}
			return *r.Rec.DueDate, true
		}},
		{Name: "return_date", Label: "Returned", Searchable: true, Value: func(r recordRow) (any, bool) {
			if r.Rec.ReturnDate == nil {
				return nil, false
			}
			return *r.Rec.ReturnDate, true
		}},
		{Name: "status", Label: "Status", Searchable: true, Value: func(r recordRow) (any, bool) {
			return string(r.Rec.Status), true
		}},
	}
}

// joinRecordRows resolves record references against id-indexed users and
// books. Dangling references render as empty names rather than failing the
// whole table.
func joinRecordRows(recs []*domain.BorrowRecord, users []*domain.User, books []*domain.Book) []recordRow {
	userByID := browse.IndexByID(users, func(u *domain.User) string { return u.ID })
	bookByID := browse.IndexByID(books, func(b *domain.Book) string { return b.ID })

	rows := make([]recordRow, 0, len(recs))
	for _, rec := range recs {
		row := recordRow{Rec: rec}
		if u, ok := userByID[rec.UserID]; ok {
			row.UserName = u.FullName
		}
		if b, ok := bookByID[rec.BookID]; ok {
			row.BookTitle = b.Title
		}
		rows = append(rows, row)
	}
	return rows
}
