// Package browse implements the generic in-memory table model behind the
// admin dashboard: substring search, stable column sorting, and pagination
// over a snapshot of rows.
package browse

import (
	"sort"
	"strings"
)

// Page sizes for the admin tables.
const (
	BooksPageSize   = 7
	UsersPageSize   = 10
	RecordsPageSize = 10
)

// SortDirection orders a sorted column.
type SortDirection string

const (
	// Asc sorts smallest first.
	Asc SortDirection = "asc"
	// Desc sorts largest first.
	Desc SortDirection = "desc"
)

// Column describes one table column of a row type.
// Value returns the cell value and whether it is present; ok=false means the
// cell is null, which sorts after every non-null value in both directions.
type Column[T any] struct {
	Name       string
	Label      string
	Searchable bool
	Value      func(T) (any, bool)
}

// Browser holds the presentation state of one table: the row snapshot, the
// active search term, the sort column and direction, and the current page.
// It never mutates the rows it is given.
type Browser[T any] struct {
	columns  []Column[T]
	pageSize int

	rows []T

	searchTerm string
	sortField  string
	sortDir    SortDirection
	page       int
}

// New creates a Browser over rows with the given columns and page size.
func New[T any](columns []Column[T], pageSize int, rows []T) *Browser[T] {
	if pageSize < 1 {
		pageSize = 1
	}
	return &Browser[T]{
		columns:  columns,
		pageSize: pageSize,
		rows:     rows,
		page:     1,
	}
}

// SetRows replaces the row snapshot, keeping search, sort, and page state.
// The page is re-clamped against the new row count.
func (b *Browser[T]) SetRows(rows []T) {
	b.rows = rows
	b.SetPage(b.page)
}

// SetSearchTerm filters rows to those whose searchable columns contain term,
// case-insensitively. Changing the term resets to page 1.
func (b *Browser[T]) SetSearchTerm(term string) {
	b.searchTerm = strings.TrimSpace(term)
	b.page = 1
}

// SearchTerm returns the active search term.
func (b *Browser[T]) SearchTerm() string {
	return b.searchTerm
}

// SetSort sorts by the named column. Selecting the already-sorted column
// toggles the direction; a new column starts ascending. Resets to page 1.
func (b *Browser[T]) SetSort(field string) {
	if field == b.sortField {
		if b.sortDir == Asc {
			b.sortDir = Desc
		} else {
			b.sortDir = Asc
		}
	} else {
		b.sortField = field
		b.sortDir = Asc
	}
	b.page = 1
}

// SetSortDirection sets an explicit column and direction, for restoring state
// from query parameters. Resets to page 1.
func (b *Browser[T]) SetSortDirection(field string, dir SortDirection) {
	b.sortField = field
	if dir != Desc {
		dir = Asc
	}
	b.sortDir = dir
	b.page = 1
}

// Sort returns the active sort column and direction. The column is empty when
// the table is unsorted.
func (b *Browser[T]) Sort() (string, SortDirection) {
	return b.sortField, b.sortDir
}

// SetPage moves to page n, clamped to [1, TotalPages()].
func (b *Browser[T]) SetPage(n int) {
	total := b.TotalPages()
	if n < 1 {
		n = 1
	}
	if n > total {
		n = total
	}
	b.page = n
}

// Page returns the current 1-based page number.
func (b *Browser[T]) Page() int {
	return b.page
}

// TotalFiltered returns the number of rows matching the search term.
func (b *Browser[T]) TotalFiltered() int {
	return len(b.filtered())
}

// TotalPages returns the page count for the filtered rows, minimum 1.
func (b *Browser[T]) TotalPages() int {
	n := b.TotalFiltered()
	pages := (n + b.pageSize - 1) / b.pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

// VisibleRows returns the current page of filtered, sorted rows.
func (b *Browser[T]) VisibleRows() []T {
	rows := b.filtered()
	b.sortRows(rows)

	start := (b.page - 1) * b.pageSize
	if start >= len(rows) {
		return nil
	}
	end := start + b.pageSize
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end]
}

// filtered returns a fresh slice of rows matching the search term.
// A copy is always made so sorting never reorders the source snapshot.
func (b *Browser[T]) filtered() []T {
	if b.searchTerm == "" {
		out := make([]T, len(b.rows))
		copy(out, b.rows)
		return out
	}

	term := strings.ToLower(b.searchTerm)
	var out []T
	for _, row := range b.rows {
		if strings.Contains(b.searchText(row), term) {
			out = append(out, row)
		}
	}
	return out
}

// searchText joins the row's searchable cells into one folded string.
// A record matches when the term appears anywhere in that string.
func (b *Browser[T]) searchText(row T) string {
	var sb strings.Builder
	for _, col := range b.columns {
		if !col.Searchable {
			continue
		}
		v, ok := col.Value(row)
		if !ok {
			continue
		}
		if sb.Len() > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(stringify(v))
	}
	return strings.ToLower(sb.String())
}

func (b *Browser[T]) sortRows(rows []T) {
	if b.sortField == "" {
		return
	}
	col := b.column(b.sortField)
	if col == nil {
		return
	}

	desc := b.sortDir == Desc
	sort.SliceStable(rows, func(i, j int) bool {
		vi, oki := col.Value(rows[i])
		vj, okj := col.Value(rows[j])

		// Nulls sort after non-nulls regardless of direction; two nulls
		// keep their input order.
		if !oki || !okj {
			return oki && !okj
		}

		cmp := compareValues(vi, vj)
		if desc {
			return cmp > 0
		}
		return cmp < 0
	})
}

func (b *Browser[T]) column(name string) *Column[T] {
	for i := range b.columns {
		if b.columns[i].Name == name {
			return &b.columns[i]
		}
	}
	return nil
}

// IndexByID builds an id-keyed lookup so row renders can resolve references
// without scanning the whole slice per row.
func IndexByID[T any](rows []T, id func(T) string) map[string]T {
	m := make(map[string]T, len(rows))
	for _, row := range rows {
		m[id(row)] = row
	}
	return m
}
