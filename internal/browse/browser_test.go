package browse

import (
	"fmt"
	"testing"
	"time"
)

type row struct {
	ID     string
	Title  string
	Rating float64
	Due    *time.Time
}

func testColumns() []Column[row] {
	return []Column[row]{
		{Name: "title", Label: "Title", Searchable: true, Value: func(r row) (any, bool) {
			return r.Title, true
		}},
		{Name: "rating", Label: "Rating", Value: func(r row) (any, bool) {
			return r.Rating, true
		}},
		{Name: "due", Label: "Due Date", Searchable: true, Value: func(r row) (any, bool) {
			if r.Due == nil {
				return nil, false
			}
			return *r.Due, true
		}},
	}
}

func makeRows(n int) []row {
	rows := make([]row, n)
	for i := range rows {
		rows[i] = row{
			ID:     fmt.Sprintf("row-%02d", i+1),
			Title:  fmt.Sprintf("Book %02d", i+1),
			Rating: float64(i % 5),
		}
	}
	return rows
}

func visibleIDs(b *Browser[row]) []string {
	var ids []string
	for _, r := range b.VisibleRows() {
		ids = append(ids, r.ID)
	}
	return ids
}

func TestPagination(t *testing.T) {
	b := New(testColumns(), 7, makeRows(15))

	if got := b.TotalPages(); got != 3 {
		t.Errorf("TotalPages: got %d, want 3", got)
	}
	if got := len(b.VisibleRows()); got != 7 {
		t.Errorf("page 1 length: got %d, want 7", got)
	}

	b.SetPage(3)
	if got := len(b.VisibleRows()); got != 1 {
		t.Errorf("page 3 length: got %d, want 1", got)
	}
	if b.VisibleRows()[0].ID != "row-15" {
		t.Errorf("page 3: got %q, want row-15", b.VisibleRows()[0].ID)
	}
}

func TestSetPageClamps(t *testing.T) {
	b := New(testColumns(), 7, makeRows(15))

	b.SetPage(0)
	if b.Page() != 1 {
		t.Errorf("SetPage(0): got %d, want 1", b.Page())
	}
	b.SetPage(-3)
	if b.Page() != 1 {
		t.Errorf("SetPage(-3): got %d, want 1", b.Page())
	}
	b.SetPage(99)
	if b.Page() != 3 {
		t.Errorf("SetPage(99): got %d, want 3", b.Page())
	}
}

func TestEmptyTableHasOnePage(t *testing.T) {
	b := New(testColumns(), 7, nil)

	if b.TotalPages() != 1 {
		t.Errorf("TotalPages: got %d, want 1", b.TotalPages())
	}
	b.SetPage(5)
	if b.Page() != 1 {
		t.Errorf("Page: got %d, want 1", b.Page())
	}
	if rows := b.VisibleRows(); len(rows) != 0 {
		t.Errorf("VisibleRows: got %d rows, want 0", len(rows))
	}
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	rows := []row{
		{ID: "a", Title: "Atomic Habits"},
		{ID: "b", Title: "The Pragmatic Programmer"},
		{ID: "c", Title: "Subatomic Physics"},
	}
	b := New(testColumns(), 10, rows)

	b.SetSearchTerm("ATOMIC")
	got := visibleIDs(b)
	want := []string{"a", "c"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got %v, want %v", got, want)
		}
	}
	if b.TotalFiltered() != 2 {
		t.Errorf("TotalFiltered: got %d, want 2", b.TotalFiltered())
	}
}

func TestSearchResetsPage(t *testing.T) {
	b := New(testColumns(), 7, makeRows(15))
	b.SetPage(3)

	b.SetSearchTerm("book")
	if b.Page() != 1 {
		t.Errorf("Page after search: got %d, want 1", b.Page())
	}

	// Clearing the search also resets.
	b.SetPage(2)
	b.SetSearchTerm("")
	if b.Page() != 1 {
		t.Errorf("Page after clearing search: got %d, want 1", b.Page())
	}
}

func TestSearchSkipsNonSearchableColumns(t *testing.T) {
	rows := []row{{ID: "a", Title: "Something", Rating: 3}}
	b := New(testColumns(), 10, rows)

	// Rating is not searchable, so "3" must not match through it.
	b.SetSearchTerm("3")
	if n := b.TotalFiltered(); n != 0 {
		t.Errorf("TotalFiltered: got %d, want 0", n)
	}
}

func TestSortToggle(t *testing.T) {
	rows := []row{
		{ID: "b", Title: "banana"},
		{ID: "a", Title: "Apple"},
		{ID: "c", Title: "cherry"},
	}
	b := New(testColumns(), 10, rows)

	b.SetSort("title")
	got := visibleIDs(b)
	want := []string{"a", "b", "c"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("asc: got %v, want %v", got, want)
		}
	}

	// Same column toggles to descending.
	b.SetSort("title")
	got = visibleIDs(b)
	want = []string{"c", "b", "a"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("desc: got %v, want %v", got, want)
		}
	}

	// Switching to a new column starts ascending again.
	b.SetSort("rating")
	if field, dir := b.Sort(); field != "rating" || dir != Asc {
		t.Errorf("Sort: got %s/%s, want rating/asc", field, dir)
	}
}

func TestSortResetsPage(t *testing.T) {
	b := New(testColumns(), 7, makeRows(15))
	b.SetPage(2)

	b.SetSort("title")
	if b.Page() != 1 {
		t.Errorf("Page after sort: got %d, want 1", b.Page())
	}
}

func TestSortNullsLastBothDirections(t *testing.T) {
	early := time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)
	late := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	rows := []row{
		{ID: "null-1"},
		{ID: "late", Due: &late},
		{ID: "null-2"},
		{ID: "early", Due: &early},
	}
	b := New(testColumns(), 10, rows)

	b.SetSort("due")
	got := visibleIDs(b)
	want := []string{"early", "late", "null-1", "null-2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("asc: got %v, want %v", got, want)
		}
	}

	b.SetSort("due")
	got = visibleIDs(b)
	// Non-nulls reverse; nulls stay last and keep their input order.
	want = []string{"late", "early", "null-1", "null-2"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("desc: got %v, want %v", got, want)
		}
	}
}

func TestSortIsStable(t *testing.T) {
	rows := []row{
		{ID: "first", Title: "same"},
		{ID: "second", Title: "same"},
		{ID: "third", Title: "same"},
	}
	b := New(testColumns(), 10, rows)

	b.SetSort("title")
	got := visibleIDs(b)
	want := []string{"first", "second", "third"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}

func TestSortDoesNotMutateSource(t *testing.T) {
	rows := []row{
		{ID: "b", Title: "banana"},
		{ID: "a", Title: "apple"},
	}
	b := New(testColumns(), 10, rows)

	b.SetSort("title")
	b.VisibleRows()

	if rows[0].ID != "b" || rows[1].ID != "a" {
		t.Errorf("source slice reordered: %v", []string{rows[0].ID, rows[1].ID})
	}
}

func TestSetRowsReclampsPage(t *testing.T) {
	b := New(testColumns(), 7, makeRows(15))
	b.SetPage(3)

	// Shrinking the snapshot pulls the page back into range.
	b.SetRows(makeRows(5))
	if b.Page() != 1 {
		t.Errorf("Page after shrink: got %d, want 1", b.Page())
	}
	if b.TotalPages() != 1 {
		t.Errorf("TotalPages: got %d, want 1", b.TotalPages())
	}
}

func TestSearchMatchesFormattedDates(t *testing.T) {
	due := time.Date(2026, time.March, 5, 0, 0, 0, 0, time.UTC)
	rows := []row{
		{ID: "a", Title: "Dated", Due: &due},
		{ID: "b", Title: "Undated"},
	}
	b := New(testColumns(), 10, rows)

	b.SetSearchTerm("mar 5")
	got := visibleIDs(b)
	if len(got) != 1 || got[0] != "a" {
		t.Errorf("got %v, want [a]", got)
	}
}

func TestIndexByID(t *testing.T) {
	rows := makeRows(3)
	idx := IndexByID(rows, func(r row) string { return r.ID })

	if len(idx) != 3 {
		t.Fatalf("len: got %d, want 3", len(idx))
	}
	if idx["row-02"].Title != "Book 02" {
		t.Errorf("row-02: got %q, want %q", idx["row-02"].Title, "Book 02")
	}
}
