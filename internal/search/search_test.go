package search

import (
	"context"
	"testing"
	"time"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()
	idx, err := NewSearchIndex(Options{DataPath: t.TempDir()})
	if err != nil {
		t.Fatalf("NewSearchIndex: %v", err)
	}
	t.Cleanup(func() { idx.Close() })
	return idx
}

func indexTestBook(t *testing.T, idx *SearchIndex, id, title, author, genre string) {
	t.Helper()
	book := &domain.Book{
		Record: domain.Record{ID: id, CreatedAt: time.Now()},
		Title:  title,
		Author: author,
		Genre:  genre,
		Rating: 4,
	}
	if err := idx.IndexBook(context.Background(), book); err != nil {
		t.Fatalf("IndexBook: %v", err)
	}
}

func TestSearchBasic(t *testing.T) {
	idx := setupTestIndex(t)
	indexTestBook(t, idx, "book-1", "The Left Hand of Darkness", "Ursula K. Le Guin", "Science Fiction")
	indexTestBook(t, idx, "book-2", "Gardening for Beginners", "Alan Marsh", "Hobbies")

	res, err := idx.Search(context.Background(), SearchParams{Query: "darkness"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("Total: got %d, want 1", res.Total)
	}
	if res.Hits[0].ID != "book-1" {
		t.Errorf("hit: got %q, want book-1", res.Hits[0].ID)
	}
	if res.Hits[0].Title != "The Left Hand of Darkness" {
		t.Errorf("title not stored: got %q", res.Hits[0].Title)
	}
}

func TestSearchByAuthor(t *testing.T) {
	idx := setupTestIndex(t)
	indexTestBook(t, idx, "book-1", "The Dispossessed", "Ursula K. Le Guin", "Science Fiction")

	res, err := idx.Search(context.Background(), SearchParams{Query: "le guin"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 {
		t.Errorf("Total: got %d, want 1", res.Total)
	}
}

func TestSearchGenreFilter(t *testing.T) {
	idx := setupTestIndex(t)
	indexTestBook(t, idx, "book-1", "Dune", "Frank Herbert", "Science Fiction")
	indexTestBook(t, idx, "book-2", "Dune Landscapes", "Pat Shore", "Photography")

	res, err := idx.Search(context.Background(), SearchParams{Query: "dune", Genre: "Photography"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 {
		t.Fatalf("Total: got %d, want 1", res.Total)
	}
	if res.Hits[0].ID != "book-2" {
		t.Errorf("hit: got %q, want book-2", res.Hits[0].ID)
	}

	// Empty query with a genre filter browses that genre.
	res, err = idx.Search(context.Background(), SearchParams{Genre: "Science Fiction"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 1 || res.Hits[0].ID != "book-1" {
		t.Errorf("genre browse: got %v", res.Hits)
	}
}

func TestDeleteBook(t *testing.T) {
	idx := setupTestIndex(t)
	indexTestBook(t, idx, "book-1", "Ephemeral", "Nobody", "Fiction")

	if err := idx.DeleteBook(context.Background(), "book-1"); err != nil {
		t.Fatalf("DeleteBook: %v", err)
	}

	res, err := idx.Search(context.Background(), SearchParams{Query: "ephemeral"})
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if res.Total != 0 {
		t.Errorf("Total: got %d, want 0", res.Total)
	}
}

func TestIndexBooksBatch(t *testing.T) {
	idx := setupTestIndex(t)

	books := []*domain.Book{
		{Record: domain.Record{ID: "book-1", CreatedAt: time.Now()}, Title: "One", Author: "A", Genre: "G"},
		{Record: domain.Record{ID: "book-2", CreatedAt: time.Now()}, Title: "Two", Author: "B", Genre: "G"},
	}
	if err := idx.IndexBooks(context.Background(), books); err != nil {
		t.Fatalf("IndexBooks: %v", err)
	}

	count, err := idx.DocumentCount()
	if err != nil {
		t.Fatalf("DocumentCount: %v", err)
	}
	if count != 2 {
		t.Errorf("DocumentCount: got %d, want 2", count)
	}
}
