package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/browse"
	"github.com/shelfmark/shelfmark-server/internal/domain"
	"github.com/shelfmark/shelfmark-server/internal/service"
)

func (s *Server) registerBookRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/books",
		Summary:     "List books",
		Description: "One page of the admin book table, with search and sort",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleListBooks)

	huma.Register(s.api, huma.Operation{
		OperationID: "getBook",
		Method:      http.MethodGet,
		Path:        "/api/v1/admin/books/{id}",
		Summary:     "Get book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleGetBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "createBook",
		Method:      http.MethodPost,
		Path:        "/api/v1/admin/books",
		Summary:     "Create book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleCreateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBook",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/books/{id}",
		Summary:     "Update book",
		Description: "Full update of a book's editable fields",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBook)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateBookFields",
		Method:      http.MethodPatch,
		Path:        "/api/v1/admin/books/{id}/fields",
		Summary:     "Update book fields",
		Description: "Form-style update: fields arrive as raw strings and are coerced per field, with per-field errors on failure",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleUpdateBookFields)

	huma.Register(s.api, huma.Operation{
		OperationID: "deleteBook",
		Method:      http.MethodDelete,
		Path:        "/api/v1/admin/books/{id}",
		Summary:     "Delete book",
		Tags:        []string{"Books"},
		Security:    []map[string][]string{{"bearer": {}}},
	}, s.handleDeleteBook)
}

// BookResponse contains book data in API responses.
type BookResponse struct {
	ID              string    `json:"id" doc:"Book ID"`
	Title           string    `json:"title" doc:"Title"`
	Author          string    `json:"author" doc:"Author"`
	Genre           string    `json:"genre" doc:"Genre"`
	Rating          float64   `json:"rating" doc:"Rating, 0 to 5"`
	TotalCopies     int       `json:"total_copies" doc:"Copies owned"`
	AvailableCopies int       `json:"available_copies" doc:"Copies on the shelf"`
	Description     string    `json:"description,omitempty" doc:"Short description"`
	CoverColor      string    `json:"cover_color,omitempty" doc:"Cover accent color"`
	CoverURL        string    `json:"cover_url,omitempty" doc:"Cover image URL"`
	VideoURL        string    `json:"video_url,omitempty" doc:"Trailer video URL"`
	Summary         string    `json:"summary,omitempty" doc:"Long summary"`
	CreatedAt       time.Time `json:"created_at" doc:"Creation time"`
}

func toBookResponse(b *domain.Book) BookResponse {
	return BookResponse{
		ID:              b.ID,
		Title:           b.Title,
		Author:          b.Author,
		Genre:           b.Genre,
		Rating:          b.Rating,
		TotalCopies:     b.TotalCopies,
		AvailableCopies: b.AvailableCopies,
		Description:     b.Description,
		CoverColor:      b.CoverColor,
		CoverURL:        b.CoverURL,
		VideoURL:        b.VideoURL,
		Summary:         b.Summary,
		CreatedAt:       b.CreatedAt,
	}
}

// ListBooksInput contains the admin book table controls.
type ListBooksInput struct {
	Authorization string `header:"Authorization"`
	TableQuery
}

// BookTableOutput wraps one page of the book table for Huma.
type BookTableOutput struct {
	Body TablePage[BookResponse]
}

func (s *Server) handleListBooks(ctx context.Context, input *ListBooksInput) (*BookTableOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	books, err := s.services.Admin.ListBooks(ctx)
	if err != nil {
		return nil, err
	}

	b := browse.New(bookColumns(), browse.BooksPageSize, books)
	applyTableQuery(b, input.TableQuery)

	out := tablePage(b, toBookResponse)
	return &BookTableOutput{Body: out}, nil
}

// GetBookInput identifies one book.
type GetBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// BookOutput wraps a single book response for Huma.
type BookOutput struct {
	Body BookResponse
}

func (s *Server) handleGetBook(ctx context.Context, input *GetBookInput) (*BookOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Admin.GetBook(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

// CreateBookInput wraps the create request for Huma.
type CreateBookInput struct {
	Authorization string `header:"Authorization"`
	Body          service.BookInput
}

func (s *Server) handleCreateBook(ctx context.Context, input *CreateBookInput) (*BookOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Admin.CreateBook(ctx, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

// UpdateBookInput wraps the update request for Huma.
type UpdateBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
	Body          service.BookInput
}

func (s *Server) handleUpdateBook(ctx context.Context, input *UpdateBookInput) (*BookOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Admin.EditBook(ctx, input.ID, input.Body)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

// FieldEditInput carries raw string field edits, as submitted by a form.
type FieldEditInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Record ID"`
	Body          struct {
		Fields map[string]string `json:"fields" doc:"Field name to raw string value"`
	}
}

func (s *Server) handleUpdateBookFields(ctx context.Context, input *FieldEditInput) (*BookOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	book, err := s.services.Admin.EditBookFields(ctx, input.ID, input.Body.Fields)
	if err != nil {
		return nil, err
	}
	return &BookOutput{Body: toBookResponse(book)}, nil
}

// DeleteBookInput identifies the book to delete.
type DeleteBookInput struct {
	Authorization string `header:"Authorization"`
	ID            string `path:"id" doc:"Book ID"`
}

// DeleteOutput is an empty success body.
type DeleteOutput struct {
	Body struct {
		Deleted bool `json:"deleted" doc:"Whether the record was removed"`
	}
}

func (s *Server) handleDeleteBook(ctx context.Context, input *DeleteBookInput) (*DeleteOutput, error) {
	if _, err := s.requireAdmin(ctx, input.Authorization); err != nil {
		return nil, err
	}

	if err := s.services.Admin.DeleteBook(ctx, input.ID); err != nil {
		return nil, err
	}
	out := &DeleteOutput{}
	out.Body.Deleted = true
	return out, nil
}
