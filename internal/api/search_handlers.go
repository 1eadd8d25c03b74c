package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/shelfmark/shelfmark-server/internal/search"
)

func (s *Server) registerCatalogRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "searchBooks",
		Method:      http.MethodGet,
		Path:        "/api/v1/books/search",
		Summary:     "Search the catalog",
		Description: "Relevance-ranked full-text search over books",
		Tags:        []string{"Catalog"},
	}, s.handleSearchBooks)
}

// SearchBooksInput contains the catalog search parameters.
type SearchBooksInput struct {
	Query  string `query:"q" doc:"Search query"`
	Genre  string `query:"genre" doc:"Exact genre filter"`
	Limit  int    `query:"limit" minimum:"0" maximum:"100" doc:"Page size"`
	Offset int    `query:"offset" minimum:"0" doc:"Result offset"`
}

// SearchBooksOutput wraps the catalog search result for Huma.
type SearchBooksOutput struct {
	Body search.SearchResult
}

func (s *Server) handleSearchBooks(ctx context.Context, input *SearchBooksInput) (*SearchBooksOutput, error) {
	result, err := s.services.Search.Search(ctx, search.SearchParams{
		Query:  input.Query,
		Genre:  input.Genre,
		Limit:  input.Limit,
		Offset: input.Offset,
	})
	if err != nil {
		return nil, err
	}
	return &SearchBooksOutput{Body: *result}, nil
}
