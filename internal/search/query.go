package search

import (
	"context"
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"
)

// SearchParams controls one catalog search.
type SearchParams struct {
	Query  string
	Genre  string // Optional exact genre filter
	Limit  int
	Offset int
}

// DefaultLimit bounds a search page when the caller does not say.
const DefaultLimit = 20

// SearchHit is one matching book.
type SearchHit struct {
	ID     string  `json:"id"`
	Score  float64 `json:"score"`
	Title  string  `json:"title"`
	Author string  `json:"author"`
	Genre  string  `json:"genre"`
	Rating float64 `json:"rating"`
}

// SearchResult carries the hits plus totals.
type SearchResult struct {
	Query  string      `json:"query"`
	Total  uint64      `json:"total"`
	TookMs int64       `json:"took_ms"`
	Hits   []SearchHit `json:"hits"`
}

// Search runs a relevance-ranked catalog search.
func (s *SearchIndex) Search(ctx context.Context, params SearchParams) (*SearchResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if params.Limit <= 0 {
		params.Limit = DefaultLimit
	}

	searchRequest := bleve.NewSearchRequestOptions(buildSearchQuery(params), params.Limit, params.Offset, false)
	searchRequest.Fields = []string{"id", "title", "author", "genre", "rating"}

	searchResult, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	result := &SearchResult{
		Query:  params.Query,
		Total:  searchResult.Total,
		TookMs: searchResult.Took.Milliseconds(),
		Hits:   make([]SearchHit, 0, len(searchResult.Hits)),
	}

	for _, hit := range searchResult.Hits {
		searchHit := SearchHit{
			ID:    hit.ID,
			Score: hit.Score,
		}
		if t, ok := hit.Fields["title"].(string); ok {
			searchHit.Title = t
		}
		if a, ok := hit.Fields["author"].(string); ok {
			searchHit.Author = a
		}
		if g, ok := hit.Fields["genre"].(string); ok {
			searchHit.Genre = g
		}
		if r, ok := hit.Fields["rating"].(float64); ok {
			searchHit.Rating = r
		}
		result.Hits = append(result.Hits, searchHit)
	}

	return result, nil
}

// buildSearchQuery constructs the Bleve query from params.
// An empty query matches everything, so the catalog can browse by genre
// alone. Text queries combine analyzed match with prefix so partially typed
// titles still hit.
func buildSearchQuery(params SearchParams) query.Query {
	var base query.Query
	if params.Query == "" {
		base = bleve.NewMatchAllQuery()
	} else {
		match := bleve.NewMatchQuery(params.Query)
		match.SetBoost(2.0)

		prefix := bleve.NewPrefixQuery(params.Query)

		base = bleve.NewDisjunctionQuery(match, prefix)
	}

	if params.Genre == "" {
		return base
	}

	genreQuery := bleve.NewTermQuery(params.Genre)
	genreQuery.SetField("genre")
	return bleve.NewConjunctionQuery(base, genreQuery)
}
