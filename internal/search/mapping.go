package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"

	"github.com/shelfmark/shelfmark-server/internal/domain"
)

// bookToDocument flattens a book to the map shape the mapping expects.
// Field names must stay lowercase to match buildIndexMapping.
func bookToDocument(b *domain.Book) map[string]any {
	return map[string]any{
		"id":          b.ID,
		"title":       b.Title,
		"author":      b.Author,
		"genre":       b.Genre,
		"description": b.Description,
		"summary":     b.Summary,
		"rating":      b.Rating,
		"available":   b.AvailableCopies,
		"created_at":  b.CreatedAt.Unix(),
	}
}

// buildIndexMapping creates the Bleve index mapping for book documents.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// Title - primary search target.
	titleFieldMapping := bleve.NewTextFieldMapping()
	titleFieldMapping.Analyzer = en.AnalyzerName
	titleFieldMapping.Store = true
	titleFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("title", titleFieldMapping)

	// Author - searchable.
	authorFieldMapping := bleve.NewTextFieldMapping()
	authorFieldMapping.Analyzer = en.AnalyzerName
	authorFieldMapping.Store = true
	authorFieldMapping.IncludeTermVectors = true
	docMapping.AddFieldMappingsAt("author", authorFieldMapping)

	// Description and summary - searchable but not stored (too large).
	descFieldMapping := bleve.NewTextFieldMapping()
	descFieldMapping.Analyzer = en.AnalyzerName
	descFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("description", descFieldMapping)

	summaryFieldMapping := bleve.NewTextFieldMapping()
	summaryFieldMapping.Analyzer = en.AnalyzerName
	summaryFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("summary", summaryFieldMapping)

	// Genre - exact match for filtering.
	genreFieldMapping := bleve.NewTextFieldMapping()
	genreFieldMapping.Analyzer = keyword.Name
	genreFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("genre", genreFieldMapping)

	// ID - stored, not analyzed.
	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	// Numerics for range filtering and sorting.
	ratingFieldMapping := bleve.NewNumericFieldMapping()
	ratingFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("rating", ratingFieldMapping)

	availableFieldMapping := bleve.NewNumericFieldMapping()
	availableFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("available", availableFieldMapping)

	createdAtFieldMapping := bleve.NewNumericFieldMapping()
	createdAtFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("created_at", createdAtFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)
	return indexMapping
}
