package search

import (
	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/simple"
	"github.com/blevesearch/bleve/v2/analysis/lang/en"
	"github.com/blevesearch/bleve/v2/mapping"
)

// buildIndexMapping creates the Bleve index mapping for catalogue documents.
//
// Names and definitions get English stemming so "retained" finds
// "retention". Team names use the simple analyzer; type and severity are
// exact keywords for filtering and faceting.
func buildIndexMapping() mapping.IndexMapping {
	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultAnalyzer = en.AnalyzerName

	docMapping := bleve.NewDocumentMapping()

	// --- Text fields ---

	nameFieldMapping := bleve.NewTextFieldMapping()
	nameFieldMapping.Analyzer = en.AnalyzerName
	nameFieldMapping.Store = true
	nameFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("name", nameFieldMapping)

	defsFieldMapping := bleve.NewTextFieldMapping()
	defsFieldMapping.Analyzer = en.AnalyzerName
	defsFieldMapping.Store = true
	defsFieldMapping.IncludeTermVectors = true // For highlighting
	docMapping.AddFieldMappingsAt("definitions", defsFieldMapping)

	recFieldMapping := bleve.NewTextFieldMapping()
	recFieldMapping.Analyzer = en.AnalyzerName
	recFieldMapping.Store = false
	docMapping.AddFieldMappingsAt("recommendation", recFieldMapping)

	relatedFieldMapping := bleve.NewTextFieldMapping()
	relatedFieldMapping.Analyzer = en.AnalyzerName
	relatedFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("related_terms", relatedFieldMapping)

	teamsFieldMapping := bleve.NewTextFieldMapping()
	teamsFieldMapping.Analyzer = simple.Name
	teamsFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("teams", teamsFieldMapping)

	// --- Keyword fields ---

	typeFieldMapping := bleve.NewTextFieldMapping()
	typeFieldMapping.Analyzer = keyword.Name
	typeFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("type", typeFieldMapping)

	idFieldMapping := bleve.NewTextFieldMapping()
	idFieldMapping.Analyzer = keyword.Name
	docMapping.AddFieldMappingsAt("id", idFieldMapping)

	severityFieldMapping := bleve.NewTextFieldMapping()
	severityFieldMapping.Analyzer = keyword.Name
	severityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("severity", severityFieldMapping)

	// --- Numeric fields ---

	entityFieldMapping := bleve.NewNumericFieldMapping()
	entityFieldMapping.Store = true
	docMapping.AddFieldMappingsAt("entity_id", entityFieldMapping)

	indexMapping.AddDocumentMapping("_default", docMapping)

	return indexMapping
}
