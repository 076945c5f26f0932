// Package search provides ranked full-text search over the KPI catalogue
// using an in-memory Bleve index. Metrics, glossary terms and mappings share
// one index and are told apart by document type.
package search

import (
	"strconv"

	"github.com/termalign/termalign-server/internal/domain"
)

// DocType represents the type of document in the unified index.
type DocType string

// Document types for the search index.
const (
	DocTypeMetric   DocType = "metric"
	DocTypeGlossary DocType = "glossary"
	DocTypeMapping  DocType = "mapping"
)

// DocTypes lists every document type in the index.
var DocTypes = []DocType{DocTypeMetric, DocTypeGlossary, DocTypeMapping}

// SearchDocument is the unified document structure for the Bleve index.
//
// Team names and definitions are flattened onto the document so one query
// reaches every text a department wrote about the concept.
type SearchDocument struct {
	ID       string  `json:"id"` // metric-3, glossary-1, mapping-2
	Type     DocType `json:"type"`
	EntityID int     `json:"entity_id"` // catalogue id within its type

	// Metric name, glossary term name, or the Sales term of a mapping.
	Name string `json:"name"`

	Teams          []string `json:"teams,omitempty"`
	Definitions    []string `json:"definitions,omitempty"`
	Recommendation string   `json:"recommendation,omitempty"`
	RelatedTerms   []string `json:"related_terms,omitempty"`

	// Severity for metrics, alignment status for mappings.
	Severity string `json:"severity,omitempty"`
}

// ToMap converts the document to a map whose keys match the index mapping.
func (d *SearchDocument) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"id":        d.ID,
		"type":      string(d.Type),
		"entity_id": d.EntityID,
		"name":      d.Name,
	}

	if len(d.Teams) > 0 {
		m["teams"] = d.Teams
	}
	if len(d.Definitions) > 0 {
		m["definitions"] = d.Definitions
	}
	if d.Recommendation != "" {
		m["recommendation"] = d.Recommendation
	}
	if len(d.RelatedTerms) > 0 {
		m["related_terms"] = d.RelatedTerms
	}
	if d.Severity != "" {
		m["severity"] = d.Severity
	}

	return m
}

func docID(t DocType, id int) string {
	return string(t) + "-" + strconv.Itoa(id)
}

// MetricToSearchDocument converts a conflicting metric.
func MetricToSearchDocument(m domain.ConflictingMetric) *SearchDocument {
	defs := make([]string, len(m.Definitions))
	for i, d := range m.Definitions {
		defs[i] = d.Definition
	}
	return &SearchDocument{
		ID:             docID(DocTypeMetric, m.ID),
		Type:           DocTypeMetric,
		EntityID:       m.ID,
		Name:           m.Name,
		Teams:          m.TeamNames(),
		Definitions:    defs,
		Recommendation: m.Recommendation,
		Severity:       string(m.Severity),
	}
}

// GlossaryToSearchDocument converts a standardised glossary term.
func GlossaryToSearchDocument(g domain.GlossaryTerm) *SearchDocument {
	return &SearchDocument{
		ID:           docID(DocTypeGlossary, g.ID),
		Type:         DocTypeGlossary,
		EntityID:     g.ID,
		Name:         g.Name,
		Teams:        []string{string(g.Team)},
		Definitions:  []string{g.Definition},
		RelatedTerms: g.RelatedTerms,
	}
}

// MappingToSearchDocument converts a cross-department mapping. Every
// department's term is searchable; the Sales term names the hit.
func MappingToSearchDocument(mp domain.MetricMapping) *SearchDocument {
	doc := &SearchDocument{
		ID:       docID(DocTypeMapping, mp.ID),
		Type:     DocTypeMapping,
		EntityID: mp.ID,
		Name:     mp.Sales.Term,
		Teams: []string{
			string(domain.TeamSales), string(domain.TeamMarketing),
			string(domain.TeamProduct), string(domain.TeamData),
		},
		Severity: string(mp.AlignmentStatus),
	}
	for _, t := range mp.Terms() {
		doc.RelatedTerms = append(doc.RelatedTerms, t.Term)
		doc.Definitions = append(doc.Definitions, t.Definition)
	}
	return doc
}
