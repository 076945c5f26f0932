package search

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/domain"
)

// setupTestIndex creates an index filled with the sample catalogue.
func setupTestIndex(t *testing.T) *SearchIndex {
	t.Helper()

	index, err := NewSearchIndex(Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = index.Close() })

	c, err := catalogue.Default()
	require.NoError(t, err)
	require.NoError(t, index.IndexCatalogue(c))

	return index
}

func hitIDs(r *SearchResult) []string {
	ids := make([]string, len(r.Hits))
	for i, h := range r.Hits {
		ids[i] = h.ID
	}
	return ids
}

func TestNewSearchIndex_Empty(t *testing.T) {
	index, err := NewSearchIndex(Options{})
	require.NoError(t, err)
	defer index.Close()

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), count)
}

func TestIndexCatalogue_DocumentCount(t *testing.T) {
	index := setupTestIndex(t)

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(10+5+3), count)
}

func TestSearch_NameMatchRanksFirst(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "churn", Limit: 5, Highlight: true})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)

	top := result.Hits[0]
	assert.Equal(t, "metric-3", top.ID)
	assert.Equal(t, DocTypeMetric, top.Type)
	assert.Equal(t, 3, top.EntityID)
	assert.Equal(t, "Churn Rate", top.Name)
	assert.Equal(t, "High", top.Severity)
	assert.Equal(t, []string{"Sales", "Finance", "Customer Success"}, top.Teams)
	assert.Contains(t, top.Highlights["name"], "<mark>")
}

func TestSearch_StemmedDefinitions(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "renewals", Types: []string{"metric"}})
	require.NoError(t, err)
	assert.Contains(t, hitIDs(result), "metric-7", "Customer Success defines retention by renewal")
}

func TestSearch_TypeFilter(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "lead", Types: []string{"glossary"}})
	require.NoError(t, err)
	require.NotEmpty(t, result.Hits)
	for _, h := range result.Hits {
		assert.Equal(t, DocTypeGlossary, h.Type)
	}
	assert.Contains(t, hitIDs(result), "glossary-4")
	assert.Contains(t, hitIDs(result), "glossary-5")
}

func TestSearch_SeverityFilterAndFacets(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{
		Types:         []string{string(DocTypeMetric)},
		Severity:      string(domain.SeverityLow),
		IncludeFacets: true,
		Limit:         20,
	})
	require.NoError(t, err)

	assert.Equal(t, uint64(3), result.Total)
	assert.ElementsMatch(t, []string{"metric-8", "metric-9", "metric-10"}, hitIDs(result))
	require.Len(t, result.Facets.Severities, 1)
	assert.Equal(t, FacetCount{Value: "Low", Count: 3}, result.Facets.Severities[0])
}

func TestSearch_MappingTermsAreSearchable(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{Query: "attribution", Types: []string{"mapping"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"mapping-3"}, hitIDs(result))
}

func TestSearch_MatchAllWithDefaults(t *testing.T) {
	index := setupTestIndex(t)

	result, err := index.Search(context.Background(), SearchParams{})
	require.NoError(t, err)
	assert.Equal(t, uint64(18), result.Total)
	assert.Len(t, result.Hits, 18)
}

func TestDeleteDocument(t *testing.T) {
	index := setupTestIndex(t)

	require.NoError(t, index.DeleteDocument("metric-1"))
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(17), count)
}

func TestRebuild(t *testing.T) {
	index := setupTestIndex(t)
	require.NoError(t, index.DeleteDocument("metric-1"))

	c, err := catalogue.Default()
	require.NoError(t, err)
	require.NoError(t, index.Rebuild(c))

	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(18), count)
}

func TestMappingToSearchDocument(t *testing.T) {
	doc := MappingToSearchDocument(domain.MetricMapping{
		ID:              2,
		Sales:           domain.DepartmentTerm{Term: "Customer Onboarding", Definition: "setup"},
		Marketing:       domain.DepartmentTerm{Term: "User Acquisition"},
		Product:         domain.DepartmentTerm{Term: "Activation"},
		Data:            domain.DepartmentTerm{Term: "First Value Delivery"},
		AlignmentStatus: domain.AlignmentPartial,
	})

	assert.Equal(t, "mapping-2", doc.ID)
	assert.Equal(t, "Customer Onboarding", doc.Name)
	assert.Equal(t, []string{"Customer Onboarding", "User Acquisition", "Activation", "First Value Delivery"}, doc.RelatedTerms)
	assert.Equal(t, "Partially Aligned", doc.ToMap()["severity"])
}
