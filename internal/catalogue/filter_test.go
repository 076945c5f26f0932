package catalogue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
)

func TestFilterMetrics(t *testing.T) {
	metrics := mustDefault(t).Metrics()

	tests := []struct {
		name     string
		search   string
		severity string
		want     []int
	}{
		{"no filters returns everything", "", SeverityAll, []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{"severity only", "", "High", []int{1, 2, 3}},
		{"matches team names", "finance", SeverityAll, []int{3, 5, 7, 9}},
		{"matches definition text", "revenue", SeverityAll, []int{3, 7, 9}},
		{"case-insensitive name match", "CHURN", SeverityAll, []int{3}},
		{"conditions are ANDed", "lead", "Medium", []int{4}},
		{"lower-case severity matches nothing", "", "high", []int{}},
		{"no match", "zzz", SeverityAll, []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterMetrics(metrics, tt.search, tt.severity)
			assert.Equal(t, tt.want, metricIDs(got))
			assert.NotNil(t, got)
		})
	}
}

func TestFilterMetrics_SubsetInCatalogueOrder(t *testing.T) {
	metrics := mustDefault(t).Metrics()
	for _, sev := range []string{SeverityAll, "High", "Medium", "Low"} {
		got := metricIDs(FilterMetrics(metrics, "a", sev))
		last := 0
		for _, id := range got {
			assert.Greater(t, id, last)
			last = id
		}
	}
}

func TestFilterGlossary(t *testing.T) {
	terms := mustDefault(t).Glossary()

	names := func(gs []domain.GlossaryTerm) []int {
		ids := make([]int, len(gs))
		for i, g := range gs {
			ids[i] = g.ID
		}
		return ids
	}

	assert.Equal(t, []int{4, 5}, names(FilterGlossary(terms, "lead")))
	assert.Equal(t, []int{1, 3}, names(FilterGlossary(terms, "Revenue")))
	assert.Equal(t, []int{1, 2, 3, 4, 5}, names(FilterGlossary(terms, "")))
	assert.Empty(t, FilterGlossary(terms, "ARR"), "related terms are not searched")
}

func TestParseSeverityFilter(t *testing.T) {
	for in, want := range map[string]string{"": "all", "all": "all", "High": "High", "Low": "Low"} {
		got, err := ParseSeverityFilter(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got)
	}

	_, err := ParseSeverityFilter("critical")
	assert.True(t, errors.Is(err, errors.ErrValidation))
}
