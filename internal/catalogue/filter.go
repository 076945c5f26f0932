package catalogue

import (
	"strings"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
)

// SeverityAll disables severity filtering.
const SeverityAll = "all"

// ParseSeverityFilter normalises a severity filter from the API edge.
// Empty means "all".
func ParseSeverityFilter(s string) (string, error) {
	if s == "" || s == SeverityAll {
		return SeverityAll, nil
	}
	sev, err := domain.ParseSeverity(s)
	if err != nil {
		return "", errors.Validationf("severity must be one of all, High, Medium, Low (got %q)", s)
	}
	return string(sev), nil
}

// FilterMetrics keeps metrics whose name, any team, or any definition contains
// searchTerm (case-insensitive) and whose severity matches severityFilter
// ("all" or an exact severity). Catalogue order is preserved.
func FilterMetrics(metrics []domain.ConflictingMetric, searchTerm, severityFilter string) []domain.ConflictingMetric {
	needle := strings.ToLower(searchTerm)
	out := make([]domain.ConflictingMetric, 0, len(metrics))
	for _, m := range metrics {
		if severityFilter != SeverityAll && string(m.Severity) != severityFilter {
			continue
		}
		if metricMatches(m, needle) {
			out = append(out, m)
		}
	}
	return out
}

func metricMatches(m domain.ConflictingMetric, needle string) bool {
	if strings.Contains(strings.ToLower(m.Name), needle) {
		return true
	}
	for _, t := range m.Teams {
		if strings.Contains(strings.ToLower(string(t)), needle) {
			return true
		}
	}
	for _, d := range m.Definitions {
		if strings.Contains(strings.ToLower(d.Definition), needle) {
			return true
		}
	}
	return false
}

// FilterGlossary keeps terms whose name or definition contains searchTerm,
// case-insensitive.
func FilterGlossary(terms []domain.GlossaryTerm, searchTerm string) []domain.GlossaryTerm {
	needle := strings.ToLower(searchTerm)
	out := make([]domain.GlossaryTerm, 0, len(terms))
	for _, g := range terms {
		if strings.Contains(strings.ToLower(g.Name), needle) ||
			strings.Contains(strings.ToLower(g.Definition), needle) {
			out = append(out, g)
		}
	}
	return out
}
