// Package analysis flags catalogue metrics mentioned in free-text reports.
//
// Matching is plain case-insensitive substring containment on metric names.
// There is no tokenisation, so "Lead" also matches "Leadership".
package analysis

import (
	"fmt"
	"strings"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
)

// fallbackCount is how many catalogue entries are reported when nothing matches.
const fallbackCount = 3

const (
	matchContextFormat    = `Contains reference to "%s"`
	fallbackContextFormat = `Potential reference to "%s" concepts`
	fallbackContextPrefix = "Potential reference to "
)

// ErrReportRequired is returned for an empty report.
var ErrReportRequired = errors.Validation("Report text is required")

// ValidateReport rejects empty report text. Call it before Analyze.
func ValidateReport(text string) error {
	if text == "" {
		return ErrReportRequired
	}
	return nil
}

// Analyze scans text for every metric name, in catalogue order.
//
// When nothing matches, the first three metrics are returned as speculative
// findings; IsFallback tells them apart. The result never has a nil slice.
func Analyze(text string, metrics []domain.ConflictingMetric) domain.AnalysisResult {
	lowered := strings.ToLower(text)

	findings := make([]domain.MisalignmentFinding, 0)
	for _, m := range metrics {
		if strings.Contains(lowered, strings.ToLower(m.Name)) {
			findings = append(findings, finding(m, fmt.Sprintf(matchContextFormat, m.Name)))
		}
	}

	if len(findings) == 0 {
		for _, m := range metrics[:min(fallbackCount, len(metrics))] {
			findings = append(findings, finding(m, fmt.Sprintf(fallbackContextFormat, m.Name)))
		}
	}

	return domain.AnalysisResult{
		Misalignments: findings,
		Summary:       Summary(len(findings)),
	}
}

// Summary is the one-line result description for n findings.
func Summary(n int) string {
	return fmt.Sprintf("This report contains %d potential terminology misalignments that could lead to miscommunication across departments.", n)
}

// IsFallback reports whether f came from the no-match template rather than a real match.
func IsFallback(f domain.MisalignmentFinding) bool {
	return strings.HasPrefix(f.Context, fallbackContextPrefix)
}

func finding(m domain.ConflictingMetric, context string) domain.MisalignmentFinding {
	department := ""
	if len(m.Teams) > 0 {
		department = string(m.Teams[0])
	}
	return domain.MisalignmentFinding{
		Term:       m.Name,
		Context:    context,
		Department: department,
		Issue: fmt.Sprintf("This metric has %d different definitions across %s",
			len(m.Definitions), strings.Join(m.TeamNames(), ", ")),
		Severity: m.Severity.Lower(),
	}
}
