package domain

import (
	"fmt"
	"slices"
	"strings"
)

// Severity ranks how damaging a definitional conflict is.
type Severity string

const (
	SeverityHigh   Severity = "High"
	SeverityMedium Severity = "Medium"
	SeverityLow    Severity = "Low"
)

// Severities lists every severity, most severe first.
var Severities = []Severity{SeverityHigh, SeverityMedium, SeverityLow}

// ParseSeverity accepts the canonical spelling only ("High", "Medium", "Low").
func ParseSeverity(s string) (Severity, error) {
	sev := Severity(s)
	if !slices.Contains(Severities, sev) {
		return "", fmt.Errorf("unknown severity %q", s)
	}
	return sev, nil
}

// Lower returns the form used on findings: "high", "medium", "low".
func (s Severity) Lower() string {
	return strings.ToLower(string(s))
}

// Team is a business department.
type Team string

const (
	TeamSales           Team = "Sales"
	TeamMarketing       Team = "Marketing"
	TeamProduct         Team = "Product"
	TeamData            Team = "Data"
	TeamFinance         Team = "Finance"
	TeamCustomerSuccess Team = "Customer Success"

	// TeamAll marks a company-wide glossary term. Never valid on a conflicting metric.
	TeamAll Team = "All"
)

// Departments lists the teams that can own a metric definition.
var Departments = []Team{TeamSales, TeamMarketing, TeamProduct, TeamData, TeamFinance, TeamCustomerSuccess}

// ParseTeam accepts any department or "All".
func ParseTeam(s string) (Team, error) {
	t := Team(s)
	if t == TeamAll || slices.Contains(Departments, t) {
		return t, nil
	}
	return "", fmt.Errorf("unknown team %q", s)
}

// Definition is one team's reading of a metric.
type Definition struct {
	Team       Team   `json:"team" yaml:"team"`
	Definition string `json:"definition" yaml:"definition"`
}

// ConflictingMetric is a metric whose meaning diverges between teams.
// Teams is ordered; the first entry represents the metric on findings.
type ConflictingMetric struct {
	ID             int          `json:"id" yaml:"id"`
	Name           string       `json:"name" yaml:"name"`
	Severity       Severity     `json:"severity" yaml:"severity"`
	Teams          []Team       `json:"teams" yaml:"teams"`
	Definitions    []Definition `json:"definitions" yaml:"definitions"`
	Recommendation string       `json:"recommendation,omitempty" yaml:"recommendation"`
}

// Clone returns a deep copy so callers can't reach into catalogue slices.
func (m ConflictingMetric) Clone() ConflictingMetric {
	m.Teams = slices.Clone(m.Teams)
	m.Definitions = slices.Clone(m.Definitions)
	return m
}

// TeamNames returns the teams as plain strings, in order.
func (m ConflictingMetric) TeamNames() []string {
	names := make([]string, len(m.Teams))
	for i, t := range m.Teams {
		names[i] = string(t)
	}
	return names
}

// Check reports invariant violations. Only an empty team list is fatal;
// the rest are returned as warnings.
func (m ConflictingMetric) Check() (warnings []string, err error) {
	if len(m.Teams) == 0 {
		return nil, fmt.Errorf("metric %d (%s): teams must not be empty", m.ID, m.Name)
	}
	if _, perr := ParseSeverity(string(m.Severity)); perr != nil {
		return nil, fmt.Errorf("metric %d (%s): %w", m.ID, m.Name, perr)
	}
	if len(m.Definitions) < 2 {
		warnings = append(warnings, fmt.Sprintf("metric %d (%s) has %d definitions, a conflict needs at least 2", m.ID, m.Name, len(m.Definitions)))
	}
	for _, t := range m.Teams {
		if !slices.Contains(Departments, t) {
			warnings = append(warnings, fmt.Sprintf("metric %d (%s) lists unknown team %q", m.ID, m.Name, t))
		}
	}
	for _, d := range m.Definitions {
		if !slices.Contains(m.Teams, d.Team) {
			warnings = append(warnings, fmt.Sprintf("metric %d (%s) defines %q which is missing from its teams", m.ID, m.Name, d.Team))
		}
	}
	return warnings, nil
}
