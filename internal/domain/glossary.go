package domain

import (
	"fmt"
	"slices"
)

// GlossaryTerm is an agreed, standardised definition.
// RelatedTerms are free text; they need not name another entry.
type GlossaryTerm struct {
	ID           int      `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	Team         Team     `json:"team" yaml:"team"`
	Definition   string   `json:"definition" yaml:"definition"`
	RelatedTerms []string `json:"relatedTerms" yaml:"relatedTerms"`
}

// Clone returns a deep copy.
func (g GlossaryTerm) Clone() GlossaryTerm {
	g.RelatedTerms = slices.Clone(g.RelatedTerms)
	if g.RelatedTerms == nil {
		g.RelatedTerms = []string{}
	}
	return g
}

// AlignmentStatus is a curated judgement on a cross-department mapping.
type AlignmentStatus string

const (
	AlignmentAligned    AlignmentStatus = "Aligned"
	AlignmentPartial    AlignmentStatus = "Partially Aligned"
	AlignmentMisaligned AlignmentStatus = "Misaligned"
)

// ParseAlignmentStatus rejects anything outside the three curated values.
func ParseAlignmentStatus(s string) (AlignmentStatus, error) {
	switch st := AlignmentStatus(s); st {
	case AlignmentAligned, AlignmentPartial, AlignmentMisaligned:
		return st, nil
	default:
		return "", fmt.Errorf("unknown alignment status %q", s)
	}
}

// DepartmentTerm is what one department calls a concept and how it defines it.
type DepartmentTerm struct {
	Term       string `json:"term" yaml:"term"`
	Definition string `json:"definition" yaml:"definition"`
}

// MetricMapping lines up one concept across the four mapped departments.
type MetricMapping struct {
	ID              int             `json:"id" yaml:"id"`
	Sales           DepartmentTerm  `json:"sales" yaml:"sales"`
	Marketing       DepartmentTerm  `json:"marketing" yaml:"marketing"`
	Product         DepartmentTerm  `json:"product" yaml:"product"`
	Data            DepartmentTerm  `json:"data" yaml:"data"`
	AlignmentStatus AlignmentStatus `json:"alignmentStatus" yaml:"alignmentStatus"`
}

// Terms returns the department terms in fixed Sales, Marketing, Product, Data order.
func (m MetricMapping) Terms() []DepartmentTerm {
	return []DepartmentTerm{m.Sales, m.Marketing, m.Product, m.Data}
}
