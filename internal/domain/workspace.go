package domain

import (
	"slices"
	"time"
)

// AnalysisStatus tracks a workspace's simulated analysis.
type AnalysisStatus string

const (
	AnalysisIdle      AnalysisStatus = "idle"
	AnalysisAnalyzing AnalysisStatus = "analyzing"
	AnalysisDone      AnalysisStatus = "done"
	AnalysisFailed    AnalysisStatus = "failed"
)

// WorkspaceAnalysis is the latest analysis run of a workspace.
// A newer run replaces an older one, even if the older finishes last.
type WorkspaceAnalysis struct {
	Status      AnalysisStatus  `json:"status"`
	RunID       string          `json:"runId,omitempty"`
	FileName    string          `json:"fileName,omitempty"`
	Result      *AnalysisResult `json:"result,omitempty"`
	Error       string          `json:"error,omitempty"`
	StartedAt   *time.Time      `json:"startedAt,omitempty"`
	CompletedAt *time.Time      `json:"completedAt,omitempty"`
}

// Workspace is one client's working state: an editable copy of the glossary
// and the latest report analysis. The canonical catalogue is never touched.
type Workspace struct {
	ID        string            `json:"id"`
	Glossary  []GlossaryTerm    `json:"glossary"`
	Analysis  WorkspaceAnalysis `json:"analysis"`
	CreatedAt time.Time         `json:"createdAt"`
	UpdatedAt time.Time         `json:"updatedAt"`
}

// Touch updates the UpdatedAt timestamp.
func (w *Workspace) Touch() {
	w.UpdatedAt = time.Now()
}

// NextTermID is one past the highest glossary id in the working copy.
func (w *Workspace) NextTermID() int {
	next := 1
	for _, g := range w.Glossary {
		next = max(next, g.ID+1)
	}
	return next
}

// AddTerm appends a term with the next free id and returns it.
func (w *Workspace) AddTerm(term GlossaryTerm) GlossaryTerm {
	term.ID = w.NextTermID()
	term = term.Clone()
	w.Glossary = append(w.Glossary, term)
	return term
}

// Term returns the index of the term with id, or -1.
func (w *Workspace) Term(id int) int {
	return slices.IndexFunc(w.Glossary, func(g GlossaryTerm) bool { return g.ID == id })
}

// RemoveTerm drops the term with id. It reports whether anything was removed.
func (w *Workspace) RemoveTerm(id int) bool {
	before := len(w.Glossary)
	w.Glossary = slices.DeleteFunc(w.Glossary, func(g GlossaryTerm) bool { return g.ID == id })
	return len(w.Glossary) != before
}
