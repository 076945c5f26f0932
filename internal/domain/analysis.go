package domain

// MisalignmentFinding flags one catalogue metric in a report.
type MisalignmentFinding struct {
	Term       string `json:"term"`
	Context    string `json:"context"`
	Department string `json:"department"`
	Issue      string `json:"issue"`
	Severity   string `json:"severity"` // lower-case
}

// AnalysisResult is the output of a report analysis.
// Misalignments is never nil so it serialises as [].
type AnalysisResult struct {
	Misalignments []MisalignmentFinding `json:"misalignments"`
	Summary       string                `json:"summary"`
}
