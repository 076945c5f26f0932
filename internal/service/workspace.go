package service

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/termalign/termalign-server/internal/analysis"
	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
	"github.com/termalign/termalign-server/internal/export"
	"github.com/termalign/termalign-server/internal/id"
	"github.com/termalign/termalign-server/internal/sse"
	"github.com/termalign/termalign-server/internal/store"
	"github.com/termalign/termalign-server/internal/validation"
)

// errStaleRun aborts a completion write for a run that has been superseded.
var errStaleRun = stderrors.New("analysis run superseded")

// GlossaryTermInput is the editable part of a glossary term.
// An empty Team means the term applies to every department.
type GlossaryTermInput struct {
	Name         string   `json:"name" validate:"notblank,max=200"`
	Team         string   `json:"team,omitempty" validate:"max=50"`
	Definition   string   `json:"definition" validate:"notblank,max=2000"`
	RelatedTerms []string `json:"relatedTerms,omitempty" validate:"max=20,dive,notblank,max=100"`
}

// AnalysisExport is the downloadable form of a finished analysis.
type AnalysisExport struct {
	Misalignments []domain.MisalignmentFinding `json:"misalignments"`
	Summary       string                       `json:"summary"`
	FileName      string                       `json:"fileName"`
}

// DownloadName is the file name offered for the export.
func (e *AnalysisExport) DownloadName() string {
	return export.ReportFileName(e.FileName)
}

// EventEmitter receives workspace events for live subscribers.
type EventEmitter interface {
	Emit(event sse.Event)
}

// NoopEmitter discards every event.
type NoopEmitter struct{}

// Emit implements EventEmitter.
func (NoopEmitter) Emit(sse.Event) {}

// WorkspaceService manages per-client working state: a private glossary copy
// and the latest simulated analysis.
type WorkspaceService struct {
	store     *store.Store
	catalogue *catalogue.Catalogue
	simulator *analysis.Simulator
	validator *validation.Validator
	events    EventEmitter
	logger    *slog.Logger
}

// NewWorkspaceService creates a workspace service. A nil emitter drops events.
func NewWorkspaceService(
	st *store.Store,
	cat *catalogue.Catalogue,
	sim *analysis.Simulator,
	v *validation.Validator,
	events EventEmitter,
	logger *slog.Logger,
) *WorkspaceService {
	if events == nil {
		events = NoopEmitter{}
	}
	return &WorkspaceService{
		store:     st,
		catalogue: cat,
		simulator: sim,
		validator: v,
		events:    events,
		logger:    logger,
	}
}

// CreateWorkspace starts a workspace whose glossary is a copy of the catalogue's.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context) (*domain.Workspace, error) {
	wsID, err := id.Generate(id.Workspace)
	if err != nil {
		return nil, fmt.Errorf("generate workspace id: %w", err)
	}

	now := time.Now()
	ws := &domain.Workspace{
		ID:        wsID,
		Glossary:  s.catalogue.Glossary(),
		Analysis:  domain.WorkspaceAnalysis{Status: domain.AnalysisIdle},
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.store.Workspaces.Create(ctx, ws.ID, ws); err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}

	s.logger.Info("workspace created", "workspace_id", ws.ID, "glossary_terms", len(ws.Glossary))
	return ws, nil
}

// GetWorkspace returns a workspace by id.
func (s *WorkspaceService) GetWorkspace(ctx context.Context, wsID string) (*domain.Workspace, error) {
	return s.store.Workspaces.Get(ctx, wsID)
}

// DeleteWorkspace discards a workspace. A running analysis finishes into nothing.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, wsID string) error {
	if err := s.store.Workspaces.Delete(ctx, wsID); err != nil {
		return err
	}
	s.logger.Info("workspace deleted", "workspace_id", wsID)
	return nil
}

// ListGlossary filters the workspace's glossary copy.
func (s *WorkspaceService) ListGlossary(ctx context.Context, wsID, q string) (*GlossaryList, error) {
	ws, err := s.store.Workspaces.Get(ctx, wsID)
	if err != nil {
		return nil, err
	}
	return newGlossaryList(catalogue.FilterGlossary(ws.Glossary, q)), nil
}

// AddGlossaryTerm appends a term to the workspace glossary. Name and
// definition are required; the new id is one past the highest existing id.
func (s *WorkspaceService) AddGlossaryTerm(ctx context.Context, wsID string, in GlossaryTermInput) (*domain.GlossaryTerm, error) {
	term, err := s.termFromInput(in)
	if err != nil {
		return nil, err
	}

	var added domain.GlossaryTerm
	if _, err := s.store.Workspaces.Mutate(ctx, wsID, func(ws *domain.Workspace) error {
		added = ws.AddTerm(term)
		ws.Touch()
		return nil
	}); err != nil {
		return nil, err
	}

	s.logger.Debug("glossary term added", "workspace_id", wsID, "term_id", added.ID, "name", added.Name)
	return &added, nil
}

// UpdateGlossaryTerm replaces the editable fields of a term, keeping its id.
func (s *WorkspaceService) UpdateGlossaryTerm(ctx context.Context, wsID string, termID int, in GlossaryTermInput) (*domain.GlossaryTerm, error) {
	term, err := s.termFromInput(in)
	if err != nil {
		return nil, err
	}
	term.ID = termID

	if _, err := s.store.Workspaces.Mutate(ctx, wsID, func(ws *domain.Workspace) error {
		i := ws.Term(termID)
		if i < 0 {
			return errors.NotFoundf("glossary term %d not found", termID)
		}
		ws.Glossary[i] = term
		ws.Touch()
		return nil
	}); err != nil {
		return nil, err
	}

	return &term, nil
}

// DeleteGlossaryTerm removes a term from the workspace glossary.
func (s *WorkspaceService) DeleteGlossaryTerm(ctx context.Context, wsID string, termID int) error {
	_, err := s.store.Workspaces.Mutate(ctx, wsID, func(ws *domain.Workspace) error {
		if !ws.RemoveTerm(termID) {
			return errors.NotFoundf("glossary term %d not found", termID)
		}
		ws.Touch()
		return nil
	})
	return err
}

func (s *WorkspaceService) termFromInput(in GlossaryTermInput) (domain.GlossaryTerm, error) {
	if err := s.validator.Validate(in); err != nil {
		return domain.GlossaryTerm{}, err
	}

	team := domain.TeamAll
	if in.Team != "" {
		t, err := domain.ParseTeam(in.Team)
		if err != nil {
			return domain.GlossaryTerm{}, errors.ValidationWithDetails(
				"invalid team",
				map[string]string{"team": err.Error()},
			)
		}
		team = t
	}

	return domain.GlossaryTerm{
		Name:         strings.TrimSpace(in.Name),
		Team:         team,
		Definition:   strings.TrimSpace(in.Definition),
		RelatedTerms: in.RelatedTerms,
	}.Clone(), nil
}

// StartAnalysis marks the workspace as analyzing and schedules a simulated
// analysis. Starting a new run supersedes any run still in flight.
func (s *WorkspaceService) StartAnalysis(ctx context.Context, wsID, text, fileName string) (*domain.WorkspaceAnalysis, error) {
	if err := analysis.ValidateReport(text); err != nil {
		return nil, err
	}
	if fileName == "" {
		fileName = analysis.DefaultFileName
	}

	runID := id.RunID()
	started := time.Now()
	ws, err := s.store.Workspaces.Mutate(ctx, wsID, func(ws *domain.Workspace) error {
		ws.Analysis = domain.WorkspaceAnalysis{
			Status:    domain.AnalysisAnalyzing,
			RunID:     runID,
			FileName:  fileName,
			StartedAt: &started,
		}
		ws.Touch()
		return nil
	})
	if err != nil {
		return nil, err
	}

	// The run outlives the request that started it.
	bg := context.WithoutCancel(ctx)
	if err := s.simulator.Start(text, fileName, s.catalogue.Metrics(), func(r analysis.Report) {
		s.finishAnalysis(bg, wsID, runID, r)
	}); err != nil {
		return nil, err
	}

	s.events.Emit(sse.NewAnalysisStartedEvent(wsID, ws.Analysis))
	s.logger.Info("analysis started",
		"workspace_id", wsID,
		"run_id", runID,
		"file", fileName,
		"delay", s.simulator.Delay,
	)
	return &ws.Analysis, nil
}

func (s *WorkspaceService) finishAnalysis(ctx context.Context, wsID, runID string, r analysis.Report) {
	ws, err := s.store.Workspaces.Mutate(ctx, wsID, func(ws *domain.Workspace) error {
		if ws.Analysis.RunID != runID {
			return errStaleRun
		}

		completed := r.CompletedAt
		ws.Analysis.CompletedAt = &completed
		if r.Err != nil {
			ws.Analysis.Status = domain.AnalysisFailed
			ws.Analysis.Error = analysis.ErrAnalysisFailed.Message
		} else {
			result := r.Result
			ws.Analysis.Status = domain.AnalysisDone
			ws.Analysis.Result = &result
		}
		ws.Touch()
		return nil
	})

	switch {
	case err == nil:
		s.events.Emit(sse.NewAnalysisFinishedEvent(wsID, ws.Analysis))
		s.logger.Info("analysis finished",
			"workspace_id", wsID,
			"run_id", runID,
			"findings", len(r.Result.Misalignments),
			"failed", r.Err != nil,
		)
	case stderrors.Is(err, errStaleRun):
		s.logger.Debug("discarding superseded analysis", "workspace_id", wsID, "run_id", runID)
	case errors.Is(err, errors.ErrNotFound):
		s.logger.Debug("workspace gone before analysis finished", "workspace_id", wsID, "run_id", runID)
	default:
		s.logger.Error("failed to store analysis result", "workspace_id", wsID, "run_id", runID, "error", err)
	}
	if r.Err != nil {
		s.logger.Error("simulated analysis failed", "workspace_id", wsID, "run_id", runID, "error", r.Err)
	}
}

// GetAnalysis returns the workspace's latest analysis state.
func (s *WorkspaceService) GetAnalysis(ctx context.Context, wsID string) (*domain.WorkspaceAnalysis, error) {
	ws, err := s.store.Workspaces.Get(ctx, wsID)
	if err != nil {
		return nil, err
	}
	return &ws.Analysis, nil
}

// ExportAnalysis returns the latest finished analysis in download form.
func (s *WorkspaceService) ExportAnalysis(ctx context.Context, wsID string) (*AnalysisExport, error) {
	a, err := s.GetAnalysis(ctx, wsID)
	if err != nil {
		return nil, err
	}
	if a.Status != domain.AnalysisDone || a.Result == nil {
		return nil, errors.NotFoundf("workspace %s has no completed analysis", wsID)
	}

	return &AnalysisExport{
		Misalignments: a.Result.Misalignments,
		Summary:       a.Result.Summary,
		FileName:      a.FileName,
	}, nil
}
