package api

import (
	"bytes"
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/export"
	"github.com/termalign/termalign-server/internal/service"
)

func (s *Server) registerWorkspaceRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID:   "createWorkspace",
		Method:        http.MethodPost,
		Path:          "/api/v1/workspaces",
		Summary:       "Create workspace",
		Description:   "Starts a workspace with its own copy of the glossary",
		Tags:          []string{"Workspaces"},
		DefaultStatus: http.StatusCreated,
	}, s.handleCreateWorkspace)

	huma.Register(s.api, huma.Operation{
		OperationID: "getWorkspace",
		Method:      http.MethodGet,
		Path:        "/api/v1/workspaces/{id}",
		Summary:     "Get workspace",
		Description: "Returns the workspace glossary and latest analysis",
		Tags:        []string{"Workspaces"},
	}, s.handleGetWorkspace)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteWorkspace",
		Method:        http.MethodDelete,
		Path:          "/api/v1/workspaces/{id}",
		Summary:       "Delete workspace",
		Description:   "Discards the workspace and its state",
		Tags:          []string{"Workspaces"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteWorkspace)

	huma.Register(s.api, huma.Operation{
		OperationID: "listWorkspaceGlossary",
		Method:      http.MethodGet,
		Path:        "/api/v1/workspaces/{id}/glossary",
		Summary:     "List workspace glossary",
		Description: "Filters the workspace glossary by name or definition",
		Tags:        []string{"Workspaces"},
	}, s.handleListWorkspaceGlossary)

	huma.Register(s.api, huma.Operation{
		OperationID:   "addGlossaryTerm",
		Method:        http.MethodPost,
		Path:          "/api/v1/workspaces/{id}/glossary",
		Summary:       "Add glossary term",
		Description:   "Adds a term to the workspace glossary. Team defaults to All.",
		Tags:          []string{"Workspaces"},
		DefaultStatus: http.StatusCreated,
	}, s.handleAddGlossaryTerm)

	huma.Register(s.api, huma.Operation{
		OperationID: "updateGlossaryTerm",
		Method:      http.MethodPut,
		Path:        "/api/v1/workspaces/{id}/glossary/{termID}",
		Summary:     "Update glossary term",
		Description: "Replaces a term in the workspace glossary",
		Tags:        []string{"Workspaces"},
	}, s.handleUpdateGlossaryTerm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "deleteGlossaryTerm",
		Method:        http.MethodDelete,
		Path:          "/api/v1/workspaces/{id}/glossary/{termID}",
		Summary:       "Delete glossary term",
		Description:   "Removes a term from the workspace glossary",
		Tags:          []string{"Workspaces"},
		DefaultStatus: http.StatusNoContent,
	}, s.handleDeleteGlossaryTerm)

	huma.Register(s.api, huma.Operation{
		OperationID:   "startAnalysis",
		Method:        http.MethodPost,
		Path:          "/api/v1/workspaces/{id}/analysis",
		Summary:       "Start analysis",
		Description:   "Schedules a simulated analysis of the report text. A newer run replaces an older one.",
		Tags:          []string{"Workspaces"},
		DefaultStatus: http.StatusAccepted,
		Middlewares:   huma.Middlewares{s.rateLimit},
	}, s.handleStartAnalysis)

	huma.Register(s.api, huma.Operation{
		OperationID: "getAnalysis",
		Method:      http.MethodGet,
		Path:        "/api/v1/workspaces/{id}/analysis",
		Summary:     "Get analysis",
		Description: "Returns the state of the latest analysis",
		Tags:        []string{"Workspaces"},
	}, s.handleGetAnalysis)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportAnalysis",
		Method:      http.MethodGet,
		Path:        "/api/v1/workspaces/{id}/analysis/export.json",
		Summary:     "Export analysis",
		Description: "Downloads the latest finished analysis as JSON",
		Tags:        []string{"Workspaces"},
	}, s.handleExportAnalysis)
}

// === DTOs ===

// WorkspaceIDInput identifies a workspace.
type WorkspaceIDInput struct {
	ID string `path:"id" doc:"Workspace ID"`
}

// WorkspaceOutput wraps a workspace for Huma.
type WorkspaceOutput struct {
	Body domain.Workspace
}

// ListWorkspaceGlossaryInput filters a workspace glossary.
type ListWorkspaceGlossaryInput struct {
	ID string `path:"id" doc:"Workspace ID"`
	Q  string `query:"q" doc:"Case-insensitive text matched against name and definition"`
}

// GlossaryTermRequest is the editable part of a glossary term.
// Fields are checked by the service so every problem is reported at once.
type GlossaryTermRequest struct {
	_            struct{} `additionalProperties:"true"`
	Name         string   `json:"name,omitempty" doc:"Term name (required)"`
	Team         string   `json:"team,omitempty" doc:"Owning team; defaults to All"`
	Definition   string   `json:"definition,omitempty" doc:"Agreed definition (required)"`
	RelatedTerms []string `json:"relatedTerms,omitempty" doc:"Informal cross-references"`
}

func (r GlossaryTermRequest) toInput() service.GlossaryTermInput {
	return service.GlossaryTermInput{
		Name:         r.Name,
		Team:         r.Team,
		Definition:   r.Definition,
		RelatedTerms: r.RelatedTerms,
	}
}

// AddGlossaryTermInput wraps a new term for Huma.
type AddGlossaryTermInput struct {
	ID   string `path:"id" doc:"Workspace ID"`
	Body GlossaryTermRequest
}

// UpdateGlossaryTermInput wraps a term replacement for Huma.
type UpdateGlossaryTermInput struct {
	ID     string `path:"id" doc:"Workspace ID"`
	TermID int    `path:"termID" doc:"Glossary term ID"`
	Body   GlossaryTermRequest
}

// GlossaryTermPathInput identifies a term within a workspace.
type GlossaryTermPathInput struct {
	ID     string `path:"id" doc:"Workspace ID"`
	TermID int    `path:"termID" doc:"Glossary term ID"`
}

// GlossaryTermOutput wraps a glossary term for Huma.
type GlossaryTermOutput struct {
	Body domain.GlossaryTerm
}

// StartAnalysisRequest is the body of a workspace analysis request.
type StartAnalysisRequest struct {
	_          struct{} `additionalProperties:"true"`
	ReportText string   `json:"reportText,omitempty" doc:"Free-text report to scan"`
	FileName   string   `json:"fileName,omitempty" doc:"Report label; defaults to Unnamed Report"`
}

// StartAnalysisInput wraps a workspace analysis request for Huma.
type StartAnalysisInput struct {
	ID   string               `path:"id" doc:"Workspace ID"`
	Body StartAnalysisRequest `required:"false"`
}

// AnalysisOutput wraps analysis state for Huma.
type AnalysisOutput struct {
	Body domain.WorkspaceAnalysis
}

// === Handlers ===

func (s *Server) handleCreateWorkspace(ctx context.Context, _ *struct{}) (*WorkspaceOutput, error) {
	ws, err := s.services.Workspace.CreateWorkspace(ctx)
	if err != nil {
		return nil, err
	}
	return &WorkspaceOutput{Body: *ws}, nil
}

func (s *Server) handleGetWorkspace(ctx context.Context, input *WorkspaceIDInput) (*WorkspaceOutput, error) {
	ws, err := s.services.Workspace.GetWorkspace(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &WorkspaceOutput{Body: *ws}, nil
}

func (s *Server) handleDeleteWorkspace(ctx context.Context, input *WorkspaceIDInput) (*struct{}, error) {
	if err := s.services.Workspace.DeleteWorkspace(ctx, input.ID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleListWorkspaceGlossary(ctx context.Context, input *ListWorkspaceGlossaryInput) (*GlossaryListOutput, error) {
	list, err := s.services.Workspace.ListGlossary(ctx, input.ID, input.Q)
	if err != nil {
		return nil, err
	}
	return &GlossaryListOutput{Body: *list}, nil
}

func (s *Server) handleAddGlossaryTerm(ctx context.Context, input *AddGlossaryTermInput) (*GlossaryTermOutput, error) {
	term, err := s.services.Workspace.AddGlossaryTerm(ctx, input.ID, input.Body.toInput())
	if err != nil {
		return nil, err
	}
	return &GlossaryTermOutput{Body: *term}, nil
}

func (s *Server) handleUpdateGlossaryTerm(ctx context.Context, input *UpdateGlossaryTermInput) (*GlossaryTermOutput, error) {
	term, err := s.services.Workspace.UpdateGlossaryTerm(ctx, input.ID, input.TermID, input.Body.toInput())
	if err != nil {
		return nil, err
	}
	return &GlossaryTermOutput{Body: *term}, nil
}

func (s *Server) handleDeleteGlossaryTerm(ctx context.Context, input *GlossaryTermPathInput) (*struct{}, error) {
	if err := s.services.Workspace.DeleteGlossaryTerm(ctx, input.ID, input.TermID); err != nil {
		return nil, err
	}
	return nil, nil
}

func (s *Server) handleStartAnalysis(ctx context.Context, input *StartAnalysisInput) (*AnalysisOutput, error) {
	a, err := s.services.Workspace.StartAnalysis(ctx, input.ID, input.Body.ReportText, input.Body.FileName)
	if err != nil {
		return nil, err
	}
	return &AnalysisOutput{Body: *a}, nil
}

func (s *Server) handleGetAnalysis(ctx context.Context, input *WorkspaceIDInput) (*AnalysisOutput, error) {
	a, err := s.services.Workspace.GetAnalysis(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &AnalysisOutput{Body: *a}, nil
}

func (s *Server) handleExportAnalysis(ctx context.Context, input *WorkspaceIDInput) (*FileOutput, error) {
	exp, err := s.services.Workspace.ExportAnalysis(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := export.JSON(&buf, exp); err != nil {
		return nil, err
	}
	return attachment(contentTypeJSON, exp.DownloadName(), buf.Bytes()), nil
}
