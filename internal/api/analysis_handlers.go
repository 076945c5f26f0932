package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/service"
)

func (s *Server) registerAnalysisRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "analyzeReport",
		Method:      http.MethodPost,
		Path:        "/api/analyze-report",
		Summary:     "Analyze report",
		Description: "Flags conflicting metrics mentioned in the report text. When nothing matches, the first three catalogue metrics are returned as potential references.",
		Tags:        []string{"Analysis"},
		Middlewares: huma.Middlewares{s.rateLimit},
	}, s.handleAnalyzeReport)

	huma.Register(s.api, huma.Operation{
		OperationID:  "uploadReport",
		Method:       http.MethodPost,
		Path:         "/api/v1/reports/upload",
		Summary:      "Upload and analyze report",
		Description:  "Decodes an uploaded report file (text, HTML or PDF) and analyzes its text",
		Tags:         []string{"Analysis"},
		MaxBodyBytes: s.maxUploadBytes,
		Middlewares:  huma.Middlewares{s.rateLimit},
	}, s.handleUploadReport)
}

// === DTOs ===

// AnalyzeReportRequest is the body of an analysis request.
// Unknown fields are ignored.
type AnalyzeReportRequest struct {
	_          struct{} `additionalProperties:"true"`
	ReportText string   `json:"reportText,omitempty" doc:"Free-text report to scan"`
}

// AnalyzeReportInput wraps the analysis request for Huma.
// The body is optional so an absent body reports "Report text is required".
type AnalyzeReportInput struct {
	Body AnalyzeReportRequest `required:"false"`
}

// AnalyzeReportOutput wraps the analysis result for Huma.
type AnalyzeReportOutput struct {
	Body domain.AnalysisResult
}

// UploadReportInput carries a raw report file.
type UploadReportInput struct {
	FileName string `header:"X-File-Name" doc:"Original file name; its extension selects the decoder"`
	RawBody  []byte `contentType:"application/octet-stream"`
}

// UploadReportOutput wraps the upload analysis for Huma.
type UploadReportOutput struct {
	Body service.UploadResult
}

// === Handlers ===

func (s *Server) handleAnalyzeReport(ctx context.Context, input *AnalyzeReportInput) (*AnalyzeReportOutput, error) {
	result, err := s.services.Analysis.AnalyzeReport(ctx, input.Body.ReportText)
	if err != nil {
		return nil, err
	}
	return &AnalyzeReportOutput{Body: *result}, nil
}

func (s *Server) handleUploadReport(ctx context.Context, input *UploadReportInput) (*UploadReportOutput, error) {
	result, err := s.services.Analysis.AnalyzeUpload(ctx, input.FileName, input.RawBody)
	if err != nil {
		return nil, err
	}
	return &UploadReportOutput{Body: *result}, nil
}
