package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
)

const (
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeSVG  = "image/svg+xml"
	contentTypeJSON = "application/json"
)

func (s *Server) registerExportRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "exportMappingsCSV",
		Method:      http.MethodGet,
		Path:        "/api/v1/exports/mappings.csv",
		Summary:     "Export metric mappings",
		Description: "Downloads the cross-department mapping table as CSV",
		Tags:        []string{"Exports"},
	}, s.handleExportMappingsCSV)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportMetricsCSV",
		Method:      http.MethodGet,
		Path:        "/api/v1/exports/metrics.csv",
		Summary:     "Export conflicting metrics",
		Description: "Downloads the conflicting metrics as CSV, filtered like the metric listing",
		Tags:        []string{"Exports"},
	}, s.handleExportMetricsCSV)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportRelationshipsSVG",
		Method:      http.MethodGet,
		Path:        "/api/v1/exports/relationships.svg",
		Summary:     "Export relationship chart",
		Description: "Downloads a bar chart of definition counts for the top conflicting metrics",
		Tags:        []string{"Exports"},
	}, s.handleExportRelationshipsSVG)

	huma.Register(s.api, huma.Operation{
		OperationID: "exportSVG",
		Method:      http.MethodPost,
		Path:        "/api/v1/exports/svg",
		Summary:     "Export SVG markup",
		Description: "Declares the SVG namespace on client-rendered markup so it opens as a standalone file",
		Tags:        []string{"Exports"},
	}, s.handleExportSVG)
}

// === DTOs ===

// FileOutput is a downloadable file.
type FileOutput struct {
	ContentType        string `header:"Content-Type"`
	ContentDisposition string `header:"Content-Disposition"`
	Body               []byte
}

func attachment(contentType, fileName string, body []byte) *FileOutput {
	return &FileOutput{
		ContentType:        contentType,
		ContentDisposition: fmt.Sprintf("attachment; filename=%q", fileName),
		Body:               body,
	}
}

// ExportMetricsInput filters the metric export.
type ExportMetricsInput struct {
	Q        string `query:"q" doc:"Case-insensitive text matched against name, teams and definitions"`
	Severity string `query:"severity" default:"all" doc:"all, High, Medium or Low"`
}

// ExportSVGInput carries raw SVG markup.
type ExportSVGInput struct {
	FileName string `query:"fileName" default:"diagram.svg" doc:"Download file name"`
	RawBody  []byte `contentType:"image/svg+xml"`
}

// === Handlers ===

func (s *Server) handleExportMappingsCSV(ctx context.Context, _ *struct{}) (*FileOutput, error) {
	data, err := s.services.Export.MappingsCSV(ctx)
	if err != nil {
		return nil, err
	}
	return attachment(contentTypeCSV, "kpi-mappings.csv", data), nil
}

func (s *Server) handleExportMetricsCSV(ctx context.Context, input *ExportMetricsInput) (*FileOutput, error) {
	data, err := s.services.Export.MetricsCSV(ctx, input.Q, input.Severity)
	if err != nil {
		return nil, err
	}
	return attachment(contentTypeCSV, "conflicting-metrics.csv", data), nil
}

func (s *Server) handleExportRelationshipsSVG(ctx context.Context, _ *struct{}) (*FileOutput, error) {
	data, err := s.services.Export.RelationshipsSVG(ctx)
	if err != nil {
		return nil, err
	}
	return attachment(contentTypeSVG, "kpi-relationships.svg", data), nil
}

func (s *Server) handleExportSVG(ctx context.Context, input *ExportSVGInput) (*FileOutput, error) {
	data, err := s.services.Export.StandaloneSVG(ctx, input.RawBody)
	if err != nil {
		return nil, err
	}
	return attachment(contentTypeSVG, input.FileName, data), nil
}
