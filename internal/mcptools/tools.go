package mcptools

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/termalign/termalign-server/internal/errors"
	"github.com/termalign/termalign-server/internal/service"
	"github.com/termalign/termalign-server/internal/validation"
)

// Tools holds the services the tool handlers call.
type Tools struct {
	Catalogue *service.CatalogueService
	Analysis  *service.AnalysisService
	Validator *validation.Validator
	Logger    *slog.Logger
}

// --- Input types ---

type AnalyzeReportInput struct {
	ReportText string `json:"reportText" jsonschema:"Free-text report content to scan"`
}

type FilterMetricsInput struct {
	Search   string `json:"search,omitempty" jsonschema:"Case-insensitive text matched against name, teams and definitions"`
	Severity string `json:"severity,omitempty" jsonschema:"all, High, Medium or Low"`
}

type FilterGlossaryInput struct {
	Search string `json:"search,omitempty" jsonschema:"Case-insensitive text matched against term name and definition"`
}

type GetMetricInput struct {
	ID int `json:"id" jsonschema:"Metric ID" validate:"gte=1"`
}

// --- Handlers ---

func (t *Tools) AnalyzeReport(ctx context.Context, _ *mcp.CallToolRequest, input AnalyzeReportInput) (*mcp.CallToolResult, any, error) {
	result, err := t.Analysis.AnalyzeReport(ctx, input.ReportText)
	if err != nil {
		return t.failed("analyze_report", err), nil, nil
	}
	return toolJSON(result)
}

func (t *Tools) FilterMetrics(ctx context.Context, _ *mcp.CallToolRequest, input FilterMetricsInput) (*mcp.CallToolResult, any, error) {
	list, err := t.Catalogue.ListMetrics(ctx, input.Search, input.Severity)
	if err != nil {
		return t.failed("filter_metrics", err), nil, nil
	}
	return toolJSON(list)
}

func (t *Tools) FilterGlossary(ctx context.Context, _ *mcp.CallToolRequest, input FilterGlossaryInput) (*mcp.CallToolResult, any, error) {
	return toolJSON(t.Catalogue.ListGlossary(ctx, input.Search))
}

func (t *Tools) GetMetric(ctx context.Context, _ *mcp.CallToolRequest, input GetMetricInput) (*mcp.CallToolResult, any, error) {
	if err := t.Validator.Validate(input); err != nil {
		return t.failed("get_metric", err), nil, nil
	}

	m, err := t.Catalogue.GetMetric(ctx, input.ID)
	if err != nil {
		return t.failed("get_metric", err), nil, nil
	}
	return toolJSON(m)
}

// failed turns err into a tool error result. Domain errors keep their
// message; anything else is logged and reported generically.
func (t *Tools) failed(tool string, err error) *mcp.CallToolResult {
	var appErr *errors.Error
	if errors.As(err, &appErr) && appErr.Code != errors.CodeInternal {
		return toolError("%s", appErr.Message)
	}

	t.Logger.Error("tool failed", "tool", tool, "error", err)
	if appErr != nil {
		return toolError("%s", appErr.Message)
	}
	return toolError("internal error")
}

func toolError(format string, args ...any) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: fmt.Sprintf(format, args...)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolError("Failed to marshal result: %v", err), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
