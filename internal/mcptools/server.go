// Package mcptools exposes report analysis and catalogue lookups as MCP tools.
package mcptools

import (
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/termalign/termalign-server/internal/service"
	"github.com/termalign/termalign-server/internal/validation"
)

// ServerName identifies the tool server to MCP clients.
const ServerName = "termalign"

// New creates an MCP server with every tool registered.
func New(catalogue *service.CatalogueService, analysis *service.AnalysisService, v *validation.Validator, logger *slog.Logger, version string) *mcp.Server {
	t := &Tools{
		Catalogue: catalogue,
		Analysis:  analysis,
		Validator: v,
		Logger:    logger,
	}

	srv := mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version,
	}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_report",
		Description: "Scan report text for KPI names that departments define differently",
	}, t.AnalyzeReport)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "filter_metrics",
		Description: "List conflicting metrics, optionally filtered by text and severity (all, High, Medium, Low)",
	}, t.FilterMetrics)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "filter_glossary",
		Description: "List standardized glossary terms, optionally filtered by text",
	}, t.FilterGlossary)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "get_metric",
		Description: "Get one conflicting metric with every department's definition",
	}, t.GetMetric)

	return srv
}
