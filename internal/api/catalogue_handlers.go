package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/search"
	"github.com/termalign/termalign-server/internal/service"
)

func (s *Server) registerCatalogueRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "listMetrics",
		Method:      http.MethodGet,
		Path:        "/api/v1/metrics",
		Summary:     "List conflicting metrics",
		Description: "Filters conflicting metrics by free text (name, team or definition) and severity",
		Tags:        []string{"Catalogue"},
	}, s.handleListMetrics)

	huma.Register(s.api, huma.Operation{
		OperationID: "getMetric",
		Method:      http.MethodGet,
		Path:        "/api/v1/metrics/{id}",
		Summary:     "Get metric",
		Description: "Returns a conflicting metric by ID",
		Tags:        []string{"Catalogue"},
	}, s.handleGetMetric)

	huma.Register(s.api, huma.Operation{
		OperationID: "listGlossary",
		Method:      http.MethodGet,
		Path:        "/api/v1/glossary",
		Summary:     "List glossary",
		Description: "Filters the standardized glossary by name or definition",
		Tags:        []string{"Catalogue"},
	}, s.handleListGlossary)

	huma.Register(s.api, huma.Operation{
		OperationID: "listMappings",
		Method:      http.MethodGet,
		Path:        "/api/v1/mappings",
		Summary:     "List metric mappings",
		Description: "Returns how each department names the same concept",
		Tags:        []string{"Catalogue"},
	}, s.handleListMappings)

	huma.Register(s.api, huma.Operation{
		OperationID: "searchCatalogue",
		Method:      http.MethodGet,
		Path:        "/api/v1/search",
		Summary:     "Search catalogue",
		Description: "Ranked full-text search across metrics, glossary terms and mappings",
		Tags:        []string{"Catalogue"},
	}, s.handleSearch)
}

// === DTOs ===

// ListMetricsInput contains parameters for filtering metrics.
type ListMetricsInput struct {
	Q        string `query:"q" doc:"Case-insensitive text matched against name, teams and definitions"`
	Severity string `query:"severity" default:"all" doc:"all, High, Medium or Low"`
}

// ListMetricsOutput wraps the metric list for Huma.
type ListMetricsOutput struct {
	Body service.MetricList
}

// GetMetricInput contains parameters for getting a metric.
type GetMetricInput struct {
	ID int `path:"id" doc:"Metric ID"`
}

// MetricOutput wraps a single metric for Huma.
type MetricOutput struct {
	Body domain.ConflictingMetric
}

// ListGlossaryInput contains parameters for filtering glossary terms.
type ListGlossaryInput struct {
	Q string `query:"q" doc:"Case-insensitive text matched against name and definition"`
}

// GlossaryListOutput wraps a glossary list for Huma.
type GlossaryListOutput struct {
	Body service.GlossaryList
}

// MappingsResponse contains the metric mappings.
type MappingsResponse struct {
	Mappings []domain.MetricMapping `json:"mappings"`
}

// MappingsOutput wraps the mappings for Huma.
type MappingsOutput struct {
	Body MappingsResponse
}

// SearchInput contains search parameters.
type SearchInput struct {
	Q        string   `query:"q" doc:"Search query; empty matches everything"`
	Types    []string `query:"types" doc:"Document types: metric, glossary, mapping"`
	Severity string   `query:"severity" doc:"Exact severity or alignment status"`
	Limit    int      `query:"limit" default:"20" doc:"Maximum hits (capped at 100)"`
	Offset   int      `query:"offset" doc:"Hits to skip"`
	Sort     string   `query:"sort" default:"relevance" enum:"relevance,name" doc:"Sort order"`
}

// SearchOutput wraps search results for Huma.
type SearchOutput struct {
	Body search.SearchResult
}

// === Handlers ===

func (s *Server) handleListMetrics(ctx context.Context, input *ListMetricsInput) (*ListMetricsOutput, error) {
	list, err := s.services.Catalogue.ListMetrics(ctx, input.Q, input.Severity)
	if err != nil {
		return nil, err
	}
	return &ListMetricsOutput{Body: *list}, nil
}

func (s *Server) handleGetMetric(ctx context.Context, input *GetMetricInput) (*MetricOutput, error) {
	m, err := s.services.Catalogue.GetMetric(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	return &MetricOutput{Body: *m}, nil
}

func (s *Server) handleListGlossary(ctx context.Context, input *ListGlossaryInput) (*GlossaryListOutput, error) {
	return &GlossaryListOutput{Body: *s.services.Catalogue.ListGlossary(ctx, input.Q)}, nil
}

func (s *Server) handleListMappings(ctx context.Context, _ *struct{}) (*MappingsOutput, error) {
	return &MappingsOutput{Body: MappingsResponse{Mappings: s.services.Catalogue.ListMappings(ctx)}}, nil
}

func (s *Server) handleSearch(ctx context.Context, input *SearchInput) (*SearchOutput, error) {
	params := search.DefaultSearchParams()
	params.Query = input.Q
	params.Types = input.Types
	params.Severity = input.Severity
	params.Limit = input.Limit
	params.Offset = input.Offset
	params.SortBy = input.Sort

	result, err := s.services.Catalogue.Search(ctx, params)
	if err != nil {
		return nil, err
	}
	return &SearchOutput{Body: *result}, nil
}
