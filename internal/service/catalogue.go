package service

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
	"github.com/termalign/termalign-server/internal/search"
)

const maxSearchLimit = 100

// MetricList is a filtered view of the conflicting metrics.
// Empty is set when the filter matched nothing so clients can show a
// "no results" state instead of a blank table.
type MetricList struct {
	Metrics []domain.ConflictingMetric `json:"metrics"`
	Total   int                        `json:"total"`
	Empty   bool                       `json:"empty"`
}

// GlossaryList is a filtered view of glossary terms.
type GlossaryList struct {
	Terms []domain.GlossaryTerm `json:"terms"`
	Total int                   `json:"total"`
	Empty bool                  `json:"empty"`
}

func newGlossaryList(terms []domain.GlossaryTerm) *GlossaryList {
	return &GlossaryList{Terms: terms, Total: len(terms), Empty: len(terms) == 0}
}

// CatalogueService serves read-only views of the KPI catalogue.
type CatalogueService struct {
	catalogue *catalogue.Catalogue
	index     *search.SearchIndex
	logger    *slog.Logger
}

// NewCatalogueService creates a catalogue service.
func NewCatalogueService(cat *catalogue.Catalogue, index *search.SearchIndex, logger *slog.Logger) *CatalogueService {
	return &CatalogueService{
		catalogue: cat,
		index:     index,
		logger:    logger,
	}
}

// ListMetrics filters metrics by free text and severity ("all" or a
// severity name). An unknown severity is a validation error.
func (s *CatalogueService) ListMetrics(_ context.Context, q, severity string) (*MetricList, error) {
	severity, err := catalogue.ParseSeverityFilter(severity)
	if err != nil {
		return nil, err
	}

	metrics := catalogue.FilterMetrics(s.catalogue.Metrics(), q, severity)
	return &MetricList{Metrics: metrics, Total: len(metrics), Empty: len(metrics) == 0}, nil
}

// GetMetric returns one metric by id.
func (s *CatalogueService) GetMetric(_ context.Context, id int) (*domain.ConflictingMetric, error) {
	m, err := s.catalogue.Metric(id)
	if err != nil {
		return nil, err
	}
	return &m, nil
}

// ListGlossary filters the canonical glossary by name or definition.
func (s *CatalogueService) ListGlossary(_ context.Context, q string) *GlossaryList {
	return newGlossaryList(catalogue.FilterGlossary(s.catalogue.Glossary(), q))
}

// ListMappings returns the cross-department metric mappings.
func (s *CatalogueService) ListMappings(_ context.Context) []domain.MetricMapping {
	return s.catalogue.Mappings()
}

// Metrics returns the full metric list in catalogue order.
func (s *CatalogueService) Metrics() []domain.ConflictingMetric {
	return s.catalogue.Metrics()
}

// Search runs a ranked full-text query across metrics, glossary and mappings.
func (s *CatalogueService) Search(ctx context.Context, params search.SearchParams) (*search.SearchResult, error) {
	params.Query = strings.TrimSpace(params.Query)

	for _, t := range params.Types {
		if !slices.Contains(search.DocTypes, search.DocType(t)) {
			return nil, errors.ValidationWithDetails(
				fmt.Sprintf("unknown search type %q", t),
				map[string]string{"types": "must be one of: metric, glossary, mapping"},
			)
		}
	}

	if params.Limit <= 0 {
		params.Limit = search.DefaultSearchParams().Limit
	}
	params.Limit = min(params.Limit, maxSearchLimit)
	params.Offset = max(params.Offset, 0)

	result, err := s.index.Search(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("search catalogue: %w", err)
	}

	s.logger.Debug("catalogue search",
		"query", params.Query,
		"types", params.Types,
		"total", result.Total,
		"took_ms", result.TookMs,
	)
	return result, nil
}

// Warnings lists catalogue invariant violations found at load time.
func (s *CatalogueService) Warnings() []string {
	return s.catalogue.Validate()
}
