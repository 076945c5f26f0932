package service

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"

	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/export"
)

// ExportService renders catalogue downloads.
type ExportService struct {
	catalogue *catalogue.Catalogue
	logger    *slog.Logger
}

// NewExportService creates an export service.
func NewExportService(cat *catalogue.Catalogue, logger *slog.Logger) *ExportService {
	return &ExportService{catalogue: cat, logger: logger}
}

// MappingsCSV renders the metric mapping table as CSV.
func (s *ExportService) MappingsCSV(_ context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.CSV(&buf, export.MappingRecords(s.catalogue.Mappings())); err != nil {
		return nil, fmt.Errorf("export mappings: %w", err)
	}
	return buf.Bytes(), nil
}

// MetricsCSV renders the conflicting metrics as CSV, filtered the same way
// as the metric listing.
func (s *ExportService) MetricsCSV(_ context.Context, q, severity string) ([]byte, error) {
	severity, err := catalogue.ParseSeverityFilter(severity)
	if err != nil {
		return nil, err
	}

	metrics := catalogue.FilterMetrics(s.catalogue.Metrics(), q, severity)
	var buf bytes.Buffer
	if err := export.CSV(&buf, export.MetricRecords(metrics)); err != nil {
		return nil, fmt.Errorf("export metrics: %w", err)
	}
	return buf.Bytes(), nil
}

// RelationshipsSVG renders the top-conflicts chart.
func (s *ExportService) RelationshipsSVG(_ context.Context) ([]byte, error) {
	var buf bytes.Buffer
	if err := export.RelationshipChart(&buf, s.catalogue.Metrics()); err != nil {
		return nil, fmt.Errorf("render relationship chart: %w", err)
	}
	return buf.Bytes(), nil
}

// StandaloneSVG makes client-rendered SVG markup openable on its own.
func (s *ExportService) StandaloneSVG(_ context.Context, markup []byte) ([]byte, error) {
	out, err := export.SVG(markup)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("svg exported", "bytes_in", len(markup), "bytes_out", len(out))
	return out, nil
}
