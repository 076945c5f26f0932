package service

import (
	"context"
	"log/slog"

	"github.com/termalign/termalign-server/internal/analysis"
	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
	"github.com/termalign/termalign-server/internal/ingest"
)

// UploadResult is the analysis of an uploaded report file.
type UploadResult struct {
	FileName string                `json:"fileName"`
	Format   string                `json:"format"`
	Encoding string                `json:"encoding"`
	Result   domain.AnalysisResult `json:"result"`
}

// AnalysisService runs the conflict matcher on report text.
type AnalysisService struct {
	catalogue      *catalogue.Catalogue
	logger         *slog.Logger
	maxUploadBytes int64
}

// NewAnalysisService creates an analysis service. maxUploadBytes <= 0 means no limit.
func NewAnalysisService(cat *catalogue.Catalogue, logger *slog.Logger, maxUploadBytes int64) *AnalysisService {
	return &AnalysisService{
		catalogue:      cat,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}
}

// AnalyzeReport matches text against the catalogue.
// Empty text yields "Report text is required"; a failure inside the matcher
// is logged and reported as "Failed to analyze report".
func (s *AnalysisService) AnalyzeReport(_ context.Context, text string) (*domain.AnalysisResult, error) {
	if err := analysis.ValidateReport(text); err != nil {
		return nil, err
	}

	result, err := analysis.SafeAnalyze(text, s.catalogue.Metrics())
	if err != nil {
		s.logger.Error("report analysis failed", "error", err, "text_length", len(text))
		return nil, err
	}

	fallback := len(result.Misalignments) > 0 && analysis.IsFallback(result.Misalignments[0])
	s.logger.Debug("report analyzed",
		"text_length", len(text),
		"findings", len(result.Misalignments),
		"fallback", fallback,
	)
	return &result, nil
}

// AnalyzeUpload decodes an uploaded file and analyzes its text.
func (s *AnalysisService) AnalyzeUpload(ctx context.Context, fileName string, data []byte) (*UploadResult, error) {
	if s.maxUploadBytes > 0 && int64(len(data)) > s.maxUploadBytes {
		return nil, errors.Validationf("report file exceeds %d bytes", s.maxUploadBytes)
	}
	if fileName == "" {
		fileName = analysis.DefaultFileName
	}

	doc, err := ingest.Decode(fileName, data)
	if err != nil {
		return nil, err
	}

	result, err := s.AnalyzeReport(ctx, doc.Text)
	if err != nil {
		return nil, err
	}

	s.logger.Info("uploaded report analyzed",
		"file", doc.FileName,
		"format", doc.Format,
		"encoding", doc.Encoding,
		"findings", len(result.Misalignments),
	)
	return &UploadResult{
		FileName: doc.FileName,
		Format:   doc.Format,
		Encoding: doc.Encoding,
		Result:   *result,
	}, nil
}
