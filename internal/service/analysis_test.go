package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termalign/termalign-server/internal/analysis"
	"github.com/termalign/termalign-server/internal/errors"
	"github.com/termalign/termalign-server/internal/ingest"
)

func TestAnalysisService_AnalyzeReport(t *testing.T) {
	s := setupTestServices(t, 0)

	result, err := s.analysis.AnalyzeReport(ctx(), "Our churn rate rose while the conversion rate held.")
	require.NoError(t, err)
	require.Len(t, result.Misalignments, 2)
	assert.Equal(t, "Conversion Rate", result.Misalignments[0].Term)
	assert.Equal(t, "Churn Rate", result.Misalignments[1].Term)
	assert.Equal(t, analysis.Summary(2), result.Summary)
}

func TestAnalysisService_AnalyzeReportMatchesDirectCall(t *testing.T) {
	s := setupTestServices(t, 0)
	text := "Quarterly review of Active User numbers."

	result, err := s.analysis.AnalyzeReport(ctx(), text)
	require.NoError(t, err)
	assert.Equal(t, analysis.Analyze(text, s.cat.Metrics()), *result)
}

func TestAnalysisService_AnalyzeReportEmpty(t *testing.T) {
	s := setupTestServices(t, 0)

	_, err := s.analysis.AnalyzeReport(ctx(), "")
	require.Error(t, err)
	assert.Equal(t, "Report text is required", err.Error())
	assert.True(t, errors.Is(err, errors.ErrValidation))
}

func TestAnalysisService_AnalyzeReportFallback(t *testing.T) {
	s := setupTestServices(t, 0)

	result, err := s.analysis.AnalyzeReport(ctx(), "nothing relevant here")
	require.NoError(t, err)
	require.Len(t, result.Misalignments, 3)
	for _, f := range result.Misalignments {
		assert.True(t, analysis.IsFallback(f))
	}
}

func TestAnalysisService_AnalyzeUpload(t *testing.T) {
	s := setupTestServices(t, 0)

	res, err := s.analysis.AnalyzeUpload(ctx(), "q3.html", []byte("<html><body><h1>Churn Rate</h1><p>up</p></body></html>"))
	require.NoError(t, err)
	assert.Equal(t, "q3.html", res.FileName)
	assert.Equal(t, ingest.FormatHTML, res.Format)
	assert.Equal(t, ingest.EncodingUTF8, res.Encoding)
	require.Len(t, res.Result.Misalignments, 1)
	assert.Equal(t, "Churn Rate", res.Result.Misalignments[0].Term)
}

func TestAnalysisService_AnalyzeUploadDefaultsName(t *testing.T) {
	s := setupTestServices(t, 0)

	res, err := s.analysis.AnalyzeUpload(ctx(), "", []byte("engagement is up"))
	require.NoError(t, err)
	assert.Equal(t, analysis.DefaultFileName, res.FileName)
}

func TestAnalysisService_AnalyzeUploadRejects(t *testing.T) {
	s := setupTestServices(t, 0)

	tests := []struct {
		name     string
		fileName string
		data     []byte
	}{
		{"too large", "big.txt", []byte(strings.Repeat("a", 1025))},
		{"unsupported type", "report.exe", []byte("churn rate")},
		{"empty file", "empty.txt", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.analysis.AnalyzeUpload(ctx(), tt.fileName, tt.data)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrValidation))
		})
	}
}
