package api

import (
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportMappingsCSV(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/exports/mappings.csv")
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	assert.Contains(t, resp.Header().Get("Content-Type"), "text/csv")
	assert.Equal(t, `attachment; filename="kpi-mappings.csv"`, resp.Header().Get("Content-Disposition"))

	lines := strings.Split(strings.TrimSpace(resp.Body.String()), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "Sales KPI,Sales Definition"))
}

func TestExportMetricsCSV_Filtered(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/exports/metrics.csv?severity=Low")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `attachment; filename="conflicting-metrics.csv"`, resp.Header().Get("Content-Disposition"))

	body := resp.Body.String()
	assert.Contains(t, body, "Activation")
	assert.NotContains(t, body, "Conversion Rate")

	resp = ts.api.Get("/api/v1/exports/metrics.csv?severity=urgent")
	assert.Equal(t, http.StatusBadRequest, resp.Code)
}

func TestExportRelationshipsSVG(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Get("/api/v1/exports/relationships.svg")
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Header().Get("Content-Type"), "image/svg+xml")
	assert.Contains(t, resp.Body.String(), "<svg")
}

func TestExportSVG(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/exports/svg?fileName=chart.svg",
		"Content-Type: image/svg+xml",
		strings.NewReader(`<svg width="10" height="10"><rect/></svg>`),
	)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Equal(t, `attachment; filename="chart.svg"`, resp.Header().Get("Content-Disposition"))
	assert.Equal(t, 1, strings.Count(resp.Body.String(), `xmlns="http://www.w3.org/2000/svg"`))
}

func TestExportSVG_RejectsNonSVG(t *testing.T) {
	ts := setupTestServer(t)

	resp := ts.api.Post("/api/v1/exports/svg",
		"Content-Type: image/svg+xml",
		strings.NewReader(`<div/>`),
	)
	require.Equal(t, http.StatusBadRequest, resp.Code)

	body := decodeJSON[errorBody](t, resp.Body.Bytes())
	assert.Equal(t, "VALIDATION", body.Code)
}
