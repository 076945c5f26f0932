package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
)

func TestCSV_UnionOfKeysAndQuoting(t *testing.T) {
	records := []Record{
		{{"name", "Churn Rate"}, {"note", `says "hi"`}},
		{{"name", "Engagement"}, {"teams", []string{"Marketing", "Product"}}},
		{{"count", 3}, {"name", nil}},
	}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, records))

	want := "name,note,teams,count\n" +
		`"Churn Rate","says ""hi""","",""` + "\n" +
		`"Engagement","","[""Marketing"",""Product""]",""` + "\n" +
		`"","","","3"` + "\n"
	assert.Equal(t, want, buf.String())
}

func TestCSV_RoundTrip(t *testing.T) {
	values := []string{
		"a, b",
		`he said "x"`,
		"line1\nline2",
		`,"`,
		"",
	}
	records := make([]Record, len(values))
	for i, v := range values {
		records[i] = Record{{"id", i}, {"value", v}}
	}

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, records))

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, len(values)+1)
	assert.Equal(t, []string{"id", "value"}, rows[0])
	for i, v := range values {
		assert.Equal(t, v, rows[i+1][1], "row %d", i)
	}
}

func TestCSV_NoRecordsWritesNothing(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, nil))
	assert.Empty(t, buf.String())
}

func TestCSV_MappingExport(t *testing.T) {
	c, err := catalogue.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, MappingRecords(c.Mappings())))

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "Sales KPI,Sales Definition,Marketing KPI,Marketing Definition,Product KPI,Product Definition,Data KPI,Data Definition,Alignment Status", lines[0])
	assert.True(t, strings.HasPrefix(lines[1], `"Conversion Rate","% of qualified leads that become customers"`))
	assert.True(t, strings.HasSuffix(lines[2], `"Partially Aligned"`))

	for _, line := range lines[1:] {
		assert.True(t, strings.HasPrefix(line, `"`) && strings.HasSuffix(line, `"`), line)
	}
}

func TestMetricRecords_NestedValuesAsJSON(t *testing.T) {
	c, err := catalogue.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, CSV(&buf, MetricRecords(c.Metrics()[:1])))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "ID,Metric,Severity,Teams,Definitions,Recommendation\n"))
	assert.Contains(t, out, `"[""Sales"",""Marketing"",""Product""]"`)
	assert.Contains(t, out, `""team"":""Sales""`)
}

func TestJSON_TwoSpaceIndent(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, JSON(&buf, domain.AnalysisResult{
		Misalignments: []domain.MisalignmentFinding{},
		Summary:       "a < b",
	}))

	assert.Equal(t, "{\n  \"misalignments\": [],\n  \"summary\": \"a < b\"\n}", buf.String())
}

func TestReportFileName(t *testing.T) {
	assert.Equal(t, "analysis-q3.txt.json", ReportFileName("q3.txt"))
	assert.Equal(t, "analysis-report.json", ReportFileName(""))
}

func TestSVG_InjectsNamespace(t *testing.T) {
	out, err := SVG([]byte(`<svg class="kpi-relationship-svg" width="10"><line/></svg>`))
	require.NoError(t, err)
	assert.Equal(t, `<svg xmlns="http://www.w3.org/2000/svg" class="kpi-relationship-svg" width="10"><line/></svg>`, string(out))
}

func TestSVG_KeepsExistingNamespace(t *testing.T) {
	in := `<?xml version="1.0"?><svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink"></svg>`
	out, err := SVG([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, in, string(out))
}

func TestSVG_OnlyXlinkStillGetsDefaultNamespace(t *testing.T) {
	out, err := SVG([]byte(`<svg xmlns:xlink="http://www.w3.org/1999/xlink"/>`))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(out), ` xmlns="`))
}

func TestSVG_RejectsNonSVG(t *testing.T) {
	_, err := SVG([]byte(`<div>nope</div>`))
	assert.True(t, errors.Is(err, errors.ErrValidation))

	_, err = SVG([]byte(`<svgish/>`))
	assert.Error(t, err)
}

func TestRelationshipChart(t *testing.T) {
	c, err := catalogue.Default()
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, RelationshipChart(&buf, c.Metrics()))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Equal(t, 1, strings.Count(out, ` xmlns="`))
	assert.Contains(t, out, "Engagement")
	assert.NotContains(t, out, "Retention Rate", "only the leading six metrics are charted")
}

func TestRelationshipChart_Empty(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, RelationshipChart(&buf, nil))
}

func TestRelationshipChart_UnknownSeverity(t *testing.T) {
	metrics := []domain.ConflictingMetric{{
		ID:       1,
		Name:     "Churn Rate",
		Severity: "Critical",
		Teams:    []domain.Team{domain.TeamSales},
		Definitions: []domain.Definition{
			{Team: domain.TeamSales, Definition: "a"},
			{Team: domain.TeamProduct, Definition: "b"},
		},
	}}

	var buf bytes.Buffer
	err := RelationshipChart(&buf, metrics)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrValidation))
	assert.Zero(t, buf.Len())
}
