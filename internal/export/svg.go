package export

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
)

// SVGNamespace is the namespace a standalone SVG file must declare.
const SVGNamespace = "http://www.w3.org/2000/svg"

// relationshipLimit is how many metrics the relationship chart shows.
const relationshipLimit = 6

var (
	svgRootTag   = regexp.MustCompile(`(?s)<svg\b[^>]*>`)
	defaultXMLNS = regexp.MustCompile(`\sxmlns\s*=`)
)

// SVG makes inline markup a standalone file by declaring the SVG namespace
// on the root element. Markup that already declares it is returned as is.
func SVG(markup []byte) ([]byte, error) {
	loc := svgRootTag.FindIndex(markup)
	if loc == nil {
		return nil, errors.Validation("markup has no <svg> element")
	}

	root := markup[loc[0]:loc[1]]
	if defaultXMLNS.Match(root) {
		return markup, nil
	}

	insertAt := loc[0] + len("<svg")
	out := make([]byte, 0, len(markup)+len(SVGNamespace)+10)
	out = append(out, markup[:insertAt]...)
	out = append(out, ` xmlns="`+SVGNamespace+`"`...)
	out = append(out, markup[insertAt:]...)
	return out, nil
}

// RelationshipChart renders definition counts for the leading conflicting
// metrics as an SVG bar chart.
func RelationshipChart(w io.Writer, metrics []domain.ConflictingMetric) error {
	top := metrics[:min(relationshipLimit, len(metrics))]
	if len(top) == 0 {
		return errors.Validation("no metrics to chart")
	}

	maxDefs := 0
	bars := make([]chart.Value, len(top))
	for i, m := range top {
		fill, err := severityFill(m.Severity)
		if err != nil {
			return errors.Validationf("metric %q: %v", m.Name, err)
		}
		maxDefs = max(maxDefs, len(m.Definitions))
		bars[i] = chart.Value{
			Label: m.Name,
			Value: float64(len(m.Definitions)),
			Style: chart.Style{
				FillColor:   fill,
				StrokeColor: fill,
			},
		}
	}

	graph := chart.BarChart{
		Title:  "Conflicting Definitions by Metric",
		Width:  1024,
		Height: 420,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 10, Right: 20, Bottom: 10},
		},
		BarWidth:   80,
		BarSpacing: 60,
		YAxis: chart.YAxis{
			Range: &chart.ContinuousRange{Min: 0, Max: float64(maxDefs + 1)},
			ValueFormatter: func(v interface{}) string {
				if f, ok := v.(float64); ok {
					return fmt.Sprintf("%.0f", f)
				}
				return ""
			},
		},
		Bars: bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.SVG, &buf); err != nil {
		return fmt.Errorf("chart render failed: %w", err)
	}

	out, err := SVG(buf.Bytes())
	if err != nil {
		return err
	}
	_, err = w.Write(out)
	return err
}

func severityFill(s domain.Severity) (drawing.Color, error) {
	hex, err := domain.SeverityHex(s)
	if err != nil {
		return drawing.Color{}, err
	}
	return drawing.ColorFromHex(hex), nil
}
