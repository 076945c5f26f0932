package export

import (
	"bytes"
	"encoding/json"
	"io"
)

// JSON writes v indented by two spaces, without HTML escaping and without
// a trailing newline.
func JSON(w io.Writer, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return err
	}
	_, err := w.Write(bytes.TrimSuffix(buf.Bytes(), []byte("\n")))
	return err
}

// ReportFileName is the download name for an exported analysis.
func ReportFileName(reportName string) string {
	if reportName == "" {
		reportName = "report"
	}
	return "analysis-" + reportName + ".json"
}
