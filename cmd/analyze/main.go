// Command analyze scans a report file or text for KPI terminology
// misalignments and prints the result as JSON.
//
// Usage:
//
//	analyze --file q3-review.pdf
//	analyze --text "Churn Rate rose again" --delay 0s
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/termalign/termalign-server/internal/analysis"
	"github.com/termalign/termalign-server/internal/catalogue"
	"github.com/termalign/termalign-server/internal/export"
	"github.com/termalign/termalign-server/internal/ingest"
	"github.com/termalign/termalign-server/internal/logger"
	"github.com/termalign/termalign-server/internal/service"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("analyze", flag.ContinueOnError)
	fs.SetOutput(stderr)

	file := fs.String("file", "", "Report file to analyze (.txt, .md, .csv, .html, .pdf, ...)")
	text := fs.String("text", "", "Report text to analyze instead of a file")
	delay := fs.Duration("delay", 0, "Simulated analysis delay")
	cataloguePath := fs.String("catalogue", "", "Catalogue file (default: embedded sample)")
	logLevel := fs.String("log-level", "warn", "Log level (debug, info, warn, error)")

	if err := fs.Parse(args); err != nil {
		return 2
	}

	log := logger.New(logger.Config{
		Writer: stderr,
		Level:  logger.ParseLevel(*logLevel),
	})

	if (*file == "") == (*text == "") {
		fmt.Fprintln(stderr, "exactly one of --file or --text is required")
		fs.Usage()
		return 2
	}

	cat, err := catalogue.Load(*cataloguePath)
	if err != nil {
		log.Error("Failed to load catalogue", "error", err)
		return 1
	}

	reportText, fileName := *text, analysis.DefaultFileName
	if *file != "" {
		data, err := os.ReadFile(*file) //#nosec G304 -- user-supplied report path
		if err != nil {
			log.Error("Failed to read report", "file", *file, "error", err)
			return 1
		}
		doc, err := ingest.Decode(filepath.Base(*file), data)
		if err != nil {
			log.Error("Failed to decode report", "file", *file, "error", err)
			return 1
		}
		log.Info("Report decoded", "format", doc.Format, "encoding", doc.Encoding)
		reportText, fileName = doc.Text, doc.FileName
	}

	start := time.Now()
	report, err := analysis.NewSimulator(*delay).Run(reportText, fileName, cat.Metrics())
	if err != nil {
		log.Error("Analysis failed", "error", err)
		return 1
	}
	log.Info("Analysis complete",
		"findings", len(report.Result.Misalignments),
		"duration", time.Since(start),
	)

	out := service.AnalysisExport{
		Misalignments: report.Result.Misalignments,
		Summary:       report.Result.Summary,
		FileName:      report.FileName,
	}
	if err := export.JSON(stdout, out); err != nil {
		log.Error("Failed to write result", "error", err)
		return 1
	}
	fmt.Fprintln(stdout)
	return 0
}
