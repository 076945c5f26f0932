package analysis

import (
	"fmt"
	"time"

	"github.com/termalign/termalign-server/internal/domain"
	"github.com/termalign/termalign-server/internal/errors"
)

// DefaultDelay is the artificial latency of the local analysis path.
const DefaultDelay = 2 * time.Second

// DefaultFileName labels reports that arrive without a file name.
const DefaultFileName = "Unnamed Report"

// ErrAnalysisFailed is what callers see when matching blows up.
var ErrAnalysisFailed = errors.Internal("Failed to analyze report")

// Report is the outcome of one simulated analysis.
type Report struct {
	FileName    string                `json:"fileName"`
	Result      domain.AnalysisResult `json:"result"`
	CompletedAt time.Time             `json:"completedAt"`
	Err         error                 `json:"-"`
}

// SafeAnalyze runs Analyze and turns a panic into ErrAnalysisFailed.
func SafeAnalyze(text string, metrics []domain.ConflictingMetric) (result domain.AnalysisResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = ErrAnalysisFailed.WithCause(fmt.Errorf("panic: %v", r))
		}
	}()
	return Analyze(text, metrics), nil
}

// Simulator runs the matcher after a fixed delay, standing in for a slow
// remote analysis. Runs cannot be cancelled and are not serialised.
type Simulator struct {
	Delay time.Duration
}

// NewSimulator returns a simulator with the given delay; negative means DefaultDelay.
func NewSimulator(delay time.Duration) *Simulator {
	if delay < 0 {
		delay = DefaultDelay
	}
	return &Simulator{Delay: delay}
}

// Start validates text and schedules the analysis. onDone is called once,
// from another goroutine, after Delay.
func (s *Simulator) Start(text, fileName string, metrics []domain.ConflictingMetric, onDone func(Report)) error {
	if err := ValidateReport(text); err != nil {
		return err
	}
	if fileName == "" {
		fileName = DefaultFileName
	}

	time.AfterFunc(s.Delay, func() {
		result, err := SafeAnalyze(text, metrics)
		onDone(Report{
			FileName:    fileName,
			Result:      result,
			CompletedAt: time.Now(),
			Err:         err,
		})
	})
	return nil
}

// Run is Start plus waiting for the outcome.
func (s *Simulator) Run(text, fileName string, metrics []domain.ConflictingMetric) (Report, error) {
	done := make(chan Report, 1)
	if err := s.Start(text, fileName, metrics, func(r Report) { done <- r }); err != nil {
		return Report{}, err
	}
	r := <-done
	return r, r.Err
}
