package orchestration

import (
	"io"
	"sync"
	"time"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/metrics"
	"github.com/agbru/renewcalc/internal/progress"
	"github.com/agbru/renewcalc/internal/scenario"
)

// ScenarioResult is the outcome of evaluating one scenario on a site. It is
// the shared type between orchestration and presentation layers.
type ScenarioResult struct {
	// Scenario is the scenario that was evaluated.
	Scenario scenario.Scenario
	// Result is the engine output. It is the zero value if Err is set.
	Result feasibility.Result
	// Indicators are the headline figures derived from Result.
	Indicators metrics.Indicators
	// Duration is the time taken by the evaluation.
	Duration time.Duration
	// Err contains any error that occurred during the evaluation.
	Err error
}

// PresentationOptions configures how results are presented to the user.
type PresentationOptions struct {
	// Selected is the scenario key shown in detail after the comparison.
	Selected string
	Verbose  bool
	Details  bool
	// Strict turns an infeasible selected scenario into a failing exit code.
	Strict bool
}

// ProgressReporter defines the interface for displaying evaluation progress.
// Implementations handle the visual representation (spinners, progress
// bars) while the orchestration layer coordinates the work.
type ProgressReporter interface {
	// DisplayProgress consumes updates until progressChan is closed and then
	// calls wg.Done. It is run in its own goroutine.
	DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer)
}

// ProgressReporterFunc is a function adapter that implements ProgressReporter.
type ProgressReporterFunc func(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer)

// DisplayProgress calls the underlying function.
func (f ProgressReporterFunc) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer) {
	f(wg, progressChan, numTasks, out)
}

// NullProgressReporter drains the progress channel without displaying
// anything. Used for quiet mode, the HTTP server and tests.
type NullProgressReporter struct{}

// DisplayProgress drains the channel without output.
func (NullProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, _ int, _ io.Writer) {
	defer wg.Done()
	DrainChannel(progressChan)
}

// ResultPresenter defines the interface for presenting evaluation results.
type ResultPresenter interface {
	// PresentComparisonTable displays the scenario comparison summary.
	PresentComparisonTable(results []ScenarioResult, out io.Writer)

	// PresentResult displays one scenario in detail.
	PresentResult(result ScenarioResult, opts PresentationOptions, out io.Writer)
}

// DurationFormatter formats durations for display.
type DurationFormatter interface {
	FormatDuration(d time.Duration) string
}

// ErrorHandler handles evaluation errors and returns exit codes.
type ErrorHandler interface {
	HandleError(err error, duration time.Duration, out io.Writer) int
}
