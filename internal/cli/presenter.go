package cli

import (
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"

	apperrors "github.com/agbru/renewcalc/internal/errors"
	"github.com/agbru/renewcalc/internal/format"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/progress"
	"github.com/agbru/renewcalc/internal/ui"
)

// CLIProgressReporter implements orchestration.ProgressReporter for CLI output.
// It wraps the DisplayProgress function to provide a spinner and progress bar
// display during evaluations.
type CLIProgressReporter struct{}

// Verify that CLIProgressReporter implements orchestration.ProgressReporter.
var _ orchestration.ProgressReporter = CLIProgressReporter{}

// DisplayProgress displays a spinner and progress bar for ongoing evaluations.
func (CLIProgressReporter) DisplayProgress(wg *sync.WaitGroup, progressChan <-chan progress.ProgressUpdate, numTasks int, out io.Writer) {
	DisplayProgress(wg, progressChan, numTasks, out)
}

// CLIResultPresenter implements orchestration.ResultPresenter for CLI output.
// It provides formatted, colorized output for evaluation results in the
// command-line interface.
type CLIResultPresenter struct{}

// Verify interface compliance.
var (
	_ orchestration.ResultPresenter   = CLIResultPresenter{}
	_ orchestration.DurationFormatter = CLIResultPresenter{}
	_ orchestration.ErrorHandler      = CLIResultPresenter{}
)

// PresentComparisonTable displays the comparison summary table with
// scenario labels, landlord share, IRR, verdict and duration.
// Uses manual padding on display width to handle ANSI codes and CJK labels.
func (CLIResultPresenter) PresentComparisonTable(results []orchestration.ScenarioResult, out io.Writer) {
	fmt.Fprintf(out, "\n--- Scenario Comparison ---\n")

	headers := []string{"Scenario", "Landlord", "IRR", "Duration", "Status"}
	rows := make([][]string, 0, len(results))
	for _, res := range results {
		duration := format.FormatExecutionDuration(res.Duration)
		if res.Duration == 0 {
			duration = "< 1µs"
		}
		if res.Err != nil {
			rows = append(rows, []string{res.Scenario.Label(), "-", "-", duration,
				fmt.Sprintf("%s❌ Failure (%v)%s", ui.ColorRed(), res.Err, ui.ColorReset())})
			continue
		}
		r := res.Result
		status := ui.Verdict("✅ Feasible", true)
		if !r.Feasible {
			status = ui.Verdict("⚠️  Not feasible", false)
		}
		rows = append(rows, []string{res.Scenario.Label(), format.FormatRatio(r.Distribution.LandlordRatio),
			irrString(r.IRR, r.IRRDefined), duration, status})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if w := lipgloss.Width(cell); w > widths[i] {
				widths[i] = w
			}
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(ui.ColorUnderline() + h + ui.ColorReset())
		if i < len(headers)-1 {
			b.WriteString(padRight("", widths[i]-lipgloss.Width(h)) + "   ")
		}
	}
	fmt.Fprintln(out, b.String())

	colors := []func() string{ui.ColorBlue, ui.ColorCyan, ui.ColorMagenta, ui.ColorYellow}
	for _, row := range rows {
		b.Reset()
		for i, cell := range row {
			if i < len(colors) {
				b.WriteString(colors[i]() + cell + ui.ColorReset())
				b.WriteString(padRight("", widths[i]-lipgloss.Width(cell)) + "   ")
				continue
			}
			b.WriteString(cell)
		}
		fmt.Fprintln(out, b.String())
	}
}

// padRight returns s followed by length spaces.
func padRight(s string, length int) string {
	if length <= 0 {
		return s
	}
	return s + strings.Repeat(" ", length)
}

// PresentResult displays one scenario in detail using DisplayResult.
func (CLIResultPresenter) PresentResult(result orchestration.ScenarioResult, opts orchestration.PresentationOptions, out io.Writer) {
	DisplayResult(result, opts, out)
}

// FormatDuration formats a duration for display using the CLI's standard
// duration formatting.
func (CLIResultPresenter) FormatDuration(d time.Duration) string {
	return format.FormatExecutionDuration(d)
}

// HandleError handles evaluation errors and returns an appropriate exit code.
func (CLIResultPresenter) HandleError(err error, duration time.Duration, out io.Writer) int {
	return apperrors.HandleCalculationError(err, duration, out, CLIColorProvider{})
}

func irrString(irr float64, defined bool) string {
	if !defined {
		return "n/a"
	}
	return format.FormatPercent(irr, 2)
}
