// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayResult], [DisplayQuietResult], [DisplayProgress].
//
//   - Format* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [FormatQuietResult].
//
//   - Write* functions write data to files on the filesystem.
//     They handle file creation, directory setup, and error handling.
//     Examples: [WriteReportToFile].

package cli

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/report"
	"github.com/agbru/renewcalc/internal/ui"
)

// OutputConfig holds configuration for result output.
type OutputConfig struct {
	// OutputFile is the path to save the report (empty for no file output).
	OutputFile string
	// Format selects the file encoding. Empty infers it from the extension.
	Format string
	// Quiet mode prints a single result line.
	Quiet bool
}

// FormatQuietResult formats a result as a single line suitable for scripting.
func FormatQuietResult(r feasibility.Result) string {
	irr := "n/a"
	if r.IRRDefined {
		irr = fmt.Sprintf("%.2f%%", r.IRR)
	}
	return fmt.Sprintf("IRR=%s landlord=%.2f%% feasible=%t", irr, r.LandlordPercent(), r.Feasible)
}

// DisplayQuietResult outputs a result in quiet mode.
func DisplayQuietResult(out io.Writer, r feasibility.Result) {
	fmt.Fprintln(out, FormatQuietResult(r))
}

// WriteReportToFile writes a report to config.OutputFile, creating parent
// directories as needed.
func WriteReportToFile(r *report.Report, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}

	f := report.FormatFromPath(config.OutputFile)
	if config.Format != "" {
		parsed, err := report.ParseFormat(config.Format)
		if err != nil {
			return err
		}
		f = parsed
	}

	dir := filepath.Dir(config.OutputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	file, err := os.Create(config.OutputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := r.Write(file, f); err != nil {
		file.Close()
		return fmt.Errorf("failed to write report: %w", err)
	}
	return file.Close()
}

// SaveReport writes the report when an output file is configured and
// confirms the path unless in quiet mode.
func SaveReport(out io.Writer, r *report.Report, config OutputConfig) error {
	if config.OutputFile == "" {
		return nil
	}
	if err := WriteReportToFile(r, config); err != nil {
		return err
	}
	if !config.Quiet {
		fmt.Fprintf(out, "\n%s✓ Report saved to: %s%s%s\n",
			ui.ColorGreen(), ui.ColorCyan(), config.OutputFile, ui.ColorReset())
	}
	return nil
}
