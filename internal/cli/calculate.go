package cli

import (
	"fmt"
	"io"
	"runtime"

	"github.com/agbru/renewcalc/internal/config"
	"github.com/agbru/renewcalc/internal/format"
	"github.com/agbru/renewcalc/internal/scenario"
	"github.com/agbru/renewcalc/internal/ui"
)

// PrintExecutionConfig displays the site, targets and environment of a run.
func PrintExecutionConfig(cfg config.AppConfig, out io.Writer) {
	s := cfg.Site
	fmt.Fprintf(out, "--- Execution Configuration ---\n")
	fmt.Fprintf(out, "Site: %s%.0f m²%s, legal FAR %s%s%s, bonus %s×%.2f%s, %d floors / B%d, timeout %s%s%s.\n",
		ui.ColorMagenta(), s.AreaM2, ui.ColorReset(),
		ui.ColorMagenta(), format.FormatPercent(s.LegalFAR, 0), ui.ColorReset(),
		ui.ColorMagenta(), s.BonusMultiplier, ui.ColorReset(),
		s.Floors, s.BasementLevels,
		ui.ColorYellow(), cfg.Timeout, ui.ColorReset())
	fmt.Fprintf(out, "Targets: IRR ≥ %s%s%s, landlord share ≥ %s%s%s.\n",
		ui.ColorCyan(), format.FormatPercent(cfg.Options.TargetIRR, 0), ui.ColorReset(),
		ui.ColorCyan(), format.FormatPercent(cfg.Options.TargetLandlordRatio, 0), ui.ColorReset())
	fmt.Fprintf(out, "Environment: %s%d%s logical processors, Go %s%s%s.\n",
		ui.ColorCyan(), runtime.NumCPU(), ui.ColorReset(), ui.ColorCyan(), runtime.Version(), ui.ColorReset())
}

// PrintExecutionMode displays whether one scenario or a comparison runs.
func PrintExecutionMode(scenarios []scenario.Scenario, out io.Writer) {
	var modeDesc string
	switch len(scenarios) {
	case 0:
		modeDesc = "No scenario selected"
	case 1:
		modeDesc = fmt.Sprintf("Single evaluation of %s%s%s",
			ui.ColorGreen(), scenarios[0].Label(), ui.ColorReset())
	default:
		modeDesc = fmt.Sprintf("Parallel comparison of %d scenarios", len(scenarios))
	}
	fmt.Fprintf(out, "Execution mode: %s.\n", modeDesc)
	fmt.Fprintf(out, "\n--- Starting Execution ---\n")
}
