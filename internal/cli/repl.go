// Package cli provides the terminal presentation layer: progress display,
// result tables, report output and the interactive REPL.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/format"
	"github.com/agbru/renewcalc/internal/metrics"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/scenario"
	"github.com/agbru/renewcalc/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Scenario is the initial scenario key.
	Scenario string
	// Site is the initial site.
	Site feasibility.Site
	// Options are the engine constants.
	Options feasibility.Options
	// Timeout bounds each comparison.
	Timeout time.Duration
}

// REPL is an interactive feasibility session.
type REPL struct {
	config   REPLConfig
	registry *scenario.Registry
	site     feasibility.Site
	current  string
	in       io.Reader
	out      io.Writer
}

// siteSetter applies a value to one site or target field.
type siteSetter struct {
	help  string
	apply func(r *REPL, v float64)
}

var siteFields = map[string]siteSetter{
	"area":            {"site area in m²", func(r *REPL, v float64) { r.site.AreaM2 = v }},
	"floors":          {"above-ground floors", func(r *REPL, v float64) { r.site.Floors = int(v) }},
	"basement":        {"basement levels", func(r *REPL, v float64) { r.site.BasementLevels = int(v) }},
	"far":             {"legal FAR in percent", func(r *REPL, v float64) { r.site.LegalFAR = v }},
	"bonus":           {"FAR bonus multiplier", func(r *REPL, v float64) { r.site.BonusMultiplier = v }},
	"original-far":    {"existing FAR multiplier, 0 to disable", func(r *REPL, v float64) { r.site.UseOriginalFAR, r.site.OriginalFARMultiplier = v > 0, v }},
	"land":            {"land value in 萬/坪", func(r *REPL, v float64) { r.site.LandUnitPrice = v }},
	"price":           {"sales price in 萬/坪, 0 for the scenario price", func(r *REPL, v float64) { r.site.SalesUnitPrice = v }},
	"parking":         {"parking spaces", func(r *REPL, v float64) { r.site.ParkingUnits = int(v) }},
	"target-irr":      {"IRR target in percent", func(r *REPL, v float64) { r.config.Options.TargetIRR = v }},
	"target-landlord": {"landlord share target in percent", func(r *REPL, v float64) { r.config.Options.TargetLandlordRatio = v }},
}

// NewREPL creates a new REPL instance over registry.
func NewREPL(registry *scenario.Registry, config REPLConfig) *REPL {
	current := scenario.NormalizeKey(config.Scenario)
	if _, ok := registry.Get(current); !ok {
		current = scenario.KeyOfficial
	}
	return &REPL{
		config:   config,
		registry: registry,
		site:     config.Site,
		current:  current,
		in:       os.Stdin,
		out:      os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start begins the interactive REPL session.
// It continuously reads user input and processes commands until
// the user exits or EOF is reached.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"renew> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && strings.TrimSpace(input) != "") {
			if errors.Is(err, io.EOF) {
				fmt.Fprintln(r.out, "\nGoodbye!")
				return
			}
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			continue
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if !r.processCommand(input) {
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════════════╗%s\n", ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %s🏗  防災型都更試算 - Interactive Mode%s                    %s║%s\n",
		ui.ColorCyan(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorCyan(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════════════╝%s\n\n", ui.ColorCyan(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sset <field> <v>%s - Change a site field (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(fieldNames(), ", "))
	fmt.Fprintf(r.out, "  %sscenario <key>%s  - Change scenario (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(r.registry.List(), ", "))
	fmt.Fprintf(r.out, "  %scalc%s            - Evaluate the current scenario\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %scompare%s         - Compare every scenario\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sbonus%s           - FAR bonus sweep 0%%..50%%\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sboundary%s        - Break-even prices\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sreset%s           - Restore the initial site\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s          - Display the current site\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s            - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s     - Exit interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

func fieldNames() []string {
	names := make([]string, 0, len(siteFields))
	for name := range siteFields {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(input)
	if len(parts) == 0 {
		return true
	}

	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "set":
		r.cmdSet(args)
	case "scenario", "sc":
		r.cmdScenario(args)
	case "calc", "c":
		r.cmdCalc()
	case "compare", "cmp":
		r.cmdCompare()
	case "bonus":
		r.cmdBonus()
	case "boundary", "bd":
		r.cmdBoundary()
	case "reset":
		r.site = r.config.Site
		fmt.Fprintf(r.out, "Site restored.\n")
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
		fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
	}

	return true
}

func (r *REPL) cmdSet(args []string) {
	if len(args) != 2 {
		fmt.Fprintf(r.out, "%sUsage: set <field> <value>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	field, ok := siteFields[strings.ToLower(args[0])]
	if !ok {
		fmt.Fprintf(r.out, "%sUnknown field: %s%s (fields: %s)\n", ui.ColorRed(), args[0], ui.ColorReset(), strings.Join(fieldNames(), ", "))
		return
	}
	v, err := strconv.ParseFloat(args[1], 64)
	if err != nil {
		fmt.Fprintf(r.out, "%sInvalid value: %s%s\n", ui.ColorRed(), args[1], ui.ColorReset())
		return
	}

	prevSite, prevOpts := r.site, r.config.Options
	field.apply(r, v)
	if err := errors.Join(feasibility.ValidateSite(r.site), feasibility.ValidateOptions(r.config.Options)); err != nil {
		r.site, r.config.Options = prevSite, prevOpts
		fmt.Fprintf(r.out, "%sRejected: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	fmt.Fprintf(r.out, "%s = %s%g%s\n", strings.ToLower(args[0]), ui.ColorGreen(), v, ui.ColorReset())
}

func (r *REPL) cmdScenario(args []string) {
	if len(args) == 0 {
		fmt.Fprintf(r.out, "%sUsage: scenario <key>%s\n", ui.ColorRed(), ui.ColorReset())
		return
	}
	s, ok := r.registry.Get(args[0])
	if !ok {
		fmt.Fprintf(r.out, "%sUnknown scenario: %s%s\n", ui.ColorRed(), args[0], ui.ColorReset())
		fmt.Fprintf(r.out, "Available scenarios: %s\n", strings.Join(r.registry.List(), ", "))
		return
	}
	r.current = s.Key
	fmt.Fprintf(r.out, "Scenario changed to: %s%s%s\n", ui.ColorGreen(), s.Label(), ui.ColorReset())
}

func (r *REPL) currentScenario() scenario.Scenario {
	s, _ := r.registry.Resolve(r.current)
	return s
}

func (r *REPL) cmdCalc() {
	s := r.currentScenario()
	start := time.Now()
	res, err := feasibility.Evaluate(r.site, s.Params, r.config.Options)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	DisplayResult(orchestration.ScenarioResult{
		Scenario:   s,
		Result:     res,
		Indicators: metrics.Compute(res),
		Duration:   time.Since(start),
	}, orchestration.PresentationOptions{}, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdCompare() {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.Timeout)
	defer cancel()

	results := orchestration.ExecuteScenarios(ctx, r.registry.All(), r.site, r.config.Options, orchestration.NullProgressReporter{}, r.out)
	CLIResultPresenter{}.PresentComparisonTable(results, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdBonus() {
	rows, err := feasibility.BonusSweep(r.site, r.currentScenario().Params, r.config.Options,
		feasibility.DefaultBonusFrom, feasibility.DefaultBonusTo, feasibility.DefaultBonusStep)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	DisplayBonusSweep(rows, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdBoundary() {
	b, err := feasibility.FindBoundary(r.site, r.currentScenario().Params, r.config.Options)
	if err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}
	DisplayBoundary(b, r.out)
	fmt.Fprintln(r.out)
}

func (r *REPL) cmdStatus() {
	s := r.site
	fmt.Fprintf(r.out, "\n%sCurrent configuration:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Scenario:    %s%s%s\n", ui.ColorCyan(), r.currentScenario().Label(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Site:        %s%.0f m²%s, FAR %s, bonus ×%.2f\n", ui.ColorCyan(), s.AreaM2, ui.ColorReset(),
		format.FormatPercent(s.LegalFAR, 0), s.BonusMultiplier)
	fmt.Fprintf(r.out, "  Floors:      %d F / B%d\n", s.Floors, s.BasementLevels)
	price := "scenario"
	if s.SalesUnitPrice > 0 {
		price = format.FormatUnitPrice(s.SalesUnitPrice)
	}
	fmt.Fprintf(r.out, "  Sales price: %s%s%s\n", ui.ColorCyan(), price, ui.ColorReset())
	fmt.Fprintf(r.out, "  Targets:     IRR ≥ %s, landlord ≥ %s\n",
		format.FormatPercent(r.config.Options.TargetIRR, 0), format.FormatPercent(r.config.Options.TargetLandlordRatio, 0))
	fmt.Fprintln(r.out)
}
