package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/agbru/renewcalc/internal/cli"
	apperrors "github.com/agbru/renewcalc/internal/errors"
	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/logging"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/report"
	"github.com/agbru/renewcalc/internal/scenario"
	"github.com/agbru/renewcalc/internal/ui"
)

// runCalculate orchestrates the evaluation of one scenario, or of every
// registered scenario when key is "all".
func (a *Application) runCalculate(ctx context.Context, out io.Writer, key string) error {
	ctx, cancel := a.lifecycle(ctx)
	defer cancel()

	selected := ""
	if isAll(key) {
		key = scenario.KeyAll
	} else {
		selected = a.selectedScenario(key).Key
		key = selected
	}
	scenariosToRun := orchestration.GetScenariosToRun(key, a.Registry)

	if !a.Config.Quiet {
		cli.PrintExecutionConfig(a.Config, out)
		cli.PrintExecutionMode(scenariosToRun, out)
	}

	site := a.siteFor(selected)
	reporter, progressOut := a.progress(out)
	results := orchestration.ExecuteScenarios(ctx, scenariosToRun, site, a.Config.Options, reporter, progressOut)
	a.logger.Debug("scenarios evaluated", logging.Int("count", len(results)), logging.String("selected", selected))

	rep := report.New(site, a.Config.Options, results)
	rep.Selected = selected
	return a.analyzeResultsWithOutput(results, rep, selected, out)
}

func (a *Application) analyzeResultsWithOutput(results []orchestration.ScenarioResult, rep *report.Report, selected string, out io.Writer) error {
	if a.Config.Quiet {
		best := findSelectedResult(results, selected)
		if best == nil {
			return exit(apperrors.HandleCalculationError(firstError(results), 0, a.ErrWriter, cli.CLIColorProvider{}))
		}
		cli.DisplayQuietResult(out, best.Result)
		if err := a.saveReport(out, rep); err != nil {
			return err
		}
		if a.Config.Strict && !best.Result.Feasible {
			err := apperrors.InfeasibleError{
				Scenario:      best.Scenario.Key,
				IRR:           best.Result.IRR,
				LandlordRatio: best.Result.LandlordPercent(),
			}
			return exit(apperrors.HandleCalculationError(err, best.Duration, a.ErrWriter, cli.CLIColorProvider{}))
		}
		return nil
	}

	presOpts := orchestration.PresentationOptions{
		Selected: selected,
		Verbose:  a.Config.Verbose,
		Details:  a.Config.Details,
		Strict:   a.Config.Strict,
	}
	exitCode := orchestration.AnalyzeComparisonResults(results, presOpts, cli.CLIResultPresenter{}, cli.CLIResultPresenter{}, out)
	if exitCode == apperrors.ExitSuccess {
		if err := a.saveReport(out, rep); err != nil {
			return err
		}
	}
	return exit(exitCode)
}

// findSelectedResult returns the successful result for selected, or the
// first successful one.
func findSelectedResult(results []orchestration.ScenarioResult, selected string) *orchestration.ScenarioResult {
	var best *orchestration.ScenarioResult
	for i := range results {
		if results[i].Err != nil {
			continue
		}
		if results[i].Scenario.Key == selected {
			return &results[i]
		}
		if best == nil {
			best = &results[i]
		}
	}
	return best
}

func firstError(results []orchestration.ScenarioResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}

// buildReport evaluates every registered scenario and attaches the bonus
// sweep, sensitivity grid and boundary of the selected one.
func (a *Application) buildReport(ctx context.Context) (*report.Report, error) {
	site, opts := a.Config.Site, a.Config.Options
	sc := a.selectedScenario(a.Config.Scenario)

	start := time.Now()
	results := orchestration.ExecuteScenarios(ctx, orchestration.GetScenariosToRun(scenario.KeyAll, a.Registry),
		site, opts, orchestration.NullProgressReporter{}, io.Discard)
	if findSelectedResult(results, sc.Key) == nil {
		err := firstError(results)
		if err == nil {
			err = apperrors.CalculationError{Scenario: sc.Key, Cause: errors.New("no result")}
		}
		return nil, a.fail(err, time.Since(start))
	}

	rows, err := feasibility.BonusSweep(site, sc.Params, opts,
		feasibility.DefaultBonusFrom, feasibility.DefaultBonusTo, feasibility.DefaultBonusStep)
	if err != nil {
		return nil, a.fail(err, time.Since(start))
	}
	grid, err := orchestration.RunSensitivity(ctx, site, feasibility.DefaultSensitivityRequest(), opts,
		orchestration.NullProgressReporter{}, io.Discard)
	if err != nil {
		return nil, a.fail(err, time.Since(start))
	}
	boundary, err := feasibility.FindBoundary(site, sc.Params, opts)
	if err != nil {
		return nil, a.fail(err, time.Since(start))
	}

	rep := report.New(site, opts, results).WithBonusSweep(rows).WithSensitivity(grid).WithBoundary(boundary)
	rep.Selected = sc.Key
	a.logger.Debug("report built", logging.String("id", rep.ID), logging.Duration("elapsed", time.Since(start)))
	return rep, nil
}

// siteFor returns the configured site for a single selected preset, with
// the preset's default sales price when no layer set one. A comparison
// keeps the price unset so every scenario sells at its own price.
func (a *Application) siteFor(key string) feasibility.Site {
	site := a.Config.Site
	if site.SalesUnitPrice == 0 && (key == scenario.KeyOfficial || key == scenario.KeyMarket) {
		site.SalesUnitPrice = scenario.DefaultSitePrice(key)
	}
	return site
}

// fail reports an evaluation error and returns the matching exit code as
// an error.
func (a *Application) fail(err error, duration time.Duration) error {
	return exit(apperrors.HandleCalculationError(err, duration, a.ErrWriter, cli.CLIColorProvider{}))
}

// progress chooses the progress reporter: silent in quiet mode.
func (a *Application) progress(out io.Writer) (orchestration.ProgressReporter, io.Writer) {
	if a.Config.Quiet {
		return orchestration.NullProgressReporter{}, io.Discard
	}
	return cli.CLIProgressReporter{}, out
}

func (a *Application) outputConfig() cli.OutputConfig {
	return cli.OutputConfig{
		OutputFile: a.Config.OutputFile,
		Format:     a.Config.Format,
		Quiet:      a.Config.Quiet,
	}
}

func (a *Application) saveReport(out io.Writer, rep *report.Report) error {
	if err := cli.SaveReport(out, rep, a.outputConfig()); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}

func (a *Application) printScenarioHeader(sc scenario.Scenario, out io.Writer) {
	if a.Config.Quiet {
		return
	}
	fmt.Fprintf(out, "Scenario: %s%s%s\n", ui.ColorGreen(), sc.Label(), ui.ColorReset())
}
