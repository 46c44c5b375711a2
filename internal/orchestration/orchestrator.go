package orchestration

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	apperrors "github.com/agbru/renewcalc/internal/errors"
	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/metrics"
	"github.com/agbru/renewcalc/internal/progress"
	"github.com/agbru/renewcalc/internal/scenario"
)

// ProgressBufferMultiplier defines the buffer size multiplier for the progress
// channel. A larger buffer reduces the likelihood of blocking evaluation
// goroutines when the UI is slow to consume updates.
const ProgressBufferMultiplier = 5

var tracer = otel.Tracer("github.com/agbru/renewcalc/internal/orchestration")

// ExecuteScenarios evaluates each scenario on site concurrently.
//
// Results are returned in the order of scenarios. An evaluation error is
// recorded on its ScenarioResult and does not stop the others; a cancelled
// context marks the remaining scenarios with the context error.
func ExecuteScenarios(ctx context.Context, scenarios []scenario.Scenario, site feasibility.Site, opts feasibility.Options, reporter ProgressReporter, out io.Writer) []ScenarioResult {
	ctx, span := tracer.Start(ctx, "ExecuteScenarios")
	defer span.End()
	span.SetAttributes(attribute.Int("scenarios", len(scenarios)))

	g, ctx := errgroup.WithContext(ctx)
	results := make([]ScenarioResult, len(scenarios))
	progressChan := make(chan progress.ProgressUpdate, len(scenarios)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(scenarios), out)

	for i, s := range scenarios {
		idx, sc := i, s
		g.Go(func() error {
			report := progress.ChannelCallback(ctx, progressChan, idx)
			results[idx] = evaluateScenario(ctx, sc, site, opts, report)
			return nil
		})
	}

	_ = g.Wait()
	close(progressChan)
	displayWg.Wait()

	return results
}

func evaluateScenario(ctx context.Context, sc scenario.Scenario, site feasibility.Site, opts feasibility.Options, report progress.ProgressCallback) ScenarioResult {
	_, span := tracer.Start(ctx, "EvaluateScenario", trace.WithAttributes(
		attribute.String("scenario", sc.Key),
		attribute.Float64("construction_unit_price", sc.ConstructionUnitPrice),
		attribute.Float64("sales_unit_price", sc.SalesUnitPrice),
	))
	defer span.End()

	start := time.Now()
	res := ScenarioResult{Scenario: sc}
	report(0)
	if err := ctx.Err(); err != nil {
		res.Err = err
		res.Duration = time.Since(start)
		span.SetStatus(codes.Error, err.Error())
		return res
	}

	r, err := feasibility.Evaluate(site, sc.Params, opts)
	res.Duration = time.Since(start)
	if err != nil {
		res.Err = apperrors.CalculationError{Scenario: sc.Key, Cause: err}
		span.RecordError(err)
		span.SetStatus(codes.Error, "evaluation failed")
		report(1)
		return res
	}
	res.Result = r
	res.Indicators = metrics.Compute(r)
	span.SetAttributes(
		attribute.Float64("irr", r.IRR),
		attribute.Float64("landlord_ratio", r.LandlordPercent()),
		attribute.Bool("feasible", r.Feasible),
	)
	report(1)
	return res
}

// AnalyzeComparisonResults presents a scenario comparison and returns an
// exit code.
//
// Successful results are listed before failed ones, each group in key order.
// The result matching opts.Selected, or the first successful one, is then
// presented in detail. When every evaluation failed, errHandler decides the
// exit code. With opts.Strict an infeasible selected result yields
// ExitErrorInfeasible.
func AnalyzeComparisonResults(results []ScenarioResult, opts PresentationOptions, presenter ResultPresenter, errHandler ErrorHandler, out io.Writer) int {
	sort.SliceStable(results, func(i, j int) bool {
		if (results[i].Err == nil) != (results[j].Err == nil) {
			return results[i].Err == nil
		}
		return results[i].Scenario.Key < results[j].Scenario.Key
	})

	var selected *ScenarioResult
	var firstError error
	successCount, feasibleCount := 0, 0

	for i := range results {
		if results[i].Err != nil {
			if firstError == nil {
				firstError = results[i].Err
			}
			continue
		}
		successCount++
		if results[i].Result.Feasible {
			feasibleCount++
		}
		if selected == nil || (results[i].Scenario.Key == opts.Selected && selected.Scenario.Key != opts.Selected) {
			selected = &results[i]
		}
	}

	presenter.PresentComparisonTable(results, out)

	if successCount == 0 {
		fmt.Fprintf(out, "\nGlobal Status: Failure. No scenario could be evaluated.\n")
		return errHandler.HandleError(firstError, 0, out)
	}

	fmt.Fprintf(out, "\nGlobal Status: %d of %d scenarios evaluated, %d feasible.\n", successCount, len(results), feasibleCount)
	presenter.PresentResult(*selected, opts, out)

	if opts.Strict && !selected.Result.Feasible {
		err := apperrors.InfeasibleError{
			Scenario:      selected.Scenario.Key,
			IRR:           selected.Result.IRR,
			LandlordRatio: selected.Result.LandlordPercent(),
		}
		return errHandler.HandleError(err, selected.Duration, out)
	}
	return apperrors.ExitSuccess
}

// RunSensitivity evaluates the price by cost grid with one task per cost
// row, bounded by GOMAXPROCS. It returns the context error if ctx is done
// before every row has been evaluated.
func RunSensitivity(ctx context.Context, site feasibility.Site, req feasibility.SensitivityRequest, opts feasibility.Options, reporter ProgressReporter, out io.Writer) (feasibility.SensitivityGrid, error) {
	if err := req.Validate(); err != nil {
		return feasibility.SensitivityGrid{}, err
	}
	if err := feasibility.ValidateSite(site); err != nil {
		return feasibility.SensitivityGrid{}, err
	}

	ctx, span := tracer.Start(ctx, "RunSensitivity")
	defer span.End()
	span.SetAttributes(attribute.Int("steps", req.Steps))

	grid := feasibility.NewSensitivityGrid(req)
	area := feasibility.SiteArea(site, opts)
	progressChan := make(chan progress.ProgressUpdate, len(grid.Costs)*ProgressBufferMultiplier)

	var displayWg sync.WaitGroup
	displayWg.Add(1)
	go reporter.DisplayProgress(&displayWg, progressChan, len(grid.Costs), out)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, cost := range grid.Costs {
		idx, c := i, cost
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			grid.Cells[idx] = feasibility.EvaluateRow(site, area, grid.Prices, c, opts)
			progress.ChannelCallback(gctx, progressChan, idx)(1)
			return nil
		})
	}

	err := g.Wait()
	close(progressChan)
	displayWg.Wait()

	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return feasibility.SensitivityGrid{}, err
	}
	span.SetAttributes(attribute.Int("feasible_cells", grid.FeasibleCount()))
	return grid, nil
}
