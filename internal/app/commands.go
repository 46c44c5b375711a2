package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/agbru/renewcalc/internal/cli"
	"github.com/agbru/renewcalc/internal/config"
	apperrors "github.com/agbru/renewcalc/internal/errors"
	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/report"
	"github.com/agbru/renewcalc/internal/scenario"
	"github.com/agbru/renewcalc/internal/server"
	"github.com/agbru/renewcalc/internal/watch"
)

// newRootCommand builds the command tree. The root command runs calc.
func (a *Application) newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "renewcalc",
		Short: "Feasibility calculator for disaster-prevention urban renewal",
		Long: `renewcalc evaluates a disaster-prevention urban renewal project: floor area,
costs, sales revenue, the landlord/developer split of the finished value and
the developer's IRR. Without a subcommand it runs calc.`,
		Version:       Version,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalculate(cmd.Context(), cmd.OutOrStdout(), a.Config.Scenario)
		},
	}
	root.SetVersionTemplate("renewcalc {{.Version}}\n")
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return apperrors.NewConfigError("%v", err)
	})

	config.BindFlags(root.PersistentFlags(), &a.Config)
	_ = root.RegisterFlagCompletionFunc("scenario", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return append(a.Registry.List(), scenario.KeyCustom, scenario.KeyAll), cobra.ShellCompDirectiveNoFileComp
	})
	_ = root.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"text", "markdown", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))

	root.AddCommand(
		a.newCalcCommand(),
		a.newCompareCommand(),
		a.newScenariosCommand(),
		a.newBonusCommand(),
		a.newSensitivityCommand(),
		a.newBoundaryCommand(),
		a.newCasesCommand(),
		a.newReportCommand(),
		a.newServeCommand(),
		a.newWatchCommand(),
		a.newREPLCommand(),
		a.newVersionCommand(),
	)
	return root
}

func (a *Application) newCalcCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "calc",
		Short: "Evaluate the selected scenario",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalculate(cmd.Context(), cmd.OutOrStdout(), a.Config.Scenario)
		},
	}
}

func (a *Application) newCompareCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "compare",
		Short: "Evaluate every registered scenario side by side",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.runCalculate(cmd.Context(), cmd.OutOrStdout(), scenario.KeyAll)
		},
	}
}

func (a *Application) newScenariosCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the registered scenarios",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cli.DisplayScenarioList(a.Registry.All(), cmd.OutOrStdout())
			return nil
		},
	}
}

func (a *Application) newBonusCommand() *cobra.Command {
	var from, to, step int
	cmd := &cobra.Command{
		Use:   "bonus",
		Short: "Sweep the FAR bonus and show the landlord/developer split",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			sc := a.selectedScenario(a.Config.Scenario)
			start := time.Now()
			rows, err := feasibility.BonusSweep(a.Config.Site, sc.Params, a.Config.Options, from, to, step)
			if err != nil {
				return a.fail(err, time.Since(start))
			}
			a.printScenarioHeader(sc, out)
			cli.DisplayBonusSweep(rows, out)
			rep := report.New(a.Config.Site, a.Config.Options, nil).WithBonusSweep(rows)
			return a.saveReport(out, rep)
		},
	}
	cmd.Flags().IntVar(&from, "from", feasibility.DefaultBonusFrom, "first bonus in percent")
	cmd.Flags().IntVar(&to, "to", feasibility.DefaultBonusTo, "last bonus in percent")
	cmd.Flags().IntVar(&step, "step", feasibility.DefaultBonusStep, "bonus step in percent")
	return cmd
}

func (a *Application) newSensitivityCommand() *cobra.Command {
	req := feasibility.DefaultSensitivityRequest()
	cmd := &cobra.Command{
		Use:   "sensitivity",
		Short: "Evaluate a sales price by construction price grid",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.lifecycle(cmd.Context())
			defer cancel()

			out := cmd.OutOrStdout()
			reporter, progressOut := a.progress(out)
			start := time.Now()
			grid, err := orchestration.RunSensitivity(ctx, a.Config.Site, req, a.Config.Options, reporter, progressOut)
			if err != nil {
				return a.fail(err, time.Since(start))
			}
			cli.DisplaySensitivity(grid, out)
			rep := report.New(a.Config.Site, a.Config.Options, nil).WithSensitivity(grid)
			return a.saveReport(out, rep)
		},
	}
	cmd.Flags().Float64Var(&req.PriceMin, "price-min", req.PriceMin, "lowest sales price in 萬/坪")
	cmd.Flags().Float64Var(&req.PriceMax, "price-max", req.PriceMax, "highest sales price in 萬/坪")
	cmd.Flags().Float64Var(&req.CostMin, "cost-min", req.CostMin, "lowest construction price in 萬/坪")
	cmd.Flags().Float64Var(&req.CostMax, "cost-max", req.CostMax, "highest construction price in 萬/坪")
	cmd.Flags().IntVar(&req.Steps, "steps", req.Steps, "grid points per axis")
	return cmd
}

func (a *Application) newBoundaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "boundary",
		Short: "Find the break-even sales and construction prices",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			sc := a.selectedScenario(a.Config.Scenario)
			start := time.Now()
			b, err := feasibility.FindBoundary(a.Config.Site, sc.Params, a.Config.Options)
			if err != nil {
				return a.fail(err, time.Since(start))
			}
			a.printScenarioHeader(sc, out)
			cli.DisplayBoundary(b, out)
			rep := report.New(a.Config.Site, a.Config.Options, nil).WithBoundary(b)
			return a.saveReport(out, rep)
		},
	}
}

func (a *Application) newCasesCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "cases [key...]",
		Short:     "Evaluate the built-in validation cases",
		Args:      cobra.ArbitraryArgs,
		ValidArgs: scenario.CaseKeys(),
		RunE: func(cmd *cobra.Command, args []string) error {
			keys := args
			if len(keys) == 0 {
				keys = scenario.CaseKeys()
			}
			results := make([]scenario.CaseResult, 0, len(keys))
			for _, key := range keys {
				c, ok := scenario.GetCase(key)
				if !ok {
					return apperrors.NewConfigError("unknown case %q (available: %s)", key, strings.Join(scenario.CaseKeys(), ", "))
				}
				cr, err := scenario.EvaluateCase(c, a.Config.Options)
				if err != nil {
					return a.fail(apperrors.CalculationError{Scenario: key, Cause: err}, 0)
				}
				results = append(results, cr)
			}
			cli.DisplayCases(results, cmd.OutOrStdout())
			return nil
		},
	}
}

func (a *Application) newReportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Produce the full feasibility report",
		Long: `report evaluates every registered scenario and adds the bonus sweep,
the sensitivity grid and the break-even prices of the selected scenario.
The report is written to --output when set, otherwise printed in --format
(rendered text by default).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := a.lifecycle(cmd.Context())
			defer cancel()
			rep, err := a.buildReport(ctx)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if a.Config.OutputFile != "" {
				return a.saveReport(out, rep)
			}
			f, err := report.ParseFormat(a.Config.Format)
			if err != nil {
				return apperrors.NewConfigError("%v", err)
			}
			if f == report.FormatText {
				return cli.DisplayReport(rep, report.DefaultWordWrap, a.noColor(), out)
			}
			return rep.Write(out, f)
		},
	}
}

func (a *Application) newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the feasibility JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			srv := server.New(a.Config.Server,
				server.WithLogger(a.logger),
				server.WithRegistry(a.Registry),
				server.WithDefaults(a.Config.Site, a.Config.Options),
				server.WithTimeout(a.Config.Timeout),
			)
			return srv.ListenAndServe(ctx)
		},
	}
	config.BindServerFlags(cmd.Flags(), &a.Config)
	return cmd
}

// Kinds of file accepted by the watch command.
const (
	watchKindScenario = "scenario"
	watchKindConfig   = "config"
)

func (a *Application) newWatchCommand() *cobra.Command {
	kind := watchKindScenario
	debounce := watch.DefaultDebounce
	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-evaluate a scenario or config file whenever it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var eval watch.Evaluator
			switch kind {
			case watchKindScenario:
				eval = watch.ScenarioFile(a.Config.Site, a.Config.Options)
			case watchKindConfig:
				eval = a.configFileEvaluator()
			default:
				return apperrors.NewConfigError("unknown --kind %q (want %s or %s)", kind, watchKindScenario, watchKindConfig)
			}

			out := cmd.OutOrStdout()
			w, err := watch.New(args[0], eval, func(ev watch.Evaluation) { a.displayEvaluation(ev, out) },
				watch.WithDebounce(debounce), watch.WithLogger(a.logger))
			if err != nil {
				return apperrors.NewConfigError("%v", err)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return w.Run(ctx)
		},
	}
	cmd.Flags().StringVar(&kind, "kind", kind, "file kind: scenario or config")
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before re-evaluating")
	return cmd
}

func (a *Application) newREPLCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			r := cli.NewREPL(a.Registry, cli.REPLConfig{
				Scenario: a.Config.Scenario,
				Site:     a.Config.Site,
				Options:  a.Config.Options,
				Timeout:  a.Config.Timeout,
			})
			r.SetInput(cmd.InOrStdin())
			r.SetOutput(cmd.OutOrStdout())
			r.Start()
			return nil
		},
	}
}

func (a *Application) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			PrintVersion(cmd.OutOrStdout())
		},
	}
}

// configFileEvaluator evaluates a config file layered over the current
// configuration, with its own registry so edits to the custom scenario take
// effect.
func (a *Application) configFileEvaluator() watch.Evaluator {
	base := a.Config
	return func(ctx context.Context, path string) ([]orchestration.ScenarioResult, error) {
		cfg := base
		if err := config.LoadFile(path, &cfg); err != nil {
			return nil, err
		}
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
		registry := scenario.NewDefaultRegistry()
		if err := registerCustom(registry, cfg); err != nil {
			return nil, err
		}
		key := scenario.KeyAll
		if !isAll(cfg.Scenario) {
			sc, _ := registry.Resolve(cfg.Scenario)
			key = sc.Key
		}

		ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
		defer cancel()
		scenarios := orchestration.GetScenariosToRun(key, registry)
		return orchestration.ExecuteScenarios(ctx, scenarios, cfg.Site, cfg.Options, orchestration.NullProgressReporter{}, io.Discard), nil
	}
}

func (a *Application) displayEvaluation(ev watch.Evaluation, out io.Writer) {
	if a.Config.Quiet {
		if ev.Err != nil {
			fmt.Fprintf(a.ErrWriter, "Error: %v\n", ev.Err)
			return
		}
		for _, res := range ev.Results {
			if res.Err == nil {
				cli.DisplayQuietResult(out, res.Result)
			}
		}
		return
	}

	fmt.Fprintf(out, "\n[%d] %s %s\n", ev.Seq, ev.At.Format(time.TimeOnly), ev.Path)
	if ev.Err != nil {
		apperrors.HandleCalculationError(ev.Err, 0, out, cli.CLIColorProvider{})
		return
	}
	cli.CLIResultPresenter{}.PresentComparisonTable(ev.Results, out)
}
