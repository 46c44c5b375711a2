// Package app wires configuration, scenarios and the presentation layer into
// the renewcalc command tree.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/agbru/renewcalc/internal/config"
	apperrors "github.com/agbru/renewcalc/internal/errors"
	"github.com/agbru/renewcalc/internal/logging"
	"github.com/agbru/renewcalc/internal/scenario"
	"github.com/agbru/renewcalc/internal/ui"
)

// Application represents the renewcalc application instance.
type Application struct {
	Config    config.AppConfig
	Registry  *scenario.Registry
	ErrWriter io.Writer

	args   []string
	in     io.Reader
	logger logging.Logger
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithRegistry sets the scenario registry. Scenarios from flags and files
// are added to it during setup.
func WithRegistry(r *scenario.Registry) AppOption {
	return func(a *Application) { a.Registry = r }
}

// WithInput sets the reader used by interactive commands instead of stdin.
func WithInput(in io.Reader) AppOption {
	return func(a *Application) { a.in = in }
}

// WithConfig replaces the default configuration the flags start from.
func WithConfig(cfg config.AppConfig) AppOption {
	return func(a *Application) { a.Config = cfg }
}

// New creates an Application for the command line args, where args[0] is
// the program name. Parsing happens in Run.
func New(args []string, errWriter io.Writer, opts ...AppOption) *Application {
	app := &Application{
		Config:    config.DefaultConfig(),
		ErrWriter: errWriter,
	}
	for _, opt := range opts {
		opt(app)
	}
	if app.Registry == nil {
		app.Registry = scenario.NewDefaultRegistry()
	}
	if len(args) > 1 {
		app.args = args[1:]
	}
	return app
}

// Run parses the arguments, executes the selected command and returns the
// process exit code.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	root := a.newRootCommand()
	root.SetArgs(a.args)
	root.SetOut(out)
	root.SetErr(a.ErrWriter)
	if a.in != nil {
		root.SetIn(a.in)
	}

	if err := root.ExecuteContext(ctx); err != nil {
		var handled handledError
		if errors.As(err, &handled) {
			return handled.code
		}
		fmt.Fprintf(a.ErrWriter, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitCodeFor(err)
	}
	return apperrors.ExitSuccess
}

// handledError carries an exit code for an error that was already reported
// to the user.
type handledError struct{ code int }

func (e handledError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

// exit turns a presentation exit code into a command error.
func exit(code int) error {
	if code == apperrors.ExitSuccess {
		return nil
	}
	return handledError{code: code}
}

// setup resolves the configuration layers once flags are parsed and prepares
// the theme, the logger and the scenario registry.
func (a *Application) setup(cmd *cobra.Command) error {
	if err := config.Resolve(&a.Config, cmd.Flags()); err != nil {
		return err
	}

	ui.InitTheme(a.Config.NoColor)
	zerolog.SetGlobalLevel(logging.ParseLevel(a.Config.LogLevel))
	a.logger = logging.NewConsoleLogger(a.ErrWriter, "renewcalc", a.noColor())

	if err := registerCustom(a.Registry, a.Config); err != nil {
		return apperrors.NewConfigError("%v", err)
	}
	if a.Config.ScenarioFile != "" {
		sc, err := scenario.LoadFile(a.Config.ScenarioFile)
		if err != nil {
			return apperrors.NewConfigError("%v", err)
		}
		if err := a.Registry.Register(sc); err != nil {
			return apperrors.NewConfigError("%s: %v", a.Config.ScenarioFile, err)
		}
		a.logger.Debug("scenario file loaded", logging.String("path", a.Config.ScenarioFile), logging.String("key", sc.Key))
	}
	return nil
}

// lifecycle bounds ctx by the configured timeout and cancels it on SIGINT
// or SIGTERM.
func (a *Application) lifecycle(ctx context.Context) (context.Context, context.CancelFunc) {
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	return ctx, func() {
		stopSignals()
		cancelTimeout()
	}
}

// selectedScenario resolves key to one scenario. An unknown key falls back
// to scenario A with a warning; "all" falls back silently.
func (a *Application) selectedScenario(key string) scenario.Scenario {
	sc, ok := a.Registry.Resolve(key)
	if !ok && !isAll(key) {
		fmt.Fprintf(a.ErrWriter, "%sWarning: unknown scenario %q, using %s.%s\n",
			ui.ColorYellow(), key, sc.Label(), ui.ColorReset())
	}
	return sc
}

// registerCustom adds the custom scenario when it was selected or its
// parameters differ from the defaults.
func registerCustom(registry *scenario.Registry, cfg config.AppConfig) error {
	if cfg.Custom == config.DefaultConfig().Custom && !scenario.IsCustomKey(cfg.Scenario) {
		return nil
	}
	if err := registry.Register(scenario.Custom(cfg.Custom)); err != nil {
		return fmt.Errorf("custom scenario: %w", err)
	}
	return nil
}

func isAll(key string) bool {
	return strings.EqualFold(strings.TrimSpace(key), scenario.KeyAll)
}

func (a *Application) noColor() bool {
	return ui.GetCurrentTheme().Name == ui.NoColorTheme.Name
}
