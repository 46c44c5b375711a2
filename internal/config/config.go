// Package config defines the application configuration and its layering:
// defaults, an optional YAML file, RENEWCALC_* environment variables and
// command-line flags, in increasing priority.
package config

import (
	"bytes"
	"errors"
	"io"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	apperrors "github.com/agbru/renewcalc/internal/errors"
	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/scenario"
)

// EnvPrefix prefixes every environment variable read by the application.
const EnvPrefix = "RENEWCALC_"

// DefaultTimeout bounds a single command run.
const DefaultTimeout = 30 * time.Second

// ServerConfig configures the HTTP API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64 `yaml:"max_body_bytes"`
	// AllowedOrigin is a comma-separated list of CORS origins; empty allows
	// any origin.
	AllowedOrigin string `yaml:"allowed_origin"`
}

// AppConfig aggregates the configuration parameters of the application.
type AppConfig struct {
	// Scenario is the scenario key to evaluate: A, B, custom or all.
	Scenario string `yaml:"scenario"`
	// ScenarioFile is an optional YAML file defining extra scenarios.
	ScenarioFile string `yaml:"scenario_file"`

	Site    feasibility.Site    `yaml:"site"`
	Options feasibility.Options `yaml:"options"`
	// Custom holds the parameters of the custom scenario.
	Custom feasibility.Params `yaml:"custom"`

	Timeout    time.Duration `yaml:"timeout"`
	OutputFile string        `yaml:"output"`
	// Format is the report encoding. Empty infers it from OutputFile, or
	// renders text on the terminal.
	Format     string        `yaml:"format"`
	LogLevel   string        `yaml:"log_level"`

	Verbose bool `yaml:"verbose"`
	Details bool `yaml:"details"`
	Quiet   bool `yaml:"quiet"`
	// Strict exits with ExitErrorInfeasible when the selected scenario fails
	// the targets.
	Strict  bool `yaml:"strict"`
	NoColor bool `yaml:"no_color"`

	Server ServerConfig `yaml:"server"`

	// ConfigFile and EnvFile are only set from flags.
	ConfigFile string `yaml:"-"`
	EnvFile    string `yaml:"-"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() AppConfig {
	custom := scenario.Official().Params
	custom.Name = ""
	custom = scenario.Custom(custom).Params
	return AppConfig{
		Scenario: scenario.KeyOfficial,
		Site:     feasibility.DefaultSite(),
		Options:  feasibility.DefaultOptions(),
		Custom:   custom,
		Timeout:  DefaultTimeout,
		LogLevel: "info",
		Server: ServerConfig{
			Addr:            ":8080",
			ReadTimeout:     10 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
			MaxBodyBytes:    1 << 20,
		},
	}
}

// LoadFile merges a YAML config file into cfg. Keys absent from the file
// keep their current value; unknown keys are rejected.
func LoadFile(path string, cfg *AppConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return apperrors.NewConfigError("reading config file: %v", err)
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return apperrors.NewConfigError("parsing config file %s: %v", path, err)
	}
	return nil
}

// LoadDotEnv loads environment variables from a .env file. A missing file
// is not an error. Variables already set in the environment win.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return apperrors.NewConfigError("loading %s: %v", path, err)
	}
	return nil
}

// Resolve layers the configuration sources into cfg. cfg must already hold
// the parsed flag values; flags reports which ones were set explicitly.
//
// Order: .env file, config file, environment for flags not set on the
// command line, then the explicit flags again so they win over the file.
func Resolve(cfg *AppConfig, flags *pflag.FlagSet) error {
	explicit := explicitFlags(flags)

	if err := LoadDotEnv(cfg.EnvFile); err != nil {
		return err
	}
	if cfg.ConfigFile == "" {
		cfg.ConfigFile = os.Getenv(EnvPrefix + "CONFIG")
	}
	if cfg.ConfigFile != "" {
		if err := LoadFile(cfg.ConfigFile, cfg); err != nil {
			return err
		}
	}
	applyEnvOverrides(cfg, flags)

	for _, f := range explicit {
		if err := flags.Set(f.name, f.value); err != nil {
			return apperrors.NewConfigError("flag --%s: %v", f.name, err)
		}
	}
	return cfg.Validate()
}

type flagValue struct {
	name  string
	value string
}

// explicitFlags captures the command-line values before the config file
// overwrites the fields they are bound to.
func explicitFlags(flags *pflag.FlagSet) []flagValue {
	if flags == nil {
		return nil
	}
	var set []flagValue
	flags.Visit(func(f *pflag.Flag) {
		set = append(set, flagValue{name: f.Name, value: f.Value.String()})
	})
	return set
}

// Validate checks the configuration for consistency.
func (c AppConfig) Validate() error {
	var errs []error
	if c.Timeout <= 0 {
		errs = append(errs, apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout))
	}
	switch strings.ToLower(c.Format) {
	case "", "text", "txt", "markdown", "md", "json", "yaml", "yml":
	default:
		errs = append(errs, apperrors.NewConfigError("unknown format %q", c.Format))
	}
	if c.Quiet && c.Verbose {
		errs = append(errs, apperrors.NewConfigError("--quiet and --verbose are mutually exclusive"))
	}
	if err := feasibility.ValidateSite(c.Site); err != nil {
		errs = append(errs, err)
	}
	if err := feasibility.ValidateOptions(c.Options); err != nil {
		errs = append(errs, err)
	}
	if scenario.IsCustomKey(c.Scenario) {
		if err := feasibility.ValidateParams(c.Custom); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
