// This file contains environment variable utilities for configuration override.

package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// envOverride declares a single environment variable override.
// Each entry maps an env key (without the RENEWCALC_ prefix) to the CLI flag
// name(s) it corresponds to and a function that applies the env value.
type envOverride struct {
	envKey string
	flags  []string
	apply  func(*AppConfig, string)
}

func setFloat(dst *float64) func(*AppConfig, string) {
	return func(_ *AppConfig, v string) {
		if parsed, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = parsed
		}
	}
}

func setInt(dst *int) func(*AppConfig, string) {
	return func(_ *AppConfig, v string) {
		if parsed, err := strconv.Atoi(v); err == nil {
			*dst = parsed
		}
	}
}

func setBool(dst *bool) func(*AppConfig, string) {
	return func(_ *AppConfig, v string) {
		*dst = parseBoolEnv(v, *dst)
	}
}

// envOverrides returns the override table bound to cfg's fields.
func envOverrides(cfg *AppConfig) []envOverride {
	return []envOverride{
		// Site
		{"AREA", []string{"area"}, setFloat(&cfg.Site.AreaM2)},
		{"FLOORS", []string{"floors"}, setInt(&cfg.Site.Floors)},
		{"BASEMENT", []string{"basement"}, setInt(&cfg.Site.BasementLevels)},
		{"LEGAL_FAR", []string{"legal-far"}, setFloat(&cfg.Site.LegalFAR)},
		{"BONUS", []string{"bonus"}, setFloat(&cfg.Site.BonusMultiplier)},
		{"USE_ORIGINAL_FAR", []string{"use-original-far"}, setBool(&cfg.Site.UseOriginalFAR)},
		{"ORIGINAL_FAR", []string{"original-far"}, setFloat(&cfg.Site.OriginalFARMultiplier)},
		{"LAND_PRICE", []string{"land-price"}, setFloat(&cfg.Site.LandUnitPrice)},
		{"SALES_PRICE", []string{"sales-price"}, setFloat(&cfg.Site.SalesUnitPrice)},
		{"PARKING", []string{"parking"}, setInt(&cfg.Site.ParkingUnits)},

		// Custom scenario
		{"CONSTRUCTION_PRICE", []string{"construction-price"}, setFloat(&cfg.Custom.ConstructionUnitPrice)},
		{"MANAGEMENT_FEE", []string{"management-fee"}, setFloat(&cfg.Custom.ManagementFeeRate)},
		{"RISK_FEE", []string{"risk-fee"}, setFloat(&cfg.Custom.RiskFeeRate)},
		{"LOAN_RATIO", []string{"loan-ratio"}, setFloat(&cfg.Custom.LoanRatio)},
		{"INTEREST_RATE", []string{"interest-rate"}, setFloat(&cfg.Custom.InterestRate)},

		// Targets
		{"TARGET_IRR", []string{"target-irr"}, setFloat(&cfg.Options.TargetIRR)},
		{"TARGET_LANDLORD", []string{"target-landlord"}, setFloat(&cfg.Options.TargetLandlordRatio)},
		{"HOLDING_YEARS", []string{"holding-years"}, setInt(&cfg.Options.HoldingYears)},

		// Duration
		{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
			if parsed, err := time.ParseDuration(v); err == nil {
				c.Timeout = parsed
			}
		}},

		// Strings
		{"SCENARIO", []string{"scenario", "s"}, func(c *AppConfig, v string) { c.Scenario = v }},
		{"SCENARIO_FILE", []string{"scenario-file"}, func(c *AppConfig, v string) { c.ScenarioFile = v }},
		{"OUTPUT", []string{"output", "o"}, func(c *AppConfig, v string) { c.OutputFile = v }},
		{"FORMAT", []string{"format"}, func(c *AppConfig, v string) { c.Format = v }},
		{"LOG_LEVEL", []string{"log-level"}, func(c *AppConfig, v string) { c.LogLevel = v }},
		{"ADDR", []string{"addr"}, func(c *AppConfig, v string) { c.Server.Addr = v }},
		{"ALLOWED_ORIGIN", []string{"allowed-origin"}, func(c *AppConfig, v string) { c.Server.AllowedOrigin = v }},

		// Booleans
		{"VERBOSE", []string{"verbose", "v"}, setBool(&cfg.Verbose)},
		{"DETAILS", []string{"details", "d"}, setBool(&cfg.Details)},
		{"QUIET", []string{"quiet", "q"}, setBool(&cfg.Quiet)},
		{"STRICT", []string{"strict"}, setBool(&cfg.Strict)},
		{"NO_COLOR", []string{"no-color"}, setBool(&cfg.NoColor)},
	}
}

// parseBoolEnv parses a boolean environment variable value.
// Accepts "true", "1", "yes" as true; "false", "0", "no" as false (case-insensitive).
// Returns defaultVal if the value is not recognized.
func parseBoolEnv(val string, defaultVal bool) bool {
	switch strings.ToLower(val) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	}
	return defaultVal
}

// isFlagSetAny checks if any of the specified flags were explicitly set.
// Shorthand names are matched against the flag's shorthand letter.
func isFlagSetAny(fs *pflag.FlagSet, names ...string) bool {
	if fs == nil {
		return false
	}
	found := false
	fs.Visit(func(f *pflag.Flag) {
		for _, name := range names {
			if f.Name == name || f.Shorthand == name {
				found = true
			}
		}
	})
	return found
}

// applyEnvOverrides applies environment variable values to the configuration
// for any flags that were not explicitly set on the command line.
// This implements the priority: CLI flags > Environment variables > Defaults.
func applyEnvOverrides(cfg *AppConfig, fs *pflag.FlagSet) {
	for _, o := range envOverrides(cfg) {
		if isFlagSetAny(fs, o.flags...) {
			continue
		}
		if val := os.Getenv(EnvPrefix + o.envKey); val != "" {
			o.apply(cfg, val)
		}
	}
}
