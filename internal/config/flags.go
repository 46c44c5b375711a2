package config

import (
	"github.com/spf13/pflag"
)

// BindFlags registers the shared command-line flags on fs, bound to cfg.
// Default values are taken from cfg.
func BindFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVar(&cfg.ConfigFile, "config", cfg.ConfigFile, "YAML config file")
	fs.StringVar(&cfg.EnvFile, "env-file", cfg.EnvFile, "dotenv file loaded before reading RENEWCALC_* variables (default .env)")
	fs.StringVarP(&cfg.Scenario, "scenario", "s", cfg.Scenario, "scenario to evaluate: A, B, custom or all")
	fs.StringVar(&cfg.ScenarioFile, "scenario-file", cfg.ScenarioFile, "YAML file with additional scenarios")
	fs.DurationVar(&cfg.Timeout, "timeout", cfg.Timeout, "maximum run time")
	fs.StringVarP(&cfg.OutputFile, "output", "o", cfg.OutputFile, "write the report to this file")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "report format: text, markdown, json or yaml (default from the output file extension)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn or error")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "show every table")
	fs.BoolVarP(&cfg.Details, "details", "d", cfg.Details, "show cash flows and indicators")
	fs.BoolVarP(&cfg.Quiet, "quiet", "q", cfg.Quiet, "print a single result line")
	fs.BoolVar(&cfg.Strict, "strict", cfg.Strict, "exit with code 3 when the selected scenario is infeasible")
	fs.BoolVar(&cfg.NoColor, "no-color", cfg.NoColor, "disable colored output")

	// Site
	fs.Float64Var(&cfg.Site.AreaM2, "area", cfg.Site.AreaM2, "site area in m²")
	fs.IntVar(&cfg.Site.Floors, "floors", cfg.Site.Floors, "above-ground floors")
	fs.IntVar(&cfg.Site.BasementLevels, "basement", cfg.Site.BasementLevels, "basement levels")
	fs.Float64Var(&cfg.Site.LegalFAR, "legal-far", cfg.Site.LegalFAR, "legal floor-area ratio in percent")
	fs.Float64Var(&cfg.Site.BonusMultiplier, "bonus", cfg.Site.BonusMultiplier, "disaster-prevention FAR bonus multiplier (1.0 to 2.0)")
	fs.BoolVar(&cfg.Site.UseOriginalFAR, "use-original-far", cfg.Site.UseOriginalFAR, "apply the bonus to the existing building's FAR")
	fs.Float64Var(&cfg.Site.OriginalFARMultiplier, "original-far", cfg.Site.OriginalFARMultiplier, "existing FAR relative to the legal FAR")
	fs.Float64Var(&cfg.Site.LandUnitPrice, "land-price", cfg.Site.LandUnitPrice, "announced land value in 萬/坪")
	fs.Float64Var(&cfg.Site.SalesUnitPrice, "sales-price", cfg.Site.SalesUnitPrice, "pre-sale price in 萬/坪 (0 uses the scenario price)")
	fs.IntVar(&cfg.Site.ParkingUnits, "parking", cfg.Site.ParkingUnits, "parking spaces for sale")

	// Custom scenario
	fs.Float64Var(&cfg.Custom.ConstructionUnitPrice, "construction-price", cfg.Custom.ConstructionUnitPrice, "custom scenario construction price in 萬/坪")
	fs.Float64Var(&cfg.Custom.ManagementFeeRate, "management-fee", cfg.Custom.ManagementFeeRate, "custom scenario management fee rate")
	fs.Float64Var(&cfg.Custom.RiskFeeRate, "risk-fee", cfg.Custom.RiskFeeRate, "custom scenario risk fee rate")
	fs.Float64Var(&cfg.Custom.LoanRatio, "loan-ratio", cfg.Custom.LoanRatio, "custom scenario loan ratio")
	fs.Float64Var(&cfg.Custom.InterestRate, "interest-rate", cfg.Custom.InterestRate, "custom scenario annual interest rate")

	// Targets
	fs.Float64Var(&cfg.Options.TargetIRR, "target-irr", cfg.Options.TargetIRR, "minimum developer IRR in percent")
	fs.Float64Var(&cfg.Options.TargetLandlordRatio, "target-landlord", cfg.Options.TargetLandlordRatio, "minimum landlord share in percent")
	fs.IntVar(&cfg.Options.HoldingYears, "holding-years", cfg.Options.HoldingYears, "years in the developer cash-flow model")
}

// BindServerFlags registers the flags of the serve command.
func BindServerFlags(fs *pflag.FlagSet, cfg *AppConfig) {
	fs.StringVar(&cfg.Server.Addr, "addr", cfg.Server.Addr, "listen address")
	fs.StringVar(&cfg.Server.AllowedOrigin, "allowed-origin", cfg.Server.AllowedOrigin, "comma-separated CORS allowed origins (default any)")
	fs.Int64Var(&cfg.Server.MaxBodyBytes, "max-body", cfg.Server.MaxBodyBytes, "maximum request body size in bytes")
}
