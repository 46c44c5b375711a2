package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/renewcalc/internal/errors"
	"github.com/agbru/renewcalc/internal/report"
	"github.com/agbru/renewcalc/internal/scenario"
)

type runResult struct {
	code   int
	stdout string
	stderr string
}

// run executes the application with colors disabled.
func run(t *testing.T, args []string, opts ...AppOption) runResult {
	t.Helper()
	var out, errOut bytes.Buffer
	argv := append([]string{"renewcalc"}, args...)
	argv = append(argv, "--no-color")
	code := New(argv, &errOut, opts...).Run(context.Background(), &out)
	return runResult{code: code, stdout: out.String(), stderr: errOut.String()}
}

func assertContains(t *testing.T, s string, subs ...string) {
	t.Helper()
	for _, sub := range subs {
		if !strings.Contains(s, sub) {
			t.Errorf("output missing %q\n---\n%s", sub, s)
		}
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunCalculate(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		stdout   []string
	}{
		{"default scenario", nil, apperrors.ExitSuccess,
			[]string{"Execution Configuration", "Global Status: 1 of 1 scenarios evaluated, 1 feasible."}},
		{"calc subcommand", []string{"calc", "-s", "official"}, apperrors.ExitSuccess,
			[]string{"情境A - 官方基準"}},
		{"compare", []string{"compare"}, apperrors.ExitSuccess,
			[]string{"Scenario Comparison", "2 of 2 scenarios evaluated, 1 feasible"}},
		{"all", []string{"-s", "all"}, apperrors.ExitSuccess,
			[]string{"Parallel comparison of 2 scenarios"}},
		{"custom flags join the comparison", []string{"compare", "--construction-price", "18"}, apperrors.ExitSuccess,
			[]string{"3 of 3 scenarios evaluated", "自訂參數"}},
		{"strict infeasible", []string{"-s", "B", "--strict"}, apperrors.ExitErrorInfeasible,
			[]string{"not feasible"}},
		{"strict feasible", []string{"--strict"}, apperrors.ExitSuccess, nil},
		{"timeout", []string{"--timeout", "1ns"}, apperrors.ExitErrorTimeout,
			[]string{"No scenario could be evaluated", "timed out"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args)
			if res.code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstdout:\n%s\nstderr:\n%s", res.code, tt.wantCode, res.stdout, res.stderr)
			}
			assertContains(t, res.stdout, tt.stdout...)
		})
	}
}

func TestRunQuiet(t *testing.T) {
	res := run(t, []string{"-q"})
	if res.code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", res.code, res.stderr)
	}
	lines := strings.Split(strings.TrimSpace(res.stdout), "\n")
	if len(lines) != 1 {
		t.Fatalf("quiet output has %d lines, want 1:\n%s", len(lines), res.stdout)
	}
	if !strings.HasPrefix(lines[0], "IRR=68.") || !strings.HasSuffix(lines[0], "feasible=true") {
		t.Errorf("quiet line = %q", lines[0])
	}

	res = run(t, []string{"-q", "-s", "B", "--strict"})
	if res.code != apperrors.ExitErrorInfeasible {
		t.Errorf("strict quiet exit code = %d, want %d", res.code, apperrors.ExitErrorInfeasible)
	}
	assertContains(t, res.stdout, "feasible=false")
	assertContains(t, res.stderr, "scenario B is not feasible")
}

func TestRunConfigErrors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		wantCode int
		stderr   string
	}{
		{"invalid site", []string{"--area", "-5"}, apperrors.ExitErrorConfig, "area_m2"},
		{"zero timeout", []string{"--timeout", "0s"}, apperrors.ExitErrorConfig, "timeout"},
		{"unknown format", []string{"--format", "pdf"}, apperrors.ExitErrorConfig, "pdf"},
		{"unknown flag", []string{"--bogus"}, apperrors.ExitErrorConfig, "unknown flag"},
		{"quiet and verbose", []string{"-q", "-v"}, apperrors.ExitErrorConfig, "mutually exclusive"},
		{"invalid custom", []string{"-s", "custom", "--loan-ratio", "2"}, apperrors.ExitErrorConfig, "loan_ratio"},
		{"missing config file", []string{"--config", "/nonexistent/renewcalc.yaml"}, apperrors.ExitErrorConfig, "config file"},
		{"unknown case", []string{"cases", "nowhere"}, apperrors.ExitErrorConfig, "unknown case"},
		{"bad bonus step", []string{"bonus", "--step", "0"}, apperrors.ExitErrorConfig, "bonus_step"},
		{"bad grid", []string{"sensitivity", "--steps", "1"}, apperrors.ExitErrorConfig, "steps"},
		{"watch missing file", []string{"watch", "/nonexistent/scenario.yaml"}, apperrors.ExitErrorConfig, "watch"},
		{"watch bad kind", []string{"watch", "--kind", "csv", "x.yaml"}, apperrors.ExitErrorConfig, "--kind"},
		{"unknown command", []string{"fly"}, apperrors.ExitErrorGeneric, "unknown command"},
		{"bad listen address", []string{"serve", "--addr", "127.0.0.1:-1"}, apperrors.ExitErrorGeneric, "listen"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args)
			if res.code != tt.wantCode {
				t.Fatalf("exit code = %d, want %d\nstderr:\n%s", res.code, tt.wantCode, res.stderr)
			}
			assertContains(t, res.stderr, tt.stderr)
		})
	}
}

func TestRunUnknownScenarioFallsBack(t *testing.T) {
	res := run(t, []string{"-s", "Z", "-q"})
	if res.code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", res.code)
	}
	assertContains(t, res.stderr, `unknown scenario "Z"`, "情境A - 官方基準")
	assertContains(t, res.stdout, "feasible=true")
}

func TestRunScenarioFile(t *testing.T) {
	path := writeFile(t, "high.yaml", `key: high
name: 高房價
construction_unit_price: 18
sales_unit_price: 80
management_fee_rate: 0.2
risk_fee_rate: 0.12
loan_ratio: 0.6
interest_rate: 0.03
`)
	registry := scenario.NewDefaultRegistry()
	res := run(t, []string{"scenarios", "--scenario-file", path}, WithRegistry(registry))
	if res.code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", res.code, res.stderr)
	}
	assertContains(t, res.stdout, "high", "高房價")
	if _, ok := registry.Get("high"); !ok {
		t.Error("scenario file was not registered")
	}

	bad := writeFile(t, "bad.yaml", "key: high\nsales_unit_price: 0\n")
	if res := run(t, []string{"--scenario-file", bad}); res.code != apperrors.ExitErrorConfig {
		t.Errorf("invalid scenario file exit code = %d, want %d", res.code, apperrors.ExitErrorConfig)
	}
}

func TestRunConfigLayers(t *testing.T) {
	cfgPath := writeFile(t, "renewcalc.yaml", "scenario: B\nquiet: true\n")

	res := run(t, []string{"--config", cfgPath})
	assertContains(t, res.stdout, "feasible=false")

	t.Setenv("RENEWCALC_SCENARIO", "A")
	res = run(t, []string{"--config", cfgPath})
	assertContains(t, res.stdout, "feasible=true")

	res = run(t, []string{"--config", cfgPath, "-s", "B"})
	assertContains(t, res.stdout, "feasible=false")
}

func TestRunSitePriceDefault(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want float64
	}{
		{"market preset", []string{"-s", "B"}, 65},
		{"official preset", []string{"-s", "A"}, 60},
		{"explicit price", []string{"-s", "B", "--sales-price", "70"}, 70},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "report.json")
			res := run(t, append([]string{"-q", "-o", path}, tt.args...))
			if res.code != apperrors.ExitSuccess {
				t.Fatalf("exit code = %d, stderr: %s", res.code, res.stderr)
			}
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			var rep report.Report
			if err := json.Unmarshal(data, &rep); err != nil {
				t.Fatal(err)
			}
			if len(rep.Scenarios) != 1 {
				t.Fatalf("got %d scenarios", len(rep.Scenarios))
			}
			if got := rep.Scenarios[0].Result.SalesUnitPrice; got != tt.want {
				t.Errorf("sales price used = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRunOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "report.json")
	res := run(t, []string{"-q", "-o", path})
	if res.code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", res.code, res.stderr)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("report not written: %v", err)
	}
	var rep report.Report
	if err := json.Unmarshal(data, &rep); err != nil {
		t.Fatalf("report is not JSON: %v", err)
	}
	if rep.Selected != scenario.KeyOfficial || len(rep.Scenarios) != 1 {
		t.Errorf("report selected %q with %d scenarios", rep.Selected, len(rep.Scenarios))
	}

	md := filepath.Join(t.TempDir(), "report.out")
	if res := run(t, []string{"-q", "-o", md, "--format", "markdown"}); res.code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", res.code)
	}
	data, err = os.ReadFile(md)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "# "+report.DefaultTitle) {
		t.Errorf("--format markdown ignored, got %.40q", data)
	}
}

func TestRunReport(t *testing.T) {
	res := run(t, []string{"report", "--format", "markdown"})
	if res.code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d, stderr: %s", res.code, res.stderr)
	}
	assertContains(t, res.stdout, "# "+report.DefaultTitle, report.Disclaimer)

	res = run(t, []string{"report", "--format", "json", "-s", "B"})
	var rep report.Report
	if err := json.Unmarshal([]byte(res.stdout), &rep); err != nil {
		t.Fatalf("report is not JSON: %v\n%s", err, res.stdout)
	}
	if rep.Selected != scenario.KeyMarket || rep.Sensitivity == nil || rep.Boundary == nil || len(rep.BonusSweep) == 0 {
		t.Errorf("incomplete report: selected %q, sensitivity %v, boundary %v, %d bonus rows",
			rep.Selected, rep.Sensitivity != nil, rep.Boundary != nil, len(rep.BonusSweep))
	}

	res = run(t, []string{"report"})
	if res.code != apperrors.ExitSuccess {
		t.Fatalf("text report exit code = %d, stderr: %s", res.code, res.stderr)
	}
	assertContains(t, res.stdout, report.DefaultTitle)
}

func TestRunAnalyses(t *testing.T) {
	tests := []struct {
		name   string
		args   []string
		stdout []string
	}{
		{"scenarios", []string{"scenarios"}, []string{"情境A - 官方基準", "情境B - 市場實況"}},
		{"bonus", []string{"bonus", "--to", "10"}, []string{"Scenario: 情境A - 官方基準", "容積獎勵分析", "10%"}},
		{"sensitivity", []string{"sensitivity", "--steps", "3"}, []string{"Landlord share", "可行組合 (*)"}},
		{"boundary", []string{"boundary"}, []string{"臨界價格", "40.81"}},
		{"cases", []string{"cases"}, []string{"luzhou", "sanchong"}},
		{"one case", []string{"cases", "luzhou"}, []string{"1,309.1 坪"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := run(t, tt.args)
			if res.code != apperrors.ExitSuccess {
				t.Fatalf("exit code = %d, stderr: %s", res.code, res.stderr)
			}
			assertContains(t, res.stdout, tt.stdout...)
		})
	}
}

func TestRunREPL(t *testing.T) {
	res := run(t, []string{"repl"}, WithInput(strings.NewReader("calc\nexit\n")))
	if res.code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", res.code)
	}
	assertContains(t, res.stdout, "=== 情境A - 官方基準 ===", "Goodbye!")
}

func TestRunVersionAndHelp(t *testing.T) {
	assertContains(t, run(t, []string{"--version"}).stdout, "renewcalc "+Version)
	assertContains(t, run(t, []string{"version"}).stdout, "renewcalc "+Version, "commit:")

	res := run(t, []string{"--help"})
	if res.code != apperrors.ExitSuccess {
		t.Fatalf("--help exit code = %d", res.code)
	}
	assertContains(t, res.stdout, "Usage:", "sensitivity", "--scenario")
}

func TestConfigFileEvaluator(t *testing.T) {
	a := New(nil, &bytes.Buffer{})
	eval := a.configFileEvaluator()

	path := writeFile(t, "renewcalc.yaml", "scenario: all\n")
	results, err := eval(context.Background(), path)
	if err != nil {
		t.Fatalf("eval() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}

	if err := os.WriteFile(path, []byte("scenario: custom\ncustom:\n  sales_unit_price: 80\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	results, err = eval(context.Background(), path)
	if err != nil {
		t.Fatalf("eval() error = %v", err)
	}
	if len(results) != 1 || results[0].Scenario.Key != scenario.KeyCustom || results[0].Scenario.SalesUnitPrice != 80 {
		t.Errorf("results = %+v, want the custom scenario at 80", results)
	}

	if err := os.WriteFile(path, []byte("bogus: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := eval(context.Background(), path); err == nil {
		t.Error("want an error for an unknown key")
	}
}
