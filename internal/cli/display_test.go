package cli

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/metrics"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/report"
	"github.com/agbru/renewcalc/internal/scenario"
	"github.com/agbru/renewcalc/internal/ui"
)

func TestMain(m *testing.M) {
	ui.InitTheme(true)
	os.Exit(m.Run())
}

func evaluated(t *testing.T, sc scenario.Scenario) orchestration.ScenarioResult {
	t.Helper()
	res, err := feasibility.Evaluate(feasibility.DefaultSite(), sc.Params, feasibility.DefaultOptions())
	if err != nil {
		t.Fatalf("Evaluate(%s) error = %v", sc.Key, err)
	}
	return orchestration.ScenarioResult{Scenario: sc, Result: res, Indicators: metrics.Compute(res), Duration: time.Millisecond}
}

func assertContains(t *testing.T, output string, want ...string) {
	t.Helper()
	for _, s := range want {
		if !strings.Contains(output, s) {
			t.Errorf("expected output to contain %q, got:\n%s", s, output)
		}
	}
}

func TestDisplayResult(t *testing.T) {
	t.Parallel()
	official := evaluated(t, scenario.Official())

	tests := []struct {
		name     string
		opts     orchestration.PresentationOptions
		contains []string
		excludes []string
	}{
		{
			name:     "summary",
			contains: []string{"情境A - 官方基準", "1,636.4 坪", "營建費用 Construction", "總成本 Total", "68.70%", "59.2%", "可行 Feasible"},
			excludes: []string{"現金流量", "財務指標", "基地概況"},
		},
		{
			name:     "details",
			opts:     orchestration.PresentationOptions{Details: true},
			contains: []string{"現金流量 Cash flows", "財務指標 Indicators", "損益兩平房價"},
			excludes: []string{"基地概況"},
		},
		{
			name:     "verbose",
			opts:     orchestration.PresentationOptions{Verbose: true},
			contains: []string{"基地概況 Site", "303.0 坪", "現金流量 Cash flows"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			DisplayResult(official, tt.opts, &buf)
			assertContains(t, buf.String(), tt.contains...)
			for _, s := range tt.excludes {
				if strings.Contains(buf.String(), s) {
					t.Errorf("output should not contain %q", s)
				}
			}
		})
	}
}

func TestDisplayResultInfeasible(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	DisplayResult(evaluated(t, scenario.Market()), orchestration.PresentationOptions{}, &buf)
	assertContains(t, buf.String(), "情境B - 市場實況", "38.3%", "不可行 Not feasible")
}

func TestPresentComparisonTable(t *testing.T) {
	t.Parallel()
	results := []orchestration.ScenarioResult{
		evaluated(t, scenario.Official()),
		evaluated(t, scenario.Market()),
		{Scenario: scenario.Custom(feasibility.Params{}), Err: errors.New("boom")},
	}
	var buf bytes.Buffer
	CLIResultPresenter{}.PresentComparisonTable(results, &buf)
	out := buf.String()

	assertContains(t, out, "Scenario Comparison", "Landlord", "情境A - 官方基準", "✅ Feasible", "Not feasible", "❌ Failure (boom)", "1ms", "< 1µs")

	// Columns line up on display width.
	lines := strings.Split(strings.TrimSpace(out), "\n")
	header := lines[1]
	idx := strings.Index(header, "Landlord")
	for _, line := range lines[2:4] {
		if !strings.Contains(line[:idx+20], "%") {
			t.Errorf("landlord column misaligned in %q", line)
		}
	}
}

func TestCLIResultPresenter(t *testing.T) {
	t.Parallel()
	p := CLIResultPresenter{}
	if got := p.FormatDuration(1500 * time.Millisecond); got != "1.5s" {
		t.Errorf("FormatDuration = %q, want 1.5s", got)
	}
	var buf bytes.Buffer
	if code := p.HandleError(nil, 0, &buf); code != 0 {
		t.Errorf("HandleError(nil) = %d, want 0", code)
	}
	buf.Reset()
	p.PresentResult(evaluated(t, scenario.Official()), orchestration.PresentationOptions{}, &buf)
	assertContains(t, buf.String(), "=== 情境A - 官方基準 ===")
}

func TestDisplayBonusSweep(t *testing.T) {
	t.Parallel()
	rows, err := feasibility.BonusSweep(feasibility.DefaultSite(), scenario.Official().Params, feasibility.DefaultOptions(), 0, 50, 5)
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	DisplayBonusSweep(rows, &buf)
	assertContains(t, buf.String(), "容積獎勵分析", "0%", "50%", "1,090.9 坪", "0%..50%")
}

func TestDisplaySensitivity(t *testing.T) {
	t.Parallel()
	grid, err := feasibility.Sensitivity(feasibility.DefaultSite(), feasibility.DefaultSensitivityRequest(), feasibility.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	DisplaySensitivity(grid, &buf)
	assertContains(t, buf.String(), "Landlord share", "開發商 IRR", "50.0", "80.0", "*", "/ 49")
}

func TestDisplayBoundary(t *testing.T) {
	t.Parallel()
	b, err := feasibility.FindBoundary(feasibility.DefaultSite(), scenario.Official().Params, feasibility.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	DisplayBoundary(b, &buf)
	assertContains(t, buf.String(), "臨界價格", "40.81 萬/坪", "同時可行最低房價", "搜尋範圍：房價 0.01..1000 萬/坪，營建單價 0..500 萬/坪")
}

func TestDisplayCasesAndScenarios(t *testing.T) {
	t.Parallel()
	var results []scenario.CaseResult
	for _, key := range scenario.CaseKeys() {
		c, _ := scenario.GetCase(key)
		cr, err := scenario.EvaluateCase(c, feasibility.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		results = append(results, cr)
	}
	var buf bytes.Buffer
	DisplayCases(results, &buf)
	assertContains(t, buf.String(), "luzhou", "sanchong", "新北市蘆洲區", "1,309.1 坪")

	buf.Reset()
	DisplayScenarioList(scenario.NewDefaultRegistry().All(), &buf)
	assertContains(t, buf.String(), "情境A - 官方基準", "情境B - 市場實況")
}

func TestDisplayReport(t *testing.T) {
	t.Parallel()
	r := report.New(feasibility.DefaultSite(), feasibility.DefaultOptions(), []orchestration.ScenarioResult{evaluated(t, scenario.Official())})
	var buf bytes.Buffer
	if err := DisplayReport(r, 100, true, &buf); err != nil {
		t.Fatalf("DisplayReport() error = %v", err)
	}
	assertContains(t, buf.String(), "Scenario comparison")
}

func TestPrintExecution(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	PrintExecutionMode([]scenario.Scenario{scenario.Official()}, &buf)
	assertContains(t, buf.String(), "Single evaluation of 情境A - 官方基準")

	buf.Reset()
	PrintExecutionMode(scenario.NewDefaultRegistry().All(), &buf)
	assertContains(t, buf.String(), "Parallel comparison of 2 scenarios")
}
