package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/metrics"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/scenario"
)

func sampleResults(t *testing.T) []orchestration.ScenarioResult {
	t.Helper()
	site, opts := feasibility.DefaultSite(), feasibility.DefaultOptions()
	var out []orchestration.ScenarioResult
	for _, sc := range []scenario.Scenario{scenario.Official(), scenario.Market()} {
		res, err := feasibility.Evaluate(site, sc.Params, opts)
		require.NoError(t, err)
		out = append(out, orchestration.ScenarioResult{Scenario: sc, Result: res, Indicators: metrics.Compute(res)})
	}
	broken := scenario.Custom(feasibility.Params{Name: "broken"})
	out = append(out, orchestration.ScenarioResult{Scenario: broken, Err: errors.New("construction_unit_price out of range")})
	return out
}

func sampleReport(t *testing.T) *Report {
	t.Helper()
	return New(feasibility.DefaultSite(), feasibility.DefaultOptions(), sampleResults(t))
}

func TestNew(t *testing.T) {
	t.Parallel()
	r := sampleReport(t)

	assert.Len(t, r.ID, 36)
	assert.Equal(t, DefaultTitle, r.Title)
	require.Len(t, r.Scenarios, 3)
	assert.True(t, r.Scenarios[0].OK())
	assert.False(t, r.Scenarios[2].OK())
	assert.Contains(t, r.Scenarios[2].Error, "out of range")
	assert.Equal(t, "情境A - 官方基準", r.Scenarios[0].Label)
}

func TestPrimary(t *testing.T) {
	t.Parallel()
	r := sampleReport(t)

	p, ok := r.Primary()
	require.True(t, ok)
	assert.Equal(t, scenario.KeyOfficial, p.Key)

	r.Selected = scenario.KeyMarket
	p, ok = r.Primary()
	require.True(t, ok)
	assert.Equal(t, scenario.KeyMarket, p.Key)

	// A failed selection falls back to the first evaluated scenario.
	r.Selected = scenario.KeyCustom
	p, ok = r.Primary()
	require.True(t, ok)
	assert.Equal(t, scenario.KeyOfficial, p.Key)

	empty := New(feasibility.DefaultSite(), feasibility.DefaultOptions(), nil)
	_, ok = empty.Primary()
	assert.False(t, ok)
}

func TestMarkdown(t *testing.T) {
	t.Parallel()
	md := sampleReport(t).Markdown()

	for _, want := range []string{
		"# " + DefaultTitle,
		"## 基地概況 Site",
		"## 情境比較 Scenario comparison",
		"## 成本明細 Costs (情境A - 官方基準)",
		"## 權利分配 Distribution",
		"## 投資報酬 Developer return",
		"## 財務指標 Indicators",
		"1,636.4 坪",
		"4.01 億",
		"59.2%",
		"68.70%",
		"38.3%",
		"錯誤: construction_unit_price out of range",
		Disclaimer,
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "## 容積獎勵分析")
	assert.NotContains(t, md, "## 敏感度分析")
	assert.NotContains(t, md, "## 臨界價格")
}

func TestMarkdownWithAnalyses(t *testing.T) {
	t.Parallel()
	site, opts := feasibility.DefaultSite(), feasibility.DefaultOptions()
	p := scenario.Official().Params

	rows, err := feasibility.BonusSweep(site, p, opts, 0, 50, 5)
	require.NoError(t, err)
	grid, err := feasibility.Sensitivity(site, feasibility.DefaultSensitivityRequest(), opts)
	require.NoError(t, err)
	bd, err := feasibility.FindBoundary(site, p, opts)
	require.NoError(t, err)

	md := sampleReport(t).WithBonusSweep(rows).WithSensitivity(grid).WithBoundary(bd).Markdown()

	assert.Contains(t, md, "## 容積獎勵分析 Bonus sweep")
	assert.Contains(t, md, "| 50% |")
	assert.Contains(t, md, "## 敏感度分析 Sensitivity")
	assert.Contains(t, md, "★")
	assert.Contains(t, md, "/ 49。")
	assert.Contains(t, md, "## 臨界價格 Break-even prices")
	assert.Contains(t, md, "40.81 萬/坪")
	assert.Contains(t, md, "營建單價 0..500 萬/坪，範圍外顯示「無解」")
}

func TestBonusChart(t *testing.T) {
	t.Parallel()
	assert.Empty(t, BonusChart(nil, 10, 60))

	rows, err := feasibility.BonusSweep(feasibility.DefaultSite(), scenario.Official().Params, feasibility.DefaultOptions(), 0, 50, 5)
	require.NoError(t, err)
	chart := BonusChart(rows, 8, 40)
	assert.Contains(t, chart, "0%..50%")
	assert.GreaterOrEqual(t, strings.Count(chart, "\n"), 8)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"TXT", FormatText, false},
		{"md", FormatMarkdown, false},
		{"json", FormatJSON, false},
		{" yml ", FormatYAML, false},
		{"pdf", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	t.Parallel()
	assert.Equal(t, FormatJSON, FormatFromPath("out/report.JSON"))
	assert.Equal(t, FormatYAML, FormatFromPath("report.yml"))
	assert.Equal(t, FormatText, FormatFromPath("report.txt"))
	assert.Equal(t, FormatMarkdown, FormatFromPath("report.md"))
	assert.Equal(t, FormatMarkdown, FormatFromPath("report"))
}

func TestWrite(t *testing.T) {
	t.Parallel()
	r := sampleReport(t)

	t.Run("json", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, r.Write(&buf, FormatJSON))
		var decoded map[string]any
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, r.ID, decoded["id"])
		assert.Len(t, decoded["scenarios"], 3)
	})

	t.Run("yaml", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, r.Write(&buf, FormatYAML))
		var decoded map[string]any
		require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
		assert.Equal(t, DefaultTitle, decoded["title"])
	})

	t.Run("markdown", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, r.Write(&buf, FormatMarkdown))
		assert.Equal(t, r.Markdown(), buf.String())
	})

	t.Run("text", func(t *testing.T) {
		t.Parallel()
		var buf bytes.Buffer
		require.NoError(t, r.Write(&buf, FormatText))
		assert.Contains(t, buf.String(), "Scenario comparison")
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		assert.Error(t, r.Write(&bytes.Buffer{}, Format("pdf")))
	})
}
