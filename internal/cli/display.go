package cli

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/format"
	"github.com/agbru/renewcalc/internal/orchestration"
	"github.com/agbru/renewcalc/internal/report"
	"github.com/agbru/renewcalc/internal/scenario"
	"github.com/agbru/renewcalc/internal/ui"
)

// BonusChartHeight and BonusChartWidth size the bonus sweep chart.
const (
	BonusChartHeight = 10
	BonusChartWidth  = 60
)

// newTable returns a bordered table styled with the active palette. Columns
// after the first are right-aligned.
func newTable(headers ...string) *table.Table {
	p := ui.CurrentPalette()
	header := lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Padding(0, 1)
	first := lipgloss.NewStyle().Foreground(p.Text).Padding(0, 1)
	cell := first.Align(lipgloss.Right)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(p.Border)).
		Headers(headers...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return header
			case col == 0:
				return first
			default:
				return cell
			}
		})
}

func section(out io.Writer, title string) {
	fmt.Fprintf(out, "\n%s%s%s\n", ui.ColorBold(), title, ui.ColorReset())
}

// DisplaySite prints the site summary and its floor-area derivation.
func DisplaySite(site feasibility.Site, area feasibility.Area, out io.Writer) {
	section(out, "基地概況 Site")
	t := newTable("項目", "數值").Rows(
		[]string{"基地面積", fmt.Sprintf("%.0f m² / %s", site.AreaM2, format.FormatPing(area.SitePing))},
		[]string{"法定容積率", format.FormatPercent(site.LegalFAR, 0)},
		[]string{"計算基準容積", format.FormatPercent(area.BaseFAR, 0)},
		[]string{"容積獎勵", fmt.Sprintf("%.2f 倍", site.BonusMultiplier)},
		[]string{"獎勵後容積率", format.FormatPercent(area.FARAfterBonus*100, 0)},
		[]string{"總樓地板面積", format.FormatPing(area.GFA)},
		[]string{"約略戶數", fmt.Sprintf("%.0f 戶", area.Households)},
		[]string{"樓層", fmt.Sprintf("%d F / B%d", site.Floors, site.BasementLevels)},
	)
	fmt.Fprintln(out, t.Render())
}

// DisplayResult prints one evaluated scenario: the headline figures, the
// cost table and the distribution. Details adds cash flows and indicators;
// Verbose adds the site summary.
func DisplayResult(res orchestration.ScenarioResult, opts orchestration.PresentationOptions, out io.Writer) {
	r := res.Result
	fmt.Fprintf(out, "\n%s=== %s ===%s\n", ui.ColorBold(), res.Scenario.Label(), ui.ColorReset())
	if opts.Verbose {
		DisplaySite(r.Site, r.Area, out)
	}

	fmt.Fprintf(out, "總樓地板面積: %s%s%s   銷售單價: %s%s%s\n",
		ui.ColorCyan(), format.FormatPing(r.Area.GFA), ui.ColorReset(),
		ui.ColorCyan(), format.FormatUnitPrice(r.SalesUnitPrice), ui.ColorReset())

	DisplayCosts(r.Costs, out)
	DisplayDistribution(r, out)

	if opts.Details || opts.Verbose {
		DisplayCashFlows(r.CashFlows, out)
		DisplayIndicators(res, out)
	}

	fmt.Fprintf(out, "\n開發商 IRR: %s%s%s   地主分回: %s%s%s\n",
		ui.ColorMagenta(), irrString(r.IRR, r.IRRDefined), ui.ColorReset(),
		ui.ColorMagenta(), format.FormatRatio(r.Distribution.LandlordRatio), ui.ColorReset())
	if r.Feasible {
		fmt.Fprintf(out, "結論: %s\n", ui.Verdict("✅ 可行 Feasible", true))
	} else {
		fmt.Fprintf(out, "結論: %s\n", ui.Verdict("❌ 不可行 Not feasible", false))
	}
}

// DisplayCosts prints the seven cost lines with their share of the total.
func DisplayCosts(c feasibility.Costs, out io.Writer) {
	section(out, fmt.Sprintf("成本明細 Costs (工期 %.0f 個月)", c.PeriodMonths))
	t := newTable("項目", "金額", "占比")
	for _, it := range c.Items() {
		t.Row(it.Label, format.FormatWan(it.Amount), format.FormatRatio(it.Share))
	}
	t.Row("總成本 Total", format.FormatWan(c.Total), "100.0%")
	fmt.Fprintln(out, t.Render())
}

// DisplayDistribution prints revenue and the landlord/developer split.
func DisplayDistribution(r feasibility.Result, out io.Writer) {
	section(out, "權利分配 Distribution")
	d := r.Distribution
	t := newTable("項目", "數值").Rows(
		[]string{"銷售收入", format.FormatWan(r.Revenue.Sales)},
		[]string{"停車收入", format.FormatWan(r.Revenue.Parking)},
		[]string{"開發總值", format.FormatWan(r.Revenue.Total)},
		[]string{"共同負擔比", format.FormatRatio(d.BurdenRatio)},
		[]string{"地主分回價值", format.FormatWan(d.LandlordValue)},
		[]string{"實施者分得價值", format.FormatWan(d.DeveloperValue)},
	)
	fmt.Fprintln(out, t.Render())
}

// DisplayCashFlows prints the developer cash flows by year.
func DisplayCashFlows(flows []float64, out io.Writer) {
	section(out, "現金流量 Cash flows")
	t := newTable("年度", "現金流")
	for year, cf := range flows {
		t.Row(fmt.Sprintf("%d", year), format.FormatSigned(cf))
	}
	fmt.Fprintln(out, t.Render())
}

// DisplayIndicators prints the derived financial indicators.
func DisplayIndicators(res orchestration.ScenarioResult, out io.Writer) {
	section(out, "財務指標 Indicators")
	ind := res.Indicators
	t := newTable("指標", "數值").Rows(
		[]string{"開發淨利", format.FormatSigned(ind.Profit)},
		[]string{"淨利率", format.FormatPercent(ind.ProfitMargin, 1)},
		[]string{"每坪成本", format.FormatUnitPrice(ind.CostPerPing)},
		[]string{"損益兩平房價", format.FormatUnitPrice(ind.BreakEvenPrice)},
		[]string{"房價下跌容忍度", format.FormatPercent(ind.PriceHeadroom, 1)},
		[]string{"營建費占比", format.FormatPercent(ind.ConstructionPct, 1)},
		[]string{"利息占比", format.FormatPercent(ind.FinancingPct, 1)},
	)
	fmt.Fprintln(out, t.Render())
}

// DisplayBonusSweep prints the bonus sweep table followed by a chart of the
// landlord share rate.
func DisplayBonusSweep(rows []feasibility.BonusRow, out io.Writer) {
	section(out, "容積獎勵分析 Bonus sweep")
	t := newTable("獎勵", "樓地板面積", "開發總值", "總成本", "地主分配", "分配率", "IRR")
	for _, r := range rows {
		t.Row(fmt.Sprintf("%d%%", r.BonusPct), format.FormatPing(r.GFA), format.FormatAmount(r.TotalValue),
			format.FormatAmount(r.TotalCost), format.FormatAmount(r.OwnerShare),
			format.FormatPercent(r.OwnerShareRate, 1), irrString(r.DeveloperIRR, r.IRRDefined))
	}
	fmt.Fprintln(out, t.Render())
	if chart := report.BonusChart(rows, BonusChartHeight, BonusChartWidth); chart != "" {
		fmt.Fprintf(out, "\n%s\n", chart)
	}
}

// DisplaySensitivity prints the landlord share and IRR matrices of a grid.
// Cells meeting both targets are highlighted.
func DisplaySensitivity(g feasibility.SensitivityGrid, out io.Writer) {
	matrix := func(title string, value func(feasibility.SensitivityCell) float64) {
		section(out, title)
		headers := []string{"營建 \\ 房價"}
		for _, p := range g.Prices {
			headers = append(headers, fmt.Sprintf("%.1f", p))
		}
		t := newTable(headers...)
		for i, cost := range g.Costs {
			row := []string{fmt.Sprintf("%.1f", cost)}
			for _, c := range g.Cells[i] {
				text := fmt.Sprintf("%.1f", value(c))
				if c.Feasible {
					text = ui.Verdict(text+"*", true)
				}
				row = append(row, text)
			}
			t.Row(row...)
		}
		fmt.Fprintln(out, t.Render())
	}
	matrix("地主分回比例 Landlord share (%)", func(c feasibility.SensitivityCell) float64 { return c.LandlordRatio })
	matrix("開發商 IRR (%)", func(c feasibility.SensitivityCell) float64 { return c.IRR })
	fmt.Fprintf(out, "可行組合 (*) %d / %d\n", g.FeasibleCount(), len(g.Prices)*len(g.Costs))
}

// DisplayBoundary prints the break-even prices of a scenario.
func DisplayBoundary(b feasibility.Boundary, out io.Writer) {
	section(out, "臨界價格 Break-even prices")
	th := func(t feasibility.Threshold) string {
		if !t.Found {
			return "無解"
		}
		return format.FormatUnitPrice(t.Value)
	}
	t := newTable("條件", "臨界值").Rows(
		[]string{fmt.Sprintf("IRR ≥ %.0f%% 最低房價", b.TargetIRR), th(b.MinSalesPriceForIRR)},
		[]string{fmt.Sprintf("地主分回 ≥ %.0f%% 最低房價", b.TargetLandlordRatio), th(b.MinSalesPriceForLandlord)},
		[]string{"同時可行最低房價", th(b.FeasibleSalesPrice())},
		[]string{fmt.Sprintf("IRR ≥ %.0f%% 最高營建單價", b.TargetIRR), th(b.MaxConstructionPriceForIRR)},
		[]string{fmt.Sprintf("地主分回 ≥ %.0f%% 最高營建單價", b.TargetLandlordRatio), th(b.MaxConstructionPriceForLandlord)},
	)
	fmt.Fprintln(out, t.Render())
	fmt.Fprintf(out, "搜尋範圍：房價 %g..%g 萬/坪，營建單價 %g..%g 萬/坪\n",
		feasibility.BoundaryPriceMin, feasibility.BoundaryPriceMax, feasibility.BoundaryCostMin, feasibility.BoundaryCostMax)
}

// DisplayCases prints the validation cases and their evaluations.
func DisplayCases(results []scenario.CaseResult, out io.Writer) {
	section(out, "驗證案例 Validation cases")
	t := newTable("案例", "地點", "基地", "樓地板面積", "戶數", "總成本", "開發總值", "地主分回", "IRR")
	for _, cr := range results {
		r := cr.Result
		t.Row(cr.Case.Key, cr.Case.Location, fmt.Sprintf("%.0f m²", cr.Case.AreaM2), format.FormatPing(r.Area.GFA),
			fmt.Sprintf("%.0f", r.Area.Households), format.FormatAmount(r.Costs.Total),
			format.FormatAmount(r.Revenue.Total), format.FormatRatio(r.Distribution.LandlordRatio),
			irrString(r.IRR, r.IRRDefined))
	}
	fmt.Fprintln(out, t.Render())
}

// DisplayScenarioList prints the registered scenarios and their parameters.
func DisplayScenarioList(scenarios []scenario.Scenario, out io.Writer) {
	section(out, "情境 Scenarios")
	t := newTable("代號", "名稱", "營建單價", "銷售單價", "管理費", "風險費", "貸款成數", "利率")
	for _, s := range scenarios {
		t.Row(s.Key, s.Label(), format.FormatUnitPrice(s.ConstructionUnitPrice), format.FormatUnitPrice(s.SalesUnitPrice),
			format.FormatRatio(s.ManagementFeeRate), format.FormatRatio(s.RiskFeeRate),
			format.FormatRatio(s.LoanRatio), format.FormatRatio(s.InterestRate))
	}
	fmt.Fprintln(out, t.Render())
}

// DisplayReport renders a report's Markdown to the terminal.
func DisplayReport(r *report.Report, width int, noColor bool, out io.Writer) error {
	rendered, err := report.Render(r.Markdown(), width, noColor)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}
