package report

import (
	"fmt"
	"strings"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/format"
)

// Markdown renders the report as a Markdown document.
func (r *Report) Markdown() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", r.Title)
	fmt.Fprintf(&b, "> 報告編號 `%s` · %s\n\n", r.ID, r.GeneratedAt.Format("2006-01-02 15:04"))

	primary, ok := r.Primary()
	area := feasibility.SiteArea(r.Site, r.Options)
	if ok {
		area = primary.Result.Area
	}
	r.writeSite(&b, area)
	r.writeComparison(&b)

	if ok {
		writeCosts(&b, primary)
		writeRevenue(&b, primary)
		writeDistribution(&b, primary)
		r.writeReturn(&b, primary)
		writeIndicators(&b, primary)
	}
	if len(r.BonusSweep) > 0 {
		writeBonusSweep(&b, r.BonusSweep)
	}
	if r.Sensitivity != nil {
		writeSensitivity(&b, *r.Sensitivity)
	}
	if r.Boundary != nil {
		writeBoundary(&b, *r.Boundary)
	}

	fmt.Fprintf(&b, "---\n\n*%s*\n", Disclaimer)
	return b.String()
}

func (r *Report) writeSite(b *strings.Builder, area feasibility.Area) {
	b.WriteString("## 基地概況 Site\n\n")
	b.WriteString("| 項目 | 數值 |\n|---|---:|\n")
	row := func(k, v string) { fmt.Fprintf(b, "| %s | %s |\n", k, v) }
	row("基地面積", fmt.Sprintf("%s m² (%s)", format.FormatNumberString(fmt.Sprintf("%.0f", r.Site.AreaM2)), format.FormatPing(area.SitePing)))
	row("法定容積率", format.FormatPercent(r.Site.LegalFAR, 0))
	if r.Site.UseOriginalFAR {
		row("原建築容積倍數", fmt.Sprintf("%.2f", r.Site.OriginalFARMultiplier))
	}
	row("防災容積獎勵", fmt.Sprintf("%.1f 倍", r.Site.BonusMultiplier))
	row("獎勵後容積率", format.FormatPercent(area.FARAfterBonus*100, 0))
	row("總樓地板面積", format.FormatPing(area.GFA))
	row("約略戶數", fmt.Sprintf("%.0f 戶", area.Households))
	row("樓層", fmt.Sprintf("地上 %d 層 / 地下 %d 層", r.Site.Floors, r.Site.BasementLevels))
	row("公告土地現值", format.FormatUnitPrice(r.Site.LandUnitPrice))
	b.WriteString("\n")
}

func (r *Report) writeComparison(b *strings.Builder) {
	b.WriteString("## 情境比較 Scenario comparison\n\n")
	b.WriteString("| 情境 | 營建單價 | 銷售單價 | 總成本 | 開發總值 | 地主分回 | IRR | 可行性 |\n")
	b.WriteString("|---|---:|---:|---:|---:|---:|---:|:---:|\n")
	for _, s := range r.Scenarios {
		if !s.OK() {
			fmt.Fprintf(b, "| %s | | | | | | | 錯誤: %s |\n", s.Label, s.Error)
			continue
		}
		res := s.Result
		fmt.Fprintf(b, "| %s | %s | %s | %s | %s | %s | %s | %s |\n",
			s.Label,
			format.FormatUnitPrice(res.Params.ConstructionUnitPrice),
			format.FormatUnitPrice(res.SalesUnitPrice),
			format.FormatAmount(res.Costs.Total),
			format.FormatAmount(res.Revenue.Total),
			format.FormatRatio(res.Distribution.LandlordRatio),
			irrText(res),
			verdictText(res.Feasible))
	}
	b.WriteString("\n")
}

func writeCosts(b *strings.Builder, s ScenarioSection) {
	fmt.Fprintf(b, "## 成本明細 Costs (%s)\n\n", s.Label)
	b.WriteString("| 項目 | 金額 | 占比 |\n|---|---:|---:|\n")
	for _, it := range s.Result.Costs.Items() {
		fmt.Fprintf(b, "| %s | %s | %s |\n", it.Label, format.FormatWan(it.Amount), format.FormatRatio(it.Share))
	}
	fmt.Fprintf(b, "| **總成本 Total** | **%s** | 100.0%% |\n\n", format.FormatWan(s.Result.Costs.Total))
	fmt.Fprintf(b, "工期 %.1f 個月，融資金額 %s。\n\n", s.Result.Costs.PeriodMonths, format.FormatWan(s.Result.Costs.FinancingAmount))
}

func writeRevenue(b *strings.Builder, s ScenarioSection) {
	rev := s.Result.Revenue
	b.WriteString("## 開發收入 Revenue\n\n")
	b.WriteString("| 項目 | 金額 |\n|---|---:|\n")
	fmt.Fprintf(b, "| 銷售收入 | %s |\n", format.FormatWan(rev.Sales))
	fmt.Fprintf(b, "| 停車收入 | %s |\n", format.FormatWan(rev.Parking))
	fmt.Fprintf(b, "| **開發總值** | **%s** |\n", format.FormatWan(rev.Total))
	fmt.Fprintf(b, "| 更新前土地價值 (參考) | %s |\n\n", format.FormatWan(rev.LandValue))
}

func writeDistribution(b *strings.Builder, s ScenarioSection) {
	d := s.Result.Distribution
	b.WriteString("## 權利分配 Distribution\n\n")
	b.WriteString("| 項目 | 數值 |\n|---|---:|\n")
	fmt.Fprintf(b, "| 共同負擔 | %s |\n", format.FormatWan(d.CommonBurden))
	fmt.Fprintf(b, "| 共同負擔比 | %s |\n", format.FormatRatio(d.BurdenRatio))
	fmt.Fprintf(b, "| 地主分回比例 | %s |\n", format.FormatRatio(d.LandlordRatio))
	fmt.Fprintf(b, "| 地主分回價值 | %s |\n", format.FormatWan(d.LandlordValue))
	fmt.Fprintf(b, "| 實施者分得價值 | %s |\n\n", format.FormatWan(d.DeveloperValue))
}

func (r *Report) writeReturn(b *strings.Builder, s ScenarioSection) {
	res := s.Result
	b.WriteString("## 投資報酬 Developer return\n\n")
	b.WriteString("| 年度 | 現金流 |\n|---|---:|\n")
	for year, cf := range res.CashFlows {
		fmt.Fprintf(b, "| %d | %s |\n", year, format.FormatSigned(cf))
	}
	fmt.Fprintf(b, "\n內部報酬率 IRR：**%s**（門檻 %s），地主分回 **%s**（門檻 %s）。\n\n",
		irrText(res), format.FormatPercent(r.Options.TargetIRR, 0),
		format.FormatPercent(res.LandlordPercent(), 1), format.FormatPercent(r.Options.TargetLandlordRatio, 0))
	fmt.Fprintf(b, "**結論：%s**\n\n", verdictText(res.Feasible))
}

func writeIndicators(b *strings.Builder, s ScenarioSection) {
	ind := s.Indicators
	b.WriteString("## 財務指標 Indicators\n\n")
	b.WriteString("| 指標 | 數值 |\n|---|---:|\n")
	fmt.Fprintf(b, "| 開發淨利 | %s |\n", format.FormatSigned(ind.Profit))
	fmt.Fprintf(b, "| 淨利率 | %s |\n", format.FormatPercent(ind.ProfitMargin, 1))
	fmt.Fprintf(b, "| 每坪成本 | %s |\n", format.FormatUnitPrice(ind.CostPerPing))
	fmt.Fprintf(b, "| 損益兩平房價 | %s |\n", format.FormatUnitPrice(ind.BreakEvenPrice))
	fmt.Fprintf(b, "| 房價下跌容忍度 | %s |\n", format.FormatPercent(ind.PriceHeadroom, 1))
	fmt.Fprintf(b, "| 營建費占比 | %s |\n", format.FormatPercent(ind.ConstructionPct, 1))
	fmt.Fprintf(b, "| 利息占比 | %s |\n", format.FormatPercent(ind.FinancingPct, 1))
	fmt.Fprintf(b, "| 約略戶數 | %.0f 戶 |\n\n", ind.Households)
}

func writeBonusSweep(b *strings.Builder, rows []feasibility.BonusRow) {
	b.WriteString("## 容積獎勵分析 Bonus sweep\n\n")
	b.WriteString("| 獎勵 | 樓地板面積 | 開發總值 | 總成本 | 地主分配 | 分配率 | IRR |\n")
	b.WriteString("|---:|---:|---:|---:|---:|---:|---:|\n")
	for _, row := range rows {
		irr := "-"
		if row.IRRDefined {
			irr = format.FormatPercent(row.DeveloperIRR, 1)
		}
		fmt.Fprintf(b, "| %d%% | %s | %s | %s | %s | %s | %s |\n",
			row.BonusPct, format.FormatPing(row.GFA), format.FormatAmount(row.TotalValue),
			format.FormatAmount(row.TotalCost), format.FormatAmount(row.OwnerShare),
			format.FormatPercent(row.OwnerShareRate, 1), irr)
	}
	fmt.Fprintf(b, "\n```\n%s\n```\n\n", BonusChart(rows, 10, 60))
}

func writeSensitivity(b *strings.Builder, g feasibility.SensitivityGrid) {
	b.WriteString("## 敏感度分析 Sensitivity\n\n")
	b.WriteString("地主分回比例 (%)，列為營建單價、欄為銷售單價；★ 表示同時達到 IRR 與分回門檻。\n\n")
	b.WriteString("| 營建 \\ 房價 |")
	for _, p := range g.Prices {
		fmt.Fprintf(b, " %.1f |", p)
	}
	b.WriteString("\n|---|")
	for range g.Prices {
		b.WriteString("---:|")
	}
	b.WriteString("\n")
	for i, cost := range g.Costs {
		fmt.Fprintf(b, "| %.1f |", cost)
		for _, c := range g.Cells[i] {
			mark := ""
			if c.Feasible {
				mark = " ★"
			}
			fmt.Fprintf(b, " %.1f%s |", c.LandlordRatio, mark)
		}
		b.WriteString("\n")
	}
	total := len(g.Prices) * len(g.Costs)
	fmt.Fprintf(b, "\n可行組合 %d / %d。\n\n", g.FeasibleCount(), total)
}

func writeBoundary(b *strings.Builder, bd feasibility.Boundary) {
	b.WriteString("## 臨界價格 Break-even prices\n\n")
	b.WriteString("| 條件 | 臨界值 |\n|---|---:|\n")
	row := func(label string, th feasibility.Threshold) {
		fmt.Fprintf(b, "| %s | %s |\n", label, thresholdText(th))
	}
	row(fmt.Sprintf("IRR ≥ %.0f%% 之最低房價", bd.TargetIRR), bd.MinSalesPriceForIRR)
	row(fmt.Sprintf("地主分回 ≥ %.0f%% 之最低房價", bd.TargetLandlordRatio), bd.MinSalesPriceForLandlord)
	row("兩項門檻同時達成之最低房價", bd.FeasibleSalesPrice())
	row(fmt.Sprintf("IRR ≥ %.0f%% 之最高營建單價", bd.TargetIRR), bd.MaxConstructionPriceForIRR)
	row(fmt.Sprintf("地主分回 ≥ %.0f%% 之最高營建單價", bd.TargetLandlordRatio), bd.MaxConstructionPriceForLandlord)
	fmt.Fprintf(b, "\n%s\n\n", boundaryRangeNote())
}

// boundaryRangeNote states the solver's search ranges; thresholds outside
// them read 無解.
func boundaryRangeNote() string {
	return fmt.Sprintf("搜尋範圍：房價 %g..%g 萬/坪，營建單價 %g..%g 萬/坪，範圍外顯示「無解」。",
		feasibility.BoundaryPriceMin, feasibility.BoundaryPriceMax, feasibility.BoundaryCostMin, feasibility.BoundaryCostMax)
}

func thresholdText(th feasibility.Threshold) string {
	if !th.Found {
		return "無解"
	}
	return format.FormatUnitPrice(th.Value)
}

func irrText(res feasibility.Result) string {
	if !res.IRRDefined {
		return "無法計算"
	}
	return format.FormatPercent(res.IRR, 2)
}

func verdictText(ok bool) string {
	if ok {
		return "✅ 可行"
	}
	return "❌ 不可行"
}
