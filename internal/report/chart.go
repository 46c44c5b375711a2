package report

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/agbru/renewcalc/internal/feasibility"
)

// BonusChart plots the landlord share rate across a bonus sweep. It returns
// an empty string for an empty sweep.
func BonusChart(rows []feasibility.BonusRow, height, width int) string {
	if len(rows) == 0 {
		return ""
	}
	data := make([]float64, len(rows))
	for i, r := range rows {
		data[i] = r.OwnerShareRate
	}
	caption := fmt.Sprintf("地主分配率 (%%) vs 容積獎勵 %d%%..%d%%", rows[0].BonusPct, rows[len(rows)-1].BonusPct)
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption(caption),
	)
}
