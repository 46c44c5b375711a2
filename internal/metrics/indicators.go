package metrics

import "github.com/agbru/renewcalc/internal/feasibility"

// Indicators holds the headline figures derived from an evaluation.
type Indicators struct {
	Profit          float64 `json:"profit" yaml:"profit"`                     // 萬
	ProfitMargin    float64 `json:"profit_margin" yaml:"profit_margin"`       // % of revenue
	CostPerPing     float64 `json:"cost_per_ping" yaml:"cost_per_ping"`       // 萬/坪 of GFA
	RevenuePerPing  float64 `json:"revenue_per_ping" yaml:"revenue_per_ping"` // 萬/坪 of GFA
	BreakEvenPrice  float64 `json:"break_even_price" yaml:"break_even_price"` // sales price where profit is zero
	Households      float64 `json:"households" yaml:"households"`             // approximate unit count
	ConstructionPct float64 `json:"construction_pct" yaml:"construction_pct"` // construction share of cost, %
	FinancingPct    float64 `json:"financing_pct" yaml:"financing_pct"`       // interest share of cost, %
	LandValueRatio  float64 `json:"land_value_ratio" yaml:"land_value_ratio"` // revenue over pre-renewal land value
	PriceHeadroom   float64 `json:"price_headroom" yaml:"price_headroom"`     // % the sales price can fall before break-even
	PeriodYears     float64 `json:"period_years" yaml:"period_years"`         // construction period
	IRR             float64 `json:"irr" yaml:"irr"`                           // developer IRR, %
	LandlordPercent float64 `json:"landlord_percent" yaml:"landlord_percent"` // landlord share of value, %
}

// Compute derives the indicators for a result.
func Compute(res feasibility.Result) Indicators {
	ind := Indicators{
		Profit:          res.Profit,
		ProfitMargin:    res.ProfitMargin,
		Households:      res.Area.Households,
		PeriodYears:     res.Costs.PeriodYears(),
		IRR:             res.IRR,
		LandlordPercent: res.LandlordPercent(),
	}
	if gfa := res.Area.GFA; gfa > 0 {
		ind.CostPerPing = res.Costs.Total / gfa
		ind.RevenuePerPing = res.Revenue.Total / gfa
		ind.BreakEvenPrice = (res.Costs.Total - res.Revenue.Parking) / gfa
		if ind.BreakEvenPrice < 0 {
			ind.BreakEvenPrice = 0
		}
	}
	if total := res.Costs.Total; total > 0 {
		ind.ConstructionPct = res.Costs.Construction / total * 100
		ind.FinancingPct = res.Costs.Interest / total * 100
	}
	if res.Revenue.LandValue > 0 {
		ind.LandValueRatio = res.Revenue.Total / res.Revenue.LandValue
	}
	if res.SalesUnitPrice > 0 {
		ind.PriceHeadroom = (res.SalesUnitPrice - ind.BreakEvenPrice) / res.SalesUnitPrice * 100
	}
	return ind
}
