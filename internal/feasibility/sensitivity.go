package feasibility

import (
	apperrors "github.com/agbru/renewcalc/internal/errors"
)

// SensitivityRequest describes the price by cost grid.
type SensitivityRequest struct {
	PriceMin float64 `json:"price_min" yaml:"price_min"`
	PriceMax float64 `json:"price_max" yaml:"price_max"`
	CostMin  float64 `json:"cost_min" yaml:"cost_min"`
	CostMax  float64 `json:"cost_max" yaml:"cost_max"`
	Steps    int     `json:"steps" yaml:"steps"`
}

// DefaultSensitivityRequest returns the 7×7 grid over 50..80 萬/坪 sale
// prices and 10..25 萬/坪 construction prices.
func DefaultSensitivityRequest() SensitivityRequest {
	return SensitivityRequest{PriceMin: 50, PriceMax: 80, CostMin: 10, CostMax: 25, Steps: 7}
}

// Validate checks the grid bounds.
func (r SensitivityRequest) Validate() error {
	switch {
	case r.Steps < 2 || r.Steps > 50:
		return apperrors.NewValidationError("steps", "must be between 2 and 50, got %d", r.Steps)
	case r.PriceMin <= 0 || r.PriceMax < r.PriceMin:
		return apperrors.NewValidationError("price_range", "need 0 < min <= max, got %g..%g", r.PriceMin, r.PriceMax)
	case r.CostMin <= 0 || r.CostMax < r.CostMin:
		return apperrors.NewValidationError("cost_range", "need 0 < min <= max, got %g..%g", r.CostMin, r.CostMax)
	}
	return nil
}

// SensitivityCell is one grid point. Both figures are in percent and clamped:
// the landlord ratio to [0, 100] and the IRR to [-50, 50].
type SensitivityCell struct {
	Price         float64 `json:"price" yaml:"price"`
	Cost          float64 `json:"cost" yaml:"cost"`
	LandlordRatio float64 `json:"landlord_ratio" yaml:"landlord_ratio"`
	IRR           float64 `json:"irr" yaml:"irr"`
	Feasible      bool    `json:"feasible" yaml:"feasible"`
}

// SensitivityGrid holds the evaluated grid. Rows follow Costs and columns
// follow Prices.
type SensitivityGrid struct {
	Prices []float64           `json:"prices" yaml:"prices"`
	Costs  []float64           `json:"costs" yaml:"costs"`
	Cells  [][]SensitivityCell `json:"cells" yaml:"cells"`
}

// FeasibleCount returns the number of cells meeting both targets.
func (g SensitivityGrid) FeasibleCount() int {
	n := 0
	for _, row := range g.Cells {
		for _, c := range row {
			if c.Feasible {
				n++
			}
		}
	}
	return n
}

// Linspace returns n evenly spaced values from lo to hi inclusive.
func Linspace(lo, hi float64, n int) []float64 {
	switch {
	case n <= 0:
		return nil
	case n == 1:
		return []float64{lo}
	}
	out := make([]float64, n)
	step := (hi - lo) / float64(n-1)
	for i := range out {
		out[i] = lo + float64(i)*step
	}
	out[n-1] = hi
	return out
}

// SensitivityParams returns the fixed-rate scenario used by the grid.
func SensitivityParams(price, cost float64) Params {
	return Params{
		Name:                  "Sensitivity",
		ConstructionUnitPrice: cost,
		SalesUnitPrice:        price,
		ManagementFeeRate:     SensitivityManagementFeeRate,
		RiskFeeRate:           SensitivityRiskFeeRate,
		LoanRatio:             SensitivityLoanRatio,
		InterestRate:          SensitivityInterestRate,
	}
}

// EvaluateCell computes one grid point for a site whose area has already
// been derived. Parking sales are left out of the grid revenue.
func EvaluateCell(site Site, area Area, price, cost float64, opts Options) SensitivityCell {
	p := SensitivityParams(price, cost)
	costs := ComputeCosts(area.GFA, p, site.Floors, site.BasementLevels, opts)
	revenue := ComputeRevenue(area.GFA, price, area.SitePing, site.LandUnitPrice, 0, opts)

	ratio := 0.0
	if revenue.Total != 0 {
		ratio = (revenue.Total - costs.Total) / revenue.Total * 100
	}
	irr, _ := DeveloperIRR(costs.Total, costs.PeriodMonths, revenue.Total, opts)

	cell := SensitivityCell{
		Price:         price,
		Cost:          cost,
		LandlordRatio: clamp(ratio, 0, 100),
		IRR:           clamp(irr, -SensitivityIRRLimit, SensitivityIRRLimit),
	}
	cell.Feasible = opts.IsFeasible(cell.IRR, cell.LandlordRatio)
	return cell
}

// EvaluateRow computes the grid row for one construction cost.
func EvaluateRow(site Site, area Area, prices []float64, cost float64, opts Options) []SensitivityCell {
	row := make([]SensitivityCell, len(prices))
	for j, price := range prices {
		row[j] = EvaluateCell(site, area, price, cost, opts)
	}
	return row
}

// Sensitivity evaluates the whole grid sequentially. The orchestration
// package offers a concurrent, cancellable variant built on EvaluateRow.
func Sensitivity(site Site, req SensitivityRequest, opts Options) (SensitivityGrid, error) {
	if err := req.Validate(); err != nil {
		return SensitivityGrid{}, err
	}
	if err := ValidateSite(site); err != nil {
		return SensitivityGrid{}, err
	}
	grid := NewSensitivityGrid(req)
	area := SiteArea(site, opts)
	for i, cost := range grid.Costs {
		grid.Cells[i] = EvaluateRow(site, area, grid.Prices, cost, opts)
	}
	return grid, nil
}

// NewSensitivityGrid allocates an empty grid for req.
func NewSensitivityGrid(req SensitivityRequest) SensitivityGrid {
	costs := Linspace(req.CostMin, req.CostMax, req.Steps)
	return SensitivityGrid{
		Prices: Linspace(req.PriceMin, req.PriceMax, req.Steps),
		Costs:  costs,
		Cells:  make([][]SensitivityCell, len(costs)),
	}
}
