package feasibility

import (
	"errors"
	"fmt"
	"math"
)

// ErrIRRUndefined is returned when a cash-flow series has no internal rate
// of return.
var ErrIRRUndefined = errors.New("irr undefined")

const (
	irrTolerance     = 1e-10
	irrMaxIterations = 200
	// irrMaxRate bounds the root search at 100000%.
	irrMaxRate = 1000.0
)

// BuildCashFlows lays out the yearly developer cash flows:
//
//	year 0: -total cost
//	year 1..n-1: 0 while the building is under construction, then
//	             revenue - operating cost rate × total cost
//	year n-1 additionally receives the full revenue.
//
// n is opts.HoldingYears. A series shorter than two entries is returned as
// a single netted flow.
func BuildCashFlows(totalCost, periodMonths, revenue float64, opts Options) []float64 {
	years := opts.HoldingYears
	if years < 1 {
		years = 1
	}
	flows := make([]float64, 1, years)
	flows[0] = -totalCost
	periodYears := periodMonths / 12
	for year := 1; year < years; year++ {
		if float64(year) <= periodYears {
			flows = append(flows, 0)
		} else {
			flows = append(flows, revenue-totalCost*opts.OperatingCostRate)
		}
	}
	flows[len(flows)-1] += revenue
	return flows
}

// NPV discounts flows at rate; flows[0] is undiscounted.
func NPV(rate float64, flows []float64) float64 {
	var npv float64
	discount := 1.0
	for _, f := range flows {
		npv += f / discount
		discount *= 1 + rate
	}
	return npv
}

// IRR returns the rate in (-1, irrMaxRate] at which NPV(flows) is zero. When
// several roots exist the one closest to zero is returned.
func IRR(flows []float64) (float64, error) {
	if len(flows) < 2 {
		return 0, fmt.Errorf("%w: need at least two cash flows, got %d", ErrIRRUndefined, len(flows))
	}
	hasPositive, hasNegative := false, false
	for _, f := range flows {
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, fmt.Errorf("%w: non-finite cash flow", ErrIRRUndefined)
		}
		if f > 0 {
			hasPositive = true
		} else if f < 0 {
			hasNegative = true
		}
	}
	if !hasPositive || !hasNegative {
		return 0, fmt.Errorf("%w: cash flows have no sign change", ErrIRRUndefined)
	}

	best, found := 0.0, false
	consider := func(r float64) {
		if !found || math.Abs(r) < math.Abs(best) {
			best, found = r, true
		}
	}

	grid := rateGrid()
	prevRate := grid[0]
	prevNPV := NPV(prevRate, flows)
	if prevNPV == 0 {
		consider(prevRate)
	}
	for _, r := range grid[1:] {
		v := NPV(r, flows)
		switch {
		case v == 0:
			consider(r)
		case prevNPV != 0 && math.Signbit(v) != math.Signbit(prevNPV):
			consider(bisectNPV(flows, prevRate, r, prevNPV))
		}
		prevRate, prevNPV = r, v
	}
	if !found {
		return 0, fmt.Errorf("%w: no root in (-100%%, %.0f%%]", ErrIRRUndefined, irrMaxRate*100)
	}
	return best, nil
}

// rateGrid samples (-1, irrMaxRate] densely near zero and geometrically
// beyond 100%.
func rateGrid() []float64 {
	grid := make([]float64, 0, 256)
	for r := -0.999; r < 1; r += 0.01 {
		grid = append(grid, r)
	}
	for r := 1.0; r <= irrMaxRate; r *= 1.1 {
		grid = append(grid, r)
	}
	return grid
}

func bisectNPV(flows []float64, lo, hi, npvLo float64) float64 {
	for i := 0; i < irrMaxIterations; i++ {
		mid := (lo + hi) / 2
		v := NPV(mid, flows)
		if v == 0 || (hi-lo)/2 < irrTolerance {
			return mid
		}
		if math.Signbit(v) == math.Signbit(npvLo) {
			lo, npvLo = mid, v
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}

// DeveloperIRR builds the cash flows for a project and returns its IRR in
// percent, floored at -99%. When the IRR is undefined it returns 0 and an
// error wrapping ErrIRRUndefined.
func DeveloperIRR(totalCost, periodMonths, revenue float64, opts Options) (float64, error) {
	rate, err := IRR(BuildCashFlows(totalCost, periodMonths, revenue, opts))
	if err != nil {
		return 0, err
	}
	return math.Max(rate, IRRFloor) * 100, nil
}
