package feasibility

// Search ranges for the boundary solver, in 萬/坪. Thresholds outside
// them are reported as not found.
const (
	BoundaryPriceMin = 0.01
	BoundaryPriceMax = 1000.0
	BoundaryCostMin  = 0.0
	BoundaryCostMax  = 500.0
	// boundaryTolerance is the price resolution of the search.
	boundaryTolerance = 1e-6
)

// Threshold is a solved boundary value. Found is false when the target
// cannot be reached inside the search range: sales prices in
// [BoundaryPriceMin, BoundaryPriceMax], construction prices in
// [BoundaryCostMin, BoundaryCostMax].
type Threshold struct {
	Value float64 `json:"value" yaml:"value"`
	Found bool    `json:"found" yaml:"found"`
}

// Boundary holds the unit prices at which a project crosses the
// feasibility targets, all other inputs held fixed.
type Boundary struct {
	TargetIRR           float64 `json:"target_irr" yaml:"target_irr"`
	TargetLandlordRatio float64 `json:"target_landlord_ratio" yaml:"target_landlord_ratio"`
	// MinSalesPriceForIRR is the lowest sales price giving the target IRR.
	MinSalesPriceForIRR Threshold `json:"min_sales_price_for_irr" yaml:"min_sales_price_for_irr"`
	// MinSalesPriceForLandlord is the lowest sales price giving the target
	// landlord share.
	MinSalesPriceForLandlord Threshold `json:"min_sales_price_for_landlord" yaml:"min_sales_price_for_landlord"`
	// MaxConstructionPriceForIRR is the highest construction price that
	// still gives the target IRR.
	MaxConstructionPriceForIRR Threshold `json:"max_construction_price_for_irr" yaml:"max_construction_price_for_irr"`
	// MaxConstructionPriceForLandlord is the highest construction price that
	// still gives the target landlord share.
	MaxConstructionPriceForLandlord Threshold `json:"max_construction_price_for_landlord" yaml:"max_construction_price_for_landlord"`
}

// FeasibleSalesPrice returns the lowest sales price meeting both targets.
func (b Boundary) FeasibleSalesPrice() Threshold {
	if !b.MinSalesPriceForIRR.Found || !b.MinSalesPriceForLandlord.Found {
		return Threshold{}
	}
	v := b.MinSalesPriceForIRR.Value
	if b.MinSalesPriceForLandlord.Value > v {
		v = b.MinSalesPriceForLandlord.Value
	}
	return Threshold{Value: v, Found: true}
}

// FindBoundary solves for the break-even unit prices of a project.
func FindBoundary(site Site, p Params, opts Options) (Boundary, error) {
	if err := Validate(site, p); err != nil {
		return Boundary{}, err
	}
	if err := ValidateOptions(opts); err != nil {
		return Boundary{}, err
	}

	b := Boundary{TargetIRR: opts.TargetIRR, TargetLandlordRatio: opts.TargetLandlordRatio}

	withPrice := func(price float64) Result {
		s := site
		s.SalesUnitPrice = price
		return evaluate(s, p, opts)
	}
	withCost := func(cost float64) Result {
		q := p
		q.ConstructionUnitPrice = cost
		return evaluate(site, q, opts)
	}
	irrOK := func(r Result) bool { return r.IRRDefined && r.IRR >= opts.TargetIRR }
	landlordOK := func(r Result) bool { return r.LandlordPercent() >= opts.TargetLandlordRatio }

	b.MinSalesPriceForIRR = minSatisfying(func(x float64) bool { return irrOK(withPrice(x)) }, BoundaryPriceMin, BoundaryPriceMax)
	b.MinSalesPriceForLandlord = minLandlordPrice(site, p, opts)
	b.MaxConstructionPriceForIRR = maxSatisfying(func(x float64) bool { return irrOK(withCost(x)) }, BoundaryCostMin, BoundaryCostMax)
	b.MaxConstructionPriceForLandlord = maxSatisfying(func(x float64) bool { return landlordOK(withCost(x)) }, BoundaryCostMin, BoundaryCostMax)
	return b, nil
}

// minLandlordPrice solves (R - C) / R >= t for the sales price. Costs do not
// depend on the price, so the answer is closed-form.
func minLandlordPrice(site Site, p Params, opts Options) Threshold {
	t := opts.TargetLandlordRatio / 100
	if t <= 0 {
		return Threshold{Value: BoundaryPriceMin, Found: true}
	}
	if t >= 1 {
		return Threshold{}
	}
	area := SiteArea(site, opts)
	if area.GFA <= 0 {
		return Threshold{}
	}
	costs := ComputeCosts(area.GFA, p, site.Floors, site.BasementLevels, opts)
	parking := float64(site.ParkingUnits) * opts.ParkingUnitPrice
	price := (costs.Total/(1-t) - parking) / area.GFA
	switch {
	case price > BoundaryPriceMax:
		return Threshold{}
	case price < BoundaryPriceMin:
		price = BoundaryPriceMin
	}
	return Threshold{Value: price, Found: true}
}

// minSatisfying returns the smallest x in [lo, hi] for which ok holds,
// assuming ok switches from false to true exactly once.
func minSatisfying(ok func(float64) bool, lo, hi float64) Threshold {
	if !ok(hi) {
		return Threshold{}
	}
	if ok(lo) {
		return Threshold{Value: lo, Found: true}
	}
	for hi-lo > boundaryTolerance {
		mid := (lo + hi) / 2
		if ok(mid) {
			hi = mid
		} else {
			lo = mid
		}
	}
	return Threshold{Value: hi, Found: true}
}

// maxSatisfying returns the largest x in [lo, hi] for which ok holds,
// assuming ok switches from true to false exactly once.
func maxSatisfying(ok func(float64) bool, lo, hi float64) Threshold {
	if !ok(lo) {
		return Threshold{}
	}
	if ok(hi) {
		return Threshold{Value: hi, Found: true}
	}
	for hi-lo > boundaryTolerance {
		mid := (lo + hi) / 2
		if ok(mid) {
			lo = mid
		} else {
			hi = mid
		}
	}
	return Threshold{Value: lo, Found: true}
}
