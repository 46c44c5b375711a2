package feasibility

// Result is the complete evaluation of one site under one scenario.
type Result struct {
	Site   Site   `json:"site" yaml:"site"`
	Params Params `json:"params" yaml:"params"`
	// SalesUnitPrice is the price actually used for revenue, in 萬/坪.
	SalesUnitPrice float64      `json:"sales_unit_price" yaml:"sales_unit_price"`
	Area           Area         `json:"area" yaml:"area"`
	Costs          Costs        `json:"costs" yaml:"costs"`
	Revenue        Revenue      `json:"revenue" yaml:"revenue"`
	Distribution   Distribution `json:"distribution" yaml:"distribution"`
	CashFlows      []float64    `json:"cash_flows" yaml:"cash_flows"`

	// Profit is revenue minus cost, in 萬.
	Profit float64 `json:"profit" yaml:"profit"`
	// ProfitMargin is Profit / revenue in percent.
	ProfitMargin float64 `json:"profit_margin" yaml:"profit_margin"`
	// IRR is the developer IRR in percent; 0 when IRRDefined is false.
	IRR        float64 `json:"irr" yaml:"irr"`
	IRRDefined bool    `json:"irr_defined" yaml:"irr_defined"`
	// Feasible reports whether both the IRR and landlord targets are met.
	Feasible bool `json:"feasible" yaml:"feasible"`
}

// LandlordPercent returns the landlord share in percent.
func (r Result) LandlordPercent() float64 { return r.Distribution.LandlordPercent() }

// Evaluate validates the inputs and runs the full pipeline. An undefined
// IRR is not an error: the result carries IRR 0 and IRRDefined false.
func Evaluate(site Site, p Params, opts Options) (Result, error) {
	if err := Validate(site, p); err != nil {
		return Result{}, err
	}
	if err := ValidateOptions(opts); err != nil {
		return Result{}, err
	}
	return evaluate(site, p, opts), nil
}

// SalesPrice returns the price used for revenue: the site's own price when
// set, otherwise the scenario's.
func SalesPrice(site Site, p Params) float64 {
	if site.SalesUnitPrice > 0 {
		return site.SalesUnitPrice
	}
	return p.SalesUnitPrice
}

func evaluate(site Site, p Params, opts Options) Result {
	area := SiteArea(site, opts)
	costs := ComputeCosts(area.GFA, p, site.Floors, site.BasementLevels, opts)
	price := SalesPrice(site, p)
	revenue := ComputeRevenue(area.GFA, price, area.SitePing, site.LandUnitPrice, site.ParkingUnits, opts)
	dist := ComputeDistribution(revenue.Total, costs.Total, opts)

	res := Result{
		Site:           site,
		Params:         p,
		SalesUnitPrice: price,
		Area:           area,
		Costs:          costs,
		Revenue:        revenue,
		Distribution:   dist,
		CashFlows:      BuildCashFlows(costs.Total, costs.PeriodMonths, revenue.Total, opts),
		Profit:         revenue.Total - costs.Total,
	}
	if revenue.Total != 0 {
		res.ProfitMargin = res.Profit / revenue.Total * 100
	}

	irr, err := DeveloperIRR(costs.Total, costs.PeriodMonths, revenue.Total, opts)
	res.IRR = irr
	res.IRRDefined = err == nil
	res.Feasible = res.IRRDefined && opts.IsFeasible(res.IRR, dist.LandlordPercent())
	return res
}
