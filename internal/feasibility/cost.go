package feasibility

// Costs itemizes the development cost of a project, in 萬.
type Costs struct {
	Demolition   float64 `json:"demolition" yaml:"demolition"`
	Construction float64 `json:"construction" yaml:"construction"`
	Design       float64 `json:"design" yaml:"design"`
	Interest     float64 `json:"interest" yaml:"interest"`
	Risk         float64 `json:"risk" yaml:"risk"`
	Management   float64 `json:"management" yaml:"management"`
	Misc         float64 `json:"misc" yaml:"misc"`
	Total        float64 `json:"total" yaml:"total"`

	// PreInterestBase is demolition + construction + design.
	PreInterestBase float64 `json:"pre_interest_base" yaml:"pre_interest_base"`
	// FinancingAmount is the loan drawn on the pre-interest base.
	FinancingAmount float64 `json:"financing_amount" yaml:"financing_amount"`
	// PeriodMonths is the construction period.
	PeriodMonths float64 `json:"period_months" yaml:"period_months"`
}

// CostItem is one line of the cost table.
type CostItem struct {
	Key    string  `json:"key" yaml:"key"`
	Label  string  `json:"label" yaml:"label"`
	Amount float64 `json:"amount" yaml:"amount"`
	// Share is the fraction of total cost.
	Share float64 `json:"share" yaml:"share"`
}

// Items returns the seven cost lines in display order with their share of
// the total.
func (c Costs) Items() []CostItem {
	items := []CostItem{
		{Key: "demolition", Label: "拆除費用 Demolition", Amount: c.Demolition},
		{Key: "construction", Label: "營建費用 Construction", Amount: c.Construction},
		{Key: "design", Label: "設計費用 Design", Amount: c.Design},
		{Key: "interest", Label: "貸款利息 Interest", Amount: c.Interest},
		{Key: "risk", Label: "風險費用 Risk", Amount: c.Risk},
		{Key: "management", Label: "管理費用 Management", Amount: c.Management},
		{Key: "misc", Label: "其他費用 Misc", Amount: c.Misc},
	}
	if c.Total != 0 {
		for i := range items {
			items[i].Share = items[i].Amount / c.Total
		}
	}
	return items
}

// PeriodYears returns the construction period in years.
func (c Costs) PeriodYears() float64 { return c.PeriodMonths / 12 }

// ConstructionPeriod returns the construction time in months.
func ConstructionPeriod(floors, basementLevels int, opts Options) float64 {
	return float64(basementLevels)*opts.BasementMonths + float64(floors)*opts.FloorMonths
}

// ComputeCosts itemizes the cost of building gfa 坪 under params.
func ComputeCosts(gfa float64, p Params, floors, basementLevels int, opts Options) Costs {
	demolition := gfa / opts.FloorAreaCoefficient * opts.DemolitionUnitCost
	construction := gfa * p.ConstructionUnitPrice
	design := construction * opts.DesignFeeRate
	period := ConstructionPeriod(floors, basementLevels, opts)

	base := demolition + construction + design
	financing := base * p.LoanRatio
	interest := financing * p.InterestRate * (period / 12)
	risk := base * p.RiskFeeRate
	management := (demolition + construction) * p.ManagementFeeRate
	misc := base * opts.MiscCostRate

	return Costs{
		Demolition:      demolition,
		Construction:    construction,
		Design:          design,
		Interest:        interest,
		Risk:            risk,
		Management:      management,
		Misc:            misc,
		Total:           demolition + construction + design + interest + risk + management + misc,
		PreInterestBase: base,
		FinancingAmount: financing,
		PeriodMonths:    period,
	}
}
