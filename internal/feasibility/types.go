package feasibility

// Site describes the land, zoning and local market of a renewal project.
type Site struct {
	// AreaM2 is the site area in m².
	AreaM2 float64 `json:"area_m2" yaml:"area_m2"`
	// Floors is the number of above-ground floors of the new building.
	Floors int `json:"floors" yaml:"floors"`
	// BasementLevels is the number of basement levels.
	BasementLevels int `json:"basement_levels" yaml:"basement_levels"`
	// LegalFAR is the zoning floor-area ratio in percent.
	LegalFAR float64 `json:"legal_far" yaml:"legal_far"`
	// BonusMultiplier is the disaster-prevention FAR bonus (1.0 to 2.0).
	BonusMultiplier float64 `json:"bonus_multiplier" yaml:"bonus_multiplier"`
	// UseOriginalFAR selects the existing building's FAR as the base.
	UseOriginalFAR bool `json:"use_original_far" yaml:"use_original_far"`
	// OriginalFARMultiplier is the existing FAR relative to the legal FAR.
	OriginalFARMultiplier float64 `json:"original_far_multiplier" yaml:"original_far_multiplier"`
	// LandUnitPrice is the announced land value in 萬/坪.
	LandUnitPrice float64 `json:"land_unit_price" yaml:"land_unit_price"`
	// SalesUnitPrice is the expected pre-sale price in 萬/坪. Zero means
	// the scenario's own sales price is used.
	SalesUnitPrice float64 `json:"sales_unit_price,omitempty" yaml:"sales_unit_price,omitempty"`
	// ParkingUnits is the number of parking spaces for sale.
	ParkingUnits int `json:"parking_units,omitempty" yaml:"parking_units,omitempty"`
}

// DefaultSite returns the default site used when no input is given.
func DefaultSite() Site {
	return Site{
		AreaM2:                1000,
		Floors:                12,
		BasementLevels:        2,
		LegalFAR:              200,
		BonusMultiplier:       1.5,
		OriginalFARMultiplier: 1.4,
		LandUnitPrice:         30,
	}
}

// Params are the cost and financing assumptions of a scenario.
type Params struct {
	// Name is a human-readable label.
	Name string `json:"name" yaml:"name"`
	// ConstructionUnitPrice is the building cost in 萬/坪.
	ConstructionUnitPrice float64 `json:"construction_unit_price" yaml:"construction_unit_price"`
	// SalesUnitPrice is the scenario's pre-sale price in 萬/坪.
	SalesUnitPrice float64 `json:"sales_unit_price" yaml:"sales_unit_price"`
	// ManagementFeeRate applies to demolition plus construction.
	ManagementFeeRate float64 `json:"management_fee_rate" yaml:"management_fee_rate"`
	// RiskFeeRate applies to the pre-interest cost base.
	RiskFeeRate float64 `json:"risk_fee_rate" yaml:"risk_fee_rate"`
	// LoanRatio is the financed share of the pre-interest cost base.
	LoanRatio float64 `json:"loan_ratio" yaml:"loan_ratio"`
	// InterestRate is the annual loan rate.
	InterestRate float64 `json:"interest_rate" yaml:"interest_rate"`
}

// Options holds the engine constants. The zero value is not usable; start
// from DefaultOptions.
type Options struct {
	SquareMetresPerPing  float64 `json:"square_metres_per_ping" yaml:"square_metres_per_ping"`
	FloorAreaCoefficient float64 `json:"floor_area_coefficient" yaml:"floor_area_coefficient"`
	DemolitionUnitCost   float64 `json:"demolition_unit_cost" yaml:"demolition_unit_cost"`
	DesignFeeRate        float64 `json:"design_fee_rate" yaml:"design_fee_rate"`
	MiscCostRate         float64 `json:"misc_cost_rate" yaml:"misc_cost_rate"`
	BasementMonths       float64 `json:"basement_months" yaml:"basement_months"`
	FloorMonths          float64 `json:"floor_months" yaml:"floor_months"`
	ParkingUnitPrice     float64 `json:"parking_unit_price" yaml:"parking_unit_price"`
	HoldingYears         int     `json:"holding_years" yaml:"holding_years"`
	OperatingCostRate    float64 `json:"operating_cost_rate" yaml:"operating_cost_rate"`
	OwnerProfitShare     float64 `json:"owner_profit_share" yaml:"owner_profit_share"`
	AverageUnitSize      float64 `json:"average_unit_size" yaml:"average_unit_size"`
	TargetIRR            float64 `json:"target_irr" yaml:"target_irr"`
	TargetLandlordRatio  float64 `json:"target_landlord_ratio" yaml:"target_landlord_ratio"`
}

// DefaultOptions returns the standard engine constants.
func DefaultOptions() Options {
	return Options{
		SquareMetresPerPing:  DefaultSquareMetresPerPing,
		FloorAreaCoefficient: DefaultFloorAreaCoefficient,
		DemolitionUnitCost:   DefaultDemolitionUnitCost,
		DesignFeeRate:        DefaultDesignFeeRate,
		MiscCostRate:         DefaultMiscCostRate,
		BasementMonths:       DefaultBasementMonths,
		FloorMonths:          DefaultFloorMonths,
		ParkingUnitPrice:     DefaultParkingUnitPrice,
		HoldingYears:         DefaultHoldingYears,
		OperatingCostRate:    DefaultOperatingCostRate,
		OwnerProfitShare:     DefaultOwnerProfitShare,
		AverageUnitSize:      DefaultAverageUnitSize,
		TargetIRR:            DefaultTargetIRR,
		TargetLandlordRatio:  DefaultTargetLandlordRatio,
	}
}

// IsFeasible applies the feasibility targets to an IRR and a landlord
// ratio, both in percent.
func (o Options) IsFeasible(irrPct, landlordPct float64) bool {
	return irrPct >= o.TargetIRR && landlordPct >= o.TargetLandlordRatio
}
