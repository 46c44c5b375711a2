package feasibility

// Engine defaults. Each one can be overridden through Options.
const (
	// DefaultSquareMetresPerPing converts m² into 坪.
	DefaultSquareMetresPerPing = 3.3
	// DefaultFloorAreaCoefficient scales legal floor area into gross floor
	// area (common areas, balconies, basements).
	DefaultFloorAreaCoefficient = 1.8
	// DefaultDemolitionUnitCost is the demolition cost in 萬 per 坪 of floor
	// area before the coefficient is applied.
	DefaultDemolitionUnitCost = 8.0
	// DefaultDesignFeeRate is the design fee as a share of construction cost.
	DefaultDesignFeeRate = 0.05
	// DefaultMiscCostRate covers rights-transformation fees and taxes as a
	// share of the pre-interest cost base.
	DefaultMiscCostRate = 0.08
	// DefaultBasementMonths is the construction time per basement level.
	DefaultBasementMonths = 3.0
	// DefaultFloorMonths is the construction time per above-ground floor.
	DefaultFloorMonths = 1.5
	// DefaultParkingUnitPrice is the sale price of one parking space in 萬.
	DefaultParkingUnitPrice = 80.0
	// DefaultHoldingYears is the length of the cash-flow series.
	DefaultHoldingYears = 4
	// DefaultOperatingCostRate is the share of total cost deducted from
	// revenue in each post-construction year.
	DefaultOperatingCostRate = 0.10
	// DefaultOwnerProfitShare is the landlord share of profit used by the
	// bonus sweep.
	DefaultOwnerProfitShare = 0.5
	// DefaultAverageUnitSize is the floor area of one household in 坪.
	DefaultAverageUnitSize = 30.0
	// DefaultTargetIRR is the minimum developer IRR in percent.
	DefaultTargetIRR = 12.0
	// DefaultTargetLandlordRatio is the minimum landlord share in percent.
	DefaultTargetLandlordRatio = 40.0
)

// IRRFloor is the lowest IRR reported, as a fraction.
const IRRFloor = -0.99

// Sensitivity grid fixed rates and clamps.
const (
	SensitivityManagementFeeRate = 0.25
	SensitivityRiskFeeRate       = 0.12
	SensitivityLoanRatio         = 0.55
	SensitivityInterestRate      = 0.03

	// SensitivityIRRLimit bounds grid IRR values to ±50%.
	SensitivityIRRLimit = 50.0
)

// Input ranges accepted by Validate.
const (
	MinSiteArea       = 100.0
	MaxSiteArea       = 10000.0
	MinFloors         = 1
	MaxFloors         = 30
	MinBasement       = 0
	MaxBasement       = 5
	MinLegalFAR       = 100.0
	MaxLegalFAR       = 500.0
	MinBonus          = 1.0
	MaxBonus          = 2.0
	MinOriginalFAR    = 1.0
	MaxOriginalFAR    = 2.0
	MinLandUnitPrice  = 5.0
	MaxLandUnitPrice  = 100.0
	MinSalesUnitPrice = 20.0
	MaxSalesUnitPrice = 150.0
)
