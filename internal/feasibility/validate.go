package feasibility

import (
	"errors"
	"math"

	apperrors "github.com/agbru/renewcalc/internal/errors"
)

// Validate checks site and scenario inputs against the accepted ranges. All
// violations are reported, joined; each one is an apperrors.ValidationError.
func Validate(site Site, p Params) error {
	var errs []error
	errs = append(errs, ValidateSite(site))
	errs = append(errs, ValidateParams(p))
	return errors.Join(errs...)
}

// ValidateSite checks the site inputs.
func ValidateSite(site Site) error {
	var errs []error
	check := func(field string, v, lo, hi float64) {
		if math.IsNaN(v) || v < lo || v > hi {
			errs = append(errs, apperrors.NewValidationError(field, "must be between %g and %g, got %g", lo, hi, v))
		}
	}
	check("area_m2", site.AreaM2, MinSiteArea, MaxSiteArea)
	check("floors", float64(site.Floors), MinFloors, MaxFloors)
	check("basement_levels", float64(site.BasementLevels), MinBasement, MaxBasement)
	check("legal_far", site.LegalFAR, MinLegalFAR, MaxLegalFAR)
	check("bonus_multiplier", site.BonusMultiplier, MinBonus, MaxBonus)
	if site.UseOriginalFAR {
		check("original_far_multiplier", site.OriginalFARMultiplier, MinOriginalFAR, MaxOriginalFAR)
	}
	check("land_unit_price", site.LandUnitPrice, MinLandUnitPrice, MaxLandUnitPrice)
	if site.SalesUnitPrice != 0 {
		check("sales_unit_price", site.SalesUnitPrice, MinSalesUnitPrice, MaxSalesUnitPrice)
	}
	if site.ParkingUnits < 0 {
		errs = append(errs, apperrors.NewValidationError("parking_units", "must not be negative, got %d", site.ParkingUnits))
	}
	return errors.Join(errs...)
}

// ValidateParams checks the scenario assumptions.
func ValidateParams(p Params) error {
	var errs []error
	positive := func(field string, v float64) {
		if math.IsNaN(v) || math.IsInf(v, 0) || v <= 0 {
			errs = append(errs, apperrors.NewValidationError(field, "must be positive, got %g", v))
		}
	}
	rate := func(field string, v float64) {
		if math.IsNaN(v) || v < 0 || v > 1 {
			errs = append(errs, apperrors.NewValidationError(field, "must be a fraction between 0 and 1, got %g", v))
		}
	}
	positive("construction_unit_price", p.ConstructionUnitPrice)
	positive("sales_unit_price", p.SalesUnitPrice)
	rate("management_fee_rate", p.ManagementFeeRate)
	rate("risk_fee_rate", p.RiskFeeRate)
	rate("loan_ratio", p.LoanRatio)
	rate("interest_rate", p.InterestRate)
	return errors.Join(errs...)
}

// ValidateOptions checks engine constants loaded from configuration.
func ValidateOptions(o Options) error {
	var errs []error
	positive := func(field string, v float64) {
		if math.IsNaN(v) || v <= 0 {
			errs = append(errs, apperrors.NewValidationError(field, "must be positive, got %g", v))
		}
	}
	nonNegative := func(field string, v float64) {
		if math.IsNaN(v) || v < 0 {
			errs = append(errs, apperrors.NewValidationError(field, "must not be negative, got %g", v))
		}
	}
	positive("square_metres_per_ping", o.SquareMetresPerPing)
	positive("floor_area_coefficient", o.FloorAreaCoefficient)
	positive("average_unit_size", o.AverageUnitSize)
	nonNegative("demolition_unit_cost", o.DemolitionUnitCost)
	nonNegative("design_fee_rate", o.DesignFeeRate)
	nonNegative("misc_cost_rate", o.MiscCostRate)
	nonNegative("basement_months", o.BasementMonths)
	nonNegative("floor_months", o.FloorMonths)
	nonNegative("parking_unit_price", o.ParkingUnitPrice)
	nonNegative("operating_cost_rate", o.OperatingCostRate)
	nonNegative("owner_profit_share", o.OwnerProfitShare)
	if math.IsNaN(o.TargetIRR) || math.IsInf(o.TargetIRR, 0) || o.TargetIRR < IRRFloor*100 {
		errs = append(errs, apperrors.NewValidationError("target_irr", "must be at least %g%%, got %g", IRRFloor*100, o.TargetIRR))
	}
	if math.IsNaN(o.TargetLandlordRatio) || o.TargetLandlordRatio < 0 || o.TargetLandlordRatio > 100 {
		errs = append(errs, apperrors.NewValidationError("target_landlord_ratio", "must be between 0 and 100, got %g", o.TargetLandlordRatio))
	}
	if o.HoldingYears < 2 {
		errs = append(errs, apperrors.NewValidationError("holding_years", "must be at least 2, got %d", o.HoldingYears))
	}
	return errors.Join(errs...)
}
