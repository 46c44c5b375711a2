package feasibility

import (
	apperrors "github.com/agbru/renewcalc/internal/errors"
)

// BonusRow is one line of the bonus sweep.
type BonusRow struct {
	// BonusPct is the FAR bonus in percent (0, 5, ... 50).
	BonusPct   int     `json:"bonus_pct" yaml:"bonus_pct"`
	Multiplier float64 `json:"multiplier" yaml:"multiplier"`
	GFA        float64 `json:"gfa" yaml:"gfa"`
	TotalValue float64 `json:"total_value" yaml:"total_value"`
	TotalCost  float64 `json:"total_cost" yaml:"total_cost"`
	// OwnerShare is the landlords' share of profit in 萬.
	OwnerShare float64 `json:"owner_share" yaml:"owner_share"`
	// OwnerShareRate is OwnerShare / TotalValue in percent.
	OwnerShareRate float64 `json:"owner_share_rate" yaml:"owner_share_rate"`
	// DeveloperIRR is in percent; 0 when IRRDefined is false.
	DeveloperIRR float64 `json:"developer_irr" yaml:"developer_irr"`
	IRRDefined   bool    `json:"irr_defined" yaml:"irr_defined"`
}

// Default sweep range, in percent.
const (
	DefaultBonusFrom = 0
	DefaultBonusTo   = 50
	DefaultBonusStep = 5
)

// BonusSweep evaluates the landlord/developer split for each FAR bonus from
// fromPct to toPct inclusive. The sweep starts from the legal FAR and values
// the floor area at the scenario's own sales price.
func BonusSweep(site Site, p Params, opts Options, fromPct, toPct, stepPct int) ([]BonusRow, error) {
	if err := ValidateSweepRange(fromPct, toPct, stepPct); err != nil {
		return nil, err
	}
	if err := Validate(site, p); err != nil {
		return nil, err
	}

	rows := make([]BonusRow, 0, (toPct-fromPct)/stepPct+1)
	for pct := fromPct; pct <= toPct; pct += stepPct {
		rows = append(rows, BonusRowAt(site, p, opts, pct))
	}
	return rows, nil
}

// BonusRowAt evaluates a single bonus percentage.
func BonusRowAt(site Site, p Params, opts Options, bonusPct int) BonusRow {
	mult := 1 + float64(bonusPct)/100
	area := ComputeArea(site.AreaM2, site.LegalFAR, mult, opts)
	costs := ComputeCosts(area.GFA, p, site.Floors, site.BasementLevels, opts)
	value := area.GFA * p.SalesUnitPrice
	dist := ComputeDistribution(value, costs.Total, opts)

	row := BonusRow{
		BonusPct:   bonusPct,
		Multiplier: mult,
		GFA:        area.GFA,
		TotalValue: value,
		TotalCost:  costs.Total,
		OwnerShare: dist.OwnerShare,
	}
	if value != 0 {
		row.OwnerShareRate = dist.OwnerShare / value * 100
	}
	irr, err := DeveloperIRR(costs.Total, costs.PeriodMonths, value, opts)
	row.DeveloperIRR = irr
	row.IRRDefined = err == nil
	return row
}

// ValidateSweepRange checks a bonus sweep range.
func ValidateSweepRange(fromPct, toPct, stepPct int) error {
	switch {
	case stepPct <= 0:
		return apperrors.NewValidationError("bonus_step", "must be positive, got %d", stepPct)
	case fromPct < 0:
		return apperrors.NewValidationError("bonus_from", "must not be negative, got %d", fromPct)
	case toPct < fromPct:
		return apperrors.NewValidationError("bonus_to", "must be at least bonus_from (%d), got %d", fromPct, toPct)
	case toPct > 100:
		return apperrors.NewValidationError("bonus_to", "must not exceed 100, got %d", toPct)
	}
	return nil
}
