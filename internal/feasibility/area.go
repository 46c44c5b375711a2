package feasibility

// Area is the floor-area derivation for a site.
type Area struct {
	// SiteM2 is the site area in m².
	SiteM2 float64 `json:"site_m2" yaml:"site_m2"`
	// SitePing is the site area in 坪.
	SitePing float64 `json:"site_ping" yaml:"site_ping"`
	// BaseFAR is the FAR before bonus, in percent.
	BaseFAR float64 `json:"base_far" yaml:"base_far"`
	// FARAfterBonus is the FAR after bonus, as a ratio (3.0 means 300%).
	FARAfterBonus float64 `json:"far_after_bonus" yaml:"far_after_bonus"`
	// GFA is the gross floor area in 坪.
	GFA float64 `json:"gfa" yaml:"gfa"`
	// Households is the approximate number of units.
	Households float64 `json:"households" yaml:"households"`
}

// BaseFAR returns the FAR the bonus applies to, in percent: the legal FAR,
// or the existing building's FAR when the site opts into it.
func BaseFAR(site Site) float64 {
	if site.UseOriginalFAR {
		return site.LegalFAR * site.OriginalFARMultiplier
	}
	return site.LegalFAR
}

// ComputeArea derives the site area in 坪 and the gross floor area:
//
//	site 坪 = m² / 3.3
//	FAR after bonus = base FAR / 100 × bonus
//	GFA = site 坪 × FAR after bonus × floor-area coefficient
func ComputeArea(areaM2, baseFARPct, bonus float64, opts Options) Area {
	sitePing := areaM2 / opts.SquareMetresPerPing
	farAfter := baseFARPct / 100 * bonus
	gfa := sitePing * farAfter * opts.FloorAreaCoefficient

	households := 0.0
	if opts.AverageUnitSize > 0 {
		households = gfa / opts.AverageUnitSize
	}
	return Area{
		SiteM2:        areaM2,
		SitePing:      sitePing,
		BaseFAR:       baseFARPct,
		FARAfterBonus: farAfter,
		GFA:           gfa,
		Households:    households,
	}
}

// SiteArea is ComputeArea applied to a Site.
func SiteArea(site Site, opts Options) Area {
	return ComputeArea(site.AreaM2, BaseFAR(site), site.BonusMultiplier, opts)
}
