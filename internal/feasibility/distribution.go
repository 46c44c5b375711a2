package feasibility

// Distribution splits the post-renewal value between landlords and the
// developer. The developer recovers the common burden (total cost) and the
// landlords receive the remainder.
type Distribution struct {
	// TotalValue is the post-renewal value in 萬.
	TotalValue float64 `json:"total_value" yaml:"total_value"`
	// CommonBurden is the shared development cost in 萬.
	CommonBurden float64 `json:"common_burden" yaml:"common_burden"`
	// BurdenRatio is CommonBurden / TotalValue.
	BurdenRatio float64 `json:"burden_ratio" yaml:"burden_ratio"`
	// LandlordRatio is the landlords' fraction of value, in [0, 1].
	LandlordRatio  float64 `json:"landlord_ratio" yaml:"landlord_ratio"`
	LandlordValue  float64 `json:"landlord_value" yaml:"landlord_value"`
	DeveloperValue float64 `json:"developer_value" yaml:"developer_value"`
	// OwnerShare is the landlords' share of profit under the profit-split
	// convention used by the bonus sweep.
	OwnerShare float64 `json:"owner_share" yaml:"owner_share"`
}

// ComputeDistribution splits totalValue given totalCost.
func ComputeDistribution(totalValue, totalCost float64, opts Options) Distribution {
	d := Distribution{
		TotalValue:   totalValue,
		CommonBurden: totalCost,
		OwnerShare:   (totalValue - totalCost) * opts.OwnerProfitShare,
	}
	if totalValue > 0 {
		d.BurdenRatio = totalCost / totalValue
		d.LandlordRatio = clamp((totalValue-totalCost)/totalValue, 0, 1)
	}
	d.LandlordValue = totalValue * d.LandlordRatio
	d.DeveloperValue = totalValue - d.LandlordValue
	return d
}

// LandlordPercent returns LandlordRatio in percent.
func (d Distribution) LandlordPercent() float64 { return d.LandlordRatio * 100 }

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
