package feasibility

// Revenue is the development value of a project, in 萬.
type Revenue struct {
	Sales float64 `json:"sales" yaml:"sales"`
	// LandValue is the pre-renewal land value. It is informational and not
	// part of Total.
	LandValue float64 `json:"land_value" yaml:"land_value"`
	Parking   float64 `json:"parking" yaml:"parking"`
	Total     float64 `json:"total" yaml:"total"`
}

// ComputeRevenue values gfa 坪 sold at salesPrice plus parking spaces.
func ComputeRevenue(gfa, salesPrice, sitePing, landUnitPrice float64, parkingUnits int, opts Options) Revenue {
	sales := gfa * salesPrice
	parking := float64(parkingUnits) * opts.ParkingUnitPrice
	return Revenue{
		Sales:     sales,
		LandValue: sitePing * landUnitPrice,
		Parking:   parking,
		Total:     sales + parking,
	}
}
