package feasibility

import "fmt"

func ExampleEvaluate() {
	p := Params{
		Name:                  "官方基準",
		ConstructionUnitPrice: 9.98,
		SalesUnitPrice:        60,
		ManagementFeeRate:     0.43,
		RiskFeeRate:           0.12,
		LoanRatio:             0.50,
		InterestRate:          0.025,
	}
	res, err := Evaluate(DefaultSite(), p, DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("GFA %.1f 坪\n", res.Area.GFA)
	fmt.Printf("cost %.0f 萬, value %.0f 萬\n", res.Costs.Total, res.Revenue.Total)
	fmt.Printf("landlord %.1f%%, IRR %.1f%%, feasible %v\n", res.LandlordPercent(), res.IRR, res.Feasible)
	// Output:
	// GFA 1636.4 坪
	// cost 40064 萬, value 98182 萬
	// landlord 59.2%, IRR 68.7%, feasible true
}

func ExampleIRR() {
	rate, err := IRR([]float64{-100, 0, 121})
	if err != nil {
		fmt.Println(err)
		return
	}
	fmt.Printf("%.2f%%\n", rate*100)

	_, err = IRR([]float64{-100, -20})
	fmt.Println(err)
	// Output:
	// 10.00%
	// irr undefined: cash flows have no sign change
}
