package scenario

import (
	"sort"

	"github.com/agbru/renewcalc/internal/feasibility"
)

// Case is a documented renewal project used to validate the model.
type Case struct {
	Key          string  `json:"key" yaml:"key"`
	Location     string  `json:"location" yaml:"location"`
	AreaM2       float64 `json:"area_m2" yaml:"area_m2"`
	LegalFAR     float64 `json:"legal_far" yaml:"legal_far"`
	BuildingType string  `json:"building_type" yaml:"building_type"`
	Floors       int     `json:"floors" yaml:"floors"`
	Owners       int     `json:"owners" yaml:"owners"`
	BuildingAge  int     `json:"building_age" yaml:"building_age"`
	SalesPrice   float64 `json:"sales_price" yaml:"sales_price"`
	CostPrice    float64 `json:"cost_price" yaml:"cost_price"`
}

// Case assumptions shared by every validation case.
const (
	caseBonus          = 1.5
	caseBasementLevels = 2
	caseLandUnitPrice  = 30
)

var cases = map[string]Case{
	"luzhou": {
		Key:          "luzhou",
		Location:     "新北市蘆洲區",
		AreaM2:       800,
		LegalFAR:     200,
		BuildingType: "老舊公寓",
		Floors:       5,
		Owners:       15,
		BuildingAge:  42,
		SalesPrice:   65,
		CostPrice:    24,
	},
	"sanchong": {
		Key:          "sanchong",
		Location:     "新北市三重區",
		AreaM2:       1200,
		LegalFAR:     300,
		BuildingType: "集合住宅",
		Floors:       12,
		Owners:       28,
		BuildingAge:  38,
		SalesPrice:   68,
		CostPrice:    25,
	},
}

// CaseKeys returns the validation case keys in sorted order.
func CaseKeys() []string {
	keys := make([]string, 0, len(cases))
	for k := range cases {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// GetCase returns the validation case registered under key.
func GetCase(key string) (Case, bool) {
	c, ok := cases[key]
	return c, ok
}

// Site returns the site the case is evaluated on.
func (c Case) Site() feasibility.Site {
	return feasibility.Site{
		AreaM2:                c.AreaM2,
		Floors:                c.Floors,
		BasementLevels:        caseBasementLevels,
		LegalFAR:              c.LegalFAR,
		BonusMultiplier:       caseBonus,
		OriginalFARMultiplier: 1,
		LandUnitPrice:         caseLandUnitPrice,
		SalesUnitPrice:        c.SalesPrice,
	}
}

// Params returns the scenario the case is evaluated under.
func (c Case) Params() feasibility.Params {
	return feasibility.Params{
		Name:                  "案例",
		ConstructionUnitPrice: c.CostPrice,
		SalesUnitPrice:        c.SalesPrice,
		ManagementFeeRate:     0.20,
		RiskFeeRate:           0.12,
		LoanRatio:             0.60,
		InterestRate:          0.03,
	}
}

// CaseResult is a case with its evaluation.
type CaseResult struct {
	Case   Case               `json:"case" yaml:"case"`
	Result feasibility.Result `json:"result" yaml:"result"`
}

// EvaluateCase runs the engine on a validation case.
func EvaluateCase(c Case, opts feasibility.Options) (CaseResult, error) {
	res, err := feasibility.Evaluate(c.Site(), c.Params(), opts)
	if err != nil {
		return CaseResult{}, err
	}
	return CaseResult{Case: c, Result: res}, nil
}
