package report

import (
	"time"

	"github.com/google/uuid"

	"github.com/agbru/renewcalc/internal/feasibility"
	"github.com/agbru/renewcalc/internal/metrics"
	"github.com/agbru/renewcalc/internal/orchestration"
)

// DefaultTitle heads every report unless overridden.
const DefaultTitle = "新北市防災型都市更新權利變換試算報告"

// Disclaimer closes every report.
const Disclaimer = "本報告結果供參考用，不作為投資決策依據。實際試算應由專業估價師評估。"

// ScenarioSection is the report entry for one evaluated scenario.
type ScenarioSection struct {
	Key        string             `json:"key" yaml:"key"`
	Label      string             `json:"label" yaml:"label"`
	Result     feasibility.Result `json:"result" yaml:"result"`
	Indicators metrics.Indicators `json:"indicators" yaml:"indicators"`
	Error      string             `json:"error,omitempty" yaml:"error,omitempty"`
}

// OK reports whether the scenario was evaluated.
func (s ScenarioSection) OK() bool { return s.Error == "" }

// Report is a complete feasibility report.
type Report struct {
	ID          string                       `json:"id" yaml:"id"`
	Title       string                       `json:"title" yaml:"title"`
	GeneratedAt time.Time                    `json:"generated_at" yaml:"generated_at"`
	Site        feasibility.Site             `json:"site" yaml:"site"`
	Options     feasibility.Options          `json:"options" yaml:"options"`
	Selected    string                       `json:"selected,omitempty" yaml:"selected,omitempty"`
	Scenarios   []ScenarioSection            `json:"scenarios" yaml:"scenarios"`
	BonusSweep  []feasibility.BonusRow       `json:"bonus_sweep,omitempty" yaml:"bonus_sweep,omitempty"`
	Sensitivity *feasibility.SensitivityGrid `json:"sensitivity,omitempty" yaml:"sensitivity,omitempty"`
	Boundary    *feasibility.Boundary        `json:"boundary,omitempty" yaml:"boundary,omitempty"`
}

// New builds a report for the scenario results of one site.
func New(site feasibility.Site, opts feasibility.Options, results []orchestration.ScenarioResult) *Report {
	r := &Report{
		ID:          uuid.NewString(),
		Title:       DefaultTitle,
		GeneratedAt: time.Now(),
		Site:        site,
		Options:     opts,
	}
	for _, res := range results {
		sec := ScenarioSection{
			Key:        res.Scenario.Key,
			Label:      res.Scenario.Label(),
			Result:     res.Result,
			Indicators: res.Indicators,
		}
		if res.Err != nil {
			sec.Error = res.Err.Error()
		}
		r.Scenarios = append(r.Scenarios, sec)
	}
	return r
}

// WithBonusSweep attaches a bonus sweep.
func (r *Report) WithBonusSweep(rows []feasibility.BonusRow) *Report {
	r.BonusSweep = rows
	return r
}

// WithSensitivity attaches a sensitivity grid.
func (r *Report) WithSensitivity(grid feasibility.SensitivityGrid) *Report {
	r.Sensitivity = &grid
	return r
}

// WithBoundary attaches break-even prices.
func (r *Report) WithBoundary(b feasibility.Boundary) *Report {
	r.Boundary = &b
	return r
}

// Primary returns the selected scenario section, or the first evaluated one.
func (r *Report) Primary() (ScenarioSection, bool) {
	var first *ScenarioSection
	for i := range r.Scenarios {
		s := &r.Scenarios[i]
		if !s.OK() {
			continue
		}
		if s.Key == r.Selected {
			return *s, true
		}
		if first == nil {
			first = s
		}
	}
	if first == nil {
		return ScenarioSection{}, false
	}
	return *first, true
}
