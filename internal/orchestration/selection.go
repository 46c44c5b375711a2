package orchestration

import "github.com/agbru/renewcalc/internal/scenario"

// GetScenariosToRun determines which scenarios to evaluate for a key. "all"
// selects every registered scenario in sorted key order; any other key
// resolves to a single scenario, falling back to scenario A when unknown.
func GetScenariosToRun(key string, registry *scenario.Registry) []scenario.Scenario {
	if key == scenario.KeyAll {
		return registry.All()
	}
	s, _ := registry.Resolve(key)
	return []scenario.Scenario{s}
}
