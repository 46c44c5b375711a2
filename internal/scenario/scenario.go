package scenario

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/agbru/renewcalc/internal/feasibility"
)

// Keys of the built-in scenarios.
const (
	KeyOfficial = "A"
	KeyMarket   = "B"
	KeyCustom   = "custom"
	// KeyAll selects every registered scenario.
	KeyAll = "all"
)

// Scenario is a named set of engine parameters.
type Scenario struct {
	Key         string `json:"key" yaml:"key"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	feasibility.Params `yaml:",inline"`
}

// Label returns the display label, e.g. "情境A - 官方基準".
func (s Scenario) Label() string {
	switch s.Key {
	case KeyOfficial, KeyMarket:
		return fmt.Sprintf("情境%s - %s", s.Key, s.Name)
	}
	if s.Name == "" {
		return s.Key
	}
	return s.Name
}

// Official is scenario A, the version filed with the authorities using the
// official cost allowances.
func Official() Scenario {
	return Scenario{
		Key:         KeyOfficial,
		Description: "計畫向政府申報版本，採用官方提列基準",
		Params: feasibility.Params{
			Name:                  "官方基準",
			ConstructionUnitPrice: 9.98,
			SalesUnitPrice:        60,
			ManagementFeeRate:     0.43,
			RiskFeeRate:           0.12,
			LoanRatio:             0.50,
			InterestRate:          0.025,
		},
	}
}

// Market is scenario B, the developer's own estimate at market prices.
func Market() Scenario {
	return Scenario{
		Key:         KeyMarket,
		Description: "實施者真實財務評估版本，反映市場實況",
		Params: feasibility.Params{
			Name:                  "市場實況",
			ConstructionUnitPrice: 24.0,
			SalesUnitPrice:        68,
			ManagementFeeRate:     0.18,
			RiskFeeRate:           0.12,
			LoanRatio:             0.60,
			InterestRate:          0.035,
		},
	}
}

// Custom builds a custom scenario from explicit parameters.
func Custom(p feasibility.Params) Scenario {
	if p.Name == "" {
		p.Name = "自訂參數"
	}
	return Scenario{Key: KeyCustom, Params: p}
}

// DefaultSitePrice is the site sales price offered for a scenario key when
// the user gives none: 65 萬/坪 under the market view, 60 otherwise.
func DefaultSitePrice(key string) float64 {
	if normalizeKey(key) == KeyMarket {
		return 65
	}
	return 60
}

// Registry is a concurrency-safe set of scenarios keyed by Scenario.Key.
type Registry struct {
	mu        sync.RWMutex
	scenarios map[string]Scenario
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{scenarios: make(map[string]Scenario)}
}

// NewDefaultRegistry returns a registry holding scenarios A and B.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register(Official())
	_ = r.Register(Market())
	return r
}

// Register adds or replaces a scenario after validating its parameters.
func (r *Registry) Register(s Scenario) error {
	s.Key = normalizeKey(s.Key)
	if s.Key == "" || s.Key == KeyAll {
		return fmt.Errorf("invalid scenario key %q", s.Key)
	}
	if err := feasibility.ValidateParams(s.Params); err != nil {
		return fmt.Errorf("scenario %s: %w", s.Key, err)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.scenarios[s.Key] = s
	return nil
}

// Get returns the scenario registered under key.
func (r *Registry) Get(key string) (Scenario, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.scenarios[normalizeKey(key)]
	return s, ok
}

// Resolve returns the scenario for key, falling back to scenario A when the
// key is unknown. The boolean reports whether the key was found.
func (r *Registry) Resolve(key string) (Scenario, bool) {
	if s, ok := r.Get(key); ok {
		return s, true
	}
	if s, ok := r.Get(KeyOfficial); ok {
		return s, false
	}
	return Official(), false
}

// List returns the registered keys in sorted order.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	keys := make([]string, 0, len(r.scenarios))
	for k := range r.scenarios {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// All returns the registered scenarios ordered by key.
func (r *Registry) All() []Scenario {
	keys := r.List()
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Scenario, 0, len(keys))
	for _, k := range keys {
		out = append(out, r.scenarios[k])
	}
	return out
}

// normalizeKey maps aliases onto canonical keys: "a" and "official" to A,
// "b" and "market" to B, "自訂" to custom.
func normalizeKey(key string) string {
	k := strings.TrimSpace(key)
	switch strings.ToLower(k) {
	case "a", "official", "官方基準":
		return KeyOfficial
	case "b", "market", "市場實況":
		return KeyMarket
	case "custom", "自訂":
		return KeyCustom
	}
	return k
}

// IsCustomKey reports whether key selects the custom scenario.
func IsCustomKey(key string) bool { return normalizeKey(key) == KeyCustom }

// NormalizeKey maps a key alias onto its canonical key.
func NormalizeKey(key string) string { return normalizeKey(key) }
