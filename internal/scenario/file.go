package scenario

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a custom scenario from a YAML file. A missing key defaults
// to "custom".
//
//	key: custom
//	name: 高房價試算
//	construction_unit_price: 18
//	sales_unit_price: 75
//	management_fee_rate: 0.2
//	risk_fee_rate: 0.12
//	loan_ratio: 0.6
//	interest_rate: 0.03
func LoadFile(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("read scenario file: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML scenario document. Unknown fields are rejected.
func Parse(data []byte) (Scenario, error) {
	var s Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return Scenario{}, fmt.Errorf("parse scenario: %w", err)
	}
	if s.Key == "" {
		s.Key = KeyCustom
	}
	s.Key = normalizeKey(s.Key)
	if s.Name == "" {
		s.Name = s.Key
	}
	return s, nil
}

// SaveFile writes s as YAML, creating parent directories as needed.
func SaveFile(path string, s Scenario) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create scenario directory: %w", err)
		}
	}
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode scenario: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write scenario file: %w", err)
	}
	return nil
}
