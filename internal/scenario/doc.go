// Package scenario holds the named cost and financing assumptions used by
// the engine: the official baseline (A), the market view (B), user-defined
// custom scenarios loaded from YAML, and the worked validation cases for
// 新北市蘆洲區 and 新北市三重區.
//
// A Registry maps scenario keys to Scenario values. The default registry
// carries A and B; custom scenarios are registered at runtime. Lookups for
// an unknown key fall back to scenario A.
package scenario
