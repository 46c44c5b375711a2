// Package metrics derives headline indicators (margins, per-坪 figures,
// break-even price) from a feasibility result.
package metrics
