// Package feasibility implements the financial feasibility engine for
// disaster-prevention urban-renewal projects.
//
// The engine is a fixed pipeline of pure functions:
//
//	area -> costs -> revenue -> distribution -> IRR
//
// Site inputs are given in m² and converted to 坪 (ping). Money is expressed
// in 萬 NTD and unit prices in 萬/坪. Floor-area ratios are entered as
// percentages (200 means 200%) and converted to ratios before use.
//
// Every function in this package is free of side effects and safe for
// concurrent use. The only recoverable failure inside the pipeline is an
// undefined IRR (cash flows with no sign change or no root); Evaluate then
// reports an IRR of 0 with Result.IRRDefined set to false.
//
// On top of the single evaluation the package offers the analyses built on
// it: a bonus-ratio sweep, a sale-price by construction-cost sensitivity
// grid and the break-even boundary for the feasibility targets.
package feasibility
