// Package orchestration coordinates concurrent evaluation of scenarios and
// sensitivity grids and aggregates the results for comparison. It decouples
// the engine from presentation via the ProgressReporter and ResultPresenter
// interfaces.
package orchestration
