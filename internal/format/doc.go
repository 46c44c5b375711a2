// Package format holds the pure string formatting helpers shared by the CLI,
// the REPL and the report writers: amounts in 萬 and 億, floor areas in 坪,
// percentages, durations and progress bars.
package format
