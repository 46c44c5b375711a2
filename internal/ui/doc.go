// Package ui provides theme and color support for the calculator's terminal
// output. It defines color schemes and ANSI escape code functions for
// consistent styling across the CLI, the REPL and rendered reports.
//
// This package is a shared dependency for packages that need color output,
// keeping the feasibility engine free of presentation concerns.
package ui
