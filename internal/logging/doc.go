// Package logging provides a unified logging interface for the renewal
// feasibility calculator. It abstracts the underlying logging implementation,
// allowing consistent logging across components while supporting multiple
// backends (zerolog for the server and watcher, the standard logger in tests).
package logging
