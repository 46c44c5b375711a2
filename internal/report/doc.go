// Package report assembles feasibility results into a document that can be
// written as Markdown, plain text, JSON or YAML. Terminal output renders the
// Markdown with glamour; bonus sweeps are charted with asciigraph.
package report
