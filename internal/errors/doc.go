// Package apperrors defines structured application error types for the
// renewal feasibility calculator, allowing a clear distinction between
// configuration, validation and calculation failures while carrying the
// underlying cause.
//
// Error Wrapping Guidelines:
// This package follows Go's error wrapping conventions using fmt.Errorf with %w.
// Wrapping types implement Unwrap() to support errors.Is() and errors.As().
package apperrors
