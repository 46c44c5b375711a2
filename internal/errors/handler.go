package apperrors

import (
	"fmt"
	"io"
	"time"
)

// ColorProvider supplies the ANSI sequences used when printing errors.
// A nil provider prints plain text.
type ColorProvider interface {
	Red() string
	Yellow() string
	Reset() string
}

// HandleCalculationError prints a user-facing description of err and returns
// the matching exit code. A nil err returns ExitSuccess without output.
//
// Parameters:
//   - err: The error returned by the evaluation.
//   - duration: How long the evaluation ran before failing (0 if unknown).
//   - out: The writer for the message.
//   - colors: The color provider, may be nil.
//
// Returns:
//   - int: The exit code for the error class.
func HandleCalculationError(err error, duration time.Duration, out io.Writer, colors ColorProvider) int {
	if err == nil {
		return ExitSuccess
	}
	red, yellow, reset := "", "", ""
	if colors != nil {
		red, yellow, reset = colors.Red(), colors.Yellow(), colors.Reset()
	}

	suffix := ""
	if duration > 0 {
		suffix = fmt.Sprintf(" after %s", duration.Round(time.Microsecond))
	}

	code := ExitCodeFor(err)
	switch code {
	case ExitErrorTimeout:
		fmt.Fprintf(out, "%sEvaluation timed out%s.%s\n", yellow, suffix, reset)
	case ExitErrorCanceled:
		fmt.Fprintf(out, "%sEvaluation canceled%s.%s\n", yellow, suffix, reset)
	case ExitErrorConfig:
		fmt.Fprintf(out, "%sInvalid input: %v%s\n", red, err, reset)
	default:
		fmt.Fprintf(out, "%sEvaluation failed%s: %v%s\n", red, suffix, err, reset)
	}
	return code
}
