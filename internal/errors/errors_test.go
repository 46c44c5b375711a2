package apperrors

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestConfigError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name        string
		err         error
		expected    string
		checkTypeAs bool
	}{
		{
			name:     "Error returns message",
			err:      ConfigError{Message: "unknown scenario"},
			expected: "unknown scenario",
		},
		{
			name:     "NewConfigError creates formatted error",
			err:      NewConfigError("unknown scenario %q (available: %s)", "Z", "A, B"),
			expected: `unknown scenario "Z" (available: A, B)`,
		},
		{
			name:        "ConfigError type assertion through wrapping",
			err:         fmt.Errorf("loading: %w", NewConfigError("bad file")),
			expected:    "loading: bad file",
			checkTypeAs: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.err.Error() != tt.expected {
				t.Errorf("expected %q, got %q", tt.expected, tt.err.Error())
			}
			if tt.checkTypeAs {
				var configErr ConfigError
				if !errors.As(tt.err, &configErr) {
					t.Error("expected error to be ConfigError type")
				}
			}
		})
	}
}

func TestCalculationError(t *testing.T) {
	t.Parallel()
	cause := errors.New("no sign change in cash flows")

	plain := CalculationError{Cause: cause}
	if plain.Error() != cause.Error() {
		t.Errorf("Error() = %q, want %q", plain.Error(), cause.Error())
	}

	named := CalculationError{Scenario: "B", Cause: cause}
	if !strings.Contains(named.Error(), "scenario B") {
		t.Errorf("Error() = %q, want scenario prefix", named.Error())
	}
	if !errors.Is(named, cause) {
		t.Error("errors.Is should find the cause")
	}

	ctxErr := CalculationError{Cause: context.Canceled}
	if !IsContextError(ctxErr) {
		t.Error("wrapped context.Canceled should be a context error")
	}
}

func TestValidationError(t *testing.T) {
	t.Parallel()
	err := NewValidationError("floors", "must be between %d and %d, got %d", 1, 30, 45)
	want := `validation error for "floors": must be between 1 and 30, got 45`
	if err.Error() != want {
		t.Errorf("got %q, want %q", err.Error(), want)
	}
	var ve ValidationError
	if !errors.As(err, &ve) || ve.Field != "floors" {
		t.Errorf("errors.As failed or wrong field: %+v", ve)
	}
}

func TestTimeoutAndInfeasibleMessages(t *testing.T) {
	t.Parallel()
	te := TimeoutError{Operation: "sensitivity", Limit: 2 * time.Second}
	if te.Error() != `operation "sensitivity" timed out after 2s` {
		t.Errorf("unexpected timeout message %q", te.Error())
	}
	ie := InfeasibleError{Scenario: "A", IRR: 3.5, LandlordRatio: 22}
	if !strings.Contains(ie.Error(), "IRR 3.50%") || !strings.Contains(ie.Error(), "22.0%") {
		t.Errorf("unexpected infeasible message %q", ie.Error())
	}
}

func TestWrapError(t *testing.T) {
	t.Parallel()
	if WrapError(nil, "ctx") != nil {
		t.Error("WrapError(nil) should return nil")
	}
	base := errors.New("root")
	wrapped := WrapError(base, "reading %s", "site.yaml")
	if wrapped.Error() != "reading site.yaml: root" {
		t.Errorf("got %q", wrapped.Error())
	}
	if !errors.Is(wrapped, base) {
		t.Error("wrapped error should unwrap to base")
	}
}

func TestExitCodeFor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, ExitSuccess},
		{"deadline", fmt.Errorf("grid: %w", context.DeadlineExceeded), ExitErrorTimeout},
		{"timeout type", TimeoutError{Operation: "x", Limit: time.Second}, ExitErrorTimeout},
		{"canceled", context.Canceled, ExitErrorCanceled},
		{"config", NewConfigError("bad"), ExitErrorConfig},
		{"validation", NewValidationError("area", "too small"), ExitErrorConfig},
		{"infeasible", InfeasibleError{Scenario: "A"}, ExitErrorInfeasible},
		{"generic", errors.New("boom"), ExitErrorGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := ExitCodeFor(tt.err); got != tt.want {
				t.Errorf("ExitCodeFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

type stubColors struct{}

func (stubColors) Red() string    { return "<r>" }
func (stubColors) Yellow() string { return "<y>" }
func (stubColors) Reset() string  { return "</>" }

func TestHandleCalculationError(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		err      error
		colors   ColorProvider
		wantCode int
		contains string
	}{
		{"nil error", nil, nil, ExitSuccess, ""},
		{"timeout", context.DeadlineExceeded, stubColors{}, ExitErrorTimeout, "<y>Evaluation timed out after 5ms.</>"},
		{"canceled", context.Canceled, nil, ExitErrorCanceled, "Evaluation canceled"},
		{"validation", NewValidationError("legal_far", "out of range"), nil, ExitErrorConfig, "Invalid input"},
		{"generic", errors.New("boom"), stubColors{}, ExitErrorGeneric, "<r>Evaluation failed after 5ms: boom</>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			code := HandleCalculationError(tt.err, 5*time.Millisecond, &buf, tt.colors)
			if code != tt.wantCode {
				t.Errorf("code = %d, want %d", code, tt.wantCode)
			}
			if tt.contains == "" && buf.Len() != 0 {
				t.Errorf("expected no output, got %q", buf.String())
			}
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output %q does not contain %q", buf.String(), tt.contains)
			}
		})
	}
}
