package logging

import (
	"bytes"
	"errors"
	"log"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

func TestFieldHelpers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("scenario", "A"), "scenario", "A"},
		{"Int", Int("floors", 12), "floors", 12},
		{"Uint64", Uint64("cells", 49), "cells", uint64(49)},
		{"Float64", Float64("irr", 12.5), "irr", 12.5},
		{"Bool", Bool("feasible", true), "feasible", true},
		{"Duration", Duration("elapsed", time.Second), "elapsed", time.Second},
		{"Err nil", Err(nil), "error", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if tt.field.Key != tt.key {
				t.Errorf("Key = %q, want %q", tt.field.Key, tt.key)
			}
			if tt.field.Value != tt.value {
				t.Errorf("Value = %v, want %v", tt.field.Value, tt.value)
			}
		})
	}
}

func TestNewLogger_IncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "server")
	logger.Info("listening", String("addr", ":8080"))

	out := buf.String()
	for _, want := range []string{`"component":"server"`, "listening", ":8080", `"level":"info"`} {
		if !strings.Contains(out, want) {
			t.Errorf("output should contain %q, got: %s", want, out)
		}
	}
}

func TestNewDefaultLogger(t *testing.T) {
	if NewDefaultLogger() == nil {
		t.Fatal("NewDefaultLogger returned nil")
	}
}

func TestZerologAdapter_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		fields   []Field
		contains []string
	}{
		{"with error", errors.New("no sign change"), nil, []string{"irr failed", "no sign change", "error"}},
		{"nil error", nil, nil, []string{"irr failed", `"level":"error"`}},
		{"with fields", errors.New("timeout"), []Field{String("scenario", "B"), Int("row", 3)}, []string{"timeout", `"scenario":"B"`, `"row":3`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, "test").Error("irr failed", tt.err, tt.fields...)
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output should contain %q, got: %s", want, buf.String())
				}
			}
		})
	}
}

func TestZerologAdapter_DebugRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	NewZerologAdapter(zerolog.New(&buf).Level(zerolog.InfoLevel)).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry should be filtered at info level, got: %s", buf.String())
	}

	buf.Reset()
	NewZerologAdapter(zerolog.New(&buf).Level(zerolog.DebugLevel)).Debug("shown", String("k", "v"))
	if !strings.Contains(buf.String(), "shown") || !strings.Contains(buf.String(), `"level":"debug"`) {
		t.Errorf("debug entry missing, got: %s", buf.String())
	}
}

func TestZerologAdapter_PrintfPrintln(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "test")
	logger.Printf("evaluated %d scenarios", 2)
	logger.Println("watch", "started")
	out := buf.String()
	if !strings.Contains(out, "evaluated 2 scenarios") {
		t.Errorf("Printf output missing, got: %s", out)
	}
	if !strings.Contains(out, "watch started") {
		t.Errorf("Println output missing, got: %s", out)
	}
}

func TestZerologAdapter_applyFields(t *testing.T) {
	tests := []struct {
		name     string
		field    Field
		contains string
	}{
		{"string", Field{Key: "s", Value: "hello"}, `"s":"hello"`},
		{"int", Field{Key: "n", Value: 42}, `"n":42`},
		{"int64", Field{Key: "big", Value: int64(9223372036854775807)}, "9223372036854775807"},
		{"uint64", Field{Key: "huge", Value: uint64(18446744073709551615)}, "18446744073709551615"},
		{"float64", Field{Key: "pi", Value: 3.14}, "3.14"},
		{"error", Field{Key: "cause", Value: errors.New("oops")}, `"cause":"oops"`},
		{"bool", Field{Key: "ok", Value: true}, `"ok":true`},
		{"struct", Field{Key: "data", Value: struct{ X int }{X: 1}}, `"X":1`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			NewLogger(&buf, "test").Info("fields", tt.field)
			if !strings.Contains(buf.String(), tt.contains) {
				t.Errorf("output should contain %q, got: %s", tt.contains, buf.String())
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	t.Parallel()
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARN":    zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"":        zerolog.InfoLevel,
		"verbose": zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestStdLoggerAdapter(t *testing.T) {
	tests := []struct {
		name     string
		log      func(l Logger)
		contains []string
	}{
		{"info", func(l Logger) { l.Info("evaluate", String("scenario", "A")) }, []string{"[INFO]", "evaluate", "scenario=A"}},
		{"error", func(l Logger) { l.Error("failed", errors.New("boom"), Int("row", 2)) }, []string{"[ERROR]", "failed", "error=boom", "row=2"}},
		{"debug", func(l Logger) { l.Debug("cell") }, []string{"[DEBUG]", "cell"}},
		{"printf", func(l Logger) { l.Printf("%d rows", 7) }, []string{"7 rows"}},
		{"println", func(l Logger) { l.Println("a", "b") }, []string{"a b"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewStdLoggerAdapter(log.New(&buf, "", 0)))
			for _, want := range tt.contains {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("output should contain %q, got: %s", want, buf.String())
				}
			}
		})
	}
}
