package format

import (
	"strings"
	"testing"
	"time"
)

func TestNewProgressWithETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(3)

	if p.ProgressState == nil {
		t.Fatal("ProgressState should not be nil")
	}
	if p.numTasks != 3 {
		t.Errorf("numTasks = %d, want 3", p.numTasks)
	}
	if p.progressRate != 0 {
		t.Errorf("initial progressRate = %f, want 0", p.progressRate)
	}
	if p.startTime.IsZero() {
		t.Error("startTime should not be zero")
	}
}

func TestUpdateWithETA_Average(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(2)

	avg, eta := p.UpdateWithETA(0, 0.25)
	if avg != 0.125 {
		t.Errorf("progress = %f, want 0.125", avg)
	}
	if eta < 0 {
		t.Errorf("ETA should not be negative, got %v", eta)
	}

	avg, _ = p.UpdateWithETA(1, 0.5)
	if avg != 0.375 {
		t.Errorf("progress = %f, want 0.375", avg)
	}
}

func TestGetETA(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1)
	if eta := p.GetETA(); eta != 0 {
		t.Errorf("initial ETA = %v, want 0", eta)
	}

	p.Update(0, 0.5)
	p.progressRate = 0.1

	eta := p.GetETA()
	if eta < 4*time.Second || eta > 6*time.Second {
		t.Errorf("ETA = %v, want about 5s", eta)
	}
}

func TestETACapping(t *testing.T) {
	t.Parallel()
	p := NewProgressWithETA(1)
	p.Update(0, 0.001)
	p.progressRate = 0.0000001

	if eta := p.GetETA(); eta > maxETA {
		t.Errorf("ETA = %v, should be capped at %v", eta, maxETA)
	}
}

func TestProgressState_EdgeCases(t *testing.T) {
	t.Parallel()
	ps := NewProgressState(2)
	ps.Update(0, 1.5)
	ps.Update(1, -0.5)
	ps.Update(5, 0.5)
	ps.Update(-1, 0.5)
	if avg := ps.CalculateAverage(); avg != 0.5 {
		t.Errorf("average = %f, want 0.5 after clamping", avg)
	}
	if avg := NewProgressState(0).CalculateAverage(); avg != 0 {
		t.Errorf("empty state average = %f, want 0", avg)
	}
	if NewProgressState(-3).numTasks != 0 {
		t.Error("negative task count should be normalised to 0")
	}
}

func TestFormatETA(t *testing.T) {
	t.Parallel()
	testCases := []struct {
		eta      time.Duration
		expected string
	}{
		{0, "calculating..."},
		{-time.Second, "calculating..."},
		{500 * time.Millisecond, "< 1s"},
		{45 * time.Second, "45s"},
		{time.Minute, "1m"},
		{2*time.Minute + 30*time.Second, "2m30s"},
		{time.Hour + 15*time.Minute, "1h15m"},
		{2 * time.Hour, "2h"},
	}
	for _, tc := range testCases {
		if got := FormatETA(tc.eta); got != tc.expected {
			t.Errorf("FormatETA(%v) = %q, want %q", tc.eta, got, tc.expected)
		}
	}
}

func TestProgressBar(t *testing.T) {
	t.Parallel()
	tests := []struct {
		progress float64
		length   int
		expected string
	}{
		{0.0, 10, "░░░░░░░░░░"},
		{0.5, 10, "█████░░░░░"},
		{1.0, 10, "██████████"},
		{1.2, 10, "██████████"},
		{-0.1, 10, "░░░░░░░░░░"},
	}
	for _, tt := range tests {
		if got := ProgressBar(tt.progress, tt.length); got != tt.expected {
			t.Errorf("ProgressBar(%f, %d) = %s; want %s", tt.progress, tt.length, got, tt.expected)
		}
	}
}

func TestFormatProgressBarWithETA(t *testing.T) {
	t.Parallel()
	got := FormatProgressBarWithETA(0.5, 30*time.Second, 10)
	for _, want := range []string{"[█████░░░░░]", "50.0%", "ETA: 30s"} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatProgressBarWithETA = %q, missing %q", got, want)
		}
	}
}

func TestFormatExecutionDuration(t *testing.T) {
	t.Parallel()
	tests := []struct {
		d        time.Duration
		expected string
	}{
		{500 * time.Nanosecond, "0µs"},
		{10 * time.Microsecond, "10µs"},
		{10 * time.Millisecond, "10ms"},
		{2 * time.Second, "2s"},
	}
	for _, tt := range tests {
		if got := FormatExecutionDuration(tt.d); got != tt.expected {
			t.Errorf("FormatExecutionDuration(%v) = %s; want %s", tt.d, got, tt.expected)
		}
	}
}
