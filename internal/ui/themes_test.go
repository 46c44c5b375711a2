package ui

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestSetTheme(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"earth", "earth"},
		{"none", "none"},
		{"unknown", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) -> %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme_NoColor(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	InitTheme(true)
	if ColorRed() != "" || ColorReset() != "" {
		t.Error("no-color theme should produce empty sequences")
	}
	if _, ok := CurrentPalette().Accent.(lipgloss.NoColor); !ok {
		t.Error("no-color theme should select NoColorPalette")
	}
}

func TestInitTheme_NO_COLOR_Env(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	t.Setenv("NO_COLOR", "1")
	InitTheme(false)
	if GetCurrentTheme().Name != "none" {
		t.Errorf("NO_COLOR should disable colors, got theme %q", GetCurrentTheme().Name)
	}
}

func TestVerdict(t *testing.T) {
	original := GetCurrentTheme()
	defer SetCurrentTheme(original)

	SetCurrentTheme(DarkTheme)
	if got := Verdict("ok", true); got != DarkTheme.Success+"ok"+DarkTheme.Reset {
		t.Errorf("Verdict(true) = %q", got)
	}
	if got := Verdict("no", false); got != DarkTheme.Error+"no"+DarkTheme.Reset {
		t.Errorf("Verdict(false) = %q", got)
	}
}
