package table

import (
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestFormatAlignsColumns(t *testing.T) {
	lines := Format([][]string{
		{"close", "12.50"},
		{"volume", "1300"},
	}, []Alignment{AlignLeft, AlignRight})
	want := []string{
		"close   12.50",
		"volume   1300",
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
}

func TestFormatMeasuresRenderedWidth(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("ab")
	lines := Format([][]string{{styled, "x"}, {"abcd", "y"}}, nil)
	if lipgloss.Width(lines[0]) != lipgloss.Width(lines[1]) {
		t.Fatalf("expected equal widths, got %q and %q", lines[0], lines[1])
	}
}

func TestFitTruncatesLongLines(t *testing.T) {
	lines := Fit([]string{"short", "a much longer line"}, 8)
	if lines[0] != "short" {
		t.Fatalf("short line changed: %q", lines[0])
	}
	if w := lipgloss.Width(lines[1]); w > 8 {
		t.Fatalf("expected truncated width <= 8, got %d (%q)", w, lines[1])
	}
	if got := Fit([]string{"x"}, 0); got[0] != "x" {
		t.Fatalf("zero width should not truncate")
	}
}
