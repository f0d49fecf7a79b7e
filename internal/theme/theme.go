package theme

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Names lists the palettes ByName accepts.
var Names = []string{"dark", "light"}

// Styles describes reusable Lip Gloss styles shared across the UI.
type Styles struct {
	Name                  string
	Loading               *lipgloss.Style
	Item                  *lipgloss.Style
	ItemIndicator         *lipgloss.Style
	SelectedItemIndicator *lipgloss.Style
	SelectedItem          *lipgloss.Style
	Error                 *lipgloss.Style
	Info                  *lipgloss.Style
	Header                *lipgloss.Style
	Footer                *lipgloss.Style
	Filter                *lipgloss.Style
	FilterPrompt          *lipgloss.Style
	FilterPlaceholder     *lipgloss.Style
	Cursor                *lipgloss.Style
	TabActive             *lipgloss.Style
	TabInactive           *lipgloss.Style
	StageTitle            *lipgloss.Style
	StageCommitted        *lipgloss.Style
	StagePending          *lipgloss.Style
	BodyTitle             *lipgloss.Style
	Body                  *lipgloss.Style
	Muted                 *lipgloss.Style
	Positive              *lipgloss.Style
	Negative              *lipgloss.Style
	NetworkError          *lipgloss.Style
	UpstreamError         *lipgloss.Style
	EmptyResult           *lipgloss.Style
	Spinner               *lipgloss.Style
	Panel                 *lipgloss.Style
}

type palette struct {
	accent, text, dim, faint, selectedBg, selectedFg, err, warn, ok, bad string
}

var (
	darkPalette = palette{
		accent: "33", text: "249", dim: "245", faint: "238",
		selectedBg: "238", selectedFg: "255",
		err: "196", warn: "214", ok: "34", bad: "160",
	}
	lightPalette = palette{
		accent: "25", text: "236", dim: "242", faint: "252",
		selectedBg: "153", selectedFg: "16",
		err: "160", warn: "130", ok: "28", bad: "124",
	}
)

func build(name string, p palette) *Styles {
	return &Styles{
		Name: name,
		Loading: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Italic(true),
		),
		Item: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		),
		ItemIndicator: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.faint)),
		),
		SelectedItemIndicator: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)).Background(lipgloss.Color(p.selectedBg)),
		),
		SelectedItem: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.selectedFg)).Background(lipgloss.Color(p.selectedBg)).Bold(true),
		),
		Error: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)).Bold(true),
		),
		Info: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		),
		Header: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Bold(true),
		),
		Footer: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		),
		Filter: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		),
		FilterPrompt: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.ok)).Bold(true),
		),
		FilterPlaceholder: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)),
		),
		Cursor: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.selectedFg)).Background(lipgloss.Color(p.accent)).Blink(true),
		),
		TabActive: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.selectedFg)).Background(lipgloss.Color(p.accent)).Bold(true).Padding(0, 1),
		),
		TabInactive: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Padding(0, 1),
		),
		StageTitle: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Bold(true),
		),
		StageCommitted: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.ok)),
		),
		StagePending: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Italic(true),
		),
		BodyTitle: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Bold(true),
		),
		Body: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.text)),
		),
		Muted: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)),
		),
		Positive: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.ok)),
		),
		Negative: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.bad)),
		),
		NetworkError: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.warn)).Bold(true),
		),
		UpstreamError: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.err)).Bold(true),
		),
		EmptyResult: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.dim)).Italic(true),
		),
		Spinner: ptr(
			lipgloss.NewStyle().Foreground(lipgloss.Color(p.accent)),
		),
		Panel: ptr(
			lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color(p.faint)).PaddingLeft(1),
		),
	}
}

// Dark returns a fresh dark style set.
func Dark() *Styles {
	return build("dark", darkPalette)
}

// Light returns a fresh light style set.
func Light() *Styles {
	return build("light", lightPalette)
}

// Default exposes the standard style set used across the application.
func Default() *Styles {
	return Dark()
}

// ByName resolves a palette name case-insensitively. Blank selects Default.
func ByName(name string) (*Styles, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "dark":
		return Dark(), nil
	case "light":
		return Light(), nil
	default:
		return nil, fmt.Errorf("unknown theme %q (want one of %s)", name, strings.Join(Names, ", "))
	}
}

func ptr(style lipgloss.Style) *lipgloss.Style {
	return &style
}
