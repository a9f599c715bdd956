// Package styles provides the lipgloss styles and renderers of the tabshell CLI.
package styles

import (
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Palette is the set of base colors a Theme is built from.
type Palette struct {
	Background     string
	Surface        string
	SurfaceVariant string
	Text           string
	Muted          string
	Accent         string
	Border         string
}

// Theme holds the colors of a Palette and the styles the tab views use.
type Theme struct {
	Background     lipgloss.Color
	Surface        lipgloss.Color
	SurfaceVariant lipgloss.Color
	Text           lipgloss.Color
	Muted          lipgloss.Color
	Accent         lipgloss.Color
	Border         lipgloss.Color
	Error          lipgloss.Color
	Success        lipgloss.Color

	Title        lipgloss.Style
	Subtle       lipgloss.Style
	Highlight    lipgloss.Style
	ErrorStyle   lipgloss.Style
	SuccessStyle lipgloss.Style

	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	PinnedTab   lipgloss.Style
	TabBar      lipgloss.Style

	Badge      lipgloss.Style
	BadgeMuted lipgloss.Style
}

// darkPalette is used unless the environment overrides the accent.
var darkPalette = Palette{
	Background:     "#0a0a0b",
	Surface:        "#1a1a1b",
	SurfaceVariant: "#2d2d2d",
	Text:           "#ffffff",
	Muted:          "#909090",
	Accent:         "#60a5fa",
	Border:         "#333333",
}

// NewTheme creates the default theme. TABSHELL_ACCENT overrides the accent color.
func NewTheme() *Theme {
	p := darkPalette
	if accent := os.Getenv("TABSHELL_ACCENT"); accent != "" {
		p.Accent = accent
	}
	return NewThemeFromPalette(p)
}

// NewThemeFromPalette creates a Theme from a Palette.
func NewThemeFromPalette(p Palette) *Theme {
	t := &Theme{
		Background:     lipgloss.Color(p.Background),
		Surface:        lipgloss.Color(p.Surface),
		SurfaceVariant: lipgloss.Color(p.SurfaceVariant),
		Text:           lipgloss.Color(p.Text),
		Muted:          lipgloss.Color(p.Muted),
		Accent:         lipgloss.Color(p.Accent),
		Border:         lipgloss.Color(p.Border),
		Error:          lipgloss.Color("#ef4444"),
		Success:        lipgloss.Color("#4ade80"),
	}

	fg := func(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }
	chip := func(fore, back lipgloss.Color) lipgloss.Style {
		return lipgloss.NewStyle().Foreground(fore).Background(back).Padding(0, 1)
	}

	t.Title = fg(t.Text).Bold(true)
	t.Subtle = fg(t.Muted)
	t.Highlight = fg(t.Accent).Bold(true)
	t.ErrorStyle = fg(t.Error)
	t.SuccessStyle = fg(t.Success)

	t.ActiveTab = chip(t.Background, t.Accent).Bold(true)
	t.InactiveTab = chip(t.Muted, t.Surface)
	t.PinnedTab = chip(t.Text, t.SurfaceVariant)
	t.TabBar = lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(t.Border)

	t.Badge = chip(t.Background, t.Accent)
	t.BadgeMuted = chip(t.Text, t.SurfaceVariant)
	return t
}
