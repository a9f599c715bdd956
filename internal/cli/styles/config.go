package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// ConfigRenderer renders the outcome of config subcommands.
type ConfigRenderer struct {
	theme *Theme
}

// NewConfigRenderer creates a new config renderer with the given theme.
func NewConfigRenderer(theme *Theme) *ConfigRenderer {
	return &ConfigRenderer{theme: theme}
}

func (r *ConfigRenderer) line(color lipgloss.Color, icon, text string) string {
	return "  " + lipgloss.NewStyle().Foreground(color).Render(icon) + " " + text + "\n"
}

// RenderConfigInfo shows the config path, noting when the file is missing.
func (r *ConfigRenderer) RenderConfigInfo(path string, exists bool) string {
	out := "\n" + r.line(r.theme.Accent, IconConfig, "Config "+r.theme.Subtle.Render(path))
	if !exists {
		out += "  " + r.theme.Subtle.Render("Config file will be created on first run with all defaults.") + "\n"
	}
	return out
}

// RenderValid reports that the file at path loaded and validated.
func (r *ConfigRenderer) RenderValid(path string) string {
	return "\n" + r.line(r.theme.Success, IconConfig, "Config "+r.theme.Subtle.Render(path)) +
		r.line(r.theme.Success, IconCheck, "Config is valid")
}

// RenderWritten reports a file written to path.
func (r *ConfigRenderer) RenderWritten(what, path string) string {
	return "\n" + r.line(r.theme.Success, IconCheck, "Wrote "+what+" to "+r.theme.Subtle.Render(path))
}

// RenderError reports a config error.
func (r *ConfigRenderer) RenderError(err error) string {
	return "\n" + r.line(r.theme.Error, IconX, "Config error: "+err.Error())
}
