package styles

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabshell/internal/domain/build"
)

// AboutRenderer renders build information as an aligned key list.
type AboutRenderer struct {
	theme *Theme
}

// NewAboutRenderer creates a new about renderer with the given theme.
func NewAboutRenderer(theme *Theme) *AboutRenderer {
	return &AboutRenderer{theme: theme}
}

// Render lists the build of the binary and the control address it targets.
func (r *AboutRenderer) Render(info build.Info, controlAddr string) string {
	info = info.WithDefaults()
	if controlAddr == "" {
		controlAddr = "disabled"
	}
	rows := [][3]string{
		{IconVersion, "Version", info.Version},
		{IconGitBranch, "Commit", info.Commit},
		{IconCalendar, "Built", info.BuildDate},
		{IconGo, "Go", info.GoVersion},
		{IconNetwork, "Control", controlAddr},
		{IconGithub, "Source", build.RepoURL()},
	}

	icon := lipgloss.NewStyle().Foreground(r.theme.Accent)
	key := r.theme.Subtle.Width(10)
	var sb strings.Builder
	sb.WriteString("\n  " + r.theme.Title.Render(IconGlobe+" tabshell") + "\n\n")
	for _, row := range rows {
		sb.WriteString("  " + icon.Render(row[0]) + " " + key.Render(row[1]) + r.theme.Highlight.Render(row[2]) + "\n")
	}
	return sb.String()
}
