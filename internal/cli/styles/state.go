package styles

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabshell/internal/app/api"
	"github.com/bnema/tabshell/internal/domain/entity"
)

// StateRenderer prints window and tab state for the non-interactive commands.
type StateRenderer struct {
	theme *Theme
	width int
}

// NewStateRenderer creates a renderer wrapping output at width columns.
func NewStateRenderer(theme *Theme, width int) *StateRenderer {
	if width <= 0 {
		width = defaultStripWidth
	}
	return &StateRenderer{theme: theme, width: width}
}

// RenderWindows renders one line per window.
func (r *StateRenderer) RenderWindows(wins []api.WindowInfo) string {
	if len(wins) == 0 {
		return "\n  " + r.theme.Subtle.Render("No open windows") + "\n"
	}
	var sb strings.Builder
	sb.WriteString("\n")
	for _, w := range wins {
		flags := []string{r.theme.CountBadge(w.Tabs, "tab")}
		if w.App {
			flags = append(flags, r.theme.MutedBadge("app"))
		}
		if w.Fullscreen {
			flags = append(flags, r.theme.MutedBadge("fullscreen"))
		}
		active := r.theme.Subtle.Render("no active tab")
		if w.Active >= 0 {
			active = r.theme.Subtle.Render(fmt.Sprintf("active %d", w.Active))
		}
		fmt.Fprintf(&sb, "  %s %s %s\n", r.theme.WindowBadge(string(w.ID)), strings.Join(flags, " "), active)
	}
	return sb.String()
}

// RenderWindowState renders a window's tab strip followed by one line per tab.
func (r *StateRenderer) RenderWindowState(id entity.WindowID, st *entity.ReplaceState) string {
	var sb strings.Builder
	sb.WriteString("\n  ")
	sb.WriteString(r.theme.WindowBadge(string(id)))
	if st.IsDaemonActive {
		sb.WriteString(" ")
		sb.WriteString(r.theme.MutedBadge(IconNetwork + " drives"))
	}
	sb.WriteString("\n\n")
	sb.WriteString(r.theme.RenderTabStrip(st.Tabs, r.width))
	sb.WriteString("\n\n")

	urlWidth := max(r.width-maxTitleWidth-12, 16)
	for i, tab := range st.Tabs {
		marker := " "
		if tab.IsActive {
			marker = r.theme.Highlight.Render(IconArrow)
		}
		line := fmt.Sprintf("  %s %2d %s %s",
			marker,
			i,
			lipgloss.NewStyle().Width(maxTitleWidth).Render(Truncate(TabTitle(tab), maxTitleWidth)),
			r.theme.Subtle.Render(Truncate(tab.URL, urlWidth)),
		)
		if icons := TabIcons(tab); icons != "" {
			line += " " + icons
		}
		if tab.TabCreationTime > 0 {
			line += " " + r.theme.Subtle.Render(TabAge(time.UnixMilli(tab.TabCreationTime), time.Now()))
		}
		sb.WriteString(line)
		sb.WriteString("\n")
	}
	return sb.String()
}

// RenderBackgroundTabs renders the background pool.
func (r *StateRenderer) RenderBackgroundTabs(bg []entity.BackgroundTab) string {
	if len(bg) == 0 {
		return "\n  " + r.theme.Subtle.Render("No background tabs") + "\n"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "\n  %s %s\n\n", r.theme.Title.Render(IconBg+" Background tabs"), r.theme.CountBadge(len(bg), "tab"))
	for i, tab := range bg {
		title := tab.Title
		if title == "" {
			title = tab.URL
		}
		fmt.Fprintf(&sb, "  %2d %s %s\n", i, Truncate(title, maxTitleWidth), r.theme.Subtle.Render(tab.URL))
	}
	return sb.String()
}
