package styles

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabshell/internal/domain/entity"
)

const (
	defaultStripWidth = 80
	minTitleWidth     = 4
	maxTitleWidth     = 24
	pinnedTitleWidth  = 6
	// tabChrome is the padding plus the widest icon prefix of a label.
	tabChrome = 6
)

// TabTitle is the text a tab shows: its title, else its URL, else "New Tab".
func TabTitle(st entity.TabState) string {
	switch {
	case strings.TrimSpace(st.Title) != "":
		return st.Title
	case st.URL != "" && st.URL != "about:blank":
		return st.URL
	default:
		return "New Tab"
	}
}

// TabIcons returns the status icons shown before a tab's title.
func TabIcons(st entity.TabState) string {
	var icons []string
	if st.IsPinned {
		icons = append(icons, IconPin)
	}
	switch {
	case st.LoadError != nil:
		icons = append(icons, IconError)
	case st.IsLoading:
		icons = append(icons, IconLoading)
	}
	switch {
	case st.IsAudioMuted:
		icons = append(icons, IconMuted)
	case st.IsCurrentlyAudible:
		icons = append(icons, IconAudible)
	}
	if st.IsLiveReloading {
		icons = append(icons, IconLive)
	}
	return strings.Join(icons, " ")
}

// TabLabel formats one strip label with its title cut to width runes.
func TabLabel(st entity.TabState, width int) string {
	if st.IsPinned && width > pinnedTitleWidth {
		width = pinnedTitleWidth
	}
	title := Truncate(TabTitle(st), width)
	if icons := TabIcons(st); icons != "" {
		return icons + " " + title
	}
	return title
}

// Truncate cuts s to at most width runes, ending with an ellipsis when cut.
func Truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// TitleWidth is the title budget per tab for n tabs in width columns.
func TitleWidth(n, width int) int {
	if width <= 0 {
		width = defaultStripWidth
	}
	if n <= 0 {
		return maxTitleWidth
	}
	w := width/n - tabChrome
	return max(minTitleWidth, min(maxTitleWidth, w))
}

// RenderTabStrip renders a window's tabs as one line. Tabs that do not fit
// are summarized as a trailing "+N" badge.
func (t *Theme) RenderTabStrip(states []entity.TabState, width int) string {
	if width <= 0 {
		width = defaultStripWidth
	}
	if len(states) == 0 {
		return t.TabBar.Width(width).Render(t.Subtle.Render("no tabs"))
	}

	titleWidth := TitleWidth(len(states), width)
	gap := lipgloss.NewStyle().Foreground(t.Border).Render("│")

	var (
		row  []string
		used int
	)
	for i, st := range states {
		cell := t.tabStyle(st).Render(TabLabel(st, titleWidth))
		cellWidth := lipgloss.Width(cell) + lipgloss.Width(gap)
		rest := len(states) - i
		// Keep room for the overflow badge when more tabs follow.
		reserve := 0
		if rest > 1 {
			reserve = lipgloss.Width(t.BadgeMuted.Render("+99"))
		}
		if len(row) > 0 && used+cellWidth+reserve > width {
			row = append(row, t.BadgeMuted.Render("+"+strconv.Itoa(rest)))
			break
		}
		if len(row) > 0 {
			row = append(row, gap)
		}
		row = append(row, cell)
		used += cellWidth
	}
	return t.TabBar.Width(width).Render(lipgloss.JoinHorizontal(lipgloss.Top, row...))
}

func (t *Theme) tabStyle(st entity.TabState) lipgloss.Style {
	switch {
	case st.IsActive:
		return t.ActiveTab
	case st.IsPinned:
		return t.PinnedTab
	default:
		return t.InactiveTab
	}
}

// NewLoadingSpinner returns the spinner shown next to tabs that are loading.
func NewLoadingSpinner(theme *Theme) spinner.Model {
	return spinner.New(
		spinner.WithSpinner(spinner.MiniDot),
		spinner.WithStyle(theme.Highlight.UnsetBold()),
	)
}
