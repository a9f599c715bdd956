package styles

import (
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/tabshell/internal/domain/entity"
)

// NewTabTable creates the focused tab list of a window, sized to width
// and height.
func NewTabTable(theme *Theme, states []entity.TabState, width, height int) table.Model {
	t := table.New(
		table.WithColumns(TabTableColumns(width)),
		table.WithRows(TabRows(states)),
		table.WithFocused(true),
		table.WithHeight(height),
		table.WithWidth(width),
	)
	t.SetStyles(tabTableStyles(theme))
	return t
}

func tabTableStyles(theme *Theme) table.Styles {
	s := table.DefaultStyles()
	s.Header = s.Header.
		Foreground(theme.Accent).
		Bold(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderBottom(true).
		BorderForeground(theme.Border)
	s.Selected = theme.PinnedTab.Padding(0).Bold(true)
	s.Cell = s.Cell.Foreground(theme.Text)
	return s
}

// TabTableColumns returns the columns of the tab list sized for width.
func TabTableColumns(width int) []table.Column {
	const (
		indexWidth = 4
		flagsWidth = 8
		fixed      = indexWidth + flagsWidth + 8
	)
	rest := max(width-fixed, 30)
	titleWidth := rest * 2 / 5
	return []table.Column{
		{Title: "#", Width: indexWidth},
		{Title: "", Width: flagsWidth},
		{Title: "Title", Width: titleWidth},
		{Title: "URL", Width: rest - titleWidth},
	}
}

// TabRow converts a tab state to a tab list row.
func TabRow(index int, st entity.TabState) table.Row {
	marker := strconv.Itoa(index)
	if st.IsActive {
		marker = "*" + marker
	}
	return table.Row{marker, TabIcons(st), TabTitle(st), st.URL}
}

// TabRows converts every tab state of a window.
func TabRows(states []entity.TabState) []table.Row {
	rows := make([]table.Row, 0, len(states))
	for i, st := range states {
		rows = append(rows, TabRow(i, st))
	}
	return rows
}
