package styles

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"
)

// KeyMap defines keybindings that can be rendered as help.
type KeyMap interface {
	ShortHelp() []key.Binding
	FullHelp() [][]key.Binding
}

// TabStripKeyMap defines keybindings for the tab strip view.
type TabStripKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Activate  key.Binding
	Next      key.Binding
	Prev      key.Binding
	New       key.Binding
	Close     key.Binding
	Reopen    key.Binding
	Pin       key.Binding
	Mute      key.Binding
	Reload    key.Binding
	Back      key.Binding
	Forward   key.Binding
	MoveLeft  key.Binding
	MoveRight key.Binding
	Minimize  key.Binding
	Help      key.Binding
	Quit      key.Binding
}

// ShortHelp returns keybindings to show in compact help.
func (k TabStripKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Activate, k.New, k.Close, k.Pin, k.Reload, k.Help, k.Quit}
}

// FullHelp returns keybindings for expanded help.
func (k TabStripKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Activate, k.Next, k.Prev},
		{k.New, k.Close, k.Reopen, k.Minimize},
		{k.Pin, k.Mute, k.MoveLeft, k.MoveRight},
		{k.Reload, k.Back, k.Forward},
		{k.Help, k.Quit},
	}
}

// DefaultTabStripKeyMap returns the default tab strip keybindings.
func DefaultTabStripKeyMap() TabStripKeyMap {
	return TabStripKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Activate: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "switch to"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next tab"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab"),
			key.WithHelp("S-tab", "prev tab"),
		),
		New: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "new tab"),
		),
		Close: key.NewBinding(
			key.WithKeys("x", "d"),
			key.WithHelp("x", "close"),
		),
		Reopen: key.NewBinding(
			key.WithKeys("u"),
			key.WithHelp("u", "reopen closed"),
		),
		Pin: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "pin/unpin"),
		),
		Mute: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "mute"),
		),
		Reload: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "reload"),
		),
		Back: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("←/h", "back"),
		),
		Forward: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("→/l", "forward"),
		),
		MoveLeft: key.NewBinding(
			key.WithKeys("<", "K"),
			key.WithHelp("<", "move left"),
		),
		MoveRight: key.NewBinding(
			key.WithKeys(">", "J"),
			key.WithHelp(">", "move right"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("b"),
			key.WithHelp("b", "to background"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// NewStyledHelp creates a themed help model.
func NewStyledHelp(theme *Theme) help.Model {
	h := help.New()
	h.Styles.ShortKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.ShortDesc = lipgloss.NewStyle().Foreground(theme.Muted)
	h.Styles.ShortSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	h.Styles.FullKey = lipgloss.NewStyle().Foreground(theme.Accent)
	h.Styles.FullDesc = lipgloss.NewStyle().Foreground(theme.Text)
	h.Styles.FullSeparator = lipgloss.NewStyle().Foreground(theme.Border)
	return h
}
