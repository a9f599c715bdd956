package cmd

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/cli/model"
)

var stripCmd = &cobra.Command{
	Use:     "strip [window]",
	Aliases: []string{"attach"},
	Short:   "Attach an interactive tab strip to a window",
	Long: `Show a live tab strip for a window and drive it from the keyboard.
Without a window id the first open window is used. Press ? for keys.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runStrip,
}

func init() {
	rootCmd.AddCommand(stripCmd)
}

func runStrip(_ *cobra.Command, args []string) error {
	a, c, err := requireClient()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(a.Ctx())
	defer cancel()

	win, err := resolveWindow(ctx, c, args)
	if err != nil {
		return err
	}
	events, err := c.Events(ctx, win)
	if err != nil {
		return err
	}
	defer func() { _ = events.Close() }()

	m := model.NewTabStripModel(ctx, a.Theme, win, c, events)
	final, err := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx)).Run()
	if err != nil {
		return fmt.Errorf("tab strip: %w", err)
	}
	if fm, ok := final.(model.TabStripModel); ok && fm.Err() != nil {
		return fm.Err()
	}
	return nil
}
