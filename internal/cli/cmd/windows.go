package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/app/api"
	"github.com/bnema/tabshell/internal/app/tabs"
	"github.com/bnema/tabshell/internal/cli"
	"github.com/bnema/tabshell/internal/cli/styles"
	"github.com/bnema/tabshell/internal/domain/entity"
)

const outputWidth = 100

var (
	openWindowFlag string
	openBackground bool
	tabDriveInfo   bool
	tabSitePerms   bool
	jsonOutput     bool
)

var windowsCmd = &cobra.Command{
	Use:     "windows",
	Aliases: []string{"ls"},
	Short:   "List open windows",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, c, err := requireClient()
		if err != nil {
			return err
		}
		return printWindows(a.Ctx(), c, styles.NewStateRenderer(a.Theme, outputWidth), cmd.OutOrStdout())
	},
}

var stateCmd = &cobra.Command{
	Use:   "state [window]",
	Short: "Show the tabs of a window",
	Long: `Show the tab strip and every tab of a window. Without a window id the
first open window is used.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, c, err := requireClient()
		if err != nil {
			return err
		}
		return printState(a.Ctx(), c, styles.NewStateRenderer(a.Theme, outputWidth), cmd.OutOrStdout(), args, jsonOutput)
	},
}

var tabCmd = &cobra.Command{
	Use:   "tab <window> <index>",
	Short: "Print one tab's detailed state as JSON",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, c, err := requireClient()
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid tab index %q", args[1])
		}
		st, err := c.TabState(a.Ctx(), entity.WindowID(args[0]), index, tabs.TabStateOptions{
			DriveInfo: tabDriveInfo,
			SitePerms: tabSitePerms,
		})
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), st)
	},
}

var bgCmd = &cobra.Command{
	Use:   "bg",
	Short: "List background tabs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, c, err := requireClient()
		if err != nil {
			return err
		}
		bg, err := c.BackgroundTabs(a.Ctx())
		if err != nil {
			return err
		}
		if jsonOutput {
			return writeJSON(cmd.OutOrStdout(), bg)
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), styles.NewStateRenderer(a.Theme, outputWidth).RenderBackgroundTabs(bg))
		return err
	},
}

var openCmd = &cobra.Command{
	Use:   "open [url]",
	Short: "Open a URL in a new window or tab",
	Long: `Open a URL in a new window, or in a new tab of an existing window with
--window. Without a URL the new tab page opens.

Examples:
  tabshell open example.com             # New window
  tabshell open -w <id> example.com     # New active tab in a window
  tabshell open -w <id> --bg docs.test  # New tab left in the background`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, c, err := requireClient()
		if err != nil {
			return err
		}
		target := ""
		if len(args) == 1 {
			target = args[0]
		}
		return openTarget(a.Ctx(), c, cmd.OutOrStdout(), a.Theme, target, entity.WindowID(openWindowFlag), !openBackground)
	},
}

var closeCmd = &cobra.Command{
	Use:   "close <window>",
	Short: "Close a window and all of its tabs",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, c, err := requireClient()
		if err != nil {
			return err
		}
		if err := c.CloseWindow(a.Ctx(), entity.WindowID(args[0])); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), a.Theme.SuccessStyle.Render(styles.IconCheck+" closed "+args[0]))
		return err
	},
}

func init() {
	rootCmd.AddCommand(windowsCmd, stateCmd, tabCmd, bgCmd, openCmd, closeCmd)

	stateCmd.Flags().BoolVar(&jsonOutput, "json", false, "print raw JSON")
	bgCmd.Flags().BoolVar(&jsonOutput, "json", false, "print raw JSON")
	tabCmd.Flags().BoolVar(&tabDriveInfo, "drive-info", false, "include drive information")
	tabCmd.Flags().BoolVar(&tabSitePerms, "site-perms", false, "include site permissions")
	openCmd.Flags().StringVarP(&openWindowFlag, "window", "w", "", "open as a tab in this window")
	openCmd.Flags().BoolVar(&openBackground, "bg", false, "do not activate the new tab")
}

func printWindows(ctx context.Context, c *cli.Client, r *styles.StateRenderer, out io.Writer) error {
	wins, err := c.Windows(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(out, r.RenderWindows(wins))
	return err
}

func printState(ctx context.Context, c *cli.Client, r *styles.StateRenderer, out io.Writer, args []string, raw bool) error {
	win, err := resolveWindow(ctx, c, args)
	if err != nil {
		return err
	}
	st, err := c.State(ctx, win)
	if err != nil {
		return err
	}
	if raw {
		return writeJSON(out, st)
	}
	_, err = fmt.Fprint(out, r.RenderWindowState(win, st))
	return err
}

func openTarget(ctx context.Context, c *cli.Client, out io.Writer, theme *styles.Theme, target string, win entity.WindowID, active bool) error {
	if win == "" {
		info, err := c.CreateWindow(ctx, target)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(out, theme.WindowBadge(string(info.ID)))
		return err
	}
	_, err := c.Command(ctx, win, api.CommandRequest{Command: "create-tab", URL: target, SetActive: &active})
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(out, theme.SuccessStyle.Render(styles.IconCheck+" opened in "+string(win)))
	return err
}

// resolveWindow returns the window named in args, or the first open window.
func resolveWindow(ctx context.Context, c *cli.Client, args []string) (entity.WindowID, error) {
	if len(args) > 0 && args[0] != "" {
		return entity.WindowID(args[0]), nil
	}
	wins, err := c.Windows(ctx)
	if err != nil {
		return "", err
	}
	if len(wins) == 0 {
		return "", errors.New("no open windows")
	}
	return wins[0].ID, nil
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
