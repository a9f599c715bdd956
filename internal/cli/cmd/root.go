// Package cmd provides Cobra CLI commands for tabshell.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/cli"
	"github.com/bnema/tabshell/internal/domain/build"
)

var (
	app       *cli.App
	buildInfo build.Info
	addrFlag  string
	rootCmd   = &cobra.Command{
		Use:   "tabshell",
		Short: "A tab and pane lifecycle manager for headless Chrome",
		Long: `Tabshell keeps browser windows, tabs and panes alive on top of a
headless Chrome, restores them across restarts and exposes them over a
local HTTP control channel.

Use 'tabshell run' to start the daemon, then drive it with the other
subcommands or attach a live tab strip with 'tabshell strip'.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			switch cmd.Name() {
			case "help", "completion", "gen-docs":
				return nil
			}

			var err error
			app, err = cli.NewApp(addrFlag)
			if err != nil {
				return fmt.Errorf("initialize app: %w", err)
			}
			app.BuildInfo = buildInfo
			return nil
		},
		PersistentPostRun: func(_ *cobra.Command, _ []string) {
			if app != nil {
				_ = app.Close()
			}
		},
	}
)

func init() {
	rootCmd.PersistentFlags().StringVar(&addrFlag, "addr", "", "control channel address (defaults to api.listen)")
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// GetApp returns the initialized app (for use by subcommands).
func GetApp() *cli.App {
	return app
}

// SetBuildInfo sets the build information (called from main.go before Execute).
func SetBuildInfo(info build.Info) {
	buildInfo = info
}

func requireApp() (*cli.App, error) {
	if app == nil {
		return nil, fmt.Errorf("app not initialized")
	}
	return app, nil
}

func requireClient() (*cli.App, *cli.Client, error) {
	a, err := requireApp()
	if err != nil {
		return nil, nil, err
	}
	c, err := a.Client()
	if err != nil {
		return nil, nil, err
	}
	return a, c, nil
}
