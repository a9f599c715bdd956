package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/cli/styles"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "Show version and build information",
	Long:  `Display the build of this binary and the control address it talks to.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		renderer := styles.NewAboutRenderer(a.Theme)
		_, err = fmt.Fprintln(cmd.OutOrStdout(), renderer.Render(a.BuildInfo, a.Addr()))
		return err
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		info := buildInfo.WithDefaults()
		_, err := fmt.Fprintf(cmd.OutOrStdout(), "tabshell %s (%s, %s)\n", info.Version, info.Commit, info.GoVersion)
		return err
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd, versionCmd)
}
