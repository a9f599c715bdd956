package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/bnema/tabshell/internal/cli/styles"
	"github.com/bnema/tabshell/internal/infrastructure/config"
)

var schemaWrite bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long:  `Show where the configuration lives, validate it and print its schema.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		return printConfigStatus(cmd.OutOrStdout(), styles.NewConfigRenderer(a.Theme))
	},
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := config.GetConfigFile()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), path)
		return err
	},
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check the config file for errors",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		renderer := styles.NewConfigRenderer(a.Theme)
		if a.LoadErr != nil {
			fmt.Fprint(cmd.OutOrStdout(), renderer.RenderError(a.LoadErr))
			return errors.New("invalid configuration")
		}
		path := ""
		if a.Configs != nil {
			path = a.Configs.GetConfigFile()
		}
		_, err = fmt.Fprint(cmd.OutOrStdout(), renderer.RenderValid(path))
		return err
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration as TOML",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := requireApp()
		if err != nil {
			return err
		}
		return showConfig(cmd.OutOrStdout(), a.Config)
	},
}

var configSchemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the config JSON schema",
	Long: `Print the JSON schema of the config file. With --write the schema is
saved next to the config file for editor completion.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if schemaWrite {
			a, err := requireApp()
			if err != nil {
				return err
			}
			dir, err := config.GetConfigDir()
			if err != nil {
				return err
			}
			if err := config.GenerateSchemaFile(dir); err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), styles.NewConfigRenderer(a.Theme).RenderWritten("schema", dir))
			return err
		}
		data, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return err
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.AddCommand(configPathCmd, configValidateCmd, configShowCmd, configSchemaCmd)
	configSchemaCmd.Flags().BoolVar(&schemaWrite, "write", false, "write the schema file to the config directory")
}

func printConfigStatus(out io.Writer, renderer *styles.ConfigRenderer) error {
	path, err := config.GetConfigFile()
	if err != nil {
		_, werr := fmt.Fprint(out, renderer.RenderError(err))
		return werr
	}
	_, statErr := os.Stat(path)
	_, err = fmt.Fprint(out, renderer.RenderConfigInfo(path, statErr == nil))
	return err
}

func showConfig(out io.Writer, cfg *config.Config) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	_, err = out.Write(data)
	return err
}
