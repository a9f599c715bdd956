package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/bnema/tabshell/internal/infrastructure/config"
)

const dirPerm = 0o755

var (
	genDocsOutputDir string
	genDocsFormat    string
)

var genDocsCmd = &cobra.Command{
	Use:   "gen-docs",
	Short: "Generate documentation from CLI commands",
	Long: `Generate man pages or markdown from the CLI command definitions.

By default, man pages are installed to ~/.local/share/man/man1/ so they
are immediately available via 'man tabshell'. You may need to run 'mandb'
to update the man page index.

Examples:
  tabshell gen-docs                        # Install man pages
  tabshell gen-docs --format markdown      # Generate markdown docs in ./docs
  tabshell gen-docs --output ./man         # Generate to local directory`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return genDocs(cmd.OutOrStdout(), genDocsFormat, genDocsOutputDir)
	},
}

func init() {
	rootCmd.AddCommand(genDocsCmd)
	genDocsCmd.Flags().StringVarP(&genDocsOutputDir, "output", "o", "", "Output directory for generated docs")
	genDocsCmd.Flags().StringVarP(&genDocsFormat, "format", "f", "man", "Output format: man, markdown")
}

func genDocs(out io.Writer, format, outputDir string) error {
	if outputDir == "" {
		switch format {
		case "man":
			manDir, err := config.GetManDir()
			if err != nil {
				return fmt.Errorf("resolve man directory: %w", err)
			}
			outputDir = manDir
		case "markdown":
			outputDir = "./docs"
		}
	}

	// Reproducible output.
	rootCmd.DisableAutoGenTag = true

	var ext string
	switch format {
	case "man":
		ext = ".1"
	case "markdown":
		ext = ".md"
	default:
		return fmt.Errorf("unsupported format %q (use: man, markdown)", format)
	}

	if err := os.MkdirAll(outputDir, dirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	if format == "man" {
		now := time.Now()
		header := &doc.GenManHeader{
			Title:   "TABSHELL",
			Section: "1",
			Source:  "tabshell " + buildInfo.WithDefaults().Version,
			Manual:  "Tabshell Manual",
			Date:    &now,
		}
		if err := doc.GenManTree(rootCmd, header, outputDir); err != nil {
			return fmt.Errorf("generate man pages: %w", err)
		}
	} else if err := doc.GenMarkdownTree(rootCmd, outputDir); err != nil {
		return fmt.Errorf("generate markdown docs: %w", err)
	}

	fmt.Fprintf(out, "Generated %s docs in %s\n", format, outputDir)
	entries, err := os.ReadDir(outputDir)
	if err != nil {
		return nil
	}
	for _, e := range entries {
		if filepath.Ext(e.Name()) == ext {
			fmt.Fprintf(out, "  - %s\n", e.Name())
		}
	}
	return nil
}
