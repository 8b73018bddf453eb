// Package commands wires the statements CLI.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/statements-dev/statements/internal/buildinfo"
	"github.com/statements-dev/statements/internal/extract"
)

// NewRootCommand creates the statements command.
func NewRootCommand() *cobra.Command {
	var opts runOptions

	rootCmd := &cobra.Command{
		Use:     "statements <statement>...",
		Short:   "Export transactions from bank statement PDFs",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		Args:    cobra.MinimumNArgs(1),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.pdfToText {
				return runTextMode(args, opts.extractOptions())
			}
			if opts.configPath == "" {
				return fmt.Errorf("a config file is required (use -c)")
			}
			return runPipeline(args, opts)
		},
	}

	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", "", "path to a parser config file")
	rootCmd.Flags().StringVarP(&opts.outputDir, "output-dir", "o", ".", "directory to write transaction files")
	rootCmd.Flags().BoolVar(&opts.pdfToText, "pdf-to-text", false, "write each statement's text to a sibling .txt file instead of parsing")
	rootCmd.Flags().IntVar(&opts.pageMin, "page-min", 0, "first statement page to extract (1-based)")
	rootCmd.Flags().IntVar(&opts.pageMax, "page-max", 0, "last statement page to extract")

	return rootCmd
}

type runOptions struct {
	configPath string
	outputDir  string
	pdfToText  bool
	pageMin    int
	pageMax    int
}

func (o runOptions) extractOptions() extract.Options {
	return extract.Options{PageMin: o.pageMin, PageMax: o.pageMax}
}
