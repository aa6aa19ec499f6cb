// Package main provides the entry point for the docsink CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for docsink.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docsink",
		Short: "Mirror a documentation site as Markdown, HTML, and text",
		Long: `docsink crawls a documentation website starting from a root URL,
follows every same-site link, extracts the content region of each page,
and writes three representations per page (Markdown, HTML, plain text)
plus a metadata index and a compressed archive of the whole output.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
