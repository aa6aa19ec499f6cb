package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsink/docsink/internal/config"
	"github.com/docsink/docsink/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [root-url]",
		Short: "List past crawl sessions",
		Long: `History lists crawl sessions recorded in the local database, newest
first. An optional root URL argument restricts the listing to crawls of
that site.

Examples:
  # List the most recent sessions across all sites
  docsink history

  # List sessions for one site, with per-page detail
  docsink history --pages https://docs.example.com/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of sessions to list (0 for all)")
	cmd.Flags().Bool("pages", false, "Also list the pages extracted in each session")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	withPages, err := cmd.Flags().GetBool("pages")
	if err != nil {
		return err
	}

	rootURL := ""
	if len(args) == 1 {
		rootURL = args[0]
	}

	// The database must already exist; history never creates one.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no crawl history available: %w", err)
	}
	defer db.Close() //nolint:errcheck // read-only access

	sessions, err := db.RecentSessions(cmd.Context(), rootURL, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded crawl sessions.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, s := range sessions {
		fmt.Fprintf(out, "#%d  %s  %s  %d pages, %d abandoned (%s)\n",
			s.ID,
			s.Started.Format("2006-01-02 15:04:05"),
			s.RootURL,
			s.Pages,
			s.Abandoned,
			s.Finished.Sub(s.Started).Round(time.Second),
		)
		if !withPages {
			continue
		}
		pages, err := db.SessionPages(cmd.Context(), s.ID)
		if err != nil {
			return fmt.Errorf("failed to read pages of session %d: %w", s.ID, err)
		}
		for _, p := range pages {
			path := p.Path
			if path == "" {
				path = "."
			}
			fmt.Fprintf(out, "    %-30s %s\n", path, p.URL)
		}
	}

	return nil
}
