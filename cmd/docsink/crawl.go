package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/docsink/docsink/internal/archive"
	"github.com/docsink/docsink/internal/config"
	"github.com/docsink/docsink/internal/crawler"
	"github.com/docsink/docsink/internal/database"
	docslog "github.com/docsink/docsink/internal/log"
	"github.com/docsink/docsink/internal/model"
	"github.com/docsink/docsink/internal/output"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl <root-url>",
		Short: "Crawl a documentation site and extract its content",
		Long: `Crawl starts from the given root URL, follows every link on the same
origin, and extracts the content region of each page.

Each page is written to the output directory in three representations
(index.md, index.html, index.txt) under a directory derived from its
URL path. The crawl finishes with a metadata.json index, a SUMMARY.md
report, and a gzip-compressed archive of the output directory.

Examples:
  # Crawl a documentation site with defaults
  docsink crawl https://docs.example.com/

  # Narrow extraction to a custom content region
  docsink crawl --selector "main.docs" https://docs.example.com/

  # Slow, patient crawl of a fragile site
  docsink crawl --concurrency 4 --retry-delay 10s https://docs.example.com/

Configuration file (.docsink) example:
  sites:
    https://docs.example.com:
      selector: "div.markdown-body"
      concurrency: 8
      headers:
        Authorization: "Bearer token"`,
		Args: cobra.ExactArgs(1),
		RunE: runCrawlCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Output directory for extracted pages (destroyed and recreated per run)")
	cmd.Flags().IntP("concurrency", "k", config.DefaultConcurrency,
		"Maximum number of pages fetched and processed at once")
	cmd.Flags().IntP("max-retries", "r", config.DefaultMaxRetries,
		"Number of retries after a failed fetch before the URL is abandoned")
	cmd.Flags().Duration("retry-delay", config.DefaultRetryDelay,
		"Fixed delay before a failed fetch is retried")
	cmd.Flags().DurationP("timeout", "t", config.DefaultFetchTimeout,
		"Timeout for each HTTP request")
	cmd.Flags().StringP("selector", "s", config.DefaultSelector,
		"CSS selector locating the content region on each page")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with each request")
	cmd.Flags().Int64("max-body-size", config.DefaultMaxBodySize,
		"Maximum response body size in bytes read per page")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .docsink in current or home directory)")
	cmd.Flags().Bool("no-archive", false,
		"Skip creating the compressed archive of the output directory")
	cmd.Flags().Bool("no-history", false,
		"Skip recording the crawl in the local history database")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := docslog.NewLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Cancellation fails every outstanding and future fetch, so the
	// frontier drains and the crawl winds down through the normal
	// completion path with whatever was extracted so far.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.RootURL = args[0]
	cfg.Verbose = getVerboseFlag(cmd)

	var err error

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Concurrency, err = cmd.Flags().GetInt("concurrency")
	if err != nil {
		return nil, err
	}

	cfg.MaxRetries, err = cmd.Flags().GetInt("max-retries")
	if err != nil {
		return nil, err
	}

	cfg.RetryDelay, err = cmd.Flags().GetDuration("retry-delay")
	if err != nil {
		return nil, err
	}

	cfg.FetchTimeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.Selector, err = cmd.Flags().GetString("selector")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.MaxBodySize, err = cmd.Flags().GetInt64("max-body-size")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	noArchive, err := cmd.Flags().GetBool("no-archive")
	if err != nil {
		return nil, err
	}
	cfg.SkipArchive = noArchive

	noHistory, err := cmd.Flags().GetBool("no-history")
	if err != nil {
		return nil, err
	}
	cfg.SaveHistory = !noHistory
	cfg.DBDir = config.XDGDataDir()

	// Load site-specific configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	return cfg, nil
}

// runCrawl executes the crawl and its finalization steps.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	store, err := output.NewStore(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to prepare output directory: %w", err)
	}

	engine, err := crawler.NewEngine(cfg, store, logger)
	if err != nil {
		return fmt.Errorf("failed to build crawler: %w", err)
	}

	fmt.Printf("Crawling %s...\n", cfg.RootURL)

	summary, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	fmt.Printf("Crawl completed in %s: %d pages extracted, %d URLs abandoned\n",
		summary.Elapsed().Round(time.Millisecond), len(summary.Pages), len(summary.Abandoned))

	finalize(ctx, cfg, store, summary, logger)
	return nil
}

// finalize writes the metadata index and the summary report, creates
// the archive, and records the session in the history database. Every
// step is best-effort: a failure is logged but never invalidates the
// per-page outputs already on disk.
func finalize(ctx context.Context, cfg *config.Config, store *output.Store, summary *model.CrawlSummary, logger *slog.Logger) {
	if err := store.WriteMetadata(summary.Pages); err != nil {
		logger.Error("failed to write metadata index", "error", err)
	}

	if err := store.WriteSummary(summary); err != nil {
		logger.Error("failed to write summary report", "error", err)
	}

	if !cfg.SkipArchive {
		archivePath := archive.DefaultName(cfg.OutputDir)
		if err := archive.Create(archivePath, cfg.OutputDir); err != nil {
			logger.Error("failed to create archive", "error", err)
		} else {
			fmt.Printf("Archive written to %s\n", archivePath)
		}
	}

	if cfg.SaveHistory {
		saveCrawlHistory(ctx, cfg, summary, logger)
	}
}

// saveCrawlHistory records the completed session in the SQLite history
// database.
func saveCrawlHistory(ctx context.Context, cfg *config.Config, summary *model.CrawlSummary, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close() //nolint:errcheck // read path is done, close error is unactionable

	id, err := db.SaveCrawl(ctx, summary)
	if err != nil {
		logger.Error("failed to save crawl history", "error", err)
		return
	}
	logger.Info("crawl session recorded", "session", id, "dir", cfg.DBDir)
}
