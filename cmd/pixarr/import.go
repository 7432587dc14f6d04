package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pixarr/pixarr/internal/download"
	"github.com/pixarr/pixarr/internal/fetch"
	"github.com/pixarr/pixarr/internal/importer"
	"github.com/pixarr/pixarr/internal/scrape"
)

var (
	importMaxAlbums   int
	importConcurrency int
	importQuiet       bool
)

var importCmd = &cobra.Command{
	Use:   "import [listing-url]",
	Short: "Import albums from the gallery source",
	Long: `Import albums from the configured gallery source.

Fetches the album listing, extracts album and image links, downloads each
image into local storage, and records everything in the library database.
Re-running against the same source skips everything already imported.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runImportCmd,
}

func init() {
	importCmd.Flags().IntVar(&importMaxAlbums, "max-albums", -1, "Stop after importing this many albums (0 = unlimited)")
	importCmd.Flags().IntVar(&importConcurrency, "concurrency", 0, "Concurrent image downloads per album (1-8)")
	importCmd.Flags().BoolVar(&importQuiet, "quiet", false, "Suppress progress output")
	rootCmd.AddCommand(importCmd)
}

func runImportCmd(cmd *cobra.Command, args []string) error {
	a, err := newApp(configPath)
	if err != nil {
		return err
	}
	defer a.Close()

	listingURL := a.cfg.Source.BaseURL
	if len(args) > 0 {
		listingURL = args[0]
	}
	if listingURL == "" {
		return fmt.Errorf("no listing URL: pass one as an argument or set source.base_url")
	}

	base, err := fetch.ResolveBase(listingURL)
	if err != nil {
		return fmt.Errorf("parsing listing URL: %w", err)
	}

	src := a.cfg.Source
	pageClient := fetch.NewClient(
		fetch.WithTimeout(src.PageTimeout.Duration),
		fetch.WithConnectTimeout(src.ConnectTimeout.Duration),
		fetch.WithMaxRedirects(src.MaxRedirects),
		fetch.WithUserAgent(src.UserAgent),
		fetch.WithInsecureTLS(src.InsecureSkipVerify),
	)
	imageClient := fetch.NewClient(
		fetch.WithTimeout(src.ImageTimeout.Duration),
		fetch.WithConnectTimeout(src.ConnectTimeout.Duration),
		fetch.WithMaxRedirects(src.MaxRedirects),
		fetch.WithUserAgent(src.UserAgent),
		fetch.WithInsecureTLS(src.InsecureSkipVerify),
		fetch.WithMaxBodyBytes(64<<20),
	)

	dl := download.New(imageClient, a.blobs,
		download.WithRetries(a.cfg.Import.Retries),
		download.WithLogger(a.log),
	)
	ex := scrape.New(base, src.AlbumPathMarker, a.log)

	opts := importer.Options{
		MaxAlbums:   a.cfg.Import.MaxAlbums,
		Concurrency: a.cfg.Import.Concurrency,
		ImageDelay:  a.cfg.Import.ImageDelay.Duration,
		AlbumDelay:  a.cfg.Import.AlbumDelay.Duration,
	}
	if importMaxAlbums >= 0 {
		opts.MaxAlbums = importMaxAlbums
	}
	if importConcurrency > 0 {
		opts.Concurrency = importConcurrency
	}
	if !importQuiet {
		opts.Progress = printProgress
	}

	imp := importer.New(a.store, pageClient, dl, ex, opts, a.log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stats, runErr := imp.Run(ctx, listingURL)

	fmt.Println(stats.Summary())
	for _, e := range stats.Errors {
		fmt.Fprintf(os.Stderr, "  error: %s\n", e)
	}
	if runErr != nil {
		fmt.Fprintln(os.Stderr, "import cancelled, partial results kept")
	}
	if len(stats.Errors) > 0 && stats.ImportedAlbums == 0 && stats.ImportedImages == 0 {
		return fmt.Errorf("import failed: %d errors, nothing imported", len(stats.Errors))
	}
	return nil
}

func printProgress(phase importer.Phase, current, total int, message string) {
	fmt.Fprintf(os.Stderr, "[%s] %d/%d %s\n", phase, current, total, message)
}
