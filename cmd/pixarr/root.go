package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var configPath string

var rootCmd = &cobra.Command{
	Use:   "pixarr",
	Short: "Photo album importer",
	Long: `pixarr - photo album importer

Scrapes album listings from a configured gallery source, downloads the
images, and files them into a local library.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "config.toml", "Path to config file")

	rootCmd.Version = version
	rootCmd.SetVersionTemplate("pixarr {{.Version}}\n")
}
