// Package main provides the entry point for the PMC harvester CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "harvester",
	Short: "Harvest PMC JSON endpoints into deduplicated JSONL files",
	Long: `Fetches every URL listed in the per-language link files (en, mr), extracts PDF links,
phone numbers and map links, and appends records not seen before to the per-language JSONL output.

Running without a subcommand harvests every configured language with default settings.`,
	SilenceUsage: true,
	RunE:         runHarvestCmd,
}

var (
	configPath string
	verbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json file (defaults to HARVESTER_CONFIG, then built-in defaults)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log every attempt and list failed URLs in the summary")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
