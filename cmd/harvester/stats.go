package main

import (
	"encoding/json"
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/pmc-harvester/internal/config"
	"github.com/jonathan/pmc-harvester/internal/dedup"
	"github.com/jonathan/pmc-harvester/internal/observability"
	"github.com/jonathan/pmc-harvester/internal/types"
)

var statsCommand = &cobra.Command{
	Use:   "stats",
	Short: "Show record counts of the output files",
	Long:  "Counts lines, distinct records (by content hash) and unreadable lines in each configured output file.",
	RunE:  runStatsCmd,
}

var (
	statsLang string
	statsJSON bool
)

func init() {
	statsCommand.Flags().StringVarP(&statsLang, "lang", "l", "", "Only report this language (en or mr)")
	statsCommand.Flags().BoolVar(&statsJSON, "json", false, "Print stats as JSON")

	rootCmd.AddCommand(statsCommand)
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.FromEnv())
	if err != nil {
		return err
	}

	stats, err := collectStats(cfg, statsLang)
	if err != nil {
		return err
	}

	if statsJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(stats)
	}
	observability.NewPrinter(cmd.OutOrStdout()).PrintStats(stats)
	return nil
}

// collectStats loads the dedup index of every selected output file.
func collectStats(cfg *config.Config, lang string) ([]types.OutputStats, error) {
	sources, err := selectSources(cfg, lang)
	if err != nil {
		return nil, err
	}

	stats := make([]types.OutputStats, 0, len(sources))
	for _, src := range sources {
		st := types.OutputStats{Lang: src.Lang, Path: src.OutputFile}

		if _, err := os.Stat(src.OutputFile); err == nil {
			st.Exists = true
		} else if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}

		index, err := dedup.Load(src.OutputFile)
		if err != nil {
			return nil, err
		}
		st.Lines = index.Lines()
		st.Records = index.Len()
		st.Skipped = index.Skipped()
		stats = append(stats, st)
	}
	return stats, nil
}
