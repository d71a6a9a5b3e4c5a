package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jonathan/pmc-harvester/internal/config"
	"github.com/jonathan/pmc-harvester/internal/observability"
	"github.com/jonathan/pmc-harvester/internal/schemas"
)

var verifyCommand = &cobra.Command{
	Use:   "verify",
	Short: "Check every output line against the record schema",
	Long:  "Validates each line of the configured JSONL output files against the embedded record JSON Schema and exits non-zero if any line is invalid.",
	RunE:  runVerifyCmd,
}

var verifyLang string

func init() {
	verifyCommand.Flags().StringVarP(&verifyLang, "lang", "l", "", "Only verify this language (en or mr)")

	rootCmd.AddCommand(verifyCommand)
}

func runVerifyCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(config.FromEnv())
	if err != nil {
		return err
	}
	return verifyOutputs(cfg, verifyLang, cmd.OutOrStdout())
}

// verifyOutputs prints a report per selected output file.
func verifyOutputs(cfg *config.Config, lang string, out io.Writer) error {
	sources, err := selectSources(cfg, lang)
	if err != nil {
		return err
	}

	validator, err := schemas.NewRecordValidator()
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(out)
	invalid := 0
	for _, src := range sources {
		report, err := validator.VerifyFile(src.OutputFile, src.Lang)
		if err != nil {
			return err
		}
		printer.PrintVerifyReport(report)
		invalid += len(report.Invalid)
	}

	if invalid > 0 {
		return fmt.Errorf("%d invalid line(s) found", invalid)
	}
	return nil
}
