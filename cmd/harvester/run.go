package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/jonathan/pmc-harvester/internal/config"
	"github.com/jonathan/pmc-harvester/internal/fetch"
	"github.com/jonathan/pmc-harvester/internal/harvest"
	"github.com/jonathan/pmc-harvester/internal/observability"
)

var runCommand = &cobra.Command{
	Use:   "run",
	Short: "Fetch, extract and append records for the configured languages",
	Long: `Processes each language's link file in order. Every URL gets up to max_attempts tries;
its outcome is written to success_links_<lang>.txt or failed_links_<lang>.txt, which are
rewritten on every run. Records already present in the output file are not appended again.

Configuration can be loaded from a JSON file using --config. Command-line flags override config file values.`,
	RunE: runHarvestCmd,
}

var (
	runLang        string
	runMaxAttempts int
	runTimeout     int
	runLogDir      string
	runVerifyTLS   bool
)

func init() {
	runCommand.Flags().StringVarP(&runLang, "lang", "l", "", "Only process this language (en or mr)")
	runCommand.Flags().IntVar(&runMaxAttempts, "max-attempts", 0, "Attempts per URL (default from config, 3)")
	runCommand.Flags().IntVar(&runTimeout, "timeout", 0, "Per-request timeout in seconds (default from config, 15)")
	runCommand.Flags().StringVar(&runLogDir, "log-dir", "", "Directory for the success/failure URL logs")
	runCommand.Flags().BoolVar(&runVerifyTLS, "verify-tls", false, "Verify server certificates")

	rootCmd.AddCommand(runCommand)
}

func runHarvestCmd(cmd *cobra.Command, _ []string) error {
	env := config.FromEnv()

	logger, err := setupLogger(os.Stderr, env)
	if err != nil {
		return err
	}

	cfg, err := loadConfig(env)
	if err != nil {
		return err
	}

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("max-attempts") {
		cfg.MaxAttempts = runMaxAttempts
	}
	if flags.Changed("timeout") {
		cfg.TimeoutSeconds = runTimeout
	}
	if flags.Changed("log-dir") {
		cfg.LogDir = runLogDir
	}
	if flags.Changed("verify-tls") {
		cfg.VerifyTLS = runVerifyTLS
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return harvestSources(ctx, cfg, runLang, cmd.OutOrStdout(), logger, observability.NewProgress)
}

// harvestSources runs every selected source in order and prints a summary for
// each. A failing source is logged and the next one still runs; the returned
// error reports how many sources failed.
func harvestSources(ctx context.Context, cfg *config.Config, lang string, out io.Writer, logger zerolog.Logger, progress harvest.ProgressFunc) error {
	sources, err := selectSources(cfg, lang)
	if err != nil {
		return err
	}

	client := fetch.NewClient(&fetch.Options{
		Timeout:   cfg.Timeout(),
		UserAgent: cfg.UserAgent,
		VerifyTLS: cfg.VerifyTLS,
	})
	deps := harvest.Deps{
		Client:   client,
		Policy:   fetch.RetryPolicy{MaxAttempts: cfg.MaxAttempts, Delay: cfg.RetryDelay()},
		Logger:   &logger,
		Progress: progress,
	}
	printer := observability.NewPrinter(out)

	failed := 0
	for _, src := range sources {
		job := harvest.Job{
			Lang:       src.Lang,
			LinksFile:  src.LinksFile,
			OutputFile: src.OutputFile,
			LogDir:     cfg.LogDir,
		}

		summary, err := harvest.Run(ctx, job, deps)
		printer.PrintRunSummary(summary, cfg.Verbose)
		if err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("interrupted while processing %s links: %w", src.Lang, err)
			}
			logger.Error().Err(err).Str("lang", string(src.Lang)).Msg("run failed")
			failed++
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d language run(s) failed", failed, len(sources))
	}
	return nil
}
