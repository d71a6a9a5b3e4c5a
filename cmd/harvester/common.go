package main

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/jonathan/pmc-harvester/internal/config"
	"github.com/jonathan/pmc-harvester/internal/observability"
	"github.com/jonathan/pmc-harvester/internal/types"
)

// loadConfig resolves the effective configuration from --config, then
// HARVESTER_CONFIG, then the built-in defaults.
func loadConfig(env config.EnvSettings) (*config.Config, error) {
	path := configPath
	if path == "" {
		path = env.ConfigPath
	}

	cfg, err := config.Resolve(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if verbose {
		cfg.Verbose = true
	}
	return cfg, nil
}

// setupLogger builds the console logger; --verbose forces debug level.
func setupLogger(w io.Writer, env config.EnvSettings) (zerolog.Logger, error) {
	level := env.LogLevel
	if verbose {
		level = zerolog.LevelDebugValue
	}
	return observability.SetupLogger(w, level)
}

// selectSources returns the configured sources, restricted to lang when set.
func selectSources(cfg *config.Config, lang string) ([]config.Source, error) {
	if lang == "" {
		return cfg.Sources, nil
	}

	l, err := types.ParseLang(lang)
	if err != nil {
		return nil, err
	}
	src, ok := cfg.SourceFor(l)
	if !ok {
		return nil, fmt.Errorf("language %q is not configured", l)
	}
	return []config.Source{src}, nil
}
