// Package config provides configuration loading and validation for the harvester.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/jonathan/pmc-harvester/internal/types"
)

// Source binds a language to its link list and output file.
type Source struct {
	Lang       types.Lang `json:"lang" validate:"required,oneof=en mr"`
	LinksFile  string     `json:"links_file" validate:"required"`
	OutputFile string     `json:"output_file" validate:"required"`
}

// Config represents the harvester configuration that can be loaded from a JSON file.
// All fields are optional; missing values use Default().
type Config struct {
	Sources []Source `json:"sources,omitempty" validate:"omitempty,dive"`

	// Fetching
	TimeoutSeconds int    `json:"timeout_seconds,omitempty" validate:"gte=0"`
	MaxAttempts    int    `json:"max_attempts,omitempty" validate:"gte=0,lte=10"`
	RetryDelayMS   int    `json:"retry_delay_ms,omitempty" validate:"gte=0"`
	UserAgent      string `json:"user_agent,omitempty"`
	VerifyTLS      bool   `json:"verify_tls,omitempty"` // Certificate checks are off unless set

	// Output
	LogDir  string `json:"log_dir,omitempty"` // Directory for success/failure URL logs
	Verbose bool   `json:"verbose,omitempty"` // Print per-URL outcomes in the summary
}

// Default returns the configuration that reproduces a bare invocation:
// eng_links and mr_links in the working directory, records under data/.
func Default() Config {
	linksFiles := map[types.Lang]string{
		types.LangEnglish: "eng_links",
		types.LangMarathi: "mr_links",
	}

	sources := make([]Source, 0, len(linksFiles))
	for _, lang := range types.Langs() {
		sources = append(sources, Source{
			Lang:       lang,
			LinksFile:  linksFiles[lang],
			OutputFile: filepath.Join("data", "pmc_data_"+string(lang)+".jsonl"),
		})
	}

	return Config{
		Sources:        sources,
		TimeoutSeconds: 15,
		MaxAttempts:    3,
		RetryDelayMS:   0,
		LogDir:         ".",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Resolve returns the effective configuration: Default() when path is empty,
// otherwise the file at path merged over the defaults and validated.
func Resolve(path string) (*Config, error) {
	if path == "" {
		cfg := Default()
		return &cfg, nil
	}

	loaded, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}
	merged := loaded.MergeWithDefaults(Default())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

var validate = validator.New()

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("config error: %w", err)
	}

	langs := make(map[types.Lang]bool)
	outputs := make(map[string]bool)
	for _, s := range c.Sources {
		if langs[s.Lang] {
			return fmt.Errorf("config error: language %q configured more than once", s.Lang)
		}
		langs[s.Lang] = true

		out := filepath.Clean(s.OutputFile)
		if outputs[out] {
			return fmt.Errorf("config error: output file %s shared by several sources", s.OutputFile)
		}
		outputs[out] = true
	}

	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if len(result.Sources) == 0 {
		result.Sources = append([]Source(nil), defaults.Sources...)
	}
	if result.TimeoutSeconds == 0 {
		result.TimeoutSeconds = defaults.TimeoutSeconds
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.RetryDelayMS == 0 {
		result.RetryDelayMS = defaults.RetryDelayMS
	}
	if result.UserAgent == "" {
		result.UserAgent = defaults.UserAgent
	}
	if result.LogDir == "" {
		result.LogDir = defaults.LogDir
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge

	return result
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// RetryDelay returns the fixed pause between attempts.
func (c *Config) RetryDelay() time.Duration {
	return time.Duration(c.RetryDelayMS) * time.Millisecond
}

// SourceFor returns the source configured for lang.
func (c *Config) SourceFor(lang types.Lang) (Source, bool) {
	for _, s := range c.Sources {
		if s.Lang == lang {
			return s, true
		}
	}
	return Source{}, false
}
