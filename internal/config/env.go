package config

import (
	"os"
	"strings"
)

const (
	// EnvConfigPath names the config file used when --config is not given.
	EnvConfigPath = "HARVESTER_CONFIG"
	// EnvLogLevel sets the log level (debug, info, warn, error).
	EnvLogLevel = "HARVESTER_LOG_LEVEL"
)

// DefaultLogLevel is used when HARVESTER_LOG_LEVEL is unset.
const DefaultLogLevel = "info"

// EnvSettings holds the settings read from environment variables.
type EnvSettings struct {
	ConfigPath string
	LogLevel   string
}

// FromEnv reads HARVESTER_CONFIG and HARVESTER_LOG_LEVEL (default: info).
func FromEnv() EnvSettings {
	level := strings.ToLower(strings.TrimSpace(os.Getenv(EnvLogLevel)))
	if level == "" {
		level = DefaultLogLevel // default
	}

	return EnvSettings{
		ConfigPath: strings.TrimSpace(os.Getenv(EnvConfigPath)),
		LogLevel:   level,
	}
}
