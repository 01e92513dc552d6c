package config

import (
	"os"
	"time"

	"github.com/cleakr/cleakr/pkg/diagparse"
	"github.com/cleakr/cleakr/pkg/summarize"
)

// Default values for configuration.
const (
	DefaultModel          = "gemini-2.0-flash"
	DefaultConcurrency    = 4
	DefaultLogFile        = "log/cleakr.log"
	DefaultStd            = "-std=c11"
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvModel   = "CLEAKR_MODEL"
	EnvLogFile = "CLEAKR_LOG_FILE"
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Keywords: append([]string(nil), diagparse.DefaultKeywords...),
		Clang: ClangConfig{
			TidyArgs: []string{DefaultStd},
			ASTArgs:  []string{DefaultStd},
		},
		Summarizer: SummarizerConfig{
			Model:       DefaultModel,
			MaxChars:    summarize.DefaultMaxChars,
			Concurrency: DefaultConcurrency,
		},
		LogFile: DefaultLogFile,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() {
	if model := os.Getenv(EnvModel); model != "" {
		c.Summarizer.Model = model
	}
	if logFile := os.Getenv(EnvLogFile); logFile != "" {
		c.LogFile = logFile
	}
}
