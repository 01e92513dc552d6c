// Package config provides configuration loading and validation for cleakr.
package config

import "time"

// Config is the root configuration structure loaded from YAML.
// Every field has a sensible default; a config file is optional.
type Config struct {
	// Keywords gate which diagnostics are in scope. A header line is only
	// considered when its message mentions one of these.
	Keywords []string `yaml:"keywords,omitempty"`

	Clang      ClangConfig      `yaml:"clang,omitempty"`
	Summarizer SummarizerConfig `yaml:"summarizer,omitempty"`

	// LogFile is where process logs go; stdout is reserved for payloads.
	LogFile string `yaml:"log_file,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// ClangConfig holds arguments passed to the clang toolchain.
type ClangConfig struct {
	// TidyArgs are appended after `--` on the clang-tidy command line.
	TidyArgs []string `yaml:"tidy_args,omitempty"`

	// ASTArgs are appended to the clang AST-dump command line.
	ASTArgs []string `yaml:"ast_args,omitempty"`
}

// SummarizerConfig controls the LLM summarization stage.
type SummarizerConfig struct {
	// Model is the Gemini model name.
	Model string `yaml:"model,omitempty"`

	// MaxChars is the recommendation character budget, also used by the
	// truncation fallback.
	MaxChars int `yaml:"max_chars,omitempty"`

	// Concurrency bounds parallel per-leak summarization calls.
	Concurrency int `yaml:"concurrency,omitempty"`

	// Disabled skips summarization entirely; diagnostics carry the
	// truncated raw message instead.
	Disabled bool `yaml:"disabled,omitempty"`
}

// WebhookTrigger controls when a webhook fires.
type WebhookTrigger string

const (
	TriggerOnLeaks WebhookTrigger = "on_leaks"
	TriggerAlways  WebhookTrigger = "always"
	TriggerNever   WebhookTrigger = "never"
)

// WebhookConfig defines one report delivery endpoint.
type WebhookConfig struct {
	Name    string        `yaml:"name,omitempty"`
	URL     string        `yaml:"url"`
	Token   string        `yaml:"token,omitempty"`
	Trigger string        `yaml:"trigger,omitempty"` // on_leaks, always, never
	Timeout time.Duration `yaml:"timeout,omitempty"`
}

// TriggerEnum returns the webhook trigger, defaulting to on_leaks.
func (w *WebhookConfig) TriggerEnum() WebhookTrigger {
	if w.Trigger == "" {
		return TriggerOnLeaks
	}
	return WebhookTrigger(w.Trigger)
}
