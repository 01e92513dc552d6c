package config

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads and validates a configuration file. An empty path returns the
// defaults (with environment overrides applied): a config file is optional.
func Load(_ context.Context, path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path is expected
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	cfg.applyEnvironmentOverrides()

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

// Validate checks a configuration for errors.
func Validate(cfg *Config) error {
	if len(cfg.Keywords) == 0 {
		return errors.New("keywords: at least one keyword is required")
	}
	for i, kw := range cfg.Keywords {
		if strings.TrimSpace(kw) == "" {
			return fmt.Errorf("keywords[%d]: keyword must not be blank", i)
		}
	}

	if cfg.Summarizer.Model == "" {
		return errors.New("summarizer: model is required")
	}
	if cfg.Summarizer.MaxChars < 1 {
		return errors.New("summarizer: max_chars must be positive")
	}
	if cfg.Summarizer.Concurrency < 1 {
		return errors.New("summarizer: concurrency must be positive")
	}

	for i := range cfg.Webhooks {
		if err := validateWebhook(&cfg.Webhooks[i]); err != nil {
			name := cfg.Webhooks[i].Name
			if name == "" {
				name = cfg.Webhooks[i].URL
			}
			return fmt.Errorf("webhooks[%d] (%s): %w", i, name, err)
		}
	}

	return nil
}

func validateWebhook(w *WebhookConfig) error {
	if w.URL == "" {
		return errors.New("url is required")
	}

	u, err := url.Parse(w.URL)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("url scheme must be http or https, got %q", u.Scheme)
	}

	switch w.TriggerEnum() {
	case TriggerOnLeaks, TriggerAlways, TriggerNever:
	default:
		return fmt.Errorf("invalid trigger %q (must be on_leaks, always, or never)", w.Trigger)
	}

	if w.Timeout == 0 {
		w.Timeout = DefaultWebhookTimeout
	}

	return nil
}
