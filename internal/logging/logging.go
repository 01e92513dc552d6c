// Package logging configures the process-wide logger. Stdout is reserved
// for structured payloads, so logs go to a file (or stderr as a fallback).
package logging

import (
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"
)

// Setup points the global logger at the given file, creating parent
// directories as needed. When the file cannot be opened, logging falls back
// to stderr rather than failing the run.
func Setup(path string, verbose bool) {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if verbose {
		log.SetLevel(log.DebugLevel)
	}

	if path == "" {
		log.SetOutput(os.Stderr)
		return
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			log.SetOutput(os.Stderr)
			log.WithError(err).Warn("cannot create log directory, logging to stderr")
			return
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) // #nosec G304 -- configured log path
	if err != nil {
		log.SetOutput(os.Stderr)
		log.WithError(err).Warn("cannot open log file, logging to stderr")
		return
	}

	log.SetOutput(f)
}
