// Package output renders leak analysis results for hosts (editor JSON on
// stdout) and for humans (colored text).
package output

import (
	"time"

	"github.com/cleakr/cleakr/pkg/diagparse"
)

// SeverityWarning is the severity value hosts expect for leak diagnostics.
const SeverityWarning = 2

// Diagnostic is one editor-facing diagnostic entry. Lnum and Col are
// zero-based, as the host contract requires.
type Diagnostic struct {
	Filename string `json:"filename"`
	Lnum     int    `json:"lnum"`
	Col      int    `json:"col"`
	Message  string `json:"message"`
	Severity int    `json:"severity"`
}

// FromRecord builds a diagnostic from an emitted leak record and its
// summary message.
func FromRecord(rec diagparse.LeakRecord, message string) Diagnostic {
	return Diagnostic{
		Filename: rec.Location.File,
		Lnum:     rec.Lnum,
		Col:      rec.Col,
		Message:  message,
		Severity: SeverityWarning,
	}
}

// Report is the complete analysis output, used by the text formatter and
// webhook delivery. The host JSON contract is the bare Diagnostics array.
type Report struct {
	Diagnostics []Diagnostic `json:"diagnostics"`
	Metadata    Metadata     `json:"metadata"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// Sources lists the files that were analyzed.
	Sources []string `json:"sources"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzed_at"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report for the given diagnostics.
func NewReport(diags []Diagnostic, sources []string, duration time.Duration) *Report {
	return &Report{
		Diagnostics: diags,
		Metadata: Metadata{
			Sources:    sources,
			AnalyzedAt: time.Now(),
			Duration:   duration,
		},
	}
}

// HasLeaks returns true if any diagnostics were produced.
func (r *Report) HasLeaks() bool {
	return len(r.Diagnostics) > 0
}
