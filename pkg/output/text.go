package output

import (
	"context"
	"fmt"
	"io"

	"github.com/fatih/color"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	fmt.Fprintf(w, "cleakr: %d leaks in %d files\n",
		len(report.Diagnostics), len(report.Metadata.Sources))
	return nil
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	header := color.New(color.Bold)
	warn := color.New(color.FgYellow)
	loc := color.New(color.FgCyan)

	header.Fprintln(w, "=== cleakr leak report ===")
	fmt.Fprintln(w)

	if len(report.Diagnostics) == 0 {
		fmt.Fprintln(w, "No memory leaks detected.")
		return nil
	}

	for _, d := range report.Diagnostics {
		warn.Fprint(w, "warning")
		fmt.Fprint(w, " ")
		// Locations are shown 1-based for humans.
		loc.Fprintf(w, "%s:%d:%d", d.Filename, d.Lnum+1, d.Col+1)
		fmt.Fprintf(w, "\n  %s\n", d.Message)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d leaks in %d files\n",
		len(report.Diagnostics), len(report.Metadata.Sources))

	if f.opts.Verbose {
		fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
	}

	return nil
}
