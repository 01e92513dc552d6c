package output

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
)

// Payload prefixes for the progressive stdout protocol. Each payload is a
// single prefixed JSON line, written and flushed immediately so the host
// can act on the provisional records before summarization completes.
const (
	PrefixLoading = "LOADING"
	PrefixFinal   = "FINAL"
)

// JSONFormatter writes the host contract: one JSON array of diagnostics.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// Format renders the diagnostics array as a single JSON line. Hosts parse
// the array; Report metadata is only included in verbose mode.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	if f.opts.Verbose {
		return encoder.Encode(report)
	}
	return encoder.Encode(diagsOrEmpty(report.Diagnostics))
}

// WriteLoading emits the provisional payload line.
func WriteLoading(w io.Writer, diags []Diagnostic) error {
	return writePrefixed(w, PrefixLoading, diags)
}

// WriteFinal emits the terminal payload line with complete records.
func WriteFinal(w io.Writer, diags []Diagnostic) error {
	return writePrefixed(w, PrefixFinal, diags)
}

func writePrefixed(w io.Writer, prefix string, diags []Diagnostic) error {
	data, err := json.Marshal(diagsOrEmpty(diags))
	if err != nil {
		return fmt.Errorf("marshaling %s payload: %w", prefix, err)
	}
	if _, err := fmt.Fprintf(w, "%s %s\n", prefix, data); err != nil {
		return fmt.Errorf("writing %s payload: %w", prefix, err)
	}
	if f, ok := w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// diagsOrEmpty keeps "no leaks" as [] rather than null on the wire.
func diagsOrEmpty(diags []Diagnostic) []Diagnostic {
	if diags == nil {
		return []Diagnostic{}
	}
	return diags
}
