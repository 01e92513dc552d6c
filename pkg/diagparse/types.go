// Package diagparse reconstructs structured leak records from the raw
// line-oriented diagnostic text emitted by clang-tidy.
package diagparse

// Location identifies a source position as reported by the analyzer.
// File is the path exactly as printed (not normalized); Line and Col are
// 1-based. Two locations are equal iff all three fields compare equal.
type Location struct {
	File string
	Line int
	Col  int
}

// Header holds the fields extracted from a diagnostic header line.
type Header struct {
	// File, Line, Col are the reported location (1-based).
	File string
	Line int
	Col  int

	// Severity is the lowercased severity keyword (warning, note, error).
	Severity string

	// Keyword is the memory-related keyword that put the line in scope.
	Keyword string
}

// Location returns the header's source location.
func (h Header) Location() Location {
	return Location{File: h.File, Line: h.Line, Col: h.Col}
}

// LeakRecord is one grouped, deduplicated diagnostic block.
// Records are immutable once emitted by the parser.
type LeakRecord struct {
	// Location is the reported location of the block's first header line
	// (1-based, as printed by the analyzer).
	Location Location

	// Lnum and Col are the zero-based line and column exposed to hosts.
	Lnum int
	Col  int

	// RawMessage is the block's lines joined by newline, in input order.
	RawMessage string

	// VarName is the best-effort extracted variable name, or "unknown".
	VarName string
}
