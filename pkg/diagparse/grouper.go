package diagparse

import (
	"bufio"
	"strings"
)

// Parser turns raw analyzer output into leak records. A Parser is cheap
// and may be shared; all per-run state lives in a fresh grouper created by
// each Parse call, so seen locations never leak between invocations.
type Parser struct {
	classifier *Classifier
}

// Option configures the Parser.
type Option func(*Parser)

// WithKeywords overrides the keyword gate (default DefaultKeywords).
func WithKeywords(keywords []string) Option {
	return func(p *Parser) {
		p.classifier = NewClassifier(keywords)
	}
}

// NewParser creates a parser with default options.
func NewParser(opts ...Option) *Parser {
	p := &Parser{classifier: NewClassifier(nil)}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Classifier returns the parser's line classifier.
func (p *Parser) Classifier() *Classifier {
	return p.classifier
}

// Parse consumes a complete analyzer output capture and returns the
// grouped, deduplicated leak records in stream order. Empty input yields
// no records; malformed lines are never an error.
func (p *Parser) Parse(text string) []LeakRecord {
	g := newGrouper(p.classifier)

	sc := bufio.NewScanner(strings.NewReader(text))
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024) // 1MB max line size
	for sc.Scan() {
		g.feed(sc.Text())
	}

	return g.finish()
}

// dedupKey collapses multiple diagnostics on the same source line into one
// record. Column and severity are intentionally excluded.
type dedupKey struct {
	file string
	line int // zero-based
}

// grouper accumulates the currently open diagnostic block and owns all
// parse-run state. It has two states: no block open (loc == nil) and block
// open (loc set, block holds the accumulated lines).
type grouper struct {
	classifier *Classifier

	loc   *Location
	block []string

	seen    map[dedupKey]struct{}
	records []LeakRecord
}

func newGrouper(classifier *Classifier) *grouper {
	return &grouper{
		classifier: classifier,
		seen:       make(map[dedupKey]struct{}),
	}
}

// feed advances the state machine by one input line.
func (g *grouper) feed(line string) {
	h, ok := g.classifier.Classify(line)
	if !ok {
		// Continuation of the open block, or pre-header noise.
		if g.loc != nil {
			g.block = append(g.block, line)
		}
		return
	}

	loc := h.Location()
	if g.loc != nil && loc != *g.loc {
		g.emit()
		g.block = nil
		g.loc = nil
	}
	if g.loc == nil {
		g.loc = &loc
	}

	// A header repeated at the same location continues the block; some
	// tools restate it per related note.
	g.block = append(g.block, line)
}

// emit runs the close-and-emit procedure on the open block, suppressing
// duplicates at the same (file, zero-based line).
func (g *grouper) emit() {
	if g.loc == nil || len(g.block) == 0 {
		return
	}

	key := dedupKey{file: g.loc.File, line: g.loc.Line - 1}
	if _, dup := g.seen[key]; dup {
		return
	}
	g.seen[key] = struct{}{}

	raw := strings.Join(g.block, "\n")
	g.records = append(g.records, LeakRecord{
		Location:   *g.loc,
		Lnum:       g.loc.Line - 1,
		Col:        g.loc.Col - 1,
		RawMessage: raw,
		VarName:    ExtractVarName(raw),
	})
}

// finish flushes any still-open block and returns the records.
func (g *grouper) finish() []LeakRecord {
	g.emit()
	g.loc = nil
	g.block = nil
	return g.records
}
