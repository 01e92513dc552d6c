// Package detector analyzes captured analyzer output to report how much of
// it is recognizable diagnostic text, before a full parse is attempted.
package detector

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/cleakr/cleakr/pkg/diagparse"
)

// Result holds the statistics from sampling a capture file.
type Result struct {
	SampledLines int // Number of lines sampled
	HeaderLines  int // Lines that are structurally header-shaped
	InScopeLines int // Header-shaped lines that pass the keyword gate

	// Severities counts in-scope lines per severity keyword.
	Severities map[string]int

	// Keywords counts in-scope lines per gate keyword.
	Keywords map[string]int

	// SampleLine is the first in-scope line encountered.
	SampleLine string
}

// HasDiagnostics returns true if any in-scope line was found.
func (r *Result) HasDiagnostics() bool {
	return r.InScopeLines > 0
}

// Coverage returns the fraction of sampled lines that are in scope.
func (r *Result) Coverage() float64 {
	if r.SampledLines == 0 {
		return 0
	}
	return float64(r.InScopeLines) / float64(r.SampledLines)
}

// Detector samples capture files and classifies their lines.
type Detector struct {
	classifier *diagparse.Classifier
	sampleSize int
}

// Option configures the Detector.
type Option func(*Detector)

// WithSampleSize sets the number of lines to sample (default 200).
func WithSampleSize(n int) Option {
	return func(d *Detector) {
		if n > 0 {
			d.sampleSize = n
		}
	}
}

// WithKeywords overrides the keyword gate used for classification.
func WithKeywords(keywords []string) Option {
	return func(d *Detector) {
		d.classifier = diagparse.NewClassifier(keywords)
	}
}

// New creates a new Detector with the default keyword gate.
func New(opts ...Option) *Detector {
	d := &Detector{
		classifier: diagparse.NewClassifier(nil),
		sampleSize: 200,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// DetectFromFile samples a capture file and returns its statistics.
func (d *Detector) DetectFromFile(ctx context.Context, path string) (*Result, error) {
	lines, err := d.sampleFile(ctx, path)
	if err != nil {
		return nil, err
	}
	return d.DetectFromLines(lines), nil
}

// DetectFromLines analyzes a slice of captured lines.
func (d *Detector) DetectFromLines(lines []string) *Result {
	result := &Result{
		Severities: make(map[string]int),
		Keywords:   make(map[string]int),
	}

	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		result.SampledLines++

		if _, ok := d.classifier.MatchHeader(line); !ok {
			continue
		}
		result.HeaderLines++

		h, ok := d.classifier.Classify(line)
		if !ok {
			continue
		}
		result.InScopeLines++
		result.Severities[h.Severity]++
		result.Keywords[h.Keyword]++
		if result.SampleLine == "" {
			result.SampleLine = line
		}
	}

	return result
}

func (d *Detector) sampleFile(ctx context.Context, path string) ([]string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return nil, fmt.Errorf("opening capture file %s: %w", path, err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() && len(lines) < d.sampleSize {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	return lines, nil
}
