// Package summarize turns leak records into short natural-language fix
// recommendations via an LLM, with a deterministic truncation fallback.
package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// DefaultMaxChars is the character budget for a recommendation and for the
// truncation fallback.
const DefaultMaxChars = 60

// ErrCountMismatch indicates a batch response whose result count does not
// match the request count. Results cannot be safely correlated with their
// leaks, so callers must treat this as fatal rather than misattribute.
var ErrCountMismatch = errors.New("summarize: batch result count mismatch")

// Request carries one leak to summarize.
type Request struct {
	VarName    string
	RawMessage string
	ASTContext string
}

// Summarizer produces a summary/fix string for a single leak.
type Summarizer interface {
	Summarize(ctx context.Context, req Request) (string, error)
}

// BatchSummarizer summarizes several leaks in one call. Implementations
// must return exactly one result per request, in request order.
type BatchSummarizer interface {
	SummarizeBatch(ctx context.Context, reqs []Request) ([]string, error)
}

// Fallback is the deterministic summary used when the model call fails:
// the raw message truncated to maxChars characters.
func Fallback(rawMessage string, maxChars int) string {
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}
	runes := []rune(rawMessage)
	if len(runes) <= maxChars {
		return rawMessage
	}
	return string(runes[:maxChars])
}

// All summarizes every request, preserving order. A batch-capable
// summarizer is tried first; a count mismatch there is fatal, any other
// batch failure falls back to per-leak calls with bounded concurrency.
// Per-leak failures degrade to the truncation fallback, never to an error.
func All(ctx context.Context, s Summarizer, reqs []Request, maxChars, concurrency int) ([]string, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	if bs, ok := s.(BatchSummarizer); ok {
		out, err := bs.SummarizeBatch(ctx, reqs)
		switch {
		case err == nil:
			if len(out) != len(reqs) {
				return nil, fmt.Errorf("%w: got %d summaries for %d leaks",
					ErrCountMismatch, len(out), len(reqs))
			}
			return out, nil
		case errors.Is(err, ErrCountMismatch):
			return nil, err
		default:
			log.WithError(err).Error("batch summarization failed, falling back to per-leak calls")
		}
	}

	if concurrency < 1 {
		concurrency = 1
	}

	results := make([]string, len(reqs))
	grp, gctx := errgroup.WithContext(ctx)
	grp.SetLimit(concurrency)

	for i, req := range reqs {
		grp.Go(func() error {
			summary, err := s.Summarize(gctx, req)
			if err != nil {
				log.WithError(err).WithField("var", req.VarName).
					Error("summarization failed, using truncation fallback")
				summary = Fallback(req.RawMessage, maxChars)
			}
			results[i] = summary
			return nil
		})
	}
	_ = grp.Wait() // workers never return errors

	return results, nil
}

// buildPrompt mirrors the analyzer prompt: variable, details, AST context,
// fixed response format, character budget.
func buildPrompt(req Request, maxChars int) string {
	astContext := req.ASTContext
	if astContext == "" {
		astContext = "No AST context"
	}

	var b strings.Builder
	b.WriteString("Analyze this C memory leak and provide a fix recommendation.\n\n")
	fmt.Fprintf(&b, "Variable: %s\n", req.VarName)
	fmt.Fprintf(&b, "Leak details: %s\n", req.RawMessage)
	fmt.Fprintf(&b, "AST context: %s\n\n", astContext)
	b.WriteString("Respond in this exact format: 'Leak: <variable-name>; Rec: <recommendation>.'\n")
	fmt.Fprintf(&b, "Keep recommendation under %d chars. No warnings, severity, or categories.", maxChars)
	return b.String()
}

// buildBatchPrompt asks for a JSON array with one summary per leak.
func buildBatchPrompt(reqs []Request, maxChars int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Analyze these %d C memory leaks and provide a fix recommendation for each.\n\n", len(reqs))
	for i, req := range reqs {
		astContext := req.ASTContext
		if astContext == "" {
			astContext = "No AST context"
		}
		fmt.Fprintf(&b, "Leak %d:\n", i+1)
		fmt.Fprintf(&b, "Variable: %s\n", req.VarName)
		fmt.Fprintf(&b, "Leak details: %s\n", req.RawMessage)
		fmt.Fprintf(&b, "AST context: %s\n\n", astContext)
	}
	b.WriteString("Respond with a JSON array of strings, exactly one per leak, in order.\n")
	b.WriteString("Each string must have the format 'Leak: <variable-name>; Rec: <recommendation>.'\n")
	fmt.Fprintf(&b, "Keep each recommendation under %d chars. No warnings, severity, or categories.", maxChars)
	return b.String()
}
