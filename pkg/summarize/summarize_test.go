package summarize

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
)

// fakeSummarizer returns canned per-leak summaries or a fixed error.
type fakeSummarizer struct {
	err   error
	calls int
}

func (f *fakeSummarizer) Summarize(_ context.Context, req Request) (string, error) {
	f.calls++
	if f.err != nil {
		return "", f.err
	}
	return "Leak: " + req.VarName + "; Rec: free it.", nil
}

// fakeBatchSummarizer also implements the batch interface.
type fakeBatchSummarizer struct {
	fakeSummarizer
	batchOut []string
	batchErr error
}

func (f *fakeBatchSummarizer) SummarizeBatch(_ context.Context, reqs []Request) ([]string, error) {
	if f.batchErr != nil {
		return nil, f.batchErr
	}
	return f.batchOut, nil
}

func TestFallback(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		maxChars int
		want     string
	}{
		{"short message untouched", "leak of 'p'", 60, "leak of 'p'"},
		{"long message truncated", strings.Repeat("x", 100), 60, strings.Repeat("x", 60)},
		{"exact budget untouched", strings.Repeat("x", 60), 60, strings.Repeat("x", 60)},
		{"zero budget uses default", strings.Repeat("x", 100), 0, strings.Repeat("x", 60)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Fallback(tt.raw, tt.maxChars); got != tt.want {
				t.Errorf("Fallback() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAll_PerLeak(t *testing.T) {
	fake := &fakeSummarizer{}
	reqs := []Request{
		{VarName: "buf", RawMessage: "leak of 'buf'"},
		{VarName: "ptr", RawMessage: "leak of 'ptr'"},
	}

	got, err := All(context.Background(), fake, reqs, 60, 2)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Got %d summaries, want 2", len(got))
	}
	// Order must follow the request order regardless of concurrency.
	if !strings.Contains(got[0], "buf") || !strings.Contains(got[1], "ptr") {
		t.Errorf("Summaries out of order: %v", got)
	}
}

func TestAll_FallbackOnFailure(t *testing.T) {
	fake := &fakeSummarizer{err: errors.New("api down")}
	raw := strings.Repeat("leak details ", 20)
	reqs := []Request{{VarName: "buf", RawMessage: raw}}

	got, err := All(context.Background(), fake, reqs, 60, 1)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if want := Fallback(raw, 60); got[0] != want {
		t.Errorf("Summary = %q, want fallback %q", got[0], want)
	}
}

func TestAll_BatchPreferred(t *testing.T) {
	fake := &fakeBatchSummarizer{batchOut: []string{"one", "two"}}
	reqs := make([]Request, 2)

	got, err := All(context.Background(), fake, reqs, 60, 1)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if got[0] != "one" || got[1] != "two" {
		t.Errorf("Summaries = %v, want batch output", got)
	}
	if fake.calls != 0 {
		t.Errorf("Per-leak path used %d times despite batch success", fake.calls)
	}
}

func TestAll_BatchCountMismatchIsFatal(t *testing.T) {
	fake := &fakeBatchSummarizer{batchOut: []string{"only one"}}
	reqs := make([]Request, 3)

	_, err := All(context.Background(), fake, reqs, 60, 1)
	if !errors.Is(err, ErrCountMismatch) {
		t.Fatalf("All() error = %v, want ErrCountMismatch", err)
	}
}

func TestAll_BatchErrorFallsBackPerLeak(t *testing.T) {
	fake := &fakeBatchSummarizer{batchErr: errors.New("network error")}
	reqs := []Request{{VarName: "buf", RawMessage: "leak of 'buf'"}}

	got, err := All(context.Background(), fake, reqs, 60, 1)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if fake.calls != 1 {
		t.Errorf("Per-leak calls = %d, want 1", fake.calls)
	}
	if !strings.Contains(got[0], "buf") {
		t.Errorf("Summary = %q", got[0])
	}
}

func TestAll_EmptyRequests(t *testing.T) {
	got, err := All(context.Background(), &fakeSummarizer{}, nil, 60, 1)
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Got %d summaries, want 0", len(got))
	}
}

func TestBuildPrompt(t *testing.T) {
	req := Request{VarName: "buf", RawMessage: "leak of 'buf'", ASTContext: "function: main"}
	prompt := buildPrompt(req, 60)

	for _, want := range []string{
		"Variable: buf",
		"Leak details: leak of 'buf'",
		"AST context: function: main",
		"under 60 chars",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("Prompt missing %q:\n%s", want, prompt)
		}
	}
}

func TestBuildPrompt_EmptyASTContext(t *testing.T) {
	prompt := buildPrompt(Request{VarName: "p", RawMessage: "leak"}, 60)
	if !strings.Contains(prompt, "AST context: No AST context") {
		t.Errorf("Prompt missing placeholder AST context:\n%s", prompt)
	}
}

func TestBuildBatchPrompt(t *testing.T) {
	reqs := []Request{
		{VarName: "a", RawMessage: "leak a"},
		{VarName: "b", RawMessage: "leak b"},
	}
	prompt := buildBatchPrompt(reqs, 60)

	for i := range reqs {
		if !strings.Contains(prompt, fmt.Sprintf("Leak %d:", i+1)) {
			t.Errorf("Prompt missing entry for leak %d:\n%s", i+1, prompt)
		}
	}
	if !strings.Contains(prompt, "JSON array") {
		t.Errorf("Prompt missing JSON array instruction:\n%s", prompt)
	}
}
