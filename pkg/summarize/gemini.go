package summarize

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	genai "google.golang.org/genai"
)

// EnvAPIKey is the environment variable holding the Gemini API key.
const EnvAPIKey = "GEMINI_API_KEY"

// ErrMissingAPIKey is returned when summarization is enabled but no API key
// is configured. This is a configuration error: fatal before any parsing.
var ErrMissingAPIKey = errors.New("summarize: " + EnvAPIKey + " is not set")

// ErrEmptyResponse indicates the model returned no usable candidates.
var ErrEmptyResponse = errors.New("summarize: empty response from model")

const maxAttempts = 3

// Gemini is a thin wrapper around the official genai client.
type Gemini struct {
	cli      *genai.Client
	model    string
	maxChars int
}

var (
	_ Summarizer      = &Gemini{}
	_ BatchSummarizer = &Gemini{}
)

// NewGemini creates a Gemini summarizer. The API key is read from the
// environment by the underlying client.
func NewGemini(ctx context.Context, model string, maxChars int) (*Gemini, error) {
	if os.Getenv(EnvAPIKey) == "" {
		return nil, ErrMissingAPIKey
	}
	if maxChars <= 0 {
		maxChars = DefaultMaxChars
	}

	cli, err := genai.NewClient(ctx, &genai.ClientConfig{Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &Gemini{cli: cli, model: model, maxChars: maxChars}, nil
}

// Summarize produces a recommendation for a single leak.
func (g *Gemini) Summarize(ctx context.Context, req Request) (string, error) {
	txt, err := g.generate(ctx, buildPrompt(req, g.maxChars), "")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(txt), nil
}

// SummarizeBatch produces one recommendation per leak in a single call.
// A response whose length differs from the request count is reported as
// ErrCountMismatch so the caller can fail loudly.
func (g *Gemini) SummarizeBatch(ctx context.Context, reqs []Request) ([]string, error) {
	if len(reqs) == 0 {
		return nil, nil
	}

	txt, err := g.generate(ctx, buildBatchPrompt(reqs, g.maxChars), "application/json")
	if err != nil {
		return nil, err
	}

	var out []string
	if err := json.Unmarshal([]byte(txt), &out); err != nil {
		return nil, fmt.Errorf("summarize: invalid JSON from model: %w", err)
	}
	if len(out) != len(reqs) {
		return nil, fmt.Errorf("%w: got %d summaries for %d leaks",
			ErrCountMismatch, len(out), len(reqs))
	}

	for i, s := range out {
		out[i] = strings.TrimSpace(s)
	}
	return out, nil
}

// generate calls the model with bounded retries and exponential backoff.
func (g *Gemini) generate(ctx context.Context, prompt, mimeType string) (string, error) {
	cfg := &genai.GenerateContentConfig{
		Temperature:     genai.Ptr[float32](0.3),
		MaxOutputTokens: 40,
	}
	if mimeType != "" {
		cfg.ResponseMIMEType = mimeType
		cfg.MaxOutputTokens = 0 // batch responses need room for the full array
	}

	log.WithField("bytes", len(prompt)).Debug("LLM request")

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		resp, err := g.cli.Models.GenerateContent(ctx, g.model,
			[]*genai.Content{{Parts: []*genai.Part{{Text: prompt}}}},
			cfg,
		)
		switch {
		case err != nil:
			lastErr = err
		case len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
			len(resp.Candidates[0].Content.Parts) == 0:
			lastErr = ErrEmptyResponse
		default:
			return resp.Candidates[0].Content.Parts[0].Text, nil
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(time.Duration(300*(1<<attempt)) * time.Millisecond):
		}
	}
	return "", lastErr
}
