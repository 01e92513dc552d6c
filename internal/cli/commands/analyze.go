package commands

import (
	"context"
	"fmt"
	"io"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/cleakr/cleakr/internal/logging"
	"github.com/cleakr/cleakr/pkg/astctx"
	"github.com/cleakr/cleakr/pkg/clang"
	"github.com/cleakr/cleakr/pkg/config"
	"github.com/cleakr/cleakr/pkg/diagparse"
	"github.com/cleakr/cleakr/pkg/output"
	"github.com/cleakr/cleakr/pkg/summarize"
	"github.com/cleakr/cleakr/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	ConfigFile string
	Output     string
	Progress   bool
	NoLLM      bool
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze <file.c> [file.c ...]",
		Short: "Analyze C sources for memory leaks",
		Long: `Run clang-tidy on the given C source files, group the memory-related
diagnostics into one record per defect, and print editor-consumable JSON
diagnostics with LLM-generated fix recommendations.

Each file is parsed independently: duplicate suppression never crosses
file boundaries. Glob patterns in the arguments are expanded.

Exit codes:
  0 - No leaks detected
  1 - Leaks detected
  2 - Configuration or runtime error`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (optional)")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "json", "Output format (text|json)")
	cmd.Flags().BoolVar(&opts.Progress, "progress", false, "Emit a provisional LOADING payload before the FINAL one")
	cmd.Flags().BoolVar(&opts.NoLLM, "no-llm", false, "Skip LLM summarization, use truncated raw messages")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Verbose output and debug logging")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only (text output)")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_leaks", "When to fire webhook (on_leaks|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	logging.Setup(cfg.LogFile, opts.Verbose)

	files, err := ExpandGlobs(args)
	if err != nil {
		return fmt.Errorf("expanding source arguments: %w", err)
	}

	// Collaborators are constructed before any parsing so that
	// configuration errors abort the run up front.
	tools, err := clang.Discover(cfg.Clang.TidyArgs, cfg.Clang.ASTArgs)
	if err != nil {
		return err
	}

	var summarizer summarize.Summarizer
	if !opts.NoLLM && !cfg.Summarizer.Disabled {
		summarizer, err = summarize.NewGemini(ctx, cfg.Summarizer.Model, cfg.Summarizer.MaxChars)
		if err != nil {
			return err
		}
	}

	p := &pipeline{
		cfg:        cfg,
		tools:      tools,
		summarizer: summarizer,
		stdout:     cmd.OutOrStdout(),
		progress:   opts.Progress,
	}

	report, err := p.run(ctx, files)
	if err != nil {
		return err
	}

	fireWebhooks(ctx, cfg, opts, report)

	if err := writeReport(ctx, report, opts, p.stdout); err != nil {
		return err
	}

	if report.HasLeaks() {
		ExitCode = 1
	}
	return nil
}

// pipeline runs the full analysis: clang-tidy capture, parsing, AST
// enrichment, and summarization.
type pipeline struct {
	cfg        *config.Config
	tools      *clang.Tools
	summarizer summarize.Summarizer // nil means truncation only
	stdout     io.Writer
	progress   bool
}

func (p *pipeline) run(ctx context.Context, files []string) (*output.Report, error) {
	start := time.Now()
	parser := diagparse.NewParser(diagparse.WithKeywords(p.cfg.Keywords))

	var records []diagparse.LeakRecord
	var reqs []summarize.Request

	for _, file := range files {
		log.WithField("file", file).Info("analyzing file")

		capture, err := p.tools.Analyze(ctx, file)
		if err != nil {
			return nil, err
		}

		// AST enrichment is best effort: a failed dump never blocks the run.
		astDump, err := p.tools.ASTDump(ctx, file)
		if err != nil {
			log.WithError(err).WithField("file", file).Error("AST dump failed, continuing without context")
			astDump = ""
		}

		// Parse allocates fresh grouping state per call, so duplicate
		// suppression stays scoped to this file.
		fileRecords := parser.Parse(capture)
		log.WithFields(log.Fields{"file": file, "leaks": len(fileRecords)}).Info("leaks extracted")

		for _, rec := range fileRecords {
			records = append(records, rec)
			reqs = append(reqs, summarize.Request{
				VarName:    rec.VarName,
				RawMessage: rec.RawMessage,
				ASTContext: astctx.Extract(astDump, rec.Location.Line, rec.VarName),
			})
		}
	}

	if p.progress {
		provisional := make([]output.Diagnostic, len(records))
		for i, rec := range records {
			provisional[i] = output.FromRecord(rec, fmt.Sprintf("analyzing '%s'...", rec.VarName))
		}
		if err := output.WriteLoading(p.stdout, provisional); err != nil {
			return nil, err
		}
	}

	summaries, err := p.summarize(ctx, reqs)
	if err != nil {
		return nil, err
	}

	diags := make([]output.Diagnostic, len(records))
	for i, rec := range records {
		diags[i] = output.FromRecord(rec, summaries[i])
	}

	return output.NewReport(diags, files, time.Since(start)), nil
}

func (p *pipeline) summarize(ctx context.Context, reqs []summarize.Request) ([]string, error) {
	maxChars := p.cfg.Summarizer.MaxChars

	if p.summarizer == nil {
		summaries := make([]string, len(reqs))
		for i, req := range reqs {
			summaries[i] = summarize.Fallback(req.RawMessage, maxChars)
		}
		return summaries, nil
	}

	// A batch count mismatch aborts the run: results that cannot be
	// correlated with their leaks must not be emitted.
	return summarize.All(ctx, p.summarizer, reqs, maxChars, p.cfg.Summarizer.Concurrency)
}

func writeReport(ctx context.Context, report *output.Report, opts *AnalyzeOptions, w io.Writer) error {
	if opts.Progress {
		return output.WriteFinal(w, report.Diagnostics)
	}

	formatOpts := output.FormatOptions{Verbose: opts.Verbose, Quiet: opts.Quiet}
	var formatter output.Formatter
	switch opts.Output {
	case "text":
		formatter = output.NewTextFormatter(formatOpts)
	case "json":
		formatter = output.NewJSONFormatter(formatOpts)
	default:
		return fmt.Errorf("unknown output format %q (must be text or json)", opts.Output)
	}

	return formatter.Format(ctx, report, w)
}

// fireWebhooks delivers the report to the configured endpoints. Delivery
// failures are logged, never fatal.
func fireWebhooks(ctx context.Context, cfg *config.Config, opts *AnalyzeOptions, report *output.Report) {
	hooks := append([]config.WebhookConfig(nil), cfg.Webhooks...)
	if opts.WebhookURL != "" {
		hooks = append(hooks, config.WebhookConfig{
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: opts.WebhookTrigger,
		})
	}
	if len(hooks) == 0 {
		return
	}

	client := webhook.NewClient()
	for _, hook := range hooks {
		switch hook.TriggerEnum() {
		case config.TriggerNever:
			continue
		case config.TriggerOnLeaks:
			if !report.HasLeaks() {
				continue
			}
		}

		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     hook.URL,
			Token:   hook.Token,
			Timeout: hook.Timeout,
		})
		if resp.Success() {
			log.WithField("url", hook.URL).Info("webhook delivered")
		} else {
			log.WithFields(log.Fields{"url": hook.URL, "status": resp.StatusCode}).
				WithError(resp.Error).Error("webhook delivery failed")
		}
	}
}
