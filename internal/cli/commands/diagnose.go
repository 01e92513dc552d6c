package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/cleakr/cleakr/pkg/config"
	"github.com/cleakr/cleakr/pkg/summarize"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	ConfigFile string
	Verbose    bool
}

// DiagnosticResult represents the result of a single environment check
type DiagnosticResult struct {
	Check    string
	Status   string // "ok", "warning", "error"
	Message  string
	Suggests []string
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose",
		Short: "Diagnose common environment issues",
		Long: `Check the environment for problems that would make an analysis fail:
- Config file syntax and structure (when --config is given)
- clang-tidy and clang availability on PATH
- Gemini API key presence
- Log file writability

Example:
  cleakr diagnose
  cleakr diagnose -c cleakr.yaml -v`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiagnose(cmd.Context(), cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file to check (optional)")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")

	return cmd
}

func runDiagnose(ctx context.Context, cmd *cobra.Command, opts *DiagnoseOptions) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var results []DiagnosticResult

	cfg, result := checkConfig(ctx, opts.ConfigFile)
	results = append(results, result)
	if cfg == nil {
		printDiagnostics(cmd, results)
		return nil
	}

	results = append(results, checkTool("clang-tidy"))
	results = append(results, checkTool("clang"))
	results = append(results, checkAPIKey(cfg))
	results = append(results, checkLogFile(cfg))
	results = append(results, checkWebhooks(cfg, opts.Verbose)...)

	printDiagnostics(cmd, results)
	return nil
}

func checkConfig(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{Check: "Config"}

	if path == "" {
		cfg, err := config.Load(ctx, "")
		if err != nil {
			result.Status = "error"
			result.Message = fmt.Sprintf("Default config invalid: %v", err)
			return nil, result
		}
		result.Status = "ok"
		result.Message = "No config file given, using defaults"
		return cfg, result
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config file not found: %s", path)
		result.Suggests = []string{
			"Check the file path is correct",
			"Use 'cleakr detect <capture-file> --write-config cleakr.yaml' to generate a starter config",
		}
		return nil, result
	}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("Config invalid: %v", err)
		return nil, result
	}

	result.Status = "ok"
	result.Message = fmt.Sprintf("Config loaded: %s", path)
	return cfg, result
}

func checkTool(name string) DiagnosticResult {
	result := DiagnosticResult{Check: name}

	path, err := exec.LookPath(name)
	if err != nil {
		result.Status = "error"
		result.Message = fmt.Sprintf("%s not found on PATH", name)
		result.Suggests = []string{"Install the clang toolchain (llvm package on most distros)"}
		return result
	}

	result.Status = "ok"
	result.Message = path
	return result
}

func checkAPIKey(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{Check: "API key"}

	if os.Getenv(summarize.EnvAPIKey) != "" {
		result.Status = "ok"
		result.Message = summarize.EnvAPIKey + " is set"
		return result
	}

	if cfg.Summarizer.Disabled {
		result.Status = "ok"
		result.Message = "Summarizer disabled, no API key needed"
		return result
	}

	result.Status = "warning"
	result.Message = summarize.EnvAPIKey + " is not set"
	result.Suggests = []string{
		"Export " + summarize.EnvAPIKey + " or add it to a .env file",
		"Or run analyze with --no-llm for truncated raw messages",
	}
	return result
}

func checkLogFile(cfg *config.Config) DiagnosticResult {
	result := DiagnosticResult{Check: "Log file"}

	if cfg.LogFile == "" {
		result.Status = "ok"
		result.Message = "Logging to stderr"
		return result
	}

	dir := filepath.Dir(cfg.LogFile)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot create log directory %s: %v", dir, err)
		result.Suggests = []string{"Logs will fall back to stderr"}
		return result
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) // #nosec G304 -- configured log path
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot open log file: %v", err)
		result.Suggests = []string{"Logs will fall back to stderr"}
		return result
	}
	_ = f.Close()

	result.Status = "ok"
	result.Message = cfg.LogFile
	return result
}

func checkWebhooks(cfg *config.Config, verbose bool) []DiagnosticResult {
	var results []DiagnosticResult

	if len(cfg.Webhooks) == 0 {
		if verbose {
			results = append(results, DiagnosticResult{
				Check:   "Webhooks",
				Status:  "ok",
				Message: "No webhooks configured (optional)",
			})
		}
		return results
	}

	for _, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		result := DiagnosticResult{
			Check:   fmt.Sprintf("Webhook %s", name),
			Status:  "ok",
			Message: fmt.Sprintf("Configured (trigger: %s)", wh.TriggerEnum()),
		}
		results = append(results, result)

		// Reachability probe only in verbose mode: a HEAD request is cheap
		// but still touches the network.
		if verbose {
			probe := checkWebhookConnectivity(wh)
			probe.Check = fmt.Sprintf("Webhook connectivity %s", name)
			results = append(results, probe)
		}
	}

	return results
}

func checkWebhookConnectivity(wh config.WebhookConfig) DiagnosticResult {
	result := DiagnosticResult{}

	client := &http.Client{Timeout: 5 * time.Second}
	req, err := http.NewRequest(http.MethodHead, wh.URL, nil)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Invalid URL: %v", err)
		return result
	}

	resp, err := client.Do(req)
	if err != nil {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Cannot connect: %v", err)
		result.Suggests = []string{
			"Check if the webhook URL is correct",
			"Verify network connectivity",
		}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode < 500 {
		result.Status = "ok"
		result.Message = fmt.Sprintf("Reachable (status %d)", resp.StatusCode)
	} else {
		result.Status = "warning"
		result.Message = fmt.Sprintf("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{
			"The endpoint may require POST (delivery uses POST)",
			"Check authentication if using a token",
		}
	}

	return result
}

func printDiagnostics(cmd *cobra.Command, results []DiagnosticResult) {
	w := cmd.OutOrStdout()
	hasError := false

	for _, r := range results {
		marker := map[string]string{"ok": "[ok]", "warning": "[warn]", "error": "[fail]"}[r.Status]
		fmt.Fprintf(w, "%-7s %s: %s\n", marker, r.Check, r.Message)
		for _, s := range r.Suggests {
			fmt.Fprintf(w, "        - %s\n", s)
		}
		if r.Status == "error" {
			hasError = true
		}
	}

	if hasError {
		ExitCode = 2
	}
}
