package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/cleakr/cleakr/pkg/config"
	"github.com/cleakr/cleakr/pkg/detector"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Output      string
	SampleSize  int
	Keywords    []string
	WriteConfig string
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <capture-file>",
		Short: "Inspect captured analyzer output",
		Long: `Sample a captured clang-tidy output file and report how much of it is
recognizable diagnostic text: header-shaped lines, lines passing the
memory keyword gate, and per-severity/per-keyword counts.

Useful for checking whether a capture will yield any leak records before
wiring it into an editor, and for tuning the keyword gate.

Optionally generates a starter config file with --write-config.

Example:
  cleakr detect capture.txt
  cleakr detect --sample 500 capture.txt
  cleakr detect --keyword leak --keyword overflow capture.txt
  cleakr detect -w cleakr.yaml capture.txt`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.SampleSize, "sample", "n", 200, "Number of lines to sample")
	cmd.Flags().StringSliceVar(&opts.Keywords, "keyword", nil, "Keyword gate override (can be repeated)")
	cmd.Flags().StringVarP(&opts.WriteConfig, "write-config", "w", "", "Write starter config to file (will not overwrite)")

	return cmd
}

func runDetect(cmd *cobra.Command, args []string, opts *DetectOptions) error {
	captureFile := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	if _, err := os.Stat(captureFile); os.IsNotExist(err) {
		return fmt.Errorf("capture file not found: %s", captureFile)
	}

	d := detector.New(
		detector.WithSampleSize(opts.SampleSize),
		detector.WithKeywords(opts.Keywords),
	)

	result, err := d.DetectFromFile(ctx, captureFile)
	if err != nil {
		return fmt.Errorf("detection failed: %w", err)
	}

	if opts.WriteConfig != "" {
		if err := writeStarterConfig(opts, opts.WriteConfig); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Starter config written to %s\n\n", opts.WriteConfig)
	}

	switch opts.Output {
	case "json":
		return json.NewEncoder(cmd.OutOrStdout()).Encode(result)
	default:
		return outputDetectText(cmd, result, captureFile)
	}
}

func outputDetectText(cmd *cobra.Command, result *detector.Result, captureFile string) error {
	w := cmd.OutOrStdout()

	fmt.Fprintln(w, "=== Diagnostic Capture Inspection ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "File: %s\n", captureFile)
	fmt.Fprintf(w, "Lines sampled: %d\n", result.SampledLines)
	fmt.Fprintf(w, "Header-shaped lines: %d\n", result.HeaderLines)
	fmt.Fprintf(w, "In-scope (memory) lines: %d (%.1f%%)\n", result.InScopeLines, result.Coverage()*100)
	fmt.Fprintln(w)

	if !result.HasDiagnostics() {
		fmt.Fprintln(w, "No in-scope diagnostics found.")
		fmt.Fprintln(w)
		fmt.Fprintln(w, "Tip: check that the capture is clang-tidy stdout and that the")
		fmt.Fprintln(w, "keyword gate matches your analyzer's wording (--keyword).")
		return nil
	}

	fmt.Fprintf(w, "Sample line:\n  %s\n", result.SampleLine)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By severity:")
	for _, k := range sortedKeys(result.Severities) {
		fmt.Fprintf(w, "  %-8s %d\n", k, result.Severities[k])
	}
	fmt.Fprintln(w, "By keyword:")
	for _, k := range sortedKeys(result.Keywords) {
		fmt.Fprintf(w, "  %-8s %d\n", k, result.Keywords[k])
	}

	return nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// writeStarterConfig writes a default config (with any keyword overrides)
// without clobbering an existing file.
func writeStarterConfig(opts *DetectOptions, path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists: %s", path)
	}

	cfg := config.DefaultConfig()
	if len(opts.Keywords) > 0 {
		cfg.Keywords = opts.Keywords
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling starter config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
