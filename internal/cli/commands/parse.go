package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/cleakr/cleakr/pkg/config"
	"github.com/cleakr/cleakr/pkg/diagparse"
)

// ParseOptions holds command-line options for the parse command.
type ParseOptions struct {
	ConfigFile string
}

// parsedRecord is the JSON shape of one leak record, including the raw
// grouped message for inspection.
type parsedRecord struct {
	Filename   string `json:"filename"`
	Lnum       int    `json:"lnum"`
	Col        int    `json:"col"`
	VarName    string `json:"var_name"`
	RawMessage string `json:"raw_message"`
}

// NewParseCommand creates the parse command.
func NewParseCommand() *cobra.Command {
	opts := &ParseOptions{}

	cmd := &cobra.Command{
		Use:   "parse [capture-file]",
		Short: "Parse captured analyzer output into leak records",
		Long: `Run only the diagnostic parser on pre-captured clang-tidy output,
without invoking clang or the summarizer. Reads stdin when no file is
given. Prints the grouped, deduplicated leak records as a JSON array.

Useful for inspecting what the grouping and deduplication stage makes of
a given capture:

  clang-tidy main.c -- -std=c11 | cleakr parse
  cleakr parse capture.txt`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runParse(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigFile, "config", "c", "", "Config file (optional)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string, opts *ParseOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, opts.ConfigFile)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	var text []byte
	if len(args) == 1 {
		text, err = os.ReadFile(args[0]) // #nosec G304 -- user-provided paths are expected
		if err != nil {
			return fmt.Errorf("reading capture file: %w", err)
		}
	} else {
		text, err = io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	parser := diagparse.NewParser(diagparse.WithKeywords(cfg.Keywords))
	records := parser.Parse(string(text))

	out := make([]parsedRecord, len(records))
	for i, rec := range records {
		out[i] = parsedRecord{
			Filename:   rec.Location.File,
			Lnum:       rec.Lnum,
			Col:        rec.Col,
			VarName:    rec.VarName,
			RawMessage: rec.RawMessage,
		}
	}

	return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
}
