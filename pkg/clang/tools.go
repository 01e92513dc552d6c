package clang

import (
	"context"
	"fmt"
	"os/exec"
)

// Tools wraps the discovered clang-tidy and clang binaries.
type Tools struct {
	runner    Runner
	tidyPath  string
	clangPath string
	tidyArgs  []string
	astArgs   []string
}

// Discover locates clang-tidy and clang on PATH. A missing binary is a
// configuration error and must abort the run before any parsing happens.
func Discover(tidyArgs, astArgs []string) (*Tools, error) {
	tidyPath, err := exec.LookPath("clang-tidy")
	if err != nil {
		return nil, fmt.Errorf("clang-tidy not found on PATH: %w", err)
	}
	clangPath, err := exec.LookPath("clang")
	if err != nil {
		return nil, fmt.Errorf("clang not found on PATH: %w", err)
	}
	return NewTools(&ExecRunner{}, tidyPath, clangPath, tidyArgs, astArgs), nil
}

// NewTools creates a Tools with explicit binary paths and runner.
// Intended for tests with a FakeRunner.
func NewTools(runner Runner, tidyPath, clangPath string, tidyArgs, astArgs []string) *Tools {
	return &Tools{
		runner:    runner,
		tidyPath:  tidyPath,
		clangPath: clangPath,
		tidyArgs:  tidyArgs,
		astArgs:   astArgs,
	}
}

// Analyze runs clang-tidy on the file and returns the raw diagnostic text.
func (t *Tools) Analyze(ctx context.Context, file string) (string, error) {
	args := append([]string{file, "--"}, t.tidyArgs...)
	out, err := t.runner.Run(ctx, t.tidyPath, args...)
	if err != nil {
		return "", fmt.Errorf("running clang-tidy on %s: %w", file, err)
	}
	return out, nil
}

// ASTDump runs clang's AST dump on the file and returns the dump text.
func (t *Tools) ASTDump(ctx context.Context, file string) (string, error) {
	args := append([]string{"-Xclang", "-ast-dump", "-fsyntax-only", file}, t.astArgs...)
	out, err := t.runner.Run(ctx, t.clangPath, args...)
	if err != nil {
		return "", fmt.Errorf("running clang ast-dump on %s: %w", file, err)
	}
	return out, nil
}
