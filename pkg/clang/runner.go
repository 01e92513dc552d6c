// Package clang invokes the external clang toolchain and captures its
// diagnostic output for parsing.
package clang

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	log "github.com/sirupsen/logrus"
)

// Runner executes an external command and returns its stdout capture.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs commands via os/exec.
type ExecRunner struct{}

var _ Runner = &ExecRunner{}

// Run executes the command and returns its stdout. A non-zero exit is not
// an error here: clang-tidy exits non-zero whenever it emits warnings, and
// the captured output is still what we want.
func (r *ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	log.WithField("cmd", append([]string{name}, args...)).Debug("running command")

	var stdout bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	err := cmd.Run()
	var exitErr *exec.ExitError
	if err != nil && !errors.As(err, &exitErr) {
		return "", err
	}

	log.WithField("bytes", stdout.Len()).Debug("command output captured")
	return stdout.String(), nil
}

// FakeRunner returns canned output for tests.
type FakeRunner struct {
	Output string
	Err    error

	// Calls records each invocation's argv.
	Calls [][]string
}

var _ Runner = &FakeRunner{}

func (f *FakeRunner) Run(_ context.Context, name string, args ...string) (string, error) {
	f.Calls = append(f.Calls, append([]string{name}, args...))
	if f.Err != nil {
		return "", f.Err
	}
	return f.Output, nil
}
