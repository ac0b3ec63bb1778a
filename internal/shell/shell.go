package shell

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Runner abstracts external tool invocation for the pipeline stages.
type Runner interface {
	// Run executes a program in the given working directory (the process
	// working directory when dir is empty), waits for it and returns its
	// combined output. The output is returned even when the program fails
	// so callers can surface tool diagnostics.
	Run(ctx context.Context, dir, name string, args ...string) ([]byte, error)
	// LookPath reports the absolute path of a binary found on PATH.
	LookPath(name string) (string, error)
}

// ExecRunner runs programs through os/exec.
type ExecRunner struct{}

// NewExecRunner returns the production Runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run implements Runner.
func (r *ExecRunner) Run(ctx context.Context, dir, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		return output, fmt.Errorf("%s %s: %w", name, strings.Join(args, " "), err)
	}

	return output, nil
}

// LookPath implements Runner.
func (r *ExecRunner) LookPath(name string) (string, error) {
	return exec.LookPath(name)
}
