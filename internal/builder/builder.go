package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/logger"
	"github.com/netopt-project/netopt-release/internal/shell"
)

// Builder invokes the compiler for single targets.
type Builder struct {
	runner      shell.Runner
	projectRoot string
}

// NewBuilder returns a Builder compiling the workspace at projectRoot.
func NewBuilder(runner shell.Runner, projectRoot string) *Builder {
	return &Builder{
		runner:      runner,
		projectRoot: projectRoot,
	}
}

// Build compiles the workspace for the target in release mode. A non-zero
// compiler exit is returned as an error with the tool diagnostics logged;
// the caller decides whether the run continues.
func (b *Builder) Build(ctx context.Context, target release.Target) error {
	logger.InfoKV(ctx, "Compiling workspace", "target", target)

	output, err := b.runner.Run(ctx, b.projectRoot,
		"cargo", "build", "--release", "--target", string(target))
	if err != nil {
		logger.WarnKV(ctx, "Compilation failed",
			"target", target, "output", tail(string(output)))

		return fmt.Errorf("build target %s: %w", target, err)
	}

	return nil
}

// maxDiagnosticLines caps how much compiler output reaches the log on failure.
const maxDiagnosticLines = 20

// tail returns the last lines of tool output for failure diagnostics.
func tail(output string) string {
	lines := strings.Split(strings.TrimSpace(output), "\n")
	if len(lines) > maxDiagnosticLines {
		lines = lines[len(lines)-maxDiagnosticLines:]
	}

	return strings.Join(lines, "\n")
}
