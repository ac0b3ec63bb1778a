package toolchain

import (
	"context"
	"fmt"
	"strings"

	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/logger"
	"github.com/netopt-project/netopt-release/internal/shell"
)

// Validator checks and installs per-target compiler support.
type Validator struct {
	runner shell.Runner
}

// NewValidator returns a Validator invoking rustup through the given runner.
func NewValidator(runner shell.Runner) *Validator {
	return &Validator{runner: runner}
}

// Ensure reports whether the target can be built on this machine. Missing
// rustup targets are installed on the fly. Any rustup failure or a missing
// cross-linker rules the target out; the returned reason explains the skip
// and is empty when the target is buildable.
func (v *Validator) Ensure(ctx context.Context, target release.Target) (bool, string) {
	installed, err := v.isTargetInstalled(ctx, target)
	if err != nil {
		return false, fmt.Sprintf("list rust targets: %v", err)
	}

	if installed {
		logger.DebugKV(ctx, "Rust target already installed", "target", target)
	} else {
		logger.InfoKV(ctx, "Installing rust target", "target", target)

		if output, err := v.runner.Run(ctx, "", "rustup", "target", "add", string(target)); err != nil {
			logger.WarnKV(ctx, "Rust target installation failed",
				"target", target, "output", strings.TrimSpace(string(output)))

			return false, fmt.Sprintf("install rust target: %v", err)
		}
	}

	if linker := target.Platform().CrossLinker; linker != "" {
		if _, err := v.runner.LookPath(linker); err != nil {
			return false, fmt.Sprintf("cross-linker %s is not on PATH", linker)
		}
	}

	return true, ""
}

// isTargetInstalled checks the rustup installed-target list for the target.
func (v *Validator) isTargetInstalled(ctx context.Context, target release.Target) (bool, error) {
	output, err := v.runner.Run(ctx, "", "rustup", "target", "list", "--installed")
	if err != nil {
		return false, err
	}

	for _, line := range strings.Split(string(output), "\n") {
		if strings.TrimSpace(line) == string(target) {
			return true, nil
		}
	}

	return false, nil
}
