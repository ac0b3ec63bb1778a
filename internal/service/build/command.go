package build

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/netopt-project/netopt-release/internal/builder"
	"github.com/netopt-project/netopt-release/internal/checksum"
	"github.com/netopt-project/netopt-release/internal/config"
	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/logger"
	"github.com/netopt-project/netopt-release/internal/packager"
	"github.com/netopt-project/netopt-release/internal/runlock"
	"github.com/netopt-project/netopt-release/internal/shell"
	"github.com/netopt-project/netopt-release/internal/signing"
	"github.com/netopt-project/netopt-release/internal/toolchain"
)

// outputDirPerm is the permission mode of the recreated output directory.
const outputDirPerm = 0o755

// Options contains inputs for the build entry point.
type Options struct {
	// ConfigPath is an optional path to pipeline settings.
	ConfigPath string
	// Version is the release version; empty selects the default baseline.
	Version string
	// Jobs overrides the configured per-target concurrency when positive.
	Jobs int
	// Runner executes external tools; nil selects the real executor.
	Runner shell.Runner
}

// pipeline drives the per-target stages and the post-build stages of one run.
type pipeline struct {
	cfg       *config.Config
	version   string
	validator *toolchain.Validator
	compiler  *builder.Builder
	archives  *packager.Packager
}

// Run executes the build workflow and is the public entry point for the CLI.
// Individual target failures are reported in the summary, not returned: the
// error covers only catastrophic setup failures.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "netopt-build")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
	}

	if opts.Jobs > 0 {
		cfg.Jobs = opts.Jobs
	}

	version := opts.Version
	if version == "" {
		version = config.DefaultVersion
	}

	unlock, err := runlock.Acquire(ctx, cfg.ProjectRoot)
	if err != nil {
		return err
	}

	defer unlock()

	runner := opts.Runner
	if runner == nil {
		runner = shell.NewExecRunner()
	}

	p := newPipeline(cfg, version, runner)

	summary, err := p.Run(ctx)
	if err != nil {
		return err
	}

	logger.InfoKV(ctx, "Build completed",
		"version", version, "archives", summary.ArchiveCount())

	return nil
}

// newPipeline wires the per-target stages around one runner.
func newPipeline(cfg *config.Config, version string, runner shell.Runner) *pipeline {
	return &pipeline{
		cfg:       cfg,
		version:   version,
		validator: toolchain.NewValidator(runner),
		compiler:  builder.NewBuilder(runner, cfg.ProjectRoot),
		archives:  packager.New(cfg, version),
	}
}

// Run resets the output directory, processes every target and generates the
// checksum manifest once all targets have been attempted.
func (p *pipeline) Run(ctx context.Context) (*release.Summary, error) {
	logger.InfoKV(ctx, "Starting release build",
		"version", p.version, "output_dir", p.cfg.OutputDir, "jobs", p.cfg.Jobs)

	if err := p.resetOutputDir(); err != nil {
		return nil, err
	}

	summary := &release.Summary{
		Version:  p.version,
		Outcomes: p.processTargets(ctx),
	}

	manifestPath, err := checksum.Generate(ctx, p.cfg.OutputDir)
	if err != nil {
		return nil, err
	}

	if p.cfg.Signing.Enabled() {
		if _, err = signing.ClearSign(ctx, manifestPath, p.cfg.Signing); err != nil {
			return nil, err
		}
	}

	p.report(ctx, summary, manifestPath)

	return summary, nil
}

// resetOutputDir destroys the previous run's output and recreates the
// directory, taking exclusive ownership of it for this run.
func (p *pipeline) resetOutputDir() error {
	if err := os.RemoveAll(p.cfg.OutputDir); err != nil {
		return fmt.Errorf("clear output directory: %w", err)
	}

	if err := os.MkdirAll(p.cfg.OutputDir, outputDirPerm); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	return nil
}

// processTargets runs the per-target pipeline across the matrix, bounded by
// the configured concurrency, and collects one outcome per target. Target
// goroutines never return errors, so one failing target cannot cancel its
// siblings; the checksum stage starts only after the group barrier.
func (p *pipeline) processTargets(ctx context.Context) []release.Outcome {
	targets := release.Targets()
	outcomes := make([]release.Outcome, len(targets))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(p.cfg.Jobs)

	for i, target := range targets {
		i, target := i, target
		group.Go(func() error {
			outcomes[i] = p.processTarget(groupCtx, target)
			return nil
		})
	}

	_ = group.Wait()

	return outcomes
}

// processTarget runs toolchain validation, compilation and packaging for one
// target and classifies the result.
func (p *pipeline) processTarget(ctx context.Context, target release.Target) release.Outcome {
	ok, reason := p.validator.Ensure(ctx, target)
	if !ok {
		logger.WarnKV(ctx, "Skipping target", "target", target, "reason", reason)

		return release.Outcome{Target: target, Status: release.StatusSkipped, Reason: reason}
	}

	if err := p.compiler.Build(ctx, target); err != nil {
		logger.ErrorKV(ctx, "Target build failed", "target", target, "error", err)

		return release.Outcome{Target: target, Status: release.StatusFailed, Reason: err.Error()}
	}

	archivePath, err := p.archives.Package(ctx, target)

	switch {
	case errors.Is(err, packager.ErrNoGUIBinary):
		logger.WarnKV(ctx, "Nothing to package for target", "target", target, "reason", err)

		return release.Outcome{Target: target, Status: release.StatusSkipped, Reason: err.Error()}
	case err != nil:
		logger.ErrorKV(ctx, "Target packaging failed", "target", target, "error", err)

		return release.Outcome{Target: target, Status: release.StatusFailed, Reason: err.Error()}
	}

	return release.Outcome{Target: target, Status: release.StatusBuilt, Archive: archivePath}
}

// report logs the per-target summary table and the manifest contents.
func (p *pipeline) report(ctx context.Context, summary *release.Summary, manifestPath string) {
	var b strings.Builder

	fmt.Fprintf(&b, "Build summary for version %s:\n", summary.Version)

	for _, outcome := range summary.Outcomes {
		fmt.Fprintf(&b, "  %-24s %s", outcome.Target, outcome.Status)

		switch {
		case outcome.Built():
			fmt.Fprintf(&b, " -> %s", filepath.Base(outcome.Archive))
		case outcome.Reason != "":
			fmt.Fprintf(&b, " (%s)", outcome.Reason)
		}

		b.WriteByte('\n')
	}

	fmt.Fprintf(&b, "Archives produced: %d of %d",
		summary.ArchiveCount(), len(summary.Outcomes))

	logger.Info(ctx, b.String())

	if contents, err := os.ReadFile(filepath.Clean(manifestPath)); err == nil && len(contents) > 0 {
		logger.Infof(ctx, "Checksum manifest:\n%s", strings.TrimSpace(string(contents)))
	}
}
