package publish

import (
	"context"
	"fmt"

	"github.com/netopt-project/netopt-release/internal/config"
	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/logger"
	"github.com/netopt-project/netopt-release/internal/notes"
	"github.com/netopt-project/netopt-release/internal/publisher"
	"github.com/netopt-project/netopt-release/internal/runlock"
	"github.com/netopt-project/netopt-release/internal/shell"
	"github.com/netopt-project/netopt-release/internal/storage"
	"github.com/netopt-project/netopt-release/internal/vcs"
)

// Options contains inputs for the publish entry point.
type Options struct {
	// ConfigPath is an optional path to pipeline settings.
	ConfigPath string
	// Version is the release version; empty selects the default baseline.
	Version string
	// Runner executes external tools; nil selects the real executor.
	Runner shell.Runner
	// Store overrides the mirror storage; nil builds one from the mirror
	// settings when they are configured.
	Store storage.Storage
}

// releaser drives the publish stages for one version.
type releaser struct {
	cfg     *config.Config
	version string
	pub     *publisher.Publisher
	tags    *vcs.TagManager
	store   storage.Storage
}

// Run executes the publish workflow and is the public entry point for the
// CLI. Missing authentication, an empty output directory and remote
// failures are all fatal.
func Run(ctx context.Context, opts *Options) error {
	ctx = logger.WithName(ctx, "netopt-publish")

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return err
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

	r := &releaser{
		cfg:     cfg,
		version: version,
		pub:     publisher.New(runner, cfg.ProjectRoot),
		tags:    vcs.NewTagManager(runner, cfg.ProjectRoot, cfg.GitRemote),
		store:   opts.Store,
	}

	return r.Run(ctx)
}

// Run collects the artifacts, ensures the tag, renders the notes and creates
// the release, mirroring the files afterwards when a mirror is configured.
func (r *releaser) Run(ctx context.Context) error {
	logger.InfoKV(ctx, "Starting release publish",
		"version", r.version, "output_dir", r.cfg.OutputDir)

	// Collect first: an empty output directory must fail before anything
	// reaches the network.
	files, err := publisher.Collect(r.cfg.OutputDir)
	if err != nil {
		return err
	}

	if err = r.pub.CheckAuth(ctx); err != nil {
		return err
	}

	if err = r.tags.EnsureTag(ctx, r.version); err != nil {
		return fmt.Errorf("ensure release tag: %w", err)
	}

	body, err := notes.Render(r.cfg.Project, r.version)
	if err != nil {
		return err
	}

	meta := &release.Metadata{
		Version: r.version,
		Tag:     release.Tag(r.version),
		Title:   release.Title(r.version),
		Notes:   body,
		Files:   files,
	}

	url, err := r.pub.Publish(ctx, meta)
	if err != nil {
		return err
	}

	if r.cfg.Mirror.Enabled() {
		if err = r.mirror(ctx, files); err != nil {
			return fmt.Errorf("mirror artifacts: %w", err)
		}
	}

	logger.InfoKV(ctx, "Release completed", "tag", meta.Tag, "url", url)

	return nil
}

// mirror uploads the published files to the configured storage.
func (r *releaser) mirror(ctx context.Context, files []string) error {
	store := r.store
	if store == nil {
		s, err := storage.NewMinioStorage(r.cfg.Mirror)
		if err != nil {
			return err
		}

		store = s
	}

	return storage.MirrorFiles(ctx, store, files)
}
