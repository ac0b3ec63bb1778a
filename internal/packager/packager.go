package packager

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mholt/archiver"

	"github.com/netopt-project/netopt-release/internal/config"
	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/logger"
)

// ErrNoGUIBinary means the build produced nothing to package for the target.
var ErrNoGUIBinary = errors.New("gui binary not found")

// stagingDirPerm is the permission mode for staging directories.
const stagingDirPerm = 0o755

// Archiver compresses source paths into one archive file.
type Archiver interface {
	Archive(sources []string, destination string) error
}

// newArchiver returns the compressor matching the target's archive format.
// Variable so tests can substitute a failing compressor.
var newArchiver = func(format release.Format) Archiver {
	if format == release.FormatZip {
		return archiver.NewZip()
	}

	return archiver.NewTarGz()
}

// Packager produces distribution archives for built targets.
type Packager struct {
	cfg     *config.Config
	version string
}

// New returns a Packager for one release version.
func New(cfg *config.Config, version string) *Packager {
	return &Packager{
		cfg:     cfg,
		version: version,
	}
}

// Package stages the target's binaries plus static files and compresses them
// into the output directory, returning the archive path. A missing GUI binary
// returns ErrNoGUIBinary, meaning there is nothing to package; a missing
// service binary is tolerated.
func (p *Packager) Package(ctx context.Context, target release.Target) (string, error) {
	artifactDir := target.ArtifactDir(p.cfg.ProjectRoot)

	guiName := target.BinaryName(p.cfg.GUIBinary)
	guiPath := filepath.Join(artifactDir, guiName)

	if _, err := os.Stat(guiPath); err != nil {
		return "", fmt.Errorf("%w: %s", ErrNoGUIBinary, guiPath)
	}

	stagingDir := filepath.Join(p.cfg.OutputDir, target.StagingName(p.cfg.Project, p.version))
	if err := os.MkdirAll(stagingDir, stagingDirPerm); err != nil {
		return "", fmt.Errorf("create staging directory: %w", err)
	}

	// The staging directory never outlives packaging, even on failure.
	defer func() {
		_ = os.RemoveAll(stagingDir)
	}()

	if err := copyFile(guiPath, filepath.Join(stagingDir, guiName)); err != nil {
		return "", fmt.Errorf("stage gui binary: %w", err)
	}

	serviceName := target.BinaryName(p.cfg.ServiceBinary)
	servicePath := filepath.Join(artifactDir, serviceName)

	if _, err := os.Stat(servicePath); err == nil {
		if err = copyFile(servicePath, filepath.Join(stagingDir, serviceName)); err != nil {
			return "", fmt.Errorf("stage service binary: %w", err)
		}
	} else {
		logger.DebugKV(ctx, "Service binary absent, packaging without it",
			"target", target, "path", servicePath)
	}

	for _, name := range p.cfg.StaticFiles {
		src := filepath.Join(p.cfg.ProjectRoot, name)
		if _, err := os.Stat(src); err != nil {
			continue
		}

		if err := copyFile(src, filepath.Join(stagingDir, name)); err != nil {
			return "", fmt.Errorf("stage static file %s: %w", name, err)
		}
	}

	archivePath := filepath.Join(p.cfg.OutputDir, target.ArchiveName(p.cfg.Project, p.version))
	if err := newArchiver(target.Platform().Format).Archive([]string{stagingDir}, archivePath); err != nil {
		// A partial archive must not survive into the manifest and release.
		_ = os.Remove(archivePath)

		return "", fmt.Errorf("compress staging directory: %w", err)
	}

	logger.InfoKV(ctx, "Packaged target", "target", target, "archive", archivePath)

	return archivePath, nil
}

// copyFile copies src to dst preserving the source permission bits, so
// executables stay executable inside the archive.
func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	in, err := os.Open(filepath.Clean(src))
	if err != nil {
		return err
	}

	defer func() {
		_ = in.Close()
	}()

	out, err := os.OpenFile(filepath.Clean(dst), os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return err
	}

	if _, err = io.Copy(out, in); err != nil {
		_ = out.Close()

		return err
	}

	return out.Close()
}
