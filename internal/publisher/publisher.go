package publisher

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/netopt-project/netopt-release/internal/checksum"
	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/logger"
	"github.com/netopt-project/netopt-release/internal/shell"
)

var (
	// ErrNoArtifacts means the output directory holds no archives to publish.
	ErrNoArtifacts = errors.New("no archives to publish")

	errCLIMissing       = errors.New("gh CLI is not installed")
	errNotAuthenticated = errors.New("gh CLI is not authenticated")
)

// Publisher drives the hosting platform CLI.
type Publisher struct {
	runner  shell.Runner
	repoDir string
}

// New returns a Publisher running the CLI from the repository at repoDir.
func New(runner shell.Runner, repoDir string) *Publisher {
	return &Publisher{
		runner:  runner,
		repoDir: repoDir,
	}
}

// CheckAuth verifies the hosting CLI is installed and authenticated. The
// returned errors carry remediation instructions; they are fatal to the
// publish stage.
func (p *Publisher) CheckAuth(ctx context.Context) error {
	if _, err := p.runner.LookPath("gh"); err != nil {
		return fmt.Errorf("%w, install it from https://cli.github.com", errCLIMissing)
	}

	output, err := p.runner.Run(ctx, p.repoDir, "gh", "auth", "status")
	if err != nil {
		logger.DebugKV(ctx, "Authentication check failed",
			"output", strings.TrimSpace(string(output)))

		return fmt.Errorf("%w, run \"gh auth login\" first", errNotAuthenticated)
	}

	return nil
}

// Collect assembles the publish file list: every archive in outputDir plus
// the checksum manifest and its signature when present. Zero archives is
// ErrNoArtifacts so nothing remote happens for an empty or missing output
// directory.
func Collect(outputDir string) ([]string, error) {
	// A missing output directory means nothing was built yet, same as an
	// empty one.
	archives, err := checksum.Archives(outputDir)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	if len(archives) == 0 {
		return nil, fmt.Errorf("%w in %s, run the build command first", ErrNoArtifacts, outputDir)
	}

	files := make([]string, 0, len(archives)+2)
	for _, name := range archives {
		files = append(files, filepath.Join(outputDir, name))
	}

	for _, name := range []string{release.ManifestName, release.SignatureName} {
		path := filepath.Join(outputDir, name)
		if _, err := os.Stat(path); err == nil {
			files = append(files, path)
		}
	}

	return files, nil
}

// Publish creates the release in one CLI call, attaching every collected
// file, and returns the release URL the CLI reports.
func (p *Publisher) Publish(ctx context.Context, meta *release.Metadata) (string, error) {
	notesFile, err := os.CreateTemp("", "netopt-release-notes-*.md")
	if err != nil {
		return "", fmt.Errorf("create notes file: %w", err)
	}

	notesPath := notesFile.Name()

	defer func() {
		_ = os.Remove(notesPath)
	}()

	if _, err = notesFile.WriteString(meta.Notes); err != nil {
		_ = notesFile.Close()

		return "", fmt.Errorf("write notes file: %w", err)
	}

	if err = notesFile.Close(); err != nil {
		return "", fmt.Errorf("write notes file: %w", err)
	}

	args := append([]string{
		"release", "create", meta.Tag,
		"--title", meta.Title,
		"--notes-file", notesPath,
	}, meta.Files...)

	output, err := p.runner.Run(ctx, p.repoDir, "gh", args...)
	if err != nil {
		return "", fmt.Errorf("create release %s: %w", meta.Tag, err)
	}

	url := releaseURL(string(output))
	logger.InfoKV(ctx, "Release published", "tag", meta.Tag, "url", url)

	return url, nil
}

// releaseURL extracts the release URL from the CLI output.
func releaseURL(output string) string {
	for _, field := range strings.Fields(output) {
		if strings.HasPrefix(field, "https://") {
			return field
		}
	}

	return ""
}
