package vcs

import (
	"context"
	"fmt"
	"strings"

	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/logger"
	"github.com/netopt-project/netopt-release/internal/shell"
)

// TagManager creates and publishes release tags.
type TagManager struct {
	runner  shell.Runner
	repoDir string
	remote  string
}

// NewTagManager returns a TagManager operating on the repository at repoDir.
func NewTagManager(runner shell.Runner, repoDir, remote string) *TagManager {
	return &TagManager{
		runner:  runner,
		repoDir: repoDir,
		remote:  remote,
	}
}

// EnsureTag guarantees the annotated tag for the version exists and is pushed
// to the remote. Re-running with the same version is not an error: an
// existing tag skips both creation and push.
func (m *TagManager) EnsureTag(ctx context.Context, version string) error {
	tag := release.Tag(version)

	output, err := m.runner.Run(ctx, m.repoDir, "git", "tag", "-l", tag)
	if err != nil {
		return fmt.Errorf("list tags: %w", err)
	}

	if strings.TrimSpace(string(output)) == tag {
		logger.InfoKV(ctx, "Tag already exists, skipping creation", "tag", tag)
		return nil
	}

	logger.InfoKV(ctx, "Creating annotated tag", "tag", tag)

	message := fmt.Sprintf("Release %s", version)
	if _, err = m.runner.Run(ctx, m.repoDir, "git", "tag", "-a", tag, "-m", message); err != nil {
		return fmt.Errorf("create tag %s: %w", tag, err)
	}

	logger.InfoKV(ctx, "Pushing tag", "tag", tag, "remote", m.remote)

	if _, err = m.runner.Run(ctx, m.repoDir, "git", "push", m.remote, tag); err != nil {
		return fmt.Errorf("push tag %s: %w", tag, err)
	}

	return nil
}
