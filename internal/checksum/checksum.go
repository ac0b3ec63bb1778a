package checksum

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/logger"
)

// manifestPerm is the permission mode of the written manifest.
const manifestPerm = 0o644

// Archives returns the distribution archive file names in dir. Both
// supported formats are matched; os.ReadDir returns entries sorted by
// filename, which fixes the manifest and publish ordering.
func Archives(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}

	names := make([]string, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}

		name := entry.Name()
		if strings.HasSuffix(name, ".tar.gz") || strings.HasSuffix(name, ".zip") {
			names = append(names, name)
		}
	}

	return names, nil
}

// Generate digests every archive in outputDir and writes the manifest next
// to them, returning its path. The manifest is written even when no archives
// exist; deciding whether that is fatal is left to the publish stage.
func Generate(ctx context.Context, outputDir string) (string, error) {
	archives, err := Archives(outputDir)
	if err != nil {
		return "", err
	}

	lines := make([]string, 0, len(archives))

	for _, name := range archives {
		digest, err := fileDigest(filepath.Join(outputDir, name))
		if err != nil {
			return "", fmt.Errorf("digest %s: %w", name, err)
		}

		lines = append(lines, fmt.Sprintf("%s  %s", digest, name))
		logger.DebugKV(ctx, "Digested archive", "archive", name, "sha256", digest)
	}

	payload := ""
	if len(lines) > 0 {
		payload = strings.Join(lines, "\n") + "\n"
	}

	manifestPath := filepath.Join(outputDir, release.ManifestName)
	if err := os.WriteFile(manifestPath, []byte(payload), manifestPerm); err != nil {
		return "", fmt.Errorf("write checksum manifest: %w", err)
	}

	logger.InfoKV(ctx, "Wrote checksum manifest",
		"path", manifestPath, "archives", len(archives))

	return manifestPath, nil
}

// fileDigest streams a file through SHA-256 and returns the hex digest.
func fileDigest(path string) (string, error) {
	file, err := os.Open(filepath.Clean(path))
	if err != nil {
		return "", err
	}

	defer func() {
		_ = file.Close()
	}()

	hasher := sha256.New()
	if _, err = io.Copy(hasher, file); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
