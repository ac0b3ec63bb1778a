package runlock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/mitchellh/go-ps"

	"github.com/netopt-project/netopt-release/internal/logger"
)

// ErrAlreadyRunning means another release run owns the marker.
var ErrAlreadyRunning = errors.New("another release run is active")

const (
	// MarkerFilename marks that a release run is active right now.
	MarkerFilename = "netopt-release-marker.bin"

	// markerPerm is the permission mode of the marker file.
	markerPerm = 0o644
)

// Acquire writes the run marker for this process after checking that no
// other run is live, and returns the function removing it. Markers whose
// recorded process no longer exists are reclaimed silently.
func Acquire(ctx context.Context, dir string) (func(), error) {
	markerPath := filepath.Join(dir, MarkerFilename)

	if pid, live := liveOwner(ctx, markerPath); live {
		return nil, fmt.Errorf("%w (pid %d, remove %s if this is wrong)",
			ErrAlreadyRunning, pid, markerPath)
	}

	contents := []byte(strconv.Itoa(os.Getpid()))
	if err := os.WriteFile(markerPath, contents, markerPerm); err != nil {
		return nil, fmt.Errorf("write run marker: %w", err)
	}

	return func() {
		_ = os.Remove(markerPath)
	}, nil
}

// liveOwner reads the marker and reports whether its recorded process is
// still alive.
func liveOwner(ctx context.Context, markerPath string) (int, bool) {
	data, err := os.ReadFile(filepath.Clean(markerPath))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			logger.Infof(ctx, "Unable to read run marker: %v", err)
		}

		return 0, false
	}

	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil || pid <= 0 {
		logger.Info(ctx, "Run marker is malformed, reclaiming it")
		return 0, false
	}

	process, err := ps.FindProcess(pid)
	if err != nil || process == nil {
		logger.InfoKV(ctx, "Run marker is stale, reclaiming it", "pid", pid)
		return 0, false
	}

	logger.InfoKV(ctx, "Run marker is owned by a live process",
		"pid", pid, "executable", process.Executable())

	return pid, true
}
