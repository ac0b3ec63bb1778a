package runlock

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

// TestAcquire verifies marker creation and removal.
func TestAcquire(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	unlock, err := Acquire(context.Background(), dir)
	require.NoError(t, err)

	markerPath := filepath.Join(dir, MarkerFilename)

	contents, err := os.ReadFile(markerPath)
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(os.Getpid()), string(contents))

	unlock()

	_, err = os.Stat(markerPath)
	require.True(t, os.IsNotExist(err))
}

// TestAcquire_RefusesLiveOwner verifies a marker owned by a live process
// blocks the run.
func TestAcquire_RefusesLiveOwner(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	markerPath := filepath.Join(dir, MarkerFilename)

	// The test process itself is as live as it gets.
	require.NoError(t, os.WriteFile(markerPath, []byte(strconv.Itoa(os.Getpid())), 0o644))

	_, err := Acquire(context.Background(), dir)
	require.ErrorIs(t, err, ErrAlreadyRunning)
}

// TestAcquire_ReclaimsStaleMarker verifies markers of dead processes are
// reclaimed.
func TestAcquire_ReclaimsStaleMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	markerPath := filepath.Join(dir, MarkerFilename)

	// A pid far above any real pid space on test machines.
	require.NoError(t, os.WriteFile(markerPath, []byte("999999999"), 0o644))

	unlock, err := Acquire(context.Background(), dir)
	require.NoError(t, err)

	t.Cleanup(unlock)

	contents, err := os.ReadFile(markerPath)
	require.NoError(t, err)
	require.Equal(t, strconv.Itoa(os.Getpid()), string(contents))
}

// TestAcquire_ReclaimsMalformedMarker verifies garbage markers do not block
// the run.
func TestAcquire_ReclaimsMalformedMarker(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, MarkerFilename), []byte("not a pid"), 0o644))

	unlock, err := Acquire(context.Background(), dir)
	require.NoError(t, err)

	t.Cleanup(unlock)
}
