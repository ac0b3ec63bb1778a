package integration

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
	"github.com/stretchr/testify/require"

	"github.com/netopt-project/netopt-release/internal/config"
	"github.com/netopt-project/netopt-release/internal/domain/release"
	"github.com/netopt-project/netopt-release/internal/publisher"
	"github.com/netopt-project/netopt-release/internal/runlock"
	"github.com/netopt-project/netopt-release/internal/service/build"
	"github.com/netopt-project/netopt-release/internal/service/publish"
)

// fakeWorld simulates every external tool the pipeline shells out to:
// rustup, cargo, the cross-linker probe, git and gh. Successful cargo runs
// write binaries into the conventional compiler output path under root.
type fakeWorld struct {
	mu            sync.Mutex
	root          string
	linkerMissing bool
	tagExists     bool
	notesBody     []byte
	calls         []string
}

func (f *fakeWorld) Run(_ context.Context, _, name string, args ...string) ([]byte, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")

	f.mu.Lock()
	f.calls = append(f.calls, cmd)
	f.mu.Unlock()

	switch {
	case cmd == "rustup target list --installed":
		return []byte(strings.Join(allTriples(), "\n")), nil
	case strings.HasPrefix(cmd, "rustup target add "):
		return nil, nil
	case strings.HasPrefix(cmd, "cargo build --release --target "):
		return nil, f.writeArtifacts(release.Target(args[len(args)-1]))
	case strings.HasPrefix(cmd, "gh auth status"):
		return nil, nil
	case strings.HasPrefix(cmd, "git tag -l"):
		if f.tagExists {
			return []byte(args[len(args)-1] + "\n"), nil
		}

		return nil, nil
	case strings.HasPrefix(cmd, "git tag -a"), strings.HasPrefix(cmd, "git push"):
		return nil, nil
	case strings.HasPrefix(cmd, "gh release create"):
		// The notes file is deleted once publishing returns, so grab it now.
		f.captureNotes(args)

		return []byte("https://github.com/netopt-project/netopt/releases/tag/" + args[2] + "\n"), nil
	default:
		return nil, fmt.Errorf("unexpected command: %s", cmd)
	}
}

func (f *fakeWorld) writeArtifacts(target release.Target) error {
	dir := target.ArtifactDir(f.root)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	gui := filepath.Join(dir, target.BinaryName("netopt-gui"))
	if err := os.WriteFile(gui, []byte("gui-"+string(target)), 0o755); err != nil {
		return err
	}

	service := filepath.Join(dir, target.BinaryName("netopt-service"))

	return os.WriteFile(service, []byte("service"), 0o755)
}

func (f *fakeWorld) captureNotes(args []string) {
	for i, arg := range args {
		if arg == "--notes-file" && i+1 < len(args) {
			f.notesBody, _ = os.ReadFile(args[i+1])
		}
	}
}

func (f *fakeWorld) LookPath(name string) (string, error) {
	if f.linkerMissing && name == "x86_64-w64-mingw32-gcc" {
		return "", errors.New("executable file not found in $PATH")
	}

	return "/usr/bin/" + name, nil
}

func (f *fakeWorld) commandsMatching(prefix string) []string {
	f.mu.Lock()
	defer f.mu.Unlock()

	matched := make([]string, 0, len(f.calls))

	for _, call := range f.calls {
		if strings.HasPrefix(call, prefix) {
			matched = append(matched, call)
		}
	}

	return matched
}

func allTriples() []string {
	targets := release.Targets()
	triples := make([]string, 0, len(targets))

	for _, target := range targets {
		triples = append(triples, string(target))
	}

	return triples
}

// newReleaseSetup prepares a project root with a settings file and returns
// the configuration together with the simulated tool host.
func newReleaseSetup(t *testing.T) (*config.Config, string, *fakeWorld) {
	t.Helper()

	root := t.TempDir()

	cfg := config.Default()
	cfg.ProjectRoot = root
	cfg.OutputDir = filepath.Join(root, "release")

	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("# NetOpt"), 0o644))

	configPath := filepath.Join(root, config.DefaultConfigFilename)
	require.NoError(t, config.Save(configPath, cfg))

	return cfg, configPath, &fakeWorld{root: root}
}

// TestRelease_BuildThenPublish drives both commands back to back and checks
// the release call carries every artifact the build produced.
func TestRelease_BuildThenPublish(t *testing.T) {
	t.Parallel()

	cfg, configPath, world := newReleaseSetup(t)

	buildOptions := &build.Options{ConfigPath: configPath, Version: "1.2.0", Runner: world}
	require.NoError(t, build.Run(context.Background(), buildOptions))

	require.Len(t, world.commandsMatching("cargo build"), 3)

	publishOptions := &publish.Options{ConfigPath: configPath, Version: "1.2.0", Runner: world}
	require.NoError(t, publish.Run(context.Background(), publishOptions))

	releases := world.commandsMatching("gh release create v1.2.0")
	require.Len(t, releases, 1)
	require.Contains(t, releases[0], "--title NetOpt 1.2.0")

	for _, name := range []string{
		"netopt-1.2.0-x86_64-apple-darwin.tar.gz",
		"netopt-1.2.0-aarch64-apple-darwin.tar.gz",
		"netopt-1.2.0-x86_64-pc-windows-gnu.zip",
		release.ManifestName,
	} {
		require.Contains(t, releases[0], name)
	}

	require.Len(t, world.commandsMatching("git tag -a v1.2.0"), 1)
	require.Len(t, world.commandsMatching("git push origin v1.2.0"), 1)

	// The notes carry the bilingual body and the download table.
	notes := string(world.notesBody)
	require.Contains(t, notes, "# NetOpt 1.2.0")
	require.Contains(t, notes, "新功能")
	require.Contains(t, notes, "netopt-1.2.0-x86_64-pc-windows-gnu.zip")

	// Both runs release the lock on the shared project root.
	_, err := os.Stat(filepath.Join(cfg.ProjectRoot, runlock.MarkerFilename))
	require.True(t, os.IsNotExist(err))
}

// TestRelease_PartialMatrixFlow covers a 1.2.0 run on a machine without the
// Windows cross-linker: two macOS archives ship, the manifest lists exactly
// those, and the release attaches no zip.
func TestRelease_PartialMatrixFlow(t *testing.T) {
	t.Parallel()

	cfg, configPath, world := newReleaseSetup(t)
	world.linkerMissing = true

	buildOptions := &build.Options{ConfigPath: configPath, Version: "1.2.0", Runner: world}
	require.NoError(t, build.Run(context.Background(), buildOptions))

	manifest, err := os.ReadFile(filepath.Join(cfg.OutputDir, release.ManifestName))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(manifest)), "\n")
	require.Len(t, lines, 2)
	require.NotContains(t, string(manifest), "windows")

	publishOptions := &publish.Options{ConfigPath: configPath, Version: "1.2.0", Runner: world}
	require.NoError(t, publish.Run(context.Background(), publishOptions))

	releases := world.commandsMatching("gh release create v1.2.0")
	require.Len(t, releases, 1)
	require.Contains(t, releases[0], "netopt-1.2.0-x86_64-apple-darwin.tar.gz")
	require.Contains(t, releases[0], "netopt-1.2.0-aarch64-apple-darwin.tar.gz")
	require.NotContains(t, releases[0], ".zip")
}

// TestRelease_PublishBeforeBuild verifies publishing an empty workspace
// fails without reaching any external tool.
func TestRelease_PublishBeforeBuild(t *testing.T) {
	t.Parallel()

	_, configPath, world := newReleaseSetup(t)

	publishOptions := &publish.Options{ConfigPath: configPath, Version: "1.2.0", Runner: world}

	err := publish.Run(context.Background(), publishOptions)
	require.ErrorIs(t, err, publisher.ErrNoArtifacts)
	require.Empty(t, world.calls)
}

// TestRelease_ZeroConfigBuild runs the build in a bare workspace without a
// settings file; the built-in defaults carry the whole run.
func TestRelease_ZeroConfigBuild(t *testing.T) {
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	world := &fakeWorld{root: "."}

	options := &build.Options{Version: "1.2.0", Runner: world}
	require.NoError(t, build.Run(context.Background(), options))

	require.Len(t, world.commandsMatching("cargo build"), 3)

	for _, name := range []string{
		"netopt-1.2.0-x86_64-apple-darwin.tar.gz",
		"netopt-1.2.0-aarch64-apple-darwin.tar.gz",
		"netopt-1.2.0-x86_64-pc-windows-gnu.zip",
		release.ManifestName,
	} {
		_, err := os.Stat(filepath.Join(config.DefaultOutputDir, name))
		require.NoError(t, err)
	}
}

// TestRelease_SignedManifestFlow verifies a configured signing key yields a
// clearsigned manifest that publish attaches to the release.
func TestRelease_SignedManifestFlow(t *testing.T) {
	t.Parallel()

	cfg, configPath, world := newReleaseSetup(t)

	keyPath := filepath.Join(cfg.ProjectRoot, "release-key.asc")
	require.NoError(t, os.WriteFile(keyPath, newArmoredKey(t), 0o600))

	cfg.Signing = config.Signing{KeyFile: keyPath}
	require.NoError(t, config.Save(configPath, cfg))

	buildOptions := &build.Options{ConfigPath: configPath, Version: "1.2.0", Runner: world}
	require.NoError(t, build.Run(context.Background(), buildOptions))

	_, err := os.Stat(filepath.Join(cfg.OutputDir, release.SignatureName))
	require.NoError(t, err)

	publishOptions := &publish.Options{ConfigPath: configPath, Version: "1.2.0", Runner: world}
	require.NoError(t, publish.Run(context.Background(), publishOptions))

	releases := world.commandsMatching("gh release create v1.2.0")
	require.Len(t, releases, 1)
	require.Contains(t, releases[0], release.SignatureName)
}

// newArmoredKey generates a fresh private key in armored form.
func newArmoredKey(t *testing.T) []byte {
	t.Helper()

	entity, err := openpgp.NewEntity("NetOpt Release", "", "release@netopt.example", nil)
	require.NoError(t, err)

	var buf bytes.Buffer

	w, err := armor.Encode(&buf, openpgp.PrivateKeyType, nil)
	require.NoError(t, err)
	require.NoError(t, entity.SerializePrivate(w, nil))
	require.NoError(t, w.Close())

	return buf.Bytes()
}
