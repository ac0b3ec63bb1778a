package vcs

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	outputs  map[string]string
	failures map[string]error
	calls    []string
}

func (f *fakeRunner) Run(_ context.Context, _, name string, args ...string) ([]byte, error) {
	cmd := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, cmd)

	return []byte(f.outputs[cmd]), f.failures[cmd]
}

func (f *fakeRunner) LookPath(name string) (string, error) {
	return "/usr/bin/" + name, nil
}

// TestEnsureTag_CreatesAndPushes verifies the creation flow and tag message.
func TestEnsureTag_CreatesAndPushes(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{}
	m := NewTagManager(runner, ".", "origin")

	require.NoError(t, m.EnsureTag(context.Background(), "1.2.0"))
	require.Equal(t, []string{
		"git tag -l v1.2.0",
		"git tag -a v1.2.0 -m Release 1.2.0",
		"git push origin v1.2.0",
	}, runner.calls)
}

// TestEnsureTag_Idempotent verifies an existing tag skips creation and push.
func TestEnsureTag_Idempotent(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		outputs: map[string]string{"git tag -l v1.2.0": "v1.2.0\n"},
	}
	m := NewTagManager(runner, ".", "origin")

	require.NoError(t, m.EnsureTag(context.Background(), "1.2.0"))
	require.Equal(t, []string{"git tag -l v1.2.0"}, runner.calls)
}

// TestEnsureTag_PushFailure verifies push errors surface to the caller.
func TestEnsureTag_PushFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		failures: map[string]error{
			"git push upstream v2.0.0": errors.New("remote unreachable"),
		},
	}
	m := NewTagManager(runner, ".", "upstream")

	err := m.EnsureTag(context.Background(), "2.0.0")
	require.Error(t, err)
	require.Contains(t, err.Error(), "push tag v2.0.0")
}

// TestEnsureTag_ListFailure verifies a broken git surfaces immediately.
func TestEnsureTag_ListFailure(t *testing.T) {
	t.Parallel()

	runner := &fakeRunner{
		failures: map[string]error{
			"git tag -l v1.0.0": errors.New("not a git repository"),
		},
	}
	m := NewTagManager(runner, ".", "origin")

	require.Error(t, m.EnsureTag(context.Background(), "1.0.0"))
}
