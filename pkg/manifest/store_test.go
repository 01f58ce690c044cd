// TEST TYPE: Unit Test
// DEPENDENCIES: Memory FS, FakeVCS
// PURPOSE: Test manifest read, idempotent add and remove with staging

package manifest_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/manifest"
	"github.com/arthur-debert/homesick/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) (*testutil.TestEnvironment, *manifest.Store) {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvMemoryOnly)
	env.CreateCastle("castle_repo", testutil.FileTree{})
	return env, manifest.NewStore(env.FS, env.Paths, env.VCS.Open)
}

func TestRead_MissingManifestIsEmpty(t *testing.T) {
	_, store := newStore(t)

	entries, err := store.Read("castle_repo")
	require.NoError(t, err)
	assert.Empty(t, entries)
	assert.NotNil(t, entries)
}

func TestRead_IgnoresBlankLines(t *testing.T) {
	env, store := newStore(t)
	require.NoError(t, env.FS.WriteFile(env.Paths.ManifestPath("castle_repo"),
		[]byte(".config\n\n.local/share\n\n"), 0644))

	entries, err := store.Read("castle_repo")
	require.NoError(t, err)
	assert.Equal(t, []string{".config", ".local/share"}, entries)
}

func TestRead_NormalizesHandEditedEntries(t *testing.T) {
	env, store := newStore(t)
	require.NoError(t, env.FS.WriteFile(env.Paths.ManifestPath("castle_repo"),
		[]byte(".config/\n./.local//share\n"), 0644))
	ctx := context.Background()

	entries, err := store.Read("castle_repo")
	require.NoError(t, err)
	assert.Equal(t, []string{".config", ".local/share"}, entries)

	ok, err := store.Contains("castle_repo", ".config")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, store.Add(ctx, "castle_repo", ".config"))
	entries, err = store.Read("castle_repo")
	require.NoError(t, err)
	assert.Equal(t, []string{".config", ".local/share"}, entries)

	require.NoError(t, store.Remove(ctx, "castle_repo", ".local/share"))
	assert.Equal(t, ".config\n", env.ReadFile(env.Paths.ManifestPath("castle_repo")))
}

func TestRead_UnreadableManifest(t *testing.T) {
	env, store := newStore(t)
	require.NoError(t, env.FS.MkdirAll(env.Paths.ManifestPath("castle_repo"), 0755))

	_, err := store.Read("castle_repo")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrManifestRead))
}

func TestAdd_AppendsAndStages(t *testing.T) {
	env, store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "castle_repo", ".config"))
	require.NoError(t, store.Add(ctx, "castle_repo", ".local/share/"))

	assert.Equal(t, ".config\n.local/share\n", env.ReadFile(env.Paths.ManifestPath("castle_repo")))

	manifestPath := env.Paths.ManifestPath("castle_repo")
	assert.Equal(t, []string{"add " + manifestPath, "add " + manifestPath},
		env.VCS.CallsIn(env.Paths.CastleDir("castle_repo")))
}

func TestAdd_IsIdempotent(t *testing.T) {
	env, store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.Add(ctx, "castle_repo", ".config"))
	require.NoError(t, store.Add(ctx, "castle_repo", ".config"))
	require.NoError(t, store.Add(ctx, "castle_repo", "./.config/"))

	assert.Equal(t, ".config\n", env.ReadFile(env.Paths.ManifestPath("castle_repo")))
}

func TestAdd_KeepsExistingEntriesInOrder(t *testing.T) {
	env, store := newStore(t)
	env.WriteManifest("castle_repo", "b", "a")

	require.NoError(t, store.Add(context.Background(), "castle_repo", "c"))

	entries, err := store.Read("castle_repo")
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "a", "c"}, entries)
}

func TestAdd_StagingFailure(t *testing.T) {
	env, store := newStore(t)
	env.VCS.Errors["add"] = fmt.Errorf("index locked")

	err := store.Add(context.Background(), "castle_repo", ".config")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrVCS))
	// the manifest itself was still written
	assert.Equal(t, ".config\n", env.ReadFile(env.Paths.ManifestPath("castle_repo")))
}

func TestRemove(t *testing.T) {
	tests := []struct {
		name     string
		initial  []string
		remove   string
		expected []string
	}{
		{
			name:     "removes matching entry",
			initial:  []string{".config", ".local/share", ".vim"},
			remove:   ".local/share",
			expected: []string{".config", ".vim"},
		},
		{
			name:     "removes duplicates",
			initial:  []string{".config", ".vim", ".config"},
			remove:   ".config",
			expected: []string{".vim"},
		},
		{
			name:     "absent entry leaves manifest intact",
			initial:  []string{".config"},
			remove:   ".vim",
			expected: []string{".config"},
		},
		{
			name:     "only exact lines match",
			initial:  []string{".config", ".config/fish"},
			remove:   ".config",
			expected: []string{".config/fish"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env, store := newStore(t)
			env.WriteManifest("castle_repo", tt.initial...)

			require.NoError(t, store.Remove(context.Background(), "castle_repo", tt.remove))

			entries, err := store.Read("castle_repo")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, entries)
			assert.Len(t, env.VCS.Calls(), 1)
		})
	}
}

func TestRemove_MissingManifestStillStages(t *testing.T) {
	env, store := newStore(t)

	require.NoError(t, store.Remove(context.Background(), "castle_repo", ".config"))

	assert.False(t, env.Exists(env.Paths.ManifestPath("castle_repo")))
	assert.Equal(t, []string{"add " + env.Paths.ManifestPath("castle_repo")}, env.VCS.Ops())
}

func TestContains(t *testing.T) {
	env, store := newStore(t)
	env.WriteManifest("castle_repo", ".config", ".local/share")

	ok, err := store.Contains("castle_repo", ".local/share")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.Contains("castle_repo", ".local")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestFlockLocker(t *testing.T) {
	locker := manifest.NewFlockLocker()
	path := t.TempDir() + "/.manifest.lock"

	unlock, err := locker.Lock(path)
	require.NoError(t, err)
	unlock()

	// relocking after release does not block
	unlock, err = locker.Lock(path)
	require.NoError(t, err)
	unlock()
}
