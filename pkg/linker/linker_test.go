// TEST TYPE: Integration Test
// DEPENDENCIES: Real FS in temp dir, ScriptedPrompter, RecordingReporter
// PURPOSE: Test link creation and conflict policy

package linker_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homesick/pkg/linker"
	"github.com/arthur-debert/homesick/pkg/overlay"
	"github.com/arthur-debert/homesick/pkg/testutil"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T, tree testutil.FileTree) *testutil.TestEnvironment {
	t.Helper()
	env := testutil.NewTestEnvironment(t, testutil.EnvIsolated)
	env.CreateCastle("glencairn", tree)
	return env
}

func newLinker(env *testutil.TestEnvironment, opts linker.Options) *linker.Linker {
	return linker.New(env.FS, env.HomeDir, env.Prompter, env.Reporter, opts)
}

func symlinkOverlay(t *testing.T, env *testutil.TestEnvironment, opts linker.Options, manifest ...string) *linker.Report {
	t.Helper()
	plan, err := overlay.NewPlanner(env.FS).Plan(env.Paths.CastleHome("glencairn"), manifest)
	require.NoError(t, err)
	report, err := newLinker(env, opts).Apply(plan)
	require.NoError(t, err)
	return report
}

func TestLink_CreatesSymlink(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "set nocompatible"})
	source := env.CastlePath("glencairn", ".vimrc")

	res, err := newLinker(env, linker.Options{}).Link(source, ".vimrc", false)
	require.NoError(t, err)

	assert.Equal(t, linker.Created, res.Outcome)
	assert.Equal(t, source, env.ReadLink(".vimrc"))
	assert.True(t, env.Reporter.Has(types.StatusCreate, env.HomePath(".vimrc")))
}

func TestLink_CreatesMissingParents(t *testing.T) {
	env := setup(t, testutil.FileTree{"some/nested/file.txt": "x"})
	source := env.CastlePath("glencairn", "some/nested/file.txt")

	_, err := newLinker(env, linker.Options{}).Link(source, "some/nested/file.txt", false)
	require.NoError(t, err)

	assert.Equal(t, source, env.ReadLink("some/nested/file.txt"))
	assert.Empty(t, env.ReadLink("some/nested"))
}

func TestLink_ExistingLinkToSourceIsIdentical(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "set nocompatible"})
	source := env.CastlePath("glencairn", ".vimrc")
	require.NoError(t, os.Symlink(source, env.HomePath(".vimrc")))

	res, err := newLinker(env, linker.Options{}).Link(source, ".vimrc", false)
	require.NoError(t, err)

	assert.Equal(t, linker.Identical, res.Outcome)
	assert.Empty(t, env.Prompter.Questions)
}

func TestLink_ConflictDeclinedKeepsDestination(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "set nocompatible\nsyntax on\n"})
	env.WithHomeTree(testutil.FileTree{".vimrc": "set nocompatible\n"})
	env.Prompter.Answer(false)

	res, err := newLinker(env, linker.Options{}).Link(env.CastlePath("glencairn", ".vimrc"), ".vimrc", false)
	require.NoError(t, err)

	assert.Equal(t, linker.Skipped, res.Outcome)
	assert.Equal(t, "set nocompatible\n", env.ReadFile(env.HomePath(".vimrc")))
	assert.Equal(t, []types.Status{types.StatusConflict, types.StatusSkip}, env.Reporter.Statuses())

	require.Len(t, env.Prompter.Questions, 1)
	assert.Contains(t, env.Prompter.Questions[0], "+syntax on")
	assert.Contains(t, env.Prompter.Questions[0], "Overwrite "+env.HomePath(".vimrc")+"?")
}

func TestLink_ConflictAcceptedReplacesDestination(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "syntax on"})
	env.WithHomeTree(testutil.FileTree{".vimrc": "old"})
	env.Prompter.Answer(true)
	source := env.CastlePath("glencairn", ".vimrc")

	res, err := newLinker(env, linker.Options{}).Link(source, ".vimrc", false)
	require.NoError(t, err)

	assert.Equal(t, linker.Replaced, res.Outcome)
	assert.Equal(t, source, env.ReadLink(".vimrc"))
	assert.True(t, env.Reporter.Has(types.StatusForce, env.HomePath(".vimrc")))
}

func TestLink_IdenticalContentIsMentioned(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "same"})
	env.WithHomeTree(testutil.FileTree{".vimrc": "same"})

	_, err := newLinker(env, linker.Options{}).Link(env.CastlePath("glencairn", ".vimrc"), ".vimrc", false)
	require.NoError(t, err)

	require.Len(t, env.Prompter.Questions, 1)
	assert.Contains(t, env.Prompter.Questions[0], "identical content")
}

func TestLink_ForceReplacesWithoutAsking(t *testing.T) {
	tests := []struct {
		name string
		home testutil.FileTree
	}{
		{"regular file", testutil.FileTree{".vim": "file"}},
		{"directory", testutil.FileTree{".vim/colors/x.vim": "dir"}},
		{"foreign symlink", testutil.FileTree{".vim": "->/etc/hosts"}},
		{"dangling symlink", testutil.FileTree{".vim": "->/nonexistent/target"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setup(t, testutil.FileTree{".vim/vimrc": "x"})
			env.WithHomeTree(tt.home)
			source := env.CastlePath("glencairn", ".vim")

			res, err := newLinker(env, linker.Options{Force: true}).Link(source, ".vim", true)
			require.NoError(t, err)

			assert.Equal(t, linker.Replaced, res.Outcome)
			assert.Equal(t, source, env.ReadLink(".vim"))
			assert.Empty(t, env.Prompter.Questions)
		})
	}
}

func TestLink_DanglingSymlinkIsAConflict(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "x"})
	env.WithHomeTree(testutil.FileTree{".vimrc": "->/nonexistent/target"})

	res, err := newLinker(env, linker.Options{}).Link(env.CastlePath("glencairn", ".vimrc"), ".vimrc", false)
	require.NoError(t, err)

	assert.Equal(t, linker.Skipped, res.Outcome)
	assert.Len(t, env.Prompter.Questions, 1)
	assert.Equal(t, "/nonexistent/target", env.ReadLink(".vimrc"))
}

func TestLink_Pretend(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "x", ".zshrc": "y"})
	env.WithHomeTree(testutil.FileTree{".zshrc": "mine"})
	l := newLinker(env, linker.Options{Pretend: true})

	res, err := l.Link(env.CastlePath("glencairn", ".vimrc"), ".vimrc", false)
	require.NoError(t, err)
	assert.Equal(t, linker.Created, res.Outcome)
	assert.False(t, env.Exists(env.HomePath(".vimrc")))

	res, err = l.Link(env.CastlePath("glencairn", ".zshrc"), ".zshrc", false)
	require.NoError(t, err)
	assert.Equal(t, linker.Skipped, res.Outcome)
	assert.Equal(t, "mine", env.ReadFile(env.HomePath(".zshrc")))
	assert.Empty(t, env.Prompter.Questions)
	assert.True(t, env.Reporter.Has(types.StatusCreate, "(pretend)"))
}

func TestApply_TopLevelFile(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "set nocompatible"})

	report := symlinkOverlay(t, env, linker.Options{})

	assert.Equal(t, 1, report.Count(linker.Created))
	assert.Equal(t, env.CastlePath("glencairn", ".vimrc"), env.ReadLink(".vimrc"))
}

func TestApply_MergePointIsRealDirectory(t *testing.T) {
	env := setup(t, testutil.FileTree{"some/nested/file.txt": "content"})

	symlinkOverlay(t, env, linker.Options{}, "some/nested")

	info, err := os.Lstat(env.HomePath("some/nested"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Zero(t, info.Mode()&os.ModeSymlink)
	assert.Equal(t, env.CastlePath("glencairn", "some/nested/file.txt"), env.ReadLink("some/nested/file.txt"))
}

func TestApply_MergePointKeepsUnmanagedSiblings(t *testing.T) {
	env := setup(t, testutil.FileTree{".config/starship.toml": "format = '$all'"})
	env.WithHomeTree(testutil.FileTree{".config/gh/hosts.yml": "github.com: {}"})

	symlinkOverlay(t, env, linker.Options{}, ".config")

	assert.Equal(t, "github.com: {}", env.ReadFile(env.HomePath(".config/gh/hosts.yml")))
	assert.Equal(t, env.CastlePath("glencairn", ".config/starship.toml"), env.ReadLink(".config/starship.toml"))
}

func TestApply_ParentAndDescendantBothListed(t *testing.T) {
	env := setup(t, testutil.FileTree{"some/nested/dir/deeper/inside": "deep"})

	symlinkOverlay(t, env, linker.Options{}, "some/nested", "some/nested/dir/deeper")

	assert.Empty(t, env.ReadLink("some/nested/dir"))
	assert.Equal(t, env.CastlePath("glencairn", "some/nested/dir/deeper/inside"),
		env.ReadLink("some/nested/dir/deeper/inside"))
}

func TestApply_IsRepeatable(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "x", ".config/foo.yml": "y"})

	symlinkOverlay(t, env, linker.Options{}, ".config")
	report := symlinkOverlay(t, env, linker.Options{}, ".config")

	assert.Equal(t, 2, report.Count(linker.Identical))
	assert.Empty(t, env.Prompter.Questions)
}

func TestApply_SymlinkedMergePointIsNotWrittenThrough(t *testing.T) {
	env := setup(t, testutil.FileTree{".config/foo.yml": "castle content"})
	// left over from linking .config as a whole
	require.NoError(t, os.Symlink(env.CastlePath("glencairn", ".config"), env.HomePath(".config")))
	env.Prompter.Answer(false)

	plan, err := overlay.NewPlanner(env.FS).Plan(env.Paths.CastleHome("glencairn"), []string{".config"})
	require.NoError(t, err)
	report, err := newLinker(env, linker.Options{}).Apply(plan)
	require.NoError(t, err)

	assert.Equal(t, 1, report.Count(linker.Skipped))
	assert.Equal(t, "castle content", env.ReadFile(env.CastlePath("glencairn", ".config/foo.yml")))
	assert.Equal(t, env.CastlePath("glencairn", ".config"), env.ReadLink(".config"))
}

func TestApply_ForcedSymlinkedMergePointBecomesDirectory(t *testing.T) {
	env := setup(t, testutil.FileTree{".config/foo.yml": "castle content"})
	require.NoError(t, os.Symlink(env.CastlePath("glencairn", ".config"), env.HomePath(".config")))

	symlinkOverlay(t, env, linker.Options{Force: true}, ".config")

	assert.Equal(t, "castle content", env.ReadFile(env.CastlePath("glencairn", ".config/foo.yml")))
	assert.Empty(t, env.ReadLink(".config"))
	assert.Equal(t, env.CastlePath("glencairn", ".config/foo.yml"), env.ReadLink(".config/foo.yml"))
}

func TestApply_ContinuesAfterFailures(t *testing.T) {
	env := setup(t, testutil.FileTree{".a": "1", ".b": "2", ".c": "3"})
	env.WithHomeTree(testutil.FileTree{".a": "mine", ".b": "mine"})
	env.Prompter.Err = errors.New("no terminal")

	plan, err := overlay.NewPlanner(env.FS).Plan(env.Paths.CastleHome("glencairn"), nil)
	require.NoError(t, err)
	report, err := newLinker(env, linker.Options{}).Apply(plan)

	require.Error(t, err)
	assert.Contains(t, err.Error(), filepath.Join(env.HomeDir, ".a"))
	assert.Contains(t, err.Error(), filepath.Join(env.HomeDir, ".b"))
	assert.Equal(t, 2, report.Count(linker.Failed))
	assert.Equal(t, 1, report.Count(linker.Created))
	assert.Equal(t, env.CastlePath("glencairn", ".c"), env.ReadLink(".c"))
}

func TestApply_ReportsMissingManifestEntries(t *testing.T) {
	env := setup(t, testutil.FileTree{".vimrc": "x"})

	symlinkOverlay(t, env, linker.Options{}, ".config/gone")

	assert.True(t, env.Reporter.Has(types.StatusSkip, ".config/gone"))
}

func TestOutcome_String(t *testing.T) {
	tests := []struct {
		outcome linker.Outcome
		want    string
	}{
		{linker.Created, "created"},
		{linker.Identical, "identical"},
		{linker.Replaced, "replaced"},
		{linker.Skipped, "skipped"},
		{linker.Failed, "failed"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.outcome.String())
		})
	}
}
