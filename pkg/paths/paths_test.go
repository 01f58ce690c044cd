// pkg/paths/paths_test.go
// TEST TYPE: Unit Test
// DEPENDENCIES: Real filesystem (temp dir) for castle checks
// PURPOSE: Verify path resolution for home, repos root and castle layout

package paths_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/filesystem"
	"github.com/arthur-debert/homesick/pkg/paths"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	p, err := paths.New("/home/user", "")
	require.NoError(t, err)

	assert.Equal(t, "/home/user", p.HomeDir())
	assert.Equal(t, "/home/user/.homesick/repos", p.ReposDir())
}

func TestNew_FromEnvironment(t *testing.T) {
	t.Setenv("HOME", "/env/home")

	p, err := paths.New("", "")
	require.NoError(t, err)

	assert.Equal(t, "/env/home", p.HomeDir())
	assert.Equal(t, "/env/home/.homesick/repos", p.ReposDir())
}

func TestNew_ReposDirExpandsHome(t *testing.T) {
	p, err := paths.New("/home/user", "~/castles")
	require.NoError(t, err)

	assert.Equal(t, "/home/user/castles", p.ReposDir())
}

func TestCastleLayout(t *testing.T) {
	p, err := paths.New("/home/user", "/repos")
	require.NoError(t, err)

	assert.Equal(t, "/repos/glencairn", p.CastleDir("glencairn"))
	assert.Equal(t, "/repos/glencairn/home", p.CastleHome("glencairn"))
	assert.Equal(t, "/repos/glencairn/.manifest", p.ManifestPath("glencairn"))
	assert.Equal(t, "/repos/glencairn/.manifest.lock", p.ManifestLockPath("glencairn"))
	assert.Equal(t, "/repos/wfarr/dotfiles/home", p.CastleHome("wfarr/dotfiles"))
	assert.Equal(t, "wfarr/dotfiles", p.CastleName("/repos/wfarr/dotfiles"))
}

func TestExpandHome(t *testing.T) {
	p, err := paths.New("/home/user", "")
	require.NoError(t, err)

	tests := []struct {
		in   string
		want string
	}{
		{"~", "/home/user"},
		{"~/.vimrc", "/home/user/.vimrc"},
		{"~other/.vimrc", "~other/.vimrc"},
		{"/etc/hosts", "/etc/hosts"},
		{"relative", "relative"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, p.ExpandHome(tt.in), tt.in)
	}
}

func TestNormalizePath(t *testing.T) {
	p, err := paths.New("/home/user", "")
	require.NoError(t, err)

	got, err := p.NormalizePath("~/some/nested/directory/")
	require.NoError(t, err)
	assert.Equal(t, "/home/user/some/nested/directory", got)

	_, err = p.NormalizePath("")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestHomeRelative(t *testing.T) {
	p, err := paths.New("/home/user", "")
	require.NoError(t, err)

	rel, err := p.HomeRelative("/home/user/some/nested/file.txt")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("some", "nested", "file.txt"), rel)

	for _, outside := range []string{"/home/user", "/home", "/etc/hosts", "/home/username/.vimrc"} {
		_, err := p.HomeRelative(outside)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput), outside)
	}
}

func TestIsInRepos(t *testing.T) {
	p, err := paths.New("/home/user", "/repos")
	require.NoError(t, err)

	assert.True(t, p.IsInRepos("/repos/glencairn"))
	assert.True(t, p.IsInRepos("/repos"))
	assert.False(t, p.IsInRepos("/reposx/glencairn"))
	assert.False(t, p.IsInRepos("/elsewhere/wtf"))
}

func TestCheckCastle(t *testing.T) {
	tmp := t.TempDir()
	p, err := paths.New(filepath.Join(tmp, "home"), filepath.Join(tmp, "repos"))
	require.NoError(t, err)
	fs := filesystem.NewOS()

	require.NoError(t, os.MkdirAll(p.CastleHome("glencairn"), 0755))
	require.NoError(t, os.MkdirAll(p.CastleDir("empty"), 0755))

	assert.NoError(t, p.CheckCastle(fs, "glencairn", "symlink"))

	err = p.CheckCastle(fs, "empty", "symlink")
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrCastleNotFound))
	assert.Contains(t, err.Error(), "Could not symlink empty, expected "+p.CastleHome("empty"))
	assert.Equal(t, p.CastleHome("empty"), errors.GetErrorDetails(err)["expected"])

	err = p.CheckCastle(fs, "../escape", "track")
	assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
}

func TestValidateCastleName(t *testing.T) {
	assert.NoError(t, paths.ValidateCastleName("dotfiles"))
	assert.NoError(t, paths.ValidateCastleName("wfarr/dotfiles"))
	assert.Error(t, paths.ValidateCastleName(""))
	assert.Error(t, paths.ValidateCastleName("/abs"))
	assert.Error(t, paths.ValidateCastleName("a/../../b"))
	assert.Error(t, paths.ValidateCastleName("bad\x01name"))
}

func TestCleanRelative(t *testing.T) {
	assert.Equal(t, "some/nested", paths.CleanRelative("some/nested/"))
	assert.Equal(t, "some/nested", paths.CleanRelative("./some//nested"))
	assert.Equal(t, ".config", paths.CleanRelative(".config"))
}
