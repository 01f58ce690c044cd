// pkg/testutil/environment.go
// DEPENDENCIES: filesystem, paths
// PURPOSE: Orchestrate test environments with a home directory and castles

package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/arthur-debert/homesick/pkg/filesystem"
	"github.com/arthur-debert/homesick/pkg/paths"
	"github.com/arthur-debert/homesick/pkg/types"
)

// EnvType defines the type of test environment
type EnvType int

const (
	EnvMemoryOnly EnvType = iota // Pure in-memory, no symlink support
	EnvIsolated                  // Real filesystem in temp directory
)

// TestEnvironment provides a home directory, a repos root and the
// dependencies homesick components are built from
type TestEnvironment struct {
	// Core paths
	HomeDir  string
	ReposDir string

	// Core dependencies
	FS       types.FS
	Paths    *paths.Paths
	VCS      *FakeVCS
	Prompter *ScriptedPrompter
	Reporter *RecordingReporter

	// Environment type
	Type EnvType

	t *testing.T
}

// NewTestEnvironment creates a new test environment
func NewTestEnvironment(t *testing.T, envType EnvType) *TestEnvironment {
	t.Helper()

	env := &TestEnvironment{
		t:        t,
		Type:     envType,
		VCS:      NewFakeVCS(),
		Prompter: NewScriptedPrompter(),
		Reporter: &RecordingReporter{},
	}

	switch envType {
	case EnvMemoryOnly:
		env.HomeDir = "/virtual/home"
		env.FS = filesystem.NewMemory()
	case EnvIsolated:
		tempDir := t.TempDir()
		// macOS temp dirs live behind a symlink; links are compared textually
		if resolved, err := filepath.EvalSymlinks(tempDir); err == nil {
			tempDir = resolved
		}
		env.HomeDir = filepath.Join(tempDir, "home")
		env.FS = filesystem.NewOS()
	}
	env.ReposDir = filepath.Join(env.HomeDir, paths.DefaultReposDir)

	t.Setenv(paths.EnvHome, env.HomeDir)

	if err := env.FS.MkdirAll(env.ReposDir, 0755); err != nil {
		t.Fatalf("Failed to create repos directory: %v", err)
	}

	p, err := paths.New(env.HomeDir, env.ReposDir)
	if err != nil {
		t.Fatalf("Failed to create paths: %v", err)
	}
	env.Paths = p

	return env
}

// FileTree maps a relative path to file content. A key ending in "/"
// creates a directory; a value starting with "->" creates a symlink to the
// rest of the value.
type FileTree map[string]string

// CreateCastle creates a castle with a .git marker and the tree under its
// home subtree. It returns the castle root.
func (env *TestEnvironment) CreateCastle(name string, tree FileTree) string {
	env.t.Helper()

	castleDir := env.Paths.CastleDir(name)
	env.mkdir(filepath.Join(castleDir, paths.GitDir))
	env.mkdir(env.Paths.CastleHome(name))
	env.writeTree(env.Paths.CastleHome(name), tree)
	return castleDir
}

// WriteManifest writes the manifest of a castle, one entry per line
func (env *TestEnvironment) WriteManifest(castle string, entries ...string) {
	env.t.Helper()

	content := ""
	for _, entry := range entries {
		content += entry + "\n"
	}
	if err := env.FS.WriteFile(env.Paths.ManifestPath(castle), []byte(content), 0644); err != nil {
		env.t.Fatalf("Failed to write manifest: %v", err)
	}
}

// WithHomeTree creates the tree relative to the home directory
func (env *TestEnvironment) WithHomeTree(tree FileTree) {
	env.t.Helper()
	env.writeTree(env.HomeDir, tree)
}

// HomePath joins rel onto the home directory
func (env *TestEnvironment) HomePath(rel string) string {
	return filepath.Join(env.HomeDir, rel)
}

// CastlePath joins rel onto the home subtree of a castle
func (env *TestEnvironment) CastlePath(castle, rel string) string {
	return filepath.Join(env.Paths.CastleHome(castle), rel)
}

// ReadLink returns the target of the symlink at rel below home, or ""
// when rel is not a symlink
func (env *TestEnvironment) ReadLink(rel string) string {
	env.t.Helper()

	info, err := env.FS.Lstat(env.HomePath(rel))
	if err != nil || info.Mode()&os.ModeSymlink == 0 {
		return ""
	}
	target, err := env.FS.Readlink(env.HomePath(rel))
	if err != nil {
		return ""
	}
	return target
}

// Exists reports whether path exists without following symlinks
func (env *TestEnvironment) Exists(path string) bool {
	_, err := env.FS.Lstat(path)
	return err == nil
}

// ReadFile returns the content of path, failing the test on error
func (env *TestEnvironment) ReadFile(path string) string {
	env.t.Helper()

	data, err := env.FS.ReadFile(path)
	if err != nil {
		env.t.Fatalf("Failed to read %s: %v", path, err)
	}
	return string(data)
}

func (env *TestEnvironment) writeTree(root string, tree FileTree) {
	env.t.Helper()

	for rel, content := range tree {
		full := filepath.Join(root, rel)
		switch {
		case strings.HasSuffix(rel, "/"):
			env.mkdir(full)
		case strings.HasPrefix(content, "->"):
			env.mkdir(filepath.Dir(full))
			if err := env.FS.Symlink(strings.TrimPrefix(content, "->"), full); err != nil {
				env.t.Fatalf("Failed to create symlink %s: %v", full, err)
			}
		default:
			env.mkdir(filepath.Dir(full))
			if err := env.FS.WriteFile(full, []byte(content), 0644); err != nil {
				env.t.Fatalf("Failed to write file %s: %v", full, err)
			}
		}
	}
}

func (env *TestEnvironment) mkdir(dir string) {
	env.t.Helper()
	if err := env.FS.MkdirAll(dir, 0755); err != nil {
		env.t.Fatalf("Failed to create directory %s: %v", dir, err)
	}
}
