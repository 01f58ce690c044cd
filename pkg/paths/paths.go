package paths

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/types"
)

// Environment variable names
const (
	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Castle layout names. These are part of the on-disk contract with
// existing castles and are not configurable.
const (
	// CastleHomeDir is the subtree of a castle mirrored into the home directory
	CastleHomeDir = "home"

	// ManifestFile is the merge-point manifest, a sibling of CastleHomeDir
	ManifestFile = ".manifest"

	// ManifestLockFile guards manifest rewrites
	ManifestLockFile = ".manifest.lock"

	// RCFile is the per-castle setup script offered after clone
	RCFile = ".homesickrc"

	// GitModulesFile marks a castle with submodules
	GitModulesFile = ".gitmodules"

	// GitDir marks a castle root
	GitDir = ".git"

	// DefaultReposDir is the repositories root relative to the home directory
	DefaultReposDir = ".homesick/repos"
)

// Paths resolves every location homesick works with
type Paths struct {
	homeDir  string
	reposDir string
}

// New creates a Paths value. An empty homeDir resolves to the user's
// home directory; an empty reposDir to <home>/.homesick/repos.
func New(homeDir, reposDir string) (*Paths, error) {
	if homeDir == "" {
		h, err := GetHomeDirectory()
		if err != nil {
			return nil, err
		}
		homeDir = h
	}
	absHome, err := filepath.Abs(homeDir)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for home directory")
	}

	p := &Paths{homeDir: filepath.Clean(absHome)}

	if reposDir == "" {
		reposDir = filepath.Join(p.homeDir, DefaultReposDir)
	}
	absRepos, err := filepath.Abs(p.ExpandHome(reposDir))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path for repos directory")
	}
	p.reposDir = filepath.Clean(absRepos)

	return p, nil
}

// HomeDir returns the directory links are projected into
func (p *Paths) HomeDir() string {
	return p.homeDir
}

// ReposDir returns the directory castles are cloned into
func (p *Paths) ReposDir() string {
	return p.reposDir
}

// CastleDir returns the repository root of a castle
func (p *Paths) CastleDir(name string) string {
	return filepath.Join(p.reposDir, name)
}

// CastleHome returns the home subtree of a castle
func (p *Paths) CastleHome(name string) string {
	return filepath.Join(p.CastleDir(name), CastleHomeDir)
}

// ManifestPath returns the manifest file of a castle
func (p *Paths) ManifestPath(name string) string {
	return filepath.Join(p.CastleDir(name), ManifestFile)
}

// ManifestLockPath returns the lock file guarding the manifest of a castle
func (p *Paths) ManifestLockPath(name string) string {
	return filepath.Join(p.CastleDir(name), ManifestLockFile)
}

// CastleName returns the castle name of a castle root directory
func (p *Paths) CastleName(castleDir string) string {
	rel, err := filepath.Rel(p.reposDir, castleDir)
	if err != nil {
		return filepath.Base(castleDir)
	}
	return filepath.ToSlash(rel)
}

// ExpandHome expands a leading ~ to the configured home directory
func (p *Paths) ExpandHome(path string) string {
	if path == "~" {
		return p.homeDir
	}
	if strings.HasPrefix(path, "~/") || strings.HasPrefix(path, "~"+string(filepath.Separator)) {
		return filepath.Join(p.homeDir, path[2:])
	}
	return path
}

// NormalizePath expands ~, makes the path absolute, cleans it and drops
// trailing separators
func (p *Paths) NormalizePath(path string) (string, error) {
	if err := ValidatePath(path); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(p.ExpandHome(path))
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get absolute path")
	}
	return filepath.Clean(abs), nil
}

// HomeRelative returns path relative to the home directory. Paths outside
// the home directory, and the home directory itself, are rejected.
func (p *Paths) HomeRelative(path string) (string, error) {
	rel, err := filepath.Rel(p.homeDir, path)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", errors.Newf(errors.ErrInvalidInput, "%s is not inside the home directory %s", path, p.homeDir).
			WithDetail("path", path)
	}
	return rel, nil
}

// IsInRepos reports whether path lies inside the repositories root
func (p *Paths) IsInRepos(path string) bool {
	rel, err := filepath.Rel(p.reposDir, path)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}

// CheckCastle fails with ErrCastleNotFound when the castle has no home subtree
func (p *Paths) CheckCastle(fs types.FS, name, action string) error {
	if err := ValidateCastleName(name); err != nil {
		return err
	}

	castleHome := p.CastleHome(name)
	info, err := fs.Stat(castleHome)
	if err != nil || !info.IsDir() {
		return errors.Newf(errors.ErrCastleNotFound,
			"Could not %s %s, expected %s exist and contain dotfiles", action, name, castleHome).
			WithDetail("castle", name).
			WithDetail("expected", castleHome)
	}
	return nil
}

// GetHomeDirectory returns the user's home directory with proper error handling
func GetHomeDirectory() (string, error) {
	if home := os.Getenv(EnvHome); home != "" {
		return home, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrapf(err, errors.ErrFileAccess, "failed to get home directory")
	}
	return homeDir, nil
}
