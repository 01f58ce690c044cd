package castle

import (
	"context"
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"sort"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/logging"
	"github.com/arthur-debert/homesick/pkg/paths"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/rs/zerolog"
)

// DefaultGithubHost serves shorthand sources and generated remotes
const DefaultGithubHost = "github.com"

// RCRunner executes a castle's setup script from within the castle
type RCRunner func(ctx context.Context, castleDir, script string) error

// RunShell runs the setup script with sh, attached to the terminal
func RunShell(ctx context.Context, castleDir, script string) error {
	command := exec.CommandContext(ctx, "sh", script)
	command.Dir = castleDir
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr
	return command.Run()
}

// Options configure a Manager
type Options struct {
	GithubHost string
	Pretend    bool
	RunRC      RCRunner
}

// Castle is a checkout under the repositories root
type Castle struct {
	// Name is the path relative to the repositories root
	Name string
	Dir  string
}

// Entry is a listed castle
type Entry struct {
	Name   string `json:"name" yaml:"name"`
	Remote string `json:"remote" yaml:"remote"`
}

// Manager runs castle level operations
type Manager struct {
	fs         types.FS
	paths      *paths.Paths
	openVCS    types.VCSOpener
	prompter   types.Prompter
	reporter   types.Reporter
	githubHost string
	pretend    bool
	runRC      RCRunner
	logger     zerolog.Logger
}

// NewManager creates a castle manager
func NewManager(fsys types.FS, p *paths.Paths, openVCS types.VCSOpener,
	prompter types.Prompter, reporter types.Reporter, opts Options) *Manager {
	m := &Manager{
		fs:         fsys,
		paths:      p,
		openVCS:    openVCS,
		prompter:   prompter,
		reporter:   reporter,
		githubHost: opts.GithubHost,
		pretend:    opts.Pretend,
		runRC:      opts.RunRC,
		logger:     logging.GetLogger("castle"),
	}
	if m.githubHost == "" {
		m.githubHost = DefaultGithubHost
	}
	if m.runRC == nil {
		m.runRC = RunShell
	}
	return m
}

// Discover returns every castle under the repositories root, sorted by
// name. A directory holding a .git entry is a castle and is not searched
// further, so submodules are not reported. Symlinked castles directly
// under the root are followed.
func (m *Manager) Discover() ([]Castle, error) {
	root := m.paths.ReposDir()
	if _, err := m.fs.Stat(root); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to access %s", root)
	}

	var castles []Castle
	if err := m.discover(root, true, &castles); err != nil {
		return nil, err
	}
	sort.Slice(castles, func(i, j int) bool { return castles[i].Name < castles[j].Name })

	m.logger.Debug().Int("count", len(castles)).Msg("Discovered castles")
	return castles, nil
}

func (m *Manager) discover(dir string, top bool, out *[]Castle) error {
	entries, err := m.fs.ReadDir(dir)
	if err != nil {
		return errors.Wrapf(err, errors.ErrFileAccess, "failed to list %s", dir)
	}

	for _, entry := range entries {
		child := filepath.Join(dir, entry.Name())
		isDir := entry.IsDir()
		if !isDir && top && entry.Type()&fs.ModeSymlink != 0 {
			if info, err := m.fs.Stat(child); err == nil && info.IsDir() {
				isDir = true
			}
		}
		if !isDir {
			continue
		}

		if _, err := m.fs.Lstat(filepath.Join(child, paths.GitDir)); err == nil {
			*out = append(*out, Castle{Name: m.paths.CastleName(child), Dir: child})
			continue
		}
		if err := m.discover(child, false, out); err != nil {
			return err
		}
	}
	return nil
}

// List returns every castle with its origin remote
func (m *Manager) List(ctx context.Context) ([]Entry, error) {
	castles, err := m.Discover()
	if err != nil {
		return nil, err
	}

	entries := make([]Entry, 0, len(castles))
	for _, c := range castles {
		remote, err := m.openVCS(c.Dir).Config(ctx, "remote.origin.url")
		if err != nil {
			m.logger.Warn().Err(err).Str("castle", c.Name).Msg("Failed to read origin remote")
		}
		entries = append(entries, Entry{Name: c.Name, Remote: remote})
	}
	return entries, nil
}

// Clone brings a castle into the repositories root from uri. Submodules
// are initialized, and a .homesickrc is run after confirmation.
func (m *Manager) Clone(ctx context.Context, uri string) (*Castle, error) {
	src, err := m.ParseSource(uri)
	if err != nil {
		return nil, err
	}
	if err := paths.ValidateCastleName(src.Destination); err != nil {
		return nil, errors.Newf(errors.ErrMalformedURI, "Unknown URI format: %s", uri).WithDetail("uri", uri)
	}

	castle := &Castle{Name: src.Destination, Dir: m.paths.CastleDir(src.Destination)}
	logger := m.logger.With().Str("uri", src.URI).Str("castle", castle.Name).Logger()

	if m.pretend {
		m.say(types.StatusClone, fmt.Sprintf("%s to %s (pretend)", src.URI, castle.Dir))
		return castle, nil
	}

	if err := m.fs.MkdirAll(m.paths.ReposDir(), 0755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", m.paths.ReposDir())
	}

	if _, err := m.fs.Lstat(castle.Dir); err == nil {
		m.say(types.StatusExist, castle.Dir)
	} else if src.Kind == LocalPath {
		if err := m.fs.Symlink(src.URI, castle.Dir); err != nil {
			return nil, errors.Wrapf(err, errors.ErrSymlinkCreate, "failed to link %s to %s", castle.Dir, src.URI)
		}
		m.say(types.StatusCreate, fmt.Sprintf("%s -> %s", castle.Dir, src.URI))
	} else {
		if err := m.fs.MkdirAll(filepath.Dir(castle.Dir), 0755); err != nil {
			return nil, errors.Wrapf(err, errors.ErrDirCreate, "failed to create parent of %s", castle.Dir)
		}
		m.say(types.StatusGit, fmt.Sprintf("clone %s to %s", src.URI, castle.Dir))
		if err := m.openVCS(m.paths.ReposDir()).Clone(ctx, src.URI, castle.Name); err != nil {
			return nil, err
		}
	}
	logger.Info().Msg("Castle cloned")

	if err := m.updateSubmodules(ctx, castle.Dir, false); err != nil {
		return castle, err
	}
	return castle, m.offerRC(ctx, uri, castle)
}

func (m *Manager) offerRC(ctx context.Context, uri string, castle *Castle) error {
	rc := filepath.Join(castle.Dir, paths.RCFile)
	if _, err := m.fs.Stat(rc); err != nil {
		return nil
	}

	proceed := false
	if m.prompter != nil {
		ok, err := m.prompter.Confirm(fmt.Sprintf("%s has a %s. Proceed with evaling it? (This could be destructive)", uri, paths.RCFile))
		if err != nil {
			return errors.Wrapf(err, errors.ErrInternal, "failed to confirm %s", rc)
		}
		proceed = ok
	}
	if !proceed {
		m.say(types.StatusEvalSkip, fmt.Sprintf("not evaling %s, %s may need manual configuration", rc, castle.Name))
		return nil
	}

	m.say(types.StatusEval, rc)
	if err := m.runRC(ctx, castle.Dir, rc); err != nil {
		return errors.Wrapf(err, errors.ErrInternal, "%s failed", rc).WithDetail("castle", castle.Name)
	}
	return nil
}

// updateSubmodules runs submodule init and update when the castle has a
// .gitmodules file, or unconditionally when always is set
func (m *Manager) updateSubmodules(ctx context.Context, dir string, always bool) error {
	if !always {
		if _, err := m.fs.Stat(filepath.Join(dir, paths.GitModulesFile)); err != nil {
			return nil
		}
	}
	repo := m.openVCS(dir)
	if err := repo.SubmoduleInit(ctx); err != nil {
		return err
	}
	return repo.SubmoduleUpdate(ctx)
}

// Pull updates a castle and its submodules
func (m *Manager) Pull(ctx context.Context, name string) error {
	if err := m.paths.CheckCastle(m.fs, name, "pull"); err != nil {
		return err
	}
	dir := m.paths.CastleDir(name)
	if m.pretend {
		m.say(types.StatusGit, "pull "+name+" (pretend)")
		return nil
	}

	m.say(types.StatusGit, "pull "+name)
	if err := m.openVCS(dir).Pull(ctx); err != nil {
		return err
	}
	return m.updateSubmodules(ctx, dir, true)
}

// PullAll updates every castle. A failing castle does not stop the rest.
func (m *Manager) PullAll(ctx context.Context) error {
	castles, err := m.Discover()
	if err != nil {
		return err
	}

	var errs []error
	for _, c := range castles {
		m.say(types.StatusCastle, c.Name+":")
		if err := m.Pull(ctx, c.Name); err != nil {
			m.logger.Error().Err(err).Str("castle", c.Name).Msg("Pull failed")
			m.say(types.StatusError, err.Error())
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

// Commit commits every change in a castle. An empty message opens the
// editor.
func (m *Manager) Commit(ctx context.Context, name, message string) error {
	if err := m.paths.CheckCastle(m.fs, name, "commit"); err != nil {
		return err
	}
	if m.pretend {
		m.say(types.StatusGit, "commit "+name+" (pretend)")
		return nil
	}
	m.say(types.StatusGit, "commit "+name)
	return m.openVCS(m.paths.CastleDir(name)).CommitAll(ctx, message)
}

// Push pushes a castle to its upstream
func (m *Manager) Push(ctx context.Context, name string) error {
	if err := m.paths.CheckCastle(m.fs, name, "push"); err != nil {
		return err
	}
	if m.pretend {
		m.say(types.StatusGit, "push "+name+" (pretend)")
		return nil
	}
	m.say(types.StatusGit, "push "+name)
	return m.openVCS(m.paths.CastleDir(name)).Push(ctx)
}

// Generate creates a new castle repository at path with an empty home
// subtree. When github.user is configured an origin remote is added.
func (m *Manager) Generate(ctx context.Context, path string) (string, error) {
	dir, err := m.paths.NormalizePath(path)
	if err != nil {
		return "", err
	}
	if m.pretend {
		m.say(types.StatusCreate, dir+" (pretend)")
		return dir, nil
	}

	if err := m.fs.MkdirAll(dir, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", dir)
	}
	m.say(types.StatusCreate, dir)

	repo := m.openVCS(dir)
	m.say(types.StatusGit, "init")
	if err := repo.Init(ctx); err != nil {
		return "", err
	}

	user, err := repo.Config(ctx, "github.user")
	if err != nil {
		return "", err
	}
	if user != "" {
		url := fmt.Sprintf("git@%s:%s/%s.git", m.githubHost, user, filepath.Base(dir))
		m.say(types.StatusGit, "remote add origin "+url)
		if err := repo.RemoteAdd(ctx, "origin", url); err != nil {
			return "", err
		}
	}

	home := filepath.Join(dir, paths.CastleHomeDir)
	if err := m.fs.MkdirAll(home, 0755); err != nil {
		return "", errors.Wrapf(err, errors.ErrDirCreate, "failed to create %s", home)
	}
	m.say(types.StatusCreate, home)

	m.logger.Info().Str("dir", dir).Str("github_user", user).Msg("Castle generated")
	return dir, nil
}

func (m *Manager) say(status types.Status, msg string) {
	if m.reporter != nil {
		m.reporter.Say(status, msg)
	}
}
