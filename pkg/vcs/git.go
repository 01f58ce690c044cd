// Package vcs runs version control operations on castles through the git
// CLI. Every command targets a specific checkout with "git -C <dir>".
package vcs

import (
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/homesick/pkg/errors"
	"github.com/arthur-debert/homesick/pkg/logging"
	"github.com/arthur-debert/homesick/pkg/types"
	"github.com/rs/zerolog"
)

// Repository is a git checkout at a specific directory
type Repository struct {
	dir    string
	logger zerolog.Logger
}

// NewRepository returns a Repository targeting dir
func NewRepository(dir string) *Repository {
	return &Repository{
		dir:    dir,
		logger: logging.GetLogger("vcs").With().Str("dir", dir).Logger(),
	}
}

// Open implements types.VCSOpener
func Open(dir string) types.VCS {
	return NewRepository(dir)
}

// Dir returns the repository directory
func (r *Repository) Dir() string {
	return r.dir
}

// Run executes a git command against the repository and returns stdout.
// Stderr is included in the error on failure.
func (r *Repository) Run(ctx context.Context, args ...string) (string, error) {
	var stdout, stderr bytes.Buffer
	command := r.Command(ctx, args...)
	command.Stdout = &stdout
	command.Stderr = &stderr

	r.logger.Debug().Strs("args", args).Msg("Running git")
	if err := command.Run(); err != nil {
		return "", errors.Wrapf(err, errors.ErrVCS, "git %s in %s failed (stderr: %s)",
			strings.Join(args, " "), r.dir, strings.TrimSpace(stderr.String())).
			WithDetail("dir", r.dir)
	}
	return stdout.String(), nil
}

// RunAttached executes a git command wired to the terminal, for commands
// that open an editor or report progress
func (r *Repository) RunAttached(ctx context.Context, args ...string) error {
	command := r.Command(ctx, args...)
	command.Stdin = os.Stdin
	command.Stdout = os.Stdout
	command.Stderr = os.Stderr

	r.logger.Debug().Strs("args", args).Msg("Running git attached")
	if err := command.Run(); err != nil {
		return errors.Wrapf(err, errors.ErrVCS, "git %s in %s failed", strings.Join(args, " "), r.dir).
			WithDetail("dir", r.dir)
	}
	return nil
}

// Command returns the git command without running it
func (r *Repository) Command(ctx context.Context, args ...string) *exec.Cmd {
	fullArgs := append([]string{"-C", r.dir}, args...)
	return exec.CommandContext(ctx, "git", fullArgs...)
}

// Clone clones uri into destination, relative to the repository directory
func (r *Repository) Clone(ctx context.Context, uri, destination string) error {
	args := []string{"clone", "--quiet", uri}
	if destination != "" {
		args = append(args, destination)
	}
	_, err := r.Run(ctx, args...)
	return err
}

// Init creates an empty repository
func (r *Repository) Init(ctx context.Context) error {
	_, err := r.Run(ctx, "init", "--quiet")
	return err
}

// Pull fetches and merges the tracked upstream
func (r *Repository) Pull(ctx context.Context) error {
	_, err := r.Run(ctx, "pull", "--quiet")
	return err
}

// Push pushes to the tracked upstream
func (r *Repository) Push(ctx context.Context) error {
	_, err := r.Run(ctx, "push", "--quiet")
	return err
}

// CommitAll commits every tracked change. Without a message git opens the
// user's editor.
func (r *Repository) CommitAll(ctx context.Context, message string) error {
	if message == "" {
		return r.RunAttached(ctx, "commit", "-a", "-v")
	}
	_, err := r.Run(ctx, "commit", "-a", "-m", message)
	return err
}

// SubmoduleInit registers submodules listed in .gitmodules
func (r *Repository) SubmoduleInit(ctx context.Context) error {
	_, err := r.Run(ctx, "submodule", "--quiet", "init")
	return err
}

// SubmoduleUpdate checks out registered submodules
func (r *Repository) SubmoduleUpdate(ctx context.Context) error {
	_, err := r.Run(ctx, "submodule", "--quiet", "update")
	return err
}

// Add stages path
func (r *Repository) Add(ctx context.Context, path string) error {
	_, err := r.Run(ctx, "add", "--", path)
	return err
}

// RemoteAdd adds a named remote
func (r *Repository) RemoteAdd(ctx context.Context, name, url string) error {
	_, err := r.Run(ctx, "remote", "add", name, url)
	return err
}

// Config returns a configuration value, or "" when it is unset
func (r *Repository) Config(ctx context.Context, key string) (string, error) {
	var stdout, stderr bytes.Buffer
	command := r.Command(ctx, "config", "--get", key)
	command.Stdout = &stdout
	command.Stderr = &stderr

	if err := command.Run(); err != nil {
		var exitErr *exec.ExitError
		// git config exits 1 for a missing key
		if stderrors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", errors.Wrapf(err, errors.ErrVCS, "git config %s in %s failed (stderr: %s)",
			key, r.dir, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}

// String identifies the repository in logs
func (r *Repository) String() string {
	return fmt.Sprintf("git(%s)", r.dir)
}

var _ types.VCS = (*Repository)(nil)
